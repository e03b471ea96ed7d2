package model

// Document kind prefixes. They key the numbering sequences and fix the
// document number format "<PREFIX>-<YEAR>-<NNNN>".
const (
	KindFacturaVenta  = "FV"
	KindFacturaCompra = "FC"
	KindPresupuesto   = "PPTO"
)

// DocumentSequence is a server-owned monotonic counter per (kind, year).
// Numbers are allocated by incrementing LastNumber inside the transaction that
// persists the document, so concurrent creates can never collide.
type DocumentSequence struct {
	Kind       string `gorm:"type:varchar(10);primaryKey" json:"kind"`
	Year       int    `gorm:"primaryKey" json:"year"`
	LastNumber int    `gorm:"not null;default:0" json:"last_number"`
}
