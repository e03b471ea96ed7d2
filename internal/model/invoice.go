package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice tipo enum constants
const (
	InvoiceTipoVenta  = "venta"
	InvoiceTipoCompra = "compra"
)

// Invoice estado enum constants. "vencida" is never set automatically; there
// is no due-date sweep; it is only reachable through the explicit estado endpoint.
const (
	InvoiceEstadoPendiente = "pendiente"
	InvoiceEstadoPagada    = "pagada"
	InvoiceEstadoVencida   = "vencida"
)

// Invoice is a sale (FV) or purchase (FC) invoice. Counterparty fields are a
// hard copy taken at creation time. A pagada invoice is immutable.
type Invoice struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Tipo             string          `gorm:"type:varchar(10);not null;index" json:"tipo"` // venta, compra
	Numero           string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"numero"`
	Fecha            time.Time       `gorm:"type:date;not null;index" json:"fecha"`
	FechaVencimiento *time.Time      `gorm:"type:date" json:"fechaVencimiento,omitempty"`
	FechaPago        *time.Time      `gorm:"type:date" json:"fechaPago,omitempty"`
	Estado           string          `gorm:"type:varchar(20);not null;default:'pendiente';index" json:"estado"`
	Cliente          string          `gorm:"type:varchar(255);not null" json:"cliente"`
	NIFCliente       string          `gorm:"type:varchar(50)" json:"nifCliente"`
	DireccionCliente string          `gorm:"type:varchar(255)" json:"direccionCliente"`
	CiudadCliente    string          `gorm:"type:varchar(100)" json:"ciudadCliente"`
	CPCliente        string          `gorm:"type:varchar(20)" json:"cpCliente"`
	EmailCliente     string          `gorm:"type:varchar(255)" json:"emailCliente,omitempty"`
	TelefonoCliente  string          `gorm:"type:varchar(50)" json:"telefonoCliente,omitempty"`
	Items            []InvoiceItem   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"subtotal"`
	IVA              decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"iva"`
	Total            decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total"`
	ArchivoNombre    string          `gorm:"type:varchar(255)" json:"archivoNombre,omitempty"` // compras only
	ArchivoURL       string          `gorm:"type:text" json:"archivoUrl,omitempty"`
	ArchivoTipo      string          `gorm:"type:varchar(100)" json:"archivoTipo,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// InvoiceItem is a line owned exclusively by its invoice and destroyed with it.
type InvoiceItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	Descripcion    string          `gorm:"type:text;not null" json:"descripcion"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"cantidad"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"precioUnitario"`
	Total          decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total"`
}
