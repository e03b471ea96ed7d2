package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Quote estado enum constants. aceptado and rechazado are terminal.
const (
	QuoteEstadoPendiente = "pendiente"
	QuoteEstadoAceptado  = "aceptado"
	QuoteEstadoRechazado = "rechazado"
)

// Quote (presupuesto) is a PPTO document. Accepting a pending quote produces
// exactly one new sale invoice carrying a copy of its snapshot and items.
type Quote struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Numero           string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"numero"`
	Fecha            time.Time       `gorm:"type:date;not null;index" json:"fecha"`
	FechaValidez     time.Time       `gorm:"type:date;not null" json:"fechaValidez"`
	Estado           string          `gorm:"type:varchar(20);not null;default:'pendiente';index" json:"estado"`
	Cliente          string          `gorm:"type:varchar(255);not null" json:"cliente"`
	NIFCliente       string          `gorm:"type:varchar(50)" json:"nifCliente"`
	DireccionCliente string          `gorm:"type:varchar(255)" json:"direccionCliente"`
	CiudadCliente    string          `gorm:"type:varchar(100)" json:"ciudadCliente"`
	CPCliente        string          `gorm:"type:varchar(20)" json:"cpCliente"`
	EmailCliente     string          `gorm:"type:varchar(255)" json:"emailCliente"`
	TelefonoCliente  string          `gorm:"type:varchar(50)" json:"telefonoCliente"`
	Contacto         string          `gorm:"type:varchar(255)" json:"contacto"`
	EmailContacto    string          `gorm:"type:varchar(255)" json:"emailContacto"`
	Comercial        string          `gorm:"type:varchar(255)" json:"comercial"`
	Items            []QuoteItem     `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE" json:"items"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"subtotal"`
	IVA              decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"iva"`
	Total            decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total"`
	Observaciones    string          `gorm:"type:text" json:"observaciones,omitempty"`
	InvoiceID        *uuid.UUID      `gorm:"type:uuid" json:"facturaId,omitempty"` // set when accepted
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// QuoteItem is a line owned exclusively by its quote.
type QuoteItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	QuoteID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	Descripcion    string          `gorm:"type:text;not null" json:"descripcion"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"cantidad"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"precioUnitario"`
	Total          decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total"`
}
