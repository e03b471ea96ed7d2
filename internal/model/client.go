package model

import (
	"time"

	"github.com/google/uuid"
)

// Client is a sales counterparty. Invoices and quotes embed a snapshot of its
// identifying fields at creation time, never a live reference.
type Client struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Nombre        string    `gorm:"type:varchar(255);not null" json:"nombre"`
	NIF           string    `gorm:"type:varchar(50);not null;index" json:"nif"`
	Email         string    `gorm:"type:varchar(255)" json:"email"`
	Telefono      string    `gorm:"type:varchar(50)" json:"telefono"`
	Direccion     string    `gorm:"type:varchar(255)" json:"direccion"`
	Ciudad        string    `gorm:"type:varchar(100)" json:"ciudad"`
	CodigoPostal  string    `gorm:"type:varchar(20)" json:"codigoPostal"`
	Contacto      string    `gorm:"type:varchar(255)" json:"contacto"`
	EmailContacto string    `gorm:"type:varchar(255)" json:"emailContacto"`
	Comercial     string    `gorm:"type:varchar(255)" json:"comercial"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
