package model

import (
	"time"

	"github.com/google/uuid"
)

// Company is the singleton issuer record. Exactly one row exists; it is
// created on first update (or seeded with defaults) and only merged thereafter.
type Company struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Nombre       string    `gorm:"type:varchar(255);not null" json:"nombre"`
	NIF          string    `gorm:"type:varchar(50);not null" json:"nif"`
	Direccion    string    `gorm:"type:varchar(255)" json:"direccion"`
	CodigoPostal string    `gorm:"type:varchar(20)" json:"codigoPostal"`
	Ciudad       string    `gorm:"type:varchar(100)" json:"ciudad"`
	Telefono     string    `gorm:"type:varchar(50)" json:"telefono"`
	Email        string    `gorm:"type:varchar(255)" json:"email"`
	Logo         string    `gorm:"type:text" json:"logo,omitempty"` // storage reference
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
