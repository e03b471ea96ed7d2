package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Tags are stored as a JSON column.
type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Nombre      string          `gorm:"type:varchar(255);not null" json:"nombre"`
	Descripcion string          `gorm:"type:text" json:"descripcion"`
	Precio      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"precio"`
	Categoria   string          `gorm:"type:varchar(100);not null;default:'General';index" json:"categoria"`
	Tags        []string        `gorm:"serializer:json" json:"tags"`
	Imagen      string          `gorm:"type:text" json:"imagen,omitempty"` // storage reference, optional
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductCategory is an open, mutable set of category names shared by all products.
type ProductCategory struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Nombre    string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"nombre"`
	CreatedAt time.Time `json:"created_at"`
}
