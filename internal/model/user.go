package model

import (
	"time"

	"github.com/google/uuid"
)

// Departamento enum constants
const (
	DeptComercial      = "comercial"
	DeptAdministracion = "administracion"
)

// SeedAdminEmail identifies the protected first administrator created at boot.
// That account cannot be deleted, deactivated, or moved out of administracion.
const SeedAdminEmail = "admin@admin.com"

// User represents an application user. Department is the only authorization
// axis: product and user management require administracion.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Nombre       string    `gorm:"type:varchar(255);not null" json:"nombre"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password     string    `gorm:"type:varchar(255);not null" json:"-"` // bcrypt hash, never serialized
	Departamento string    `gorm:"type:varchar(20);not null" json:"departamento"`
	Activo       bool      `gorm:"default:true" json:"activo"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsSeedAdmin reports whether this is the protected seed administrator.
func (u *User) IsSeedAdmin() bool {
	return u.Email == SeedAdminEmail
}
