package database

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"backend/internal/model"
	"backend/internal/service"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}

// Migrate runs AutoMigrate for every model. Exposed separately so tests can
// migrate an in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Client{},
		&model.Supplier{},
		&model.Product{},
		&model.ProductCategory{},
		&model.Invoice{},
		&model.InvoiceItem{},
		&model.Quote{},
		&model.QuoteItem{},
		&model.Company{},
		&model.DocumentSequence{},
	)
}

var defaultCategories = []string{"General", "Servicios", "Hardware", "Software"}

// Seed inserts the protected admin user, the company record, and the default
// product categories when they are missing. Safe to run on every boot.
func Seed(db *gorm.DB) error {
	var adminCount int64
	if err := db.Model(&model.User{}).Where("email = ?", model.SeedAdminEmail).Count(&adminCount).Error; err != nil {
		return err
	}
	if adminCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := model.User{
			Nombre:       "Administrador",
			Email:        model.SeedAdminEmail,
			Password:     string(hash),
			Departamento: model.DeptAdministracion,
			Activo:       true,
		}
		if err := db.Create(&admin).Error; err != nil {
			return err
		}
		log.Println("Seeded admin user", model.SeedAdminEmail)
	}

	var companyCount int64
	if err := db.Model(&model.Company{}).Count(&companyCount).Error; err != nil {
		return err
	}
	if companyCount == 0 {
		if err := db.Create(service.DefaultCompany()).Error; err != nil {
			return err
		}
		log.Println("Seeded company record")
	}

	for _, nombre := range defaultCategories {
		cat := model.ProductCategory{Nombre: nombre}
		if err := db.Where("nombre = ?", nombre).FirstOrCreate(&cat).Error; err != nil {
			return err
		}
	}

	return nil
}
