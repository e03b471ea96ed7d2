package repository

import (
	"context"
	"errors"

	"backend/internal/model"

	"gorm.io/gorm"
)

// CompanyRepository persists the singleton company record.
type CompanyRepository interface {
	// Get returns the single company row, or nil if it has never been written.
	Get(ctx context.Context) (*model.Company, error)
	Save(ctx context.Context, company *model.Company) error
}

type companyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Get(ctx context.Context) (*model.Company, error) {
	var company model.Company
	err := GetDB(ctx, r.db).Order("created_at asc").First(&company).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) Save(ctx context.Context, company *model.Company) error {
	return GetDB(ctx, r.db).Save(company).Error
}
