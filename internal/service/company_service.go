package service

import (
	"context"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"
)

// UpdateCompanyRequest merges into the singleton; the record is created on the
// first update if the seed never ran.
type UpdateCompanyRequest struct {
	Nombre       *string `json:"nombre"`
	NIF          *string `json:"nif"`
	Direccion    *string `json:"direccion"`
	CodigoPostal *string `json:"codigoPostal"`
	Ciudad       *string `json:"ciudad"`
	Telefono     *string `json:"telefono"`
	Email        *string `json:"email"`
	Logo         *string `json:"logo"`
}

type CompanyService interface {
	GetCompany(ctx context.Context) (*model.Company, error)
	UpdateCompany(ctx context.Context, req UpdateCompanyRequest) (*model.Company, error)
	SetLogo(ctx context.Context, logo string) (*model.Company, error)
}

type companyService struct {
	repo repository.CompanyRepository
}

func NewCompanyService(repo repository.CompanyRepository) CompanyService {
	return &companyService{repo: repo}
}

// DefaultCompany is returned (and persisted on first write) when no company
// row exists yet.
func DefaultCompany() *model.Company {
	return &model.Company{
		Nombre:       "ELEXMA",
		NIF:          "B12345678",
		Direccion:    "Calle Principal 123",
		CodigoPostal: "28001",
		Ciudad:       "Madrid",
		Telefono:     "912345678",
		Email:        "info@elexma.com",
	}
}

func (s *companyService) GetCompany(ctx context.Context) (*model.Company, error) {
	company, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch company: %w", err)
	}
	if company == nil {
		return DefaultCompany(), nil
	}
	return company, nil
}

func (s *companyService) UpdateCompany(ctx context.Context, req UpdateCompanyRequest) (*model.Company, error) {
	company, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch company: %w", err)
	}
	if company == nil {
		company = DefaultCompany()
	}

	if req.Nombre != nil {
		company.Nombre = *req.Nombre
	}
	if req.NIF != nil {
		company.NIF = *req.NIF
	}
	if req.Direccion != nil {
		company.Direccion = *req.Direccion
	}
	if req.CodigoPostal != nil {
		company.CodigoPostal = *req.CodigoPostal
	}
	if req.Ciudad != nil {
		company.Ciudad = *req.Ciudad
	}
	if req.Telefono != nil {
		company.Telefono = *req.Telefono
	}
	if req.Email != nil {
		company.Email = *req.Email
	}
	if req.Logo != nil {
		company.Logo = *req.Logo
	}

	if err := s.repo.Save(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to save company: %w", err)
	}
	return company, nil
}

func (s *companyService) SetLogo(ctx context.Context, logo string) (*model.Company, error) {
	return s.UpdateCompany(ctx, UpdateCompanyRequest{Logo: &logo})
}
