package service

import (
	"context"
	"fmt"

	"backend/internal/apperr"
	"backend/internal/model"
	"backend/internal/repository"
)

type CreateSupplierRequest struct {
	Nombre       string `json:"nombre" binding:"required"`
	NIF          string `json:"nif" binding:"required"`
	Email        string `json:"email" binding:"omitempty,email"`
	Telefono     string `json:"telefono"`
	Direccion    string `json:"direccion"`
	Ciudad       string `json:"ciudad"`
	CodigoPostal string `json:"codigoPostal"`
}

type UpdateSupplierRequest struct {
	Nombre       *string `json:"nombre"`
	NIF          *string `json:"nif"`
	Email        *string `json:"email"`
	Telefono     *string `json:"telefono"`
	Direccion    *string `json:"direccion"`
	Ciudad       *string `json:"ciudad"`
	CodigoPostal *string `json:"codigoPostal"`
}

func (r UpdateSupplierRequest) isEmpty() bool {
	return r.Nombre == nil && r.NIF == nil && r.Email == nil && r.Telefono == nil &&
		r.Direccion == nil && r.Ciudad == nil && r.CodigoPostal == nil
}

type SupplierService interface {
	CreateSupplier(ctx context.Context, req CreateSupplierRequest) (*model.Supplier, error)
	GetSupplier(ctx context.Context, id string) (*model.Supplier, error)
	ListSuppliers(ctx context.Context, search string, page, limit int) ([]model.Supplier, int64, error)
	UpdateSupplier(ctx context.Context, id string, req UpdateSupplierRequest) (*model.Supplier, error)
	DeleteSupplier(ctx context.Context, id string) error
}

type supplierService struct {
	repo repository.SupplierRepository
}

func NewSupplierService(repo repository.SupplierRepository) SupplierService {
	return &supplierService{repo: repo}
}

func (s *supplierService) CreateSupplier(ctx context.Context, req CreateSupplierRequest) (*model.Supplier, error) {
	supplier := &model.Supplier{
		Nombre:       req.Nombre,
		NIF:          req.NIF,
		Email:        req.Email,
		Telefono:     req.Telefono,
		Direccion:    req.Direccion,
		Ciudad:       req.Ciudad,
		CodigoPostal: req.CodigoPostal,
	}
	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}
	return supplier, nil
}

func (s *supplierService) GetSupplier(ctx context.Context, id string) (*model.Supplier, error) {
	supplierID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	supplier, err := s.repo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, wrapNotFound(err, "proveedor")
	}
	return supplier, nil
}

func (s *supplierService) ListSuppliers(ctx context.Context, search string, page, limit int) ([]model.Supplier, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.repo.List(ctx, search, page, limit)
}

func (s *supplierService) UpdateSupplier(ctx context.Context, id string, req UpdateSupplierRequest) (*model.Supplier, error) {
	// An empty patch leaves the row untouched, updated_at included.
	if req.isEmpty() {
		return s.GetSupplier(ctx, id)
	}

	supplierID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	supplier, err := s.repo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, wrapNotFound(err, "proveedor")
	}

	if req.Nombre != nil {
		if *req.Nombre == "" {
			return nil, apperr.Validationf("nombre no puede estar vacio")
		}
		supplier.Nombre = *req.Nombre
	}
	if req.NIF != nil {
		if *req.NIF == "" {
			return nil, apperr.Validationf("nif no puede estar vacio")
		}
		supplier.NIF = *req.NIF
	}
	if req.Email != nil {
		supplier.Email = *req.Email
	}
	if req.Telefono != nil {
		supplier.Telefono = *req.Telefono
	}
	if req.Direccion != nil {
		supplier.Direccion = *req.Direccion
	}
	if req.Ciudad != nil {
		supplier.Ciudad = *req.Ciudad
	}
	if req.CodigoPostal != nil {
		supplier.CodigoPostal = *req.CodigoPostal
	}

	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}
	return supplier, nil
}

func (s *supplierService) DeleteSupplier(ctx context.Context, id string) error {
	supplierID, err := parseID(id)
	if err != nil {
		return err
	}
	affected, err := s.repo.Delete(ctx, supplierID)
	if err != nil {
		return fmt.Errorf("failed to delete supplier: %w", err)
	}
	if affected == 0 {
		return apperr.NotFoundf("proveedor no encontrado")
	}
	return nil
}
