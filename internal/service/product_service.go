package service

import (
	"context"
	"fmt"

	"backend/internal/apperr"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	Nombre      string          `json:"nombre" binding:"required"`
	Descripcion string          `json:"descripcion"`
	Precio      decimal.Decimal `json:"precio"`
	Categoria   string          `json:"categoria"`
	Tags        []string        `json:"tags"`
	Imagen      string          `json:"imagen"`
}

type UpdateProductRequest struct {
	Nombre      *string          `json:"nombre"`
	Descripcion *string          `json:"descripcion"`
	Precio      *decimal.Decimal `json:"precio"`
	Categoria   *string          `json:"categoria"`
	Tags        *[]string        `json:"tags"`
	Imagen      *string          `json:"imagen"`
}

func (r UpdateProductRequest) isEmpty() bool {
	return r.Nombre == nil && r.Descripcion == nil && r.Precio == nil &&
		r.Categoria == nil && r.Tags == nil && r.Imagen == nil
}

type ProductService interface {
	CreateProduct(ctx context.Context, req CreateProductRequest) (*model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context, categoria, search string, page, limit int) ([]model.Product, int64, error)
	UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]string, error)
	AddCategory(ctx context.Context, nombre string) (string, error)
}

type productService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo}
}

func (s *productService) CreateProduct(ctx context.Context, req CreateProductRequest) (*model.Product, error) {
	if req.Precio.IsNegative() {
		return nil, apperr.Validationf("precio no puede ser negativo")
	}

	categoria := req.Categoria
	if categoria == "" {
		categoria = "General"
	}

	product := &model.Product{
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Precio:      req.Precio,
		Categoria:   categoria,
		Tags:        req.Tags,
		Imagen:      req.Imagen,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	// Keep the shared category set in sync with categories used on products.
	if _, err := s.repo.AddCategory(ctx, categoria); err != nil {
		return nil, fmt.Errorf("failed to register category: %w", err)
	}

	return product, nil
}

func (s *productService) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	productID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, wrapNotFound(err, "producto")
	}
	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, categoria, search string, page, limit int) ([]model.Product, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.repo.List(ctx, categoria, search, page, limit)
}

func (s *productService) UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (*model.Product, error) {
	// An empty patch leaves the row untouched, updated_at included.
	if req.isEmpty() {
		return s.GetProduct(ctx, id)
	}

	productID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, wrapNotFound(err, "producto")
	}

	if req.Nombre != nil {
		if *req.Nombre == "" {
			return nil, apperr.Validationf("nombre no puede estar vacio")
		}
		product.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		product.Descripcion = *req.Descripcion
	}
	if req.Precio != nil {
		if req.Precio.IsNegative() {
			return nil, apperr.Validationf("precio no puede ser negativo")
		}
		product.Precio = *req.Precio
	}
	if req.Categoria != nil {
		if *req.Categoria == "" {
			return nil, apperr.Validationf("categoria no puede estar vacia")
		}
		product.Categoria = *req.Categoria
		if _, err := s.repo.AddCategory(ctx, *req.Categoria); err != nil {
			return nil, fmt.Errorf("failed to register category: %w", err)
		}
	}
	if req.Tags != nil {
		product.Tags = *req.Tags
	}
	if req.Imagen != nil {
		product.Imagen = *req.Imagen
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	productID, err := parseID(id)
	if err != nil {
		return err
	}
	affected, err := s.repo.Delete(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if affected == 0 {
		return apperr.NotFoundf("producto no encontrado")
	}
	return nil
}

func (s *productService) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Nombre)
	}
	return names, nil
}

func (s *productService) AddCategory(ctx context.Context, nombre string) (string, error) {
	if nombre == "" {
		return "", apperr.Validationf("categoria no puede estar vacia")
	}
	cat, err := s.repo.AddCategory(ctx, nombre)
	if err != nil {
		return "", fmt.Errorf("failed to add category: %w", err)
	}
	return cat.Nombre, nil
}
