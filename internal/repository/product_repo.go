package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository defines data access for Product entities and the shared
// category set.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, categoria, search string, page, limit int) ([]model.Product, int64, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	ListCategories(ctx context.Context) ([]model.ProductCategory, error)
	AddCategory(ctx context.Context, nombre string) (*model.ProductCategory, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return GetDB(ctx, r.db).Create(product).Error
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := GetDB(ctx, r.db).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, categoria, search string, page, limit int) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Product{})
	if categoria != "" {
		query = query.Where("categoria = ?", categoria)
	}
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("LOWER(nombre) LIKE LOWER(?)", like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("nombre asc").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	return GetDB(ctx, r.db).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Product{})
	return res.RowsAffected, res.Error
}

func (r *productRepository) ListCategories(ctx context.Context) ([]model.ProductCategory, error) {
	var categories []model.ProductCategory
	if err := GetDB(ctx, r.db).Order("nombre asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// AddCategory inserts a category name, ignoring duplicates.
func (r *productRepository) AddCategory(ctx context.Context, nombre string) (*model.ProductCategory, error) {
	cat := model.ProductCategory{Nombre: nombre}
	if err := GetDB(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&cat).Error; err != nil {
		return nil, err
	}
	var saved model.ProductCategory
	if err := GetDB(ctx, r.db).First(&saved, "nombre = ?", nombre).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}
