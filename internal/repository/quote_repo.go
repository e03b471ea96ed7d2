package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuoteListFilter narrows quote listings.
type QuoteListFilter struct {
	Estado string // pendiente, aceptado, rechazado or empty for all
	Page   int
	Limit  int
}

// QuoteRepository defines data access for Quote entities.
type QuoteRepository interface {
	Create(ctx context.Context, quote *model.Quote) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Quote, error)
	List(ctx context.Context, filter QuoteListFilter) ([]model.Quote, int64, error)
	Numbers(ctx context.Context) ([]string, error)
	Update(ctx context.Context, quote *model.Quote) error
	ReplaceItems(ctx context.Context, quote *model.Quote, items []model.QuoteItem) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type quoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) QuoteRepository {
	return &quoteRepository{db: db}
}

func (r *quoteRepository) Create(ctx context.Context, quote *model.Quote) error {
	return GetDB(ctx, r.db).Create(quote).Error
}

func (r *quoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Quote, error) {
	var quote model.Quote
	if err := GetDB(ctx, r.db).Preload("Items").First(&quote, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *quoteRepository) List(ctx context.Context, filter QuoteListFilter) ([]model.Quote, int64, error) {
	var quotes []model.Quote
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Quote{})
	if filter.Estado != "" {
		query = query.Where("estado = ?", filter.Estado)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.Preload("Items").Order("fecha desc, numero desc").
		Offset(offset).Limit(filter.Limit).Find(&quotes).Error; err != nil {
		return nil, 0, err
	}

	return quotes, total, nil
}

func (r *quoteRepository) Numbers(ctx context.Context) ([]string, error) {
	var numbers []string
	err := GetDB(ctx, r.db).Model(&model.Quote{}).Pluck("numero", &numbers).Error
	return numbers, err
}

func (r *quoteRepository) Update(ctx context.Context, quote *model.Quote) error {
	return GetDB(ctx, r.db).Save(quote).Error
}

func (r *quoteRepository) ReplaceItems(ctx context.Context, quote *model.Quote, items []model.QuoteItem) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("quote_id = ?", quote.ID).Delete(&model.QuoteItem{}).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].QuoteID = quote.ID
	}
	quote.Items = items
	return db.Session(&gorm.Session{FullSaveAssociations: true}).Save(quote).Error
}

func (r *quoteRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	db := GetDB(ctx, r.db)
	if err := db.Where("quote_id = ?", id).Delete(&model.QuoteItem{}).Error; err != nil {
		return 0, err
	}
	res := db.Where("id = ?", id).Delete(&model.Quote{})
	return res.RowsAffected, res.Error
}
