package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceListFilter narrows invoice listings.
type InvoiceListFilter struct {
	Tipo   string // venta, compra or empty for all
	Estado string // pendiente, pagada, vencida or empty for all
	Page   int
	Limit  int
}

// InvoiceRepository defines data access for Invoice entities.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *model.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	List(ctx context.Context, filter InvoiceListFilter) ([]model.Invoice, int64, error)
	Numbers(ctx context.Context, tipo string) ([]string, error)
	Update(ctx context.Context, invoice *model.Invoice) error
	ReplaceItems(ctx context.Context, invoice *model.Invoice, items []model.InvoiceItem) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type invoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	return GetDB(ctx, r.db).Create(invoice).Error
}

func (r *invoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := GetDB(ctx, r.db).Preload("Items").First(&invoice, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) List(ctx context.Context, filter InvoiceListFilter) ([]model.Invoice, int64, error) {
	var invoices []model.Invoice
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Invoice{})
	if filter.Tipo != "" {
		query = query.Where("tipo = ?", filter.Tipo)
	}
	if filter.Estado != "" {
		query = query.Where("estado = ?", filter.Estado)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.Preload("Items").Order("fecha desc, numero desc").
		Offset(offset).Limit(filter.Limit).Find(&invoices).Error; err != nil {
		return nil, 0, err
	}

	return invoices, total, nil
}

// Numbers returns every document number of the given tipo. Used once per
// (kind, year) to seed the sequence table from legacy rows.
func (r *invoiceRepository) Numbers(ctx context.Context, tipo string) ([]string, error) {
	var numbers []string
	err := GetDB(ctx, r.db).Model(&model.Invoice{}).
		Where("tipo = ?", tipo).Pluck("numero", &numbers).Error
	return numbers, err
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *model.Invoice) error {
	return GetDB(ctx, r.db).Save(invoice).Error
}

// ReplaceItems swaps the full line set of an invoice and saves the header.
func (r *invoiceRepository) ReplaceItems(ctx context.Context, invoice *model.Invoice, items []model.InvoiceItem) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("invoice_id = ?", invoice.ID).Delete(&model.InvoiceItem{}).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].InvoiceID = invoice.ID
	}
	invoice.Items = items
	return db.Session(&gorm.Session{FullSaveAssociations: true}).Save(invoice).Error
}

func (r *invoiceRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	db := GetDB(ctx, r.db)
	if err := db.Where("invoice_id = ?", id).Delete(&model.InvoiceItem{}).Error; err != nil {
		return 0, err
	}
	res := db.Where("id = ?", id).Delete(&model.Invoice{})
	return res.RowsAffected, res.Error
}
