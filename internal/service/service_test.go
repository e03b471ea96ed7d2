package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"backend/internal/model"
	"backend/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
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
	))
	return db
}

// newInvoiceService wires an invoice service over a fresh database. The hub is
// nil; Publish on a nil hub is a no-op.
func newInvoiceService(t *testing.T) (InvoiceService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewInvoiceService(
		repository.NewInvoiceRepository(db),
		repository.NewSequenceRepository(db),
		repository.NewTransactionManager(db),
		nil,
	)
	return svc, db
}

func newQuoteService(t *testing.T) (QuoteService, InvoiceService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	invoiceRepo := repository.NewInvoiceRepository(db)
	seqRepo := repository.NewSequenceRepository(db)
	txManager := repository.NewTransactionManager(db)
	quoteSvc := NewQuoteService(repository.NewQuoteRepository(db), invoiceRepo, seqRepo, txManager, nil)
	invoiceSvc := NewInvoiceService(invoiceRepo, seqRepo, txManager, nil)
	return quoteSvc, invoiceSvc, db
}

func newUserService(t *testing.T) (UserService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewUserService(repository.NewUserRepository(db), []byte("test_secret")), db
}
