package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/internal/model"
	"backend/internal/repository"
)

func TestDashboardAggregates(t *testing.T) {
	db := newTestDB(t)
	invoiceSvc := NewInvoiceService(
		repository.NewInvoiceRepository(db),
		repository.NewSequenceRepository(db),
		repository.NewTransactionManager(db),
		nil,
	)
	quoteSvc := NewQuoteService(
		repository.NewQuoteRepository(db),
		repository.NewInvoiceRepository(db),
		repository.NewSequenceRepository(db),
		repository.NewTransactionManager(db),
		nil,
	)
	statsSvc := NewStatisticsService(db)
	ctx := context.Background()

	// Two sale invoices of 605.00 each, one paid, plus one purchase of 121.00.
	paid, err := invoiceSvc.CreateInvoice(ctx, ventaRequest())
	require.NoError(t, err)
	_, err = invoiceSvc.MarcarPagada(ctx, paid.ID, "2026-03-15")
	require.NoError(t, err)
	_, err = invoiceSvc.CreateInvoice(ctx, ventaRequest())
	require.NoError(t, err)

	compra := ventaRequest(ItemPayload{
		Descripcion:    "Material",
		Cantidad:       decimal.NewFromInt(1),
		PrecioUnitario: decimal.NewFromInt(100),
	})
	compra.Tipo = model.InvoiceTipoCompra
	_, err = invoiceSvc.CreateInvoice(ctx, compra)
	require.NoError(t, err)

	// One pending quote of 605.00 and one accepted (which adds a sale invoice).
	_, err = quoteSvc.CreateQuote(ctx, quoteRequest())
	require.NoError(t, err)
	accepted, err := quoteSvc.CreateQuote(ctx, quoteRequest())
	require.NoError(t, err)
	_, err = quoteSvc.AcceptQuote(ctx, accepted.ID)
	require.NoError(t, err)

	dash, err := statsSvc.GetDashboard(ctx)
	require.NoError(t, err)

	assert.EqualValues(t, 1, dash.FacturasPagadas)
	assert.EqualValues(t, 3, dash.FacturasPendientes) // venta + compra + converted quote
	assert.EqualValues(t, 0, dash.FacturasVencidas)
	assert.Equal(t, "605.00", dash.TotalFacturado)
	assert.Equal(t, "1210.00", dash.TotalPendienteCobro)
	assert.Equal(t, "121.00", dash.TotalCompras)
	assert.EqualValues(t, 1, dash.PresupuestosPendientes)
	assert.EqualValues(t, 1, dash.PresupuestosAceptados)
	assert.Equal(t, "605.00", dash.ImportePresupuestado)
}

func TestDashboardEmptyDatabase(t *testing.T) {
	statsSvc := NewStatisticsService(newTestDB(t))

	dash, err := statsSvc.GetDashboard(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 0, dash.FacturasPendientes)
	assert.Equal(t, "0.00", dash.TotalFacturado)
	assert.Equal(t, "0.00", dash.ImportePresupuestado)
}
