package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/internal/apperr"
	"backend/internal/model"
)

func quoteRequest() CreateQuoteRequest {
	return CreateQuoteRequest{
		Fecha:        "2026-03-01",
		FechaValidez: "2026-04-01",
		Cliente:      "ACME SL",
		NIFCliente:   "B11111111",
		Contacto:     "Laura Perez",
		Comercial:    "Juan Ruiz",
		Items: []ItemPayload{{
			Descripcion:    "Consultoria",
			Cantidad:       decimal.NewFromInt(10),
			PrecioUnitario: decimal.NewFromInt(50),
		}},
	}
}

func TestCreateQuoteAllocatesNumero(t *testing.T) {
	svc, _, _ := newQuoteService(t)
	year := time.Now().Year()

	q1, err := svc.CreateQuote(context.Background(), quoteRequest())
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("PPTO-%d-0001", year), q1.Numero)
	assert.Equal(t, model.QuoteEstadoPendiente, q1.Estado)
	assert.Equal(t, "500.00", q1.Subtotal)
	assert.Equal(t, "105.00", q1.IVA)
	assert.Equal(t, "605.00", q1.Total)

	q2, err := svc.CreateQuote(context.Background(), quoteRequest())
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("PPTO-%d-0002", year), q2.Numero)
}

func TestAcceptQuoteCreatesSaleInvoice(t *testing.T) {
	svc, invoiceSvc, _ := newQuoteService(t)
	year := time.Now().Year()

	quote, err := svc.CreateQuote(context.Background(), quoteRequest())
	require.NoError(t, err)

	result, err := svc.AcceptQuote(context.Background(), quote.ID)
	require.NoError(t, err)

	assert.Equal(t, model.QuoteEstadoAceptado, result.Presupuesto.Estado)
	require.NotNil(t, result.Presupuesto.FacturaID)
	assert.Equal(t, result.Factura.ID, *result.Presupuesto.FacturaID)

	factura := result.Factura
	assert.Equal(t, model.InvoiceTipoVenta, factura.Tipo)
	assert.Equal(t, fmt.Sprintf("FV-%d-0001", year), factura.Numero)
	assert.Equal(t, model.InvoiceEstadoPendiente, factura.Estado)
	assert.Equal(t, "ACME SL", factura.Cliente)
	assert.Equal(t, "B11111111", factura.NIFCliente)
	assert.Equal(t, "500.00", factura.Subtotal)
	assert.Equal(t, "105.00", factura.IVA)
	assert.Equal(t, "605.00", factura.Total)
	require.Len(t, factura.Items, 1)
	assert.Equal(t, "Consultoria", factura.Items[0].Descripcion)

	// The invoice is persisted, not just echoed back.
	persisted, err := invoiceSvc.GetInvoice(context.Background(), factura.ID)
	require.NoError(t, err)
	assert.Equal(t, factura.Numero, persisted.Numero)
}

func TestAcceptQuoteTwiceIsStateError(t *testing.T) {
	svc, _, db := newQuoteService(t)

	quote, err := svc.CreateQuote(context.Background(), quoteRequest())
	require.NoError(t, err)

	_, err = svc.AcceptQuote(context.Background(), quote.ID)
	require.NoError(t, err)

	_, err = svc.AcceptQuote(context.Background(), quote.ID)
	assert.True(t, apperr.IsState(err))

	// Exactly one invoice came out of the conversion.
	var count int64
	require.NoError(t, db.Model(&model.Invoice{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRejectQuoteIsTerminal(t *testing.T) {
	svc, _, _ := newQuoteService(t)

	quote, err := svc.CreateQuote(context.Background(), quoteRequest())
	require.NoError(t, err)

	rejected, err := svc.RejectQuote(context.Background(), quote.ID)
	require.NoError(t, err)
	assert.Equal(t, model.QuoteEstadoRechazado, rejected.Estado)

	_, err = svc.RejectQuote(context.Background(), quote.ID)
	assert.True(t, apperr.IsState(err))

	_, err = svc.AcceptQuote(context.Background(), quote.ID)
	assert.True(t, apperr.IsState(err))
}

func TestUpdateQuoteOnlyWhilePending(t *testing.T) {
	svc, _, _ := newQuoteService(t)

	quote, err := svc.CreateQuote(context.Background(), quoteRequest())
	require.NoError(t, err)

	obs := "Entrega en dos fases"
	updated, err := svc.UpdateQuote(context.Background(), quote.ID, UpdateQuoteRequest{Observaciones: &obs})
	require.NoError(t, err)
	assert.Equal(t, obs, updated.Observaciones)

	_, err = svc.RejectQuote(context.Background(), quote.ID)
	require.NoError(t, err)

	_, err = svc.UpdateQuote(context.Background(), quote.ID, UpdateQuoteRequest{Observaciones: &obs})
	assert.True(t, apperr.IsState(err))
}

func TestUpdateQuoteItemsRecomputeTotals(t *testing.T) {
	svc, _, _ := newQuoteService(t)

	quote, err := svc.CreateQuote(context.Background(), quoteRequest())
	require.NoError(t, err)

	items := []ItemPayload{
		{Descripcion: "Licencia", Cantidad: decimal.NewFromInt(3), PrecioUnitario: decimal.RequireFromString("19.99")},
	}
	updated, err := svc.UpdateQuote(context.Background(), quote.ID, UpdateQuoteRequest{Items: &items})
	require.NoError(t, err)
	assert.Equal(t, "59.97", updated.Subtotal)
	assert.Equal(t, "12.59", updated.IVA)
	assert.Equal(t, "72.56", updated.Total)
}

func TestDeleteQuote(t *testing.T) {
	svc, _, db := newQuoteService(t)

	quote, err := svc.CreateQuote(context.Background(), quoteRequest())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteQuote(context.Background(), quote.ID))

	_, err = svc.GetQuote(context.Background(), quote.ID)
	assert.True(t, apperr.IsNotFound(err))

	// Header and items go together.
	var items int64
	require.NoError(t, db.Model(&model.QuoteItem{}).Count(&items).Error)
	assert.Zero(t, items)

	err = svc.DeleteQuote(context.Background(), uuid.New().String())
	assert.True(t, apperr.IsNotFound(err))
}

func TestUpdateQuoteEmptyPatchIsNoOp(t *testing.T) {
	svc, _, db := newQuoteService(t)

	quote, err := svc.CreateQuote(context.Background(), quoteRequest())
	require.NoError(t, err)

	var before model.Quote
	require.NoError(t, db.First(&before, "id = ?", quote.ID).Error)

	same, err := svc.UpdateQuote(context.Background(), quote.ID, UpdateQuoteRequest{})
	require.NoError(t, err)
	assert.Equal(t, quote.Numero, same.Numero)
	assert.Equal(t, quote.Total, same.Total)

	// The row was not rewritten, so updated_at did not move.
	var after model.Quote
	require.NoError(t, db.First(&after, "id = ?", quote.ID).Error)
	assert.True(t, after.UpdatedAt.Equal(before.UpdatedAt))
}
