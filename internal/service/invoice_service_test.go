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

func ventaRequest(items ...ItemPayload) CreateInvoiceRequest {
	if len(items) == 0 {
		items = []ItemPayload{{
			Descripcion:    "Consultoria",
			Cantidad:       decimal.NewFromInt(10),
			PrecioUnitario: decimal.NewFromInt(50),
		}}
	}
	return CreateInvoiceRequest{
		Tipo:       model.InvoiceTipoVenta,
		Fecha:      "2026-03-01",
		Cliente:    "ACME SL",
		NIFCliente: "B11111111",
		Items:      items,
	}
}

func TestCreateInvoiceComputesTotals(t *testing.T) {
	svc, _ := newInvoiceService(t)

	inv, err := svc.CreateInvoice(context.Background(), ventaRequest())
	require.NoError(t, err)

	assert.Equal(t, "500.00", inv.Subtotal)
	assert.Equal(t, "105.00", inv.IVA)
	assert.Equal(t, "605.00", inv.Total)
	assert.Equal(t, model.InvoiceEstadoPendiente, inv.Estado)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "500.00", inv.Items[0].Total)
}

func TestCreateInvoiceAssignsSequentialNumbers(t *testing.T) {
	svc, _ := newInvoiceService(t)
	year := time.Now().Year()

	seen := make(map[string]bool)
	for i := 1; i <= 3; i++ {
		inv, err := svc.CreateInvoice(context.Background(), ventaRequest())
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("FV-%d-%04d", year, i), inv.Numero)
		assert.False(t, seen[inv.Numero], "numero repetido: %s", inv.Numero)
		seen[inv.Numero] = true
	}

	// Purchase invoices count on their own sequence.
	compra := ventaRequest()
	compra.Tipo = model.InvoiceTipoCompra
	inv, err := svc.CreateInvoice(context.Background(), compra)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("FC-%d-%04d", year, 1), inv.Numero)
}

func TestCreateInvoiceSeedsSequenceFromLegacyNumbers(t *testing.T) {
	svc, db := newInvoiceService(t)
	year := time.Now().Year()

	legacy := model.Invoice{
		Tipo:     model.InvoiceTipoVenta,
		Numero:   fmt.Sprintf("FV-%d-0007", year),
		Fecha:    time.Date(year, 1, 10, 0, 0, 0, 0, time.UTC),
		Estado:   model.InvoiceEstadoPendiente,
		Cliente:  "Legacy SL",
		Subtotal: decimal.Zero,
		IVA:      decimal.Zero,
		Total:    decimal.Zero,
	}
	require.NoError(t, db.Create(&legacy).Error)

	inv, err := svc.CreateInvoice(context.Background(), ventaRequest())
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("FV-%d-0008", year), inv.Numero)
}

func TestCreateInvoiceRejectsNegativeAmounts(t *testing.T) {
	svc, _ := newInvoiceService(t)

	_, err := svc.CreateInvoice(context.Background(), ventaRequest(ItemPayload{
		Descripcion:    "Abono",
		Cantidad:       decimal.NewFromInt(1),
		PrecioUnitario: decimal.NewFromInt(-5),
	}))
	assert.True(t, apperr.IsValidation(err))
}

func TestMarcarPagadaRoundTrip(t *testing.T) {
	svc, _ := newInvoiceService(t)

	inv, err := svc.CreateInvoice(context.Background(), ventaRequest())
	require.NoError(t, err)

	paid, err := svc.MarcarPagada(context.Background(), inv.ID, "2026-03-15")
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceEstadoPagada, paid.Estado)
	require.NotNil(t, paid.FechaPago)
	assert.Equal(t, "2026-03-15", *paid.FechaPago)

	// Paying twice is an illegal transition.
	_, err = svc.MarcarPagada(context.Background(), inv.ID, "2026-03-16")
	assert.True(t, apperr.IsState(err))

	reverted, err := svc.MarcarPendiente(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceEstadoPendiente, reverted.Estado)
	assert.Nil(t, reverted.FechaPago)
}

func TestMarcarPagadaRequiresFecha(t *testing.T) {
	svc, _ := newInvoiceService(t)

	inv, err := svc.CreateInvoice(context.Background(), ventaRequest())
	require.NoError(t, err)

	_, err = svc.MarcarPagada(context.Background(), inv.ID, "")
	assert.True(t, apperr.IsValidation(err))
}

func TestPagadaInvoiceIsImmutable(t *testing.T) {
	svc, _ := newInvoiceService(t)

	inv, err := svc.CreateInvoice(context.Background(), ventaRequest())
	require.NoError(t, err)
	_, err = svc.MarcarPagada(context.Background(), inv.ID, "2026-03-15")
	require.NoError(t, err)

	nuevoCliente := "Otro SL"
	_, err = svc.UpdateInvoice(context.Background(), inv.ID, UpdateInvoiceRequest{Cliente: &nuevoCliente})
	assert.True(t, apperr.IsState(err))

	err = svc.DeleteInvoice(context.Background(), inv.ID)
	assert.True(t, apperr.IsState(err))

	_, err = svc.SetEstado(context.Background(), inv.ID, model.InvoiceEstadoVencida)
	assert.True(t, apperr.IsState(err))
}

func TestSetEstadoVencida(t *testing.T) {
	svc, _ := newInvoiceService(t)

	inv, err := svc.CreateInvoice(context.Background(), ventaRequest())
	require.NoError(t, err)

	overdue, err := svc.SetEstado(context.Background(), inv.ID, model.InvoiceEstadoVencida)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceEstadoVencida, overdue.Estado)

	// pagada must go through the payment endpoint.
	_, err = svc.SetEstado(context.Background(), inv.ID, model.InvoiceEstadoPagada)
	assert.True(t, apperr.IsValidation(err))
}

func TestUpdateInvoiceEmptyPatchIsNoOp(t *testing.T) {
	svc, db := newInvoiceService(t)

	inv, err := svc.CreateInvoice(context.Background(), ventaRequest())
	require.NoError(t, err)

	var before model.Invoice
	require.NoError(t, db.First(&before, "id = ?", inv.ID).Error)

	same, err := svc.UpdateInvoice(context.Background(), inv.ID, UpdateInvoiceRequest{})
	require.NoError(t, err)
	assert.Equal(t, inv.Numero, same.Numero)
	assert.Equal(t, inv.Cliente, same.Cliente)
	assert.Equal(t, inv.Total, same.Total)

	// The row was not rewritten, so updated_at did not move.
	var after model.Invoice
	require.NoError(t, db.First(&after, "id = ?", inv.ID).Error)
	assert.True(t, after.UpdatedAt.Equal(before.UpdatedAt))
}

func TestUpdateInvoiceReplacesItemsAndRecomputes(t *testing.T) {
	svc, _ := newInvoiceService(t)

	inv, err := svc.CreateInvoice(context.Background(), ventaRequest())
	require.NoError(t, err)

	items := []ItemPayload{
		{Descripcion: "Soporte", Cantidad: decimal.NewFromInt(2), PrecioUnitario: decimal.NewFromInt(100)},
	}
	updated, err := svc.UpdateInvoice(context.Background(), inv.ID, UpdateInvoiceRequest{Items: &items})
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, "Soporte", updated.Items[0].Descripcion)
	assert.Equal(t, "200.00", updated.Subtotal)
	assert.Equal(t, "42.00", updated.IVA)
	assert.Equal(t, "242.00", updated.Total)
}

func TestInvoiceNotFound(t *testing.T) {
	svc, _ := newInvoiceService(t)
	missing := uuid.New().String()

	_, err := svc.GetInvoice(context.Background(), missing)
	assert.True(t, apperr.IsNotFound(err))

	err = svc.DeleteInvoice(context.Background(), missing)
	assert.True(t, apperr.IsNotFound(err))

	_, err = svc.GetInvoice(context.Background(), "not-a-uuid")
	assert.True(t, apperr.IsValidation(err))
}

func TestSetArchivoCompraOnly(t *testing.T) {
	svc, _ := newInvoiceService(t)

	venta, err := svc.CreateInvoice(context.Background(), ventaRequest())
	require.NoError(t, err)
	_, err = svc.SetArchivo(context.Background(), venta.ID, "factura.pdf", "/uploads/factura.pdf", "application/pdf")
	assert.True(t, apperr.IsValidation(err))

	compraReq := ventaRequest()
	compraReq.Tipo = model.InvoiceTipoCompra
	compra, err := svc.CreateInvoice(context.Background(), compraReq)
	require.NoError(t, err)

	withFile, err := svc.SetArchivo(context.Background(), compra.ID, "factura.pdf", "/uploads/factura.pdf", "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "factura.pdf", withFile.ArchivoNombre)
	assert.Equal(t, "application/pdf", withFile.ArchivoTipo)
}

func TestListInvoicesFilters(t *testing.T) {
	svc, _ := newInvoiceService(t)

	for i := 0; i < 3; i++ {
		_, err := svc.CreateInvoice(context.Background(), ventaRequest())
		require.NoError(t, err)
	}
	compra := ventaRequest()
	compra.Tipo = model.InvoiceTipoCompra
	created, err := svc.CreateInvoice(context.Background(), compra)
	require.NoError(t, err)
	_, err = svc.MarcarPagada(context.Background(), created.ID, "2026-03-20")
	require.NoError(t, err)

	ventas, total, err := svc.ListInvoices(context.Background(), InvoiceFilter{Tipo: model.InvoiceTipoVenta})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, ventas, 3)

	pagadas, total, err := svc.ListInvoices(context.Background(), InvoiceFilter{Estado: model.InvoiceEstadoPagada})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, pagadas, 1)
	assert.Equal(t, model.InvoiceTipoCompra, pagadas[0].Tipo)
}
