package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/apperr"
	"backend/internal/billing"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/websocket"
)

// --- DTOs ---

type CreateInvoiceRequest struct {
	Tipo             string        `json:"tipo" binding:"required,oneof=venta compra"`
	Fecha            string        `json:"fecha" binding:"required"` // YYYY-MM-DD
	FechaVencimiento string        `json:"fechaVencimiento"`
	Cliente          string        `json:"cliente" binding:"required"`
	NIFCliente       string        `json:"nifCliente" binding:"required"`
	DireccionCliente string        `json:"direccionCliente"`
	CiudadCliente    string        `json:"ciudadCliente"`
	CPCliente        string        `json:"cpCliente"`
	EmailCliente     string        `json:"emailCliente"`
	TelefonoCliente  string        `json:"telefonoCliente"`
	Items            []ItemPayload `json:"items" binding:"required,min=1,dive"`
}

// UpdateInvoiceRequest patches header fields and optionally replaces the line
// set. Nil fields are left untouched; an empty patch is a no-op.
type UpdateInvoiceRequest struct {
	Fecha            *string        `json:"fecha"`
	FechaVencimiento *string        `json:"fechaVencimiento"`
	Cliente          *string        `json:"cliente"`
	NIFCliente       *string        `json:"nifCliente"`
	DireccionCliente *string        `json:"direccionCliente"`
	CiudadCliente    *string        `json:"ciudadCliente"`
	CPCliente        *string        `json:"cpCliente"`
	EmailCliente     *string        `json:"emailCliente"`
	TelefonoCliente  *string        `json:"telefonoCliente"`
	Items            *[]ItemPayload `json:"items"`
}

func (r UpdateInvoiceRequest) isEmpty() bool {
	return r.Fecha == nil && r.FechaVencimiento == nil && r.Cliente == nil &&
		r.NIFCliente == nil && r.DireccionCliente == nil && r.CiudadCliente == nil &&
		r.CPCliente == nil && r.EmailCliente == nil && r.TelefonoCliente == nil &&
		r.Items == nil
}

type InvoiceFilter struct {
	Tipo   string
	Estado string
	Page   int
	Limit  int
}

type ItemResponse struct {
	Descripcion    string `json:"descripcion"`
	Cantidad       string `json:"cantidad"`
	PrecioUnitario string `json:"precioUnitario"`
	Total          string `json:"total"`
}

type InvoiceResponse struct {
	ID               string         `json:"id"`
	Tipo             string         `json:"tipo"`
	Numero           string         `json:"numero"`
	Fecha            string         `json:"fecha"`
	FechaVencimiento *string        `json:"fechaVencimiento"`
	FechaPago        *string        `json:"fechaPago"`
	Estado           string         `json:"estado"`
	Cliente          string         `json:"cliente"`
	NIFCliente       string         `json:"nifCliente"`
	DireccionCliente string         `json:"direccionCliente"`
	CiudadCliente    string         `json:"ciudadCliente"`
	CPCliente        string         `json:"cpCliente"`
	EmailCliente     string         `json:"emailCliente"`
	TelefonoCliente  string         `json:"telefonoCliente"`
	Items            []ItemResponse `json:"items"`
	Subtotal         string         `json:"subtotal"`
	IVA              string         `json:"iva"`
	Total            string         `json:"total"`
	ArchivoNombre    string         `json:"archivoNombre,omitempty"`
	ArchivoURL       string         `json:"archivoUrl,omitempty"`
	ArchivoTipo      string         `json:"archivoTipo,omitempty"`
	CreatedAt        string         `json:"created_at"`
}

// --- Interface ---

type InvoiceService interface {
	CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter InvoiceFilter) ([]InvoiceResponse, int64, error)
	UpdateInvoice(ctx context.Context, id string, req UpdateInvoiceRequest) (InvoiceResponse, error)
	DeleteInvoice(ctx context.Context, id string) error
	MarcarPagada(ctx context.Context, id, fechaPago string) (InvoiceResponse, error)
	MarcarPendiente(ctx context.Context, id string) (InvoiceResponse, error)
	SetEstado(ctx context.Context, id, estado string) (InvoiceResponse, error)
	SetArchivo(ctx context.Context, id, nombre, url, tipo string) (InvoiceResponse, error)
}

type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	seqRepo     repository.SequenceRepository
	txManager   repository.TransactionManager
	hub         *websocket.Hub
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	seqRepo repository.SequenceRepository,
	txManager repository.TransactionManager,
	hub *websocket.Hub,
) InvoiceService {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		seqRepo:     seqRepo,
		txManager:   txManager,
		hub:         hub,
	}
}

// --- Implementation ---

func (s *invoiceService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (InvoiceResponse, error) {
	fecha, err := parseDate(req.Fecha, "fecha")
	if err != nil {
		return InvoiceResponse{}, err
	}

	var fechaVencimiento *time.Time
	if req.FechaVencimiento != "" {
		t, err := parseDate(req.FechaVencimiento, "fechaVencimiento")
		if err != nil {
			return InvoiceResponse{}, err
		}
		fechaVencimiento = &t
	}

	totals, err := billing.ComputeTotals(toBillingLines(req.Items), billing.DefaultIVARate)
	if err != nil {
		return InvoiceResponse{}, err
	}

	invoice := model.Invoice{
		Tipo:             req.Tipo,
		Fecha:            fecha,
		FechaVencimiento: fechaVencimiento,
		Estado:           model.InvoiceEstadoPendiente,
		Cliente:          req.Cliente,
		NIFCliente:       req.NIFCliente,
		DireccionCliente: req.DireccionCliente,
		CiudadCliente:    req.CiudadCliente,
		CPCliente:        req.CPCliente,
		EmailCliente:     req.EmailCliente,
		TelefonoCliente:  req.TelefonoCliente,
		Subtotal:         totals.Subtotal,
		IVA:              totals.IVA,
		Total:            totals.Total,
	}
	for i, it := range req.Items {
		invoice.Items = append(invoice.Items, model.InvoiceItem{
			Descripcion:    it.Descripcion,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			Total:          totals.LineTotals[i],
		})
	}

	// Number allocation and insert share one transaction so an aborted create
	// rolls the counter back with it.
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		numero, err := s.allocateNumber(txCtx, req.Tipo)
		if err != nil {
			return err
		}
		invoice.Numero = numero
		return s.invoiceRepo.Create(txCtx, &invoice)
	})
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to create invoice: %w", err)
	}

	resp := toInvoiceResponse(invoice)
	s.hub.Publish(websocket.EventFacturaCreada, resp)
	return resp, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (InvoiceResponse, error) {
	invoiceID, err := parseID(id)
	if err != nil {
		return InvoiceResponse{}, err
	}
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return InvoiceResponse{}, wrapNotFound(err, "factura")
	}
	return toInvoiceResponse(*invoice), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter InvoiceFilter) ([]InvoiceResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	invoices, total, err := s.invoiceRepo.List(ctx, repository.InvoiceListFilter{
		Tipo:   filter.Tipo,
		Estado: filter.Estado,
		Page:   filter.Page,
		Limit:  filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	result := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		result = append(result, toInvoiceResponse(inv))
	}
	return result, total, nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, id string, req UpdateInvoiceRequest) (InvoiceResponse, error) {
	// An empty patch leaves the row untouched, updated_at included.
	if req.isEmpty() {
		return s.GetInvoice(ctx, id)
	}

	invoiceID, err := parseID(id)
	if err != nil {
		return InvoiceResponse{}, err
	}

	var updated *model.Invoice
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, err := s.invoiceRepo.FindByID(txCtx, invoiceID)
		if err != nil {
			return wrapNotFound(err, "factura")
		}

		// Paid invoices are immutable, enforced here so no caller can bypass it.
		if invoice.Estado == model.InvoiceEstadoPagada {
			return apperr.Statef("una factura pagada no se puede modificar")
		}

		if req.Fecha != nil {
			fecha, err := parseDate(*req.Fecha, "fecha")
			if err != nil {
				return err
			}
			invoice.Fecha = fecha
		}
		if req.FechaVencimiento != nil {
			if *req.FechaVencimiento == "" {
				invoice.FechaVencimiento = nil
			} else {
				t, err := parseDate(*req.FechaVencimiento, "fechaVencimiento")
				if err != nil {
					return err
				}
				invoice.FechaVencimiento = &t
			}
		}
		if req.Cliente != nil {
			if *req.Cliente == "" {
				return apperr.Validationf("cliente no puede estar vacio")
			}
			invoice.Cliente = *req.Cliente
		}
		if req.NIFCliente != nil {
			if *req.NIFCliente == "" {
				return apperr.Validationf("nifCliente no puede estar vacio")
			}
			invoice.NIFCliente = *req.NIFCliente
		}
		if req.DireccionCliente != nil {
			invoice.DireccionCliente = *req.DireccionCliente
		}
		if req.CiudadCliente != nil {
			invoice.CiudadCliente = *req.CiudadCliente
		}
		if req.CPCliente != nil {
			invoice.CPCliente = *req.CPCliente
		}
		if req.EmailCliente != nil {
			invoice.EmailCliente = *req.EmailCliente
		}
		if req.TelefonoCliente != nil {
			invoice.TelefonoCliente = *req.TelefonoCliente
		}

		if req.Items != nil {
			if len(*req.Items) == 0 {
				return apperr.Validationf("items no puede estar vacio")
			}
			totals, err := billing.ComputeTotals(toBillingLines(*req.Items), billing.DefaultIVARate)
			if err != nil {
				return err
			}
			items := make([]model.InvoiceItem, 0, len(*req.Items))
			for i, it := range *req.Items {
				items = append(items, model.InvoiceItem{
					Descripcion:    it.Descripcion,
					Cantidad:       it.Cantidad,
					PrecioUnitario: it.PrecioUnitario,
					Total:          totals.LineTotals[i],
				})
			}
			invoice.Subtotal = totals.Subtotal
			invoice.IVA = totals.IVA
			invoice.Total = totals.Total
			if err := s.invoiceRepo.ReplaceItems(txCtx, invoice, items); err != nil {
				return fmt.Errorf("failed to replace items: %w", err)
			}
		} else if err := s.invoiceRepo.Update(txCtx, invoice); err != nil {
			return fmt.Errorf("failed to update invoice: %w", err)
		}

		updated = invoice
		return nil
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	resp := toInvoiceResponse(*updated)
	s.hub.Publish(websocket.EventFacturaActualizada, resp)
	return resp, nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, id string) error {
	invoiceID, err := parseID(id)
	if err != nil {
		return err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, err := s.invoiceRepo.FindByID(txCtx, invoiceID)
		if err != nil {
			return wrapNotFound(err, "factura")
		}
		if invoice.Estado == model.InvoiceEstadoPagada {
			return apperr.Statef("una factura pagada no se puede eliminar")
		}
		if _, err := s.invoiceRepo.Delete(txCtx, invoiceID); err != nil {
			return fmt.Errorf("failed to delete invoice: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.hub.Publish(websocket.EventFacturaEliminada, map[string]string{"id": id})
	return nil
}

// MarcarPagada transitions pendiente → pagada. The payment date is required
// and is stored as supplied; the source never validated it against the issue
// date and neither does this.
func (s *invoiceService) MarcarPagada(ctx context.Context, id, fechaPago string) (InvoiceResponse, error) {
	if fechaPago == "" {
		return InvoiceResponse{}, apperr.Validationf("fechaPago es obligatoria")
	}
	pagoDate, err := parseDate(fechaPago, "fechaPago")
	if err != nil {
		return InvoiceResponse{}, err
	}

	return s.transition(ctx, id, func(invoice *model.Invoice) error {
		if invoice.Estado == model.InvoiceEstadoPagada {
			return apperr.Statef("la factura ya esta pagada")
		}
		invoice.Estado = model.InvoiceEstadoPagada
		invoice.FechaPago = &pagoDate
		return nil
	}, websocket.EventFacturaPagada)
}

// MarcarPendiente reverts pagada → pendiente ("undo payment") and clears the
// payment date.
func (s *invoiceService) MarcarPendiente(ctx context.Context, id string) (InvoiceResponse, error) {
	return s.transition(ctx, id, func(invoice *model.Invoice) error {
		if invoice.Estado != model.InvoiceEstadoPagada {
			return apperr.Statef("solo una factura pagada se puede devolver a pendiente")
		}
		invoice.Estado = model.InvoiceEstadoPendiente
		invoice.FechaPago = nil
		return nil
	}, websocket.EventFacturaActualizada)
}

// SetEstado is the external-mutation path, the only road to vencida. Payment
// transitions must use the pagar/despagar endpoints so the payment date stays
// consistent.
func (s *invoiceService) SetEstado(ctx context.Context, id, estado string) (InvoiceResponse, error) {
	if estado != model.InvoiceEstadoPendiente && estado != model.InvoiceEstadoVencida {
		return InvoiceResponse{}, apperr.Validationf("estado invalido: %s", estado)
	}

	return s.transition(ctx, id, func(invoice *model.Invoice) error {
		if invoice.Estado == model.InvoiceEstadoPagada {
			return apperr.Statef("una factura pagada no admite cambio de estado directo")
		}
		invoice.Estado = estado
		return nil
	}, websocket.EventFacturaActualizada)
}

// SetArchivo attaches an uploaded document reference. Purchase invoices only.
func (s *invoiceService) SetArchivo(ctx context.Context, id, nombre, url, tipo string) (InvoiceResponse, error) {
	return s.transition(ctx, id, func(invoice *model.Invoice) error {
		if invoice.Tipo != model.InvoiceTipoCompra {
			return apperr.Validationf("solo las facturas de compra admiten archivo adjunto")
		}
		if invoice.Estado == model.InvoiceEstadoPagada {
			return apperr.Statef("una factura pagada no se puede modificar")
		}
		invoice.ArchivoNombre = nombre
		invoice.ArchivoURL = url
		invoice.ArchivoTipo = tipo
		return nil
	}, websocket.EventFacturaActualizada)
}

func (s *invoiceService) transition(ctx context.Context, id string, mutate func(*model.Invoice) error, event string) (InvoiceResponse, error) {
	invoiceID, err := parseID(id)
	if err != nil {
		return InvoiceResponse{}, err
	}

	var invoice *model.Invoice
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		invoice, findErr = s.invoiceRepo.FindByID(txCtx, invoiceID)
		if findErr != nil {
			return wrapNotFound(findErr, "factura")
		}
		if err := mutate(invoice); err != nil {
			return err
		}
		if err := s.invoiceRepo.Update(txCtx, invoice); err != nil {
			return fmt.Errorf("failed to update invoice: %w", err)
		}
		return nil
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	resp := toInvoiceResponse(*invoice)
	s.hub.Publish(event, resp)
	return resp, nil
}

// allocateNumber reserves the next sequential number for the document kind
// matching tipo. The year segment is always the wall-clock year at call time,
// as in the source, even for backdated issue dates.
func (s *invoiceService) allocateNumber(txCtx context.Context, tipo string) (string, error) {
	kind := model.KindFacturaVenta
	if tipo == model.InvoiceTipoCompra {
		kind = model.KindFacturaCompra
	}
	numbers, err := s.invoiceRepo.Numbers(txCtx, tipo)
	if err != nil {
		return "", err
	}
	return allocateDocumentNumber(txCtx, s.seqRepo, kind, numbers)
}

// --- Mapping ---

func toItemResponses(items []model.InvoiceItem) []ItemResponse {
	result := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		result = append(result, ItemResponse{
			Descripcion:    it.Descripcion,
			Cantidad:       it.Cantidad.String(),
			PrecioUnitario: it.PrecioUnitario.StringFixed(2),
			Total:          it.Total.StringFixed(2),
		})
	}
	return result
}

func toInvoiceResponse(inv model.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:               inv.ID.String(),
		Tipo:             inv.Tipo,
		Numero:           inv.Numero,
		Fecha:            inv.Fecha.Format(dateLayout),
		Estado:           inv.Estado,
		Cliente:          inv.Cliente,
		NIFCliente:       inv.NIFCliente,
		DireccionCliente: inv.DireccionCliente,
		CiudadCliente:    inv.CiudadCliente,
		CPCliente:        inv.CPCliente,
		EmailCliente:     inv.EmailCliente,
		TelefonoCliente:  inv.TelefonoCliente,
		Items:            toItemResponses(inv.Items),
		Subtotal:         inv.Subtotal.StringFixed(2),
		IVA:              inv.IVA.StringFixed(2),
		Total:            inv.Total.StringFixed(2),
		ArchivoNombre:    inv.ArchivoNombre,
		ArchivoURL:       inv.ArchivoURL,
		ArchivoTipo:      inv.ArchivoTipo,
		CreatedAt:        inv.CreatedAt.Format(time.RFC3339),
	}
	if inv.FechaVencimiento != nil {
		v := inv.FechaVencimiento.Format(dateLayout)
		resp.FechaVencimiento = &v
	}
	if inv.FechaPago != nil {
		p := inv.FechaPago.Format(dateLayout)
		resp.FechaPago = &p
	}
	return resp
}
