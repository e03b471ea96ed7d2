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

type CreateQuoteRequest struct {
	Fecha            string        `json:"fecha" binding:"required"`        // YYYY-MM-DD
	FechaValidez     string        `json:"fechaValidez" binding:"required"` // YYYY-MM-DD
	Cliente          string        `json:"cliente" binding:"required"`
	NIFCliente       string        `json:"nifCliente" binding:"required"`
	DireccionCliente string        `json:"direccionCliente"`
	CiudadCliente    string        `json:"ciudadCliente"`
	CPCliente        string        `json:"cpCliente"`
	EmailCliente     string        `json:"emailCliente"`
	TelefonoCliente  string        `json:"telefonoCliente"`
	Contacto         string        `json:"contacto"`
	EmailContacto    string        `json:"emailContacto"`
	Comercial        string        `json:"comercial"`
	Observaciones    string        `json:"observaciones"`
	Items            []ItemPayload `json:"items" binding:"required,min=1,dive"`
}

type UpdateQuoteRequest struct {
	Fecha            *string        `json:"fecha"`
	FechaValidez     *string        `json:"fechaValidez"`
	Cliente          *string        `json:"cliente"`
	NIFCliente       *string        `json:"nifCliente"`
	DireccionCliente *string        `json:"direccionCliente"`
	CiudadCliente    *string        `json:"ciudadCliente"`
	CPCliente        *string        `json:"cpCliente"`
	EmailCliente     *string        `json:"emailCliente"`
	TelefonoCliente  *string        `json:"telefonoCliente"`
	Contacto         *string        `json:"contacto"`
	EmailContacto    *string        `json:"emailContacto"`
	Comercial        *string        `json:"comercial"`
	Observaciones    *string        `json:"observaciones"`
	Items            *[]ItemPayload `json:"items"`
}

func (r UpdateQuoteRequest) isEmpty() bool {
	return r.Fecha == nil && r.FechaValidez == nil && r.Cliente == nil &&
		r.NIFCliente == nil && r.DireccionCliente == nil && r.CiudadCliente == nil &&
		r.CPCliente == nil && r.EmailCliente == nil && r.TelefonoCliente == nil &&
		r.Contacto == nil && r.EmailContacto == nil && r.Comercial == nil &&
		r.Observaciones == nil && r.Items == nil
}

type QuoteFilter struct {
	Estado string
	Page   int
	Limit  int
}

type QuoteResponse struct {
	ID               string         `json:"id"`
	Numero           string         `json:"numero"`
	Fecha            string         `json:"fecha"`
	FechaValidez     string         `json:"fechaValidez"`
	Estado           string         `json:"estado"`
	Cliente          string         `json:"cliente"`
	NIFCliente       string         `json:"nifCliente"`
	DireccionCliente string         `json:"direccionCliente"`
	CiudadCliente    string         `json:"ciudadCliente"`
	CPCliente        string         `json:"cpCliente"`
	EmailCliente     string         `json:"emailCliente"`
	TelefonoCliente  string         `json:"telefonoCliente"`
	Contacto         string         `json:"contacto"`
	EmailContacto    string         `json:"emailContacto"`
	Comercial        string         `json:"comercial"`
	Items            []ItemResponse `json:"items"`
	Subtotal         string         `json:"subtotal"`
	IVA              string         `json:"iva"`
	Total            string         `json:"total"`
	Observaciones    string         `json:"observaciones,omitempty"`
	FacturaID        *string        `json:"facturaId,omitempty"`
	CreatedAt        string         `json:"created_at"`
}

// AcceptQuoteResponse carries both sides of the conversion.
type AcceptQuoteResponse struct {
	Presupuesto QuoteResponse   `json:"presupuesto"`
	Factura     InvoiceResponse `json:"factura"`
}

// --- Interface ---

type QuoteService interface {
	CreateQuote(ctx context.Context, req CreateQuoteRequest) (QuoteResponse, error)
	GetQuote(ctx context.Context, id string) (QuoteResponse, error)
	ListQuotes(ctx context.Context, filter QuoteFilter) ([]QuoteResponse, int64, error)
	UpdateQuote(ctx context.Context, id string, req UpdateQuoteRequest) (QuoteResponse, error)
	DeleteQuote(ctx context.Context, id string) error
	AcceptQuote(ctx context.Context, id string) (AcceptQuoteResponse, error)
	RejectQuote(ctx context.Context, id string) (QuoteResponse, error)
}

type quoteService struct {
	quoteRepo   repository.QuoteRepository
	invoiceRepo repository.InvoiceRepository
	seqRepo     repository.SequenceRepository
	txManager   repository.TransactionManager
	hub         *websocket.Hub
}

func NewQuoteService(
	quoteRepo repository.QuoteRepository,
	invoiceRepo repository.InvoiceRepository,
	seqRepo repository.SequenceRepository,
	txManager repository.TransactionManager,
	hub *websocket.Hub,
) QuoteService {
	return &quoteService{
		quoteRepo:   quoteRepo,
		invoiceRepo: invoiceRepo,
		seqRepo:     seqRepo,
		txManager:   txManager,
		hub:         hub,
	}
}

// --- Implementation ---

func (s *quoteService) CreateQuote(ctx context.Context, req CreateQuoteRequest) (QuoteResponse, error) {
	fecha, err := parseDate(req.Fecha, "fecha")
	if err != nil {
		return QuoteResponse{}, err
	}
	fechaValidez, err := parseDate(req.FechaValidez, "fechaValidez")
	if err != nil {
		return QuoteResponse{}, err
	}

	totals, err := billing.ComputeTotals(toBillingLines(req.Items), billing.DefaultIVARate)
	if err != nil {
		return QuoteResponse{}, err
	}

	quote := model.Quote{
		Fecha:            fecha,
		FechaValidez:     fechaValidez,
		Estado:           model.QuoteEstadoPendiente,
		Cliente:          req.Cliente,
		NIFCliente:       req.NIFCliente,
		DireccionCliente: req.DireccionCliente,
		CiudadCliente:    req.CiudadCliente,
		CPCliente:        req.CPCliente,
		EmailCliente:     req.EmailCliente,
		TelefonoCliente:  req.TelefonoCliente,
		Contacto:         req.Contacto,
		EmailContacto:    req.EmailContacto,
		Comercial:        req.Comercial,
		Observaciones:    req.Observaciones,
		Subtotal:         totals.Subtotal,
		IVA:              totals.IVA,
		Total:            totals.Total,
	}
	for i, it := range req.Items {
		quote.Items = append(quote.Items, model.QuoteItem{
			Descripcion:    it.Descripcion,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			Total:          totals.LineTotals[i],
		})
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		numbers, err := s.quoteRepo.Numbers(txCtx)
		if err != nil {
			return err
		}
		numero, err := allocateDocumentNumber(txCtx, s.seqRepo, model.KindPresupuesto, numbers)
		if err != nil {
			return err
		}
		quote.Numero = numero
		return s.quoteRepo.Create(txCtx, &quote)
	})
	if err != nil {
		return QuoteResponse{}, fmt.Errorf("failed to create quote: %w", err)
	}

	resp := toQuoteResponse(quote)
	s.hub.Publish(websocket.EventPresupuestoCreado, resp)
	return resp, nil
}

func (s *quoteService) GetQuote(ctx context.Context, id string) (QuoteResponse, error) {
	quoteID, err := parseID(id)
	if err != nil {
		return QuoteResponse{}, err
	}
	quote, err := s.quoteRepo.FindByID(ctx, quoteID)
	if err != nil {
		return QuoteResponse{}, wrapNotFound(err, "presupuesto")
	}
	return toQuoteResponse(*quote), nil
}

func (s *quoteService) ListQuotes(ctx context.Context, filter QuoteFilter) ([]QuoteResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	quotes, total, err := s.quoteRepo.List(ctx, repository.QuoteListFilter{
		Estado: filter.Estado,
		Page:   filter.Page,
		Limit:  filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch quotes: %w", err)
	}

	result := make([]QuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		result = append(result, toQuoteResponse(q))
	}
	return result, total, nil
}

func (s *quoteService) UpdateQuote(ctx context.Context, id string, req UpdateQuoteRequest) (QuoteResponse, error) {
	// An empty patch leaves the row untouched, updated_at included.
	if req.isEmpty() {
		return s.GetQuote(ctx, id)
	}

	quoteID, err := parseID(id)
	if err != nil {
		return QuoteResponse{}, err
	}

	var updated *model.Quote
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		quote, err := s.quoteRepo.FindByID(txCtx, quoteID)
		if err != nil {
			return wrapNotFound(err, "presupuesto")
		}

		// Only pending quotes are editable.
		if quote.Estado != model.QuoteEstadoPendiente {
			return apperr.Statef("un presupuesto %s no se puede modificar", quote.Estado)
		}

		if req.Fecha != nil {
			fecha, err := parseDate(*req.Fecha, "fecha")
			if err != nil {
				return err
			}
			quote.Fecha = fecha
		}
		if req.FechaValidez != nil {
			validez, err := parseDate(*req.FechaValidez, "fechaValidez")
			if err != nil {
				return err
			}
			quote.FechaValidez = validez
		}
		if req.Cliente != nil {
			if *req.Cliente == "" {
				return apperr.Validationf("cliente no puede estar vacio")
			}
			quote.Cliente = *req.Cliente
		}
		if req.NIFCliente != nil {
			if *req.NIFCliente == "" {
				return apperr.Validationf("nifCliente no puede estar vacio")
			}
			quote.NIFCliente = *req.NIFCliente
		}
		if req.DireccionCliente != nil {
			quote.DireccionCliente = *req.DireccionCliente
		}
		if req.CiudadCliente != nil {
			quote.CiudadCliente = *req.CiudadCliente
		}
		if req.CPCliente != nil {
			quote.CPCliente = *req.CPCliente
		}
		if req.EmailCliente != nil {
			quote.EmailCliente = *req.EmailCliente
		}
		if req.TelefonoCliente != nil {
			quote.TelefonoCliente = *req.TelefonoCliente
		}
		if req.Contacto != nil {
			quote.Contacto = *req.Contacto
		}
		if req.EmailContacto != nil {
			quote.EmailContacto = *req.EmailContacto
		}
		if req.Comercial != nil {
			quote.Comercial = *req.Comercial
		}
		if req.Observaciones != nil {
			quote.Observaciones = *req.Observaciones
		}

		if req.Items != nil {
			if len(*req.Items) == 0 {
				return apperr.Validationf("items no puede estar vacio")
			}
			totals, err := billing.ComputeTotals(toBillingLines(*req.Items), billing.DefaultIVARate)
			if err != nil {
				return err
			}
			items := make([]model.QuoteItem, 0, len(*req.Items))
			for i, it := range *req.Items {
				items = append(items, model.QuoteItem{
					Descripcion:    it.Descripcion,
					Cantidad:       it.Cantidad,
					PrecioUnitario: it.PrecioUnitario,
					Total:          totals.LineTotals[i],
				})
			}
			quote.Subtotal = totals.Subtotal
			quote.IVA = totals.IVA
			quote.Total = totals.Total
			if err := s.quoteRepo.ReplaceItems(txCtx, quote, items); err != nil {
				return fmt.Errorf("failed to replace items: %w", err)
			}
		} else if err := s.quoteRepo.Update(txCtx, quote); err != nil {
			return fmt.Errorf("failed to update quote: %w", err)
		}

		updated = quote
		return nil
	})
	if err != nil {
		return QuoteResponse{}, err
	}

	return toQuoteResponse(*updated), nil
}

func (s *quoteService) DeleteQuote(ctx context.Context, id string) error {
	quoteID, err := parseID(id)
	if err != nil {
		return err
	}
	// Items and header go in one transaction so a failure leaves no orphans.
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		affected, err := s.quoteRepo.Delete(txCtx, quoteID)
		if err != nil {
			return fmt.Errorf("failed to delete quote: %w", err)
		}
		if affected == 0 {
			return apperr.NotFoundf("presupuesto no encontrado")
		}
		return nil
	})
}

// AcceptQuote flips a pending quote to aceptado and creates exactly one new
// sale invoice from its snapshot and items, all inside one transaction: a
// failure on either side rolls back both.
func (s *quoteService) AcceptQuote(ctx context.Context, id string) (AcceptQuoteResponse, error) {
	quoteID, err := parseID(id)
	if err != nil {
		return AcceptQuoteResponse{}, err
	}

	var quote *model.Quote
	var invoice model.Invoice
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		quote, findErr = s.quoteRepo.FindByID(txCtx, quoteID)
		if findErr != nil {
			return wrapNotFound(findErr, "presupuesto")
		}

		if quote.Estado != model.QuoteEstadoPendiente {
			return apperr.Statef("un presupuesto %s no se puede aceptar", quote.Estado)
		}

		lines := make([]billing.Line, 0, len(quote.Items))
		for _, it := range quote.Items {
			lines = append(lines, billing.Line{Cantidad: it.Cantidad, PrecioUnitario: it.PrecioUnitario})
		}
		totals, err := billing.ComputeTotals(lines, billing.DefaultIVARate)
		if err != nil {
			return err
		}

		invoice = model.Invoice{
			Tipo:             model.InvoiceTipoVenta,
			Fecha:            time.Now(),
			Estado:           model.InvoiceEstadoPendiente,
			Cliente:          quote.Cliente,
			NIFCliente:       quote.NIFCliente,
			DireccionCliente: quote.DireccionCliente,
			CiudadCliente:    quote.CiudadCliente,
			CPCliente:        quote.CPCliente,
			EmailCliente:     quote.EmailCliente,
			TelefonoCliente:  quote.TelefonoCliente,
			Subtotal:         totals.Subtotal,
			IVA:              totals.IVA,
			Total:            totals.Total,
		}
		for i, it := range quote.Items {
			invoice.Items = append(invoice.Items, model.InvoiceItem{
				Descripcion:    it.Descripcion,
				Cantidad:       it.Cantidad,
				PrecioUnitario: it.PrecioUnitario,
				Total:          totals.LineTotals[i],
			})
		}

		numbers, err := s.invoiceRepo.Numbers(txCtx, model.InvoiceTipoVenta)
		if err != nil {
			return err
		}
		numero, err := allocateDocumentNumber(txCtx, s.seqRepo, model.KindFacturaVenta, numbers)
		if err != nil {
			return err
		}
		invoice.Numero = numero

		if err := s.invoiceRepo.Create(txCtx, &invoice); err != nil {
			return fmt.Errorf("failed to create invoice from quote: %w", err)
		}

		quote.Estado = model.QuoteEstadoAceptado
		quote.InvoiceID = &invoice.ID
		if err := s.quoteRepo.Update(txCtx, quote); err != nil {
			return fmt.Errorf("failed to update quote: %w", err)
		}
		return nil
	})
	if err != nil {
		return AcceptQuoteResponse{}, err
	}

	resp := AcceptQuoteResponse{
		Presupuesto: toQuoteResponse(*quote),
		Factura:     toInvoiceResponse(invoice),
	}
	s.hub.Publish(websocket.EventPresupuestoAceptado, resp)
	return resp, nil
}

// RejectQuote is a terminal, one-way transition.
func (s *quoteService) RejectQuote(ctx context.Context, id string) (QuoteResponse, error) {
	quoteID, err := parseID(id)
	if err != nil {
		return QuoteResponse{}, err
	}

	var quote *model.Quote
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		quote, findErr = s.quoteRepo.FindByID(txCtx, quoteID)
		if findErr != nil {
			return wrapNotFound(findErr, "presupuesto")
		}
		if quote.Estado != model.QuoteEstadoPendiente {
			return apperr.Statef("un presupuesto %s no se puede rechazar", quote.Estado)
		}
		quote.Estado = model.QuoteEstadoRechazado
		return s.quoteRepo.Update(txCtx, quote)
	})
	if err != nil {
		return QuoteResponse{}, err
	}

	resp := toQuoteResponse(*quote)
	s.hub.Publish(websocket.EventPresupuestoRechazado, resp)
	return resp, nil
}

// --- Mapping ---

func toQuoteResponse(q model.Quote) QuoteResponse {
	items := make([]ItemResponse, 0, len(q.Items))
	for _, it := range q.Items {
		items = append(items, ItemResponse{
			Descripcion:    it.Descripcion,
			Cantidad:       it.Cantidad.String(),
			PrecioUnitario: it.PrecioUnitario.StringFixed(2),
			Total:          it.Total.StringFixed(2),
		})
	}

	resp := QuoteResponse{
		ID:               q.ID.String(),
		Numero:           q.Numero,
		Fecha:            q.Fecha.Format(dateLayout),
		FechaValidez:     q.FechaValidez.Format(dateLayout),
		Estado:           q.Estado,
		Cliente:          q.Cliente,
		NIFCliente:       q.NIFCliente,
		DireccionCliente: q.DireccionCliente,
		CiudadCliente:    q.CiudadCliente,
		CPCliente:        q.CPCliente,
		EmailCliente:     q.EmailCliente,
		TelefonoCliente:  q.TelefonoCliente,
		Contacto:         q.Contacto,
		EmailContacto:    q.EmailContacto,
		Comercial:        q.Comercial,
		Items:            items,
		Subtotal:         q.Subtotal.StringFixed(2),
		IVA:              q.IVA.StringFixed(2),
		Total:            q.Total.StringFixed(2),
		Observaciones:    q.Observaciones,
		CreatedAt:        q.CreatedAt.Format(time.RFC3339),
	}
	if q.InvoiceID != nil {
		f := q.InvoiceID.String()
		resp.FacturaID = &f
	}
	return resp
}
