package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"
)

type InvoiceHandler struct {
	invoiceService    service.InvoiceService
	attachmentService service.AttachmentService
}

func NewInvoiceHandler(invoiceService service.InvoiceService, attachmentService service.AttachmentService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService:    invoiceService,
		attachmentService: attachmentService,
	}
}

func (h *InvoiceHandler) RegisterRoutes(router *gin.RouterGroup) {
	invoices := router.Group("/api/facturas", middleware.RequireAuth())
	{
		invoices.POST("", h.CreateInvoice)
		invoices.GET("", h.ListInvoices)
		invoices.GET("/:id", h.GetInvoice)
		invoices.PUT("/:id", h.UpdateInvoice)
		invoices.DELETE("/:id", h.DeleteInvoice)
		invoices.PUT("/:id/pagar", h.MarcarPagada)
		invoices.PUT("/:id/despagar", h.MarcarPendiente)
		invoices.PUT("/:id/estado", h.SetEstado)
		invoices.POST("/:id/archivo", h.UploadArchivo)
	}
}

// CreateInvoice creates a new sale or purchase invoice
// @Summary      Create invoice
// @Description  Creates an invoice with estado pendiente and a fresh sequential numero
// @Tags         facturas
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateInvoiceRequest  true  "Create Invoice Payload"
// @Success      201      {object}  response.Response{data=service.InvoiceResponse}
// @Failure      422      {object}  response.Response
// @Router       /api/facturas [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req service.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, invoice))
}

// ListInvoices returns a paginated list of invoices
// @Summary      List invoices
// @Description  Retrieves a paginated list of invoices, optionally filtered by tipo and estado
// @Tags         facturas
// @Security     BearerAuth
// @Produce      json
// @Param        tipo    query     string  false  "Filter by tipo (venta, compra)"
// @Param        estado  query     string  false  "Filter by estado (pendiente, pagada, vencida)"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Success      200     {object}  response.Response{data=response.Paginated}
// @Failure      500     {object}  response.Response
// @Router       /api/facturas [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	p := pagination.Parse(c)

	invoices, total, err := h.invoiceService.ListInvoices(c.Request.Context(), service.InvoiceFilter{
		Tipo:   c.Query("tipo"),
		Estado: c.Query("estado"),
		Page:   p.Page,
		Limit:  p.Limit,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessList(http.StatusOK, invoices, total, p.Page, p.Limit))
}

// GetInvoice returns a single invoice with its items
// @Summary      Get invoice
// @Tags         facturas
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=service.InvoiceResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/facturas/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// UpdateInvoice patches an invoice
// @Summary      Update invoice
// @Description  Applies a partial update; paid invoices reject any modification
// @Tags         facturas
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Invoice ID"
// @Param        payload  body      service.UpdateInvoiceRequest  true  "Update Invoice Payload"
// @Success      200      {object}  response.Response{data=service.InvoiceResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/facturas/{id} [put]
func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	var req service.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// DeleteInvoice removes an invoice and its items
// @Summary      Delete invoice
// @Description  Deletes an invoice; paid invoices cannot be deleted
// @Tags         facturas
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/facturas/{id} [delete]
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Factura eliminada"}))
}

type marcarPagadaRequest struct {
	FechaPago string `json:"fechaPago" binding:"required"`
}

// MarcarPagada marks an invoice as paid
// @Summary      Mark invoice paid
// @Description  Transitions pendiente or vencida to pagada with the given payment date
// @Tags         facturas
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string              true  "Invoice ID"
// @Param        payload  body      marcarPagadaRequest  true  "Payment date (YYYY-MM-DD)"
// @Success      200      {object}  response.Response{data=service.InvoiceResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/facturas/{id}/pagar [put]
func (h *InvoiceHandler) MarcarPagada(c *gin.Context) {
	var req marcarPagadaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	invoice, err := h.invoiceService.MarcarPagada(c.Request.Context(), c.Param("id"), req.FechaPago)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// MarcarPendiente reverts a paid invoice to pendiente
// @Summary      Undo invoice payment
// @Description  Transitions pagada back to pendiente and clears fechaPago
// @Tags         facturas
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=service.InvoiceResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/facturas/{id}/despagar [put]
func (h *InvoiceHandler) MarcarPendiente(c *gin.Context) {
	invoice, err := h.invoiceService.MarcarPendiente(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

type setEstadoRequest struct {
	Estado string `json:"estado" binding:"required"`
}

// SetEstado sets the invoice estado directly
// @Summary      Set invoice estado
// @Description  Sets estado to pendiente or vencida; payment transitions must use pagar/despagar
// @Tags         facturas
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string            true  "Invoice ID"
// @Param        payload  body      setEstadoRequest  true  "Target estado"
// @Success      200      {object}  response.Response{data=service.InvoiceResponse}
// @Failure      422      {object}  response.Response
// @Router       /api/facturas/{id}/estado [put]
func (h *InvoiceHandler) SetEstado(c *gin.Context) {
	var req setEstadoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	invoice, err := h.invoiceService.SetEstado(c.Request.Context(), c.Param("id"), req.Estado)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// UploadArchivo stores a purchase invoice document and links it to the invoice
// @Summary      Upload invoice attachment
// @Description  Stores a PDF or JPEG (max 5MB) and links it to a purchase invoice
// @Tags         facturas
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "Invoice ID"
// @Param        file  formData  file    true  "Attachment (PDF or JPEG)"
// @Success      200   {object}  response.Response{data=service.InvoiceResponse}
// @Failure      422   {object}  response.Response
// @Router       /api/facturas/{id}/archivo [post]
func (h *InvoiceHandler) UploadArchivo(c *gin.Context) {
	name, data, err := readUpload(c, "file", service.MaxAttachmentSize)
	if err != nil {
		fail(c, err)
		return
	}

	stored, err := h.attachmentService.SaveInvoiceAttachment(name, data)
	if err != nil {
		fail(c, err)
		return
	}

	invoice, err := h.invoiceService.SetArchivo(c.Request.Context(), c.Param("id"), stored.Nombre, stored.URL, stored.Tipo)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}
