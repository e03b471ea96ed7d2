package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"
)

type QuoteHandler struct {
	quoteService service.QuoteService
}

func NewQuoteHandler(quoteService service.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

func (h *QuoteHandler) RegisterRoutes(router *gin.RouterGroup) {
	quotes := router.Group("/api/presupuestos", middleware.RequireAuth())
	{
		quotes.POST("", h.CreateQuote)
		quotes.GET("", h.ListQuotes)
		quotes.GET("/:id", h.GetQuote)
		quotes.PUT("/:id", h.UpdateQuote)
		quotes.DELETE("/:id", h.DeleteQuote)
		quotes.PUT("/:id/aceptar", h.AcceptQuote)
		quotes.PUT("/:id/rechazar", h.RejectQuote)
	}
}

// CreateQuote creates a new quote
// @Summary      Create quote
// @Description  Creates a quote with estado pendiente and a fresh PPTO numero
// @Tags         presupuestos
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateQuoteRequest  true  "Create Quote Payload"
// @Success      201      {object}  response.Response{data=service.QuoteResponse}
// @Failure      422      {object}  response.Response
// @Router       /api/presupuestos [post]
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	var req service.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	quote, err := h.quoteService.CreateQuote(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, quote))
}

// ListQuotes returns a paginated list of quotes
// @Summary      List quotes
// @Description  Retrieves a paginated list of quotes, optionally filtered by estado
// @Tags         presupuestos
// @Security     BearerAuth
// @Produce      json
// @Param        estado  query     string  false  "Filter by estado (pendiente, aceptado, rechazado)"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Success      200     {object}  response.Response{data=response.Paginated}
// @Failure      500     {object}  response.Response
// @Router       /api/presupuestos [get]
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	p := pagination.Parse(c)

	quotes, total, err := h.quoteService.ListQuotes(c.Request.Context(), service.QuoteFilter{
		Estado: c.Query("estado"),
		Page:   p.Page,
		Limit:  p.Limit,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessList(http.StatusOK, quotes, total, p.Page, p.Limit))
}

// GetQuote returns a single quote with its items
// @Summary      Get quote
// @Tags         presupuestos
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Quote ID"
// @Success      200  {object}  response.Response{data=service.QuoteResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/presupuestos/{id} [get]
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	quote, err := h.quoteService.GetQuote(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, quote))
}

// UpdateQuote patches a quote
// @Summary      Update quote
// @Description  Applies a partial update; only pendiente quotes can be edited
// @Tags         presupuestos
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Quote ID"
// @Param        payload  body      service.UpdateQuoteRequest  true  "Update Quote Payload"
// @Success      200      {object}  response.Response{data=service.QuoteResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/presupuestos/{id} [put]
func (h *QuoteHandler) UpdateQuote(c *gin.Context) {
	var req service.UpdateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	quote, err := h.quoteService.UpdateQuote(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, quote))
}

// DeleteQuote removes a quote and its items
// @Summary      Delete quote
// @Tags         presupuestos
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Quote ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/presupuestos/{id} [delete]
func (h *QuoteHandler) DeleteQuote(c *gin.Context) {
	if err := h.quoteService.DeleteQuote(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Presupuesto eliminado"}))
}

// AcceptQuote accepts a quote and creates the matching sale invoice
// @Summary      Accept quote
// @Description  Atomically flips a pendiente quote to aceptado and creates one sale invoice from it
// @Tags         presupuestos
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Quote ID"
// @Success      200  {object}  response.Response{data=service.AcceptQuoteResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/presupuestos/{id}/aceptar [put]
func (h *QuoteHandler) AcceptQuote(c *gin.Context) {
	result, err := h.quoteService.AcceptQuote(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// RejectQuote rejects a quote
// @Summary      Reject quote
// @Description  Flips a pendiente quote to rechazado; the transition is terminal
// @Tags         presupuestos
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Quote ID"
// @Success      200  {object}  response.Response{data=service.QuoteResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/presupuestos/{id}/rechazar [put]
func (h *QuoteHandler) RejectQuote(c *gin.Context) {
	quote, err := h.quoteService.RejectQuote(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, quote))
}
