package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"
)

type ProductHandler struct {
	productService    service.ProductService
	attachmentService service.AttachmentService
}

func NewProductHandler(productService service.ProductService, attachmentService service.AttachmentService) *ProductHandler {
	return &ProductHandler{
		productService:    productService,
		attachmentService: attachmentService,
	}
}

// Product management is restricted to the administracion department.
func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup) {
	products := router.Group("/api/productos", middleware.RequireDepartment(model.DeptAdministracion))
	{
		products.POST("", h.CreateProduct)
		products.GET("", h.ListProducts)
		products.GET("/categorias", h.ListCategories)
		products.POST("/categorias", h.AddCategory)
		products.GET("/:id", h.GetProduct)
		products.PUT("/:id", h.UpdateProduct)
		products.DELETE("/:id", h.DeleteProduct)
		products.POST("/:id/imagen", h.UploadImage)
	}
}

// CreateProduct registers a new product
// @Summary      Create product
// @Description  Registers a new product; categoria defaults to General
// @Tags         productos
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateProductRequest  true  "Create Product Payload"
// @Success      201      {object}  response.Response{data=model.Product}
// @Failure      422      {object}  response.Response
// @Router       /api/productos [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, product))
}

// ListProducts returns a paginated list of products
// @Summary      List products
// @Description  Retrieves a paginated list of products, optionally filtered by categoria and a nombre substring
// @Tags         productos
// @Security     BearerAuth
// @Produce      json
// @Param        categoria  query     string  false  "Filter by categoria"
// @Param        search     query     string  false  "Substring match on nombre (case-insensitive)"
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Number of items per page (default 20)"
// @Success      200        {object}  response.Response{data=response.Paginated}
// @Failure      500        {object}  response.Response
// @Router       /api/productos [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	p := pagination.Parse(c)

	products, total, err := h.productService.ListProducts(c.Request.Context(), c.Query("categoria"), c.Query("search"), p.Page, p.Limit)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessList(http.StatusOK, products, total, p.Page, p.Limit))
}

// ListCategories returns the known product categories
// @Summary      List categories
// @Tags         productos
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]string}
// @Failure      500  {object}  response.Response
// @Router       /api/productos/categorias [get]
func (h *ProductHandler) ListCategories(c *gin.Context) {
	categories, err := h.productService.ListCategories(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, categories))
}

type addCategoryRequest struct {
	Nombre string `json:"nombre" binding:"required"`
}

// AddCategory registers a new product category
// @Summary      Add category
// @Description  Registers a new product category; adding an existing one is a no-op
// @Tags         productos
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      addCategoryRequest  true  "Category Payload"
// @Success      201      {object}  response.Response{data=string}
// @Failure      422      {object}  response.Response
// @Router       /api/productos/categorias [post]
func (h *ProductHandler) AddCategory(c *gin.Context) {
	var req addCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	categoria, err := h.productService.AddCategory(c.Request.Context(), req.Nombre)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, categoria))
}

// GetProduct returns a single product by ID
// @Summary      Get product
// @Tags         productos
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response{data=model.Product}
// @Failure      404  {object}  response.Response
// @Router       /api/productos/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// UpdateProduct patches a product
// @Summary      Update product
// @Description  Applies a partial update; omitted fields are left untouched
// @Tags         productos
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Product ID"
// @Param        payload  body      service.UpdateProductRequest  true  "Update Product Payload"
// @Success      200      {object}  response.Response{data=model.Product}
// @Failure      404      {object}  response.Response
// @Router       /api/productos/{id} [put]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// DeleteProduct removes a product
// @Summary      Delete product
// @Tags         productos
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/productos/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.productService.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Producto eliminado"}))
}

// UploadImage stores a product image and links it to the product
// @Summary      Upload product image
// @Description  Stores a JPEG or PNG image (max 5MB) and sets it as the product image
// @Tags         productos
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "Product ID"
// @Param        file  formData  file    true  "Image file (JPEG or PNG)"
// @Success      200   {object}  response.Response{data=model.Product}
// @Failure      422   {object}  response.Response
// @Router       /api/productos/{id}/imagen [post]
func (h *ProductHandler) UploadImage(c *gin.Context) {
	name, data, err := readUpload(c, "file", service.MaxAttachmentSize)
	if err != nil {
		fail(c, err)
		return
	}

	stored, err := h.attachmentService.SaveImage(name, data)
	if err != nil {
		fail(c, err)
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), c.Param("id"), service.UpdateProductRequest{
		Imagen: &stored.URL,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}
