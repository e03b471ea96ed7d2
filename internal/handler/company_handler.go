package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"
)

type CompanyHandler struct {
	companyService    service.CompanyService
	attachmentService service.AttachmentService
}

func NewCompanyHandler(companyService service.CompanyService, attachmentService service.AttachmentService) *CompanyHandler {
	return &CompanyHandler{
		companyService:    companyService,
		attachmentService: attachmentService,
	}
}

func (h *CompanyHandler) RegisterRoutes(router *gin.RouterGroup) {
	company := router.Group("/api/empresa", middleware.RequireAuth())
	{
		company.GET("", h.GetCompany)
		company.PUT("", h.UpdateCompany)
		company.POST("/logo", h.UploadLogo)
	}
}

// GetCompany returns the company record
// @Summary      Get company
// @Description  Returns the singleton company record, falling back to defaults
// @Tags         empresa
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=model.Company}
// @Failure      500  {object}  response.Response
// @Router       /api/empresa [get]
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	company, err := h.companyService.GetCompany(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, company))
}

// UpdateCompany patches the company record
// @Summary      Update company
// @Description  Applies a partial update to the company record, creating it on first write
// @Tags         empresa
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.UpdateCompanyRequest  true  "Update Company Payload"
// @Success      200      {object}  response.Response{data=model.Company}
// @Failure      422      {object}  response.Response
// @Router       /api/empresa [put]
func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	var req service.UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	company, err := h.companyService.UpdateCompany(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, company))
}

// UploadLogo stores the company logo
// @Summary      Upload company logo
// @Description  Stores a JPEG or PNG logo (max 5MB) and links it to the company record
// @Tags         empresa
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Logo image (JPEG or PNG)"
// @Success      200   {object}  response.Response{data=model.Company}
// @Failure      422   {object}  response.Response
// @Router       /api/empresa/logo [post]
func (h *CompanyHandler) UploadLogo(c *gin.Context) {
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

	company, err := h.companyService.SetLogo(c.Request.Context(), stored.URL)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, company))
}
