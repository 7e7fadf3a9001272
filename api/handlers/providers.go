package handlers

import (
	"net/http"
	"strconv"

	"todoai-api/api/middleware"
	"todoai-api/internal/catalog"
	"todoai-api/internal/common"
	"todoai-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ProviderHandler administers provider records
type ProviderHandler struct {
	svc    catalog.Service
	logger *logger.Logger
}

func NewProviderHandler(svc catalog.Service, logger *logger.Logger) *ProviderHandler {
	return &ProviderHandler{svc: svc, logger: logger}
}

func (h *ProviderHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	activeOnly, _ := strconv.ParseBool(c.Query("activeOnly"))

	result, err := h.svc.List(c.Request.Context(), catalog.ListFilter{Page: page, Limit: limit, ActiveOnly: activeOnly})
	if err != nil {
		respondError(c, middleware.LoggerFrom(c, h.logger), err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ProviderHandler) ListActive(c *gin.Context) {
	providers, err := h.svc.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, middleware.LoggerFrom(c, h.logger), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"providers": providers})
}

func (h *ProviderHandler) Get(c *gin.Context) {
	p, err := h.svc.GetByID(c.Request.Context(), common.ProviderID(c.Param("id")))
	h.respondProvider(c, http.StatusOK, p, err)
}

func (h *ProviderHandler) GetByName(c *gin.Context) {
	p, err := h.svc.GetByName(c.Request.Context(), c.Param("name"))
	h.respondProvider(c, http.StatusOK, p, err)
}

func (h *ProviderHandler) Create(c *gin.Context) {
	var in catalog.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}
	p, err := h.svc.Create(c.Request.Context(), in)
	h.respondProvider(c, http.StatusCreated, p, err)
}

func (h *ProviderHandler) Update(c *gin.Context) {
	var in catalog.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}
	p, err := h.svc.Update(c.Request.Context(), common.ProviderID(c.Param("id")), in)
	h.respondProvider(c, http.StatusOK, p, err)
}

func (h *ProviderHandler) ToggleStatus(c *gin.Context) {
	p, err := h.svc.ToggleStatus(c.Request.Context(), common.ProviderID(c.Param("id")))
	h.respondProvider(c, http.StatusOK, p, err)
}

func (h *ProviderHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), common.ProviderID(c.Param("id"))); err != nil {
		respondError(c, middleware.LoggerFrom(c, h.logger), err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProviderHandler) respondProvider(c *gin.Context, status int, p *catalog.ProviderIdentity, err error) {
	if err != nil {
		respondError(c, middleware.LoggerFrom(c, h.logger), err)
		return
	}
	c.JSON(status, gin.H{"provider": p})
}
