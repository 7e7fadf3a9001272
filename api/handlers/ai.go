package handlers

import (
	"net/http"

	"todoai-api/api/middleware"
	"todoai-api/internal/generation"
	"todoai-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AIHandler serves the generation endpoints
type AIHandler struct {
	svc    generation.Service
	logger *logger.Logger
}

func NewAIHandler(svc generation.Service, logger *logger.Logger) *AIHandler {
	return &AIHandler{svc: svc, logger: logger}
}

type testKeyRequest struct {
	Vendor string `json:"aiProvider"`
	Model  string `json:"model"`
}

type publicTestKeyRequest struct {
	APIKey string `json:"apiKey" binding:"required"`
	Vendor string `json:"aiProvider" binding:"required"`
	Model  string `json:"model"`
}

func (h *AIHandler) GenerateTasks(c *gin.Context) {
	var req generation.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.svc.GenerateTasks(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, middleware.LoggerFrom(c, h.logger), err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AIHandler) GenerateTaskList(c *gin.Context) {
	var req generation.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	list, err := h.svc.GenerateTaskList(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, middleware.LoggerFrom(c, h.logger), err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"taskList": list})
}

func (h *AIHandler) PreviewTaskList(c *gin.Context) {
	var req generation.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	preview, err := h.svc.GenerateTaskListPreview(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, middleware.LoggerFrom(c, h.logger), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"preview": preview})
}

func (h *AIHandler) ListProviders(c *gin.Context) {
	providers, err := h.svc.ListProviders(c.Request.Context())
	if err != nil {
		respondError(c, middleware.LoggerFrom(c, h.logger), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"providers": providers})
}

// TestAPIKey checks the credential stored for the caller
func (h *AIHandler) TestAPIKey(c *gin.Context) {
	var req testKeyRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	check, err := h.svc.TestUserCredential(c.Request.Context(), middleware.UserID(c), req.Vendor, req.Model)
	if err != nil {
		respondError(c, middleware.LoggerFrom(c, h.logger), err)
		return
	}
	c.JSON(http.StatusOK, check)
}

// TestPublicAPIKey checks a raw key without authentication
func (h *AIHandler) TestPublicAPIKey(c *gin.Context) {
	var req publicTestKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.svc.TestCredential(c.Request.Context(), req.APIKey, req.Vendor, req.Model))
}
