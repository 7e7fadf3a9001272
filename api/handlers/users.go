package handlers

import (
	"net/http"
	"time"

	"todoai-api/api/middleware"
	"todoai-api/internal/common"
	"todoai-api/internal/user"
	"todoai-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc    user.Service
	logger *logger.Logger
}

func NewUserHandler(svc user.Service, logger *logger.Logger) *UserHandler {
	return &UserHandler{svc: svc, logger: logger}
}

// userResponse never carries the stored token
type userResponse struct {
	ID                common.UserID `json:"id"`
	Name              string        `json:"name,omitempty"`
	IsAnonymous       bool          `json:"isAnonymous"`
	AIIntegrationType string        `json:"aiIntegrationType,omitempty"`
	AIModel           string        `json:"aiModel,omitempty"`
	HasAIToken        bool          `json:"hasAiToken"`
	CreatedAt         time.Time     `json:"createdAt"`
}

func newUserResponse(u *user.User) userResponse {
	return userResponse{
		ID:                u.ID,
		Name:              u.Name,
		IsAnonymous:       u.IsAnonymous,
		AIIntegrationType: u.AIIntegrationType,
		AIModel:           u.AIModel,
		HasAIToken:        u.HasAIToken(),
		CreatedAt:         u.CreatedAt,
	}
}

type createUserRequest struct {
	Name string `json:"name"`
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	u, err := h.svc.CreateUser(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, middleware.LoggerFrom(c, h.logger), err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": newUserResponse(u), "token": string(u.ID)})
}

func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.svc.GetUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, middleware.LoggerFrom(c, h.logger), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(u)})
}

func (h *UserHandler) ConfigureAIIntegration(c *gin.Context) {
	var req user.AIIntegration
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	u, err := h.svc.ConfigureAIIntegration(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, middleware.LoggerFrom(c, h.logger), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(u)})
}
