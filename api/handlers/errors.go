package handlers

import (
	"errors"
	"io"
	"net/http"

	"todoai-api/internal/common"
	"todoai-api/internal/llm"
	"todoai-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	codeValidation = "VALIDATION_ERROR"
	codeNotFound   = "NOT_FOUND"
	codeConflict   = "CONFLICT"
	codeInternal   = "INTERNAL"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// statusFor maps a service error to its HTTP status and response body
func statusFor(err error) (int, errorBody) {
	var (
		llmErr     *llm.Error
		notFound   common.NotFoundError
		validation common.ValidationError
		conflict   common.ConflictError
	)
	switch {
	case errors.As(err, &llmErr):
		status := http.StatusBadRequest
		if llmErr.Kind == llm.KindNoCredentialConfigured {
			status = http.StatusNotFound
		}
		return status, errorBody{Code: string(llmErr.Kind), Message: llmErr.UserMessage()}
	case errors.As(err, &notFound):
		return http.StatusNotFound, errorBody{Code: codeNotFound, Message: notFound.Error()}
	case errors.As(err, &validation):
		return http.StatusBadRequest, errorBody{Code: codeValidation, Message: validation.Message}
	case errors.As(err, &conflict):
		return http.StatusConflict, errorBody{Code: codeConflict, Message: conflict.Error()}
	default:
		return http.StatusInternalServerError, errorBody{Code: codeInternal, Message: "internal server error"}
	}
}

func respondError(c *gin.Context, log *logger.Logger, err error) {
	status, body := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Errorw("Request failed", "path", c.FullPath(), "error", err)
	} else {
		log.Warnw("Request rejected", "path", c.FullPath(), "status", status, "code", body.Code, "error", err)
	}
	c.JSON(status, errorResponse{Error: body})
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: errorBody{Code: codeValidation, Message: err.Error()}})
}

// bindOptionalJSON binds the body when one is sent. An empty body, chunked or
// not, leaves req at its zero value.
func bindOptionalJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		respondBindError(c, err)
		return false
	}
	return true
}
