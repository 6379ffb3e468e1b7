package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/materials-service/pkg/errors"
)

// APIErrorResponse is the standardized error body
type APIErrorResponse struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"requestId,omitempty"`
	Timestamp string         `json:"timestamp"`
	Path      string         `json:"path"`
}

// ErrorResponder provides helper methods for sending error responses
type ErrorResponder struct {
	ctx    *gin.Context
	logger *slog.Logger
}

// NewErrorResponder creates a new ErrorResponder
func NewErrorResponder(ctx *gin.Context, logger *slog.Logger) *ErrorResponder {
	return &ErrorResponder{ctx: ctx, logger: logger}
}

// RespondWithError maps any error to a standardized response. Errors that are
// not AppErrors become opaque 500s.
func (r *ErrorResponder) RespondWithError(err error) {
	if appErr, ok := errors.AsAppError(err); ok {
		r.RespondWithAppError(appErr)
		return
	}
	r.RespondInternalError(err)
}

// RespondWithAppError sends an AppError response
func (r *ErrorResponder) RespondWithAppError(appErr *errors.AppError) {
	requestID, _ := r.ctx.Get(ContextKeyRequestID)
	reqID, _ := requestID.(string)

	r.logError(appErr, reqID)

	r.ctx.JSON(appErr.HTTPStatus, APIErrorResponse{
		Code:      string(appErr.Code),
		Message:   appErr.Message,
		Details:   appErr.Details,
		RequestID: reqID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Path:      r.ctx.Request.URL.Path,
	})
}

// RespondBadRequest sends a 400 validation response
func (r *ErrorResponder) RespondBadRequest(message string) {
	r.RespondWithAppError(errors.ErrValidation(message))
}

// RespondInternalError sends a 500 response
func (r *ErrorResponder) RespondInternalError(err error) {
	r.RespondWithAppError(errors.ErrInternal("internal server error").WithCause(err))
}

func (r *ErrorResponder) logError(appErr *errors.AppError, requestID string) {
	logLevel := slog.LevelWarn
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logLevel = slog.LevelError
	}

	attrs := []any{
		"code", appErr.Code,
		"message", appErr.Message,
		"status", appErr.HTTPStatus,
		"path", r.ctx.Request.URL.Path,
		"method", r.ctx.Request.Method,
		"requestId", requestID,
		"clientIP", r.ctx.ClientIP(),
	}
	if cause := appErr.Unwrap(); cause != nil {
		attrs = append(attrs, "error", cause.Error())
	}
	if appErr.Details != nil {
		attrs = append(attrs, "details", appErr.Details)
	}

	r.logger.Log(r.ctx.Request.Context(), logLevel, "API error", attrs...)
}
