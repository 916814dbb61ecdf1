package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/frahmantamala/sakti/internal"
	"github.com/frahmantamala/sakti/pkg/logger"
)

// Envelope is the shape of every API response body.
type Envelope struct {
	Success bool               `json:"success"`
	Data    interface{}        `json:"data"`
	Message string             `json:"message,omitempty"`
	Code    internal.ErrorCode `json:"code,omitempty"`
	Details interface{}        `json:"details,omitempty"`
}

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

func (h *BaseHandler) WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	h.WriteJSON(w, status, Envelope{Success: true, Data: data})
}

// WriteError writes a failure envelope with a plain message.
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, code internal.ErrorCode, message string) {
	h.WriteJSON(w, status, Envelope{Success: false, Message: message, Code: code})
}

// WriteAppError maps err onto a failure envelope. Anything that is not an
// AppError is reported as an internal error without leaking its text.
func (h *BaseHandler) WriteAppError(w http.ResponseWriter, err error) {
	appErr, ok := internal.IsAppError(err)
	if !ok {
		h.Logger.Error("unhandled error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, internal.ErrCodeInternal, "Internal server error")
		return
	}

	if appErr.StatusCode >= http.StatusInternalServerError {
		h.Logger.Error("request failed", "code", appErr.Code, "error", err)
	} else {
		h.Logger.Warn("request rejected", "code", appErr.Code, "error", err)
	}

	h.WriteJSON(w, appErr.StatusCode, Envelope{
		Success: false,
		Message: appErr.GetDetailedMessage(),
		Code:    appErr.Code,
		Details: appErr.Details,
	})
}

// DecodeJSON reads a JSON request body into dst.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return internal.NewValidationError("request body is required", internal.ErrCodeValidationFailed)
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed).WithCause(err)
	}
	return nil
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	return BearerToken(r)
}

func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[7:])
}
