// Package errors writes the API's JSON error envelope. Import it as apierrors.
package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stwalsh4118/orgdesk/internal/middleware"
	"github.com/stwalsh4118/orgdesk/internal/validation"
)

// Error code constants for standardized error responses
const (
	ErrNotFound           = "NOT_FOUND"
	ErrBadRequest         = "BAD_REQUEST"
	ErrUnauthorized       = "UNAUTHORIZED"
	ErrConflict           = "CONFLICT"
	ErrHasRelation        = "HAS_RELATION"
	ErrInternalServer     = "INTERNAL_SERVER_ERROR"
	ErrValidation         = "VALIDATION_ERROR"
	ErrDatabaseConnection = "DATABASE_CONNECTION_ERROR"
)

// ErrorResponse is the top-level error response structure.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// respond logs a warning and aborts with the envelope.
func respond(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	requestID := middleware.GetRequestID(c)

	if log := middleware.GetLogger(c); log != nil {
		fields := map[string]interface{}{
			"code":    code,
			"message": message,
			"path":    c.Request.URL.Path,
		}
		if details != nil {
			fields["details"] = details
		}
		log.Warn("Request rejected", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: requestID,
		},
	})
}

// NotFound returns a 404 Not Found error response.
func NotFound(c *gin.Context, message string) {
	respond(c, http.StatusNotFound, ErrNotFound, message, nil)
}

// BadRequest returns a 400 Bad Request error response with optional details.
func BadRequest(c *gin.Context, message string, details map[string]interface{}) {
	respond(c, http.StatusBadRequest, ErrBadRequest, message, details)
}

// Unauthorized returns a 401 error response.
func Unauthorized(c *gin.Context, message string) {
	respond(c, http.StatusUnauthorized, ErrUnauthorized, message, nil)
}

// Conflict returns a 409 error response for duplicates and stale references.
func Conflict(c *gin.Context, message string, details map[string]interface{}) {
	respond(c, http.StatusConflict, ErrConflict, message, details)
}

// RelationConflict returns a 409 with code HAS_RELATION. Clients rely on the
// code to tell "still referenced" apart from every other delete failure.
func RelationConflict(c *gin.Context, message string) {
	respond(c, http.StatusConflict, ErrHasRelation, message, nil)
}

// InternalServerError returns a 500 Internal Server Error response.
// The error is logged with full context; only message reaches the client.
func InternalServerError(c *gin.Context, message string, err error) {
	requestID := middleware.GetRequestID(c)

	if log := middleware.GetLogger(c); log != nil {
		log.Error("Internal server error", err, map[string]interface{}{
			"message": message,
			"path":    c.Request.URL.Path,
			"method":  c.Request.Method,
		})
	}
	if err != nil {
		_ = c.Error(err)
	}

	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Error: ErrorDetail{
			Code:      ErrInternalServer,
			Message:   message,
			RequestID: requestID,
		},
	})
}

// ValidationError returns a 400 response whose details map each failing
// field path to its translated message.
func ValidationError(c *gin.Context, validationErrors validator.ValidationErrors) {
	respond(c, http.StatusBadRequest, ErrValidation,
		"Validation failed for one or more fields", validation.Messages(validationErrors))
}

// BindError reports a failed ShouldBind* call: field errors become a
// ValidationError, anything else (malformed JSON, bad number) a BadRequest.
func BindError(c *gin.Context, err error) {
	if details := validation.FieldErrors(err); details != nil {
		respond(c, http.StatusBadRequest, ErrValidation, "Validation failed for one or more fields", details)
		return
	}
	BadRequest(c, "Malformed request", map[string]interface{}{"error": err.Error()})
}
