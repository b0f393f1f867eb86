package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Machine-readable error codes surfaced to clients.
const (
	CodeUnauthorized                = "Unauthorized"
	CodeForbidden                   = "Forbidden"
	CodeNotFound                    = "NotFound"
	CodeInvalidTransition           = "InvalidTransition"
	CodeSlotUnavailable             = "SlotUnavailable"
	CodeDuplicateActiveConsultation = "DuplicateActiveConsultation"
	CodeCancellationWindowExpired   = "CancellationWindowExpired"
	CodeEditWindowExpired           = "EditWindowExpired"
	CodeConsultationNotActive       = "ConsultationNotActive"
	CodeValidationError             = "ValidationError"
	CodeInternalError               = "InternalError"
)

// statusByCode maps error codes to HTTP statuses. Business-rule violations
// are 4xx and never retried; anything unknown is a 500.
var statusByCode = map[string]int{
	CodeUnauthorized:                http.StatusUnauthorized,
	CodeForbidden:                   http.StatusForbidden,
	CodeNotFound:                    http.StatusNotFound,
	CodeInvalidTransition:           http.StatusBadRequest,
	CodeSlotUnavailable:             http.StatusBadRequest,
	CodeDuplicateActiveConsultation: http.StatusBadRequest,
	CodeCancellationWindowExpired:   http.StatusBadRequest,
	CodeEditWindowExpired:           http.StatusBadRequest,
	CodeConsultationNotActive:       http.StatusBadRequest,
	CodeValidationError:             http.StatusBadRequest,
	CodeInternalError:               http.StatusInternalServerError,
}

// ServiceError is a business-rule violation carrying a machine-readable code.
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return e.Code + ": " + e.Message
}

// NewServiceError constructs a ServiceError with the given code and message.
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message}
}

// ErrorResponse defines the structure of error responses.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Code:    CodeInternalError,
					Message: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response.
func JSONError(c *gin.Context, status int, code, message string) {
	GetLogger().Warn(message, zap.String("code", code))
	c.JSON(status, ErrorResponse{Code: code, Message: message})
}

// RespondError maps a service-layer error to an HTTP response. Unexpected
// failures are logged with context and surfaced as a generic 500 without
// leaking internals.
func RespondError(c *gin.Context, err error) {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		status, ok := statusByCode[svcErr.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		c.JSON(status, ErrorResponse{Code: svcErr.Code, Message: svcErr.Message})
		return
	}

	GetLogger().Error("Internal error", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Code:    CodeInternalError,
		Message: "An unexpected error occurred. Please try again later.",
	})
}
