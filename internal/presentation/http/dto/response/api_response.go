package response

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tillworks/checkout-api/pkg/apperror"
	"github.com/tillworks/checkout-api/pkg/pagination"
)

// APIResponse is the envelope every endpoint returns. The POS front end
// switches on Success and surfaces Message to the cashier verbatim, so
// messages are written for the person at the till, not for a developer.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta ties a response to its request for support and reconciliation.
type Meta struct {
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id"`
}

func newMeta(c *gin.Context) *Meta {
	// The logger middleware already assigned a request id; fall back for
	// responses written before it ran.
	requestID := ""
	if v, ok := c.Get("request_id"); ok {
		requestID, _ = v.(string)
	}
	if requestID == "" {
		requestID = c.GetHeader("X-Request-ID")
	}
	if requestID == "" {
		requestID = uuid.New().String()
	}
	return &Meta{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: requestID,
	}
}

func Success(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    newMeta(c),
	})
}

func SuccessWithPagination[T any](c *gin.Context, statusCode int, message string, result *pagination.PaginatedResult[T]) {
	c.JSON(statusCode, APIResponse{
		Success: true,
		Message: message,
		Data:    result,
		Meta:    newMeta(c),
	})
}

// Error maps a service error onto the envelope using its AppError code
// and message. Unknown errors become a generic 500.
func Error(c *gin.Context, err error) {
	appErr := apperror.GetAppError(err)
	c.JSON(appErr.Code, APIResponse{
		Success: false,
		Message: appErr.Message,
		Errors:  appErr.Errors,
		Meta:    newMeta(c),
	})
}

func ErrorWithCode(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Message: message,
		Meta:    newMeta(c),
	})
}

func ValidationError(c *gin.Context, errors []apperror.FieldError) {
	c.JSON(422, APIResponse{
		Success: false,
		Message: "Validation failed",
		Errors:  errors,
		Meta:    newMeta(c),
	})
}

func Created(c *gin.Context, message string, data interface{}) {
	Success(c, 201, message, data)
}

func OK(c *gin.Context, message string, data interface{}) {
	Success(c, 200, message, data)
}

func NoContent(c *gin.Context) {
	c.Status(204)
}

func NotFound(c *gin.Context, message string) {
	ErrorWithCode(c, 404, message)
}

func Unauthorized(c *gin.Context, message string) {
	ErrorWithCode(c, 401, message)
}

func Forbidden(c *gin.Context, message string) {
	ErrorWithCode(c, 403, message)
}

func BadRequest(c *gin.Context, message string) {
	ErrorWithCode(c, 400, message)
}

func InternalServerError(c *gin.Context, message string) {
	ErrorWithCode(c, 500, message)
}
