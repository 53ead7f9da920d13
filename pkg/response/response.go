package response

import (
	"errors"
	"net/http"

	"payment-callback-gateway/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// AckResponse is the envelope the payment provider expects on every callback.
// Status reports whether the callback was accepted for processing; the
// provider only inspects the HTTP status code, the body is informational.
type AckResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

// Ack sends the 200 acknowledgment that stops provider redelivery.
func Ack(c *gin.Context, message string) {
	c.JSON(http.StatusOK, AckResponse{
		Status:  true,
		Message: message,
	})
}

// Reject sends a client-error acknowledgment for a structurally invalid
// callback. It maps *apperror.AppError to its HTTP status; anything else is
// reported as a 400 — this endpoint never answers 5xx, a server-error status
// would only feed the provider's retry storm.
func Reject(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status >= http.StatusInternalServerError {
			status = http.StatusBadRequest
		}
		c.JSON(status, AckResponse{
			Status:  false,
			Message: appErr.Message,
		})
		return
	}

	c.JSON(http.StatusBadRequest, AckResponse{
		Status:  false,
		Message: "Invalid request",
	})
}
