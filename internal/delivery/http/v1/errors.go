package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-tracker/internal/services"
)

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}

var validationErrors = []error{
	services.ErrInvalidTask,
	services.ErrTitleRequired,
	services.ErrInvalidPriority,
	services.ErrInvalidStatus,
	services.ErrInvalidCategory,
	services.ErrInvalidStatusFilter,
	services.ErrInvalidSort,
	services.ErrInvalidOrder,
}

// abortWithServiceError maps the service error taxonomy onto HTTP:
// validation failures are the caller's fault, an unknown id is not
// found, anything else is a server-side failure of this one request.
func abortWithServiceError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrTaskNotFound) {
		abort(c, newNotFoundError(err.Error()))
		return
	}

	for _, validationErr := range validationErrors {
		if errors.Is(err, validationErr) {
			abort(c, newBadRequestError(err.Error()))
			return
		}
	}

	abort(c, newAPIError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)))
}
