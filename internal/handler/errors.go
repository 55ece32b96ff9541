package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stemsi/academic-backend/internal/response"
	"github.com/stemsi/academic-backend/internal/validator"
	"github.com/stemsi/academic-backend/pkg/failure"
)

// fail maps a service error onto the HTTP status and error code clients see.
// Persistence details are logged by the services and never echoed.
func fail(c *gin.Context, err error) {
	switch {
	case failure.IsObjectNotFound(err):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case failure.IsVersionConflict(err):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	default:
		_ = c.Error(err)
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// bind decodes and validates the JSON body into dst, writing the 400 and
// returning false when it cannot.
func bind(c *gin.Context, dst any) bool {
	err := validator.Bind(c, dst)
	if err == nil {
		return true
	}
	var fields validator.FieldErrors
	if errors.As(err, &fields) {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
	} else {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
	}
	return false
}
