package handler

import (
	"errors"
	"net/http"

	"scolaris/internal/model"
	"scolaris/pkg/response"

	"github.com/gin-gonic/gin"
)

// writeError maps domain errors onto HTTP statuses. Conflicting or
// already-settled state is 409, broken money invariants are 422, everything
// else the services surface is treated as a bad request.
func writeError(c *gin.Context, err error) {
	var overpayment *model.OverpaymentError
	var unknownAccount *model.UnknownAccountError
	var violation *model.InvariantViolationError

	switch {
	case errors.Is(err, model.ErrAmbiguousTarget):
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
	case errors.Is(err, model.ErrDuplicateInvoiceNumber):
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
	case errors.Is(err, model.ErrAlreadyReversed):
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
	case errors.As(err, &overpayment):
		c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, err.Error()))
	case errors.Is(err, model.ErrUnbalancedPosting):
		c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, err.Error()))
	case errors.As(err, &unknownAccount):
		c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, err.Error()))
	case errors.As(err, &violation):
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
	case errors.Is(err, model.ErrEmptyInvoice):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	default:
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	}
}
