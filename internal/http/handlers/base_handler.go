// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"commutebill/internal/modules/billing"
	"commutebill/internal/modules/catalog"
	"commutebill/internal/modules/usage"
	"commutebill/internal/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeBillingError maps domain errors to statuses. errors.Is/As is used
// because the report builder wraps errors with pair and period context.
func writeBillingError(c *gin.Context, err error) {
	var validation *catalog.ValidationError
	var invalid *usage.InvalidRecordError
	var unsupported *billing.UnsupportedModelTypeError
	switch {
	case errors.As(err, &validation), errors.As(err, &invalid), errors.As(err, &unsupported):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, catalog.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, catalog.ErrOverlap):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

// monthPeriod reads the required ?month=YYYY-MM query parameter.
func monthPeriod(c *gin.Context) (types.Period, bool) {
	period, err := types.ParseMonth(c.Query("month"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "month must be YYYY-MM")
		return types.Period{}, false
	}
	return period, true
}
