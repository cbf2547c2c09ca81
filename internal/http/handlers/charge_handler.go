// README: On-demand charge calculation for one (client, vendor) month.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"commutebill/internal/modules/reports"
	"commutebill/internal/types"
)

type ChargeHandler struct {
	builder *reports.Builder
}

func NewChargeHandler(builder *reports.Builder) *ChargeHandler {
	return &ChargeHandler{builder: builder}
}

type calculateReq struct {
	ClientID string `json:"clientId"`
	VendorID string `json:"vendorId"`
	Month    string `json:"month"`
}

// Calculate prices a pair's month without building a full report. Useful
// for invoice previews while a month is still open.
func (h *ChargeHandler) Calculate(c *gin.Context) {
	var req calculateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ClientID == "" || req.VendorID == "" {
		writeError(c, http.StatusBadRequest, "clientId and vendorId are required")
		return
	}
	period, err := types.ParseMonth(req.Month)
	if err != nil {
		writeError(c, http.StatusBadRequest, "month must be YYYY-MM")
		return
	}
	result, err := h.builder.ChargeForPair(c.Request.Context(), types.ID(req.ClientID), types.ID(req.VendorID), period)
	if err != nil {
		writeBillingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, result)
}
