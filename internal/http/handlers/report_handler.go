// README: Report handlers; cache-aside over the report builder.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"commutebill/internal/modules/reports"
	"commutebill/internal/types"
)

type ReportHandler struct {
	builder *reports.Builder
	cache   *reports.Cache
}

func NewReportHandler(builder *reports.Builder, cache *reports.Cache) *ReportHandler {
	return &ReportHandler{builder: builder, cache: cache}
}

// Client serves GET /api/reports/clients/:id?month=YYYY-MM.
func (h *ReportHandler) Client(c *gin.Context) {
	period, ok := monthPeriod(c)
	if !ok {
		return
	}
	clientID := types.ID(c.Param("id"))
	key := reports.ClientKey(clientID, period.Month())

	var cached reports.ClientReport
	if h.cache.Get(c.Request.Context(), key, &cached) {
		writeJSON(c, http.StatusOK, &cached)
		return
	}
	report, err := h.builder.BuildClientReport(c.Request.Context(), clientID, period)
	if err != nil {
		writeBillingError(c, err)
		return
	}
	h.store(c, key, report)
	writeJSON(c, http.StatusOK, report)
}

// Vendor serves GET /api/reports/vendors/:id?month=YYYY-MM.
func (h *ReportHandler) Vendor(c *gin.Context) {
	period, ok := monthPeriod(c)
	if !ok {
		return
	}
	vendorID := types.ID(c.Param("id"))
	key := reports.VendorKey(vendorID, period.Month())

	var cached reports.VendorReport
	if h.cache.Get(c.Request.Context(), key, &cached) {
		writeJSON(c, http.StatusOK, &cached)
		return
	}
	report, err := h.builder.BuildVendorReport(c.Request.Context(), vendorID, period)
	if err != nil {
		writeBillingError(c, err)
		return
	}
	h.store(c, key, report)
	writeJSON(c, http.StatusOK, report)
}

// Employee serves GET /api/reports/employees/:id?month=YYYY-MM.
func (h *ReportHandler) Employee(c *gin.Context) {
	period, ok := monthPeriod(c)
	if !ok {
		return
	}
	employeeID := types.ID(c.Param("id"))
	key := reports.EmployeeKey(employeeID, period.Month())

	var cached reports.EmployeeReport
	if h.cache.Get(c.Request.Context(), key, &cached) {
		writeJSON(c, http.StatusOK, &cached)
		return
	}
	report, err := h.builder.BuildEmployeeReport(c.Request.Context(), employeeID, period)
	if err != nil {
		writeBillingError(c, err)
		return
	}
	h.store(c, key, report)
	writeJSON(c, http.StatusOK, report)
}

// Consolidated serves GET /api/reports/consolidated?month=YYYY-MM.
func (h *ReportHandler) Consolidated(c *gin.Context) {
	period, ok := monthPeriod(c)
	if !ok {
		return
	}
	key := reports.ConsolidatedKey(period.Month())

	var cached reports.ConsolidatedReport
	if h.cache.Get(c.Request.Context(), key, &cached) {
		writeJSON(c, http.StatusOK, &cached)
		return
	}
	report, err := h.builder.BuildConsolidatedReport(c.Request.Context(), period)
	if err != nil {
		writeBillingError(c, err)
		return
	}
	h.store(c, key, report)
	writeJSON(c, http.StatusOK, report)
}

// store caches a built report. A failed write is only logged: the report
// was built, serving it beats failing over a cache hiccup.
func (h *ReportHandler) store(c *gin.Context, key string, report any) {
	if err := h.cache.Set(c.Request.Context(), key, report); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("report cache write failed")
	}
}
