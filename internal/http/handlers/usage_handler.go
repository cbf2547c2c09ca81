// README: Trip-usage ingest and listing handlers.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"commutebill/internal/modules/usage"
	"commutebill/internal/types"
)

// TripStore is the slice of the usage store the handlers need.
type TripStore interface {
	Record(ctx context.Context, r *usage.TripUsageRecord) error
	ListForPair(ctx context.Context, clientID, vendorID types.ID, period types.Period) ([]usage.TripUsageRecord, error)
	ListForEmployee(ctx context.Context, employeeID types.ID, period types.Period) ([]usage.TripUsageRecord, error)
}

type UsageHandler struct {
	trips TripStore
}

func NewUsageHandler(trips TripStore) *UsageHandler {
	return &UsageHandler{trips: trips}
}

// Ingest records one completed trip. Duplicate trip IDs are absorbed
// silently; re-sent feeds are normal upstream behavior.
func (h *UsageHandler) Ingest(c *gin.Context) {
	var r usage.TripUsageRecord
	if err := c.ShouldBindJSON(&r); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if r.TripID == "" || r.EmployeeID == "" || r.ClientID == "" || r.VendorID == "" {
		writeError(c, http.StatusBadRequest, "tripId, employeeId, clientId and vendorId are required")
		return
	}
	if err := validateRecord(&r); err != nil {
		writeBillingError(c, err)
		return
	}
	if err := h.trips.Record(c.Request.Context(), &r); err != nil {
		writeBillingError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, map[string]any{"tripId": r.TripID})
}

// IngestBatch records a feed of trips. The batch is all-or-nothing on
// validation: one bad record rejects the whole feed before anything is
// stored.
func (h *UsageHandler) IngestBatch(c *gin.Context) {
	var records []usage.TripUsageRecord
	if err := c.ShouldBindJSON(&records); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	for i := range records {
		r := &records[i]
		if r.TripID == "" || r.EmployeeID == "" || r.ClientID == "" || r.VendorID == "" {
			writeError(c, http.StatusBadRequest, "every record needs tripId, employeeId, clientId and vendorId")
			return
		}
		if err := validateRecord(r); err != nil {
			writeBillingError(c, err)
			return
		}
	}
	for i := range records {
		if err := h.trips.Record(c.Request.Context(), &records[i]); err != nil {
			writeBillingError(c, err)
			return
		}
	}
	writeJSON(c, http.StatusCreated, map[string]any{"recorded": len(records)})
}

// ListForPair returns a (client, vendor) pair's raw trips for a month.
func (h *UsageHandler) ListForPair(c *gin.Context) {
	clientID := c.Query("clientId")
	vendorID := c.Query("vendorId")
	if clientID == "" || vendorID == "" {
		writeError(c, http.StatusBadRequest, "clientId and vendorId are required")
		return
	}
	period, ok := monthPeriod(c)
	if !ok {
		return
	}
	records, err := h.trips.ListForPair(c.Request.Context(), types.ID(clientID), types.ID(vendorID), period)
	if err != nil {
		writeBillingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, records)
}

func validateRecord(r *usage.TripUsageRecord) error {
	if r.DistanceKm.IsNegative() {
		return &usage.InvalidRecordError{TripID: r.TripID, Field: "distanceKm"}
	}
	if r.DurationMinutes < 0 {
		return &usage.InvalidRecordError{TripID: r.TripID, Field: "durationMinutes"}
	}
	return nil
}
