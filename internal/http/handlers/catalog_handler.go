// README: Billing-model catalog handlers: create, resolve, list, deactivate, assign.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"commutebill/internal/modules/catalog"
	"commutebill/internal/types"
)

type CatalogHandler struct {
	catalog *catalog.Service
}

func NewCatalogHandler(svc *catalog.Service) *CatalogHandler {
	return &CatalogHandler{catalog: svc}
}

// Create registers a billing model. The request body is the model itself;
// the ID is assigned server-side.
func (h *CatalogHandler) Create(c *gin.Context) {
	var m catalog.BillingModel
	if err := c.ShouldBindJSON(&m); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	created, err := h.catalog.Create(c.Request.Context(), &m)
	if err != nil {
		writeBillingError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, created)
}

// Resolve returns the single model effective for a (client, vendor) pair at
// the given instant (?at=RFC3339, default now).
func (h *CatalogHandler) Resolve(c *gin.Context) {
	clientID := c.Query("clientId")
	vendorID := c.Query("vendorId")
	if clientID == "" || vendorID == "" {
		writeError(c, http.StatusBadRequest, "clientId and vendorId are required")
		return
	}
	at, ok := atInstant(c)
	if !ok {
		return
	}
	m, err := h.catalog.Resolve(c.Request.Context(), types.ID(clientID), types.ID(vendorID), at)
	if err != nil {
		writeBillingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, m)
}

func (h *CatalogHandler) ListForClient(c *gin.Context) {
	at, ok := atInstant(c)
	if !ok {
		return
	}
	models, err := h.catalog.EffectiveByClient(c.Request.Context(), types.ID(c.Param("id")), at)
	if err != nil {
		writeBillingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, models)
}

func (h *CatalogHandler) ListForVendor(c *gin.Context) {
	at, ok := atInstant(c)
	if !ok {
		return
	}
	models, err := h.catalog.EffectiveByVendor(c.Request.Context(), types.ID(c.Param("id")), at)
	if err != nil {
		writeBillingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, models)
}

type deactivateReq struct {
	AsOf time.Time `json:"asOf"`
}

// Deactivate closes a model's effective range. AsOf defaults to now.
func (h *CatalogHandler) Deactivate(c *gin.Context) {
	var req deactivateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	if err := h.catalog.Deactivate(c.Request.Context(), types.ID(c.Param("id")), asOf); err != nil {
		writeBillingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"id": c.Param("id"), "effectiveUntil": asOf})
}

func (h *CatalogHandler) Assign(c *gin.Context) {
	var a catalog.PackageAssignment
	if err := c.ShouldBindJSON(&a); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	created, err := h.catalog.Assign(c.Request.Context(), &a)
	if err != nil {
		writeBillingError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, created)
}

func (h *CatalogHandler) ResolveAssignment(c *gin.Context) {
	employeeID := c.Query("employeeId")
	vendorID := c.Query("vendorId")
	if employeeID == "" || vendorID == "" {
		writeError(c, http.StatusBadRequest, "employeeId and vendorId are required")
		return
	}
	at, ok := atInstant(c)
	if !ok {
		return
	}
	a, err := h.catalog.AssignmentFor(c.Request.Context(), types.ID(employeeID), types.ID(vendorID), at)
	if err != nil {
		writeBillingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, a)
}

// atInstant reads the optional ?at=RFC3339 query parameter, defaulting to now.
func atInstant(c *gin.Context) (time.Time, bool) {
	raw := c.Query("at")
	if raw == "" {
		return time.Now().UTC(), true
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		writeError(c, http.StatusBadRequest, "at must be RFC3339")
		return time.Time{}, false
	}
	return at, true
}
