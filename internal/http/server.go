// README: API surface; registers routes and delegates to module services.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"commutebill/internal/http/handlers"
	"commutebill/internal/http/middleware"
	"commutebill/internal/modules/catalog"
	"commutebill/internal/modules/reports"
)

type ServerDeps struct {
	Catalog *catalog.Service
	Trips   handlers.TripStore
	Builder *reports.Builder
	Cache   *reports.Cache
	Logger  zerolog.Logger
}

type Server struct {
	catalog *catalog.Service
	trips   handlers.TripStore
	builder *reports.Builder
	cache   *reports.Cache
	logger  zerolog.Logger
}

func NewServer(deps ServerDeps) *Server {
	return &Server{
		catalog: deps.Catalog,
		trips:   deps.Trips,
		builder: deps.Builder,
		cache:   deps.Cache,
		logger:  deps.Logger,
	}
}

func (s *Server) Routes() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery(s.logger))
	r.Use(middleware.Logging(s.logger))

	catalogHandler := handlers.NewCatalogHandler(s.catalog)
	r.POST("/api/billing-models", catalogHandler.Create)
	r.GET("/api/billing-models/resolve", catalogHandler.Resolve)
	r.POST("/api/billing-models/:id/deactivate", catalogHandler.Deactivate)
	r.GET("/api/clients/:id/billing-models", catalogHandler.ListForClient)
	r.GET("/api/vendors/:id/billing-models", catalogHandler.ListForVendor)
	r.POST("/api/assignments", catalogHandler.Assign)
	r.GET("/api/assignments/resolve", catalogHandler.ResolveAssignment)

	usageHandler := handlers.NewUsageHandler(s.trips)
	r.POST("/api/trips", usageHandler.Ingest)
	r.POST("/api/trips/batch", usageHandler.IngestBatch)
	r.GET("/api/trips", usageHandler.ListForPair)

	chargeHandler := handlers.NewChargeHandler(s.builder)
	r.POST("/api/charges/calculate", chargeHandler.Calculate)

	reportHandler := handlers.NewReportHandler(s.builder, s.cache)
	r.GET("/api/reports/clients/:id", reportHandler.Client)
	r.GET("/api/reports/vendors/:id", reportHandler.Vendor)
	r.GET("/api/reports/employees/:id", reportHandler.Employee)
	r.GET("/api/reports/consolidated", reportHandler.Consolidated)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
