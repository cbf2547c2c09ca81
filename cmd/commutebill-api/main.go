// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	zlog "github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"commutebill/internal/config"
	httptransport "commutebill/internal/http"
	"commutebill/internal/infra"
	"commutebill/internal/logging"
	"commutebill/internal/modules/billing"
	"commutebill/internal/modules/catalog"
	"commutebill/internal/modules/reports"
	"commutebill/internal/modules/usage"
)

func main() {
	// Currency fields serialize as bare numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Pretty)
	zlog.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("database init")
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	catalogSvc := catalog.NewService(catalog.NewPGStore(dbPool))
	tripStore := usage.NewPGStore(dbPool)
	calc := billing.NewCalculator(cfg.Billing)
	builder := reports.NewBuilder(catalogSvc, tripStore, calc)
	cache := reports.NewCache(redisClient, cfg.Redis.ReportCacheTTL)

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Catalog: catalogSvc,
		Trips:   tripStore,
		Builder: builder,
		Cache:   cache,
		Logger:  logger,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", cfg.HTTP.Addr).Msg("listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("server")
	}
}
