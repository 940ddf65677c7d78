/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the lease statement server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize zap logger
  3. Initialize SQLite store
  4. Create statement service and API handler
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port        HTTP server port (default: 8080)
  -db          SQLite database path (default: lettings.db)
               Use ":memory:" for an in-memory database
  -mgmt-pct    Default management fee percent (default: 10)
  -svc-pct     Default service charge percent (default: 5)
  -dev         Development logging (human-readable, debug level)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/lettings.db"

  # Run with in-memory database and custom fees
  ./server -db=":memory:" -mgmt-pct=12 -svc-pct=3

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/propfolio/lease-ledger/api"
	"github.com/propfolio/lease-ledger/billing"
	"github.com/propfolio/lease-ledger/statement"
	"github.com/propfolio/lease-ledger/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "lettings.db", "SQLite database path")
	mgmtPct := flag.String("mgmt-pct", "10", "default management fee percent")
	svcPct := flag.String("svc-pct", "5", "default service charge percent")
	dev := flag.Bool("dev", false, "development logging")
	flag.Parse()

	// Logger
	logger, err := newLogger(*dev)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	fees, err := parseFees(*mgmtPct, *svcPct)
	if err != nil {
		logger.Fatal("invalid fee flags", zap.Error(err))
	}

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer store.Close()

	// Wire the statement service onto the store
	engine := billing.NewEngine(fees, logger)
	service := statement.NewService(store, engine, logger)
	handler := api.NewHandler(store, service, logger)

	// Create router
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting",
			zap.Int("port", *port),
			zap.String("db", *dbPath))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func parseFees(mgmt, svc string) (billing.FeeConfig, error) {
	fees := billing.DefaultFeeConfig()

	var err error
	if fees.DefaultManagementPercent, err = decimal.NewFromString(mgmt); err != nil {
		return billing.FeeConfig{}, fmt.Errorf("management percent %q: %w", mgmt, err)
	}
	if fees.DefaultServicePercent, err = decimal.NewFromString(svc); err != nil {
		return billing.FeeConfig{}, fmt.Errorf("service percent %q: %w", svc, err)
	}
	return fees, nil
}
