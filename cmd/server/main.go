/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the chpun progression engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load balance configuration (defaults + optional YAML overrides)
  3. Initialize SQLite save store
  4. Build the engine with the shipped achievement and power-up catalogs
  5. Start background loops (auto tick, autosave, power-up spawner)
  6. Start HTTP server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite save database path (default: chpun.db)
           Use ":memory:" for an in-memory database
  -config  Balance YAML overrides (optional)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop engine loops and write a final save
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/chpun.db"

  # Run with in-memory database and tweaked balance
  ./server -db=":memory:" -config=balance.yaml

SEE ALSO:
  - api/server.go: Router configuration
  - engine/engine.go: Engine lifecycle
  - store/sqlite/sqlite.go: Save persistence
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

	"github.com/aikazu/chpun/api"
	"github.com/aikazu/chpun/catalog"
	"github.com/aikazu/chpun/config"
	"github.com/aikazu/chpun/engine"
	"github.com/aikazu/chpun/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "chpun.db", "SQLite save database path")
	cfgPath := flag.String("config", "", "balance YAML overrides")
	flag.Parse()

	// Balance configuration
	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		cfg, err = config.Load(*cfgPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Build and start the engine
	eng := engine.New(cfg, engine.Options{
		Store:        store,
		Achievements: catalog.Achievements(),
		PowerUps:     catalog.PowerUps(),
	})
	eng.Start()

	// Create router
	router := api.NewRouter(api.NewHandler(eng))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%d", *port)
		log.Printf("👊 API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Final save happens inside Stop.
	eng.Stop()

	log.Println("Server stopped")
}
