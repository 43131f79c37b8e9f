/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the Warp HRMS engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize store (SQLite file, SQLite in-memory, or pure in-memory)
  3. Optionally seed the demo dataset
  4. Create API handler with dependencies
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: hrms.db)
           Use ":memory:" for an in-memory SQLite database,
           or "none" to run on the pure in-memory store
  -seed    Load the demo company at startup (default: false)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database and demo data
  ./server -db="./data/hrms.db" -seed

  # Run entirely in memory
  ./server -db=none -seed

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

	"github.com/warp/hrms-engine/api"
	"github.com/warp/hrms-engine/attendance"
	"github.com/warp/hrms-engine/hr"
	"github.com/warp/hrms-engine/leave"
	"github.com/warp/hrms-engine/payroll"
	"github.com/warp/hrms-engine/store/memory"
	"github.com/warp/hrms-engine/store/sqlite"
)

// stores bundles the four persistence contracts behind one variable so
// both backends can feed the same handler constructor.
type stores struct {
	dir    hr.Directory
	leaves leave.TxStore
	att    attendance.Store
	pay    payroll.Store
	close  func() error
}

func openStores(dbPath string) (stores, error) {
	if dbPath == "none" {
		s := memory.New()
		return stores{dir: s, leaves: s, att: s, pay: s, close: func() error { return nil }}, nil
	}
	s, err := sqlite.New(dbPath)
	if err != nil {
		return stores{}, err
	}
	return stores{dir: s, leaves: s, att: s, pay: s, close: s.Close}, nil
}

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "hrms.db", "SQLite database path, \":memory:\", or \"none\"")
	seed := flag.Bool("seed", false, "load the demo company at startup")
	flag.Parse()

	// Initialize store
	st, err := openStores(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer st.close()

	// Initialize handler
	handler := api.NewHandler(st.dir, st.leaves, st.att, st.pay)

	if *seed {
		if err := api.Seed(context.Background(), st.dir, st.leaves, st.att, st.pay, handler.Clock); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
		log.Println("Demo company seeded; sign in with any seeded email and the demo password")
	}

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
		log.Printf("🚀 Server starting on http://localhost:%d", *port)
		log.Printf("📊 API available at http://localhost:%d/api", *port)
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

	log.Println("Server stopped")
}
