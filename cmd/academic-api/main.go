// main is the entry point of the Academic Financial Management API.
//
// STARTUP SEQUENCE:
//  1. Load configuration (environment variables, optional YAML file)
//  2. Initialise the logger
//  3. Create the four in-memory resource stores
//  4. Register all HTTP routes (CRUD x4, health, OpenAPI document)
//  5. Wrap the router with recovery, CORS, and request-logging middleware
//  6. Start the HTTP server in a separate goroutine
//  7. Block the main goroutine until an OS signal (Ctrl+C / kill) arrives
//  8. Gracefully shut down: finish in-flight requests, then exit
//
// RUNNING THE SERVER:
//
//	go run ./cmd/academic-api
//
// or on a different port:
//
//	APP_PORT=9000 go run ./cmd/academic-api
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/academic-finance/api/internal/config"
	"github.com/academic-finance/api/internal/http/handlers/health"
	"github.com/academic-finance/api/internal/http/handlers/resource"
	"github.com/academic-finance/api/internal/openapi"
	"github.com/academic-finance/api/internal/storage/memory"
	"github.com/academic-finance/api/internal/types"
	"github.com/gorilla/handlers"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	// MustLoad reads the environment (and an optional YAML file) and
	// exits if anything is wrong. If this returns, config is valid.
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	// slog is Go's structured logger (stdlib since Go 1.21). Structured
	// logging writes key=value pairs rather than plain strings, making
	// logs easy to filter/search.
	log := setupLogger(cfg.Env)

	log.Info("starting academic-api",
		slog.String("env", cfg.Env),
		slog.String("version", openapi.Version),
	)

	// ── 3. Create the Resource Stores ─────────────────────────────────────
	// One in-memory store per entity type, all sharing a single validator
	// so the custom "uni" tag is registered exactly once. Records live
	// only for the process lifetime; there is no database behind these.
	validate := types.NewValidator()

	persons := memory.New[types.Person]("persons", validate)
	addresses := memory.New[types.Address]("addresses", validate)
	tuitions := memory.New[types.Tuition]("tuitions", validate)
	scholarships := memory.New[types.Scholarship]("scholarships", validate)

	// ── 4. Register HTTP Routes ───────────────────────────────────────────
	// Each resource handler registers the same six-route table under its
	// own prefix:
	//   POST   /<resource>        → create
	//   GET    /<resource>        → list (query-string filters)
	//   GET    /<resource>/{id}   → get
	//   PUT    /<resource>/{id}   → replace
	//   PATCH  /<resource>/{id}   → patch
	//   DELETE /<resource>/{id}   → delete
	router := http.NewServeMux()

	resource.NewHandler[types.Person, types.PersonUpdate](log, persons, resource.PersonFilters).Register(router)
	resource.NewHandler[types.Address, types.AddressUpdate](log, addresses, resource.AddressFilters).Register(router)
	resource.NewHandler[types.Tuition, types.TuitionUpdate](log, tuitions, resource.TuitionFilters).Register(router)
	resource.NewHandler[types.Scholarship, types.ScholarshipUpdate](log, scholarships, resource.ScholarshipFilters).Register(router)

	router.HandleFunc("GET /health", health.New(log))
	router.HandleFunc("GET /health/{path_echo}", health.NewWithPath(log))

	// The OpenAPI document is assembled once at startup; serving it is a
	// plain JSON write per request.
	doc := openapi.Document()
	router.HandleFunc("GET /openapi.json", openapi.Handler(doc))
	router.HandleFunc("GET /docs", openapi.DocsHandler())
	router.HandleFunc("GET /{$}", openapi.RootHandler())

	// ── 5. Middleware Chain ───────────────────────────────────────────────
	// gorilla/handlers wraps the router from the outside in:
	//   recovery  — a panicking handler becomes a 500, not a dead server
	//   CORS      — permissive, this is a development API
	//   logging   — one Apache combined-format line per request
	chain := handlers.RecoveryHandler(handlers.RecoveryLogger(&recoveryLogger{log}))(
		handlers.CORS(
			handlers.AllowedOrigins([]string{"*"}),
			handlers.AllowedMethods([]string{
				http.MethodGet, http.MethodPost, http.MethodPut,
				http.MethodPatch, http.MethodDelete,
			}),
			handlers.AllowedHeaders([]string{"Content-Type"}),
		)(handlers.CombinedLoggingHandler(os.Stdout, router)))

	// ── 6. Create and Start the HTTP Server ───────────────────────────────
	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: chain,

		// Timeouts guard against slow-client attacks.
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ListenAndServe blocks forever, so it runs in its own goroutine and
	// the main goroutine waits for the shutdown signal below.
	go func() {
		log.Info("server started", slog.String("address", cfg.Addr()))

		// ListenAndServe returns http.ErrServerClosed when Shutdown() is
		// called. That's expected — not an error worth logging.
		if err := server.ListenAndServe(); err != nil &&
			err != http.ErrServerClosed {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// ── 7. Wait for Shutdown Signal ───────────────────────────────────────
	// Buffered channel so the signal is not missed if main is briefly busy.
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	// Give in-flight requests five seconds to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}

// recoveryLogger adapts slog to the Println-style interface
// gorilla/handlers expects for its recovery middleware.
type recoveryLogger struct {
	log *slog.Logger
}

func (l *recoveryLogger) Println(v ...interface{}) {
	l.log.Error("panic recovered in handler", slog.Any("details", v))
}
