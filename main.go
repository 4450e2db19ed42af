package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sheets_bridge/internal/app"
	"sheets_bridge/internal/config"
	"sheets_bridge/internal/httpapi"
	"sheets_bridge/internal/operations"
	"sheets_bridge/internal/runner"
	"sheets_bridge/internal/session"
	"sheets_bridge/internal/sheets"

	"github.com/rs/zerolog/log"
)

func main() {
	app.SetupEnvironment()

	// Parse command line flags
	addr := flag.String("addr", ":8080", "Address to serve the HTTP API on")
	backendName := flag.String("backend", "google", "Spreadsheet backend: google or memory")
	statsInterval := flag.Duration("stats-interval", 10*time.Minute, "Interval between API call summaries (0 disables)")
	flag.Parse()

	log.Info().
		Str("addr", *addr).
		Str("backend", *backendName).
		Msg("Starting sheets bridge")

	// Load configuration
	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	var (
		sessions *session.Cache
		tracker  *sheets.CallTracker
	)
	switch *backendName {
	case "google":
		tracker = sheets.NewCallTracker()
		sessions = session.NewCache(session.Options{Factory: session.GoogleBackend(tracker)})
	case "memory":
		backend := sheets.NewMemoryBackend()
		tracker = backend.Tracker()
		sessions = session.Static(backend)
	default:
		log.Fatal().Str("backend", *backendName).Msg("Unknown backend")
	}

	pool := runner.New(cfg.Runner)
	loop := runner.NewLoop(config.DefaultLoopCapacity)

	s := operations.New(operations.Options{
		Runner:          pool,
		Sessions:        sessions,
		SpreadsheetID:   cfg.SpreadsheetID,
		CredentialsRef:  cfg.CredentialsFile,
		ApplicationName: cfg.ApplicationName,
		InputMode:       sheets.InputMode(cfg.ValueInput),
		Completion:      loop,
		OnError: func(e app.OperationError) {
			tracker.RecordFailure(e.Operation)
		},
	})

	server := &http.Server{
		Addr:              *addr,
		Handler:           httpapi.NewRouter(s),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *statsInterval > 0 {
		go func() {
			ticker := time.NewTicker(*statsInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					tracker.LogSummary()
					tracker.ResetWindow()
				}
			}
		}()
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to shut down HTTP server cleanly")
	}

	// drain in-flight operations before their completion loop
	pool.Close()
	loop.Close()
	tracker.LogSummary()
}
