package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lazypower/rememberme/internal/config"
	"github.com/lazypower/rememberme/internal/engine"
	"github.com/lazypower/rememberme/internal/llm"
	"github.com/lazypower/rememberme/internal/logger"
	"github.com/lazypower/rememberme/internal/metrics"
	"github.com/lazypower/rememberme/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logger.New("rememberme", cfg.Log.Level, cfg.Log.Pretty)

	st, location, err := openStore(cmd.Context(), cfg.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	// A missing key leaves the CRUD routes usable; AI routes report 500
	// and highlights fall back to plain text.
	llmClient, err := llm.NewClient(cfg.LLM)
	if err != nil {
		log.Warn().Err(err).Msg("LLM not configured, AI features disabled")
	} else {
		model := cfg.LLM.Model
		if model == "" {
			model = "default"
		}
		log.Info().Str("provider", cfg.LLM.Provider).Str("model", model).Msg("llm configured")
	}

	collector := metrics.New()

	eng := engine.New(st, llmClient)
	eng.SetLogger(log)
	eng.SetMetrics(collector)

	srv := server.New(st, eng, server.Options{
		Version:     VersionString(),
		Logger:      log,
		Metrics:     collector,
		CORSOrigins: cfg.Server.CORSOrigins,
	})
	addr := cfg.ListenAddr()

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("driver", cfg.Database.Driver).Str("db", location).Msg("rememberme serving")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-done:
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return httpServer.Shutdown(ctx)
}
