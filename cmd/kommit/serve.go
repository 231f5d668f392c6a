package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/helixml/kommit/infrastructure/api"
	"github.com/helixml/kommit/internal/config"
	"github.com/helixml/kommit/internal/log"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var (
		envFile string
		host    string
		port    int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Command line flags

Environment variables:
  HOST                         Server host to bind to (default: 0.0.0.0)
  PORT                         Server port to listen on (default: 8080)
  LOG_LEVEL                    Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT                   Log format: pretty, json (default: pretty)
  API_KEYS                     Comma-separated list of keys required on POST
  CORS_ALLOWED_ORIGINS         Comma-separated browser origins (default: *)
  REQUEST_TIMEOUT              Generation request timeout in seconds (default: 120)
  MAX_DIFF_LENGTH              Trailing diff characters kept (default: 100000)
  CHUNK_MAX_TOKENS             Tokens per chunk (default: 3000)
  TOKENIZER_ENCODING           tiktoken encoding (default: cl100k_base)
  GROQ_API_KEY                 Fallback completion API key

  COMPLETION_ENDPOINT_*        Completion service configuration
    PROVIDER                   openai (any OpenAI-compatible API) or anthropic
    BASE_URL                   Base URL (default: https://api.groq.com/openai/v1)
    API_KEY                    API key for authentication
    TIMEOUT                    Request timeout in seconds (default: 60)

  CHUNK_STAGE_*, FUSION_STAGE_*
    MODEL                      Model identifier
    TEMPERATURE                Sampling temperature
    MAX_TOKENS                 Output token cap
    TOP_P                      Nucleus sampling threshold`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), envFile, host, port)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 8080)")

	return cmd
}

func runServe(ctx context.Context, envFile, host string, port int) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	// Flags take precedence over env vars.
	cfg = applyServeOverrides(cfg, host, port)

	logger := log.Configure(cfg)
	slogger := logger.Slog()

	attrs := append([]slog.Attr{slog.String("version", version)}, cfg.LogAttrs()...)
	slogger.LogAttrs(context.Background(), slog.LevelInfo, "starting kommit", attrs...)

	client, err := newClient(cfg, slogger)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			slogger.Error("failed to close kommit client", slog.Any("error", err))
		}
	}()

	apiServer := api.NewAPIServer(client,
		api.WithAPIKeys(cfg.APIKeys()),
		api.WithCORSAllowedOrigins(cfg.CORSAllowedOrigins()),
		api.WithRequestTimeout(cfg.RequestTimeout()),
		api.WithVersion(version),
		api.WithLogger(slogger),
	)
	server := apiServer.NewHTTPServer(cfg.Addr())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// applyServeOverrides applies command line flag overrides to the config.
func applyServeOverrides(cfg config.AppConfig, host string, port int) config.AppConfig {
	var opts []config.AppConfigOption

	if host != "" {
		opts = append(opts, config.WithHost(host))
	}
	if port != 0 {
		opts = append(opts, config.WithPort(port))
	}

	return cfg.Apply(opts...)
}
