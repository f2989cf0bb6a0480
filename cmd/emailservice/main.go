package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lattiq/emailservice"
	"github.com/lattiq/emailservice/internal/logger"
	"github.com/lattiq/emailservice/internal/server"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "print version information and exit")
		envFile     = flag.String("env-file", ".env", "optional dotenv file loaded before the environment")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(emailservice.GetVersionInfo().String())
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *envFile); err != nil {
		slog.Error("emailservice stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, envFile string) error {
	cfg, err := emailservice.LoadConfig(envFile)
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Level:  cfg.Monitoring.Logging.Level,
		Format: cfg.Monitoring.Logging.Format,
	}, server.RequestIDExtractor())
	slog.SetDefault(log)

	client, err := emailservice.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create email client: %w", err)
	}
	defer client.Close()

	log.Info("email client ready",
		slog.String("provider", client.ProviderName()),
		slog.String("from", cfg.Provider.From.Email),
		slog.String("version", emailservice.Version),
	)

	router := server.NewRouter(
		server.NewEmailHandler(client, log),
		server.HealthHandler(client.ProviderName()),
		log,
	)

	srv := server.New(server.Config{
		Addr:            cfg.Server.Addr,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, router, log)

	return srv.Run(ctx)
}
