package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"llamaid/assistant"
	"llamaid/backend"
	"llamaid/config"
	"llamaid/handler"
	"llamaid/logging"
	"llamaid/manager"
	"llamaid/metrics"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 15 * time.Second

func main() {
	cli, err := config.ParseArgs(os.Args[0], os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if cli.Version {
		fmt.Println(version)
		return
	}

	log := logging.GetLogger()

	cfg, err := config.LoadConfig(cli.ConfigFile, cli.Flags)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	level, err := logging.ParseLevel(cfg.Log.Level, cli.Debug)
	if err != nil {
		log.Fatalf("Invalid log level: %v", err)
	}
	logging.InitLogger(level)
	if cfg.Log.File != "" {
		closer := logging.SetOutputFile(cfg.Log.File, cfg.Log.MaxSizeMB, cfg.Log.MaxBackups, cfg.Log.MaxAgeDays)
		defer closer.Close()
	}
	if level < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	collectors := metrics.New()
	client := backend.NewBackendClient(cfg.Backend)
	svc := assistant.NewService(client, cfg.SystemPreamble, cfg.Presets)
	cm := manager.NewConcurrencyManager(cfg.Concurrency, collectors)
	defer cm.Shutdown()

	httpHandler := handler.NewHTTPHandler(svc, cm, collectors)

	server := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           handler.NewRouter(httpHandler, cfg.CORS),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s (backend %s%s, model %s)",
			cfg.ListenAddress, cfg.Backend.URL, cfg.Backend.GeneratePath, client.Model())
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	case <-ctx.Done():
		log.Infoln("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Errorf("Graceful shutdown failed: %v", err)
		}
	}
}
