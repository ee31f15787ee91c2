package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kairosconsole/internal/api"
	"kairosconsole/internal/envio"
	"kairosconsole/internal/interfaces"
	"kairosconsole/internal/notifications"
	"kairosconsole/internal/submission"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web console",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	client := envio.NewClient(cfg.GetBackend())
	slog.Info("backend client initialized", "base_url", client.BaseURL())

	notifier := notifications.NewPushoverNotifier(cfg)
	runner := submission.NewRunner(client, notifier)

	var appointments interfaces.AppointmentSource
	if kairos := cfg.GetKairos(); kairos.Enabled() {
		appointments = envio.NewAppointmentClient(kairos, cfg.GetBackend().UserAgent)
		slog.Info("appointment report enabled", "api_url", kairos.APIURL)
	} else {
		slog.Info("appointment report disabled, kairos key and identifier are not configured")
	}

	handlers, err := api.NewHandlers(cfg, client, runner, appointments)
	if err != nil {
		return fmt.Errorf("failed to initialize handlers: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The console still starts without the backend; the page shows the inline error
	probeCtx, probeCancel := context.WithTimeout(ctx, 10*time.Second)
	clocks, err := client.ListClocks(probeCtx)
	probeCancel()
	if err != nil {
		slog.Warn("backend not reachable at startup", "error", err)
		if notifier.IsEnabled() {
			message := fmt.Sprintf("O console não conseguiu listar os relógios em %s: %s", client.BaseURL(), envio.ErrorText(err))
			if err := notifier.NotifySystemAlert("Backend indisponível", message, 1); err != nil {
				slog.Warn("failed to send backend alert", "error", err)
			}
		}
	} else {
		slog.Info("backend reachable", "clocks", len(clocks))
	}

	serverConfig := cfg.GetServer()
	server := &http.Server{
		Addr:        fmt.Sprintf("%s:%d", serverConfig.Host, serverConfig.Port),
		Handler:     handlers.Router(),
		ReadTimeout: 60 * time.Second,
		// submissions wait on the backend with no deadline
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	go func() {
		configChanges := cfg.WatchForChanges()
		for {
			select {
			case <-ctx.Done():
				return
			case <-configChanges:
				slog.Info("configuration changed, updating logging")
				setupLogging(os.Stdout, cfg.GetLogging(), verbose)
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	slog.Info("shutdown signal received, initiating graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	cancel()

	slog.Info("shutdown completed")
	return nil
}
