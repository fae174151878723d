package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/larshagen/calchat/internal/calendar"
	"github.com/larshagen/calchat/internal/config"
	"github.com/larshagen/calchat/internal/google"
	"github.com/larshagen/calchat/internal/instrumentation"
	"github.com/larshagen/calchat/internal/logging"
	"github.com/larshagen/calchat/internal/tools"
	"github.com/larshagen/calchat/internal/tools/calendar_tools"
)

func newServeCmd() *cobra.Command {
	var (
		debugMode      bool
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server exposing the calendar tools
over stdio, so AI assistants can manage the user's Google Calendar.

Requires a stored Google token (see 'calchat auth').`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(debugMode, metricsEnabled, metricsAddr)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", false, "Serve Prometheus metrics on a dedicated port")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "Metrics server address")
	return cmd
}

func runServe(debugMode, metricsEnabled bool, metricsAddr string) error {
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := logging.New(debugMode)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	applyGoogleConfig(cfg)

	if !google.HasTokenForAccount(cfg.Account) {
		return fmt.Errorf("no Google token stored for account %q; run 'calchat auth' first", cfg.Account)
	}

	location, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.TimeZone, err)
	}

	provider, err := instrumentation.NewProvider(shutdownCtx, "calchat", version, metricsEnabled)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			log.Printf("Error during instrumentation shutdown: %v", err)
		}
	}()
	defer serveMetrics(provider, metricsAddr)()

	calClient, err := calendar.NewClient(shutdownCtx, cfg.Account, cfg.CalendarID, google.NewFileTokenProvider())
	if err != nil {
		return fmt.Errorf("failed to create calendar client for account %s: %w", cfg.Account, err)
	}
	calClient.SetMetrics(provider.Metrics())

	registry := tools.NewRegistry()
	if err := calendar_tools.Register(registry, calClient, calendar_tools.Options{
		Location: location,
		Logger:   logger,
	}); err != nil {
		return err
	}

	mcpSrv := mcpserver.NewMCPServer("calchat", version,
		mcpserver.WithToolCapabilities(true),
	)
	if err := tools.RegisterWithMCP(mcpSrv, registry, provider.Metrics()); err != nil {
		return fmt.Errorf("failed to register calendar tools: %w", err)
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	select {
	case <-shutdownCtx.Done():
		return nil
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("server stopped with error: %w", err)
		}
		return nil
	}
}
