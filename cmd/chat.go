package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/larshagen/calchat/internal/agent"
	"github.com/larshagen/calchat/internal/calendar"
	"github.com/larshagen/calchat/internal/config"
	"github.com/larshagen/calchat/internal/google"
	"github.com/larshagen/calchat/internal/instrumentation"
	"github.com/larshagen/calchat/internal/llm"
	"github.com/larshagen/calchat/internal/logging"
	"github.com/larshagen/calchat/internal/tools"
	"github.com/larshagen/calchat/internal/tools/calendar_tools"
)

func newChatCmd() *cobra.Command {
	var (
		debugMode      bool
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive calendar assistant session",
		Long: `Start an interactive session with the calendar assistant. Type requests in
natural language; the assistant resolves dates, checks your calendar, and
performs the operations you ask for.

Requires OPENAI_API_KEY and a stored Google token (see 'calchat auth').
Type 'exit' or press Ctrl-D to leave the session.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(debugMode, metricsEnabled, metricsAddr)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", false, "Serve Prometheus metrics on a dedicated port")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "Metrics server address")
	return cmd
}

func runChat(debugMode, metricsEnabled bool, metricsAddr string) error {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := logging.New(debugMode)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is not set")
	}
	applyGoogleConfig(cfg)

	if !google.HasTokenForAccount(cfg.Account) {
		return fmt.Errorf("no Google token stored for account %q; run 'calchat auth' first", cfg.Account)
	}

	location, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.TimeZone, err)
	}

	provider, err := instrumentation.NewProvider(ctx, "calchat", version, metricsEnabled)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			log.Printf("Error during instrumentation shutdown: %v", err)
		}
	}()
	defer serveMetrics(provider, metricsAddr)()

	calClient, err := calendar.NewClient(ctx, cfg.Account, cfg.CalendarID, google.NewFileTokenProvider())
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

	systemPrompt, err := agent.LoadSystemPrompt(cfg.SystemPromptFile)
	if err != nil {
		return err
	}

	client := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.Model, logger, provider.Metrics())
	assistant := agent.New(client, registry, agent.Options{
		SystemPrompt:  systemPrompt,
		MaxIterations: cfg.MaxIterations,
		ToolTimeout:   cfg.ToolTimeout,
		Logger:        logger,
		Metrics:       provider.Metrics(),
	})

	fmt.Println("Calendar assistant ready. Ask about your schedule, or type 'exit' to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}

		answer, err := assistant.RunTurn(ctx, input)
		switch {
		case errors.Is(err, context.Canceled):
			fmt.Println()
			return nil
		case errors.Is(err, agent.ErrIterationLimit):
			fmt.Println("I was unable to complete the request. Please try rephrasing it.")
		case err != nil:
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		default:
			fmt.Println(answer)
		}

		if ctx.Err() != nil {
			break
		}
	}
	return scanner.Err()
}

// applyGoogleConfig pushes the OAuth settings from the environment into the
// google package.
func applyGoogleConfig(cfg config.Config) {
	if cfg.GoogleClientID != "" || cfg.GoogleClientSecret != "" {
		google.SetClientCredentials(cfg.GoogleClientID, cfg.GoogleClientSecret)
	}
	if len(cfg.OAuthScopes) > 0 {
		google.SetScopes(cfg.OAuthScopes)
	}
}
