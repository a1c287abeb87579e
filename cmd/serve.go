package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"PassProbeBot/bot"
	"PassProbeBot/config"
	"PassProbeBot/handler"
	"PassProbeBot/probe"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Listen for webhook updates",
	Long: `Start the HTTP server that receives Telegram webhook updates.

If BOT_TOKEN or ADMIN_ID is missing the server still starts, but answers
every delivery with 500 until the configuration is fixed.`,
	Example: `  # Listen on $PORT (or :8080) at /bot
  BOT_TOKEN=<token> ADMIN_ID=<id> passprobebot serve

  # With a config file and debug logs
  passprobebot serve -c bot.toml --debug`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		srv, err := newServer(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.ListenAndServe()
		}()

		fmt.Fprintf(cmd.ErrOrStderr(), "%s listening on %s%s\n",
			color.GreenString("PassProbeBot"), cfg.ListenAddr, cfg.WebhookPath)

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		slog.Info("shutting down", "component", "cmd", "operation", "serve")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("serve: shutdown: %w", err)
		}
		return nil
	},
}

// newServer wires the webhook handler. Missing secrets are reported per
// request; any other invalid setting stops startup.
func newServer(cfg *config.Config) (*http.Server, error) {
	cfgErr := cfg.Validate()
	if cfgErr != nil && !errors.Is(cfgErr, config.ErrMissingConfig) {
		return nil, cfgErr
	}
	if cfgErr != nil {
		slog.Warn("configuration incomplete, updates will be rejected", "component", "cmd", "operation", "serve", "error", cfgErr)
		fmt.Fprintln(os.Stderr, color.YellowString("warning: %v", cfgErr))
	}

	client := bot.NewClient(cfg.APIBaseURL, cfg.BotToken)
	prober := probe.New(cfg.ProbeTimeout.Duration)
	dispatcher := bot.NewDispatcher(cfg, client, prober)

	mux := http.NewServeMux()
	mux.Handle(cfg.WebhookPath, handler.NewBotHandler(cfgErr, cfg.WebhookSecret, dispatcher))

	return &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}
