package cmd

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"PassProbeBot/bot"
	"PassProbeBot/config"
)

var (
	webhookSecret  string
	generateSecret bool
)

var setWebhookCmd = &cobra.Command{
	Use:   "setwebhook <url>",
	Short: "Register the webhook URL with Telegram",
	Long: `Tell Telegram where to deliver updates. The URL must be HTTPS and end
with the configured webhook_path (default /bot).

With a secret, Telegram sends it in the X-Telegram-Bot-Api-Secret-Token
header; set the same value as WEBHOOK_SECRET for serve.`,
	Example: `  passprobebot setwebhook https://bot.example.org/bot
  passprobebot setwebhook https://bot.example.org/bot --generate-secret`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cfg.BotToken == "" {
			return errors.New("setwebhook: BOT_TOKEN is not set")
		}

		secret := webhookSecret
		if secret == "" {
			secret = cfg.WebhookSecret
		}
		if generateSecret {
			secret = bot.GenerateUUID()
		}

		client := bot.NewClient(cfg.APIBaseURL, cfg.BotToken)
		if err := client.SetWebhook(cmd.Context(), args[0], secret); err != nil {
			return fmt.Errorf("setwebhook: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s webhook set to %s\n", color.GreenString("✔"), args[0])
		if generateSecret {
			fmt.Fprintf(out, "%s set WEBHOOK_SECRET=%s before starting serve\n", color.YellowString("!"), secret)
		}
		return nil
	},
}

func init() {
	setWebhookCmd.Flags().StringVar(&webhookSecret, "secret", "", "Secret token Telegram should send with each update (default WEBHOOK_SECRET)")
	setWebhookCmd.Flags().BoolVar(&generateSecret, "generate-secret", false, "Generate a random secret token")
}
