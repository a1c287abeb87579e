package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	debugFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "passprobebot",
	Short: "Telegram webhook bot: password generator and site checks",
	Long: `PassProbeBot receives Telegram webhook updates and answers them.

Everyone can generate passwords from the inline menu. The admin (ADMIN_ID)
can also check whether a site is up with /check <site> or the settings menu.

Secrets come from the environment or a .env file:
  BOT_TOKEN       bot token from @BotFather (required)
  ADMIN_ID        Telegram user id of the admin (required)
  WEBHOOK_SECRET  secret_token registered with setwebhook (optional)`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if debugFlag {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a TOML config file (default bot.toml if present)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(setWebhookCmd)
	rootCmd.AddCommand(versionCmd)
}
