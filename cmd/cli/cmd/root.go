package cmd

import (
	"context"
	"fmt"
	"os"

	"cardctl/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is stamped at build time with -ldflags "-X cardctl/cmd/cli/cmd.version=...".
var version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "cardctl",
	Short: "cardctl files cards on a Trello board from the command line",
	Long: `cardctl creates a card on a Trello board, tags it with labels and adds a
comment, in one step.

The board, column and labels are looked up by name. Any of them that does not
exist yet is created first, so a single command can bootstrap a new board.

Common workflows:

  File a card:
    cardctl add --key KEY --token TOKEN --board "Ops" --column "To Do" \
      --card "Rotate certificates" --label "infra, urgent" --comment "due Friday"

  List what a run created (requires a journal database):
    cardctl journal <run-id>

Configuration:
  Credentials and settings can come from flags, a config file, a .env file in
  the working directory or environment variables:
    TRELLO_KEY           API key
    TRELLO_TOKEN         API token
    TRELLO_URL           API endpoint (default: https://api.trello.com/1)
    TRELLO_JOURNAL_DSN   PostgreSQL DSN of the run journal (optional)`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       version,
}

// Execute runs the root command. ctx is cancelled on interrupt.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func initConfig() {
	// .env is optional; variables already set in the environment win
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			// Search config in home directory with name ".cardctl"
			viper.AddConfigPath(home)
			viper.SetConfigName(".cardctl")
			viper.SetConfigType("yaml")
		}
	}

	// Read environment variables that match "TRELLO_VARNAME"
	viper.SetEnvPrefix("TRELLO")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.cardctl.yaml)")

	flags.String("url", "https://api.trello.com/1", "Trello API base URL")
	viper.BindPFlag(config.KeyURL, flags.Lookup("url"))

	flags.String("log-level", "warn", "Log level (debug, info, warn, error)")
	viper.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))

	flags.String("otel-endpoint", "", "OTLP gRPC collector address for traces (optional)")
	viper.BindPFlag(config.KeyOTELEndpoint, flags.Lookup("otel-endpoint"))

	flags.String("metrics-file", "", "Write metrics to this node-exporter textfile (optional)")
	viper.BindPFlag(config.KeyMetricsFile, flags.Lookup("metrics-file"))

	flags.String("journal-dsn", "", "PostgreSQL DSN to record created resources in (optional)")
	viper.BindPFlag(config.KeyJournalDSN, flags.Lookup("journal-dsn"))
}
