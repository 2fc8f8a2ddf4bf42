package cmd

import (
	"context"
	"errors"
	"log/slog"

	"cardctl/internal/auth"
	"cardctl/internal/config"
	"cardctl/internal/logger"
	"cardctl/internal/observability"
	"cardctl/internal/resolve"
	"cardctl/internal/store"
	"cardctl/internal/store/postgres"
	"cardctl/internal/trello"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const serviceName = "cardctl"

// addFlags are the flags add refuses to run without, in the order they are
// checked. key and token may also come from the configuration.
var addFlags = []string{"key", "token", "card", "label", "comment", "board", "column"}

var errMissingFlag = errors.New("missing required flag")

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a card, resolving or creating its board, column and labels",
	Long: `Create a card on the named board and column, attach the named labels and
add a comment to it.

Board, column and labels are matched by exact name. Whatever is missing is
created: boards with the default preference bundle, columns at the top of the
board, labels with a random color. Nothing created before a failure is removed.

Example:
  cardctl add --key KEY --token TOKEN --board "Ops" --column "To Do" \
    --card "Rotate certificates" --label "infra, urgent" --comment "due Friday"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		values := make(map[string]string, len(addFlags))
		for _, name := range addFlags {
			value, ok := lookupFlag(cmd, name)
			if !ok {
				cmd.Printf("Error: --%s is required\n", name)
				return errMissingFlag
			}
			values[name] = value
		}

		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			return err
		}

		req := resolve.Request{
			Board:   values["board"],
			Column:  values["column"],
			Card:    values["card"],
			Labels:  parseLabels(values["label"]),
			Comment: values["comment"],
		}
		creds := trello.Credentials{Key: values["key"], Token: values["token"]}

		res, err := runAdd(cmd.Context(), cmd, cfg, creds, req)
		if err != nil {
			printRunError(cmd, err)
			return err
		}

		cmd.Printf("✓ Card created!\nID: %s\nName: %s\nRun: %s\n", res.Card.ID, res.Card.Name, res.RunID)
		return nil
	},
}

// lookupFlag returns the flag value when it was given. key and token fall
// back to the configuration (TRELLO_KEY, TRELLO_TOKEN, config file).
func lookupFlag(cmd *cobra.Command, name string) (string, bool) {
	flags := cmd.Flags()
	if flags.Changed(name) {
		value, _ := flags.GetString(name)
		return value, true
	}
	if name == "key" || name == "token" {
		if value := viper.GetString(name); value != "" {
			return value, true
		}
	}
	return "", false
}

// printRunError reports a failed run. Answers from the service keep their
// status code, prefixed with the stage that stopped.
func printRunError(cmd *cobra.Command, err error) {
	var apiErr *trello.APIError
	if !errors.As(err, &apiErr) {
		cmd.Printf("Error: %v\n", err)
		return
	}

	var stageErr *resolve.StageError
	if errors.As(err, &stageErr) {
		cmd.Printf("Error (%d): %v: %s\n", apiErr.StatusCode, stageErr.Stage, apiErr.Message)
		return
	}
	cmd.Printf("Error (%d): %s\n", apiErr.StatusCode, apiErr.Message)
}

func runAdd(ctx context.Context, cmd *cobra.Command, cfg *config.Config, creds trello.Credentials, req resolve.Request) (*resolve.Result, error) {
	log := logger.New(cmd.ErrOrStderr(), cfg.LogLevel)
	runID := uuid.New()
	ctx = logger.WithRunID(ctx, runID.String())

	metrics, shutdownMetrics, err := observability.InitMetrics()
	if err != nil {
		return nil, err
	}
	defer shutdownMetrics(context.WithoutCancel(ctx))

	if cfg.OTELEndpoint != "" {
		shutdownTracer, err := observability.InitTracer(ctx, serviceName, version, cfg.OTELEndpoint)
		if err != nil {
			return nil, err
		}
		defer shutdownTracer(context.WithoutCancel(ctx))
	} else {
		observability.SetPropagator()
	}

	client, err := trello.NewClient(creds, trello.Options{
		BaseURL:   cfg.APIURL,
		Timeout:   cfg.Timeout,
		RateLimit: cfg.RateLimit,
		RateBurst: cfg.RateBurst,
		Logger:    log,
	})
	if err != nil {
		return nil, err
	}

	resolver, err := resolve.New(client, resolve.Options{
		LabelLimit:   cfg.LabelLimit,
		StrictLabels: cfg.StrictLabels,
		Rand:         resolve.NewRand(cfg.ColorSeed),
		Logger:       log,
	})
	if err != nil {
		return nil, err
	}

	journal, closeJournal := openJournal(ctx, cfg.JournalDSN, log)
	defer closeJournal()

	log.Debug("starting run", "run_id", runID, "token", auth.Fingerprint(creds.Token))
	res, runErr := resolve.NewPipeline(resolver, journal).Run(ctx, runID, auth.HashKey(creds.Token), req)

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Warn("failed to write metrics", "path", cfg.MetricsFile, "error", err)
		}
	}

	return res, runErr
}

// openJournal connects to the run journal when dsn is set. A journal that
// cannot be opened is skipped; it never stops a run.
func openJournal(ctx context.Context, dsn string, log *slog.Logger) (store.Journal, func()) {
	if dsn == "" {
		return nil, func() {}
	}

	s, err := postgres.New(ctx, dsn)
	if err != nil {
		log.Warn("journal disabled", "error", err)
		return nil, func() {}
	}
	if err := postgres.Migrate(s.DB()); err != nil {
		log.Warn("journal disabled", "error", err)
		s.Close()
		return nil, func() {}
	}

	return s, func() {
		if err := s.Close(); err != nil {
			log.Warn("failed to close journal", "error", err)
		}
	}
}

func init() {
	flags := addCmd.Flags()
	flags.String("key", "", "API key (required, or TRELLO_KEY)")
	flags.String("token", "", "API token (required, or TRELLO_TOKEN)")
	flags.String("card", "", "Card title (required)")
	flags.String("label", "", `Label names separated by ", " (required)`)
	flags.String("comment", "", "Comment to add to the card (required, may be empty)")
	flags.String("board", "", "Board name, created if absent (required)")
	flags.String("column", "", "Column name, created if absent (required)")

	rootCmd.AddCommand(addCmd)
}
