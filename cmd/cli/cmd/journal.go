package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"cardctl/internal/config"
	"cardctl/internal/store/postgres"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var journalCmd = &cobra.Command{
	Use:   "journal <run-id>",
	Short: "List the resources a run created",
	Long: `List the boards, columns, labels, cards and comments a run created, oldest
first. Failed runs leave their resources on the account; this shows what to
clean up.

Example:
  cardctl journal 0b9e2c1e-5f43-4c8e-9f0a-3d1b6c7e2a10 --journal-dsn postgres://localhost/cardctl`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runID, err := uuid.Parse(args[0])
		if err != nil {
			cmd.Printf("Error: invalid run id %q\n", args[0])
			return err
		}

		dsn := viper.GetString(config.KeyJournalDSN)
		if dsn == "" {
			cmd.Println("Error: --journal-dsn is required")
			return errors.New("journal not configured")
		}

		s, err := postgres.New(cmd.Context(), dsn)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			return err
		}
		defer s.Close()

		resources, err := s.ListResources(cmd.Context(), runID)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			return err
		}

		if len(resources) == 0 {
			cmd.Println("No resources recorded for this run")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "KIND\tNAME\tID\tCREATED")
		for _, r := range resources {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Kind, r.Name, r.RemoteID, r.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(journalCmd)
}
