package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/guidewise/guidewise/internal/guide"
)

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List drafts awaiting human review",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		drafts := guide.NewPendingStore(cfg.PendingPath, logger).Load()
		printPending(cmd.OutOrStdout(), drafts)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pendingCmd)
}

func printPending(out io.Writer, drafts []guide.Draft) {
	if len(drafts) == 0 {
		fmt.Fprintln(out, "Review queue is empty.")
		return
	}

	fmt.Fprintf(out, "%d draft(s) awaiting review:\n\n", len(drafts))
	for _, d := range drafts {
		fmt.Fprintf(out, "%s  %s\n", d.ID, d.Title)
		fmt.Fprintf(out, "    category=%s difficulty=%s steps=%d source=%s\n",
			d.Category, d.Meta.Difficulty, len(d.Steps), d.Meta.SourceURL)
	}
}
