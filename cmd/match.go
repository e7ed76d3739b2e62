package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/guidewise/guidewise/internal/guide"
	"github.com/guidewise/guidewise/internal/log"
	"github.com/guidewise/guidewise/internal/match"
)

var matchTop int

var matchCmd = &cobra.Command{
	Use:   "match <problem description>",
	Short: "Match a problem description against the guide corpus",
	Long: `Match scores every guide in the corpus against the given free-text
problem description and prints the best hit, or with --top, a ranked list.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}

		corpus := guide.NewCorpusStore(cfg.CorpusPath, logger).Load()
		query := joinArgs(args)
		return runMatch(cmd.OutOrStdout(), corpus, query, matchTop, logger)
	},
}

func init() {
	matchCmd.Flags().IntVar(&matchTop, "top", 0,
		"show the top N matches instead of only the best one")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(out io.Writer, corpus []guide.Guide, query string, top int, logger log.Logger) error {
	matcher := match.New(corpus, logger)

	if top > 0 {
		results := matcher.FindMatches(query, top, match.DefaultListMinScore)
		if len(results) == 0 {
			fmt.Fprintln(out, "No matching guides found.")
			return nil
		}
		for i, r := range results {
			fmt.Fprintf(out, "%d. %s (%s)\n", i+1, r.Guide.Title, r.Reason)
			fmt.Fprintf(out, "   %s\n", r.Guide.ProblemDescription)
		}
		return nil
	}

	result := matcher.FindBestMatch(query, match.DefaultMinScore)
	if result == nil {
		fmt.Fprintln(out, "No matching guide found.")
		return nil
	}

	fmt.Fprintf(out, "%s\n", result.Guide.Title)
	fmt.Fprintf(out, "Matched on: %s (score %.2f)\n\n", result.Reason, result.Score)
	fmt.Fprintf(out, "%s\n\n", result.Guide.ProblemDescription)
	for i, step := range result.Guide.Steps {
		fmt.Fprintf(out, "%d. %s\n   %s\n", i+1, step.Title, step.Content)
	}
	if len(result.Guide.Alternates) > 0 {
		fmt.Fprintln(out, "\nIf that does not help:")
		for _, alt := range result.Guide.Alternates {
			fmt.Fprintf(out, "- %s: %s\n", alt.Title, alt.Content)
		}
	}
	return nil
}

func joinArgs(args []string) string {
	query := args[0]
	for _, a := range args[1:] {
		query += " " + a
	}
	return query
}
