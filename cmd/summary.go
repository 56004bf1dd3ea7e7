package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/courtside/go-padel-stats/internal/report"
	"github.com/courtside/go-padel-stats/internal/storage"
)

// summaryCmd displays a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display aggregate counts for everything stored in the database: matches,
point rows, classified point flags, derived stats rows, the per-category
match breakdown, and the timestamp of the last compute.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	matches, err := db.CountRows("matches")
	if err != nil {
		return fmt.Errorf("count matches: %w", err)
	}
	if matches == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'padelstats ingest' to add some.")
		return nil
	}
	points, err := db.CountRows("points")
	if err != nil {
		return fmt.Errorf("count points: %w", err)
	}
	flags, err := db.CountRows("point_flags")
	if err != nil {
		return fmt.Errorf("count point flags: %w", err)
	}
	stats, err := db.CountRows("match_stats")
	if err != nil {
		return fmt.Errorf("count stats: %w", err)
	}

	fmt.Fprintf(os.Stdout, "\n=== Database Summary ===\n\n")
	report.PrintSummaryTable(os.Stdout, matches, points, flags, stats)

	byCategory, err := db.CategoryBreakdown()
	if err != nil {
		return fmt.Errorf("category breakdown: %w", err)
	}
	if len(byCategory) > 0 {
		fmt.Fprintf(os.Stdout, "\n--- Categories ---\n\n")
		report.PrintCategoryTable(os.Stdout, byCategory)
	}

	wm, err := db.LastStatsUpdate()
	if err != nil {
		return fmt.Errorf("read watermark: %w", err)
	}
	if wm != "" {
		fmt.Fprintf(os.Stdout, "\nLast compute: %s\n", wm)
	} else {
		fmt.Fprintln(os.Stdout, "\nNo stats computed yet. Run 'padelstats compute'.")
	}
	return nil
}
