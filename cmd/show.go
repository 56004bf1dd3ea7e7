package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/courtside/go-padel-stats/internal/model"
	"github.com/courtside/go-padel-stats/internal/report"
	"github.com/courtside/go-padel-stats/internal/storage"
)

var showCmd = &cobra.Command{
	Use:   "show <match-id>",
	Short: "Show stored match stats by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	matchID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid match id %q", args[0])
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	match, err := db.GetMatch(matchID)
	if err != nil {
		return fmt.Errorf("query match: %w", err)
	}
	if match == nil {
		fmt.Fprintf(os.Stderr, "No match found with id %d\n", matchID)
		return nil
	}

	report.PrintMatchHeader(os.Stdout, *match)

	stats, err := db.GetMatchStats(matchID)
	if err != nil {
		return fmt.Errorf("query stats: %w", err)
	}
	if stats == nil {
		fmt.Fprintln(os.Stdout, "No stats computed yet. Run 'padelstats compute'.")
		return nil
	}

	report.PrintStatsTable(os.Stdout, []model.MatchStats{*stats})
	fmt.Fprintln(os.Stdout, "\nDeuce distribution:")
	report.PrintDeuceTable(os.Stdout, *stats)
	fmt.Fprintln(os.Stdout, "\nPressure points:")
	report.PrintPressureTable(os.Stdout, *stats)
	return nil
}
