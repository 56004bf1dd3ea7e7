package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/courtside/go-padel-stats/internal/engine"
	"github.com/courtside/go-padel-stats/internal/model"
	"github.com/courtside/go-padel-stats/internal/report"
	"github.com/courtside/go-padel-stats/internal/storage"
)

// computeIncremental restricts the run to matches ingested since the last
// compute.
var computeIncremental bool

// computeCmd derives point flags and match stats from the stored point logs.
var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Derive point flags and match stats from stored point logs",
	Long: `Classifies every stored point (deuce, game point, set point, match point),
resolves saved vs converted pressure points, aggregates per-match statistics,
and writes the results back to the database.

By default all stats are recomputed from scratch. With --incremental only
matches ingested after the last compute are processed.`,
	Args: cobra.NoArgs,
	RunE: runCompute,
}

func init() {
	computeCmd.Flags().BoolVar(&computeIncremental, "incremental", false,
		"only process matches ingested since the last compute")
}

func runCompute(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	incremental := computeIncremental
	watermark := ""
	if incremental {
		watermark, err = db.LastStatsUpdate()
		if err != nil {
			return fmt.Errorf("read watermark: %w", err)
		}
		// First run: nothing to be incremental against.
		if watermark == "" {
			incremental = false
		}
	}

	var matches []model.Match
	var points []model.Point
	if incremental {
		matches, err = db.ListMatchesSince(watermark)
		if err != nil {
			return fmt.Errorf("load matches: %w", err)
		}
		ids := make([]int64, len(matches))
		for i, m := range matches {
			ids[i] = m.ID
		}
		points, err = db.GetPointsForMatches(ids)
		if err != nil {
			return fmt.Errorf("load points: %w", err)
		}
	} else {
		matches, err = db.GetAllMatches()
		if err != nil {
			return fmt.Errorf("load matches: %w", err)
		}
		points, err = db.GetAllPoints()
		if err != nil {
			return fmt.Errorf("load points: %w", err)
		}
	}

	if len(matches) == 0 {
		fmt.Fprintln(os.Stdout, "Nothing to compute. Run 'padelstats ingest' first.")
		return nil
	}

	stats, flags, err := engine.Compute(matches, points)
	if err != nil {
		return fmt.Errorf("compute stats: %w", err)
	}

	if incremental {
		if err := db.InsertPointFlags(flags); err != nil {
			return fmt.Errorf("store point flags: %w", err)
		}
		if err := db.InsertMatchStats(stats); err != nil {
			return fmt.Errorf("store match stats: %w", err)
		}
	} else {
		if err := db.ReplaceMatchStats(flags, stats); err != nil {
			return fmt.Errorf("store stats: %w", err)
		}
	}

	fmt.Printf("Computed stats for %d matches (%d points classified)\n\n", len(stats), len(flags))
	report.PrintStatsTable(os.Stdout, stats)
	return nil
}
