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

var (
	pointsDeuce    bool
	pointsPressure bool
	pointsSet      int
)

// pointsCmd is the cobra command for the per-point drill-down of one match.
var pointsCmd = &cobra.Command{
	Use:   "points <match-id>",
	Short: "Per-point drill-down for one match",
	Args:  cobra.ExactArgs(1),
	RunE:  runPoints,
}

func init() {
	pointsCmd.Flags().BoolVar(&pointsDeuce, "deuce", false, "only show deuce points")
	pointsCmd.Flags().BoolVar(&pointsPressure, "pressure", false, "only show game/set/match points")
	pointsCmd.Flags().IntVar(&pointsSet, "set", 0, "filter by set number")
}

// filterPoints applies --deuce, --pressure, and --set filters.
func filterPoints(points []model.Point, flags []model.PointFlags, deuce, pressure bool, set int) ([]model.Point, []model.PointFlags) {
	type key struct{ set, game, point int }
	flagByKey := make(map[key]model.PointFlags, len(flags))
	for _, f := range flags {
		flagByKey[key{f.SetNumber, f.GameNumber, f.PointNumber}] = f
	}

	var outP []model.Point
	var outF []model.PointFlags
	for _, p := range points {
		f := flagByKey[key{p.SetNumber, p.GameNumber, p.PointNumber}]
		if set > 0 && p.SetNumber != set {
			continue
		}
		if deuce && !f.IsDeuce {
			continue
		}
		if pressure && !f.GamePointTeam1 && !f.GamePointTeam2 &&
			!f.SetPointTeam1 && !f.SetPointTeam2 &&
			!f.MatchPointTeam1 && !f.MatchPointTeam2 {
			continue
		}
		outP = append(outP, p)
		outF = append(outF, f)
	}
	return outP, outF
}

func runPoints(cmd *cobra.Command, args []string) error {
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

	points, err := db.GetPoints(matchID)
	if err != nil {
		return fmt.Errorf("query points: %w", err)
	}
	if len(points) == 0 {
		fmt.Fprintln(os.Stdout, "No point log stored for this match.")
		return nil
	}
	flags, err := db.GetPointFlags(matchID)
	if err != nil {
		return fmt.Errorf("query point flags: %w", err)
	}
	if len(flags) == 0 {
		fmt.Fprintln(os.Stdout, "No point flags computed yet. Run 'padelstats compute'.")
		return nil
	}

	points, flags = filterPoints(points, flags, pointsDeuce, pointsPressure, pointsSet)
	if len(points) == 0 {
		fmt.Fprintln(os.Stdout, "No points match the given filters.")
		return nil
	}

	report.PrintMatchHeader(os.Stdout, *match)
	report.PrintPointLogTable(os.Stdout, points, flags)
	return nil
}
