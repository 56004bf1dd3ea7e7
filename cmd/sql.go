package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/courtside/go-padel-stats/internal/report"
	"github.com/courtside/go-padel-stats/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the stats database",
	Long: `Run an arbitrary SQL query against the stats database and print results as a table.

Schema overview:
  matches(id, played_at, category, round_name, team_1_backhand, team_1_drive,
    team_2_backhand, team_2_drive, score, winner, duration_minutes, sets_to_win, created_at)
  points(match_id, set_number, game_number, point_number, game_score_team_1,
    game_score_team_2, set_games_team_1, set_games_team_2, is_tiebreak, created_at)
  point_flags(match_id, set_number, game_number, point_number, is_tiebreak, is_deuce,
    game_point_team_1, game_point_team_2, set_point_team_1, set_point_team_2,
    match_point_team_1, match_point_team_2, game_continued, set_continued, match_continued)
  match_stats(match_id, total_points, total_games, total_deuces, games_0_deuce,
    games_1_deuce, games_2_deuces, games_3plus_deuces, sets_with_tiebreak,
    tiebreaks_won_team_1, tiebreaks_won_team_2, avg_points_per_game, max_points_per_game,
    game_points_faced_team_1, game_points_saved_team_1, ..., created_at)`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	report.PrintRawTable(os.Stdout, cols, rows)
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}
