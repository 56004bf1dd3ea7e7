package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"

	"github.com/courtside/go-padel-stats/internal/model"
	"github.com/courtside/go-padel-stats/internal/storage"
)

var (
	exportOut    string
	exportFormat string
)

// exportRow is the JSON schema for one exported match, joining the match row
// with its derived stats. Field names mirror the database columns.
type exportRow struct {
	MatchID         int64   `json:"match_id"`
	PlayedAt        string  `json:"played_at"`
	Category        string  `json:"category"`
	RoundName       string  `json:"round_name"`
	Team1Backhand   string  `json:"team_1_backhand"`
	Team1Drive      string  `json:"team_1_drive"`
	Team2Backhand   string  `json:"team_2_backhand"`
	Team2Drive      string  `json:"team_2_drive"`
	Score           string  `json:"score"`
	Winner          string  `json:"winner"`
	DurationMinutes float64 `json:"duration_minutes"`

	TotalPoints      int     `json:"total_points"`
	TotalGames       int     `json:"total_games"`
	TotalDeuces      int     `json:"total_deuces"`
	Games0Deuce      int     `json:"games_0_deuce"`
	Games1Deuce      int     `json:"games_1_deuce"`
	Games2Deuces     int     `json:"games_2_deuces"`
	Games3PlusDeuces int     `json:"games_3plus_deuces"`
	SetsWithTiebreak int     `json:"sets_with_tiebreak"`
	TieBreaksWon1    int     `json:"tiebreaks_won_team_1"`
	TieBreaksWon2    int     `json:"tiebreaks_won_team_2"`
	AvgPointsPerGame float64 `json:"avg_points_per_game"`
	MaxPointsPerGame int     `json:"max_points_per_game"`

	GamePointsFaced1  int `json:"game_points_faced_team_1"`
	GamePointsFaced2  int `json:"game_points_faced_team_2"`
	GamePointsSaved1  int `json:"game_points_saved_team_1"`
	GamePointsSaved2  int `json:"game_points_saved_team_2"`
	SetPointsFaced1   int `json:"set_points_faced_team_1"`
	SetPointsFaced2   int `json:"set_points_faced_team_2"`
	SetPointsSaved1   int `json:"set_points_saved_team_1"`
	SetPointsSaved2   int `json:"set_points_saved_team_2"`
	MatchPointsFaced1 int `json:"match_points_faced_team_1"`
	MatchPointsFaced2 int `json:"match_points_faced_team_2"`
	MatchPointsSaved1 int `json:"match_points_saved_team_1"`
	MatchPointsSaved2 int `json:"match_points_saved_team_2"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export derived match stats as CSV or JSON",
	Long: `Exports every computed match, joined with its stats row, as CSV or JSON.
Output goes to stdout unless --out is set. An --out path ending in .zst is
zstd-compressed on the fly.

Examples:
  padelstats export --format csv --out stats.csv
  padelstats export --format json --out stats.json.zst`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path (default: stdout)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format: csv or json")
}

func runExport(_ *cobra.Command, _ []string) error {
	if exportFormat != "csv" && exportFormat != "json" {
		return fmt.Errorf("unknown format %q: use csv or json", exportFormat)
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	stats, err := db.ListMatchStats()
	if err != nil {
		return fmt.Errorf("list stats: %w", err)
	}
	if len(stats) == 0 {
		return fmt.Errorf("no stats to export: run 'padelstats compute' first")
	}

	rows := make([]exportRow, 0, len(stats))
	for _, s := range stats {
		m, err := db.GetMatch(s.MatchID)
		if err != nil {
			return fmt.Errorf("load match %d: %w", s.MatchID, err)
		}
		if m == nil {
			m = &model.Match{ID: s.MatchID}
		}
		rows = append(rows, joinExportRow(*m, s))
	}

	w, closeFn, err := openExportWriter(exportOut)
	if err != nil {
		return err
	}

	if exportFormat == "json" {
		err = writeJSON(w, rows)
	} else {
		err = writeCSV(w, rows)
	}
	if cerr := closeFn(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	if exportOut != "" {
		fmt.Fprintf(os.Stderr, "Exported %d matches to %s\n", len(rows), exportOut)
	}
	return nil
}

// openExportWriter returns the destination writer plus a close function that
// flushes any compression layer before closing the file.
func openExportWriter(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	if !strings.HasSuffix(path, ".zst") {
		return f, f.Close, nil
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("zstd: %w", err)
	}
	closeFn := func() error {
		if err := enc.Close(); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	return enc, closeFn, nil
}

func joinExportRow(m model.Match, s model.MatchStats) exportRow {
	return exportRow{
		MatchID:         s.MatchID,
		PlayedAt:        m.PlayedAt,
		Category:        m.Category,
		RoundName:       m.RoundName,
		Team1Backhand:   m.Team1Backhand,
		Team1Drive:      m.Team1Drive,
		Team2Backhand:   m.Team2Backhand,
		Team2Drive:      m.Team2Drive,
		Score:           m.Score,
		Winner:          m.Winner,
		DurationMinutes: m.DurationMinutes,

		TotalPoints:      s.TotalPoints,
		TotalGames:       s.TotalGames,
		TotalDeuces:      s.TotalDeuces,
		Games0Deuce:      s.Games0Deuce,
		Games1Deuce:      s.Games1Deuce,
		Games2Deuces:     s.Games2Deuces,
		Games3PlusDeuces: s.Games3PlusDeuces,
		SetsWithTiebreak: s.SetsWithTiebreak,
		TieBreaksWon1:    s.TieBreaksWonTeam1,
		TieBreaksWon2:    s.TieBreaksWonTeam2,
		AvgPointsPerGame: s.AvgPointsPerGame,
		MaxPointsPerGame: s.MaxPointsPerGame,

		GamePointsFaced1:  s.GamePointsFacedTeam1,
		GamePointsFaced2:  s.GamePointsFacedTeam2,
		GamePointsSaved1:  s.GamePointsSavedTeam1,
		GamePointsSaved2:  s.GamePointsSavedTeam2,
		SetPointsFaced1:   s.SetPointsFacedTeam1,
		SetPointsFaced2:   s.SetPointsFacedTeam2,
		SetPointsSaved1:   s.SetPointsSavedTeam1,
		SetPointsSaved2:   s.SetPointsSavedTeam2,
		MatchPointsFaced1: s.MatchPointsFacedTeam1,
		MatchPointsFaced2: s.MatchPointsFacedTeam2,
		MatchPointsSaved1: s.MatchPointsSavedTeam1,
		MatchPointsSaved2: s.MatchPointsSavedTeam2,
	}
}

func writeJSON(w io.Writer, rows []exportRow) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

var csvHeader = []string{
	"match_id", "played_at", "category", "round_name",
	"team_1_backhand", "team_1_drive", "team_2_backhand", "team_2_drive",
	"score", "winner", "duration_minutes",
	"total_points", "total_games", "total_deuces",
	"games_0_deuce", "games_1_deuce", "games_2_deuces", "games_3plus_deuces",
	"sets_with_tiebreak", "tiebreaks_won_team_1", "tiebreaks_won_team_2",
	"avg_points_per_game", "max_points_per_game",
	"game_points_faced_team_1", "game_points_faced_team_2",
	"game_points_saved_team_1", "game_points_saved_team_2",
	"set_points_faced_team_1", "set_points_faced_team_2",
	"set_points_saved_team_1", "set_points_saved_team_2",
	"match_points_faced_team_1", "match_points_faced_team_2",
	"match_points_saved_team_1", "match_points_saved_team_2",
}

func writeCSV(w io.Writer, rows []exportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	itoa := strconv.Itoa
	for _, r := range rows {
		rec := []string{
			strconv.FormatInt(r.MatchID, 10), r.PlayedAt, r.Category, r.RoundName,
			r.Team1Backhand, r.Team1Drive, r.Team2Backhand, r.Team2Drive,
			r.Score, r.Winner, strconv.FormatFloat(r.DurationMinutes, 'f', -1, 64),
			itoa(r.TotalPoints), itoa(r.TotalGames), itoa(r.TotalDeuces),
			itoa(r.Games0Deuce), itoa(r.Games1Deuce), itoa(r.Games2Deuces), itoa(r.Games3PlusDeuces),
			itoa(r.SetsWithTiebreak), itoa(r.TieBreaksWon1), itoa(r.TieBreaksWon2),
			strconv.FormatFloat(r.AvgPointsPerGame, 'f', 1, 64), itoa(r.MaxPointsPerGame),
			itoa(r.GamePointsFaced1), itoa(r.GamePointsFaced2),
			itoa(r.GamePointsSaved1), itoa(r.GamePointsSaved2),
			itoa(r.SetPointsFaced1), itoa(r.SetPointsFaced2),
			itoa(r.SetPointsSaved1), itoa(r.SetPointsSaved2),
			itoa(r.MatchPointsFaced1), itoa(r.MatchPointsFaced2),
			itoa(r.MatchPointsSaved1), itoa(r.MatchPointsSaved2),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
