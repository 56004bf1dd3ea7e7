package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/courtside/go-padel-stats/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintMatchHeader prints a one-line summary header for the match.
func PrintMatchHeader(w io.Writer, m model.Match) {
	fmt.Fprintf(w, "\n%s / %s vs %s / %s  |  Date: %s  |  Round: %s  |  Score: %s  |  Winner: %s\n\n",
		m.Team1Backhand, m.Team1Drive, m.Team2Backhand, m.Team2Drive,
		m.PlayedAt, m.RoundName, m.Score, m.Winner)
}

// PrintMatchTable prints the stored match list to stdout.
func PrintMatchTable(matches []model.Match) {
	PrintMatchTableTo(os.Stdout, matches)
}

// PrintMatchTableTo writes the match list table to the provided writer.
func PrintMatchTableTo(w io.Writer, matches []model.Match) {
	table := newTable(w)
	table.Header("ID", "DATE", "CATEGORY", "ROUND", "TEAM 1", "TEAM 2", "SCORE", "WINNER", "MIN")

	for _, m := range matches {
		dur := "—"
		if m.DurationMinutes > 0 {
			dur = fmt.Sprintf("%.0f", m.DurationMinutes)
		}
		table.Append(
			strconv.FormatInt(m.ID, 10),
			m.PlayedAt,
			m.Category,
			m.RoundName,
			m.Team1Backhand+" / "+m.Team1Drive,
			m.Team2Backhand+" / "+m.Team2Drive,
			m.Score,
			m.Winner,
			dur,
		)
	}
	table.Render()
}

// PrintStatsTable prints a one-row-per-match overview of the derived stats.
func PrintStatsTable(w io.Writer, stats []model.MatchStats) {
	table := newTable(w)
	table.Header("MATCH", "POINTS", "GAMES", "PTS/GAME", "MAX", "DEUCES", "TB_SETS", "TB_T1", "TB_T2")

	for _, s := range stats {
		avg := "—"
		if s.TotalGames > 0 {
			avg = fmt.Sprintf("%.1f", s.AvgPointsPerGame)
		}
		table.Append(
			strconv.FormatInt(s.MatchID, 10),
			strconv.Itoa(s.TotalPoints),
			strconv.Itoa(s.TotalGames),
			avg,
			strconv.Itoa(s.MaxPointsPerGame),
			strconv.Itoa(s.TotalDeuces),
			strconv.Itoa(s.SetsWithTiebreak),
			strconv.Itoa(s.TieBreaksWonTeam1),
			strconv.Itoa(s.TieBreaksWonTeam2),
		)
	}
	table.Render()
}

// PrintDeuceTable prints the per-match deuce distribution buckets.
func PrintDeuceTable(w io.Writer, s model.MatchStats) {
	table := newTable(w)
	table.Header("0 DEUCES", "1 DEUCE", "2 DEUCES", "3+ DEUCES", "TOTAL GAMES")
	table.Append(
		strconv.Itoa(s.Games0Deuce),
		strconv.Itoa(s.Games1Deuce),
		strconv.Itoa(s.Games2Deuces),
		strconv.Itoa(s.Games3PlusDeuces),
		strconv.Itoa(s.TotalGames),
	)
	table.Render()
}

// PrintPressureTable prints the faced/saved/converted pressure point grid for
// one match, one row per (level, team).
func PrintPressureTable(w io.Writer, s model.MatchStats) {
	table := newTable(w)
	table.Header("LEVEL", "TEAM", "FACED", "SAVED", "CONV", "SAVE%")

	type row struct {
		level string
		team  model.TeamSide
		faced int
		saved int
		pct   float64
	}
	rows := []row{
		{"GAME", model.Team1, s.GamePointsFacedTeam1, s.GamePointsSavedTeam1, s.GamePointSavePct(model.Team1)},
		{"GAME", model.Team2, s.GamePointsFacedTeam2, s.GamePointsSavedTeam2, s.GamePointSavePct(model.Team2)},
		{"SET", model.Team1, s.SetPointsFacedTeam1, s.SetPointsSavedTeam1, s.SetPointSavePct(model.Team1)},
		{"SET", model.Team2, s.SetPointsFacedTeam2, s.SetPointsSavedTeam2, s.SetPointSavePct(model.Team2)},
		{"MATCH", model.Team1, s.MatchPointsFacedTeam1, s.MatchPointsSavedTeam1, s.MatchPointSavePct(model.Team1)},
		{"MATCH", model.Team2, s.MatchPointsFacedTeam2, s.MatchPointsSavedTeam2, s.MatchPointSavePct(model.Team2)},
	}

	for _, r := range rows {
		pctStr := "—"
		if r.faced > 0 {
			pctStr = fmt.Sprintf("%.0f%%", r.pct)
		}
		// Converted by the opponent: faced points that were not saved.
		table.Append(
			r.level,
			r.team.String(),
			strconv.Itoa(r.faced),
			strconv.Itoa(r.saved),
			strconv.Itoa(r.faced-r.saved),
			pctStr,
		)
	}
	table.Render()
}

// PrintPointLogTable prints the classified point log for one match, one row
// per point. Flags are rendered as short markers so pressure sequences stand
// out when scanning the log.
func PrintPointLogTable(w io.Writer, points []model.Point, flags []model.PointFlags) {
	type key struct{ set, game, point int }
	flagByKey := make(map[key]model.PointFlags, len(flags))
	for _, f := range flags {
		flagByKey[key{f.SetNumber, f.GameNumber, f.PointNumber}] = f
	}

	table := newTable(w)
	table.Header("SET", "GAME", "PT", "SCORE", "GAMES", "TB", "DEUCE", "GP", "SP", "MP", "SAVED")

	for _, p := range points {
		f := flagByKey[key{p.SetNumber, p.GameNumber, p.PointNumber}]
		table.Append(
			strconv.Itoa(p.SetNumber),
			strconv.Itoa(p.GameNumber),
			strconv.Itoa(p.PointNumber),
			p.GameScoreTeam1+"-"+p.GameScoreTeam2,
			fmt.Sprintf("%d-%d", p.SetGamesTeam1, p.SetGamesTeam2),
			mark(p.IsTiebreak, "TB"),
			mark(f.IsDeuce, "D"),
			sideMark(f.GamePointTeam1, f.GamePointTeam2),
			sideMark(f.SetPointTeam1, f.SetPointTeam2),
			sideMark(f.MatchPointTeam1, f.MatchPointTeam2),
			savedMark(f),
		)
	}
	table.Render()
}

func mark(b bool, label string) string {
	if b {
		return label
	}
	return ""
}

// sideMark renders which side holds the opportunity, or "" for neither.
func sideMark(team1, team2 bool) string {
	switch {
	case team1:
		return "T1"
	case team2:
		return "T2"
	default:
		return ""
	}
}

// savedMark renders the lookahead outcome for the highest pressure level on
// the point: "+" when the group continued (opportunity saved), "×" when the
// holder converted.
func savedMark(f model.PointFlags) string {
	switch {
	case f.MatchPointTeam1 || f.MatchPointTeam2:
		return convMark(f.MatchContinued)
	case f.SetPointTeam1 || f.SetPointTeam2:
		return convMark(f.SetContinued)
	case f.GamePointTeam1 || f.GamePointTeam2:
		return convMark(f.GameContinued)
	default:
		return ""
	}
}

func convMark(continued bool) string {
	if continued {
		return "+"
	}
	return "×"
}

// PrintSummaryTable prints the database overview row counts.
func PrintSummaryTable(w io.Writer, matches, points, flags, stats int) {
	table := newTable(w)
	table.Header("MATCHES", "POINTS", "POINT FLAGS", "STATS ROWS")
	table.Append(
		strconv.Itoa(matches),
		strconv.Itoa(points),
		strconv.Itoa(flags),
		strconv.Itoa(stats),
	)
	table.Render()
}

// PrintCategoryTable prints match counts per category.
func PrintCategoryTable(w io.Writer, byCategory map[string]int) {
	table := newTable(w)
	table.Header("CATEGORY", "MATCHES")
	for _, cat := range sortedKeys(byCategory) {
		name := cat
		if name == "" {
			name = "—"
		}
		table.Append(name, strconv.Itoa(byCategory[cat]))
	}
	table.Render()
}

// PrintRawTable renders arbitrary query output for the sql command.
func PrintRawTable(w io.Writer, cols []string, rows [][]string) {
	table := newTable(w)
	hdr := make([]any, len(cols))
	for i, c := range cols {
		hdr[i] = c
	}
	table.Header(hdr...)
	for _, r := range rows {
		cells := make([]any, len(r))
		for i, v := range r {
			if v == "" {
				v = "—"
			}
			cells[i] = v
		}
		table.Append(cells...)
	}
	table.Render()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
