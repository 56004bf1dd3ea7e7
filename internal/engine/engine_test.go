package engine

import (
	"strings"
	"testing"

	"github.com/courtside/go-padel-stats/internal/model"
)

// bestOf3 builds a single-match list with the default best-of-3 format.
func bestOf3(id int64) []model.Match {
	return []model.Match{{ID: id, SetsToWin: 2}}
}

// appendGame appends one game's points to the log. Each score is a pre-point
// game score "team1-team2"; g1/g2 are the set game counts before the game.
func appendGame(pts []model.Point, matchID int64, set, game, g1, g2 int, tb bool, scores ...string) []model.Point {
	for i, sc := range scores {
		t1, t2, _ := strings.Cut(sc, "-")
		pts = append(pts, model.Point{
			MatchID:        matchID,
			SetNumber:      set,
			GameNumber:     game,
			PointNumber:    i + 1,
			GameScoreTeam1: t1,
			GameScoreTeam2: t2,
			SetGamesTeam1:  g1,
			SetGamesTeam2:  g2,
			IsTiebreak:     tb,
		})
	}
	return pts
}

// loveGame returns the four pre-point scores of a game won to love.
func loveGame(winner model.TeamSide) []string {
	if winner == model.Team1 {
		return []string{"0-0", "15-0", "30-0", "40-0"}
	}
	return []string{"0-0", "0-15", "0-30", "0-40"}
}

// straightSet builds one set won 6-4 by team 1, all love games.
func straightSet(matchID int64, set int) []model.Point {
	winners := []model.TeamSide{
		model.Team1, model.Team2, model.Team1, model.Team2, model.Team1,
		model.Team2, model.Team1, model.Team2, model.Team1, model.Team1,
	}
	var pts []model.Point
	g1, g2 := 0, 0
	for i, w := range winners {
		pts = appendGame(pts, matchID, set, i+1, g1, g2, false, loveGame(w)...)
		if w == model.Team1 {
			g1++
		} else {
			g2++
		}
	}
	return pts
}

func statsFor(t *testing.T, stats []model.MatchStats, id int64) *model.MatchStats {
	t.Helper()
	for i := range stats {
		if stats[i].MatchID == id {
			return &stats[i]
		}
	}
	t.Fatalf("match %d not found in stats", id)
	return nil
}

// TestStraightSet: one set decided 6-4 with no deuces and no tie-break.
func TestStraightSet(t *testing.T) {
	matches := []model.Match{{ID: 1, SetsToWin: 1}}
	pts := straightSet(1, 1)

	stats, _, err := Compute(matches, pts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := statsFor(t, stats, 1)

	if s.TotalPoints != len(pts) {
		t.Errorf("TotalPoints: want %d, got %d", len(pts), s.TotalPoints)
	}
	if s.TotalGames != 10 {
		t.Errorf("TotalGames: want 10, got %d", s.TotalGames)
	}
	if s.TotalDeuces != 0 {
		t.Errorf("TotalDeuces: want 0, got %d", s.TotalDeuces)
	}
	if s.SetsWithTiebreak != 0 || s.TieBreaksWonTeam1 != 0 || s.TieBreaksWonTeam2 != 0 {
		t.Errorf("tie-break stats: want all 0, got sets=%d won1=%d won2=%d",
			s.SetsWithTiebreak, s.TieBreaksWonTeam1, s.TieBreaksWonTeam2)
	}
	if s.AvgPointsPerGame != 4.0 {
		t.Errorf("AvgPointsPerGame: want 4.0, got %v", s.AvgPointsPerGame)
	}
	if s.MaxPointsPerGame != 4 {
		t.Errorf("MaxPointsPerGame: want 4, got %d", s.MaxPointsPerGame)
	}
}

// TestDeuceBucketPartition: the four deuce buckets partition total_games.
func TestDeuceBucketPartition(t *testing.T) {
	var pts []model.Point
	// Game 1: no deuce. Game 2: one deuce. Game 3: two deuces (advantage
	// lost once). Game 4: three deuces.
	pts = appendGame(pts, 1, 1, 1, 0, 0, false, loveGame(model.Team1)...)
	pts = appendGame(pts, 1, 1, 2, 1, 0, false, "30-30", "40-30", "40-40", "A-40")
	pts = appendGame(pts, 1, 1, 3, 2, 0, false, "40-40", "A-40", "40-40", "40-A")
	pts = appendGame(pts, 1, 1, 4, 2, 1, false, "40-40", "A-40", "40-40", "40-A", "40-40", "A-40")

	stats, _, err := Compute(bestOf3(1), pts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := statsFor(t, stats, 1)

	if s.Games0Deuce != 1 || s.Games1Deuce != 1 || s.Games2Deuces != 1 || s.Games3PlusDeuces != 1 {
		t.Errorf("deuce buckets: want 1/1/1/1, got %d/%d/%d/%d",
			s.Games0Deuce, s.Games1Deuce, s.Games2Deuces, s.Games3PlusDeuces)
	}
	sum := s.Games0Deuce + s.Games1Deuce + s.Games2Deuces + s.Games3PlusDeuces
	if sum != s.TotalGames {
		t.Errorf("deuce buckets must partition games: sum=%d total=%d", sum, s.TotalGames)
	}
	if s.TotalDeuces != 6 {
		t.Errorf("TotalDeuces: want 6, got %d", s.TotalDeuces)
	}
}

// TestDeuceAdvantageConversion: 40-40 then A-40 won by team 1 records one
// deuce and one converted game point against team 2.
func TestDeuceAdvantageConversion(t *testing.T) {
	pts := appendGame(nil, 1, 1, 1, 0, 0, false, "40-40", "A-40")

	stats, flags, err := Compute(bestOf3(1), pts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := statsFor(t, stats, 1)

	if s.TotalDeuces != 1 {
		t.Errorf("TotalDeuces: want 1, got %d", s.TotalDeuces)
	}
	if s.GamePointsFacedTeam2 != 1 {
		t.Errorf("GamePointsFacedTeam2: want 1, got %d", s.GamePointsFacedTeam2)
	}
	if s.GamePointsSavedTeam2 != 0 {
		t.Errorf("GamePointsSavedTeam2: want 0 (converted), got %d", s.GamePointsSavedTeam2)
	}
	if s.GamePointsFacedTeam1 != 0 {
		t.Errorf("GamePointsFacedTeam1: want 0, got %d", s.GamePointsFacedTeam1)
	}

	// The A-40 point is the last of its game: not continued.
	last := flags[len(flags)-1]
	if !last.GamePointTeam1 || last.GameContinued {
		t.Errorf("A-40 flags: want converted game point for team 1, got %+v", last)
	}
}

// TestGamePointSaved: a game point followed by more points in the same game
// counts as saved.
func TestGamePointSaved(t *testing.T) {
	pts := appendGame(nil, 1, 1, 1, 0, 0, false, "40-30", "40-40", "A-40")

	stats, _, err := Compute(bestOf3(1), pts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := statsFor(t, stats, 1)

	// 40-30 faced and saved (game continued to deuce); A-40 faced and converted.
	if s.GamePointsFacedTeam2 != 2 {
		t.Errorf("GamePointsFacedTeam2: want 2, got %d", s.GamePointsFacedTeam2)
	}
	if s.GamePointsSavedTeam2 != 1 {
		t.Errorf("GamePointsSavedTeam2: want 1, got %d", s.GamePointsSavedTeam2)
	}
}

// TestTiebreakDecision: a tie-break reaching 6-5 then won by team 1.
func TestTiebreakDecision(t *testing.T) {
	var pts []model.Point
	pts = appendGame(pts, 1, 1, 13, 6, 6, true, "5-5", "6-5")

	stats, flags, err := Compute(bestOf3(1), pts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := statsFor(t, stats, 1)

	if s.SetsWithTiebreak != 1 {
		t.Errorf("SetsWithTiebreak: want 1, got %d", s.SetsWithTiebreak)
	}
	if s.TieBreaksWonTeam1 != 1 || s.TieBreaksWonTeam2 != 0 {
		t.Errorf("tie-breaks won: want 1/0, got %d/%d", s.TieBreaksWonTeam1, s.TieBreaksWonTeam2)
	}

	// Tie-break points never count toward regular game-point stats.
	if s.GamePointsFacedTeam1 != 0 || s.GamePointsFacedTeam2 != 0 {
		t.Errorf("game points in tie-break: want 0/0, got %d/%d",
			s.GamePointsFacedTeam1, s.GamePointsFacedTeam2)
	}
	// But the tie-break point is a set point, converted here.
	if s.SetPointsFacedTeam2 != 1 || s.SetPointsSavedTeam2 != 0 {
		t.Errorf("set points team 2: want faced=1 saved=0, got %d/%d",
			s.SetPointsFacedTeam2, s.SetPointsSavedTeam2)
	}

	for _, f := range flags {
		if f.GamePointTeam1 && f.GamePointTeam2 {
			t.Error("tie-break point can never belong to both sides")
		}
	}
}

// TestMatchPoint_DerivedSetsWon: match points only appear once the holder is
// a set up, with sets-won derived from the final point of set 1.
func TestMatchPoint_DerivedSetsWon(t *testing.T) {
	var pts []model.Point
	// Set 1 won by team 1 (single love game closes it in this log).
	pts = appendGame(pts, 1, 1, 1, 0, 0, false, loveGame(model.Team1)...)
	// Set 2, team 1 serving for the match at 5-0: match point at 40-30 is
	// saved, then team 2 takes the game after deuce.
	pts = appendGame(pts, 1, 2, 6, 5, 0, false, "40-30", "40-40", "40-A")

	stats, _, err := Compute(bestOf3(1), pts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := statsFor(t, stats, 1)

	if s.MatchPointsFacedTeam2 != 1 {
		t.Errorf("MatchPointsFacedTeam2: want 1, got %d", s.MatchPointsFacedTeam2)
	}
	if s.MatchPointsSavedTeam2 != 1 {
		t.Errorf("MatchPointsSavedTeam2: want 1 (match continued), got %d", s.MatchPointsSavedTeam2)
	}
	if s.SetPointsFacedTeam2 != 1 || s.SetPointsSavedTeam2 != 1 {
		t.Errorf("set points team 2: want faced=1 saved=1, got %d/%d",
			s.SetPointsFacedTeam2, s.SetPointsSavedTeam2)
	}
}

// TestMatchPoint_NotWithoutSetLead: the same 5-0, 40-30 situation in set 2 is
// only a set point when team 1 dropped set 1.
func TestMatchPoint_NotWithoutSetLead(t *testing.T) {
	var pts []model.Point
	pts = appendGame(pts, 1, 1, 1, 0, 0, false, loveGame(model.Team2)...)
	pts = appendGame(pts, 1, 2, 6, 5, 0, false, "40-30", "40-40", "40-A")

	stats, _, err := Compute(bestOf3(1), pts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := statsFor(t, stats, 1)

	if s.MatchPointsFacedTeam2 != 0 {
		t.Errorf("MatchPointsFacedTeam2: want 0 (team 1 has no set), got %d", s.MatchPointsFacedTeam2)
	}
	if s.SetPointsFacedTeam2 != 1 {
		t.Errorf("SetPointsFacedTeam2: want 1, got %d", s.SetPointsFacedTeam2)
	}
}

// TestFacedNeverBelowSaved: converted = faced − saved must never go negative.
func TestFacedNeverBelowSaved(t *testing.T) {
	var pts []model.Point
	pts = append(pts, straightSet(1, 1)...)
	pts = appendGame(pts, 1, 2, 1, 0, 0, false, "40-40", "A-40", "40-40", "40-A")
	pts = appendGame(pts, 1, 2, 13, 6, 6, true, "5-6", "6-6", "7-6")

	stats, _, err := Compute(bestOf3(1), pts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := statsFor(t, stats, 1)

	pairs := [][2]int{
		{s.GamePointsFacedTeam1, s.GamePointsSavedTeam1},
		{s.GamePointsFacedTeam2, s.GamePointsSavedTeam2},
		{s.SetPointsFacedTeam1, s.SetPointsSavedTeam1},
		{s.SetPointsFacedTeam2, s.SetPointsSavedTeam2},
		{s.MatchPointsFacedTeam1, s.MatchPointsSavedTeam1},
		{s.MatchPointsFacedTeam2, s.MatchPointsSavedTeam2},
	}
	for i, p := range pairs {
		if p[0] < p[1] {
			t.Errorf("pair %d: faced=%d < saved=%d", i, p[0], p[1])
		}
	}
}

// TestZeroPointMatch: a match with no points still gets a full zero row.
func TestZeroPointMatch(t *testing.T) {
	matches := []model.Match{{ID: 1, SetsToWin: 2}, {ID: 2, SetsToWin: 2}}
	pts := appendGame(nil, 1, 1, 1, 0, 0, false, loveGame(model.Team1)...)

	stats, _, err := Compute(matches, pts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 stat rows, got %d", len(stats))
	}
	s := statsFor(t, stats, 2)
	if s.TotalPoints != 0 || s.TotalGames != 0 || s.TotalDeuces != 0 {
		t.Errorf("match 2: expected all-zero row, got %+v", *s)
	}
}

// TestEmptyInput: no matches or no points yields an empty table, not an error.
func TestEmptyInput(t *testing.T) {
	stats, flags, err := Compute(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stats) != 0 || len(flags) != 0 {
		t.Errorf("expected empty output, got %d stats / %d flags", len(stats), len(flags))
	}

	stats, _, err = Compute(bestOf3(1), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stats) != 0 {
		t.Errorf("no points: expected empty output, got %d rows", len(stats))
	}
}

// TestOrderingViolation_Gap: a missing point number aborts the run.
func TestOrderingViolation_Gap(t *testing.T) {
	pts := appendGame(nil, 1, 1, 1, 0, 0, false, loveGame(model.Team1)...)
	pts[2].PointNumber = 5 // 1, 2, 5, 4

	_, _, err := Compute(bestOf3(1), pts)
	if err == nil {
		t.Fatal("expected ordering violation error, got nil")
	}
}

// TestOrderingViolation_StartsAtZero: groups must start at point_number 1.
func TestOrderingViolation_StartsAtZero(t *testing.T) {
	pts := appendGame(nil, 1, 1, 1, 0, 0, false, loveGame(model.Team1)...)
	for i := range pts {
		pts[i].PointNumber--
	}

	_, _, err := Compute(bestOf3(1), pts)
	if err == nil {
		t.Fatal("expected ordering violation error, got nil")
	}
}

// TestTotalPointsInvariant: total_points equals the raw point count per match.
func TestTotalPointsInvariant(t *testing.T) {
	var pts []model.Point
	pts = append(pts, straightSet(1, 1)...)
	pts = append(pts, straightSet(2, 1)...)
	pts = appendGame(pts, 2, 2, 1, 0, 0, false, "40-40", "A-40")

	counts := map[int64]int{}
	for _, p := range pts {
		counts[p.MatchID]++
	}

	stats, _, err := Compute([]model.Match{{ID: 1}, {ID: 2}}, pts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range stats {
		if stats[i].TotalPoints != counts[stats[i].MatchID] {
			t.Errorf("match %d: TotalPoints=%d, raw count=%d",
				stats[i].MatchID, stats[i].TotalPoints, counts[stats[i].MatchID])
		}
	}
}

// TestPointsPerGame: mean is rounded to one decimal, max picks the longest game.
func TestPointsPerGame(t *testing.T) {
	var pts []model.Point
	pts = appendGame(pts, 1, 1, 1, 0, 0, false, loveGame(model.Team1)...)                  // 4 points
	pts = appendGame(pts, 1, 1, 2, 1, 0, false, "30-30", "40-30", "40-40", "A-40", "A-40") // 5 points
	// mean = 9/2 = 4.5, max = 5

	stats, _, err := Compute(bestOf3(1), pts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := statsFor(t, stats, 1)
	if s.AvgPointsPerGame != 4.5 {
		t.Errorf("AvgPointsPerGame: want 4.5, got %v", s.AvgPointsPerGame)
	}
	if s.MaxPointsPerGame != 5 {
		t.Errorf("MaxPointsPerGame: want 5, got %d", s.MaxPointsPerGame)
	}
}
