package engine

import (
	"testing"

	"github.com/courtside/go-padel-stats/internal/model"
)

// TestRegularGamePoint: token pairs map to the expected game-point holder.
func TestRegularGamePoint(t *testing.T) {
	cases := []struct {
		own, opp string
		want     bool
	}{
		{"40", "0", true},
		{"40", "15", true},
		{"40", "30", true},
		{"40", "40", false}, // deuce: first point wins advantage, not the game
		{"40", "A", false},
		{"A", "40", true},
		{"30", "15", false},
		{"0", "40", false},
		{"15", "40", false},
	}
	for _, c := range cases {
		if got := regularGamePoint(c.own, c.opp); got != c.want {
			t.Errorf("regularGamePoint(%q, %q): want %v, got %v", c.own, c.opp, c.want, got)
		}
	}
}

// TestTiebreakGamePoint: winning the point must reach ≥7 with a ≥2 lead.
func TestTiebreakGamePoint(t *testing.T) {
	cases := []struct {
		own, opp string
		want     bool
	}{
		{"6", "0", true},
		{"6", "4", true},
		{"6", "5", true},  // 7-5 closes
		{"6", "6", false}, // 7-6 lacks the margin
		{"7", "6", true},  // 8-6 closes an extended tie-break
		{"9", "8", true},
		{"5", "5", false},
		{"0", "6", false},
		{"10", "10", false},
	}
	for _, c := range cases {
		if got := tiebreakGamePoint(c.own, c.opp); got != c.want {
			t.Errorf("tiebreakGamePoint(%q, %q): want %v, got %v", c.own, c.opp, c.want, got)
		}
	}
}

// TestTiebreakGamePoint_MalformedTokens: dirty tokens never hold a game point
// and never panic.
func TestTiebreakGamePoint_MalformedTokens(t *testing.T) {
	for _, tok := range []string{"", "A", "forty", "-1", "6.5"} {
		if tiebreakGamePoint(tok, "0") {
			t.Errorf("tiebreakGamePoint(%q, \"0\"): malformed own token should yield false", tok)
		}
		if tiebreakGamePoint("6", tok) {
			t.Errorf("tiebreakGamePoint(\"6\", %q): malformed opponent token should yield false", tok)
		}
	}
}

// TestSetClinchingGame: pre-point set game counts that make the current game
// set-deciding.
func TestSetClinchingGame(t *testing.T) {
	cases := []struct {
		own, opp int
		want     bool
	}{
		{5, 0, true},
		{5, 4, true},
		{5, 5, false}, // 6-5 does not close the set
		{6, 5, true},  // 7-5 does
		{6, 6, false}, // 6-6 goes to the tie-break
		{4, 5, false},
		{0, 5, false},
	}
	for _, c := range cases {
		if got := setClinchingGame(c.own, c.opp); got != c.want {
			t.Errorf("setClinchingGame(%d, %d): want %v, got %v", c.own, c.opp, c.want, got)
		}
	}
}

// TestClassifyPoint_Deuce: 40-40 is a deuce and confers game point to neither.
func TestClassifyPoint_Deuce(t *testing.T) {
	p := model.Point{MatchID: 1, SetNumber: 1, GameNumber: 1, PointNumber: 5,
		GameScoreTeam1: "40", GameScoreTeam2: "40"}
	f := classifyPoint(&p, 0, 0, 2)
	if !f.IsDeuce {
		t.Error("expected IsDeuce=true at 40-40")
	}
	if f.GamePointTeam1 || f.GamePointTeam2 {
		t.Error("deuce must not confer a game point to either side")
	}
}

// TestClassifyPoint_MatchPointRefinement: a set point only becomes a match
// point when the holder already has sets_to_win−1 sets.
func TestClassifyPoint_MatchPointRefinement(t *testing.T) {
	p := model.Point{MatchID: 1, SetNumber: 2, GameNumber: 10, PointNumber: 4,
		GameScoreTeam1: "40", GameScoreTeam2: "15",
		SetGamesTeam1: 5, SetGamesTeam2: 4}

	f := classifyPoint(&p, 0, 0, 2)
	if !f.SetPointTeam1 {
		t.Error("expected SetPointTeam1 at 5-4, 40-15")
	}
	if f.MatchPointTeam1 {
		t.Error("no sets won yet: set point must not be a match point")
	}

	f = classifyPoint(&p, 1, 0, 2)
	if !f.MatchPointTeam1 {
		t.Error("one set up in best-of-3: expected MatchPointTeam1")
	}
}

// TestClassifyPoint_TiebreakSetPoint: in a tie-break the tie-break point is
// the set point, and regular game-point stats do not apply.
func TestClassifyPoint_TiebreakSetPoint(t *testing.T) {
	p := model.Point{MatchID: 1, SetNumber: 1, GameNumber: 13, PointNumber: 12,
		GameScoreTeam1: "6", GameScoreTeam2: "5",
		SetGamesTeam1: 6, SetGamesTeam2: 6, IsTiebreak: true}
	f := classifyPoint(&p, 0, 0, 2)
	if !f.GamePointTeam1 || !f.SetPointTeam1 {
		t.Error("expected tie-break point at 6-5 to be both game and set point for team 1")
	}
	if f.GamePointTeam2 || f.SetPointTeam2 {
		t.Error("team 2 holds nothing at 6-5 down")
	}
	if f.IsDeuce {
		t.Error("tie-break points are never deuces")
	}
}

// TestClassifyPoint_MalformedRegularTokens: unknown tokens yield no flags.
func TestClassifyPoint_MalformedRegularTokens(t *testing.T) {
	p := model.Point{MatchID: 1, SetNumber: 1, GameNumber: 1, PointNumber: 1,
		GameScoreTeam1: "AD", GameScoreTeam2: ""}
	f := classifyPoint(&p, 1, 1, 2)
	if f.IsDeuce || f.GamePointTeam1 || f.GamePointTeam2 ||
		f.SetPointTeam1 || f.SetPointTeam2 || f.MatchPointTeam1 || f.MatchPointTeam2 {
		t.Errorf("malformed tokens must yield no derived flags, got %+v", f)
	}
}
