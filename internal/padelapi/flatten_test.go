package padelapi

import (
	"testing"

	"github.com/courtside/go-padel-stats/internal/model"
)

// TestGamesOnly: set score tokens with and without tie-break suffixes.
func TestGamesOnly(t *testing.T) {
	cases := []struct {
		tok  string
		want int
	}{
		{"6", 6},
		{"7", 7},
		{"6(5)", 6},
		{"7(10)", 7},
		{"", 0},
		{"x", 0},
	}
	for _, c := range cases {
		if got := gamesOnly(c.tok); got != c.want {
			t.Errorf("gamesOnly(%q): want %d, got %d", c.tok, c.want, got)
		}
	}
}

// TestMatchScoreFromSets: set list reduces to sets won.
func TestMatchScoreFromSets(t *testing.T) {
	sets := []SetScore{
		{Team1: "6", Team2: "4"},
		{Team1: "6(5)", Team2: "7(7)"},
		{Team1: "6", Team2: "3"},
	}
	if got := matchScoreFromSets(sets); got != "2-1" {
		t.Errorf("matchScoreFromSets: want 2-1, got %s", got)
	}
}

// TestFlattenMatch_SideFallback: explicit sides win; missing sides fall back
// to list order.
func TestFlattenMatch_SideFallback(t *testing.T) {
	m := APIMatch{
		ID:       42,
		Duration: "1:25",
		Players: map[string][]MatchPlayer{
			"team_1": {
				{Name: "Galan", Side: "drive"},
				{Name: "Chingotto", Side: "backhand"},
			},
			"team_2": {
				{Name: "Coello"},
				{Name: "Tapia"},
			},
		},
		Score: []SetScore{{Team1: "6", Team2: "2"}, {Team1: "6", Team2: "4"}},
	}

	flat := FlattenMatch(m)
	if flat.Team1Backhand != "Chingotto" || flat.Team1Drive != "Galan" {
		t.Errorf("team 1 slots: got %q/%q", flat.Team1Backhand, flat.Team1Drive)
	}
	if flat.Team2Backhand != "Coello" || flat.Team2Drive != "Tapia" {
		t.Errorf("team 2 order fallback: got %q/%q", flat.Team2Backhand, flat.Team2Drive)
	}
	if flat.Score != "2-0" {
		t.Errorf("Score: want 2-0, got %s", flat.Score)
	}
	if flat.DurationMinutes != 85 {
		t.Errorf("DurationMinutes: want 85, got %v", flat.DurationMinutes)
	}
	if flat.SetsToWin != model.DefaultSetsToWin {
		t.Errorf("SetsToWin: want default %d, got %d", model.DefaultSetsToWin, flat.SetsToWin)
	}
}

// TestFlattenScore: nested payload comes out as ordered point rows with
// point numbers restarting per game.
func TestFlattenScore(t *testing.T) {
	payload := &ScorePayload{
		ID: 7,
		Sets: []ScoreSet{
			{
				SetNumber: 1,
				Games: []ScoreGame{
					{GameNumber: 1, GameScore: "0-0", Points: []string{"0-0", "15-0"}},
					{GameNumber: 2, GameScore: "1-0", Points: []string{"0-0"}},
				},
			},
			{
				SetNumber: 2,
				Games: []ScoreGame{
					{GameNumber: 13, GameScore: "6-6", TieBreak: true, Points: []string{"0-0", "1-0"}},
				},
			},
		},
	}

	pts := FlattenScore(7, payload)
	if len(pts) != 5 {
		t.Fatalf("expected 5 points, got %d", len(pts))
	}

	if pts[0].PointNumber != 1 || pts[1].PointNumber != 2 || pts[2].PointNumber != 1 {
		t.Errorf("point numbers must restart per game: got %d, %d, %d",
			pts[0].PointNumber, pts[1].PointNumber, pts[2].PointNumber)
	}
	if pts[1].GameScoreTeam1 != "15" || pts[1].GameScoreTeam2 != "0" {
		t.Errorf("token split: got %q/%q", pts[1].GameScoreTeam1, pts[1].GameScoreTeam2)
	}
	tb := pts[3]
	if !tb.IsTiebreak || tb.SetGamesTeam1 != 6 || tb.SetGamesTeam2 != 6 {
		t.Errorf("tie-break game: got %+v", tb)
	}
	for _, p := range pts {
		if p.MatchID != 7 {
			t.Errorf("MatchID: want 7, got %d", p.MatchID)
		}
	}
}
