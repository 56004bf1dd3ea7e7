package padelapi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/courtside/go-padel-stats/internal/model"
)

// FlattenMatch converts an API match record into a flat model.Match.
// Player slots are filled from the explicit side labels when present, falling
// back to list order. The set-level score list is reduced to a "2-1" style
// match score.
func FlattenMatch(m APIMatch) model.Match {
	out := model.Match{
		ID:              m.ID,
		PlayedAt:        m.PlayedAt,
		Category:        m.Category,
		RoundName:       m.RoundName,
		Winner:          m.Winner,
		Score:           matchScoreFromSets(m.Score),
		DurationMinutes: durationMinutes(m.Duration),
		SetsToWin:       model.DefaultSetsToWin,
	}
	out.Team1Backhand, out.Team1Drive = teamSlots(m.Players["team_1"])
	out.Team2Backhand, out.Team2Drive = teamSlots(m.Players["team_2"])
	return out
}

// teamSlots resolves the backhand and drive player names for one team.
func teamSlots(players []MatchPlayer) (backhand, drive string) {
	for _, p := range players {
		switch strings.ToLower(p.Side) {
		case "backhand":
			if backhand == "" {
				backhand = p.Name
			}
		case "drive":
			if drive == "" {
				drive = p.Name
			}
		}
	}
	// Fallback: assign by order when the side label is missing.
	if backhand == "" && len(players) >= 1 {
		backhand = players[0].Name
	}
	if drive == "" && len(players) >= 2 {
		drive = players[1].Name
	}
	return backhand, drive
}

// gamesOnly extracts the game count from a set score token: "6" → 6,
// "7(5)" → 7.
func gamesOnly(tok string) int {
	head, _, _ := strings.Cut(tok, "(")
	n, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return 0
	}
	return n
}

// matchScoreFromSets reduces the per-set score list to sets won, e.g. "2-1".
func matchScoreFromSets(sets []SetScore) string {
	won1, won2 := 0, 0
	for _, s := range sets {
		if gamesOnly(s.Team1) > gamesOnly(s.Team2) {
			won1++
		} else {
			won2++
		}
	}
	return fmt.Sprintf("%d-%d", won1, won2)
}

// durationMinutes converts an "H:MM" duration string to minutes.
func durationMinutes(d string) float64 {
	h, m, ok := strings.Cut(d, ":")
	if !ok {
		return 0
	}
	hours, err1 := strconv.ParseFloat(strings.TrimSpace(h), 64)
	mins, err2 := strconv.ParseFloat(strings.TrimSpace(m), 64)
	if err1 != nil || err2 != nil {
		return 0
	}
	return hours*60 + mins
}

// FlattenScore converts the nested sets→games→points payload into ordered
// point rows. Point numbers restart at 1 within each game; pre-point score
// tokens are split as-is, leaving dirty tokens for the engine's defensive
// handling.
func FlattenScore(matchID int64, payload *ScorePayload) []model.Point {
	var out []model.Point
	for _, set := range payload.Sets {
		for _, game := range set.Games {
			g1, g2 := splitGameScore(game.GameScore)
			for i, pt := range game.Points {
				t1, t2, _ := strings.Cut(pt, "-")
				out = append(out, model.Point{
					MatchID:        matchID,
					SetNumber:      set.SetNumber,
					GameNumber:     game.GameNumber,
					PointNumber:    i + 1,
					GameScoreTeam1: strings.TrimSpace(t1),
					GameScoreTeam2: strings.TrimSpace(t2),
					SetGamesTeam1:  g1,
					SetGamesTeam2:  g2,
					IsTiebreak:     game.TieBreak,
				})
			}
		}
	}
	return out
}

// splitGameScore parses a "3-2" set game count at game start.
func splitGameScore(s string) (int, int) {
	a, b, ok := strings.Cut(s, "-")
	if !ok {
		return 0, 0
	}
	g1, err1 := strconv.Atoi(strings.TrimSpace(a))
	g2, err2 := strconv.Atoi(strings.TrimSpace(b))
	if err1 != nil || err2 != nil {
		return 0, 0
	}
	return g1, g2
}
