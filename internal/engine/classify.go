package engine

import (
	"strconv"
	"strings"

	"github.com/courtside/go-padel-stats/internal/model"
)

// classifyPoint computes the pressure-point flags for a single point from its
// pre-point score snapshot. setsWon1/setsWon2 are the sets already won by each
// side before this point; setsToWin is the match's best-of-N threshold.
// Lookahead fields (GameContinued etc.) are left for the caller to fill.
func classifyPoint(p *model.Point, setsWon1, setsWon2, setsToWin int) model.PointFlags {
	f := model.PointFlags{
		MatchID:     p.MatchID,
		SetNumber:   p.SetNumber,
		GameNumber:  p.GameNumber,
		PointNumber: p.PointNumber,
		IsTiebreak:  p.IsTiebreak,
	}

	switch p.Kind() {
	case model.TieBreakGame:
		f.GamePointTeam1 = tiebreakGamePoint(p.GameScoreTeam1, p.GameScoreTeam2)
		f.GamePointTeam2 = tiebreakGamePoint(p.GameScoreTeam2, p.GameScoreTeam1)
		// Winning the tie-break wins the set.
		f.SetPointTeam1 = f.GamePointTeam1
		f.SetPointTeam2 = f.GamePointTeam2
	default:
		f.IsDeuce = p.GameScoreTeam1 == "40" && p.GameScoreTeam2 == "40"
		f.GamePointTeam1 = regularGamePoint(p.GameScoreTeam1, p.GameScoreTeam2)
		f.GamePointTeam2 = regularGamePoint(p.GameScoreTeam2, p.GameScoreTeam1)
		f.SetPointTeam1 = f.GamePointTeam1 && setClinchingGame(p.SetGamesTeam1, p.SetGamesTeam2)
		f.SetPointTeam2 = f.GamePointTeam2 && setClinchingGame(p.SetGamesTeam2, p.SetGamesTeam1)
	}

	// Match point is a strict refinement of set point: winning the current
	// set must reach the match win threshold.
	f.MatchPointTeam1 = f.SetPointTeam1 && setsWon1 >= setsToWin-1
	f.MatchPointTeam2 = f.SetPointTeam2 && setsWon2 >= setsToWin-1

	return f
}

// regularGamePoint reports whether a side holds game point in a regular game:
// advantage, or 40 against 0/15/30. Deuce (40-40) confers game point to
// neither side.
func regularGamePoint(own, opp string) bool {
	if own == "A" {
		return true
	}
	if own != "40" {
		return false
	}
	switch opp {
	case "0", "15", "30":
		return true
	}
	return false
}

// tiebreakGamePoint reports whether winning this point would close the
// tie-break: own score +1 reaches at least 7 with a lead of at least 2.
// Malformed or missing tokens never hold a game point.
func tiebreakGamePoint(own, opp string) bool {
	a, ok := tiebreakScore(own)
	if !ok {
		return false
	}
	b, ok := tiebreakScore(opp)
	if !ok {
		return false
	}
	return a+1 >= 7 && a+1-b >= 2
}

// tiebreakScore coerces a tie-break score token to its integer point count.
// Dirty data (empty, non-numeric, negative) reports !ok instead of failing.
func tiebreakScore(tok string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(tok))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// setClinchingGame reports whether winning the current game would win the set
// under standard rules: 5 games against at most 4 (clinch at 6 with a 2-game
// margin), or 6 against 5 (clinch at 7-5).
func setClinchingGame(ownGames, oppGames int) bool {
	return (ownGames == 5 && oppGames <= 4) || (ownGames == 6 && oppGames == 5)
}
