// Package engine derives per-match statistics from a point-by-point score log.
// It is a pure in-memory batch computation: the caller supplies the match list
// and the flat point log, and gets back one wide statistics row per match plus
// the per-point pressure annotations.
package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/courtside/go-padel-stats/internal/model"
)

// setKey identifies one set within one match.
type setKey struct {
	matchID int64
	set     int
}

// gameKey identifies one game within one set within one match.
type gameKey struct {
	matchID int64
	set     int
	game    int
}

// Compute derives one MatchStats row per match from the point log.
//
// Points are sorted by (match_id, set_number, game_number, point_number) and
// validated: each (match, set, game) group must be a contiguous run starting
// at 1, or Compute aborts with an ordering error. Malformed score tokens
// never abort — the affected point simply carries no derived flags.
//
// Every match in the input list appears exactly once in the output, with all
// metrics zero-filled when it has no qualifying points. Empty input yields an
// empty result and no error.
func Compute(matches []model.Match, points []model.Point) ([]model.MatchStats, []model.PointFlags, error) {
	if len(matches) == 0 || len(points) == 0 {
		return nil, nil, nil
	}

	pts := make([]model.Point, len(points))
	copy(pts, points)
	sort.SliceStable(pts, func(i, j int) bool {
		a, b := pts[i], pts[j]
		if a.MatchID != b.MatchID {
			return a.MatchID < b.MatchID
		}
		if a.SetNumber != b.SetNumber {
			return a.SetNumber < b.SetNumber
		}
		if a.GameNumber != b.GameNumber {
			return a.GameNumber < b.GameNumber
		}
		return a.PointNumber < b.PointNumber
	})

	if err := validateOrdering(pts); err != nil {
		return nil, nil, err
	}

	setsToWin := make(map[int64]int, len(matches))
	for _, m := range matches {
		n := m.SetsToWin
		if n <= 0 {
			n = model.DefaultSetsToWin
		}
		setsToWin[m.ID] = n
	}

	// ---- Pass 1: derive pre-point sets-won counts. ----
	// The side holding game point (tie-break point in a tie-break) on a set's
	// final point converted it and won the set; sets won before any point of
	// set k is the count of earlier sets won this way.
	setsWonBefore1, setsWonBefore2 := setsWonBySet(pts)

	// ---- Pass 2: classify every point and resolve lookahead. ----
	flags := make([]model.PointFlags, len(pts))
	for i := range pts {
		p := &pts[i]
		sk := setKey{p.MatchID, p.SetNumber}
		n, ok := setsToWin[p.MatchID]
		if !ok {
			n = model.DefaultSetsToWin
		}
		f := classifyPoint(p, setsWonBefore1[sk], setsWonBefore2[sk], n)

		if i+1 < len(pts) {
			next := &pts[i+1]
			f.MatchContinued = next.MatchID == p.MatchID
			f.SetContinued = f.MatchContinued && next.SetNumber == p.SetNumber
			f.GameContinued = f.SetContinued && next.GameNumber == p.GameNumber
		}
		flags[i] = f
	}

	// ---- Pass 3: per-game tallies. ----
	pointsPerGame := make(map[gameKey]int)
	deucesPerGame := make(map[gameKey]int)
	tiebreakGames := make(map[gameKey]bool)
	for i := range pts {
		k := gameKey{pts[i].MatchID, pts[i].SetNumber, pts[i].GameNumber}
		pointsPerGame[k]++
		if flags[i].IsDeuce {
			deucesPerGame[k]++
		}
		if pts[i].IsTiebreak {
			tiebreakGames[k] = true
		}
	}

	// ---- Pass 4: per-match accumulation. ----
	type matchAccum struct {
		totalPoints, totalGames int
		totalDeuces             int
		games0, games1, games2  int
		games3Plus              int
		maxPointsPerGame        int

		tiebreakSets           map[int]bool
		tbWon1, tbWon2         int
		gpFaced1, gpSaved1     int
		gpFaced2, gpSaved2     int
		spFaced1, spSaved1     int
		spFaced2, spSaved2     int
		mpFaced1, mpSaved1     int
		mpFaced2, mpSaved2     int
	}
	accums := make(map[int64]*matchAccum)
	accum := func(id int64) *matchAccum {
		a := accums[id]
		if a == nil {
			a = &matchAccum{tiebreakSets: make(map[int]bool)}
			accums[id] = a
		}
		return a
	}

	for k, n := range pointsPerGame {
		a := accum(k.matchID)
		a.totalPoints += n
		a.totalGames++
		if n > a.maxPointsPerGame {
			a.maxPointsPerGame = n
		}
		switch d := deucesPerGame[k]; {
		case d == 0:
			a.games0++
		case d == 1:
			a.games1++
		case d == 2:
			a.games2++
		default:
			a.games3Plus++
		}
		if tiebreakGames[k] {
			a.tiebreakSets[k.set] = true
		}
	}

	for i := range pts {
		p := &pts[i]
		f := &flags[i]
		a := accum(p.MatchID)

		if f.IsDeuce {
			a.totalDeuces++
		}

		// A tie-break is decided on its last point: the side holding the
		// tie-break point there converted it.
		if p.IsTiebreak && !f.GameContinued {
			if f.GamePointTeam1 {
				a.tbWon1++
			} else if f.GamePointTeam2 {
				a.tbWon2++
			}
		}

		// Faced/saved bookkeeping. Side X faces an opportunity when the
		// opponent holds it; it was saved iff the group continued.
		if f.GamePointTeam1 && !p.IsTiebreak {
			a.gpFaced2++
			if f.GameContinued {
				a.gpSaved2++
			}
		}
		if f.GamePointTeam2 && !p.IsTiebreak {
			a.gpFaced1++
			if f.GameContinued {
				a.gpSaved1++
			}
		}
		if f.SetPointTeam1 {
			a.spFaced2++
			if f.SetContinued {
				a.spSaved2++
			}
		}
		if f.SetPointTeam2 {
			a.spFaced1++
			if f.SetContinued {
				a.spSaved1++
			}
		}
		if f.MatchPointTeam1 {
			a.mpFaced2++
			if f.MatchContinued {
				a.mpSaved2++
			}
		}
		if f.MatchPointTeam2 {
			a.mpFaced1++
			if f.MatchContinued {
				a.mpSaved1++
			}
		}
	}

	// ---- Final: left-join onto the match list, zero-filling gaps. ----
	out := make([]model.MatchStats, 0, len(matches))
	seen := make(map[int64]bool, len(matches))
	for _, m := range matches {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true

		s := model.MatchStats{MatchID: m.ID}
		if a := accums[m.ID]; a != nil {
			s.TotalPoints = a.totalPoints
			s.TotalGames = a.totalGames
			s.TotalDeuces = a.totalDeuces
			s.Games0Deuce = a.games0
			s.Games1Deuce = a.games1
			s.Games2Deuces = a.games2
			s.Games3PlusDeuces = a.games3Plus
			s.SetsWithTiebreak = len(a.tiebreakSets)
			s.TieBreaksWonTeam1 = a.tbWon1
			s.TieBreaksWonTeam2 = a.tbWon2
			s.MaxPointsPerGame = a.maxPointsPerGame
			if a.totalGames > 0 {
				s.AvgPointsPerGame = round1(float64(a.totalPoints) / float64(a.totalGames))
			}
			s.GamePointsFacedTeam1 = a.gpFaced1
			s.GamePointsSavedTeam1 = a.gpSaved1
			s.GamePointsFacedTeam2 = a.gpFaced2
			s.GamePointsSavedTeam2 = a.gpSaved2
			s.SetPointsFacedTeam1 = a.spFaced1
			s.SetPointsSavedTeam1 = a.spSaved1
			s.SetPointsFacedTeam2 = a.spFaced2
			s.SetPointsSavedTeam2 = a.spSaved2
			s.MatchPointsFacedTeam1 = a.mpFaced1
			s.MatchPointsSavedTeam1 = a.mpSaved1
			s.MatchPointsFacedTeam2 = a.mpFaced2
			s.MatchPointsSavedTeam2 = a.mpSaved2
		}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].MatchID < out[j].MatchID })
	return out, flags, nil
}

// setsWonBySet returns, for every (match, set), the number of sets each side
// had already won before that set started.
func setsWonBySet(pts []model.Point) (map[setKey]int, map[setKey]int) {
	// Last point index of each set, in sorted order.
	lastOfSet := make(map[setKey]int)
	setsByMatch := make(map[int64][]int)
	for i := range pts {
		k := setKey{pts[i].MatchID, pts[i].SetNumber}
		if _, ok := lastOfSet[k]; !ok {
			setsByMatch[k.matchID] = append(setsByMatch[k.matchID], k.set)
		}
		lastOfSet[k] = i
	}

	winner := make(map[setKey]model.TeamSide)
	for k, i := range lastOfSet {
		p := &pts[i]
		// Match point is irrelevant here; classify with neutral sets-won.
		f := classifyPoint(p, 0, 0, model.DefaultSetsToWin)
		switch {
		case f.GamePointTeam1:
			winner[k] = model.Team1
		case f.GamePointTeam2:
			winner[k] = model.Team2
		}
	}

	before1 := make(map[setKey]int)
	before2 := make(map[setKey]int)
	for matchID, sets := range setsByMatch {
		sort.Ints(sets)
		won1, won2 := 0, 0
		for _, set := range sets {
			k := setKey{matchID, set}
			before1[k] = won1
			before2[k] = won2
			switch winner[k] {
			case model.Team1:
				won1++
			case model.Team2:
				won2++
			}
		}
	}
	return before1, before2
}

// validateOrdering checks that point numbers within every (match, set, game)
// group form a contiguous run starting at 1. Gaps, duplicates, and regressions
// break the lookahead contract and are surfaced, not silently fixed.
func validateOrdering(pts []model.Point) error {
	var prev gameKey
	prevNum := 0
	for i := range pts {
		p := &pts[i]
		k := gameKey{p.MatchID, p.SetNumber, p.GameNumber}
		if i == 0 || k != prev {
			if p.PointNumber != 1 {
				return fmt.Errorf("point log ordering violation: match %d set %d game %d starts at point_number %d, want 1",
					p.MatchID, p.SetNumber, p.GameNumber, p.PointNumber)
			}
		} else if p.PointNumber != prevNum+1 {
			return fmt.Errorf("point log ordering violation: match %d set %d game %d: point_number %d follows %d",
				p.MatchID, p.SetNumber, p.GameNumber, p.PointNumber, prevNum)
		}
		prev, prevNum = k, p.PointNumber
	}
	return nil
}

// round1 rounds to one decimal place.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
