package model

// TeamSide identifies one of the two pairs in a match.
type TeamSide int

const (
	TeamUnknown TeamSide = 0
	Team1       TeamSide = 1
	Team2       TeamSide = 2
)

func (t TeamSide) String() string {
	switch t {
	case Team1:
		return "team_1"
	case Team2:
		return "team_2"
	default:
		return "?"
	}
}

// Other returns the opposing side.
func (t TeamSide) Other() TeamSide {
	switch t {
	case Team1:
		return Team2
	case Team2:
		return Team1
	default:
		return TeamUnknown
	}
}

// GameKind distinguishes regular games (0/15/30/40/A scoring) from tie-break
// games (integer scoring to 7 with a 2-point margin).
type GameKind int

const (
	RegularGame GameKind = iota
	TieBreakGame
)

// ---- Input records ----

// Match is one completed contest. The engine only uses ID and SetsToWin;
// the rest is carried through for reporting and export.
type Match struct {
	ID              int64
	PlayedAt        string
	Category        string
	RoundName       string
	Team1Backhand   string
	Team1Drive      string
	Team2Backhand   string
	Team2Drive      string
	Score           string // in sets, e.g. "2-1"
	Winner          string
	DurationMinutes float64
	SetsToWin       int // sets needed to win the match; 2 = best-of-3
}

// Point is one point played within a game within a set within a match.
// All score fields hold the state BEFORE the point was played.
type Point struct {
	MatchID     int64
	SetNumber   int
	GameNumber  int
	PointNumber int // starts at 1 within each (match, set, game) group

	// Pre-point game score tokens: "0","15","30","40","A" in regular games,
	// accumulated integer counts in tie-break games.
	GameScoreTeam1 string
	GameScoreTeam2 string

	// Pre-point count of games won in the current set.
	SetGamesTeam1 int
	SetGamesTeam2 int

	IsTiebreak bool
}

// Kind returns the scoring mode of the game this point belongs to.
func (p *Point) Kind() GameKind {
	if p.IsTiebreak {
		return TieBreakGame
	}
	return RegularGame
}

// GameScore returns the pre-point game score token for the given side.
func (p *Point) GameScore(t TeamSide) string {
	if t == Team1 {
		return p.GameScoreTeam1
	}
	return p.GameScoreTeam2
}

// SetGames returns the pre-point set game count for the given side.
func (p *Point) SetGames(t TeamSide) int {
	if t == Team1 {
		return p.SetGamesTeam1
	}
	return p.SetGamesTeam2
}

// ---- Derived per-point annotation ----

// PointFlags is the pressure-point annotation for a single point, computed
// from its pre-point score snapshot plus group-relative lookahead.
type PointFlags struct {
	MatchID     int64
	SetNumber   int
	GameNumber  int
	PointNumber int
	IsTiebreak  bool

	IsDeuce bool

	GamePointTeam1  bool
	GamePointTeam2  bool
	SetPointTeam1   bool
	SetPointTeam2   bool
	MatchPointTeam1 bool
	MatchPointTeam2 bool

	// Lookahead: whether a later point exists in the same game/set/match.
	// A faced opportunity was saved iff its group continued.
	GameContinued  bool
	SetContinued   bool
	MatchContinued bool
}

// GamePointFor reports whether the given side holds a game point.
func (f *PointFlags) GamePointFor(t TeamSide) bool {
	if t == Team1 {
		return f.GamePointTeam1
	}
	return f.GamePointTeam2
}

// SetPointFor reports whether the given side holds a set point.
func (f *PointFlags) SetPointFor(t TeamSide) bool {
	if t == Team1 {
		return f.SetPointTeam1
	}
	return f.SetPointTeam2
}

// MatchPointFor reports whether the given side holds a match point.
func (f *PointFlags) MatchPointFor(t TeamSide) bool {
	if t == Team1 {
		return f.MatchPointTeam1
	}
	return f.MatchPointTeam2
}

// ---- Aggregated output ----

// MatchStats is the wide per-match statistics row. One row per match, all
// metrics zero-filled: a match with no qualifying points reports 0, never null.
type MatchStats struct {
	MatchID int64

	TotalPoints int
	TotalGames  int

	TotalDeuces      int
	Games0Deuce      int
	Games1Deuce      int
	Games2Deuces     int
	Games3PlusDeuces int

	SetsWithTiebreak  int
	TieBreaksWonTeam1 int
	TieBreaksWonTeam2 int

	AvgPointsPerGame float64 // rounded to 1 decimal
	MaxPointsPerGame int

	// Game-point counts exclude tie-break games; set/match-point counts
	// cover both game kinds.
	GamePointsFacedTeam1  int
	GamePointsSavedTeam1  int
	GamePointsFacedTeam2  int
	GamePointsSavedTeam2  int
	SetPointsFacedTeam1   int
	SetPointsSavedTeam1   int
	SetPointsFacedTeam2   int
	SetPointsSavedTeam2   int
	MatchPointsFacedTeam1 int
	MatchPointsSavedTeam1 int
	MatchPointsFacedTeam2 int
	MatchPointsSavedTeam2 int

	CreatedAt string
}

// GamePointSavePct returns the share of faced game points the side saved.
func (s *MatchStats) GamePointSavePct(t TeamSide) float64 {
	if t == Team1 {
		return savePct(s.GamePointsSavedTeam1, s.GamePointsFacedTeam1)
	}
	return savePct(s.GamePointsSavedTeam2, s.GamePointsFacedTeam2)
}

// SetPointSavePct returns the share of faced set points the side saved.
func (s *MatchStats) SetPointSavePct(t TeamSide) float64 {
	if t == Team1 {
		return savePct(s.SetPointsSavedTeam1, s.SetPointsFacedTeam1)
	}
	return savePct(s.SetPointsSavedTeam2, s.SetPointsFacedTeam2)
}

// MatchPointSavePct returns the share of faced match points the side saved.
func (s *MatchStats) MatchPointSavePct(t TeamSide) float64 {
	if t == Team1 {
		return savePct(s.MatchPointsSavedTeam1, s.MatchPointsFacedTeam1)
	}
	return savePct(s.MatchPointsSavedTeam2, s.MatchPointsFacedTeam2)
}

func savePct(saved, faced int) float64 {
	if faced == 0 {
		return 0
	}
	return float64(saved) / float64(faced) * 100
}

// DefaultSetsToWin is applied when a match record does not carry the
// best-of-N parameter (best-of-3).
const DefaultSetsToWin = 2
