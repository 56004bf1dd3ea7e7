package storage

import (
	"database/sql"
	"fmt"

	"github.com/courtside/go-padel-stats/internal/model"
)

// MatchExists returns true if a match with the given id is already stored.
func (db *DB) MatchExists(id int64) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM matches WHERE id = ?", id).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertMatches bulk-inserts match records in a transaction. Uses INSERT OR
// REPLACE for idempotency.
func (db *DB) InsertMatches(matches []model.Match) error {
	if len(matches) == 0 {
		return nil
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO matches(
			id, played_at, category, round_name,
			team_1_backhand, team_1_drive, team_2_backhand, team_2_drive,
			score, winner, duration_minutes, sets_to_win
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range matches {
		_, err = stmt.Exec(
			m.ID, m.PlayedAt, m.Category, m.RoundName,
			m.Team1Backhand, m.Team1Drive, m.Team2Backhand, m.Team2Drive,
			m.Score, m.Winner, m.DurationMinutes, m.SetsToWin,
		)
		if err != nil {
			return fmt.Errorf("insert match %d: %w", m.ID, err)
		}
	}
	return tx.Commit()
}

// InsertPoints bulk-inserts point rows in a transaction.
func (db *DB) InsertPoints(points []model.Point) error {
	if len(points) == 0 {
		return nil
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO points(
			match_id, set_number, game_number, point_number,
			game_score_team_1, game_score_team_2,
			set_games_team_1, set_games_team_2, is_tiebreak
		) VALUES (?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range points {
		_, err = stmt.Exec(
			p.MatchID, p.SetNumber, p.GameNumber, p.PointNumber,
			p.GameScoreTeam1, p.GameScoreTeam2,
			p.SetGamesTeam1, p.SetGamesTeam2, boolInt(p.IsTiebreak),
		)
		if err != nil {
			return fmt.Errorf("insert point %d/%d/%d/%d: %w",
				p.MatchID, p.SetNumber, p.GameNumber, p.PointNumber, err)
		}
	}
	return tx.Commit()
}

// InsertPointFlags bulk-inserts classified point flags in a transaction.
func (db *DB) InsertPointFlags(flags []model.PointFlags) error {
	if len(flags) == 0 {
		return nil
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO point_flags(
			match_id, set_number, game_number, point_number,
			is_tiebreak, is_deuce,
			game_point_team_1, game_point_team_2,
			set_point_team_1, set_point_team_2,
			match_point_team_1, match_point_team_2,
			game_continued, set_continued, match_continued
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, f := range flags {
		_, err = stmt.Exec(
			f.MatchID, f.SetNumber, f.GameNumber, f.PointNumber,
			boolInt(f.IsTiebreak), boolInt(f.IsDeuce),
			boolInt(f.GamePointTeam1), boolInt(f.GamePointTeam2),
			boolInt(f.SetPointTeam1), boolInt(f.SetPointTeam2),
			boolInt(f.MatchPointTeam1), boolInt(f.MatchPointTeam2),
			boolInt(f.GameContinued), boolInt(f.SetContinued), boolInt(f.MatchContinued),
		)
		if err != nil {
			return fmt.Errorf("insert point_flags %d/%d/%d/%d: %w",
				f.MatchID, f.SetNumber, f.GameNumber, f.PointNumber, err)
		}
	}
	return tx.Commit()
}

// InsertMatchStats bulk-inserts derived match stats rows in a transaction.
func (db *DB) InsertMatchStats(stats []model.MatchStats) error {
	if len(stats) == 0 {
		return nil
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO match_stats(
			match_id, total_points, total_games, total_deuces,
			games_0_deuce, games_1_deuce, games_2_deuces, games_3plus_deuces,
			sets_with_tiebreak, tiebreaks_won_team_1, tiebreaks_won_team_2,
			avg_points_per_game, max_points_per_game,
			game_points_faced_team_1, game_points_faced_team_2,
			game_points_saved_team_1, game_points_saved_team_2,
			set_points_faced_team_1, set_points_faced_team_2,
			set_points_saved_team_1, set_points_saved_team_2,
			match_points_faced_team_1, match_points_faced_team_2,
			match_points_saved_team_1, match_points_saved_team_2
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range stats {
		_, err = stmt.Exec(
			s.MatchID, s.TotalPoints, s.TotalGames, s.TotalDeuces,
			s.Games0Deuce, s.Games1Deuce, s.Games2Deuces, s.Games3PlusDeuces,
			s.SetsWithTiebreak, s.TieBreaksWonTeam1, s.TieBreaksWonTeam2,
			s.AvgPointsPerGame, s.MaxPointsPerGame,
			s.GamePointsFacedTeam1, s.GamePointsFacedTeam2,
			s.GamePointsSavedTeam1, s.GamePointsSavedTeam2,
			s.SetPointsFacedTeam1, s.SetPointsFacedTeam2,
			s.SetPointsSavedTeam1, s.SetPointsSavedTeam2,
			s.MatchPointsFacedTeam1, s.MatchPointsFacedTeam2,
			s.MatchPointsSavedTeam1, s.MatchPointsSavedTeam2,
		)
		if err != nil {
			return fmt.Errorf("insert match_stats for %d: %w", s.MatchID, err)
		}
	}
	return tx.Commit()
}

// ReplaceMatchStats wipes the stats tables and re-inserts from scratch, for
// full (non-incremental) recomputes.
func (db *DB) ReplaceMatchStats(flags []model.PointFlags, stats []model.MatchStats) error {
	if _, err := db.conn.Exec("DELETE FROM point_flags"); err != nil {
		return fmt.Errorf("clear point_flags: %w", err)
	}
	if _, err := db.conn.Exec("DELETE FROM match_stats"); err != nil {
		return fmt.Errorf("clear match_stats: %w", err)
	}
	if err := db.InsertPointFlags(flags); err != nil {
		return err
	}
	return db.InsertMatchStats(stats)
}

const matchColumns = `
	id, played_at, category, round_name,
	team_1_backhand, team_1_drive, team_2_backhand, team_2_drive,
	score, winner, duration_minutes, sets_to_win, created_at`

func scanMatch(rows *sql.Rows) (model.Match, error) {
	var m model.Match
	var createdAt string
	err := rows.Scan(
		&m.ID, &m.PlayedAt, &m.Category, &m.RoundName,
		&m.Team1Backhand, &m.Team1Drive, &m.Team2Backhand, &m.Team2Drive,
		&m.Score, &m.Winner, &m.DurationMinutes, &m.SetsToWin, &createdAt,
	)
	return m, err
}

// ListMatches returns all stored matches ordered by played_at desc.
func (db *DB) ListMatches() ([]model.Match, error) {
	rows, err := db.conn.Query("SELECT" + matchColumns + " FROM matches ORDER BY played_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetAllMatches returns all stored matches ordered by id for stats
// computation.
func (db *DB) GetAllMatches() ([]model.Match, error) {
	rows, err := db.conn.Query("SELECT" + matchColumns + " FROM matches ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetMatch returns the match with the given id, or nil when absent.
func (db *DB) GetMatch(id int64) (*model.Match, error) {
	rows, err := db.conn.Query("SELECT"+matchColumns+" FROM matches WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	m, err := scanMatch(rows)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMatchesSince returns matches ingested after the given created_at
// watermark, ordered by id.
func (db *DB) ListMatchesSince(watermark string) ([]model.Match, error) {
	rows, err := db.conn.Query(
		"SELECT"+matchColumns+" FROM matches WHERE created_at > ? ORDER BY id", watermark)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

const pointColumns = `
	match_id, set_number, game_number, point_number,
	game_score_team_1, game_score_team_2,
	set_games_team_1, set_games_team_2, is_tiebreak`

func scanPoint(rows *sql.Rows) (model.Point, error) {
	var p model.Point
	var tbInt int
	err := rows.Scan(
		&p.MatchID, &p.SetNumber, &p.GameNumber, &p.PointNumber,
		&p.GameScoreTeam1, &p.GameScoreTeam2,
		&p.SetGamesTeam1, &p.SetGamesTeam2, &tbInt,
	)
	p.IsTiebreak = tbInt != 0
	return p, err
}

// GetPoints returns all point rows for a match in log order.
func (db *DB) GetPoints(matchID int64) ([]model.Point, error) {
	rows, err := db.conn.Query("SELECT"+pointColumns+`
		FROM points WHERE match_id = ?
		ORDER BY set_number, game_number, point_number`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Point
	for rows.Next() {
		p, err := scanPoint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetAllPoints returns every stored point row in log order.
func (db *DB) GetAllPoints() ([]model.Point, error) {
	rows, err := db.conn.Query("SELECT" + pointColumns + `
		FROM points ORDER BY match_id, set_number, game_number, point_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Point
	for rows.Next() {
		p, err := scanPoint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetPointsForMatches returns the point rows for the given match ids in log
// order. An empty id list returns no rows.
func (db *DB) GetPointsForMatches(ids []int64) ([]model.Point, error) {
	var out []model.Point
	for _, id := range ids {
		pts, err := db.GetPoints(id)
		if err != nil {
			return nil, err
		}
		out = append(out, pts...)
	}
	return out, nil
}

// GetPointFlags returns the classified flags for a match in log order.
func (db *DB) GetPointFlags(matchID int64) ([]model.PointFlags, error) {
	rows, err := db.conn.Query(`
		SELECT match_id, set_number, game_number, point_number,
		       is_tiebreak, is_deuce,
		       game_point_team_1, game_point_team_2,
		       set_point_team_1, set_point_team_2,
		       match_point_team_1, match_point_team_2,
		       game_continued, set_continued, match_continued
		FROM point_flags WHERE match_id = ?
		ORDER BY set_number, game_number, point_number`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PointFlags
	for rows.Next() {
		var f model.PointFlags
		var b [11]int
		if err := rows.Scan(
			&f.MatchID, &f.SetNumber, &f.GameNumber, &f.PointNumber,
			&b[0], &b[1], &b[2], &b[3], &b[4], &b[5], &b[6], &b[7], &b[8], &b[9], &b[10],
		); err != nil {
			return nil, err
		}
		f.IsTiebreak = b[0] != 0
		f.IsDeuce = b[1] != 0
		f.GamePointTeam1 = b[2] != 0
		f.GamePointTeam2 = b[3] != 0
		f.SetPointTeam1 = b[4] != 0
		f.SetPointTeam2 = b[5] != 0
		f.MatchPointTeam1 = b[6] != 0
		f.MatchPointTeam2 = b[7] != 0
		f.GameContinued = b[8] != 0
		f.SetContinued = b[9] != 0
		f.MatchContinued = b[10] != 0
		out = append(out, f)
	}
	return out, rows.Err()
}

const statsColumns = `
	match_id, total_points, total_games, total_deuces,
	games_0_deuce, games_1_deuce, games_2_deuces, games_3plus_deuces,
	sets_with_tiebreak, tiebreaks_won_team_1, tiebreaks_won_team_2,
	avg_points_per_game, max_points_per_game,
	game_points_faced_team_1, game_points_faced_team_2,
	game_points_saved_team_1, game_points_saved_team_2,
	set_points_faced_team_1, set_points_faced_team_2,
	set_points_saved_team_1, set_points_saved_team_2,
	match_points_faced_team_1, match_points_faced_team_2,
	match_points_saved_team_1, match_points_saved_team_2,
	created_at`

func scanMatchStats(rows *sql.Rows) (model.MatchStats, error) {
	var s model.MatchStats
	err := rows.Scan(
		&s.MatchID, &s.TotalPoints, &s.TotalGames, &s.TotalDeuces,
		&s.Games0Deuce, &s.Games1Deuce, &s.Games2Deuces, &s.Games3PlusDeuces,
		&s.SetsWithTiebreak, &s.TieBreaksWonTeam1, &s.TieBreaksWonTeam2,
		&s.AvgPointsPerGame, &s.MaxPointsPerGame,
		&s.GamePointsFacedTeam1, &s.GamePointsFacedTeam2,
		&s.GamePointsSavedTeam1, &s.GamePointsSavedTeam2,
		&s.SetPointsFacedTeam1, &s.SetPointsFacedTeam2,
		&s.SetPointsSavedTeam1, &s.SetPointsSavedTeam2,
		&s.MatchPointsFacedTeam1, &s.MatchPointsFacedTeam2,
		&s.MatchPointsSavedTeam1, &s.MatchPointsSavedTeam2,
		&s.CreatedAt,
	)
	return s, err
}

// ListMatchStats returns all derived stats rows ordered by match id.
func (db *DB) ListMatchStats() ([]model.MatchStats, error) {
	rows, err := db.conn.Query("SELECT" + statsColumns + " FROM match_stats ORDER BY match_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchStats
	for rows.Next() {
		s, err := scanMatchStats(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetMatchStats returns the stats row for a match, or nil when the match has
// not been computed yet.
func (db *DB) GetMatchStats(matchID int64) (*model.MatchStats, error) {
	rows, err := db.conn.Query("SELECT"+statsColumns+" FROM match_stats WHERE match_id = ?", matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	s, err := scanMatchStats(rows)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// LastStatsUpdate returns the created_at watermark of the newest stats row,
// or "" when no stats have been computed yet.
func (db *DB) LastStatsUpdate() (string, error) {
	var wm sql.NullString
	err := db.conn.QueryRow("SELECT MAX(created_at) FROM match_stats").Scan(&wm)
	if err != nil {
		return "", err
	}
	if !wm.Valid {
		return "", nil
	}
	return wm.String, nil
}

// CountRows returns the row count of a known table. Table names are fixed at
// call sites, never user input.
func (db *DB) CountRows(table string) (int, error) {
	var n int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM " + table).Scan(&n)
	return n, err
}

// CategoryBreakdown returns match counts per category, ordered by count desc.
func (db *DB) CategoryBreakdown() (map[string]int, error) {
	rows, err := db.conn.Query("SELECT category, COUNT(1) FROM matches GROUP BY category")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var cat string
		var n int
		if err := rows.Scan(&cat, &n); err != nil {
			return nil, err
		}
		out[cat] = n
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary read query and returns column names plus string
// rows, for the interactive sql command.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = ""
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprintf("%v", x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
