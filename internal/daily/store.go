package daily

import (
	"context"
	"database/sql"
	"fmt"
)

// Result is one player's finished daily round.
type Result struct {
	UserID       string `json:"userId"`
	Date         string `json:"date"`
	OpeningIndex int    `json:"openingIndex"`
	PoolSize     int    `json:"poolSize"`
	Won          bool   `json:"won"`
	ElapsedMs    int    `json:"elapsedMs"`
}

// LBRow is a leaderboard line.
type LBRow struct {
	UserID    string `json:"userId"`
	PoolSize  int    `json:"poolSize"`
	ElapsedMs int    `json:"elapsedMs"`
}

// Store reads and writes daily_results.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AlreadyPlayed reports whether userID has a result for date.
func (s *Store) AlreadyPlayed(ctx context.Context, userID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM daily_results WHERE user_id=? AND date=?`,
		userID, date,
	).Scan(&cnt)
	if err != nil {
		return false, fmt.Errorf("query daily_results: %w", err)
	}
	return cnt > 0, nil
}

// InsertResult stores r; a second result for the same user and date is ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(user_id, date, opening_index, pool_size, won, elapsed_ms)
		 VALUES(?,?,?,?,?,?)`,
		r.UserID, r.Date, r.OpeningIndex, r.PoolSize, r.Won, r.ElapsedMs,
	)
	if err != nil {
		return fmt.Errorf("insert daily result: %w", err)
	}
	return nil
}

// Reassign moves fromID's results to toID and reports how many moved.
// Dates toID already has a result for keep toID's and drop fromID's.
func (s *Store) Reassign(ctx context.Context, fromID, toID string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin reassign: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `UPDATE OR IGNORE daily_results SET user_id=? WHERE user_id=?`, toID, fromID)
	if err != nil {
		return 0, fmt.Errorf("reassign daily results: %w", err)
	}
	moved, _ := res.RowsAffected()
	if _, err := tx.ExecContext(ctx, `DELETE FROM daily_results WHERE user_id=?`, fromID); err != nil {
		return 0, fmt.Errorf("drop duplicate daily results: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit reassign: %w", err)
	}
	return moved, nil
}

// Leaderboard lists the date's winners: biggest pool first, then fastest.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, pool_size, elapsed_ms
		 FROM daily_results
		 WHERE date=? AND won=1
		 ORDER BY pool_size DESC, elapsed_ms ASC, created_at ASC
		 LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.UserID, &r.PoolSize, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
