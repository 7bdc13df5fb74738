// Package auth holds player accounts: user rows, password hashing, JWTs
// and the win/streak counters bumped when a round ends.
package auth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ErrUsernameTaken is returned by CreateUser for a duplicate username.
var ErrUsernameTaken = errors.New("username taken")

// User matches the users table shape.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	GamesPlayed  int       `json:"gamesPlayed"`
	Wins         int       `json:"wins"`
	Streak       int       `json:"streak"`
}

// Users reads and writes the users table.
type Users struct{ db *sql.DB }

func NewUsers(db *sql.DB) *Users { return &Users{db: db} }

func normalizeUsername(u string) string {
	return strings.TrimSpace(u)
}

// ValidateSignup enforces basic username/password rules.
func ValidateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return errors.New("username must be 3-24 chars")
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return errors.New("username: letters, numbers, underscore only")
		}
	}
	if len(p) < 8 || len(p) > 72 {
		return errors.New("password must be 8-72 chars")
	}
	return nil
}

func hashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

// CheckPassword is a bcrypt verifier.
func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// Create validates input, checks uniqueness, hashes the password and inserts a user.
func (s *Users) Create(ctx context.Context, username, pw string) (*User, error) {
	username = normalizeUsername(username)
	if err := ValidateSignup(username, pw); err != nil {
		return nil, err
	}
	var exists int
	_ = s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE lower(username)=lower(?)`, username).Scan(&exists)
	if exists == 1 {
		return nil, ErrUsernameTaken
	}
	h, err := hashPassword(pw)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &User{
		ID:           GenID(),
		Username:     username,
		PasswordHash: h,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		u.ID, u.Username, u.PasswordHash, u.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// ByUsername loads a user by case-insensitive username.
func (s *Users) ByUsername(ctx context.Context, username string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at, games_played, wins, streak
	                                  FROM users WHERE lower(username)=lower(?)`, normalizeUsername(username))
	return scanUser(row)
}

// ByID loads a user by id.
func (s *Users) ByID(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at, games_played, wins, streak
	                                  FROM users WHERE id=?`, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created, &u.GamesPlayed, &u.Wins, &u.Streak); err != nil {
		return nil, err
	}
	t, _ := time.Parse(time.RFC3339, created)
	u.CreatedAt = t
	return &u, nil
}

// BumpStats increments games played and updates wins and streak (within tx).
func BumpStats(ctx context.Context, tx *sql.Tx, userID string, won bool) error {
	var gp, wins, streak int
	row := tx.QueryRowContext(ctx, `SELECT games_played, wins, streak FROM users WHERE id=?`, userID)
	if err := row.Scan(&gp, &wins, &streak); err != nil {
		return err
	}
	gp++
	if won {
		wins++
		streak++
	} else {
		streak = 0
	}
	_, err := tx.ExecContext(ctx, `UPDATE users SET games_played=?, wins=?, streak=? WHERE id=?`, gp, wins, streak, userID)
	return err
}

// GenID creates a 22-char URL-safe, crypto-random identifier (no padding).
func GenID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
