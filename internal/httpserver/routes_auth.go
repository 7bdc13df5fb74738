// internal/httpserver/routes_auth.go
//
// Accounts are optional: guests play under an anonymous cookie, and signing
// up or logging in claims that cookie's round history.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordduel/apps/go-server/internal/auth"
)

// Request payloads for signup/login.
type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// authUser is placed into request context by auth middleware.
type authUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ctxUserKey is the context key type for storing authUser.
type ctxUserKey struct{}

func userFrom(ctx context.Context) *authUser {
	u, _ := ctx.Value(ctxUserKey{}).(*authUser)
	return u
}

// mountAuthRoutes registers authentication + gated routes (/auth/*, /stats/me, /games/mine).
func (s *Server) mountAuthRoutes() {
	s.r.Post("/auth/signup", s.handleSignup)
	s.r.Post("/auth/login", s.handleLogin)
	s.r.Post("/auth/logout", s.handleLogout)

	s.r.With(s.requireAuth()).Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, userFrom(r.Context()))
	})
	s.r.With(s.requireAuth()).Get("/stats/me", s.handleStats)
	s.r.With(s.requireAuth()).Get("/games/mine", s.handleMyGames)
}

// handleSignup creates a user, sets the auth cookie, and claims anon history.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.users.Create(r.Context(), body.Username, body.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			writeError(w, http.StatusConflict, "username_taken")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !s.issueToken(w, u) {
		return
	}
	s.claimAnonGames(r.Context(), anonCookie(r), u.ID)
	writeJSON(w, http.StatusOK, map[string]any{"id": u.ID, "username": u.Username, "createdAt": u.CreatedAt})
}

// handleLogin authenticates, sets the cookie, and claims anon history.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.users.ByUsername(r.Context(), strings.TrimSpace(body.Username))
	if err != nil || !auth.CheckPassword(u.PasswordHash, body.Password) {
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}
	if !s.issueToken(w, u) {
		return
	}
	s.claimAnonGames(r.Context(), anonCookie(r), u.ID)
	writeJSON(w, http.StatusOK, map[string]any{"id": u.ID, "username": u.Username})
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.setCookie(w, s.opts.CookieName, "", time.Time{}, -1)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	me := userFrom(r.Context())
	u, err := s.users.ByID(r.Context(), me.ID)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":          u.ID,
		"gamesPlayed": u.GamesPlayed,
		"wins":        u.Wins,
		"streak":      u.Streak,
	})
}

type gameRow struct {
	ID            string `json:"id"`
	GameID        string `json:"gameId"`
	Mode          string `json:"mode"`
	Opening       string `json:"opening"`
	Letters       string `json:"letters"`
	Status        string `json:"status"`
	Winner        string `json:"winner,omitempty"`
	SubmittedWord string `json:"submittedWord,omitempty"`
	StartedAt     string `json:"startedAt"`
	FinishedAt    string `json:"finishedAt,omitempty"`
}

// handleMyGames lists the caller's 50 most recent rounds.
func (s *Server) handleMyGames(w http.ResponseWriter, r *http.Request) {
	me := userFrom(r.Context())
	rows, err := s.db.QueryContext(r.Context(), `
		SELECT id, game_id, mode, opening, letters, status, COALESCE(winner,''), COALESCE(submitted_word,''),
		       started_at, COALESCE(finished_at,'')
		FROM games WHERE user_id=? ORDER BY started_at DESC LIMIT 50`, me.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	defer rows.Close()

	out := []gameRow{}
	for rows.Next() {
		var gr gameRow
		if err := rows.Scan(&gr.ID, &gr.GameID, &gr.Mode, &gr.Opening, &gr.Letters, &gr.Status, &gr.Winner,
			&gr.SubmittedWord, &gr.StartedAt, &gr.FinishedAt); err != nil {
			log.Warn().Err(err).Msg("scan game row")
			continue
		}
		out = append(out, gr)
	}
	writeJSON(w, http.StatusOK, out)
}

// --------------------------- middleware ------------------------------------

// withOptionalAuth decorates requests with user context if a valid JWT is present.
// It never 401s; used for routes where guests are allowed.
func (s *Server) withOptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if u := s.authenticate(r); u != nil {
				r = r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, u))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireAuth enforces a valid JWT and injects authUser into request context.
func (s *Server) requireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := s.authenticate(r)
			if u == nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, u)))
		})
	}
}

// authenticate verifies the request's token and that its user still exists.
func (s *Server) authenticate(r *http.Request) *authUser {
	tok := s.bearerOrCookie(r)
	if tok == "" {
		return nil
	}
	c, err := s.signer.Parse(tok)
	if err != nil {
		return nil
	}
	u, err := s.users.ByID(r.Context(), c.ID)
	if err != nil {
		return nil
	}
	return &authUser{ID: u.ID, Username: u.Username}
}

// ------------------------------ cookies ------------------------------------

const anonCookieName = "wordduel_anon"

// ctxAnonKey is the context key for the guest's anonymous ID.
type ctxAnonKey struct{}

func anonFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxAnonKey{}).(string)
	return id
}

// withAnonID gives guests a stable anonymous ID, reusing the cookie when
// present and setting it otherwise. Signed-in requests are left alone.
func (s *Server) withAnonID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userFrom(r.Context()) == nil {
			id := anonCookie(r)
			if id == "" {
				id = auth.GenID()
				s.setCookie(w, anonCookieName, id, s.opts.Now().Add(180*24*time.Hour), 0)
			}
			r = r.WithContext(context.WithValue(r.Context(), ctxAnonKey{}, id))
		}
		next.ServeHTTP(w, r)
	})
}

func anonCookie(r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil {
		return c.Value
	}
	return ""
}

// claimAnonGames transfers anonymous rounds, live and finished, and daily
// results to a user account after auth.
func (s *Server) claimAnonGames(ctx context.Context, anonID, userID string) {
	if anonID == "" || userID == "" {
		return
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE games SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID); err != nil {
		log.Warn().Err(err).Msg("claim anon games")
	}
	s.mu.Lock()
	for _, m := range s.rounds {
		if m.anonID != anonID {
			continue
		}
		m.userID, m.anonID = userID, ""
		if m.daily != nil {
			e := *m.daily
			e.UserID = userID
			m.daily = &e
		}
	}
	s.mu.Unlock()
	s.daily.claim(ctx, anonID, userID)
}

func (s *Server) issueToken(w http.ResponseWriter, u *auth.User) bool {
	tok, exp, err := s.signer.Sign(u.ID, u.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return false
	}
	s.setCookie(w, s.opts.CookieName, tok, exp, 0)
	return true
}

// setCookie writes an HttpOnly cookie; Secure/SameSite=None in production.
func (s *Server) setCookie(w http.ResponseWriter, name, value string, exp time.Time, maxAge int) {
	sameSite := http.SameSiteLaxMode
	if s.opts.Secure {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.Secure,
		SameSite: sameSite,
		Expires:  exp,
		MaxAge:   maxAge,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or auth cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.opts.CookieName); err == nil {
		return c.Value
	}
	return ""
}
