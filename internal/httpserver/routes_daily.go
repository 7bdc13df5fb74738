// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily round.
// Exposes two endpoints under /daily:
//   - POST /daily/new         → start (or resume) today's round
//   - GET  /daily/leaderboard → top winners for today (or ?date=YYYY-MM-DD)
//
// Everyone gets the same computer opening word for a UTC date (HMAC of the
// date and DAILY_SALT). Each player, signed in or anonymous, plays it once;
// the result is persisted when the round ends.

package httpserver

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordduel/apps/go-server/internal/daily"
	"github.com/robalobadob/wordduel/apps/go-server/internal/game"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	sessions map[string]string // userID|date → game ID
	mu       sync.Mutex        // guards sessions
}

// dailyEntry ties a live round to its daily slot.
type dailyEntry struct {
	UserID       string
	Date         string
	OpeningIndex int
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	s.daily = &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     s.opts.DailySalt,
		sessions: make(map[string]string),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", s.daily.handleNew)
		r.Get("/leaderboard", s.daily.handleLeaderboard)
	})
}

// today returns the date key plus the day's opening word and its index.
func (d *dailyServer) today() (date string, idx int, opening string) {
	now := d.srv.opts.Now()
	idx, opening = daily.Opening(now, d.salt, game.Openers)
	return daily.DateKey(now), idx, opening
}

// playerID returns the signed-in user's ID, else the anonymous ID.
func playerID(ctx context.Context) string {
	if me := userFrom(ctx); me != nil {
		return me.ID
	}
	return anonFrom(ctx)
}

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	GameID string      `json:"gameId,omitempty"`
	Date   string      `json:"date"`
	Played bool        `json:"played"`
	State  *game.State `json:"state,omitempty"`
}

// handleNew creates or resumes today's round.
//   - A stored result for today → Played=true, no round.
//   - A live round for today → that round.
//   - Otherwise a new round opening with today's word.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := playerID(r.Context())
	date, idx, opening := d.today()

	played, err := d.store.AlreadyPlayed(r.Context(), uid, date)
	if err != nil {
		log.Warn().Err(err).Msg("daily already played")
	}
	if played {
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: true})
		return
	}

	key := uid + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	if id, ok := d.sessions[key]; ok {
		if g, err := d.srv.store.Get(r.Context(), id); err == nil {
			st := g.Snapshot()
			writeJSON(w, http.StatusOK, dailyNewRes{GameID: id, Date: date, Played: st.GameOver, State: &st})
			return
		}
	}

	entry := &dailyEntry{UserID: uid, Date: date, OpeningIndex: idx}
	g, err := d.srv.startRound(r, []game.Option{
		game.WithOpening(opening),
		game.WithMode(game.ModeDaily),
		game.WithChallengeRate(d.srv.opts.ChallengeRate),
	}, entry)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	d.sessions[key] = g.ID()
	st := g.Snapshot()
	writeJSON(w, http.StatusOK, dailyNewRes{GameID: g.ID(), Date: date, State: &st})
}

// finish persists a finished daily round.
func (d *dailyServer) finish(ctx context.Context, e *dailyEntry, st game.State, elapsed time.Duration) {
	err := d.store.InsertResult(ctx, daily.Result{
		UserID:       e.UserID,
		Date:         e.Date,
		OpeningIndex: e.OpeningIndex,
		PoolSize:     len(st.Letters),
		Won:          st.Winner == game.PlayerHuman,
		ElapsedMs:    int(elapsed.Milliseconds()),
	})
	if err != nil {
		log.Warn().Err(err).Str("gameId", st.ID).Msg("insert daily result")
	}
}

// claim moves a guest's daily results and live daily rounds to userID.
// Days the user already has a result or a round for stay with the user's.
func (d *dailyServer) claim(ctx context.Context, anonID, userID string) {
	if _, err := d.store.Reassign(ctx, anonID, userID); err != nil {
		log.Warn().Err(err).Msg("claim daily results")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	prefix := anonID + "|"
	for key, id := range d.sessions {
		date, ok := strings.CutPrefix(key, prefix)
		if !ok {
			continue
		}
		delete(d.sessions, key)
		if _, taken := d.sessions[userID+"|"+date]; !taken {
			d.sessions[userID+"|"+date] = id
		}
	}
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date, _, _ = d.today()
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "bad_date")
		return
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		log.Error().Err(err).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
