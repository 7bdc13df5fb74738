// internal/httpserver/routes_game.go
//
// Round endpoints:
//   - POST /game/new              → start a round (computer opens)
//   - GET  /game/{id}             → current state
//   - POST /game/{id}/reset       → start the round over under the same id
//   - POST /game/{id}/letter      → human adds a letter, computer replies
//   - POST /game/{id}/challenge   → human challenges the computer
//   - POST /game/{id}/word        → human answers a computer challenge
//
// Rejected moves answer 400/409 with {"error": code} and leave the round as is.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/robalobadob/wordduel/apps/go-server/internal/auth"
	"github.com/robalobadob/wordduel/apps/go-server/internal/game"
	"github.com/robalobadob/wordduel/apps/go-server/internal/store"
)

func (s *Server) mountGame(r chi.Router) {
	r.Post("/game/new", s.handleNewGame)
	r.Route("/game/{id}", func(r chi.Router) {
		r.Get("/", s.handleGetGame)
		r.Post("/reset", s.handleReset)
		r.Post("/letter", s.handleLetter)
		r.Post("/challenge", s.handleChallenge)
		r.Post("/word", s.handleWord)
	})
}

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Opening string `json:"opening"` // optional; must be one of game.Openers
}
type newGameRes struct {
	GameID string     `json:"gameId"`
	State  game.State `json:"state"`
}

type letterReq struct {
	Letter string `json:"letter"`
}

type wordReq struct {
	Word string `json:"word"`
}

// handleNewGame creates a round and its games row.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	opts := []game.Option{game.WithChallengeRate(s.opts.ChallengeRate)}
	if op := strings.TrimSpace(req.Opening); op != "" {
		if !game.IsOpener(op) {
			writeError(w, http.StatusBadRequest, "invalid_opening")
			return
		}
		opts = append(opts, game.WithOpening(op))
	}

	g, err := s.startRound(r, opts, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, newGameRes{GameID: g.ID(), State: g.Snapshot()})
}

// startRound builds a round, stores it, and records its owner.
func (s *Server) startRound(r *http.Request, opts []game.Option, d *dailyEntry) (*game.Game, error) {
	ctx, span := s.tracer.Start(r.Context(), "game.new")
	defer span.End()

	g := game.New(store.NewID(), s.dict, s.opts.NewRand(), opts...)
	if err := s.store.Save(ctx, g); err != nil {
		log.Error().Err(err).Msg("save game")
		span.RecordError(err)
		return nil, err
	}

	m := &roundMeta{rowID: g.ID(), started: s.opts.Now(), daily: d}
	if me := userFrom(ctx); me != nil {
		m.userID = me.ID
	} else {
		m.anonID = anonFrom(ctx)
	}
	owner := *m
	s.setMeta(g.ID(), m)

	st := g.Snapshot()
	span.SetAttributes(
		attribute.String("game.id", st.ID),
		attribute.String("game.mode", string(st.Mode)),
		attribute.String("game.opening", st.Opening),
	)
	s.saveGameRow(ctx, st, owner)
	log.Info().Str("gameId", st.ID).Str("opening", st.Opening).Str("mode", string(st.Mode)).Msg("round started")
	return g, nil
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*game.Game, bool) {
	g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
		} else {
			writeError(w, http.StatusInternalServerError, "store_failed")
		}
		return nil, false
	}
	return g, true
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, g.Snapshot())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	g, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if m, ok := s.meta(g.ID()); ok && m.daily != nil {
		writeError(w, http.StatusConflict, "daily_no_reset")
		return
	}
	finished := g.Snapshot().GameOver
	st := g.Reset()
	if m, ok := s.restart(g.ID(), s.opts.Now(), finished); ok {
		s.saveGameRow(r.Context(), st, m)
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleLetter(w http.ResponseWriter, r *http.Request) {
	var req letterReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	s.act(w, r, "game.add_letter", func(g *game.Game) (game.State, error) {
		return g.AddLetter(req.Letter)
	})
}

func (s *Server) handleChallenge(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, "game.challenge", (*game.Game).Challenge)
}

func (s *Server) handleWord(w http.ResponseWriter, r *http.Request) {
	var req wordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	s.act(w, r, "game.submit_word", func(g *game.Game) (game.State, error) {
		return g.SubmitWord(req.Word)
	})
}

// act runs one move against the addressed round and reports the new state.
// The move that ends the round also records the result.
func (s *Server) act(w http.ResponseWriter, r *http.Request, name string, move func(*game.Game) (game.State, error)) {
	g, ok := s.lookup(w, r)
	if !ok {
		return
	}
	ctx, span := s.tracer.Start(r.Context(), name)
	defer span.End()

	st, err := move(g)
	span.SetAttributes(
		attribute.String("game.id", st.ID),
		attribute.Int("game.letters", len(st.Letters)),
	)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeGameError(w, err)
		return
	}
	if st.GameOver {
		span.SetAttributes(attribute.String("game.winner", string(st.Winner)))
		s.recordFinish(ctx, st)
	}
	writeJSON(w, http.StatusOK, st)
}

// writeGameError maps rejected moves onto HTTP statuses.
func writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrInvalidLetter):
		writeError(w, http.StatusBadRequest, "invalid_letter")
	case errors.Is(err, game.ErrInvalidWord):
		writeError(w, http.StatusBadRequest, "invalid_word")
	case errors.Is(err, game.ErrGameOver):
		writeError(w, http.StatusConflict, "game_over")
	case errors.Is(err, game.ErrWordPending):
		writeError(w, http.StatusConflict, "word_pending")
	case errors.Is(err, game.ErrNoChallenge):
		writeError(w, http.StatusConflict, "no_challenge")
	default:
		writeError(w, http.StatusInternalServerError, "internal")
	}
}

// ----------------------------- persistence ---------------------------------

// saveGameRow upserts the games row of the round's current attempt (best
// effort). Rows of finished attempts are never rewritten.
func (s *Server) saveGameRow(ctx context.Context, st game.State, m roundMeta) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO games (id, game_id, user_id, anonymous_id, mode, opening, letters, status, started_at)
		VALUES (?,?,?,?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET
			opening=excluded.opening, letters=excluded.letters, status=excluded.status,
			started_at=excluded.started_at`,
		m.rowID, st.ID, nullIfEmpty(m.userID), nullIfEmpty(m.anonID), string(st.Mode), st.Opening,
		strings.Join(st.Letters, ""), st.Status(), m.started.UTC().Format(time.RFC3339))
	if err != nil {
		log.Warn().Err(err).Str("gameId", st.ID).Msg("save game row")
	}
}

// recordFinish stores the outcome, bumps the owner's stats and, for daily
// rounds, the daily result. Failures are logged, never surfaced.
func (s *Server) recordFinish(ctx context.Context, st game.State) {
	m, ok := s.meta(st.ID)
	if !ok {
		return
	}
	now := s.opts.Now()
	won := st.Winner == game.PlayerHuman

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Warn().Err(err).Msg("begin finish tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE games SET letters=?, status=?, winner=?, submitted_word=?, finished_at=? WHERE id=?`,
		strings.Join(st.Letters, ""), st.Status(), string(st.Winner), nullIfEmpty(st.SubmittedWord),
		now.UTC().Format(time.RFC3339), m.rowID); err != nil {
		log.Warn().Err(err).Str("gameId", st.ID).Msg("finish game")
	}
	if m.userID != "" {
		if err := auth.BumpStats(ctx, tx, m.userID, won); err != nil {
			log.Warn().Err(err).Str("user", m.userID).Msg("bump stats")
		}
	}
	if err := tx.Commit(); err != nil {
		log.Warn().Err(err).Str("gameId", st.ID).Msg("commit finish")
	}

	if m.daily != nil {
		s.daily.finish(ctx, m.daily, st, now.Sub(m.started))
	}
	log.Info().Str("gameId", st.ID).Str("winner", string(st.Winner)).Int("letters", len(st.Letters)).Msg("round finished")
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
