// internal/httpserver/server.go
//
// HTTP server wiring for the wordduel backend.
// Responsibilities:
//   - Router + middleware (request IDs, access log, CORS, timeouts, panic recovery).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Game endpoints (optional auth): /game/*.
//   - Daily round endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /games/mine.
//
// Notes:
//   - Live rounds sit in the in-memory store; every round is also mirrored
//     to the games table and finished rounds bump the owner's stats.
//   - Optional auth decorates requests with user context when a valid token
//     is present; routes still run for guests.

package httpserver

import (
	crand "crypto/rand"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"

	"github.com/robalobadob/wordduel/apps/go-server/internal/auth"
	"github.com/robalobadob/wordduel/apps/go-server/internal/config"
	"github.com/robalobadob/wordduel/apps/go-server/internal/game"
	"github.com/robalobadob/wordduel/apps/go-server/internal/store"
	"github.com/robalobadob/wordduel/apps/go-server/internal/telemetry"
	"github.com/robalobadob/wordduel/apps/go-server/internal/words"
)

// Options are the server's tunables.
type Options struct {
	ChallengeRate  float64
	RequestTimeout time.Duration
	ClientOrigin   string
	CookieName     string
	Secure         bool // production cookies (Secure, SameSite=None)
	DailySalt      string
	JWTSecret      string
	JWTTTL         time.Duration

	// NewRand seeds the computer's randomness for each new round.
	NewRand func() game.Rand
	// Now is the clock for daily dates and timings.
	Now func() time.Time
}

// OptionsFromConfig maps the loaded config onto server options.
func OptionsFromConfig(c config.Config) Options {
	return Options{
		ChallengeRate:  c.ChallengeRate,
		RequestTimeout: c.RequestTimeout,
		ClientOrigin:   c.ClientOrigin,
		CookieName:     c.CookieName,
		Secure:         c.Production(),
		DailySalt:      c.DailySalt,
		JWTSecret:      c.JWTSecret,
		JWTTTL:         c.JWTTTL(),
	}
}

func (o *Options) setDefaults() {
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 10 * time.Second
	}
	if o.ClientOrigin == "" {
		o.ClientOrigin = "http://localhost:5173"
	}
	if o.CookieName == "" {
		o.CookieName = "wordduel_token"
	}
	if o.JWTSecret == "" {
		o.JWTSecret = "dev_secret_change_me"
	}
	if o.JWTTTL <= 0 {
		o.JWTTTL = 14 * 24 * time.Hour
	}
	if o.NewRand == nil {
		o.NewRand = seededRand
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Server bundles router, live-round store, dictionary and DB handle.
type Server struct {
	r      *chi.Mux
	store  store.Store
	db     *sql.DB
	dict   *words.Dictionary
	users  *auth.Users
	signer *auth.Signer
	opts   Options
	daily  *dailyServer
	tracer trace.Tracer

	mu     sync.Mutex
	rounds map[string]*roundMeta // keyed by game ID
}

// roundMeta is what the server remembers about a live round beyond its state.
type roundMeta struct {
	rowID   string // games row of the current attempt
	userID  string // signed-in owner; empty for guests
	anonID  string
	started time.Time
	daily   *dailyEntry
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, db *sql.DB, dict *words.Dictionary, opts Options) *Server {
	opts.setDefaults()
	s := &Server{
		r:      chi.NewRouter(),
		store:  st,
		db:     db,
		dict:   dict,
		users:  auth.NewUsers(db),
		signer: auth.NewSigner(opts.JWTSecret, opts.JWTTTL),
		opts:   opts,
		tracer: telemetry.Tracer("httpserver"),
		rounds: make(map[string]*roundMeta),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(hlog.NewHandler(log.Logger))
	s.r.Use(hlog.AccessHandler(accessLog))
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(opts.RequestTimeout))
	s.r.Use(jsonContentType)
	s.r.Use(s.cors)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "wordduel-go",
			"endpoints": []string{"/health", "POST /game/new", "GET /game/{id}", "POST /game/{id}/letter", "POST /game/{id}/challenge", "POST /game/{id}/word", "/daily/*", "/auth/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]int{"words": s.dict.Len(), "liveGames": s.store.Len()})
	})

	// Game endpoints: optional auth (guests can play)
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		r.Use(s.withAnonID)
		s.mountGame(r)
		s.mountDaily(r)
	})

	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Handler exposes the router (useful for tests and custom http.Server setups).
func (s *Server) Handler() http.Handler { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.opts.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func accessLog(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Str("request_id", chimw.GetReqID(r.Context())).
		Msg("request")
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// meta returns a copy of the round's metadata.
func (s *Server) meta(id string) (roundMeta, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.rounds[id]
	if !ok {
		return roundMeta{}, false
	}
	return *m, true
}

// restart stamps a new start time on a reset round. A finished attempt
// keeps its games row and the new attempt gets a fresh one.
func (s *Server) restart(id string, t time.Time, finished bool) (roundMeta, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.rounds[id]
	if !ok {
		return roundMeta{}, false
	}
	m.started = t
	if finished {
		m.rowID = store.NewID()
	}
	return *m, true
}

func (s *Server) setMeta(id string, m *roundMeta) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rounds[id] = m
}

// seededRand returns a math/rand source seeded from crypto/rand.
func seededRand() game.Rand {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return rand.New(rand.NewSource(int64(binary.LittleEndian.Uint64(b[:]))))
}
