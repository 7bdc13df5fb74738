// internal/game/engine.go
//
// Core engine for a single letter-duel round.
// Responsibilities:
//   - Create rounds with the computer's opening word already in the pool.
//   - Validate and apply human moves (add letter, challenge, submit word).
//   - Run the computer's reply after every human letter.
//   - Track state transitions: playing → challenge pending → resolved.
//
// Notes:
//   - Every exported method locks the game, so one *Game may be shared by
//     concurrent HTTP handlers.
//   - Randomness comes from an injected Rand so tests can script it.
package game

import (
	"errors"
	"strings"
	"sync"
)

// Errors returned for rejected operations. A rejected operation never
// mutates the round.
var (
	ErrGameOver      = errors.New("game over")
	ErrWordPending   = errors.New("word pending")
	ErrNoChallenge   = errors.New("no challenge outstanding")
	ErrInvalidLetter = errors.New("invalid letter")
	ErrInvalidWord   = errors.New("invalid word")
)

// DefaultChallengeRate is the chance the computer challenges instead of
// adding a letter.
const DefaultChallengeRate = 0.3

// Openers are the words the computer may open a round with.
var Openers = []string{"CAT", "DOG", "SUN", "CAR", "BAT"}

// IsOpener reports whether word, in any case, is one of the Openers.
func IsOpener(word string) bool {
	word = strings.TrimSpace(word)
	for _, o := range Openers {
		if strings.EqualFold(o, word) {
			return true
		}
	}
	return false
}

// Rand is the randomness the computer policy needs. *math/rand.Rand
// satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Option customizes a new Game.
type Option func(*Game)

// WithOpening fixes the computer's opening word instead of drawing one.
func WithOpening(word string) Option {
	return func(g *Game) { g.opening = strings.ToUpper(strings.TrimSpace(word)) }
}

// WithChallengeRate sets the probability of the computer challenging.
func WithChallengeRate(p float64) Option {
	return func(g *Game) { g.challengeRate = p }
}

// WithMode tags the round (classic or daily).
func WithMode(m Mode) Option {
	return func(g *Game) { g.mode = m }
}

// Game is one round plus the collaborators needed to play it.
type Game struct {
	mu            sync.Mutex
	st            State
	lex           Lexicon
	rng           Rand
	opening       string
	challengeRate float64
	mode          Mode
}

// New constructs a round with the computer's opening move applied.
func New(id string, lex Lexicon, rng Rand, opts ...Option) *Game {
	g := &Game{
		lex:           lex,
		rng:           rng,
		challengeRate: DefaultChallengeRate,
		mode:          ModeClassic,
	}
	for _, o := range opts {
		o(g)
	}
	g.st.ID = id
	g.reset()
	return g
}

// Reset starts the round over: fresh pool, new opening move, human to play.
func (g *Game) Reset() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reset()
	return g.st.clone()
}

func (g *Game) reset() {
	g.st = State{
		ID:            g.st.ID,
		Mode:          g.mode,
		Letters:       []string{},
		CurrentPlayer: PlayerComputer,
	}
	g.openingMove()
	g.st.CurrentPlayer = PlayerHuman
}

// ID returns the round identifier.
func (g *Game) ID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.st.ID
}

// Snapshot returns a copy of the current state.
func (g *Game) Snapshot() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.st.clone()
}

// AddLetter appends the human's letter and lets the computer reply.
//
// Validation rules:
//   - Round must not be over.
//   - The human must not owe a word (ErrWordPending). While a computer
//     challenge is outstanding the only accepted move is SubmitWord.
//   - letter must be exactly one ASCII letter after trimming.
func (g *Game) AddLetter(letter string) (State, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkPlayable(); err != nil {
		return g.st.clone(), err
	}
	l := strings.ToUpper(strings.TrimSpace(letter))
	if len(l) != 1 || l[0] < 'A' || l[0] > 'Z' {
		return g.st.clone(), ErrInvalidLetter
	}

	g.st.Letters = append(g.st.Letters, l)
	g.st.CurrentPlayer = PlayerComputer
	g.autoMove()
	return g.st.clone(), nil
}

// Challenge has the human challenge the computer to spell an exact word.
// The round always ends: the computer wins if it finds one.
// It is refused with ErrWordPending while the human owes a word, so a
// computer challenge cannot be answered with a counter-challenge.
func (g *Game) Challenge() (State, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkPlayable(); err != nil {
		return g.st.clone(), err
	}

	g.st.ChallengedPlayer = PlayerComputer
	if w, ok := FindExactWord(g.lex, g.st.Letters); ok {
		g.st.SubmittedWord = w
		g.finish(PlayerComputer)
	} else {
		g.finish(PlayerHuman)
	}
	return g.st.clone(), nil
}

// SubmitWord answers a computer challenge. The human wins iff word is an
// exact word for the pool.
func (g *Game) SubmitWord(word string) (State, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.st.GameOver {
		return g.st.clone(), ErrGameOver
	}
	if g.st.ChallengedPlayer != PlayerHuman || !g.st.WaitingForWord {
		return g.st.clone(), ErrNoChallenge
	}
	w := strings.ToUpper(strings.TrimSpace(word))
	if w == "" || !isUpperAlpha(w) {
		return g.st.clone(), ErrInvalidWord
	}

	g.st.SubmittedWord = w
	g.st.WaitingForWord = false
	if IsExactWord(g.lex, w, g.st.Letters) {
		g.finish(PlayerHuman)
	} else {
		g.finish(PlayerComputer)
	}
	return g.st.clone(), nil
}

func (g *Game) checkPlayable() error {
	if g.st.GameOver {
		return ErrGameOver
	}
	if g.st.WaitingForWord {
		return ErrWordPending
	}
	return nil
}

func (g *Game) finish(winner Player) {
	g.st.GameOver = true
	g.st.Winner = winner
	g.st.WaitingForWord = false
}

// openingMove installs one of the opening words as the initial pool.
func (g *Game) openingMove() {
	word := g.opening
	if word == "" {
		word = Openers[g.rng.Intn(len(Openers))]
	}
	g.st.Opening = word
	g.st.Letters = strings.Split(word, "")
}

// autoMove is the computer's reply to a human letter: challenge with
// probability challengeRate, else add a random A–Z letter.
func (g *Game) autoMove() {
	if g.rng.Float64() < g.challengeRate {
		g.st.ChallengedPlayer = PlayerHuman
		g.st.WaitingForWord = true
		g.st.CurrentPlayer = PlayerHuman
		return
	}
	g.st.Letters = append(g.st.Letters, string(rune('A'+g.rng.Intn(26))))
	g.st.CurrentPlayer = PlayerHuman
}

// isUpperAlpha checks that a string consists only of A–Z.
func isUpperAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
