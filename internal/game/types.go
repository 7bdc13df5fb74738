// internal/game/types.go
//
// Core type definitions for the letter-duel engine.
// Defines:
//   - Player: who acts (human or computer).
//   - State:  the snapshot of a single round handed to callers.

package game

// Player identifies one side of a round. The zero value means "nobody".
type Player string

const (
	PlayerNone     Player = ""
	PlayerHuman    Player = "human"
	PlayerComputer Player = "computer"
)

// Mode tags how a round was started.
type Mode string

const (
	ModeClassic Mode = "classic"
	ModeDaily   Mode = "daily"
)

// State holds the observable state of one round.
//
// Invariants kept by Game:
//   - Winner != PlayerNone iff GameOver.
//   - Letters never change once GameOver.
//   - WaitingForWord only while ChallengedPlayer == PlayerHuman and !GameOver.
type State struct {
	ID               string   `json:"id"`
	Mode             Mode     `json:"mode"`
	Opening          string   `json:"opening"`          // computer's opening word
	Letters          []string `json:"letters"`          // shared pool, single uppercase letters
	CurrentPlayer    Player   `json:"currentPlayer"`
	GameOver         bool     `json:"gameOver"`
	Winner           Player   `json:"winner,omitempty"`
	ChallengedPlayer Player   `json:"challengedPlayer,omitempty"` // who must produce a word
	SubmittedWord    string   `json:"submittedWord,omitempty"`
	WaitingForWord   bool     `json:"waitingForWord"`
}

// Status reports a coarse string for persistence: "playing", "won" or "lost",
// from the human's point of view.
func (s State) Status() string {
	if !s.GameOver {
		return "playing"
	}
	if s.Winner == PlayerHuman {
		return "won"
	}
	return "lost"
}

// clone returns a deep copy of s.
func (s State) clone() State {
	s.Letters = append([]string{}, s.Letters...)
	return s
}
