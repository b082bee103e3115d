// Package game runs a multi-round maze session for one player.
//
// A session owns one maze.Grid per round. When the agent reaches the goal the
// session waits for the host to acknowledge the round before building the
// next grid, so a host can pause between rounds however it likes.
package game

import (
	"errors"
	"fmt"

	"github.com/beka-birhanu/maze-runner/maze"
)

// Session errors.
var (
	ErrInvalidRounds   = errors.New("invalid rounds count")
	ErrRoundComplete   = errors.New("round is complete, start the next round")
	ErrRoundInProgress = errors.New("round is still in progress")
	ErrSessionFinished = errors.New("session is finished")
)

// Session defaults.
const (
	DefaultRooms  = 8
	DefaultRounds = 10
)

// State is the lifecycle stage of a session.
type State int

const (
	StatePlaying       State = iota // Agent is walking the current grid.
	StateRoundComplete              // Agent arrived, waiting for NextRound.
	StateFinished                   // Last round completed.
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateRoundComplete:
		return "round_complete"
	case StateFinished:
		return "finished"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Config holds the parameters shared by every round of a session.
type Config struct {
	Rooms      int             // Rooms per side, DefaultRooms when zero
	Rounds     int             // Rounds to play, DefaultRounds when zero
	ExtraWalls int             // Extra walls opened per grid, zero keeps every grid a perfect maze
	Rand       maze.Randomizer // Optional; a time-seeded source per grid when nil
}

// Session tracks rounds, move counts and the current grid.
// It is not safe for concurrent use.
type Session struct {
	cfg        Config
	grid       *maze.Grid
	round      int
	state      State
	moves      int
	totalMoves int
}

// NewSession validates cfg and generates the first round.
func NewSession(cfg Config) (*Session, error) {
	if cfg.Rooms == 0 {
		cfg.Rooms = DefaultRooms
	}
	if cfg.Rounds == 0 {
		cfg.Rounds = DefaultRounds
	}
	if cfg.Rounds < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRounds, cfg.Rounds)
	}

	s := &Session{cfg: cfg}
	if err := s.startRound(); err != nil {
		return nil, err
	}
	return s, nil
}

// Move forwards one step to the current grid. Accepted steps are counted.
func (s *Session) Move(d maze.Direction) (maze.MoveResult, error) {
	switch s.state {
	case StateRoundComplete:
		return maze.Arrived, ErrRoundComplete
	case StateFinished:
		return maze.Arrived, ErrSessionFinished
	}

	result, err := s.grid.Move(d)
	if err != nil {
		return result, err
	}

	if result != maze.Blocked {
		s.moves++
		s.totalMoves++
	}

	if result == maze.Arrived {
		if s.round == s.cfg.Rounds {
			s.state = StateFinished
		} else {
			s.state = StateRoundComplete
		}
	}
	return result, nil
}

// NextRound acknowledges a completed round and generates a fresh grid.
func (s *Session) NextRound() error {
	switch s.state {
	case StatePlaying:
		return ErrRoundInProgress
	case StateFinished:
		return ErrSessionFinished
	}
	return s.startRound()
}

func (s *Session) startRound() error {
	opts := []maze.Option{maze.WithExtraWalls(s.cfg.ExtraWalls)}
	if s.cfg.Rand != nil {
		opts = append(opts, maze.WithRand(s.cfg.Rand))
	}

	grid, err := maze.New(s.cfg.Rooms, opts...)
	if err != nil {
		return err
	}
	if err := grid.Generate(); err != nil {
		return err
	}

	s.grid = grid
	s.round++
	s.moves = 0
	s.state = StatePlaying
	return nil
}

// Grid returns the grid of the current round.
func (s *Session) Grid() *maze.Grid {
	return s.grid
}

// Round returns the 1-based index of the current round.
func (s *Session) Round() int {
	return s.round
}

// Rounds returns how many rounds the session plays.
func (s *Session) Rounds() int {
	return s.cfg.Rounds
}

// Rooms returns the rooms per side of every grid in the session.
func (s *Session) Rooms() int {
	return s.cfg.Rooms
}

// Moves returns the accepted steps in the current round.
func (s *Session) Moves() int {
	return s.moves
}

// TotalMoves returns the accepted steps across all rounds.
func (s *Session) TotalMoves() int {
	return s.totalMoves
}

// State returns the lifecycle stage.
func (s *Session) State() State {
	return s.state
}
