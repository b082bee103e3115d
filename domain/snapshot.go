// Package domain holds the entities shared by the services, the storage
// adapters and the HTTP layer.
package domain

import (
	"github.com/beka-birhanu/maze-runner/game"
	"github.com/beka-birhanu/maze-runner/maze"
	"github.com/google/uuid"
)

// Snapshot is a read-only copy of a player's session.
type Snapshot struct {
	ID         uuid.UUID
	PlayerID   uuid.UUID
	Round      int
	Rounds     int
	State      game.State
	Rooms      int
	Moves      int
	TotalMoves int
	Grid       []string // One string per matrix row, '#' wall and '.' path
	Goal       maze.Position
	Agent      maze.Position
}

// NewSnapshot copies the observable state of s.
func NewSnapshot(id, playerID uuid.UUID, s *game.Session) *Snapshot {
	grid := s.Grid()
	return &Snapshot{
		ID:         id,
		PlayerID:   playerID,
		Round:      s.Round(),
		Rounds:     s.Rounds(),
		State:      s.State(),
		Rooms:      s.Rooms(),
		Moves:      s.Moves(),
		TotalMoves: s.TotalMoves(),
		Grid:       grid.Rows(),
		Goal:       grid.Goal(),
		Agent:      grid.Agent(),
	}
}

// LeaderboardEntry is one player's best round for a maze size.
type LeaderboardEntry struct {
	PlayerID uuid.UUID
	Username string
	Moves    int
}
