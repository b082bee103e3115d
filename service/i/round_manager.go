package i

import (
	"context"

	dmn "github.com/beka-birhanu/maze-runner/domain"
	"github.com/beka-birhanu/maze-runner/maze"
	"github.com/google/uuid"
)

// RoundManager owns the maze sessions of all signed-in players.
type RoundManager interface {
	// Start opens a new session for the player, replacing any previous one.
	Start(ctx context.Context, playerID uuid.UUID) (*dmn.Snapshot, error)

	// Snapshot returns the current state of a session.
	Snapshot(ctx context.Context, playerID, sessionID uuid.UUID) (*dmn.Snapshot, error)

	// Move walks the player's agent one cell.
	Move(ctx context.Context, playerID, sessionID uuid.UUID, d maze.Direction) (maze.MoveResult, *dmn.Snapshot, error)

	// NextRound acknowledges a completed round and builds the next maze.
	NextRound(ctx context.Context, playerID, sessionID uuid.UUID) (*dmn.Snapshot, error)

	// End discards a session.
	End(ctx context.Context, playerID, sessionID uuid.UUID) error

	// Leaderboard returns the best rounds for the given maze size.
	Leaderboard(ctx context.Context, rooms int, n int64) ([]dmn.LeaderboardEntry, error)
}
