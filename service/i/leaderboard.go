package i

import (
	"context"

	dmn "github.com/beka-birhanu/maze-runner/domain"
	"github.com/google/uuid"
)

// Leaderboard keeps the fewest moves each player needed to finish a round,
// grouped by maze size.
type Leaderboard interface {
	// Record stores moves for the player if it beats their previous best.
	// It reports whether the stored best changed.
	Record(ctx context.Context, rooms int, playerID uuid.UUID, username string, moves int) (bool, error)

	// Top returns up to n entries ordered by fewest moves.
	Top(ctx context.Context, rooms int, n int64) ([]dmn.LeaderboardEntry, error)
}
