package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	dmn "github.com/beka-birhanu/maze-runner/domain"
	"github.com/beka-birhanu/maze-runner/game"
	"github.com/beka-birhanu/maze-runner/maze"
	"github.com/beka-birhanu/maze-runner/service/i"
	"github.com/google/uuid"
)

const (
	defaultMaxRooms = 40
	maxLeaderboard  = 100
)

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrNotSessionOwner     = errors.New("session belongs to another player")
	ErrInvalidLeaderboard  = errors.New("invalid leaderboard query")
	ErrMissingSessionMaker = errors.New("session factory is required")
)

type roundSession struct {
	game       *game.Session
	playerID   uuid.UUID
	lastActive time.Time
}

// RoundManager keeps one maze session per player and reports finished
// rounds to the leaderboard and the user store.
type RoundManager struct {
	sessions        map[uuid.UUID]*roundSession
	playerToSession map[uuid.UUID]uuid.UUID
	sessionFactory  func() (*game.Session, error)
	leaderboard     i.Leaderboard
	userRepo        i.UserRepo
	logger          i.Logger
	maxRooms        int
	now             func() time.Time
	sync.RWMutex
}

var _ i.RoundManager = &RoundManager{}

// Config holds the collaborators of a RoundManager.
type Config struct {
	SessionFactory func() (*game.Session, error) // Builds a fresh session, round one generated
	Leaderboard    i.Leaderboard
	UserRepo       i.UserRepo
	Logger         i.Logger
	MaxRooms       int // Largest maze size accepted by Leaderboard queries
}

// NewRoundManager creates a RoundManager from c.
func NewRoundManager(c *Config) (*RoundManager, error) {
	if c.SessionFactory == nil {
		return nil, ErrMissingSessionMaker
	}
	if c.Leaderboard == nil || c.UserRepo == nil || c.Logger == nil {
		return nil, errors.New("round manager needs a leaderboard, a user repo and a logger")
	}

	maxRooms := c.MaxRooms
	if maxRooms < maze.MinRooms {
		maxRooms = defaultMaxRooms
	}

	return &RoundManager{
		sessions:        make(map[uuid.UUID]*roundSession),
		playerToSession: make(map[uuid.UUID]uuid.UUID),
		sessionFactory:  c.SessionFactory,
		leaderboard:     c.Leaderboard,
		userRepo:        c.UserRepo,
		logger:          c.Logger,
		maxRooms:        maxRooms,
		now:             time.Now,
	}, nil
}

// Start opens a new session for the player, dropping any previous one.
func (rm *RoundManager) Start(ctx context.Context, playerID uuid.UUID) (*dmn.Snapshot, error) {
	gs, err := rm.sessionFactory()
	if err != nil {
		rm.logger.Error(fmt.Sprintf("creating session for player %s: %s", playerID, err))
		return nil, err
	}

	rm.Lock()
	defer rm.Unlock()

	if old, ok := rm.playerToSession[playerID]; ok {
		delete(rm.sessions, old)
		rm.logger.Info(fmt.Sprintf("replaced session %s of player %s", old, playerID))
	}

	sessionID := uuid.New()
	for {
		if _, ok := rm.sessions[sessionID]; !ok {
			break
		}
		sessionID = uuid.New()
	}

	rm.sessions[sessionID] = &roundSession{game: gs, playerID: playerID, lastActive: rm.now()}
	rm.playerToSession[playerID] = sessionID

	rm.logger.Info(fmt.Sprintf("started session %s for player %s", sessionID, playerID))
	return dmn.NewSnapshot(sessionID, playerID, gs), nil
}

// Snapshot returns the current state of the player's session.
func (rm *RoundManager) Snapshot(ctx context.Context, playerID, sessionID uuid.UUID) (*dmn.Snapshot, error) {
	rm.RLock()
	defer rm.RUnlock()

	s, err := rm.lookup(playerID, sessionID)
	if err != nil {
		return nil, err
	}
	return dmn.NewSnapshot(sessionID, playerID, s.game), nil
}

// Move walks the agent one cell. A move that reaches the goal is recorded
// on the leaderboard and in the user's completed round count.
func (rm *RoundManager) Move(ctx context.Context, playerID, sessionID uuid.UUID, d maze.Direction) (maze.MoveResult, *dmn.Snapshot, error) {
	rm.Lock()
	s, err := rm.lookup(playerID, sessionID)
	if err != nil {
		rm.Unlock()
		return maze.Blocked, nil, err
	}

	result, err := s.game.Move(d)
	if err != nil {
		rm.Unlock()
		return result, nil, err
	}
	s.lastActive = rm.now()
	snapshot := dmn.NewSnapshot(sessionID, playerID, s.game)
	rm.Unlock()

	if result == maze.Arrived {
		rm.logger.Info(fmt.Sprintf("player %s finished round %d of session %s in %d moves", playerID, snapshot.Round, sessionID, snapshot.Moves))
		rm.recordRound(ctx, playerID, snapshot.Rooms, snapshot.Moves)
	}

	return result, snapshot, nil
}

// NextRound builds the next maze once the current round is complete.
func (rm *RoundManager) NextRound(ctx context.Context, playerID, sessionID uuid.UUID) (*dmn.Snapshot, error) {
	rm.Lock()
	defer rm.Unlock()

	s, err := rm.lookup(playerID, sessionID)
	if err != nil {
		return nil, err
	}

	if err := s.game.NextRound(); err != nil {
		return nil, err
	}
	s.lastActive = rm.now()

	rm.logger.Info(fmt.Sprintf("session %s advanced to round %d", sessionID, s.game.Round()))
	return dmn.NewSnapshot(sessionID, playerID, s.game), nil
}

// End discards the player's session.
func (rm *RoundManager) End(ctx context.Context, playerID, sessionID uuid.UUID) error {
	rm.Lock()
	defer rm.Unlock()

	if _, err := rm.lookup(playerID, sessionID); err != nil {
		return err
	}
	rm.clean(sessionID)
	rm.logger.Info(fmt.Sprintf("ended session %s", sessionID))
	return nil
}

// Leaderboard returns up to n best rounds for mazes with the given rooms.
func (rm *RoundManager) Leaderboard(ctx context.Context, rooms int, n int64) ([]dmn.LeaderboardEntry, error) {
	if rooms < maze.MinRooms || rooms > rm.maxRooms {
		return nil, fmt.Errorf("%w: rooms must be between %d and %d", ErrInvalidLeaderboard, maze.MinRooms, rm.maxRooms)
	}
	if n <= 0 || n > maxLeaderboard {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidLeaderboard, maxLeaderboard)
	}

	entries, err := rm.leaderboard.Top(ctx, rooms, n)
	if err != nil {
		rm.logger.Error(fmt.Sprintf("reading leaderboard for %d rooms: %s", rooms, err))
		return nil, err
	}
	return entries, nil
}

// Sweep drops sessions idle for longer than idle and returns how many.
func (rm *RoundManager) Sweep(idle time.Duration) int {
	rm.Lock()
	defer rm.Unlock()

	cutoff := rm.now().Add(-idle)
	removed := 0
	for id, s := range rm.sessions {
		if s.lastActive.Before(cutoff) {
			rm.clean(id)
			removed++
		}
	}
	if removed > 0 {
		rm.logger.Info(fmt.Sprintf("swept %d idle sessions", removed))
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (rm *RoundManager) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rm.Sweep(idle)
		}
	}
}

// lookup must be called with the lock held.
func (rm *RoundManager) lookup(playerID, sessionID uuid.UUID) (*roundSession, error) {
	s, ok := rm.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.playerID != playerID {
		rm.logger.Warning(fmt.Sprintf("player %s tried to use session %s", playerID, sessionID))
		return nil, ErrNotSessionOwner
	}
	return s, nil
}

// clean must be called with the lock held.
func (rm *RoundManager) clean(sessionID uuid.UUID) {
	if s, ok := rm.sessions[sessionID]; ok {
		if rm.playerToSession[s.playerID] == sessionID {
			delete(rm.playerToSession, s.playerID)
		}
	}
	delete(rm.sessions, sessionID)
}

// recordRound updates the user and the leaderboard. Failures are logged only.
func (rm *RoundManager) recordRound(ctx context.Context, playerID uuid.UUID, rooms, moves int) {
	username := ""
	user, err := rm.userRepo.ByID(playerID)
	if err != nil {
		rm.logger.Warning(fmt.Sprintf("loading user %s after round: %s", playerID, err))
	} else {
		username = user.Username
		user.CompleteRound()
		if err := rm.userRepo.Save(user); err != nil {
			rm.logger.Error(fmt.Sprintf("saving completed round for user %s: %s", playerID, err))
		}
	}

	improved, err := rm.leaderboard.Record(ctx, rooms, playerID, username, moves)
	if err != nil {
		rm.logger.Error(fmt.Sprintf("recording leaderboard entry for player %s: %s", playerID, err))
		return
	}
	if improved {
		rm.logger.Info(fmt.Sprintf("new best of %d moves for player %s on %d rooms", moves, playerID, rooms))
	}
}
