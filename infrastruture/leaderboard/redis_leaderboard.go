package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	dmn "github.com/beka-birhanu/maze-runner/domain"
	"github.com/beka-birhanu/maze-runner/service/i"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultPrefix  = "maze"
	boardKeyFmt    = "%s:leaderboard:rooms_%d"
	namesKeyFmt    = "%s:leaderboard:names"
	recordLockSufx = ":record_lock"
	unlockTimeout  = 2 * time.Second
)

var _ i.Leaderboard = &RedisLeaderboard{}

// RedisLeaderboard keeps each player's fewest moves per maze size in a
// sorted set. Boards expire ttl after their first record.
type RedisLeaderboard struct {
	client *redis.Client
	locker *redsync.Redsync
	prefix string
	ttl    time.Duration
}

// NewRedisLeaderboard initializes a RedisLeaderboard with the provided Redis client and TTL.
func NewRedisLeaderboard(client *redis.Client, prefix string, ttlSeconds int) (*RedisLeaderboard, error) {
	if client == nil {
		return nil, errors.New("redis client is nil")
	}
	if prefix == "" {
		prefix = defaultPrefix
	}

	board := &RedisLeaderboard{
		client: client,
		prefix: prefix,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}
	pool := goredis.NewPool(client)
	board.locker = redsync.New(pool)
	return board, nil
}

// Record stores moves if it beats the player's best on this board.
func (rl *RedisLeaderboard) Record(ctx context.Context, rooms int, playerID uuid.UUID, username string, moves int) (bool, error) {
	key := rl.boardKey(rooms)
	member := playerID.String()

	mutex := rl.locker.NewMutex(key + recordLockSufx + ":" + member)
	if err := mutex.LockContext(ctx); err != nil {
		return false, fmt.Errorf("obtaining record lock: %w", err)
	}
	defer rl.unlock(mutex)

	best, err := rl.client.ZScore(ctx, key, member).Result()
	switch {
	case errors.Is(err, redis.Nil):
	case err != nil:
		return false, err
	case int(best) <= moves:
		return false, nil
	}

	if _, err := rl.client.ZAdd(ctx, key, redis.Z{Score: float64(moves), Member: member}).Result(); err != nil {
		return false, err
	}

	if username != "" {
		if err := rl.client.HSet(ctx, rl.namesKey(), member, username).Err(); err != nil {
			return false, err
		}
	}

	// Set expiration only if it's not already set
	ttl, err := rl.client.TTL(ctx, key).Result()
	if err == nil && ttl == -1 && rl.ttl > 0 {
		_ = rl.client.Expire(ctx, key, rl.ttl).Err()
	}

	return true, nil
}

// Top returns up to n entries with the fewest moves first.
func (rl *RedisLeaderboard) Top(ctx context.Context, rooms int, n int64) ([]dmn.LeaderboardEntry, error) {
	if n <= 0 {
		return nil, nil
	}

	members, err := rl.client.ZRangeWithScores(ctx, rl.boardKey(rooms), 0, n-1).Result()
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, fmt.Sprint(m.Member))
	}

	names, err := rl.client.HMGet(ctx, rl.namesKey(), ids...).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]dmn.LeaderboardEntry, 0, len(members))
	for idx, m := range members {
		id, err := uuid.Parse(ids[idx])
		if err != nil {
			continue
		}
		username, _ := names[idx].(string)
		entries = append(entries, dmn.LeaderboardEntry{
			PlayerID: id,
			Username: username,
			Moves:    int(m.Score),
		})
	}
	return entries, nil
}

// unlock releases m even when the caller's context is already done.
func (rl *RedisLeaderboard) unlock(m *redsync.Mutex) bool {
	ctx, cancel := context.WithTimeout(context.Background(), unlockTimeout)
	defer cancel()

	ok, _ := m.UnlockContext(ctx)
	return ok
}

func (rl *RedisLeaderboard) boardKey(rooms int) string {
	return fmt.Sprintf(boardKeyFmt, rl.prefix, rooms)
}

func (rl *RedisLeaderboard) namesKey() string {
	return fmt.Sprintf(namesKeyFmt, rl.prefix)
}
