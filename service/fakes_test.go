package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	dmn "github.com/beka-birhanu/maze-runner/domain"
	"github.com/beka-birhanu/maze-runner/maze"
	"github.com/google/uuid"
)

type fakeLogger struct {
	sync.Mutex
	lines []string
}

func (l *fakeLogger) Info(msg string)    { l.add("INFO", msg) }
func (l *fakeLogger) Warning(msg string) { l.add("WARNING", msg) }
func (l *fakeLogger) Error(msg string)   { l.add("ERROR", msg) }

func (l *fakeLogger) add(level, msg string) {
	l.Lock()
	defer l.Unlock()
	l.lines = append(l.lines, level+" "+msg)
}

type fakeUserRepo struct {
	users   map[uuid.UUID]*dmn.User
	saveErr error
	findErr error
	saves   int
}

func newFakeUserRepo(users ...*dmn.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]*dmn.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Save(user *dmn.User) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) ByID(id uuid.UUID) (*dmn.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, dmn.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) ByUsername(username string) (*dmn.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, dmn.ErrUserNotFound
}

type fakeTokenizer struct {
	err error
}

func (t *fakeTokenizer) Generate(claims map[string]interface{}, expTime time.Duration) (string, error) {
	if t.err != nil {
		return "", t.err
	}
	return fmt.Sprintf("token-%v", claims["username"]), nil
}

func (t *fakeTokenizer) Decode(token string) (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

type fakeLeaderboard struct {
	sync.Mutex
	best      map[int]map[uuid.UUID]dmn.LeaderboardEntry
	recordErr error
	records   int
}

func newFakeLeaderboard() *fakeLeaderboard {
	return &fakeLeaderboard{best: make(map[int]map[uuid.UUID]dmn.LeaderboardEntry)}
}

func (l *fakeLeaderboard) Record(ctx context.Context, rooms int, playerID uuid.UUID, username string, moves int) (bool, error) {
	l.Lock()
	defer l.Unlock()
	if l.recordErr != nil {
		return false, l.recordErr
	}
	l.records++
	board, ok := l.best[rooms]
	if !ok {
		board = make(map[uuid.UUID]dmn.LeaderboardEntry)
		l.best[rooms] = board
	}
	if prev, ok := board[playerID]; ok && prev.Moves <= moves {
		return false, nil
	}
	board[playerID] = dmn.LeaderboardEntry{PlayerID: playerID, Username: username, Moves: moves}
	return true, nil
}

func (l *fakeLeaderboard) Top(ctx context.Context, rooms int, n int64) ([]dmn.LeaderboardEntry, error) {
	l.Lock()
	defer l.Unlock()
	var entries []dmn.LeaderboardEntry
	for _, e := range l.best[rooms] {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(a, b int) bool { return entries[a].Moves < entries[b].Moves })
	if int64(len(entries)) > n {
		entries = entries[:n]
	}
	return entries, nil
}

var offsets = map[maze.Direction]maze.Position{
	maze.Up:    {X: 0, Y: -1},
	maze.Down:  {X: 0, Y: 1},
	maze.Left:  {X: -1, Y: 0},
	maze.Right: {X: 1, Y: 0},
}

// solveSnapshot finds the moves from the agent to the goal on a snapshot grid.
func solveSnapshot(s *dmn.Snapshot) []maze.Direction {
	isWall := func(p maze.Position) bool {
		if p.Y < 0 || p.Y >= len(s.Grid) || p.X < 0 || p.X >= len(s.Grid[p.Y]) {
			return true
		}
		return s.Grid[p.Y][p.X] == '#'
	}

	via := map[maze.Position]maze.Direction{}
	prev := map[maze.Position]maze.Position{}
	seen := map[maze.Position]bool{s.Agent: true}
	queue := []maze.Position{s.Agent}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range maze.Directions {
			next := maze.Position{X: cur.X + offsets[d].X, Y: cur.Y + offsets[d].Y}
			if seen[next] || isWall(next) {
				continue
			}
			seen[next] = true
			via[next] = d
			prev[next] = cur
			queue = append(queue, next)
		}
	}

	var path []maze.Direction
	for cur := s.Goal; cur != s.Agent; cur = prev[cur] {
		path = append([]maze.Direction{via[cur]}, path...)
	}
	return path
}
