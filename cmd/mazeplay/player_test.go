package main

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/beka-birhanu/maze-runner/game"
	"github.com/beka-birhanu/maze-runner/maze"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cell struct{ x, y int }

// recordingScreen keeps the last rune written to every cell.
type recordingScreen struct {
	tcell.Screen
	cells map[cell]rune
	shown int
}

func newRecordingScreen() *recordingScreen {
	return &recordingScreen{cells: make(map[cell]rune)}
}

func (s *recordingScreen) Clear() { s.cells = make(map[cell]rune) }
func (s *recordingScreen) Show()  { s.shown++ }
func (s *recordingScreen) SetContent(x, y int, mainc rune, _ []rune, _ tcell.Style) {
	s.cells[cell{x, y}] = mainc
}

func (s *recordingScreen) line(y, width int) string {
	var b strings.Builder
	for x := 0; x < width; x++ {
		r, ok := s.cells[cell{x, y}]
		if !ok {
			r = ' '
		}
		b.WriteRune(r)
	}
	return b.String()
}

func newTestPlayer(t *testing.T, rounds int) (*player, *recordingScreen) {
	t.Helper()

	session, err := game.NewSession(game.Config{Rooms: 3, Rounds: rounds, Rand: rand.New(rand.NewSource(7))})
	require.NoError(t, err)

	screen := newRecordingScreen()
	return newPlayer(screen, session, nil), screen
}

// route returns the directions of a shortest walk from the agent to the goal.
func route(g *maze.Grid) []maze.Direction {
	prev := map[maze.Position]maze.Direction{}
	seen := map[maze.Position]bool{g.Agent(): true}
	queue := []maze.Position{g.Agent()}
	offsets := map[maze.Direction]maze.Position{
		maze.Up: {Y: -1}, maze.Down: {Y: 1}, maze.Left: {X: -1}, maze.Right: {X: 1},
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == g.Goal() {
			break
		}
		for _, d := range maze.Directions {
			next := maze.Position{X: cur.X + offsets[d].X, Y: cur.Y + offsets[d].Y}
			if seen[next] || g.IsWall(next) {
				continue
			}
			seen[next] = true
			prev[next] = d
			queue = append(queue, next)
		}
	}

	var path []maze.Direction
	for cur := g.Goal(); cur != g.Agent(); {
		d := prev[cur]
		path = append([]maze.Direction{d}, path...)
		cur = maze.Position{X: cur.X - offsets[d].X, Y: cur.Y - offsets[d].Y}
	}
	return path
}

func keyFor(d maze.Direction) tcell.Key {
	switch d {
	case maze.Up:
		return tcell.KeyUp
	case maze.Down:
		return tcell.KeyDown
	case maze.Left:
		return tcell.KeyLeft
	}
	return tcell.KeyRight
}

func TestKeyDirection(t *testing.T) {
	tests := []struct {
		key  tcell.Key
		r    rune
		want maze.Direction
		ok   bool
	}{
		{tcell.KeyUp, 0, maze.Up, true},
		{tcell.KeyDown, 0, maze.Down, true},
		{tcell.KeyLeft, 0, maze.Left, true},
		{tcell.KeyRight, 0, maze.Right, true},
		{tcell.KeyRune, 'w', maze.Up, true},
		{tcell.KeyRune, 's', maze.Down, true},
		{tcell.KeyRune, 'a', maze.Left, true},
		{tcell.KeyRune, 'd', maze.Right, true},
		{tcell.KeyRune, 'x', 0, false},
		{tcell.KeyTab, 0, 0, false},
	}

	for _, tt := range tests {
		got, ok := keyDirection(tt.key, tt.r)
		assert.Equal(t, tt.ok, ok, "key %v rune %q", tt.key, tt.r)
		if tt.ok {
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestDraw(t *testing.T) {
	p, screen := newTestPlayer(t, 2)
	p.draw()

	grid := p.session.Grid()
	assert.Equal(t, 1, screen.shown)
	assert.Equal(t, '@', screen.cells[cell{grid.Agent().X * cellWidth, grid.Agent().Y}])
	assert.Equal(t, '*', screen.cells[cell{grid.Goal().X * cellWidth, grid.Goal().Y}])
	assert.Equal(t, '█', screen.cells[cell{0, 0}])
	assert.Equal(t, '█', screen.cells[cell{1, 0}])
	assert.Contains(t, screen.line(grid.Size()+1, 60), "round 1/2")
}

func TestHandleKey(t *testing.T) {
	t.Run("quit keys", func(t *testing.T) {
		p, _ := newTestPlayer(t, 1)
		assert.False(t, p.handleKey(tcell.KeyEscape, 0))
		assert.False(t, p.handleKey(tcell.KeyCtrlC, 0))
		assert.False(t, p.handleKey(tcell.KeyRune, 'q'))
	})

	t.Run("plays every round", func(t *testing.T) {
		p, _ := newTestPlayer(t, 2)

		assert.True(t, p.handleKey(tcell.KeyEnter, 0))
		assert.NotEmpty(t, p.notice, "next round refused while playing")

		for round := 1; round <= 2; round++ {
			for _, d := range route(p.session.Grid()) {
				require.True(t, p.handleKey(keyFor(d), 0))
			}
			assert.Equal(t, round, p.won)

			assert.True(t, p.handleKey(tcell.KeyUp, 0))
			assert.NotEmpty(t, p.notice)

			if round < 2 {
				assert.Equal(t, game.StateRoundComplete, p.session.State())
				assert.True(t, p.handleKey(tcell.KeyEnter, 0))
				assert.Equal(t, round+1, p.session.Round())
			}
		}
		assert.Equal(t, game.StateFinished, p.session.State())
	})
}
