/*
Package maze provides a square wall-matrix maze and a single agent that walks it.

A Grid built for R rooms per side is a (2R+1)x(2R+1) matrix of walls. Rooms
sit at odd coordinates, wall junctions at even coordinates and the cells
between two rooms are wall segments. Generation carves a spanning tree over
the rooms with a randomized depth-first walk, opens a few extra segments to
add loops and then places a goal and an agent on two distinct rooms.

After generation the matrix is read-only; the agent moves one matrix cell at a
time and can only enter path cells.
*/
package maze

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Cell values of the wall matrix.
const (
	Wall = true
	Path = false
)

const (
	// MinRooms is the smallest rooms-per-side value that can hold a goal and
	// a distinct agent.
	MinRooms = 2

	// DefaultExtraWalls is how many closed segments Generate opens after the
	// spanning tree is carved.
	DefaultExtraWalls = 4
)

var (
	ErrInvalidRooms      = errors.New("invalid rooms count")
	ErrInvalidExtraWalls = errors.New("invalid extra walls count")
	ErrNotGenerated      = errors.New("maze is not generated")
	ErrAlreadyGenerated  = errors.New("maze is already generated")
	ErrAlreadyCarved     = errors.New("maze is already carved")
	ErrNotRoom           = errors.New("position is not a room cell")
	ErrNotNeighbors      = errors.New("cells are not neighbors")
	ErrInvalidDirection  = errors.New("invalid direction")
)

// Randomizer is the single source of randomness used by a Grid.
// *rand.Rand satisfies it.
type Randomizer interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// Option configures a Grid at construction.
type Option func(*Grid)

// WithRand makes the grid draw every random choice from r.
func WithRand(r Randomizer) Option {
	return func(g *Grid) {
		g.rng = r
	}
}

// WithSeed makes generation deterministic for the given seed.
func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

// WithExtraWalls sets how many extra segments Generate opens.
func WithExtraWalls(n int) Option {
	return func(g *Grid) {
		g.extraCount = n
	}
}

// Grid is a maze wall matrix together with its goal and agent.
// A Grid is owned by one caller and is not safe for concurrent use.
type Grid struct {
	rooms       int
	walls       [][]bool              // walls[y][x], true is a wall
	visited     map[Position]struct{} // rooms reached by the carve
	extraWalls  []Position            // closed segments still eligible for extra removal
	extraCount  int
	extraOpened int
	goal        Position
	agent       Position
	carved      bool
	generated   bool
	rng         Randomizer
}

// carveFrame is one level of the depth-first walk.
type carveFrame struct {
	cell      Position
	neighbors []Position
	next      int
}

// New returns an all-wall grid with the given number of rooms per side.
// Nothing is carved until Carve or Generate is called.
func New(rooms int, opts ...Option) (*Grid, error) {
	if rooms < MinRooms {
		return nil, fmt.Errorf("%w: %d, need at least %d", ErrInvalidRooms, rooms, MinRooms)
	}

	size := 2*rooms + 1
	walls := make([][]bool, size)
	for y := range walls {
		walls[y] = make([]bool, size)
		for x := range walls[y] {
			walls[y][x] = Wall
		}
	}

	g := &Grid{
		rooms:      rooms,
		walls:      walls,
		visited:    make(map[Position]struct{}),
		extraCount: DefaultExtraWalls,
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.extraCount < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidExtraWalls, g.extraCount)
	}

	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return g, nil
}

// Rooms returns the number of rooms per side.
func (g *Grid) Rooms() int {
	return g.rooms
}

// Size returns the side length of the wall matrix.
func (g *Grid) Size() int {
	return len(g.walls)
}

// InBound reports whether p lies inside the wall matrix.
func (g *Grid) InBound(p Position) bool {
	size := len(g.walls)
	return p.X >= 0 && p.X < size && p.Y >= 0 && p.Y < size
}

// IsWall reports whether p is a wall. Positions outside the matrix are walls.
func (g *Grid) IsWall(p Position) bool {
	if !g.InBound(p) {
		return Wall
	}
	return g.walls[p.Y][p.X]
}

// Walls returns a copy of the wall matrix indexed as [y][x].
func (g *Grid) Walls() [][]bool {
	out := make([][]bool, len(g.walls))
	for y, row := range g.walls {
		out[y] = append([]bool(nil), row...)
	}
	return out
}

// Neighbors returns the cells two steps away from p in each direction that
// are inside the matrix, in up, down, left, right order.
func (g *Grid) Neighbors(p Position) []Position {
	result := make([]Position, 0, len(Directions))
	for _, d := range Directions {
		if n := p.step(d, 2); g.InBound(n) {
			result = append(result, n)
		}
	}
	return result
}

// RemoveWall opens the segment between rooms a and b and marks b as path.
// a and b must be rooms two cells apart on one axis. Removing an open wall
// is a no-op.
func (g *Grid) RemoveWall(a, b Position) error {
	if !g.isRoom(a) || !g.isRoom(b) {
		return fmt.Errorf("%w: %s and %s must both be rooms", ErrNotNeighbors, a, b)
	}

	dx, dy := b.X-a.X, b.Y-a.Y
	if !(abs(dx) == 2 && dy == 0) && !(dx == 0 && abs(dy) == 2) {
		return fmt.Errorf("%w: %s and %s", ErrNotNeighbors, a, b)
	}

	segment := Position{X: a.X + dx/2, Y: a.Y + dy/2}
	g.walls[segment.Y][segment.X] = Path
	g.walls[b.Y][b.X] = Path
	return nil
}

// Carve runs the randomized depth-first walk from start, opening one wall
// per newly reached room. The result is a spanning tree over every room.
func (g *Grid) Carve(start Position) error {
	if g.carved {
		return ErrAlreadyCarved
	}
	if !g.isRoom(start) {
		return fmt.Errorf("%w: %s", ErrNotRoom, start)
	}

	g.carved = true
	g.walls[start.Y][start.X] = Path
	g.visited[start] = struct{}{}

	stack := []carveFrame{g.newFrame(start)}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == len(top.neighbors) {
			stack = stack[:len(stack)-1]
			continue
		}

		cell, next := top.cell, top.neighbors[top.next]
		top.next++
		if _, seen := g.visited[next]; seen {
			continue
		}

		if err := g.RemoveWall(cell, next); err != nil {
			return err
		}
		g.visited[next] = struct{}{}
		stack = append(stack, g.newFrame(next))
	}

	return nil
}

// Generate carves the maze from a random room (unless Carve was already
// called), opens up to the configured number of extra walls and places the
// goal and the agent on two distinct rooms. It may be called once.
func (g *Grid) Generate() error {
	if g.generated {
		return ErrAlreadyGenerated
	}

	if !g.carved {
		if err := g.Carve(g.randomRoom()); err != nil {
			return err
		}
	}

	g.collectExtraWalls()
	if err := g.removeExtraWalls(); err != nil {
		return err
	}

	g.goal = g.randomRoom()
	for {
		agent := g.randomRoom()
		if agent != g.goal {
			g.agent = agent
			break
		}
	}

	g.generated = true
	return nil
}

// Generated reports whether Generate has completed.
func (g *Grid) Generated() bool {
	return g.generated
}

// Carved returns the number of rooms reached by the carve.
func (g *Grid) Carved() int {
	return len(g.visited)
}

// ExtraWallsOpened returns how many extra segments Generate opened.
func (g *Grid) ExtraWallsOpened() int {
	return g.extraOpened
}

// ExtraWallsLeft returns how many closed segments were not picked for
// extra removal.
func (g *Grid) ExtraWallsLeft() int {
	return len(g.extraWalls)
}

// Goal returns the goal room.
func (g *Grid) Goal() Position {
	return g.goal
}

// Agent returns the agent position.
func (g *Grid) Agent() Position {
	return g.agent
}

// Arrived reports whether the agent stands on the goal.
func (g *Grid) Arrived() bool {
	return g.generated && g.agent == g.goal
}

// Move steps the agent one cell in direction d if that cell is an in-bound
// path. An arrived agent stays on the goal.
func (g *Grid) Move(d Direction) (MoveResult, error) {
	if !g.generated {
		return Blocked, ErrNotGenerated
	}
	if !d.Valid() {
		return Blocked, fmt.Errorf("%w: %s", ErrInvalidDirection, d)
	}
	if g.agent == g.goal {
		return Arrived, nil
	}

	next := g.agent.step(d, 1)
	if g.IsWall(next) {
		return Blocked, nil
	}

	g.agent = next
	if g.agent == g.goal {
		return Arrived, nil
	}
	return Moved, nil
}

// Rows renders the matrix one string per row: '#' for walls, '.' for paths.
func (g *Grid) Rows() []string {
	rows := make([]string, len(g.walls))
	for y, row := range g.walls {
		var b strings.Builder
		b.Grow(len(row))
		for _, wall := range row {
			if wall {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		rows[y] = b.String()
	}
	return rows
}

// String renders the maze with 'G' on the goal and 'A' on the agent.
func (g *Grid) String() string {
	var output strings.Builder
	for y, row := range g.Rows() {
		line := []byte(row)
		if g.generated {
			if g.goal.Y == y {
				line[g.goal.X] = 'G'
			}
			if g.agent.Y == y {
				line[g.agent.X] = 'A'
			}
		}
		output.Write(line)
		output.WriteByte('\n')
	}
	return output.String()
}

func (g *Grid) isRoom(p Position) bool {
	return g.InBound(p) && p.IsRoom()
}

func (g *Grid) newFrame(cell Position) carveFrame {
	neighbors := g.Neighbors(cell)
	g.rng.Shuffle(len(neighbors), func(i, j int) {
		neighbors[i], neighbors[j] = neighbors[j], neighbors[i]
	})
	return carveFrame{cell: cell, neighbors: neighbors}
}

// randomRoom picks a room uniformly.
func (g *Grid) randomRoom() Position {
	return Position{
		X: 2*g.rng.Intn(g.rooms) + 1,
		Y: 2*g.rng.Intn(g.rooms) + 1,
	}
}

// collectExtraWalls gathers every segment between two rooms that is still
// closed, in row-major order.
func (g *Grid) collectExtraWalls() {
	g.extraWalls = g.extraWalls[:0]
	size := len(g.walls)
	for y := 1; y < size-1; y++ {
		for x := 1; x < size-1; x++ {
			p := Position{X: x, Y: y}
			if p.IsSegment() && g.walls[y][x] == Wall {
				g.extraWalls = append(g.extraWalls, p)
			}
		}
	}
}

// removeExtraWalls opens up to extraCount segments picked without
// replacement.
func (g *Grid) removeExtraWalls() error {
	for i := 0; i < g.extraCount && len(g.extraWalls) > 0; i++ {
		idx := g.rng.Intn(len(g.extraWalls))
		segment := g.extraWalls[idx]
		last := len(g.extraWalls) - 1
		g.extraWalls[idx] = g.extraWalls[last]
		g.extraWalls = g.extraWalls[:last]

		a, b := segmentRooms(segment)
		if err := g.RemoveWall(a, b); err != nil {
			return err
		}
		g.extraOpened++
	}
	return nil
}

// segmentRooms returns the two rooms a segment separates.
func segmentRooms(p Position) (Position, Position) {
	if p.X%2 == 1 {
		return Position{X: p.X, Y: p.Y - 1}, Position{X: p.X, Y: p.Y + 1}
	}
	return Position{X: p.X - 1, Y: p.Y}, Position{X: p.X + 1, Y: p.Y}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
