package maze

import (
	"fmt"
	"strings"
)

// Position is a coordinate in the wall matrix. X is the column, Y the row.
type Position struct {
	X int // Column index
	Y int // Row index
}

// String returns the position as "(x,y)".
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// IsRoom reports whether p addresses a room cell (odd on both axes).
func (p Position) IsRoom() bool {
	return p.X%2 == 1 && p.Y%2 == 1
}

// IsJunction reports whether p addresses a wall junction (even on both axes).
// Junctions are never carved.
func (p Position) IsJunction() bool {
	return p.X%2 == 0 && p.Y%2 == 0
}

// IsSegment reports whether p addresses the wall segment between two rooms.
func (p Position) IsSegment() bool {
	return (p.X+p.Y)%2 == 1
}

// Direction is a single step the agent can take.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

var (
	// Directions lists every direction in the order neighbors are produced.
	Directions = []Direction{Up, Down, Left, Right}

	deltas = map[Direction]Position{
		Up:    {X: 0, Y: -1},
		Down:  {X: 0, Y: 1},
		Left:  {X: -1, Y: 0},
		Right: {X: 1, Y: 0},
	}

	directionNames = map[string]Direction{
		"up":    Up,
		"w":     Up,
		"north": Up,
		"down":  Down,
		"s":     Down,
		"south": Down,
		"left":  Left,
		"a":     Left,
		"west":  Left,
		"right": Right,
		"d":     Right,
		"east":  Right,
	}
)

// ParseDirection maps a direction name (up, down, left, right, their
// compass aliases or the w/s/a/d keys) to a Direction. Case is ignored.
func ParseDirection(s string) (Direction, error) {
	d, ok := directionNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
	return d, nil
}

// Valid reports whether d is one of the four known directions.
func (d Direction) Valid() bool {
	_, ok := deltas[d]
	return ok
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// step returns p moved n cells in direction d.
func (p Position) step(d Direction, n int) Position {
	delta := deltas[d]
	return Position{X: p.X + delta.X*n, Y: p.Y + delta.Y*n}
}

// MoveResult is the outcome of a single move attempt.
type MoveResult int

const (
	// Blocked means the target cell was a wall or outside the grid.
	Blocked MoveResult = iota
	// Moved means the agent stepped onto a path cell other than the goal.
	Moved
	// Arrived means the agent is on the goal.
	Arrived
)

func (r MoveResult) String() string {
	switch r {
	case Blocked:
		return "blocked"
	case Moved:
		return "moved"
	case Arrived:
		return "arrived"
	}
	return fmt.Sprintf("MoveResult(%d)", int(r))
}
