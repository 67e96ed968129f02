package grid

import (
	"fmt"
	"strings"
)

// Direction is a one-step cursor movement.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
	// Tab moves right like Right and stops at the last column; it never wraps
	// to the next row.
	Tab
)

var directionNames = map[Direction]string{
	Up:    "up",
	Down:  "down",
	Left:  "left",
	Right: "right",
	Tab:   "tab",
}

func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// ParseDirection parses the lower-case name of a direction.
func ParseDirection(s string) (Direction, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for d, name := range directionNames {
		if name == want {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q (expected up, down, left, right or tab)", s)
}

// step returns c moved one cell in direction d, clamped to a grid of the
// given size.
func (d Direction) step(c Coord, rows, cols int) Coord {
	switch d {
	case Up:
		c.Row--
	case Down:
		c.Row++
	case Left:
		c.Col--
	case Right, Tab:
		c.Col++
	}
	c.Row = clamp(c.Row, 0, rows-1)
	c.Col = clamp(c.Col, 0, cols-1)
	return c
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
