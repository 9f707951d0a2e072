package robot

import "fmt"

// DefaultGridSize is the side of the table the robot starts on.
const DefaultGridSize = 5

// Grid is a square table; valid coordinates are [0, size-1] on both axes.
type Grid struct {
	size int
}

func NewGrid(size int) (Grid, error) {
	if size < 1 {
		return Grid{}, fmt.Errorf("grid size must be positive, got %d", size)
	}
	return Grid{size: size}, nil
}

func (g Grid) Size() int {
	return g.size
}

// Contains reports whether (x, y) is on the table.
func (g Grid) Contains(x, y int) bool {
	return x >= 0 && x < g.size && y >= 0 && y < g.size
}
