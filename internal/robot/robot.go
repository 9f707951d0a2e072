package robot

import "fmt"

// State is a snapshot of the robot. X, Y and Facing mean nothing until Placed.
type State struct {
	X, Y   int
	Facing Orientation
	Placed bool
}

// Robot represents the robot on a square table.
//
// A Robot is not safe for concurrent use; callers serialize commands.
type Robot struct {
	grid   Grid
	ring   *Ring
	x, y   int
	facing Orientation
	placed bool
}

// New returns an unplaced robot. A nil ring means Cardinal.
func New(grid Grid, ring *Ring) *Robot {
	if ring == nil {
		ring = Cardinal
	}
	return &Robot{grid: grid, ring: ring}
}

// Place puts the robot at (x, y) facing direction. The direction is checked
// before the position; on any failure the robot is left as it was.
func (r *Robot) Place(x, y int, direction string) error {
	facing, ok := r.ring.FromName(direction)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidDirection, direction)
	}
	if !r.grid.Contains(x, y) {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, x, y)
	}
	r.x, r.y, r.facing, r.placed = x, y, facing, true
	return nil
}

// Move steps one unit forward. A step off the table is refused, not clamped.
func (r *Robot) Move() error {
	if !r.placed {
		return ErrNotPlaced
	}
	dx, dy := r.ring.Delta(r.facing)
	nx, ny := r.x+dx, r.y+dy
	if !r.grid.Contains(nx, ny) {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, nx, ny)
	}
	r.x, r.y = nx, ny
	return nil
}

// Left turns a quarter counterclockwise: EAST becomes NORTH.
func (r *Robot) Left() error {
	if !r.placed {
		return ErrNotPlaced
	}
	r.facing = r.ring.Successor(r.facing)
	return nil
}

// Right turns a quarter clockwise: EAST becomes SOUTH.
func (r *Robot) Right() error {
	if !r.placed {
		return ErrNotPlaced
	}
	r.facing = r.ring.Predecessor(r.facing)
	return nil
}

// Report formats the position as "x,y,FACING".
func (r *Robot) Report() (string, error) {
	if !r.placed {
		return "", ErrNotPlaced
	}
	return fmt.Sprintf("%d,%d,%s", r.x, r.y, r.ring.Name(r.facing)), nil
}

func (r *Robot) State() State {
	return State{X: r.x, Y: r.y, Facing: r.facing, Placed: r.placed}
}

func (r *Robot) Placed() bool {
	return r.placed
}

func (r *Robot) Grid() Grid {
	return r.grid
}

func (r *Robot) Ring() *Ring {
	return r.ring
}

func (r *Robot) String() string {
	if !r.placed {
		return "(unplaced)"
	}
	return fmt.Sprintf("(%d,%d,%s)", r.x, r.y, r.ring.Name(r.facing))
}
