package sim

import (
	"bufio"
	"io"

	"toyrobot/internal/robot"
)

// Draw renders the table with the robot on it, north at the top. The robot is
// shown as an arrow pointing where it faces.
func Draw(w io.Writer, r *robot.Robot) error {
	bw := bufio.NewWriter(w)
	size := r.Grid().Size()
	state := r.State()
	glyph := facingGlyph(r.Ring(), state.Facing)

	for y := size - 1; y >= 0; y-- {
		for x := 0; x < size; x++ {
			if x > 0 {
				bw.WriteByte(' ')
			}
			if state.Placed && state.X == x && state.Y == y {
				bw.WriteByte(glyph)
			} else {
				bw.WriteByte('.')
			}
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func facingGlyph(ring *robot.Ring, o robot.Orientation) byte {
	dx, dy := ring.Delta(o)
	switch {
	case dx > 0:
		return '>'
	case dx < 0:
		return '<'
	case dy > 0:
		return '^'
	case dy < 0:
		return 'v'
	}
	return 'R'
}
