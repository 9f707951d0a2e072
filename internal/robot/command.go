package robot

import "fmt"

// Kind is one of the five recognized commands.
type Kind int

const (
	KindPlace Kind = iota + 1
	KindMove
	KindLeft
	KindRight
	KindReport
)

var kindNames = map[Kind]string{
	KindPlace:  "PLACE",
	KindMove:   "MOVE",
	KindLeft:   "LEFT",
	KindRight:  "RIGHT",
	KindReport: "REPORT",
}

// ParseKind matches a command keyword exactly; "move" is not MOVE.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Command is a tokenized command. X, Y and Direction are only read for PLACE.
type Command struct {
	Kind      Kind
	X, Y      int
	Direction string
}

func (c Command) String() string {
	if c.Kind == KindPlace {
		return fmt.Sprintf("PLACE %d,%d,%s", c.X, c.Y, c.Direction)
	}
	return c.Kind.String()
}

// Apply runs one command. Only REPORT yields text; a rejected command returns
// an error and leaves the robot untouched.
func (r *Robot) Apply(cmd Command) (string, error) {
	switch cmd.Kind {
	case KindPlace:
		return "", r.Place(cmd.X, cmd.Y, cmd.Direction)
	case KindMove:
		return "", r.Move()
	case KindLeft:
		return "", r.Left()
	case KindRight:
		return "", r.Right()
	case KindReport:
		return r.Report()
	}
	return "", fmt.Errorf("%w: %v", ErrUnknownCommand, cmd.Kind)
}
