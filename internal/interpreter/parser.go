package interpreter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"toyrobot/internal/robot"
)

// ErrUnrecognized marks a line that is not one of the five commands or whose
// arguments do not fit the grammar.
var ErrUnrecognized = errors.New("unrecognized command")

// Statement is one command line:
//
//	PLACE x,y,DIRECTION | MOVE | LEFT | RIGHT | REPORT
type Statement struct {
	Pos lexer.Position

	Place  *Place `parser:"  'PLACE' @@"`
	Action string `parser:"| @('MOVE' | 'LEFT' | 'RIGHT' | 'REPORT')"`
}

// Place holds raw PLACE arguments. The direction is not checked here; the
// robot decides whether it knows it.
type Place struct {
	X         string `parser:"@Int ','"`
	Y         string `parser:"@Int ','"`
	Direction string `parser:"@Ident"`
}

var commandLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Int", Pattern: `[-+]?[0-9]+`},
	{Name: "Punct", Pattern: `,`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
})

var parser = participle.MustBuild[Statement](
	participle.Lexer(commandLexer),
	participle.Elide("Whitespace"),
)

// ParseLine parses a single command line.
func ParseLine(text string) (*Statement, error) {
	stmt, err := parser.ParseString("", text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecognized, err)
	}
	return stmt, nil
}

// Command converts the statement into the robot's command form.
func (s *Statement) Command() (robot.Command, error) {
	if s.Place != nil {
		x, err := strconv.Atoi(s.Place.X)
		if err != nil {
			return robot.Command{}, fmt.Errorf("%w: x: %v", ErrUnrecognized, err)
		}
		y, err := strconv.Atoi(s.Place.Y)
		if err != nil {
			return robot.Command{}, fmt.Errorf("%w: y: %v", ErrUnrecognized, err)
		}
		return robot.Command{Kind: robot.KindPlace, X: x, Y: y, Direction: s.Place.Direction}, nil
	}
	kind, ok := robot.ParseKind(s.Action)
	if !ok {
		return robot.Command{}, fmt.Errorf("%w: %q", ErrUnrecognized, s.Action)
	}
	return robot.Command{Kind: kind}, nil
}

// Exec applies the statement to r and returns any report text.
func (s *Statement) Exec(r *robot.Robot) (string, error) {
	cmd, err := s.Command()
	if err != nil {
		return "", err
	}
	return r.Apply(cmd)
}

// Line is one non-blank script line. Exactly one of Stmt and Err is set.
type Line struct {
	Number int
	Text   string
	Stmt   *Statement
	Err    error
}

type Program struct {
	Lines []Line
}

// maxLineLen bounds the lines handed to the grammar. No command comes close.
const maxLineLen = 1024

// Parse splits a script into lines and parses each one. Bad lines, however
// long, are kept with their error so the caller can skip them; only a read
// failure is fatal.
func Parse(r io.Reader) (*Program, error) {
	prog := &Program{}
	br := bufio.NewReader(r)
	number := 0
	for {
		raw, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read script: %w", err)
		}
		if raw != "" {
			number++
			if text := strings.TrimSpace(raw); text != "" {
				prog.Lines = append(prog.Lines, parseLine(number, text))
			}
		}
		if err != nil {
			return prog, nil
		}
	}
}

func parseLine(number int, text string) Line {
	line := Line{Number: number, Text: text}
	if len(text) > maxLineLen {
		line.Text = text[:maxLineLen]
		line.Err = fmt.Errorf("%w: line longer than %d bytes", ErrUnrecognized, maxLineLen)
		return line
	}
	line.Stmt, line.Err = ParseLine(text)
	return line
}
