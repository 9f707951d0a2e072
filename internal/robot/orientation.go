package robot

import (
	"errors"
	"fmt"
	"strings"
)

// Heading is one facing of the robot and the unit step it takes when moving.
type Heading struct {
	Name   string
	DX, DY int
}

// Orientation indexes a heading inside a Ring.
type Orientation int

// Indexes into Cardinal.
const (
	East Orientation = iota
	North
	West
	South
)

// compass holds the exact deltas for every name RingFromNames understands.
var compass = map[string]Heading{
	"EAST":  {Name: "EAST", DX: 1, DY: 0},
	"NORTH": {Name: "NORTH", DX: 0, DY: 1},
	"WEST":  {Name: "WEST", DX: -1, DY: 0},
	"SOUTH": {Name: "SOUTH", DX: 0, DY: -1},
}

// Cardinal is the default ring: EAST -> NORTH -> WEST -> SOUTH -> EAST.
var Cardinal = mustRing(
	compass["EAST"],
	compass["NORTH"],
	compass["WEST"],
	compass["SOUTH"],
)

// Ring is a fixed circular ordering of headings, listed counterclockwise:
// turning left walks the ring forward, turning right walks it backward. A Ring
// is never mutated after construction, so one value can back any number of
// robots.
type Ring struct {
	headings []Heading
	byName   map[string]Orientation
}

// NewRing builds a ring whose rotation order is the order of headings.
// Successor of the last heading is the first.
func NewRing(headings ...Heading) (*Ring, error) {
	if len(headings) == 0 {
		return nil, errors.New("ring needs at least one heading")
	}
	r := &Ring{
		headings: make([]Heading, len(headings)),
		byName:   make(map[string]Orientation, len(headings)),
	}
	for i, h := range headings {
		if strings.TrimSpace(h.Name) == "" {
			return nil, fmt.Errorf("heading %d has no name", i)
		}
		if _, dup := r.byName[h.Name]; dup {
			return nil, fmt.Errorf("duplicate heading %q", h.Name)
		}
		r.headings[i] = h
		r.byName[h.Name] = Orientation(i)
	}
	return r, nil
}

// RingFromNames builds a ring from compass names in rotation order.
func RingFromNames(names []string) (*Ring, error) {
	headings := make([]Heading, 0, len(names))
	for _, name := range names {
		h, ok := compass[name]
		if !ok {
			return nil, fmt.Errorf("unknown heading %q", name)
		}
		headings = append(headings, h)
	}
	return NewRing(headings...)
}

func mustRing(headings ...Heading) *Ring {
	r, err := NewRing(headings...)
	if err != nil {
		panic(err)
	}
	return r
}

// FromName looks a heading up by its exact, case-sensitive name.
func (r *Ring) FromName(name string) (Orientation, bool) {
	o, ok := r.byName[name]
	return o, ok
}

// Successor is the heading after o, one turn to the left.
func (r *Ring) Successor(o Orientation) Orientation {
	return Orientation((int(o) + 1) % len(r.headings))
}

// Predecessor is the heading before o, one turn to the right.
func (r *Ring) Predecessor(o Orientation) Orientation {
	n := len(r.headings)
	return Orientation((int(o) - 1 + n) % n)
}

// Delta returns the grid step for o.
func (r *Ring) Delta(o Orientation) (dx, dy int) {
	h := r.headings[o]
	return h.DX, h.DY
}

func (r *Ring) Name(o Orientation) string {
	return r.headings[o].Name
}

func (r *Ring) Len() int {
	return len(r.headings)
}

// Names lists the headings in rotation order.
func (r *Ring) Names() []string {
	names := make([]string, len(r.headings))
	for i, h := range r.headings {
		names[i] = h.Name
	}
	return names
}
