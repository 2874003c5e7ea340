package grid

import (
	"fmt"
	"strings"
)

// Direction is one of the four wind directions.
type Direction int

const (
	North Direction = iota
	South
	East
	West
)

var directionNames = map[Direction]string{
	North: "NORTH",
	South: "SOUTH",
	East:  "EAST",
	West:  "WEST",
}

var directionOffsets = map[Direction]Coord{
	North: {X: 0, Y: 1},
	South: {X: 0, Y: -1},
	East:  {X: 1, Y: 0},
	West:  {X: -1, Y: 0},
}

func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return fmt.Sprintf("DIRECTION_%d", int(d))
}

// Offset returns the unit vector the wind blows towards.
func (d Direction) Offset() Coord {
	return directionOffsets[d]
}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	_, ok := directionNames[d]
	return ok
}

// MarshalText encodes the direction by name.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a direction name.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDirection accepts a direction name or its initial, case-insensitive.
func ParseDirection(s string) (Direction, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for d, name := range directionNames {
		if s == name || (len(s) == 1 && s[0] == name[0]) {
			return d, nil
		}
	}
	return North, fmt.Errorf("unknown direction %q", s)
}
