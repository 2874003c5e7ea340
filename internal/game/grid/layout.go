package grid

import (
	"fmt"
	"math"
	"strings"
)

// Source enumerates the playable tiles of a board shape.
type Source interface {
	Tiles() []Tile
	Center() Coord
}

// Shape selects the mask applied to the board's bounding box.
type Shape string

const (
	ShapeSquare Shape = "square"
	ShapeCircle Shape = "circle"
)

// ParseShape parses a shape name.
func ParseShape(s string) (Shape, error) {
	switch Shape(strings.ToLower(strings.TrimSpace(s))) {
	case ShapeSquare:
		return ShapeSquare, nil
	case ShapeCircle:
		return ShapeCircle, nil
	default:
		return "", fmt.Errorf("unknown board shape %q", s)
	}
}

// Layout generates square or circular boards.
type Layout struct {
	Shape  Shape
	Width  int
	Height int
	// Radius of a circular board in tiles; 0 derives it from Width and Height.
	Radius float64
}

// Tiles returns the layout's tiles numbered row by row.
func (l Layout) Tiles() []Tile {
	switch l.Shape {
	case ShapeCircle:
		return Enumerate(CircleCoords(l.radius()))
	default:
		return Enumerate(SquareCoords(l.Width, l.Height))
	}
}

// Center returns the point the starting lava is placed around.
func (l Layout) Center() Coord {
	return Coord{X: l.Width / 2, Y: l.Height / 2}
}

// Build creates the index for the layout.
func (l Layout) Build() (*Index, error) {
	if l.Width <= 0 || l.Height <= 0 {
		return nil, fmt.Errorf("invalid board size %dx%d", l.Width, l.Height)
	}
	return NewIndex(l.Tiles())
}

func (l Layout) radius() float64 {
	if l.Radius > 0 {
		return l.Radius
	}
	return float64(min(l.Width, l.Height)) / 2
}

// SquareCoords enumerates a width x height rectangle, y outer.
func SquareCoords(width, height int) []Coord {
	coords := make([]Coord, 0, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			coords = append(coords, Coord{X: x, Y: y})
		}
	}
	return coords
}

// CircleCoords enumerates the cells within radius of (radius, radius).
func CircleCoords(radius float64) []Coord {
	diameter := int(math.Ceil(radius * 2))
	coords := make([]Coord, 0)
	for y := 0; y <= diameter; y++ {
		for x := 0; x <= diameter; x++ {
			dx := float64(x) - radius
			dy := float64(y) - radius
			if math.Sqrt(dx*dx+dy*dy) <= radius {
				coords = append(coords, Coord{X: x, Y: y})
			}
		}
	}
	return coords
}
