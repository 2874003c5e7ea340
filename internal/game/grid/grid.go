package grid

import (
	"fmt"
)

// TileID is the dense identifier assigned to a tile when the grid is built.
type TileID int

// NoTile is returned for coordinates that have no tile.
const NoTile TileID = -1

// Coord is an integer grid coordinate.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns c shifted by d.
func (c Coord) Add(d Coord) Coord {
	return Coord{X: c.X + d.X, Y: c.Y + d.Y}
}

// Sub returns c shifted by -d.
func (c Coord) Sub(d Coord) Coord {
	return Coord{X: c.X - d.X, Y: c.Y - d.Y}
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Tile pairs an identifier with its coordinate.
type Tile struct {
	ID    TileID
	Coord Coord
}

// Cardinal holds the four unit offsets used for 4-connectivity.
var Cardinal = [4]Coord{
	{X: 1, Y: 0},
	{X: -1, Y: 0},
	{X: 0, Y: 1},
	{X: 0, Y: -1},
}

// Index maps between coordinates and tile identifiers.
// It is immutable once built.
type Index struct {
	byID    []Coord
	byCoord map[Coord]TileID
	min     Coord
	max     Coord
}

// Enumerate assigns dense identifiers to coords in enumeration order.
func Enumerate(coords []Coord) []Tile {
	tiles := make([]Tile, len(coords))
	for i, c := range coords {
		tiles[i] = Tile{ID: TileID(i), Coord: c}
	}
	return tiles
}

// NewIndex builds an index from externally assigned tiles.
// Identifiers must cover 0..n-1 exactly once and coordinates must be unique.
func NewIndex(tiles []Tile) (*Index, error) {
	if len(tiles) == 0 {
		return nil, fmt.Errorf("grid has no tiles")
	}

	idx := &Index{
		byID:    make([]Coord, len(tiles)),
		byCoord: make(map[Coord]TileID, len(tiles)),
	}
	seen := make([]bool, len(tiles))

	for i, tile := range tiles {
		if tile.ID < 0 || int(tile.ID) >= len(tiles) {
			return nil, fmt.Errorf("tile id %d out of dense range 0..%d", tile.ID, len(tiles)-1)
		}
		if seen[tile.ID] {
			return nil, fmt.Errorf("duplicate tile id %d", tile.ID)
		}
		if other, exists := idx.byCoord[tile.Coord]; exists {
			return nil, fmt.Errorf("tiles %d and %d share coordinate %s", other, tile.ID, tile.Coord)
		}
		seen[tile.ID] = true
		idx.byID[tile.ID] = tile.Coord
		idx.byCoord[tile.Coord] = tile.ID

		if i == 0 {
			idx.min, idx.max = tile.Coord, tile.Coord
			continue
		}
		idx.min.X = min(idx.min.X, tile.Coord.X)
		idx.min.Y = min(idx.min.Y, tile.Coord.Y)
		idx.max.X = max(idx.max.X, tile.Coord.X)
		idx.max.Y = max(idx.max.Y, tile.Coord.Y)
	}

	return idx, nil
}

// Len returns the number of tiles.
func (idx *Index) Len() int {
	return len(idx.byID)
}

// TileAt returns the tile at (x, y), or NoTile and false when off-grid.
func (idx *Index) TileAt(x, y int) (TileID, bool) {
	id, ok := idx.byCoord[Coord{X: x, Y: y}]
	if !ok {
		return NoTile, false
	}
	return id, true
}

// CoordOf returns the coordinate of id.
func (idx *Index) CoordOf(id TileID) (Coord, bool) {
	if !idx.Contains(id) {
		return Coord{}, false
	}
	return idx.byID[id], true
}

// Exists reports whether (x, y) has a tile.
func (idx *Index) Exists(x, y int) bool {
	_, ok := idx.byCoord[Coord{X: x, Y: y}]
	return ok
}

// Contains reports whether id belongs to this grid.
func (idx *Index) Contains(id TileID) bool {
	return id >= 0 && int(id) < len(idx.byID)
}

// Neighbors returns the on-grid 4-neighbours of id.
func (idx *Index) Neighbors(id TileID) []TileID {
	c, ok := idx.CoordOf(id)
	if !ok {
		return nil
	}
	neighbors := make([]TileID, 0, len(Cardinal))
	for _, d := range Cardinal {
		n := c.Add(d)
		if nid, ok := idx.TileAt(n.X, n.Y); ok {
			neighbors = append(neighbors, nid)
		}
	}
	return neighbors
}

// Adjacent reports whether a and b are 4-neighbours.
func (idx *Index) Adjacent(a, b TileID) bool {
	ca, okA := idx.CoordOf(a)
	cb, okB := idx.CoordOf(b)
	if !okA || !okB {
		return false
	}
	dx, dy := ca.X-cb.X, ca.Y-cb.Y
	return dx*dx+dy*dy == 1
}

// Bounds returns the smallest and largest coordinates on the grid.
func (idx *Index) Bounds() (Coord, Coord) {
	return idx.min, idx.max
}

// Tiles returns every tile ordered by identifier.
func (idx *Index) Tiles() []Tile {
	tiles := make([]Tile, len(idx.byID))
	for i, c := range idx.byID {
		tiles[i] = Tile{ID: TileID(i), Coord: c}
	}
	return tiles
}
