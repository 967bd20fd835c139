// Package terrain provides the tile grid agents move over and the
// procedural generator that builds it from height noise.
package terrain

// Kind classifies a tile.
type Kind uint8

const (
	ShallowWater Kind = iota
	Water
	DeepWater
	Sand
	Grass
	Forest

	NumKinds
)

var kindNames = [NumKinds]string{
	ShallowWater: "shallow_water",
	Water:        "water",
	DeepWater:    "deep_water",
	Sand:         "sand",
	Grass:        "grass",
	Forest:       "forest",
}

func (k Kind) String() string {
	if k < NumKinds {
		return kindNames[k]
	}
	return "unknown"
}

// Walkable reports whether agents may stand on tiles of this kind.
func Walkable(k Kind) bool {
	return k == Grass || k == Sand || k == Forest
}

// Query is the read-only view of the map the simulation core consumes.
type Query interface {
	TileAt(x, y int) Kind
	Width() int
	Height() int
}

// IsWalkable reports whether (x, y) is inside the grid and walkable.
// Out-of-range coordinates are never walkable.
func IsWalkable(q Query, x, y int) bool {
	if x < 0 || y < 0 || x >= q.Width() || y >= q.Height() {
		return false
	}
	return Walkable(q.TileAt(x, y))
}

// neighbours4 is the scan order used for 4-directional adjacency checks.
var neighbours4 = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// AdjacentShallowWater returns the first 4-neighbour of (x, y) that is
// ShallowWater, checked in +x, -x, +y, -y order.
func AdjacentShallowWater(q Query, x, y int) (wx, wy int, ok bool) {
	for _, d := range neighbours4 {
		nx, ny := x+d[0], y+d[1]
		if nx < 0 || ny < 0 || nx >= q.Width() || ny >= q.Height() {
			continue
		}
		if q.TileAt(nx, ny) == ShallowWater {
			return nx, ny, true
		}
	}
	return 0, 0, false
}

// Grid is a dense row-major tile map.
type Grid struct {
	width, height int
	tiles         []Kind
}

// NewGrid creates a width x height grid filled with one kind.
func NewGrid(width, height int, fill Kind) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	g := &Grid{
		width:  width,
		height: height,
		tiles:  make([]Kind, width*height),
	}
	for i := range g.tiles {
		g.tiles[i] = fill
	}
	return g
}

// Width returns the grid width in tiles.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height in tiles.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (x, y) addresses a tile.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// TileAt returns the tile kind at (x, y). Out-of-range lookups return
// DeepWater so callers fail closed.
func (g *Grid) TileAt(x, y int) Kind {
	if !g.InBounds(x, y) {
		return DeepWater
	}
	return g.tiles[y*g.width+x]
}

// Set overwrites the tile at (x, y). Out-of-range writes are ignored.
func (g *Grid) Set(x, y int, k Kind) {
	if !g.InBounds(x, y) {
		return
	}
	g.tiles[y*g.width+x] = k
}

// Counts returns the number of tiles of each kind.
func (g *Grid) Counts() [NumKinds]int {
	var counts [NumKinds]int
	for _, k := range g.tiles {
		if k < NumKinds {
			counts[k]++
		}
	}
	return counts
}

// FromRows builds a grid from one string per row. Each byte is a tile:
//
//	'd' deep water, 'w' water, '~' shallow water,
//	's' sand, 'g' grass, 'f' forest.
//
// Unknown bytes become DeepWater. Rows shorter than the first are padded
// with DeepWater.
func FromRows(rows []string) *Grid {
	if len(rows) == 0 {
		return NewGrid(0, 0, DeepWater)
	}
	g := NewGrid(len(rows[0]), len(rows), DeepWater)
	for y, row := range rows {
		for x := 0; x < len(row) && x < g.width; x++ {
			g.Set(x, y, kindFromByte(row[x]))
		}
	}
	return g
}

func kindFromByte(b byte) Kind {
	switch b {
	case 'w':
		return Water
	case '~':
		return ShallowWater
	case 's':
		return Sand
	case 'g':
		return Grass
	case 'f':
		return Forest
	default:
		return DeepWater
	}
}
