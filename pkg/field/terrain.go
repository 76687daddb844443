package field

import "fmt"

// Terrain is the kind of thing occupying a cell. The set is closed; every
// switch over it is exhaustive.
type Terrain uint8

const (
	Empty Terrain = iota
	Agent
	Pit
	Mound
	Tree
	Stone
)

var terrainChars = [...]byte{
	Empty: '_',
	Agent: '#',
	Pit:   '%',
	Mound: '^',
	Tree:  '&',
	Stone: '@',
}

var terrainNames = [...]string{
	Empty: "empty",
	Agent: "agent",
	Pit:   "pit",
	Mound: "mound",
	Tree:  "tree",
	Stone: "stone",
}

// Char returns the character the terrain renders as.
func (t Terrain) Char() byte {
	if int(t) < len(terrainChars) {
		return terrainChars[t]
	}
	return '?'
}

func (t Terrain) String() string {
	if int(t) < len(terrainNames) {
		return terrainNames[t]
	}
	return fmt.Sprintf("Terrain(%d)", uint8(t))
}

// IsObstacle reports whether the terrain stops walking and flying. Pits are
// not obstacles: they swallow whoever lands on them instead.
func (t Terrain) IsObstacle() bool {
	switch t {
	case Mound, Tree, Stone:
		return true
	case Empty, Agent, Pit:
		return false
	}
	return false
}

// TerrainFromChar is the inverse of Terrain.Char.
func TerrainFromChar(c byte) (Terrain, bool) {
	for t, tc := range terrainChars {
		if tc == c {
			return Terrain(t), true
		}
	}
	return Empty, false
}

// IsColor reports whether c is a valid paint color.
func IsColor(c byte) bool {
	return 'a' <= c && c <= 'z'
}

// Cell is one square of the field. Color is a paint layer independent of the
// terrain; zero means unpainted.
type Cell struct {
	Terrain Terrain
	Color   byte
}

// Effective returns the character the cell renders as: the terrain, unless it
// is empty and painted, in which case the color.
func (c Cell) Effective() byte {
	if c.Terrain == Empty && c.Color != 0 {
		return c.Color
	}
	return c.Terrain.Char()
}

// CellFromChar parses an effective character back into a cell. A lowercase
// letter is an empty painted cell.
func CellFromChar(c byte) (Cell, bool) {
	if IsColor(c) {
		return Cell{Terrain: Empty, Color: c}, true
	}
	t, ok := TerrainFromChar(c)
	return Cell{Terrain: t}, ok
}
