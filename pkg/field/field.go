// Package field implements the toroidal grid the agent lives on.
package field

import (
	"strings"

	"src.movdino.sh/pkg/errs"
)

// Size limits of a field, inclusive.
const (
	MinWidth  = 10
	MaxWidth  = 100
	MinHeight = 10
	MaxHeight = 100
)

// Field is a toroidal grid of cells with at most one agent on it.
//
// The zero value is an unsized field; Sized and AgentPlaced drive the world
// construction state machine of the interpreter.
type Field struct {
	Width, Height int
	// Cells in row-major order.
	cells []Cell

	Sized       bool
	AgentPlaced bool
	// Position of the agent. Only meaningful when AgentPlaced is true.
	Agent Pos
}

// New creates a field of the given size, with every cell empty and
// unpainted. It fails with errs.OutOfRange if either dimension is outside the
// valid range.
func New(w, h int) (*Field, error) {
	if w < MinWidth || w > MaxWidth {
		return nil, errs.IntOutOfRange("width", MinWidth, MaxWidth, w)
	}
	if h < MinHeight || h > MaxHeight {
		return nil, errs.IntOutOfRange("height", MinHeight, MaxHeight, h)
	}
	return &Field{Width: w, Height: h, cells: make([]Cell, w*h), Sized: true}, nil
}

// Normalize reduces any integer to [0, size) with toroidal wraparound. It
// returns 0 if size is not positive.
func Normalize(c, size int) int {
	if size <= 0 {
		return 0
	}
	c %= size
	if c < 0 {
		c += size
	}
	return c
}

// Wrap normalizes both coordinates of p.
func (f *Field) Wrap(p Pos) Pos {
	return Pos{Normalize(p.X, f.Width), Normalize(p.Y, f.Height)}
}

func (f *Field) index(p Pos) int {
	p = f.Wrap(p)
	return p.Y*f.Width + p.X
}

// At returns the cell at p, after normalization.
func (f *Field) At(p Pos) Cell { return f.cells[f.index(p)] }

// Set sets the cell at p, after normalization. It does not maintain the agent
// invariant; use PlaceAgent and ClearCell for moving the agent.
func (f *Field) Set(p Pos, c Cell) { f.cells[f.index(p)] = c }

// SetTerrain changes the terrain at p, keeping its color.
func (f *Field) SetTerrain(p Pos, t Terrain) { f.cells[f.index(p)].Terrain = t }

// PlaceAgent puts the agent on the cell at p. The cell keeps its color. It
// does not clear the previous agent cell.
func (f *Field) PlaceAgent(p Pos) {
	p = f.Wrap(p)
	f.cells[f.index(p)].Terrain = Agent
	f.Agent = p
	f.AgentPlaced = true
}

// Passable reports whether the agent may step onto p.
func (f *Field) Passable(p Pos) bool {
	switch f.At(p).Terrain {
	case Pit, Mound, Tree, Stone:
		return false
	case Empty, Agent:
		return true
	}
	return false
}

// ClearCell makes the terrain at p empty. Its color is untouched, so a
// painted cell renders as its color again.
func (f *Field) ClearCell(p Pos) { f.SetTerrain(p, Empty) }

// Effective returns the character the cell at p renders as.
func (f *Field) Effective(p Pos) byte { return f.At(p).Effective() }

// Row renders row y as a string of effective characters.
func (f *Field) Row(y int) string {
	var sb strings.Builder
	sb.Grow(f.Width)
	for x := 0; x < f.Width; x++ {
		sb.WriteByte(f.Effective(Pos{x, y}))
	}
	return sb.String()
}

// String renders the whole field, one row per line, each line terminated by
// a newline.
func (f *Field) String() string {
	var sb strings.Builder
	for y := 0; y < f.Height; y++ {
		sb.WriteString(f.Row(y))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Clone returns a deep copy of the field.
func (f *Field) Clone() *Field {
	g := *f
	g.cells = append([]Cell(nil), f.cells...)
	return &g
}

// CopyFrom replaces the whole state of f, including size and flags, with a
// deep copy of g.
func (f *Field) CopyFrom(g *Field) {
	*f = *g.Clone()
}

// Equal reports whether two fields have the same size, flags, agent position
// and cells, including paint colors.
func (f *Field) Equal(g *Field) bool {
	if f.Width != g.Width || f.Height != g.Height ||
		f.Sized != g.Sized || f.AgentPlaced != g.AgentPlaced || f.Agent != g.Agent {
		return false
	}
	if len(f.cells) != len(g.cells) {
		return false
	}
	for i := range f.cells {
		if f.cells[i] != g.cells[i] {
			return false
		}
	}
	return true
}
