// Package terrain implements what the agent can do to the field: walking,
// jumping, painting and reshaping the land around it.
//
// Each operation works relative to the agent and returns an Outcome together
// with an error. A nil error with a Blocked outcome means the command was
// consumed without (full) effect; a non-nil error aborts the script.
package terrain

import (
	"fmt"

	"src.movdino.sh/pkg/errs"
	"src.movdino.sh/pkg/field"
)

// Status tells whether an operation took effect.
type Status uint8

const (
	Success Status = iota
	Blocked
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case Blocked:
		return "blocked"
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

// Outcome is the non-fatal result of an operation.
type Outcome struct {
	Status Status
	// Why the operation was blocked. Empty on success.
	Reason string
}

var ok = Outcome{Status: Success}

func blocked(format string, args ...any) Outcome {
	return Outcome{Blocked, fmt.Sprintf(format, args...)}
}

// FallError is returned when the agent ends up in a pit.
type FallError struct {
	At field.Pos
	// Whether the agent was jumping.
	Jump bool
}

func (e *FallError) Error() string {
	if e.Jump {
		return fmt.Sprintf("the dinosaur landed in a pit at (%d, %d)", e.At.X, e.At.Y)
	}
	return fmt.Sprintf("the dinosaur fell into a pit at (%d, %d)", e.At.X, e.At.Y)
}

// Neighbor returns the wrapped position one step from the agent.
func Neighbor(f *field.Field, d field.Dir) field.Pos {
	return f.Wrap(f.Agent.Add(d.Delta()))
}

func relocate(f *field.Field, to field.Pos) {
	f.ClearCell(f.Agent)
	f.PlaceAgent(to)
}

// Move walks the agent one step.
func Move(f *field.Field, d field.Dir) (Outcome, error) {
	target := Neighbor(f, d)
	switch t := f.At(target).Terrain; t {
	case field.Pit:
		return ok, &FallError{At: target}
	case field.Mound, field.Tree, field.Stone:
		return blocked("movement %s is blocked by a %s", d, t), nil
	case field.Empty, field.Agent:
	}
	relocate(f, target)
	return ok, nil
}

// Jump flies the agent up to n steps. Obstacles shorten the flight; pits on
// the way are flown over, but landing in one is fatal. A non-positive n is a
// no-op.
func Jump(f *field.Field, d field.Dir, n int) (Outcome, error) {
	if n <= 0 {
		return ok, nil
	}
	delta := d.Delta()
	// The path repeats after going once around the field, so an obstacle,
	// if any, shows up within one period.
	period := f.Height
	if delta.X != 0 {
		period = f.Width
	}
	landing := n
	for step := 1; step <= n && step <= period; step++ {
		t := f.At(f.Agent.Add(delta.Mul(step))).Terrain
		if t.IsObstacle() {
			landing = step - 1
			break
		}
	}
	if landing == 0 {
		return blocked("jump %s is blocked right away by a %s",
			d, f.At(f.Agent.Add(delta)).Terrain), nil
	}
	target := f.Wrap(f.Agent.Add(delta.Mul(landing)))
	if f.At(target).Terrain == field.Pit {
		return ok, &FallError{At: target, Jump: true}
	}
	relocate(f, target)
	if landing < n {
		return blocked("jump %s %d stopped after %d steps before a %s",
			d, n, landing, f.At(f.Agent.Add(delta)).Terrain), nil
	}
	return ok, nil
}

// Paint paints the agent's cell. The color must be a lowercase letter.
func Paint(f *field.Field, color byte) (Outcome, error) {
	if !field.IsColor(color) {
		return ok, errs.BadValue{What: "paint color",
			Valid: "a lowercase letter", Actual: fmt.Sprintf("%q", color)}
	}
	c := f.At(f.Agent)
	c.Color = color
	f.Set(f.Agent, c)
	return ok, nil
}

// ModifyAdjacent puts terrain kind on the neighbor cell in direction d,
// keeping the cell's color. A mound thrown into a pit fills it instead. If
// requireEmpty is true, the neighbor must be empty; trees and stones always
// require an empty neighbor.
func ModifyAdjacent(f *field.Field, d field.Dir, kind field.Terrain, requireEmpty bool) (Outcome, error) {
	target := Neighbor(f, d)
	current := f.At(target).Terrain
	if current == field.Pit && kind == field.Mound {
		f.ClearCell(target)
		return ok, nil
	}
	if current != field.Empty {
		if requireEmpty || kind == field.Tree || kind == field.Stone {
			return blocked("cannot create a %s %s: the cell holds a %s",
				kind, d, current), nil
		}
	}
	f.SetTerrain(target, kind)
	return ok, nil
}

// Dig digs a pit next to the agent.
func Dig(f *field.Field, d field.Dir) (Outcome, error) {
	return ModifyAdjacent(f, d, field.Pit, true)
}

// Mound raises a mound next to the agent, or fills a pit there.
func Mound(f *field.Field, d field.Dir) (Outcome, error) {
	return ModifyAdjacent(f, d, field.Mound, true)
}

// Grow grows a tree next to the agent.
func Grow(f *field.Field, d field.Dir) (Outcome, error) {
	return ModifyAdjacent(f, d, field.Tree, true)
}

// Make puts a stone next to the agent.
func Make(f *field.Field, d field.Dir) (Outcome, error) {
	return ModifyAdjacent(f, d, field.Stone, true)
}

// CutTree removes a tree next to the agent.
func CutTree(f *field.Field, d field.Dir) (Outcome, error) {
	target := Neighbor(f, d)
	if f.At(target).Terrain != field.Tree {
		return blocked("nothing to cut %s", d), nil
	}
	f.ClearCell(target)
	return ok, nil
}

// PushStone pushes a stone next to the agent one step further. The stone
// fills a pit it is pushed into and does not move if something is in the
// way.
func PushStone(f *field.Field, d field.Dir) (Outcome, error) {
	origin := Neighbor(f, d)
	if f.At(origin).Terrain != field.Stone {
		return blocked("nothing to push %s", d), nil
	}
	far := f.Wrap(origin.Add(d.Delta()))
	switch t := f.At(far).Terrain; t {
	case field.Mound, field.Tree, field.Stone:
		return ok, nil
	case field.Pit:
		f.ClearCell(far)
	case field.Empty:
		f.SetTerrain(far, field.Stone)
	case field.Agent:
		return ok, fmt.Errorf("stone pushed %s would land on the agent at (%d, %d)",
			d, far.X, far.Y)
	default:
		return ok, fmt.Errorf("unexpected terrain %v behind the stone", t)
	}
	f.ClearCell(origin)
	return ok, nil
}
