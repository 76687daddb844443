// Package script implements the command language that drives the dinosaur.
//
// A script is a sequence of lines, one command per line. Blank lines and lines
// starting with // are ignored. Commands are run as soon as they are parsed,
// so a script that fails halfway leaves the effects of the earlier lines in
// place.
package script

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode"

	"src.movdino.sh/pkg/diag"
	"src.movdino.sh/pkg/errs"
	"src.movdino.sh/pkg/field"
	"src.movdino.sh/pkg/fieldio"
	"src.movdino.sh/pkg/history"
	"src.movdino.sh/pkg/logutil"
	"src.movdino.sh/pkg/terrain"
)

var logger = logutil.GetLogger("[script] ")

// DefaultMaxNesting is the default limit of nested EXEC and IF commands.
const DefaultMaxNesting = 64

// Display shows the field after each command.
type Display interface {
	Refresh(f *field.Field)
}

// Interpreter runs scripts against one field.
type Interpreter struct {
	Field   *field.Field
	History *history.Stack
	// Display is refreshed after each command; nil means no display.
	Display Display
	// Warnings receives reports of commands that did not fully take effect;
	// nil means they are discarded.
	Warnings io.Writer
	// Maximum depth of nested EXEC and IF commands.
	MaxNesting int

	depth int
	// Stack trace of the EXEC lines being run.
	stack *StackTrace
}

// NewInterpreter creates an Interpreter with an unsized field, an undo
// history of the default depth and no display.
func NewInterpreter() *Interpreter {
	return &Interpreter{
		Field:      &field.Field{},
		History:    history.New(history.DefaultDepth),
		MaxNesting: DefaultMaxNesting,
	}
}

// ExecFile reads and runs a script file.
func (it *Interpreter) ExecFile(name string) error {
	src, err := ReadFile(name)
	if err != nil {
		return &Exception{fmt.Errorf("cannot read script %q: %w", name, err), it.stack}
	}
	return it.ExecSource(src)
}

// ExecSource runs all lines of src, stopping at the first fatal error, which
// is always an *Exception.
func (it *Interpreter) ExecSource(src Source) error {
	logger.Debugf("running %s", src.Name)
	for _, l := range splitLines(src.Code) {
		cmd, err := parseLine(src, l)
		if err != nil {
			return &Exception{err, it.stack}
		}
		if err := it.exec(src, cmd); err != nil {
			return it.wrap(src, cmd, err)
		}
	}
	return nil
}

// ExecLine runs a single line of script.
func (it *Interpreter) ExecLine(code string) error {
	return it.ExecSource(Source{Name: "[line]", Code: code})
}

// Turns err into an *Exception raised at r, unless it already is one.
func (it *Interpreter) wrap(src Source, r diag.Ranger, err error) error {
	if _, ok := err.(*Exception); ok {
		return err
	}
	ctx := diag.NewContext(src.Name, src.Code, r)
	return &Exception{err, &StackTrace{ctx, it.stack}}
}

func (it *Interpreter) warn(src Source, r diag.Ranger, msg string) {
	line := diag.NewContext(src.Name, src.Code, r).Line()
	logger.Debugf("warning at %s:%d: %s", src.Name, line, msg)
	if it.Warnings != nil {
		fmt.Fprintf(it.Warnings, "Warning: %s:%d: %s\n", src.Name, line, msg)
	}
}

func (it *Interpreter) refresh() {
	if it.Display != nil {
		it.Display.Refresh(it.Field)
	}
}

func (it *Interpreter) enter() error {
	if it.depth >= it.MaxNesting {
		return NestingError{it.MaxNesting}
	}
	it.depth++
	return nil
}

func (it *Interpreter) leave() { it.depth-- }

func (it *Interpreter) exec(src Source, cmd *Command) error {
	if required, ok := requiredState(cmd.Kind); ok {
		if actual := StateOf(it.Field); actual != required {
			return errs.StateMismatch{What: cmd.Kind.String(),
				Valid: required.String(), Actual: actual.String()}
		}
	}
	if cmd.Kind.Undoable() && !it.History.Push(it.Field) {
		logger.Debugf("undo history full, %s will not be undoable", cmd.Kind)
	}

	var (
		outcome terrain.Outcome
		err     error
		f       = it.Field
	)
	switch cmd.Kind {
	case Size:
		var newField *field.Field
		newField, err = field.New(cmd.X, cmd.Y)
		if err == nil {
			f.CopyFrom(newField)
		}
	case Load:
		var loaded *field.Field
		loaded, err = fieldio.LoadFile(cmd.Path)
		if err == nil {
			f.CopyFrom(loaded)
		}
	case Start:
		f.PlaceAgent(field.Pos{X: cmd.X, Y: cmd.Y})
	case Move:
		outcome, err = terrain.Move(f, cmd.Dir)
	case Jump:
		if cmd.N <= 0 {
			logger.Debugf("JUMP %s %d does nothing", cmd.Dir, cmd.N)
		}
		outcome, err = terrain.Jump(f, cmd.Dir, cmd.N)
	case Paint:
		err = it.paint(src, cmd)
	case Dig:
		outcome, err = terrain.Dig(f, cmd.Dir)
	case Mound:
		outcome, err = terrain.Mound(f, cmd.Dir)
	case Grow:
		outcome, err = terrain.Grow(f, cmd.Dir)
	case Make:
		outcome, err = terrain.Make(f, cmd.Dir)
	case Cut:
		outcome, err = terrain.CutTree(f, cmd.Dir)
	case Push:
		outcome, err = terrain.PushStone(f, cmd.Dir)
	case Exec:
		err = it.execFile(src, cmd)
	case Undo:
		if !it.History.Pop(f) {
			it.warn(src, cmd, "nothing to undo")
		}
	case If:
		return it.ifCommand(src, cmd)
	default:
		err = fmt.Errorf("unknown command kind %d", cmd.Kind)
	}
	if err != nil {
		return err
	}
	if outcome.Status == terrain.Blocked {
		it.warn(src, cmd, outcome.Reason)
	}
	it.refresh()
	return nil
}

func (it *Interpreter) paint(src Source, cmd *Command) error {
	if cmd.Char > unicode.MaxASCII {
		it.warn(src, cmd, errs.BadValue{What: "paint color",
			Valid: "a lowercase letter", Actual: strconv.QuoteRune(cmd.Char)}.Error())
		return nil
	}
	_, err := terrain.Paint(it.Field, byte(cmd.Char))
	var bad errs.BadValue
	if errors.As(err, &bad) {
		it.warn(src, cmd, bad.Error())
		return nil
	}
	return err
}

func (it *Interpreter) execFile(src Source, cmd *Command) error {
	if err := it.enter(); err != nil {
		return err
	}
	defer it.leave()
	sub, err := ReadFile(cmd.Path)
	if err != nil {
		return fmt.Errorf("cannot read script %q: %w", cmd.Path, err)
	}
	outer := it.stack
	it.stack = &StackTrace{diag.NewContext(src.Name, src.Code, cmd), outer}
	defer func() { it.stack = outer }()
	return it.ExecSource(sub)
}

func (it *Interpreter) ifCommand(src Source, cmd *Command) error {
	if err := it.enter(); err != nil {
		return err
	}
	defer it.leave()
	pos := field.Pos{X: cmd.X, Y: cmd.Y}
	if cmd.Char <= unicode.MaxASCII && it.Field.Effective(pos) == byte(cmd.Char) {
		if err := it.exec(src, cmd.Then); err != nil {
			return it.wrap(src, cmd.Then, err)
		}
		return nil
	}
	it.refresh()
	return nil
}
