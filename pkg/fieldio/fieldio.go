// Package fieldio reads and writes fields in their plain text form.
//
// The format is:
//
//	<width> <height>
//	<height rows of exactly width effective characters>
//	DINO <x> <y>
//
// Every line ends with a newline, except that the DINO line may also end the
// file.
package fieldio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"src.movdino.sh/pkg/field"
	"src.movdino.sh/pkg/logutil"
)

var logger = logutil.GetLogger("[fieldio] ")

// Error is a load failure, pointing to the offending line.
type Error struct {
	Name string
	Line int
	Msg  string
}

func (e *Error) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("%s:%d: %s", e.Name, e.Line, e.Msg)
}

// ErrIncomplete is returned by Save when the field has not been sized or the
// agent has not been placed.
var ErrIncomplete = errors.New("field is not complete: it needs a size and an agent")

// LoadFile loads a field from the named file.
func LoadFile(name string) (*field.Field, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Load(name, file)
}

// Load reads a field from r. The name is only used in error messages. The
// returned field is sized and has its agent placed.
func Load(name string, r io.Reader) (*field.Field, error) {
	l := &loader{name: name, r: bufio.NewReader(r)}
	f, err := l.load()
	if err != nil {
		logger.Debugf("failed to load %s: %v", name, err)
		return nil, err
	}
	return f, nil
}

type loader struct {
	name string
	r    *bufio.Reader
	line int
}

func (l *loader) errorf(format string, args ...any) error {
	return &Error{l.name, l.line, fmt.Sprintf(format, args...)}
}

// Reads the next line. The newline is stripped; terminated tells whether it
// was there.
func (l *loader) next() (line string, terminated bool, err error) {
	l.line++
	s, err := l.r.ReadString('\n')
	if err == io.EOF {
		if s == "" {
			return "", false, l.errorf("unexpected end of file")
		}
		return s, false, nil
	} else if err != nil {
		return "", false, err
	}
	return s[:len(s)-1], true, nil
}

func (l *loader) load() (*field.Field, error) {
	header, terminated, err := l.next()
	if err != nil {
		return nil, err
	}
	if !terminated {
		return nil, l.errorf("missing newline after the size line")
	}
	w, h, err := l.ints(header, "", "size line")
	if err != nil {
		return nil, err
	}
	f, err := field.New(w, h)
	if err != nil {
		return nil, l.errorf("%v", err)
	}

	var (
		agentSeen bool
		agentAt   field.Pos
	)
	for y := 0; y < h; y++ {
		row, terminated, err := l.next()
		if err != nil {
			return nil, err
		}
		if len(row) != w {
			return nil, l.errorf("row %d has %d characters, want %d", y, len(row), w)
		}
		if !terminated {
			return nil, l.errorf("missing newline after row %d", y)
		}
		for x := 0; x < w; x++ {
			c, ok := field.CellFromChar(row[x])
			if !ok {
				return nil, l.errorf("invalid character %q at column %d", row[x], x+1)
			}
			if c.Terrain == field.Agent {
				if agentSeen {
					return nil, l.errorf("more than one agent")
				}
				agentSeen, agentAt = true, field.Pos{X: x, Y: y}
				c.Terrain = field.Empty
			}
			f.Set(field.Pos{X: x, Y: y}, c)
		}
	}

	dino, _, err := l.next()
	if err != nil {
		return nil, l.errorf("missing DINO line")
	}
	x, y, err := l.ints(dino, "DINO", "DINO line")
	if err != nil {
		return nil, err
	}
	pos := f.Wrap(field.Pos{X: x, Y: y})
	if agentSeen && agentAt != pos {
		return nil, l.errorf("agent drawn at (%d, %d) but DINO says (%d, %d)",
			agentAt.X, agentAt.Y, pos.X, pos.Y)
	}
	if !f.Passable(pos) {
		return nil, l.errorf("agent placed on a %s", f.At(pos).Terrain)
	}
	f.PlaceAgent(pos)

	for {
		rest, _, err := l.next()
		if err != nil {
			break
		}
		if strings.TrimSpace(rest) != "" {
			return nil, l.errorf("unexpected content after the DINO line")
		}
	}
	return f, nil
}

// Parses a line of the form "[keyword] <int> <int>".
func (l *loader) ints(line, keyword, what string) (int, int, error) {
	fields := strings.Fields(line)
	if keyword != "" {
		if len(fields) == 0 || fields[0] != keyword {
			return 0, 0, l.errorf("malformed %s %q", what, line)
		}
		fields = fields[1:]
	}
	if len(fields) != 2 {
		return 0, 0, l.errorf("malformed %s %q", what, line)
	}
	a, err1 := strconv.Atoi(fields[0])
	b, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil {
		return 0, 0, l.errorf("malformed %s %q", what, line)
	}
	return a, b, nil
}

// SaveFile writes the field to the named file, creating or truncating it.
func SaveFile(name string, f *field.Field) error {
	if err := checkComplete(f); err != nil {
		return err
	}
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	err = Save(file, f)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	return err
}

// Save writes the field to w.
func Save(w io.Writer, f *field.Field) error {
	if err := checkComplete(f); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d\n", f.Width, f.Height)
	bw.WriteString(f.String())
	fmt.Fprintf(bw, "DINO %d %d\n", f.Agent.X, f.Agent.Y)
	return bw.Flush()
}

func checkComplete(f *field.Field) error {
	if !f.Sized || !f.AgentPlaced {
		return ErrIncomplete
	}
	return nil
}
