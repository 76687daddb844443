// Package display shows the field as it changes.
package display

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"src.movdino.sh/pkg/field"
	"src.movdino.sh/pkg/logutil"
	"src.movdino.sh/pkg/sys"
)

var logger = logutil.GetLogger("[display] ")

// Pauses between frames; replaced in tests.
var sleep = time.Sleep

const clearScreen = "\033[H\033[2J"

// SGR codes of effective characters when colors are on. Paint colors not
// listed are shown in magenta.
var sgrOf = map[byte]string{
	'#': "1;31",
	'%': "1;30",
	'^': "33",
	'&': "32",
	'@': "1;37",
}

const paintSGR = "35"

// Options controls a Terminal.
type Options struct {
	// Pause after each frame.
	Interval time.Duration
	// Whether to use ANSI colors. Only takes effect on terminals.
	Color bool
}

// Terminal renders frames to a file. On terminals, it clears the screen
// before each frame; elsewhere, frames are separated by blank lines.
type Terminal struct {
	out   *os.File
	warn  io.Writer
	opts  Options
	isTTY bool

	checkedSize bool
	frames      int
}

// NewTerminal creates a Terminal writing frames to out. Problems with the
// terminal, such as it being too small for the field, are reported to warn.
func NewTerminal(out *os.File, warn io.Writer, opts Options) *Terminal {
	isTTY := sys.IsATTY(out)
	logger.Debugf("display on %s, terminal: %v", out.Name(), isTTY)
	return &Terminal{out: out, warn: warn, opts: opts, isTTY: isTTY}
}

// Refresh renders the field and pauses.
func (t *Terminal) Refresh(f *field.Field) {
	w := bufio.NewWriter(t.out)
	if t.isTTY {
		t.checkSize(f)
		w.WriteString(clearScreen)
	} else if t.frames > 0 {
		w.WriteString("\n")
	}
	t.render(w, f)
	if err := w.Flush(); err != nil {
		logger.Debugf("cannot write frame: %v", err)
	}
	t.frames++
	if t.opts.Interval > 0 {
		sleep(t.opts.Interval)
	}
}

// Frames returns the number of frames shown so far.
func (t *Terminal) Frames() int { return t.frames }

func (t *Terminal) checkSize(f *field.Field) {
	if t.checkedSize {
		return
	}
	t.checkedSize = true
	rows, cols := sys.WinSize(t.out)
	if rows == -1 {
		return
	}
	if f.Width > cols || f.Height > rows {
		fmt.Fprintf(t.warn, "Warning: the field is %dx%d but the terminal is %dx%d\n",
			f.Width, f.Height, cols, rows)
	}
}

func (t *Terminal) render(w *bufio.Writer, f *field.Field) {
	color := t.opts.Color && t.isTTY
	for y := 0; y < f.Height; y++ {
		row := f.Row(y)
		if !color {
			w.WriteString(row)
			w.WriteByte('\n')
			continue
		}
		for i := 0; i < len(row); i++ {
			c := row[i]
			sgr, ok := sgrOf[c]
			if !ok && field.IsColor(c) {
				sgr, ok = paintSGR, true
			}
			if ok {
				fmt.Fprintf(w, "\033[%sm%c\033[m", sgr, c)
			} else {
				w.WriteByte(c)
			}
		}
		w.WriteByte('\n')
	}
}
