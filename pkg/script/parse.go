package script

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"src.movdino.sh/pkg/diag"
	"src.movdino.sh/pkg/errs"
	"src.movdino.sh/pkg/field"
)

const parseErrorType = "parse error"

var (
	errLeadingSpace = errors.New("lines may not start with whitespace")
	errMalformedIf  = errors.New("malformed IF, should be " + Usage("IF"))
)

// Command is a parsed command line.
type Command struct {
	Kind Kind
	// Range of the command within the source.
	diag.Ranging

	// Width and height for SIZE, coordinates for START and IF.
	X, Y int
	// Distance for JUMP.
	N int
	// Direction of movement and terraforming commands.
	Dir field.Dir
	// Color for PAINT, expected cell character for IF.
	Char rune
	// File for LOAD and EXEC.
	Path string
	// Command guarded by IF.
	Then *Command
}

type token struct {
	text string
	diag.Ranging
}

// Splits text on runs of spaces and tabs. The ranges are shifted by offset.
func tokenize(text string, offset int) []token {
	var toks []token
	start := -1
	for i := 0; i <= len(text); i++ {
		if i == len(text) || text[i] == ' ' || text[i] == '\t' {
			if start != -1 {
				toks = append(toks, token{text[start:i], diag.Ranging{From: start, To: i}.Shift(offset)})
				start = -1
			}
		} else if start == -1 {
			start = i
		}
	}
	return toks
}

// Parse parses all lines of src without running them. The error, if any,
// contains all the parse errors found, and can be unpacked with
// diag.UnpackErrors.
func Parse(src Source) ([]*Command, error) {
	p := &parser{src: src}
	var cmds []*Command
	for _, l := range splitLines(src.Code) {
		if cmd := p.line(l); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return cmds, diag.PackErrors(p.errors)
}

// Check is like Parse, but only returns the error.
func Check(src Source) error {
	_, err := Parse(src)
	return err
}

func parseLine(src Source, l line) (*Command, error) {
	p := &parser{src: src}
	cmd := p.line(l)
	if err := diag.PackErrors(p.errors); err != nil {
		return nil, err
	}
	return cmd, nil
}

type parser struct {
	src    Source
	errors []*diag.Error
}

func (p *parser) error(r diag.Ranger, err error) {
	p.errors = append(p.errors, &diag.Error{
		Type:    parseErrorType,
		Message: err.Error(),
		Context: *diag.NewContext(p.src.Name, p.src.Code, r),
	})
}

func (p *parser) line(l line) *Command {
	trimmed := strings.TrimLeft(l.text, " \t\v\f")
	if n := len(l.text) - len(trimmed); n > 0 {
		p.error(diag.Ranging{From: l.from, To: l.from + n}, errLeadingSpace)
		return nil
	}
	return p.command(tokenize(l.text, l.from))
}

// Parses a command from a non-empty token list. It returns nil if there is
// any error.
func (p *parser) command(toks []token) *Command {
	head := toks[0]
	kw, ok := keywords[head.text]
	if !ok {
		p.error(head, fmt.Errorf("unknown command %q", head.text))
		return nil
	}
	cmd := &Command{Kind: kw.kind, Ranging: diag.MixedRanging(head, toks[len(toks)-1])}
	if kw.kind == If {
		return p.ifCommand(cmd, toks)
	}

	args := toks[1:]
	if n := len(kw.params); len(args) != n {
		var r diag.Ranger = diag.PointRanging(cmd.To)
		if len(args) > n {
			r = diag.MixedRanging(args[n], args[len(args)-1])
		}
		p.error(r, errs.ArityMismatch{What: "arguments to " + head.text,
			ValidLow: n, ValidHigh: n, Actual: len(args)})
		return nil
	}

	nErrors := len(p.errors)
	var ints []int
	for i, param := range kw.params {
		arg := args[i]
		switch param.kind {
		case argInt:
			ints = append(ints, p.intArg(arg, param.name))
		case argDir:
			cmd.Dir = p.dirArg(arg)
		case argChar:
			cmd.Char = p.charArg(arg, param.name)
		case argPath:
			cmd.Path = arg.text
		}
	}
	if len(p.errors) > nErrors {
		return nil
	}
	// SIZE and START take a pair, JUMP a distance.
	switch len(ints) {
	case 1:
		cmd.N = ints[0]
	case 2:
		cmd.X, cmd.Y = ints[0], ints[1]
	}
	return cmd
}

// IF CELL <x> <y> IS <char> THEN <command>
func (p *parser) ifCommand(cmd *Command, toks []token) *Command {
	if len(toks) < 8 {
		p.error(cmd, errMalformedIf)
		return nil
	}
	nErrors := len(p.errors)
	for _, w := range []struct {
		i    int
		word string
	}{{1, "CELL"}, {4, "IS"}, {6, "THEN"}} {
		if toks[w.i].text != w.word {
			p.error(toks[w.i], fmt.Errorf("expected %s, found %q", w.word, toks[w.i].text))
		}
	}
	cmd.X = p.intArg(toks[2], "x")
	cmd.Y = p.intArg(toks[3], "y")
	cmd.Char = p.charArg(toks[5], "cell character")
	cmd.Then = p.command(toks[7:])
	if len(p.errors) > nErrors {
		return nil
	}
	return cmd
}

func (p *parser) intArg(t token, what string) int {
	i, err := strconv.Atoi(t.text)
	if err != nil {
		p.error(t, errs.BadValue{What: what, Valid: "an integer", Actual: strconv.Quote(t.text)})
	}
	return i
}

func (p *parser) dirArg(t token) field.Dir {
	d, ok := field.ParseDir(t.text)
	if !ok {
		p.error(t, errs.BadValue{What: "direction",
			Valid: strings.Join(field.DirNames(), ", "), Actual: strconv.Quote(t.text)})
	}
	return d
}

func (p *parser) charArg(t token, what string) rune {
	if utf8.RuneCountInString(t.text) != 1 {
		p.error(t, errs.BadValue{What: what,
			Valid: "a single character", Actual: strconv.Quote(t.text)})
		return 0
	}
	r, _ := utf8.DecodeRuneInString(t.text)
	return r
}
