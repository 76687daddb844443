package script

import (
	"errors"
	"os"
	"strings"
	"unicode/utf8"
)

// Source describes a piece of script.
type Source struct {
	// Name shown in diagnostics, usually the path of the script file.
	Name string
	Code string
}

var errSourceNotUTF8 = errors.New("source is not UTF-8")

// ReadFile reads a script file. The path is kept as given in the name of the
// returned Source.
func ReadFile(name string) (Source, error) {
	bytes, err := os.ReadFile(name)
	if err != nil {
		return Source{}, err
	}
	if !utf8.Valid(bytes) {
		return Source{}, errSourceNotUTF8
	}
	return Source{Name: name, Code: string(bytes)}, nil
}

// A line of a Source that is neither blank nor a comment.
type line struct {
	// 1-based line number.
	num int
	// Byte offset of the start of the line within the source.
	from int
	// Content of the line with trailing whitespace stripped.
	text string
}

// Splits code into lines, dropping blank lines and comments.
func splitLines(code string) []line {
	var lines []line
	from := 0
	for num := 1; from <= len(code); num++ {
		end := strings.IndexByte(code[from:], '\n')
		if end == -1 {
			end = len(code) - from
		}
		text := strings.TrimRight(code[from:from+end], " \t\r\v\f")
		if text != "" && !strings.HasPrefix(text, "//") {
			lines = append(lines, line{num, from, text})
		}
		from += end + 1
	}
	return lines
}
