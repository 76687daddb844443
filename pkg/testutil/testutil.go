// Package testutil has helpers for setting up state in tests and undoing it
// afterwards.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"src.movdino.sh/pkg/must"
)

// Cleanuper is the part of testing.TB used by this package.
type Cleanuper interface {
	Cleanup(func())
}

// Set assigns v to *p until the test finishes.
func Set[T any](c Cleanuper, p *T, v T) {
	old := *p
	*p = v
	c.Cleanup(func() { *p = old })
}

// Setenv sets an environment variable until the test finishes, and returns
// the value.
func Setenv(c Cleanuper, name, value string) string {
	if old, ok := os.LookupEnv(name); ok {
		c.Cleanup(func() { os.Setenv(name, old) })
	} else {
		c.Cleanup(func() { os.Unsetenv(name) })
	}
	os.Setenv(name, value)
	return value
}

// TempDir creates a directory that is removed when the test finishes. Unlike
// testing.TB.TempDir, the returned path has symlinks resolved, so it can be
// compared with paths derived from the working directory.
func TempDir(c Cleanuper) string {
	dir := must.OK1(os.MkdirTemp("", "movdinotest."))
	dir = must.OK1(filepath.EvalSymlinks(dir))
	c.Cleanup(func() {
		if err := os.RemoveAll(dir); err != nil {
			fmt.Fprintln(os.Stderr, "failed to remove temp dir", dir)
		}
	})
	return dir
}

// InTempDir is like TempDir, but also changes into the directory until the
// test finishes.
func InTempDir(c Cleanuper) string {
	dir := TempDir(c)
	wd := must.OK1(os.Getwd())
	must.OK(os.Chdir(dir))
	c.Cleanup(func() { must.OK(os.Chdir(wd)) })
	return dir
}

// Dir describes files to create. Each value is either the content of a
// regular file or a nested Dir.
type Dir map[string]any

// ApplyDir creates the files described by dir in the working directory.
func ApplyDir(dir Dir) { applyDir(".", dir) }

func applyDir(parent string, dir Dir) {
	for name, entry := range dir {
		path := filepath.Join(parent, name)
		switch entry := entry.(type) {
		case string:
			must.OK(os.WriteFile(path, []byte(entry), 0644))
		case Dir:
			must.OK(os.MkdirAll(path, 0755))
			applyDir(path, entry)
		default:
			panic(fmt.Sprintf("%s: want string or Dir, got %T", path, entry))
		}
	}
}

// Dedent strips one leading newline from text, then removes the longest
// indentation shared by all lines that are not blank. Blank lines become
// empty.
//
// It lets multi-line raw strings be indented along with the test code.
func Dedent(text string) string {
	text = strings.TrimPrefix(text, "\n")
	lines := strings.Split(text, "\n")
	margin := ""
	first := true
	for i, line := range lines {
		if strings.TrimLeft(line, " \t") == "" {
			lines[i] = ""
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		switch {
		case first:
			margin, first = indent, false
		case !strings.HasPrefix(indent, margin):
			margin = commonPrefix(margin, indent)
		}
	}
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, margin)
	}
	return strings.Join(lines, "\n")
}

func commonPrefix(a, b string) string {
	i := 0
	for i < len(a) && i < len(b) && a[i] == b[i] {
		i++
	}
	return a[:i]
}
