package must

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestOK(t *testing.T) {
	OK(nil)
	if got := OK1(42, nil); got != 42 {
		t.Errorf("OK1 returned %v", got)
	}
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("OK did not panic on error")
		}
	}()
	OK(errors.New("boom"))
}

func TestWriteFileAndReadFileString(t *testing.T) {
	name := filepath.Join(t.TempDir(), "a", "b", "field.txt")
	WriteFile(name, "DINO 1 2\n")
	if got := ReadFileString(name); got != "DINO 1 2\n" {
		t.Errorf("read back %q", got)
	}
}

func TestPipe(t *testing.T) {
	r, w := Pipe()
	defer r.Close()
	w.WriteString("x")
	w.Close()
	buf := make([]byte, 2)
	n, _ := r.Read(buf)
	if string(buf[:n]) != "x" {
		t.Errorf("read %q from pipe", buf[:n])
	}
}
