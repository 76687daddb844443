//go:build unix

package sys

import (
	"os"

	"golang.org/x/sys/unix"
)

func winSize(file *os.File) (row, col int) {
	ws, err := unix.IoctlGetWinsize(int(file.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return -1, -1
	}
	row, col = int(ws.Row), int(ws.Col)
	// Some serial consoles report 0x0; assume the classic size.
	if row == 0 {
		row = 24
	}
	if col == 0 {
		col = 80
	}
	return row, col
}
