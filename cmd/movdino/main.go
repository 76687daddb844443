// Movdino runs scripts that walk a dinosaur around a wrapping field of pits,
// mounds, trees and stones, and saves the field it ends up with.
package main

import (
	"os"

	"src.movdino.sh/pkg/buildinfo"
	"src.movdino.sh/pkg/lsp"
	"src.movdino.sh/pkg/prog"
	"src.movdino.sh/pkg/runner"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(&buildinfo.Program{}, &lsp.Program{}, &runner.Program{})))
}
