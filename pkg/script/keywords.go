package script

import "sort"

// Kind identifies a command.
type Kind uint8

const (
	Size Kind = iota
	Load
	Start
	Move
	Jump
	Paint
	Dig
	Mound
	Grow
	Make
	Cut
	Push
	Exec
	Undo
	If
)

var kindNames = [...]string{
	Size: "SIZE", Load: "LOAD", Start: "START", Move: "MOVE", Jump: "JUMP",
	Paint: "PAINT", Dig: "DIG", Mound: "MOUND", Grow: "GROW", Make: "MAKE",
	Cut: "CUT", Push: "PUSH", Exec: "EXEC", Undo: "UNDO", If: "IF",
}

// String returns the keyword of the command.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "?"
}

// Undoable reports whether a snapshot of the field is taken before the
// command runs.
func (k Kind) Undoable() bool {
	switch k {
	case Size, Load, Exec, Undo, If:
		return false
	}
	return true
}

type argKind uint8

const (
	argInt argKind = iota
	argDir
	argChar
	argPath
)

type param struct {
	name string
	kind argKind
}

type keyword struct {
	kind   Kind
	params []param
	// Overrides the usage generated from params.
	usage string
	doc   string
}

var (
	dirParam  = param{"direction", argDir}
	pathParam = param{"path", argPath}
)

var keywords = map[string]*keyword{
	"SIZE": {kind: Size, params: []param{{"width", argInt}, {"height", argInt}},
		doc: "Creates an empty field. Both sides must be from 10 to 100. " +
			"Must come before any other command except EXEC."},
	"LOAD": {kind: Load, params: []param{pathParam},
		doc: "Loads a field and the position of the dinosaur from a file " +
			"written by an earlier run. Replaces SIZE and START."},
	"START": {kind: Start, params: []param{{"x", argInt}, {"y", argInt}},
		doc: "Puts the dinosaur on the field. Coordinates wrap around."},
	"MOVE": {kind: Move, params: []param{dirParam},
		doc: "Walks one step. Mounds, trees and stones block the way; " +
			"walking into a pit ends the script."},
	"JUMP": {kind: Jump, params: []param{dirParam, {"n", argInt}},
		doc: "Flies up to n steps, over pits. An obstacle shortens the " +
			"jump; landing in a pit ends the script."},
	"PAINT": {kind: Paint, params: []param{{"color", argChar}},
		doc: "Paints the current cell with a lowercase letter."},
	"DIG": {kind: Dig, params: []param{dirParam},
		doc: "Digs a pit on the empty neighboring cell."},
	"MOUND": {kind: Mound, params: []param{dirParam},
		doc: "Raises a mound on the empty neighboring cell, or fills a pit there."},
	"GROW": {kind: Grow, params: []param{dirParam},
		doc: "Grows a tree on the empty neighboring cell."},
	"MAKE": {kind: Make, params: []param{dirParam},
		doc: "Puts a stone on the empty neighboring cell."},
	"CUT": {kind: Cut, params: []param{dirParam},
		doc: "Cuts down the tree on the neighboring cell."},
	"PUSH": {kind: Push, params: []param{dirParam},
		doc: "Pushes the stone on the neighboring cell one step further. " +
			"A stone pushed into a pit fills it."},
	"EXEC": {kind: Exec, params: []param{pathParam},
		doc: "Runs another script file on the same field."},
	"UNDO": {kind: Undo,
		doc: "Reverts the last command that changed the field."},
	"IF": {kind: If,
		usage: "IF CELL <x> <y> IS <char> THEN <command>",
		doc: "Runs the command if the cell at (x, y) shows the character: " +
			"its terrain, or its color if it is empty and painted."},
}

// Keywords returns all command keywords, sorted.
func Keywords() []string {
	names := make([]string, 0, len(keywords))
	for name := range keywords {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Usage returns the synopsis of a command, like "MOVE <direction>". It
// returns "" for unknown keywords.
func Usage(name string) string {
	kw, ok := keywords[name]
	if !ok {
		return ""
	}
	if kw.usage != "" {
		return kw.usage
	}
	usage := name
	for _, p := range kw.params {
		usage += " <" + p.name + ">"
	}
	return usage
}

// Doc returns the description of a command, or "" for unknown keywords.
func Doc(name string) string {
	if kw, ok := keywords[name]; ok {
		return kw.doc
	}
	return ""
}

// TakesDir reports whether the i-th argument of a command, counting from 0,
// is a direction.
func TakesDir(name string, i int) bool {
	kw, ok := keywords[name]
	return ok && i >= 0 && i < len(kw.params) && kw.params[i].kind == argDir
}
