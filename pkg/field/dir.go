package field

// Pos is a position on the field.
type Pos struct{ X, Y int }

// Add returns the sum of two positions.
func (p Pos) Add(q Pos) Pos { return Pos{p.X + q.X, p.Y + q.Y} }

// Mul returns p scaled by n.
func (p Pos) Mul(n int) Pos { return Pos{p.X * n, p.Y * n} }

// Dir is one of the four cardinal directions.
type Dir uint8

const (
	Up Dir = iota
	Down
	Left
	Right
)

var dirNames = [...]string{Up: "UP", Down: "DOWN", Left: "LEFT", Right: "RIGHT"}

var dirDeltas = [...]Pos{
	Up:    {0, -1},
	Down:  {0, 1},
	Left:  {-1, 0},
	Right: {1, 0},
}

// DirNames lists the spelling of all directions, in declaration order.
func DirNames() []string { return dirNames[:] }

func (d Dir) String() string {
	if int(d) < len(dirNames) {
		return dirNames[d]
	}
	return "?"
}

// Delta returns the unit vector of the direction. The y axis points down.
func (d Dir) Delta() Pos { return dirDeltas[d] }

// ParseDir parses the upper-case name of a direction.
func ParseDir(s string) (Dir, bool) {
	for d, name := range dirNames {
		if name == s {
			return Dir(d), true
		}
	}
	return 0, false
}
