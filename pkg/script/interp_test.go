package script

import (
	"bytes"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"src.movdino.sh/pkg/diag"
	"src.movdino.sh/pkg/errs"
	"src.movdino.sh/pkg/field"
	"src.movdino.sh/pkg/fieldio"
	"src.movdino.sh/pkg/history"
	"src.movdino.sh/pkg/terrain"
	"src.movdino.sh/pkg/testutil"
)

// Records every frame shown.
type frames struct{ shots []string }

func (fr *frames) Refresh(f *field.Field) { fr.shots = append(fr.shots, f.String()) }

type fixture struct {
	*Interpreter
	frames   *frames
	warnings *bytes.Buffer
}

func setup() fixture {
	it := NewInterpreter()
	fr := &frames{}
	warnings := &bytes.Buffer{}
	it.Display = fr
	it.Warnings = warnings
	return fixture{it, fr, warnings}
}

func (fx fixture) run(code string) error {
	return fx.ExecSource(Source{Name: "test", Code: code})
}

func (fx fixture) mustRun(t *testing.T, code string) {
	t.Helper()
	if err := fx.run(code); err != nil {
		t.Fatalf("run -> %v", err)
	}
}

func (fx fixture) checkRows(t *testing.T, want ...string) {
	t.Helper()
	var got []string
	for y := range want {
		got = append(got, fx.Field.Row(y))
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rows (-want +got):\n%s", diff)
	}
}

func (fx fixture) checkAgent(t *testing.T, x, y int) {
	t.Helper()
	if want := (field.Pos{X: x, Y: y}); fx.Field.Agent != want {
		t.Errorf("agent at %v, want %v", fx.Field.Agent, want)
	}
}

func TestExec_MovesAndTerraforms(t *testing.T) {
	fx := setup()
	fx.mustRun(t, `
SIZE 10 10
START 0 0
MOVE RIGHT
GROW DOWN
DIG LEFT
PAINT c
MOVE RIGHT
`)
	fx.checkRows(t,
		"%c#_______",
		"_&________",
	)
	if n := len(fx.frames.shots); n != 7 {
		t.Errorf("got %d frames, want 7", n)
	}
	if last := fx.frames.shots[len(fx.frames.shots)-1]; last != fx.Field.String() {
		t.Errorf("last frame is not the final field")
	}
}

func TestExec_CoordinatesWrap(t *testing.T) {
	fx := setup()
	fx.mustRun(t, "SIZE 10 12\nSTART 23 -1\nMOVE RIGHT\nJUMP DOWN 3")
	fx.checkAgent(t, 4, 2)
}

func TestExecLine(t *testing.T) {
	it := NewInterpreter()
	for _, line := range []string{"SIZE 10 10", "START 2 2", "MOVE UP"} {
		if err := it.ExecLine(line); err != nil {
			t.Fatalf("ExecLine(%q) -> %v", line, err)
		}
	}
	if it.Field.Agent != (field.Pos{X: 2, Y: 1}) {
		t.Errorf("agent at %v", it.Field.Agent)
	}
}

var stateMismatchTests = []struct {
	code string
	want errs.StateMismatch
}{
	{"MOVE UP", errs.StateMismatch{What: "MOVE", Valid: "started", Actual: "unsized"}},
	{"START 1 1", errs.StateMismatch{What: "START", Valid: "sized", Actual: "unsized"}},
	{"SIZE 10 10\nSIZE 10 10", errs.StateMismatch{What: "SIZE", Valid: "unsized", Actual: "sized"}},
	{"SIZE 10 10\nLOAD x.txt", errs.StateMismatch{What: "LOAD", Valid: "unsized", Actual: "sized"}},
	{"SIZE 10 10\nPAINT a", errs.StateMismatch{What: "PAINT", Valid: "started", Actual: "sized"}},
	{"SIZE 10 10\nSTART 1 1\nSTART 2 2", errs.StateMismatch{What: "START", Valid: "sized", Actual: "started"}},
	{"SIZE 10 10\nSTART 1 1\nSIZE 20 20", errs.StateMismatch{What: "SIZE", Valid: "unsized", Actual: "started"}},
	{"IF CELL 0 0 IS _ THEN SIZE 10 10", errs.StateMismatch{What: "IF", Valid: "started", Actual: "unsized"}},
}

func TestExec_StateMismatch(t *testing.T) {
	for _, test := range stateMismatchTests {
		fx := setup()
		err := fx.run(test.code)
		var got errs.StateMismatch
		if !errors.As(err, &got) {
			t.Errorf("%q -> %v, want StateMismatch", test.code, err)
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("%q -> (-want +got):\n%s", test.code, diff)
		}
	}
}

func TestExec_BadSize(t *testing.T) {
	fx := setup()
	err := fx.run("SIZE 9 100")
	var oor errs.OutOfRange
	if !errors.As(err, &oor) || oor.What != "width" {
		t.Errorf("got %v, want width out of range", err)
	}
	if fx.Field.Sized {
		t.Errorf("field sized after failed SIZE")
	}
}

func TestExec_ParseErrorStopsBeforeLaterLines(t *testing.T) {
	fx := setup()
	err := fx.run("SIZE 10 10\nSTART 0 0\nMOVE NORTH\nMOVE DOWN")
	var parseErr *diag.Error
	if !errors.As(err, &parseErr) {
		t.Fatalf("got %v, want parse error", err)
	}
	if line := parseErr.Context.Line(); line != 3 {
		t.Errorf("parse error on line %d, want 3", line)
	}
	fx.checkAgent(t, 0, 0)
}

func TestExec_FallingIsFatal(t *testing.T) {
	fx := setup()
	err := fx.run("SIZE 10 10\nSTART 0 0\nDIG RIGHT\nMOVE RIGHT\nMOVE DOWN")
	var fall *terrain.FallError
	if !errors.As(err, &fall) {
		t.Fatalf("got %v, want FallError", err)
	}
	if fall.At != (field.Pos{X: 1, Y: 0}) || fall.Jump {
		t.Errorf("got %+v", fall)
	}
	exc := err.(*Exception)
	if line := exc.StackTrace.Head.Line(); line != 4 || exc.StackTrace.Next != nil {
		t.Errorf("stack trace head on line %d, next %v", line, exc.StackTrace.Next)
	}
	fx.checkAgent(t, 0, 0)
	if !strings.Contains(exc.Show(""), "test:4:1: ") {
		t.Errorf("Show() = %q, want position test:4:1", exc.Show(""))
	}
}

func TestExec_JumpLandingInPitIsFatal(t *testing.T) {
	fx := setup()
	fx.mustRun(t, "SIZE 10 10\nSTART 0 0\nDIG RIGHT\nJUMP RIGHT 2")
	fx.checkAgent(t, 2, 0)
	err := fx.run("JUMP LEFT 1")
	var fall *terrain.FallError
	if !errors.As(err, &fall) || !fall.Jump {
		t.Errorf("got %v, want FallError from a jump", err)
	}
}

func TestExec_BlockedCommandsWarn(t *testing.T) {
	fx := setup()
	fx.mustRun(t, `SIZE 10 10
START 0 0
GROW UP
MOVE UP
CUT DOWN
PUSH LEFT
MAKE UP`)
	want := "Warning: test:4: movement UP is blocked by a tree\n" +
		"Warning: test:5: nothing to cut DOWN\n" +
		"Warning: test:6: nothing to push LEFT\n" +
		"Warning: test:7: cannot create a stone UP: the cell holds a tree\n"
	if diff := cmp.Diff(want, fx.warnings.String()); diff != "" {
		t.Errorf("warnings (-want +got):\n%s", diff)
	}
	if n := len(fx.frames.shots); n != 7 {
		t.Errorf("got %d frames, want 7", n)
	}
}

func TestExec_JumpZeroAndBadPaintAreNoOps(t *testing.T) {
	fx := setup()
	fx.mustRun(t, "SIZE 10 10\nSTART 0 0")
	before := fx.Field.Clone()
	fx.mustRun(t, "JUMP UP 0\nJUMP LEFT -2\nPAINT A\nPAINT é\nPAINT _")
	if !fx.Field.Equal(before) {
		t.Errorf("field changed:\n%s", fx.Field)
	}
	// Non-positive jumps are silent.
	want := "Warning: test:3: bad value: paint color must be a lowercase letter, but is 'A'\n" +
		"Warning: test:4: bad value: paint color must be a lowercase letter, but is 'é'\n" +
		"Warning: test:5: bad value: paint color must be a lowercase letter, but is '_'\n"
	if diff := cmp.Diff(want, fx.warnings.String()); diff != "" {
		t.Errorf("warnings (-want +got):\n%s", diff)
	}
}

func TestExec_Undo(t *testing.T) {
	fx := setup()
	fx.mustRun(t, "SIZE 10 10\nSTART 0 0\nMOVE RIGHT\nPAINT k\nMAKE DOWN")
	fx.checkRows(t, "_#________", "_@________")

	fx.mustRun(t, "UNDO")
	fx.checkRows(t, "_#________", "__________")
	fx.mustRun(t, "MOVE LEFT")
	fx.checkRows(t, "#k________")
	fx.mustRun(t, "UNDO\nUNDO\nUNDO")
	fx.checkRows(t, "#_________")
	fx.checkAgent(t, 0, 0)

	fx.mustRun(t, "UNDO")
	if s := StateOf(fx.Field); s != Sized {
		t.Errorf("state after undoing START = %v, want sized", s)
	}
	fx.mustRun(t, "START 4 4")
	fx.checkAgent(t, 4, 4)
	if fx.warnings.Len() != 0 {
		t.Errorf("unexpected warnings: %s", fx.warnings)
	}
}

func TestExec_UndoPastStartOnlyWarns(t *testing.T) {
	fx := setup()
	fx.mustRun(t, "SIZE 10 10\nSTART 0 0\nMOVE RIGHT\nUNDO\nUNDO\nUNDO")
	if s := StateOf(fx.Field); s != Sized {
		t.Errorf("state = %v, want sized", s)
	}
	want := "Warning: test:6: nothing to undo\n"
	if diff := cmp.Diff(want, fx.warnings.String()); diff != "" {
		t.Errorf("warnings (-want +got):\n%s", diff)
	}
}

func TestExec_UndoBeforeSizeOnlyWarns(t *testing.T) {
	fx := setup()
	fx.mustRun(t, "UNDO\nSIZE 10 10")
	if s := StateOf(fx.Field); s != Sized {
		t.Errorf("state = %v, want sized", s)
	}
	want := "Warning: test:1: nothing to undo\n"
	if diff := cmp.Diff(want, fx.warnings.String()); diff != "" {
		t.Errorf("warnings (-want +got):\n%s", diff)
	}
}

func TestExec_UndoRefreshesAndDoesNotPush(t *testing.T) {
	fx := setup()
	fx.mustRun(t, "SIZE 10 10\nSTART 0 0\nMOVE DOWN")
	n := len(fx.frames.shots)
	fx.mustRun(t, "UNDO")
	if got := len(fx.frames.shots); got != n+1 {
		t.Errorf("UNDO made %d frames, want 1", got-n)
	}
	if fx.History.Len() != 1 {
		t.Errorf("history has %d snapshots, want 1", fx.History.Len())
	}
}

func TestExec_FullHistoryRefusesNewest(t *testing.T) {
	fx := setup()
	fx.History = history.New(2)
	fx.mustRun(t, "SIZE 10 10\nSTART 0 0\nMOVE RIGHT\nMOVE RIGHT\nUNDO")
	fx.checkAgent(t, 0, 0)
	fx.mustRun(t, "UNDO")
	if s := StateOf(fx.Field); s != Sized {
		t.Errorf("state = %v, want sized", s)
	}
}

func TestExec_If(t *testing.T) {
	fx := setup()
	fx.mustRun(t, "SIZE 10 10\nSTART 0 0")

	fx.mustRun(t, "IF CELL 0 0 IS # THEN MOVE DOWN")
	fx.checkAgent(t, 0, 1)
	if fx.History.Len() != 2 || len(fx.frames.shots) != 3 {
		t.Errorf("true IF: %d snapshots and %d frames, want 2 and 3",
			fx.History.Len(), len(fx.frames.shots))
	}

	fx.mustRun(t, "IF CELL 5 5 IS % THEN MOVE DOWN")
	fx.checkAgent(t, 0, 1)
	if fx.History.Len() != 2 || len(fx.frames.shots) != 4 {
		t.Errorf("false IF: %d snapshots and %d frames, want 2 and 4",
			fx.History.Len(), len(fx.frames.shots))
	}

	fx.mustRun(t, "PAINT x\nMOVE RIGHT\nIF CELL 10 -9 IS x THEN GROW LEFT")
	if c := fx.Field.At(field.Pos{X: 0, Y: 1}); c != (field.Cell{Terrain: field.Tree, Color: 'x'}) {
		t.Errorf("cell (0, 1) = %+v, want painted tree", c)
	}
	fx.mustRun(t, "IF CELL 0 1 IS x THEN GROW UP\nIF CELL 0 1 IS é THEN GROW UP")
	if c := fx.Field.At(field.Pos{X: 1, Y: 0}); c.Terrain != field.Empty {
		t.Errorf("false IF ran its command")
	}

	fx.mustRun(t, "IF CELL 1 1 IS # THEN IF CELL 0 1 IS & THEN UNDO")
	if c := fx.Field.At(field.Pos{X: 0, Y: 1}); c.Terrain != field.Empty {
		t.Errorf("nested IF did not undo GROW")
	}
}

func TestExec_IfFailureIsRaisedAtInnerCommand(t *testing.T) {
	fx := setup()
	fx.mustRun(t, "SIZE 10 10\nSTART 0 0\nDIG UP")
	err := fx.run("IF CELL 0 0 IS # THEN MOVE UP")
	exc, ok := err.(*Exception)
	if !ok {
		t.Fatalf("got %v, want *Exception", err)
	}
	ctx := exc.StackTrace.Head
	if culprit := ctx.Source[ctx.From:ctx.To]; culprit != "MOVE UP" {
		t.Errorf("culprit = %q, want MOVE UP", culprit)
	}
}

func TestExec_NestingGuard(t *testing.T) {
	fx := setup()
	fx.MaxNesting = 1
	fx.mustRun(t, "SIZE 10 10\nSTART 0 0\nIF CELL 0 0 IS # THEN MOVE DOWN")
	err := fx.run("IF CELL 0 1 IS # THEN IF CELL 0 1 IS # THEN MOVE DOWN")
	if !errors.As(err, &NestingError{}) {
		t.Errorf("got %v, want NestingError", err)
	}
	fx.checkAgent(t, 0, 1)
}

func TestExec_Exec(t *testing.T) {
	testutil.InTempDir(t)
	testutil.ApplyDir(testutil.Dir{
		"init.txt": "SIZE 12 11\nSTART 3 3\n",
		"sub.txt":  "// walk\nMOVE RIGHT\nMOVE RIGHT\n",
		"main.txt": "EXEC init.txt\nEXEC sub.txt\nMOVE DOWN\n",
	})
	fx := setup()
	if err := fx.ExecFile("main.txt"); err != nil {
		t.Fatalf("ExecFile -> %v", err)
	}
	if fx.Field.Width != 12 || fx.Field.Height != 11 {
		t.Errorf("size %dx%d, want 12x11", fx.Field.Width, fx.Field.Height)
	}
	fx.checkAgent(t, 5, 4)
	// SIZE, START, EXEC, MOVE, MOVE, EXEC, MOVE
	if n := len(fx.frames.shots); n != 7 {
		t.Errorf("got %d frames, want 7", n)
	}
	// EXEC itself is not undoable, the commands it runs are.
	if fx.History.Len() != 4 {
		t.Errorf("history has %d snapshots, want 4", fx.History.Len())
	}
}

func TestExec_ExecFailureHasTraceback(t *testing.T) {
	testutil.InTempDir(t)
	testutil.ApplyDir(testutil.Dir{
		"bad.txt":  "MOVE LEFT\nDIG UP\nMOVE UP\n",
		"mid.txt":  "\nEXEC bad.txt\n",
		"main.txt": "SIZE 10 10\nSTART 5 5\nEXEC mid.txt\n",
	})
	fx := setup()
	err := fx.ExecFile("main.txt")
	exc, ok := err.(*Exception)
	if !ok {
		t.Fatalf("got %v, want *Exception", err)
	}
	type frame struct {
		Name string
		Line int
	}
	var got []frame
	for tb := exc.StackTrace; tb != nil; tb = tb.Next {
		got = append(got, frame{tb.Head.Name, tb.Head.Line()})
	}
	want := []frame{{"bad.txt", 3}, {"mid.txt", 2}, {"main.txt", 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("traceback (-want +got):\n%s", diff)
	}
	if !strings.Contains(exc.Show(""), "Traceback:") {
		t.Errorf("Show() has no traceback:\n%s", exc.Show(""))
	}
}

func TestExec_ExecErrors(t *testing.T) {
	testutil.InTempDir(t)
	testutil.ApplyDir(testutil.Dir{
		"typo.txt": "SIZE 10\n",
		"loop.txt": "EXEC loop.txt\n",
	})

	fx := setup()
	err := fx.run("EXEC typo.txt")
	var parseErr *diag.Error
	if !errors.As(err, &parseErr) || parseErr.Context.Name != "typo.txt" {
		t.Errorf("got %v, want parse error in typo.txt", err)
	} else if head := err.(*Exception).StackTrace.Head; head.Name != "test" {
		t.Errorf("stack trace head in %s, want test", head.Name)
	}

	err = setup().run("EXEC nonexistent.txt")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("got %v, want ErrNotExist", err)
	}

	fx = setup()
	fx.MaxNesting = 5
	err = fx.run("EXEC loop.txt")
	var nesting NestingError
	if !errors.As(err, &nesting) || nesting.Max != 5 {
		t.Errorf("got %v, want NestingError", err)
	}
}

func TestExec_Load(t *testing.T) {
	testutil.InTempDir(t)
	testutil.ApplyDir(testutil.Dir{
		"world.txt": "10 10\n" + "%_________\n" + "_#________\n" +
			strings.Repeat("__________\n", 8) + "DINO 1 1\n",
		"broken.txt": "10 10\n__\n",
	})

	fx := setup()
	fx.mustRun(t, "LOAD world.txt\nUNDO\nMOVE UP")
	fx.checkRows(t, "%#________", "__________")
	if !strings.Contains(fx.warnings.String(), "nothing to undo") {
		t.Errorf("warnings = %q, want nothing to undo", fx.warnings)
	}

	err := setup().run("LOAD world.txt\nSTART 0 0")
	var sm errs.StateMismatch
	if !errors.As(err, &sm) {
		t.Errorf("START after LOAD -> %v, want StateMismatch", err)
	}

	err = setup().run("LOAD broken.txt")
	var loadErr *fieldio.Error
	if !errors.As(err, &loadErr) {
		t.Errorf("LOAD broken.txt -> %v, want *fieldio.Error", err)
	}

	err = setup().run("LOAD nonexistent.txt")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("LOAD nonexistent.txt -> %v, want ErrNotExist", err)
	}
}

func TestReason(t *testing.T) {
	reason := errors.New("boom")
	if got := Reason(&Exception{Reason: reason}); got != reason {
		t.Errorf("Reason(exception) = %v", got)
	}
	if got := Reason(reason); got != reason {
		t.Errorf("Reason(plain error) = %v", got)
	}
}
