package diag

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"src.movdino.sh/pkg/testutil"
)

func TestError(t *testing.T) {
	setCulpritMarkers(t, "<", ">")
	setMessageMarkers(t, "{", "}")

	err := &Error{
		Type:    "parse error",
		Message: "bad direction",
		Context: *contextInParen("[test]", "MOVE (UPP)"),
	}

	wantErrorString := "parse error: [test]:1:6: bad direction"
	if gotErrorString := err.Error(); gotErrorString != wantErrorString {
		t.Errorf("Error() -> %q, want %q", gotErrorString, wantErrorString)
	}

	wantRanging := Ranging{From: 5, To: 10}
	if gotRanging := err.Range(); gotRanging != wantRanging {
		t.Errorf("Range() -> %v, want %v", gotRanging, wantRanging)
	}

	// Type is capitalized in return value of Show
	wantShow := testutil.Dedent(`
		Parse error: {bad direction}
		  [test]:1:6: MOVE <(UPP)>`)
	if gotShow := err.Show(""); gotShow != wantShow {
		t.Errorf("Show() -> %q, want %q", gotShow, wantShow)
	}
}

func TestPackAndUnpackErrors(t *testing.T) {
	e1 := &Error{Type: "parse error", Message: "a", Context: *NewContext("x", "ab", Ranging{0, 1})}
	e2 := &Error{Type: "parse error", Message: "b", Context: *NewContext("x", "ab", Ranging{1, 2})}

	if err := PackErrors(nil); err != nil {
		t.Errorf("PackErrors(nil) -> %v, want nil", err)
	}
	if err := PackErrors([]*Error{e1}); err != e1 {
		t.Errorf("PackErrors with one error -> %v, want the error itself", err)
	}
	packed := PackErrors([]*Error{e1, e2})
	wantMsg := "multiple errors: parse error: x:1:1: a; parse error: x:1:2: b"
	if packed.Error() != wantMsg {
		t.Errorf("Error() -> %q, want %q", packed.Error(), wantMsg)
	}
	if diff := cmp.Diff([]*Error{e1, e2}, UnpackErrors(packed),
		cmp.AllowUnexported(Context{})); diff != "" {
		t.Errorf("UnpackErrors (-want +got):\n%s", diff)
	}
	if UnpackErrors(errors.New("plain")) != nil {
		t.Errorf("UnpackErrors of a plain error should be nil")
	}
}
