// Package tt runs a function against a table of arguments and expected
// return values:
//
//	tt.Test(t, tt.Fn("Wrap", f.Wrap), tt.Table{
//		tt.Args(-1, 0).Rets(9, 0),
//	})
package tt

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Table is a list of test cases.
type Table []*Case

// Case holds the arguments of one call and the return values it must produce.
type Case struct {
	args []any
	rets [][]any
}

// Args starts a Case.
func Args(args ...any) *Case { return &Case{args: args} }

// Rets adds a set of expected return values and returns c. Values are
// compared with cmp.Equal; errors are compared with errors.Is. Calling Rets
// more than once requires all sets to match.
func (c *Case) Rets(rets ...any) *Case {
	c.rets = append(c.rets, rets)
	return c
}

// FnToTest is a function with the name used in failure messages.
type FnToTest struct {
	name string
	body any
}

// Fn wraps a function to be passed to Test.
func Fn(name string, body any) *FnToTest { return &FnToTest{name, body} }

// T is the part of *testing.T used by Test.
type T interface {
	Helper()
	Errorf(format string, args ...any)
}

// Test calls fn with the arguments of each case and reports mismatching
// return values.
func Test(t T, fn *FnToTest, tests Table) {
	t.Helper()
	for _, test := range tests {
		rets := call(fn.body, test.args)
		for _, want := range test.rets {
			if !cmp.Equal(want, rets, cmpopts.EquateErrors()) {
				t.Errorf("%s(%s) returns (-want +got):\n%s",
					fn.name, sprintArgs(test.args), cmp.Diff(want, rets, cmpopts.EquateErrors()))
			}
		}
	}
}

func sprintArgs(args []any) string {
	strs := make([]string, len(args))
	for i, arg := range args {
		strs[i] = fmt.Sprint(arg)
	}
	return strings.Join(strs, ", ")
}

func call(fn any, args []any) []any {
	fnType := reflect.TypeOf(fn)
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		if arg == nil {
			// A nil argument stands for the zero value of the parameter.
			in[i] = reflect.Zero(fnType.In(i))
		} else {
			in[i] = reflect.ValueOf(arg)
		}
	}
	out := reflect.ValueOf(fn).Call(in)
	rets := make([]any, len(out))
	for i, v := range out {
		rets[i] = v.Interface()
	}
	return rets
}
