package diag

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Error represents an error with context that can be showed.
type Error struct {
	Type    string
	Message string
	Context Context
}

// Variables controlling the style of the message.
var (
	messageStart = "\033[31;1m"
	messageEnd   = "\033[m"
)

// Error returns a plain text representation of the error.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Type, e.Context.describeStart(), e.Message)
}

// Range returns the range of the error.
func (e *Error) Range() Ranging {
	return e.Context.Range()
}

// Show shows the error.
func (e *Error) Show(indent string) string {
	header := fmt.Sprintf("%s: %s%s%s\n", title(e.Type), messageStart, e.Message, messageEnd)
	return header + indent + "  " + e.Context.ShowCompact(indent+"  ")
}

func title(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size == 0 {
		return s
	}
	return string(unicode.ToTitle(r)) + s[size:]
}

// Errors combines multiple *Error values sharing one source, such as all the
// syntax errors found in a script.
type Errors []*Error

// Error returns all the messages, separated by "; ".
func (es Errors) Error() string {
	var sb strings.Builder
	sb.WriteString("multiple errors: ")
	for i, e := range es {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(e.Error())
	}
	return sb.String()
}

// Show shows all the errors, one after another.
func (es Errors) Show(indent string) string {
	var sb strings.Builder
	for i, e := range es {
		if i > 0 {
			sb.WriteString("\n" + indent)
		}
		sb.WriteString(e.Show(indent))
	}
	return sb.String()
}

// PackErrors returns nil if es is empty, the only element if es has just one
// element, and an Errors otherwise.
func PackErrors(es []*Error) error {
	switch len(es) {
	case 0:
		return nil
	case 1:
		return es[0]
	default:
		return Errors(es)
	}
}

// UnpackErrors is the inverse of PackErrors. It returns nil for any error
// that was not produced by PackErrors.
func UnpackErrors(err error) []*Error {
	switch err := err.(type) {
	case *Error:
		return []*Error{err}
	case Errors:
		return err
	default:
		return nil
	}
}
