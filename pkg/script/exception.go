package script

import (
	"bytes"
	"fmt"

	"src.movdino.sh/pkg/diag"
)

// Exception is a fatal error raised while running a script, together with
// the script lines that led to it.
type Exception struct {
	Reason     error
	StackTrace *StackTrace
}

// StackTrace is a linked list of diag.Context. The head is the innermost
// entry: the line that failed, followed by the EXEC lines that led to it.
type StackTrace struct {
	Head *diag.Context
	Next *StackTrace
}

// Reason returns the Reason field if err is an *Exception. Otherwise it
// returns err itself.
func Reason(err error) error {
	if exc, ok := err.(*Exception); ok {
		return exc.Reason
	}
	return err
}

// Error returns the message of the reason of the exception.
func (exc *Exception) Error() string { return exc.Reason.Error() }

// Unwrap returns the reason of the exception.
func (exc *Exception) Unwrap() error { return exc.Reason }

// Show shows the exception.
func (exc *Exception) Show(indent string) string {
	buf := new(bytes.Buffer)

	var causeDescription string
	if shower, ok := exc.Reason.(diag.Shower); ok {
		causeDescription = shower.Show(indent)
	} else {
		causeDescription = "\033[31;1m" + exc.Reason.Error() + "\033[m"
	}
	fmt.Fprintf(buf, "Exception: %s", causeDescription)

	if exc.StackTrace != nil {
		buf.WriteString("\n")
		if exc.StackTrace.Next == nil {
			buf.WriteString(exc.StackTrace.Head.ShowCompact(indent))
		} else {
			buf.WriteString(indent + "Traceback:")
			for tb := exc.StackTrace; tb != nil; tb = tb.Next {
				buf.WriteString("\n" + indent + "  ")
				buf.WriteString(tb.Head.Show(indent + "    "))
			}
		}
	}
	return buf.String()
}

// NestingError is raised when EXEC and IF are nested too deeply.
type NestingError struct {
	Max int
}

func (e NestingError) Error() string {
	return fmt.Sprintf("EXEC and IF nested deeper than %d levels", e.Max)
}
