// Package logutil provides logging utilities.
//
// All loggers share one underlying logrus logger, whose output is discarded
// until SetOutput or SetOutputFile is called.
package logutil

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	root    = newRoot()
	outFile *os.File
)

func newRoot() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	return l
}

// GetLogger gets a logger for a component. The prefix is conventionally a
// bracketed name followed by a space, like "[script] "; it is recorded in the
// "component" field with the brackets and spaces stripped.
func GetLogger(prefix string) *logrus.Entry {
	return root.WithField("component", strings.Trim(prefix, "[] "))
}

// SetOutput redirects the output of all loggers obtained with GetLogger to
// the new io.Writer. If the old output was a file opened by SetOutputFile, it
// is closed.
func SetOutput(newout io.Writer) {
	root.SetOutput(newout)
	if outFile != nil {
		outFile.Close()
		outFile = nil
	}
}

// SetOutputFile redirects the output of all loggers obtained with GetLogger to
// the named file. If the old output was a file opened by SetOutputFile, it is
// closed. The new file is truncated. SetOutputFile("") is equivalent to
// SetOutput(io.Discard).
func SetOutputFile(fname string) error {
	if fname == "" {
		SetOutput(io.Discard)
		return nil
	}
	file, err := os.Create(fname)
	if err != nil {
		return err
	}
	SetOutput(file)
	outFile = file
	return nil
}
