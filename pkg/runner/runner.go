// Package runner implements the main subprogram of movdino: running a script
// and saving the field it leaves behind.
package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"src.movdino.sh/pkg/diag"
	"src.movdino.sh/pkg/display"
	"src.movdino.sh/pkg/fieldio"
	"src.movdino.sh/pkg/history"
	"src.movdino.sh/pkg/logutil"
	"src.movdino.sh/pkg/prog"
	"src.movdino.sh/pkg/rc"
	"src.movdino.sh/pkg/script"
)

var logger = logutil.GetLogger("[runner] ")

// Program is the script runner subprogram.
type Program struct {
	interval  secondsFlag
	noDisplay bool
	noSave    bool
	check     bool
	rcPath    string
	json      *bool
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.Var(&p.interval, "interval",
		"seconds to pause after showing each frame; overrides the config file")
	fs.BoolVar(&p.noDisplay, "no-display", false, "do not show the field after each command")
	fs.BoolVar(&p.noSave, "no-save", false, "do not write the output file")
	fs.BoolVar(&p.check, "check", false, "only check the syntax of the script")
	fs.StringVar(&p.rcPath, "rc", "", "path to the config file")
	p.json = fs.JSON()
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	if p.check {
		if len(args) != 1 {
			return prog.BadUsage("-check needs exactly one input-script")
		}
		return p.checkScript(fds, args[0])
	}
	if len(args) != 2 {
		return prog.BadUsage("need input-script and output-file")
	}
	cfg, err := p.config()
	if err != nil {
		return prog.BadUsage(err.Error())
	}
	return run(fds, args[0], args[1], cfg)
}

// Loads the config file, and applies the command-line flags on top of it.
func (p *Program) config() (rc.Config, error) {
	path, explicit := p.rcPath, p.rcPath != ""
	if !explicit {
		var err error
		path, err = rc.DefaultPath()
		if err != nil {
			logger.Debugf("cannot find default config file: %v", err)
			return p.override(rc.Default()), nil
		}
	}
	cfg, err := rc.Load(path, explicit)
	if err != nil {
		return rc.Config{}, err
	}
	return p.override(cfg), nil
}

func (p *Program) override(cfg rc.Config) rc.Config {
	if p.interval.set {
		cfg.Interval = p.interval.d
	}
	if p.noDisplay {
		cfg.Display = false
	}
	if p.noSave {
		cfg.Save = false
	}
	return cfg
}

func run(fds [3]*os.File, input, output string, cfg rc.Config) error {
	it := script.NewInterpreter()
	it.History = history.New(cfg.UndoDepth)
	it.MaxNesting = cfg.MaxNesting
	it.Warnings = fds[2]
	var term *display.Terminal
	if cfg.Display {
		term = display.NewTerminal(fds[1], fds[2],
			display.Options{Interval: cfg.Interval, Color: cfg.Color})
		it.Display = term
		defer func() { logger.Debugf("showed %d frames", term.Frames()) }()
	}
	logger.Debugf("running %s, keeping up to %d undo snapshots", input, it.History.Depth())

	if err := it.ExecFile(input); err != nil {
		logger.Debugf("%s failed: %v", input, err)
		diag.ShowError(fds[2], err)
		return prog.Exit(1)
	}
	if !cfg.Save {
		return nil
	}
	err := fieldio.SaveFile(output, it.Field)
	switch {
	case errors.Is(err, fieldio.ErrIncomplete):
		fmt.Fprintf(fds[2], "Warning: %s not written: %v\n", output, err)
	case err != nil:
		diag.Complainf(fds[2], "cannot save field to %s: %v", output, err)
		return prog.Exit(1)
	}
	return nil
}

func (p *Program) checkScript(fds [3]*os.File, input string) error {
	src, err := script.ReadFile(input)
	if err != nil {
		diag.Complainf(fds[2], "cannot read script %q: %v", input, err)
		return prog.Exit(1)
	}
	err = script.Check(src)
	if *p.json {
		fmt.Fprintf(fds[1], "%s\n", errorsToJSON(err))
	} else if err != nil {
		diag.ShowError(fds[2], err)
	}
	if err != nil {
		return prog.Exit(1)
	}
	return nil
}

// A flag.Value for a non-negative number of seconds, remembering whether it
// was set.
type secondsFlag struct {
	d   time.Duration
	set bool
}

func (f *secondsFlag) String() string {
	if !f.set {
		return ""
	}
	return strconv.FormatFloat(f.d.Seconds(), 'f', -1, 64)
}

func (f *secondsFlag) Set(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return fmt.Errorf("must be a non-negative number of seconds")
	}
	f.d = time.Duration(v * float64(time.Second))
	f.set = true
	return nil
}
