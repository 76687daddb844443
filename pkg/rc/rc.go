// Package rc reads the configuration file.
//
// The file is YAML; every key is optional:
//
//	interval: 1s
//	display: true
//	save: true
//	undo-depth: 100
//	max-nesting: 64
//	color: false
package rc

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"src.movdino.sh/pkg/errs"
	"src.movdino.sh/pkg/history"
	"src.movdino.sh/pkg/logutil"
	"src.movdino.sh/pkg/script"
)

var logger = logutil.GetLogger("[rc] ")

// Config holds the settings of a run.
type Config struct {
	// Pause after each frame.
	Interval time.Duration `yaml:"interval"`
	// Whether to show frames at all.
	Display bool `yaml:"display"`
	// Whether to write the output file.
	Save bool `yaml:"save"`
	// Number of commands that can be undone.
	UndoDepth int `yaml:"undo-depth"`
	// Limit of nested EXEC and IF commands.
	MaxNesting int `yaml:"max-nesting"`
	// Whether to color frames shown on terminals.
	Color bool `yaml:"color"`
}

// Default returns the configuration used when there is no file.
func Default() Config {
	return Config{
		Interval:   time.Second,
		Display:    true,
		Save:       true,
		UndoDepth:  history.DefaultDepth,
		MaxNesting: script.DefaultMaxNesting,
	}
}

// DefaultPath returns the path of the configuration file used when none is
// given on the command line.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "movdino", "rc.yaml"), nil
}

// Load reads the configuration file at path. If explicit is false, a missing
// file is not an error and yields the default configuration.
func Load(path string, explicit bool) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			logger.Debugf("no config file at %s", path)
			return Default(), nil
		}
		return Config{}, err
	}
	defer file.Close()
	cfg, err := Parse(file)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debugf("loaded %s: %+v", path, cfg)
	return cfg, nil
}

// Parse parses a configuration file. Keys that are not present keep their
// default values; unknown keys are errors.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that all values are usable.
func (cfg Config) Validate() error {
	if cfg.Interval < 0 {
		return errs.BadValue{What: "interval", Valid: "non-negative",
			Actual: cfg.Interval.String()}
	}
	if cfg.UndoDepth < 1 {
		return errs.IntOutOfRange("undo-depth", 1, maxInt, cfg.UndoDepth)
	}
	if cfg.MaxNesting < 1 {
		return errs.IntOutOfRange("max-nesting", 1, maxInt, cfg.MaxNesting)
	}
	return nil
}

const maxInt = int(^uint(0) >> 1)
