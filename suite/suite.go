// Package suite loads profiling suites: the YAML description of which
// workloads to profile and how.
//
// A minimal suite file is
//
//	runs: 16
//	counter: auto
//	workloads: [empty, sin]
//	custom:
//	  - name: cube
//	    expr: x * x * x
//
// Omitted fields take the defaults declared on [Config].
package suite

import (
	"bytes"
	"encoding/hex"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/creasty/defaults"
	"github.com/goccy/go-yaml"
	"golang.org/x/crypto/blake2b"

	"github.com/ardnew/ccnt/counter"
	"github.com/ardnew/ccnt/pkg"
	"github.com/ardnew/ccnt/workload"
)

// FileName is the base name of the default suite file.
const FileName = "suite.yaml"

// Errors returned by this package.
var (
	ErrRead    = pkg.NewError("failed to read suite")
	ErrParse   = pkg.NewError("failed to parse suite")
	ErrInvalid = pkg.NewError("invalid suite")
	ErrExists  = pkg.NewError("suite file already exists")
	ErrWrite   = pkg.NewError("failed to write suite")
)

// Custom is a user workload defined by an expression.
type Custom struct {
	Name string `yaml:"name"`
	Expr string `yaml:"expr"`
}

// Config describes a profiling suite.
type Config struct {
	// Runs is the number of samples taken of each workload.
	Runs int `default:"16" yaml:"runs"`
	// Counter is the counter backend: auto, perf, clock or fake.
	Counter counter.Kind `default:"auto" yaml:"counter"`
	// Reset zeroes the counter when it is initialised.
	Reset bool `yaml:"reset"`
	// Divider counts once per 64 ticks.
	Divider bool `yaml:"divider"`
	// Priority of the profiling task and render thread. Zero disables
	// real-time scheduling.
	Priority int `default:"95" yaml:"priority"`
	// CPU pins profiling threads to one CPU. Negative leaves affinity alone.
	CPU int `default:"-1" yaml:"cpu"`
	// Timeout bounds each scheduled measurement. Zero waits forever.
	Timeout time.Duration `default:"1s" yaml:"timeout"`
	// Period is the render callback interval.
	Period time.Duration `default:"1ms" yaml:"period"`
	// Workloads selects workloads by name. Empty selects all.
	Workloads []string `yaml:"workloads,omitempty"`
	// Custom adds expression workloads.
	Custom []Custom `yaml:"custom,omitempty"`
}

// Default returns a suite with every default applied.
func Default() Config {
	var c Config

	_ = defaults.Set(&c)

	return c
}

// Path returns the default suite file path in the user config directory.
func Path() string { return pkg.ConfigPath(FileName) }

// Parse decodes a suite from YAML, applying defaults to omitted fields.
// Unknown fields are rejected.
func Parse(data []byte) (Config, error) {
	c := Default()

	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.UnmarshalWithOptions(data, &c, yaml.Strict()); err != nil {
			return Config{}, ErrParse.Wrap(err)
		}
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Load reads and parses the suite file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, ErrRead.Wrap(err).With(slog.String("path", path))
	}

	c, err := Parse(data)
	if err != nil {
		return Config{}, pkg.WrapError(err).With(slog.String("path", path))
	}

	return c, nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	invalid := func(field string, value any) error {
		return ErrInvalid.With(slog.String("field", field), slog.Any("value", value))
	}

	switch {
	case c.Runs <= 0:
		return invalid("runs", c.Runs)
	case !slices.Contains(counter.Kinds(), string(c.Counter)):
		return invalid("counter", c.Counter)
	case c.Priority < 0 || c.Priority > 99:
		return invalid("priority", c.Priority)
	case c.Timeout < 0:
		return invalid("timeout", c.Timeout)
	case c.Period <= 0:
		return invalid("period", c.Period)
	}

	for _, w := range c.Custom {
		if w.Name == "" || w.Expr == "" {
			return invalid("custom", w)
		}
	}

	return nil
}

// Registry returns the built-in workloads followed by the suite's custom
// workloads.
func (c Config) Registry() (*workload.Registry, error) {
	r := workload.Default()

	for _, cw := range c.Custom {
		w, err := workload.Expr(cw.Name, cw.Expr)
		if err != nil {
			return nil, err
		}

		if err := r.Add(w); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Select resolves the suite's workload selection, with names overriding it
// when given.
func (c Config) Select(names ...string) ([]workload.Workload, error) {
	r, err := c.Registry()
	if err != nil {
		return nil, err
	}

	if len(names) == 0 {
		names = c.Workloads
	}

	return r.Select(names...)
}

// Encode writes c as YAML.
func (c Config) Encode(w io.Writer) error {
	data, err := yaml.MarshalWithOptions(c, yaml.Indent(2), yaml.IndentSequence(true))
	if err != nil {
		return ErrWrite.Wrap(err)
	}

	if _, err := w.Write(data); err != nil {
		return ErrWrite.Wrap(err)
	}

	return nil
}

// Save writes c to path, creating parent directories. An existing file is
// replaced only when force is set.
func (c Config) Save(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return ErrExists.With(slog.String("path", path))
	}

	if err := os.MkdirAll(filepath.Dir(path), pkg.DirMode); err != nil {
		return ErrWrite.Wrap(err).With(slog.String("path", path))
	}

	var buf bytes.Buffer
	if err := c.Encode(&buf); err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return ErrWrite.Wrap(err).With(slog.String("path", path))
	}

	return nil
}

// Fingerprint identifies the measurement-relevant settings of c. Suites
// that differ only in Timeout share a fingerprint.
func (c Config) Fingerprint() string {
	c.Timeout = 0

	var buf bytes.Buffer

	_ = c.Encode(&buf)

	sum := blake2b.Sum256(buf.Bytes())

	return hex.EncodeToString(sum[:8])
}
