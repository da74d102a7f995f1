//go:generate go tool stringer --linecomment --type Format --output format_string.go

package report

import (
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/ardnew/ccnt/counter"
	"github.com/ardnew/ccnt/pkg"
)

// Result holds the samples of one workload.
type Result struct {
	Workload string           `json:"workload"         yaml:"workload"`
	Regime   string           `json:"regime"           yaml:"regime"`
	Cycles   []counter.Cycles `json:"cycles,omitempty" yaml:"cycles,omitempty"`
	Min      counter.Cycles   `json:"min"              yaml:"min"`
	Max      counter.Cycles   `json:"max"              yaml:"max"`
	Median   counter.Cycles   `json:"median"           yaml:"median"`
}

// NewResult summarises cycles. The slice is kept, not copied.
func NewResult(regime, name string, cycles []counter.Cycles) Result {
	r := Result{Workload: name, Regime: regime, Cycles: cycles}
	r.Min, r.Max, r.Median = summarize(cycles)

	return r
}

// NewMinMaxResult records only the bounds of a run.
func NewMinMaxResult(regime, name string, lo, hi counter.Cycles) Result {
	return Result{Workload: name, Regime: regime, Min: lo, Max: hi}
}

// Label returns the result's line label.
func (r Result) Label() string { return Label(r.Regime, r.Workload) }

func summarize(cycles []counter.Cycles) (lo, hi, med counter.Cycles) {
	if len(cycles) == 0 {
		return 0, 0, 0
	}

	sorted := slices.Clone(cycles)
	slices.Sort(sorted)

	return sorted[0], sorted[len(sorted)-1], sorted[len(sorted)/2]
}

// Report is the outcome of a profiling session.
type Report struct {
	Program     string        `json:"program"               yaml:"program"`
	Version     string        `json:"version"               yaml:"version"`
	Counter     string        `json:"counter"               yaml:"counter"`
	Runs        int           `json:"runs"                  yaml:"runs"`
	MinMax      bool          `json:"minmax,omitempty"      yaml:"minmax,omitempty"`
	Fingerprint string        `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
	Started     time.Time     `json:"started"               yaml:"started"`
	Elapsed     time.Duration `json:"elapsed"               yaml:"elapsed"`
	Results     []Result      `json:"results"               yaml:"results"`
}

// Format selects a [Report] encoding.
type Format int

// Report formats.
const (
	FormatText  Format = iota // text
	FormatJSON                // json
	FormatYAML                // yaml
	FormatTable               // table
	FormatXLSX                // xlsx
)

var formats = []Format{FormatText, FormatJSON, FormatYAML, FormatTable, FormatXLSX}

// ErrFormat is returned for an unknown format name.
var ErrFormat = pkg.NewError("unknown report format")

// Formats returns the names accepted by [ParseFormat].
func Formats() []string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.String()
	}

	return names
}

// ParseFormat returns the format named s, ignoring case.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if i := slices.IndexFunc(formats, func(f Format) bool { return f.String() == name }); i >= 0 {
		return formats[i], nil
	}

	return FormatText, ErrFormat.With(
		slog.String("format", s),
		slog.String("want", strings.Join(Formats(), "|")),
	)
}

// Binary reports whether the format is unsuitable for a terminal.
func (f Format) Binary() bool { return f == FormatXLSX }
