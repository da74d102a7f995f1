// Package report formats profiling results.
//
// Lines follow the classic layout
//
//	SETUP: Cycles for 'sin':	1834	1802	1799
//
// one line per workload, cycle counts separated by tabs. [LineSink] streams
// such lines from a real-time thread; [Write] renders a complete [Report] in
// one of several [Format]s.
package report

import (
	"io"
	"strconv"

	"github.com/ardnew/ccnt/counter"
)

// Regimes name the measurement path in line labels.
const (
	RegimeSetup  = "SETUP"
	RegimeRender = "RENDER"
)

// Label returns the line label of a workload measured in regime.
func Label(regime, name string) string {
	return regime + ": Cycles for '" + name + "'"
}

// AppendLabel appends `<label>:` to buf.
func AppendLabel(buf []byte, regime, name string) []byte {
	buf = append(buf, regime...)
	buf = append(buf, ": Cycles for '"...)
	buf = append(buf, name...)

	return append(buf, "':"...)
}

// AppendSample appends a tab and c to buf.
func AppendSample(buf []byte, c counter.Cycles) []byte {
	return strconv.AppendUint(append(buf, '\t'), uint64(c), 10)
}

// AppendLine appends a complete line, including the newline, to buf.
func AppendLine(buf []byte, regime, name string, cycles []counter.Cycles) []byte {
	buf = AppendLabel(buf, regime, name)
	for _, c := range cycles {
		buf = AppendSample(buf, c)
	}

	return append(buf, '\n')
}

// WriteLine writes one line to w.
func WriteLine(w io.Writer, regime, name string, cycles []counter.Cycles) error {
	_, err := w.Write(AppendLine(nil, regime, name, cycles))

	return err
}
