package cmd

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/ardnew/ccnt/report"
)

// stdoutPath selects standard output in --output.
const stdoutPath = "-"

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })

	return ok && term.IsTerminal(int(f.Fd()))
}

// openOutput returns the writer for a report in format f: the file at path,
// or stdout when path is empty or "-". Binary formats are refused on a
// terminal.
func openOutput(stdout io.Writer, path string, f report.Format) (io.WriteCloser, error) {
	if path == "" || path == stdoutPath {
		if f.Binary() && isTerminal(stdout) {
			return nil, ErrBinaryTerminal.With(slog.String("format", f.String()))
		}

		return nopCloser{stdout}, nil
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, ErrOutput.Wrap(err).With(slog.String("path", path))
	}

	return file, nil
}

// parseFormat treats an empty name as text.
func parseFormat(name string) (report.Format, error) {
	if name == "" {
		return report.FormatText, nil
	}

	return report.ParseFormat(name)
}

// closeOutput closes w, recording a failure in err unless err is already set.
func closeOutput(w io.Closer, path string, err *error) {
	if cerr := w.Close(); cerr != nil && *err == nil {
		*err = ErrOutput.Wrap(cerr).With(slog.String("path", path))
	}
}
