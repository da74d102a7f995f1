package report

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"
	"github.com/sugawarayuuta/sonnet"
	"github.com/xuri/excelize/v2"

	"github.com/ardnew/ccnt/counter"
	"github.com/ardnew/ccnt/profiler"
)

// Compile-time checks.
var (
	_ profiler.Sink = (*LineSink)(nil)
	_ profiler.Sink = (*Tally)(nil)
	_ profiler.Sink = (*Collector)(nil)
	_ profiler.Sink = Multi(nil)
)

func TestAppendLine(t *testing.T) {
	tests := []struct {
		name   string
		regime string
		wl     string
		cycles []counter.Cycles
		want   string
	}{
		{"no samples", RegimeSetup, "empty", nil, "SETUP: Cycles for 'empty':\n"},
		{"one", RegimeRender, "sin", []counter.Cycles{42}, "RENDER: Cycles for 'sin':\t42\n"},
		{
			"several", RegimeSetup, "sinf_poly",
			[]counter.Cycles{1, 0, 4294967295},
			"SETUP: Cycles for 'sinf_poly':\t1\t0\t4294967295\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(AppendLine(nil, tt.regime, tt.wl, tt.cycles))
			if got != tt.want {
				t.Errorf("AppendLine = %q, want %q", got, tt.want)
			}

			var buf bytes.Buffer
			if err := WriteLine(&buf, tt.regime, tt.wl, tt.cycles); err != nil {
				t.Fatal(err)
			}

			if buf.String() != tt.want {
				t.Errorf("WriteLine = %q, want %q", buf.String(), tt.want)
			}
		})
	}

	if got, want := Label(RegimeSetup, "x"), "SETUP: Cycles for 'x'"; got != want {
		t.Errorf("Label = %q, want %q", got, want)
	}
}

// syncBuffer is a bytes.Buffer safe for the sink's writer goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func TestLineSink_WritesLines(t *testing.T) {
	var out syncBuffer

	s := NewLineSink(&out, RegimeRender, 0)

	s.Label("empty")
	s.Sample(3)
	s.Sample(4)
	s.End()
	s.Label("sin")
	s.Sample(1800)
	s.End()

	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	want := "RENDER: Cycles for 'empty':\t3\t4\nRENDER: Cycles for 'sin':\t1800\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}

	if s.Written() != 2 || s.Dropped() != 0 {
		t.Errorf("written=%d dropped=%d, want 2 and 0", s.Written(), s.Dropped())
	}

	if err := s.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}
}

// blockingWriter holds every write until released.
type blockingWriter struct {
	release chan struct{}
	entered chan struct{}
	syncBuffer
}

func (w *blockingWriter) Write(p []byte) (int, error) {
	select {
	case w.entered <- struct{}{}:
	default:
	}

	<-w.release

	return w.syncBuffer.Write(p)
}

func TestLineSink_DropsWhenFull(t *testing.T) {
	w := &blockingWriter{release: make(chan struct{}), entered: make(chan struct{}, 1)}
	s := NewLineSink(w, RegimeRender, 2)

	line := func(name string) {
		s.Label(name)
		s.Sample(1)
		s.End()
	}

	// The writer takes the first line and blocks; two more fill the queue.
	line("a")
	<-w.entered
	line("b")
	line("c")
	line("d")
	line("e")

	if got := s.Dropped(); got != 2 {
		t.Errorf("Dropped() = %d, want 2", got)
	}

	close(w.release)

	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	want := "RENDER: Cycles for 'a':\t1\nRENDER: Cycles for 'b':\t1\nRENDER: Cycles for 'c':\t1\n"
	if diff := cmp.Diff(want, w.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

type errWriter struct{}

var errWrite = errors.New("disk full")

func (errWriter) Write([]byte) (int, error) { return 0, errWrite }

func TestLineSink_ReportsWriteError(t *testing.T) {
	s := NewLineSink(errWriter{}, RegimeSetup, 1)
	s.Label("x")
	s.End()

	if err := s.Close(); !errors.Is(err, errWrite) {
		t.Errorf("Close = %v, want %v", err, errWrite)
	}
}

func TestTallyAndMulti(t *testing.T) {
	var tally Tally

	c := NewCollector(RegimeRender, 2, "a", "b")
	m := Multi{&tally, c}

	m.Label("a")
	m.Sample(5)
	m.Sample(9)
	m.End()
	m.Label("b")
	m.Sample(7)

	if tally.Labels() != 2 || tally.Samples() != 3 || tally.Ends() != 1 || tally.Last() != 7 {
		t.Errorf("tally = %d/%d/%d last %d", tally.Labels(), tally.Samples(), tally.Ends(), tally.Last())
	}

	want := []Result{
		{Workload: "a", Regime: RegimeRender, Cycles: []counter.Cycles{5, 9}, Min: 5, Max: 9, Median: 9},
		{Workload: "b", Regime: RegimeRender, Cycles: []counter.Cycles{7}, Min: 7, Max: 7, Median: 7},
	}
	if diff := cmp.Diff(want, c.Results()); diff != "" {
		t.Errorf("Results mismatch (-want +got):\n%s", diff)
	}
}

func TestCollector_DoesNotAllocate(t *testing.T) {
	c := NewCollector(RegimeRender, 1000, "a")
	c.Label("a")

	if n := testing.AllocsPerRun(500, func() { c.Sample(1) }); n != 0 {
		t.Errorf("Sample allocates %v times per call", n)
	}
}

func TestCollector_UnexpectedLabel(t *testing.T) {
	c := NewCollector(RegimeRender, 1)
	c.Label("late")
	c.Sample(3)

	got := c.Results()
	if len(got) != 1 || got[0].Workload != "late" || got[0].Max != 3 {
		t.Errorf("Results = %+v", got)
	}
}

func TestNewResult_Summary(t *testing.T) {
	r := NewResult(RegimeSetup, "w", []counter.Cycles{30, 10, 20, 50, 40})
	if r.Min != 10 || r.Max != 50 || r.Median != 30 {
		t.Errorf("summary = (%d, %d, %d), want (10, 50, 30)", r.Min, r.Max, r.Median)
	}

	if diff := cmp.Diff([]counter.Cycles{30, 10, 20, 50, 40}, r.Cycles); diff != "" {
		t.Errorf("NewResult reordered samples:\n%s", diff)
	}
}

func TestParseFormat(t *testing.T) {
	for i, name := range Formats() {
		f, err := ParseFormat(strings.ToUpper(name))
		if err != nil || f != Format(i) || f.String() != name {
			t.Errorf("ParseFormat(%q) = %v, %v", name, f, err)
		}
	}

	if _, err := ParseFormat("csv"); !errors.Is(err, ErrFormat) {
		t.Errorf("ParseFormat(csv) err = %v, want ErrFormat", err)
	}

	if diff := cmp.Diff([]string{"text", "json", "yaml", "table", "xlsx"}, Formats()); diff != "" {
		t.Errorf("Formats() mismatch (-want +got):\n%s", diff)
	}

	if got := Format(9).String(); got != "Format(9)" {
		t.Errorf("Format(9).String() = %q", got)
	}

	if !FormatXLSX.Binary() || FormatText.Binary() {
		t.Error("Binary() misreports")
	}
}

func sample() Report {
	return Report{
		Program: "ccnt",
		Version: "0.1.0",
		Counter: "fake",
		Runs:    3,
		Started: time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC),
		Results: []Result{
			NewResult(RegimeSetup, "empty", []counter.Cycles{2, 2, 3}),
			NewResult(RegimeSetup, "sin", []counter.Cycles{1900, 1850, 1875}),
		},
	}
}

func TestWrite_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatText, sample()); err != nil {
		t.Fatal(err)
	}

	want := "SETUP: Cycles for 'empty':\t2\t2\t3\nSETUP: Cycles for 'sin':\t1900\t1850\t1875\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("text mismatch (-want +got):\n%s", diff)
	}

	r := sample()
	r.MinMax = true
	r.Results = []Result{NewMinMaxResult(RegimeSetup, "sin", 1850, 1900)}

	buf.Reset()

	if err := Write(&buf, FormatText, r); err != nil {
		t.Fatal(err)
	}

	if got, want := buf.String(), "SETUP: Cycles for 'sin': (min, max)\t1850\t1900\n"; got != want {
		t.Errorf("minmax text = %q, want %q", got, want)
	}
}

func TestWrite_JSONAndYAMLRoundTrip(t *testing.T) {
	tests := []struct {
		format    Format
		unmarshal func([]byte, any) error
	}{
		{FormatJSON, sonnet.Unmarshal},
		{FormatYAML, func(b []byte, v any) error { return yaml.Unmarshal(b, v) }},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, tt.format, sample()); err != nil {
				t.Fatal(err)
			}

			var got Report
			if err := tt.unmarshal(buf.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v\n%s", err, buf.String())
			}

			if diff := cmp.Diff(sample().Results, got.Results); diff != "" {
				t.Errorf("results mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWrite_Table(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatTable, sample()); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"workload", "median", "empty", "sin", "1875"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("table missing %q:\n%s", want, buf.String())
		}
	}
}

func TestWrite_XLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatXLSX, sample()); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetResults)
	if err != nil {
		t.Fatal(err)
	}

	want := [][]string{
		{"workload", "regime", "samples", "min", "median", "max"},
		{"empty", "SETUP", "3", "2", "2", "3"},
		{"sin", "SETUP", "3", "1850", "1875", "1900"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("Results sheet mismatch (-want +got):\n%s", diff)
	}

	samples, err := f.GetRows(sheetSamples)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"sin", "1900", "1850", "1875"}, samples[1]); diff != "" {
		t.Errorf("Samples row mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, Format(42), sample()); !errors.Is(err, ErrFormat) {
		t.Errorf("err = %v, want ErrFormat", err)
	}
}
