package report

import (
	"io"
	"log/slog"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-yaml"
	"github.com/sugawarayuuta/sonnet"
	"github.com/xuri/excelize/v2"

	"github.com/ardnew/ccnt/pkg"
)

// ErrEncode is returned when a report cannot be encoded.
var ErrEncode = pkg.NewError("failed to encode report")

// Write encodes r to w in the given format.
func Write(w io.Writer, f Format, r Report) error {
	var err error

	switch f {
	case FormatText:
		err = writeText(w, r)
	case FormatJSON:
		err = writeJSON(w, r)
	case FormatYAML:
		err = writeYAML(w, r)
	case FormatTable:
		err = writeTable(w, r)
	case FormatXLSX:
		err = writeXLSX(w, r)
	default:
		return ErrFormat.With(slog.Int("format", int(f)))
	}

	if err != nil {
		return ErrEncode.Wrap(err).With(slog.String("format", f.String()))
	}

	return nil
}

func writeText(w io.Writer, r Report) error {
	var buf []byte

	for _, res := range r.Results {
		if r.MinMax {
			buf = AppendLabel(buf, res.Regime, res.Workload)
			buf = append(buf, " (min, max)"...)
			buf = AppendSample(buf, res.Min)
			buf = AppendSample(buf, res.Max)
			buf = append(buf, '\n')

			continue
		}

		buf = AppendLine(buf, res.Regime, res.Workload, res.Cycles)
	}

	_, err := w.Write(buf)

	return err
}

func writeJSON(w io.Writer, r Report) error {
	data, err := sonnet.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}

	_, err = w.Write(append(data, '\n'))

	return err
}

func writeYAML(w io.Writer, r Report) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	nameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func tableRows(r Report) (headers []string, rows [][]string) {
	headers = []string{"workload", "regime", "samples", "min", "median", "max"}
	if r.MinMax {
		headers = []string{"workload", "regime", "min", "max"}
	}

	itoa := func(v uint32) string { return strconv.FormatUint(uint64(v), 10) }

	for _, res := range r.Results {
		if r.MinMax {
			rows = append(rows, []string{
				res.Workload, res.Regime, itoa(uint32(res.Min)), itoa(uint32(res.Max)),
			})

			continue
		}

		rows = append(rows, []string{
			res.Workload,
			res.Regime,
			strconv.Itoa(len(res.Cycles)),
			itoa(uint32(res.Min)),
			itoa(uint32(res.Median)),
			itoa(uint32(res.Max)),
		})
	}

	return headers, rows
}

func writeTable(w io.Writer, r Report) error {
	headers, rows := tableRows(r)

	return Table(w, headers, rows)
}

// Table writes rows under headers as a bordered table. The first column is
// highlighted and the rest are right-aligned.
func Table(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return nameStyle
			default:
				return cellStyle
			}
		})

	_, err := io.WriteString(w, t.String()+"\n")

	return err
}

const (
	sheetResults = "Results"
	sheetSamples = "Samples"
)

func writeXLSX(w io.Writer, r Report) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName("Sheet1", sheetResults); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	headers, _ := tableRows(r)

	if err := setRow(f, sheetResults, 1, bold, toAny(headers)); err != nil {
		return err
	}

	for i, res := range r.Results {
		row := []any{res.Workload, res.Regime}
		if r.MinMax {
			row = append(row, uint32(res.Min), uint32(res.Max))
		} else {
			row = append(row, len(res.Cycles), uint32(res.Min), uint32(res.Median), uint32(res.Max))
		}

		if err := setRow(f, sheetResults, i+2, 0, row); err != nil {
			return err
		}
	}

	if !r.MinMax {
		if _, err := f.NewSheet(sheetSamples); err != nil {
			return err
		}

		for i, res := range r.Results {
			row := make([]any, 0, len(res.Cycles)+1)
			row = append(row, res.Workload)

			for _, c := range res.Cycles {
				row = append(row, uint32(c))
			}

			if err := setRow(f, sheetSamples, i+1, 0, row); err != nil {
				return err
			}
		}
	}

	_, err = f.WriteTo(w)

	return err
}

func setRow(f *excelize.File, sheet string, row, style int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}

	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return err
	}

	if style == 0 || len(values) == 0 {
		return nil
	}

	last, err := excelize.CoordinatesToCellName(len(values), row)
	if err != nil {
		return err
	}

	return f.SetCellStyle(sheet, cell, last, style)
}

func toAny(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}

	return out
}
