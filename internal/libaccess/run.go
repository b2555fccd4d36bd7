package libaccess

import (
	"fmt"

	"github.com/Afrawles/papertools/internal/tabular"
)

type Config struct {
	Input  string
	Output string
	Marker string
	Column int
	Format tabular.Options
}

type Status string

const (
	StatusUnchanged Status = "unchanged"
	StatusRewritten Status = "rewritten"
	StatusSkipped   Status = "skipped"
)

// Result records what happened to one data row. Row is 1-based and does not
// count the header.
type Result struct {
	Row    int      `json:"row"`
	Status Status   `json:"status"`
	Before string   `json:"before,omitempty"`
	After  string   `json:"after,omitempty"`
	Fields []string `json:"fields,omitempty"`
	Err    error    `json:"-"`
	Reason string   `json:"reason,omitempty"`
}

type Summary struct {
	Input     string   `json:"input"`
	Output    string   `json:"output"`
	Header    []string `json:"header"`
	Results   []Result `json:"results"`
	Total     int      `json:"total"`
	Rewritten int      `json:"rewritten"`
	Unchanged int      `json:"unchanged"`
	Skipped   int      `json:"skipped"`
}

func (s *Summary) add(r Result) {
	if r.Err != nil {
		r.Reason = r.Err.Error()
	}
	s.Results = append(s.Results, r)
	s.Total++
	switch r.Status {
	case StatusRewritten:
		s.Rewritten++
	case StatusSkipped:
		s.Skipped++
	default:
		s.Unchanged++
	}
}

// Rows returns the number of rows written, header included.
func (s *Summary) Rows() int {
	if s.Header == nil {
		return s.Total
	}
	return s.Total + 1
}

// Run copies cfg.Input to cfg.Output, rewriting proxied links on the way.
// Rows that cannot be rewritten are written through unchanged and reported
// as skipped. Only I/O failures abort the run.
func Run(cfg Config) (*Summary, error) {
	header, rows, err := tabular.LoadRows(cfg.Input)
	if err != nil {
		return nil, err
	}

	opts := cfg.Format
	opts.Header = true
	out, err := tabular.Create(cfg.Output, opts)
	if err != nil {
		return nil, err
	}
	defer out.Close()

	summary := &Summary{
		Input:  cfg.Input,
		Output: cfg.Output,
		Header: header,
	}

	if header != nil {
		if err := out.Write(header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, row := range rows {
		converted, result := convert(row, cfg.Column, cfg.Marker)
		result.Row = i + 1

		if err := out.Write(converted); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", result.Row, err)
		}
		summary.add(result)
	}

	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish %s: %w", cfg.Output, err)
	}

	return summary, nil
}

func convert(row []string, column int, marker string) ([]string, Result) {
	converted, err := ProcessRow(row, column, marker)
	if err != nil {
		result := Result{Status: StatusSkipped, Err: err}
		if idx, ok := resolveColumn(len(row), column); ok {
			result.Before = row[idx]
		} else {
			result.Fields = row
		}
		return row, result
	}

	idx, _ := resolveColumn(len(row), column)
	if converted[idx] == row[idx] {
		return row, Result{Status: StatusUnchanged}
	}
	return converted, Result{Status: StatusRewritten, Before: row[idx], After: converted[idx]}
}
