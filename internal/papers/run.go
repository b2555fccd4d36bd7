package papers

import (
	"fmt"

	"github.com/Afrawles/papertools/internal/tabular"
)

type Config struct {
	Input      string
	Output     string
	WithNumber bool
	// NFC normalizes titles and citations before they are written.
	NFC    bool
	Format tabular.Options
}

type Summary struct {
	Input   string   `json:"input"`
	Output  string   `json:"output"`
	Lines   int      `json:"lines"`
	Dropped int      `json:"dropped"`
	Records []Record `json:"records"`
}

// Run converts cfg.Input into cfg.Output. A malformed title aborts the run
// before the output file is touched.
func Run(cfg Config) (*Summary, error) {
	lines, err := tabular.LoadLines(cfg.Input)
	if err != nil {
		return nil, err
	}

	records, err := ParseRecords(lines)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Input, err)
	}
	if cfg.NFC {
		for i := range records {
			records[i] = records[i].NFC()
		}
	}

	out, err := tabular.Create(cfg.Output, cfg.Format)
	if err != nil {
		return nil, err
	}
	defer out.Close()

	for _, rec := range records {
		if err := out.Write(rec.Fields(cfg.WithNumber)); err != nil {
			return nil, fmt.Errorf("failed to write record at line %d: %w", rec.Line, err)
		}
	}

	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish %s: %w", cfg.Output, err)
	}

	return &Summary{
		Input:   cfg.Input,
		Output:  cfg.Output,
		Lines:   len(lines),
		Dropped: len(lines) % recordLines,
		Records: records,
	}, nil
}
