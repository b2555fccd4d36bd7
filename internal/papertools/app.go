package papertools

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Afrawles/papertools/internal/config"
	"github.com/Afrawles/papertools/internal/libaccess"
	"github.com/Afrawles/papertools/internal/papers"
	"github.com/Afrawles/papertools/internal/tabular"
)

type Application struct {
	Config *config.Config
	Logger *zap.Logger
}

func New(cfg *config.Config, logger *zap.Logger) *Application {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Application{
		Config: cfg,
		Logger: logger,
	}
}

// NewLogger builds the diagnostics logger. Diagnostics go to stdout.
func NewLogger(cfg config.LogConfig) (*zap.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	zc := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	zc.Encoding = cfg.Format
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Sampling = nil
	zc.DisableStacktrace = true
	zc.OutputPaths = []string{"stdout"}
	zc.ErrorOutputPaths = []string{"stderr"}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func (app *Application) format() tabular.Options {
	return tabular.Options{
		CRLF:  app.Config.Output.CRLF,
		Sheet: app.Config.Output.Sheet,
	}
}

// ConvertLinks runs the libaccess link rewriter and logs every row that was
// rewritten or skipped.
func (app *Application) ConvertLinks() (*libaccess.Summary, error) {
	cfg := app.Config.Links
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app.Logger.Info("converting links",
		zap.String("input", cfg.Input),
		zap.String("output", cfg.Output),
		zap.String("marker", cfg.Marker),
		zap.Int("column", cfg.Column),
	)

	summary, err := libaccess.Run(libaccess.Config{
		Input:  cfg.Input,
		Output: cfg.Output,
		Marker: cfg.Marker,
		Column: cfg.Column,
		Format: app.format(),
	})
	if err != nil {
		app.Logger.Error("link conversion failed", zap.Error(err))
		return nil, err
	}

	for _, r := range summary.Results {
		app.logResult(r)
	}

	app.Logger.Info("link conversion complete",
		zap.Int("rows", summary.Total),
		zap.Int("rewritten", summary.Rewritten),
		zap.Int("unchanged", summary.Unchanged),
		zap.Int("skipped", summary.Skipped),
	)
	return summary, nil
}

func (app *Application) logResult(r libaccess.Result) {
	switch r.Status {
	case libaccess.StatusRewritten:
		app.Logger.Info("fixed link", zap.Int("row", r.Row), zap.String("from", r.Before), zap.String("to", r.After))
	case libaccess.StatusSkipped:
		if errors.Is(r.Err, libaccess.ErrMalformedRow) {
			app.Logger.Warn("malformed row written unchanged", zap.Int("row", r.Row), zap.Strings("fields", r.Fields))
			return
		}
		app.Logger.Warn("link left unconverted", zap.Int("row", r.Row), zap.String("link", r.Before), zap.Error(r.Err))
	default:
		app.Logger.Debug("link kept", zap.Int("row", r.Row))
	}
}

// SplitPapers runs the record splitter.
func (app *Application) SplitPapers() (*papers.Summary, error) {
	cfg := app.Config.Papers
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app.Logger.Info("splitting papers",
		zap.String("input", cfg.Input),
		zap.String("output", cfg.Output),
		zap.Bool("with_number", cfg.WithNumber),
		zap.Bool("nfc", cfg.NFC),
	)

	summary, err := papers.Run(papers.Config{
		Input:      cfg.Input,
		Output:     cfg.Output,
		WithNumber: cfg.WithNumber,
		NFC:        cfg.NFC,
		Format:     app.format(),
	})
	if err != nil {
		app.Logger.Error("paper split failed", zap.Error(err))
		return nil, err
	}

	for _, rec := range summary.Records {
		app.Logger.Debug("paper", zap.Int("line", rec.Line), zap.String("number", rec.Number), zap.String("title", rec.Title))
	}
	if summary.Dropped > 0 {
		app.Logger.Info("trailing lines ignored", zap.Int("count", summary.Dropped))
	}

	app.Logger.Info("paper split complete", zap.Int("records", len(summary.Records)))
	return summary, nil
}
