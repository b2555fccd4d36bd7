package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
)

type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
	closed bool
}

func NewCSVWriter(path string, opts Options) (*CSVWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	writer := csv.NewWriter(file)
	writer.UseCRLF = opts.CRLF

	return &CSVWriter{file: file, writer: writer}, nil
}

func (w *CSVWriter) Write(row []string) error {
	return w.writer.Write(row)
}

func (w *CSVWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	w.writer.Flush()
	flushErr := w.writer.Error()

	if err := w.file.Close(); err != nil && flushErr == nil {
		return err
	}
	return flushErr
}
