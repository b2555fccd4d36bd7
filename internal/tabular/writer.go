package tabular

import (
	"path/filepath"
	"strings"
)

// RowWriter receives rows in output order. Close must be called to flush.
type RowWriter interface {
	Write(row []string) error
	Close() error
}

type Options struct {
	// CRLF terminates CSV records with \r\n.
	CRLF bool
	// Sheet names the worksheet of an .xlsx output.
	Sheet string
	// Header marks the first written row as a header (bold, frozen) in .xlsx output.
	Header bool
}

// Create truncates or creates path and picks the writer from its extension.
func Create(path string, opts Options) (RowWriter, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return NewExcelWriter(path, opts)
	}
	return NewCSVWriter(path, opts)
}
