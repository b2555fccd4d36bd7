package tabular

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// ExcelWriter buffers rows into a single worksheet and saves the workbook on Close.
type ExcelWriter struct {
	path    string
	sheet   string
	header  bool
	file    *excelize.File
	row     int
	widths  map[int]int
	hdStyle int
	closed  bool
}

func NewExcelWriter(path string, opts Options) (*ExcelWriter, error) {
	f := excelize.NewFile()

	sheet := sanitizeSheetName(opts.Sheet)
	if sheet == "" {
		sheet = defaultSheet
	}
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to name sheet %q: %w", sheet, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	return &ExcelWriter{
		path:    path,
		sheet:   sheet,
		header:  opts.Header,
		file:    f,
		widths:  make(map[int]int),
		hdStyle: headerStyle,
	}, nil
}

func (w *ExcelWriter) Write(row []string) error {
	w.row++

	if len(row) > 0 {
		if err := w.file.SetSheetRow(w.sheet, cellName(1, w.row), &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", w.row, err)
		}
	}

	if w.row == 1 && w.header && len(row) > 0 {
		if err := w.file.SetCellStyle(w.sheet, cellName(1, 1), cellName(len(row), 1), w.hdStyle); err != nil {
			return err
		}
	}

	for i, value := range row {
		if n := utf8.RuneCountInString(value); n > w.widths[i+1] {
			w.widths[i+1] = n
		}
	}
	return nil
}

func (w *ExcelWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	defer w.file.Close()

	for col, width := range w.widths {
		letter := columnLetter(col)
		if err := w.file.SetColWidth(w.sheet, letter, letter, clampWidth(width)); err != nil {
			return err
		}
	}

	if w.header && w.row > 0 {
		if err := w.file.SetPanes(w.sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return err
		}
	}

	if err := w.file.SaveAs(w.path); err != nil {
		return fmt.Errorf("failed to save excel file: %w", err)
	}
	return nil
}

func clampWidth(chars int) float64 {
	switch {
	case chars < 8:
		return 8
	case chars > 80:
		return 80
	}
	return float64(chars + 2)
}

func cellName(col, row int) string {
	return fmt.Sprintf("%s%d", columnLetter(col), row)
}

func columnLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}

func sanitizeSheetName(name string) string {
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, "\\", "-")
	name = strings.ReplaceAll(name, "?", "")
	name = strings.ReplaceAll(name, "*", "")
	name = strings.ReplaceAll(name, ":", "")
	name = strings.ReplaceAll(name, "[", "(")
	name = strings.ReplaceAll(name, "]", ")")

	if len(name) > 31 {
		name = name[:31]
	}

	return name
}
