// Package tabular reads UTF-8 text and CSV inputs and writes rows out as CSV
// or as an Excel workbook.
package tabular

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	ErrNotFound = errors.New("input file not found")
	ErrDecoding = errors.New("input is not valid UTF-8")
)

// ReadText returns the contents of path as UTF-8 with any leading BOM removed.
func ReadText(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	decoder := transform.Chain(encoding.UTF8Validator, unicode.UTF8BOM.NewDecoder())
	text, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecoding, path, err)
	}
	return text, nil
}

// LoadRows parses a comma-separated file. The first record is returned as
// the header and is not part of rows. An empty file yields no header and no rows.
// Blank lines after the header come back as empty rows so callers see every
// input line.
func LoadRows(path string) (header []string, rows [][]string, err error) {
	text, err := ReadText(path)
	if err != nil {
		return nil, nil, err
	}

	reader := csv.NewReader(bytes.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err = reader.Read()
	if err == io.EOF {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse header of %s: %w", path, err)
	}

	// line is the 1-based line number at offset consumed.
	var consumed int64
	line := 1

	for {
		start := reader.InputOffset()
		line += bytes.Count(text[consumed:start], []byte("\n"))
		consumed = start

		row, err := reader.Read()
		if err == io.EOF {
			rows = appendBlank(rows, bytes.Count(text[start:], []byte("\n")))
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}

		recordLine, _ := reader.FieldPos(0)
		rows = appendBlank(rows, recordLine-line)
		rows = append(rows, row)
	}

	return header, rows, nil
}

func appendBlank(rows [][]string, n int) [][]string {
	for i := 0; i < n; i++ {
		rows = append(rows, []string{})
	}
	return rows
}

// LoadLines splits a text file into lines. Line terminators are kept; callers
// trim the fields they use. Besides \n and \r\n, a bare \r and the Unicode
// line and paragraph separators end a line too.
func LoadLines(path string) ([]string, error) {
	text, err := ReadText(path)
	if err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(bytes.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), len(text)+bufio.MaxScanTokenSize)
	scanner.Split(scanLines)

	lines := []string{}
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to split %s into lines: %w", path, err)
	}
	return lines, nil
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\v', '\f', 0x1c, 0x1d, 0x1e, 0x85, 0x2028, 0x2029:
		return true
	}
	return false
}

// scanLines is a bufio.SplitFunc that keeps the terminator on each token.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	for i := 0; i < len(data); {
		if !atEOF && !utf8.FullRune(data[i:]) {
			return 0, nil, nil
		}
		r, size := utf8.DecodeRune(data[i:])

		if r == '\r' {
			switch {
			case i+1 < len(data) && data[i+1] == '\n':
				return i + 2, data[:i+2], nil
			case i+1 < len(data) || atEOF:
				return i + 1, data[:i+1], nil
			default:
				return 0, nil, nil
			}
		}
		if isLineBreak(r) {
			return i + size, data[:i+size], nil
		}
		i += size
	}

	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
