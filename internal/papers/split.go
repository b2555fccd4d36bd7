// Package papers turns a numbered plain-text publication list into
// (title, citation) rows. Each publication takes three lines:
//
//	12. Title of the paper
//	Authors, Journal, Volume, Pages (Year).
//	<separator>
package papers

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var ErrFormat = errors.New(`title line has no ". " enumeration separator`)

const (
	recordLines = 3
	enumSep     = ". "
)

// Record is one parsed publication.
type Record struct {
	Number   string `json:"number"`
	Title    string `json:"title"`
	Citation string `json:"citation"`
	Line     int    `json:"line"`
}

func (r Record) Fields(withNumber bool) []string {
	if withNumber {
		return []string{r.Number, r.Title, r.Citation}
	}
	return []string{r.Title, r.Citation}
}

// NFC returns r with its title and citation in Unicode normalization form C.
func (r Record) NFC() Record {
	r.Title = norm.NFC.String(r.Title)
	r.Citation = norm.NFC.String(r.Citation)
	return r
}

// trimSpace also strips the \x1c-\x1f separators, which unicode.IsSpace
// does not count as space but which can end a line.
func trimSpace(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
	})
}

// SplitTitle drops the leading "<n>. " enumeration from a title line.
func SplitTitle(raw string) (string, error) {
	_, title, err := splitEnumeration(raw)
	return title, err
}

func splitEnumeration(raw string) (number, title string, err error) {
	number, title, ok := strings.Cut(trimSpace(raw), enumSep)
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrFormat, trimSpace(raw))
	}
	return number, title, nil
}

// ParseRecords groups lines into records. Only complete three-line groups are
// used; one or two trailing lines are ignored. Text is kept byte for byte
// apart from surrounding whitespace.
func ParseRecords(lines []string) ([]Record, error) {
	records := make([]Record, 0, len(lines)/recordLines)

	for i := 0; i+recordLines <= len(lines); i += recordLines {
		number, title, err := splitEnumeration(lines[i])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}

		records = append(records, Record{
			Number:   number,
			Title:    title,
			Citation: trimSpace(lines[i+1]),
			Line:     i + 1,
		})
	}

	return records, nil
}
