// Package libaccess restores publisher links that were rewritten through the
// McMaster library proxy, e.g.
//
//	https://pubs-acs-org.libaccess.lib.mcmaster.ca/doi/10.1021/x
//
// becomes
//
//	https://pubs.acs.org/doi/10.1021/x
//
// The proxy appends its marker to the publisher host after replacing the
// host's dots with hyphens. Removing the marker and turning the hyphens back
// into dots undoes both steps.
package libaccess

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrMalformedRow  = errors.New("row has no link column")
	ErrMalformedLink = errors.New("proxied link does not match scheme://domain/path")
)

// (scheme://)(domain token)(remainder)
var linkPattern = regexp.MustCompile(`^(\w+://)([\w-]+)((?s:.+))`)

// RewriteLink strips marker from raw and restores the hostname. Links that
// do not contain marker are returned unchanged.
func RewriteLink(raw, marker string) (string, error) {
	if marker == "" || !strings.Contains(raw, marker) {
		return raw, nil
	}

	link := strings.ReplaceAll(raw, marker, "")

	groups := linkPattern.FindStringSubmatch(link)
	if groups == nil {
		return raw, fmt.Errorf("%w: %q", ErrMalformedLink, raw)
	}

	scheme, domain, rest := groups[1], groups[2], groups[3]
	return scheme + strings.ReplaceAll(domain, "-", ".") + rest, nil
}

// NeedsRewrite reports whether link carries the proxy marker.
func NeedsRewrite(link, marker string) bool {
	return marker != "" && strings.Contains(link, marker)
}

// ProcessRow returns a copy of row with the link at column rewritten.
// Negative columns count from the end of the row, so -2 is the
// second-to-last field. The input row is never modified.
func ProcessRow(row []string, column int, marker string) ([]string, error) {
	idx, ok := resolveColumn(len(row), column)
	if !ok {
		return row, fmt.Errorf("%w: want column %d, row has %d field(s)", ErrMalformedRow, column, len(row))
	}

	if !NeedsRewrite(row[idx], marker) {
		return row, nil
	}

	link, err := RewriteLink(row[idx], marker)
	if err != nil {
		return row, err
	}

	out := make([]string, len(row))
	copy(out, row)
	out[idx] = link
	return out, nil
}

func resolveColumn(width, column int) (int, bool) {
	idx := column
	if column < 0 {
		idx = width + column
	}
	if idx < 0 || idx >= width {
		return 0, false
	}
	return idx, true
}
