package vcs

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// statusPrefixWidth is the width of the status columns before the revisions.
const statusPrefixWidth = 8

// statusPathField is the index of the path among the fields after the prefix:
// working revision, last changed revision, last author, path.
const statusPathField = 3

// statusCodes are the values svn prints in the first column of an item line.
const statusCodes = " ADMRCXI?!~"

// ErrMalformedStatusLine is returned for lines that do not describe an item,
// such as tree-conflict details or externals banners.
var ErrMalformedStatusLine = errors.New("malformed status line")

// ParseStatusLine extracts the status code and path from one `svn status -v` line.
func ParseStatusLine(line string) (byte, string, error) {
	line = strings.TrimRight(line, "\r\n")
	if len(line) <= statusPrefixWidth {
		return 0, "", fmt.Errorf("%q: %w", line, ErrMalformedStatusLine)
	}

	fields := splitFields(line[statusPrefixWidth:], statusPathField+1)
	if len(fields) <= statusPathField || !isRevision(fields[0]) {
		return 0, "", fmt.Errorf("%q: %w", line, ErrMalformedStatusLine)
	}

	if !strings.ContainsRune(statusCodes, rune(line[0])) {
		return 0, "", fmt.Errorf("%q: %w", line, ErrMalformedStatusLine)
	}

	return line[0], fields[statusPathField], nil
}

// isRevision reports whether field is a revision number or the "-" svn prints
// for items without one.
func isRevision(field string) bool {
	if field == "-" {
		return true
	}

	for _, r := range field {
		if r < '0' || r > '9' {
			return false
		}
	}

	return field != ""
}

// splitFields splits s on runs of whitespace into at most n fields.
// The last field keeps the rest of the string, inner whitespace included.
func splitFields(s string, n int) []string {
	fields := make([]string, 0, n)

	for len(fields) < n-1 {
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
		if s == "" {
			return fields
		}

		end := strings.IndexFunc(s, unicode.IsSpace)
		if end < 0 {
			return append(fields, s)
		}

		fields = append(fields, s[:end])
		s = s[end:]
	}

	if s = strings.TrimLeftFunc(s, unicode.IsSpace); s != "" {
		fields = append(fields, s)
	}

	return fields
}
