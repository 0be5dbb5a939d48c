// Package store reads and appends the tab-separated loss record.
//
// The file layout is fixed: row 1 is the header whose middle columns are the
// quoted category names, every later row is a quoted date, one bare integer
// (or empty field) per category and a quoted source URL. Append is the only
// mutation; existing rows are never rewritten.
package store

import (
	"fmt"
	"os"
	"strings"

	"github.com/mikeshiyan/orks-losses/internal/dates"
	"github.com/mikeshiyan/orks-losses/internal/model"
)

// TSV is the persisted tabular store.
type TSV struct {
	path string
}

// New creates a store handle for the given file path.
func New(path string) *TSV {
	return &TSV{path: path}
}

// Path returns the store's file path.
func (s *TSV) Path() string {
	return s.path
}

// LoadHeader parses the header row for category labels and the last row for
// the last recorded date. A file with fewer than two lines or an unparseable
// header/footer is a fatal configuration error (model.ErrMalformedStore).
func (s *TSV) LoadHeader() (categories []string, lastDate string, err error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, "", fmt.Errorf("read store %s: %w", s.path, err)
	}

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) < 2 {
		return nil, "", fmt.Errorf("%s: %w: need a header and at least one data row", s.path, model.ErrMalformedStore)
	}

	header := strings.Split(lines[0], "\t")
	if len(header) < 3 {
		return nil, "", fmt.Errorf("%s: %w: header has %d columns, need at least 3", s.path, model.ErrMalformedStore, len(header))
	}

	// First and last header columns are arbitrary labels (date and URL).
	for _, col := range header[1 : len(header)-1] {
		categories = append(categories, stripQuotes(col))
	}

	last := strings.Split(lines[len(lines)-1], "\t")
	lastDate = stripQuotes(last[0])
	if _, err := dates.Parse(lastDate); err != nil {
		return nil, "", fmt.Errorf("%s: %w: last row date %q is not YYYY-MM-DD", s.path, model.ErrMalformedStore, lastDate)
	}

	return categories, lastDate, nil
}

// Append writes one record as a new line. The date and URL fields are quoted,
// numeric fields are bare, absent values are empty fields.
func (s *TSV) Append(rec model.LossRecord) error {
	fields := make([]string, 0, len(rec.Values)+2)
	fields = append(fields, `"`+rec.Date+`"`)
	fields = append(fields, rec.Values...)
	fields = append(fields, `"`+rec.SourceURL+`"`)

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open store %s: %w", s.path, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteString(strings.Join(fields, "\t") + "\n"); err != nil {
		return fmt.Errorf("append to store %s: %w", s.path, err)
	}

	return nil
}

// stripQuotes removes one pair of surrounding double quotes, if present.
func stripQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
