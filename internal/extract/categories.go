// Package extract pulls per-category numeric values out of a validated post.
package extract

import (
	"fmt"
	"regexp"
)

// CategoryExtractor matches one numeric value per category against post text.
//
// Matching is order-sensitive by design: each successful match removes its
// span from the working text, so a figure stated for one category can never
// satisfy a later category's pattern. Categories must therefore be processed
// in a fixed order (the store's column order) for reproducibility.
type CategoryExtractor struct {
	suffix string
}

// Result of one extraction pass.
type Result struct {
	Values    []string // One entry per category, "" where nothing matched
	Remainder string   // Input text with every matched span removed
}

// NewCategoryExtractor creates an extractor with the given suffix pattern.
// The suffix is appended to each escaped category name; its first capture
// group must hold the numeric value.
func NewCategoryExtractor(suffixPattern string) *CategoryExtractor {
	return &CategoryExtractor{suffix: suffixPattern}
}

// Extract runs every category pattern, in order, over the text. It is a pure
// function of its inputs: the same text and categories always produce the
// same values and remainder.
func (e *CategoryExtractor) Extract(text string, categories []string) (*Result, error) {
	values := make([]string, 0, len(categories))
	remainder := text

	for _, category := range categories {
		re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(category) + e.suffix)
		if err != nil {
			return nil, fmt.Errorf("category %q pattern: %w", category, err)
		}

		loc := re.FindStringSubmatchIndex(remainder)
		if loc == nil {
			values = append(values, "")
			continue
		}

		values = append(values, remainder[loc[2]:loc[3]])
		remainder = remainder[:loc[0]] + remainder[loc[1]:]
	}

	return &Result{Values: values, Remainder: remainder}, nil
}
