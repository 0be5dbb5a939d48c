package model

// LossRecord is one appended row of the store: a calendar day, one value per
// category and the URL of the post the values were extracted from.
// Values are aligned positionally with the store's category list; an empty
// string means the category was absent from the post.
type LossRecord struct {
	Date      string   // YYYY-MM-DD
	Values    []string // Decimal digits or "" per category
	SourceURL string
}

// DayIndex maps a calendar day (YYYY-MM-DD) to the candidate post URLs
// published for that day, in listing order. Built once per run from the
// archive listing; read-only afterwards.
type DayIndex map[string][]string
