package model

import (
	"errors"
	"fmt"
)

// ErrMalformedStore signals that the store file is empty or cannot be parsed.
// This is a configuration error: fatal at startup, never retried.
var ErrMalformedStore = errors.New("store file is empty or malformed")

// UnresolvedDayError signals that no validated post could be found for a day
// in the missing range. The run stops at the last successfully appended day,
// so a rerun resumes from it.
type UnresolvedDayError struct {
	Date string
}

func (e *UnresolvedDayError) Error() string {
	return fmt.Sprintf("missing data for %s", e.Date)
}
