package archive

import (
	"fmt"
	"strings"
	"time"

	"github.com/goodsign/monday"
)

// MonthNumbers maps the twelve lowercase month names of the given locale to
// their zero-padded numbers ("01".."12"). The table is generated from locale
// data rather than hand-coded, so a wording change in the locale definition
// propagates automatically.
func MonthNumbers(locale string) map[string]string {
	names := make(map[string]string, 12)
	for m := time.January; m <= time.December; m++ {
		t := time.Date(2000, m, 1, 12, 0, 0, 0, time.UTC)
		name := monday.Format(t, "January", monday.Locale(locale))
		names[strings.ToLower(name)] = fmt.Sprintf("%02d", int(m))
	}
	return names
}
