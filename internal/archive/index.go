// Package archive builds the day-to-candidate-posts index from the news
// archive listing page.
//
// The listing nests year headers, month blocks and day blocks, each emitted
// in descending chronological order. Traversal relies on that ordering to
// terminate early: the first year, month or day older than the cutoff ends
// its level of the walk entirely.
package archive

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/mikeshiyan/orks-losses/internal/dates"
	"github.com/mikeshiyan/orks-losses/internal/model"
)

// Builder turns a listing document into a model.DayIndex.
type Builder struct {
	selector string            // Content region holding the year/month/day tree
	keyword  string            // Lowercase substring marking a loss report entry
	months   map[string]string // Lowercase locale month name -> "01".."12"
}

// NewBuilder creates a Builder for the given content selector, post keyword
// and month-name locale.
func NewBuilder(selector, keyword, locale string) *Builder {
	return &Builder{
		selector: selector,
		keyword:  strings.ToLower(keyword),
		months:   MonthNumbers(locale),
	}
}

// Build walks the listing HTML and returns the index of days at or after
// cutoff (a YYYY-MM-DD string). Post URLs are resolved against baseURL.
// Days with no matching posts get an empty candidate list.
func (b *Builder) Build(listingHTML, baseURL, cutoff string) (model.DayIndex, error) {
	start, err := dates.Parse(cutoff)
	if err != nil {
		return nil, fmt.Errorf("cutoff: %w", err)
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(listingHTML))
	if err != nil {
		return nil, fmt.Errorf("parse listing: %w", err)
	}

	container := doc.Find(b.selector).First()
	if container.Length() == 0 {
		return nil, fmt.Errorf("listing has no %q region", b.selector)
	}

	index := model.DayIndex{}
	year := 0
	var walkErr error

	container.Children().EachWithBreak(func(_ int, child *goquery.Selection) bool {
		switch goquery.NodeName(child) {
		case "h3":
			y, err := strconv.Atoi(firstChildText(child))
			if err != nil {
				walkErr = fmt.Errorf("year header %q: %w", firstChildText(child), err)
				return false
			}
			year = y

			// Everything below this year is older than the cutoff.
			if year < start.Year() {
				year = 0
				return false
			}

		case "ul":
			if year == 0 {
				break
			}

			child.Children().EachWithBreak(func(_ int, liMonth *goquery.Selection) bool {
				name := strings.ToLower(firstChildText(liMonth.Find("h4").First()))
				num, ok := b.months[name]
				if !ok {
					walkErr = fmt.Errorf("unknown month name %q in year %d", name, year)
					return false
				}
				ym := fmt.Sprintf("%d-%s", year, num)

				month, err := dates.Parse(ym + "-01")
				if err != nil {
					walkErr = fmt.Errorf("month %s: %w", ym, err)
					return false
				}

				// Months are emitted newest-first: the first fully stale
				// month ends this year block.
				if dates.LastDayOfMonth(month.Year(), month.Month()).Before(start) {
					return false
				}

				liMonth.Children().Eq(1).Children().EachWithBreak(func(_ int, liDay *goquery.Selection) bool {
					dayNum := firstChildText(liDay.Find("h5").First())
					if len(dayNum) == 1 {
						dayNum = "0" + dayNum
					}
					ymd := ym + "-" + dayNum

					day, err := dates.Parse(ymd)
					if err != nil {
						walkErr = fmt.Errorf("day %s: %w", ymd, err)
						return false
					}

					// Same newest-first assumption within the month.
					if day.Before(start) {
						return false
					}

					index[ymd] = b.collectPosts(liDay, base)
					return true
				})

				return walkErr == nil
			})

			year = 0
		}

		return walkErr == nil
	})

	if walkErr != nil {
		return nil, walkErr
	}
	return index, nil
}

// collectPosts gathers the URLs of the day's entries whose summary text
// contains the loss-report keyword, in listing order.
func (b *Builder) collectPosts(liDay *goquery.Selection, base *url.URL) []string {
	urls := []string{}

	liDay.Children().Eq(1).Children().Each(func(_ int, liPost *goquery.Selection) {
		if !strings.Contains(strings.ToLower(liPost.Text()), b.keyword) {
			return
		}

		href, ok := liPost.Find("a").First().Attr("href")
		if !ok || href == "" {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		urls = append(urls, base.ResolveReference(ref).String())
	})

	return urls
}

// firstChildText returns the trimmed text content of the selection's first
// child node. Year, month and day headings carry their value in the first
// text node, ahead of any decorative markup.
func firstChildText(s *goquery.Selection) string {
	if len(s.Nodes) == 0 {
		return ""
	}

	n := s.Nodes[0].FirstChild
	if n == nil {
		return ""
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return strings.TrimSpace(buf.String())
}
