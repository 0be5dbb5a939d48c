package archive

import (
	"fmt"
	"testing"
)

const baseURL = "https://www.mil.gov.ua/archive?page=1"

// monthName returns the uk_UA name for a zero-padded month number, from the
// same generated table the builder uses.
func monthName(t *testing.T, num string) string {
	t.Helper()
	for name, n := range MonthNumbers("uk_UA") {
		if n == num {
			return name
		}
	}
	t.Fatalf("no month name for %s", num)
	return ""
}

func listingFixture(t *testing.T) string {
	t.Helper()
	march := monthName(t, "03")
	february := monthName(t, "02")

	return fmt.Sprintf(`
	<html><body><div id="aticle-content">
		<h3>2024</h3>
		<ul>
			<li><h4>%s</h4>
				<ul>
					<li><h5>13</h5>
						<ul>
							<li>Президент відвідав бригаду <a href="/news/visit">читати</a></li>
						</ul>
					</li>
					<li><h5>12</h5>
						<ul>
							<li>Новини тилу <a href="/news/rear">читати</a></li>
							<li>Втрати ворога станом на 12 березня <a href="/news/losses-03-12">читати</a></li>
						</ul>
					</li>
					<li><h5>11</h5>
						<ul>
							<li>Загальні бойові втрати противника <a href="/news/losses-03-11">читати</a></li>
							<li>Уточнені втрати <a href="/news/losses-03-11-upd">читати</a></li>
						</ul>
					</li>
					<li><h5>10</h5>
						<ul>
							<li>Втрати ворога <a href="/news/losses-03-10">читати</a></li>
						</ul>
					</li>
				</ul>
			</li>
			<li><h4>%s</h4>
				<ul>
					<li><h5>29</h5>
						<ul>
							<li>Втрати ворога <a href="/news/losses-02-29">читати</a></li>
						</ul>
					</li>
				</ul>
			</li>
		</ul>
		<h3>2023</h3>
		<ul>
			<li><h4>%s</h4>
				<ul>
					<li><h5>31</h5>
						<ul>
							<li>Втрати ворога <a href="/news/losses-2023">читати</a></li>
						</ul>
					</li>
				</ul>
			</li>
		</ul>
	</div></body></html>`, march, february, monthName(t, "12"))
}

func TestMonthNumbers(t *testing.T) {
	en := MonthNumbers("en_US")
	if len(en) != 12 {
		t.Fatalf("Expected 12 months, got %d", len(en))
	}
	if en["january"] != "01" || en["december"] != "12" {
		t.Errorf("Unexpected en_US table: %v", en)
	}

	uk := MonthNumbers("uk_UA")
	if len(uk) != 12 {
		t.Fatalf("Expected 12 uk_UA months, got %d", len(uk))
	}
}

func TestBuildIndex(t *testing.T) {
	b := NewBuilder("#aticle-content", "втрат", "uk_UA")

	index, err := b.Build(listingFixture(t), baseURL, "2024-03-11")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Days before the cutoff and older months/years are pruned.
	if len(index) != 3 {
		t.Fatalf("Expected 3 days, got %d: %v", len(index), index)
	}
	for _, stale := range []string{"2024-03-10", "2024-02-29", "2023-12-31"} {
		if _, ok := index[stale]; ok {
			t.Errorf("Expected %s to be pruned", stale)
		}
	}

	// A day with no matching posts is present with an empty candidate list.
	if got, ok := index["2024-03-13"]; !ok || len(got) != 0 {
		t.Errorf("Expected empty candidates for 2024-03-13, got %v (present=%v)", got, ok)
	}

	// Non-matching entries are filtered, URLs are absolute.
	got := index["2024-03-12"]
	if len(got) != 1 || got[0] != "https://www.mil.gov.ua/news/losses-03-12" {
		t.Errorf("Unexpected candidates for 2024-03-12: %v", got)
	}

	// Multiple matching posts stay in listing order.
	got = index["2024-03-11"]
	if len(got) != 2 ||
		got[0] != "https://www.mil.gov.ua/news/losses-03-11" ||
		got[1] != "https://www.mil.gov.ua/news/losses-03-11-upd" {
		t.Errorf("Unexpected candidates for 2024-03-11: %v", got)
	}
}

func TestBuildIndexMissingRegion(t *testing.T) {
	b := NewBuilder("#aticle-content", "втрат", "uk_UA")

	if _, err := b.Build("<html><body><p>nothing</p></body></html>", baseURL, "2024-03-11"); err == nil {
		t.Error("Expected error for missing content region")
	}
}

func TestBuildIndexBadCutoff(t *testing.T) {
	b := NewBuilder("#aticle-content", "втрат", "uk_UA")

	if _, err := b.Build(listingFixture(t), baseURL, "11.03.2024"); err == nil {
		t.Error("Expected error for malformed cutoff")
	}
}
