package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mikeshiyan/orks-losses/internal/model"
)

func writeStore(t *testing.T, content string) *TSV {
	t.Helper()
	path := filepath.Join(t.TempDir(), "losses.tsv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return New(path)
}

func TestLoadHeader(t *testing.T) {
	s := writeStore(t, "\"Date\"\t\"troops\"\t\"tanks\"\t\"URL\"\n"+
		"\"2024-03-09\"\t480\t9\t\"https://example.com/a\"\n"+
		"\"2024-03-10\"\t500\t\t\"https://example.com/b\"\n")

	categories, lastDate, err := s.LoadHeader()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(categories) != 2 || categories[0] != "troops" || categories[1] != "tanks" {
		t.Errorf("Expected [troops tanks], got %v", categories)
	}
	if lastDate != "2024-03-10" {
		t.Errorf("Expected last date 2024-03-10, got %s", lastDate)
	}
}

func TestLoadHeaderUnquotedLabels(t *testing.T) {
	s := writeStore(t, "Date\ttroops\tURL\n\"2024-03-10\"\t500\t\"u\"\n")

	categories, _, err := s.LoadHeader()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(categories) != 1 || categories[0] != "troops" {
		t.Errorf("Expected [troops], got %v", categories)
	}
}

func TestLoadHeaderMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":       "",
		"header only": "\"Date\"\t\"troops\"\t\"URL\"\n",
		"few columns": "\"Date\"\t\"URL\"\n\"2024-03-10\"\t\"u\"\n",
		"bad date":    "\"Date\"\t\"troops\"\t\"URL\"\nnot-a-date\t1\t\"u\"\n",
	}

	for name, content := range cases {
		s := writeStore(t, content)
		if _, _, err := s.LoadHeader(); !errors.Is(err, model.ErrMalformedStore) {
			t.Errorf("%s: expected ErrMalformedStore, got %v", name, err)
		}
	}
}

func TestLoadHeaderMissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "absent.tsv"))
	if _, _, err := s.LoadHeader(); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestAppendRoundTrip(t *testing.T) {
	s := writeStore(t, "\"Date\"\t\"troops\"\t\"tanks\"\t\"URL\"\n"+
		"\"2024-03-10\"\t500\t10\t\"https://example.com/a\"\n")

	rec := model.LossRecord{
		Date:      "2024-03-11",
		Values:    []string{"510", ""},
		SourceURL: "https://example.com/b",
	}
	if err := s.Append(rec); err != nil {
		t.Fatalf("Append: %v", err)
	}

	_, lastDate, err := s.LoadHeader()
	if err != nil {
		t.Fatalf("LoadHeader after append: %v", err)
	}
	if lastDate != "2024-03-11" {
		t.Errorf("Expected last date 2024-03-11, got %s", lastDate)
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		t.Fatal(err)
	}
	want := "\"2024-03-11\"\t510\t\t\"https://example.com/b\"\n"
	got := string(raw)
	if len(got) < len(want) || got[len(got)-len(want):] != want {
		t.Errorf("Expected file to end with %q, got %q", want, got)
	}
}
