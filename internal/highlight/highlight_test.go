package highlight

import (
	"strings"
	"testing"

	"github.com/unfoldingWord-dev/tools-sub000/internal/report"
)

const noteRC = "rc://en/tn/help/gen/01/01"

func TestMatcher_ExactPhrase(t *testing.T) {
	bad := report.NewBadHighlights()
	m := NewMatcher(bad)

	got := m.Mark(noteRC, "In the beginning God created the heavens and the earth.", []string{"God created"})

	want := `In the beginning <span class="highlight">God created</span> the heavens and the earth.`
	if got != want {
		t.Errorf("Mark() = %q, want %q", got, want)
	}
	if bad.Len() != 0 {
		t.Errorf("expected no bad highlights, got %d", bad.Len())
	}
}

func TestMatcher_EllipsisSplitsPhrase(t *testing.T) {
	bad := report.NewBadHighlights()
	m := NewMatcher(bad)

	got := m.Mark(noteRC, "In the beginning God created the heavens and the earth.", []string{"beginning … heavens"})

	if strings.Count(got, `<span class="highlight">`) != 2 {
		t.Errorf("expected two highlighted parts, got %q", got)
	}
	if bad.Len() != 0 {
		t.Errorf("expected no bad highlights, got %d", bad.Len())
	}
}

func TestMatcher_QuoteVariantOfferedAsFix(t *testing.T) {
	bad := report.NewBadHighlights()
	m := NewMatcher(bad)

	text := "He said, “Let there be light,” and there was light."
	got := m.Mark(noteRC, text, []string{`"Let there be light,"`})

	if strings.Contains(got, "<span") {
		t.Errorf("variant match must not be highlighted, got %q", got)
	}

	entries := bad.Finalize()
	if len(entries) != 1 || len(entries[0].Phrases) != 1 {
		t.Fatalf("expected one bad highlight, got %+v", entries)
	}
	fix := entries[0].Phrases[0].Fix
	if fix == nil || *fix != "“Let there be light,”" {
		t.Errorf("expected curly-quote fix, got %v", fix)
	}
	if entries[0].SourceText != text {
		t.Errorf("source text not recorded: %q", entries[0].SourceText)
	}
}

func TestMatcher_CaseFoldOfferedAsFix(t *testing.T) {
	bad := report.NewBadHighlights()
	m := NewMatcher(bad)

	m.Mark(noteRC, "In the beginning God created", []string{"in the Beginning"})

	entries := bad.Finalize()
	if len(entries) != 1 {
		t.Fatalf("expected one record, got %d", len(entries))
	}
	fix := entries[0].Phrases[0].Fix
	if fix == nil || *fix != "In the beginning" {
		t.Errorf("expected case-folded fix, got %v", fix)
	}
}

func TestMatcher_MissingPhrase(t *testing.T) {
	bad := report.NewBadHighlights()
	m := NewMatcher(bad)

	got := m.Mark(noteRC, "In the beginning", []string{"darkness"})
	if got != "In the beginning" {
		t.Errorf("text should be unchanged, got %q", got)
	}

	entries := bad.Finalize()
	if len(entries) != 1 || entries[0].Phrases[0].Phrase != "darkness" || entries[0].Phrases[0].Fix != nil {
		t.Errorf("expected unmatched phrase without fix, got %+v", entries)
	}
}

func TestMatcher_EscapesText(t *testing.T) {
	m := NewMatcher(nil)

	got := m.Mark(noteRC, "a < b & c", []string{"b"})
	want := `a &lt; <span class="highlight">b</span> &amp; c`
	if got != want {
		t.Errorf("Mark() = %q, want %q", got, want)
	}
}

func TestMatcher_RepeatedWordTakesNextOccurrence(t *testing.T) {
	m := NewMatcher(nil)

	got := m.Mark(noteRC, "light and light", []string{"light", "light"})
	if strings.Count(got, "<span") != 2 {
		t.Errorf("expected both occurrences highlighted, got %q", got)
	}
}

func TestQuoteVariants_ExcludeOriginal(t *testing.T) {
	for _, v := range quoteVariants("God's word") {
		if v == "God's word" {
			t.Error("variants must not contain the original phrase")
		}
	}
	if got := curlyDoubles(`"a" "b"`); got != "“a” “b”" {
		t.Errorf("curlyDoubles() = %q", got)
	}
}
