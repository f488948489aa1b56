package report

import (
	"sort"

	"github.com/unfoldingWord-dev/tools-sub000/internal/model"
)

type highlightRecord struct {
	sourceText string
	fixes      map[string]string
}

// BadHighlights records note phrases that were not found verbatim in the
// text they annotate.
type BadHighlights struct {
	records map[string]*highlightRecord
}

// NewBadHighlights creates an empty accumulator
func NewBadHighlights() *BadHighlights {
	return &BadHighlights{records: make(map[string]*highlightRecord)}
}

// Add records phrase as unmatched for rc. fix is the alternate phrasing
// that matched, empty if none did. The source text of the first call for
// an rc is kept.
func (b *BadHighlights) Add(rc, sourceText, phrase, fix string) bool {
	rec, ok := b.records[rc]
	if !ok {
		rec = &highlightRecord{sourceText: sourceText, fixes: make(map[string]string)}
		b.records[rc] = rec
	}
	if _, exists := rec.fixes[phrase]; exists {
		return false
	}
	rec.fixes[phrase] = fix
	return true
}

// Len returns the number of unmatched phrases across all notes
func (b *BadHighlights) Len() int {
	n := 0
	for _, rec := range b.records {
		n += len(rec.fixes)
	}
	return n
}

// Finalize lists records sorted by rc, phrases sorted within each record
func (b *BadHighlights) Finalize() []model.BadHighlight {
	out := make([]model.BadHighlight, 0, len(b.records))
	for rc, rec := range b.records {
		entry := model.BadHighlight{RC: rc, SourceText: rec.sourceText}
		for phrase, fix := range rec.fixes {
			pf := model.PhraseFix{Phrase: phrase}
			if fix != "" {
				f := fix
				pf.Fix = &f
			}
			entry.Phrases = append(entry.Phrases, pf)
		}
		sort.Slice(entry.Phrases, func(i, j int) bool {
			return entry.Phrases[i].Phrase < entry.Phrases[j].Phrase
		})
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RC < out[j].RC })
	return out
}
