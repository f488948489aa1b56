package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadLinks_FirstWriteWins(t *testing.T) {
	b := NewBadLinks()

	assert.True(t, b.Add("rc://en/tn/help/gen/01/02", "rc://en/tw/dict/bible/other/believe", "rc://en/tw/dict/bible/kt/believe", "missing-dir"))
	assert.False(t, b.Add("rc://en/tn/help/gen/01/02", "rc://en/tw/dict/bible/other/believe", "", "missing-dir"))

	fix, ok := b.Fix("rc://en/tn/help/gen/01/02", "rc://en/tw/dict/bible/other/believe")
	require.True(t, ok)
	assert.Equal(t, "rc://en/tw/dict/bible/kt/believe", fix)
	assert.Equal(t, 1, b.Len())
}

func TestBadLinks_FinalizeSorted(t *testing.T) {
	b := NewBadLinks()
	b.Add("rc://en/tn/help/gen/02/01", "rc://en/ta/man/translate/zzz", "", "missing-dir")
	b.Add("rc://en/tn/help/gen/01/01", "rc://en/tw/dict/bible/kt/b", "", "missing-dir")
	b.Add("rc://en/tn/help/gen/01/01", "rc://en/tw/dict/bible/kt/a", "rc://en/tw/dict/bible/other/a", "missing-dir")

	got := b.Finalize()
	require.Len(t, got, 3)

	assert.Equal(t, "rc://en/tn/help/gen/01/01", got[0].Source)
	assert.Equal(t, "rc://en/tw/dict/bible/kt/a", got[0].Target)
	require.NotNil(t, got[0].Fix)
	assert.Equal(t, "rc://en/tw/dict/bible/other/a", *got[0].Fix)

	assert.Equal(t, "rc://en/tw/dict/bible/kt/b", got[1].Target)
	assert.Nil(t, got[1].Fix)

	assert.Equal(t, "rc://en/tn/help/gen/02/01", got[2].Source)
}

func TestBadHighlights_FinalizeSorted(t *testing.T) {
	b := NewBadHighlights()
	b.Add("rc://en/tn/help/gen/01/02", "In the beginning", "zeta", "")
	b.Add("rc://en/tn/help/gen/01/02", "ignored", "alpha", "Alpha")
	b.Add("rc://en/tn/help/gen/01/01", "God created", "heavens", "")
	assert.False(t, b.Add("rc://en/tn/help/gen/01/01", "God created", "heavens", "x"))

	got := b.Finalize()
	require.Len(t, got, 2)
	assert.Equal(t, 3, b.Len())

	assert.Equal(t, "rc://en/tn/help/gen/01/01", got[0].RC)
	assert.Equal(t, "rc://en/tn/help/gen/01/02", got[1].RC)
	assert.Equal(t, "In the beginning", got[1].SourceText)

	require.Len(t, got[1].Phrases, 2)
	assert.Equal(t, "alpha", got[1].Phrases[0].Phrase)
	require.NotNil(t, got[1].Phrases[0].Fix)
	assert.Equal(t, "Alpha", *got[1].Phrases[0].Fix)
	assert.Equal(t, "zeta", got[1].Phrases[1].Phrase)
	assert.Nil(t, got[1].Phrases[1].Fix)
}
