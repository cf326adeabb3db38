package suggest

import (
	"testing"

	"github.com/bastiangx/catalogserve/pkg/catalog"
	"github.com/bastiangx/catalogserve/pkg/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildIndex(titles ...string) *index.Index {
	items := make([]catalog.Item, len(titles))
	for i, title := range titles {
		items[i] = catalog.Item{ID: title, Title: title}
	}
	return index.Build(catalog.New(items))
}

func labels(sugs []Suggestion) []string {
	out := make([]string, len(sugs))
	for i, s := range sugs {
		out[i] = s.Label
	}
	return out
}

func TestSuggestPopularOnBlankQuery(t *testing.T) {
	ix := index.Build(catalog.New([]catalog.Item{
		{ID: "1", Tags: []string{"robotics", "iot"}},
		{ID: "2", Tags: []string{"robotics", "iot"}},
		{ID: "3", Tags: []string{"robotics", "iot"}},
		{ID: "4", Tags: []string{"robotics"}},
		{ID: "5", Tags: []string{"robotics"}},
		{ID: "6", Tags: []string{"blockchain"}},
	}))

	g := NewGenerator(nil, Limits{})
	for _, q := range []string{"", "  "} {
		got := g.Suggest(ix, q)
		assert.Equal(t, []Suggestion{
			{Label: "robotics", Source: SourcePopular},
			{Label: "iot", Source: SourcePopular},
			{Label: "blockchain", Source: SourcePopular},
		}, got)
	}

	got := NewGenerator(nil, Limits{Popular: 2}).Suggest(ix, "")
	assert.Equal(t, []string{"robotics", "iot"}, labels(got))
}

func TestSuggestKeywordCompletions(t *testing.T) {
	ix := buildIndex("machine learning", "machine vision", "mach3 controller")

	got := NewGenerator(nil, Limits{}).Suggest(ix, "Mach")
	assert.Equal(t, []Suggestion{
		{Label: "machine", Source: SourceKeyword},
		{Label: "mach3", Source: SourceKeyword},
	}, got)
}

func TestSuggestSkipsExactFragment(t *testing.T) {
	ix := buildIndex("robotics lab")

	got := NewGenerator(nil, Limits{}).Suggest(ix, "robotics")
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSuggestSynonyms(t *testing.T) {
	got := NewGenerator(nil, Limits{}).Suggest(buildIndex(), "ai")

	assert.Equal(t, []string{
		"artificial intelligence", "artificial", "intelligence",
		"machine learning", "machine", "learning",
		"ml", "deep learning", "deep",
	}, labels(got))
	for _, s := range got {
		assert.Equal(t, SourceSynonym, s.Source)
	}
}

func TestSuggestCapsAndOrder(t *testing.T) {
	ix := buildIndex("learning lecture ledger legal lemon lens level")

	got := NewGenerator(nil, Limits{}).Suggest(ix, "ai le")
	require.Len(t, got, DefaultMaxResults)

	assert.Equal(t, []string{
		"learning", "lecture", "ledger", "legal", "lemon", "lens",
		"ai", "artificial intelligence", "artificial", "intelligence",
	}, labels(got))
	for _, s := range got[:DefaultKeywordLimit] {
		assert.Equal(t, SourceKeyword, s.Source)
	}
	for _, s := range got[DefaultKeywordLimit:] {
		assert.Equal(t, SourceSynonym, s.Source)
	}
}

func TestSuggestDeduplicatesAcrossSources(t *testing.T) {
	ix := buildIndex("machine shop")

	got := NewGenerator(nil, Limits{Max: 20}).Suggest(ix, "ai mach")

	seen := map[string]int{}
	for _, s := range got {
		seen[s.Label]++
	}
	assert.Equal(t, 1, seen["machine"])
	assert.Equal(t, Suggestion{Label: "machine", Source: SourceKeyword}, got[0])
}
