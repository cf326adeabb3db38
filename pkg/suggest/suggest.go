package suggest

import (
	"strings"

	"github.com/bastiangx/catalogserve/internal/utils"
	"github.com/bastiangx/catalogserve/pkg/index"
	"github.com/bastiangx/catalogserve/pkg/metrics"
	"github.com/bastiangx/catalogserve/pkg/synonym"
)

// Source tells where a suggestion came from.
type Source string

const (
	SourcePopular Source = "popular"
	SourceKeyword Source = "keyword"
	SourceSynonym Source = "synonym"
)

// Default caps.
const (
	DefaultPopularLimit = 6
	DefaultKeywordLimit = 6
	DefaultMaxResults   = 10
)

// Suggestion is one proposed completion or related term.
type Suggestion struct {
	Label  string `msgpack:"w" json:"label"`
	Source Source `msgpack:"s" json:"source"`
}

// Generator proposes completions from a keyword index and a synonym table.
type Generator struct {
	expander     *synonym.Expander
	popularLimit int
	keywordLimit int
	maxResults   int
}

// Limits caps each stage of suggestion generation.
type Limits struct {
	Popular int
	Keyword int
	Max     int
}

// NewGenerator returns a Generator. Zero limits fall back to the defaults.
func NewGenerator(expander *synonym.Expander, limits Limits) *Generator {
	if expander == nil {
		expander = synonym.Default()
	}
	g := &Generator{
		expander:     expander,
		popularLimit: DefaultPopularLimit,
		keywordLimit: DefaultKeywordLimit,
		maxResults:   DefaultMaxResults,
	}
	if limits.Popular > 0 {
		g.popularLimit = limits.Popular
	}
	if limits.Keyword > 0 {
		g.keywordLimit = limits.Keyword
	}
	if limits.Max > 0 {
		g.maxResults = limits.Max
	}
	return g
}

// collector appends suggestions, dropping labels already seen in any case.
type collector struct {
	filter *utils.SuggestionFilter
	out    []Suggestion
}

func newCollector() *collector {
	return &collector{filter: utils.NewSuggestionFilter()}
}

func (c *collector) push(label string, source Source) {
	if label == "" || !c.filter.ShouldInclude(label) {
		return
	}
	c.out = append(c.out, Suggestion{Label: label, Source: source})
}

// Suggest returns suggestions for query. A blank query yields the most
// popular keywords. Otherwise keyword completions of the last word come
// first, then synonym expansions of the query and its words.
func (g *Generator) Suggest(ix *index.Index, query string) []Suggestion {
	c := newCollector()
	trimmed := strings.TrimSpace(strings.ToLower(query))

	if trimmed == "" {
		for _, e := range ix.Top(g.popularLimit) {
			c.push(e.Keyword, SourcePopular)
		}
		return record(c.out)
	}

	fragments := strings.Fields(trimmed)
	last := fragments[len(fragments)-1]

	completions := 0
	for _, e := range ix.WithPrefix(last) {
		if completions == g.keywordLimit {
			break
		}
		if e.Keyword == last {
			continue
		}
		c.push(e.Keyword, SourceKeyword)
		completions++
	}

	expanded := g.expander.Expand(append([]string{trimmed}, fragments...))
	for _, term := range expanded.Slice() {
		if term != trimmed && term != last {
			c.push(term, SourceSynonym)
		}
	}

	out := c.out
	if len(out) > g.maxResults {
		out = out[:g.maxResults]
	}
	return record(out)
}

func record(out []Suggestion) []Suggestion {
	for _, s := range out {
		metrics.SuggestionsTotal.WithLabelValues(string(s.Source)).Inc()
	}
	if out == nil {
		return []Suggestion{}
	}
	return out
}
