/*
Package rank scores catalog items against a free-text query.

Scoring, per item, over its lowercase searchable text:

	+FullQuery  when the whole trimmed query is a substring
	+Term       for every expanded term (len >= MinTermLen) that is a substring
	+Tag        additionally, when some tag contains that term

Items with a positive score come first, highest score first, ties in scope
order. The rest follow sorted by title.
*/
package rank

import (
	"sort"
	"strings"

	"github.com/bastiangx/catalogserve/pkg/catalog"
	"github.com/bastiangx/catalogserve/pkg/synonym"
	"github.com/bastiangx/catalogserve/pkg/text"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Weights are the score contributions of each kind of hit.
type Weights struct {
	FullQuery  int
	Term       int
	Tag        int
	MinTermLen int
}

// DefaultWeights are the production weights.
var DefaultWeights = Weights{FullQuery: 12, Term: 4, Tag: 3, MinTermLen: 2}

const (
	DefaultTopMatches = 12
	DefaultTopIDs     = 5
)

// Scored pairs an item with its score.
type Scored struct {
	Item  *catalog.Item
	Score int
}

// Result is everything derived from one ranking call.
type Result struct {
	// Ordered is the full scope in display order.
	Ordered []Scored
	// Matching counts items with a positive score.
	Matching int
	// TopMatches holds the first matches, for listing metadata.
	TopMatches []Scored
	// NormalizedQuery is the trimmed, lowercased query; "" when blank.
	NormalizedQuery string
	// TopMatchIDs identifies the first matches, for analytics.
	TopMatchIDs []string
}

// Items returns the ordered items without scores.
func (r Result) Items() []*catalog.Item {
	out := make([]*catalog.Item, len(r.Ordered))
	for i, s := range r.Ordered {
		out[i] = s.Item
	}
	return out
}

// Ranker orders a scope of items for a query.
type Ranker struct {
	expander   *synonym.Expander
	weights    Weights
	topMatches int
	topIDs     int
}

// Option customizes a Ranker.
type Option func(*Ranker)

// WithWeights replaces the default weights.
func WithWeights(w Weights) Option {
	return func(r *Ranker) {
		r.weights = w
	}
}

// WithLimits sets how many matches and IDs a Result carries.
func WithLimits(topMatches, topIDs int) Option {
	return func(r *Ranker) {
		if topMatches > 0 {
			r.topMatches = topMatches
		}
		if topIDs > 0 {
			r.topIDs = topIDs
		}
	}
}

// New returns a Ranker that expands queries with expander.
func New(expander *synonym.Expander, opts ...Option) *Ranker {
	if expander == nil {
		expander = synonym.Default()
	}
	r := &Ranker{
		expander:   expander,
		weights:    DefaultWeights,
		topMatches: DefaultTopMatches,
		topIDs:     DefaultTopIDs,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Terms returns the expanded term set for a trimmed, lowercased query: its
// tokens, their synonyms, and the query itself.
func (r *Ranker) Terms(trimmed string) *synonym.Set {
	terms := r.expander.Expand(text.Tokenize(trimmed))
	terms.Add(trimmed)
	return terms
}

// Score computes the score of one item.
func (r *Ranker) Score(it *catalog.Item, trimmed string, terms *synonym.Set) int {
	haystack := it.SearchText()
	tags := make([]string, len(it.Tags))
	for i, tag := range it.Tags {
		tags[i] = strings.ToLower(tag)
	}

	score := 0
	if strings.Contains(haystack, trimmed) {
		score += r.weights.FullQuery
	}

	for _, term := range terms.Slice() {
		if len(term) < r.weights.MinTermLen {
			continue
		}
		if strings.Contains(haystack, term) {
			score += r.weights.Term
		}
		if anyContains(tags, term) {
			score += r.weights.Tag
		}
	}
	return score
}

func anyContains(haystacks []string, needle string) bool {
	for _, h := range haystacks {
		if strings.Contains(h, needle) {
			return true
		}
	}
	return false
}

// Rank scores scope against query and orders it. A blank query returns the
// scope untouched with every score zero.
func (r *Ranker) Rank(scope []*catalog.Item, query string) Result {
	trimmed := strings.TrimSpace(strings.ToLower(query))

	if trimmed == "" {
		ordered := make([]Scored, len(scope))
		for i, it := range scope {
			ordered[i] = Scored{Item: it}
		}
		return Result{
			Ordered:     ordered,
			TopMatches:  []Scored{},
			TopMatchIDs: []string{},
		}
	}

	terms := r.Terms(trimmed)

	scored := make([]Scored, len(scope))
	for i, it := range scope {
		scored[i] = Scored{Item: it, Score: r.Score(it, trimmed, terms)}
	}

	var matches, nonMatches []Scored
	for _, s := range scored {
		if s.Score > 0 {
			matches = append(matches, s)
		} else {
			nonMatches = append(nonMatches, s)
		}
	}

	sortByScore(matches)
	sortByTitle(nonMatches)

	var ordered []Scored
	if len(matches) > 0 {
		ordered = append(append(make([]Scored, 0, len(scored)), matches...), nonMatches...)
	} else {
		// Nothing matched: keep the whole scope, ordered by score. With
		// every score at zero this is the scope order.
		ordered = scored
		sortByScore(ordered)
	}

	top := matches
	if len(top) > r.topMatches {
		top = top[:r.topMatches]
	}
	ids := make([]string, 0, r.topIDs)
	for i := 0; i < len(matches) && i < r.topIDs; i++ {
		ids = append(ids, matches[i].Item.ID)
	}

	return Result{
		Ordered:         ordered,
		Matching:        len(matches),
		TopMatches:      append([]Scored{}, top...),
		NormalizedQuery: trimmed,
		TopMatchIDs:     ids,
	}
}

func sortByScore(s []Scored) {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].Score > s[j].Score
	})
}

// sortByTitle orders items with locale-aware title collation. Items missing
// a title compare equal to everything and so keep their relative order.
func sortByTitle(s []Scored) {
	if len(s) < 2 {
		return
	}
	coll := collate.New(language.Und)
	sort.SliceStable(s, func(i, j int) bool {
		a, b := s[i].Item.Title, s[j].Item.Title
		if a == "" || b == "" {
			return false
		}
		return coll.CompareString(a, b) < 0
	})
}
