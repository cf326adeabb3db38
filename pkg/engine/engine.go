/*
Package engine wires the catalog search pieces together.

An Engine owns the current catalog pointer, the keyword index cache, the
synonym expander, the ranker and the suggestion generator. Every method is
a pure computation over the current catalog; none of them fail.

	eng := engine.New(cat)
	res := eng.Search(filters.ParseQuery("?category=cse&q=ai"))
	sugs := eng.Suggest("mach")
*/
package engine

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/bastiangx/catalogserve/pkg/analytics"
	"github.com/bastiangx/catalogserve/pkg/catalog"
	"github.com/bastiangx/catalogserve/pkg/classify"
	"github.com/bastiangx/catalogserve/pkg/config"
	"github.com/bastiangx/catalogserve/pkg/filters"
	"github.com/bastiangx/catalogserve/pkg/index"
	"github.com/bastiangx/catalogserve/pkg/metrics"
	"github.com/bastiangx/catalogserve/pkg/rank"
	"github.com/bastiangx/catalogserve/pkg/schema"
	"github.com/bastiangx/catalogserve/pkg/suggest"
	"github.com/bastiangx/catalogserve/pkg/synonym"
	"github.com/charmbracelet/log"
)

// Engine answers search, suggestion and listing queries for one catalog at
// a time.
type Engine struct {
	mu        sync.RWMutex
	catalog   *catalog.Catalog
	cache     *index.Cache
	expander  *synonym.Expander
	ranker    *rank.Ranker
	generator *suggest.Generator
	tracker   *analytics.Tracker
	emitter   analytics.Emitter
	minQuery  int
	silent    bool
	listing   schema.Options
	logger    *log.Logger
}

var _ suggest.Suggester = (*Engine)(nil)

// Option customizes an Engine.
type Option func(*Engine)

// WithExpander replaces the default synonym table.
func WithExpander(e *synonym.Expander) Option {
	return func(eng *Engine) {
		eng.expander = e
	}
}

// WithEmitter sets where analytics events go.
func WithEmitter(em analytics.Emitter, minQueryLen int) Option {
	return func(eng *Engine) {
		eng.emitter = em
		if minQueryLen > 0 {
			eng.minQuery = minQueryLen
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *log.Logger) Option {
	return func(eng *Engine) {
		eng.logger = l
	}
}

// WithConfig applies ranking, suggestion, listing and synonym settings.
// Config synonyms are layered over an expander set earlier, if any.
func WithConfig(cfg *config.Config) Option {
	return func(eng *Engine) {
		base := eng.expander
		if base == nil {
			base = synonym.Default()
		}
		eng.expander = base.Merge(cfg.Synonyms)
		eng.ranker = rank.New(eng.expander,
			rank.WithWeights(rank.Weights{
				FullQuery:  cfg.Search.FullQueryBonus,
				Term:       cfg.Search.TermBonus,
				Tag:        cfg.Search.TagBonus,
				MinTermLen: cfg.Search.MinTermLen,
			}),
			rank.WithLimits(cfg.Search.TopMatches, cfg.Search.TopIDs),
		)
		eng.generator = suggest.NewGenerator(eng.expander, suggest.Limits{
			Popular: cfg.Suggest.PopularLimit,
			Keyword: cfg.Suggest.KeywordLimit,
			Max:     cfg.Suggest.MaxResults,
		})
		eng.listing = schema.Options{
			BaseURL:  cfg.Listing.BaseURL,
			Currency: cfg.Listing.Currency,
			Limit:    cfg.Listing.Limit,
		}
		eng.silent = !cfg.Analytics.Enabled
		if cfg.Analytics.MinQueryLen > 0 {
			eng.minQuery = cfg.Analytics.MinQueryLen
		}
	}
}

// New builds an Engine over cat.
func New(cat *catalog.Catalog, opts ...Option) *Engine {
	eng := &Engine{
		catalog: cat,
		cache:   index.NewCache(),
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.expander == nil {
		eng.expander = synonym.Default()
	}
	if eng.ranker == nil {
		eng.ranker = rank.New(eng.expander)
	}
	if eng.generator == nil {
		eng.generator = suggest.NewGenerator(eng.expander, suggest.Limits{})
	}
	switch {
	case eng.silent:
		eng.emitter = nil
	case eng.emitter == nil:
		eng.emitter = analytics.NewLogEmitter(eng.logger)
	}
	eng.tracker = analytics.NewTracker(eng.emitter, eng.minQuery)
	return eng
}

// Catalog returns the current catalog.
func (e *Engine) Catalog() *catalog.Catalog {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.catalog
}

// SetCatalog swaps the catalog. The keyword index is rebuilt on next use.
func (e *Engine) SetCatalog(cat *catalog.Catalog) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.catalog = cat
	e.logger.Debug("catalog replaced", "items", cat.Len())
}

// Index returns the keyword index of the current catalog.
func (e *Engine) Index() *index.Index {
	return e.cache.Get(e.Catalog())
}

// Scope returns the items f selects, in catalog order: everything whose
// primary bucket is f.Category (all items when empty), narrowed to the CSE
// track when a sub-category is set.
func (e *Engine) Scope(f filters.Filters) []*catalog.Item {
	f = filters.Normalize(f)
	items := e.Catalog().Items()

	if f.Category == "" {
		return items
	}

	scoped := items[:0]
	for _, it := range items {
		if classify.Primary(it) != f.Category {
			continue
		}
		if f.Category == classify.CSE && f.SubCategory != "" && classify.CseSubCategory(it) != f.SubCategory {
			continue
		}
		scoped = append(scoped, it)
	}
	return scoped
}

// Search scopes and ranks the catalog for f.
func (e *Engine) Search(f filters.Filters) rank.Result {
	f = filters.Normalize(f)
	res := e.ranker.Rank(e.Scope(f), f.Query)

	metrics.SearchesTotal.WithLabelValues(f.CategoryKey()).Inc()
	if res.NormalizedQuery != "" {
		metrics.SearchMatches.Observe(float64(res.Matching))
	}
	e.logger.Debug("search",
		"category", f.CategoryKey(),
		"query", res.NormalizedQuery,
		"matching", res.Matching,
		"total", len(res.Ordered))
	return res
}

// Suggest returns suggestions for a partial query.
func (e *Engine) Suggest(query string) []suggest.Suggestion {
	return e.generator.Suggest(e.Index(), query)
}

// Record reports res to analytics unless session already saw it.
func (e *Engine) Record(session *analytics.Session, f filters.Filters, res rank.Result) bool {
	return e.tracker.Record(session, filters.Normalize(f), res)
}

// Listing renders the schema.org metadata of a ranked result.
func (e *Engine) Listing(res rank.Result) *schema.ItemList {
	return schema.NewItemList(res.Items(), e.listing)
}

// featuredOrder lists the landing-page sections.
var featuredOrder = []string{classify.CSE, classify.EEE, classify.MATLAB}

const featuredPerSection = 3

// Section is one landing-page block.
type Section struct {
	Category string
	Title    string
	Items    []*catalog.Item
}

// Featured returns the landing-page sections: the first few items of each
// featured bucket, skipping empty buckets.
func (e *Engine) Featured() []Section {
	items := e.Catalog().Items()
	var sections []Section

	for _, cat := range featuredOrder {
		s := Section{Category: cat, Title: cat + " Projects"}
		for _, it := range items {
			if len(s.Items) == featuredPerSection {
				break
			}
			if classify.Primary(it) == cat {
				s.Items = append(s.Items, it)
			}
		}
		if len(s.Items) > 0 {
			sections = append(sections, s)
		}
	}
	return sections
}

// ApplySuggestion replaces the last word of query with value, or returns
// value when query is blank.
func ApplySuggestion(query, value string) string {
	current := strings.TrimRightFunc(query, unicode.IsSpace)
	if current == "" {
		return value
	}
	parts := strings.Fields(current)
	parts[len(parts)-1] = value
	return strings.Join(parts, " ")
}

// Summary is the one-line description shown under the search box.
func Summary(f filters.Filters, res rank.Result) string {
	f = filters.Normalize(f)
	total := len(res.Ordered)

	if res.NormalizedQuery != "" {
		if res.Matching > 0 {
			return fmt.Sprintf("Highlighting %d relevant project%s out of %d.", res.Matching, plural(res.Matching), total)
		}
		return fmt.Sprintf("No direct matches yet, showing all %d projects sorted by relevance.", total)
	}
	if label := filters.SubCategoryLabel(f.SubCategory); label != "" {
		return fmt.Sprintf("Showing %d %s project%s.", total, label, plural(total))
	}
	return ""
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
