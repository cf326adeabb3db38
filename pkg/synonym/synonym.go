// Package synonym expands query terms through a fixed, curated synonym table.
package synonym

import (
	"strings"

	"github.com/bastiangx/catalogserve/pkg/text"
)

// DefaultTable maps a term or phrase to related terms and phrases.
var DefaultTable = map[string][]string{
	"ai":               {"artificial intelligence", "machine learning", "ml", "deep learning"},
	"ml":               {"machine learning", "artificial intelligence", "deep learning"},
	"machine learning": {"ml", "artificial intelligence", "deep learning", "neural networks"},
	"deep learning":    {"neural networks", "cnn", "rnn"},
	"iot":              {"internet of things", "embedded systems", "smart devices"},
	"robotic":          {"robotics", "automation", "mechatronics"},
	"robot":            {"robotics", "automation"},
	"blockchain":       {"web3", "distributed ledger"},
	"web development":  {"full stack", "frontend", "backend"},
	"cloud":            {"aws", "azure", "gcp", "cloud computing"},
	"data science":     {"analytics", "machine learning", "statistics"},
	"matlab":           {"simulink", "mathworks"},
	"power systems":    {"power", "grid", "electrical"},
	"image processing": {"computer vision", "opencv"},
	"vision":           {"computer vision", "image processing"},
	"automation":       {"robotics", "iot", "control systems"},
	"biotech":          {"bio technology", "bioinformatics"},
}

// Expander looks terms up in an immutable table.
type Expander struct {
	table map[string][]string
}

// New builds an Expander over table. Keys are lowercased and trimmed; the
// table is copied so later changes to the argument have no effect.
func New(table map[string][]string) *Expander {
	t := make(map[string][]string, len(table))
	for k, v := range table {
		key := strings.ToLower(strings.TrimSpace(k))
		if key == "" {
			continue
		}
		t[key] = append([]string(nil), v...)
	}
	return &Expander{table: t}
}

// Default returns an Expander over DefaultTable.
func Default() *Expander {
	return New(DefaultTable)
}

// Merge returns a new Expander whose table is e's with extra layered on top.
// Keys in extra replace keys in e.
func (e *Expander) Merge(extra map[string][]string) *Expander {
	merged := make(map[string][]string, len(e.table)+len(extra))
	for k, v := range e.table {
		merged[k] = v
	}
	for k, v := range extra {
		merged[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return New(merged)
}

// Lookup returns the phrases mapped to term, matching the whole term only.
func (e *Expander) Lookup(term string) ([]string, bool) {
	v, ok := e.table[strings.ToLower(term)]
	return v, ok
}

// Len is the number of table entries.
func (e *Expander) Len() int {
	return len(e.table)
}

// Expand returns the input terms plus every mapped phrase and the phrase's
// own tokens.
func (e *Expander) Expand(terms []string) *Set {
	out := NewSet(terms...)

	for _, term := range terms {
		synonyms, ok := e.Lookup(term)
		if !ok {
			continue
		}
		for _, syn := range synonyms {
			out.Add(strings.ToLower(syn))
			out.Add(text.Tokenize(syn)...)
		}
	}
	return out
}

// Set is a string set that remembers insertion order.
type Set struct {
	order []string
	index map[string]struct{}
}

// NewSet returns a set holding terms.
func NewSet(terms ...string) *Set {
	s := &Set{index: make(map[string]struct{}, len(terms))}
	s.Add(terms...)
	return s
}

// Add inserts terms not already present.
func (s *Set) Add(terms ...string) {
	for _, t := range terms {
		if _, ok := s.index[t]; ok {
			continue
		}
		s.index[t] = struct{}{}
		s.order = append(s.order, t)
	}
}

// Has reports membership.
func (s *Set) Has(term string) bool {
	_, ok := s.index[term]
	return ok
}

// Len is the number of distinct terms.
func (s *Set) Len() int {
	return len(s.order)
}

// Slice returns the terms in insertion order.
func (s *Set) Slice() []string {
	return append([]string(nil), s.order...)
}
