/*
Package index builds the keyword frequency index of a catalog.

Every item contributes each distinct term of its title, descriptions and tags
once. Terms shorter than MinKeywordLen are not indexed. Keywords are kept in a
Patricia trie so prefix completion only walks the matching subtree.
*/
package index

import (
	"sort"

	"github.com/bastiangx/catalogserve/pkg/catalog"
	"github.com/bastiangx/catalogserve/pkg/text"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// MinKeywordLen is the shortest term that is counted.
const MinKeywordLen = 3

// Entry is one keyword and the number of items mentioning it.
type Entry struct {
	Keyword string
	Count   int
}

// node is what the trie stores; seq is first-seen order for tie-breaks.
type node struct {
	keyword string
	count   int
	seq     int
}

// Index maps keywords to item counts.
type Index struct {
	nodes []*node
	byKey map[string]*node
	trie  *patricia.Trie
}

// Build indexes c. A nil or empty catalog yields an empty index.
func Build(c *catalog.Catalog) *Index {
	ix := &Index{
		byKey: make(map[string]*node),
		trie:  patricia.NewTrie(),
	}

	for _, it := range c.Items() {
		for _, term := range itemTerms(it) {
			if len(term) < MinKeywordLen {
				continue
			}
			ix.add(term)
		}
	}

	log.Debugf("Built keyword index: %d keywords from %d items", len(ix.nodes), c.Len())
	return ix
}

// itemTerms returns the distinct terms of one item in first-seen order.
func itemTerms(it *catalog.Item) []string {
	seen := make(map[string]struct{})
	var terms []string

	collect := func(s string) {
		for _, tok := range text.Tokenize(s) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			terms = append(terms, tok)
		}
	}

	collect(it.Title)
	collect(it.ShortDescription)
	collect(it.Description)
	for _, tag := range it.Tags {
		collect(tag)
	}
	return terms
}

func (ix *Index) add(term string) {
	if n, ok := ix.byKey[term]; ok {
		n.count++
		return
	}
	n := &node{keyword: term, count: 1, seq: len(ix.nodes)}
	ix.nodes = append(ix.nodes, n)
	ix.byKey[term] = n
	ix.trie.Insert(patricia.Prefix(term), n)
}

// Len returns the number of distinct keywords.
func (ix *Index) Len() int {
	return len(ix.nodes)
}

// Count returns how many items mention keyword, or 0.
func (ix *Index) Count(keyword string) int {
	if n, ok := ix.byKey[keyword]; ok {
		return n.count
	}
	return 0
}

// Entries returns every keyword, most frequent first. Ties keep the order in
// which keywords were first seen while walking the catalog.
func (ix *Index) Entries() []Entry {
	return sortNodes(append([]*node(nil), ix.nodes...))
}

// Top returns at most n entries in Entries order.
func (ix *Index) Top(n int) []Entry {
	entries := ix.Entries()
	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// WithPrefix returns the keywords starting with prefix, ordered like Entries.
func (ix *Index) WithPrefix(prefix string) []Entry {
	var matched []*node

	err := ix.trie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, item patricia.Item) error {
		if n, ok := item.(*node); ok {
			matched = append(matched, n)
		}
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting keyword trie: %v", err)
		return nil
	}

	return sortNodes(matched)
}

// Stats reports the keyword count and the highest frequency.
func (ix *Index) Stats() map[string]int {
	maxCount := 0
	for _, n := range ix.nodes {
		if n.count > maxCount {
			maxCount = n.count
		}
	}
	return map[string]int{
		"keywords":     len(ix.nodes),
		"maxFrequency": maxCount,
	}
}

func sortNodes(nodes []*node) []Entry {
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].count != nodes[j].count {
			return nodes[i].count > nodes[j].count
		}
		return nodes[i].seq < nodes[j].seq
	})

	entries := make([]Entry, len(nodes))
	for i, n := range nodes {
		entries[i] = Entry{Keyword: n.keyword, Count: n.count}
	}
	return entries
}
