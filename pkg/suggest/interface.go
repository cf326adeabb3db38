// Package suggest proposes query completions: popular keywords for an empty
// query, prefix completions of the last word from the keyword trie, and
// synonym expansions of the query.
package suggest

// Suggester is implemented by anything that turns a partial query into
// suggestions.
type Suggester interface {
	// Suggest returns at most a handful of de-duplicated suggestions.
	Suggest(query string) []Suggestion
}
