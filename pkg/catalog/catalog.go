/*
Package catalog holds the item records the search engine works over.

A Catalog is an ordered, read-only list of items. The pointer to a Catalog is
its identity: caches keyed on a catalog (such as the keyword index) are
rebuilt only when a different *Catalog is handed in.

Items are loaded once, up front, from YAML, JSON or msgpack files:

	cat, err := catalog.Load("data/catalog.yaml")

Absent text fields decode to empty strings and absent tag lists to nil, which
every consumer treats as an empty list.
*/
package catalog

import "github.com/bastiangx/catalogserve/pkg/text"

// Item is a single catalog entry.
type Item struct {
	ID               string   `yaml:"id" json:"id" msgpack:"id" validate:"required"`
	Title            string   `yaml:"title" json:"title" msgpack:"title"`
	ShortDescription string   `yaml:"shortDescription" json:"shortDescription,omitempty" msgpack:"short_description,omitempty"`
	Description      string   `yaml:"description" json:"description,omitempty" msgpack:"description,omitempty"`
	Category         string   `yaml:"category" json:"category,omitempty" msgpack:"category,omitempty"`
	SourceCategory   string   `yaml:"sourceCategory" json:"_sourceCategory,omitempty" msgpack:"source_category,omitempty"`
	Tags             []string `yaml:"tags" json:"tags,omitempty" msgpack:"tags,omitempty"`
	Price            float64  `yaml:"price" json:"price" msgpack:"price" validate:"gte=0"`
	Image            string   `yaml:"image" json:"image,omitempty" msgpack:"image,omitempty"`
	Features         []string `yaml:"features" json:"features,omitempty" msgpack:"features,omitempty"`
}

// Catalog is an ordered set of items. It is never mutated after New.
type Catalog struct {
	items []Item
	byID  map[string]int
}

// New wraps items in a Catalog. The slice is referenced, not copied, and
// must not be modified afterwards. When IDs repeat, Get returns the first.
func New(items []Item) *Catalog {
	byID := make(map[string]int, len(items))
	for i := range items {
		if _, exists := byID[items[i].ID]; !exists {
			byID[items[i].ID] = i
		}
	}
	return &Catalog{items: items, byID: byID}
}

// Len returns the number of items. A nil catalog is empty.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// At returns a pointer to the i-th item.
func (c *Catalog) At(i int) *Item {
	return &c.items[i]
}

// Items returns pointers to every item in catalog order.
func (c *Catalog) Items() []*Item {
	if c == nil {
		return nil
	}
	out := make([]*Item, len(c.items))
	for i := range c.items {
		out[i] = &c.items[i]
	}
	return out
}

// Get looks an item up by ID.
func (c *Catalog) Get(id string) (*Item, bool) {
	if c == nil {
		return nil, false
	}
	i, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return &c.items[i], true
}

// SearchText is the lowercase haystack for substring matching: title,
// descriptions, raw category and tags joined by spaces.
func (it *Item) SearchText() string {
	parts := make([]string, 0, 4+len(it.Tags))
	parts = append(parts, it.Title, it.ShortDescription, it.Description, it.Category)
	parts = append(parts, it.Tags...)
	return text.Searchable(parts...)
}
