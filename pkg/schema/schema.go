// Package schema renders ranked listings as schema.org ItemList metadata.
package schema

import (
	"encoding/json"
	"strings"

	"github.com/bastiangx/catalogserve/pkg/catalog"
	"github.com/bastiangx/catalogserve/pkg/classify"
)

const (
	DefaultLimit    = 12
	DefaultCurrency = "INR"
	DefaultBaseURL  = "https://projectmentorhub.com"
	inStock         = "https://schema.org/InStock"
)

// Offer is the price block of a Product.
type Offer struct {
	Type          string  `json:"@type"`
	PriceCurrency string  `json:"priceCurrency"`
	Price         float64 `json:"price"`
	Availability  string  `json:"availability"`
}

// Product is one element of the list.
type Product struct {
	Type        string `json:"@type"`
	Position    int    `json:"position"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	URL         string `json:"url"`
	Offers      Offer  `json:"offers"`
}

// ItemList is the JSON-LD document.
type ItemList struct {
	Context  string    `json:"@context"`
	Type     string    `json:"@type"`
	Name     string    `json:"name"`
	Elements []Product `json:"itemListElement"`
}

// Options controls URLs, currency and list length.
type Options struct {
	BaseURL  string
	Currency string
	Limit    int
}

// NewItemList describes the first items of a ranked listing. It returns nil
// for an empty listing.
func NewItemList(items []*catalog.Item, opts Options) *ItemList {
	if len(items) == 0 {
		return nil
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Currency == "" {
		opts.Currency = DefaultCurrency
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if len(items) > opts.Limit {
		items = items[:opts.Limit]
	}
	base := strings.TrimSuffix(opts.BaseURL, "/")

	list := &ItemList{
		Context:  "https://schema.org",
		Type:     "ItemList",
		Name:     "Projects",
		Elements: make([]Product, len(items)),
	}
	for i, it := range items {
		list.Elements[i] = Product{
			Type:        "Product",
			Position:    i + 1,
			Name:        it.Title,
			Description: it.Description,
			Category:    classify.Display(it),
			URL:         base + "/project/" + it.ID,
			Offers: Offer{
				Type:          "Offer",
				PriceCurrency: opts.Currency,
				Price:         it.Price,
				Availability:  inStock,
			},
		}
	}
	return list
}

// Marshal renders l as JSON. A nil list renders as "null".
func (l *ItemList) Marshal() ([]byte, error) {
	return json.Marshal(l)
}
