/*
Package filters normalizes the storefront's listing filters.

A Filters value is always normalized before use: the category is one of the
primary buckets or empty, the query is at most MaxQueryLen characters, and a
sub-category is only kept while the category is CSE.
*/
package filters

import (
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxQueryLen caps the free-text query, in characters.
const MaxQueryLen = 120

// Sub-category filter values. ANDROID and OTHER exist as classifications
// but are not selectable.
const (
	SubWeb = "WEB"
	SubML  = "ML"
	SubDL  = "DL"
)

var validate = validator.New()

const (
	categoryRule    = "oneof=CSE EEE ECE MECH MATLAB"
	subCategoryRule = "oneof=WEB ML DL"
)

// Filters selects the scope and query of a listing.
type Filters struct {
	Category    string `msgpack:"cat,omitempty" json:"category,omitempty"`
	Query       string `msgpack:"q,omitempty" json:"query,omitempty"`
	SubCategory string `msgpack:"sub,omitempty" json:"subCategory,omitempty"`
}

// SubCategoryOption is a selectable CSE track.
type SubCategoryOption struct {
	Value string
	Label string
}

// SubCategoryOptions lists the CSE tracks in display order.
var SubCategoryOptions = []SubCategoryOption{
	{Value: SubWeb, Label: "Web Development"},
	{Value: SubML, Label: "Machine Learning"},
	{Value: SubDL, Label: "Deep Learning"},
}

// SubCategoryLabel returns the display label of sub, or "".
func SubCategoryLabel(sub string) string {
	for _, o := range SubCategoryOptions {
		if o.Value == sub {
			return o.Label
		}
	}
	return ""
}

// Normalize validates and canonicalizes f. Unknown values silently become "".
func Normalize(f Filters) Filters {
	category := strings.ToUpper(strings.TrimSpace(f.Category))
	if category == "" || validate.Var(category, categoryRule) != nil {
		category = ""
	}

	sub := strings.ToUpper(strings.TrimSpace(f.SubCategory))
	if category != "CSE" || sub == "" || validate.Var(sub, subCategoryRule) != nil {
		sub = ""
	}

	return Filters{
		Category:    category,
		Query:       truncate(f.Query, MaxQueryLen),
		SubCategory: sub,
	}
}

// truncate keeps the first n characters of s.
func truncate(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// ParseQuery reads filters from a URL query string such as
// "?category=cse&q=web&sub=web". "query" wins over its alias "q", and
// "sub" over "subcategory". Malformed strings yield empty filters.
func ParseQuery(raw string) Filters {
	values, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil && len(values) == 0 {
		return Filters{}
	}

	return Normalize(Filters{
		Category:    first(values, "category"),
		Query:       first(values, "query", "q"),
		SubCategory: first(values, "sub", "subcategory"),
	})
}

// first returns the first value of the first key present.
func first(values url.Values, keys ...string) string {
	for _, k := range keys {
		if vs, ok := values[k]; ok && len(vs) > 0 {
			return vs[0]
		}
	}
	return ""
}

// Encode renders f as a URL query string without the leading "?". Only
// non-empty fields are written, in category, query, sub order.
func Encode(f Filters) string {
	var parts []string
	if f.Category != "" {
		parts = append(parts, "category="+url.QueryEscape(f.Category))
	}
	if f.Query != "" {
		parts = append(parts, "query="+url.QueryEscape(f.Query))
	}
	if f.SubCategory != "" {
		parts = append(parts, "sub="+url.QueryEscape(f.SubCategory))
	}
	return strings.Join(parts, "&")
}

// Equal reports field-wise equality.
func Equal(a, b Filters) bool {
	return a.Category == b.Category && a.Query == b.Query && a.SubCategory == b.SubCategory
}

// IsDefaultView reports whether f selects the unfiltered landing view.
func (f Filters) IsDefaultView() bool {
	return f.Category == "" && strings.TrimSpace(f.Query) == "" && f.SubCategory == ""
}

// CategoryKey is the analytics label of f: "CSE:<SUB>" for a CSE track,
// else the category, else "All".
func (f Filters) CategoryKey() string {
	if f.Category == "CSE" && f.SubCategory != "" {
		return "CSE:" + f.SubCategory
	}
	if f.Category != "" {
		return f.Category
	}
	return "All"
}
