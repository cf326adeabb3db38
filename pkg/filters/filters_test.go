package filters

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		input    Filters
		expected Filters
		desc     string
	}{
		{Filters{Category: " cse ", SubCategory: "ml"}, Filters{Category: "CSE", SubCategory: "ML"}, "case and whitespace"},
		{Filters{Category: "CIVIL", Query: "bridge"}, Filters{Query: "bridge"}, "unknown category dropped"},
		{Filters{Category: "EEE", SubCategory: "ML"}, Filters{Category: "EEE"}, "sub requires CSE"},
		{Filters{Category: "CSE", SubCategory: "ANDROID"}, Filters{Category: "CSE"}, "unselectable sub dropped"},
		{Filters{SubCategory: "WEB"}, Filters{}, "sub without category"},
		{Filters{Category: "matlab"}, Filters{Category: "MATLAB"}, "matlab bucket"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.expected, Normalize(tc.input))
		})
	}
}

func TestNormalizeTruncatesQuery(t *testing.T) {
	long := strings.Repeat("é", MaxQueryLen+20)
	got := Normalize(Filters{Query: long})
	assert.Equal(t, MaxQueryLen, utf8.RuneCountInString(got.Query))
	assert.True(t, utf8.ValidString(got.Query))

	short := "  machine learning  "
	assert.Equal(t, short, Normalize(Filters{Query: short}).Query, "query is not trimmed")
}

func TestParseQuery(t *testing.T) {
	testCases := []struct {
		raw      string
		expected Filters
		desc     string
	}{
		{"?category=cse&q=ai&sub=ml", Filters{Category: "CSE", Query: "ai", SubCategory: "ML"}, "full"},
		{"category=eee", Filters{Category: "EEE"}, "no leading question mark"},
		{"?q=alias&query=primary", Filters{Query: "primary"}, "query beats q"},
		{"?category=CSE&subcategory=web&sub=dl", Filters{Category: "CSE", SubCategory: "DL"}, "sub beats subcategory"},
		{"?category=CSE&subcategory=web", Filters{Category: "CSE", SubCategory: "WEB"}, "subcategory alias"},
		{"?q=machine+learning", Filters{Query: "machine learning"}, "plus decodes to space"},
		{"", Filters{}, "empty"},
		{"?%zz", Filters{}, "malformed"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseQuery(tc.raw))
		})
	}
}

func TestEncode(t *testing.T) {
	assert.Equal(t, "", Encode(Filters{}))
	assert.Equal(t, "category=CSE&query=deep+learning&sub=DL",
		Encode(Filters{Category: "CSE", Query: "deep learning", SubCategory: "DL"}))

	f := Filters{Category: "CSE", Query: "a&b=c", SubCategory: "WEB"}
	assert.True(t, Equal(f, ParseQuery(Encode(f))))
}

func TestCategoryKeyAndDefaultView(t *testing.T) {
	assert.Equal(t, "All", Filters{}.CategoryKey())
	assert.Equal(t, "EEE", Filters{Category: "EEE"}.CategoryKey())
	assert.Equal(t, "CSE", Filters{Category: "CSE"}.CategoryKey())
	assert.Equal(t, "CSE:ML", Filters{Category: "CSE", SubCategory: "ML"}.CategoryKey())

	assert.True(t, Filters{Query: "   "}.IsDefaultView())
	assert.False(t, Filters{Category: "ECE"}.IsDefaultView())
	assert.False(t, Filters{Query: "iot"}.IsDefaultView())
}

func TestSubCategoryLabel(t *testing.T) {
	assert.Equal(t, "Machine Learning", SubCategoryLabel(SubML))
	assert.Equal(t, "", SubCategoryLabel("ANDROID"))
}

func TestNormalizeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	anyFilters := gopter.CombineGens(
		gen.OneConstOf("", "cse", "EEE", "ece", "mech", "Matlab", "civil", " CSE "),
		gen.AnyString(),
		gen.OneConstOf("", "web", "ML", "dl", "android", "other"),
	).Map(func(v []any) Filters {
		return Filters{Category: v[0].(string), Query: v[1].(string), SubCategory: v[2].(string)}
	})

	properties.Property("normalize is idempotent", prop.ForAll(
		func(f Filters) bool {
			once := Normalize(f)
			return Equal(once, Normalize(once))
		},
		anyFilters,
	))

	properties.Property("sub-category implies CSE", prop.ForAll(
		func(f Filters) bool {
			n := Normalize(f)
			return n.SubCategory == "" || n.Category == "CSE"
		},
		anyFilters,
	))

	properties.Property("query never exceeds the cap", prop.ForAll(
		func(f Filters) bool {
			return utf8.RuneCountInString(Normalize(f).Query) <= MaxQueryLen
		},
		anyFilters,
	))

	properties.TestingRun(t)
}
