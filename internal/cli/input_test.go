package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bastiangx/catalogserve/pkg/analytics"
	"github.com/bastiangx/catalogserve/pkg/catalog"
	"github.com/bastiangx/catalogserve/pkg/engine"
	"github.com/bastiangx/catalogserve/pkg/filters"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(showSuggestions bool, rec *analytics.Recorder) *InputHandler {
	cat := catalog.New([]catalog.Item{
		{ID: "ml", Title: "Stock Predictor", Category: "CSE", Tags: []string{"Machine Learning"}},
		{ID: "web", Title: "Portfolio Website", Category: "CSE", Tags: []string{"React"}},
		{ID: "solar", Title: "Solar MPPT", Category: "EEE"},
	})
	return NewInputHandler(engine.New(cat, engine.WithEmitter(rec, 0)), 2, showSuggestions)
}

func TestRunQuery(t *testing.T) {
	rec := &analytics.Recorder{}
	h := newHandler(true, rec)

	var out bytes.Buffer
	require.NoError(t, h.Run(strings.NewReader("ai\n\nai\n"), &out))

	text := out.String()
	assert.Contains(t, text, "Highlighting 1 relevant project out of 3.")
	assert.Contains(t, text, "Stock Predictor")
	assert.NotContains(t, text, "Solar MPPT", "limit caps printed rows")
	assert.Contains(t, text, "suggestions:")
	assert.Contains(t, text, "artificial intelligence (synonym)")

	assert.Len(t, rec.Events(), 1)
	assert.Equal(t, 2, h.requestCount)
}

func TestRunCommands(t *testing.T) {
	h := newHandler(false, &analytics.Recorder{})
	var out bytes.Buffer

	require.NoError(t, h.Run(strings.NewReader(":cat eee\n"), &out))
	assert.Equal(t, filters.Filters{Category: "EEE"}, h.Filters())
	assert.Contains(t, out.String(), "Solar MPPT")

	require.NoError(t, h.Run(strings.NewReader(":sub web\n"), &out))
	assert.Equal(t, filters.Filters{Category: "CSE", SubCategory: "WEB"}, h.Filters())
	assert.Contains(t, out.String(), "Showing 1 Web Development project.")

	require.NoError(t, h.Run(strings.NewReader("react\n"), &out))
	assert.Equal(t, filters.Filters{Category: "CSE", SubCategory: "WEB", Query: "react"}, h.Filters())

	require.NoError(t, h.Run(strings.NewReader(":clear\n"), &out))
	assert.Equal(t, filters.Filters{}, h.Filters())

	out.Reset()
	require.NoError(t, h.Run(strings.NewReader(":frob\n"), &out))
	assert.Contains(t, out.String(), "unknown command: frob")
}

func TestRunURLQuery(t *testing.T) {
	h := newHandler(false, &analytics.Recorder{})
	var out bytes.Buffer

	require.NoError(t, h.Run(strings.NewReader("?category=cse&q=ml&sub=ml\n"), &out))
	assert.Equal(t, filters.Filters{Category: "CSE", Query: "ml", SubCategory: "ML"}, h.Filters())
	assert.Contains(t, out.String(), "Stock Predictor")
}

func TestRunEmptyScope(t *testing.T) {
	h := newHandler(false, &analytics.Recorder{})
	var out bytes.Buffer

	require.NoError(t, h.Run(strings.NewReader(":cat mech\n"), &out))
	assert.Contains(t, out.String(), "No projects found matching your filters")
}
