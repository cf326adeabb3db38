package server

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/bastiangx/catalogserve/pkg/analytics"
	"github.com/bastiangx/catalogserve/pkg/catalog"
	"github.com/bastiangx/catalogserve/pkg/config"
	"github.com/bastiangx/catalogserve/pkg/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func testEngine(rec *analytics.Recorder) *engine.Engine {
	cat := catalog.New([]catalog.Item{
		{ID: "ml", Title: "Stock Predictor", Category: "CSE", Tags: []string{"Machine Learning"}, Price: 4999},
		{ID: "web", Title: "Portfolio Website", Category: "CSE", Tags: []string{"React"}},
		{ID: "solar", Title: "Solar MPPT", Category: "EEE"},
		{ID: "grid", Title: "Grid Model", Category: "EEE", Tags: []string{"MATLAB"}},
	})
	if rec == nil {
		return engine.New(cat)
	}
	return engine.New(cat, engine.WithEmitter(rec, 0))
}

// exchange writes requests, runs the server to EOF and returns a decoder
// positioned after the ready message.
func exchange(t *testing.T, eng *engine.Engine, cfg *config.Config, requests ...Request) (*msgpack.Decoder, *Server) {
	t.Helper()

	var in, out bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, r := range requests {
		require.NoError(t, enc.Encode(r))
	}

	srv := NewServerWithIO(eng, cfg, &in, &out)
	require.NoError(t, srv.Start())

	dec := msgpack.NewDecoder(&out)
	var ready StatusResponse
	require.NoError(t, dec.Decode(&ready))
	require.Equal(t, "ready", ready.Status)
	require.Equal(t, eng.Catalog().Len(), ready.Items)
	return dec, srv
}

func TestSearchRequest(t *testing.T) {
	rec := &analytics.Recorder{}
	dec, srv := exchange(t, testEngine(rec), nil,
		Request{ID: "req_001", Op: "search", URL: "?category=cse&q=ai"},
		Request{ID: "req_002", Op: "search", Category: "cse", Query: "AI", Limit: 1},
	)

	var first SearchResponse
	require.NoError(t, dec.Decode(&first))
	assert.Equal(t, "req_001", first.ID)
	assert.Equal(t, 1, first.Matching)
	assert.Equal(t, 2, first.Total)
	assert.Equal(t, "ai", first.Query)
	require.Len(t, first.Results, 2)
	assert.Equal(t, ResultItem{ID: "ml", Title: "Stock Predictor", Category: "CSE", Score: first.Results[0].Score, Rank: 1}, first.Results[0])
	assert.Greater(t, first.Results[0].Score, 0)
	assert.Equal(t, uint16(2), first.Results[1].Rank)
	assert.Equal(t, "Highlighting 1 relevant project out of 2.", first.Summary)
	assert.Equal(t, "category=CSE&query=ai", first.URL)

	var second SearchResponse
	require.NoError(t, dec.Decode(&second))
	assert.Len(t, second.Results, 1)

	// identical outcome in the same session is reported once
	assert.Len(t, rec.Events(), 1)
	assert.Equal(t, 2, srv.Requests())
}

func TestSuggestRequest(t *testing.T) {
	dec, _ := exchange(t, testEngine(nil), nil, Request{ID: "s1", Op: "suggest", Query: "sol"})

	var resp SuggestResponse
	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, "s1", resp.ID)
	require.NotEmpty(t, resp.Suggestions)
	assert.Equal(t, "solar", resp.Suggestions[0].Label)
	assert.Equal(t, len(resp.Suggestions), resp.Count)
}

func TestFeaturedRequest(t *testing.T) {
	dec, _ := exchange(t, testEngine(nil), nil, Request{ID: "f1", Op: "featured"})

	var resp FeaturedResponse
	require.NoError(t, dec.Decode(&resp))
	require.Len(t, resp.Sections, 3)
	assert.Equal(t, "CSE Projects", resp.Sections[0].Title)
	assert.Equal(t, "EEE", resp.Sections[1].Category)
	assert.Equal(t, "grid", resp.Sections[2].Items[0].ID)
	assert.Equal(t, "MATLAB", resp.Sections[2].Items[0].Category)
}

func TestListingRequest(t *testing.T) {
	dec, _ := exchange(t, testEngine(nil), nil, Request{ID: "l1", Op: "listing", Query: "ai"})

	var resp ListingResponse
	require.NoError(t, dec.Decode(&resp))

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(resp.Schema), &doc))
	assert.Equal(t, "ItemList", doc["@type"])
	assert.Len(t, doc["itemListElement"], 4)
}

func TestHealthAndUnknownOp(t *testing.T) {
	eng := testEngine(nil)
	dec, _ := exchange(t, eng, nil,
		Request{ID: "h1", Op: "health"},
		Request{ID: "x1", Op: "frob"},
	)

	var status StatusResponse
	require.NoError(t, dec.Decode(&status))
	assert.Equal(t, "h1", status.ID)
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, 4, status.Items)
	assert.Equal(t, eng.Index().Len(), status.Keywords)
	assert.Greater(t, status.MaxFrequency, 0)

	var errResp ErrorResponse
	require.NoError(t, dec.Decode(&errResp))
	assert.Equal(t, ErrorResponse{ID: "x1", Error: "unknown op: frob", Code: 400}, errResp)
}

func TestMetricsRequest(t *testing.T) {
	dec, _ := exchange(t, testEngine(nil), nil,
		Request{ID: "q1", Op: "search", Query: "solar"},
		Request{ID: "m1", Op: "metrics"},
	)

	var search SearchResponse
	require.NoError(t, dec.Decode(&search))

	var resp MetricsResponse
	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, "m1", resp.ID)
	assert.Contains(t, resp.Text, "catalogserve_searches_total")
}

func TestLimit(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.MaxLimit = 10
	srv := NewServerWithIO(testEngine(nil), cfg, &bytes.Buffer{}, &bytes.Buffer{})

	assert.Equal(t, 0, srv.limit(0))
	assert.Equal(t, 0, srv.limit(-3))
	assert.Equal(t, 5, srv.limit(5))
	assert.Equal(t, 10, srv.limit(50))
}

func TestMalformedRequestKeepsServing(t *testing.T) {
	var in, out bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	require.NoError(t, enc.Encode(map[string]any{"id": "bad", "op": "search", "l": "five"}))
	require.NoError(t, enc.Encode(map[string]any{"op": 7}))
	require.NoError(t, enc.Encode(Request{ID: "h1", Op: "health"}))

	srv := NewServerWithIO(testEngine(nil), nil, &in, &out)
	require.NoError(t, srv.Start())
	assert.Equal(t, 3, srv.Requests())

	dec := msgpack.NewDecoder(&out)
	var ready StatusResponse
	require.NoError(t, dec.Decode(&ready))

	var bad ErrorResponse
	require.NoError(t, dec.Decode(&bad))
	assert.Equal(t, ErrorResponse{ID: "bad", Error: "invalid request", Code: 400}, bad)

	var anonymous ErrorResponse
	require.NoError(t, dec.Decode(&anonymous))
	assert.Equal(t, ErrorResponse{Error: "invalid request", Code: 400}, anonymous)

	var status StatusResponse
	require.NoError(t, dec.Decode(&status))
	assert.Equal(t, "h1", status.ID)
	assert.Equal(t, "ok", status.Status)
}

func TestSuggestQueryIsCapped(t *testing.T) {
	// the cap cuts the trailing "sol" before completion
	long := strings.Repeat("x ", 60) + "sol"
	dec, _ := exchange(t, testEngine(nil), nil,
		Request{ID: "s1", Op: "suggest", Query: long},
		Request{ID: "s2", Op: "suggest", URL: "?q=" + url.QueryEscape(long)},
	)

	for _, id := range []string{"s1", "s2"} {
		var resp SuggestResponse
		require.NoError(t, dec.Decode(&resp))
		assert.Equal(t, id, resp.ID)
		for _, sug := range resp.Suggestions {
			assert.NotEqual(t, "solar", sug.Label)
		}
	}
}

func TestStartFailsOnBrokenStream(t *testing.T) {
	in := bytes.NewBuffer([]byte{0xc1})
	srv := NewServerWithIO(testEngine(nil), nil, in, &bytes.Buffer{})
	assert.Error(t, srv.Start())
}
