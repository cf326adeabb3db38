/*
Package server implements msgpack IPC for catalog search.

Clients write msgpack-encoded requests to stdin and read msgpack-encoded
responses from stdout, one response per request, in order. Logs go to
stderr so stdout stays a clean stream.

# IPC

Every request has an ID and an op. A ranked search:

	{"id": "req_001", "op": "search", "cat": "CSE", "q": "ai", "l": 5}

or, equivalently, straight from the storefront URL:

	{"id": "req_001", "op": "search", "url": "?category=cse&q=ai", "l": 5}

The server responds with the ordered items, how many matched, the canonical
URL query, and timing:

	{"id": "req_001", "r": [{"id": "p7", "t": "ML Stock Predictor", "c": "CSE", "sc": 23, "r": 1}], "m": 1, "n": 9, "url": "category=CSE&query=ai", "t": 145}

Suggestions for a partial query:

	{"id": "req_002", "op": "suggest", "q": "mach"}
	{"id": "req_002", "s": [{"w": "machine", "s": "keyword"}], "c": 1, "t": 31}

Other ops are "featured", "listing", "health" and "metrics"; the last
returns the Prometheus text exposition of the engine's counters. Failures produce an error
message carrying the request ID:

	{"id": "req_003", "e": "unknown op: frob", "c": 400}

A request that is well-formed msgpack but has fields of the wrong type is
answered with "invalid request" and the server keeps reading. Only a
broken stream ends the session.

Search requests feed the session's analytics tracker, so repeating an
identical search emits one analytics event.
*/
package server

import "github.com/bastiangx/catalogserve/pkg/suggest"

// Request is any client message.
type Request struct {
	ID       string `msgpack:"id"`
	Op       string `msgpack:"op"`
	Query    string `msgpack:"q,omitempty"`
	Category string `msgpack:"cat,omitempty"`
	Sub      string `msgpack:"sub,omitempty"`
	URL      string `msgpack:"url,omitempty"`
	Limit    int    `msgpack:"l,omitempty"`
}

// ResultItem is one ranked item.
type ResultItem struct {
	ID       string `msgpack:"id"`
	Title    string `msgpack:"t"`
	Category string `msgpack:"c"`
	Score    int    `msgpack:"sc"`
	Rank     uint16 `msgpack:"r"`
}

// SearchResponse answers a "search" request.
type SearchResponse struct {
	ID        string       `msgpack:"id"`
	Results   []ResultItem `msgpack:"r"`
	Matching  int          `msgpack:"m"`
	Total     int          `msgpack:"n"`
	Query     string       `msgpack:"q"`
	Summary   string       `msgpack:"sum,omitempty"`
	URL       string       `msgpack:"url,omitempty"`
	TimeTaken int64        `msgpack:"t"`
}

// SuggestResponse answers a "suggest" request.
type SuggestResponse struct {
	ID          string               `msgpack:"id"`
	Suggestions []suggest.Suggestion `msgpack:"s"`
	Count       int                  `msgpack:"c"`
	TimeTaken   int64                `msgpack:"t"`
}

// FeaturedSection is one landing-page block.
type FeaturedSection struct {
	Category string       `msgpack:"cat"`
	Title    string       `msgpack:"title"`
	Items    []ResultItem `msgpack:"r"`
}

// FeaturedResponse answers a "featured" request.
type FeaturedResponse struct {
	ID       string            `msgpack:"id"`
	Sections []FeaturedSection `msgpack:"sections"`
}

// ListingResponse carries the schema.org JSON-LD of a search.
type ListingResponse struct {
	ID     string `msgpack:"id"`
	Schema string `msgpack:"schema"`
}

// StatusResponse answers "health" and announces readiness.
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
	Items  int    `msgpack:"items,omitempty"`

	Keywords     int `msgpack:"kw,omitempty"`
	MaxFrequency int `msgpack:"mf,omitempty"`
}

// MetricsResponse answers a "metrics" request.
type MetricsResponse struct {
	ID   string `msgpack:"id"`
	Text string `msgpack:"text"`
}

// ErrorResponse holds basic error information for a failed request
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
