/*
Package analytics reports searches to an external collaborator.

Emission is fire-and-forget and de-duplicated per browsing session: a Session
remembers the fingerprint of the last emitted search, and re-deriving the
same result from the same inputs never emits twice.

	var session analytics.Session
	tracker := analytics.NewTracker(analytics.NewLogEmitter(logger), 2)
	tracker.Record(&session, f, result)
*/
package analytics

import (
	"strconv"
	"strings"

	"github.com/bastiangx/catalogserve/pkg/classify"
	"github.com/bastiangx/catalogserve/pkg/filters"
	"github.com/bastiangx/catalogserve/pkg/metrics"
	"github.com/bastiangx/catalogserve/pkg/rank"
	"github.com/charmbracelet/log"
)

// DefaultMinQueryLen is the shortest normalized query that is reported.
const DefaultMinQueryLen = 2

// maxReported caps the results carried by one event.
const maxReported = 5

// ResultEntry is one ranked item in an Event.
type ResultEntry struct {
	ID       string `msgpack:"id" json:"id"`
	Title    string `msgpack:"title" json:"title"`
	Category string `msgpack:"category" json:"category"`
	Rank     int    `msgpack:"rank" json:"rank"`
}

// Event describes one search.
type Event struct {
	Query        string        `msgpack:"query" json:"query"`
	Category     string        `msgpack:"category" json:"category"`
	TotalResults int           `msgpack:"totalResults" json:"totalResults"`
	Results      []ResultEntry `msgpack:"results" json:"results"`
}

// Emitter delivers events somewhere.
type Emitter interface {
	Emit(Event) error
}

// Session is the per-session marker of the last emitted search. The zero
// value is ready to use.
type Session struct {
	last string
}

// Last returns the fingerprint of the last emitted search, or "".
func (s *Session) Last() string {
	return s.last
}

// Reset clears the marker.
func (s *Session) Reset() {
	s.last = ""
}

// Fingerprint identifies a search outcome: bucket, query, top IDs and the
// number of listed items.
func Fingerprint(f filters.Filters, res rank.Result) string {
	return f.CategoryKey() + "::" +
		strings.ToLower(res.NormalizedQuery) + "::" +
		strings.Join(res.TopMatchIDs, "|") + "::" +
		strconv.Itoa(len(res.Ordered))
}

// NewEvent builds the event for res under f.
func NewEvent(f filters.Filters, res rank.Result) Event {
	top := res.TopMatches
	if len(top) > maxReported {
		top = top[:maxReported]
	}

	results := make([]ResultEntry, len(top))
	for i, s := range top {
		results[i] = ResultEntry{
			ID:       s.Item.ID,
			Title:    s.Item.Title,
			Category: classify.Display(s.Item),
			Rank:     i + 1,
		}
	}

	return Event{
		Query:        res.NormalizedQuery,
		Category:     f.CategoryKey(),
		TotalResults: len(res.TopMatches),
		Results:      results,
	}
}

// Tracker decides when a search is worth an event.
type Tracker struct {
	emitter     Emitter
	minQueryLen int
}

// NewTracker returns a Tracker. A nil emitter discards events.
func NewTracker(emitter Emitter, minQueryLen int) *Tracker {
	if minQueryLen <= 0 {
		minQueryLen = DefaultMinQueryLen
	}
	return &Tracker{emitter: emitter, minQueryLen: minQueryLen}
}

// Record emits an event for res unless the query is too short or the
// session already emitted this exact outcome. Short queries also clear the
// marker. It reports whether an event was emitted.
func (t *Tracker) Record(session *Session, f filters.Filters, res rank.Result) bool {
	if len(res.NormalizedQuery) < t.minQueryLen {
		session.Reset()
		metrics.AnalyticsEventsTotal.WithLabelValues("reset").Inc()
		return false
	}

	key := Fingerprint(f, res)
	if session.last == key {
		metrics.AnalyticsEventsTotal.WithLabelValues("skipped").Inc()
		return false
	}
	session.last = key

	if t.emitter == nil {
		return false
	}
	if err := t.emitter.Emit(NewEvent(f, res)); err != nil {
		log.Warnf("Failed to emit search analytics for %q: %v", res.NormalizedQuery, err)
		metrics.AnalyticsEventsTotal.WithLabelValues("error").Inc()
		return false
	}
	metrics.AnalyticsEventsTotal.WithLabelValues("emitted").Inc()
	return true
}
