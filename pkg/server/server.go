package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bastiangx/catalogserve/internal/utils"
	"github.com/bastiangx/catalogserve/pkg/analytics"
	"github.com/bastiangx/catalogserve/pkg/catalog"
	"github.com/bastiangx/catalogserve/pkg/classify"
	"github.com/bastiangx/catalogserve/pkg/config"
	"github.com/bastiangx/catalogserve/pkg/engine"
	"github.com/bastiangx/catalogserve/pkg/filters"
	"github.com/bastiangx/catalogserve/pkg/metrics"
	"github.com/bastiangx/catalogserve/pkg/rank"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles msgpack IPC for one client session.
type Server struct {
	engine       *engine.Engine
	config       *config.Config
	decoder      *msgpack.Decoder
	encoder      *msgpack.Encoder
	session      analytics.Session
	requestCount int
}

// NewServer creates a server speaking over stdin/stdout.
func NewServer(eng *engine.Engine, cfg *config.Config) *Server {
	return NewServerWithIO(eng, cfg, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server over arbitrary streams.
func NewServerWithIO(eng *engine.Engine, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Server{
		engine:  eng,
		config:  cfg,
		decoder: msgpack.NewDecoder(r),
		encoder: msgpack.NewEncoder(w),
	}
}

// Start announces readiness and serves requests until the input ends.
func (s *Server) Start() error {
	log.Debug("Starting Server.")

	if err := s.send(StatusResponse{Status: "ready", Items: s.engine.Catalog().Len()}); err != nil {
		return err
	}

	for {
		var raw msgpack.RawMessage
		if err := s.decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				log.Debug("Client closed the stream")
				return nil
			}
			log.Errorf("Reading request frame: %v", err)
			return fmt.Errorf("decode request: %w", err)
		}

		s.requestCount++
		var req Request
		if err := msgpack.Unmarshal(raw, &req); err != nil {
			log.Warnf("Invalid request: %v", err)
			if err := s.sendError(requestID(raw), "invalid request", 400); err != nil {
				return err
			}
			continue
		}
		if err := s.handleRequest(req); err != nil {
			return err
		}
	}
}

// requestID recovers the ID of a request whose other fields are malformed.
func requestID(raw msgpack.RawMessage) string {
	var ident struct {
		ID string `msgpack:"id"`
	}
	if err := msgpack.Unmarshal(raw, &ident); err != nil {
		return ""
	}
	return ident.ID
}

// Requests returns how many requests have been handled.
func (s *Server) Requests() int {
	return s.requestCount
}

func (s *Server) handleRequest(req Request) error {
	switch req.Op {
	case "search":
		return s.handleSearch(req)
	case "suggest":
		return s.handleSuggest(req)
	case "featured":
		return s.handleFeatured(req)
	case "listing":
		return s.handleListing(req)
	case "health":
		return s.handleHealth(req)
	case "metrics":
		return s.handleMetrics(req)
	default:
		log.Debugf("Unknown op %q in request %s", req.Op, req.ID)
		return s.sendError(req.ID, fmt.Sprintf("unknown op: %s", req.Op), 400)
	}
}

// filtersOf reads filters from the raw URL query when present, else from the
// individual fields.
func filtersOf(req Request) filters.Filters {
	if req.URL != "" {
		return filters.ParseQuery(req.URL)
	}
	return filters.Normalize(filters.Filters{
		Category:    req.Category,
		Query:       req.Query,
		SubCategory: req.Sub,
	})
}

func (s *Server) handleSearch(req Request) error {
	f := filtersOf(req)

	start := time.Now()
	res := s.engine.Search(f)
	elapsed := time.Since(start)

	s.engine.Record(&s.session, f, res)

	return s.send(SearchResponse{
		ID:        req.ID,
		Results:   toResultItems(res.Ordered, s.limit(req.Limit)),
		Matching:  res.Matching,
		Total:     len(res.Ordered),
		Query:     res.NormalizedQuery,
		Summary:   engine.Summary(f, res),
		URL:       filters.Encode(f),
		TimeTaken: elapsed.Microseconds(),
	})
}

func (s *Server) handleSuggest(req Request) error {
	start := time.Now()
	suggestions := s.engine.Suggest(filtersOf(req).Query)
	elapsed := time.Since(start)

	return s.send(SuggestResponse{
		ID:          req.ID,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
	})
}

func (s *Server) handleFeatured(req Request) error {
	sections := s.engine.Featured()
	out := make([]FeaturedSection, len(sections))
	for i, sec := range sections {
		out[i] = FeaturedSection{
			Category: sec.Category,
			Title:    sec.Title,
			Items:    toResultItems(unscored(sec.Items), 0),
		}
	}
	return s.send(FeaturedResponse{ID: req.ID, Sections: out})
}

func (s *Server) handleListing(req Request) error {
	res := s.engine.Search(filtersOf(req))
	data, err := s.engine.Listing(res).Marshal()
	if err != nil {
		log.Errorf("Marshaling listing: %v", err)
		return s.sendError(req.ID, "failed to render listing", 500)
	}
	return s.send(ListingResponse{ID: req.ID, Schema: string(data)})
}

func (s *Server) handleHealth(req Request) error {
	stats := s.engine.Index().Stats()
	return s.send(StatusResponse{
		ID:           req.ID,
		Status:       "ok",
		Items:        s.engine.Catalog().Len(),
		Keywords:     stats["keywords"],
		MaxFrequency: stats["maxFrequency"],
	})
}

func (s *Server) handleMetrics(req Request) error {
	var buf bytes.Buffer
	if err := metrics.WriteText(&buf); err != nil {
		log.Errorf("Rendering metrics: %v", err)
		return s.sendError(req.ID, "failed to render metrics", 500)
	}
	return s.send(MetricsResponse{ID: req.ID, Text: buf.String()})
}

// limit resolves the number of results to return; 0 means all.
func (s *Server) limit(requested int) int {
	maxLimit := s.config.Server.MaxLimit
	if requested <= 0 {
		return 0
	}
	if maxLimit > 0 && requested > maxLimit {
		return maxLimit
	}
	return requested
}

func unscored(items []*catalog.Item) []rank.Scored {
	out := make([]rank.Scored, len(items))
	for i, it := range items {
		out[i] = rank.Scored{Item: it}
	}
	return out
}

func toResultItems(scored []rank.Scored, limit int) []ResultItem {
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	ranks := utils.CreateRankList(len(scored))
	out := make([]ResultItem, len(scored))
	for i, sc := range scored {
		out[i] = ResultItem{
			ID:       sc.Item.ID,
			Title:    sc.Item.Title,
			Category: classify.Display(sc.Item),
			Score:    sc.Score,
			Rank:     ranks[i],
		}
	}
	return out
}

// send encodes one response.
func (s *Server) send(response any) error {
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
		return fmt.Errorf("encode response: %w", err)
	}
	return nil
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) error {
	return s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
