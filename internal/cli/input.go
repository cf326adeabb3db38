// Package cli handles cmd line input for debugging searches in real-time.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bastiangx/catalogserve/pkg/analytics"
	"github.com/bastiangx/catalogserve/pkg/classify"
	"github.com/bastiangx/catalogserve/pkg/engine"
	"github.com/bastiangx/catalogserve/pkg/filters"
	"github.com/bastiangx/catalogserve/pkg/rank"
	"github.com/bastiangx/catalogserve/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Searcher is the part of the engine the CLI drives.
type Searcher interface {
	Search(f filters.Filters) rank.Result
	Suggest(query string) []suggest.Suggestion
	Record(session *analytics.Session, f filters.Filters, res rank.Result) bool
}

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	dimStyle   = lipgloss.NewStyle().Faint(true)
	hintStyle  = lipgloss.NewStyle().Italic(true)
)

// InputHandler reads queries and filter commands line by line and prints
// ranked results. Lines starting with ":" are commands:
//
//	:cat CSE     set the category tab
//	:sub ML      set the CSE track
//	:clear       drop every filter
//
// A line starting with "?" is parsed as a storefront URL query string.
// Anything else is the search query.
type InputHandler struct {
	searcher        Searcher
	limit           int
	showSuggestions bool
	filters         filters.Filters
	session         analytics.Session
	requestCount    int
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(searcher Searcher, limit int, showSuggestions bool) *InputHandler {
	return &InputHandler{
		searcher:        searcher,
		limit:           limit,
		showSuggestions: showSuggestions,
	}
}

// Start runs the loop on stdin/stdout until EOF.
func (h *InputHandler) Start() error {
	log.Print("catalogserve CLI [BETA]")
	log.Print("type a query and press Enter (:cat, :sub, :clear, ?url; Ctrl+C to exit):")
	return h.Run(os.Stdin, os.Stdout)
}

// Run processes every line of r, writing output to w.
func (h *InputHandler) Run(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		h.handleInput(line, w)
	}
	return scanner.Err()
}

// Filters returns the filters currently applied.
func (h *InputHandler) Filters() filters.Filters {
	return h.filters
}

func (h *InputHandler) handleInput(line string, w io.Writer) {
	h.requestCount++

	switch {
	case strings.HasPrefix(line, "?"):
		h.filters = filters.ParseQuery(line)
	case strings.HasPrefix(line, ":"):
		if !h.handleCommand(line, w) {
			return
		}
	default:
		h.filters = filters.Normalize(filters.Filters{
			Category:    h.filters.Category,
			Query:       line,
			SubCategory: h.filters.SubCategory,
		})
	}

	start := time.Now()
	res := h.searcher.Search(h.filters)
	log.Debugf("Took [ %v ] for filters %+v", time.Since(start), h.filters)

	h.searcher.Record(&h.session, h.filters, res)
	h.print(w, res)
}

// handleCommand applies a ":" command and reports whether to search again.
func (h *InputHandler) handleCommand(line string, w io.Writer) bool {
	fields := strings.Fields(strings.TrimPrefix(line, ":"))
	if len(fields) == 0 {
		return false
	}
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	next := h.filters
	switch fields[0] {
	case "cat":
		next.Category = arg
		if !strings.EqualFold(arg, classify.CSE) {
			next.SubCategory = ""
		}
	case "sub":
		next.Category = classify.CSE
		next.SubCategory = arg
	case "clear":
		next = filters.Filters{}
	default:
		fmt.Fprintf(w, "unknown command: %s\n", fields[0])
		return false
	}
	h.filters = filters.Normalize(next)
	return true
}

func (h *InputHandler) print(w io.Writer, res rank.Result) {
	if summary := engine.Summary(h.filters, res); summary != "" {
		fmt.Fprintln(w, hintStyle.Render(summary))
	}
	if len(res.Ordered) == 0 {
		fmt.Fprintln(w, "No projects found matching your filters")
		return
	}

	shown := res.Ordered
	if h.limit > 0 && len(shown) > h.limit {
		shown = shown[:h.limit]
	}
	for i, s := range shown {
		fmt.Fprintf(w, "%2d. %-48s %s\n", i+1,
			titleStyle.Render(s.Item.Title),
			dimStyle.Render(fmt.Sprintf("[%s] score=%d", classify.Display(s.Item), s.Score)))
	}

	if !h.showSuggestions {
		return
	}
	suggestions := h.searcher.Suggest(h.filters.Query)
	if len(suggestions) == 0 {
		return
	}
	labels := make([]string, len(suggestions))
	for i, sg := range suggestions {
		labels[i] = fmt.Sprintf("%s (%s)", sg.Label, sg.Source)
	}
	fmt.Fprintln(w, dimStyle.Render("suggestions: "+strings.Join(labels, ", ")))
}
