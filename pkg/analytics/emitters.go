package analytics

import (
	"errors"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// LogEmitter writes events as structured log lines.
type LogEmitter struct {
	logger *log.Logger
}

// NewLogEmitter logs through logger, or the default logger when nil.
func NewLogEmitter(logger *log.Logger) *LogEmitter {
	if logger == nil {
		logger = log.Default()
	}
	return &LogEmitter{logger: logger}
}

// Emit logs e at info level.
func (l *LogEmitter) Emit(e Event) error {
	ids := make([]string, len(e.Results))
	for i, r := range e.Results {
		ids[i] = r.ID
	}
	l.logger.Info("search",
		"query", e.Query,
		"category", e.Category,
		"total", e.TotalResults,
		"top", ids)
	return nil
}

// Recorder keeps events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Emit stores e.
func (r *Recorder) Emit(e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// MsgpackEmitter streams msgpack-encoded events to a writer.
type MsgpackEmitter struct {
	mu  sync.Mutex
	enc *msgpack.Encoder
}

// NewMsgpackEmitter encodes onto w.
func NewMsgpackEmitter(w io.Writer) *MsgpackEmitter {
	return &MsgpackEmitter{enc: msgpack.NewEncoder(w)}
}

// Emit encodes e.
func (m *MsgpackEmitter) Emit(e Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enc.Encode(&e)
}

// Multi fans an event out to several emitters and joins their errors.
type Multi []Emitter

// Emit forwards e to every emitter.
func (m Multi) Emit(e Event) error {
	var errs []error
	for _, em := range m {
		if err := em.Emit(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
