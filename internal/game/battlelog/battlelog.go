// Package battlelog defines the collaborators the engine writes to and asks
// questions through: an append-only Sink of log lines and a Prompter.
package battlelog

//go:generate mockgen -destination=mock/mock_battlelog.go -package=battlelogmock github.com/cory-johannsen/spellbook/internal/game/battlelog Sink,Prompter

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

// Sink receives battle log lines in order. Implementations must not fail the
// caller; delivery errors are theirs to log.
type Sink interface {
	Append(line string)
}

// Prompter answers the interactive questions some operations ask.
type Prompter interface {
	// Confirm asks a yes/no question.
	Confirm(question string) bool
	// Number asks for an integer, showing current as the default. ok is false
	// when the user cancels.
	Number(question string, current int) (value int, ok bool)
}

// MemorySink keeps every line in memory. It is safe for concurrent use.
type MemorySink struct {
	mu    sync.Mutex
	lines []string
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink { return &MemorySink{} }

// Append records line.
func (m *MemorySink) Append(line string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append(m.lines, line)
}

// Lines returns a copy of every recorded line.
func (m *MemorySink) Lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.lines...)
}

// Reset drops all recorded lines.
func (m *MemorySink) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = nil
}

// WriterSink writes each line followed by a newline to w.
type WriterSink struct {
	mu     sync.Mutex
	w      io.Writer
	logger *zap.Logger
}

// NewWriterSink returns a Sink over w. Write failures are logged at Warn.
func NewWriterSink(w io.Writer, logger *zap.Logger) *WriterSink {
	return &WriterSink{w: w, logger: logger}
}

// Append writes line.
func (s *WriterSink) Append(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintln(s.w, line); err != nil {
		s.logger.Warn("battle log write failed", zap.Error(err))
	}
}

// ZapSink records each line as an Info entry on logger.
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink returns a Sink that logs lines under the "battlelog" name.
func NewZapSink(logger *zap.Logger) *ZapSink {
	return &ZapSink{logger: logger.Named("battlelog")}
}

// Append logs line.
func (s *ZapSink) Append(line string) {
	s.logger.Info("battle log", zap.String("line", line))
}

// Fanout forwards every line to each sink in order.
type Fanout []Sink

// Append forwards line.
func (f Fanout) Append(line string) {
	for _, s := range f {
		s.Append(line)
	}
}

// Discard drops every line.
var Discard Sink = discard{}

type discard struct{}

func (discard) Append(string) {}
