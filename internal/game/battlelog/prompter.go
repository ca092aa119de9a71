package battlelog

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// Scripted answers prompts from queued values. An exhausted queue answers
// "no" to Confirm and cancels Number.
type Scripted struct {
	mu       sync.Mutex
	confirms []bool
	numbers  []*int
	// Asked records every question in order.
	Asked []string
}

// NewScripted returns a Scripted prompter with the given Confirm answers.
func NewScripted(confirms ...bool) *Scripted {
	return &Scripted{confirms: confirms}
}

// WithNumbers queues Number answers and returns s. A nil entry cancels.
func (s *Scripted) WithNumbers(values ...*int) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.numbers = append(s.numbers, values...)
	return s
}

// Confirm pops the next queued answer.
func (s *Scripted) Confirm(question string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Asked = append(s.Asked, question)
	if len(s.confirms) == 0 {
		return false
	}
	v := s.confirms[0]
	s.confirms = s.confirms[1:]
	return v
}

// Number pops the next queued value.
func (s *Scripted) Number(question string, _ int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Asked = append(s.Asked, question)
	if len(s.numbers) == 0 {
		return 0, false
	}
	v := s.numbers[0]
	s.numbers = s.numbers[1:]
	if v == nil {
		return 0, false
	}
	return *v, true
}

// Int is a helper for building WithNumbers arguments.
func Int(v int) *int { return &v }

// AutoConfirm answers yes to every Confirm and keeps the current value for Number.
type AutoConfirm struct{}

// Confirm returns true.
func (AutoConfirm) Confirm(string) bool { return true }

// Number returns current.
func (AutoConfirm) Number(_ string, current int) (int, bool) { return current, true }

// LinePrompter reads answers line by line from in and writes questions to out.
type LinePrompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewLinePrompter returns a terminal-style prompter.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewScanner(in), out: out}
}

// NewScannerPrompter returns a prompter that reads answers from s, which the
// caller may also be reading commands from.
func NewScannerPrompter(s *bufio.Scanner, out io.Writer) *LinePrompter {
	return &LinePrompter{in: s, out: out}
}

// Confirm accepts y/yes in any case. EOF answers no.
func (p *LinePrompter) Confirm(question string) bool {
	fmt.Fprintf(p.out, "%s [y/N]: ", question)
	if !p.in.Scan() {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(p.in.Text())) {
	case "y", "yes":
		return true
	}
	return false
}

// Number parses one integer. A blank line keeps current; EOF or text that is
// not a number cancels.
func (p *LinePrompter) Number(question string, current int) (int, bool) {
	fmt.Fprintf(p.out, "%s [%d]: ", question, current)
	if !p.in.Scan() {
		return 0, false
	}
	text := strings.TrimSpace(p.in.Text())
	if text == "" {
		return current, true
	}
	v, err := strconv.Atoi(text)
	if err != nil {
		return 0, false
	}
	return v, true
}
