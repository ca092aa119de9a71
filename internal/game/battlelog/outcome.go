package battlelog

import "fmt"

// Outcome carries the lines an operation produced, in order.
type Outcome struct {
	Lines []string
}

// Addf appends a formatted line.
func (o *Outcome) Addf(format string, args ...any) {
	o.Lines = append(o.Lines, fmt.Sprintf(format, args...))
}

// Publish appends every line to s.
func (o Outcome) Publish(s Sink) {
	for _, l := range o.Lines {
		s.Append(l)
	}
}

// Plural returns "" for 1 and "s" otherwise.
func Plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
