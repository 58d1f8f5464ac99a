package fault

import (
	"strings"
)

// Record is the causal chain of a single uncaught fault. Records are
// immutable: the frames are copied on construction and a cause must exist
// before the record that wraps it, so a chain cannot loop.
type Record struct {
	kind    string
	message string
	frames  []Frame
	cause   *Record
}

// NewRecord builds a record. kind is an optional classifier printed before
// the message ("panic", "runtime error", an exception name).
func NewRecord(kind, message string, frames []Frame, cause *Record) *Record {
	return &Record{
		kind:    kind,
		message: message,
		frames:  append([]Frame(nil), frames...),
		cause:   cause,
	}
}

// Kind returns the record's classifier, possibly empty.
func (r *Record) Kind() string { return r.kind }

// Message returns the fault message.
func (r *Record) Message() string { return r.message }

// Title is the first rendered line of the record: "kind: message", or
// whichever of the two is set.
func (r *Record) Title() string {
	switch {
	case r.kind == "":
		return r.message
	case r.message == "":
		return r.kind
	default:
		return r.kind + ": " + r.message
	}
}

// Frames returns a copy of the record's stack frames.
func (r *Record) Frames() []Frame {
	return append([]Frame(nil), r.frames...)
}

// NumFrames returns the number of stack frames.
func (r *Record) NumFrames() int { return len(r.frames) }

// Cause returns the underlying cause, or nil.
func (r *Record) Cause() *Record { return r.cause }

// Chain returns the record followed by its causes, outermost first.
func (r *Record) Chain() []*Record {
	var chain []*Record
	for cur := r; cur != nil; cur = cur.cause {
		chain = append(chain, cur)
	}
	return chain
}

// String renders the record and every cause beneath it, one line per
// title and frame. Each line ends with a newline.
func (r *Record) String() string {
	var b strings.Builder
	for i, rec := range r.Chain() {
		if i > 0 {
			b.WriteString("Caused by: ")
		}
		b.WriteString(rec.Title())
		b.WriteByte('\n')
		for _, f := range rec.frames {
			b.WriteString(f.String())
			b.WriteByte('\n')
		}
	}
	return b.String()
}
