package fault

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// DefaultMaxCauseDepth bounds how many links of an error chain become
// records.
const DefaultMaxCauseDepth = 32

// StackCarrier is implemented by errors that know their own stack.
type StackCarrier interface {
	StackFrames() []Frame
}

// FromPanic converts a recovered panic value into a record. frames is the
// stack of the panicking goroutine (see PanicFrames). A nil value, or the
// *runtime.PanicNilError produced by panic(nil), yields nil: the runtime
// reported no fault object.
func FromPanic(value any, frames []Frame, maxDepth int) *Record {
	if value == nil {
		return nil
	}
	if _, ok := value.(*runtime.PanicNilError); ok {
		return nil
	}

	err, ok := value.(error)
	if !ok {
		return NewRecord("panic", fmt.Sprint(value), frames, nil)
	}

	if maxDepth <= 0 {
		maxDepth = DefaultMaxCauseDepth
	}
	var cause *Record
	if maxDepth > 1 {
		cause = fromChain(nextError(err), maxDepth-1, seenSet(err))
	}
	return NewRecord("panic", ownMessage(err), frames, cause)
}

// FromError converts an error chain into a record chain. The walk follows
// Unwrap (the first branch of a joined error), stops after maxDepth links
// and stops at the first error already seen, so self-referential chains
// terminate.
func FromError(err error, maxDepth int) *Record {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxCauseDepth
	}
	return fromChain(err, maxDepth, seenSet(nil))
}

func fromChain(err error, maxDepth int, seen map[error]struct{}) *Record {
	if err == nil {
		return nil
	}
	chain := make([]error, 0, 4)
	for e := err; e != nil && len(chain) < maxDepth; e = nextError(e) {
		if !markSeen(seen, e) {
			break
		}
		chain = append(chain, e)
	}

	var rec *Record
	for i := len(chain) - 1; i >= 0; i-- {
		e := chain[i]
		var frames []Frame
		if sc, ok := e.(StackCarrier); ok {
			frames = sc.StackFrames()
		}
		rec = NewRecord("", ownMessage(e), frames, rec)
	}
	return rec
}

func seenSet(first error) map[error]struct{} {
	seen := make(map[error]struct{})
	if first != nil {
		markSeen(seen, first)
	}
	return seen
}

// markSeen records e and reports whether it was new. A comparable static
// type can still hold an unhashable dynamic value in an interface field;
// such errors are not tracked and the walk relies on the depth bound.
func markSeen(seen map[error]struct{}, e error) (fresh bool) {
	if !reflect.TypeOf(e).Comparable() {
		return true
	}
	defer func() {
		if recover() != nil {
			fresh = true
		}
	}()
	if _, dup := seen[e]; dup {
		return false
	}
	seen[e] = struct{}{}
	return true
}

func nextError(err error) error {
	if next := errors.Unwrap(err); next != nil {
		return next
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			if e != nil {
				return e
			}
		}
	}
	return nil
}

// ownMessage strips the wrapped cause's text from a wrapping error's
// message so each record in the chain shows only its own contribution.
func ownMessage(err error) string {
	msg := err.Error()
	next := nextError(err)
	if next == nil {
		return msg
	}
	if trimmed, ok := strings.CutSuffix(msg, ": "+next.Error()); ok {
		return trimmed
	}
	return msg
}
