package crash

import (
	"fmt"

	"github.com/hugo-lorenzo-mato/crashkeeper/internal/fault"
)

// Recover reports a panic on the current goroutine to the default fault
// handler. It must be deferred directly:
//
//	go func() {
//		defer crash.Recover()
//		...
//	}()
//
// A panic(nil) is reported as a nil fault.
func Recover() {
	if v := recover(); v != nil {
		dispatch(v, "")
	}
}

// Go runs fn on a new goroutine guarded by Recover.
func Go(fn func()) {
	GoNamed("", fn)
}

// GoNamed is Go with a goroutine name carried into the crash log context.
func GoNamed(name string, fn func()) {
	go func() {
		defer recoverNamed(name)
		fn()
	}()
}

// Guard runs fn on the current goroutine guarded by Recover.
func Guard(fn func()) {
	defer Recover()
	fn()
}

func recoverNamed(name string) {
	if v := recover(); v != nil {
		dispatch(v, name)
	}
}

func dispatch(v any, name string) {
	frames := fault.PanicFrames()
	h := DefaultHandler()

	depth := fault.DefaultMaxCauseDepth
	if ch, ok := h.(*Handler); ok {
		depth = ch.maxDepth
	}
	h.HandleFault(currentGoroutine(name), buildRecord(v, frames, depth))
}

// buildRecord never panics: if walking the cause chain fails, the fault is
// recorded without causes.
func buildRecord(v any, frames []fault.Frame, depth int) (rec *fault.Record) {
	defer func() {
		if r := recover(); r != nil {
			rec = fault.NewRecord("panic", fmt.Sprint(v), frames, nil)
		}
	}()
	return fault.FromPanic(v, frames, depth)
}
