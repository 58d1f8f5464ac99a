package fault

import (
	"runtime"
	"strconv"
	"strings"
)

// maxFrames bounds stack capture on the crash path.
const maxFrames = 64

// Frame is a single call site in a fault's stack.
type Frame struct {
	Function string
	File     string
	Line     int
}

// String renders the frame on one line: "function file:line", or
// "function:line" when the file is unknown.
func (f Frame) String() string {
	fn := f.Function
	if fn == "" {
		fn = "unknown"
	}
	if f.File == "" {
		return fn + ":" + strconv.Itoa(f.Line)
	}
	return fn + " " + f.File + ":" + strconv.Itoa(f.Line)
}

// Callers captures the stack of the calling goroutine. skip=0 starts at
// the caller of Callers.
func Callers(skip int) []Frame {
	pc := make([]uintptr, maxFrames)
	n := runtime.Callers(skip+2, pc)
	return resolve(pc[:n])
}

// PanicFrames captures the stack of a goroutine that is unwinding a panic.
// It must be called from a deferred function. Frames belonging to the
// deferred handlers and the runtime's panic machinery are dropped so the
// first frame is the one that panicked.
func PanicFrames() []Frame {
	pc := make([]uintptr, maxFrames)
	n := runtime.Callers(2, pc)
	return trimPanic(resolve(pc[:n]))
}

func resolve(pc []uintptr) []Frame {
	if len(pc) == 0 {
		return nil
	}
	frames := runtime.CallersFrames(pc)
	out := make([]Frame, 0, len(pc))
	for {
		fr, more := frames.Next()
		out = append(out, Frame{
			Function: fr.Function,
			File:     fr.File,
			Line:     fr.Line,
		})
		if !more {
			break
		}
	}
	return out
}

func trimPanic(frames []Frame) []Frame {
	start := -1
	for i, f := range frames {
		if f.Function == "runtime.gopanic" {
			start = i + 1
		}
	}
	if start < 0 {
		return frames
	}
	// Runtime-raised panics (nil dereference, index out of range) pass
	// through helpers such as runtime.panicmem and runtime.sigpanic.
	for start < len(frames) && strings.HasPrefix(frames[start].Function, "runtime.") {
		start++
	}
	return frames[start:]
}
