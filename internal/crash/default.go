package crash

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/hugo-lorenzo-mato/crashkeeper/internal/fault"
)

// FaultHandler receives faults that escaped every other handler. A nil
// record means a fault was raised without a fault object.
type FaultHandler interface {
	HandleFault(g Goroutine, rec *fault.Record)
}

// FaultHandlerFunc adapts a function to FaultHandler.
type FaultHandlerFunc func(g Goroutine, rec *fault.Record)

// HandleFault calls f.
func (f FaultHandlerFunc) HandleFault(g Goroutine, rec *fault.Record) { f(g, rec) }

// RuntimeExitCode is the status used by the runtime handler, matching the
// Go runtime's status for an unrecovered panic.
const RuntimeExitCode = 2

// RuntimeHandler mimics the Go runtime: it prints the fault to stderr and
// exits. It ignores nil records.
var RuntimeHandler FaultHandler = runtimeHandler{out: os.Stderr, exit: os.Exit}

type runtimeHandler struct {
	out  io.Writer
	exit func(int)
}

func (h runtimeHandler) HandleFault(g Goroutine, rec *fault.Record) {
	if rec == nil {
		return
	}
	fmt.Fprintf(h.out, "%s\ngoroutine %d [running]:\n", rec, g.ID)
	h.exit(RuntimeExitCode)
}

type handlerBox struct {
	h FaultHandler
}

var defaultHandler atomic.Pointer[handlerBox]

func init() {
	defaultHandler.Store(&handlerBox{h: RuntimeHandler})
}

// DefaultHandler returns the handler Recover dispatches to.
func DefaultHandler() FaultHandler {
	return defaultHandler.Load().h
}

// SetDefaultHandler replaces the default handler and returns the previous
// one. A nil handler restores RuntimeHandler.
func SetDefaultHandler(h FaultHandler) FaultHandler {
	if h == nil {
		h = RuntimeHandler
	}
	return defaultHandler.Swap(&handlerBox{h: h}).h
}
