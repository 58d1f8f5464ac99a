// Package crash intercepts faults that nothing else handled and turns them
// into a crash log followed by process termination.
//
// Go has no process-wide hook for panics raised on arbitrary goroutines, so
// the interception point is a deferred Recover at the top of each goroutine
// (or the Go, GoNamed and Guard helpers). Recovered panics are dispatched to
// the default fault handler, which Install replaces with a Handler:
//
//	func main() {
//		crash.Install(appCtx, crash.WithLogger(logger))
//		defer crash.Recover()
//		...
//	}
//
// The crash path notifies the user, records diagnostic facts and the fault
// with its causes under <root>/crash, waits a short grace period and exits
// with a non-zero status.
package crash
