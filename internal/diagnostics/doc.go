// Package diagnostics gathers the environment facts recorded with every
// crash log.
//
// Facts are an insertion-ordered set of name/value strings. The Collector
// fills them once per crash from the application context (version name and
// code) and from a fixed, hand-maintained table of host facts grouped by
// source:
//
//   - runtime: Go version, GOOS/GOARCH, CPU count, process id.
//   - host: hostname, OS, platform and kernel identifiers (gopsutil).
//   - product: manufacturer, model and version of the machine (ghw).
//   - memory: total physical memory (gopsutil).
//
// A source that cannot be read is logged and ends collection; the facts
// gathered up to that point are still returned.
package diagnostics
