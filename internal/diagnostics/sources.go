package diagnostics

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/jaypipes/ghw"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// Pair is one collected fact.
type Pair struct {
	Key   string
	Value string
}

// Source is a group of facts backed by a single metadata lookup.
type Source struct {
	Name    string
	Collect func() ([]Pair, error)
}

// accessor reads one named fact out of a metadata value.
type accessor[T any] struct {
	name string
	get  func(T) string
}

// tableSource turns a lookup and a fixed accessor table into a Source.
func tableSource[T any](name string, load func() (T, error), table []accessor[T]) Source {
	return Source{
		Name: name,
		Collect: func() ([]Pair, error) {
			v, err := load()
			if err != nil {
				return nil, fmt.Errorf("reading %s metadata: %w", name, err)
			}
			pairs := make([]Pair, 0, len(table))
			for _, a := range table {
				pairs = append(pairs, Pair{Key: a.name, Value: a.get(v)})
			}
			return pairs, nil
		},
	}
}

// DefaultSources returns the host fact table in collection order.
func DefaultSources() []Source {
	return []Source{
		RuntimeSource(),
		HostSource(),
		ProductSource(),
		MemorySource(),
	}
}

// RuntimeSource reports facts about the Go runtime and the process.
func RuntimeSource() Source {
	return tableSource("runtime",
		func() (struct{}, error) { return struct{}{}, nil },
		[]accessor[struct{}]{
			{"goVersion", func(struct{}) string { return runtime.Version() }},
			{"goos", func(struct{}) string { return runtime.GOOS }},
			{"goarch", func(struct{}) string { return runtime.GOARCH }},
			{"numCPU", func(struct{}) string { return strconv.Itoa(runtime.NumCPU()) }},
			{"pid", func(struct{}) string { return strconv.Itoa(os.Getpid()) }},
		})
}

// HostSource reports OS and kernel identifiers.
func HostSource() Source {
	return tableSource("host", host.Info, []accessor[*host.InfoStat]{
		{"hostname", func(h *host.InfoStat) string { return h.Hostname }},
		{"os", func(h *host.InfoStat) string { return h.OS }},
		{"platform", func(h *host.InfoStat) string { return h.Platform }},
		{"platformFamily", func(h *host.InfoStat) string { return h.PlatformFamily }},
		{"platformVersion", func(h *host.InfoStat) string { return h.PlatformVersion }},
		{"kernelVersion", func(h *host.InfoStat) string { return h.KernelVersion }},
		{"kernelArch", func(h *host.InfoStat) string { return h.KernelArch }},
		{"virtualization", func(h *host.InfoStat) string { return h.VirtualizationSystem }},
	})
}

// ProductSource reports the machine's manufacturer and model.
func ProductSource() Source {
	load := func() (*ghw.ProductInfo, error) { return ghw.Product() }
	return tableSource("product", load, []accessor[*ghw.ProductInfo]{
		{"manufacturer", func(p *ghw.ProductInfo) string { return p.Vendor }},
		{"model", func(p *ghw.ProductInfo) string { return p.Name }},
		{"productFamily", func(p *ghw.ProductInfo) string { return p.Family }},
		{"productVersion", func(p *ghw.ProductInfo) string { return p.Version }},
	})
}

// MemorySource reports total physical memory.
func MemorySource() Source {
	return tableSource("memory", mem.VirtualMemory, []accessor[*mem.VirtualMemoryStat]{
		{"memTotalMB", func(m *mem.VirtualMemoryStat) string {
			return strconv.FormatUint(m.Total/1024/1024, 10)
		}},
	})
}
