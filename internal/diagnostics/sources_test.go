package diagnostics

import (
	"errors"
	"os"
	"runtime"
	"strconv"
	"testing"
)

func TestRuntimeSource(t *testing.T) {
	t.Parallel()

	pairs, err := RuntimeSource().Collect()
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	got := map[string]string{}
	var order []string
	for _, p := range pairs {
		got[p.Key] = p.Value
		order = append(order, p.Key)
	}

	want := []string{"goVersion", "goos", "goarch", "numCPU", "pid"}
	if len(order) != len(want) {
		t.Fatalf("keys = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("key %d = %s, want %s", i, order[i], want[i])
		}
	}
	if got["goos"] != runtime.GOOS || got["goarch"] != runtime.GOARCH {
		t.Errorf("unexpected platform: %v", got)
	}
	if got["pid"] != strconv.Itoa(os.Getpid()) {
		t.Errorf("pid = %s", got["pid"])
	}
}

func TestTableSource_LoadError(t *testing.T) {
	t.Parallel()

	src := tableSource("broken",
		func() (int, error) { return 0, errors.New("no metadata") },
		[]accessor[int]{{"x", func(int) string { return "never" }}},
	)
	if _, err := src.Collect(); err == nil {
		t.Fatal("expected error")
	}
}

func TestTableSource_AccessorOrder(t *testing.T) {
	t.Parallel()

	src := tableSource("nums",
		func() (int, error) { return 7, nil },
		[]accessor[int]{
			{"double", func(v int) string { return strconv.Itoa(v * 2) }},
			{"same", func(v int) string { return strconv.Itoa(v) }},
		},
	)
	pairs, err := src.Collect()
	if err != nil {
		t.Fatal(err)
	}
	if len(pairs) != 2 || pairs[0] != (Pair{"double", "14"}) || pairs[1] != (Pair{"same", "7"}) {
		t.Errorf("pairs = %v", pairs)
	}
}

func TestDefaultSources_Names(t *testing.T) {
	t.Parallel()

	var names []string
	for _, s := range DefaultSources() {
		names = append(names, s.Name)
	}
	want := []string{"runtime", "host", "product", "memory"}
	if len(names) != len(want) {
		t.Fatalf("names = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("source %d = %s, want %s", i, names[i], want[i])
		}
	}
}

func TestHostSource_Keys(t *testing.T) {
	t.Parallel()

	pairs, err := HostSource().Collect()
	if err != nil {
		t.Skipf("host metadata unavailable: %v", err)
	}
	if len(pairs) != 8 || pairs[0].Key != "hostname" {
		t.Errorf("unexpected host facts: %v", pairs)
	}
}
