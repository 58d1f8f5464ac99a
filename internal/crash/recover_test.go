package crash

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/crashkeeper/internal/fault"
	"github.com/hugo-lorenzo-mato/crashkeeper/internal/testutil"
)

type captured struct {
	g   Goroutine
	rec *fault.Record
}

func captureFaults(t *testing.T) <-chan captured {
	t.Helper()
	ch := make(chan captured, 4)
	useDefaultHandler(t, FaultHandlerFunc(func(g Goroutine, rec *fault.Record) {
		ch <- captured{g: g, rec: rec}
	}))
	return ch
}

func receive(t *testing.T, ch <-chan captured) captured {
	t.Helper()
	select {
	case c := <-ch:
		return c
	case <-time.After(5 * time.Second):
		t.Fatal("no fault dispatched")
		return captured{}
	}
}

func TestGuard_RecoversPanic(t *testing.T) {
	ch := captureFaults(t)

	Guard(func() { panic("boom") })

	c := receive(t, ch)
	require.NotNil(t, c.rec)
	assert.Equal(t, "panic: boom", c.rec.Title())
	assert.NotZero(t, c.g.ID)
	require.NotZero(t, c.rec.NumFrames())
	assert.Contains(t, c.rec.Frames()[0].Function, "TestGuard_RecoversPanic")
}

func TestGuard_NoPanic(t *testing.T) {
	ch := captureFaults(t)

	ran := false
	Guard(func() { ran = true })

	assert.True(t, ran)
	assert.Empty(t, ch)
}

func TestGuard_PanicNilIsNilFault(t *testing.T) {
	ch := captureFaults(t)

	Guard(func() { panic(nil) })

	c := receive(t, ch)
	assert.Nil(t, c.rec)
}

func TestGuard_ErrorChain(t *testing.T) {
	ch := captureFaults(t)

	Guard(func() { panic(fault.Wrap(fault.New("disk full"), "saving order")) })

	c := receive(t, ch)
	require.NotNil(t, c.rec)
	assert.Equal(t, "panic: saving order", c.rec.Title())
	require.NotNil(t, c.rec.Cause())
	assert.Equal(t, "disk full", c.rec.Cause().Title())
	assert.NotZero(t, c.rec.Cause().NumFrames())
}

func TestRecover_Deferred(t *testing.T) {
	ch := captureFaults(t)

	func() {
		defer Recover()
		var m map[string]int
		m["x"] = 1
	}()

	c := receive(t, ch)
	require.NotNil(t, c.rec)
	assert.Contains(t, c.rec.Message(), "nil map")
}

func TestGoNamed(t *testing.T) {
	ch := captureFaults(t)

	GoNamed("worker-1", func() { panic(errors.New("bad input")) })

	c := receive(t, ch)
	assert.Equal(t, "worker-1", c.g.Name)
	assert.NotZero(t, c.g.ID)
	assert.Equal(t, "panic: bad input", c.rec.Title())
}

func TestGo(t *testing.T) {
	ch := captureFaults(t)

	Go(func() { panic(42) })

	c := receive(t, ch)
	assert.Empty(t, c.g.Name)
	assert.Equal(t, "panic: 42", c.rec.Title())
}

func TestRecover_EndToEnd(t *testing.T) {
	h, ex, appCtx := newTestHandler(t, WithMaxCauseDepth(1))
	useDefaultHandler(t, h)

	Guard(func() { panic(fault.Wrap(errors.New("socket closed"), "sending receipt")) })

	assert.Equal(t, []int{DefaultExitCode}, ex.Codes())
	names := testutil.ReadDirNames(t, appCtx.CrashDir())
	require.Len(t, names, 1)

	data, err := os.ReadFile(filepath.Join(appCtx.CrashDir(), names[0]))
	require.NoError(t, err)
	assert.Contains(t, string(data), "panic: sending receipt\n")
	assert.NotContains(t, string(data), "Caused by", "cause depth is limited to the fault itself")
}

func TestRuntimeHandler(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	ex := &exitRecorder{}
	h := runtimeHandler{out: &out, exit: ex.exit}

	h.HandleFault(Goroutine{ID: 9}, nil)
	assert.Empty(t, out.String())
	assert.Empty(t, ex.Codes())

	h.HandleFault(Goroutine{ID: 9}, fault.NewRecord("panic", "boom", nil, nil))
	assert.True(t, strings.HasPrefix(out.String(), "panic: boom\n"))
	assert.Contains(t, out.String(), "goroutine 9 [running]:")
	assert.Equal(t, []int{RuntimeExitCode}, ex.Codes())
}

func TestSetDefaultHandler(t *testing.T) {
	first := &recordingHandler{}
	useDefaultHandler(t, first)

	second := &recordingHandler{}
	prev := SetDefaultHandler(second)
	assert.Same(t, first, prev)
	assert.Same(t, second, DefaultHandler())

	SetDefaultHandler(nil)
	assert.IsType(t, runtimeHandler{}, DefaultHandler())
}

func TestCurrentGoroutine(t *testing.T) {
	t.Parallel()

	here := currentGoroutine("main")
	assert.NotZero(t, here.ID)
	assert.Equal(t, "main", here.Name)
	assert.Equal(t, fmt.Sprintf("goroutine %d (main)", here.ID), here.String())

	other := make(chan Goroutine)
	go func() { other <- currentGoroutine("") }()
	g := <-other
	assert.NotZero(t, g.ID)
	assert.NotEqual(t, here.ID, g.ID)
	assert.NotContains(t, g.String(), "(")
}

func TestWithRuntimeCrashOutput(t *testing.T) {
	useDefaultHandler(t, &recordingHandler{})
	t.Cleanup(func() { _ = debug.SetCrashOutput(nil, debug.CrashOptions{}) })

	h, _, appCtx := newTestHandler(t, WithRuntimeCrashOutput(true))
	h.Install()

	_, err := os.Stat(filepath.Join(appCtx.CrashDir(), RuntimeCrashFile))
	assert.NoError(t, err)
}

type sliceErr struct{ parts []string }

func (e sliceErr) Error() string { return strings.Join(e.parts, ",") }

type holderErr struct{ inner error }

func (e holderErr) Error() string { return "holder: " + e.inner.Error() }
func (e holderErr) Unwrap() error { return e.inner }

type brokenErr struct{}

func (brokenErr) Error() string { panic("Error method broke") }

func TestGuard_UnhashableErrorReachesCrashPath(t *testing.T) {
	h, ex, appCtx := newTestHandler(t)
	useDefaultHandler(t, h)

	Guard(func() { panic(holderErr{inner: sliceErr{parts: []string{"a", "b"}}}) })

	assert.Equal(t, []int{DefaultExitCode}, ex.Codes())
	names := testutil.ReadDirNames(t, appCtx.CrashDir())
	require.Len(t, names, 1)

	data, err := os.ReadFile(filepath.Join(appCtx.CrashDir(), names[0]))
	require.NoError(t, err)
	assert.Contains(t, string(data), "panic: holder\n")
	assert.Contains(t, string(data), "Caused by: a,b\n")
}

func TestBuildRecord_FallsBackWhenChainWalkPanics(t *testing.T) {
	t.Parallel()

	frames := []fault.Frame{{Function: "main.run", Line: 3}}
	rec := buildRecord(brokenErr{}, frames, 0)
	require.NotNil(t, rec)
	assert.Equal(t, "panic", rec.Kind())
	assert.Contains(t, rec.Message(), "Error method broke")
	assert.Nil(t, rec.Cause())
	assert.Equal(t, frames, rec.Frames())
}
