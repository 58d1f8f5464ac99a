package crash

import (
	"bytes"
	"runtime"
	"strconv"
)

// Goroutine identifies the goroutine a fault was raised on.
type Goroutine struct {
	ID   uint64
	Name string
}

func (g Goroutine) String() string {
	id := strconv.FormatUint(g.ID, 10)
	if g.Name == "" {
		return "goroutine " + id
	}
	return "goroutine " + id + " (" + g.Name + ")"
}

var goroutinePrefix = []byte("goroutine ")

// currentGoroutine reads the running goroutine's id from the header of its
// stack trace ("goroutine 18 [running]:"). It returns 0 if the header
// cannot be parsed.
func currentGoroutine(name string) Goroutine {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]
	b = bytes.TrimPrefix(b, goroutinePrefix)
	if i := bytes.IndexByte(b, ' '); i > 0 {
		b = b[:i]
	}
	id, _ := strconv.ParseUint(string(b), 10, 64)
	return Goroutine{ID: id, Name: name}
}
