// Package clip copies a crash log somewhere the user can paste it from.
package clip

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	atotto "github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"

	"github.com/hugo-lorenzo-mato/crashkeeper/internal/logging"
)

// Method is the mechanism that made the text available.
type Method string

const (
	MethodNative Method = "native" // OS clipboard
	MethodOSC52  Method = "osc52"  // terminal clipboard escape sequence
	MethodFile   Method = "file"   // no clipboard reachable; text saved to a temp file
)

// Result reports how Copy delivered the text.
type Result struct {
	Method   Method
	FilePath string // only set for MethodFile
}

func (r Result) String() string {
	if r.Method == MethodFile {
		return "saved to " + r.FilePath
	}
	return "copied to clipboard (" + string(r.Method) + ")"
}

// Swapped in tests.
var (
	nativeWrite = atotto.WriteAll
	terminalOut io.Writer = os.Stderr
	tempDir               = os.TempDir
)

// Terminals drop or stall on oversized OSC52 payloads.
const osc52Limit = 100_000

// Copy tries the native clipboard, then the terminal clipboard, and finally
// falls back to a temp file.
func Copy(text string) (Result, error) {
	if text == "" {
		return Result{}, errors.New("nothing to copy")
	}
	if err := nativeWrite(text); err == nil {
		return Result{Method: MethodNative}, nil
	}
	if err := writeOSC52(terminalOut, text); err == nil {
		return Result{Method: MethodOSC52}, nil
	}

	path, err := writeTempFile(text)
	if err != nil {
		return Result{}, fmt.Errorf("saving copy: %w", err)
	}
	return Result{Method: MethodFile, FilePath: path}, nil
}

func writeOSC52(w io.Writer, text string) error {
	if !logging.IsTerminal(w) {
		return errors.New("not a terminal")
	}
	if len(text) > osc52Limit {
		return fmt.Errorf("text too large for OSC52 (%d bytes > %d)", len(text), osc52Limit)
	}

	seq := osc52.New(text).Limit(osc52Limit)
	switch {
	case os.Getenv("TMUX") != "":
		seq = seq.Tmux()
	case os.Getenv("STY") != "":
		seq = seq.Screen()
	}
	_, err := seq.WriteTo(w)
	return err
}

func writeTempFile(text string) (path string, err error) {
	f, err := os.CreateTemp(tempDir(), "crashkeeper-copy-*.log")
	if err != nil {
		return "", err
	}
	path = f.Name()
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
			path = ""
		}
	}()

	if _, err = io.WriteString(f, text); err != nil {
		return "", err
	}
	return filepath.Clean(path), nil
}
