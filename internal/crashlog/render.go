package crashlog

import (
	"strings"

	"github.com/hugo-lorenzo-mato/crashkeeper/internal/diagnostics"
	"github.com/hugo-lorenzo-mato/crashkeeper/internal/fault"
)

// Delimiters framing the fault inside a crash log.
const (
	BeginMarker = "-----Crash Log Begin-----"
	EndMarker   = "-----Crash Log End-----"
)

// Render produces the crash log text: one key=value line per fact, a blank
// line, the begin marker, the fault with its causes, a blank line and the
// end marker. The text does not end with a newline.
func Render(facts *diagnostics.Facts, rec *fault.Record) []byte {
	var b strings.Builder
	for k, v := range facts.All() {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(v)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(BeginMarker)
	b.WriteByte('\n')
	if rec != nil {
		b.WriteString(rec.String())
	}
	b.WriteByte('\n')
	b.WriteString(EndMarker)
	return []byte(b.String())
}
