package numbering

import (
	"fmt"
	"strings"
	"time"
)

// Render expands a document number template with the reserved sequence
// value and the posting date. Supported placeholders:
//
//	{YYYY}   four-digit year
//	{YY}     two-digit year
//	{MM}     two-digit month
//	{#...#}  the sequence value, zero-padded to the number of # marks
//
// A template without a numeric placeholder gets the bare value appended,
// so a misconfigured format still yields unique numbers.
func Render(format string, date time.Time, value int64) string {
	d := date.UTC()
	out := strings.NewReplacer(
		"{YYYY}", d.Format("2006"),
		"{YY}", d.Format("06"),
		"{MM}", d.Format("01"),
	).Replace(format)

	start := strings.IndexByte(out, '{')
	for start >= 0 {
		end := strings.IndexByte(out[start:], '}')
		if end < 0 {
			break
		}
		inner := out[start+1 : start+end]
		if inner != "" && strings.Count(inner, "#") == len(inner) {
			rendered := fmt.Sprintf("%0*d", len(inner), value)
			return out[:start] + rendered + out[start+end+1:]
		}
		next := strings.IndexByte(out[start+1:], '{')
		if next < 0 {
			break
		}
		start = start + 1 + next
	}

	return fmt.Sprintf("%s%d", out, value)
}
