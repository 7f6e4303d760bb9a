// Package markdown removes the code fence a chat model wraps around a file
// it was asked to return verbatim.
package markdown

import (
	"regexp"
	"strings"
)

var (
	openingFence = regexp.MustCompile("^```[a-z]*\r?\n")
	closingFence = regexp.MustCompile("\r?\n```")
	fenceLine    = regexp.MustCompile("(?m)^```")
)

// StripFences removes one opening fence line at the very start of raw and the
// last closing fence, together with everything after it. An end without a
// fence is left as is. This is a heuristic, not a parser: text between two
// fenced blocks is kept, and commentary after the last fence is dropped.
func StripFences(raw string) string {
	stripped := openingFence.ReplaceAllLiteralString(raw, "")

	matches := closingFence.FindAllStringIndex(stripped, -1)
	if len(matches) == 0 {
		return stripped
	}

	return stripped[:matches[len(matches)-1][0]]
}

// Report describes the fences found in a raw response.
type Report struct {
	// Opening is true when raw starts with an opening fence line.
	Opening bool

	// Closing is true when a closing fence follows the opening content.
	Closing bool

	// Fences counts every line that starts with ``` anywhere in raw.
	Fences int
}

// SingleBlock reports whether raw held exactly one fenced block and nothing
// that looks like a second one.
func (r Report) SingleBlock() bool {
	return r.Opening && r.Closing && r.Fences == 2
}

// Describe returns a short human readable reason when the report is not a
// single block, or "" when it is.
func (r Report) Describe() string {
	switch {
	case r.SingleBlock():
		return ""
	case r.Fences == 0:
		return "no code fence found"
	case !r.Opening:
		return "response does not start with a code fence"
	case !r.Closing:
		return "no closing code fence found"
	default:
		return "multiple fenced blocks found; kept everything between the first and last fence"
	}
}

// Inspect reports how raw is fenced without changing it.
func Inspect(raw string) Report {
	rest := openingFence.ReplaceAllLiteralString(raw, "")
	return Report{
		Opening: len(rest) != len(raw),
		Closing: closingFence.MatchString(rest),
		Fences:  len(fenceLine.FindAllStringIndex(strings.ReplaceAll(raw, "\r\n", "\n"), -1)),
	}
}
