package folder

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// compileFormat turns a name format into an anchored regexp that extracts
// the numbering. '$' becomes a signed integer capture, '*' a non-greedy
// wildcard and '[...]' an optional group. The wildcard is non-greedy so that
// it cannot swallow the minus sign of a negative number in formats like
// "*-$.ckpt".
func compileFormat(format string) (*regexp.Regexp, error) {
	if strings.Count(format, "$") != 1 {
		return nil, fmt.Errorf("%w: %q must contain '$' exactly once", ErrInvalidFormat, format)
	}
	if strings.Count(format, "*") > 1 {
		return nil, fmt.Errorf("%w: %q may contain '*' at most once", ErrInvalidFormat, format)
	}
	if strings.Count(format, "[") != strings.Count(format, "]") {
		return nil, fmt.Errorf("%w: unbalanced brackets in %q", ErrInvalidFormat, format)
	}

	pattern := regexp.QuoteMeta(format)
	pattern = strings.ReplaceAll(pattern, `\[`, "(")
	pattern = strings.ReplaceAll(pattern, `\]`, ")?")
	pattern = strings.ReplaceAll(pattern, `\$`, `(?P<num>-?\d+)`)
	pattern = strings.ReplaceAll(pattern, `\*`, ".*?")

	re, err := regexp.Compile("^" + pattern + "$")
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidFormat, format, err)
	}
	return re, nil
}

// extractNumber returns the numbering embedded in name, or ErrNotFound when
// the name does not match the format.
func extractNumber(re *regexp.Regexp, name string) (int, bool) {
	m := re.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[re.SubexpIndex("num")])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Substitute renders a name format with the given number, filling an
// optional '*' wildcard with name. Pass an empty name for formats without a
// wildcard or with the wildcard inside an optional '[...]' group.
func Substitute(format string, number int, name string) (string, error) {
	if _, err := compileFormat(format); err != nil {
		return "", err
	}

	start := strings.IndexByte(format, '[')
	end := strings.IndexByte(format, ']')
	wildcard := strings.IndexByte(format, '*')
	optional := start >= 0 && end > start && start < wildcard && wildcard < end

	switch {
	case name == "" && wildcard >= 0 && !optional:
		return "", fmt.Errorf("%w: format %q requires a name", ErrMissingName, format)
	case name != "" && wildcard < 0:
		return "", fmt.Errorf("%w: format %q has no '*' wildcard", ErrMissingName, format)
	}

	out := strings.Replace(format, "$", strconv.Itoa(number), 1)
	switch {
	case name != "":
		out = strings.Replace(out, "*", name, 1)
		out = strings.Replace(out, "[", "", 1)
		out = strings.Replace(out, "]", "", 1)
	case optional:
		// Drop the whole optional group when no name is given.
		start = strings.IndexByte(out, '[')
		end = strings.IndexByte(out, ']')
		out = out[:start] + out[end+1:]
	}
	return out, nil
}
