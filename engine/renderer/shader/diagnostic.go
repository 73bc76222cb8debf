package shader

import (
	"regexp"
	"strconv"
	"strings"
)

// linePattern matches "line 12" or a "12:5" line:column pair. Submatch 2 or 4 holds the line.
var linePattern = regexp.MustCompile(`([Ll]ine\s+)(\d+)|(^|[^\d.])(\d+):(\d+)`)

// Remap rewrites every line reference in a compiler diagnostic so it points into the user's source.
// References that fall inside the prefix are left untouched.
//
// Parameters:
//   - msg: the raw diagnostic text
//
// Returns:
//   - string: the diagnostic with line numbers relative to Source
func (p Program) Remap(msg string) string {
	if p.PrefixLines == 0 || msg == "" {
		return msg
	}

	var b strings.Builder
	last := 0
	for _, m := range linePattern.FindAllStringSubmatchIndex(msg, -1) {
		start, end := m[4], m[5]
		if start < 0 {
			start, end = m[8], m[9]
		}
		b.WriteString(msg[last:start])
		b.WriteString(p.remapNumber(msg[start:end]))
		last = end
	}
	b.WriteString(msg[last:])
	return b.String()
}

func (p Program) remapNumber(s string) string {
	n, err := strconv.Atoi(s)
	if err != nil {
		return s
	}
	if l, ok := p.UserLine(n); ok {
		return strconv.Itoa(l)
	}
	return s
}
