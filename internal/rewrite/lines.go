package rewrite

import (
	"strings"
	"unicode/utf8"
)

// splitLines splits s after every "\n", keeping the terminators, so that
// strings.Join(splitLines(s), "") == s.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// cutEnding separates a line from its "\n" or "\r\n" terminator.
func cutEnding(line string) (body, ending string) {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return line[:len(line)-2], "\r\n"
	case strings.HasSuffix(line, "\n"):
		return line[:len(line)-1], "\n"
	default:
		return line, ""
	}
}

// indentBefore returns the text to put in front of a regenerated line whose
// keyword started at byte offset idx. Leading whitespace is kept verbatim;
// anything else before the keyword is blanked to spaces so the keyword stays
// in its column.
func indentBefore(body string, idx int) string {
	prefix := body[:idx]
	if strings.TrimLeft(prefix, " \t") == "" {
		return prefix
	}
	return strings.Repeat(" ", utf8.RuneCountInString(prefix))
}

// rewriteMatching rebuilds content line by line. Lines containing keyword
// are replaced with indent+render(body) plus the original terminator; every
// other line goes through other. It returns the new content and the number
// of lines replaced.
func rewriteMatching(content, keyword string, render func(body string) string, other func(line string) string) (string, int) {
	var b strings.Builder
	b.Grow(len(content))

	hits := 0
	for _, line := range splitLines(content) {
		body, ending := cutEnding(line)
		idx := strings.Index(body, keyword)
		if idx < 0 {
			b.WriteString(other(line))
			continue
		}
		hits++
		b.WriteString(indentBefore(body, idx))
		b.WriteString(render(body))
		b.WriteString(ending)
	}
	return b.String(), hits
}
