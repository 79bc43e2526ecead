package patcher

import "strings"

// cut removes content[start:end] and, when that leaves a blank line directly
// above a blank line, a closing ")" or the end of the file, drops that blank
// line too. start must be at a line start and end just past a newline or at
// the end of content.
func cut(content string, start, end int) string {
	before, after := content[:start], content[end:]
	if endsWithBlankLine(before) && (after == "" || startsWithBlankOrClose(after)) {
		before = dropLastLine(before)
	}
	return before + after
}

func endsWithBlankLine(s string) bool {
	if !strings.HasSuffix(s, "\n") {
		return false
	}
	trimmed := strings.TrimSuffix(s, "\n")
	last := trimmed[strings.LastIndex(trimmed, "\n")+1:]
	return strings.TrimSpace(last) == ""
}

func dropLastLine(s string) string {
	trimmed := strings.TrimSuffix(s, "\n")
	return trimmed[:strings.LastIndex(trimmed, "\n")+1]
}

func startsWithBlankOrClose(s string) bool {
	line := s
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		line = s[:i]
	}
	line = strings.TrimSpace(line)
	return line == "" || line == ")"
}

// lineEnd returns the index just past the newline ending the line that
// contains i, or len(s).
func lineEnd(s string, i int) int {
	if j := strings.IndexByte(s[i:], '\n'); j >= 0 {
		return i + j + 1
	}
	return len(s)
}

// removeLines deletes every line matched by find, last match first so
// earlier offsets stay valid. find must return line-start offsets.
func removeLines(content string, find func(string) [][]int) (string, bool) {
	matches := find(content)
	if len(matches) == 0 {
		return content, false
	}
	for i := len(matches) - 1; i >= 0; i-- {
		start := matches[i][0]
		content = cut(content, start, lineEnd(content, start))
	}
	return content, true
}
