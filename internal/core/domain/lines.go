package domain

import (
	"strings"
	"unicode/utf8"
)

// SplitLines breaks text into non-empty lines of at most limit bytes, preferring to break at spaces and never
// splitting a UTF-8 sequence. A limit <= 0 only splits on newlines.
func SplitLines(text string, limit int) []string {
	var lines []string

	for _, raw := range strings.Split(strings.ReplaceAll(text, "\r", ""), "\n") {
		line := strings.TrimRight(raw, " \t")
		for limit > 0 && len(line) > limit {
			cut := cutIndex(line, limit)
			lines = append(lines, strings.TrimRight(line[:cut], " "))
			line = strings.TrimLeft(line[cut:], " ")
		}

		if line != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) == 0 {
		lines = append(lines, " ")
	}

	return lines
}

func cutIndex(line string, limit int) int {
	cut := limit
	for cut > 0 && !utf8.RuneStart(line[cut]) {
		cut--
	}

	if space := strings.LastIndexByte(line[:cut], ' '); space > 0 {
		return space
	}

	if cut == 0 {
		_, size := utf8.DecodeRuneInString(line)
		return size
	}

	return cut
}
