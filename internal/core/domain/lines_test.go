package domain

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{name: "short", text: "hello", limit: 10, want: []string{"hello"}},
		{name: "breaks at space", text: "hello big world", limit: 10, want: []string{"hello big", "world"}},
		{name: "hard break", text: "abcdefghijkl", limit: 5, want: []string{"abcde", "fghij", "kl"}},
		{name: "empty", text: "", limit: 5, want: []string{" "}},
		{name: "utf8 boundary", text: "你好世界", limit: 7, want: []string{"你好", "世界"}},
		{name: "newlines only", text: "a\r\n\nb", limit: 0, want: []string{"a", "b"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SplitLines(tc.text, tc.limit))
		})
	}
}

func TestSplitLinesLong(t *testing.T) {
	text := strings.Repeat("汉字 word ", 200)

	lines := SplitLines(text, 400)
	require.Greater(t, len(lines), 1)

	for _, line := range lines {
		assert.LessOrEqual(t, len(line), 400)
		assert.True(t, utf8.ValidString(line))
	}
}
