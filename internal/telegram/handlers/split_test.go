package handlers

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitMessageShort(t *testing.T) {
	assert.Equal(t, []string{"hello"}, SplitMessage("  hello \n", 10))
	assert.Nil(t, SplitMessage(" \n ", 10))
}

func TestSplitMessagePrefersNewlines(t *testing.T) {
	text := strings.Repeat("a", 6) + "\n" + strings.Repeat("b", 6)

	parts := SplitMessage(text, 10)
	assert.Equal(t, []string{"aaaaaa", "bbbbbb"}, parts)
}

func TestSplitMessageHardCut(t *testing.T) {
	parts := SplitMessage(strings.Repeat("x", 25), 10)
	assert.Equal(t, []string{"xxxxxxxxxx", "xxxxxxxxxx", "xxxxx"}, parts)
}

func TestSplitMessageCountsRunes(t *testing.T) {
	text := strings.Repeat("ж", MaxMessageLength+10)

	parts := SplitMessage(text, MaxMessageLength)
	require.Len(t, parts, 2)
	assert.Equal(t, MaxMessageLength, utf8.RuneCountInString(parts[0]))
	assert.Equal(t, 10, utf8.RuneCountInString(parts[1]))
	for _, p := range parts {
		assert.True(t, utf8.ValidString(p))
	}
}

func TestSplitMessageKeepsAllContent(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 500; i++ {
		b.WriteString("line of analysis text number ")
		b.WriteString(strings.Repeat("z", i%40))
		b.WriteString("\n")
	}
	text := strings.TrimSpace(b.String())

	parts := SplitMessage(text, MaxMessageLength)
	require.Greater(t, len(parts), 1)
	for _, p := range parts {
		assert.LessOrEqual(t, utf8.RuneCountInString(p), MaxMessageLength)
	}
	assert.Equal(t, text, strings.Join(parts, "\n"))
}
