package handlers

import "strings"

// SplitMessage cuts text into chunks of at most limit runes. A chunk ends at
// the last newline inside the window when there is one, otherwise at the
// limit. Newlines at chunk boundaries are dropped.
func SplitMessage(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if limit <= 0 {
		return []string{text}
	}

	runes := []rune(text)
	var parts []string
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i] == '\n' {
				cut = i
				break
			}
		}

		if part := strings.TrimRight(string(runes[:cut]), "\n"); part != "" {
			parts = append(parts, part)
		}
		runes = []rune(strings.TrimLeft(string(runes[cut:]), "\n"))
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}

	return parts
}
