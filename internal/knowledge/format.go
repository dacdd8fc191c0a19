package knowledge

import (
	"strings"
	"unicode/utf8"
)

const minRecommendationLength = 20

// FormatRecommendations splits each document into lines and keeps the ones
// that read as complete advisory sentences: headers ending in ":" are dropped,
// leading bullet markers are stripped, and a kept line is at least 20
// characters long and ends in ".", "!" or "?". Duplicates are removed keeping
// the first occurrence.
func FormatRecommendations(docs []Document) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)

	for _, d := range docs {
		for _, line := range strings.Split(d.Text, "\n") {
			rec, ok := cleanLine(line)
			if !ok {
				continue
			}
			if _, dup := seen[rec]; dup {
				continue
			}
			seen[rec] = struct{}{}
			out = append(out, rec)
		}
	}
	return out
}

func cleanLine(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasSuffix(line, ":") {
		return "", false
	}

	line = strings.TrimSpace(strings.TrimLeft(line, "-• "))
	if utf8.RuneCountInString(line) < minRecommendationLength {
		return "", false
	}
	switch line[len(line)-1] {
	case '.', '!', '?':
		return line, true
	}
	return "", false
}
