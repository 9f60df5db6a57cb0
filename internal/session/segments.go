package session

import "strings"

// SplitBlock breaks an edited text block into segments, one per non-blank
// line. Surrounding whitespace is trimmed from each line.
func SplitBlock(text string) []string {
	segments := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		segments = append(segments, line)
	}
	return segments
}

// Dedupe removes duplicate and blank segments, keeping the first occurrence
// of each distinct value in its original order.
func Dedupe(segments []string) []string {
	seen := make(map[string]struct{}, len(segments))
	unique := []string{}
	for _, segment := range segments {
		trimmed := strings.TrimSpace(segment)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		unique = append(unique, trimmed)
	}
	return unique
}
