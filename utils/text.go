package utils

import (
	"regexp"
	"strings"
)

var hashtagPattern = regexp.MustCompile(`#[\p{L}\p{N}_]+`)

// ExtractHashtags pulls hashtags out of a caption, leading '#' included,
// deduplicated in first-seen order.
func ExtractHashtags(caption string) []string {
	matches := hashtagPattern.FindAllString(caption, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	tags := make([]string, 0, len(matches))
	for _, tag := range matches {
		lower := strings.ToLower(tag)
		if seen[lower] {
			continue
		}
		seen[lower] = true
		tags = append(tags, tag)
	}
	return tags
}
