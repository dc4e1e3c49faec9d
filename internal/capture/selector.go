package capture

import (
	"strconv"
	"strings"
)

func normalizeSelector(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func parseIndexSelector(s string) (int, bool) {
	s = strings.TrimPrefix(s, "#")
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return idx, true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}
