package chitfund

import (
	"strings"
)

// ParseMemberIDs splits a comma separated list, dropping blanks and repeats.
func ParseMemberIDs(list string) []string {
	seen := make(map[string]struct{})
	ids := []string{}
	for _, part := range strings.Split(list, ",") {
		id := strings.TrimSpace(part)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
