package utils

import "strings"

// JoinList encodes a list field for storage as a comma-joined string.
// Items are trimmed and empty items dropped.
func JoinList(items []string) string {
	kept := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			kept = append(kept, item)
		}
	}
	return strings.Join(kept, ",")
}

// SplitList decodes a stored comma-joined list. The empty string decodes to an empty list.
func SplitList(stored string) []string {
	items := []string{}
	for _, item := range strings.Split(stored, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
