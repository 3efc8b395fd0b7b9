package normalizer

import "strings"

// Classify returns every detection key whose alias pattern matches the
// label, in vocabulary declaration order. A label may match zero, one or
// several keys.
func Classify(label string) []Key {
	low := strings.ToLower(strings.TrimSpace(label))
	if low == "" {
		return nil
	}
	var keys []Key
	for _, rule := range vocabulary {
		if rule.pattern.MatchString(low) {
			keys = append(keys, rule.key)
		}
	}
	return keys
}

// matchesAny reports whether the label looks like any known header.
// Used for header-row scoring, where only "matches something" counts.
func matchesAny(label string) bool {
	low := strings.ToLower(strings.TrimSpace(label))
	if low == "" {
		return false
	}
	for _, rule := range vocabulary {
		if rule.pattern.MatchString(low) {
			return true
		}
	}
	return false
}
