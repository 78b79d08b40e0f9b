package strings

import "strings"

// like strings.Split(s, sep), but return empty slice when s == ""
func SplitIfNotEmpty(s string, sep string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, sep)
}

// SplitTrimmed splits s with sep, trims each item and drops empty ones.
//
// example:
//
//	SplitTrimmed(" a,, b ", ",")  // -> ["a", "b"]
func SplitTrimmed(s string, sep string) []string {
	ret := []string{}
	for _, item := range SplitIfNotEmpty(s, sep) {
		if item = strings.TrimSpace(item); item != "" {
			ret = append(ret, item)
		}
	}
	return ret
}
