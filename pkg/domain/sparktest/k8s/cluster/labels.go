package cluster

import (
	"sort"
	"strings"
)

// LabelSelector is an equality-based k8s label selector.
//
// see: https://kubernetes.io/docs/concepts/overview/working-with-objects/labels/#equality-based-requirement
type LabelSelector map[string]string

// QueryString converts the selector into the form of query string,
// like "app=sparktest,job-name=foo".
//
// Labels are sorted by key.
func (ls LabelSelector) QueryString() string {
	if len(ls) == 0 {
		return ""
	}

	keys := make([]string, 0, len(ls))
	for k := range ls {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b := &strings.Builder{}
	for i, k := range keys {
		if 0 < i {
			b.WriteRune(',')
		}
		b.WriteString(k)
		b.WriteRune('=')
		b.WriteString(ls[k])
	}
	return b.String()
}

func (ls LabelSelector) Equal(other LabelSelector) bool {
	if len(ls) != len(other) {
		return false
	}
	for k, v := range ls {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}
