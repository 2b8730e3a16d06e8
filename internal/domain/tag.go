package domain

import (
	"slices"
	"strings"
)

// Tag is a task label, unique by its normalized name.
type Tag struct {
	Name string
}

func NewTag(name string) (Tag, error) {
	name = normalizeTagName(name)
	if name == "" {
		return Tag{}, ErrInvalidTag
	}
	return Tag{Name: name}, nil
}

// NormalizeTags drops blanks and duplicates and sorts the result.
func NormalizeTags(names []string) []Tag {
	out := make([]Tag, 0, len(names))
	seen := map[string]struct{}{}
	for _, raw := range names {
		name := normalizeTagName(raw)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, Tag{Name: name})
	}
	slices.SortFunc(out, compareTags)
	return out
}

func normalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func compareTags(a, b Tag) int {
	return strings.Compare(a.Name, b.Name)
}
