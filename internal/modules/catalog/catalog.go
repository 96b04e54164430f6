package catalog

import (
	"strings"

	types "github.com/yungbote/mathstep-backend/internal/domain"
)

// Filter holds the landing page search state: a free-text term and the set
// of active tags.
type Filter struct {
	Term string
	Tags []string
}

// AllTags returns every tag across courses once, in first-seen order.
func AllTags(courses []*types.Course) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, c := range courses {
		if c == nil {
			continue
		}
		for _, name := range c.TagNames() {
			if seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

// ToggleTag adds tag to the active set, or removes it when already present.
func (f Filter) ToggleTag(tag string) Filter {
	next := make([]string, 0, len(f.Tags)+1)
	found := false
	for _, t := range f.Tags {
		if t == tag {
			found = true
			continue
		}
		next = append(next, t)
	}
	if !found {
		next = append(next, tag)
	}
	return Filter{Term: f.Term, Tags: next}
}

func (f Filter) Clear() Filter { return Filter{} }

func (f Filter) IsEmpty() bool {
	return f.Term == "" && len(f.Tags) == 0
}

// Matches reports whether the course title or description contains the term
// (case-insensitive) and the course carries every active tag.
func (f Filter) Matches(c *types.Course) bool {
	if c == nil {
		return false
	}
	term := strings.ToLower(f.Term)
	if term != "" &&
		!strings.Contains(strings.ToLower(c.Title), term) &&
		!strings.Contains(strings.ToLower(c.Description), term) {
		return false
	}
	if len(f.Tags) == 0 {
		return true
	}
	have := map[string]bool{}
	for _, name := range c.TagNames() {
		have[name] = true
	}
	for _, t := range f.Tags {
		if !have[t] {
			return false
		}
	}
	return true
}

// Apply keeps the matching courses in their original order.
func (f Filter) Apply(courses []*types.Course) []*types.Course {
	out := make([]*types.Course, 0, len(courses))
	for _, c := range courses {
		if f.Matches(c) {
			out = append(out, c)
		}
	}
	return out
}
