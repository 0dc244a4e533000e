package blog

import (
	"strings"

	"aiblog/internal/domain/content"
)

type SearchField string

const (
	FieldTitle    SearchField = "title"
	FieldExcerpt  SearchField = "excerpt"
	FieldTags     SearchField = "tags"
	FieldCategory SearchField = "category"
	FieldSlug     SearchField = "slug"
	FieldContent  SearchField = "content"
)

// Title, excerpt and tags are always searched.
var baseSearchFields = []SearchField{FieldTitle, FieldExcerpt, FieldTags}

var DefaultSearchFields = []SearchField{FieldTitle, FieldExcerpt, FieldCategory, FieldTags}

type SearchOptions struct {
	Fields []SearchField
	// Limit caps the result; zero or negative means no cap.
	Limit int
}

// ParseSearchFields maps config names to fields, ignoring unknown names.
func ParseSearchFields(names []string) []SearchField {
	var out []SearchField
	for _, n := range names {
		f := SearchField(strings.ToLower(strings.TrimSpace(n)))
		switch f {
		case FieldTitle, FieldExcerpt, FieldTags, FieldCategory, FieldSlug, FieldContent:
			out = append(out, f)
		}
	}
	return out
}

// Search is a case-insensitive substring match over the selected fields.
// A blank query matches nothing.
func (s *Store) Search(query string, opt SearchOptions) []content.Post {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []content.Post{}
	}
	fields := make(map[SearchField]bool)
	for _, f := range baseSearchFields {
		fields[f] = true
	}
	sel := opt.Fields
	if len(sel) == 0 {
		sel = DefaultSearchFields
	}
	for _, f := range sel {
		fields[f] = true
	}

	out := filter(s.List(), func(p content.Post) bool {
		return matches(p, q, fields)
	})
	if opt.Limit > 0 {
		return head(out, opt.Limit)
	}
	return out
}

func matches(p content.Post, q string, fields map[SearchField]bool) bool {
	has := func(v string) bool { return strings.Contains(strings.ToLower(v), q) }
	if fields[FieldTitle] && has(p.Title) {
		return true
	}
	if fields[FieldExcerpt] && has(p.Excerpt) {
		return true
	}
	if fields[FieldCategory] && has(p.Category) {
		return true
	}
	if fields[FieldSlug] && has(p.Slug) {
		return true
	}
	if fields[FieldTags] {
		for _, t := range p.Tags {
			if has(t) {
				return true
			}
		}
	}
	return fields[FieldContent] && has(p.Content)
}
