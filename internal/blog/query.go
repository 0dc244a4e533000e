package blog

import (
	"sort"
	"strings"
	"time"

	"aiblog/internal/domain/content"
)

// RecentWindow is how far back Recent looks.
const RecentWindow = 7 * 24 * time.Hour

func head(posts []content.Post, n int) []content.Post {
	if n <= 0 {
		return []content.Post{}
	}
	if n > len(posts) {
		n = len(posts)
	}
	return posts[:n]
}

func filter(posts []content.Post, keep func(content.Post) bool) []content.Post {
	out := make([]content.Post, 0, len(posts))
	for _, p := range posts {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) Latest(n int) []content.Post {
	return head(s.List(), n)
}

// Featured returns up to n featured records. With fewer than n featured
// records it falls back to the n most recent records overall, which may
// include featured ones.
func (s *Store) Featured(n int) []content.Post {
	all := s.List()
	featured := filter(all, func(p content.Post) bool { return p.Featured })
	if len(featured) < n {
		return head(all, n)
	}
	return head(featured, n)
}

// Breaking returns up to n breaking records, or the n most recent when
// none are flagged.
func (s *Store) Breaking(n int) []content.Post {
	all := s.List()
	breaking := filter(all, func(p content.Post) bool { return p.Breaking })
	if len(breaking) == 0 {
		return head(all, n)
	}
	return head(breaking, n)
}

// Recent returns up to n records dated within RecentWindow of now. When
// none qualify the whole list is used instead.
func (s *Store) Recent(n int) []content.Post {
	all := s.List()
	cutoff := s.now().Add(-RecentWindow)
	recent := filter(all, func(p content.Post) bool {
		return !p.Time.IsZero() && !p.Time.Before(cutoff)
	})
	if len(recent) == 0 {
		recent = all
	}
	return head(recent, n)
}

func (s *Store) ByTag(tag string) []content.Post {
	return filter(s.List(), func(p content.Post) bool { return p.HasTag(tag) })
}

func (s *Store) ByCategory(category string) []content.Post {
	return filter(s.List(), func(p content.Post) bool {
		return strings.EqualFold(p.Category, category)
	})
}

// Tags counts tag occurrences across all records, highest count first.
// Equal counts keep first-seen order.
func (s *Store) Tags() []content.TagCount {
	var out []content.TagCount
	pos := make(map[string]int)
	for _, p := range s.List() {
		for _, t := range p.Tags {
			if i, ok := pos[t]; ok {
				out[i].Count++
				continue
			}
			pos[t] = len(out)
			out = append(out, content.TagCount{Name: t, Count: 1})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if out == nil {
		out = []content.TagCount{}
	}
	return out
}

// Categories is the category histogram, same ordering rules as Tags.
func (s *Store) Categories() []content.CategoryCount {
	var out []content.CategoryCount
	pos := make(map[string]int)
	for _, p := range s.List() {
		if i, ok := pos[p.Category]; ok {
			out[i].Count++
			continue
		}
		pos[p.Category] = len(out)
		out = append(out, content.CategoryCount{Name: p.Category, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if out == nil {
		out = []content.CategoryCount{}
	}
	return out
}
