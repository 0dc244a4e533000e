package site

import (
	"path"
	"strings"
)

type RouteKind string

const (
	RouteIndex     RouteKind = "index"
	RouteBlogIndex RouteKind = "blog"
	RoutePost      RouteKind = "post"
	RouteTag       RouteKind = "tag"
	RouteTags      RouteKind = "tags"
	RouteCategory  RouteKind = "category"
	RouteNotFound  RouteKind = "404"
)

type Route struct {
	Kind    RouteKind
	Slug    string
	Key     string
	OutPath string
}

// URL is the site-relative URL the route is served at.
func (r Route) URL() string {
	switch r.Kind {
	case RouteIndex:
		return "/"
	case RouteBlogIndex:
		return "/blog"
	case RoutePost:
		return "/blog/" + r.Slug
	case RouteTag:
		return "/tags/" + PathSegment(r.Key)
	case RouteTags:
		return "/tags"
	case RouteCategory:
		return "/categories/" + PathSegment(r.Key)
	case RouteNotFound:
		return "/404.html"
	}
	return path.Join("/", r.OutPath)
}

func (r Route) String() string {
	var parts []string
	parts = append(parts, string(r.Kind))
	if r.Slug != "" {
		parts = append(parts, "slug="+r.Slug)
	}
	if r.Key != "" {
		parts = append(parts, "key="+r.Key)
	}
	if r.OutPath != "" {
		parts = append(parts, "out="+r.OutPath)
	}
	return strings.Join(parts, " ")
}

// PathSegment maps a tag or category name to a lower-case URL segment.
func PathSegment(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "untitled"
	}
	repl := func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		default:
			return '-'
		}
	}
	return strings.Map(repl, s)
}

func (k RouteKind) Valid() bool {
	switch k {
	case RouteIndex, RouteBlogIndex, RoutePost, RouteTag, RouteTags, RouteCategory, RouteNotFound:
		return true
	}
	return false
}
