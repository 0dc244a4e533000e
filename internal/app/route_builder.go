package app

import (
	"path/filepath"

	"aiblog/internal/blog"
	"aiblog/internal/domain/content"
	"aiblog/internal/domain/site"
)

// RouteBuilder lists every page the site has, with the file each one is
// exported to.
type RouteBuilder struct {
	Store *blog.Store
}

func (rb *RouteBuilder) BuildPostRoutes(posts []content.Post) []site.Route {
	routes := make([]site.Route, 0, len(posts))
	for _, p := range posts {
		routes = append(routes, site.Route{
			Kind:    site.RoutePost,
			Slug:    p.Slug,
			OutPath: filepath.Join("blog", p.Slug, "index.html"),
		})
	}
	return routes
}

func (rb *RouteBuilder) BuildTagRoutes() []site.Route {
	tags := rb.Store.Tags()
	routes := make([]site.Route, 0, len(tags)+1)
	routes = append(routes, site.Route{Kind: site.RouteTags, OutPath: filepath.Join("tags", "index.html")})
	seen := make(map[string]bool)
	for _, t := range tags {
		seg := site.PathSegment(t.Name)
		// tags differing only in case share a page
		if seen[seg] {
			continue
		}
		seen[seg] = true
		routes = append(routes, site.Route{
			Kind:    site.RouteTag,
			Key:     t.Name,
			OutPath: filepath.Join("tags", seg, "index.html"),
		})
	}
	return routes
}

func (rb *RouteBuilder) BuildCategoryRoutes() []site.Route {
	cats := rb.Store.Categories()
	routes := make([]site.Route, 0, len(cats))
	seen := make(map[string]bool)
	for _, c := range cats {
		seg := site.PathSegment(c.Name)
		if seen[seg] {
			continue
		}
		seen[seg] = true
		routes = append(routes, site.Route{
			Kind:    site.RouteCategory,
			Key:     c.Name,
			OutPath: filepath.Join("categories", seg, "index.html"),
		})
	}
	return routes
}

// BuildAll returns the full route set: home, the all-posts listing, posts,
// tags, categories and the not-found page.
func (rb *RouteBuilder) BuildAll() []site.Route {
	routes := []site.Route{
		{Kind: site.RouteIndex, OutPath: "index.html"},
		{Kind: site.RouteBlogIndex, OutPath: filepath.Join("blog", "index.html")},
	}
	routes = append(routes, rb.BuildPostRoutes(rb.Store.List())...)
	routes = append(routes, rb.BuildTagRoutes()...)
	routes = append(routes, rb.BuildCategoryRoutes()...)
	routes = append(routes, site.Route{Kind: site.RouteNotFound, OutPath: "404.html"})
	return routes
}
