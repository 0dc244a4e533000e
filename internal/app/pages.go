// Package app assembles site pages from the content store. The HTTP
// server and the static export both render through it.
package app

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"aiblog/internal/blog"
	"aiblog/internal/domain/config"
	"aiblog/internal/domain/content"
	"aiblog/internal/domain/site"
	"aiblog/internal/render"
)

// ErrNoPage is returned when a route names a post, tag or category that
// does not exist.
var ErrNoPage = errors.New("page not found")

const (
	homeFeatured = 3
	homeBreaking = 3
	homeLatest   = 20
	relatedPosts = 3
)

type Pages struct {
	Site       config.SiteConfig
	Store      *blog.Store
	Markdown   *render.MarkdownRenderer
	Templates  render.Renderer
	LiveReload bool
}

func NewPages(siteCfg config.SiteConfig, store *blog.Store, tpl render.Renderer) *Pages {
	return &Pages{
		Site:      siteCfg,
		Store:     store,
		Markdown:  render.NewMarkdownRenderer(),
		Templates: tpl,
	}
}

func (p *Pages) chrome(title string) render.Chrome {
	return render.Chrome{Site: p.Site, Title: title, LiveReload: p.LiveReload}
}

// Render produces the HTML for one route.
func (p *Pages) Render(ctx context.Context, r site.Route) ([]byte, error) {
	switch r.Kind {
	case site.RouteIndex:
		return p.Home(ctx)
	case site.RouteBlogIndex:
		return p.BlogIndex(ctx)
	case site.RoutePost:
		return p.Post(ctx, r.Slug)
	case site.RouteTags:
		return p.Tags(ctx)
	case site.RouteTag:
		return p.Tag(ctx, r.Key)
	case site.RouteCategory:
		return p.Category(ctx, r.Key)
	case site.RouteNotFound:
		return p.NotFound(ctx, "")
	}
	return nil, fmt.Errorf("unknown route kind %q", r.Kind)
}

func (p *Pages) Home(ctx context.Context) ([]byte, error) {
	return p.Templates.RenderHome(ctx, render.HomePage{
		Chrome:   p.chrome(""),
		Featured: p.Store.Featured(homeFeatured),
		Breaking: p.Store.Breaking(homeBreaking),
		Latest:   p.Store.Latest(homeLatest),
		Tags:     p.Store.Tags(),
	})
}

// RenderBody converts a post body to HTML.
func (p *Pages) RenderBody(post content.Post) (render.MarkdownResult, error) {
	res, err := p.Markdown.RenderString(post.Content)
	if err != nil {
		return render.MarkdownResult{}, fmt.Errorf("markdown render(%s): %w", post.Slug, err)
	}
	return res, nil
}

func (p *Pages) Post(ctx context.Context, slug string) ([]byte, error) {
	post, ok := p.Store.Get(slug)
	if !ok {
		return nil, ErrNoPage
	}
	md, err := p.RenderBody(post)
	if err != nil {
		return nil, err
	}
	return p.Templates.RenderPost(ctx, render.PostPage{
		Chrome:  p.chrome(post.Title),
		Post:    post,
		HTML:    template.HTML(md.HTML),
		TOC:     md.Headings,
		Related: p.related(post),
	})
}

// related is the newest posts sharing the category, excluding post.
func (p *Pages) related(post content.Post) []content.Post {
	var out []content.Post
	for _, q := range p.Store.ByCategory(post.Category) {
		if q.Slug == post.Slug {
			continue
		}
		out = append(out, q)
		if len(out) == relatedPosts {
			break
		}
	}
	return out
}

// BlogIndex lists every post, newest first. An empty store still renders.
func (p *Pages) BlogIndex(ctx context.Context) ([]byte, error) {
	return p.Templates.RenderList(ctx, render.ListPage{
		Chrome:  p.chrome("All posts"),
		Heading: "All posts",
		Items:   p.Store.List(),
	})
}

func (p *Pages) Tags(ctx context.Context) ([]byte, error) {
	return p.Templates.RenderTagsPage(ctx, render.TagsPage{
		Chrome:     p.chrome("Tags"),
		Tags:       p.Store.Tags(),
		Categories: p.Store.Categories(),
	})
}

// Tag accepts either the tag name or its URL segment.
func (p *Pages) Tag(ctx context.Context, key string) ([]byte, error) {
	name := p.ResolveTag(key)
	items := p.Store.ByTag(name)
	if len(items) == 0 {
		return nil, ErrNoPage
	}
	return p.Templates.RenderList(ctx, render.ListPage{
		Chrome:  p.chrome("Tag: " + name),
		Heading: "Posts tagged " + name,
		Items:   items,
		Tag:     name,
	})
}

func (p *Pages) Category(ctx context.Context, key string) ([]byte, error) {
	name := p.ResolveCategory(key)
	items := p.Store.ByCategory(name)
	if len(items) == 0 {
		return nil, ErrNoPage
	}
	return p.Templates.RenderList(ctx, render.ListPage{
		Chrome:   p.chrome("Category: " + name),
		Heading:  name,
		Items:    items,
		Category: name,
	})
}

func (p *Pages) NotFound(ctx context.Context, path string) ([]byte, error) {
	return p.Templates.RenderNotFound(ctx, render.NotFoundPage{
		Chrome: p.chrome("Not found"),
		Path:   path,
	})
}

// ResolveTag maps a URL segment back to the tag it was made from.
func (p *Pages) ResolveTag(key string) string {
	for _, t := range p.Store.Tags() {
		if strings.EqualFold(t.Name, key) || site.PathSegment(t.Name) == key {
			return t.Name
		}
	}
	return key
}

func (p *Pages) ResolveCategory(key string) string {
	for _, c := range p.Store.Categories() {
		if strings.EqualFold(c.Name, key) || site.PathSegment(c.Name) == key {
			return c.Name
		}
	}
	return key
}
