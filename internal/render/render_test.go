package render

import (
	"context"
	"html/template"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aiblog/internal/domain/config"
	"aiblog/internal/domain/content"
)

func TestMarkdownHeadings(t *testing.T) {
	res, err := NewMarkdownRenderer().RenderString("# Top *story*\n\ntext\n\n## Markets\n\n| a | b |\n|---|---|\n| 1 | 2 |\n")
	require.NoError(t, err)

	require.Len(t, res.Headings, 2)
	assert.Equal(t, Heading{Level: 1, ID: "top-story", Text: "Top story"}, res.Headings[0])
	assert.Equal(t, 2, res.Headings[1].Level)
	assert.Contains(t, string(res.HTML), "<table>")
}

func TestMarkdownDropsRawHTML(t *testing.T) {
	res, err := NewMarkdownRenderer().RenderString("hi <script>alert(1)</script>")
	require.NoError(t, err)
	assert.NotContains(t, string(res.HTML), "<script>")
}

func TestTemplatesRenderEveryPage(t *testing.T) {
	r, err := NewTemplateRenderer("")
	require.NoError(t, err)
	ctx := context.Background()
	chrome := Chrome{Site: config.SiteConfig{Title: "AI News"}, Title: "T", LiveReload: true}
	post := content.Post{Slug: "s", Title: "Story", Date: "2024-06-01", Category: "AI", Tags: []string{"Deep Tech"}, ReadTime: 4}

	out, err := r.RenderHome(ctx, HomePage{Chrome: chrome, Latest: []content.Post{post}})
	require.NoError(t, err)
	assert.Contains(t, string(out), `href="/blog/s"`)
	assert.Contains(t, string(out), `href="/tags/deep-tech"`)
	assert.Contains(t, string(out), "EventSource")

	out, err = r.RenderPost(ctx, PostPage{Chrome: chrome, Post: post, HTML: template.HTML("<p>body</p>")})
	require.NoError(t, err)
	assert.Contains(t, string(out), "<p>body</p>")
	assert.Contains(t, string(out), "4 min read")

	out, err = r.RenderList(ctx, ListPage{Chrome: chrome, Heading: "Posts tagged AI"})
	require.NoError(t, err)
	assert.Contains(t, string(out), "Nothing here yet.")

	out, err = r.RenderTagsPage(ctx, TagsPage{Chrome: chrome, Tags: []content.TagCount{{Name: "AI", Count: 2}}})
	require.NoError(t, err)
	assert.Contains(t, string(out), "AI (2)")

	out, err = r.RenderNotFound(ctx, NotFoundPage{Chrome: chrome, Path: "/nope"})
	require.NoError(t, err)
	assert.Contains(t, string(out), "<code>/nope</code>")
}

func TestCardShowsDescriptionWhenNoExcerpt(t *testing.T) {
	r, err := NewTemplateRenderer("")
	require.NoError(t, err)
	items := []content.Post{
		{Slug: "a", Title: "A", Description: "only a description"},
		{Slug: "b", Title: "B", Excerpt: "the excerpt", Description: "unused"},
	}
	out, err := r.RenderList(context.Background(), ListPage{Heading: "All", Items: items})
	require.NoError(t, err)
	assert.Contains(t, string(out), "<p>only a description</p>")
	assert.Contains(t, string(out), "<p>the excerpt</p>")
	assert.NotContains(t, string(out), "unused")
}

func TestThemeOverridesOneTemplate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "list.tmpl"), []byte(`custom {{.Heading}}`), 0o644))

	r, err := NewTemplateRenderer(dir)
	require.NoError(t, err)
	out, err := r.RenderList(context.Background(), ListPage{Heading: "x"})
	require.NoError(t, err)
	assert.Equal(t, "custom x", string(out))

	assert.Error(t, CheckThemeTemplates(dir))
}
