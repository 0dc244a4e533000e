package render

import (
	"html/template"

	"aiblog/internal/domain/config"
	"aiblog/internal/domain/content"
)

type Heading struct {
	Level int
	ID    string
	Text  string
}

// Chrome is shared by every page.
type Chrome struct {
	Site  config.SiteConfig
	Title string
	// LiveReload injects the dev event listener.
	LiveReload bool
}

type HomePage struct {
	Chrome
	Featured []content.Post
	Breaking []content.Post
	Latest   []content.Post
	Tags     []content.TagCount
}

type PostPage struct {
	Chrome
	Post    content.Post
	HTML    template.HTML
	TOC     []Heading
	Related []content.Post
}

type ListPage struct {
	Chrome
	Heading  string
	Items    []content.Post
	Tag      string
	Category string
}

type TagsPage struct {
	Chrome
	Tags       []content.TagCount
	Categories []content.CategoryCount
}

type NotFoundPage struct {
	Chrome
	Path string
}
