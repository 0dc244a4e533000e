package content

import (
	"strings"
	"time"
)

const (
	DefaultTitle    = "Untitled"
	DefaultCategory = "General"
	DateLayout      = time.DateOnly
)

// Post is one parsed article: front matter plus body.
type Post struct {
	Slug     string   `json:"slug"`
	Title    string   `json:"title"`
	Date     string   `json:"date"`
	Excerpt  string   `json:"excerpt"`
	Content  string   `json:"content,omitempty"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`

	HeroImage string  `json:"heroImage,omitempty"`
	Featured  bool    `json:"featured"`
	Breaking  bool    `json:"breaking"`
	Priority  float64 `json:"priority"`

	// written by the generation pipeline
	Description string `json:"description,omitempty"`
	ReadTime    int    `json:"readTime,omitempty"`
	PubDate     string `json:"pubDate,omitempty"`

	// Time is Date parsed as a calendar date; zero when Date is not a date.
	Time time.Time `json:"-"`
}

type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// HasTag reports whether any tag equals tag, ignoring case.
func (p Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// ApplyDefaults fills the fields that are absent from front matter.
func (p *Post) ApplyDefaults(now time.Time) {
	p.Title = strings.TrimSpace(p.Title)
	p.Category = strings.TrimSpace(p.Category)
	if p.Title == "" {
		p.Title = DefaultTitle
	}
	if p.Category == "" {
		p.Category = DefaultCategory
	}
	if strings.TrimSpace(p.Date) == "" {
		p.Date = now.Format(DateLayout)
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
}
