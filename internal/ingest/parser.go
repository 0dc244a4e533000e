package ingest

import (
	"bytes"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"aiblog/internal/domain/content"
)

var yamlFormat = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

// FrontMatter is the metadata block of a content file. Every field is
// coerced at decode time so malformed values degrade to defaults instead
// of failing the whole file.
type FrontMatter struct {
	Title       scalar     `yaml:"title"`
	Date        scalar     `yaml:"date"`
	Excerpt     scalar     `yaml:"excerpt"`
	Description scalar     `yaml:"description"`
	Category    scalar     `yaml:"category"`
	Tags        stringList `yaml:"tags"`
	HeroImage   scalar     `yaml:"heroImage"`
	Featured    flexBool   `yaml:"featured"`
	Breaking    flexBool   `yaml:"breaking"`
	Priority    flexNumber `yaml:"priority"`
	ReadTime    flexNumber `yaml:"readTime"`
	Slug        scalar     `yaml:"slug"`
	PubDate     scalar     `yaml:"pubDate"`
}

// ParseFrontMatter splits raw into metadata and body. Files without a
// metadata block yield an empty FrontMatter and the whole input as body.
func ParseFrontMatter(raw []byte) (FrontMatter, []byte, error) {
	// normalise line endings
	norm := bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))

	var fm FrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(norm), &fm, yamlFormat)
	if err != nil {
		return FrontMatter{}, nil, err
	}
	return fm, body, nil
}

// ParsePost parses one content file into a Post with defaults applied.
func ParsePost(raw []byte, slug string, now time.Time) (content.Post, error) {
	fm, body, err := ParseFrontMatter(raw)
	if err != nil {
		return content.Post{}, err
	}

	p := content.Post{
		Slug:        slug,
		Title:       string(fm.Title),
		Excerpt:     string(fm.Excerpt),
		Description: string(fm.Description),
		Content:     strings.TrimLeft(string(body), "\n"),
		Category:    string(fm.Category),
		Tags:        []string(fm.Tags),
		HeroImage:   string(fm.HeroImage),
		Featured:    bool(fm.Featured),
		Breaking:    bool(fm.Breaking),
		Priority:    float64(fm.Priority),
		ReadTime:    int(math.Round(float64(fm.ReadTime))),
		PubDate:     string(fm.PubDate),
	}
	p.Date, p.Time = NormalizeDate(string(fm.Date))
	p.ApplyDefaults(now)
	if p.Time.IsZero() {
		_, p.Time = NormalizeDate(p.Date)
	}
	return p, nil
}

var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04",
	time.DateTime,
	"2006/01/02",
	"Jan 02, 2006",
	"January 2, 2006",
}

// NormalizeDate parses s as a calendar date. Parseable values come back
// as YYYY-MM-DD so that string order equals date order; anything else is
// returned trimmed with a zero time.
func NormalizeDate(s string) (string, time.Time) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			y, m, d := t.Date()
			day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
			return day.Format(content.DateLayout), day
		}
	}
	return s, time.Time{}
}

// scalar takes the literal text of any scalar node; sequences and maps
// decode to "".
type scalar string

func (s *scalar) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode || n.Tag == "!!null" {
		*s = ""
		return nil
	}
	*s = scalar(strings.TrimSpace(n.Value))
	return nil
}

// stringList accepts a sequence of scalars or a comma separated scalar.
type stringList []string

func (l *stringList) UnmarshalYAML(n *yaml.Node) error {
	var out []string
	switch n.Kind {
	case yaml.SequenceNode:
		for _, c := range n.Content {
			if c.Kind != yaml.ScalarNode || c.Tag == "!!null" {
				continue
			}
			if v := strings.TrimSpace(c.Value); v != "" {
				out = append(out, v)
			}
		}
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			break
		}
		for _, part := range strings.Split(n.Value, ",") {
			if v := strings.TrimSpace(part); v != "" {
				out = append(out, v)
			}
		}
	}
	*l = out
	return nil
}

type flexBool bool

func (b *flexBool) UnmarshalYAML(n *yaml.Node) error {
	*b = false
	if n.Kind != yaml.ScalarNode {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(n.Value)) {
	case "true", "yes", "on", "1":
		*b = true
	}
	return nil
}

type flexNumber float64

func (f *flexNumber) UnmarshalYAML(n *yaml.Node) error {
	*f = 0
	if n.Kind != yaml.ScalarNode {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(n.Value), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	*f = flexNumber(v)
	return nil
}
