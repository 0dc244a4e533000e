package generate

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

const maxNameAttempts = 1000

// frontMatter is written in field order.
type frontMatter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Date        string   `yaml:"date"`
	Category    string   `yaml:"category"`
	Tags        []string `yaml:"tags"`
	ReadTime    int      `yaml:"readTime"`
	Slug        string   `yaml:"slug"`
	PubDate     string   `yaml:"pubDate"`
	HeroImage   string   `yaml:"heroImage"`
}

// renderDocument produces the complete file: front matter, a blank line,
// the hero image reference and the body.
func renderDocument(fm frontMatter, body string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	buf.WriteString("---\n\n")
	fmt.Fprintf(&buf, "![%s](%s)\n\n", fm.Title, fm.HeroImage)
	buf.WriteString(body)
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

// reserveFile creates dir/base+ext, or dir/base-N+ext for the first free
// N >= 2, and returns the open file and its stem.
func reserveFile(dir, base, ext string) (*os.File, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, base, err
	}
	for n := 1; n <= maxNameAttempts; n++ {
		stem := base
		if n > 1 {
			stem = base + "-" + strconv.Itoa(n)
		}
		f, err := os.OpenFile(filepath.Join(dir, stem+ext), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, stem, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, stem, err
		}
	}
	return nil, base, fmt.Errorf("no free file name for %s after %d attempts", base, maxNameAttempts)
}

// stemFor picks the file stem without creating anything, used when the
// directory is not writable so the remote copy still gets a name.
func stemFor(dir, base, ext string) string {
	for n := 1; n <= maxNameAttempts; n++ {
		stem := base
		if n > 1 {
			stem = base + "-" + strconv.Itoa(n)
		}
		if _, err := os.Stat(filepath.Join(dir, stem+ext)); err != nil {
			return stem
		}
	}
	return base
}
