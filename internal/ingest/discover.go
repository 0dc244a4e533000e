package ingest

import (
	"os"
	"path/filepath"
	"strings"
)

type SourceFile struct {
	Path string
	Slug string
}

// DiscoverSource lists the regular files directly inside dir whose name
// ends in ext. Subdirectories are not walked. Order follows os.ReadDir
// (sorted by file name).
func DiscoverSource(dir, ext string) ([]SourceFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []SourceFile
	for _, d := range entries {
		if !d.Type().IsRegular() {
			continue
		}
		name := d.Name()
		if !strings.HasSuffix(name, ext) || len(name) == len(ext) {
			continue
		}
		out = append(out, SourceFile{
			Path: filepath.Join(dir, name),
			Slug: SlugFromFilename(name, ext),
		})
	}
	return out, nil
}

// SlugFromFilename is the file name with the content extension removed.
func SlugFromFilename(name, ext string) string {
	return strings.TrimSuffix(filepath.Base(name), ext)
}

// ValidSlug rejects slugs that would resolve outside the content directory.
func ValidSlug(slug string) bool {
	if strings.TrimSpace(slug) == "" {
		return false
	}
	if strings.ContainsAny(slug, `/\`) || strings.Contains(slug, "..") {
		return false
	}
	return slug != "."
}
