// Package publish commits generated files to a remote repository.
package publish

import "context"

// Commit identifies the commit a publish produced.
type Commit struct {
	SHA string
}

type Publisher interface {
	Publish(ctx context.Context, path string, data []byte, message string) (Commit, error)
}
