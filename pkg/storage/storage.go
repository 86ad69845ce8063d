// Package storage abstracts the object store holding base model and adapter
// artifacts. The serving host syncs these prefixes to local disk before the
// launcher starts.
package storage

import (
	"context"
	"io"
	"time"
)

type Content struct {
	ContentType   string
	ContentLength int64
	Content       io.ReadCloser
}

func (c Content) Close() error {
	if c.Content != nil {
		return c.Content.Close()
	}
	return nil
}

func (c Content) Read(p []byte) (int, error) {
	return c.Content.Read(p)
}

type ObjectMeta struct {
	Name         string
	Size         int64
	LastModified time.Time
	ContentType  string
}

type Provider interface {
	Put(ctx context.Context, path string, content Content) error
	Get(ctx context.Context, path string) (*Content, error)
	Exists(ctx context.Context, path string) (bool, error)
	Stat(ctx context.Context, path string) (ObjectMeta, error)
	// List returns objects under path. Non recursive listing stops at the
	// first delimiter, so nested objects show up only through ListDirs.
	List(ctx context.Context, path string, recursive bool) ([]ObjectMeta, error)
	// ListDirs returns the leaf names of the immediate child "directories"
	// under path. Plain sibling objects (such as a manifest file stored next
	// to the adapter directories) are not included.
	ListDirs(ctx context.Context, path string) ([]string, error)
	Remove(ctx context.Context, path string, recursive bool) error
}
