package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryProvider keeps objects in a map. It backs unit tests and carries the
// same delimiter semantics as the S3 provider.
type MemoryProvider struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	data        []byte
	contentType string
	modified    time.Time
}

var _ Provider = &MemoryProvider{}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{objects: map[string]memoryObject{}}
}

func (m *MemoryProvider) Put(ctx context.Context, path string, content Content) error {
	data, err := io.ReadAll(content.Content)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[path] = memoryObject{data: data, contentType: content.ContentType, modified: time.Now()}
	return nil
}

func (m *MemoryProvider) Get(ctx context.Context, path string) (*Content, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return &Content{
		Content:       io.NopCloser(bytes.NewReader(obj.data)),
		ContentType:   obj.contentType,
		ContentLength: int64(len(obj.data)),
	}, nil
}

func (m *MemoryProvider) Exists(ctx context.Context, path string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[path]
	return ok, nil
}

func (m *MemoryProvider) Stat(ctx context.Context, path string) (ObjectMeta, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[path]
	if !ok {
		return ObjectMeta{}, os.ErrNotExist
	}
	return ObjectMeta{Name: path, Size: int64(len(obj.data)), LastModified: obj.modified, ContentType: obj.contentType}, nil
}

func (m *MemoryProvider) List(ctx context.Context, path string, recursive bool) ([]ObjectMeta, error) {
	prefix := normalizePrefix(path)
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []ObjectMeta
	for key, obj := range m.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		rest := strings.TrimPrefix(key, prefix)
		if !recursive && strings.Contains(rest, "/") {
			continue
		}
		result = append(result, ObjectMeta{Name: rest, Size: int64(len(obj.data)), LastModified: obj.modified})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *MemoryProvider) ListDirs(ctx context.Context, path string) ([]string, error) {
	prefix := normalizePrefix(path)
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := map[string]struct{}{}
	for key := range m.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		rest := strings.TrimPrefix(key, prefix)
		leaf, _, found := strings.Cut(rest, "/")
		if !found {
			// plain sibling object, not a directory
			continue
		}
		seen[leaf] = struct{}{}
	}
	dirs := make([]string, 0, len(seen))
	for leaf := range seen {
		dirs = append(dirs, leaf)
	}
	sort.Strings(dirs)
	return dirs, nil
}

func (m *MemoryProvider) Remove(ctx context.Context, path string, recursive bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !recursive {
		delete(m.objects, path)
		return nil
	}
	prefix := normalizePrefix(path)
	for key := range m.objects {
		if strings.HasPrefix(key, prefix) {
			delete(m.objects, key)
		}
	}
	return nil
}

func normalizePrefix(path string) string {
	if path != "" && !strings.HasSuffix(path, "/") {
		return path + "/"
	}
	return path
}
