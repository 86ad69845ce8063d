package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"loraserve.io/loraserve/pkg/progress"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	fpath := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(fpath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(fpath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestUploadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "adapter_model.bin", "weights")
	writeFile(t, dir, "adapter_config.json", `{"r":16}`)
	writeFile(t, dir, "sub/tokenizer.json", "{}")
	writeFile(t, dir, ".hidden", "skipme")
	writeFile(t, dir, ".cache/blob", "skipme")

	ctx := context.Background()
	p := NewMemoryProvider()
	mb := progress.NewMultiBar(io.Discard, 40, 3)
	go mb.Run(ctx)

	summary, err := UploadDir(ctx, p, dir, "adapters/1", mb)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Files != 3 {
		t.Fatalf("expected 3 files uploaded, got %d", summary.Files)
	}
	wantbytes := int64(len("weights") + len(`{"r":16}`) + len("{}"))
	if summary.Bytes != wantbytes {
		t.Fatalf("expected %d bytes, got %d", wantbytes, summary.Bytes)
	}

	metas, err := p.List(ctx, "adapters/1", true)
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, 0, len(metas))
	for _, meta := range metas {
		names = append(names, meta.Name)
	}
	want := []string{"adapter_config.json", "adapter_model.bin", "sub/tokenizer.json"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
}

func TestUploadDirContent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "adapter_model.bin", "weights")

	ctx := context.Background()
	p := NewMemoryProvider()
	mb := progress.NewMultiBar(io.Discard, 40, 1)
	go mb.Run(ctx)

	if _, err := UploadDir(ctx, p, dir, "adapters/2", mb); err != nil {
		t.Fatal(err)
	}
	content, err := p.Get(ctx, "adapters/2/adapter_model.bin")
	if err != nil {
		t.Fatal(err)
	}
	defer content.Close()
	data, err := io.ReadAll(content)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "weights" {
		t.Fatalf("expected file content round tripped, got %q", string(data))
	}
}

func TestListDirsSkipsSiblingObjects(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryProvider()
	put := func(key, val string) {
		t.Helper()
		err := p.Put(ctx, key, Content{Content: io.NopCloser(strings.NewReader(val)), ContentLength: int64(len(val))})
		if err != nil {
			t.Fatal(err)
		}
	}
	put("adapters/1/adapter_model.bin", "w")
	put("adapters/2/adapter_model.bin", "w")
	put("manifest.txt", "1=/opt/ml/model/adapters/1/")

	dirs, err := p.ListDirs(ctx, "adapters")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"1", "2"}; !reflect.DeepEqual(dirs, want) {
		t.Fatalf("expected %v, got %v", want, dirs)
	}

	// the manifest must stay invisible even when published under the prefix's
	// parent with a listing rooted there
	dirs, err = p.ListDirs(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"adapters"}; !reflect.DeepEqual(dirs, want) {
		t.Fatalf("expected %v, got %v", want, dirs)
	}
}
