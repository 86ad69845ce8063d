package manifest

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	loraserveerrors "loraserve.io/loraserve/pkg/errors"
	"loraserve.io/loraserve/pkg/storage"
	"loraserve.io/loraserve/pkg/types"
)

func putObject(t *testing.T, p storage.Provider, key, data string) {
	t.Helper()
	err := p.Put(context.Background(), key, storage.Content{
		Content:       io.NopCloser(strings.NewReader(data)),
		ContentLength: int64(len(data)),
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestBuild(t *testing.T) {
	ctx := context.Background()
	p := storage.NewMemoryProvider()
	for i := 1; i <= 3; i++ {
		putObject(t, p, fmt.Sprintf("adapters/%d/adapter_model.bin", i), "weights")
		putObject(t, p, fmt.Sprintf("adapters/%d/adapter_config.json", i), "{}")
	}

	manifest, err := Build(ctx, p, "adapters", "/opt/ml/model/adapters")
	if err != nil {
		t.Fatal(err)
	}
	if len(manifest.Adapters) != 3 {
		t.Fatalf("got %d adapters, want 3", len(manifest.Adapters))
	}
	want := "1=/opt/ml/model/adapters/1/ 2=/opt/ml/model/adapters/2/ 3=/opt/ml/model/adapters/3/"
	if got := manifest.Encode(); got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
	for _, ad := range manifest.Adapters {
		if !strings.HasSuffix(ad.Path, ad.Name+"/") {
			t.Errorf("path %q does not end in %q", ad.Path, ad.Name+"/")
		}
	}
}

// A published manifest is a sibling object of the adapter directories. The
// delimiter listing must not report it as an adapter.
func TestBuildIgnoresSiblingManifest(t *testing.T) {
	ctx := context.Background()
	p := storage.NewMemoryProvider()
	putObject(t, p, "loras/sql-lora/adapter_model.bin", "weights")
	putObject(t, p, "loras/fr-chat/adapter_model.bin", "weights")
	putObject(t, p, "loras-manifest.txt", "stale=manifest")

	manifest, err := Build(ctx, p, "loras", "/mnt/loras")
	if err != nil {
		t.Fatal(err)
	}
	got := manifest.Names()
	if len(got) != 2 || got[0] != "fr-chat" || got[1] != "sql-lora" {
		t.Errorf("Names() = %v, want [fr-chat sql-lora]", got)
	}
}

func TestBuildEmptyPrefix(t *testing.T) {
	manifest, err := Build(context.Background(), storage.NewMemoryProvider(), "loras", "/mnt/loras")
	if err != nil {
		t.Fatal(err)
	}
	if len(manifest.Adapters) != 0 {
		t.Errorf("got %d adapters, want 0", len(manifest.Adapters))
	}
	if manifest.Encode() != "" {
		t.Errorf("Encode() = %q, want empty", manifest.Encode())
	}
}

func TestPublishRejectsNestedKey(t *testing.T) {
	p := storage.NewMemoryProvider()
	err := Publish(context.Background(), p, "loras/manifest.txt", "loras", types.AdapterManifest{})
	if !loraserveerrors.IsErrCode(err, loraserveerrors.ErrCodeConfigInvalid) {
		t.Errorf("Publish() error = %v, want CONFIG_INVALID", err)
	}
}

func TestPublishFetchRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := storage.NewMemoryProvider()
	manifest := types.AdapterManifest{Adapters: []types.AdapterDescriptor{
		{Name: "1", Path: "/opt/ml/model/adapters/1/"},
		{Name: "2", Path: "/opt/ml/model/adapters/2/"},
	}}
	if err := Publish(ctx, p, "manifest.txt", "adapters", manifest); err != nil {
		t.Fatal(err)
	}
	got, err := Fetch(ctx, p, "manifest.txt")
	if err != nil {
		t.Fatal(err)
	}
	if got.Encode() != manifest.Encode() {
		t.Errorf("Fetch() = %q, want %q", got.Encode(), manifest.Encode())
	}
}

func TestFetchMissing(t *testing.T) {
	_, err := Fetch(context.Background(), storage.NewMemoryProvider(), "nope.txt")
	if !loraserveerrors.IsErrCode(err, loraserveerrors.ErrCodeManifestUnknown) {
		t.Errorf("Fetch() error = %v, want MANIFEST_UNKNOWN", err)
	}
}
