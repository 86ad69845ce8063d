// Package manifest builds and publishes the adapter manifest the inference
// server reads at startup.
package manifest

import (
	"context"
	"io"
	"path"
	"strings"

	"golang.org/x/exp/slices"
	loraserveerrors "loraserve.io/loraserve/pkg/errors"
	"loraserve.io/loraserve/pkg/storage"
	"loraserve.io/loraserve/pkg/types"
)

const ContentType = "text/plain"

// Build lists the immediate child directories under adapterprefix and maps
// each to the path the serving host mounts it at. Identifiers are the leaf
// segments of the child prefixes. Plain objects stored next to the adapter
// directories (a previously published manifest, for example) are never
// listed as directories, so they cannot leak into the result.
func Build(ctx context.Context, p storage.Provider, adapterprefix string, mountroot string) (types.AdapterManifest, error) {
	dirs, err := p.ListDirs(ctx, adapterprefix)
	if err != nil {
		return types.AdapterManifest{}, err
	}
	manifest := types.AdapterManifest{}
	seen := map[string]struct{}{}
	for _, name := range dirs {
		if _, ok := seen[name]; ok {
			return types.AdapterManifest{}, loraserveerrors.NewAdapterDuplicateError(name)
		}
		seen[name] = struct{}{}
		manifest.Adapters = append(manifest.Adapters, types.AdapterDescriptor{
			Name: name,
			Path: path.Join(mountroot, name) + "/",
		})
	}
	slices.SortFunc(manifest.Adapters, types.SortAdapterName)
	return manifest, nil
}

// Publish writes the encoded manifest to manifestkey. The key must be a
// sibling of the adapter prefix, never nested inside it: the serving host
// syncs the adapter prefix to local disk, and a manifest stored inside it
// would come along as a pseudo adapter directory.
func Publish(ctx context.Context, p storage.Provider, manifestkey string, adapterprefix string, manifest types.AdapterManifest) error {
	if isNestedUnder(manifestkey, adapterprefix) {
		return loraserveerrors.NewConfigInvalidError(
			"manifest key " + manifestkey + " must not be nested under adapter prefix " + adapterprefix)
	}
	encoded := manifest.Encode()
	return p.Put(ctx, manifestkey, storage.Content{
		Content:       io.NopCloser(strings.NewReader(encoded)),
		ContentLength: int64(len(encoded)),
		ContentType:   ContentType,
	})
}

// Fetch reads a previously published manifest back from the store.
func Fetch(ctx context.Context, p storage.Provider, manifestkey string) (types.AdapterManifest, error) {
	content, err := p.Get(ctx, manifestkey)
	if err != nil {
		return types.AdapterManifest{}, loraserveerrors.NewManifestUnknownError(manifestkey)
	}
	defer content.Close()
	raw, err := io.ReadAll(content)
	if err != nil {
		return types.AdapterManifest{}, err
	}
	return types.ParseManifest(string(raw))
}

func isNestedUnder(key, prefix string) bool {
	prefix = strings.TrimSuffix(prefix, "/")
	return prefix != "" && strings.HasPrefix(key, prefix+"/")
}
