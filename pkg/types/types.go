package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/opencontainers/go-digest"
	loraserveerrors "loraserve.io/loraserve/pkg/errors"
)

// AdapterDescriptor identifies one LoRA adapter and the path the serving
// container mounts it at. Name is opaque; it is derived from the leaf segment
// of the adapter's storage prefix.
type AdapterDescriptor struct {
	Name        string            `json:"name"`
	Path        string            `json:"path"`
	Size        int64             `json:"size,omitempty"`
	Digest      digest.Digest     `json:"digest,omitempty"`
	Modified    time.Time         `json:"modified,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty"`
}

func SortAdapterName(a, b AdapterDescriptor) bool {
	return strings.Compare(a.Name, b.Name) < 0
}

// AdapterManifest is the ordered adapter set the inference server loads at
// startup. The wire form is a single line of space separated name=path
// tokens, read once by the launcher and never reloaded.
type AdapterManifest struct {
	Adapters []AdapterDescriptor `json:"adapters"`
}

// Encode renders the single line manifest. No trailing separator and no
// newline: the line is handed to the server verbatim as argument material.
func (m AdapterManifest) Encode() string {
	tokens := make([]string, 0, len(m.Adapters))
	for _, ad := range m.Adapters {
		tokens = append(tokens, ad.Name+"="+ad.Path)
	}
	return strings.Join(tokens, " ")
}

func (m AdapterManifest) Find(name string) (AdapterDescriptor, bool) {
	for _, ad := range m.Adapters {
		if ad.Name == name {
			return ad, true
		}
	}
	return AdapterDescriptor{}, false
}

func (m AdapterManifest) Names() []string {
	names := make([]string, 0, len(m.Adapters))
	for _, ad := range m.Adapters {
		names = append(names, ad.Name)
	}
	return names
}

// ParseManifest decodes the single line form. Surrounding whitespace is
// tolerated, duplicate names and tokens without '=' are not.
func ParseManifest(line string) (AdapterManifest, error) {
	manifest := AdapterManifest{}
	seen := map[string]struct{}{}
	for _, token := range strings.Fields(strings.TrimSpace(line)) {
		name, path, found := strings.Cut(token, "=")
		if !found || name == "" || path == "" {
			return AdapterManifest{}, loraserveerrors.NewManifestInvalidError(
				fmt.Errorf("malformed token %q, expected name=path", token))
		}
		if _, ok := seen[name]; ok {
			return AdapterManifest{}, loraserveerrors.NewAdapterDuplicateError(name)
		}
		seen[name] = struct{}{}
		manifest.Adapters = append(manifest.Adapters, AdapterDescriptor{Name: name, Path: path})
	}
	return manifest, nil
}
