package types

import (
	"reflect"
	"testing"

	loraserveerrors "loraserve.io/loraserve/pkg/errors"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name     string
		manifest AdapterManifest
		want     string
	}{
		{
			name: "two adapters",
			manifest: AdapterManifest{Adapters: []AdapterDescriptor{
				{Name: "1", Path: "/opt/ml/model/adapters/1/"},
				{Name: "2", Path: "/opt/ml/model/adapters/2/"},
			}},
			want: "1=/opt/ml/model/adapters/1/ 2=/opt/ml/model/adapters/2/",
		},
		{
			name: "single adapter no separator",
			manifest: AdapterManifest{Adapters: []AdapterDescriptor{
				{Name: "sql-lora", Path: "/mnt/adapters/sql-lora/"},
			}},
			want: "sql-lora=/mnt/adapters/sql-lora/",
		},
		{
			name:     "empty",
			manifest: AdapterManifest{},
			want:     "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.manifest.Encode(); got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseManifest(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		want     AdapterManifest
		wantErr  bool
		wantCode loraserveerrors.ErrCode
	}{
		{
			name: "valid",
			line: "1=/opt/ml/model/adapters/1/ 2=/opt/ml/model/adapters/2/",
			want: AdapterManifest{Adapters: []AdapterDescriptor{
				{Name: "1", Path: "/opt/ml/model/adapters/1/"},
				{Name: "2", Path: "/opt/ml/model/adapters/2/"},
			}},
		},
		{
			name: "surrounding whitespace",
			line: "  a=/x/a/ \n",
			want: AdapterManifest{Adapters: []AdapterDescriptor{{Name: "a", Path: "/x/a/"}}},
		},
		{
			name: "empty line",
			line: "",
			want: AdapterManifest{},
		},
		{
			name:     "missing separator",
			line:     "adapter-one",
			wantErr:  true,
			wantCode: loraserveerrors.ErrCodeManifestInvalid,
		},
		{
			name:     "empty path",
			line:     "a=",
			wantErr:  true,
			wantCode: loraserveerrors.ErrCodeManifestInvalid,
		},
		{
			name:     "duplicate name",
			line:     "a=/x/a/ a=/y/a/",
			wantErr:  true,
			wantCode: loraserveerrors.ErrCodeAdapterDuplicate,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseManifest(tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseManifest() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !loraserveerrors.IsErrCode(err, tt.wantCode) {
					t.Errorf("ParseManifest() error = %v, want code %s", err, tt.wantCode)
				}
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseManifest() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEncodeParseRoundTrip(t *testing.T) {
	manifest := AdapterManifest{Adapters: []AdapterDescriptor{
		{Name: "1", Path: "/opt/ml/model/adapters/1/"},
		{Name: "fr-chat", Path: "/opt/ml/model/adapters/fr-chat/"},
	}}
	got, err := ParseManifest(manifest.Encode())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, manifest) {
		t.Errorf("round trip = %v, want %v", got, manifest)
	}
}

func TestFind(t *testing.T) {
	manifest := AdapterManifest{Adapters: []AdapterDescriptor{
		{Name: "1", Path: "/a/1/"},
		{Name: "2", Path: "/a/2/"},
	}}
	if _, ok := manifest.Find("2"); !ok {
		t.Error("Find(2) = false, want true")
	}
	if _, ok := manifest.Find("3"); ok {
		t.Error("Find(3) = true, want false")
	}
}
