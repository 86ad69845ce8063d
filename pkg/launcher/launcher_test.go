package launcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	loraserveerrors "loraserve.io/loraserve/pkg/errors"
)

func TestExitCode(t *testing.T) {
	if got := ExitCode(nil); got != 0 {
		t.Errorf("ExitCode(nil) = %d, want 0", got)
	}
	if got := ExitCode(ExitError{Code: 7}); got != 7 {
		t.Errorf("ExitCode(ExitError{7}) = %d, want 7", got)
	}
	if got := ExitCode(errors.New("other")); got != 1 {
		t.Errorf("ExitCode(other) = %d, want 1", got)
	}
}

func TestReadManifest(t *testing.T) {
	file := filepath.Join(t.TempDir(), "manifest.txt")
	if err := os.WriteFile(file, []byte("1=/opt/ml/model/adapters/1/\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := DefaultOptions()
	opts.ManifestFile = file
	manifest, err := ReadManifest(opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(manifest.Adapters) != 1 || manifest.Adapters[0].Name != "1" {
		t.Errorf("ReadManifest() = %v", manifest)
	}

	opts.ManifestFile = ""
	manifest, err = ReadManifest(opts)
	if err != nil || len(manifest.Adapters) != 0 {
		t.Errorf("unset manifest file: got %v, %v", manifest, err)
	}

	opts.ManifestFile = filepath.Join(t.TempDir(), "missing.txt")
	_, err = ReadManifest(opts)
	if !loraserveerrors.IsErrCode(err, loraserveerrors.ErrCodeManifestUnknown) {
		t.Errorf("ReadManifest() error = %v, want MANIFEST_UNKNOWN", err)
	}
}

func TestRunPropagatesExitCode(t *testing.T) {
	opts := DefaultOptions()
	opts.ModelDir = "/opt/ml/model"
	opts.ListenPort = 0 // ephemeral, the proxy is irrelevant here
	opts.ServerCommand = []string{"/bin/sh", "-c", "exit 7"}

	err := Run(context.Background(), opts)
	if got := ExitCode(err); got != 7 {
		t.Errorf("ExitCode(Run()) = %d (err %v), want 7", got, err)
	}
}

func TestRunCleanExit(t *testing.T) {
	opts := DefaultOptions()
	opts.ModelDir = "/opt/ml/model"
	opts.ListenPort = 0
	opts.ServerCommand = []string{"/bin/sh", "-c", "exit 0"}

	if err := Run(context.Background(), opts); err != nil {
		t.Errorf("Run() = %v, want nil", err)
	}
}
