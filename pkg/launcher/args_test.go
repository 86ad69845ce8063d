package launcher

import (
	"reflect"
	"strings"
	"testing"

	"loraserve.io/loraserve/pkg/types"
)

func testManifest() types.AdapterManifest {
	return types.AdapterManifest{Adapters: []types.AdapterDescriptor{
		{Name: "1", Path: "/opt/ml/model/adapters/1/"},
		{Name: "2", Path: "/opt/ml/model/adapters/2/"},
	}}
}

func TestBuildArgs(t *testing.T) {
	opts := DefaultOptions()
	opts.ModelDir = "/opt/ml/model"
	opts.MaxModelLen = 4096
	opts.MaxGPULoras = 4
	opts.MaxCPULoras = 30
	opts.MaxNumSeqs = 16
	opts.EnforceEager = true

	got := opts.BuildArgs(testManifest())
	want := []string{
		"--host", "127.0.0.1",
		"--port", "8000",
		"--model", "/opt/ml/model",
		"--max-model-len", "4096",
		"--max-num-seqs", "16",
		"--enable-lora",
		"--max-loras", "4",
		"--max-cpu-loras", "30",
		"--lora-modules",
		"1=/opt/ml/model/adapters/1/",
		"2=/opt/ml/model/adapters/2/",
		"--enforce-eager",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildArgs() = %v, want %v", got, want)
	}
}

func TestBuildArgsEnforceEagerBoundary(t *testing.T) {
	opts := DefaultOptions()
	opts.ModelDir = "/opt/ml/model"

	args := strings.Join(opts.BuildArgs(types.AdapterManifest{}), " ")
	if strings.Contains(args, "--enforce-eager") {
		t.Errorf("args contain --enforce-eager without the option set: %s", args)
	}

	opts.EnforceEager = true
	args = strings.Join(opts.BuildArgs(types.AdapterManifest{}), " ")
	if !strings.Contains(args, "--enforce-eager") {
		t.Errorf("args missing --enforce-eager: %s", args)
	}
}

func TestBuildArgsNoAdapters(t *testing.T) {
	opts := DefaultOptions()
	opts.ModelDir = "/opt/ml/model"
	opts.MaxGPULoras = 4

	args := strings.Join(opts.BuildArgs(types.AdapterManifest{}), " ")
	for _, flag := range []string{"--enable-lora", "--lora-modules", "--max-loras"} {
		if strings.Contains(args, flag) {
			t.Errorf("args contain %s with empty manifest: %s", flag, args)
		}
	}
}

func TestBuildArgsHubModel(t *testing.T) {
	opts := DefaultOptions()
	opts.HFModelID = "mistralai/Mistral-7B-v0.1"

	args := strings.Join(opts.BuildArgs(types.AdapterManifest{}), " ")
	if !strings.Contains(args, "--model mistralai/Mistral-7B-v0.1") {
		t.Errorf("args missing hub model: %s", args)
	}
}

func TestBuildArgsOmitsUnsetNumbers(t *testing.T) {
	opts := DefaultOptions()
	opts.ModelDir = "/opt/ml/model"

	args := strings.Join(opts.BuildArgs(types.AdapterManifest{}), " ")
	for _, flag := range []string{"--max-model-len", "--max-num-seqs"} {
		if strings.Contains(args, flag) {
			t.Errorf("args contain %s with zero value: %s", flag, args)
		}
	}
}
