// Package launcher is the in-container entrypoint: it reads the environment
// contract, composes the inference server's argument vector from it, launches
// the server as a child process and fronts it with the platform route proxy.
package launcher

import (
	"fmt"
	"os"
	"strconv"

	loraserveerrors "loraserve.io/loraserve/pkg/errors"
)

// Environment variables the hosting platform passes to the container.
const (
	EnvModelDir     = "MODEL_DIR"
	EnvManifestFile = "LORA_MODULES_MANIFEST_FILE"
	EnvHFModelID    = "HF_MODEL_ID"
	EnvMaxModelLen  = "MAX_MODEL_LEN"
	EnvMaxGPULoras  = "MAX_GPU_LORAS"
	EnvMaxCPULoras  = "MAX_CPU_LORAS"
	EnvMaxNumSeqs   = "MAX_NUM_SEQS"
	EnvEnforceEager = "ENFORCE_EAGER"
	EnvBindPort     = "SAGEMAKER_BIND_TO_PORT"
)

const (
	DefaultListenPort   = 8080
	DefaultUpstreamPort = 8000
)

// Options is the typed launch configuration. Values are parsed and validated
// up front and rendered into an argument vector, never interpolated into a
// shell string.
type Options struct {
	ModelDir     string
	ManifestFile string
	HFModelID    string
	MaxModelLen  int
	MaxGPULoras  int
	MaxCPULoras  int
	MaxNumSeqs   int
	// EnforceEager is set only when the environment value is exactly the
	// string "true". "True", "1" or absence all leave it off.
	EnforceEager bool

	// ListenPort is the platform facing proxy port, UpstreamPort the port
	// the wrapped server binds on the loopback.
	ListenPort   int
	UpstreamPort int

	// ServerCommand launches the wrapped inference server; the composed
	// arguments are appended to it.
	ServerCommand []string
}

func DefaultOptions() *Options {
	return &Options{
		ListenPort:    DefaultListenPort,
		UpstreamPort:  DefaultUpstreamPort,
		ServerCommand: []string{"python3", "-m", "vllm.entrypoints.openai.api_server"},
	}
}

// OptionsFromEnv builds Options from a lookup function, usually os.LookupEnv.
func OptionsFromEnv(lookup func(string) (string, bool)) (*Options, error) {
	opts := DefaultOptions()
	opts.ModelDir, _ = lookup(EnvModelDir)
	opts.ManifestFile, _ = lookup(EnvManifestFile)
	opts.HFModelID, _ = lookup(EnvHFModelID)

	for _, num := range []struct {
		env  string
		into *int
	}{
		{EnvMaxModelLen, &opts.MaxModelLen},
		{EnvMaxGPULoras, &opts.MaxGPULoras},
		{EnvMaxCPULoras, &opts.MaxCPULoras},
		{EnvMaxNumSeqs, &opts.MaxNumSeqs},
		{EnvBindPort, &opts.ListenPort},
	} {
		raw, found := lookup(num.env)
		if !found || raw == "" {
			continue
		}
		val, err := strconv.Atoi(raw)
		if err != nil || val < 0 {
			return nil, loraserveerrors.NewConfigInvalidError(
				fmt.Sprintf("%s: %q is not a non-negative integer", num.env, raw))
		}
		*num.into = val
	}

	// exact match on the lowercase literal, matching the serving contract
	if raw, _ := lookup(EnvEnforceEager); raw == "true" {
		opts.EnforceEager = true
	}

	return opts, opts.Validate()
}

func OptionsFromOSEnv() (*Options, error) {
	return OptionsFromEnv(os.LookupEnv)
}

func (o *Options) Validate() error {
	if o.ModelDir == "" && o.HFModelID == "" {
		return loraserveerrors.NewConfigInvalidError(
			fmt.Sprintf("one of %s or %s is required", EnvModelDir, EnvHFModelID))
	}
	if o.ListenPort == o.UpstreamPort {
		return loraserveerrors.NewConfigInvalidError("listen port and upstream port must differ")
	}
	if len(o.ServerCommand) == 0 {
		return loraserveerrors.NewConfigInvalidError("server command is empty")
	}
	return nil
}
