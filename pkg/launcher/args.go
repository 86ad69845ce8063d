package launcher

import (
	"strconv"

	"loraserve.io/loraserve/pkg/types"
)

// BuildArgs renders the validated options and the adapter manifest into the
// wrapped server's argument vector. Local model weights win over a hub model
// id when both are set.
func (o *Options) BuildArgs(manifest types.AdapterManifest) []string {
	args := []string{
		"--host", "127.0.0.1",
		"--port", strconv.Itoa(o.UpstreamPort),
	}
	if o.ModelDir != "" {
		args = append(args, "--model", o.ModelDir)
	} else {
		args = append(args, "--model", o.HFModelID)
	}
	if o.MaxModelLen > 0 {
		args = append(args, "--max-model-len", strconv.Itoa(o.MaxModelLen))
	}
	if o.MaxNumSeqs > 0 {
		args = append(args, "--max-num-seqs", strconv.Itoa(o.MaxNumSeqs))
	}
	if len(manifest.Adapters) > 0 {
		args = append(args, "--enable-lora")
		if o.MaxGPULoras > 0 {
			args = append(args, "--max-loras", strconv.Itoa(o.MaxGPULoras))
		}
		if o.MaxCPULoras > 0 {
			args = append(args, "--max-cpu-loras", strconv.Itoa(o.MaxCPULoras))
		}
		args = append(args, "--lora-modules")
		for _, ad := range manifest.Adapters {
			args = append(args, ad.Name+"="+ad.Path)
		}
	}
	if o.EnforceEager {
		args = append(args, "--enforce-eager")
	}
	return args
}
