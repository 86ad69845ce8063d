package launcher

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"syscall"

	"github.com/go-logr/logr"
	loraserveerrors "loraserve.io/loraserve/pkg/errors"
	"loraserve.io/loraserve/pkg/types"
)

// ExitError carries the wrapped server's exit code to the daemon main, which
// must exit with exactly that code: the child's exit code is the container's
// exit code.
type ExitError struct {
	Code int
}

func (e ExitError) Error() string {
	return fmt.Sprintf("server exited with code %d", e.Code)
}

// ExitCode extracts the process exit code to propagate. nil means 0; errors
// other than ExitError map to 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	exiterr := ExitError{}
	if errors.As(err, &exiterr) {
		return exiterr.Code
	}
	return 1
}

// ReadManifest loads the adapter manifest file named by the options. An
// unset manifest file yields an empty manifest (base model only); a set but
// unreadable one is an error.
func ReadManifest(opts *Options) (types.AdapterManifest, error) {
	if opts.ManifestFile == "" {
		return types.AdapterManifest{}, nil
	}
	raw, err := os.ReadFile(opts.ManifestFile)
	if err != nil {
		return types.AdapterManifest{}, loraserveerrors.NewManifestUnknownError(opts.ManifestFile)
	}
	return types.ParseManifest(string(raw))
}

// Run launches the wrapped server and the platform proxy, then blocks until
// the server exits or ctx is cancelled. Cancellation forwards SIGTERM to the
// child and waits for it; the child's exit status is returned as ExitError.
func Run(ctx context.Context, opts *Options) error {
	log := logr.FromContextOrDiscard(ctx)
	if err := opts.Validate(); err != nil {
		return err
	}
	manifest, err := ReadManifest(opts)
	if err != nil {
		return err
	}

	args := opts.BuildArgs(manifest)
	log.Info("launching inference server",
		"command", opts.ServerCommand[0], "adapters", len(manifest.Adapters))

	cmd := exec.Command(opts.ServerCommand[0], append(opts.ServerCommand[1:], args...)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()
	if err := cmd.Start(); err != nil {
		return err
	}

	// the proxy lives exactly as long as the child
	proxyctx, stopproxy := context.WithCancel(ctx)
	defer stopproxy()
	upstream := &url.URL{Scheme: "http", Host: fmt.Sprintf("127.0.0.1:%d", opts.UpstreamPort)}
	go func() {
		addr := fmt.Sprintf(":%d", opts.ListenPort)
		if err := ServeProxy(proxyctx, addr, NewProxy(upstream, log), log); err != nil {
			log.Error(err, "proxy terminated")
		}
	}()

	go func() {
		<-ctx.Done()
		if cmd.Process != nil {
			log.Info("forwarding termination signal to server")
			_ = cmd.Process.Signal(syscall.SIGTERM)
		}
	}()

	err = cmd.Wait()
	stopproxy()
	if err == nil {
		return nil
	}
	exiterr := &exec.ExitError{}
	if errors.As(err, &exiterr) {
		return ExitError{Code: exiterr.ExitCode()}
	}
	return err
}
