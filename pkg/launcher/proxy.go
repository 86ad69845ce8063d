package launcher

import (
	"context"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"

	"github.com/go-logr/logr"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// The hosting platform probes and invokes fixed paths; the wrapped server
// exposes its own. Exactly these two routes are mapped, nothing else.
const (
	PingPath       = "/ping"
	InvocationPath = "/invocations"

	upstreamHealthPath     = "/health"
	upstreamCompletionPath = "/v1/completions"
)

var routeMap = map[string]string{
	PingPath:       upstreamHealthPath,
	InvocationPath: upstreamCompletionPath,
}

// RewritePath maps a platform path to the wrapped server's path. Unmapped
// paths come back unchanged, and applying the rewrite twice is a no-op
// because no rewritten path is itself a platform path.
func RewritePath(path string) string {
	if mapped, ok := routeMap[path]; ok {
		return mapped
	}
	return path
}

// NewProxy routes the platform's two paths onto the upstream server. Any
// other path 404s without touching the upstream.
func NewProxy(upstream *url.URL, log logr.Logger) http.Handler {
	rp := httputil.NewSingleHostReverseProxy(upstream)
	basedirector := rp.Director
	rp.Director = func(r *http.Request) {
		r.URL.Path = RewritePath(r.URL.Path)
		basedirector(r)
	}
	rp.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Error(err, "upstream unreachable", "path", r.URL.Path)
		w.WriteHeader(http.StatusBadGateway)
	}

	router := mux.NewRouter()
	router.Methods(http.MethodGet).Path(PingPath).Handler(rp)
	router.Methods(http.MethodPost).Path(InvocationPath).Handler(rp)
	return router
}

// ServeProxy runs the proxy until ctx is cancelled.
func ServeProxy(ctx context.Context, addr string, handler http.Handler, log logr.Logger) error {
	server := http.Server{
		Addr:    addr,
		Handler: handlers.CombinedLoggingHandler(os.Stdout, handler),
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}
	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background())
	}()
	log.Info("proxy listening", "http", addr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
