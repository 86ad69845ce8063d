package launcher

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-logr/logr"
)

func TestRewritePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/ping", "/health"},
		{"/invocations", "/v1/completions"},
		{"/health", "/health"},
		{"/v1/completions", "/v1/completions"},
		{"/v1/models", "/v1/models"},
		{"/", "/"},
	}
	for _, tt := range tests {
		if got := RewritePath(tt.in); got != tt.want {
			t.Errorf("RewritePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
		// scoped rewrites are stable under reapplication
		if got := RewritePath(RewritePath(tt.in)); got != tt.want {
			t.Errorf("RewritePath twice on %q = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func newTestProxy(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var seen []string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(upstream.Close)

	u, err := url.Parse(upstream.URL)
	if err != nil {
		t.Fatal(err)
	}
	front := httptest.NewServer(NewProxy(u, logr.Discard()))
	t.Cleanup(front.Close)
	return front, &seen
}

func TestProxyPing(t *testing.T) {
	front, seen := newTestProxy(t)
	resp, err := http.Get(front.URL + "/ping")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if len(*seen) != 1 || (*seen)[0] != "GET /health" {
		t.Errorf("upstream saw %v, want [GET /health]", *seen)
	}
}

func TestProxyInvocations(t *testing.T) {
	front, seen := newTestProxy(t)
	resp, err := http.Post(front.URL+"/invocations", "application/json",
		strings.NewReader(`{"model":"1","prompt":"hi"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if len(*seen) != 1 || (*seen)[0] != "POST /v1/completions" {
		t.Errorf("upstream saw %v, want [POST /v1/completions]", *seen)
	}
}

// Only the two platform routes reach the upstream.
func TestProxyScopedRoutes(t *testing.T) {
	front, seen := newTestProxy(t)
	for _, req := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/health"},
		{http.MethodGet, "/v1/models"},
		{http.MethodPost, "/ping"},
		{http.MethodGet, "/invocations"},
	} {
		httpreq, err := http.NewRequest(req.method, front.URL+req.path, nil)
		if err != nil {
			t.Fatal(err)
		}
		resp, err := http.DefaultClient.Do(httpreq)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			t.Errorf("%s %s unexpectedly proxied", req.method, req.path)
		}
	}
	if len(*seen) != 0 {
		t.Errorf("upstream saw %v, want none", *seen)
	}
}
