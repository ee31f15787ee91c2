package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"kairosconsole/internal/sanitizer"
)

// newArtifactProxy forwards /static/<file> to the backend that generated the file
func newArtifactProxy(baseURL string) (http.Handler, error) {
	target, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend url %q: %w", baseURL, err)
	}
	if target.Host == "" {
		return nil, fmt.Errorf("backend url %q has no host", baseURL)
	}

	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.Out.Host = target.Host
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			slog.Error("artifact proxy failed", "path", r.URL.Path, "error", err)
			http.Error(w, "Arquivo indisponível.", http.StatusBadGateway)
		},
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, sanitizer.StaticPrefix)
		clean, ok := sanitizer.ArtifactPath(name)
		if !ok {
			slog.Warn("rejected artifact path", "path", r.URL.Path)
			http.NotFound(w, r)
			return
		}

		out := r.Clone(r.Context())
		out.URL.Path = sanitizer.StaticPrefix + clean
		out.URL.RawPath = ""
		proxy.ServeHTTP(w, out)
	}), nil
}
