package httpapi

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/attend-app/attend-api/internal/app/apperr"
	"github.com/attend-app/attend-api/internal/platform/logging"
)

// NewAuthProxy forwards requests unchanged to the auth server at target.
// Upstream transport failures answer 500 AUTH_FAILURE.
func NewAuthProxy(target string, transport http.RoundTripper) (http.Handler, error) {
	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid auth server url %q", target)
	}
	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(u)
			pr.SetXForwarded()
		},
		Transport: transport,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logging.FromContext(r.Context()).Error("auth passthrough failed", "err", err)
			writeError(w, r, apperr.New(apperr.CodeAuthFailure, "Authentication service unavailable."))
		},
	}
	return proxy, nil
}
