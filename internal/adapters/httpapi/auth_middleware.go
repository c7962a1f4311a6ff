package httpapi

import (
	"errors"
	"net/http"

	"github.com/attend-app/attend-api/internal/platform/logging"
	"github.com/attend-app/attend-api/internal/ports/out/sessions"
)

// NewAuthMiddleware resolves the caller's session from the inbound headers.
//
// A missing session and a failed lookup both answer 401 UNAUTHORIZED; on
// success the session is stored in the request context and the request
// logger gains a subject attribute.
func NewAuthMiddleware(resolver sessions.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			sess, err := resolver.Resolve(ctx, r.Header)
			if err != nil {
				if !errors.Is(err, sessions.ErrNoSession) {
					logging.FromContext(ctx).Warn("session lookup failed", "err", err)
				}
				writeError(w, r, errUnauthorized)
				return
			}
			if sess.User.ID == "" {
				writeError(w, r, errUnauthorized)
				return
			}

			ctx = WithSession(ctx, sess)
			ctx = logging.WithLogger(ctx, logging.FromContext(ctx).With("subject", string(sess.User.ID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
