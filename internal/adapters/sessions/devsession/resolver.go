// Package devsession is a local-only resolver trusting the X-Debug-Subject header.
package devsession

import (
	"context"
	"net/http"
	"strings"

	"github.com/attend-app/attend-api/internal/domain"
	"github.com/attend-app/attend-api/internal/ports/out/sessions"
)

const (
	SubjectHeader = "X-Debug-Subject"
	EmailHeader   = "X-Debug-Email"
)

// Resolver falls back to defaultSubject when the header is absent.
// Do NOT use this in production deployments.
type Resolver struct {
	defaultSubject string
}

func New(defaultSubject string) *Resolver {
	return &Resolver{defaultSubject: strings.TrimSpace(defaultSubject)}
}

func (r *Resolver) Resolve(_ context.Context, h http.Header) (domain.AuthSession, error) {
	sub := strings.TrimSpace(h.Get(SubjectHeader))
	if sub == "" {
		sub = r.defaultSubject
	}
	if sub == "" {
		return domain.AuthSession{}, sessions.ErrNoSession
	}
	email := strings.TrimSpace(h.Get(EmailHeader))
	if email == "" {
		email = sub + "@dev.local"
	}
	return domain.AuthSession{
		User: domain.User{ID: domain.SubjectID(sub), Email: email},
		Session: domain.Session{
			ID:     "dev-" + sub,
			UserID: domain.SubjectID(sub),
		},
	}, nil
}
