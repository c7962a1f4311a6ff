// Package jwtsession resolves sessions from RS256 bearer tokens.
package jwtsession

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/attend-app/attend-api/internal/domain"
	"github.com/attend-app/attend-api/internal/platform/auth/jwtverifier"
	"github.com/attend-app/attend-api/internal/ports/out/sessions"
)

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (jwtverifier.Claims, error)
}

type Resolver struct {
	verifier TokenVerifier
}

func New(v TokenVerifier) *Resolver {
	return &Resolver{verifier: v}
}

func (r *Resolver) Resolve(ctx context.Context, h http.Header) (domain.AuthSession, error) {
	authz := h.Get("Authorization")
	const prefix = "Bearer "
	if len(authz) < len(prefix) || !strings.EqualFold(authz[:len(prefix)], prefix) {
		return domain.AuthSession{}, sessions.ErrNoSession
	}
	raw := strings.TrimSpace(authz[len(prefix):])
	if raw == "" {
		return domain.AuthSession{}, sessions.ErrNoSession
	}

	claims, err := r.verifier.Verify(ctx, raw)
	if err != nil {
		return domain.AuthSession{}, fmt.Errorf("%w: %v", sessions.ErrNoSession, err)
	}

	user := domain.User{
		ID:    domain.SubjectID(claims.Subject),
		Email: claims.Email,
	}
	if claims.Name != "" {
		name := claims.Name
		user.Name = &name
	}
	return domain.AuthSession{
		User: user,
		Session: domain.Session{
			ID:     claims.SessionID,
			UserID: user.ID,
		},
	}, nil
}
