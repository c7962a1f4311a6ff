package httpapi

import (
	"context"

	"github.com/attend-app/attend-api/internal/app/apperr"
	"github.com/attend-app/attend-api/internal/domain"
)

type sessionKey struct{}

var errUnauthorized = apperr.New(apperr.CodeUnauthorized, "Authentication required.")

func WithSession(ctx context.Context, s domain.AuthSession) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func SessionFromContext(ctx context.Context) (domain.AuthSession, bool) {
	s, ok := ctx.Value(sessionKey{}).(domain.AuthSession)
	return s, ok && s.User.ID != ""
}

// subjectFrom returns the authenticated subject or UNAUTHORIZED.
func subjectFrom(ctx context.Context) (domain.SubjectID, error) {
	s, ok := SessionFromContext(ctx)
	if !ok {
		return "", errUnauthorized
	}
	return s.User.ID, nil
}
