package sessions

import (
	"context"
	"errors"
	"net/http"

	"github.com/attend-app/attend-api/internal/domain"
)

// ErrNoSession indicates the request carries no valid session.
var ErrNoSession = errors.New("no active session")

// Resolver resolves the session bound to inbound request headers.
//
// Implementations return ErrNoSession (possibly wrapped) when the request is
// unauthenticated and any other error when the collaborator itself failed.
type Resolver interface {
	Resolve(ctx context.Context, h http.Header) (domain.AuthSession, error)
}
