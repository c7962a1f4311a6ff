package clients

import "github.com/attend-app/attend-api/internal/app/patch"

type CreateClientInput struct {
	Name  string
	Email *string
	Phone *string
}

// UpdateClientInput applies only specified fields. Email and Phone may be null.
type UpdateClientInput struct {
	Name  patch.Optional[string]
	Email patch.Optional[string]
	Phone patch.Optional[string]
}
