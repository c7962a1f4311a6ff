package offerings

import "github.com/attend-app/attend-api/internal/app/patch"

type CreateOfferingInput struct {
	Name            string
	Description     *string
	DurationMinutes int
	PriceCents      int
}

// UpdateOfferingInput applies only specified fields. Description may be null.
type UpdateOfferingInput struct {
	Name            patch.Optional[string]
	Description     patch.Optional[string]
	DurationMinutes patch.Optional[int]
	PriceCents      patch.Optional[int]
}
