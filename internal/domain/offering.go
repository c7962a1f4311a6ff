package domain

import "time"

// Offering is a bookable service (exposed as /services).
type Offering struct {
	ID        OfferingID
	CompanyID CompanyID

	Name            string
	Description     *string
	DurationMinutes int
	PriceCents      int

	CreatedAt time.Time
}

func (o Offering) Duration() time.Duration {
	return time.Duration(o.DurationMinutes) * time.Minute
}
