package domain

import (
	"slices"
	"time"
)

// Professional performs appointments for a set of offerings of the same company.
type Professional struct {
	ID        ProfessionalID
	CompanyID CompanyID
	Name      string

	// OfferingIDs is kept sorted and free of duplicates.
	OfferingIDs []OfferingID

	CreatedAt time.Time
}

func (p Professional) Offers(id OfferingID) bool {
	_, found := slices.BinarySearch(p.OfferingIDs, id)
	return found
}

// NormalizeOfferingIDs sorts ids and drops duplicates and empty values.
func NormalizeOfferingIDs(ids []OfferingID) []OfferingID {
	out := make([]OfferingID, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
