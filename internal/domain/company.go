package domain

import "time"

// Company is a tenant. Each subject owns at most one company.
type Company struct {
	ID      CompanyID
	Name    string
	OwnerID SubjectID

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnedBy reports whether subject owns c.
func (c Company) OwnedBy(subject SubjectID) bool {
	return subject != "" && c.OwnerID == subject
}
