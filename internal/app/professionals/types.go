package professionals

import "github.com/attend-app/attend-api/internal/domain"

type CreateProfessionalInput struct {
	Name        string
	OfferingIDs []domain.OfferingID
}

type UpdateProfessionalInput struct {
	Name string
}
