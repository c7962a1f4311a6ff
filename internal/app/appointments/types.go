package appointments

import (
	"time"

	"github.com/attend-app/attend-api/internal/domain"
)

type CreateAppointmentInput struct {
	ClientID       domain.ClientID
	ProfessionalID domain.ProfessionalID
	OfferingID     domain.OfferingID
	StartTime      time.Time
	// EndTime defaults to StartTime plus the offering's duration.
	EndTime *time.Time
}

type ListAppointmentsFilter struct {
	From           *time.Time
	To             *time.Time
	Status         *domain.AppointmentStatus
	ProfessionalID *domain.ProfessionalID
}
