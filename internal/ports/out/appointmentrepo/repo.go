package appointmentrepo

import (
	"context"
	"time"

	"github.com/attend-app/attend-api/internal/domain"
)

// Filter narrows ListByCompany. Zero values mean "no constraint".
// From/To select appointments whose start time falls in [From, To).
type Filter struct {
	From           *time.Time
	To             *time.Time
	Status         *domain.AppointmentStatus
	ProfessionalID *domain.ProfessionalID
}

// Repository provides access to persisted appointments.
// List methods return appointments ordered by start time, then id.
type Repository interface {
	Create(ctx context.Context, a domain.Appointment) error
	GetByID(ctx context.Context, id domain.AppointmentID) (domain.Appointment, error)
	ListByCompany(ctx context.Context, companyID domain.CompanyID, f Filter) ([]domain.Appointment, error)

	// ListBlocking returns scheduled appointments of the professional that
	// overlap [start, end).
	ListBlocking(ctx context.Context, professionalID domain.ProfessionalID, start, end time.Time) ([]domain.Appointment, error)

	Update(ctx context.Context, id domain.AppointmentID, mutate func(*domain.Appointment) error) (domain.Appointment, error)
	Delete(ctx context.Context, id domain.AppointmentID, check func(domain.Appointment) error) error
}
