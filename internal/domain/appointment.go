package domain

import "time"

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCanceled  AppointmentStatus = "canceled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentScheduled, AppointmentCompleted, AppointmentCanceled:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether an appointment in status s may move to next.
// Only scheduled appointments change status; completed and canceled are terminal.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	return s == AppointmentScheduled && (next == AppointmentCompleted || next == AppointmentCanceled)
}

type Appointment struct {
	ID             AppointmentID
	CompanyID      CompanyID
	ClientID       ClientID
	ProfessionalID ProfessionalID
	OfferingID     OfferingID

	StartTime time.Time
	EndTime   time.Time
	Status    AppointmentStatus

	CreatedAt time.Time
}

// Overlaps reports whether [start, end) intersects the appointment's time range.
func (a Appointment) Overlaps(start, end time.Time) bool {
	return a.StartTime.Before(end) && start.Before(a.EndTime)
}

// Blocks reports whether the appointment occupies its professional's time.
func (a Appointment) Blocks() bool {
	return a.Status == AppointmentScheduled
}
