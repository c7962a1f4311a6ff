package appointmentrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/attend-app/attend-api/internal/domain"
	"github.com/attend-app/attend-api/internal/ports/out/appointmentrepo"
)

// Repo is an in-memory implementation of appointmentrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.AppointmentID]domain.Appointment
}

func NewRepo() *Repo {
	return &Repo{byID: make(map[domain.AppointmentID]domain.Appointment)}
}

// Create rejects an appointment that would overlap a scheduled one of the
// same professional, mirroring the exclusion constraint in Postgres.
func (r *Repo) Create(ctx context.Context, a domain.Appointment) error {
	_ = ctx
	if a.ID == "" {
		return appointmentrepo.ErrAlreadyExists
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[a.ID]; ok {
		return appointmentrepo.ErrAlreadyExists
	}
	if a.Blocks() && len(r.blockingLocked(a.ProfessionalID, a.StartTime, a.EndTime)) > 0 {
		return appointmentrepo.ErrOverlap
	}
	r.byID[a.ID] = a
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.AppointmentID) (domain.Appointment, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return domain.Appointment{}, appointmentrepo.ErrNotFound
	}
	return a, nil
}

func (r *Repo) ListByCompany(ctx context.Context, companyID domain.CompanyID, f appointmentrepo.Filter) ([]domain.Appointment, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Appointment, 0)
	for _, a := range r.byID {
		if a.CompanyID != companyID || !matches(a, f) {
			continue
		}
		out = append(out, a)
	}
	sortByStart(out)
	return out, nil
}

func (r *Repo) ListBlocking(ctx context.Context, professionalID domain.ProfessionalID, start, end time.Time) ([]domain.Appointment, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := r.blockingLocked(professionalID, start, end)
	sortByStart(out)
	return out, nil
}

func (r *Repo) Update(ctx context.Context, id domain.AppointmentID, mutate func(*domain.Appointment) error) (domain.Appointment, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[id]
	if !ok {
		return domain.Appointment{}, appointmentrepo.ErrNotFound
	}
	next := existing
	if err := mutate(&next); err != nil {
		return domain.Appointment{}, err
	}
	next.ID = existing.ID
	next.CompanyID = existing.CompanyID
	next.CreatedAt = existing.CreatedAt
	r.byID[id] = next
	return next, nil
}

func (r *Repo) Delete(ctx context.Context, id domain.AppointmentID, check func(domain.Appointment) error) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[id]
	if !ok {
		return appointmentrepo.ErrNotFound
	}
	if check != nil {
		if err := check(existing); err != nil {
			return err
		}
	}
	delete(r.byID, id)
	return nil
}

func (r *Repo) blockingLocked(professionalID domain.ProfessionalID, start, end time.Time) []domain.Appointment {
	out := make([]domain.Appointment, 0)
	for _, a := range r.byID {
		if a.ProfessionalID == professionalID && a.Blocks() && a.Overlaps(start, end) {
			out = append(out, a)
		}
	}
	return out
}

func matches(a domain.Appointment, f appointmentrepo.Filter) bool {
	if f.From != nil && a.StartTime.Before(*f.From) {
		return false
	}
	if f.To != nil && !a.StartTime.Before(*f.To) {
		return false
	}
	if f.Status != nil && a.Status != *f.Status {
		return false
	}
	if f.ProfessionalID != nil && a.ProfessionalID != *f.ProfessionalID {
		return false
	}
	return true
}

func sortByStart(as []domain.Appointment) {
	sort.Slice(as, func(i, j int) bool {
		if as[i].StartTime.Equal(as[j].StartTime) {
			return as[i].ID < as[j].ID
		}
		return as[i].StartTime.Before(as[j].StartTime)
	})
}

// References reports whether any appointment matches.
func (r *Repo) References(match func(domain.Appointment) bool) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.byID {
		if match(a) {
			return true
		}
	}
	return false
}

func (r *Repo) DeleteByCompany(companyID domain.CompanyID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, a := range r.byID {
		if a.CompanyID == companyID {
			delete(r.byID, id)
		}
	}
}
