package appointments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/attend-app/attend-api/internal/app/apperr"
	"github.com/attend-app/attend-api/internal/app/companies"
	"github.com/attend-app/attend-api/internal/domain"
	"github.com/attend-app/attend-api/internal/ports/out/appointmentrepo"
	clockport "github.com/attend-app/attend-api/internal/ports/out/clock"
)

var (
	errNotFound     = apperr.New(apperr.CodeAppointmentNotFound, "Appointment not found.")
	errForbidden    = apperr.New(apperr.CodeForbidden, "You do not have permission to access this appointment.")
	errInvalidTime  = apperr.New(apperr.CodeAppointmentInvalidTime, "Appointment must end after it starts.")
	errNotOffered   = apperr.New(apperr.CodeServiceNotOffered, "The professional does not offer this service.")
	errConflict     = apperr.New(apperr.CodeAppointmentConflict, "The professional already has an appointment in that time range.")
	errTransition   = apperr.New(apperr.CodeAppointmentInvalidStatus, "Only scheduled appointments can be completed or canceled.")
	errUpdateFailed = apperr.New(apperr.CodeAppointmentUpdateFailed, "Failed to update appointment.")
	errDeleteFailed = apperr.New(apperr.CodeAppointmentDeleteFailed, "Failed to delete appointment.")
)

// ClientLookup resolves a client of a given company.
type ClientLookup interface {
	GetCompanyClient(ctx context.Context, companyID domain.CompanyID, id domain.ClientID) (domain.Client, error)
}

// ProfessionalLookup resolves a professional of a given company.
type ProfessionalLookup interface {
	GetCompanyProfessional(ctx context.Context, companyID domain.CompanyID, id domain.ProfessionalID) (domain.Professional, error)
}

// OfferingLookup resolves an offering of a given company.
type OfferingLookup interface {
	GetCompanyOffering(ctx context.Context, companyID domain.CompanyID, id domain.OfferingID) (domain.Offering, error)
}

// Service books appointments for the caller's company.
type Service struct {
	companies     companies.CompanyLookup
	repo          appointmentrepo.Repository
	clients       ClientLookup
	professionals ProfessionalLookup
	offerings     OfferingLookup
	clk           clockport.Clock

	newAppointmentID func() domain.AppointmentID
}

func NewService(
	companyLookup companies.CompanyLookup,
	repo appointmentrepo.Repository,
	clients ClientLookup,
	professionals ProfessionalLookup,
	offerings OfferingLookup,
	clk clockport.Clock,
) *Service {
	return &Service{
		companies:     companyLookup,
		repo:          repo,
		clients:       clients,
		professionals: professionals,
		offerings:     offerings,
		clk:           clk,
		newAppointmentID: func() domain.AppointmentID {
			return domain.AppointmentID(uuid.NewString())
		},
	}
}

func (s *Service) CreateAppointment(ctx context.Context, subject domain.SubjectID, in CreateAppointmentInput) (domain.Appointment, error) {
	company, err := companies.RequireOwned(ctx, s.companies, subject)
	if err != nil {
		return domain.Appointment{}, err
	}
	if in.StartTime.IsZero() {
		return domain.Appointment{}, apperr.Validation("startTime", "is required")
	}

	var (
		professional domain.Professional
		offering     domain.Offering

		clientErr, professionalErr, offeringErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, clientErr = s.clients.GetCompanyClient(gctx, company.ID, in.ClientID)
		return clientErr
	})
	g.Go(func() error {
		professional, professionalErr = s.professionals.GetCompanyProfessional(gctx, company.ID, in.ProfessionalID)
		return professionalErr
	})
	g.Go(func() error {
		offering, offeringErr = s.offerings.GetCompanyOffering(gctx, company.ID, in.OfferingID)
		return offeringErr
	})
	if waitErr := g.Wait(); waitErr != nil {
		// Report domain failures in a stable order; a sibling may only have
		// seen the group's cancellation.
		for _, err := range []error{clientErr, professionalErr, offeringErr} {
			if _, ok := apperr.As(err); ok {
				return domain.Appointment{}, err
			}
		}
		return domain.Appointment{}, waitErr
	}

	if !professional.Offers(offering.ID) {
		return domain.Appointment{}, errNotOffered
	}

	start := in.StartTime.UTC().Truncate(time.Microsecond)
	end := start.Add(offering.Duration())
	if in.EndTime != nil {
		end = in.EndTime.UTC().Truncate(time.Microsecond)
	}
	if !end.After(start) {
		return domain.Appointment{}, errInvalidTime
	}

	blocking, err := s.repo.ListBlocking(ctx, professional.ID, start, end)
	if err != nil {
		return domain.Appointment{}, err
	}
	if len(blocking) > 0 {
		return domain.Appointment{}, errConflict.WithDetails(map[string]any{
			"conflictingAppointmentId": string(blocking[0].ID),
		})
	}

	a := domain.Appointment{
		ID:             s.newAppointmentID(),
		CompanyID:      company.ID,
		ClientID:       in.ClientID,
		ProfessionalID: professional.ID,
		OfferingID:     offering.ID,
		StartTime:      start,
		EndTime:        end,
		Status:         domain.AppointmentScheduled,
		CreatedAt:      s.clk.Now(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		// Lost a race with a concurrent booking.
		if errors.Is(err, appointmentrepo.ErrOverlap) {
			return domain.Appointment{}, errConflict
		}
		return domain.Appointment{}, err
	}
	return a, nil
}

func (s *Service) ListAppointments(ctx context.Context, subject domain.SubjectID, f ListAppointmentsFilter) ([]domain.Appointment, error) {
	company, err := companies.RequireOwned(ctx, s.companies, subject)
	if err != nil {
		return nil, err
	}
	if f.From != nil && f.To != nil && !f.To.After(*f.From) {
		return nil, apperr.Validation("to", "must be after from")
	}
	if f.Status != nil && !f.Status.Valid() {
		return nil, apperr.Validation("status", "must be one of scheduled, completed, canceled")
	}
	return s.repo.ListByCompany(ctx, company.ID, appointmentrepo.Filter{
		From:           f.From,
		To:             f.To,
		Status:         f.Status,
		ProfessionalID: f.ProfessionalID,
	})
}

func (s *Service) GetAppointment(ctx context.Context, subject domain.SubjectID, id domain.AppointmentID) (domain.Appointment, error) {
	company, err := companies.RequireOwned(ctx, s.companies, subject)
	if err != nil {
		return domain.Appointment{}, err
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentrepo.ErrNotFound) {
			return domain.Appointment{}, errNotFound
		}
		return domain.Appointment{}, err
	}
	if a.CompanyID != company.ID {
		return domain.Appointment{}, errForbidden
	}
	return a, nil
}

// UpdateAppointmentStatus moves a scheduled appointment to completed or canceled.
func (s *Service) UpdateAppointmentStatus(ctx context.Context, subject domain.SubjectID, id domain.AppointmentID, status domain.AppointmentStatus) (domain.Appointment, error) {
	company, err := companies.RequireOwned(ctx, s.companies, subject)
	if err != nil {
		return domain.Appointment{}, err
	}
	if !status.Valid() {
		return domain.Appointment{}, apperr.Validation("status", "must be one of scheduled, completed, canceled")
	}

	a, err := s.repo.Update(ctx, id, func(cur *domain.Appointment) error {
		if cur.CompanyID != company.ID {
			return errForbidden
		}
		if !cur.Status.CanTransitionTo(status) {
			return errTransition.WithDetails(map[string]any{
				"from": string(cur.Status),
				"to":   string(status),
			})
		}
		cur.Status = status
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, appointmentrepo.ErrNotFound):
			return domain.Appointment{}, errNotFound
		case errors.Is(err, appointmentrepo.ErrNoRowsAffected):
			return domain.Appointment{}, errUpdateFailed
		}
		return domain.Appointment{}, err
	}
	return a, nil
}

func (s *Service) DeleteAppointment(ctx context.Context, subject domain.SubjectID, id domain.AppointmentID) error {
	company, err := companies.RequireOwned(ctx, s.companies, subject)
	if err != nil {
		return err
	}
	err = s.repo.Delete(ctx, id, func(cur domain.Appointment) error {
		if cur.CompanyID != company.ID {
			return errForbidden
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, appointmentrepo.ErrNotFound):
			return errNotFound
		case errors.Is(err, appointmentrepo.ErrNoRowsAffected):
			return errDeleteFailed
		}
		return err
	}
	return nil
}
