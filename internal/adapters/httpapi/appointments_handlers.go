package httpapi

import (
	"net/http"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/attend-app/attend-api/internal/app/appointments"
	"github.com/attend-app/attend-api/internal/domain"
)

const createAppointmentRoute = "POST /appointments"

type createAppointmentRequest struct {
	ClientID       string     `json:"clientId" validate:"required,uuid"`
	ProfessionalID string     `json:"professionalId" validate:"required,uuid"`
	ServiceID      string     `json:"serviceId" validate:"required,uuid"`
	StartTime      *time.Time `json:"startTime" validate:"required"`
	EndTime        *time.Time `json:"endTime"`
}

type appointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled completed canceled"`
}

func (s *Server) createAppointment(w http.ResponseWriter, r *http.Request) error {
	sub, err := subjectFrom(r.Context())
	if err != nil {
		return err
	}
	var body createAppointmentRequest
	if err := s.decodeBody(w, r, &body); err != nil {
		return err
	}
	return s.idempotent(w, r, sub, createAppointmentRoute, body, func() (int, any, error) {
		a, err := s.svc.Appointments.CreateAppointment(r.Context(), sub, appointments.CreateAppointmentInput{
			ClientID:       domain.ClientID(body.ClientID),
			ProfessionalID: domain.ProfessionalID(body.ProfessionalID),
			OfferingID:     domain.OfferingID(body.ServiceID),
			StartTime:      *body.StartTime,
			EndTime:        body.EndTime,
		})
		if err != nil {
			return 0, nil, err
		}
		return http.StatusCreated, Created(appointmentFromDomain(a), requestMeta(r)), nil
	})
}

func (s *Server) listAppointments(w http.ResponseWriter, r *http.Request) error {
	sub, err := subjectFrom(r.Context())
	if err != nil {
		return err
	}

	var (
		from, to       *time.Time
		status         *string
		professionalID *openapi_types.UUID
	)
	if err := queryParam(r, "from", &from, "must be an RFC 3339 date-time"); err != nil {
		return err
	}
	if err := queryParam(r, "to", &to, "must be an RFC 3339 date-time"); err != nil {
		return err
	}
	if err := queryParam(r, "status", &status, "must be one of scheduled, completed, canceled"); err != nil {
		return err
	}
	if err := queryParam(r, "professionalId", &professionalID, "must be a UUID"); err != nil {
		return err
	}

	f := appointments.ListAppointmentsFilter{From: from, To: to}
	if status != nil {
		st := domain.AppointmentStatus(*status)
		f.Status = &st
	}
	if professionalID != nil {
		pid := domain.ProfessionalID(professionalID.String())
		f.ProfessionalID = &pid
	}

	list, err := s.svc.Appointments.ListAppointments(r.Context(), sub, f)
	if err != nil {
		return err
	}
	return writeOK(w, r, mapViews(list, appointmentFromDomain))
}

func (s *Server) getAppointment(w http.ResponseWriter, r *http.Request) error {
	sub, err := subjectFrom(r.Context())
	if err != nil {
		return err
	}
	id, err := pathUUID(r, "appointmentId")
	if err != nil {
		return err
	}
	a, err := s.svc.Appointments.GetAppointment(r.Context(), sub, domain.AppointmentID(id))
	if err != nil {
		return err
	}
	return writeOK(w, r, appointmentFromDomain(a))
}

func (s *Server) updateAppointmentStatus(w http.ResponseWriter, r *http.Request) error {
	sub, err := subjectFrom(r.Context())
	if err != nil {
		return err
	}
	id, err := pathUUID(r, "appointmentId")
	if err != nil {
		return err
	}
	var body appointmentStatusRequest
	if err := s.decodeBody(w, r, &body); err != nil {
		return err
	}
	a, err := s.svc.Appointments.UpdateAppointmentStatus(r.Context(), sub, domain.AppointmentID(id), domain.AppointmentStatus(body.Status))
	if err != nil {
		return err
	}
	return writeOK(w, r, appointmentFromDomain(a))
}

func (s *Server) deleteAppointment(w http.ResponseWriter, r *http.Request) error {
	sub, err := subjectFrom(r.Context())
	if err != nil {
		return err
	}
	id, err := pathUUID(r, "appointmentId")
	if err != nil {
		return err
	}
	if err := s.svc.Appointments.DeleteAppointment(r.Context(), sub, domain.AppointmentID(id)); err != nil {
		return err
	}
	return writeNoContent(w)
}
