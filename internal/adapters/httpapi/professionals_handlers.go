package httpapi

import (
	"net/http"

	"github.com/attend-app/attend-api/internal/app/professionals"
	"github.com/attend-app/attend-api/internal/domain"
)

type createProfessionalRequest struct {
	Name       string   `json:"name" validate:"required,max=255"`
	ServiceIDs []string `json:"serviceIds" validate:"omitempty,dive,uuid"`
}

type updateProfessionalRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type professionalServicesRequest struct {
	ServiceIDs []string `json:"serviceIds" validate:"required,dive,uuid"`
}

func offeringIDs(raw []string) []domain.OfferingID {
	out := make([]domain.OfferingID, 0, len(raw))
	for _, id := range raw {
		out = append(out, domain.OfferingID(id))
	}
	return out
}

func (s *Server) createProfessional(w http.ResponseWriter, r *http.Request) error {
	sub, err := subjectFrom(r.Context())
	if err != nil {
		return err
	}
	var body createProfessionalRequest
	if err := s.decodeBody(w, r, &body); err != nil {
		return err
	}
	p, err := s.svc.Professionals.CreateProfessional(r.Context(), sub, professionals.CreateProfessionalInput{
		Name:        body.Name,
		OfferingIDs: offeringIDs(body.ServiceIDs),
	})
	if err != nil {
		return err
	}
	return writeCreated(w, r, professionalFromDomain(p))
}

func (s *Server) listProfessionals(w http.ResponseWriter, r *http.Request) error {
	sub, err := subjectFrom(r.Context())
	if err != nil {
		return err
	}
	ps, err := s.svc.Professionals.ListProfessionals(r.Context(), sub)
	if err != nil {
		return err
	}
	return writeOK(w, r, mapViews(ps, professionalFromDomain))
}

func (s *Server) getProfessional(w http.ResponseWriter, r *http.Request) error {
	sub, err := subjectFrom(r.Context())
	if err != nil {
		return err
	}
	id, err := pathUUID(r, "professionalId")
	if err != nil {
		return err
	}
	p, err := s.svc.Professionals.GetProfessional(r.Context(), sub, domain.ProfessionalID(id))
	if err != nil {
		return err
	}
	return writeOK(w, r, professionalFromDomain(p))
}

func (s *Server) updateProfessional(w http.ResponseWriter, r *http.Request) error {
	sub, err := subjectFrom(r.Context())
	if err != nil {
		return err
	}
	id, err := pathUUID(r, "professionalId")
	if err != nil {
		return err
	}
	var body updateProfessionalRequest
	if err := s.decodeBody(w, r, &body); err != nil {
		return err
	}
	p, err := s.svc.Professionals.UpdateProfessional(r.Context(), sub, domain.ProfessionalID(id), professionals.UpdateProfessionalInput{Name: body.Name})
	if err != nil {
		return err
	}
	return writeOK(w, r, professionalFromDomain(p))
}

func (s *Server) deleteProfessional(w http.ResponseWriter, r *http.Request) error {
	sub, err := subjectFrom(r.Context())
	if err != nil {
		return err
	}
	id, err := pathUUID(r, "professionalId")
	if err != nil {
		return err
	}
	if err := s.svc.Professionals.DeleteProfessional(r.Context(), sub, domain.ProfessionalID(id)); err != nil {
		return err
	}
	return writeNoContent(w)
}

func (s *Server) listProfessionalServices(w http.ResponseWriter, r *http.Request) error {
	sub, err := subjectFrom(r.Context())
	if err != nil {
		return err
	}
	id, err := pathUUID(r, "professionalId")
	if err != nil {
		return err
	}
	list, err := s.svc.Professionals.ListProfessionalServices(r.Context(), sub, domain.ProfessionalID(id))
	if err != nil {
		return err
	}
	return writeOK(w, r, mapViews(list, offeringFromDomain))
}

func (s *Server) setProfessionalServices(w http.ResponseWriter, r *http.Request) error {
	sub, err := subjectFrom(r.Context())
	if err != nil {
		return err
	}
	id, err := pathUUID(r, "professionalId")
	if err != nil {
		return err
	}
	var body professionalServicesRequest
	if err := s.decodeBody(w, r, &body); err != nil {
		return err
	}
	list, err := s.svc.Professionals.SetProfessionalServices(r.Context(), sub, domain.ProfessionalID(id), offeringIDs(body.ServiceIDs))
	if err != nil {
		return err
	}
	return writeOK(w, r, mapViews(list, offeringFromDomain))
}
