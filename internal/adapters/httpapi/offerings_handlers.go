package httpapi

import (
	"net/http"

	"github.com/oapi-codegen/nullable"

	"github.com/attend-app/attend-api/internal/app/offerings"
	"github.com/attend-app/attend-api/internal/domain"
)

type createOfferingRequest struct {
	Name            string  `json:"name" validate:"required,max=255"`
	Description     *string `json:"description"`
	DurationMinutes int     `json:"durationMinutes" validate:"required,gt=0"`
	PriceCents      *int    `json:"priceCents" validate:"required,gte=0"`
}

type updateOfferingRequest struct {
	Name            nullable.Nullable[string] `json:"name"`
	Description     nullable.Nullable[string] `json:"description"`
	DurationMinutes nullable.Nullable[int]    `json:"durationMinutes"`
	PriceCents      nullable.Nullable[int]    `json:"priceCents"`
}

func (s *Server) createOffering(w http.ResponseWriter, r *http.Request) error {
	sub, err := subjectFrom(r.Context())
	if err != nil {
		return err
	}
	var body createOfferingRequest
	if err := s.decodeBody(w, r, &body); err != nil {
		return err
	}
	o, err := s.svc.Offerings.CreateOffering(r.Context(), sub, offerings.CreateOfferingInput{
		Name:            body.Name,
		Description:     body.Description,
		DurationMinutes: body.DurationMinutes,
		PriceCents:      *body.PriceCents,
	})
	if err != nil {
		return err
	}
	return writeCreated(w, r, offeringFromDomain(o))
}

func (s *Server) listOfferings(w http.ResponseWriter, r *http.Request) error {
	sub, err := subjectFrom(r.Context())
	if err != nil {
		return err
	}
	list, err := s.svc.Offerings.ListOfferings(r.Context(), sub)
	if err != nil {
		return err
	}
	return writeOK(w, r, mapViews(list, offeringFromDomain))
}

func (s *Server) getOffering(w http.ResponseWriter, r *http.Request) error {
	sub, err := subjectFrom(r.Context())
	if err != nil {
		return err
	}
	id, err := pathUUID(r, "serviceId")
	if err != nil {
		return err
	}
	o, err := s.svc.Offerings.GetOffering(r.Context(), sub, domain.OfferingID(id))
	if err != nil {
		return err
	}
	return writeOK(w, r, offeringFromDomain(o))
}

func (s *Server) updateOffering(w http.ResponseWriter, r *http.Request) error {
	sub, err := subjectFrom(r.Context())
	if err != nil {
		return err
	}
	id, err := pathUUID(r, "serviceId")
	if err != nil {
		return err
	}
	var body updateOfferingRequest
	if err := s.decodeBody(w, r, &body); err != nil {
		return err
	}
	o, err := s.svc.Offerings.UpdateOffering(r.Context(), sub, domain.OfferingID(id), offerings.UpdateOfferingInput{
		Name:            optionalFromNullable(body.Name),
		Description:     optionalFromNullable(body.Description),
		DurationMinutes: optionalFromNullable(body.DurationMinutes),
		PriceCents:      optionalFromNullable(body.PriceCents),
	})
	if err != nil {
		return err
	}
	return writeOK(w, r, offeringFromDomain(o))
}

func (s *Server) deleteOffering(w http.ResponseWriter, r *http.Request) error {
	sub, err := subjectFrom(r.Context())
	if err != nil {
		return err
	}
	id, err := pathUUID(r, "serviceId")
	if err != nil {
		return err
	}
	if err := s.svc.Offerings.DeleteOffering(r.Context(), sub, domain.OfferingID(id)); err != nil {
		return err
	}
	return writeNoContent(w)
}
