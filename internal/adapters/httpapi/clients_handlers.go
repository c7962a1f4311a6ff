package httpapi

import (
	"net/http"

	"github.com/oapi-codegen/nullable"

	"github.com/attend-app/attend-api/internal/app/clients"
	"github.com/attend-app/attend-api/internal/domain"
)

type createClientRequest struct {
	Name  string  `json:"name" validate:"required,max=255"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

type updateClientRequest struct {
	Name  nullable.Nullable[string] `json:"name"`
	Email nullable.Nullable[string] `json:"email"`
	Phone nullable.Nullable[string] `json:"phone"`
}

func (s *Server) createClient(w http.ResponseWriter, r *http.Request) error {
	sub, err := subjectFrom(r.Context())
	if err != nil {
		return err
	}
	var body createClientRequest
	if err := s.decodeBody(w, r, &body); err != nil {
		return err
	}
	c, err := s.svc.Clients.CreateClient(r.Context(), sub, clients.CreateClientInput{
		Name:  body.Name,
		Email: body.Email,
		Phone: body.Phone,
	})
	if err != nil {
		return err
	}
	return writeCreated(w, r, clientFromDomain(c))
}

func (s *Server) listClients(w http.ResponseWriter, r *http.Request) error {
	sub, err := subjectFrom(r.Context())
	if err != nil {
		return err
	}
	cs, err := s.svc.Clients.ListClients(r.Context(), sub)
	if err != nil {
		return err
	}
	return writeOK(w, r, mapViews(cs, clientFromDomain))
}

func (s *Server) getClient(w http.ResponseWriter, r *http.Request) error {
	sub, err := subjectFrom(r.Context())
	if err != nil {
		return err
	}
	id, err := pathUUID(r, "clientId")
	if err != nil {
		return err
	}
	c, err := s.svc.Clients.GetClient(r.Context(), sub, domain.ClientID(id))
	if err != nil {
		return err
	}
	return writeOK(w, r, clientFromDomain(c))
}

func (s *Server) updateClient(w http.ResponseWriter, r *http.Request) error {
	sub, err := subjectFrom(r.Context())
	if err != nil {
		return err
	}
	id, err := pathUUID(r, "clientId")
	if err != nil {
		return err
	}
	var body updateClientRequest
	if err := s.decodeBody(w, r, &body); err != nil {
		return err
	}
	c, err := s.svc.Clients.UpdateClient(r.Context(), sub, domain.ClientID(id), clients.UpdateClientInput{
		Name:  optionalFromNullable(body.Name),
		Email: optionalFromNullable(body.Email),
		Phone: optionalFromNullable(body.Phone),
	})
	if err != nil {
		return err
	}
	return writeOK(w, r, clientFromDomain(c))
}

func (s *Server) deleteClient(w http.ResponseWriter, r *http.Request) error {
	sub, err := subjectFrom(r.Context())
	if err != nil {
		return err
	}
	id, err := pathUUID(r, "clientId")
	if err != nil {
		return err
	}
	if err := s.svc.Clients.DeleteClient(r.Context(), sub, domain.ClientID(id)); err != nil {
		return err
	}
	return writeNoContent(w)
}
