package httpapi

import (
	"net/http"

	"github.com/attend-app/attend-api/internal/app/companies"
	"github.com/attend-app/attend-api/internal/domain"
)

type companyRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

func (s *Server) createCompany(w http.ResponseWriter, r *http.Request) error {
	sub, err := subjectFrom(r.Context())
	if err != nil {
		return err
	}
	var body companyRequest
	if err := s.decodeBody(w, r, &body); err != nil {
		return err
	}
	c, err := s.svc.Companies.CreateCompany(r.Context(), companies.CreateCompanyInput{Name: body.Name}, sub)
	if err != nil {
		return err
	}
	return writeCreated(w, r, companyFromDomain(c))
}

func (s *Server) getMyCompany(w http.ResponseWriter, r *http.Request) error {
	sub, err := subjectFrom(r.Context())
	if err != nil {
		return err
	}
	c, err := s.svc.Companies.GetMyCompany(r.Context(), sub)
	if err != nil {
		return err
	}
	return writeOK(w, r, companyFromDomain(c))
}

func (s *Server) getCompany(w http.ResponseWriter, r *http.Request) error {
	sub, err := subjectFrom(r.Context())
	if err != nil {
		return err
	}
	id, err := pathUUID(r, "companyId")
	if err != nil {
		return err
	}
	c, err := s.svc.Companies.GetOwnedCompanyByID(r.Context(), domain.CompanyID(id), sub)
	if err != nil {
		return err
	}
	return writeOK(w, r, companyFromDomain(c))
}

func (s *Server) updateCompany(w http.ResponseWriter, r *http.Request) error {
	sub, err := subjectFrom(r.Context())
	if err != nil {
		return err
	}
	id, err := pathUUID(r, "companyId")
	if err != nil {
		return err
	}
	var body companyRequest
	if err := s.decodeBody(w, r, &body); err != nil {
		return err
	}
	c, err := s.svc.Companies.UpdateCompany(r.Context(), domain.CompanyID(id), companies.UpdateCompanyInput{Name: body.Name}, sub)
	if err != nil {
		return err
	}
	return writeOK(w, r, companyFromDomain(c))
}

func (s *Server) deleteCompany(w http.ResponseWriter, r *http.Request) error {
	sub, err := subjectFrom(r.Context())
	if err != nil {
		return err
	}
	id, err := pathUUID(r, "companyId")
	if err != nil {
		return err
	}
	if err := s.svc.Companies.DeleteCompany(r.Context(), domain.CompanyID(id), sub); err != nil {
		return err
	}
	return writeNoContent(w)
}
