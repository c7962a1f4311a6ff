package httpapi

import (
	"net/http"
)

func (s *Server) root(w http.ResponseWriter, r *http.Request) error {
	return writeOK(w, r, rootView{
		Message: "Attend Backend API",
		Version: s.version,
		Docs:    "/docs",
	})
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) error {
	report, err := s.svc.Health.Check(r.Context())
	if err != nil {
		return err
	}
	return writeOK(w, r, healthFromReport(report))
}

func (s *Server) getMe(w http.ResponseWriter, r *http.Request) error {
	sess, ok := SessionFromContext(r.Context())
	if !ok {
		return errUnauthorized
	}
	return writeOK(w, r, meFromDomain(sess))
}
