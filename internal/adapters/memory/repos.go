// Package memory links the in-memory repositories into one store with the
// same referential behaviour as the Postgres schema.
package memory

import (
	"github.com/attend-app/attend-api/internal/adapters/memory/appointmentrepo"
	"github.com/attend-app/attend-api/internal/adapters/memory/clientrepo"
	"github.com/attend-app/attend-api/internal/adapters/memory/companyrepo"
	"github.com/attend-app/attend-api/internal/adapters/memory/offeringrepo"
	"github.com/attend-app/attend-api/internal/adapters/memory/professionalrepo"
	"github.com/attend-app/attend-api/internal/domain"
)

type Repos struct {
	Companies     *companyrepo.Repo
	Offerings     *offeringrepo.Repo
	Professionals *professionalrepo.Repo
	Clients       *clientrepo.Repo
	Appointments  *appointmentrepo.Repo
}

// NewRepos returns linked repositories:
//   - deleting a company removes everything it owns
//   - deleting an offering unlinks it from professionals
//   - clients, professionals and offerings referenced by an appointment
//     cannot be deleted
//
// Lock order is companies, then offerings/professionals/clients, then
// appointments; no repo calls back up that chain.
func NewRepos() Repos {
	r := Repos{
		Companies:     companyrepo.NewRepo(),
		Offerings:     offeringrepo.NewRepo(),
		Professionals: professionalrepo.NewRepo(),
		Clients:       clientrepo.NewRepo(),
		Appointments:  appointmentrepo.NewRepo(),
	}

	r.Offerings.Link(func(id domain.OfferingID) bool {
		return r.Appointments.References(func(a domain.Appointment) bool { return a.OfferingID == id })
	}, r.Professionals.RemoveOffering)
	r.Professionals.Link(func(id domain.ProfessionalID) bool {
		return r.Appointments.References(func(a domain.Appointment) bool { return a.ProfessionalID == id })
	})
	r.Clients.Link(func(id domain.ClientID) bool {
		return r.Appointments.References(func(a domain.Appointment) bool { return a.ClientID == id })
	})
	r.Companies.OnDelete(func(id domain.CompanyID) {
		r.Appointments.DeleteByCompany(id)
		r.Offerings.DeleteByCompany(id)
		r.Professionals.DeleteByCompany(id)
		r.Clients.DeleteByCompany(id)
	})
	return r
}
