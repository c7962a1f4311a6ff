package httpapi

import (
	"github.com/go-playground/validator/v10"

	"github.com/attend-app/attend-api/internal/app/appointments"
	"github.com/attend-app/attend-api/internal/app/clients"
	"github.com/attend-app/attend-api/internal/app/companies"
	"github.com/attend-app/attend-api/internal/app/health"
	"github.com/attend-app/attend-api/internal/app/offerings"
	"github.com/attend-app/attend-api/internal/app/professionals"
	clockport "github.com/attend-app/attend-api/internal/ports/out/clock"
	"github.com/attend-app/attend-api/internal/ports/out/idempotency"
)

// Services are the application services the handlers delegate to.
type Services struct {
	Health        *health.Service
	Companies     *companies.Service
	Offerings     *offerings.Service
	Professionals *professionals.Service
	Clients       *clients.Service
	Appointments  *appointments.Service
}

// Server holds the handlers' collaborators.
type Server struct {
	svc      Services
	idem     idempotency.Store
	clk      clockport.Clock
	version  string
	validate *validator.Validate
}

// NewServer wires the handlers. idem may be nil to disable request replay.
func NewServer(svc Services, idem idempotency.Store, clk clockport.Clock, version string) *Server {
	return &Server{
		svc:      svc,
		idem:     idem,
		clk:      clk,
		version:  version,
		validate: newValidator(),
	}
}
