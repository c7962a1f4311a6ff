package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/attend-app/attend-api/internal/ports/out/sessions"
)

type RouterOptions struct {
	// Sessions resolves the caller on authenticated routes. Required.
	Sessions sessions.Resolver
	// AuthProxy receives /api/auth/* traffic. Nil leaves those routes unmounted.
	AuthProxy http.Handler

	AuthRateLimitRPS   float64
	AuthRateLimitBurst int

	CORSAllowedOrigins []string
	Logger             *slog.Logger
}

// NewRouter constructs the API HTTP router.
func NewRouter(s *Server, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(echoRequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(opts.Logger))
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)
	if len(opts.CORSAllowedOrigins) > 0 {
		r.Use(corsHandler(opts.CORSAllowedOrigins))
	}

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Get("/", handle(s.root))
	registerHealthRoutes(r, s)
	registerAuthPassthrough(r, opts)

	r.Group(func(r chi.Router) {
		r.Use(NewAuthMiddleware(opts.Sessions))

		registerAuthRoutes(r, s)
		registerCompanyRoutes(r, s)
		registerOfferingRoutes(r, s)
		registerProfessionalRoutes(r, s)
		registerClientRoutes(r, s)
		registerAppointmentRoutes(r, s)
	})
	return r
}

func registerHealthRoutes(r chi.Router, s *Server) {
	r.Get("/health", handle(s.getHealth))
}

func registerAuthPassthrough(r chi.Router, opts RouterOptions) {
	if opts.AuthProxy == nil {
		return
	}
	r.Route("/api/auth", func(r chi.Router) {
		if opts.AuthRateLimitRPS > 0 {
			burst := opts.AuthRateLimitBurst
			if burst <= 0 {
				burst = 1
			}
			r.Use(newIPRateLimiter(opts.AuthRateLimitRPS, burst).middleware)
		}
		r.Get("/*", opts.AuthProxy.ServeHTTP)
		r.Post("/*", opts.AuthProxy.ServeHTTP)
	})
}

func registerAuthRoutes(r chi.Router, s *Server) {
	r.Get("/auth/me", handle(s.getMe))
}

func registerCompanyRoutes(r chi.Router, s *Server) {
	r.Post("/companies", handle(s.createCompany))
	r.Get("/companies/me", handle(s.getMyCompany))
	r.Get("/companies/{companyId}", handle(s.getCompany))
	r.Put("/companies/{companyId}", handle(s.updateCompany))
	r.Delete("/companies/{companyId}", handle(s.deleteCompany))
}

func registerOfferingRoutes(r chi.Router, s *Server) {
	r.Post("/services", handle(s.createOffering))
	r.Get("/services", handle(s.listOfferings))
	r.Get("/services/{serviceId}", handle(s.getOffering))
	r.Put("/services/{serviceId}", handle(s.updateOffering))
	r.Delete("/services/{serviceId}", handle(s.deleteOffering))
}

func registerProfessionalRoutes(r chi.Router, s *Server) {
	r.Post("/professionals", handle(s.createProfessional))
	r.Get("/professionals", handle(s.listProfessionals))
	r.Get("/professionals/{professionalId}", handle(s.getProfessional))
	r.Put("/professionals/{professionalId}", handle(s.updateProfessional))
	r.Delete("/professionals/{professionalId}", handle(s.deleteProfessional))
	r.Get("/professionals/{professionalId}/services", handle(s.listProfessionalServices))
	r.Put("/professionals/{professionalId}/services", handle(s.setProfessionalServices))
}

func registerClientRoutes(r chi.Router, s *Server) {
	r.Post("/clients", handle(s.createClient))
	r.Get("/clients", handle(s.listClients))
	r.Get("/clients/{clientId}", handle(s.getClient))
	r.Put("/clients/{clientId}", handle(s.updateClient))
	r.Delete("/clients/{clientId}", handle(s.deleteClient))
}

func registerAppointmentRoutes(r chi.Router, s *Server) {
	r.Post("/appointments", handle(s.createAppointment))
	r.Get("/appointments", handle(s.listAppointments))
	r.Get("/appointments/{appointmentId}", handle(s.getAppointment))
	r.Put("/appointments/{appointmentId}/status", handle(s.updateAppointmentStatus))
	r.Delete("/appointments/{appointmentId}", handle(s.deleteAppointment))
}
