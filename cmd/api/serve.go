package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/attend-app/attend-api/internal/adapters/httpapi"
	"github.com/attend-app/attend-api/internal/adapters/memory"
	memidempotency "github.com/attend-app/attend-api/internal/adapters/memory/idempotency"
	postgres "github.com/attend-app/attend-api/internal/adapters/postgres"
	pgappointmentrepo "github.com/attend-app/attend-api/internal/adapters/postgres/appointmentrepo"
	pgclientrepo "github.com/attend-app/attend-api/internal/adapters/postgres/clientrepo"
	pgcompanyrepo "github.com/attend-app/attend-api/internal/adapters/postgres/companyrepo"
	pgidempotency "github.com/attend-app/attend-api/internal/adapters/postgres/idempotency"
	pgofferingrepo "github.com/attend-app/attend-api/internal/adapters/postgres/offeringrepo"
	pgprofessionalrepo "github.com/attend-app/attend-api/internal/adapters/postgres/professionalrepo"
	"github.com/attend-app/attend-api/internal/adapters/sessions/authserver"
	"github.com/attend-app/attend-api/internal/adapters/sessions/devsession"
	"github.com/attend-app/attend-api/internal/adapters/sessions/jwtsession"
	"github.com/attend-app/attend-api/internal/app/appointments"
	"github.com/attend-app/attend-api/internal/app/clients"
	"github.com/attend-app/attend-api/internal/app/companies"
	"github.com/attend-app/attend-api/internal/app/health"
	"github.com/attend-app/attend-api/internal/app/offerings"
	"github.com/attend-app/attend-api/internal/app/professionals"
	"github.com/attend-app/attend-api/internal/platform/auth/jwtverifier"
	platformclock "github.com/attend-app/attend-api/internal/platform/clock"
	"github.com/attend-app/attend-api/internal/platform/config"
	appointmentrepoport "github.com/attend-app/attend-api/internal/ports/out/appointmentrepo"
	clientrepoport "github.com/attend-app/attend-api/internal/ports/out/clientrepo"
	clockport "github.com/attend-app/attend-api/internal/ports/out/clock"
	companyrepoport "github.com/attend-app/attend-api/internal/ports/out/companyrepo"
	idempotencyport "github.com/attend-app/attend-api/internal/ports/out/idempotency"
	offeringrepoport "github.com/attend-app/attend-api/internal/ports/out/offeringrepo"
	professionalrepoport "github.com/attend-app/attend-api/internal/ports/out/professionalrepo"
	"github.com/attend-app/attend-api/internal/ports/out/sessions"
)

type repos struct {
	companies     companyrepoport.Repository
	offerings     offeringrepoport.Repository
	professionals professionalrepoport.Repository
	clients       clientrepoport.Repository
	appointments  appointmentrepoport.Repository
	idempotency   idempotencyport.Store
	pinger        health.Pinger
	close         func()
}

// openRepos selects the storage backend. Postgres is migrated on startup.
func openRepos(ctx context.Context, cfg config.Config) (repos, error) {
	if cfg.StorageBackend != config.StoragePostgres {
		mem := memory.NewRepos()
		return repos{
			companies:     mem.Companies,
			offerings:     mem.Offerings,
			professionals: mem.Professionals,
			clients:       mem.Clients,
			appointments:  mem.Appointments,
			idempotency:   memidempotency.NewStore(),
			close:         func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{MaxConns: cfg.DBMaxConns})
	if err != nil {
		return repos{}, err
	}
	if err := postgres.MigrateUp(ctx, pool); err != nil {
		pool.Close()
		return repos{}, err
	}
	return repos{
		companies:     pgcompanyrepo.NewRepo(pool),
		offerings:     pgofferingrepo.NewRepo(pool),
		professionals: pgprofessionalrepo.NewRepo(pool),
		clients:       pgclientrepo.NewRepo(pool),
		appointments:  pgappointmentrepo.NewRepo(pool),
		idempotency:   pgidempotency.NewStore(pool),
		pinger:        pool,
		close:         pool.Close,
	}, nil
}

// sessionResolver selects how callers are authenticated. The auth proxy is
// only mounted when sessions come from the auth server.
func sessionResolver(cfg config.Config) (sessions.Resolver, http.Handler, error) {
	switch cfg.AuthMode {
	case config.AuthModeAuthServer:
		proxy, err := httpapi.NewAuthProxy(cfg.AuthServerURL, nil)
		if err != nil {
			return nil, nil, err
		}
		client := authserver.New(cfg.AuthServerURL, &http.Client{Timeout: cfg.AuthTimeout})
		return client, proxy, nil
	case config.AuthModeJWT:
		return jwtsession.New(jwtverifier.New(cfg.JWT)), nil, nil
	default:
		slog.Warn("dev auth enabled; X-Debug-Subject is trusted", "default_subject", cfg.DevSubject)
		return devsession.New(cfg.DevSubject), nil, nil
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	clk := platformclock.NewSystemClock()

	r, err := openRepos(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer r.close()

	resolver, authProxy, err := sessionResolver(cfg)
	if err != nil {
		return fmt.Errorf("auth setup: %w", err)
	}

	clientSvc := clients.NewService(r.companies, r.clients, clk)
	offeringSvc := offerings.NewService(r.companies, r.offerings, clk)
	professionalSvc := professionals.NewService(r.companies, r.professionals, r.offerings, clk)
	api := httpapi.NewServer(httpapi.Services{
		Health:        health.NewService(cfg.Version, r.pinger, clk),
		Companies:     companies.NewService(r.companies, clk),
		Offerings:     offeringSvc,
		Professionals: professionalSvc,
		Clients:       clientSvc,
		Appointments:  appointments.NewService(r.companies, r.appointments, clientSvc, professionalSvc, offeringSvc, clk),
	}, r.idempotency, clk, cfg.Version)

	handler := httpapi.NewRouter(api, httpapi.RouterOptions{
		Sessions:           resolver,
		AuthProxy:          authProxy,
		AuthRateLimitRPS:   cfg.RateLimitRPS,
		AuthRateLimitBurst: cfg.RateLimitBurst,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:             slog.Default(),
	})

	go purgeIdempotencyKeys(ctx, r.idempotency, clk, time.Hour)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("api listening", "port", cfg.Port, "storage", cfg.StorageBackend, "auth", cfg.AuthMode, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// purgeIdempotencyKeys drops replay records that can no longer be replayed.
func purgeIdempotencyKeys(ctx context.Context, store idempotencyport.Store, clk clockport.Clock, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.Purge(ctx, clk.Now().Add(-httpapi.IdempotencyTTL))
			if err != nil {
				slog.Warn("idempotency purge failed", "err", err)
				continue
			}
			if n > 0 {
				slog.Debug("idempotency keys purged", "count", n)
			}
		}
	}
}
