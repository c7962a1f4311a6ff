// Package health reports process liveness and storage reachability.
package health

import (
	"context"
	"time"

	"github.com/attend-app/attend-api/internal/app/apperr"
	clockport "github.com/attend-app/attend-api/internal/ports/out/clock"
)

var errCheckFailed = apperr.New(apperr.CodeHealthCheckFailed, "Health check failed.")

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Report struct {
	Status    string
	Timestamp time.Time
	// Uptime is in seconds.
	Uptime  float64
	Version string
}

type Service struct {
	startedAt time.Time
	version   string
	pinger    Pinger
	clk       clockport.Clock
}

// NewService records the current instant as process start. pinger may be nil.
func NewService(version string, pinger Pinger, clk clockport.Clock) *Service {
	return &Service{
		startedAt: clk.Now(),
		version:   version,
		pinger:    pinger,
		clk:       clk,
	}
}

func (s *Service) Check(ctx context.Context) (Report, error) {
	if s.pinger != nil {
		if err := s.pinger.Ping(ctx); err != nil {
			return Report{}, errCheckFailed
		}
	}
	now := s.clk.Now()
	return Report{
		Status:    "ok",
		Timestamp: now,
		Uptime:    now.Sub(s.startedAt).Seconds(),
		Version:   s.version,
	}, nil
}
