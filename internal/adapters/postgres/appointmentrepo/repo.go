package appointmentrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/attend-app/attend-api/internal/adapters/postgres"
	"github.com/attend-app/attend-api/internal/domain"
	"github.com/attend-app/attend-api/internal/ports/out/appointmentrepo"
)

const selectAppointment = `
	SELECT id, company_id, client_id, professional_id, service_id, start_time, end_time, status, created_at
	FROM appointments
`

// Repo is a Postgres implementation of appointmentrepo.Repository.
// Overlap between scheduled appointments of one professional is enforced
// by the appointments_no_overlap exclusion constraint.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, a domain.Appointment) error {
	if r.pool == nil {
		return postgres.ErrNilPool
	}
	ids, err := parseIDs(string(a.ID), string(a.CompanyID), string(a.ClientID), string(a.ProfessionalID), string(a.OfferingID))
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO appointments (
			id,
			company_id,
			client_id,
			professional_id,
			service_id,
			start_time,
			end_time,
			status,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		ids[0], ids[1], ids[2], ids[3], ids[4],
		a.StartTime.UTC(),
		a.EndTime.UTC(),
		string(a.Status),
		a.CreatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok {
			switch {
			case pe.Code == postgres.ExclusionViolationCode:
				return appointmentrepo.ErrOverlap
			case pe.Code == postgres.UniqueViolationCode && pe.ConstraintName == "appointments_pkey":
				return appointmentrepo.ErrAlreadyExists
			}
		}
		return err
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.AppointmentID) (domain.Appointment, error) {
	if r.pool == nil {
		return domain.Appointment{}, postgres.ErrNilPool
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Appointment{}, appointmentrepo.ErrNotFound
	}
	return scanAppointment(r.pool.QueryRow(ctx, selectAppointment+` WHERE id = $1`, uid))
}

func (r *Repo) ListByCompany(ctx context.Context, companyID domain.CompanyID, f appointmentrepo.Filter) ([]domain.Appointment, error) {
	if r.pool == nil {
		return nil, postgres.ErrNilPool
	}
	cid, err := uuid.Parse(string(companyID))
	if err != nil {
		return []domain.Appointment{}, nil
	}

	where := []string{"company_id = $1"}
	args := []any{cid}
	if f.From != nil {
		args = append(args, f.From.UTC())
		where = append(where, fmt.Sprintf("start_time >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, f.To.UTC())
		where = append(where, fmt.Sprintf("start_time < $%d", len(args)))
	}
	if f.Status != nil {
		args = append(args, string(*f.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.ProfessionalID != nil {
		pid, err := uuid.Parse(string(*f.ProfessionalID))
		if err != nil {
			return []domain.Appointment{}, nil
		}
		args = append(args, pid)
		where = append(where, fmt.Sprintf("professional_id = $%d", len(args)))
	}

	return r.list(ctx, selectAppointment+`
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY start_time ASC, id ASC
	`, args...)
}

func (r *Repo) ListBlocking(ctx context.Context, professionalID domain.ProfessionalID, start, end time.Time) ([]domain.Appointment, error) {
	if r.pool == nil {
		return nil, postgres.ErrNilPool
	}
	pid, err := uuid.Parse(string(professionalID))
	if err != nil {
		return []domain.Appointment{}, nil
	}
	return r.list(ctx, selectAppointment+`
		WHERE professional_id = $1
		  AND status = $2
		  AND start_time < $4
		  AND end_time > $3
		ORDER BY start_time ASC, id ASC
	`, pid, string(domain.AppointmentScheduled), start.UTC(), end.UTC())
}

func (r *Repo) Update(ctx context.Context, id domain.AppointmentID, mutate func(*domain.Appointment) error) (domain.Appointment, error) {
	if r.pool == nil {
		return domain.Appointment{}, postgres.ErrNilPool
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Appointment{}, appointmentrepo.ErrNotFound
	}

	var out domain.Appointment
	err = pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		existing, err := scanAppointment(tx.QueryRow(ctx, selectAppointment+` WHERE id = $1 FOR UPDATE`, uid))
		if err != nil {
			return err
		}
		next := existing
		if err := mutate(&next); err != nil {
			return err
		}
		ct, err := tx.Exec(ctx, `
			UPDATE appointments
			SET start_time = $2,
			    end_time = $3,
			    status = $4
			WHERE id = $1
		`, uid, next.StartTime.UTC(), next.EndTime.UTC(), string(next.Status))
		if err != nil {
			if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.ExclusionViolationCode {
				return appointmentrepo.ErrOverlap
			}
			return err
		}
		if ct.RowsAffected() == 0 {
			return appointmentrepo.ErrNoRowsAffected
		}
		next.ID, next.CompanyID, next.CreatedAt = existing.ID, existing.CompanyID, existing.CreatedAt
		out = next
		return nil
	})
	if err != nil {
		return domain.Appointment{}, err
	}
	return out, nil
}

func (r *Repo) Delete(ctx context.Context, id domain.AppointmentID, check func(domain.Appointment) error) error {
	if r.pool == nil {
		return postgres.ErrNilPool
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return appointmentrepo.ErrNotFound
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		existing, err := scanAppointment(tx.QueryRow(ctx, selectAppointment+` WHERE id = $1 FOR UPDATE`, uid))
		if err != nil {
			return err
		}
		if check != nil {
			if err := check(existing); err != nil {
				return err
			}
		}
		ct, err := tx.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, uid)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return appointmentrepo.ErrNoRowsAffected
		}
		return nil
	})
}

func (r *Repo) list(ctx context.Context, sql string, args ...any) ([]domain.Appointment, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func parseIDs(raw ...string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid appointment reference %q: %w", s, err)
		}
		out = append(out, id)
	}
	return out, nil
}

func scanAppointment(row postgres.RowScanner) (domain.Appointment, error) {
	var (
		id, companyID, clientID, professionalID, serviceID uuid.UUID

		startTime time.Time
		endTime   time.Time
		status    string
		createdAt time.Time
	)
	if err := row.Scan(&id, &companyID, &clientID, &professionalID, &serviceID, &startTime, &endTime, &status, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Appointment{}, appointmentrepo.ErrNotFound
		}
		return domain.Appointment{}, err
	}
	return domain.Appointment{
		ID:             domain.AppointmentID(id.String()),
		CompanyID:      domain.CompanyID(companyID.String()),
		ClientID:       domain.ClientID(clientID.String()),
		ProfessionalID: domain.ProfessionalID(professionalID.String()),
		OfferingID:     domain.OfferingID(serviceID.String()),
		StartTime:      startTime.UTC(),
		EndTime:        endTime.UTC(),
		Status:         domain.AppointmentStatus(status),
		CreatedAt:      createdAt.UTC(),
	}, nil
}
