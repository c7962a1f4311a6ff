package offeringrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/attend-app/attend-api/internal/adapters/postgres"
	"github.com/attend-app/attend-api/internal/domain"
	"github.com/attend-app/attend-api/internal/ports/out/offeringrepo"
)

const selectOffering = `
	SELECT id, company_id, name, description, duration_minutes, price_cents, created_at
	FROM services
`

// Repo is a Postgres implementation of offeringrepo.Repository, backed by
// the services table.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, o domain.Offering) error {
	if r.pool == nil {
		return postgres.ErrNilPool
	}
	id, err := uuid.Parse(string(o.ID))
	if err != nil {
		return fmt.Errorf("invalid service id: %w", err)
	}
	companyID, err := uuid.Parse(string(o.CompanyID))
	if err != nil {
		return fmt.Errorf("invalid company id: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO services (id, company_id, name, description, duration_minutes, price_cents, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, companyID, o.Name, o.Description, o.DurationMinutes, o.PriceCents, o.CreatedAt.UTC())
	if err != nil {
		if postgres.IsConstraintViolation(err, postgres.UniqueViolationCode, "services_pkey") {
			return offeringrepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.OfferingID) (domain.Offering, error) {
	if r.pool == nil {
		return domain.Offering{}, postgres.ErrNilPool
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Offering{}, offeringrepo.ErrNotFound
	}
	return scanOffering(r.pool.QueryRow(ctx, selectOffering+` WHERE id = $1`, uid))
}

func (r *Repo) ListByCompany(ctx context.Context, companyID domain.CompanyID) ([]domain.Offering, error) {
	if r.pool == nil {
		return nil, postgres.ErrNilPool
	}
	cid, err := uuid.Parse(string(companyID))
	if err != nil {
		return []domain.Offering{}, nil
	}
	rows, err := r.pool.Query(ctx, selectOffering+`
		WHERE company_id = $1
		ORDER BY lower(name) ASC, id ASC
	`, cid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Offering, 0)
	for rows.Next() {
		o, err := scanOffering(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repo) Update(ctx context.Context, id domain.OfferingID, mutate func(*domain.Offering) error) (domain.Offering, error) {
	if r.pool == nil {
		return domain.Offering{}, postgres.ErrNilPool
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Offering{}, offeringrepo.ErrNotFound
	}

	var out domain.Offering
	err = pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		existing, err := scanOffering(tx.QueryRow(ctx, selectOffering+` WHERE id = $1 FOR UPDATE`, uid))
		if err != nil {
			return err
		}
		next := existing
		if err := mutate(&next); err != nil {
			return err
		}
		ct, err := tx.Exec(ctx, `
			UPDATE services
			SET name = $2,
			    description = $3,
			    duration_minutes = $4,
			    price_cents = $5
			WHERE id = $1
		`, uid, next.Name, next.Description, next.DurationMinutes, next.PriceCents)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return offeringrepo.ErrNoRowsAffected
		}
		next.ID, next.CompanyID, next.CreatedAt = existing.ID, existing.CompanyID, existing.CreatedAt
		out = next
		return nil
	})
	if err != nil {
		return domain.Offering{}, err
	}
	return out, nil
}

func (r *Repo) Delete(ctx context.Context, id domain.OfferingID, check func(domain.Offering) error) error {
	if r.pool == nil {
		return postgres.ErrNilPool
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return offeringrepo.ErrNotFound
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		existing, err := scanOffering(tx.QueryRow(ctx, selectOffering+` WHERE id = $1 FOR UPDATE`, uid))
		if err != nil {
			return err
		}
		if check != nil {
			if err := check(existing); err != nil {
				return err
			}
		}
		ct, err := tx.Exec(ctx, `DELETE FROM services WHERE id = $1`, uid)
		if err != nil {
			if postgres.IsConstraintViolation(err, postgres.ForeignKeyViolationCode, "appointments_service_fk") {
				return offeringrepo.ErrInUse
			}
			return err
		}
		if ct.RowsAffected() == 0 {
			return offeringrepo.ErrNoRowsAffected
		}
		return nil
	})
}

func scanOffering(row postgres.RowScanner) (domain.Offering, error) {
	var (
		id          uuid.UUID
		companyID   uuid.UUID
		name        string
		description *string
		duration    int
		price       int
		createdAt   time.Time
	)
	if err := row.Scan(&id, &companyID, &name, &description, &duration, &price, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Offering{}, offeringrepo.ErrNotFound
		}
		return domain.Offering{}, err
	}
	return domain.Offering{
		ID:              domain.OfferingID(id.String()),
		CompanyID:       domain.CompanyID(companyID.String()),
		Name:            name,
		Description:     description,
		DurationMinutes: duration,
		PriceCents:      price,
		CreatedAt:       createdAt.UTC(),
	}, nil
}
