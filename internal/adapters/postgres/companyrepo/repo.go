package companyrepo

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
	"github.com/attend-app/attend-api/internal/ports/out/companyrepo"
)

const selectCompany = `
	SELECT id, name, owner_id, created_at, updated_at
	FROM companies
`

// Repo is a Postgres implementation of companyrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, c domain.Company) error {
	if r.pool == nil {
		return postgres.ErrNilPool
	}
	id, err := uuid.Parse(string(c.ID))
	if err != nil {
		return fmt.Errorf("invalid company id: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO companies (id, name, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, id, c.Name, string(c.OwnerID), c.CreatedAt.UTC(), c.UpdatedAt.UTC())
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			switch pe.ConstraintName {
			case "companies_owner_unique":
				return companyrepo.ErrOwnerAlreadyBound
			case "companies_pkey":
				return companyrepo.ErrAlreadyExists
			}
		}
		return err
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.CompanyID) (domain.Company, error) {
	if r.pool == nil {
		return domain.Company{}, postgres.ErrNilPool
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Company{}, companyrepo.ErrNotFound
	}
	return scanCompany(r.pool.QueryRow(ctx, selectCompany+` WHERE id = $1`, uid))
}

func (r *Repo) GetByOwner(ctx context.Context, owner domain.SubjectID) (domain.Company, error) {
	if r.pool == nil {
		return domain.Company{}, postgres.ErrNilPool
	}
	return scanCompany(r.pool.QueryRow(ctx, selectCompany+` WHERE owner_id = $1`, string(owner)))
}

func (r *Repo) Update(ctx context.Context, id domain.CompanyID, mutate func(*domain.Company) error) (domain.Company, error) {
	if r.pool == nil {
		return domain.Company{}, postgres.ErrNilPool
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Company{}, companyrepo.ErrNotFound
	}

	var out domain.Company
	err = pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		existing, err := scanCompany(tx.QueryRow(ctx, selectCompany+` WHERE id = $1 FOR UPDATE`, uid))
		if err != nil {
			return err
		}
		next := existing
		if err := mutate(&next); err != nil {
			return err
		}
		ct, err := tx.Exec(ctx, `
			UPDATE companies
			SET name = $2,
			    updated_at = $3
			WHERE id = $1
		`, uid, next.Name, next.UpdatedAt.UTC())
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return companyrepo.ErrNoRowsAffected
		}
		next.ID, next.OwnerID, next.CreatedAt = existing.ID, existing.OwnerID, existing.CreatedAt
		out = next
		return nil
	})
	if err != nil {
		return domain.Company{}, err
	}
	return out, nil
}

func (r *Repo) Delete(ctx context.Context, id domain.CompanyID, check func(domain.Company) error) error {
	if r.pool == nil {
		return postgres.ErrNilPool
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return companyrepo.ErrNotFound
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		existing, err := scanCompany(tx.QueryRow(ctx, selectCompany+` WHERE id = $1 FOR UPDATE`, uid))
		if err != nil {
			return err
		}
		if check != nil {
			if err := check(existing); err != nil {
				return err
			}
		}
		// Appointments hold RESTRICT keys on the other cascaded tables, so
		// they go first.
		if _, err := tx.Exec(ctx, `DELETE FROM appointments WHERE company_id = $1`, uid); err != nil {
			return err
		}
		ct, err := tx.Exec(ctx, `DELETE FROM companies WHERE id = $1`, uid)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return companyrepo.ErrNoRowsAffected
		}
		return nil
	})
}

func scanCompany(row postgres.RowScanner) (domain.Company, error) {
	var (
		id        uuid.UUID
		name      string
		ownerID   string
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&id, &name, &ownerID, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Company{}, companyrepo.ErrNotFound
		}
		return domain.Company{}, err
	}
	return domain.Company{
		ID:        domain.CompanyID(id.String()),
		Name:      name,
		OwnerID:   domain.SubjectID(ownerID),
		CreatedAt: createdAt.UTC(),
		UpdatedAt: updatedAt.UTC(),
	}, nil
}
