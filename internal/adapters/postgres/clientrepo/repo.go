package clientrepo

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
	"github.com/attend-app/attend-api/internal/ports/out/clientrepo"
)

const selectClient = `
	SELECT id, company_id, name, email, phone, created_at
	FROM clients
`

// Repo is a Postgres implementation of clientrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, c domain.Client) error {
	if r.pool == nil {
		return postgres.ErrNilPool
	}
	id, err := uuid.Parse(string(c.ID))
	if err != nil {
		return fmt.Errorf("invalid client id: %w", err)
	}
	companyID, err := uuid.Parse(string(c.CompanyID))
	if err != nil {
		return fmt.Errorf("invalid company id: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO clients (id, company_id, name, email, phone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, companyID, c.Name, normalizedEmail(c.Email), c.Phone, c.CreatedAt.UTC())
	return mapWriteError(err)
}

func (r *Repo) GetByID(ctx context.Context, id domain.ClientID) (domain.Client, error) {
	if r.pool == nil {
		return domain.Client{}, postgres.ErrNilPool
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Client{}, clientrepo.ErrNotFound
	}
	return scanClient(r.pool.QueryRow(ctx, selectClient+` WHERE id = $1`, uid))
}

func (r *Repo) GetByEmail(ctx context.Context, companyID domain.CompanyID, email string) (domain.Client, error) {
	if r.pool == nil {
		return domain.Client{}, postgres.ErrNilPool
	}
	cid, err := uuid.Parse(string(companyID))
	if err != nil {
		return domain.Client{}, clientrepo.ErrNotFound
	}
	return scanClient(r.pool.QueryRow(ctx, selectClient+`
		WHERE company_id = $1 AND email = $2
	`, cid, domain.NormalizeEmail(email)))
}

func (r *Repo) ListByCompany(ctx context.Context, companyID domain.CompanyID) ([]domain.Client, error) {
	if r.pool == nil {
		return nil, postgres.ErrNilPool
	}
	cid, err := uuid.Parse(string(companyID))
	if err != nil {
		return []domain.Client{}, nil
	}
	rows, err := r.pool.Query(ctx, selectClient+`
		WHERE company_id = $1
		ORDER BY lower(name) ASC, id ASC
	`, cid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) Update(ctx context.Context, id domain.ClientID, mutate func(*domain.Client) error) (domain.Client, error) {
	if r.pool == nil {
		return domain.Client{}, postgres.ErrNilPool
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Client{}, clientrepo.ErrNotFound
	}

	var out domain.Client
	err = pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		existing, err := scanClient(tx.QueryRow(ctx, selectClient+` WHERE id = $1 FOR UPDATE`, uid))
		if err != nil {
			return err
		}
		next := existing
		if err := mutate(&next); err != nil {
			return err
		}
		next.Email = normalizedEmail(next.Email)
		ct, err := tx.Exec(ctx, `
			UPDATE clients
			SET name = $2,
			    email = $3,
			    phone = $4
			WHERE id = $1
		`, uid, next.Name, next.Email, next.Phone)
		if err != nil {
			return mapWriteError(err)
		}
		if ct.RowsAffected() == 0 {
			return clientrepo.ErrNoRowsAffected
		}
		next.ID, next.CompanyID, next.CreatedAt = existing.ID, existing.CompanyID, existing.CreatedAt
		out = next
		return nil
	})
	if err != nil {
		return domain.Client{}, err
	}
	return out, nil
}

func (r *Repo) Delete(ctx context.Context, id domain.ClientID, check func(domain.Client) error) error {
	if r.pool == nil {
		return postgres.ErrNilPool
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return clientrepo.ErrNotFound
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		existing, err := scanClient(tx.QueryRow(ctx, selectClient+` WHERE id = $1 FOR UPDATE`, uid))
		if err != nil {
			return err
		}
		if check != nil {
			if err := check(existing); err != nil {
				return err
			}
		}
		ct, err := tx.Exec(ctx, `DELETE FROM clients WHERE id = $1`, uid)
		if err != nil {
			if postgres.IsConstraintViolation(err, postgres.ForeignKeyViolationCode, "appointments_client_fk") {
				return clientrepo.ErrInUse
			}
			return err
		}
		if ct.RowsAffected() == 0 {
			return clientrepo.ErrNoRowsAffected
		}
		return nil
	})
}

func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
		switch pe.ConstraintName {
		case "clients_company_email_unique":
			return clientrepo.ErrEmailTaken
		case "clients_pkey":
			return clientrepo.ErrAlreadyExists
		}
	}
	return err
}

func normalizedEmail(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	v := domain.NormalizeEmail(*p)
	return &v
}

func scanClient(row postgres.RowScanner) (domain.Client, error) {
	var (
		id        uuid.UUID
		companyID uuid.UUID
		name      string
		email     *string
		phone     *string
		createdAt time.Time
	)
	if err := row.Scan(&id, &companyID, &name, &email, &phone, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Client{}, clientrepo.ErrNotFound
		}
		return domain.Client{}, err
	}
	return domain.Client{
		ID:        domain.ClientID(id.String()),
		CompanyID: domain.CompanyID(companyID.String()),
		Name:      name,
		Email:     email,
		Phone:     phone,
		CreatedAt: createdAt.UTC(),
	}, nil
}
