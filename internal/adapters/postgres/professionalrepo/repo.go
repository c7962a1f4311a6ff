package professionalrepo

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
	"github.com/attend-app/attend-api/internal/ports/out/professionalrepo"
)

const selectProfessional = `
	SELECT
		p.id,
		p.company_id,
		p.name,
		p.created_at,
		COALESCE(string_agg(pts.service_id::text, ','), '')
	FROM professionals p
	LEFT JOIN professionals_to_services pts ON pts.professional_id = p.id
`

// Repo is a Postgres implementation of professionalrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, p domain.Professional) error {
	if r.pool == nil {
		return postgres.ErrNilPool
	}
	id, err := uuid.Parse(string(p.ID))
	if err != nil {
		return fmt.Errorf("invalid professional id: %w", err)
	}
	companyID, err := uuid.Parse(string(p.CompanyID))
	if err != nil {
		return fmt.Errorf("invalid company id: %w", err)
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO professionals (id, company_id, name, created_at)
			VALUES ($1, $2, $3, $4)
		`, id, companyID, p.Name, p.CreatedAt.UTC())
		if err != nil {
			if postgres.IsConstraintViolation(err, postgres.UniqueViolationCode, "professionals_pkey") {
				return professionalrepo.ErrAlreadyExists
			}
			return err
		}
		return insertOfferings(ctx, tx, id, p.OfferingIDs)
	})
}

func (r *Repo) GetByID(ctx context.Context, id domain.ProfessionalID) (domain.Professional, error) {
	if r.pool == nil {
		return domain.Professional{}, postgres.ErrNilPool
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Professional{}, professionalrepo.ErrNotFound
	}
	return getProfessional(ctx, r.pool, uid, false)
}

func (r *Repo) ListByCompany(ctx context.Context, companyID domain.CompanyID) ([]domain.Professional, error) {
	if r.pool == nil {
		return nil, postgres.ErrNilPool
	}
	cid, err := uuid.Parse(string(companyID))
	if err != nil {
		return []domain.Professional{}, nil
	}
	rows, err := r.pool.Query(ctx, selectProfessional+`
		WHERE p.company_id = $1
		GROUP BY p.id
		ORDER BY lower(p.name) ASC, p.id ASC
	`, cid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Professional, 0)
	for rows.Next() {
		p, err := scanProfessional(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) Update(ctx context.Context, id domain.ProfessionalID, mutate func(*domain.Professional) error) (domain.Professional, error) {
	if r.pool == nil {
		return domain.Professional{}, postgres.ErrNilPool
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Professional{}, professionalrepo.ErrNotFound
	}

	var out domain.Professional
	err = pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		existing, err := getProfessional(ctx, tx, uid, true)
		if err != nil {
			return err
		}
		next := existing
		next.OfferingIDs = append([]domain.OfferingID(nil), existing.OfferingIDs...)
		if err := mutate(&next); err != nil {
			return err
		}
		next.OfferingIDs = domain.NormalizeOfferingIDs(next.OfferingIDs)

		ct, err := tx.Exec(ctx, `UPDATE professionals SET name = $2 WHERE id = $1`, uid, next.Name)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return professionalrepo.ErrNoRowsAffected
		}
		if _, err := tx.Exec(ctx, `DELETE FROM professionals_to_services WHERE professional_id = $1`, uid); err != nil {
			return err
		}
		if err := insertOfferings(ctx, tx, uid, next.OfferingIDs); err != nil {
			return err
		}
		next.ID, next.CompanyID, next.CreatedAt = existing.ID, existing.CompanyID, existing.CreatedAt
		out = next
		return nil
	})
	if err != nil {
		return domain.Professional{}, err
	}
	return out, nil
}

func (r *Repo) Delete(ctx context.Context, id domain.ProfessionalID, check func(domain.Professional) error) error {
	if r.pool == nil {
		return postgres.ErrNilPool
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return professionalrepo.ErrNotFound
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		existing, err := getProfessional(ctx, tx, uid, true)
		if err != nil {
			return err
		}
		if check != nil {
			if err := check(existing); err != nil {
				return err
			}
		}
		ct, err := tx.Exec(ctx, `DELETE FROM professionals WHERE id = $1`, uid)
		if err != nil {
			if postgres.IsConstraintViolation(err, postgres.ForeignKeyViolationCode, "appointments_professional_fk") {
				return professionalrepo.ErrInUse
			}
			return err
		}
		if ct.RowsAffected() == 0 {
			return professionalrepo.ErrNoRowsAffected
		}
		return nil
	})
}

func getProfessional(ctx context.Context, q postgres.Querier, id uuid.UUID, lock bool) (domain.Professional, error) {
	if lock {
		// FOR UPDATE is not allowed with GROUP BY; lock the base row first.
		var locked uuid.UUID
		if err := q.QueryRow(ctx, `SELECT id FROM professionals WHERE id = $1 FOR UPDATE`, id).Scan(&locked); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.Professional{}, professionalrepo.ErrNotFound
			}
			return domain.Professional{}, err
		}
	}
	return scanProfessional(q.QueryRow(ctx, selectProfessional+`
		WHERE p.id = $1
		GROUP BY p.id
	`, id))
}

func insertOfferings(ctx context.Context, tx pgx.Tx, professionalID uuid.UUID, ids []domain.OfferingID) error {
	for _, oid := range domain.NormalizeOfferingIDs(ids) {
		sid, err := uuid.Parse(string(oid))
		if err != nil {
			return professionalrepo.ErrUnknownOffering
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO professionals_to_services (professional_id, service_id)
			VALUES ($1, $2)
		`, professionalID, sid)
		if err != nil {
			if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.ForeignKeyViolationCode {
				return professionalrepo.ErrUnknownOffering
			}
			return err
		}
	}
	return nil
}

func scanProfessional(row postgres.RowScanner) (domain.Professional, error) {
	var (
		id         uuid.UUID
		companyID  uuid.UUID
		name       string
		createdAt  time.Time
		serviceIDs string
	)
	if err := row.Scan(&id, &companyID, &name, &createdAt, &serviceIDs); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Professional{}, professionalrepo.ErrNotFound
		}
		return domain.Professional{}, err
	}
	ids := make([]domain.OfferingID, 0)
	if serviceIDs != "" {
		for _, s := range strings.Split(serviceIDs, ",") {
			ids = append(ids, domain.OfferingID(s))
		}
	}
	return domain.Professional{
		ID:          domain.ProfessionalID(id.String()),
		CompanyID:   domain.CompanyID(companyID.String()),
		Name:        name,
		OfferingIDs: domain.NormalizeOfferingIDs(ids),
		CreatedAt:   createdAt.UTC(),
	}, nil
}
