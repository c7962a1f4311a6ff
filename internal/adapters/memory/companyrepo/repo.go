package companyrepo

import (
	"context"
	"sync"

	"github.com/attend-app/attend-api/internal/domain"
	"github.com/attend-app/attend-api/internal/ports/out/companyrepo"
)

// Repo is an in-memory implementation of companyrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byID      map[domain.CompanyID]domain.Company
	idByOwner map[domain.SubjectID]domain.CompanyID

	onDelete func(domain.CompanyID)
}

func NewRepo() *Repo {
	return &Repo{
		byID:      make(map[domain.CompanyID]domain.Company),
		idByOwner: make(map[domain.SubjectID]domain.CompanyID),
	}
}

func (r *Repo) Create(ctx context.Context, c domain.Company) error {
	_ = ctx
	if c.ID == "" {
		return companyrepo.ErrAlreadyExists
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[c.ID]; ok {
		return companyrepo.ErrAlreadyExists
	}
	if _, ok := r.idByOwner[c.OwnerID]; ok {
		return companyrepo.ErrOwnerAlreadyBound
	}
	r.byID[c.ID] = c
	r.idByOwner[c.OwnerID] = c.ID
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.CompanyID) (domain.Company, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	if !ok {
		return domain.Company{}, companyrepo.ErrNotFound
	}
	return c, nil
}

func (r *Repo) GetByOwner(ctx context.Context, owner domain.SubjectID) (domain.Company, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.idByOwner[owner]
	if !ok {
		return domain.Company{}, companyrepo.ErrNotFound
	}
	c, ok := r.byID[id]
	if !ok {
		return domain.Company{}, companyrepo.ErrNotFound
	}
	return c, nil
}

func (r *Repo) Update(ctx context.Context, id domain.CompanyID, mutate func(*domain.Company) error) (domain.Company, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[id]
	if !ok {
		return domain.Company{}, companyrepo.ErrNotFound
	}
	next := existing
	if err := mutate(&next); err != nil {
		return domain.Company{}, err
	}
	// Identity and ownership are immutable.
	next.ID = existing.ID
	next.OwnerID = existing.OwnerID
	next.CreatedAt = existing.CreatedAt
	r.byID[id] = next
	return next, nil
}

func (r *Repo) Delete(ctx context.Context, id domain.CompanyID, check func(domain.Company) error) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[id]
	if !ok {
		return companyrepo.ErrNotFound
	}
	if check != nil {
		if err := check(existing); err != nil {
			return err
		}
	}
	delete(r.byID, id)
	delete(r.idByOwner, existing.OwnerID)
	if r.onDelete != nil {
		r.onDelete(id)
	}
	return nil
}

// OnDelete registers fn to run after a company is deleted, while the repo
// lock is held.
func (r *Repo) OnDelete(fn func(domain.CompanyID)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onDelete = fn
}
