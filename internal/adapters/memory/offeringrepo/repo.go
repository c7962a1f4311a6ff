package offeringrepo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/attend-app/attend-api/internal/domain"
	"github.com/attend-app/attend-api/internal/ports/out/offeringrepo"
)

// Repo is an in-memory implementation of offeringrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.OfferingID]domain.Offering

	inUse    func(domain.OfferingID) bool
	onDelete func(domain.OfferingID)
}

func NewRepo() *Repo {
	return &Repo{byID: make(map[domain.OfferingID]domain.Offering)}
}

func (r *Repo) Create(ctx context.Context, o domain.Offering) error {
	_ = ctx
	if o.ID == "" {
		return offeringrepo.ErrAlreadyExists
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[o.ID]; ok {
		return offeringrepo.ErrAlreadyExists
	}
	r.byID[o.ID] = cloneOffering(o)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.OfferingID) (domain.Offering, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.byID[id]
	if !ok {
		return domain.Offering{}, offeringrepo.ErrNotFound
	}
	return cloneOffering(o), nil
}

func (r *Repo) ListByCompany(ctx context.Context, companyID domain.CompanyID) ([]domain.Offering, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Offering, 0)
	for _, o := range r.byID {
		if o.CompanyID == companyID {
			out = append(out, cloneOffering(o))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ni, nj := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if ni == nj {
			return out[i].ID < out[j].ID
		}
		return ni < nj
	})
	return out, nil
}

func (r *Repo) Update(ctx context.Context, id domain.OfferingID, mutate func(*domain.Offering) error) (domain.Offering, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[id]
	if !ok {
		return domain.Offering{}, offeringrepo.ErrNotFound
	}
	next := cloneOffering(existing)
	if err := mutate(&next); err != nil {
		return domain.Offering{}, err
	}
	next.ID = existing.ID
	next.CompanyID = existing.CompanyID
	next.CreatedAt = existing.CreatedAt
	r.byID[id] = cloneOffering(next)
	return next, nil
}

func (r *Repo) Delete(ctx context.Context, id domain.OfferingID, check func(domain.Offering) error) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[id]
	if !ok {
		return offeringrepo.ErrNotFound
	}
	if check != nil {
		if err := check(cloneOffering(existing)); err != nil {
			return err
		}
	}
	if r.inUse != nil && r.inUse(id) {
		return offeringrepo.ErrInUse
	}
	delete(r.byID, id)
	if r.onDelete != nil {
		r.onDelete(id)
	}
	return nil
}

func cloneOffering(o domain.Offering) domain.Offering {
	out := o
	if o.Description != nil {
		v := *o.Description
		out.Description = &v
	}
	return out
}

// Link installs the referential checks a shared store needs: inUse blocks a
// delete, onDelete runs after one while the repo lock is held.
func (r *Repo) Link(inUse func(domain.OfferingID) bool, onDelete func(domain.OfferingID)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inUse = inUse
	r.onDelete = onDelete
}

// DeleteByCompany drops every offering of companyID without running hooks.
func (r *Repo) DeleteByCompany(companyID domain.CompanyID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, o := range r.byID {
		if o.CompanyID == companyID {
			delete(r.byID, id)
		}
	}
}
