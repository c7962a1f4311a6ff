package professionalrepo

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/attend-app/attend-api/internal/domain"
	"github.com/attend-app/attend-api/internal/ports/out/professionalrepo"
)

// Repo is an in-memory implementation of professionalrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.ProfessionalID]domain.Professional

	inUse func(domain.ProfessionalID) bool
}

func NewRepo() *Repo {
	return &Repo{byID: make(map[domain.ProfessionalID]domain.Professional)}
}

func (r *Repo) Create(ctx context.Context, p domain.Professional) error {
	_ = ctx
	if p.ID == "" {
		return professionalrepo.ErrAlreadyExists
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[p.ID]; ok {
		return professionalrepo.ErrAlreadyExists
	}
	r.byID[p.ID] = cloneProfessional(p)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.ProfessionalID) (domain.Professional, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return domain.Professional{}, professionalrepo.ErrNotFound
	}
	return cloneProfessional(p), nil
}

func (r *Repo) ListByCompany(ctx context.Context, companyID domain.CompanyID) ([]domain.Professional, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Professional, 0)
	for _, p := range r.byID {
		if p.CompanyID == companyID {
			out = append(out, cloneProfessional(p))
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

func (r *Repo) Update(ctx context.Context, id domain.ProfessionalID, mutate func(*domain.Professional) error) (domain.Professional, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[id]
	if !ok {
		return domain.Professional{}, professionalrepo.ErrNotFound
	}
	next := cloneProfessional(existing)
	if err := mutate(&next); err != nil {
		return domain.Professional{}, err
	}
	next.ID = existing.ID
	next.CompanyID = existing.CompanyID
	next.CreatedAt = existing.CreatedAt
	next.OfferingIDs = domain.NormalizeOfferingIDs(next.OfferingIDs)
	r.byID[id] = cloneProfessional(next)
	return next, nil
}

func (r *Repo) Delete(ctx context.Context, id domain.ProfessionalID, check func(domain.Professional) error) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[id]
	if !ok {
		return professionalrepo.ErrNotFound
	}
	if check != nil {
		if err := check(cloneProfessional(existing)); err != nil {
			return err
		}
	}
	if r.inUse != nil && r.inUse(id) {
		return professionalrepo.ErrInUse
	}
	delete(r.byID, id)
	return nil
}

func cloneProfessional(p domain.Professional) domain.Professional {
	out := p
	out.OfferingIDs = slices.Clone(domain.NormalizeOfferingIDs(p.OfferingIDs))
	return out
}

// Link installs the check that blocks deleting a referenced professional.
func (r *Repo) Link(inUse func(domain.ProfessionalID) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inUse = inUse
}

// RemoveOffering unlinks offeringID from every professional offering it.
func (r *Repo) RemoveOffering(offeringID domain.OfferingID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.byID {
		if i := slices.Index(p.OfferingIDs, offeringID); i >= 0 {
			p.OfferingIDs = slices.Delete(slices.Clone(p.OfferingIDs), i, i+1)
			r.byID[id] = p
		}
	}
}

// DeleteByCompany drops every professional of companyID without running hooks.
func (r *Repo) DeleteByCompany(companyID domain.CompanyID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.byID {
		if p.CompanyID == companyID {
			delete(r.byID, id)
		}
	}
}
