package clientrepo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/attend-app/attend-api/internal/domain"
	"github.com/attend-app/attend-api/internal/ports/out/clientrepo"
)

type emailKey struct {
	companyID domain.CompanyID
	email     string
}

// Repo is an in-memory implementation of clientrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byID      map[domain.ClientID]domain.Client
	idByEmail map[emailKey]domain.ClientID

	inUse func(domain.ClientID) bool
}

func NewRepo() *Repo {
	return &Repo{
		byID:      make(map[domain.ClientID]domain.Client),
		idByEmail: make(map[emailKey]domain.ClientID),
	}
}

func (r *Repo) Create(ctx context.Context, c domain.Client) error {
	_ = ctx
	if c.ID == "" {
		return clientrepo.ErrAlreadyExists
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[c.ID]; ok {
		return clientrepo.ErrAlreadyExists
	}
	if key, ok := keyFor(c); ok {
		if _, taken := r.idByEmail[key]; taken {
			return clientrepo.ErrEmailTaken
		}
		r.idByEmail[key] = c.ID
	}
	r.byID[c.ID] = cloneClient(c)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.ClientID) (domain.Client, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	if !ok {
		return domain.Client{}, clientrepo.ErrNotFound
	}
	return cloneClient(c), nil
}

func (r *Repo) GetByEmail(ctx context.Context, companyID domain.CompanyID, email string) (domain.Client, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.idByEmail[emailKey{companyID: companyID, email: domain.NormalizeEmail(email)}]
	if !ok {
		return domain.Client{}, clientrepo.ErrNotFound
	}
	return cloneClient(r.byID[id]), nil
}

func (r *Repo) ListByCompany(ctx context.Context, companyID domain.CompanyID) ([]domain.Client, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Client, 0)
	for _, c := range r.byID {
		if c.CompanyID == companyID {
			out = append(out, cloneClient(c))
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

func (r *Repo) Update(ctx context.Context, id domain.ClientID, mutate func(*domain.Client) error) (domain.Client, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[id]
	if !ok {
		return domain.Client{}, clientrepo.ErrNotFound
	}
	next := cloneClient(existing)
	if err := mutate(&next); err != nil {
		return domain.Client{}, err
	}
	next.ID = existing.ID
	next.CompanyID = existing.CompanyID
	next.CreatedAt = existing.CreatedAt

	oldKey, hadOld := keyFor(existing)
	newKey, hasNew := keyFor(next)
	if hasNew && (!hadOld || newKey != oldKey) {
		if _, taken := r.idByEmail[newKey]; taken {
			return domain.Client{}, clientrepo.ErrEmailTaken
		}
	}
	if hadOld {
		delete(r.idByEmail, oldKey)
	}
	if hasNew {
		r.idByEmail[newKey] = id
	}
	r.byID[id] = cloneClient(next)
	return next, nil
}

func (r *Repo) Delete(ctx context.Context, id domain.ClientID, check func(domain.Client) error) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[id]
	if !ok {
		return clientrepo.ErrNotFound
	}
	if check != nil {
		if err := check(cloneClient(existing)); err != nil {
			return err
		}
	}
	if r.inUse != nil && r.inUse(id) {
		return clientrepo.ErrInUse
	}
	if key, ok := keyFor(existing); ok {
		delete(r.idByEmail, key)
	}
	delete(r.byID, id)
	return nil
}

func keyFor(c domain.Client) (emailKey, bool) {
	if c.Email == nil || *c.Email == "" {
		return emailKey{}, false
	}
	return emailKey{companyID: c.CompanyID, email: domain.NormalizeEmail(*c.Email)}, true
}

func cloneClient(c domain.Client) domain.Client {
	out := c
	out.Email = cloneStringPtr(c.Email)
	out.Phone = cloneStringPtr(c.Phone)
	return out
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Link installs the check that blocks deleting a referenced client.
func (r *Repo) Link(inUse func(domain.ClientID) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inUse = inUse
}

// DeleteByCompany drops every client of companyID.
func (r *Repo) DeleteByCompany(companyID domain.CompanyID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.byID {
		if c.CompanyID != companyID {
			continue
		}
		if key, ok := keyFor(c); ok {
			delete(r.idByEmail, key)
		}
		delete(r.byID, id)
	}
}
