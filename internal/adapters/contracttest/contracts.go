// Package contracttest holds behavior suites shared by every repository
// adapter. Each adapter package runs them against its own implementation.
package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/attend-app/attend-api/internal/domain"
	"github.com/attend-app/attend-api/internal/ports/out/appointmentrepo"
	"github.com/attend-app/attend-api/internal/ports/out/clientrepo"
	"github.com/attend-app/attend-api/internal/ports/out/companyrepo"
	idempotencyport "github.com/attend-app/attend-api/internal/ports/out/idempotency"
	"github.com/attend-app/attend-api/internal/ports/out/offeringrepo"
	"github.com/attend-app/attend-api/internal/ports/out/professionalrepo"
)

type CleanupFunc = func()

// Repos groups repositories that share one backing store, so suites can
// seed parent rows referenced by foreign keys.
type Repos struct {
	Companies     companyrepo.Repository
	Offerings     offeringrepo.Repository
	Professionals professionalrepo.Repository
	Clients       clientrepo.Repository
	Appointments  appointmentrepo.Repository
}

type ReposFactory func(t *testing.T) (Repos, CleanupFunc)
type IdemStoreFactory func(t *testing.T) (idempotencyport.Store, CleanupFunc)

var errAbort = errors.New("abort")

func open(t *testing.T, newRepos ReposFactory) Repos {
	t.Helper()
	repos, cleanup := newRepos(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}
	return repos
}

// baseTime is microsecond-aligned so values survive a Postgres round-trip.
var baseTime = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func seedCompany(t *testing.T, repos Repos) domain.Company {
	t.Helper()
	c := domain.Company{
		ID:        domain.CompanyID(uuid.NewString()),
		Name:      "Studio " + uuid.NewString()[:8],
		OwnerID:   domain.SubjectID("sub-" + uuid.NewString()),
		CreatedAt: baseTime,
		UpdatedAt: baseTime,
	}
	if err := repos.Companies.Create(context.Background(), c); err != nil {
		t.Fatalf("seed company: %v", err)
	}
	return c
}

func seedOffering(t *testing.T, repos Repos, companyID domain.CompanyID, name string) domain.Offering {
	t.Helper()
	o := domain.Offering{
		ID:              domain.OfferingID(uuid.NewString()),
		CompanyID:       companyID,
		Name:            name,
		DurationMinutes: 30,
		PriceCents:      2500,
		CreatedAt:       baseTime,
	}
	if err := repos.Offerings.Create(context.Background(), o); err != nil {
		t.Fatalf("seed offering: %v", err)
	}
	return o
}

func seedProfessional(t *testing.T, repos Repos, companyID domain.CompanyID, name string, offerings ...domain.OfferingID) domain.Professional {
	t.Helper()
	p := domain.Professional{
		ID:          domain.ProfessionalID(uuid.NewString()),
		CompanyID:   companyID,
		Name:        name,
		OfferingIDs: offerings,
		CreatedAt:   baseTime,
	}
	if err := repos.Professionals.Create(context.Background(), p); err != nil {
		t.Fatalf("seed professional: %v", err)
	}
	return p
}

func seedClient(t *testing.T, repos Repos, companyID domain.CompanyID, name string, email *string) domain.Client {
	t.Helper()
	c := domain.Client{
		ID:        domain.ClientID(uuid.NewString()),
		CompanyID: companyID,
		Name:      name,
		Email:     email,
		CreatedAt: baseTime,
	}
	if err := repos.Clients.Create(context.Background(), c); err != nil {
		t.Fatalf("seed client: %v", err)
	}
	return c
}

func strPtr(s string) *string { return &s }

func RunCompanyRepo(t *testing.T, newRepos ReposFactory) {
	t.Helper()
	ctx := context.Background()
	repos := open(t, newRepos)

	c := seedCompany(t, repos)
	got, err := repos.Companies.GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ID != c.ID || got.Name != c.Name || got.OwnerID != c.OwnerID || !got.CreatedAt.Equal(c.CreatedAt) || !got.UpdatedAt.Equal(c.UpdatedAt) {
		t.Fatalf("GetByID=%+v, want %+v", got, c)
	}
	if got, err := repos.Companies.GetByOwner(ctx, c.OwnerID); err != nil || got.ID != c.ID {
		t.Fatalf("GetByOwner=%+v err=%v", got, err)
	}
	if _, err := repos.Companies.GetByID(ctx, domain.CompanyID(uuid.NewString())); !errors.Is(err, companyrepo.ErrNotFound) {
		t.Fatalf("GetByID missing: err=%v, want ErrNotFound", err)
	}
	if _, err := repos.Companies.GetByOwner(ctx, "sub-nobody-"+domain.SubjectID(uuid.NewString())); !errors.Is(err, companyrepo.ErrNotFound) {
		t.Fatalf("GetByOwner missing: err=%v, want ErrNotFound", err)
	}

	// One company per owner.
	dup := c
	dup.ID = domain.CompanyID(uuid.NewString())
	if err := repos.Companies.Create(ctx, dup); !errors.Is(err, companyrepo.ErrOwnerAlreadyBound) {
		t.Fatalf("Create second company for owner: err=%v, want ErrOwnerAlreadyBound", err)
	}

	// Update applies the mutation and keeps identity fields.
	later := baseTime.Add(time.Hour)
	updated, err := repos.Companies.Update(ctx, c.ID, func(cur *domain.Company) error {
		if cur.Name != c.Name {
			t.Errorf("mutate saw name %q, want %q", cur.Name, c.Name)
		}
		cur.Name = "Renamed"
		cur.OwnerID = "someone-else"
		cur.UpdatedAt = later
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Renamed" || updated.OwnerID != c.OwnerID || !updated.UpdatedAt.Equal(later) || !updated.CreatedAt.Equal(c.CreatedAt) {
		t.Fatalf("unexpected updated company: %+v", updated)
	}
	if got, _ := repos.Companies.GetByID(ctx, c.ID); got.Name != "Renamed" {
		t.Fatalf("Update not persisted: %+v", got)
	}

	// A mutate error aborts without writing.
	if _, err := repos.Companies.Update(ctx, c.ID, func(cur *domain.Company) error {
		cur.Name = "Aborted"
		return errAbort
	}); !errors.Is(err, errAbort) {
		t.Fatalf("Update abort: err=%v, want errAbort", err)
	}
	if got, _ := repos.Companies.GetByID(ctx, c.ID); got.Name != "Renamed" {
		t.Fatalf("aborted update was persisted: %+v", got)
	}
	if _, err := repos.Companies.Update(ctx, domain.CompanyID(uuid.NewString()), func(*domain.Company) error { return nil }); !errors.Is(err, companyrepo.ErrNotFound) {
		t.Fatalf("Update missing: err=%v, want ErrNotFound", err)
	}

	// Delete honors the check, then removes the row and frees the owner.
	if err := repos.Companies.Delete(ctx, c.ID, func(domain.Company) error { return errAbort }); !errors.Is(err, errAbort) {
		t.Fatalf("Delete abort: err=%v, want errAbort", err)
	}
	if err := repos.Companies.Delete(ctx, c.ID, nil); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repos.Companies.GetByOwner(ctx, c.OwnerID); !errors.Is(err, companyrepo.ErrNotFound) {
		t.Fatalf("GetByOwner after delete: err=%v, want ErrNotFound", err)
	}
	if err := repos.Companies.Delete(ctx, c.ID, nil); !errors.Is(err, companyrepo.ErrNotFound) {
		t.Fatalf("Delete twice: err=%v, want ErrNotFound", err)
	}
	again := c
	again.ID = domain.CompanyID(uuid.NewString())
	if err := repos.Companies.Create(ctx, again); err != nil {
		t.Fatalf("Create after delete: %v", err)
	}
}

func RunOfferingRepo(t *testing.T, newRepos ReposFactory) {
	t.Helper()
	ctx := context.Background()
	repos := open(t, newRepos)

	company := seedCompany(t, repos)
	other := seedCompany(t, repos)
	cut := seedOffering(t, repos, company.ID, "haircut")
	beard := seedOffering(t, repos, company.ID, "Beard trim")
	seedOffering(t, repos, other.ID, "Elsewhere")

	list, err := repos.Offerings.ListByCompany(ctx, company.ID)
	if err != nil {
		t.Fatalf("ListByCompany: %v", err)
	}
	if len(list) != 2 || list[0].ID != beard.ID || list[1].ID != cut.ID {
		t.Fatalf("unexpected list (want case-insensitive name order): %+v", list)
	}

	updated, err := repos.Offerings.Update(ctx, cut.ID, func(o *domain.Offering) error {
		o.Description = strPtr("Wash and cut")
		o.DurationMinutes = 45
		o.PriceCents = 3000
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := repos.Offerings.GetByID(ctx, cut.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Description == nil || *got.Description != "Wash and cut" || got.DurationMinutes != 45 || got.PriceCents != 3000 {
		t.Fatalf("unexpected offering after update: %+v", got)
	}
	if updated.CompanyID != company.ID {
		t.Fatalf("company changed on update: %+v", updated)
	}

	if _, err := repos.Offerings.Update(ctx, cut.ID, func(o *domain.Offering) error {
		o.Description = nil
		return nil
	}); err != nil {
		t.Fatalf("Update clear description: %v", err)
	}
	if got, _ := repos.Offerings.GetByID(ctx, cut.ID); got.Description != nil {
		t.Fatalf("description not cleared: %+v", got)
	}

	if err := repos.Offerings.Delete(ctx, beard.ID, nil); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repos.Offerings.GetByID(ctx, beard.ID); !errors.Is(err, offeringrepo.ErrNotFound) {
		t.Fatalf("GetByID after delete: err=%v, want ErrNotFound", err)
	}
	if err := repos.Offerings.Delete(ctx, beard.ID, nil); !errors.Is(err, offeringrepo.ErrNotFound) {
		t.Fatalf("Delete twice: err=%v, want ErrNotFound", err)
	}
}

func RunProfessionalRepo(t *testing.T, newRepos ReposFactory) {
	t.Helper()
	ctx := context.Background()
	repos := open(t, newRepos)

	company := seedCompany(t, repos)
	a := seedOffering(t, repos, company.ID, "A")
	b := seedOffering(t, repos, company.ID, "B")

	p := seedProfessional(t, repos, company.ID, "Ana", b.ID, a.ID, a.ID)
	got, err := repos.Professionals.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	want := domain.NormalizeOfferingIDs([]domain.OfferingID{a.ID, b.ID})
	if len(got.OfferingIDs) != 2 || got.OfferingIDs[0] != want[0] || got.OfferingIDs[1] != want[1] {
		t.Fatalf("OfferingIDs=%v, want %v", got.OfferingIDs, want)
	}

	seedProfessional(t, repos, company.ID, "bruno")
	list, err := repos.Professionals.ListByCompany(ctx, company.ID)
	if err != nil {
		t.Fatalf("ListByCompany: %v", err)
	}
	if len(list) != 2 || list[0].ID != p.ID || len(list[1].OfferingIDs) != 0 {
		t.Fatalf("unexpected list: %+v", list)
	}

	updated, err := repos.Professionals.Update(ctx, p.ID, func(cur *domain.Professional) error {
		cur.Name = "Ana Maria"
		cur.OfferingIDs = []domain.OfferingID{b.ID}
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Ana Maria" || !updated.Offers(b.ID) || updated.Offers(a.ID) {
		t.Fatalf("unexpected professional after update: %+v", updated)
	}
	if got, _ := repos.Professionals.GetByID(ctx, p.ID); len(got.OfferingIDs) != 1 || got.OfferingIDs[0] != b.ID {
		t.Fatalf("offerings not replaced: %+v", got)
	}

	if err := repos.Professionals.Delete(ctx, p.ID, nil); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repos.Professionals.GetByID(ctx, p.ID); !errors.Is(err, professionalrepo.ErrNotFound) {
		t.Fatalf("GetByID after delete: err=%v, want ErrNotFound", err)
	}
}

func RunClientRepo(t *testing.T, newRepos ReposFactory) {
	t.Helper()
	ctx := context.Background()
	repos := open(t, newRepos)

	company := seedCompany(t, repos)
	other := seedCompany(t, repos)

	ana := seedClient(t, repos, company.ID, "Ana", strPtr("ana@example.com"))
	seedClient(t, repos, company.ID, "No Email", nil)
	seedClient(t, repos, company.ID, "Also No Email", nil)
	// Same email in another company is fine.
	seedClient(t, repos, other.ID, "Ana Elsewhere", strPtr("ana@example.com"))

	dup := domain.Client{
		ID:        domain.ClientID(uuid.NewString()),
		CompanyID: company.ID,
		Name:      "Dup",
		Email:     strPtr("ana@example.com"),
		CreatedAt: baseTime,
	}
	if err := repos.Clients.Create(ctx, dup); !errors.Is(err, clientrepo.ErrEmailTaken) {
		t.Fatalf("Create duplicate email: err=%v, want ErrEmailTaken", err)
	}

	got, err := repos.Clients.GetByEmail(ctx, company.ID, "ana@example.com")
	if err != nil || got.ID != ana.ID {
		t.Fatalf("GetByEmail=%+v err=%v", got, err)
	}
	if _, err := repos.Clients.GetByEmail(ctx, company.ID, "nobody@example.com"); !errors.Is(err, clientrepo.ErrNotFound) {
		t.Fatalf("GetByEmail missing: err=%v, want ErrNotFound", err)
	}

	list, err := repos.Clients.ListByCompany(ctx, company.ID)
	if err != nil {
		t.Fatalf("ListByCompany: %v", err)
	}
	if len(list) != 3 || list[0].Name != "Also No Email" {
		t.Fatalf("unexpected list: %+v", list)
	}

	bob := seedClient(t, repos, company.ID, "Bob", strPtr("bob@example.com"))
	if _, err := repos.Clients.Update(ctx, bob.ID, func(c *domain.Client) error {
		c.Email = strPtr("ana@example.com")
		return nil
	}); !errors.Is(err, clientrepo.ErrEmailTaken) {
		t.Fatalf("Update to taken email: err=%v, want ErrEmailTaken", err)
	}
	updated, err := repos.Clients.Update(ctx, bob.ID, func(c *domain.Client) error {
		c.Email = nil
		c.Phone = strPtr("+15550100")
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Email != nil || updated.Phone == nil || *updated.Phone != "+15550100" {
		t.Fatalf("unexpected client after update: %+v", updated)
	}
	// bob's old address is free again.
	seedClient(t, repos, company.ID, "Bobby", strPtr("bob@example.com"))

	if err := repos.Clients.Delete(ctx, ana.ID, nil); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repos.Clients.GetByID(ctx, ana.ID); !errors.Is(err, clientrepo.ErrNotFound) {
		t.Fatalf("GetByID after delete: err=%v, want ErrNotFound", err)
	}
	seedClient(t, repos, company.ID, "Ana Again", strPtr("ana@example.com"))
}

func RunAppointmentRepo(t *testing.T, newRepos ReposFactory) {
	t.Helper()
	ctx := context.Background()
	repos := open(t, newRepos)

	company := seedCompany(t, repos)
	cut := seedOffering(t, repos, company.ID, "Cut")
	ana := seedProfessional(t, repos, company.ID, "Ana", cut.ID)
	bruno := seedProfessional(t, repos, company.ID, "Bruno", cut.ID)
	client := seedClient(t, repos, company.ID, "Carla", nil)

	mk := func(p domain.ProfessionalID, start time.Time) domain.Appointment {
		return domain.Appointment{
			ID:             domain.AppointmentID(uuid.NewString()),
			CompanyID:      company.ID,
			ClientID:       client.ID,
			ProfessionalID: p,
			OfferingID:     cut.ID,
			StartTime:      start,
			EndTime:        start.Add(time.Hour),
			Status:         domain.AppointmentScheduled,
			CreatedAt:      baseTime,
		}
	}

	first := mk(ana.ID, baseTime)
	if err := repos.Appointments.Create(ctx, first); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := repos.Appointments.GetByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ID != first.ID || got.ClientID != client.ID || got.OfferingID != cut.ID || got.Status != domain.AppointmentScheduled ||
		!got.StartTime.Equal(first.StartTime) || !got.EndTime.Equal(first.EndTime) {
		t.Fatalf("GetByID=%+v, want %+v", got, first)
	}

	// Overlap for the same professional is rejected; other professionals and
	// back-to-back slots are fine.
	if err := repos.Appointments.Create(ctx, mk(ana.ID, baseTime.Add(30*time.Minute))); !errors.Is(err, appointmentrepo.ErrOverlap) {
		t.Fatalf("Create overlapping: err=%v, want ErrOverlap", err)
	}
	second := mk(ana.ID, baseTime.Add(time.Hour))
	if err := repos.Appointments.Create(ctx, second); err != nil {
		t.Fatalf("Create back-to-back: %v", err)
	}
	parallel := mk(bruno.ID, baseTime.Add(30*time.Minute))
	if err := repos.Appointments.Create(ctx, parallel); err != nil {
		t.Fatalf("Create other professional: %v", err)
	}

	blocking, err := repos.Appointments.ListBlocking(ctx, ana.ID, baseTime.Add(45*time.Minute), baseTime.Add(75*time.Minute))
	if err != nil {
		t.Fatalf("ListBlocking: %v", err)
	}
	if len(blocking) != 2 || blocking[0].ID != first.ID || blocking[1].ID != second.ID {
		t.Fatalf("unexpected blocking set: %+v", blocking)
	}

	all, err := repos.Appointments.ListByCompany(ctx, company.ID, appointmentrepo.Filter{})
	if err != nil {
		t.Fatalf("ListByCompany: %v", err)
	}
	if len(all) != 3 || all[0].ID != first.ID || all[1].ID != parallel.ID || all[2].ID != second.ID {
		t.Fatalf("unexpected order: %+v", all)
	}

	from, to := baseTime.Add(30*time.Minute), baseTime.Add(2*time.Hour)
	pid := ana.ID
	filtered, err := repos.Appointments.ListByCompany(ctx, company.ID, appointmentrepo.Filter{From: &from, To: &to, ProfessionalID: &pid})
	if err != nil {
		t.Fatalf("ListByCompany filtered: %v", err)
	}
	if len(filtered) != 1 || filtered[0].ID != second.ID {
		t.Fatalf("unexpected filtered list: %+v", filtered)
	}

	// Canceling frees the slot.
	canceled, err := repos.Appointments.Update(ctx, first.ID, func(a *domain.Appointment) error {
		a.Status = domain.AppointmentCanceled
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if canceled.Status != domain.AppointmentCanceled {
		t.Fatalf("status not updated: %+v", canceled)
	}
	st := domain.AppointmentCanceled
	if byStatus, _ := repos.Appointments.ListByCompany(ctx, company.ID, appointmentrepo.Filter{Status: &st}); len(byStatus) != 1 {
		t.Fatalf("status filter: %+v", byStatus)
	}
	if err := repos.Appointments.Create(ctx, mk(ana.ID, baseTime)); err != nil {
		t.Fatalf("Create in canceled slot: %v", err)
	}

	if err := repos.Appointments.Delete(ctx, second.ID, nil); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repos.Appointments.GetByID(ctx, second.ID); !errors.Is(err, appointmentrepo.ErrNotFound) {
		t.Fatalf("GetByID after delete: err=%v, want ErrNotFound", err)
	}
}

// RunReferentialRules covers what the schema's foreign keys enforce: deletes
// cascade from companies and offerings, and rows referenced by an
// appointment cannot be deleted.
func RunReferentialRules(t *testing.T, newRepos ReposFactory) {
	t.Helper()
	ctx := context.Background()
	repos := open(t, newRepos)

	company := seedCompany(t, repos)
	cut := seedOffering(t, repos, company.ID, "Cut")
	shave := seedOffering(t, repos, company.ID, "Shave")
	ana := seedProfessional(t, repos, company.ID, "Ana", cut.ID, shave.ID)
	idle := seedProfessional(t, repos, company.ID, "Idle", shave.ID)
	client := seedClient(t, repos, company.ID, "Carla", strPtr("carla@example.com"))

	// Deleting an offering unlinks it from professionals.
	if err := repos.Offerings.Delete(ctx, shave.ID, nil); err != nil {
		t.Fatalf("Delete offering: %v", err)
	}
	got, err := repos.Professionals.GetByID(ctx, ana.ID)
	if err != nil {
		t.Fatalf("GetByID professional: %v", err)
	}
	if len(got.OfferingIDs) != 1 || got.OfferingIDs[0] != cut.ID {
		t.Fatalf("OfferingIDs=%v, want [%s]", got.OfferingIDs, cut.ID)
	}
	if got, err := repos.Professionals.GetByID(ctx, idle.ID); err != nil || len(got.OfferingIDs) != 0 {
		t.Fatalf("idle professional OfferingIDs=%v err=%v, want none", got.OfferingIDs, err)
	}

	appt := domain.Appointment{
		ID:             domain.AppointmentID(uuid.NewString()),
		CompanyID:      company.ID,
		ClientID:       client.ID,
		ProfessionalID: ana.ID,
		OfferingID:     cut.ID,
		StartTime:      baseTime,
		EndTime:        baseTime.Add(30 * time.Minute),
		Status:         domain.AppointmentScheduled,
		CreatedAt:      baseTime,
	}
	if err := repos.Appointments.Create(ctx, appt); err != nil {
		t.Fatalf("Create appointment: %v", err)
	}

	// Referenced rows stay put.
	if err := repos.Offerings.Delete(ctx, cut.ID, nil); !errors.Is(err, offeringrepo.ErrInUse) {
		t.Fatalf("Delete referenced offering: err=%v, want ErrInUse", err)
	}
	if err := repos.Professionals.Delete(ctx, ana.ID, nil); !errors.Is(err, professionalrepo.ErrInUse) {
		t.Fatalf("Delete referenced professional: err=%v, want ErrInUse", err)
	}
	if err := repos.Clients.Delete(ctx, client.ID, nil); !errors.Is(err, clientrepo.ErrInUse) {
		t.Fatalf("Delete referenced client: err=%v, want ErrInUse", err)
	}
	if _, err := repos.Offerings.GetByID(ctx, cut.ID); err != nil {
		t.Fatalf("referenced offering should survive: %v", err)
	}

	// Deleting the company removes everything it owns.
	if err := repos.Companies.Delete(ctx, company.ID, nil); err != nil {
		t.Fatalf("Delete company: %v", err)
	}
	if _, err := repos.Appointments.GetByID(ctx, appt.ID); !errors.Is(err, appointmentrepo.ErrNotFound) {
		t.Fatalf("appointment after company delete: err=%v, want ErrNotFound", err)
	}
	if _, err := repos.Offerings.GetByID(ctx, cut.ID); !errors.Is(err, offeringrepo.ErrNotFound) {
		t.Fatalf("offering after company delete: err=%v, want ErrNotFound", err)
	}
	if _, err := repos.Professionals.GetByID(ctx, ana.ID); !errors.Is(err, professionalrepo.ErrNotFound) {
		t.Fatalf("professional after company delete: err=%v, want ErrNotFound", err)
	}
	if _, err := repos.Clients.GetByID(ctx, client.ID); !errors.Is(err, clientrepo.ErrNotFound) {
		t.Fatalf("client after company delete: err=%v, want ErrNotFound", err)
	}
}

func RunIdempotencyStore(t *testing.T, newStore IdemStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	fp := idempotencyport.Fingerprint{
		Key:      idempotencyport.Key("k-" + uuid.NewString()),
		Subject:  domain.SubjectID("sub-1"),
		Route:    "POST /appointments",
		BodyHash: "",
	}
	created := time.Unix(123, 0).UTC()
	rec := idempotencyport.Record{
		StatusCode:  0,
		ContentType: "text/plain",
		Body:        []byte("hash-abc"),
		CreatedAt:   created,
	}
	if err := store.Put(ctx, fp, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, fp, time.Time{})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if string(got.Body) != "hash-abc" || got.ContentType != "text/plain" || got.StatusCode != 0 {
		t.Fatalf("unexpected record: %+v", got)
	}

	// Overwrite semantics.
	rec2 := rec
	rec2.Body = []byte("hash-def")
	if err := store.Put(ctx, fp, rec2); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, fp, time.Time{})
	if err != nil || !ok || string(got.Body) != "hash-def" {
		t.Fatalf("expected overwritten record, got ok=%v err=%v body=%q", ok, err, string(got.Body))
	}

	// Expired records are invisible.
	if _, ok, err := store.Get(ctx, fp, created.Add(time.Minute)); err != nil || ok {
		t.Fatalf("expected expired record to be ignored, ok=%v err=%v", ok, err)
	}

	// Fingerprints differing only by body hash are distinct.
	other := fp
	other.BodyHash = "h2"
	if _, ok, err := store.Get(ctx, other, time.Time{}); err != nil || ok {
		t.Fatalf("expected miss for distinct fingerprint, ok=%v err=%v", ok, err)
	}

	// Purge removes only records older than the cutoff.
	fresh := other
	fresh.BodyHash = "h3"
	if err := store.Put(ctx, fresh, idempotencyport.Record{StatusCode: 201, ContentType: "application/json", Body: []byte("{}"), CreatedAt: created.Add(time.Hour)}); err != nil {
		t.Fatalf("Put fresh: %v", err)
	}
	if _, err := store.Purge(ctx, created.Add(time.Minute)); err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if _, ok, err := store.Get(ctx, fp, time.Time{}); err != nil || ok {
		t.Fatalf("expected purged record to be gone, ok=%v err=%v", ok, err)
	}
	if _, ok, err := store.Get(ctx, fresh, time.Time{}); err != nil || !ok {
		t.Fatalf("expected fresh record to survive purge, ok=%v err=%v", ok, err)
	}
}
