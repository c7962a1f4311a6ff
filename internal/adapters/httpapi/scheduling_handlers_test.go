package httpapi

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var monday9am = time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)

func TestOfferings_CRUD(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	api.create(t, "owner", "/companies", map[string]any{"name": "Acme"})

	id := api.create(t, "owner", "/services", map[string]any{
		"name": "Haircut", "description": "Wash and cut", "durationMinutes": 30, "priceCents": 2500,
	})

	rec := api.do(t, request{method: http.MethodGet, path: "/services", subject: "owner"})
	requireStatus(t, rec, http.StatusOK)
	list := decode[[]offeringView](t, rec)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "Wash and cut", *list.Data[0].Description)

	// Explicit null clears the description; absent fields are left alone.
	rec = api.do(t, request{method: http.MethodPut, path: "/services/" + id, subject: "owner", raw: `{"description":null,"priceCents":3000}`})
	requireStatus(t, rec, http.StatusOK)
	got := decode[offeringView](t, rec).Data
	assert.Nil(t, got.Description)
	assert.Equal(t, 3000, got.PriceCents)
	assert.Equal(t, "Haircut", got.Name)
	assert.Equal(t, 30, got.DurationMinutes)

	env := requireFailure(t,
		api.do(t, request{method: http.MethodPost, path: "/services", subject: "owner", body: map[string]any{"name": "Bad", "durationMinutes": 0}}),
		http.StatusBadRequest, "VALIDATION_ERROR")
	assert.Contains(t, env.Error.Details, "durationMinutes")
	assert.Contains(t, env.Error.Details, "priceCents")

	missing := uuid.NewString()
	requireFailure(t, api.do(t, request{method: http.MethodGet, path: "/services/" + missing, subject: "owner"}), http.StatusNotFound, "SERVICE_NOT_FOUND")

	requireStatus(t, api.do(t, request{method: http.MethodDelete, path: "/services/" + id, subject: "owner"}), http.StatusNoContent)
	requireFailure(t, api.do(t, request{method: http.MethodGet, path: "/services/" + id, subject: "owner"}), http.StatusNotFound, "SERVICE_NOT_FOUND")
}

func TestOfferings_OtherCompanyIsForbidden(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	s := api.seedSchedule(t, "owner")
	api.create(t, "rival", "/companies", map[string]any{"name": "Rival"})

	requireFailure(t, api.do(t, request{method: http.MethodGet, path: "/services/" + s.haircut, subject: "rival"}), http.StatusForbidden, "FORBIDDEN")
	requireFailure(t, api.do(t, request{method: http.MethodDelete, path: "/services/" + s.haircut, subject: "rival"}), http.StatusForbidden, "FORBIDDEN")

	rec := api.do(t, request{method: http.MethodGet, path: "/services", subject: "rival"})
	requireStatus(t, rec, http.StatusOK)
	assert.Empty(t, decode[[]offeringView](t, rec).Data)
}

func TestProfessionals_Services(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	s := api.seedSchedule(t, "owner")

	rec := api.do(t, request{method: http.MethodGet, path: "/professionals/" + s.professional, subject: "owner"})
	requireStatus(t, rec, http.StatusOK)
	assert.Equal(t, []string{s.haircut}, decode[professionalView](t, rec).Data.ServiceIDs)

	rec = api.do(t, request{method: http.MethodPut, path: "/professionals/" + s.professional + "/services", subject: "owner",
		body: map[string]any{"serviceIds": []string{s.shave, s.haircut, s.shave}}})
	requireStatus(t, rec, http.StatusOK)
	assert.Len(t, decode[[]offeringView](t, rec).Data, 2)

	rec = api.do(t, request{method: http.MethodGet, path: "/professionals/" + s.professional + "/services", subject: "owner"})
	requireStatus(t, rec, http.StatusOK)
	assert.Len(t, decode[[]offeringView](t, rec).Data, 2)

	requireFailure(t,
		api.do(t, request{method: http.MethodPut, path: "/professionals/" + s.professional + "/services", subject: "owner",
			body: map[string]any{"serviceIds": []string{uuid.NewString()}}}),
		http.StatusNotFound, "SERVICE_NOT_FOUND")

	env := requireFailure(t,
		api.do(t, request{method: http.MethodPut, path: "/professionals/" + s.professional + "/services", subject: "owner",
			body: map[string]any{"serviceIds": []string{"nope"}}}),
		http.StatusBadRequest, "VALIDATION_ERROR")
	assert.Equal(t, "must be a UUID", env.Error.Details["serviceIds[0]"])

	rec = api.do(t, request{method: http.MethodPut, path: "/professionals/" + s.professional, subject: "owner", body: map[string]any{"name": "Pat B."}})
	requireStatus(t, rec, http.StatusOK)
	assert.Equal(t, "Pat B.", decode[professionalView](t, rec).Data.Name)

	rec = api.do(t, request{method: http.MethodGet, path: "/professionals", subject: "owner"})
	requireStatus(t, rec, http.StatusOK)
	assert.Len(t, decode[[]professionalView](t, rec).Data, 1)

	requireFailure(t, api.do(t, request{method: http.MethodGet, path: "/professionals/" + uuid.NewString(), subject: "owner"}), http.StatusNotFound, "PROFESSIONAL_NOT_FOUND")
}

func TestDeletes_FollowReferences(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	s := api.seedSchedule(t, "owner")

	requireStatus(t, api.do(t, request{method: http.MethodDelete, path: "/services/" + s.haircut, subject: "owner"}), http.StatusNoContent)
	rec := api.do(t, request{method: http.MethodGet, path: "/professionals/" + s.professional, subject: "owner"})
	requireStatus(t, rec, http.StatusOK)
	assert.Empty(t, decode[professionalView](t, rec).Data.ServiceIDs)

	rec = api.do(t, request{method: http.MethodPut, path: "/professionals/" + s.professional + "/services", subject: "owner",
		body: map[string]any{"serviceIds": []string{s.shave}}})
	requireStatus(t, rec, http.StatusOK)
	shave := book(s, monday9am)
	shave["serviceId"] = s.shave
	booked := api.create(t, "owner", "/appointments", shave)

	requireFailure(t, api.do(t, request{method: http.MethodDelete, path: "/services/" + s.shave, subject: "owner"}), http.StatusConflict, "CONFLICT")
	requireFailure(t, api.do(t, request{method: http.MethodDelete, path: "/clients/" + s.client, subject: "owner"}), http.StatusConflict, "CONFLICT")
	requireFailure(t, api.do(t, request{method: http.MethodDelete, path: "/professionals/" + s.professional, subject: "owner"}), http.StatusConflict, "CONFLICT")

	requireStatus(t, api.do(t, request{method: http.MethodDelete, path: "/companies/" + s.company, subject: "owner"}), http.StatusNoContent)
	api.create(t, "owner", "/companies", map[string]any{"name": "Fresh Start"})
	requireFailure(t, api.do(t, request{method: http.MethodGet, path: "/appointments/" + booked, subject: "owner"}), http.StatusNotFound, "APPOINTMENT_NOT_FOUND")
	requireFailure(t, api.do(t, request{method: http.MethodGet, path: "/clients/" + s.client, subject: "owner"}), http.StatusNotFound, "CLIENT_NOT_FOUND")
}

func TestClients_CRUD(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	s := api.seedSchedule(t, "owner")

	requireFailure(t,
		api.do(t, request{method: http.MethodPost, path: "/clients", subject: "owner", body: map[string]any{"name": "Dup", "email": "ANA@example.com"}}),
		http.StatusConflict, "EMAIL_IN_USE")

	rec := api.do(t, request{method: http.MethodPut, path: "/clients/" + s.client, subject: "owner", raw: `{"phone":"555-0100","email":null}`})
	requireStatus(t, rec, http.StatusOK)
	c := decode[clientView](t, rec).Data
	assert.Nil(t, c.Email)
	require.NotNil(t, c.Phone)
	assert.Equal(t, "555-0100", *c.Phone)
	assert.Equal(t, "Ana", c.Name)

	rec = api.do(t, request{method: http.MethodGet, path: "/clients", subject: "owner"})
	requireStatus(t, rec, http.StatusOK)
	assert.Len(t, decode[[]clientView](t, rec).Data, 1)

	requireStatus(t, api.do(t, request{method: http.MethodDelete, path: "/clients/" + s.client, subject: "owner"}), http.StatusNoContent)
	requireFailure(t, api.do(t, request{method: http.MethodGet, path: "/clients/" + s.client, subject: "owner"}), http.StatusNotFound, "CLIENT_NOT_FOUND")
}

func book(s schedule, start time.Time) map[string]any {
	return map[string]any{
		"clientId":       s.client,
		"professionalId": s.professional,
		"serviceId":      s.haircut,
		"startTime":      start.Format(time.RFC3339),
	}
}

func TestAppointments_CreateAndConflict(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	s := api.seedSchedule(t, "owner")

	rec := api.do(t, request{method: http.MethodPost, path: "/appointments", subject: "owner", body: book(s, monday9am)})
	requireStatus(t, rec, http.StatusCreated)
	first := decode[appointmentView](t, rec).Data
	assert.Equal(t, "scheduled", first.Status)
	assert.Equal(t, s.haircut, first.ServiceID)
	assert.True(t, first.EndTime.Equal(monday9am.Add(30*time.Minute)))

	env := requireFailure(t,
		api.do(t, request{method: http.MethodPost, path: "/appointments", subject: "owner", body: book(s, monday9am.Add(10*time.Minute))}),
		http.StatusConflict, "APPOINTMENT_CONFLICT")
	assert.Equal(t, first.ID, env.Error.Details["conflictingAppointmentId"])

	shave := book(s, monday9am.Add(time.Hour))
	shave["serviceId"] = s.shave
	requireFailure(t, api.do(t, request{method: http.MethodPost, path: "/appointments", subject: "owner", body: shave}), http.StatusBadRequest, "SERVICE_NOT_OFFERED")

	backwards := book(s, monday9am.Add(2*time.Hour))
	backwards["endTime"] = monday9am.Add(time.Hour).Format(time.RFC3339)
	requireFailure(t, api.do(t, request{method: http.MethodPost, path: "/appointments", subject: "owner", body: backwards}), http.StatusBadRequest, "APPOINTMENT_INVALID_TIME")

	noStart := book(s, monday9am)
	delete(noStart, "startTime")
	env = requireFailure(t, api.do(t, request{method: http.MethodPost, path: "/appointments", subject: "owner", body: noStart}), http.StatusBadRequest, "VALIDATION_ERROR")
	assert.Equal(t, "is required", env.Error.Details["startTime"])
}

func TestAppointments_ListFilters(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	s := api.seedSchedule(t, "owner")

	for i := range 3 {
		api.create(t, "owner", "/appointments", book(s, monday9am.Add(time.Duration(i)*time.Hour)))
	}

	list := func(q url.Values) []appointmentView {
		t.Helper()
		rec := api.do(t, request{method: http.MethodGet, path: "/appointments?" + q.Encode(), subject: "owner"})
		requireStatus(t, rec, http.StatusOK)
		return decode[[]appointmentView](t, rec).Data
	}

	assert.Len(t, list(url.Values{}), 3)
	assert.Len(t, list(url.Values{"from": {monday9am.Add(time.Hour).Format(time.RFC3339)}}), 2)
	assert.Len(t, list(url.Values{"professionalId": {s.professional}}), 3)
	assert.Len(t, list(url.Values{"professionalId": {uuid.NewString()}}), 0)
	assert.Len(t, list(url.Values{"status": {"canceled"}}), 0)

	env := requireFailure(t,
		api.do(t, request{method: http.MethodGet, path: "/appointments?from=yesterday", subject: "owner"}),
		http.StatusBadRequest, "VALIDATION_ERROR")
	assert.Contains(t, env.Error.Details, "from")
	requireFailure(t, api.do(t, request{method: http.MethodGet, path: "/appointments?status=pending", subject: "owner"}), http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestAppointments_StatusTransitions(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	s := api.seedSchedule(t, "owner")
	id := api.create(t, "owner", "/appointments", book(s, monday9am))
	path := "/appointments/" + id + "/status"

	rec := api.do(t, request{method: http.MethodPut, path: path, subject: "owner", body: map[string]any{"status": "completed"}})
	requireStatus(t, rec, http.StatusOK)
	assert.Equal(t, "completed", decode[appointmentView](t, rec).Data.Status)

	env := requireFailure(t,
		api.do(t, request{method: http.MethodPut, path: path, subject: "owner", body: map[string]any{"status": "scheduled"}}),
		http.StatusConflict, "APPOINTMENT_INVALID_TRANSITION")
	assert.Equal(t, "completed", env.Error.Details["from"])

	requireFailure(t,
		api.do(t, request{method: http.MethodPut, path: path, subject: "owner", body: map[string]any{"status": "done"}}),
		http.StatusBadRequest, "VALIDATION_ERROR")

	api.create(t, "rival", "/companies", map[string]any{"name": "Rival"})
	requireFailure(t, api.do(t, request{method: http.MethodGet, path: "/appointments/" + id, subject: "rival"}), http.StatusForbidden, "FORBIDDEN")

	requireStatus(t, api.do(t, request{method: http.MethodDelete, path: "/appointments/" + id, subject: "owner"}), http.StatusNoContent)
	requireFailure(t, api.do(t, request{method: http.MethodGet, path: "/appointments/" + id, subject: "owner"}), http.StatusNotFound, "APPOINTMENT_NOT_FOUND")
}

func TestAppointments_ForeignReferences(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	s := api.seedSchedule(t, "owner")
	theirs := api.seedSchedule(t, "rival")

	mixed := book(s, monday9am)
	mixed["clientId"] = theirs.client
	requireFailure(t, api.do(t, request{method: http.MethodPost, path: "/appointments", subject: "owner", body: mixed}), http.StatusForbidden, "FORBIDDEN")

	mixed["clientId"] = uuid.NewString()
	requireFailure(t, api.do(t, request{method: http.MethodPost, path: "/appointments", subject: "owner", body: mixed}), http.StatusNotFound, "CLIENT_NOT_FOUND")
}
