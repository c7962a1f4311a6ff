package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/attend-app/attend-api/internal/adapters/memory"
	memclock "github.com/attend-app/attend-api/internal/adapters/memory/clock"
	memidempotency "github.com/attend-app/attend-api/internal/adapters/memory/idempotency"
	"github.com/attend-app/attend-api/internal/adapters/sessions/devsession"
	"github.com/attend-app/attend-api/internal/app/appointments"
	"github.com/attend-app/attend-api/internal/app/clients"
	"github.com/attend-app/attend-api/internal/app/companies"
	"github.com/attend-app/attend-api/internal/app/health"
	"github.com/attend-app/attend-api/internal/app/offerings"
	"github.com/attend-app/attend-api/internal/app/professionals"
	"github.com/attend-app/attend-api/internal/platform/logging"
)

func discardLogger() *slog.Logger {
	return logging.New(io.Discard, "text", slog.LevelError)
}

type testAPI struct {
	h   http.Handler
	clk *memclock.ManualClock
}

// newTestAPI serves the full router over memory repositories. Requests
// authenticate with the X-Debug-Subject header; there is no default subject.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	clk := memclock.NewManualClock(time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))

	repos := memory.NewRepos()
	companyRepo := repos.Companies
	clientSvc := clients.NewService(companyRepo, repos.Clients, clk)
	offeringSvc := offerings.NewService(companyRepo, repos.Offerings, clk)
	professionalSvc := professionals.NewService(companyRepo, repos.Professionals, repos.Offerings, clk)

	svc := Services{
		Health:        health.NewService("test", nil, clk),
		Companies:     companies.NewService(companyRepo, clk),
		Offerings:     offeringSvc,
		Professionals: professionalSvc,
		Clients:       clientSvc,
		Appointments:  appointments.NewService(companyRepo, repos.Appointments, clientSvc, professionalSvc, offeringSvc, clk),
	}
	s := NewServer(svc, memidempotency.NewStore(), clk, "test")
	h := NewRouter(s, RouterOptions{
		Sessions: devsession.New(""),
		Logger:   discardLogger(),
	})
	return &testAPI{h: h, clk: clk}
}

type request struct {
	method  string
	path    string
	subject string
	body    any
	raw     string
	headers map[string]string
}

func (a *testAPI) do(t *testing.T, req request) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	switch {
	case req.raw != "":
		body = bytes.NewBufferString(req.raw)
	case req.body != nil:
		b, err := json.Marshal(req.body)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	r := httptest.NewRequest(req.method, req.path, body)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if req.subject != "" {
		r.Header.Set(devsession.SubjectHeader, req.subject)
	}
	for k, v := range req.headers {
		r.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, r)
	return rec
}

type envelope[T any] struct {
	Success bool      `json:"success"`
	Data    T         `json:"data"`
	Error   ErrorBody `json:"error"`
	Meta    Meta      `json:"meta"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var out envelope[T]
	require.NoErrorf(t, json.Unmarshal(rec.Body.Bytes(), &out), "body=%s", rec.Body.String())
	return out
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equalf(t, want, rec.Code, "body=%s", rec.Body.String())
}

func requireFailure(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) envelope[any] {
	t.Helper()
	requireStatus(t, rec, status)
	env := decode[any](t, rec)
	require.False(t, env.Success)
	require.Equal(t, code, string(env.Error.Code))
	return env
}

// create POSTs body and returns the created resource's id.
func (a *testAPI) create(t *testing.T, subject, path string, body any) string {
	t.Helper()
	rec := a.do(t, request{method: http.MethodPost, path: path, subject: subject, body: body})
	requireStatus(t, rec, http.StatusCreated)
	env := decode[struct {
		ID string `json:"id"`
	}](t, rec)
	require.True(t, env.Success)
	require.NotEmpty(t, env.Data.ID)
	return env.Data.ID
}

type schedule struct {
	company      string
	haircut      string
	shave        string
	professional string
	client       string
}

// seedSchedule creates a company owned by subject with one professional who
// offers the haircut but not the shave.
func (a *testAPI) seedSchedule(t *testing.T, subject string) schedule {
	t.Helper()
	var s schedule
	s.company = a.create(t, subject, "/companies", map[string]any{"name": "Studio " + subject})
	s.haircut = a.create(t, subject, "/services", map[string]any{"name": "Haircut", "durationMinutes": 30, "priceCents": 2500})
	s.shave = a.create(t, subject, "/services", map[string]any{"name": "Shave", "durationMinutes": 15, "priceCents": 1000})
	s.professional = a.create(t, subject, "/professionals", map[string]any{"name": "Pat", "serviceIds": []string{s.haircut}})
	s.client = a.create(t, subject, "/clients", map[string]any{"name": "Ana", "email": "ana@example.com"})
	return s
}
