package itest

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/attend-app/attend-api/internal/adapters/httpapi"
	"github.com/attend-app/attend-api/internal/adapters/memory"
	memclock "github.com/attend-app/attend-api/internal/adapters/memory/clock"
	memidempotency "github.com/attend-app/attend-api/internal/adapters/memory/idempotency"
	pgappointmentrepo "github.com/attend-app/attend-api/internal/adapters/postgres/appointmentrepo"
	pgclientrepo "github.com/attend-app/attend-api/internal/adapters/postgres/clientrepo"
	pgcompanyrepo "github.com/attend-app/attend-api/internal/adapters/postgres/companyrepo"
	pgidempotency "github.com/attend-app/attend-api/internal/adapters/postgres/idempotency"
	pgofferingrepo "github.com/attend-app/attend-api/internal/adapters/postgres/offeringrepo"
	pgprofessionalrepo "github.com/attend-app/attend-api/internal/adapters/postgres/professionalrepo"
	postgres_testutil "github.com/attend-app/attend-api/internal/adapters/postgres/testutil"
	"github.com/attend-app/attend-api/internal/adapters/sessions/devsession"
	"github.com/attend-app/attend-api/internal/app/appointments"
	"github.com/attend-app/attend-api/internal/app/clients"
	"github.com/attend-app/attend-api/internal/app/companies"
	"github.com/attend-app/attend-api/internal/app/health"
	"github.com/attend-app/attend-api/internal/app/offerings"
	"github.com/attend-app/attend-api/internal/app/professionals"
	"github.com/attend-app/attend-api/internal/platform/logging"
	appointmentrepoport "github.com/attend-app/attend-api/internal/ports/out/appointmentrepo"
	clientrepoport "github.com/attend-app/attend-api/internal/ports/out/clientrepo"
	companyrepoport "github.com/attend-app/attend-api/internal/ports/out/companyrepo"
	idempotencyport "github.com/attend-app/attend-api/internal/ports/out/idempotency"
	offeringrepoport "github.com/attend-app/attend-api/internal/ports/out/offeringrepo"
	professionalrepoport "github.com/attend-app/attend-api/internal/ports/out/professionalrepo"
)

type backend string

const (
	backendMemory   backend = "memory"
	backendPostgres backend = "postgres"
)

func backendsFromEnv(t *testing.T) []backend {
	t.Helper()
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ITEST_BACKEND"))) {
	case "", "memory":
		return []backend{backendMemory}
	case "postgres":
		return []backend{backendPostgres}
	case "all":
		return []backend{backendMemory, backendPostgres}
	default:
		t.Fatalf("unknown ITEST_BACKEND value (expected memory|postgres|all)")
		return nil
	}
}

type testServer struct {
	baseURL string
	client  *http.Client
	clk     *memclock.ManualClock
}

func newTestServer(t *testing.T, b backend) *testServer {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))

	var (
		companyRepo      companyrepoport.Repository
		offeringRepo     offeringrepoport.Repository
		professionalRepo professionalrepoport.Repository
		clientRepo       clientrepoport.Repository
		appointmentRepo  appointmentrepoport.Repository
		idemStore        idempotencyport.Store
		pinger           health.Pinger
	)

	switch b {
	case backendPostgres:
		pool := postgres_testutil.OpenMigratedPool(t)
		companyRepo = pgcompanyrepo.NewRepo(pool)
		offeringRepo = pgofferingrepo.NewRepo(pool)
		professionalRepo = pgprofessionalrepo.NewRepo(pool)
		clientRepo = pgclientrepo.NewRepo(pool)
		appointmentRepo = pgappointmentrepo.NewRepo(pool)
		idemStore = pgidempotency.NewStore(pool)
		pinger = pool
	case backendMemory:
		mem := memory.NewRepos()
		companyRepo = mem.Companies
		offeringRepo = mem.Offerings
		professionalRepo = mem.Professionals
		clientRepo = mem.Clients
		appointmentRepo = mem.Appointments
		idemStore = memidempotency.NewStore()
	default:
		t.Fatalf("unknown backend: %s", b)
	}

	clientSvc := clients.NewService(companyRepo, clientRepo, clk)
	offeringSvc := offerings.NewService(companyRepo, offeringRepo, clk)
	professionalSvc := professionals.NewService(companyRepo, professionalRepo, offeringRepo, clk)
	api := httpapi.NewServer(httpapi.Services{
		Health:        health.NewService("itest", pinger, clk),
		Companies:     companies.NewService(companyRepo, clk),
		Offerings:     offeringSvc,
		Professionals: professionalSvc,
		Clients:       clientSvc,
		Appointments:  appointments.NewService(companyRepo, appointmentRepo, clientSvc, professionalSvc, offeringSvc, clk),
	}, idemStore, clk, "itest")

	// The dev resolver keeps the tests local. An empty default subject means
	// requests without X-Debug-Subject are unauthenticated.
	handler := httpapi.NewRouter(api, httpapi.RouterOptions{
		Sessions: devsession.New(""),
		Logger:   logging.New(io.Discard, "text", slog.LevelError),
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		baseURL: srv.URL,
		client:  srv.Client(),
		clk:     clk,
	}
}

// uniqueSubject keeps tests independent on a shared Postgres database.
func uniqueSubject(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

func (s *testServer) url(path string) string {
	if strings.HasPrefix(path, "/") {
		return s.baseURL + path
	}
	return s.baseURL + "/" + path
}

func (s *testServer) doJSON(t *testing.T, method string, path string, subject string, body any, headers ...string) (int, []byte, http.Header) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.url(path), r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if subject != "" {
		req.Header.Set(devsession.SubjectHeader, subject)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out, resp.Header
}

type errorResponse struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

type dataResponse[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
	Meta    struct {
		Timestamp string `json:"timestamp"`
		RequestID string `json:"requestId"`
	} `json:"meta"`
}

type idOnly struct {
	ID string `json:"id"`
}

func mustUnmarshal[T any](t *testing.T, b []byte) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v\nbody=%s", err, string(b))
	}
	return out
}

func requireStatus(t *testing.T, status int, body []byte, want int) {
	t.Helper()
	if status != want {
		t.Fatalf("status=%d want=%d body=%s", status, want, string(body))
	}
}

func requireErrorCode(t *testing.T, status int, body []byte, wantStatus int, wantCode string) errorResponse {
	t.Helper()
	requireStatus(t, status, body, wantStatus)
	got := mustUnmarshal[errorResponse](t, body)
	if got.Success {
		t.Fatalf("success=true on error response body=%s", string(body))
	}
	if got.Error.Code != wantCode {
		t.Fatalf("error.code=%q want=%q body=%s", got.Error.Code, wantCode, string(body))
	}
	return got
}

func requireHeaderPresent(t *testing.T, h http.Header, key string) {
	t.Helper()
	if strings.TrimSpace(h.Get(key)) == "" {
		t.Fatalf("expected header %q to be present", key)
	}
}

// mustCreate POSTs body and returns the new resource id.
func (s *testServer) mustCreate(t *testing.T, subject, path string, body any) string {
	t.Helper()
	status, b, _ := s.doJSON(t, http.MethodPost, path, subject, body)
	requireStatus(t, status, b, http.StatusCreated)
	got := mustUnmarshal[dataResponse[idOnly]](t, b)
	if !got.Success || got.Data.ID == "" {
		t.Fatalf("unexpected create response: %s", string(b))
	}
	return got.Data.ID
}
