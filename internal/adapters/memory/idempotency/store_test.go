package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/attend-app/attend-api/internal/domain"
	"github.com/attend-app/attend-api/internal/ports/out/idempotency"
)

func TestStore_PutThenGet(t *testing.T) {
	t.Parallel()

	s := NewStore()
	fp := idempotency.Fingerprint{
		Key:      "k1",
		Subject:  domain.SubjectID("sub-1"),
		Route:    "POST /appointments",
		BodyHash: "abc123",
	}
	rec := idempotency.Record{
		StatusCode:  201,
		ContentType: "application/json",
		Body:        []byte(`{"success":true}`),
		CreatedAt:   time.Unix(123, 0).UTC(),
	}

	if err := s.Put(context.Background(), fp, rec); err != nil {
		t.Fatalf("Put() err=%v", err)
	}
	rec.Body[0] = 'X'

	got, ok, err := s.Get(context.Background(), fp, time.Time{})
	if err != nil {
		t.Fatalf("Get() err=%v", err)
	}
	if !ok {
		t.Fatalf("Get() ok=false, want true")
	}
	if got.StatusCode != 201 || string(got.Body) != `{"success":true}` {
		t.Fatalf("Get()=%+v, stored body must not alias the caller's slice", got)
	}
}

func TestStore_GetIgnoresExpiredRecords(t *testing.T) {
	t.Parallel()

	s := NewStore()
	fp := idempotency.Fingerprint{Key: "k2", Subject: "sub-1", Route: "POST /appointments"}
	created := time.Unix(1000, 0).UTC()
	if err := s.Put(context.Background(), fp, idempotency.Record{Body: []byte("h"), CreatedAt: created}); err != nil {
		t.Fatalf("Put() err=%v", err)
	}

	if _, ok, _ := s.Get(context.Background(), fp, created.Add(time.Second)); ok {
		t.Fatalf("expected record created before notBefore to be ignored")
	}
	if _, ok, _ := s.Get(context.Background(), fp, created); !ok {
		t.Fatalf("expected record created at notBefore to be returned")
	}
}
