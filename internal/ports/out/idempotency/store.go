package idempotency

import (
	"context"
	"time"

	"github.com/attend-app/attend-api/internal/domain"
)

// Key is the caller-provided idempotency key (Idempotency-Key header).
type Key string

// Fingerprint identifies a request for replay purposes.
//
// Route is the method plus route pattern (e.g. "POST /appointments").
// An empty BodyHash addresses the key's metadata entry, which remembers the
// body hash first seen for the key so reuse with a different body is detected.
type Fingerprint struct {
	Key      Key
	Subject  domain.SubjectID
	Route    string
	BodyHash string
}

// Record is a stored response replayed for a duplicate request.
type Record struct {
	StatusCode  int
	ContentType string
	Body        []byte
	CreatedAt   time.Time
}

// Store persists idempotency records.
// Get ignores records created before notBefore, which is how keys expire;
// Purge deletes those records and reports how many were removed.
type Store interface {
	Get(ctx context.Context, fp Fingerprint, notBefore time.Time) (Record, bool, error)
	Put(ctx context.Context, fp Fingerprint, rec Record) error
	Purge(ctx context.Context, before time.Time) (int64, error)
}
