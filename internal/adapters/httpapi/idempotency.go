package httpapi

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/attend-app/attend-api/internal/app/apperr"
	"github.com/attend-app/attend-api/internal/domain"
	"github.com/attend-app/attend-api/internal/platform/logging"
	"github.com/attend-app/attend-api/internal/ports/out/idempotency"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
	replayedHeader       = "Idempotent-Replayed"

	maxIdempotencyKey = 255
)

// IdempotencyTTL is how long a stored response may be replayed.
const IdempotencyTTL = 24 * time.Hour

var errIdempotencyKeyReuse = apperr.New(apperr.CodeIdempotencyKeyReuse, "Idempotency key was already used with a different payload.")

// idempotent runs a state-changing handler at most once per
// (subject, key, route, body):
//   - a repeat with the same body replays the stored 2xx response
//   - a repeat with a different body fails with IDEMPOTENCY_KEY_REUSE
//
// Requests without the Idempotency-Key header run unconditionally. Failed
// attempts are not stored, so they may be retried with the same key.
func (s *Server) idempotent(w http.ResponseWriter, r *http.Request, subject domain.SubjectID, route string, body any, run func() (int, any, error)) error {
	key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
	if key == "" || s.idem == nil {
		status, payload, err := run()
		if err != nil {
			return err
		}
		writeJSON(w, status, payload)
		return nil
	}
	if len(key) > maxIdempotencyKey {
		return apperr.Validation(IdempotencyKeyHeader, "must be at most 255 characters")
	}

	bodyHash, err := hashBody(body)
	if err != nil {
		return err
	}
	ctx := r.Context()
	now := s.clk.Now()
	notBefore := now.Add(-IdempotencyTTL)

	metaFP := idempotency.Fingerprint{
		Key:     idempotency.Key(key),
		Subject: subject,
		Route:   route,
	}
	meta, ok, err := s.idem.Get(ctx, metaFP, notBefore)
	if err != nil {
		return err
	}
	bound := ok
	if bound && string(meta.Body) != bodyHash {
		return errIdempotencyKeyReuse
	}

	respFP := metaFP
	respFP.BodyHash = bodyHash
	rec, ok, err := s.idem.Get(ctx, respFP, notBefore)
	if err != nil {
		return err
	}
	if ok && rec.StatusCode >= 200 && rec.StatusCode < 300 {
		w.Header().Set("Content-Type", rec.ContentType)
		w.Header().Set(replayedHeader, "true")
		w.WriteHeader(rec.StatusCode)
		_, _ = w.Write(rec.Body)
		return nil
	}

	status, payload, err := run()
	if err != nil {
		return err
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	// The key binds to this body only once a response exists to replay.
	if !bound {
		if err := s.idem.Put(ctx, metaFP, idempotency.Record{
			ContentType: "text/plain",
			Body:        []byte(bodyHash),
			CreatedAt:   now,
		}); err != nil {
			logging.FromContext(ctx).Warn("bind idempotency key", "err", err)
		}
	}
	if err := s.idem.Put(ctx, respFP, idempotency.Record{
		StatusCode:  status,
		ContentType: "application/json",
		Body:        b,
		CreatedAt:   now,
	}); err != nil {
		logging.FromContext(ctx).Warn("store idempotent response", "err", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
	return nil
}

func hashBody(body any) (string, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
