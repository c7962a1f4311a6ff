package main

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/attend-app/attend-api/internal/platform/auth/jwtverifier"
)

// Dev-only JWT issuer and JWKS server for running the API with AUTH_MODE=jwt
// locally. It is not an OIDC provider.

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	port := getenv("PORT", "5556")
	issuer := getenv("ISSUER", "http://devjwt:5556")
	audience := getenv("AUDIENCE", "attend-api")
	kid := getenv("KID", "dev-kid-1")
	ttl := getenvDuration("TTL", 30*time.Minute)

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		logger.Error("generate key", "err", err)
		os.Exit(1)
	}
	jwksJSON, err := jwtverifier.EncodeJWKS(map[string]*rsa.PublicKey{kid: &priv.PublicKey})
	if err != nil {
		logger.Error("encode jwks", "err", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /.well-known/jwks.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(jwksJSON)
	})

	// GET /token?sub=alice&email=alice@example.com&name=Alice
	mux.HandleFunc("GET /token", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		sub := strings.TrimSpace(q.Get("sub"))
		if sub == "" {
			http.Error(w, "missing sub", http.StatusBadRequest)
			return
		}
		email := strings.TrimSpace(q.Get("email"))
		if email == "" {
			email = sub + "@dev.local"
		}
		sid := strings.TrimSpace(q.Get("sid"))
		if sid == "" {
			sid = uuid.NewString()
		}

		now := time.Now().UTC()
		claims := jwt.MapClaims{
			"iss":   issuer,
			"aud":   audience,
			"sub":   sub,
			"email": email,
			"sid":   sid,
			"iat":   now.Unix(),
			"exp":   now.Add(ttl).Unix(),
			// small skew tolerance for local use
			"nbf": now.Add(-5 * time.Second).Unix(),
		}
		if name := strings.TrimSpace(q.Get("name")); name != "" {
			claims["name"] = name
		}
		tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
		tok.Header["kid"] = kid
		signed, err := tok.SignedString(priv)
		if err != nil {
			logger.Error("sign token", "err", err)
			http.Error(w, "failed to mint token", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": signed,
			"sub":   sub,
			"iss":   issuer,
			"aud":   audience,
			"exp":   claims["exp"],
		})
	})

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("devjwt listening", "port", port, "iss", issuer, "aud", audience, "kid", kid, "ttl", ttl)
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("listen", "err", err)
		os.Exit(1)
	}
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getenvDuration(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
