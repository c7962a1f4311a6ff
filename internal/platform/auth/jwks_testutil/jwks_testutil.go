// Package jwks_testutil serves rotating JWKS key sets and mints RS256 tokens for tests.
package jwks_testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/attend-app/attend-api/internal/platform/auth/jwtverifier"
)

type Keypair struct {
	Kid     string
	Private *rsa.PrivateKey
}

func GenerateRSAKeypair(kid string) (Keypair, error) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return Keypair{}, err
	}
	return Keypair{Kid: kid, Private: priv}, nil
}

// NewRotatingJWKSServer returns a JWKS server whose key set can be swapped at runtime.
//
// Use SetKeys to rotate keys.
func NewRotatingJWKSServer() (*httptest.Server, func(keys []Keypair)) {
	var jwksJSON atomic.Value // []byte
	jwksJSON.Store([]byte(`{"keys":[]}`))

	setKeys := func(keys []Keypair) {
		pubs := make(map[string]*rsa.PublicKey, len(keys))
		for _, kp := range keys {
			pubs[kp.Kid] = &kp.Private.PublicKey
		}
		b, err := jwtverifier.EncodeJWKS(pubs)
		if err != nil {
			panic(err)
		}
		jwksJSON.Store(b)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(jwksJSON.Load().([]byte))
	}))

	return srv, setKeys
}

// Token describes the claims of a minted test token.
type Token struct {
	Issuer string
	// Audience may be either a string or []string.
	Audience  any
	Subject   string
	Email     string
	Name      string
	SessionID string

	Now       time.Time
	ExpiresIn time.Duration
	// NotBefore is relative to Now; nil omits nbf.
	NotBefore *time.Duration
}

// MintRS256JWT creates a token signed with kp and carrying kp.Kid in its header.
func MintRS256JWT(kp Keypair, tok Token) (string, error) {
	claims := jwt.MapClaims{
		"iss": tok.Issuer,
		"aud": tok.Audience,
		"sub": tok.Subject,
		"exp": tok.Now.Add(tok.ExpiresIn).Unix(),
	}
	if tok.NotBefore != nil {
		claims["nbf"] = tok.Now.Add(*tok.NotBefore).Unix()
	}
	if tok.Email != "" {
		claims["email"] = tok.Email
	}
	if tok.Name != "" {
		claims["name"] = tok.Name
	}
	if tok.SessionID != "" {
		claims["sid"] = tok.SessionID
	}

	t := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	t.Header["kid"] = kp.Kid
	return t.SignedString(kp.Private)
}
