package jwtverifier

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
)

func TestEncodeJWKS_ParsesBack(t *testing.T) {
	t.Parallel()

	k1, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	b, err := EncodeJWKS(map[string]*rsa.PublicKey{"kid-1": &k1.PublicKey})
	if err != nil {
		t.Fatalf("EncodeJWKS: %v", err)
	}
	keys, err := parseJWKS(b)
	if err != nil {
		t.Fatalf("parseJWKS: %v", err)
	}
	got := keys["kid-1"]
	if got == nil || !got.Equal(&k1.PublicKey) {
		t.Fatalf("key did not round-trip")
	}
}

func TestParseJWKS_SkipsUnusableKeys(t *testing.T) {
	t.Parallel()

	if _, err := parseJWKS([]byte(`{"keys":[{"kty":"EC","kid":"ec-1","crv":"P-256"}]}`)); err == nil {
		t.Fatalf("expected error when no RSA keys present")
	}
	if _, err := parseJWKS([]byte(`{"keys":[{"kty":"RSA","kid":"enc","use":"enc","n":"AQAB","e":"AQAB"}]}`)); err == nil {
		t.Fatalf("expected encryption keys to be skipped")
	}
	if _, err := parseJWKS([]byte(`not json`)); err == nil {
		t.Fatalf("expected error for malformed body")
	}
}
