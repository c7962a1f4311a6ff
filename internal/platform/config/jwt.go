package config

import (
	"fmt"
	"time"
)

// JWTConfig configures bearer token verification against a JWKS endpoint.
type JWTConfig struct {
	Issuer   string
	Audience string
	JWKSURL  string

	ClockSkew              time.Duration
	JWKSRefreshInterval    time.Duration
	JWKSMinRefreshInterval time.Duration

	HTTPTimeout time.Duration
}

func LoadJWTConfigFromEnv() (JWTConfig, error) {
	cfg := JWTConfig{
		Issuer:   getenv("JWT_ISSUER", ""),
		Audience: getenv("JWT_AUDIENCE", ""),
		JWKSURL:  getenv("JWT_JWKS_URL", ""),
	}
	if cfg.Issuer == "" || cfg.Audience == "" || cfg.JWKSURL == "" {
		return JWTConfig{}, fmt.Errorf("missing required env vars: JWT_ISSUER, JWT_AUDIENCE, JWT_JWKS_URL")
	}

	var err error
	if cfg.ClockSkew, err = getenvDuration("JWT_CLOCK_SKEW", 30*time.Second); err != nil {
		return JWTConfig{}, err
	}
	// Periodic refresh picks up key rotation even while an old key is cached.
	if cfg.JWKSRefreshInterval, err = getenvDuration("JWT_JWKS_REFRESH_INTERVAL", 5*time.Minute); err != nil {
		return JWTConfig{}, err
	}
	// Bounds refreshes triggered by unknown kids.
	if cfg.JWKSMinRefreshInterval, err = getenvDuration("JWT_JWKS_MIN_REFRESH_INTERVAL", 10*time.Second); err != nil {
		return JWTConfig{}, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("JWT_HTTP_TIMEOUT", 5*time.Second); err != nil {
		return JWTConfig{}, err
	}
	return cfg, nil
}
