// Package authserver resolves sessions by asking the external auth server
// which session the inbound cookies or Authorization header belong to.
package authserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/attend-app/attend-api/internal/domain"
	"github.com/attend-app/attend-api/internal/ports/out/sessions"
)

// SessionPath is the auth server endpoint returning the current session.
const SessionPath = "/api/auth/get-session"

// forwardedHeaders carry the caller's credentials to the auth server.
var forwardedHeaders = []string{"Cookie", "Authorization"}

type Client struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
	}
}

type sessionResponse struct {
	Session *struct {
		ID     string `json:"id"`
		UserID string `json:"userId"`
	} `json:"session"`
	User *struct {
		ID    string  `json:"id"`
		Email string  `json:"email"`
		Name  *string `json:"name"`
	} `json:"user"`
}

func (c *Client) Resolve(ctx context.Context, h http.Header) (domain.AuthSession, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+SessionPath, nil)
	if err != nil {
		return domain.AuthSession{}, err
	}
	forwarded := false
	for _, name := range forwardedHeaders {
		for _, v := range h.Values(name) {
			req.Header.Add(name, v)
			forwarded = true
		}
	}
	if !forwarded {
		return domain.AuthSession{}, sessions.ErrNoSession
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.AuthSession{}, fmt.Errorf("get session: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		_, _ = io.Copy(io.Discard, resp.Body)
		return domain.AuthSession{}, sessions.ErrNoSession
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		_, _ = io.Copy(io.Discard, resp.Body)
		return domain.AuthSession{}, fmt.Errorf("get session: status=%d", resp.StatusCode)
	}

	// The auth server answers a literal null when no session is bound.
	var body *sessionResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.AuthSession{}, sessions.ErrNoSession
		}
		return domain.AuthSession{}, fmt.Errorf("decode session: %w", err)
	}
	if body == nil || body.Session == nil || body.User == nil || body.User.ID == "" {
		return domain.AuthSession{}, sessions.ErrNoSession
	}

	return domain.AuthSession{
		User: domain.User{
			ID:    domain.SubjectID(body.User.ID),
			Email: body.User.Email,
			Name:  body.User.Name,
		},
		Session: domain.Session{
			ID:     body.Session.ID,
			UserID: domain.SubjectID(body.Session.UserID),
		},
	}, nil
}
