// Package auth obtains the short-lived bearer tokens the cloud requires on
// its push channel. Tokens are never cached: the live-status client asks
// for a fresh one before every connection attempt.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenSource supplies an opaque bearer token on demand. An empty token
// with a nil error means the provider has no session for us right now.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// HTTPTokenSource exchanges an API key for a session token at the identity
// provider's token endpoint.
type HTTPTokenSource struct {
	tokenURL string
	apiKey   string
	client   *http.Client
}

// NewHTTPTokenSource creates a token source for the given endpoint.
func NewHTTPTokenSource(tokenURL, apiKey string, timeout time.Duration) *HTTPTokenSource {
	return &HTTPTokenSource{
		tokenURL: tokenURL,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Token fetches a fresh bearer token. Tokens that are already expired
// according to their JWT exp claim are rejected rather than handed to the
// transport, where they would fail the handshake anyway.
func (s *HTTPTokenSource) Token(ctx context.Context) (string, error) {
	body, err := json.Marshal(map[string]string{"api_key": s.apiKey})
	if err != nil {
		return "", fmt.Errorf("failed to marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}

	var tr tokenResponse
	if err := json.Unmarshal(raw, &tr); err != nil {
		return "", fmt.Errorf("failed to unmarshal token response: %w", err)
	}

	if tr.Token != "" {
		if remaining, ok := tokenTTL(tr.Token, time.Now()); ok {
			if remaining <= 0 {
				return "", fmt.Errorf("identity provider returned an expired token")
			}
			log.Printf("Obtained session token valid for %s", remaining.Round(time.Second))
		}
	}

	return tr.Token, nil
}

// tokenTTL inspects the exp claim of a JWT without verifying its signature;
// signature verification happens on the cloud side. Non-JWT or claimless
// tokens report ok=false.
func tokenTTL(token string, now time.Time) (time.Duration, bool) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return 0, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0, false
	}
	return exp.Time.Sub(now), true
}

// StaticTokenSource returns the same token on every call. Useful for
// development setups without an identity provider.
type StaticTokenSource string

// Token implements TokenSource.
func (s StaticTokenSource) Token(context.Context) (string, error) {
	return string(s), nil
}
