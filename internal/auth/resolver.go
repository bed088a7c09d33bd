// Package auth resolves the bearer credential attached to every outbound
// CRM call, either from a statically configured token or through a Nango
// token exchange.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/hublink/hublink/internal/config"
	"github.com/hublink/hublink/internal/models"
)

// Resolver produces a valid access token on demand. A static resolver
// returns its token verbatim and never contacts the broker; a brokered
// resolver exchanges the connection/integration pair for a short-lived
// token and caches it for the configured TTL.
type Resolver struct {
	staticToken string

	connectionID  string
	integrationID string
	baseURL       string
	secretKey     string
	ttl           time.Duration
	http          *http.Client

	group singleflight.Group

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewStatic returns a resolver backed by a fixed token.
func NewStatic(token string) *Resolver {
	return &Resolver{staticToken: token}
}

// NewBrokered returns a resolver that fetches tokens from the broker.
func NewBrokered(connectionID, integrationID, baseURL, secretKey string, ttl, timeout time.Duration) *Resolver {
	return &Resolver{
		connectionID:  connectionID,
		integrationID: integrationID,
		baseURL:       baseURL,
		secretKey:     secretKey,
		ttl:           ttl,
		http:          &http.Client{Timeout: timeout},
	}
}

// FromConfig builds the resolver for the active auth mode.
func FromConfig(cfg *config.Config) (*Resolver, error) {
	mode, err := cfg.Mode()
	if err != nil {
		return nil, err
	}
	if mode == config.AuthModeStatic {
		return NewStatic(cfg.StaticAccessToken), nil
	}
	return NewBrokered(
		cfg.NangoConnectionID,
		cfg.NangoIntegrationID,
		cfg.NangoBaseURL,
		cfg.NangoSecretKey,
		cfg.TokenTTL(),
		cfg.RequestTimeout(),
	), nil
}

// Token returns a credential usable right now, exchanging with the broker
// only when the cached one is absent or expired. Concurrent callers share a
// single exchange.
func (r *Resolver) Token(ctx context.Context) (string, error) {
	if r.staticToken != "" {
		return r.staticToken, nil
	}

	r.mu.Lock()
	if r.token != "" && time.Now().Before(r.expiry) {
		token := r.token
		r.mu.Unlock()
		return token, nil
	}
	r.mu.Unlock()

	v, err, _ := r.group.Do("token", func() (any, error) {
		token, expiry, err := r.exchange(ctx)
		if err != nil {
			return "", err
		}
		r.mu.Lock()
		r.token = token
		r.expiry = expiry
		r.mu.Unlock()
		return token, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Invalidate drops the cached credential so the next Token call performs a
// fresh exchange. Called by the HTTP client when the CRM rejects the token.
func (r *Resolver) Invalidate() {
	if r.staticToken != "" {
		return
	}
	r.mu.Lock()
	r.token = ""
	r.expiry = time.Time{}
	r.mu.Unlock()
}

// brokerResponse is the subset of the Nango connection payload we care
// about. expires_at is optional; absent means the TTL bound applies alone.
type brokerResponse struct {
	Credentials struct {
		AccessToken string `json:"access_token"`
		ExpiresAt   string `json:"expires_at"`
	} `json:"credentials"`
}

func (r *Resolver) exchange(ctx context.Context) (string, time.Time, error) {
	endpoint := fmt.Sprintf("%s/connection/%s", r.baseURL, url.PathEscape(r.connectionID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", time.Time{}, &models.AuthError{Reason: models.ReasonBrokerUnreachable, Message: err.Error()}
	}
	q := req.URL.Query()
	q.Set("provider_config_key", r.integrationID)
	q.Set("refresh_token", "true")
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Authorization", "Bearer "+r.secretKey)

	resp, err := r.http.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("broker", r.baseURL).Msg("token exchange failed")
		return "", time.Time{}, &models.AuthError{Reason: models.ReasonBrokerUnreachable, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", time.Time{}, &models.AuthError{Reason: models.ReasonBrokerUnreachable, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reason := models.ReasonBrokerUnreachable
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			reason = models.ReasonInvalidCredentials
		}
		return "", time.Time{}, &models.AuthError{
			Reason:  reason,
			Message: fmt.Sprintf("broker returned %d: %s", resp.StatusCode, truncate(string(body), 200)),
		}
	}

	var parsed brokerResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", time.Time{}, &models.AuthError{Reason: models.ReasonMalformedResponse, Message: err.Error()}
	}
	if parsed.Credentials.AccessToken == "" {
		return "", time.Time{}, &models.AuthError{
			Reason:  models.ReasonMalformedResponse,
			Message: "access token not found in broker response",
		}
	}

	expiry := time.Now().Add(r.ttl)
	// Honor a broker-reported expiry when it is sooner than our TTL.
	if parsed.Credentials.ExpiresAt != "" {
		if t, err := time.Parse(time.RFC3339, parsed.Credentials.ExpiresAt); err == nil && t.Before(expiry) {
			expiry = t
		}
	}

	log.Debug().Str("connection_id", r.connectionID).Msg("token exchange succeeded")
	return parsed.Credentials.AccessToken, expiry, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
