package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hublink/hublink/internal/models"
)

func brokerStub(t *testing.T, calls *int32, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q, want broker secret", got)
		}
		if got := r.URL.Query().Get("provider_config_key"); got != "hubspot" {
			t.Errorf("provider_config_key = %q", got)
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestStaticTokenVerbatim(t *testing.T) {
	r := NewStatic("pat-abc")
	got, err := r.Token(context.Background())
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if got != "pat-abc" {
		t.Errorf("token = %q, want the configured value verbatim", got)
	}
}

func TestStaticInvalidateIsNoOp(t *testing.T) {
	r := NewStatic("pat-abc")
	r.Invalidate()
	got, err := r.Token(context.Background())
	if err != nil || got != "pat-abc" {
		t.Errorf("static token should survive Invalidate, got %q, %v", got, err)
	}
}

func TestBrokeredTokenCached(t *testing.T) {
	var calls int32
	srv := brokerStub(t, &calls, http.StatusOK,
		`{"credentials":{"access_token":"tok-1"}}`)

	r := NewBrokered("conn-1", "hubspot", srv.URL, "sk-test", time.Minute, 5*time.Second)

	for i := 0; i < 3; i++ {
		got, err := r.Token(context.Background())
		if err != nil {
			t.Fatalf("Token call %d: %v", i+1, err)
		}
		if got != "tok-1" {
			t.Errorf("token = %q, want tok-1", got)
		}
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("broker contacted %d times, want 1 (cached)", n)
	}
}

func TestInvalidateForcesExchange(t *testing.T) {
	var calls int32
	srv := brokerStub(t, &calls, http.StatusOK,
		`{"credentials":{"access_token":"tok-1"}}`)

	r := NewBrokered("conn-1", "hubspot", srv.URL, "sk-test", time.Minute, 5*time.Second)
	if _, err := r.Token(context.Background()); err != nil {
		t.Fatal(err)
	}
	r.Invalidate()
	if _, err := r.Token(context.Background()); err != nil {
		t.Fatal(err)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("broker contacted %d times, want 2 after Invalidate", n)
	}
}

func TestBrokerRejectsSecret(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	r := NewBrokered("conn-1", "hubspot", srv.URL, "sk-wrong", time.Minute, 5*time.Second)
	_, err := r.Token(context.Background())

	var authErr *models.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if authErr.Reason != models.ReasonInvalidCredentials {
		t.Errorf("reason = %q, want invalid_credentials", authErr.Reason)
	}
}

func TestBrokerMalformedResponse(t *testing.T) {
	var calls int32
	srv := brokerStub(t, &calls, http.StatusOK, `{"credentials":{}}`)

	r := NewBrokered("conn-1", "hubspot", srv.URL, "sk-test", time.Minute, 5*time.Second)
	_, err := r.Token(context.Background())

	var authErr *models.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if authErr.Reason != models.ReasonMalformedResponse {
		t.Errorf("reason = %q, want malformed_response", authErr.Reason)
	}
}

func TestBrokerUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	r := NewBrokered("conn-1", "hubspot", srv.URL, "sk-test", time.Minute, time.Second)
	_, err := r.Token(context.Background())

	var authErr *models.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if authErr.Reason != models.ReasonBrokerUnreachable {
		t.Errorf("reason = %q, want broker_unreachable", authErr.Reason)
	}
}

func TestBrokerExpiryHonored(t *testing.T) {
	var calls int32
	soon := time.Now().Add(50 * time.Millisecond).Format(time.RFC3339Nano)
	srv := brokerStub(t, &calls, http.StatusOK,
		`{"credentials":{"access_token":"tok-1","expires_at":"`+soon+`"}}`)

	r := NewBrokered("conn-1", "hubspot", srv.URL, "sk-test", time.Hour, 5*time.Second)
	if _, err := r.Token(context.Background()); err != nil {
		t.Fatal(err)
	}

	time.Sleep(80 * time.Millisecond)
	if _, err := r.Token(context.Background()); err != nil {
		t.Fatal(err)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("broker contacted %d times, want 2 after broker-reported expiry", n)
	}
}
