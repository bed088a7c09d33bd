package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hublink/hublink/internal/handler"
	"github.com/hublink/hublink/internal/models"
	"github.com/hublink/hublink/internal/tools"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	registry := tools.NewRegistry(nil)
	err := registry.Register(tools.Tool{
		Name:        "echo",
		Description: "returns its message argument",
		Params: map[string]tools.Param{
			"message": {Type: tools.TypeString, Required: true},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return map[string]any{"message": args["message"]}, nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	h := handler.NewToolsHandler(registry)
	r := chi.NewRouter()
	r.Get("/api/v1/tools", h.List)
	r.Post("/api/v1/tools/{tool_name}", h.Invoke)
	return r
}

func TestListTools(t *testing.T) {
	r := testRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tools", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var body struct {
		Tools []struct {
			Name        string         `json:"name"`
			InputSchema map[string]any `json:"input_schema"`
		} `json:"tools"`
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 1 || body.Tools[0].Name != "echo" {
		t.Errorf("body = %+v", body)
	}
	if body.Tools[0].InputSchema["type"] != "object" {
		t.Errorf("schema = %v", body.Tools[0].InputSchema)
	}
}

func TestInvokeTool(t *testing.T) {
	r := testRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tools/echo",
		strings.NewReader(`{"message":"hi"}`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var env models.Envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !env.OK {
		t.Fatalf("envelope = %+v", env)
	}
	data := env.Data.(map[string]any)
	if data["message"] != "hi" {
		t.Errorf("data = %v", data)
	}
}

func TestInvokeUnknownToolStill200(t *testing.T) {
	r := testRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tools/nope",
		strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	// Tool-level failures travel inside the envelope, not as HTTP errors.
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var env models.Envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.OK || env.Error.Kind != models.KindUnknownTool {
		t.Errorf("envelope = %+v", env)
	}
}

func TestInvokeEmptyBodyMeansNoArguments(t *testing.T) {
	r := testRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tools/echo", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var env models.Envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// echo requires message, so this is an argument failure, not transport.
	if env.OK || env.Error.Kind != models.KindInvalidArguments {
		t.Errorf("envelope = %+v", env)
	}
}

func TestInvokeMalformedBody(t *testing.T) {
	r := testRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tools/echo",
		strings.NewReader(`{not json`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for transport-level failure", rr.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	h := handler.NewHealthHandler(nil, "static")
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	h.Health(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var body handler.HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "healthy" || body.AuthMode != "static" {
		t.Errorf("body = %+v", body)
	}
}

type failingResolver struct{}

func (failingResolver) Token(ctx context.Context) (string, error) {
	return "", &models.AuthError{Reason: models.ReasonBrokerUnreachable, Message: "down"}
}

func TestHealthDegradedWhenResolverFails(t *testing.T) {
	h := handler.NewHealthHandler(failingResolver{}, "brokered")
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	h.Health(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 when credentials unavailable", rr.Code)
	}
}
