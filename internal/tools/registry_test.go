package tools

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hublink/hublink/internal/auth"
	"github.com/hublink/hublink/internal/hubspot"
	"github.com/hublink/hublink/internal/models"
	"github.com/hublink/hublink/internal/service"
)

// buildTestRegistry wires the full catalog against a stub CRM and reports
// every network call through the counter.
func buildTestRegistry(t *testing.T, calls *int) *Registry {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Write([]byte(`{"total":0,"results":[]}`))
	}))
	t.Cleanup(srv.Close)

	client := hubspot.New(srv.URL, 5*time.Second, auth.NewStatic("pat-test"))
	r, err := BuildRegistry(Services{
		Companies: service.NewCompanyService(client),
		Contacts:  service.NewContactService(client),
		Lists:     service.NewListService(client),
		Deals:     service.NewDealService(client),
		Tickets:   service.NewTicketService(client),
	}, nil)
	if err != nil {
		t.Fatalf("BuildRegistry: %v", err)
	}
	return r
}

func TestCatalogSize(t *testing.T) {
	var calls int
	r := buildTestRegistry(t, &calls)
	if got := len(r.List()); got != 34 {
		t.Errorf("catalog holds %d tools, want 34", got)
	}
}

func TestDispatchUnknownTool(t *testing.T) {
	var calls int
	r := buildTestRegistry(t, &calls)

	env := r.Dispatch(context.Background(), "launch_rocket", map[string]any{})
	if env.OK {
		t.Fatal("unknown tool should not succeed")
	}
	if env.Error.Kind != models.KindUnknownTool {
		t.Errorf("kind = %q, want unknown_tool", env.Error.Kind)
	}
	if calls != 0 {
		t.Errorf("unknown tool made %d network calls, want 0", calls)
	}
}

func TestDispatchMissingRequiredArgument(t *testing.T) {
	var calls int
	r := buildTestRegistry(t, &calls)

	env := r.Dispatch(context.Background(), "create_company", map[string]any{})
	if env.OK {
		t.Fatal("missing required argument should not succeed")
	}
	if env.Error.Kind != models.KindInvalidArguments {
		t.Errorf("kind = %q, want invalid_arguments", env.Error.Kind)
	}
	if env.Error.Field != "company_name" {
		t.Errorf("field = %q", env.Error.Field)
	}
	if calls != 0 {
		t.Errorf("schema rejection made %d network calls, want 0", calls)
	}
}

func TestDispatchUndeclaredArgument(t *testing.T) {
	var calls int
	r := buildTestRegistry(t, &calls)

	env := r.Dispatch(context.Background(), "delete_company", map[string]any{
		"company_id": "1",
		"force":      true,
	})
	if env.OK || env.Error.Kind != models.KindInvalidArguments {
		t.Fatalf("undeclared argument should be invalid_arguments, got %+v", env.Error)
	}
	if calls != 0 {
		t.Errorf("made %d network calls, want 0", calls)
	}
}

func TestDispatchAppliesDefaults(t *testing.T) {
	seen := map[string]any{}
	tool := Tool{
		Name:        "echo_args",
		Description: "test fixture",
		Params: map[string]Param{
			"limit": {Type: TypeInteger, Default: 10},
			"sort":  {Type: TypeString, Default: "createdate", Enum: []string{"createdate"}},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			seen = args
			return "ok", nil
		},
	}
	r := NewRegistry(nil)
	if err := r.Register(tool); err != nil {
		t.Fatal(err)
	}

	env := r.Dispatch(context.Background(), "echo_args", map[string]any{})
	if !env.OK {
		t.Fatalf("dispatch failed: %+v", env.Error)
	}
	if seen["limit"] != 10 || seen["sort"] != "createdate" {
		t.Errorf("defaults not applied: %v", seen)
	}
}

func TestDispatchCoercesJSONNumbers(t *testing.T) {
	var got int
	tool := Tool{
		Name: "take_int",
		Params: map[string]Param{
			"n": {Type: TypeInteger, Required: true},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			got = args["n"].(int)
			return nil, nil
		},
	}
	r := NewRegistry(nil)
	if err := r.Register(tool); err != nil {
		t.Fatal(err)
	}

	// JSON decoding hands numbers over as float64.
	env := r.Dispatch(context.Background(), "take_int", map[string]any{"n": float64(42)})
	if !env.OK {
		t.Fatalf("dispatch failed: %+v", env.Error)
	}
	if got != 42 {
		t.Errorf("n = %d", got)
	}

	env = r.Dispatch(context.Background(), "take_int", map[string]any{"n": 4.2})
	if env.OK || env.Error.Kind != models.KindInvalidArguments {
		t.Errorf("fractional value should be rejected, got %+v", env.Error)
	}
}

func TestDispatchEnumRejection(t *testing.T) {
	var calls int
	r := buildTestRegistry(t, &calls)

	env := r.Dispatch(context.Background(), "get_recent_companies", map[string]any{
		"sort_by": "dealname",
	})
	if env.OK || env.Error.Kind != models.KindInvalidArguments {
		t.Fatalf("enum violation should be invalid_arguments, got %+v", env.Error)
	}
	if calls != 0 {
		t.Errorf("made %d network calls, want 0", calls)
	}
}

func TestRegisterDuplicateName(t *testing.T) {
	r := NewRegistry(nil)
	tool := Tool{Name: "dup", Execute: func(ctx context.Context, args map[string]any) (any, error) { return nil, nil }}
	if err := r.Register(tool); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(tool); err == nil {
		t.Error("duplicate name should be rejected")
	}
}

func TestDispatchErrorShaping(t *testing.T) {
	tool := Tool{
		Name: "always_fails",
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return nil, &models.NotFoundError{Resource: "contact", Key: "x@example.com"}
		},
	}
	r := NewRegistry(nil)
	if err := r.Register(tool); err != nil {
		t.Fatal(err)
	}

	env := r.Dispatch(context.Background(), "always_fails", map[string]any{})
	if env.OK {
		t.Fatal("expected failure envelope")
	}
	if env.Error.Kind != models.KindNotFound {
		t.Errorf("kind = %q, want not_found", env.Error.Kind)
	}
	if env.Data != nil {
		t.Error("failure envelope must not carry data")
	}
}

func TestDispatchUnrecognizedErrorMapsToUnknown(t *testing.T) {
	tool := Tool{
		Name: "opaque_failure",
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return nil, errors.New("something odd")
		},
	}
	r := NewRegistry(nil)
	if err := r.Register(tool); err != nil {
		t.Fatal(err)
	}

	env := r.Dispatch(context.Background(), "opaque_failure", map[string]any{})
	if env.OK || env.Error.Kind != models.KindUnknown {
		t.Errorf("unrecognized error should map to unknown, got %+v", env.Error)
	}
}

func TestInputSchemaShape(t *testing.T) {
	var calls int
	r := buildTestRegistry(t, &calls)

	tool, ok := r.Get("create_contact")
	if !ok {
		t.Fatal("create_contact missing from catalog")
	}
	schema := tool.InputSchema()
	if schema["type"] != "object" {
		t.Errorf("type = %v", schema["type"])
	}
	required, _ := schema["required"].([]string)
	if len(required) != 3 {
		t.Errorf("required = %v, want email, first_name, last_name", required)
	}
	props := schema["properties"].(map[string]any)
	if _, ok := props["email"]; !ok {
		t.Error("email missing from properties")
	}
}
