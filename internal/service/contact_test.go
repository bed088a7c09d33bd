package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/hublink/hublink/internal/models"
)

func TestContactCreateValidatesEmailLocally(t *testing.T) {
	var calls int
	client := fixture(t, func(w http.ResponseWriter, r *http.Request) { calls++ })

	svc := NewContactService(client)
	_, err := svc.Create(context.Background(), "not-an-email", "Ada", "Lovelace", "")

	var valErr *models.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if valErr.Field != "email" {
		t.Errorf("field = %q", valErr.Field)
	}
	if calls != 0 {
		t.Errorf("invalid email should not reach the API, made %d calls", calls)
	}
}

func TestContactCreate(t *testing.T) {
	client := fixture(t, func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		props := body["properties"].(map[string]any)
		if props["email"] != "ada@example.com" || props["firstname"] != "Ada" {
			t.Errorf("properties = %v", props)
		}
		w.Write([]byte(`{"id":"77","properties":{"email":"ada@example.com"}}`))
	})

	svc := NewContactService(client)
	got, err := svc.Create(context.Background(), "ada@example.com", "Ada", "Lovelace", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got["id"] != "77" {
		t.Errorf("id = %v", got["id"])
	}
}

func TestGetByEmailNotFound(t *testing.T) {
	client := fixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total":0,"results":[]}`))
	})

	svc := NewContactService(client)
	_, err := svc.GetByEmail(context.Background(), "ghost@example.com")

	var nfErr *models.NotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestGetByEmailAmbiguous(t *testing.T) {
	client := fixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total":2,"results":[{"id":"1"},{"id":"2"}]}`))
	})

	svc := NewContactService(client)
	_, err := svc.GetByEmail(context.Background(), "shared@example.com")

	var ambErr *models.AmbiguousError
	if !errors.As(err, &ambErr) {
		t.Fatalf("expected AmbiguousError, got %v", err)
	}
	if ambErr.Matches != 2 {
		t.Errorf("matches = %d", ambErr.Matches)
	}
}

func TestUpdateByEmailResolvesThenPatches(t *testing.T) {
	var patchedPath string
	client := fixture(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/search"):
			w.Write([]byte(`{"total":1,"results":[{"id":"77"}]}`))
		case r.Method == http.MethodPatch:
			patchedPath = r.URL.Path
			w.Write([]byte(`{"id":"77"}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})

	svc := NewContactService(client)
	_, err := svc.UpdateByEmail(context.Background(), "ada@example.com",
		map[string]any{"phone": "555-0100"})
	if err != nil {
		t.Fatalf("UpdateByEmail: %v", err)
	}
	if patchedPath != "/crm/v3/objects/contacts/77" {
		t.Errorf("patched %q, want the resolved ID path", patchedPath)
	}
}

func TestDeleteByEmailSecondCallNotFound(t *testing.T) {
	deleted := false
	client := fixture(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/search"):
			if deleted {
				w.Write([]byte(`{"total":0,"results":[]}`))
			} else {
				w.Write([]byte(`{"total":1,"results":[{"id":"77"}]}`))
			}
		case r.Method == http.MethodDelete:
			deleted = true
			w.WriteHeader(http.StatusNoContent)
		}
	})

	svc := NewContactService(client)
	if _, err := svc.DeleteByEmail(context.Background(), "ada@example.com"); err != nil {
		t.Fatalf("first delete: %v", err)
	}

	_, err := svc.DeleteByEmail(context.Background(), "ada@example.com")
	var nfErr *models.NotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("second delete should be not_found, got %v", err)
	}
}

func TestContactSearchRequiresCriterion(t *testing.T) {
	client := fixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no call expected")
	})

	svc := NewContactService(client)
	_, err := svc.Search(context.Background(), ContactSearch{})

	var valErr *models.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestContactRecentSinceFilter(t *testing.T) {
	client := fixture(t, func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		sorts := body["sorts"].([]any)
		s := sorts[0].(map[string]any)
		if s["propertyName"] != "lastmodifieddate" || s["direction"] != "DESCENDING" {
			t.Errorf("sort = %v", s)
		}
		groups := body["filterGroups"].([]any)
		if len(groups) != 1 {
			t.Fatalf("filterGroups = %v, want a single GTE window", groups)
		}
		f := groups[0].(map[string]any)["filters"].([]any)[0].(map[string]any)
		if f["operator"] != "GTE" {
			t.Errorf("operator = %v", f["operator"])
		}
		w.Write([]byte(`{"results":[{"id":"1"}]}`))
	})

	svc := NewContactService(client)
	if _, err := svc.Recent(context.Background(), "2026-01-15", 5); err != nil {
		t.Fatalf("Recent: %v", err)
	}
}

func TestListMembershipEndpoints(t *testing.T) {
	var paths []string
	client := fixture(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		body := decodeBody(t, r)
		vids := body["vids"].([]any)
		if len(vids) != 1 || vids[0] != "77" {
			t.Errorf("vids = %v", vids)
		}
		w.Write([]byte(`{"updated":[77]}`))
	})

	svc := NewListService(client)
	if _, err := svc.AddContact(context.Background(), "9", "77"); err != nil {
		t.Fatalf("AddContact: %v", err)
	}
	if _, err := svc.RemoveContact(context.Background(), "9", "77"); err != nil {
		t.Fatalf("RemoveContact: %v", err)
	}

	want := []string{"/contacts/v1/lists/9/add", "/contacts/v1/lists/9/remove"}
	for i, p := range want {
		if paths[i] != p {
			t.Errorf("call %d path = %q, want %q", i, paths[i], p)
		}
	}
}

func TestCreateStaticListRejectsBadType(t *testing.T) {
	client := fixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no call expected")
	})

	svc := NewListService(client)
	_, err := svc.CreateStatic(context.Background(), "VIPs", "DEALS")

	var valErr *models.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestCreateStaticListDefaults(t *testing.T) {
	client := fixture(t, func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		if body["objectTypeId"] != "0-1" || body["processingType"] != "MANUAL" {
			t.Errorf("payload = %v", body)
		}
		w.Write([]byte(`{"listId":"9"}`))
	})

	svc := NewListService(client)
	if _, err := svc.CreateStatic(context.Background(), "VIPs", ""); err != nil {
		t.Fatalf("CreateStatic: %v", err)
	}
}
