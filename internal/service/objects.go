// Package service implements the domain operations behind every tool: pure
// request-building and response-shaping against the CRM object endpoints.
// Each method validates its inputs locally before any remote call.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/hublink/hublink/internal/config"
	"github.com/hublink/hublink/internal/hubspot"
	"github.com/hublink/hublink/internal/models"
)

// filter is a single clause in the CRM search API's filter-group format.
// Clauses within a group are ANDed; groups are ORed.
type filter struct {
	PropertyName string   `json:"propertyName"`
	Operator     string   `json:"operator"`
	Value        any      `json:"value,omitempty"`
	HighValue    any      `json:"highValue,omitempty"`
	Values       []string `json:"values,omitempty"`
}

type filterGroup struct {
	Filters []filter `json:"filters"`
}

type sortSpec struct {
	PropertyName string `json:"propertyName"`
	Direction    string `json:"direction"`
}

// searchRequest is the POST body for /crm/v3/objects/{type}/search.
type searchRequest struct {
	FilterGroups []filterGroup `json:"filterGroups"`
	Properties   []string      `json:"properties,omitempty"`
	Sorts        []sortSpec    `json:"sorts,omitempty"`
	Limit        int           `json:"limit,omitempty"`
	After        string        `json:"after,omitempty"`
}

// objectPage is the common list/search response shape.
type objectPage struct {
	Results []map[string]any `json:"results"`
	Total   int              `json:"total"`
	Paging  struct {
		Next struct {
			After string `json:"after"`
		} `json:"next"`
	} `json:"paging"`
}

func decodeObject(raw json.RawMessage) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return obj, nil
}

func decodePage(raw json.RawMessage) (*objectPage, error) {
	var page objectPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &page, nil
}

// listAll walks a GET collection endpoint until the API stops returning a
// next-page token. Pagination never leaks to the caller.
func listAll(ctx context.Context, client *hubspot.Client, path string, properties string) ([]map[string]any, error) {
	all := []map[string]any{}
	after := ""
	for {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(config.DefaultPageSize))
		if properties != "" {
			q.Set("properties", properties)
		}
		if after != "" {
			q.Set("after", after)
		}

		raw, err := client.Get(ctx, path, q)
		if err != nil {
			return nil, err
		}
		page, err := decodePage(raw)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Results...)

		if page.Paging.Next.After == "" {
			return all, nil
		}
		after = page.Paging.Next.After
	}
}

// searchAll walks the search endpoint's cursor until exhausted or until max
// results have been collected (max <= 0 means no bound).
func searchAll(ctx context.Context, client *hubspot.Client, path string, req searchRequest, max int) ([]map[string]any, error) {
	all := []map[string]any{}
	for {
		raw, err := client.Post(ctx, path, req)
		if err != nil {
			return nil, err
		}
		page, err := decodePage(raw)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Results...)

		if max > 0 && len(all) >= max {
			return all[:max], nil
		}
		if page.Paging.Next.After == "" {
			return all, nil
		}
		req.After = page.Paging.Next.After
	}
}

// parseTimestamp accepts RFC 3339 (with a tolerated trailing Z-less form)
// and returns the instant, or a ValidationError naming the field.
func parseTimestamp(field, value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &models.ValidationError{
		Field:  field,
		Reason: fmt.Sprintf("invalid timestamp %q, expected ISO 8601", value),
	}
}

// epochMillis renders an instant the way the search API expects date values.
func epochMillis(t time.Time) string {
	return strconv.FormatInt(t.UTC().UnixMilli(), 10)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	return limit
}
