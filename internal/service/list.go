package service

import (
	"context"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hublink/hublink/internal/hubspot"
	"github.com/hublink/hublink/internal/models"
)

// ListService manages static-list membership and lifecycle. Membership uses
// the v1 list endpoints, which treat repeated adds and removes as no-ops,
// so those tools are idempotent by construction.
type ListService struct {
	client *hubspot.Client
}

func NewListService(client *hubspot.Client) *ListService {
	return &ListService{client: client}
}

// listObjectTypeIDs maps the public list type names onto HubSpot object
// type identifiers.
var listObjectTypeIDs = map[string]string{
	"CONTACTS":  "0-1",
	"COMPANIES": "0-2",
}

func (s *ListService) AddContact(ctx context.Context, listID, contactID string) (map[string]any, error) {
	if err := requireIDs(listID, contactID); err != nil {
		return nil, err
	}

	log.Info().Str("list_id", listID).Str("contact_id", contactID).Msg("adding contact to list")
	raw, err := s.client.Post(ctx, "/contacts/v1/lists/"+url.PathEscape(listID)+"/add",
		map[string]any{"vids": []string{contactID}})
	if err != nil {
		return nil, err
	}
	return decodeObject(raw)
}

func (s *ListService) RemoveContact(ctx context.Context, listID, contactID string) (map[string]any, error) {
	if err := requireIDs(listID, contactID); err != nil {
		return nil, err
	}

	log.Info().Str("list_id", listID).Str("contact_id", contactID).Msg("removing contact from list")
	raw, err := s.client.Post(ctx, "/contacts/v1/lists/"+url.PathEscape(listID)+"/remove",
		map[string]any{"vids": []string{contactID}})
	if err != nil {
		return nil, err
	}
	return decodeObject(raw)
}

// CreateStatic creates a manually managed list of the given type.
func (s *ListService) CreateStatic(ctx context.Context, name, listType string) (map[string]any, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &models.ValidationError{Field: "name", Reason: "is required"}
	}
	if listType == "" {
		listType = "CONTACTS"
	}
	objectTypeID, ok := listObjectTypeIDs[listType]
	if !ok {
		return nil, &models.ValidationError{Field: "list_type", Reason: "must be CONTACTS or COMPANIES"}
	}

	payload := map[string]any{
		"name":           name,
		"objectTypeId":   objectTypeID,
		"processingType": "MANUAL",
	}
	log.Info().Str("name", name).Str("list_type", listType).Msg("creating list")
	raw, err := s.client.Post(ctx, "/crm/v3/lists", payload)
	if err != nil {
		return nil, err
	}
	return decodeObject(raw)
}

func (s *ListService) Delete(ctx context.Context, listID string) (map[string]any, error) {
	if strings.TrimSpace(listID) == "" {
		return nil, &models.ValidationError{Field: "list_id", Reason: "is required"}
	}

	log.Info().Str("list_id", listID).Msg("deleting list")
	if _, err := s.client.Delete(ctx, "/crm/v3/lists/"+url.PathEscape(listID)); err != nil {
		return nil, err
	}
	return map[string]any{"message": "deleted list " + listID}, nil
}

func requireIDs(listID, contactID string) error {
	if strings.TrimSpace(listID) == "" {
		return &models.ValidationError{Field: "list_id", Reason: "is required"}
	}
	if strings.TrimSpace(contactID) == "" {
		return &models.ValidationError{Field: "contact_id", Reason: "is required"}
	}
	return nil
}
