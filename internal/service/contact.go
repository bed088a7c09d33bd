package service

import (
	"context"
	"net/mail"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hublink/hublink/internal/config"
	"github.com/hublink/hublink/internal/hubspot"
	"github.com/hublink/hublink/internal/models"
)

const contactsPath = "/crm/v3/objects/contacts"

// ContactService implements the contact tools. The CRM is ID-primary, so
// email-keyed operations resolve the email to an internal ID first and then
// act on the ID.
type ContactService struct {
	client *hubspot.Client
}

func NewContactService(client *hubspot.Client) *ContactService {
	return &ContactService{client: client}
}

func (s *ContactService) Create(ctx context.Context, email, firstName, lastName, phone string) (map[string]any, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if strings.TrimSpace(firstName) == "" {
		return nil, &models.ValidationError{Field: "first_name", Reason: "is required"}
	}
	if strings.TrimSpace(lastName) == "" {
		return nil, &models.ValidationError{Field: "last_name", Reason: "is required"}
	}

	properties := map[string]string{
		"email":     email,
		"firstname": firstName,
		"lastname":  lastName,
	}
	if phone != "" {
		properties["phone"] = phone
	}

	log.Info().Str("email", email).Msg("creating contact")
	raw, err := s.client.Post(ctx, contactsPath, map[string]any{"properties": properties})
	if err != nil {
		return nil, err
	}
	return decodeObject(raw)
}

// GetByEmail returns the single contact holding the address. Zero matches
// is not_found, more than one is ambiguous.
func (s *ContactService) GetByEmail(ctx context.Context, email string) (map[string]any, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	contact, _, err := s.findByEmail(ctx, email)
	return contact, err
}

func (s *ContactService) UpdateByEmail(ctx context.Context, email string, properties map[string]any) (map[string]any, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(properties) == 0 {
		return nil, &models.ValidationError{Field: "properties", Reason: "no fields provided for update"}
	}

	_, id, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	log.Info().Str("email", email).Str("contact_id", id).Int("fields", len(properties)).Msg("updating contact")
	raw, err := s.client.Patch(ctx, contactsPath+"/"+url.PathEscape(id), map[string]any{"properties": properties})
	if err != nil {
		return nil, err
	}
	return decodeObject(raw)
}

func (s *ContactService) DeleteByID(ctx context.Context, contactID string) (map[string]any, error) {
	if strings.TrimSpace(contactID) == "" {
		return nil, &models.ValidationError{Field: "contact_id", Reason: "is required"}
	}

	log.Info().Str("contact_id", contactID).Msg("deleting contact")
	if _, err := s.client.Delete(ctx, contactsPath+"/"+url.PathEscape(contactID)); err != nil {
		return nil, err
	}
	return map[string]any{"message": "deleted contact " + contactID}, nil
}

func (s *ContactService) DeleteByEmail(ctx context.Context, email string) (map[string]any, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	_, id, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.DeleteByID(ctx, id)
}

// ContactSearch is the criteria set for Search; present criteria are
// combined with AND semantics and at least one is required.
type ContactSearch struct {
	Email     string
	FirstName string
	Phone     string
	Limit     int
}

func (s *ContactService) Search(ctx context.Context, criteria ContactSearch) ([]map[string]any, error) {
	var filters []filter
	if criteria.Email != "" {
		filters = append(filters, filter{PropertyName: "email", Operator: "EQ", Value: criteria.Email})
	}
	if criteria.FirstName != "" {
		filters = append(filters, filter{PropertyName: "firstname", Operator: "EQ", Value: criteria.FirstName})
	}
	if criteria.Phone != "" {
		filters = append(filters, filter{PropertyName: "phone", Operator: "EQ", Value: criteria.Phone})
	}
	if len(filters) == 0 {
		return nil, &models.ValidationError{Reason: "at least one search criterion is required"}
	}

	req := searchRequest{
		FilterGroups: []filterGroup{{Filters: filters}},
		Properties:   []string{"email", "firstname", "phone"},
		Limit:        clampLimit(criteria.Limit, config.DefaultSearchLimit),
	}
	raw, err := s.client.Post(ctx, contactsPath+"/search", req)
	if err != nil {
		return nil, err
	}
	page, err := decodePage(raw)
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

// ListAll fetches every contact, paginating transparently.
func (s *ContactService) ListAll(ctx context.Context) ([]map[string]any, error) {
	return listAll(ctx, s.client, contactsPath, "firstname,lastname,email,phone,company")
}

// Recent returns contacts ordered by last modification, newest first. A
// non-empty since bounds the window from below.
func (s *ContactService) Recent(ctx context.Context, since string, limit int) ([]map[string]any, error) {
	req := searchRequest{
		FilterGroups: []filterGroup{},
		Sorts:        []sortSpec{{PropertyName: "lastmodifieddate", Direction: "DESCENDING"}},
		Limit:        clampLimit(limit, config.DefaultRecentLimit),
	}
	if since != "" {
		t, err := parseTimestamp("since", since)
		if err != nil {
			return nil, err
		}
		req.FilterGroups = append(req.FilterGroups, filterGroup{Filters: []filter{
			{PropertyName: "lastmodifieddate", Operator: "GTE", Value: epochMillis(t)},
		}})
	}

	raw, err := s.client.Post(ctx, contactsPath+"/search", req)
	if err != nil {
		return nil, err
	}
	page, err := decodePage(raw)
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

// findByEmail resolves an email address to (record, internal ID).
func (s *ContactService) findByEmail(ctx context.Context, email string) (map[string]any, string, error) {
	req := searchRequest{
		FilterGroups: []filterGroup{{Filters: []filter{
			{PropertyName: "email", Operator: "EQ", Value: email},
		}}},
	}
	raw, err := s.client.Post(ctx, contactsPath+"/search", req)
	if err != nil {
		return nil, "", err
	}
	page, err := decodePage(raw)
	if err != nil {
		return nil, "", err
	}

	switch {
	case page.Total == 0 || len(page.Results) == 0:
		return nil, "", &models.NotFoundError{Resource: "contact", Key: email}
	case page.Total > 1:
		return nil, "", &models.AmbiguousError{Resource: "contact", Key: email, Matches: page.Total}
	}

	contact := page.Results[0]
	id, _ := contact["id"].(string)
	if id == "" {
		return nil, "", &models.NotFoundError{Resource: "contact", Key: email}
	}
	return contact, id, nil
}

func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return &models.ValidationError{Field: "email", Reason: "is required"}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return &models.ValidationError{Field: "email", Reason: "is not a valid email address"}
	}
	return nil
}
