package service

import (
	"context"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hublink/hublink/internal/config"
	"github.com/hublink/hublink/internal/hubspot"
	"github.com/hublink/hublink/internal/models"
)

const ticketsPath = "/crm/v3/objects/tickets"

const assocTicketToContact = 16

var validTicketPriorities = map[string]bool{"LOW": true, "MEDIUM": true, "HIGH": true}

var validTicketCategories = map[string]bool{
	"PRODUCT_ISSUE":   true,
	"BILLING_ISSUE":   true,
	"FEATURE_REQUEST": true,
	"GENERAL_INQUIRY": true,
}

// TicketService implements the support-ticket tools.
type TicketService struct {
	client *hubspot.Client
}

func NewTicketService(client *hubspot.Client) *TicketService {
	return &TicketService{client: client}
}

// TicketInput carries creation fields; Subject and Content are required.
// Pipeline and stage default to the standard support pipeline.
type TicketInput struct {
	Subject       string
	Content       string
	Pipeline      string
	PipelineStage string
	Priority      string
	Category      string
	ContactID     string
	OwnerID       string
	SourceType    string
}

func (s *TicketService) Create(ctx context.Context, in TicketInput) (map[string]any, error) {
	if strings.TrimSpace(in.Subject) == "" {
		return nil, &models.ValidationError{Field: "subject", Reason: "is required"}
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, &models.ValidationError{Field: "content", Reason: "is required"}
	}
	if in.Pipeline == "" {
		in.Pipeline = "0"
	}
	if in.PipelineStage == "" {
		in.PipelineStage = "1"
	}
	if in.Priority == "" {
		in.Priority = "MEDIUM"
	}
	if !validTicketPriorities[in.Priority] {
		return nil, &models.ValidationError{Field: "priority", Reason: "must be LOW, MEDIUM or HIGH"}
	}
	if in.Category != "" && !validTicketCategories[in.Category] {
		return nil, &models.ValidationError{
			Field:  "category",
			Reason: "must be PRODUCT_ISSUE, BILLING_ISSUE, FEATURE_REQUEST or GENERAL_INQUIRY",
		}
	}

	properties := map[string]string{
		"subject":            in.Subject,
		"content":            in.Content,
		"hs_pipeline":        in.Pipeline,
		"hs_pipeline_stage":  in.PipelineStage,
		"hs_ticket_priority": in.Priority,
	}
	if in.Category != "" {
		properties["hs_ticket_category"] = in.Category
	}
	if in.OwnerID != "" {
		properties["hubspot_owner_id"] = in.OwnerID
	}
	if in.SourceType != "" {
		properties["source_type"] = in.SourceType
	}

	payload := map[string]any{"properties": properties}
	if in.ContactID != "" {
		payload["associations"] = []association{newAssociation(in.ContactID, assocTicketToContact)}
	}

	log.Info().Str("subject", in.Subject).Msg("creating ticket")
	raw, err := s.client.Post(ctx, ticketsPath, payload)
	if err != nil {
		return nil, err
	}
	return decodeObject(raw)
}

func (s *TicketService) Get(ctx context.Context, ticketID string) (map[string]any, error) {
	if strings.TrimSpace(ticketID) == "" {
		return nil, &models.ValidationError{Field: "ticket_id", Reason: "is required"}
	}

	q := url.Values{}
	q.Set("properties", "subject,content,hs_pipeline,hs_pipeline_stage,hs_ticket_priority,hs_ticket_category,createdate,hs_lastmodifieddate,hubspot_owner_id")
	raw, err := s.client.Get(ctx, ticketsPath+"/"+url.PathEscape(ticketID), q)
	if err != nil {
		return nil, err
	}
	return decodeObject(raw)
}

// TicketUpdate carries updatable fields plus a free-form property map.
type TicketUpdate struct {
	Subject       string
	Description   string
	Pipeline      string
	PipelineStage string
	Priority      string
	Properties    map[string]any
}

func (s *TicketService) Update(ctx context.Context, ticketID string, update TicketUpdate) (map[string]any, error) {
	if strings.TrimSpace(ticketID) == "" {
		return nil, &models.ValidationError{Field: "ticket_id", Reason: "is required"}
	}
	if update.Priority != "" && !validTicketPriorities[update.Priority] {
		return nil, &models.ValidationError{Field: "priority", Reason: "must be LOW, MEDIUM or HIGH"}
	}

	props := map[string]any{}
	for k, v := range update.Properties {
		props[k] = v
	}
	if update.Subject != "" {
		props["subject"] = update.Subject
	}
	if update.Description != "" {
		props["content"] = update.Description
	}
	if update.Pipeline != "" {
		props["hs_pipeline"] = update.Pipeline
	}
	if update.PipelineStage != "" {
		props["hs_pipeline_stage"] = update.PipelineStage
	}
	if update.Priority != "" {
		props["hs_ticket_priority"] = update.Priority
	}
	if len(props) == 0 {
		return nil, &models.ValidationError{Reason: "no fields provided for update"}
	}

	log.Info().Str("ticket_id", ticketID).Int("fields", len(props)).Msg("updating ticket")
	raw, err := s.client.Patch(ctx, ticketsPath+"/"+url.PathEscape(ticketID), map[string]any{"properties": props})
	if err != nil {
		return nil, err
	}
	return decodeObject(raw)
}

func (s *TicketService) Delete(ctx context.Context, ticketID string) (map[string]any, error) {
	if strings.TrimSpace(ticketID) == "" {
		return nil, &models.ValidationError{Field: "ticket_id", Reason: "is required"}
	}

	log.Info().Str("ticket_id", ticketID).Msg("deleting ticket")
	if _, err := s.client.Delete(ctx, ticketsPath+"/"+url.PathEscape(ticketID)); err != nil {
		return nil, err
	}
	return map[string]any{"message": "deleted ticket " + ticketID}, nil
}

// InRange returns tickets created inside the [after, before] window.
func (s *TicketService) InRange(ctx context.Context, createdAfter, createdBefore string, limit int) ([]map[string]any, error) {
	if createdAfter == "" {
		return nil, &models.ValidationError{Field: "created_after", Reason: "is required"}
	}
	if createdBefore == "" {
		return nil, &models.ValidationError{Field: "created_before", Reason: "is required"}
	}
	lo, err := parseTimestamp("created_after", createdAfter)
	if err != nil {
		return nil, err
	}
	hi, err := parseTimestamp("created_before", createdBefore)
	if err != nil {
		return nil, err
	}

	req := searchRequest{
		FilterGroups: []filterGroup{{Filters: []filter{{
			PropertyName: "createdate",
			Operator:     "BETWEEN",
			Value:        epochMillis(lo),
			HighValue:    epochMillis(hi),
		}}}},
		Limit: clampLimit(limit, config.DefaultSearchLimit),
	}
	raw, err := s.client.Post(ctx, ticketsPath+"/search", req)
	if err != nil {
		return nil, err
	}
	page, err := decodePage(raw)
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}
