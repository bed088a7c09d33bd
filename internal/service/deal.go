package service

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hublink/hublink/internal/config"
	"github.com/hublink/hublink/internal/hubspot"
	"github.com/hublink/hublink/internal/models"
)

const dealsPath = "/crm/v3/objects/deals"

// Association type IDs from HubSpot's defined association catalog.
const (
	assocDealToContact = 3
	assocDealToCompany = 5
)

var dealListProperties = []string{
	"dealname", "amount", "pipeline", "dealstage",
	"createdate", "hs_lastmodifieddate", "hubspot_owner_id", "closedate",
}

// DealService implements the deal tools.
type DealService struct {
	client *hubspot.Client
}

func NewDealService(client *hubspot.Client) *DealService {
	return &DealService{client: client}
}

type association struct {
	To    map[string]string `json:"to"`
	Types []associationType `json:"types"`
}

type associationType struct {
	AssociationCategory string `json:"associationCategory"`
	AssociationTypeID   int    `json:"associationTypeId"`
}

func newAssociation(entityID string, typeID int) association {
	return association{
		To: map[string]string{"id": entityID},
		Types: []associationType{{
			AssociationCategory: "HUBSPOT_DEFINED",
			AssociationTypeID:   typeID,
		}},
	}
}

// DealInput carries creation fields; Name, Pipeline and Stage are required.
type DealInput struct {
	Name             string
	Pipeline         string
	Stage            string
	Amount           string
	CloseDate        string // ISO 8601, converted to epoch millis
	DealType         string
	OwnerID          string
	CompanyID        string
	ContactIDs       []string
	CustomProperties map[string]string
}

func (s *DealService) Create(ctx context.Context, in DealInput) (map[string]any, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, &models.ValidationError{Field: "deal_name", Reason: "is required"}
	}
	if strings.TrimSpace(in.Pipeline) == "" {
		return nil, &models.ValidationError{Field: "pipeline", Reason: "is required"}
	}
	if strings.TrimSpace(in.Stage) == "" {
		return nil, &models.ValidationError{Field: "deal_stage", Reason: "is required"}
	}

	properties := map[string]string{
		"dealname":  in.Name,
		"pipeline":  in.Pipeline,
		"dealstage": in.Stage,
	}
	if in.Amount != "" {
		properties["amount"] = in.Amount
	}
	if in.CloseDate != "" {
		t, err := parseTimestamp("close_date", in.CloseDate)
		if err != nil {
			return nil, err
		}
		properties["closedate"] = epochMillis(t)
	}
	if in.DealType != "" {
		properties["dealtype"] = in.DealType
	}
	if in.OwnerID != "" {
		properties["hubspot_owner_id"] = in.OwnerID
	}
	for k, v := range in.CustomProperties {
		properties[k] = v
	}

	payload := map[string]any{"properties": properties}
	var associations []association
	if in.CompanyID != "" {
		associations = append(associations, newAssociation(in.CompanyID, assocDealToCompany))
	}
	for _, contactID := range in.ContactIDs {
		associations = append(associations, newAssociation(contactID, assocDealToContact))
	}
	if len(associations) > 0 {
		payload["associations"] = associations
	}

	log.Info().Str("deal_name", in.Name).Str("pipeline", in.Pipeline).Msg("creating deal")
	raw, err := s.client.Post(ctx, dealsPath, payload)
	if err != nil {
		return nil, err
	}
	return decodeObject(raw)
}

func (s *DealService) Get(ctx context.Context, dealID string) (map[string]any, error) {
	if strings.TrimSpace(dealID) == "" {
		return nil, &models.ValidationError{Field: "deal_id", Reason: "is required"}
	}

	q := url.Values{}
	q.Set("properties", strings.Join(dealListProperties, ","))
	raw, err := s.client.Get(ctx, dealsPath+"/"+url.PathEscape(dealID), q)
	if err != nil {
		return nil, err
	}
	return decodeObject(raw)
}

// DealUpdate carries the updatable fields; only non-zero ones are sent.
type DealUpdate struct {
	Name        string
	Amount      string
	Pipeline    string
	Stage       string
	CloseDate   string
	Description string
	OwnerID     string
}

func (s *DealService) Update(ctx context.Context, dealID string, update DealUpdate) (map[string]any, error) {
	if strings.TrimSpace(dealID) == "" {
		return nil, &models.ValidationError{Field: "deal_id", Reason: "is required"}
	}

	props := map[string]string{}
	if update.Name != "" {
		props["dealname"] = update.Name
	}
	if update.Amount != "" {
		props["amount"] = update.Amount
	}
	if update.Pipeline != "" {
		props["pipeline"] = update.Pipeline
	}
	if update.Stage != "" {
		props["dealstage"] = update.Stage
	}
	if update.CloseDate != "" {
		t, err := parseTimestamp("close_date", update.CloseDate)
		if err != nil {
			return nil, err
		}
		props["closedate"] = epochMillis(t)
	}
	if update.Description != "" {
		props["description"] = update.Description
	}
	if update.OwnerID != "" {
		props["hubspot_owner_id"] = update.OwnerID
	}
	if len(props) == 0 {
		return nil, &models.ValidationError{Reason: "no fields provided for update"}
	}

	log.Info().Str("deal_id", dealID).Int("fields", len(props)).Msg("updating deal")
	raw, err := s.client.Patch(ctx, dealsPath+"/"+url.PathEscape(dealID), map[string]any{"properties": props})
	if err != nil {
		return nil, err
	}
	return decodeObject(raw)
}

func (s *DealService) Delete(ctx context.Context, dealID string) (map[string]any, error) {
	if strings.TrimSpace(dealID) == "" {
		return nil, &models.ValidationError{Field: "deal_id", Reason: "is required"}
	}

	log.Info().Str("deal_id", dealID).Msg("deleting deal")
	if _, err := s.client.Delete(ctx, dealsPath+"/"+url.PathEscape(dealID)); err != nil {
		return nil, err
	}
	return map[string]any{"message": "deleted deal " + dealID}, nil
}

func (s *DealService) ListAll(ctx context.Context) ([]map[string]any, error) {
	return listAll(ctx, s.client, dealsPath, strings.Join(dealListProperties, ","))
}

// DealFilter is the AND-combined criteria set for ListFiltered. Date range
// pairs must be complete: an open-ended BETWEEN is rejected locally.
type DealFilter struct {
	Pipeline      string
	Stage         string
	CreatedAfter  string
	CreatedBefore string
	CloseAfter    string
	CloseBefore   string
	Limit         int
}

func (s *DealService) ListFiltered(ctx context.Context, f DealFilter) ([]map[string]any, error) {
	var filters []filter
	if f.Pipeline != "" {
		filters = append(filters, filter{PropertyName: "pipeline", Operator: "EQ", Value: f.Pipeline})
	}
	if f.Stage != "" {
		filters = append(filters, filter{PropertyName: "dealstage", Operator: "EQ", Value: f.Stage})
	}

	between := func(field, prop, lo, hi string) (*filter, error) {
		if lo == "" && hi == "" {
			return nil, nil
		}
		if lo == "" || hi == "" {
			return nil, &models.ValidationError{Field: field, Reason: "both range bounds are required"}
		}
		loT, err := parseTimestamp(field, lo)
		if err != nil {
			return nil, err
		}
		hiT, err := parseTimestamp(field, hi)
		if err != nil {
			return nil, err
		}
		return &filter{
			PropertyName: prop,
			Operator:     "BETWEEN",
			Value:        epochMillis(loT),
			HighValue:    epochMillis(hiT),
		}, nil
	}

	created, err := between("created_after/created_before", "createdate", f.CreatedAfter, f.CreatedBefore)
	if err != nil {
		return nil, err
	}
	if created != nil {
		filters = append(filters, *created)
	}
	closed, err := between("closedate_after/closedate_before", "closedate", f.CloseAfter, f.CloseBefore)
	if err != nil {
		return nil, err
	}
	if closed != nil {
		filters = append(filters, *closed)
	}

	if len(filters) == 0 {
		return nil, &models.ValidationError{Reason: "at least one filter criterion is required"}
	}

	req := searchRequest{
		FilterGroups: []filterGroup{{Filters: filters}},
		Properties:   dealListProperties,
		Limit:        config.DefaultPageSize,
	}
	return searchAll(ctx, s.client, dealsPath+"/search", req, clampLimit(f.Limit, config.DefaultSearchLimit))
}

// Search matches the query token against deal name, pipeline and stage as
// alternative (OR) filter groups, newest deals first.
func (s *DealService) Search(ctx context.Context, query string, limit int) ([]map[string]any, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &models.ValidationError{Field: "query", Reason: "is required"}
	}

	var groups []filterGroup
	for _, prop := range []string{"dealname", "pipeline", "dealstage"} {
		groups = append(groups, filterGroup{Filters: []filter{
			{PropertyName: prop, Operator: "CONTAINS_TOKEN", Value: query},
		}})
	}

	req := searchRequest{
		FilterGroups: groups,
		Properties:   dealListProperties,
		Sorts:        []sortSpec{{PropertyName: "createdate", Direction: "DESCENDING"}},
		Limit:        clampLimit(limit, config.DefaultRecentLimit),
	}
	raw, err := s.client.Post(ctx, dealsPath+"/search", req)
	if err != nil {
		return nil, err
	}
	page, err := decodePage(raw)
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

func (s *DealService) Recent(ctx context.Context, sortBy string, limit int) ([]map[string]any, error) {
	if sortBy == "" {
		sortBy = "createdate"
	}
	if sortBy != "createdate" && sortBy != "hs_lastmodifieddate" {
		return nil, &models.ValidationError{
			Field:  "sort_by",
			Reason: "must be 'createdate' or 'hs_lastmodifieddate'",
		}
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(clampLimit(limit, config.DefaultRecentLimit)))
	q.Set("properties", "dealname,amount,pipeline,dealstage,createdate,hs_lastmodifieddate")
	q.Set("sort", "-"+sortBy)

	raw, err := s.client.Get(ctx, dealsPath, q)
	if err != nil {
		return nil, err
	}
	page, err := decodePage(raw)
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

// Pipelines returns the deal pipelines with their stages.
func (s *DealService) Pipelines(ctx context.Context) ([]map[string]any, error) {
	raw, err := s.client.Get(ctx, "/crm/v3/pipelines/deals", nil)
	if err != nil {
		return nil, err
	}
	page, err := decodePage(raw)
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}
