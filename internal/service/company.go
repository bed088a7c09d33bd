package service

import (
	"context"
	"net/url"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hublink/hublink/internal/config"
	"github.com/hublink/hublink/internal/hubspot"
	"github.com/hublink/hublink/internal/models"
)

const companiesPath = "/crm/v3/objects/companies"

// companyDetailProperties is the property set requested when fetching a
// single company.
var companyDetailProperties = []string{
	"name", "domain", "createdate", "hs_object_id", "hs_lastmodifieddate",
	"industry", "annualrevenue", "numberofemployees", "phone", "address",
	"city", "state", "zip", "lifecyclestage", "hubspot_owner_id",
	"linkedin_company_page", "twitterhandle", "description",
}

// validIndustries is HubSpot's fixed industry picklist.
var validIndustries = map[string]bool{
	"ACCOUNTING": true, "AGRICULTURE": true, "APPAREL": true, "BANKING": true,
	"BIOTECHNOLOGY": true, "CHEMICALS": true, "COMMUNICATIONS": true,
	"CONSTRUCTION": true, "CONSULTING": true, "EDUCATION": true,
	"ELECTRONICS": true, "ENERGY": true, "ENGINEERING": true,
	"ENTERTAINMENT": true, "ENVIRONMENTAL": true, "FINANCE": true,
	"FOOD & BEVERAGE": true, "GOVERNMENT": true, "HEALTHCARE": true,
	"HOSPITALITY": true, "INSURANCE": true, "MACHINERY": true,
	"MANUFACTURING": true, "MEDIA": true, "NOT FOR PROFIT": true,
	"OTHER": true, "PHARMACEUTICALS": true, "REAL ESTATE": true,
	"RETAIL": true, "SHIPPING": true, "SOFTWARE": true, "SPORTS": true,
	"TECHNOLOGY": true, "TELECOMMUNICATIONS": true, "TRANSPORTATION": true,
	"UTILITIES": true, "RECREATION": true,
}

// CompanyService implements the company tools.
type CompanyService struct {
	client *hubspot.Client
}

func NewCompanyService(client *hubspot.Client) *CompanyService {
	return &CompanyService{client: client}
}

// CompanyInput carries the optional fields accepted at creation time.
type CompanyInput struct {
	Name        string
	Domain      string
	Description string
	Phone       string
	Website     string
}

func (s *CompanyService) Create(ctx context.Context, in CompanyInput) (map[string]any, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, &models.ValidationError{Field: "company_name", Reason: "is required"}
	}

	properties := map[string]string{"name": in.Name}
	if in.Domain != "" {
		properties["domain"] = in.Domain
	}
	if in.Description != "" {
		properties["description"] = in.Description
	}
	if in.Phone != "" {
		properties["phone"] = in.Phone
	}
	if in.Website != "" {
		properties["website"] = in.Website
	}

	log.Info().Str("name", in.Name).Msg("creating company")
	raw, err := s.client.Post(ctx, companiesPath, map[string]any{"properties": properties})
	if err != nil {
		return nil, err
	}
	return decodeObject(raw)
}

func (s *CompanyService) Get(ctx context.Context, companyID string) (map[string]any, error) {
	if strings.TrimSpace(companyID) == "" {
		return nil, &models.ValidationError{Field: "company_id", Reason: "is required"}
	}

	q := url.Values{}
	q.Set("archived", "false")
	q.Set("properties", strings.Join(companyDetailProperties, ","))

	raw, err := s.client.Get(ctx, companiesPath+"/"+url.PathEscape(companyID), q)
	if err != nil {
		return nil, err
	}
	return decodeObject(raw)
}

// CompanyUpdate carries the updatable fields; only non-zero ones are sent.
type CompanyUpdate struct {
	Name          string
	Domain        string
	Industry      string
	Phone         string
	Address       string
	City          string
	State         string
	Country       string
	ZipCode       string
	Description   string
	EmployeeCount string
	Revenue       string
	LinkedinURL   string
	TwitterHandle string
	WebsiteURL    string
}

func (u CompanyUpdate) properties() (map[string]string, error) {
	props := map[string]string{}
	if u.Name != "" {
		props["name"] = u.Name
	}
	if u.Domain != "" {
		props["domain"] = u.Domain
	}
	if u.Industry != "" {
		normalized, err := normalizeIndustry(u.Industry)
		if err != nil {
			return nil, err
		}
		props["industry"] = normalized
	}
	if u.Phone != "" {
		props["phone"] = u.Phone
	}
	if u.Address != "" {
		props["address"] = u.Address
	}
	if u.City != "" {
		props["city"] = u.City
	}
	if u.State != "" {
		props["state"] = u.State
	}
	if u.Country != "" {
		props["country"] = u.Country
	}
	if u.ZipCode != "" {
		props["zip"] = u.ZipCode
	}
	if u.Description != "" {
		props["description"] = u.Description
	}
	if u.EmployeeCount != "" {
		props["numberofemployees"] = u.EmployeeCount
	}
	if u.Revenue != "" {
		props["annualrevenue"] = u.Revenue
	}
	if u.LinkedinURL != "" {
		props["linkedin_company_page"] = u.LinkedinURL
	}
	if u.TwitterHandle != "" {
		props["twitterhandle"] = u.TwitterHandle
	}
	if u.WebsiteURL != "" {
		props["website"] = u.WebsiteURL
	}
	return props, nil
}

func (s *CompanyService) Update(ctx context.Context, companyID string, update CompanyUpdate) (map[string]any, error) {
	if strings.TrimSpace(companyID) == "" {
		return nil, &models.ValidationError{Field: "company_id", Reason: "is required"}
	}
	props, err := update.properties()
	if err != nil {
		return nil, err
	}
	if len(props) == 0 {
		return nil, &models.ValidationError{Reason: "no fields provided for update"}
	}

	log.Info().Str("company_id", companyID).Int("fields", len(props)).Msg("updating company")
	raw, err := s.client.Patch(ctx, companiesPath+"/"+url.PathEscape(companyID), map[string]any{"properties": props})
	if err != nil {
		return nil, err
	}
	return decodeObject(raw)
}

func (s *CompanyService) Delete(ctx context.Context, companyID string) (map[string]any, error) {
	if strings.TrimSpace(companyID) == "" {
		return nil, &models.ValidationError{Field: "company_id", Reason: "is required"}
	}

	log.Info().Str("company_id", companyID).Msg("deleting company")
	if _, err := s.client.Delete(ctx, companiesPath+"/"+url.PathEscape(companyID)); err != nil {
		return nil, err
	}
	return map[string]any{"message": "deleted company " + companyID}, nil
}

// ListAll fetches every company, paginating until the API signals no
// further pages.
func (s *CompanyService) ListAll(ctx context.Context) ([]map[string]any, error) {
	return listAll(ctx, s.client, companiesPath, "")
}

// CompanyFilter is the criteria set for ListFiltered; all present criteria
// are combined with AND semantics.
type CompanyFilter struct {
	CompanyIDs    []string
	CreatedAfter  string
	CreatedBefore string
	Limit         int
}

func (s *CompanyService) ListFiltered(ctx context.Context, f CompanyFilter) ([]map[string]any, error) {
	var filters []filter
	if len(f.CompanyIDs) > 0 {
		filters = append(filters, filter{
			PropertyName: "hs_object_id",
			Operator:     "IN",
			Values:       f.CompanyIDs,
		})
	}
	if f.CreatedAfter != "" {
		t, err := parseTimestamp("created_after", f.CreatedAfter)
		if err != nil {
			return nil, err
		}
		filters = append(filters, filter{PropertyName: "createdate", Operator: "GTE", Value: epochMillis(t)})
	}
	if f.CreatedBefore != "" {
		t, err := parseTimestamp("created_before", f.CreatedBefore)
		if err != nil {
			return nil, err
		}
		filters = append(filters, filter{PropertyName: "createdate", Operator: "LTE", Value: epochMillis(t)})
	}
	if len(filters) == 0 {
		return nil, &models.ValidationError{Reason: "at least one filter criterion is required"}
	}

	limit := clampLimit(f.Limit, config.DefaultSearchLimit)
	req := searchRequest{
		FilterGroups: []filterGroup{{Filters: filters}},
		Limit:        limit,
	}
	raw, err := s.client.Post(ctx, companiesPath+"/search", req)
	if err != nil {
		return nil, err
	}
	page, err := decodePage(raw)
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

func (s *CompanyService) SearchByDomain(ctx context.Context, domain string, limit int) ([]map[string]any, error) {
	domain = normalizeDomain(domain)
	if domain == "" {
		return nil, &models.ValidationError{Field: "domain", Reason: "is required"}
	}

	req := searchRequest{
		FilterGroups: []filterGroup{{Filters: []filter{
			{PropertyName: "domain", Operator: "EQ", Value: domain},
		}}},
		Properties: []string{"name", "domain", "industry", "createdate", "hs_lastmodifieddate"},
		Limit:      clampLimit(limit, config.DefaultDomainLimit),
	}

	log.Info().Str("domain", domain).Msg("searching companies by domain")
	raw, err := s.client.Post(ctx, companiesPath+"/search", req)
	if err != nil {
		return nil, err
	}
	page, err := decodePage(raw)
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

func (s *CompanyService) Recent(ctx context.Context, sortBy string, limit int) ([]map[string]any, error) {
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
	q.Set("limit", itoa(clampLimit(limit, config.DefaultRecentLimit)))
	q.Set("properties", "name,domain,industry,createdate,hs_lastmodifieddate")
	q.Set("sort", "-"+sortBy) // descending, most recent first

	raw, err := s.client.Get(ctx, companiesPath, q)
	if err != nil {
		return nil, err
	}
	page, err := decodePage(raw)
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

// normalizeIndustry uppercases and checks the value against the picklist,
// suggesting close matches on failure.
func normalizeIndustry(industry string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(industry))
	if validIndustries[normalized] {
		return normalized, nil
	}

	var close []string
	for v := range validIndustries {
		if strings.Contains(v, normalized) {
			close = append(close, v)
		}
	}
	sort.Strings(close)

	reason := "is not a valid industry"
	if len(close) > 0 {
		reason += ", did you mean: " + strings.Join(close, ", ")
	}
	return "", &models.ValidationError{Field: "industry", Reason: reason}
}

// normalizeDomain strips a scheme and leading www. so "https://www.acme.com"
// and "acme.com" search the same property value.
func normalizeDomain(domain string) string {
	domain = strings.TrimSpace(domain)
	if u, err := url.Parse(domain); err == nil && u.Host != "" {
		domain = u.Host
	}
	return strings.TrimPrefix(domain, "www.")
}
