package tools

import (
	"context"

	"github.com/hublink/hublink/internal/service"
)

// CompanyTools returns the company portion of the catalog.
func CompanyTools(svc *service.CompanyService) []Tool {
	return []Tool{
		createCompanyTool(svc),
		getCompanyDetailsTool(svc),
		updateCompanyTool(svc),
		deleteCompanyTool(svc),
		getAllCompaniesTool(svc),
		getFilteredCompaniesTool(svc),
		searchCompanyByDomainTool(svc),
		getRecentCompaniesTool(svc),
	}
}

func createCompanyTool(svc *service.CompanyService) Tool {
	return Tool{
		Name:        "create_company",
		Description: "Create a new company in the CRM",
		Params: map[string]Param{
			"company_name": {Type: TypeString, Description: "Name of the company", Required: true},
			"domain":       {Type: TypeString, Description: "Company website domain"},
			"description":  {Type: TypeString, Description: "Short description of the company"},
			"phone":        {Type: TypeString, Description: "Primary phone number"},
			"website":      {Type: TypeString, Description: "Company website URL"},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return svc.Create(ctx, service.CompanyInput{
				Name:        stringArg(args, "company_name"),
				Domain:      stringArg(args, "domain"),
				Description: stringArg(args, "description"),
				Phone:       stringArg(args, "phone"),
				Website:     stringArg(args, "website"),
			})
		},
	}
}

func getCompanyDetailsTool(svc *service.CompanyService) Tool {
	return Tool{
		Name:        "get_company_details",
		Description: "Fetch the full property set of a single company by its ID",
		Params: map[string]Param{
			"company_id": {Type: TypeString, Description: "CRM identifier of the company", Required: true},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return svc.Get(ctx, stringArg(args, "company_id"))
		},
	}
}

func updateCompanyTool(svc *service.CompanyService) Tool {
	return Tool{
		Name:        "update_company",
		Description: "Update one or more properties of an existing company",
		Params: map[string]Param{
			"company_id":     {Type: TypeString, Description: "CRM identifier of the company", Required: true},
			"name":           {Type: TypeString, Description: "Company name"},
			"domain":         {Type: TypeString, Description: "Website domain"},
			"industry":       {Type: TypeString, Description: "Industry from the CRM picklist"},
			"phone":          {Type: TypeString, Description: "Primary phone number"},
			"address":        {Type: TypeString, Description: "Street address"},
			"city":           {Type: TypeString, Description: "City"},
			"state":          {Type: TypeString, Description: "State or region"},
			"country":        {Type: TypeString, Description: "Country"},
			"zip_code":       {Type: TypeString, Description: "Postal code"},
			"description":    {Type: TypeString, Description: "Company description"},
			"employee_count": {Type: TypeString, Description: "Number of employees"},
			"revenue":        {Type: TypeString, Description: "Annual revenue"},
			"linkedin_url":   {Type: TypeString, Description: "LinkedIn company page URL"},
			"twitter_handle": {Type: TypeString, Description: "Twitter/X handle"},
			"website_url":    {Type: TypeString, Description: "Website URL"},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return svc.Update(ctx, stringArg(args, "company_id"), service.CompanyUpdate{
				Name:          stringArg(args, "name"),
				Domain:        stringArg(args, "domain"),
				Industry:      stringArg(args, "industry"),
				Phone:         stringArg(args, "phone"),
				Address:       stringArg(args, "address"),
				City:          stringArg(args, "city"),
				State:         stringArg(args, "state"),
				Country:       stringArg(args, "country"),
				ZipCode:       stringArg(args, "zip_code"),
				Description:   stringArg(args, "description"),
				EmployeeCount: stringArg(args, "employee_count"),
				Revenue:       stringArg(args, "revenue"),
				LinkedinURL:   stringArg(args, "linkedin_url"),
				TwitterHandle: stringArg(args, "twitter_handle"),
				WebsiteURL:    stringArg(args, "website_url"),
			})
		},
	}
}

func deleteCompanyTool(svc *service.CompanyService) Tool {
	return Tool{
		Name:        "delete_company",
		Description: "Delete (archive) a company by its ID",
		Params: map[string]Param{
			"company_id": {Type: TypeString, Description: "CRM identifier of the company", Required: true},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return svc.Delete(ctx, stringArg(args, "company_id"))
		},
	}
}

func getAllCompaniesTool(svc *service.CompanyService) Tool {
	return Tool{
		Name:        "get_all_companies",
		Description: "List every company, following pagination until exhausted",
		Params:      map[string]Param{},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return svc.ListAll(ctx)
		},
	}
}

func getFilteredCompaniesTool(svc *service.CompanyService) Tool {
	return Tool{
		Name:        "get_filtered_companies",
		Description: "Search companies by ID set and/or creation window; criteria are combined with AND",
		Params: map[string]Param{
			"company_ids":    {Type: TypeArray, Items: TypeString, Description: "Restrict to these company IDs"},
			"created_after":  {Type: TypeString, Description: "Lower bound on creation time (ISO 8601)"},
			"created_before": {Type: TypeString, Description: "Upper bound on creation time (ISO 8601)"},
			"limit":          {Type: TypeInteger, Description: "Maximum number of results", Default: 100},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return svc.ListFiltered(ctx, service.CompanyFilter{
				CompanyIDs:    stringSliceArg(args, "company_ids"),
				CreatedAfter:  stringArg(args, "created_after"),
				CreatedBefore: stringArg(args, "created_before"),
				Limit:         intArg(args, "limit"),
			})
		},
	}
}

func searchCompanyByDomainTool(svc *service.CompanyService) Tool {
	return Tool{
		Name:        "search_company_by_domain",
		Description: "Find companies whose domain matches; schemes and www. prefixes are stripped before matching",
		Params: map[string]Param{
			"domain": {Type: TypeString, Description: "Domain to match, e.g. acme.com", Required: true},
			"limit":  {Type: TypeInteger, Description: "Maximum number of results", Default: 10},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return svc.SearchByDomain(ctx, stringArg(args, "domain"), intArg(args, "limit"))
		},
	}
}

func getRecentCompaniesTool(svc *service.CompanyService) Tool {
	return Tool{
		Name:        "get_recent_companies",
		Description: "List the most recently created or modified companies, newest first",
		Params: map[string]Param{
			"sort_by": {
				Type:        TypeString,
				Description: "Property to order by",
				Default:     "createdate",
				Enum:        []string{"createdate", "hs_lastmodifieddate"},
			},
			"limit": {Type: TypeInteger, Description: "Maximum number of results", Default: 10},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return svc.Recent(ctx, stringArg(args, "sort_by"), intArg(args, "limit"))
		},
	}
}
