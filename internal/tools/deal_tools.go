package tools

import (
	"context"

	"github.com/hublink/hublink/internal/service"
)

// DealTools returns the deal portion of the catalog.
func DealTools(svc *service.DealService) []Tool {
	return []Tool{
		createDealTool(svc),
		getDealDetailsTool(svc),
		updateDealTool(svc),
		deleteDealTool(svc),
		getAllDealsTool(svc),
		getFilteredDealsTool(svc),
		searchDealsTool(svc),
		getRecentDealsTool(svc),
		getDealPipelinesTool(svc),
	}
}

func createDealTool(svc *service.DealService) Tool {
	return Tool{
		Name:        "create_deal",
		Description: "Create a new deal, optionally associating a company and contacts",
		Params: map[string]Param{
			"deal_name":         {Type: TypeString, Description: "Name of the deal", Required: true},
			"pipeline":          {Type: TypeString, Description: "Pipeline identifier", Required: true},
			"deal_stage":        {Type: TypeString, Description: "Stage identifier within the pipeline", Required: true},
			"amount":            {Type: TypeString, Description: "Deal amount"},
			"close_date":        {Type: TypeString, Description: "Expected close date (ISO 8601)"},
			"deal_type":         {Type: TypeString, Description: "Deal type, e.g. newbusiness"},
			"owner_id":          {Type: TypeString, Description: "Identifier of the owning user"},
			"company_id":        {Type: TypeString, Description: "Company to associate with the deal"},
			"contact_ids":       {Type: TypeArray, Items: TypeString, Description: "Contacts to associate with the deal"},
			"custom_properties": {Type: TypeObject, Description: "Additional property names and values"},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return svc.Create(ctx, service.DealInput{
				Name:             stringArg(args, "deal_name"),
				Pipeline:         stringArg(args, "pipeline"),
				Stage:            stringArg(args, "deal_stage"),
				Amount:           stringArg(args, "amount"),
				CloseDate:        stringArg(args, "close_date"),
				DealType:         stringArg(args, "deal_type"),
				OwnerID:          stringArg(args, "owner_id"),
				CompanyID:        stringArg(args, "company_id"),
				ContactIDs:       stringSliceArg(args, "contact_ids"),
				CustomProperties: stringMapArg(args, "custom_properties"),
			})
		},
	}
}

func getDealDetailsTool(svc *service.DealService) Tool {
	return Tool{
		Name:        "get_deal_details",
		Description: "Fetch a single deal by its ID",
		Params: map[string]Param{
			"deal_id": {Type: TypeString, Description: "CRM identifier of the deal", Required: true},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return svc.Get(ctx, stringArg(args, "deal_id"))
		},
	}
}

func updateDealTool(svc *service.DealService) Tool {
	return Tool{
		Name:        "update_deal",
		Description: "Update one or more properties of an existing deal",
		Params: map[string]Param{
			"deal_id":     {Type: TypeString, Description: "CRM identifier of the deal", Required: true},
			"deal_name":   {Type: TypeString, Description: "Deal name"},
			"amount":      {Type: TypeString, Description: "Deal amount"},
			"pipeline":    {Type: TypeString, Description: "Pipeline identifier"},
			"deal_stage":  {Type: TypeString, Description: "Stage identifier"},
			"close_date":  {Type: TypeString, Description: "Expected close date (ISO 8601)"},
			"description": {Type: TypeString, Description: "Deal description"},
			"owner_id":    {Type: TypeString, Description: "Identifier of the owning user"},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return svc.Update(ctx, stringArg(args, "deal_id"), service.DealUpdate{
				Name:        stringArg(args, "deal_name"),
				Amount:      stringArg(args, "amount"),
				Pipeline:    stringArg(args, "pipeline"),
				Stage:       stringArg(args, "deal_stage"),
				CloseDate:   stringArg(args, "close_date"),
				Description: stringArg(args, "description"),
				OwnerID:     stringArg(args, "owner_id"),
			})
		},
	}
}

func deleteDealTool(svc *service.DealService) Tool {
	return Tool{
		Name:        "delete_deal",
		Description: "Delete (archive) a deal by its ID",
		Params: map[string]Param{
			"deal_id": {Type: TypeString, Description: "CRM identifier of the deal", Required: true},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return svc.Delete(ctx, stringArg(args, "deal_id"))
		},
	}
}

func getAllDealsTool(svc *service.DealService) Tool {
	return Tool{
		Name:        "get_all_deals",
		Description: "List every deal, following pagination until exhausted",
		Params:      map[string]Param{},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return svc.ListAll(ctx)
		},
	}
}

func getFilteredDealsTool(svc *service.DealService) Tool {
	return Tool{
		Name:        "get_filtered_deals",
		Description: "Search deals by pipeline, stage and/or date ranges; criteria are combined with AND and range bounds must be complete pairs",
		Params: map[string]Param{
			"pipeline":         {Type: TypeString, Description: "Pipeline identifier"},
			"deal_stage":       {Type: TypeString, Description: "Stage identifier"},
			"created_after":    {Type: TypeString, Description: "Lower bound on creation time (ISO 8601)"},
			"created_before":   {Type: TypeString, Description: "Upper bound on creation time (ISO 8601)"},
			"closedate_after":  {Type: TypeString, Description: "Lower bound on close date (ISO 8601)"},
			"closedate_before": {Type: TypeString, Description: "Upper bound on close date (ISO 8601)"},
			"limit":            {Type: TypeInteger, Description: "Maximum number of results", Default: 100},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return svc.ListFiltered(ctx, service.DealFilter{
				Pipeline:      stringArg(args, "pipeline"),
				Stage:         stringArg(args, "deal_stage"),
				CreatedAfter:  stringArg(args, "created_after"),
				CreatedBefore: stringArg(args, "created_before"),
				CloseAfter:    stringArg(args, "closedate_after"),
				CloseBefore:   stringArg(args, "closedate_before"),
				Limit:         intArg(args, "limit"),
			})
		},
	}
}

func searchDealsTool(svc *service.DealService) Tool {
	return Tool{
		Name:        "search_deals",
		Description: "Free-text search across deal name, pipeline and stage, newest first",
		Params: map[string]Param{
			"query": {Type: TypeString, Description: "Search token", Required: true},
			"limit": {Type: TypeInteger, Description: "Maximum number of results", Default: 10},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return svc.Search(ctx, stringArg(args, "query"), intArg(args, "limit"))
		},
	}
}

func getRecentDealsTool(svc *service.DealService) Tool {
	return Tool{
		Name:        "get_recent_deals",
		Description: "List the most recently created or modified deals, newest first",
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

func getDealPipelinesTool(svc *service.DealService) Tool {
	return Tool{
		Name:        "get_deal_pipelines",
		Description: "List the deal pipelines and their stages",
		Params:      map[string]Param{},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return svc.Pipelines(ctx)
		},
	}
}
