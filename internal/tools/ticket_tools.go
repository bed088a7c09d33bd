package tools

import (
	"context"

	"github.com/hublink/hublink/internal/service"
)

// TicketTools returns the support-ticket portion of the catalog.
func TicketTools(svc *service.TicketService) []Tool {
	return []Tool{
		createTicketTool(svc),
		getTicketDetailsTool(svc),
		updateTicketTool(svc),
		deleteTicketTool(svc),
		getTicketsInRangeTool(svc),
	}
}

func createTicketTool(svc *service.TicketService) Tool {
	return Tool{
		Name:        "create_ticket",
		Description: "Create a support ticket, optionally associating a contact",
		Params: map[string]Param{
			"subject":  {Type: TypeString, Description: "Ticket subject", Required: true},
			"content":  {Type: TypeString, Description: "Ticket body", Required: true},
			"pipeline": {Type: TypeString, Description: "Support pipeline identifier", Default: "0"},
			"pipeline_stage": {
				Type:        TypeString,
				Description: "Stage identifier within the pipeline",
				Default:     "1",
			},
			"priority": {
				Type:        TypeString,
				Description: "Ticket priority",
				Default:     "MEDIUM",
				Enum:        []string{"LOW", "MEDIUM", "HIGH"},
			},
			"category": {
				Type:        TypeString,
				Description: "Ticket category",
				Enum:        []string{"PRODUCT_ISSUE", "BILLING_ISSUE", "FEATURE_REQUEST", "GENERAL_INQUIRY"},
			},
			"contact_id":  {Type: TypeString, Description: "Contact to associate with the ticket"},
			"owner_id":    {Type: TypeString, Description: "Identifier of the owning user"},
			"source_type": {Type: TypeString, Description: "Channel the ticket came from, e.g. EMAIL"},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return svc.Create(ctx, service.TicketInput{
				Subject:       stringArg(args, "subject"),
				Content:       stringArg(args, "content"),
				Pipeline:      stringArg(args, "pipeline"),
				PipelineStage: stringArg(args, "pipeline_stage"),
				Priority:      stringArg(args, "priority"),
				Category:      stringArg(args, "category"),
				ContactID:     stringArg(args, "contact_id"),
				OwnerID:       stringArg(args, "owner_id"),
				SourceType:    stringArg(args, "source_type"),
			})
		},
	}
}

func getTicketDetailsTool(svc *service.TicketService) Tool {
	return Tool{
		Name:        "get_ticket_details",
		Description: "Fetch a single ticket by its ID",
		Params: map[string]Param{
			"ticket_id": {Type: TypeString, Description: "CRM identifier of the ticket", Required: true},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return svc.Get(ctx, stringArg(args, "ticket_id"))
		},
	}
}

func updateTicketTool(svc *service.TicketService) Tool {
	return Tool{
		Name:        "update_ticket",
		Description: "Update one or more properties of an existing ticket",
		Params: map[string]Param{
			"ticket_id":      {Type: TypeString, Description: "CRM identifier of the ticket", Required: true},
			"subject":        {Type: TypeString, Description: "Ticket subject"},
			"description":    {Type: TypeString, Description: "Ticket body"},
			"pipeline":       {Type: TypeString, Description: "Support pipeline identifier"},
			"pipeline_stage": {Type: TypeString, Description: "Stage identifier"},
			"priority": {
				Type:        TypeString,
				Description: "Ticket priority",
				Enum:        []string{"LOW", "MEDIUM", "HIGH"},
			},
			"properties": {Type: TypeObject, Description: "Additional property names and values"},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return svc.Update(ctx, stringArg(args, "ticket_id"), service.TicketUpdate{
				Subject:       stringArg(args, "subject"),
				Description:   stringArg(args, "description"),
				Pipeline:      stringArg(args, "pipeline"),
				PipelineStage: stringArg(args, "pipeline_stage"),
				Priority:      stringArg(args, "priority"),
				Properties:    objectArg(args, "properties"),
			})
		},
	}
}

func deleteTicketTool(svc *service.TicketService) Tool {
	return Tool{
		Name:        "delete_ticket",
		Description: "Delete (archive) a ticket by its ID",
		Params: map[string]Param{
			"ticket_id": {Type: TypeString, Description: "CRM identifier of the ticket", Required: true},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return svc.Delete(ctx, stringArg(args, "ticket_id"))
		},
	}
}

func getTicketsInRangeTool(svc *service.TicketService) Tool {
	return Tool{
		Name:        "get_tickets_in_range",
		Description: "List tickets created inside a date window; both bounds are required",
		Params: map[string]Param{
			"created_after":  {Type: TypeString, Description: "Lower bound on creation time (ISO 8601)", Required: true},
			"created_before": {Type: TypeString, Description: "Upper bound on creation time (ISO 8601)", Required: true},
			"limit":          {Type: TypeInteger, Description: "Maximum number of results", Default: 100},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return svc.InRange(ctx,
				stringArg(args, "created_after"),
				stringArg(args, "created_before"),
				intArg(args, "limit"))
		},
	}
}
