package tools

import (
	"context"

	"github.com/hublink/hublink/internal/service"
)

// ContactTools returns the contact portion of the catalog.
func ContactTools(svc *service.ContactService) []Tool {
	return []Tool{
		createContactTool(svc),
		getContactByEmailTool(svc),
		updateContactByEmailTool(svc),
		deleteContactByIDTool(svc),
		deleteContactByEmailTool(svc),
		searchContactsTool(svc),
		getAllContactsTool(svc),
		getRecentContactsTool(svc),
	}
}

func createContactTool(svc *service.ContactService) Tool {
	return Tool{
		Name:        "create_contact",
		Description: "Create a new contact; the email address is validated locally before any call",
		Params: map[string]Param{
			"email":      {Type: TypeString, Description: "Email address of the contact", Required: true},
			"first_name": {Type: TypeString, Description: "First name", Required: true},
			"last_name":  {Type: TypeString, Description: "Last name", Required: true},
			"phone":      {Type: TypeString, Description: "Phone number"},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return svc.Create(ctx,
				stringArg(args, "email"),
				stringArg(args, "first_name"),
				stringArg(args, "last_name"),
				stringArg(args, "phone"))
		},
	}
}

func getContactByEmailTool(svc *service.ContactService) Tool {
	return Tool{
		Name:        "get_contact_by_email",
		Description: "Fetch the single contact holding an email address; zero matches is not_found, several is ambiguous",
		Params: map[string]Param{
			"email": {Type: TypeString, Description: "Email address to resolve", Required: true},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return svc.GetByEmail(ctx, stringArg(args, "email"))
		},
	}
}

func updateContactByEmailTool(svc *service.ContactService) Tool {
	return Tool{
		Name:        "update_contact_by_email",
		Description: "Resolve a contact by email and update the given properties",
		Params: map[string]Param{
			"email":      {Type: TypeString, Description: "Email address of the contact", Required: true},
			"properties": {Type: TypeObject, Description: "Property names and new values", Required: true},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return svc.UpdateByEmail(ctx, stringArg(args, "email"), objectArg(args, "properties"))
		},
	}
}

func deleteContactByIDTool(svc *service.ContactService) Tool {
	return Tool{
		Name:        "delete_contact_by_id",
		Description: "Delete (archive) a contact by its CRM identifier",
		Params: map[string]Param{
			"contact_id": {Type: TypeString, Description: "CRM identifier of the contact", Required: true},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return svc.DeleteByID(ctx, stringArg(args, "contact_id"))
		},
	}
}

func deleteContactByEmailTool(svc *service.ContactService) Tool {
	return Tool{
		Name:        "delete_contact_by_email",
		Description: "Resolve a contact by email and delete it",
		Params: map[string]Param{
			"email": {Type: TypeString, Description: "Email address of the contact", Required: true},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return svc.DeleteByEmail(ctx, stringArg(args, "email"))
		},
	}
}

func searchContactsTool(svc *service.ContactService) Tool {
	return Tool{
		Name:        "search_contacts",
		Description: "Search contacts by exact email, first name and/or phone; criteria are combined with AND",
		Params: map[string]Param{
			"email":      {Type: TypeString, Description: "Exact email address"},
			"first_name": {Type: TypeString, Description: "Exact first name"},
			"phone":      {Type: TypeString, Description: "Exact phone number"},
			"limit":      {Type: TypeInteger, Description: "Maximum number of results", Default: 100},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return svc.Search(ctx, service.ContactSearch{
				Email:     stringArg(args, "email"),
				FirstName: stringArg(args, "first_name"),
				Phone:     stringArg(args, "phone"),
				Limit:     intArg(args, "limit"),
			})
		},
	}
}

func getAllContactsTool(svc *service.ContactService) Tool {
	return Tool{
		Name:        "get_all_contacts",
		Description: "List every contact, following pagination until exhausted",
		Params:      map[string]Param{},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return svc.ListAll(ctx)
		},
	}
}

func getRecentContactsTool(svc *service.ContactService) Tool {
	return Tool{
		Name:        "get_recent_contacts",
		Description: "List contacts by last modification, newest first; since bounds the window from below",
		Params: map[string]Param{
			"since": {Type: TypeString, Description: "Only contacts modified at or after this time (ISO 8601)"},
			"limit": {Type: TypeInteger, Description: "Maximum number of results", Default: 10},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return svc.Recent(ctx, stringArg(args, "since"), intArg(args, "limit"))
		},
	}
}
