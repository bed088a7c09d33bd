package tools

import (
	"context"

	"github.com/hublink/hublink/internal/service"
)

// ListTools returns the static-list portion of the catalog.
func ListTools(svc *service.ListService) []Tool {
	return []Tool{
		addContactToListTool(svc),
		removeContactFromListTool(svc),
		createListTool(svc),
		deleteListTool(svc),
	}
}

func addContactToListTool(svc *service.ListService) Tool {
	return Tool{
		Name:        "add_contact_to_list",
		Description: "Add a contact to a static list; adding an existing member is a no-op",
		Params: map[string]Param{
			"list_id":    {Type: TypeString, Description: "Identifier of the static list", Required: true},
			"contact_id": {Type: TypeString, Description: "CRM identifier of the contact", Required: true},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return svc.AddContact(ctx, stringArg(args, "list_id"), stringArg(args, "contact_id"))
		},
	}
}

func removeContactFromListTool(svc *service.ListService) Tool {
	return Tool{
		Name:        "remove_contact_from_list",
		Description: "Remove a contact from a static list; removing a non-member is a no-op",
		Params: map[string]Param{
			"list_id":    {Type: TypeString, Description: "Identifier of the static list", Required: true},
			"contact_id": {Type: TypeString, Description: "CRM identifier of the contact", Required: true},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return svc.RemoveContact(ctx, stringArg(args, "list_id"), stringArg(args, "contact_id"))
		},
	}
}

func createListTool(svc *service.ListService) Tool {
	return Tool{
		Name:        "create_list",
		Description: "Create a manually managed static list",
		Params: map[string]Param{
			"name": {Type: TypeString, Description: "Name of the list", Required: true},
			"list_type": {
				Type:        TypeString,
				Description: "Object type the list holds",
				Default:     "CONTACTS",
				Enum:        []string{"CONTACTS", "COMPANIES"},
			},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return svc.CreateStatic(ctx, stringArg(args, "name"), stringArg(args, "list_type"))
		},
	}
}

func deleteListTool(svc *service.ListService) Tool {
	return Tool{
		Name:        "delete_list",
		Description: "Delete a list by its identifier",
		Params: map[string]Param{
			"list_id": {Type: TypeString, Description: "Identifier of the list", Required: true},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return svc.Delete(ctx, stringArg(args, "list_id"))
		},
	}
}
