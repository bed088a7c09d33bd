package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hublink/hublink/internal/models"
	"github.com/hublink/hublink/internal/tools"
)

// ToolsHandler exposes the catalog over HTTP: a listing endpoint and an
// invocation endpoint mirroring the primary transport. Invocations always
// answer 200 with an envelope; only transport-level failures (unreadable
// body, bad JSON) use HTTP error codes.
type ToolsHandler struct {
	registry *tools.Registry
}

func NewToolsHandler(registry *tools.Registry) *ToolsHandler {
	return &ToolsHandler{registry: registry}
}

type toolDescriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// List handles GET /api/v1/tools.
func (h *ToolsHandler) List(w http.ResponseWriter, r *http.Request) {
	catalog := h.registry.List()
	out := make([]toolDescriptor, 0, len(catalog))
	for _, t := range catalog {
		out = append(out, toolDescriptor{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema(),
		})
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{
		"tools": out,
		"count": len(out),
	})
}

// Invoke handles POST /api/v1/tools/{tool_name}. The body is the argument
// map; an empty body means no arguments.
func (h *ToolsHandler) Invoke(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "tool_name")

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		models.WriteError(w, http.StatusBadRequest, "unable to read request body")
		return
	}

	args := map[string]any{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &args); err != nil {
			models.WriteError(w, http.StatusBadRequest, "request body is not a JSON object")
			return
		}
	}

	env := h.registry.Dispatch(r.Context(), name, args)
	models.WriteJSON(w, http.StatusOK, env)
}
