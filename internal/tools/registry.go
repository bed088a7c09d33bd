package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hublink/hublink/internal/models"
	"github.com/hublink/hublink/internal/security"
	"github.com/hublink/hublink/internal/service"
)

// Registry holds the tool catalog and is the single place where results and
// errors are shaped into the Result Envelope. Built once at startup; only
// read afterwards.
type Registry struct {
	tools map[string]Tool
	order []string
	audit *security.AuditLogger
}

// NewRegistry builds an empty registry. Pass a nil audit logger to disable
// the dispatch audit trail.
func NewRegistry(audit *security.AuditLogger) *Registry {
	if audit == nil {
		audit = security.NewAuditLogger(false)
	}
	return &Registry{
		tools: make(map[string]Tool),
		audit: audit,
	}
}

// Register inserts a tool; names must be unique within the catalog.
func (r *Registry) Register(t Tool) error {
	if t.Name == "" {
		return fmt.Errorf("tool name is empty")
	}
	if _, exists := r.tools[t.Name]; exists {
		return fmt.Errorf("tool %s already registered", t.Name)
	}
	r.tools[t.Name] = t
	r.order = append(r.order, t.Name)
	return nil
}

// List returns the catalog in registration order.
func (r *Registry) List() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Get fetches a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Dispatch routes an invocation to its tool: unknown names and schema
// violations are rejected before any remote call, and every error raised
// below is converted here into the envelope's closed error set.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]any) models.Envelope {
	start := time.Now()

	t, ok := r.tools[name]
	if !ok {
		return r.finish(name, args, start, models.ErrEnvelope(&models.UnknownToolError{Name: name}))
	}

	cleaned, err := validateArgs(t, args)
	if err != nil {
		return r.finish(name, args, start, models.ErrEnvelope(err))
	}

	data, err := t.Execute(ctx, cleaned)
	if err != nil {
		log.Warn().Err(err).Str("tool", name).Msg("tool execution failed")
		return r.finish(name, args, start, models.ErrEnvelope(err))
	}
	return r.finish(name, args, start, models.OKEnvelope(data))
}

func (r *Registry) finish(name string, args map[string]any, start time.Time, env models.Envelope) models.Envelope {
	errKind := ""
	if env.Error != nil {
		errKind = string(env.Error.Kind)
	}
	serialized, _ := json.Marshal(args)
	r.audit.LogDispatch(name, security.HashArgs(serialized), env.OK, errKind, time.Since(start))
	return env
}

// Services bundles the domain operations the catalog binds to.
type Services struct {
	Companies *service.CompanyService
	Contacts  *service.ContactService
	Lists     *service.ListService
	Deals     *service.DealService
	Tickets   *service.TicketService
}

// BuildRegistry assembles the full catalog. Registration failures are
// programming errors (duplicate names) and surface at startup.
func BuildRegistry(svcs Services, audit *security.AuditLogger) (*Registry, error) {
	r := NewRegistry(audit)

	all := []Tool{}
	all = append(all, CompanyTools(svcs.Companies)...)
	all = append(all, ContactTools(svcs.Contacts)...)
	all = append(all, ListTools(svcs.Lists)...)
	all = append(all, DealTools(svcs.Deals)...)
	all = append(all, TicketTools(svcs.Tickets)...)

	for _, t := range all {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}

	log.Info().Int("tools", len(all)).Msg("tool catalog built")
	return r, nil
}
