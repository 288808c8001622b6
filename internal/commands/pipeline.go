package commands

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kasunvimarshana/AutoERP-sub011/internal/core"
	"github.com/kasunvimarshana/AutoERP-sub011/internal/domain"
)

// Command is one mutating operation flowing through the pipeline.
// Validate checks structural requirements only (required fields present);
// semantic rules stay with the handler.
type Command interface {
	CommandName() string
	Validate() error
}

// TenantScoped is implemented by commands that carry a tenant id.
type TenantScoped interface {
	Tenant() string
}

// Actored is implemented by commands that carry an acting user id.
type Actored interface {
	Actor() string
}

// HandlerFunc executes the core of a command.
type HandlerFunc func(ctx context.Context, cmd Command) (interface{}, error)

// Middleware decorates a handler.
type Middleware func(next HandlerFunc) HandlerFunc

// AuditSink receives one entry per executed command. It is injected
// infrastructure, shared across all command types.
type AuditSink interface {
	Record(entry *domain.AuditEntry) error
}

// Pipeline composes a fixed middleware chain around per-command handlers.
type Pipeline struct {
	middleware []Middleware
}

// NewPipeline builds a pipeline; the first middleware is the outermost.
func NewPipeline(middleware ...Middleware) *Pipeline {
	return &Pipeline{middleware: middleware}
}

// Execute runs cmd through the middleware chain into handler.
func (p *Pipeline) Execute(ctx context.Context, cmd Command, handler HandlerFunc) (interface{}, error) {
	h := handler
	for i := len(p.middleware) - 1; i >= 0; i-- {
		h = p.middleware[i](h)
	}
	return h(ctx, cmd)
}

// WithValidation rejects structurally invalid commands before anything
// else runs.
func WithValidation() Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, cmd Command) (interface{}, error) {
			if err := cmd.Validate(); err != nil {
				return nil, err
			}
			return next(ctx, cmd)
		}
	}
}

// WithAudit writes the "command X executed with payload Y" entry before
// the handler runs, and a second failure entry when the handler errors.
// A failed audit write aborts the command; the trail must not have holes.
func WithAudit(sink AuditSink, clock core.Clock) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, cmd Command) (interface{}, error) {
			entry := newEntry(ctx, cmd, clock)
			if err := sink.Record(entry); err != nil {
				return nil, err
			}
			result, err := next(ctx, cmd)
			if err != nil {
				failure := newEntry(ctx, cmd, clock)
				failure.Outcome = domain.AuditOutcomeFailed
				failure.Detail = err.Error()
				if auditErr := sink.Record(failure); auditErr != nil {
					slog.Error("Failed to record command failure", "error", auditErr, "command", cmd.CommandName())
				}
				return nil, err
			}
			return result, nil
		}
	}
}

func newEntry(ctx context.Context, cmd Command, clock core.Clock) *domain.AuditEntry {
	payload, err := json.Marshal(cmd)
	if err != nil {
		payload = []byte("{}")
	}
	entry := &domain.AuditEntry{
		ID:          uuid.New().String(),
		CommandName: cmd.CommandName(),
		Payload:     string(payload),
		Outcome:     domain.AuditOutcomeExecuted,
		DateTime:    clock.Now().UTC(),
	}
	if tc, ok := cmd.(TenantScoped); ok {
		entry.TenantID = tc.Tenant()
	}
	if actor, ok := ctx.Value(core.CtxKeyActor).(string); ok && actor != "" {
		entry.ActorUserID = actor
	} else if ac, ok := cmd.(Actored); ok {
		entry.ActorUserID = ac.Actor()
	}
	return entry
}
