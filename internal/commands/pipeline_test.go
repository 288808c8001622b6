package commands

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kasunvimarshana/AutoERP-sub011/internal/core"
	"github.com/kasunvimarshana/AutoERP-sub011/internal/domain"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type recordingSink struct {
	entries []*domain.AuditEntry
	err     error
}

func (s *recordingSink) Record(entry *domain.AuditEntry) error {
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, entry)
	return nil
}

type testCommand struct {
	TenantID string `json:"tenant_id"`
	Value    string `json:"value"`
	invalid  bool
	actor    string
}

func (c *testCommand) CommandName() string { return "test.command" }
func (c *testCommand) Tenant() string      { return c.TenantID }
func (c *testCommand) Actor() string       { return c.actor }
func (c *testCommand) Validate() error {
	if c.invalid {
		return errors.New("value is required")
	}
	return nil
}

func TestPipelineRunsHandler(t *testing.T) {
	p := NewPipeline(WithValidation())
	handled := false

	result, err := p.Execute(context.Background(), &testCommand{TenantID: "acme"}, func(ctx context.Context, cmd Command) (interface{}, error) {
		handled = true
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !handled || result != "ok" {
		t.Errorf("Expected handler to run and return ok, got handled=%v result=%v", handled, result)
	}
}

func TestValidationShortCircuits(t *testing.T) {
	sink := &recordingSink{}
	clock := &fakeClock{now: time.Now()}
	p := NewPipeline(WithValidation(), WithAudit(sink, clock))
	handled := false

	_, err := p.Execute(context.Background(), &testCommand{TenantID: "acme", invalid: true}, func(ctx context.Context, cmd Command) (interface{}, error) {
		handled = true
		return nil, nil
	})
	if err == nil {
		t.Fatal("Expected validation error")
	}
	if handled {
		t.Error("Handler must not run for an invalid command")
	}
	if len(sink.entries) != 0 {
		t.Errorf("Invalid commands must not be audited, got %d entries", len(sink.entries))
	}
}

func TestAuditEntryWrittenBeforeHandler(t *testing.T) {
	sink := &recordingSink{}
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	p := NewPipeline(WithValidation(), WithAudit(sink, clock))

	_, err := p.Execute(context.Background(), &testCommand{TenantID: "acme", Value: "v1", actor: "u-9"}, func(ctx context.Context, cmd Command) (interface{}, error) {
		if len(sink.entries) != 1 {
			t.Errorf("Audit entry must exist before the handler runs, got %d", len(sink.entries))
		}
		return nil, nil
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(sink.entries) != 1 {
		t.Fatalf("Expected exactly 1 audit entry, got %d", len(sink.entries))
	}
	entry := sink.entries[0]
	if entry.CommandName != "test.command" {
		t.Errorf("Unexpected command name %q", entry.CommandName)
	}
	if entry.TenantID != "acme" {
		t.Errorf("Unexpected tenant %q", entry.TenantID)
	}
	if entry.ActorUserID != "u-9" {
		t.Errorf("Unexpected actor %q", entry.ActorUserID)
	}
	if entry.Outcome != domain.AuditOutcomeExecuted {
		t.Errorf("Unexpected outcome %q", entry.Outcome)
	}
	if !strings.Contains(entry.Payload, `"value":"v1"`) {
		t.Errorf("Payload must carry the command fields, got %s", entry.Payload)
	}
	if entry.ID == "" {
		t.Error("Audit entry must get an id")
	}
	if !entry.DateTime.Equal(clock.now) {
		t.Errorf("Expected audit time %v, got %v", clock.now, entry.DateTime)
	}
}

func TestAuditFailureEntryOnHandlerError(t *testing.T) {
	sink := &recordingSink{}
	clock := &fakeClock{now: time.Now()}
	p := NewPipeline(WithValidation(), WithAudit(sink, clock))
	handlerErr := errors.New("boom")

	_, err := p.Execute(context.Background(), &testCommand{TenantID: "acme"}, func(ctx context.Context, cmd Command) (interface{}, error) {
		return nil, handlerErr
	})
	if !errors.Is(err, handlerErr) {
		t.Fatalf("Expected the handler error back, got %v", err)
	}
	if len(sink.entries) != 2 {
		t.Fatalf("Expected executed + failure entries, got %d", len(sink.entries))
	}
	failure := sink.entries[1]
	if failure.Outcome != domain.AuditOutcomeFailed {
		t.Errorf("Unexpected failure outcome %q", failure.Outcome)
	}
	if failure.Detail != "boom" {
		t.Errorf("Failure entry must carry the error, got %q", failure.Detail)
	}
}

func TestFailedAuditWriteAbortsCommand(t *testing.T) {
	sinkErr := errors.New("audit store down")
	sink := &recordingSink{err: sinkErr}
	clock := &fakeClock{now: time.Now()}
	p := NewPipeline(WithValidation(), WithAudit(sink, clock))
	handled := false

	_, err := p.Execute(context.Background(), &testCommand{TenantID: "acme"}, func(ctx context.Context, cmd Command) (interface{}, error) {
		handled = true
		return nil, nil
	})
	if !errors.Is(err, sinkErr) {
		t.Fatalf("Expected the audit error back, got %v", err)
	}
	if handled {
		t.Error("Handler must not run when the audit write fails")
	}
}

func TestAuditActorPrefersContext(t *testing.T) {
	sink := &recordingSink{}
	clock := &fakeClock{now: time.Now()}
	p := NewPipeline(WithAudit(sink, clock))
	ctx := context.WithValue(context.Background(), core.CtxKeyActor, "api-user")

	_, err := p.Execute(ctx, &testCommand{TenantID: "acme", actor: "u-9"}, func(ctx context.Context, cmd Command) (interface{}, error) {
		return nil, nil
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if sink.entries[0].ActorUserID != "api-user" {
		t.Errorf("Authenticated caller must win over the command actor, got %q", sink.entries[0].ActorUserID)
	}
}

func TestMiddlewareOrder(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next HandlerFunc) HandlerFunc {
			return func(ctx context.Context, cmd Command) (interface{}, error) {
				order = append(order, name)
				return next(ctx, cmd)
			}
		}
	}
	p := NewPipeline(tag("outer"), tag("inner"))

	_, err := p.Execute(context.Background(), &testCommand{TenantID: "acme"}, func(ctx context.Context, cmd Command) (interface{}, error) {
		order = append(order, "handler")
		return nil, nil
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	want := []string{"outer", "inner", "handler"}
	for i, name := range want {
		if order[i] != name {
			t.Fatalf("Unexpected execution order %v, want %v", order, want)
		}
	}
}
