package engine

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kasunvimarshana/AutoERP-sub011/internal/commands"
	"github.com/kasunvimarshana/AutoERP-sub011/internal/config"
	"github.com/kasunvimarshana/AutoERP-sub011/internal/core"
	"github.com/kasunvimarshana/AutoERP-sub011/internal/domain"
)

// InstanceService is the state machine runtime: it starts, advances and
// cancels workflow instances, enforcing the definition graph as a runtime
// invariant. Each state change commits atomically with its log row; a
// compare-and-swap on the observed current state serializes concurrent
// callers so at most one transition succeeds per observed state.
type InstanceService struct {
	InstanceRepo   InstanceRepo
	DefinitionRepo DefinitionRepo
	pipeline       *commands.Pipeline
	cache          *graphCache
	clock          core.Clock
}

func NewInstanceService(instanceRepo InstanceRepo, definitionRepo DefinitionRepo, pipeline *commands.Pipeline, cache *graphCache, clock core.Clock) *InstanceService {
	return &InstanceService{
		InstanceRepo:   instanceRepo,
		DefinitionRepo: definitionRepo,
		pipeline:       pipeline,
		cache:          cache,
		clock:          clock,
	}
}

// graph resolves the definition's states and transitions, serving repeat
// lookups from the cache. The graph is immutable once created.
func (s *InstanceService) graph(definitionID int64, tenantID string) (*definitionGraph, error) {
	if g, ok := s.cache.get(definitionID); ok {
		return g, nil
	}
	states, err := s.DefinitionRepo.FindStates(definitionID, tenantID)
	if err != nil {
		return nil, err
	}
	transitions, err := s.DefinitionRepo.FindTransitions(definitionID, tenantID)
	if err != nil {
		return nil, err
	}
	g := buildGraph(definitionID, *states, *transitions)
	s.cache.put(g)
	return g, nil
}

// Start creates a new active instance positioned at the definition's
// unique initial state, together with its start log entry.
func (s *InstanceService) Start(ctx context.Context, cmd *StartInstanceCommand) (*domain.WorkflowInstance, error) {
	result, err := s.pipeline.Execute(ctx, cmd, func(ctx context.Context, _ commands.Command) (interface{}, error) {
		return s.start(ctx, cmd)
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.WorkflowInstance), nil
}

func (s *InstanceService) start(ctx context.Context, cmd *StartInstanceCommand) (*domain.WorkflowInstance, error) {
	def, err := s.DefinitionRepo.FindByID(cmd.WorkflowDefinitionID, cmd.TenantID)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, newError(CodeNotFound, "definition not found")
	}
	if !def.IsActive {
		return nil, newError(CodeInactiveDefinition, fmt.Sprintf("definition %q is not active", def.Name))
	}

	g, err := s.graph(def.ID, cmd.TenantID)
	if err != nil {
		return nil, err
	}
	if g.initialStateID == 0 {
		return nil, newError(CodeInvalidGraph, fmt.Sprintf("definition %q has no initial state", def.Name))
	}

	actor := cmd.StartedByUserID
	if actor == "" {
		actor = config.GetSystemSettingString(config.SYSTEM_ACTOR)
	}
	now := s.clock.Now().UTC()

	inst := &domain.WorkflowInstance{
		TenantID:             cmd.TenantID,
		WorkflowDefinitionID: def.ID,
		EntityType:           cmd.EntityType,
		EntityID:             cmd.EntityID,
		CurrentStateID:       g.initialStateID,
		Status:               domain.InstanceStatusActive,
		Started:              now,
	}
	if cmd.StartedByUserID != "" {
		inst.StartedByUserID = sql.NullString{String: cmd.StartedByUserID, Valid: true}
	}
	log := &domain.WorkflowInstanceLog{
		TenantID:    cmd.TenantID,
		ToStateID:   g.initialStateID,
		ActorUserID: actor,
		ActedAt:     now,
		Created:     now,
	}
	if err := s.InstanceRepo.Save(inst, log); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Started workflow instance", "tenantId", inst.TenantID, "instanceId", inst.ID, "definitionId", def.ID, "entityId", inst.EntityID)
	return inst, nil
}

// Advance applies one named transition originating exactly from the
// instance's present state. The engine does not search for a path.
func (s *InstanceService) Advance(ctx context.Context, cmd *AdvanceInstanceCommand) (*domain.WorkflowInstance, error) {
	result, err := s.pipeline.Execute(ctx, cmd, func(ctx context.Context, _ commands.Command) (interface{}, error) {
		return s.advance(ctx, cmd)
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.WorkflowInstance), nil
}

func (s *InstanceService) advance(ctx context.Context, cmd *AdvanceInstanceCommand) (*domain.WorkflowInstance, error) {
	inst, err := s.InstanceRepo.FindByID(cmd.InstanceID, cmd.TenantID)
	if err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, newError(CodeNotFound, "instance not found")
	}
	if inst.Status != domain.InstanceStatusActive {
		return nil, newError(CodeNotActive, fmt.Sprintf("instance is %s and cannot be advanced", inst.Status))
	}

	g, err := s.graph(inst.WorkflowDefinitionID, cmd.TenantID)
	if err != nil {
		return nil, err
	}
	transition, ok := g.transition(cmd.TransitionID)
	if !ok {
		return nil, newError(CodeNotFound, "transition not found for this definition")
	}
	if transition.FromStateID != inst.CurrentStateID {
		return nil, newError(CodeInvalidTransition, fmt.Sprintf("transition %q does not originate from the instance's current state", transition.Name))
	}
	if transition.RequiresComment && strings.TrimSpace(cmd.Comment) == "" {
		return nil, newError(CodeCommentRequired, fmt.Sprintf("transition %q requires a comment", transition.Name))
	}
	target, ok := g.state(transition.ToStateID)
	if !ok {
		return nil, newError(CodeNotFound, "target state not found for this definition")
	}

	now := s.clock.Now().UTC()
	previousStateID := inst.CurrentStateID
	inst.CurrentStateID = target.ID
	if target.IsFinal {
		inst.Status = domain.InstanceStatusCompleted
		inst.Completed = sql.NullTime{Time: now, Valid: true}
	}

	log := &domain.WorkflowInstanceLog{
		TenantID:     cmd.TenantID,
		FromStateID:  sql.NullInt64{Int64: previousStateID, Valid: true},
		ToStateID:    target.ID,
		TransitionID: sql.NullInt64{Int64: transition.ID, Valid: true},
		ActorUserID:  cmd.ActorUserID,
		ActedAt:      now,
		Created:      now,
	}
	if cmd.Comment != "" {
		log.Comment = sql.NullString{String: cmd.Comment, Valid: true}
	}

	applied, err := s.InstanceRepo.UpdateStateCAS(inst, previousStateID, log)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, s.concurrentMutationError(cmd.InstanceID, cmd.TenantID)
	}
	slog.InfoContext(ctx, "Advanced workflow instance", "tenantId", inst.TenantID, "instanceId", inst.ID, "transition", transition.Name, "state", target.Name, "status", inst.Status)
	return inst, nil
}

// Cancel terminates an active instance without moving it; the current
// state is kept and completed_at stays null.
func (s *InstanceService) Cancel(ctx context.Context, cmd *CancelInstanceCommand) (*domain.WorkflowInstance, error) {
	result, err := s.pipeline.Execute(ctx, cmd, func(ctx context.Context, _ commands.Command) (interface{}, error) {
		return s.cancel(ctx, cmd)
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.WorkflowInstance), nil
}

func (s *InstanceService) cancel(ctx context.Context, cmd *CancelInstanceCommand) (*domain.WorkflowInstance, error) {
	inst, err := s.InstanceRepo.FindByID(cmd.InstanceID, cmd.TenantID)
	if err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, newError(CodeNotFound, "instance not found")
	}
	if inst.Status != domain.InstanceStatusActive {
		return nil, newError(CodeNotActive, fmt.Sprintf("instance is %s and cannot be cancelled", inst.Status))
	}

	now := s.clock.Now().UTC()
	inst.Status = domain.InstanceStatusCancelled

	log := &domain.WorkflowInstanceLog{
		TenantID:    cmd.TenantID,
		FromStateID: sql.NullInt64{Int64: inst.CurrentStateID, Valid: true},
		ToStateID:   inst.CurrentStateID,
		ActorUserID: cmd.ActorUserID,
		ActedAt:     now,
		Created:     now,
	}
	if cmd.Comment != "" {
		log.Comment = sql.NullString{String: cmd.Comment, Valid: true}
	}

	applied, err := s.InstanceRepo.UpdateStateCAS(inst, inst.CurrentStateID, log)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, s.concurrentMutationError(cmd.InstanceID, cmd.TenantID)
	}
	slog.InfoContext(ctx, "Cancelled workflow instance", "tenantId", inst.TenantID, "instanceId", inst.ID)
	return inst, nil
}

// concurrentMutationError reloads the instance after a lost
// compare-and-swap and reports what the winner left behind.
func (s *InstanceService) concurrentMutationError(instanceID int64, tenantID string) error {
	current, err := s.InstanceRepo.FindByID(instanceID, tenantID)
	if err != nil {
		return err
	}
	if current == nil {
		return newError(CodeNotFound, "instance not found")
	}
	if current.Status != domain.InstanceStatusActive {
		return newError(CodeNotActive, fmt.Sprintf("instance is %s and cannot be advanced", current.Status))
	}
	return newError(CodeInvalidTransition, "instance state changed concurrently")
}

// Delete hard-deletes the instance row. The instance's logs are retained.
func (s *InstanceService) Delete(ctx context.Context, cmd *DeleteInstanceCommand) error {
	_, err := s.pipeline.Execute(ctx, cmd, func(ctx context.Context, _ commands.Command) (interface{}, error) {
		inst, err := s.InstanceRepo.FindByID(cmd.InstanceID, cmd.TenantID)
		if err != nil {
			return nil, err
		}
		if inst == nil {
			return nil, newError(CodeNotFound, "instance not found")
		}
		return nil, s.InstanceRepo.Delete(cmd.InstanceID, cmd.TenantID)
	})
	return err
}

// Get returns a single instance.
func (s *InstanceService) Get(id int64, tenantID string) (*domain.WorkflowInstance, error) {
	inst, err := s.InstanceRepo.FindByID(id, tenantID)
	if err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, newError(CodeNotFound, "instance not found")
	}
	return inst, nil
}

// List returns one page of a tenant's instances.
func (s *InstanceService) List(tenantID string, limit int, offset int) (*[]domain.WorkflowInstance, error) {
	return s.InstanceRepo.FindAllByTenant(tenantID, limit, offset)
}

// Logs returns the full audit trail of an instance, oldest first. Logs
// survive instance deletion, so no instance existence check is made.
func (s *InstanceService) Logs(instanceID int64, tenantID string) (*[]domain.WorkflowInstanceLog, error) {
	return s.InstanceRepo.FindLogs(instanceID, tenantID)
}
