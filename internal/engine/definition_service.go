package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kasunvimarshana/AutoERP-sub011/internal/commands"
	"github.com/kasunvimarshana/AutoERP-sub011/internal/core"
	"github.com/kasunvimarshana/AutoERP-sub011/internal/domain"
	"github.com/kasunvimarshana/AutoERP-sub011/internal/models"
	"github.com/kasunvimarshana/AutoERP-sub011/internal/repository"
)

// DefinitionService creates, updates and deletes workflow definitions and
// enforces the graph invariants at creation time. The graph of a
// persisted definition is immutable.
type DefinitionService struct {
	DefinitionRepo DefinitionRepo
	InstanceRepo   InstanceRepo
	pipeline       *commands.Pipeline
	cache          *graphCache
	clock          core.Clock
}

func NewDefinitionService(definitionRepo DefinitionRepo, instanceRepo InstanceRepo, pipeline *commands.Pipeline, cache *graphCache, clock core.Clock) *DefinitionService {
	return &DefinitionService{
		DefinitionRepo: definitionRepo,
		InstanceRepo:   instanceRepo,
		pipeline:       pipeline,
		cache:          cache,
		clock:          clock,
	}
}

// Create validates the supplied graph and persists the definition with
// its states and transitions as one atomic unit.
func (s *DefinitionService) Create(ctx context.Context, cmd *CreateDefinitionCommand) (*models.DefinitionDetail, error) {
	result, err := s.pipeline.Execute(ctx, cmd, func(ctx context.Context, _ commands.Command) (interface{}, error) {
		return s.create(ctx, cmd)
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.DefinitionDetail), nil
}

func (s *DefinitionService) create(ctx context.Context, cmd *CreateDefinitionCommand) (*models.DefinitionDetail, error) {
	existing, err := s.DefinitionRepo.FindByName(cmd.TenantID, cmd.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, newError(CodeDuplicateName, fmt.Sprintf("a definition named %q already exists for this tenant", cmd.Name))
	}

	if err := validateGraph(cmd.States, cmd.Transitions); err != nil {
		return nil, err
	}

	def := &domain.WorkflowDefinition{
		TenantID:    cmd.TenantID,
		Name:        cmd.Name,
		Description: cmd.Description,
		EntityType:  cmd.EntityType,
		IsActive:    true,
		Status:      domain.DefinitionStatusActive,
	}
	states := make([]domain.WorkflowState, len(cmd.States))
	for i, in := range cmd.States {
		states[i] = domain.WorkflowState{
			Name:      in.Name,
			IsInitial: in.IsInitial,
			IsFinal:   in.IsFinal,
			SortOrder: in.SortOrder,
		}
	}
	transitions := make([]domain.WorkflowTransition, len(cmd.Transitions))
	endpoints := make([]repository.TransitionEndpoints, len(cmd.Transitions))
	for i, in := range cmd.Transitions {
		transitions[i] = domain.WorkflowTransition{
			Name:            in.Name,
			RequiresComment: in.RequiresComment,
		}
		endpoints[i] = repository.TransitionEndpoints{FromState: in.FromState, ToState: in.ToState}
	}

	if err := s.DefinitionRepo.Save(def, states, transitions, endpoints); err != nil {
		return nil, err
	}
	s.cache.put(buildGraph(def.ID, states, transitions))
	slog.InfoContext(ctx, "Created workflow definition", "tenantId", def.TenantID, "definitionId", def.ID, "name", def.Name)

	return &models.DefinitionDetail{WorkflowDefinition: *def, States: states, Transitions: transitions}, nil
}

// validateGraph enforces the definition-time invariants: exactly one
// initial state, unique non-empty state names, and every transition
// endpoint referencing a supplied state.
func validateGraph(states []StateInput, transitions []TransitionInput) error {
	byName := make(map[string]bool, len(states))
	initialCount := 0
	for _, st := range states {
		if st.Name == "" {
			return newError(CodeInvalidGraph, "state name must not be empty")
		}
		if byName[st.Name] {
			return newError(CodeInvalidGraph, fmt.Sprintf("duplicate state name %q", st.Name))
		}
		byName[st.Name] = true
		if st.IsInitial {
			initialCount++
		}
	}
	if initialCount != 1 {
		return newError(CodeInvalidGraph, fmt.Sprintf("exactly one initial state is required, found %d", initialCount))
	}
	for _, tr := range transitions {
		if tr.Name == "" {
			return newError(CodeInvalidGraph, "transition name must not be empty")
		}
		if !byName[tr.FromState] {
			return newError(CodeInvalidGraph, fmt.Sprintf("transition %q references unknown from state %q", tr.Name, tr.FromState))
		}
		if !byName[tr.ToState] {
			return newError(CodeInvalidGraph, fmt.Sprintf("transition %q references unknown to state %q", tr.Name, tr.ToState))
		}
	}
	return nil
}

// Update writes the supplied fields only; the graph is not editable.
func (s *DefinitionService) Update(ctx context.Context, cmd *UpdateDefinitionCommand) (*domain.WorkflowDefinition, error) {
	result, err := s.pipeline.Execute(ctx, cmd, func(ctx context.Context, _ commands.Command) (interface{}, error) {
		return s.update(ctx, cmd)
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.WorkflowDefinition), nil
}

func (s *DefinitionService) update(ctx context.Context, cmd *UpdateDefinitionCommand) (*domain.WorkflowDefinition, error) {
	def, err := s.DefinitionRepo.FindByID(cmd.ID, cmd.TenantID)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, newError(CodeNotFound, "definition not found")
	}

	if cmd.NewName != nil && *cmd.NewName != def.Name {
		other, err := s.DefinitionRepo.FindByName(cmd.TenantID, *cmd.NewName)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != def.ID {
			return nil, newError(CodeDuplicateName, fmt.Sprintf("a definition named %q already exists for this tenant", *cmd.NewName))
		}
		def.Name = *cmd.NewName
	}
	if cmd.Description != nil {
		def.Description = *cmd.Description
	}
	if cmd.IsActive != nil {
		def.IsActive = *cmd.IsActive
		if def.IsActive {
			def.Status = domain.DefinitionStatusActive
		} else {
			def.Status = domain.DefinitionStatusInactive
		}
	}

	if err := s.DefinitionRepo.Update(def); err != nil {
		return nil, err
	}
	s.cache.invalidate(def.ID)
	return def, nil
}

// Delete hard-deletes a definition and its graph. Deletion is refused
// while active instances still reference the definition.
func (s *DefinitionService) Delete(ctx context.Context, cmd *DeleteDefinitionCommand) error {
	_, err := s.pipeline.Execute(ctx, cmd, func(ctx context.Context, _ commands.Command) (interface{}, error) {
		return nil, s.delete(ctx, cmd)
	})
	return err
}

func (s *DefinitionService) delete(ctx context.Context, cmd *DeleteDefinitionCommand) error {
	def, err := s.DefinitionRepo.FindByID(cmd.ID, cmd.TenantID)
	if err != nil {
		return err
	}
	if def == nil {
		return newError(CodeNotFound, "definition not found")
	}

	active, err := s.InstanceRepo.CountByDefinition(cmd.ID, cmd.TenantID, domain.InstanceStatusActive)
	if err != nil {
		return err
	}
	if active > 0 {
		return newError(CodeDefinitionInUse, fmt.Sprintf("definition has %d active instances and cannot be deleted", active))
	}

	if err := s.DefinitionRepo.Delete(cmd.ID, cmd.TenantID); err != nil {
		return err
	}
	s.cache.invalidate(cmd.ID)
	slog.InfoContext(ctx, "Deleted workflow definition", "tenantId", cmd.TenantID, "definitionId", cmd.ID)
	return nil
}

// Get returns the hydrated definition.
func (s *DefinitionService) Get(id int64, tenantID string) (*models.DefinitionDetail, error) {
	def, err := s.DefinitionRepo.FindByID(id, tenantID)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, newError(CodeNotFound, "definition not found")
	}
	states, err := s.DefinitionRepo.FindStates(id, tenantID)
	if err != nil {
		return nil, err
	}
	transitions, err := s.DefinitionRepo.FindTransitions(id, tenantID)
	if err != nil {
		return nil, err
	}
	return &models.DefinitionDetail{WorkflowDefinition: *def, States: *states, Transitions: *transitions}, nil
}

// List returns one page of a tenant's definitions.
func (s *DefinitionService) List(tenantID string, limit int, offset int) (*[]domain.WorkflowDefinition, error) {
	return s.DefinitionRepo.FindAllByTenant(tenantID, limit, offset)
}

// States returns the definition's states, failing NotFound when the
// definition does not exist for the tenant.
func (s *DefinitionService) States(id int64, tenantID string) (*[]domain.WorkflowState, error) {
	def, err := s.DefinitionRepo.FindByID(id, tenantID)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, newError(CodeNotFound, "definition not found")
	}
	return s.DefinitionRepo.FindStates(id, tenantID)
}

// Transitions returns the definition's transitions, failing NotFound when
// the definition does not exist for the tenant.
func (s *DefinitionService) Transitions(id int64, tenantID string) (*[]domain.WorkflowTransition, error) {
	def, err := s.DefinitionRepo.FindByID(id, tenantID)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, newError(CodeNotFound, "definition not found")
	}
	return s.DefinitionRepo.FindTransitions(id, tenantID)
}
