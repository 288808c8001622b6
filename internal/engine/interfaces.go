package engine

import (
	"github.com/kasunvimarshana/AutoERP-sub011/internal/domain"
	"github.com/kasunvimarshana/AutoERP-sub011/internal/repository"
)

// DefinitionRepo defines the interface for definition persistence, matching repository.WorkflowDefinitionRepository.
type DefinitionRepo interface {
	FindByID(id int64, tenantID string) (*domain.WorkflowDefinition, error)
	FindByName(tenantID string, name string) (*domain.WorkflowDefinition, error)
	FindAllByTenant(tenantID string, limit int, offset int) (*[]domain.WorkflowDefinition, error)
	FindStates(definitionID int64, tenantID string) (*[]domain.WorkflowState, error)
	FindTransitions(definitionID int64, tenantID string) (*[]domain.WorkflowTransition, error)
	Save(def *domain.WorkflowDefinition, states []domain.WorkflowState, transitions []domain.WorkflowTransition, endpoints []repository.TransitionEndpoints) error
	Update(def *domain.WorkflowDefinition) error
	Delete(id int64, tenantID string) error
}

// InstanceRepo defines the interface for instance persistence, matching repository.WorkflowInstanceRepository.
type InstanceRepo interface {
	FindByID(id int64, tenantID string) (*domain.WorkflowInstance, error)
	FindAllByTenant(tenantID string, limit int, offset int) (*[]domain.WorkflowInstance, error)
	Save(inst *domain.WorkflowInstance, log *domain.WorkflowInstanceLog) error
	UpdateStateCAS(inst *domain.WorkflowInstance, expectedStateID int64, log *domain.WorkflowInstanceLog) (bool, error)
	Delete(id int64, tenantID string) error
	SaveLog(log *domain.WorkflowInstanceLog) (int64, error)
	FindLogs(instanceID int64, tenantID string) (*[]domain.WorkflowInstanceLog, error)
	CountLogs(instanceID int64, tenantID string) (int, error)
	CountByDefinition(definitionID int64, tenantID string, status string) (int, error)
}

// UserRepo defines the interface for API user persistence.
type UserRepo interface {
	Save(u *domain.User) (int64, error)
	FindEnabled() (*[]domain.User, error)
	CountAll() (int, error)
}
