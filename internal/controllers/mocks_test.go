package controllers

import (
	"time"

	"github.com/kasunvimarshana/AutoERP-sub011/internal/domain"
	"github.com/kasunvimarshana/AutoERP-sub011/internal/repository"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type mockDefinitionRepo struct {
	FindByIDFunc        func(id int64, tenantID string) (*domain.WorkflowDefinition, error)
	FindByNameFunc      func(tenantID string, name string) (*domain.WorkflowDefinition, error)
	FindAllByTenantFunc func(tenantID string, limit int, offset int) (*[]domain.WorkflowDefinition, error)
	FindStatesFunc      func(definitionID int64, tenantID string) (*[]domain.WorkflowState, error)
	FindTransitionsFunc func(definitionID int64, tenantID string) (*[]domain.WorkflowTransition, error)
	SaveFunc            func(def *domain.WorkflowDefinition, states []domain.WorkflowState, transitions []domain.WorkflowTransition, endpoints []repository.TransitionEndpoints) error
	UpdateFunc          func(def *domain.WorkflowDefinition) error
	DeleteFunc          func(id int64, tenantID string) error
}

func (m *mockDefinitionRepo) FindByID(id int64, tenantID string) (*domain.WorkflowDefinition, error) {
	if m.FindByIDFunc == nil {
		return nil, nil
	}
	return m.FindByIDFunc(id, tenantID)
}

func (m *mockDefinitionRepo) FindByName(tenantID string, name string) (*domain.WorkflowDefinition, error) {
	if m.FindByNameFunc == nil {
		return nil, nil
	}
	return m.FindByNameFunc(tenantID, name)
}

func (m *mockDefinitionRepo) FindAllByTenant(tenantID string, limit int, offset int) (*[]domain.WorkflowDefinition, error) {
	if m.FindAllByTenantFunc == nil {
		return &[]domain.WorkflowDefinition{}, nil
	}
	return m.FindAllByTenantFunc(tenantID, limit, offset)
}

func (m *mockDefinitionRepo) FindStates(definitionID int64, tenantID string) (*[]domain.WorkflowState, error) {
	if m.FindStatesFunc == nil {
		return &[]domain.WorkflowState{}, nil
	}
	return m.FindStatesFunc(definitionID, tenantID)
}

func (m *mockDefinitionRepo) FindTransitions(definitionID int64, tenantID string) (*[]domain.WorkflowTransition, error) {
	if m.FindTransitionsFunc == nil {
		return &[]domain.WorkflowTransition{}, nil
	}
	return m.FindTransitionsFunc(definitionID, tenantID)
}

func (m *mockDefinitionRepo) Save(def *domain.WorkflowDefinition, states []domain.WorkflowState, transitions []domain.WorkflowTransition, endpoints []repository.TransitionEndpoints) error {
	if m.SaveFunc == nil {
		return nil
	}
	return m.SaveFunc(def, states, transitions, endpoints)
}

func (m *mockDefinitionRepo) Update(def *domain.WorkflowDefinition) error {
	if m.UpdateFunc == nil {
		return nil
	}
	return m.UpdateFunc(def)
}

func (m *mockDefinitionRepo) Delete(id int64, tenantID string) error {
	if m.DeleteFunc == nil {
		return nil
	}
	return m.DeleteFunc(id, tenantID)
}

type mockInstanceRepo struct {
	FindByIDFunc          func(id int64, tenantID string) (*domain.WorkflowInstance, error)
	FindAllByTenantFunc   func(tenantID string, limit int, offset int) (*[]domain.WorkflowInstance, error)
	SaveFunc              func(inst *domain.WorkflowInstance, log *domain.WorkflowInstanceLog) error
	UpdateStateCASFunc    func(inst *domain.WorkflowInstance, expectedStateID int64, log *domain.WorkflowInstanceLog) (bool, error)
	DeleteFunc            func(id int64, tenantID string) error
	SaveLogFunc           func(log *domain.WorkflowInstanceLog) (int64, error)
	FindLogsFunc          func(instanceID int64, tenantID string) (*[]domain.WorkflowInstanceLog, error)
	CountLogsFunc         func(instanceID int64, tenantID string) (int, error)
	CountByDefinitionFunc func(definitionID int64, tenantID string, status string) (int, error)
}

func (m *mockInstanceRepo) FindByID(id int64, tenantID string) (*domain.WorkflowInstance, error) {
	if m.FindByIDFunc == nil {
		return nil, nil
	}
	return m.FindByIDFunc(id, tenantID)
}

func (m *mockInstanceRepo) FindAllByTenant(tenantID string, limit int, offset int) (*[]domain.WorkflowInstance, error) {
	if m.FindAllByTenantFunc == nil {
		return &[]domain.WorkflowInstance{}, nil
	}
	return m.FindAllByTenantFunc(tenantID, limit, offset)
}

func (m *mockInstanceRepo) Save(inst *domain.WorkflowInstance, log *domain.WorkflowInstanceLog) error {
	if m.SaveFunc == nil {
		return nil
	}
	return m.SaveFunc(inst, log)
}

func (m *mockInstanceRepo) UpdateStateCAS(inst *domain.WorkflowInstance, expectedStateID int64, log *domain.WorkflowInstanceLog) (bool, error) {
	if m.UpdateStateCASFunc == nil {
		return true, nil
	}
	return m.UpdateStateCASFunc(inst, expectedStateID, log)
}

func (m *mockInstanceRepo) Delete(id int64, tenantID string) error {
	if m.DeleteFunc == nil {
		return nil
	}
	return m.DeleteFunc(id, tenantID)
}

func (m *mockInstanceRepo) SaveLog(log *domain.WorkflowInstanceLog) (int64, error) {
	if m.SaveLogFunc == nil {
		return 1, nil
	}
	return m.SaveLogFunc(log)
}

func (m *mockInstanceRepo) FindLogs(instanceID int64, tenantID string) (*[]domain.WorkflowInstanceLog, error) {
	if m.FindLogsFunc == nil {
		return &[]domain.WorkflowInstanceLog{}, nil
	}
	return m.FindLogsFunc(instanceID, tenantID)
}

func (m *mockInstanceRepo) CountLogs(instanceID int64, tenantID string) (int, error) {
	if m.CountLogsFunc == nil {
		return 0, nil
	}
	return m.CountLogsFunc(instanceID, tenantID)
}

func (m *mockInstanceRepo) CountByDefinition(definitionID int64, tenantID string, status string) (int, error) {
	if m.CountByDefinitionFunc == nil {
		return 0, nil
	}
	return m.CountByDefinitionFunc(definitionID, tenantID, status)
}

type mockUserRepo struct {
	SaveFunc        func(u *domain.User) (int64, error)
	FindEnabledFunc func() (*[]domain.User, error)
	CountAllFunc    func() (int, error)
}

func (m *mockUserRepo) Save(u *domain.User) (int64, error) {
	if m.SaveFunc == nil {
		return 1, nil
	}
	return m.SaveFunc(u)
}

func (m *mockUserRepo) FindEnabled() (*[]domain.User, error) {
	if m.FindEnabledFunc == nil {
		return &[]domain.User{}, nil
	}
	return m.FindEnabledFunc()
}

func (m *mockUserRepo) CountAll() (int, error) {
	if m.CountAllFunc == nil {
		return 0, nil
	}
	return m.CountAllFunc()
}
