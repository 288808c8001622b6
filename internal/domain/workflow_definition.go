package domain

import "time"

// Definition lifecycle status values.
const (
	DefinitionStatusActive   = "active"
	DefinitionStatusInactive = "inactive"
)

// WorkflowDefinition is the authored graph governing one class of business
// entities. The graph (states + transitions) is supplied once at creation
// and is immutable afterwards; only name, description and the active flag
// may change.
type WorkflowDefinition struct {
	ID          int64     `json:"id"`
	TenantID    string    `json:"tenant_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	EntityType  string    `json:"entity_type"`
	IsActive    bool      `json:"is_active"`
	Status      string    `json:"status"`
	Created     time.Time `json:"created_at"`
	Updated     time.Time `json:"updated_at"`
}

// WorkflowState is a named node in a definition's graph. Exactly one state
// per definition has IsInitial set; zero or more have IsFinal set.
type WorkflowState struct {
	ID                   int64  `json:"id"`
	WorkflowDefinitionID int64  `json:"workflow_definition_id"`
	Name                 string `json:"name"`
	IsInitial            bool   `json:"is_initial"`
	IsFinal              bool   `json:"is_final"`
	SortOrder            int    `json:"sort_order"`
}

// WorkflowTransition is a named directed edge between two states of the
// same definition.
type WorkflowTransition struct {
	ID                   int64  `json:"id"`
	WorkflowDefinitionID int64  `json:"workflow_definition_id"`
	Name                 string `json:"name"`
	FromStateID          int64  `json:"from_state_id"`
	ToStateID            int64  `json:"to_state_id"`
	RequiresComment      bool   `json:"requires_comment"`
}
