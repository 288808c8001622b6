package domain

import (
	"database/sql"
	"time"
)

// Instance lifecycle status values. Completed and cancelled are terminal.
const (
	InstanceStatusActive    = "active"
	InstanceStatusCompleted = "completed"
	InstanceStatusCancelled = "cancelled"
)

// WorkflowInstance is a live application of a definition to one concrete
// business entity. EntityID is opaque to the engine. Modified doubles as
// the optimistic-concurrency token together with CurrentStateID.
type WorkflowInstance struct {
	ID                   int64          `json:"id"`
	TenantID             string         `json:"tenant_id"`
	WorkflowDefinitionID int64          `json:"workflow_definition_id"`
	EntityType           string         `json:"entity_type"`
	EntityID             string         `json:"entity_id"`
	CurrentStateID       int64          `json:"current_state_id"`
	Status               string         `json:"status"`
	Started              time.Time      `json:"started_at"`
	Completed            sql.NullTime   `json:"completed_at"`
	StartedByUserID      sql.NullString `json:"started_by_user_id"`
	Created              time.Time      `json:"created_at"`
	Modified             time.Time      `json:"updated_at"`
}

// WorkflowInstanceLog is one append-only audit row per lifecycle event.
// FromStateID is null only for the start entry; TransitionID is null for
// start and cancel entries. Rows are never updated or deleted by the
// engine, and they outlive an administrative delete of the instance.
type WorkflowInstanceLog struct {
	ID                 int64          `json:"id"`
	WorkflowInstanceID int64          `json:"workflow_instance_id"`
	TenantID           string         `json:"tenant_id"`
	FromStateID        sql.NullInt64  `json:"from_state_id"`
	ToStateID          int64          `json:"to_state_id"`
	TransitionID       sql.NullInt64  `json:"transition_id"`
	Comment            sql.NullString `json:"comment"`
	ActorUserID        string         `json:"actor_user_id"`
	ActedAt            time.Time      `json:"acted_at"`
	Created            time.Time      `json:"created_at"`
}
