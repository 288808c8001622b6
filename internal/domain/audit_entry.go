package domain

import "time"

// Audit outcome values for the command audit trail.
const (
	AuditOutcomeExecuted = "executed"
	AuditOutcomeFailed   = "failed"
)

// AuditEntry records one executed command on the cross-cutting audit
// trail. This is process-wide infrastructure, distinct from the
// per-instance WorkflowInstanceLog.
type AuditEntry struct {
	ID          string    `json:"id"`
	CommandName string    `json:"command_name"`
	TenantID    string    `json:"tenant_id"`
	ActorUserID string    `json:"actor_user_id"`
	Payload     string    `json:"payload"`
	Outcome     string    `json:"outcome"`
	Detail      string    `json:"detail"`
	DateTime    time.Time `json:"date_time"`
}
