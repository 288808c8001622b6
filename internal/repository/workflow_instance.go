package repository

import (
	"database/sql"
	"log/slog"

	"github.com/kasunvimarshana/AutoERP-sub011/internal/core"
	"github.com/kasunvimarshana/AutoERP-sub011/internal/domain"
)

// WorkflowInstanceRepository persists workflow instances and their
// append-only logs. Instance mutation and the matching log append always
// commit together or not at all.
type WorkflowInstanceRepository struct {
	db    *sql.DB
	clock core.Clock
}

const INSTANCE_COLUMNS = ` id, tenant_id, workflow_definition_id, entity_type, entity_id,
		       current_state_id, status, started, completed, started_by_user_id,
		       created, modified `

const LOG_COLUMNS = ` id, workflow_instance_id, tenant_id, from_state_id, to_state_id,
		       transition_id, comment, actor_user_id, acted_at, created `

func NewWorkflowInstanceRepository(db *sql.DB, clock core.Clock) *WorkflowInstanceRepository {
	return &WorkflowInstanceRepository{db: db, clock: clock}
}

func scanInstanceRow(scan func(dest ...interface{}) error, inst *domain.WorkflowInstance) error {
	return scan(
		&inst.ID,
		&inst.TenantID,
		&inst.WorkflowDefinitionID,
		&inst.EntityType,
		&inst.EntityID,
		&inst.CurrentStateID,
		&inst.Status,
		&inst.Started,
		&inst.Completed,
		&inst.StartedByUserID,
		&inst.Created,
		&inst.Modified,
	)
}

// FindByID fetches an instance scoped to a tenant. Returns (nil, nil) if not found.
func (r *WorkflowInstanceRepository) FindByID(id int64, tenantID string) (*domain.WorkflowInstance, error) {
	query := `
		SELECT ` + INSTANCE_COLUMNS + `
		FROM workflow_instances
		WHERE id = ` + placeholder(1) + ` AND tenant_id = ` + placeholder(2) + `
	`
	var inst domain.WorkflowInstance
	err := scanInstanceRow(r.db.QueryRow(query, id, tenantID).Scan, &inst)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

// FindAllByTenant returns a page of instances ordered by id descending.
func (r *WorkflowInstanceRepository) FindAllByTenant(tenantID string, limit int, offset int) (*[]domain.WorkflowInstance, error) {
	query := `
		SELECT ` + INSTANCE_COLUMNS + `
		FROM workflow_instances
		WHERE tenant_id = ` + placeholder(1) + `
		ORDER BY id DESC
		LIMIT ` + placeholder(2) + ` OFFSET ` + placeholder(3) + `
	`
	rows, err := r.db.Query(query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	instances := make([]domain.WorkflowInstance, 0)
	for rows.Next() {
		var inst domain.WorkflowInstance
		if err := scanInstanceRow(rows.Scan, &inst); err != nil {
			return nil, err
		}
		instances = append(instances, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &instances, nil
}

// Save inserts a new instance together with its start log entry in one
// transaction and fills in the generated ids.
func (r *WorkflowInstanceRepository) Save(inst *domain.WorkflowInstance, log *domain.WorkflowInstanceLog) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := r.clock.Now().UTC()
	inst.Created = now
	inst.Modified = now

	base := `
		INSERT INTO workflow_instances (
			tenant_id, workflow_definition_id, entity_type, entity_id,
			current_state_id, status, started, completed, started_by_user_id,
			created, modified
		) VALUES (` + placeholder(1) + `, ` + placeholder(2) + `, ` + placeholder(3) + `, ` + placeholder(4) + `, ` + placeholder(5) + `, ` + placeholder(6) + `, ` + placeholder(7) + `, ` + placeholder(8) + `, ` + placeholder(9) + `, ` + placeholder(10) + `, ` + placeholder(11) + `)`
	vals := []interface{}{
		inst.TenantID, inst.WorkflowDefinitionID, inst.EntityType, inst.EntityID,
		inst.CurrentStateID, inst.Status, formatDateInDatabase(inst.Started), formatDateInDatabaseNull(inst.Completed), inst.StartedByUserID,
		formatDateInDatabase(inst.Created), formatDateInDatabase(inst.Modified),
	}
	if inst.ID, err = insertReturningID(tx, base, vals); err != nil {
		return err
	}

	log.WorkflowInstanceID = inst.ID
	if err := insertLog(tx, log); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateStateCAS applies one state change with an optimistic compare on
// the observed current state. The update only matches while the instance
// is still active and still in expectedStateID; losing a concurrent race
// yields zero affected rows and no log append. Returns whether the swap
// was applied.
func (r *WorkflowInstanceRepository) UpdateStateCAS(inst *domain.WorkflowInstance, expectedStateID int64, log *domain.WorkflowInstanceLog) (bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	inst.Modified = r.clock.Now().UTC()
	query := `
		UPDATE workflow_instances
		SET current_state_id = ` + placeholder(1) + `, status = ` + placeholder(2) + `, completed = ` + placeholder(3) + `, modified = ` + placeholder(4) + `
		WHERE id = ` + placeholder(5) + ` AND tenant_id = ` + placeholder(6) + `
		  AND status = '` + domain.InstanceStatusActive + `'
		  AND current_state_id = ` + placeholder(7) + `
	`
	result, err := tx.Exec(query,
		inst.CurrentStateID, inst.Status, formatDateInDatabaseNull(inst.Completed), formatDateInDatabase(inst.Modified),
		inst.ID, inst.TenantID, expectedStateID,
	)
	if err != nil {
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if rowsAffected != 1 {
		return false, nil
	}

	log.WorkflowInstanceID = inst.ID
	if err := insertLog(tx, log); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// Delete hard-deletes the instance row. Logs are retained on purpose so
// the audit history outlives administrative deletes.
func (r *WorkflowInstanceRepository) Delete(id int64, tenantID string) error {
	query := `DELETE FROM workflow_instances WHERE id = ` + placeholder(1) + ` AND tenant_id = ` + placeholder(2)
	_, err := r.db.Exec(query, id, tenantID)
	return err
}

// SaveLog appends a single log row outside of a state change transaction.
func (r *WorkflowInstanceRepository) SaveLog(log *domain.WorkflowInstanceLog) (int64, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()
	if err := insertLog(tx, log); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return log.ID, nil
}

func insertLog(tx *sql.Tx, log *domain.WorkflowInstanceLog) error {
	base := `
		INSERT INTO workflow_instance_logs (
			workflow_instance_id, tenant_id, from_state_id, to_state_id,
			transition_id, comment, actor_user_id, acted_at, created
		) VALUES (` + placeholder(1) + `, ` + placeholder(2) + `, ` + placeholder(3) + `, ` + placeholder(4) + `, ` + placeholder(5) + `, ` + placeholder(6) + `, ` + placeholder(7) + `, ` + placeholder(8) + `, ` + placeholder(9) + `)`
	vals := []interface{}{
		log.WorkflowInstanceID, log.TenantID, log.FromStateID, log.ToStateID,
		log.TransitionID, log.Comment, log.ActorUserID, formatDateInDatabase(log.ActedAt), formatDateInDatabase(log.Created),
	}
	var err error
	if log.ID, err = insertReturningID(tx, base, vals); err != nil {
		slog.Error("Failed to append instance log", "error", err, "instanceId", log.WorkflowInstanceID)
		return err
	}
	return nil
}

// FindLogs returns the full log trail of an instance, oldest first.
func (r *WorkflowInstanceRepository) FindLogs(instanceID int64, tenantID string) (*[]domain.WorkflowInstanceLog, error) {
	query := `
		SELECT ` + LOG_COLUMNS + `
		FROM workflow_instance_logs
		WHERE workflow_instance_id = ` + placeholder(1) + ` AND tenant_id = ` + placeholder(2) + `
		ORDER BY id ASC
	`
	rows, err := r.db.Query(query, instanceID, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]domain.WorkflowInstanceLog, 0)
	for rows.Next() {
		var l domain.WorkflowInstanceLog
		if err := rows.Scan(
			&l.ID,
			&l.WorkflowInstanceID,
			&l.TenantID,
			&l.FromStateID,
			&l.ToStateID,
			&l.TransitionID,
			&l.Comment,
			&l.ActorUserID,
			&l.ActedAt,
			&l.Created,
		); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &logs, nil
}

// CountLogs returns the number of log rows written for an instance.
func (r *WorkflowInstanceRepository) CountLogs(instanceID int64, tenantID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM workflow_instance_logs
		WHERE workflow_instance_id = ` + placeholder(1) + ` AND tenant_id = ` + placeholder(2) + `
	`
	var count int
	err := r.db.QueryRow(query, instanceID, tenantID).Scan(&count)
	return count, err
}

// CountByDefinition counts instances of a definition with the given
// status. Used as the delete guard on definitions.
func (r *WorkflowInstanceRepository) CountByDefinition(definitionID int64, tenantID string, status string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM workflow_instances
		WHERE workflow_definition_id = ` + placeholder(1) + ` AND tenant_id = ` + placeholder(2) + ` AND status = ` + placeholder(3) + `
	`
	var count int
	err := r.db.QueryRow(query, definitionID, tenantID, status).Scan(&count)
	return count, err
}
