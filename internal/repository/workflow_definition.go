package repository

import (
	"database/sql"
	"log/slog"

	"github.com/kasunvimarshana/AutoERP-sub011/internal/core"
	"github.com/kasunvimarshana/AutoERP-sub011/internal/domain"
)

// WorkflowDefinitionRepository persists workflow definitions and their
// state/transition graphs. A definition and its graph live and die
// together; every write that touches the graph runs in one transaction.
type WorkflowDefinitionRepository struct {
	db    *sql.DB
	clock core.Clock
}

const DEFINITION_COLUMNS = ` id, tenant_id, name, description, entity_type, is_active, status, created, updated `

func NewWorkflowDefinitionRepository(db *sql.DB, clock core.Clock) *WorkflowDefinitionRepository {
	return &WorkflowDefinitionRepository{db: db, clock: clock}
}

func scanDefinition(row *sql.Row) (*domain.WorkflowDefinition, error) {
	var def domain.WorkflowDefinition
	err := row.Scan(
		&def.ID,
		&def.TenantID,
		&def.Name,
		&def.Description,
		&def.EntityType,
		&def.IsActive,
		&def.Status,
		&def.Created,
		&def.Updated,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &def, nil
}

// FindByID fetches a definition scoped to a tenant. Returns (nil, nil) if not found.
func (r *WorkflowDefinitionRepository) FindByID(id int64, tenantID string) (*domain.WorkflowDefinition, error) {
	query := `
		SELECT ` + DEFINITION_COLUMNS + `
		FROM workflow_definitions
		WHERE id = ` + placeholder(1) + ` AND tenant_id = ` + placeholder(2) + `
	`
	return scanDefinition(r.db.QueryRow(query, id, tenantID))
}

// FindByName fetches a definition by its tenant-unique name. Returns (nil, nil) if not found.
func (r *WorkflowDefinitionRepository) FindByName(tenantID string, name string) (*domain.WorkflowDefinition, error) {
	query := `
		SELECT ` + DEFINITION_COLUMNS + `
		FROM workflow_definitions
		WHERE tenant_id = ` + placeholder(1) + ` AND name = ` + placeholder(2) + `
	`
	return scanDefinition(r.db.QueryRow(query, tenantID, name))
}

// FindAllByTenant returns a page of definitions ordered by id ascending.
func (r *WorkflowDefinitionRepository) FindAllByTenant(tenantID string, limit int, offset int) (*[]domain.WorkflowDefinition, error) {
	query := `
		SELECT ` + DEFINITION_COLUMNS + `
		FROM workflow_definitions
		WHERE tenant_id = ` + placeholder(1) + `
		ORDER BY id ASC
		LIMIT ` + placeholder(2) + ` OFFSET ` + placeholder(3) + `
	`
	rows, err := r.db.Query(query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	defs := make([]domain.WorkflowDefinition, 0)
	for rows.Next() {
		var d domain.WorkflowDefinition
		if err := rows.Scan(&d.ID, &d.TenantID, &d.Name, &d.Description, &d.EntityType, &d.IsActive, &d.Status, &d.Created, &d.Updated); err != nil {
			return nil, err
		}
		defs = append(defs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &defs, nil
}

// FindStates returns the definition's states ordered by sort_order.
func (r *WorkflowDefinitionRepository) FindStates(definitionID int64, tenantID string) (*[]domain.WorkflowState, error) {
	query := `
		SELECT s.id, s.workflow_definition_id, s.name, s.is_initial, s.is_final, s.sort_order
		FROM workflow_states s
		JOIN workflow_definitions d ON d.id = s.workflow_definition_id
		WHERE s.workflow_definition_id = ` + placeholder(1) + ` AND d.tenant_id = ` + placeholder(2) + `
		ORDER BY s.sort_order ASC, s.id ASC
	`
	rows, err := r.db.Query(query, definitionID, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	states := make([]domain.WorkflowState, 0)
	for rows.Next() {
		var s domain.WorkflowState
		if err := rows.Scan(&s.ID, &s.WorkflowDefinitionID, &s.Name, &s.IsInitial, &s.IsFinal, &s.SortOrder); err != nil {
			return nil, err
		}
		states = append(states, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &states, nil
}

// FindTransitions returns the definition's transitions ordered by id.
func (r *WorkflowDefinitionRepository) FindTransitions(definitionID int64, tenantID string) (*[]domain.WorkflowTransition, error) {
	query := `
		SELECT t.id, t.workflow_definition_id, t.name, t.from_state_id, t.to_state_id, t.requires_comment
		FROM workflow_transitions t
		JOIN workflow_definitions d ON d.id = t.workflow_definition_id
		WHERE t.workflow_definition_id = ` + placeholder(1) + ` AND d.tenant_id = ` + placeholder(2) + `
		ORDER BY t.id ASC
	`
	rows, err := r.db.Query(query, definitionID, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transitions := make([]domain.WorkflowTransition, 0)
	for rows.Next() {
		var t domain.WorkflowTransition
		if err := rows.Scan(&t.ID, &t.WorkflowDefinitionID, &t.Name, &t.FromStateID, &t.ToStateID, &t.RequiresComment); err != nil {
			return nil, err
		}
		transitions = append(transitions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &transitions, nil
}

// Save inserts a definition together with its full graph as one atomic
// unit. Transitions reference states by name; the generated state ids are
// wired in here after the state inserts. The supplied slices get their
// generated ids filled in on success.
func (r *WorkflowDefinitionRepository) Save(def *domain.WorkflowDefinition, states []domain.WorkflowState, transitions []domain.WorkflowTransition, endpoints []TransitionEndpoints) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := r.clock.Now().UTC()
	def.Created = now
	def.Updated = now

	defBase := `
		INSERT INTO workflow_definitions (tenant_id, name, description, entity_type, is_active, status, created, updated)
		VALUES (` + placeholder(1) + `, ` + placeholder(2) + `, ` + placeholder(3) + `, ` + placeholder(4) + `, ` + placeholder(5) + `, ` + placeholder(6) + `, ` + placeholder(7) + `, ` + placeholder(8) + `)`
	defVals := []interface{}{def.TenantID, def.Name, def.Description, def.EntityType, def.IsActive, def.Status, formatDateInDatabase(def.Created), formatDateInDatabase(def.Updated)}
	if def.ID, err = insertReturningID(tx, defBase, defVals); err != nil {
		return err
	}

	stateIDsByName := make(map[string]int64, len(states))
	stateBase := `
		INSERT INTO workflow_states (workflow_definition_id, name, is_initial, is_final, sort_order)
		VALUES (` + placeholder(1) + `, ` + placeholder(2) + `, ` + placeholder(3) + `, ` + placeholder(4) + `, ` + placeholder(5) + `)`
	for i := range states {
		states[i].WorkflowDefinitionID = def.ID
		vals := []interface{}{def.ID, states[i].Name, states[i].IsInitial, states[i].IsFinal, states[i].SortOrder}
		if states[i].ID, err = insertReturningID(tx, stateBase, vals); err != nil {
			return err
		}
		stateIDsByName[states[i].Name] = states[i].ID
	}

	transitionBase := `
		INSERT INTO workflow_transitions (workflow_definition_id, name, from_state_id, to_state_id, requires_comment)
		VALUES (` + placeholder(1) + `, ` + placeholder(2) + `, ` + placeholder(3) + `, ` + placeholder(4) + `, ` + placeholder(5) + `)`
	for i := range transitions {
		transitions[i].WorkflowDefinitionID = def.ID
		transitions[i].FromStateID = stateIDsByName[endpoints[i].FromState]
		transitions[i].ToStateID = stateIDsByName[endpoints[i].ToState]
		vals := []interface{}{def.ID, transitions[i].Name, transitions[i].FromStateID, transitions[i].ToStateID, transitions[i].RequiresComment}
		if transitions[i].ID, err = insertReturningID(tx, transitionBase, vals); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// TransitionEndpoints names a transition's endpoints before the state rows
// exist; Save resolves them to generated ids.
type TransitionEndpoints struct {
	FromState string
	ToState   string
}

// Update writes name, description and the active flag/status of an
// existing definition. The graph is immutable and is not touched.
func (r *WorkflowDefinitionRepository) Update(def *domain.WorkflowDefinition) error {
	def.Updated = r.clock.Now().UTC()
	query := `
		UPDATE workflow_definitions
		SET name = ` + placeholder(1) + `, description = ` + placeholder(2) + `, is_active = ` + placeholder(3) + `,
		    status = ` + placeholder(4) + `, updated = ` + placeholder(5) + `
		WHERE id = ` + placeholder(6) + ` AND tenant_id = ` + placeholder(7) + `
	`
	_, err := r.db.Exec(query, def.Name, def.Description, def.IsActive, def.Status, formatDateInDatabase(def.Updated), def.ID, def.TenantID)
	return err
}

// Delete hard-deletes a definition and its graph in one transaction.
func (r *WorkflowDefinitionRepository) Delete(id int64, tenantID string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM workflow_transitions WHERE workflow_definition_id = `+placeholder(1), id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM workflow_states WHERE workflow_definition_id = `+placeholder(1), id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM workflow_definitions WHERE id = `+placeholder(1)+` AND tenant_id = `+placeholder(2), id, tenantID); err != nil {
		return err
	}
	return tx.Commit()
}

// insertReturningID runs an insert and yields the generated id, via
// RETURNING on Postgres and LastInsertId elsewhere.
func insertReturningID(tx *sql.Tx, base string, vals []interface{}) (int64, error) {
	if supportsReturning() {
		var id int64
		err := tx.QueryRow(base+" RETURNING id", vals...).Scan(&id)
		return id, err
	}
	res, err := tx.Exec(base, vals...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		slog.Error("Failed to read generated id", "error", err)
		return 0, err
	}
	return id, nil
}
