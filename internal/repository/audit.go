package repository

import (
	"database/sql"
	"log/slog"

	"github.com/kasunvimarshana/AutoERP-sub011/internal/core"
	"github.com/kasunvimarshana/AutoERP-sub011/internal/domain"
)

// AuditRepository persists the cross-cutting command audit trail. Entries
// are append-only and keyed by a caller-supplied uuid.
type AuditRepository struct {
	db    *sql.DB
	clock core.Clock
}

func NewAuditRepository(db *sql.DB, clock core.Clock) *AuditRepository {
	return &AuditRepository{db: db, clock: clock}
}

// Record appends one audit entry. Failures are logged and returned; the
// caller decides whether a failed audit write aborts the command.
func (r *AuditRepository) Record(entry *domain.AuditEntry) error {
	if entry.DateTime.IsZero() {
		entry.DateTime = r.clock.Now().UTC()
	}
	query := `
		INSERT INTO audit_trail (id, command_name, tenant_id, actor_user_id, payload, outcome, detail, date_time)
		VALUES (` + placeholder(1) + `, ` + placeholder(2) + `, ` + placeholder(3) + `, ` + placeholder(4) + `, ` + placeholder(5) + `, ` + placeholder(6) + `, ` + placeholder(7) + `, ` + placeholder(8) + `)`
	_, err := r.db.Exec(query,
		entry.ID,
		entry.CommandName,
		entry.TenantID,
		entry.ActorUserID,
		entry.Payload,
		entry.Outcome,
		entry.Detail,
		formatDateInDatabase(entry.DateTime),
	)
	if err != nil {
		slog.Error("Failed to record audit entry", "error", err, "command", entry.CommandName)
	}
	return err
}

// FindByTenant returns recent audit entries for a tenant, newest first.
func (r *AuditRepository) FindByTenant(tenantID string, limit int) (*[]domain.AuditEntry, error) {
	query := `
		SELECT id, command_name, tenant_id, actor_user_id, payload, outcome, detail, date_time
		FROM audit_trail
		WHERE tenant_id = ` + placeholder(1) + `
		ORDER BY date_time DESC
		LIMIT ` + placeholder(2) + `
	`
	rows, err := r.db.Query(query, tenantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.AuditEntry, 0)
	for rows.Next() {
		var e domain.AuditEntry
		if err := rows.Scan(&e.ID, &e.CommandName, &e.TenantID, &e.ActorUserID, &e.Payload, &e.Outcome, &e.Detail, &e.DateTime); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &entries, nil
}
