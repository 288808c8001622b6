package repository

import (
	"database/sql"

	"github.com/kasunvimarshana/AutoERP-sub011/internal/core"
	"github.com/kasunvimarshana/AutoERP-sub011/internal/domain"
)

// UserRepository provides persistence methods for the users table of API
// principals. Keys are stored as bcrypt hashes only.
type UserRepository struct {
	db    *sql.DB
	clock core.Clock
}

func NewUserRepository(db *sql.DB, clock core.Clock) *UserRepository {
	return &UserRepository{db: db, clock: clock}
}

// Save inserts a new user and returns its generated id.
func (r *UserRepository) Save(u *domain.User) (int64, error) {
	if !u.Created.Valid {
		u.Created = sql.NullTime{Time: r.clock.Now().UTC(), Valid: true}
	}
	base := `
        INSERT INTO users (tenant_id, name, api_key_hash, enabled, created)
        VALUES (` + placeholder(1) + `,` + placeholder(2) + `,` + placeholder(3) + `,` + placeholder(4) + `,` + placeholder(5) + `)
    `
	var id int64
	var err error
	if supportsReturning() {
		err = r.db.QueryRow(
			base+" RETURNING id",
			u.TenantID,
			u.Name,
			u.ApiKeyHash,
			u.Enabled,
			formatDateInDatabaseNull(u.Created),
		).Scan(&id)
	} else {
		res, e := r.db.Exec(base,
			u.TenantID,
			u.Name,
			u.ApiKeyHash,
			u.Enabled,
			formatDateInDatabaseNull(u.Created),
		)
		if e != nil {
			err = e
		} else {
			id, err = res.LastInsertId()
		}
	}
	if err != nil {
		return 0, err
	}
	u.ID = id
	return id, nil
}

// FindEnabled returns all enabled users. The auth layer compares the
// presented key against each hash; the table is expected to stay small.
func (r *UserRepository) FindEnabled() (*[]domain.User, error) {
	query := `
        SELECT id, tenant_id, name, api_key_hash, enabled, created
        FROM users
        WHERE enabled = ` + placeholder(1) + `
        ORDER BY id ASC
    `
	rows, err := r.db.Query(query, true)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.TenantID, &u.Name, &u.ApiKeyHash, &u.Enabled, &u.Created); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &users, nil
}

// CountAll returns the total number of users, used to decide whether the
// bootstrap root key needs seeding.
func (r *UserRepository) CountAll() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}
