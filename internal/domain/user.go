package domain

import (
	"database/sql"
)

// User is a tenant-scoped API principal. ApiKeyHash holds the bcrypt hash
// of the issued key; the plain key is only shown once, at creation.
type User struct {
	ID         int64        `json:"id"`
	TenantID   string       `json:"tenant_id"`
	Name       string       `json:"name"`
	ApiKeyHash string       `json:"-"`
	Enabled    sql.NullBool `json:"enabled"`
	Created    sql.NullTime `json:"created_at"`
}
