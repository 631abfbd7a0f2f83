package models

import "time"

// User is the database representation of a user account.
type User struct {
	UserID           string     `db:"user_id"`
	Name             string     `db:"name"`
	Email            string     `db:"email"`
	PasswordHash     string     `json:"-" db:"password_hash"`
	RefreshTokenHash string     `json:"-" db:"refresh_token_hash"`
	DeletedAt        *time.Time `db:"deleted_at"`
	AuditFields
}

// Workspace is a shared container for financial data.
type Workspace struct {
	WorkspaceID string `db:"workspace_id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	IsActive    bool   `db:"is_active"`
	AuditFields
}

// UserWorkspace joins users to workspaces with a role.
type UserWorkspace struct {
	UserID      string    `db:"user_id"`
	WorkspaceID string    `db:"workspace_id"`
	Role        string    `db:"role"`
	JoinedAt    time.Time `db:"joined_at"`
}
