package dto

import "time"

// CreateWorkspaceRequest carries the payload for workspace creation.
type CreateWorkspaceRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// AddUserToWorkspaceRequest adds or updates a member.
type AddUserToWorkspaceRequest struct {
	UserID string `json:"userID" binding:"required"`
	Role   string `json:"role" binding:"required,oneof=ADMIN MEMBER READONLY REMOVED"`
}

// WorkspaceResponse is the public representation of a workspace.
type WorkspaceResponse struct {
	WorkspaceID string    `json:"workspaceID"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}
