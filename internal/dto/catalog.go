package dto

// SubcategoryPayload is a subcategory inside a category request or response.
type SubcategoryPayload struct {
	SubcategoryID string `json:"subcategoryID" binding:"required"`
	Name          string `json:"name" binding:"required,max=100"`
}

// CreateCategoryRequest carries the payload for category creation.
type CreateCategoryRequest struct {
	CategoryID    string               `json:"categoryID" binding:"required"`
	Name          string               `json:"name" binding:"required,max=100"`
	Subcategories []SubcategoryPayload `json:"subcategories" binding:"dive"`
}

// CategoryResponse is the public representation of a category.
type CategoryResponse struct {
	CategoryID    string               `json:"categoryID"`
	WorkspaceID   string               `json:"workspaceID"`
	Name          string               `json:"name"`
	Subcategories []SubcategoryPayload `json:"subcategories"`
}

// CreateProjectRequest carries the payload for project creation.
type CreateProjectRequest struct {
	ProjectID   string `json:"projectID" binding:"required"`
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// UpdateProjectRequest updates a project; nil fields stay unchanged.
type UpdateProjectRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	IsArchived  *bool   `json:"isArchived"`
}

// ProjectResponse is the public representation of a project.
type ProjectResponse struct {
	ProjectID   string `json:"projectID"`
	WorkspaceID string `json:"workspaceID"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsArchived  bool   `json:"isArchived"`
}

// CreateCounterpartyRequest carries the payload for counterparty creation.
type CreateCounterpartyRequest struct {
	CounterpartyID string `json:"counterpartyID" binding:"required"`
	Name           string `json:"name" binding:"required,max=100"`
}

// CounterpartyResponse is the public representation of a counterparty.
type CounterpartyResponse struct {
	CounterpartyID string `json:"counterpartyID"`
	WorkspaceID    string `json:"workspaceID"`
	Name           string `json:"name"`
}

// CreateAssetRequest carries the payload for asset creation.
type CreateAssetRequest struct {
	AssetID string `json:"assetID" binding:"required"`
	Name    string `json:"name" binding:"required,max=100"`
}

// AssetResponse is the public representation of an asset.
type AssetResponse struct {
	AssetID     string `json:"assetID"`
	WorkspaceID string `json:"workspaceID"`
	Name        string `json:"name"`
}
