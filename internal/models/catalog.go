package models

// Category is the database representation of an activity category.
type Category struct {
	CategoryID  string `db:"category_id"`
	WorkspaceID string `db:"workspace_id"`
	Name        string `db:"name"`
	AuditFields
}

// Subcategory belongs to a category.
type Subcategory struct {
	SubcategoryID string `db:"subcategory_id"`
	CategoryID    string `db:"category_id"`
	Name          string `db:"name"`
	AuditFields
}

// Project is the database representation of a project.
type Project struct {
	ProjectID   string `db:"project_id"`
	WorkspaceID string `db:"workspace_id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	IsArchived  bool   `db:"is_archived"`
	AuditFields
}

// Counterparty is a person or organization money moves to or from.
type Counterparty struct {
	CounterpartyID string `db:"counterparty_id"`
	WorkspaceID    string `db:"workspace_id"`
	Name           string `db:"name"`
	AuditFields
}

// Asset is a holding tracked in investment accounts.
type Asset struct {
	AssetID     string `db:"asset_id"`
	WorkspaceID string `db:"workspace_id"`
	Name        string `db:"name"`
	AuditFields
}
