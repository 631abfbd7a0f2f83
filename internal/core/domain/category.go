package domain

// Subcategory is a user-defined refinement within a Category.
type Subcategory struct {
	SubcategoryID string `json:"subcategoryID"` // Primary Key (UUID)
	CategoryID    string `json:"categoryID"`    // FK -> Category (Not Null)
	Name          string `json:"name"`
}

// Category groups activities for reporting. Deleting a category clears the
// category/subcategory references on activities pointing at it.
type Category struct {
	CategoryID    string        `json:"categoryID"`  // Primary Key (UUID)
	WorkspaceID   string        `json:"workspaceID"` // FK -> workspaces (Not Null)
	Name          string        `json:"name"`
	Subcategories []Subcategory `json:"subcategories"`
	AuditFields
}

// Project groups activities under a user-defined initiative.
type Project struct {
	ProjectID   string `json:"projectID"`   // Primary Key (UUID)
	WorkspaceID string `json:"workspaceID"` // FK -> workspaces (Not Null)
	Name        string `json:"name"`
	Description string `json:"description"` // Nullable
	IsArchived  bool   `json:"isArchived"`
	AuditFields
}
