package domain

// Counterparty is an external party on either side of a transaction.
type Counterparty struct {
	CounterpartyID string `json:"counterpartyID"` // Primary Key (UUID)
	WorkspaceID    string `json:"workspaceID"`    // FK -> workspaces (Not Null)
	Name           string `json:"name"`
	AuditFields
}

// Asset is a tracked holding that transactions can reference on either leg.
type Asset struct {
	AssetID     string `json:"assetID"`     // Primary Key (UUID)
	WorkspaceID string `json:"workspaceID"` // FK -> workspaces (Not Null)
	Name        string `json:"name"`
	AuditFields
}
