package sync

import (
	"time"

	"github.com/tallyspace/tallyspace/internal/core/domain"
)

// Builders for the wire mutations. Each pairs the server operation with its
// optimistic events and the inverse events that undo them on rejection.
// Update/delete builders take the previous record so the rollback can restore
// it field for field.

const createActivityDocument = `mutation createActivity($input: CreateActivityInput!) {
  createActivity(input: $input) { activityID number }
}`

const updateActivityDocument = `mutation updateActivity($input: UpdateActivityInput!) {
  updateActivity(input: $input) { activityID }
}`

const deleteActivityDocument = `mutation deleteActivity($id: ID!) {
  deleteActivity(id: $id)
}`

const addTransactionDocument = `mutation addTransaction($input: AddTransactionInput!) {
  addTransaction(input: $input) { transactionID }
}`

const updateTransactionDocument = `mutation updateTransaction($input: UpdateTransactionInput!) {
  updateTransaction(input: $input) { transactionID }
}`

const deleteTransactionDocument = `mutation deleteTransaction($id: ID!) {
  deleteTransaction(id: $id)
}`

const createAccountDocument = `mutation createAccount($input: CreateAccountInput!) {
  createAccount(input: $input) { accountID }
}`

const updateAccountDocument = `mutation updateAccount($input: UpdateAccountInput!) {
  updateAccount(input: $input) { accountID }
}`

const deleteAccountDocument = `mutation deleteAccount($id: ID!) {
  deleteAccount(id: $id)
}`

const createMovementDocument = `mutation createMovement($input: CreateMovementInput!) {
  createMovement(input: $input) { movementID }
}`

const updateMovementDocument = `mutation updateMovement($input: UpdateMovementInput!) {
  updateMovement(input: $input) { movementID }
}`

const deleteMovementDocument = `mutation deleteMovement($id: ID!) {
  deleteMovement(id: $id)
}`

const createMovementLinkDocument = `mutation createMovementActivity($input: CreateMovementActivityInput!) {
  createMovementActivity(input: $input) { id }
}`

const updateMovementLinkDocument = `mutation updateMovementActivity($input: UpdateMovementActivityInput!) {
  updateMovementActivity(input: $input) { id }
}`

const deleteMovementLinkDocument = `mutation deleteMovementActivity($id: ID!) {
  deleteMovementActivity(id: $id)
}`

const createCategoryDocument = `mutation createCategory($input: CreateCategoryInput!) {
  createCategory(input: $input) { categoryID }
}`

const deleteCategoryDocument = `mutation deleteCategory($id: ID!) {
  deleteCategory(id: $id)
}`

const createProjectDocument = `mutation createProject($input: CreateProjectInput!) {
  createProject(input: $input) { projectID }
}`

const updateProjectDocument = `mutation updateProject($input: UpdateProjectInput!) {
  updateProject(input: $input) { projectID }
}`

const deleteProjectDocument = `mutation deleteProject($id: ID!) {
  deleteProject(id: $id)
}`

func CreateActivity(activity domain.Activity) Mutation {
	return Mutation{
		Name:     "createActivity",
		Document: createActivityDocument,
		Variables: map[string]any{"input": map[string]any{
			"activityID":   activity.ActivityID,
			"name":         activity.Name,
			"description":  activity.Description,
			"date":         activity.Date.Format(time.RFC3339),
			"activityType": activity.ActivityType,
			"categoryID":   activity.CategoryID,
			"projectID":    activity.ProjectID,
		}},
		Events:   []domain.Event{domain.ActivityCreated{Activity: activity}},
		Rollback: []domain.Event{domain.ActivityDeleted{ActivityID: activity.ActivityID}},
	}
}

func UpdateActivity(previous, updated domain.Activity) Mutation {
	return Mutation{
		Name:     "updateActivity",
		Document: updateActivityDocument,
		Variables: map[string]any{"input": map[string]any{
			"activityID":    updated.ActivityID,
			"name":          updated.Name,
			"description":   updated.Description,
			"date":          updated.Date.Format(time.RFC3339),
			"activityType":  updated.ActivityType,
			"categoryID":    updated.CategoryID,
			"subcategoryID": updated.SubcategoryID,
			"projectID":     updated.ProjectID,
		}},
		Events:   []domain.Event{domain.ActivityUpdated{Activity: updated}},
		Rollback: []domain.Event{domain.ActivityUpdated{Activity: previous}},
	}
}

func DeleteActivity(previous domain.Activity) Mutation {
	return Mutation{
		Name:      "deleteActivity",
		Document:  deleteActivityDocument,
		Variables: map[string]any{"id": previous.ActivityID},
		Events:    []domain.Event{domain.ActivityDeleted{ActivityID: previous.ActivityID}},
		Rollback:  []domain.Event{domain.ActivityCreated{Activity: previous}},
	}
}

func AddTransaction(txn domain.Transaction) Mutation {
	return Mutation{
		Name:     "addTransaction",
		Document: addTransactionDocument,
		Variables: map[string]any{"input": map[string]any{
			"transactionID": txn.TransactionID,
			"activityID":    txn.ActivityID,
			"amount":        txn.Amount.String(),
			"fromAccountID": txn.FromAccountID,
			"toAccountID":   txn.ToAccountID,
		}},
		Events: []domain.Event{domain.TransactionAdded{Transaction: txn}},
		Rollback: []domain.Event{domain.TransactionDeleted{
			ActivityID:    txn.ActivityID,
			TransactionID: txn.TransactionID,
		}},
	}
}

func UpdateTransaction(previous, updated domain.Transaction) Mutation {
	return Mutation{
		Name:     "updateTransaction",
		Document: updateTransactionDocument,
		Variables: map[string]any{"input": map[string]any{
			"transactionID": updated.TransactionID,
			"amount":        updated.Amount.String(),
			"fromAccountID": updated.FromAccountID,
			"toAccountID":   updated.ToAccountID,
		}},
		Events:   []domain.Event{domain.TransactionUpdated{Transaction: updated}},
		Rollback: []domain.Event{domain.TransactionUpdated{Transaction: previous}},
	}
}

func DeleteTransaction(previous domain.Transaction) Mutation {
	return Mutation{
		Name:      "deleteTransaction",
		Document:  deleteTransactionDocument,
		Variables: map[string]any{"id": previous.TransactionID},
		Events: []domain.Event{domain.TransactionDeleted{
			ActivityID:    previous.ActivityID,
			TransactionID: previous.TransactionID,
		}},
		Rollback: []domain.Event{domain.TransactionAdded{Transaction: previous}},
	}
}

func CreateAccount(account domain.Account) Mutation {
	return Mutation{
		Name:     "createAccount",
		Document: createAccountDocument,
		Variables: map[string]any{"input": map[string]any{
			"accountID":           account.AccountID,
			"name":                account.Name,
			"accountType":         account.AccountType,
			"startingBalance":     account.StartingBalance.String(),
			"startingCashBalance": account.StartingCashBalance.String(),
			"tracksMovements":     account.TracksMovements,
		}},
		Events:   []domain.Event{domain.AccountCreated{Account: account}},
		Rollback: []domain.Event{domain.AccountDeleted{AccountID: account.AccountID}},
	}
}

func UpdateAccount(previous, updated domain.Account) Mutation {
	return Mutation{
		Name:     "updateAccount",
		Document: updateAccountDocument,
		Variables: map[string]any{"input": map[string]any{
			"accountID":           updated.AccountID,
			"name":                updated.Name,
			"startingBalance":     updated.StartingBalance.String(),
			"startingCashBalance": updated.StartingCashBalance.String(),
			"tracksMovements":     updated.TracksMovements,
		}},
		Events:   []domain.Event{domain.AccountUpdated{Account: updated}},
		Rollback: []domain.Event{domain.AccountUpdated{Account: previous}},
	}
}

func DeleteAccount(previous domain.Account) Mutation {
	return Mutation{
		Name:      "deleteAccount",
		Document:  deleteAccountDocument,
		Variables: map[string]any{"id": previous.AccountID},
		Events:    []domain.Event{domain.AccountDeleted{AccountID: previous.AccountID}},
		Rollback:  []domain.Event{domain.AccountCreated{Account: previous}},
	}
}

func CreateMovement(movement domain.Movement) Mutation {
	return Mutation{
		Name:     "createMovement",
		Document: createMovementDocument,
		Variables: map[string]any{"input": map[string]any{
			"movementID": movement.MovementID,
			"accountID":  movement.AccountID,
			"date":       movement.Date.Format(time.RFC3339),
			"amount":     movement.Amount.String(),
			"name":       movement.Name,
		}},
		Events:   []domain.Event{domain.MovementCreated{Movement: movement}},
		Rollback: []domain.Event{domain.MovementDeleted{MovementID: movement.MovementID}},
	}
}

func UpdateMovement(previous, updated domain.Movement) Mutation {
	return Mutation{
		Name:     "updateMovement",
		Document: updateMovementDocument,
		Variables: map[string]any{"input": map[string]any{
			"movementID": updated.MovementID,
			"date":       updated.Date.Format(time.RFC3339),
			"amount":     updated.Amount.String(),
			"name":       updated.Name,
		}},
		Events:   []domain.Event{domain.MovementUpdated{Movement: updated}},
		Rollback: []domain.Event{domain.MovementUpdated{Movement: previous}},
	}
}

func DeleteMovement(previous domain.Movement) Mutation {
	return Mutation{
		Name:      "deleteMovement",
		Document:  deleteMovementDocument,
		Variables: map[string]any{"id": previous.MovementID},
		Events:    []domain.Event{domain.MovementDeleted{MovementID: previous.MovementID}},
		Rollback:  []domain.Event{domain.MovementCreated{Movement: previous}},
	}
}

func CreateMovementLink(link domain.MovementLink) Mutation {
	return Mutation{
		Name:     "createMovementActivity",
		Document: createMovementLinkDocument,
		Variables: map[string]any{"input": map[string]any{
			"id":         link.LinkID,
			"activityID": link.ActivityID,
			"movementID": link.MovementID,
			"amount":     link.Amount.String(),
		}},
		Events: []domain.Event{domain.MovementLinkCreated{Link: link}},
		Rollback: []domain.Event{domain.MovementLinkDeleted{
			LinkID:     link.LinkID,
			ActivityID: link.ActivityID,
			MovementID: link.MovementID,
		}},
	}
}

func UpdateMovementLink(previous, updated domain.MovementLink) Mutation {
	return Mutation{
		Name:     "updateMovementActivity",
		Document: updateMovementLinkDocument,
		Variables: map[string]any{"input": map[string]any{
			"id":     updated.LinkID,
			"amount": updated.Amount.String(),
		}},
		Events:   []domain.Event{domain.MovementLinkUpdated{Link: updated}},
		Rollback: []domain.Event{domain.MovementLinkUpdated{Link: previous}},
	}
}

func DeleteMovementLink(previous domain.MovementLink) Mutation {
	return Mutation{
		Name:      "deleteMovementActivity",
		Document:  deleteMovementLinkDocument,
		Variables: map[string]any{"id": previous.LinkID},
		Events: []domain.Event{domain.MovementLinkDeleted{
			LinkID:     previous.LinkID,
			ActivityID: previous.ActivityID,
			MovementID: previous.MovementID,
		}},
		Rollback: []domain.Event{domain.MovementLinkCreated{Link: previous}},
	}
}

func CreateCategory(category domain.Category) Mutation {
	return Mutation{
		Name:     "createCategory",
		Document: createCategoryDocument,
		Variables: map[string]any{"input": map[string]any{
			"categoryID": category.CategoryID,
			"name":       category.Name,
		}},
		Events:   []domain.Event{domain.CategoryCreated{Category: category}},
		Rollback: []domain.Event{domain.CategoryDeleted{CategoryID: category.CategoryID}},
	}
}

func DeleteCategory(previous domain.Category) Mutation {
	return Mutation{
		Name:      "deleteCategory",
		Document:  deleteCategoryDocument,
		Variables: map[string]any{"id": previous.CategoryID},
		Events:    []domain.Event{domain.CategoryDeleted{CategoryID: previous.CategoryID}},
		Rollback:  []domain.Event{domain.CategoryCreated{Category: previous}},
	}
}

func CreateProject(project domain.Project) Mutation {
	return Mutation{
		Name:     "createProject",
		Document: createProjectDocument,
		Variables: map[string]any{"input": map[string]any{
			"projectID":   project.ProjectID,
			"name":        project.Name,
			"description": project.Description,
		}},
		Events:   []domain.Event{domain.ProjectCreated{Project: project}},
		Rollback: []domain.Event{domain.ProjectDeleted{ProjectID: project.ProjectID}},
	}
}

func UpdateProject(previous, updated domain.Project) Mutation {
	return Mutation{
		Name:     "updateProject",
		Document: updateProjectDocument,
		Variables: map[string]any{"input": map[string]any{
			"projectID":   updated.ProjectID,
			"name":        updated.Name,
			"description": updated.Description,
			"isArchived":  updated.IsArchived,
		}},
		Events:   []domain.Event{domain.ProjectUpdated{Project: updated}},
		Rollback: []domain.Event{domain.ProjectUpdated{Project: previous}},
	}
}

func DeleteProject(previous domain.Project) Mutation {
	return Mutation{
		Name:      "deleteProject",
		Document:  deleteProjectDocument,
		Variables: map[string]any{"id": previous.ProjectID},
		Events:    []domain.Event{domain.ProjectDeleted{ProjectID: previous.ProjectID}},
		Rollback:  []domain.Event{domain.ProjectCreated{Project: previous}},
	}
}
