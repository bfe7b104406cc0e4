// Package store persists users and tasks.
//
// Every backend (MongoDB, PostgreSQL, MySQL and the in-memory store used by
// tests) implements Store. Task reads and writes are always scoped to an
// owner; the update and delete operations check ownership and mutate in one
// atomic step.
package store

import (
	"context"

	"github.com/Rajangupta9/taskmanager/errors"
	"github.com/Rajangupta9/taskmanager/models"
)

var (
	// ErrNotFound indicates that no record matched the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("record already exists")
)

// SortOrder orders query results by due date.
type SortOrder string

const (
	OrderNone SortOrder = ""
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// TaskQuery describes a scoped task lookup. Zero values disable a predicate.
type TaskQuery struct {
	OwnerID int64
	Status  models.Status
	// DueAtOrBefore keeps tasks whose due date is <= the value (epoch ms).
	DueAtOrBefore *int64
	// Assignable keeps tasks whose description starts with a space or whose
	// status is not COMPLETED.
	Assignable bool
	// Order sorts by due date; OrderNone sorts by id. Ties always break by id.
	Order SortOrder
	Limit int
}

// UserStore persists users.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	FindUserByID(ctx context.Context, id int64) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)
}

// TaskStore persists tasks.
type TaskStore interface {
	CreateTask(ctx context.Context, t *models.Task) error
	FindTask(ctx context.Context, id, ownerID int64) (*models.Task, error)
	QueryTasks(ctx context.Context, q TaskQuery) ([]models.Task, error)
	// UpdateOwnedTask applies patch to task id if it belongs to ownerID.
	UpdateOwnedTask(ctx context.Context, id, ownerID int64, patch models.TaskPatch) (*models.Task, error)
	// DeleteOwnedTask removes task id if it belongs to ownerID and returns it.
	DeleteOwnedTask(ctx context.Context, id, ownerID int64) (*models.Task, error)
}

// Store is the full persistence surface used by the services.
type Store interface {
	UserStore
	TaskStore
	// Migrate creates the indexes or tables the backend needs.
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// assignable is the in-process form of TaskQuery.Assignable.
func assignable(t *models.Task) bool {
	return (len(t.Description) > 0 && t.Description[0] == ' ') || t.Status != models.StatusCompleted
}

// Matches reports whether t satisfies every predicate of q.
func (q TaskQuery) Matches(t *models.Task) bool {
	if t.UserID != q.OwnerID {
		return false
	}
	if q.Status != "" && t.Status != q.Status {
		return false
	}
	if q.DueAtOrBefore != nil && t.DueDate > *q.DueAtOrBefore {
		return false
	}
	if q.Assignable && !assignable(t) {
		return false
	}
	return true
}
