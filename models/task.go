package models

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusTodo      Status = "TODO"
	StatusProgress  Status = "PROGRESS"
	StatusCompleted Status = "COMPLETED"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusTodo, StatusProgress, StatusCompleted}

// ParseStatus matches s case-insensitively against the known statuses.
func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses {
		if strings.EqualFold(s, string(st)) {
			return st, true
		}
	}
	return "", false
}

type Task struct {
	ID          int64     `bson:"_id" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description" json:"description"`
	DueDate     int64     `bson:"due_date" json:"dueDate"` // epoch milliseconds
	Status      Status    `bson:"status" json:"status"`
	UserID      int64     `bson:"user_id" json:"userId"` // Reference to User _id
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}

// TaskPatch holds the fields of an update; nil means "leave unchanged".
type TaskPatch struct {
	Title       *string
	Description *string
	DueDate     *int64
	Status      *Status
}

// Apply merges the patch into t.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
}

type CreateTaskRequest struct {
	Title       string `mapstructure:"title"`
	Description string `mapstructure:"description"`
	DueDate     string `mapstructure:"dueDate"`
	Status      Status `mapstructure:"status"`
}

type UpdateTaskRequest struct {
	ID          int64   `mapstructure:"id"`
	Title       *string `mapstructure:"title"`
	Description *string `mapstructure:"description"`
	DueDate     string  `mapstructure:"dueDate"`
	Status      *Status `mapstructure:"status"`
}

// TaskOutcome is the client-facing projection of a task.
type TaskOutcome struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     int64  `json:"dueDate"`
	Status      Status `json:"status"`
}

func ToTaskOutcome(t *Task) *TaskOutcome {
	return &TaskOutcome{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Status:      t.Status,
	}
}

func ToTaskOutcomes(tasks []Task) []TaskOutcome {
	out := make([]TaskOutcome, 0, len(tasks))
	for i := range tasks {
		out = append(out, *ToTaskOutcome(&tasks[i]))
	}
	return out
}
