package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Rajangupta9/taskmanager/errors"
	"github.com/Rajangupta9/taskmanager/models"
	"github.com/Rajangupta9/taskmanager/store"
	"github.com/Rajangupta9/taskmanager/validation"
)

const noMatch = "No task found matching the criteria"

// TaskService runs every task operation scoped to the calling user.
type TaskService struct {
	tasks   store.TaskStore
	timeout time.Duration
	now     func() time.Time
}

func NewTaskService(tasks store.TaskStore, timeout time.Duration) *TaskService {
	return &TaskService{tasks: tasks, timeout: timeout, now: time.Now}
}

func (s *TaskService) nowMillis() int64 { return s.now().UnixMilli() }

func parseDueDate(v string) (int64, error) {
	due, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse due date %q: %w", v, err)
	}
	return due, nil
}

func (s *TaskService) CreateTask(ctx context.Context, ownerID int64, payload map[string]any) (*models.TaskOutcome, error) {
	var req models.CreateTaskRequest
	if err := validation.Decode(validation.CreateTask, payload, &req); err != nil {
		return nil, err
	}
	due, err := parseDueDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	task := &models.Task{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     due,
		Status:      req.Status,
		UserID:      ownerID,
	}
	if err := s.tasks.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return models.ToTaskOutcome(task), nil
}

// query runs q and turns an empty result into a 404 with reason.
func (s *TaskService) query(ctx context.Context, q store.TaskQuery, reason string) ([]models.TaskOutcome, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	tasks, err := s.tasks.QueryTasks(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}
	if len(tasks) == 0 {
		return nil, errors.NotFound(noMatch, reason)
	}
	return models.ToTaskOutcomes(tasks), nil
}

// GetAllTasks returns every task of the owner. No tasks is a NotFound error.
func (s *TaskService) GetAllTasks(ctx context.Context, ownerID int64) ([]models.TaskOutcome, error) {
	return s.query(ctx, store.TaskQuery{OwnerID: ownerID}, "Task not found")
}

func (s *TaskService) GetTaskByID(ctx context.Context, ownerID, id int64) (*models.TaskOutcome, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	task, err := s.tasks.FindTask(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound(noMatch, "Task not found")
		}
		return nil, fmt.Errorf("failed to fetch task: %w", err)
	}
	return models.ToTaskOutcome(task), nil
}

func (s *TaskService) UpdateTask(ctx context.Context, ownerID, id int64, payload map[string]any) (*models.TaskOutcome, error) {
	merged := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		merged[k] = v
	}
	merged["id"] = id

	var req models.UpdateTaskRequest
	if err := validation.Decode(validation.UpdateTask, merged, &req); err != nil {
		return nil, err
	}
	due, err := parseDueDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	patch := models.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     &due,
		Status:      req.Status,
	}
	task, err := s.tasks.UpdateOwnedTask(ctx, req.ID, ownerID, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("Rejected to update a task", "Task not found")
		}
		return nil, fmt.Errorf("failed to update the task: %w", err)
	}
	return models.ToTaskOutcome(task), nil
}

func (s *TaskService) DeleteTask(ctx context.Context, ownerID, id int64) (*models.TaskOutcome, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	task, err := s.tasks.DeleteOwnedTask(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("Rejected to delete a task", "Task not found")
		}
		return nil, fmt.Errorf("failed to delete the task: %w", err)
	}
	return models.ToTaskOutcome(task), nil
}

// FilterTasks returns the owner's tasks with the given status, matched
// case-insensitively.
func (s *TaskService) FilterTasks(ctx context.Context, ownerID int64, status string) ([]models.TaskOutcome, error) {
	st, ok := models.ParseStatus(status)
	if !ok {
		return nil, errors.InvalidArgument("Invalid status query parameter",
			"The status parameter must be one of the following values: TODO, PROGRESS, COMPLETED")
	}
	return s.query(ctx, store.TaskQuery{OwnerID: ownerID, Status: st}, "Tasks not found")
}

// ParseOrder maps the order query value; empty means ascending.
func ParseOrder(order string) (store.SortOrder, bool) {
	switch strings.ToLower(order) {
	case "", "asc":
		return store.OrderAsc, true
	case "desc":
		return store.OrderDesc, true
	}
	return store.OrderNone, false
}

// SortTasks returns the owner's tasks that are already due, ordered by due date.
func (s *TaskService) SortTasks(ctx context.Context, ownerID int64, order string) ([]models.TaskOutcome, error) {
	o, ok := ParseOrder(order)
	if !ok {
		return nil, errors.InvalidArgument("Invalid order query parameter",
			"The order parameter must be one of the following values: asc, desc")
	}
	now := s.nowMillis()
	return s.query(ctx, store.TaskQuery{OwnerID: ownerID, DueAtOrBefore: &now, Order: o}, "Tasks not found")
}

// AssignTask picks the first due task whose description starts with a space
// or whose status is not COMPLETED.
func (s *TaskService) AssignTask(ctx context.Context, ownerID int64) (*models.TaskOutcome, error) {
	now := s.nowMillis()
	tasks, err := s.query(ctx, store.TaskQuery{
		OwnerID:       ownerID,
		DueAtOrBefore: &now,
		Assignable:    true,
		Limit:         1,
	}, "Task not found")
	if err != nil {
		return nil, err
	}
	return &tasks[0], nil
}
