package application

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/taskhub/taskhub-api/internal/domain/entity"
	"github.com/taskhub/taskhub-api/internal/domain/repository"
)

// TaskService implements the task CRUD contract: ownership enforcement,
// filter composition, defaults and partial-update merge rules.
type TaskService struct {
	Repo   repository.TaskRepository
	Logger *logrus.Logger
}

func NewTaskService(repo repository.TaskRepository, logger *logrus.Logger) *TaskService {
	return &TaskService{Repo: repo, Logger: logger}
}

// TaskFilter narrows a listing; empty fields are ignored. Filters compose
// with logical AND.
type TaskFilter struct {
	Status   string
	Priority string
	Search   string
}

// CreateTaskInput carries the fields accepted at task creation. Status and
// Priority default when empty; DueDate is optional.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time
}

// UpdateTaskInput is a partial update: nil pointers leave the field as is.
// DueDateSet distinguishes "leave unchanged" (false) from "clear" (true with
// nil DueDate) and "replace" (true with a value).
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *time.Time
	DueDateSet  bool
}

// List returns the requester's tasks matching the filter, most recent first.
func (s *TaskService) List(ctx context.Context, userID string, f TaskFilter) ([]*entity.Task, error) {
	verr := &ValidationError{}
	if f.Status != "" && !entity.Status(f.Status).Valid() {
		verr.add("status", "must be one of: todo, in-progress, done")
	}
	if f.Priority != "" && !entity.Priority(f.Priority).Valid() {
		verr.add("priority", "must be one of: low, medium, high")
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	tasks, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(f.Search))
	filtered := make([]*entity.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Status != "" && t.Status != entity.Status(f.Status) {
			continue
		}
		if f.Priority != "" && t.Priority != entity.Priority(f.Priority) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Title), search) &&
			!strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		filtered = append(filtered, t)
	}

	// Stable: ties keep retrieval order.
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})
	return filtered, nil
}

// Get returns a task the requester owns. Missing and foreign tasks are the
// same ErrTaskNotFound.
func (s *TaskService) Get(ctx context.Context, userID, taskID string) (*entity.Task, error) {
	return s.getOwned(ctx, userID, taskID)
}

// Create validates the input, applies defaults and persists a new task owned
// by the requester.
func (s *TaskService) Create(ctx context.Context, userID string, in CreateTaskInput) (*entity.Task, error) {
	verr := &ValidationError{}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		verr.add("title", "is required")
	}

	status := entity.StatusTodo
	if in.Status != "" {
		status = entity.Status(in.Status)
		if !status.Valid() {
			verr.add("status", "must be one of: todo, in-progress, done")
		}
	}

	priority := entity.PriorityMedium
	if in.Priority != "" {
		priority = entity.Priority(in.Priority)
		if !priority.Valid() {
			verr.add("priority", "must be one of: low, medium, high")
		}
	}

	if in.DueDate != nil && beforeToday(*in.DueDate) {
		verr.add("dueDate", "must not be in the past")
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	t := &entity.Task{
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Status:      status,
		Priority:    priority,
		DueDate:     in.DueDate,
	}
	if err := s.Repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Update merges the provided fields into an owned task. id, userId and
// createdAt are immutable; updatedAt refreshes on every call.
func (s *TaskService) Update(ctx context.Context, userID, taskID string, in UpdateTaskInput) (*entity.Task, error) {
	t, err := s.getOwned(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	verr := &ValidationError{}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			verr.add("title", "must not be empty")
		} else {
			t.Title = title
		}
	}
	if in.Description != nil {
		t.Description = strings.TrimSpace(*in.Description)
	}
	if in.Status != nil {
		status := entity.Status(*in.Status)
		if !status.Valid() {
			verr.add("status", "must be one of: todo, in-progress, done")
		} else {
			t.Status = status
		}
	}
	if in.Priority != nil {
		priority := entity.Priority(*in.Priority)
		if !priority.Valid() {
			verr.add("priority", "must be one of: low, medium, high")
		} else {
			t.Priority = priority
		}
	}
	if in.DueDateSet {
		if in.DueDate != nil && beforeToday(*in.DueDate) {
			verr.add("dueDate", "must not be in the past")
		} else {
			t.DueDate = in.DueDate
		}
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	t.UpdatedAt = time.Now()
	if err := s.Repo.Update(ctx, t); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return t, nil
}

// Delete removes an owned task. Repeating the delete reports not-found.
func (s *TaskService) Delete(ctx context.Context, userID, taskID string) error {
	if _, err := s.getOwned(ctx, userID, taskID); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	return nil
}

func (s *TaskService) getOwned(ctx context.Context, userID, taskID string) (*entity.Task, error) {
	t, err := s.Repo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	if t.UserID != userID {
		// Foreign tasks look exactly like missing ones.
		return nil, ErrTaskNotFound
	}
	return t, nil
}

// beforeToday reports whether the calendar date of d precedes the server-local
// current day. Only date components are compared, so a date-only value parsed
// in UTC is judged by the day the client named.
func beforeToday(d time.Time) bool {
	now := time.Now()
	y1, m1, d1 := d.Date()
	y2, m2, d2 := now.Date()
	if y1 != y2 {
		return y1 < y2
	}
	if m1 != m2 {
		return m1 < m2
	}
	return d1 < d2
}
