package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	dom "taskplanner/internal/domain"
	"taskplanner/internal/repo"

	"github.com/jackc/pgx/v5"
)

// TaskService owns task validation and the overlap invariant: for one user,
// no two non-completed tasks may claim overlapping date ranges.
type TaskService struct {
	repo repo.TaskRepo
}

func NewTaskService(r repo.TaskRepo) *TaskService {
	return &TaskService{repo: r}
}

type CreateTaskInput struct {
	Title       string
	Description string
	StartDate   time.Time
	DueDate     *time.Time
	Completed   bool
}

// UpdateTaskInput is a partial update. Nil pointer = leave unchanged.
// DueDateSet distinguishes "clear the due date" from "leave it alone".
type UpdateTaskInput struct {
	Title       *string
	Description *string
	StartDate   *time.Time
	DueDate     *time.Time
	DueDateSet  bool
	Completed   *bool
}

// Create validates and persists a new task for the user. The owner always
// comes from the authenticated caller, never from client input.
func (s *TaskService) Create(ctx context.Context, userID int64, in CreateTaskInput) (dom.Task, error) {
	t := dom.Task{
		UserID:      userID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		StartDate:   in.StartDate,
		DueDate:     in.DueDate,
		Completed:   in.Completed,
	}
	if err := s.validate(ctx, t, 0); err != nil {
		return dom.Task{}, err
	}
	created, err := s.repo.Create(ctx, t)
	if err != nil {
		return dom.Task{}, err
	}
	log.Printf("task created: %q (user %d)", created.Title, userID)
	return created, nil
}

// Get returns one of the user's tasks. Foreign tasks are reported as not
// found so existence never leaks.
func (s *TaskService) Get(ctx context.Context, userID, id int64) (dom.Task, error) {
	t, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrTaskNotFound
		}
		return dom.Task{}, err
	}
	return t, nil
}

// List returns all of the user's tasks ordered by (start_date, due_date),
// open-ended tasks last within a start date.
func (s *TaskService) List(ctx context.Context, userID int64) ([]dom.Task, error) {
	return s.repo.List(ctx, userID)
}

// Search filters the user's tasks: start_date >= start and
// (due_date <= end or due_date is null). Either bound may be nil.
func (s *TaskService) Search(ctx context.Context, userID int64, start, end *time.Time) ([]dom.Task, error) {
	return s.repo.Search(ctx, userID, start, end)
}

// Update merges the patch onto the stored task, re-validates the result and
// persists it. The overlap check runs only when start or due date actually
// changed, so an update that leaves the dates alone can never conflict with
// the task itself.
func (s *TaskService) Update(ctx context.Context, userID, id int64, patch UpdateTaskInput) (dom.Task, error) {
	existing, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrTaskNotFound
		}
		return dom.Task{}, err
	}

	merged := existing
	if patch.Title != nil {
		merged.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		merged.Description = strings.TrimSpace(*patch.Description)
	}
	datesChanged := false
	if patch.StartDate != nil {
		if !patch.StartDate.Equal(merged.StartDate) {
			datesChanged = true
		}
		merged.StartDate = *patch.StartDate
	}
	if patch.DueDateSet {
		if !equalDatePtr(patch.DueDate, merged.DueDate) {
			datesChanged = true
		}
		merged.DueDate = patch.DueDate
	}
	if patch.Completed != nil {
		merged.Completed = *patch.Completed
	}

	if err := s.validateFields(merged); err != nil {
		return dom.Task{}, err
	}
	if datesChanged {
		if err := s.checkOverlap(ctx, merged, id); err != nil {
			return dom.Task{}, err
		}
	}

	updated, err := s.repo.Update(ctx, merged)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrTaskNotFound
		}
		return dom.Task{}, err
	}
	log.Printf("task updated: %q (user %d)", updated.Title, userID)
	return updated, nil
}

// Delete removes one of the user's tasks. No cascades.
func (s *TaskService) Delete(ctx context.Context, userID, id int64) error {
	deleted, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTaskNotFound
	}
	log.Printf("task deleted: id=%d (user %d)", id, userID)
	return nil
}

func (s *TaskService) validate(ctx context.Context, t dom.Task, excludeID int64) error {
	if err := s.validateFields(t); err != nil {
		return err
	}
	return s.checkOverlap(ctx, t, excludeID)
}

func (s *TaskService) validateFields(t dom.Task) error {
	if t.Title == "" {
		return NewValidationError("title", msgEmptyTitle)
	}
	if t.DueDate != nil && t.DueDate.Before(t.StartDate) {
		return NewValidationError("due_date", msgDueBeforeStart)
	}
	return nil
}

// checkOverlap enforces the scheduling invariant at the service boundary.
// It scans the user's non-completed tasks in (start_date, id) order and
// reports the first conflict, which makes the reported task deterministic:
// earliest start date, then lowest id. A completed candidate occupies no
// schedule and is never checked.
//
// The check is advisory: two concurrent writers for the same user can both
// pass it before either commits. The storage layer serializes the writes
// themselves, but not this read-then-write sequence.
func (s *TaskService) checkOverlap(ctx context.Context, t dom.Task, excludeID int64) error {
	if t.Completed {
		return nil
	}
	open, err := s.repo.ListOpen(ctx, t.UserID)
	if err != nil {
		return err
	}
	for _, other := range open {
		if other.ID == excludeID {
			continue
		}
		if other.Overlaps(t.StartDate, t.DueDate) {
			log.Printf("task overlap rejected: user %d, conflicts with %q (id=%d)", t.UserID, other.Title, other.ID)
			return &ValidationError{Fields: map[string]string{
				"start_date":       msgTaskOverlap,
				"overlapping_task": other.Title,
			}}
		}
	}
	return nil
}

func equalDatePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
