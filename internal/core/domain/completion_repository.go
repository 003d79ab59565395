package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrCompletionNotFound = errors.New("completion not found")
	ErrCompletionConflict = errors.New("completion version conflict")
)

type CompletionRepository interface {
	// Upsert writes the record for (habit, day), replacing any existing
	// one. The one-record-per-day invariant lives here, not in the
	// statistics engine.
	Upsert(ctx context.Context, completion *Completion) error

	// GetByID retrieves a single active record by its ID.
	GetByID(ctx context.Context, id string) (*Completion, error)

	// GetByHabitAndDay retrieves the record for a single calendar day.
	GetByHabitAndDay(ctx context.Context, habitID string, day time.Time) (*Completion, error)

	// ListByHabitID retrieves all active records for a habit.
	ListByHabitID(ctx context.Context, habitID string) ([]*Completion, error)

	// ListByHabitIDWithRange retrieves records within [from, to],
	// optimized for calendar and chart views.
	ListByHabitIDWithRange(ctx context.Context, habitID string, from, to time.Time) ([]*Completion, error)

	// Delete performs a soft delete. It requires userID to ensure the
	// caller owns the record.
	Delete(ctx context.Context, id string, userID string) error

	// DeleteByHabitID soft-deletes every record of a habit, used when
	// the habit itself is deleted.
	DeleteByHabitID(ctx context.Context, habitID string) error

	// GetChanges returns all changes (creations, updates, soft deletes)
	// after the 'since' timestamp, for offline-first synchronization.
	GetChanges(ctx context.Context, userID string, since time.Time) ([]*Completion, error)
}
