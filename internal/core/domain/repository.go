package domain

import (
	"context"
	"time"
)

type HabitRepository interface {
	// Create persists a new habit definition.
	Create(ctx context.Context, habit *Habit) error

	// GetByID retrieves a habit by its unique identifier.
	GetByID(ctx context.Context, id string) (*Habit, error)

	// ListByUserID retrieves all active habits of a user, ordered by
	// sort order.
	ListByUserID(ctx context.Context, userID string) ([]*Habit, error)

	// Update modifies the state of an existing habit. Implementations
	// must enforce optimistic locking on the version column.
	Update(ctx context.Context, habit *Habit) error

	// Delete soft-deletes a habit.
	Delete(ctx context.Context, id string) error

	// GetChanges returns only the deltas occurring after a specific
	// timestamp, for polling sync clients.
	GetChanges(ctx context.Context, userID string, since time.Time) ([]*Habit, error)

	// UpdateStreaks refreshes the denormalized streak cache without
	// bumping the habit version.
	UpdateStreaks(ctx context.Context, id string, current, longest int) error
}
