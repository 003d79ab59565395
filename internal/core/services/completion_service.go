package services

import (
	"context"
	"errors"
	"time"

	"github.com/gbocchetta/habitflow-engine/internal/core/domain"
	"github.com/gbocchetta/habitflow-engine/internal/core/workers"
)

type CompletionService struct {
	repo      domain.CompletionRepository
	habitRepo domain.HabitRepository
	worker    *workers.StreakWorker
}

func NewCompletionService(repo domain.CompletionRepository, habitRepo domain.HabitRepository, worker *workers.StreakWorker) *CompletionService {
	return &CompletionService{
		repo:      repo,
		habitRepo: habitRepo,
		worker:    worker,
	}
}

// DayStatus is the point-lookup result for one habit on one day.
type DayStatus struct {
	Completed bool `json:"completed"`
	Count     int  `json:"count"`
}

func (s *CompletionService) ownedHabit(ctx context.Context, habitID, userID string) (*domain.Habit, error) {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return habit, nil
}

// Toggle flips the checkbox state for (habit, day). A day with no
// record becomes completed; an existing record inverts.
func (s *CompletionService) Toggle(ctx context.Context, habitID, userID string, day time.Time) (*domain.Completion, error) {
	if _, err := s.ownedHabit(ctx, habitID, userID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByHabitAndDay(ctx, habitID, day)
	switch {
	case err == nil:
		existing.Completed = !existing.Completed
		existing.Version++
		existing.UpdatedAt = time.Now().UTC()

		if err := s.repo.Upsert(ctx, existing); err != nil {
			return nil, err
		}
		s.worker.Enqueue(habitID)
		return existing, nil

	case errors.Is(err, domain.ErrCompletionNotFound):
		record := domain.NewCompletion(habitID, userID, day, true, 0)
		if err := record.Validate(); err != nil {
			return nil, err
		}
		if err := s.repo.Upsert(ctx, record); err != nil {
			return nil, err
		}
		s.worker.Enqueue(habitID)
		return record, nil

	default:
		return nil, err
	}
}

// SetCount upserts the numeric quantity for (habit, day). The stored
// completed flag stays consistent with count > 0.
func (s *CompletionService) SetCount(ctx context.Context, habitID, userID string, day time.Time, count int) (*domain.Completion, error) {
	if count < 0 {
		return nil, domain.ErrNegativeCount
	}

	if _, err := s.ownedHabit(ctx, habitID, userID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByHabitAndDay(ctx, habitID, day)
	switch {
	case err == nil:
		existing.Count = count
		existing.Completed = count > 0
		existing.Version++
		existing.UpdatedAt = time.Now().UTC()

		if err := s.repo.Upsert(ctx, existing); err != nil {
			return nil, err
		}
		s.worker.Enqueue(habitID)
		return existing, nil

	case errors.Is(err, domain.ErrCompletionNotFound):
		record := domain.NewCompletion(habitID, userID, day, count > 0, count)
		if err := record.Validate(); err != nil {
			return nil, err
		}
		if err := s.repo.Upsert(ctx, record); err != nil {
			return nil, err
		}
		s.worker.Enqueue(habitID)
		return record, nil

	default:
		return nil, err
	}
}

// Status reports the completion flag and count for a single day. A
// missing record reads as not completed with count 0, never an error.
func (s *CompletionService) Status(ctx context.Context, habitID, userID string, day time.Time) (DayStatus, error) {
	if _, err := s.ownedHabit(ctx, habitID, userID); err != nil {
		return DayStatus{}, err
	}

	record, err := s.repo.GetByHabitAndDay(ctx, habitID, day)
	if err != nil {
		if errors.Is(err, domain.ErrCompletionNotFound) {
			return DayStatus{}, nil
		}
		return DayStatus{}, err
	}

	return DayStatus{Completed: record.Completed, Count: record.Count}, nil
}

func (s *CompletionService) ListByHabitID(ctx context.Context, habitID string, userID string, from, to time.Time) ([]*domain.Completion, error) {
	if _, err := s.ownedHabit(ctx, habitID, userID); err != nil {
		return nil, err
	}

	return s.repo.ListByHabitIDWithRange(ctx, habitID, from, to)
}

func (s *CompletionService) Delete(ctx context.Context, id string, userID string) error {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if record.UserID != userID {
		return domain.ErrUnauthorized
	}

	habitID := record.HabitID

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.worker.Enqueue(habitID)

	return nil
}

func (s *CompletionService) GetDelta(ctx context.Context, userID string, since time.Time) ([]*domain.Completion, error) {
	return s.repo.GetChanges(ctx, userID, since)
}
