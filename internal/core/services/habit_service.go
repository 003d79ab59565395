package services

import (
	"context"
	"fmt"
	"time"

	"github.com/gbocchetta/habitflow-engine/internal/core/domain"
)

type HabitService struct {
	repo           domain.HabitRepository
	completionRepo domain.CompletionRepository
}

func NewHabitService(repo domain.HabitRepository, completionRepo domain.CompletionRepository) *HabitService {
	return &HabitService{
		repo:           repo,
		completionRepo: completionRepo,
	}
}

type CreateHabitInput struct {
	UserID       string
	Name         string
	Description  string
	Color        string
	Icon         string
	Category     string
	TrackingType string
	Unit         string
	TargetCount  int
}

type UpdateHabitInput struct {
	ID           string
	UserID       string
	Name         string
	Description  string
	Color        string
	Icon         string
	Category     string
	TrackingType string
	Unit         string
	TargetCount  int
	Version      int
}

func mergeString(newVal, oldVal string) string {
	if newVal == "" {
		return oldVal
	}
	return newVal
}

func (s *HabitService) Create(ctx context.Context, input CreateHabitInput) (*domain.Habit, error) {
	trackingType := input.TrackingType
	if trackingType == "" {
		trackingType = domain.TrackingCheckbox
	}

	habit, err := domain.NewHabit(
		input.UserID,
		input.Name,
		input.Description,
		input.Color,
		input.Icon,
		input.Category,
		trackingType,
		input.Unit,
		input.TargetCount,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, err
	}

	return habit, nil
}

func (s *HabitService) GetByID(ctx context.Context, id, userID string) (*domain.Habit, error) {
	habit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

func (s *HabitService) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	return s.repo.ListByUserID(ctx, userID)
}

func (s *HabitService) GetDelta(ctx context.Context, userID string, lastSync time.Time) ([]*domain.Habit, error) {
	return s.repo.GetChanges(ctx, userID, lastSync)
}

func (s *HabitService) Update(ctx context.Context, input UpdateHabitInput) error {
	habit, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return err
	}

	if habit.UserID != input.UserID {
		return domain.ErrHabitNotFound
	}

	if input.Version > 0 && habit.Version != input.Version {
		return fmt.Errorf("%w: client v%d vs server v%d", domain.ErrHabitConflict, input.Version, habit.Version)
	}

	name := mergeString(input.Name, habit.Name)
	desc := mergeString(input.Description, habit.Description)
	color := mergeString(input.Color, habit.Color)
	icon := mergeString(input.Icon, habit.Icon)
	category := mergeString(input.Category, habit.Category)
	trackingType := mergeString(input.TrackingType, habit.TrackingType)
	unit := mergeString(input.Unit, habit.Unit)

	target := habit.TargetCount
	if input.TargetCount > 0 {
		target = input.TargetCount
	}

	err = habit.Update(name, desc, color, icon, category, trackingType, unit, target)
	if err != nil {
		return err
	}

	return s.repo.Update(ctx, habit)
}

// Reorder persists a new manual ordering. IDs not owned by the user
// are skipped rather than failing the whole batch.
func (s *HabitService) Reorder(ctx context.Context, userID string, orderedIDs []string) error {
	for pos, id := range orderedIDs {
		habit, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if habit.UserID != userID {
			continue
		}
		if err := habit.ChangePosition(pos); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, habit); err != nil {
			return err
		}
	}
	return nil
}

func (s *HabitService) Archive(ctx context.Context, id, userID string) error {
	habit, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}

	habit.Archive()
	return s.repo.Update(ctx, habit)
}

func (s *HabitService) Restore(ctx context.Context, id, userID string) error {
	habit, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}

	habit.Restore()
	return s.repo.Update(ctx, habit)
}

// Delete removes the habit and its completion log together, so a
// later habit with a recycled day range never inherits stale records.
func (s *HabitService) Delete(ctx context.Context, id string, userID string) error {
	habit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if habit.UserID != userID {
		return domain.ErrHabitNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	return s.completionRepo.DeleteByHabitID(ctx, id)
}
