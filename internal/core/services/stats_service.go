package services

import (
	"context"
	"errors"
	"time"

	"github.com/gbocchetta/habitflow-engine/internal/core/domain"
	"github.com/gbocchetta/habitflow-engine/internal/core/stats"
)

// StatsService loads a habit snapshot and its completion log and hands
// them to the pure statistics engine. The evaluation date always comes
// in from the caller; this layer never reads the clock either.
type StatsService struct {
	habitRepo      domain.HabitRepository
	completionRepo domain.CompletionRepository
}

func NewStatsService(habitRepo domain.HabitRepository, completionRepo domain.CompletionRepository) *StatsService {
	return &StatsService{
		habitRepo:      habitRepo,
		completionRepo: completionRepo,
	}
}

// load fetches the inputs for one habit. A missing habit yields
// (nil, nil, nil): the engine is total and maps that to zero-valued
// stats, because callers may hold a snapshot that lags a deletion.
func (s *StatsService) load(ctx context.Context, habitID, userID string) (*domain.Habit, []*domain.Completion, error) {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		if errors.Is(err, domain.ErrHabitNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	if habit.UserID != userID {
		return nil, nil, nil
	}

	completions, err := s.completionRepo.ListByHabitID(ctx, habitID)
	if err != nil {
		return nil, nil, err
	}

	return habit, completions, nil
}

func (s *StatsService) GetHabitSummary(ctx context.Context, habitID, userID string, today time.Time) (domain.HabitSummary, error) {
	habit, completions, err := s.load(ctx, habitID, userID)
	if err != nil {
		return domain.HabitSummary{}, err
	}
	return stats.Summary(habit, completions, today), nil
}

func (s *StatsService) GetCheckboxStats(ctx context.Context, habitID, userID string, today time.Time) (domain.CheckboxStats, error) {
	habit, completions, err := s.load(ctx, habitID, userID)
	if err != nil {
		return domain.CheckboxStats{}, err
	}
	return stats.Checkbox(habit, completions, today), nil
}

func (s *StatsService) GetCounterStats(ctx context.Context, habitID, userID string, today time.Time) (domain.CounterStats, error) {
	habit, completions, err := s.load(ctx, habitID, userID)
	if err != nil {
		return domain.CounterStats{Trend: domain.TrendStable}, err
	}
	return stats.Counter(habit, completions, today), nil
}
