package workers

import (
	"context"
	"log"
	"time"

	"github.com/gbocchetta/habitflow-engine/internal/core/domain"
	"github.com/gbocchetta/habitflow-engine/internal/core/stats"
)

type HabitRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Habit, error)
	UpdateStreaks(ctx context.Context, id string, current, longest int) error
}

type CompletionRepository interface {
	ListByHabitID(ctx context.Context, habitID string) ([]*domain.Completion, error)
}

type StreakJob struct {
	HabitID string
}

// StreakWorker keeps the denormalized streak cache on habit rows in
// sync with the completion log. Jobs are enqueued after every
// completion write; recomputation goes through the same engine
// primitives the stats endpoints use, so the cache can never disagree
// with a freshly computed snapshot.
type StreakWorker struct {
	habitRepo      HabitRepository
	completionRepo CompletionRepository
	jobs           chan StreakJob
	now            func() time.Time
}

func NewStreakWorker(hRepo HabitRepository, cRepo CompletionRepository) *StreakWorker {
	return &StreakWorker{
		habitRepo:      hRepo,
		completionRepo: cRepo,
		jobs:           make(chan StreakJob, 100),
		now:            time.Now,
	}
}

func (w *StreakWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Streak worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("Streak worker shutting down...")
				return
			}
		}
	}()
}

func (w *StreakWorker) Enqueue(habitID string) {
	select {
	case w.jobs <- StreakJob{HabitID: habitID}:
	default:
		log.Printf("Streak worker queue full, dropping job for habit %s", habitID)
	}
}

func (w *StreakWorker) processJob(ctx context.Context, job StreakJob) {
	habit, err := w.habitRepo.GetByID(ctx, job.HabitID)
	if err != nil {
		log.Printf("Worker error fetching habit %s: %v", job.HabitID, err)
		return
	}

	completions, err := w.completionRepo.ListByHabitID(ctx, job.HabitID)
	if err != nil {
		log.Printf("Worker error fetching completions for %s: %v", job.HabitID, err)
		return
	}

	active := stats.ActiveDays(habit, completions)
	current := stats.CurrentStreak(active, w.now())
	longest := stats.LongestStreak(active)

	if habit.CurrentStreak == current && habit.LongestStreak == longest {
		return
	}

	if err := w.habitRepo.UpdateStreaks(ctx, habit.ID, current, longest); err != nil {
		log.Printf("Worker failed to update streaks for %s: %v", habit.ID, err)
		return
	}

	log.Printf("Streaks updated for %q: current=%d, longest=%d", habit.Name, current, longest)
}
