package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gbocchetta/habitflow-engine/internal/core/dates"
	"github.com/gbocchetta/habitflow-engine/internal/core/domain"
	"github.com/google/uuid"
)

// In-memory repositories backing tests and local development. They
// mirror the Postgres semantics (soft delete excluded, upsert by
// (habit, day)) closely enough that services behave identically.

type InMemoryHabitRepository struct {
	store map[string]*domain.Habit

	mu sync.RWMutex
}

func NewInMemoryHabitRepository() *InMemoryHabitRepository {
	return &InMemoryHabitRepository{
		store: make(map[string]*domain.Habit),
	}
}

func (r *InMemoryHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if habit.Version == 0 {
		habit.Version = 1
	}
	r.store[habit.ID] = habit
	return nil
}

func (r *InMemoryHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habit, ok := r.store[id]
	if !ok {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

func (r *InMemoryHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var habits []*domain.Habit
	for _, h := range r.store {
		if h.UserID == userID {
			habits = append(habits, h)
		}
	}

	sort.Slice(habits, func(i, j int) bool {
		return habits[i].SortOrder < habits[j].SortOrder
	})

	return habits, nil
}

func (r *InMemoryHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[habit.ID]; !ok {
		return domain.ErrHabitNotFound
	}

	r.store[habit.ID] = habit
	return nil
}

func (r *InMemoryHabitRepository) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	habit, ok := r.store[id]
	if !ok {
		return domain.ErrHabitNotFound
	}

	habit.UpdateStreak(current, longest)
	return nil
}

func (r *InMemoryHabitRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrHabitNotFound
	}

	delete(r.store, id)
	return nil
}

func (r *InMemoryHabitRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var habits []*domain.Habit
	for _, h := range r.store {
		if h.UserID == userID && h.UpdatedAt.After(since) {
			habits = append(habits, h)
		}
	}

	sort.Slice(habits, func(i, j int) bool {
		return habits[i].UpdatedAt.Before(habits[j].UpdatedAt)
	})

	return habits, nil
}

type InMemoryCompletionRepository struct {
	store map[string]*domain.Completion // keyed by "habitID|day"
	byID  map[string]*domain.Completion

	mu sync.RWMutex
}

func NewInMemoryCompletionRepository() *InMemoryCompletionRepository {
	return &InMemoryCompletionRepository{
		store: make(map[string]*domain.Completion),
		byID:  make(map[string]*domain.Completion),
	}
}

func dayStoreKey(habitID string, day time.Time) string {
	return habitID + "|" + dates.Format(day)
}

func (r *InMemoryCompletionRepository) Upsert(ctx context.Context, completion *domain.Completion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := dayStoreKey(completion.HabitID, completion.Day)

	if existing, ok := r.store[key]; ok && existing.ID != completion.ID {
		// Keep the original row identity, as the SQL upsert does.
		completion.ID = existing.ID
		completion.Version = existing.Version + 1
	}
	if completion.ID == "" {
		completion.ID = uuid.NewString()
	}
	completion.DeletedAt = nil

	r.store[key] = completion
	r.byID[completion.ID] = completion
	return nil
}

func (r *InMemoryCompletionRepository) GetByID(ctx context.Context, id string) (*domain.Completion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok || c.DeletedAt != nil {
		return nil, domain.ErrCompletionNotFound
	}
	return c, nil
}

func (r *InMemoryCompletionRepository) GetByHabitAndDay(ctx context.Context, habitID string, day time.Time) (*domain.Completion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.store[dayStoreKey(habitID, day)]
	if !ok || c.DeletedAt != nil {
		return nil, domain.ErrCompletionNotFound
	}
	return c, nil
}

func (r *InMemoryCompletionRepository) ListByHabitID(ctx context.Context, habitID string) ([]*domain.Completion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []*domain.Completion
	for _, c := range r.store {
		if c.HabitID == habitID && c.DeletedAt == nil {
			list = append(list, c)
		}
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].Day.Before(list[j].Day)
	})

	return list, nil
}

func (r *InMemoryCompletionRepository) ListByHabitIDWithRange(ctx context.Context, habitID string, from, to time.Time) ([]*domain.Completion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []*domain.Completion
	for _, c := range r.store {
		if c.HabitID != habitID || c.DeletedAt != nil {
			continue
		}
		if c.Day.Before(dates.Truncate(from)) || c.Day.After(dates.Truncate(to)) {
			continue
		}
		list = append(list, c)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].Day.After(list[j].Day)
	})

	return list, nil
}

func (r *InMemoryCompletionRepository) Delete(ctx context.Context, id string, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[id]
	if !ok || c.DeletedAt != nil || c.UserID != userID {
		return domain.ErrCompletionNotFound
	}

	now := time.Now().UTC()
	c.DeletedAt = &now
	c.UpdatedAt = now
	c.Version++
	return nil
}

func (r *InMemoryCompletionRepository) DeleteByHabitID(ctx context.Context, habitID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for _, c := range r.store {
		if c.HabitID == habitID && c.DeletedAt == nil {
			c.DeletedAt = &now
			c.UpdatedAt = now
			c.Version++
		}
	}
	return nil
}

func (r *InMemoryCompletionRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.Completion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []*domain.Completion
	for _, c := range r.byID {
		if c.UserID == userID && c.UpdatedAt.After(since) {
			list = append(list, c)
		}
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].UpdatedAt.Before(list[j].UpdatedAt)
	})

	return list, nil
}

type InMemoryUserRepository struct {
	byID    map[string]*domain.User
	byEmail map[string]*domain.User

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return domain.ErrEmailAlreadyExists
	}

	r.byID[user.ID] = user
	r.byEmail[user.Email] = user
	return nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}
