package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/gbocchetta/habitflow-engine/internal/core/dates"
)

var (
	ErrInvalidCompletion = errors.New("invalid completion data")
	ErrNegativeCount     = errors.New("count cannot be negative")
)

// Completion is the stored observation for one habit on one calendar
// day. At most one record exists per (habit, day); writes are upserts.
// For counter habits Completed is derived as Count > 0. A missing
// record for a day means "no activity", identical to count 0.
type Completion struct {
	ID      string `json:"id" db:"id"`
	HabitID string `json:"habit_id" db:"habit_id"`
	UserID  string `json:"user_id" db:"user_id"`

	Day       time.Time `json:"day" db:"day"`
	Completed bool      `json:"completed" db:"completed"`
	Count     int       `json:"count" db:"count"`

	Version   int        `json:"version" db:"version"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func NewCompletion(habitID, userID string, day time.Time, completed bool, count int) *Completion {
	now := time.Now().UTC()

	return &Completion{
		HabitID:   habitID,
		UserID:    userID,
		Day:       dates.Truncate(day),
		Completed: completed,
		Count:     count,

		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DayKey returns the canonical YYYY-MM-DD key for this record.
func (c *Completion) DayKey() string {
	return dates.Format(c.Day)
}

func (c *Completion) Validate() error {
	if strings.TrimSpace(c.HabitID) == "" {
		return errors.New("habit_id is required")
	}
	if strings.TrimSpace(c.UserID) == "" {
		return errors.New("user_id is required")
	}
	if c.Count < 0 {
		return ErrNegativeCount
	}
	if c.Day.IsZero() {
		return errors.New("day is required")
	}
	return nil
}
