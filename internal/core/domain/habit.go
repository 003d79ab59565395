package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrHabitNameEmpty     = errors.New("habit name cannot be empty")
	ErrHabitNameTooLong   = errors.New("habit name is too long (max 100 chars)")
	ErrHabitDescTooLong   = errors.New("habit description is too long (max 500 chars)")
	ErrHabitInvalidUserID = errors.New("invalid user id")
	ErrInvalidColor       = errors.New("invalid color format (must be #RRGGBB)")
	ErrInvalidTarget      = errors.New("target count cannot be negative")
	ErrInvalidTracking    = errors.New("invalid tracking type (must be checkbox or counter)")
	ErrHabitArchived      = errors.New("cannot update an archived habit")
	ErrHabitNotFound      = errors.New("habit not found")
	ErrHabitConflict      = errors.New("habit version conflict")
	ErrUnauthorized       = errors.New("not authorized for this resource")
)

var colorRegex = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

const (
	TrackingCheckbox = "checkbox"
	TrackingCounter  = "counter"
	DefaultIcon      = "sparkles"
	MaxNameLen       = 100
	MaxDescLen       = 500
)

// Habit is one tracked behavior. CreatedAt is the first day for which
// statistics are computed; a habit has no history before it.
// CurrentStreak and LongestStreak are a denormalized cache maintained
// by the streak worker; the statistics engine is authoritative.
type Habit struct {
	ID           string `json:"id" db:"id"`
	UserID       string `json:"user_id" db:"user_id"`
	Name         string `json:"name" db:"name"`
	Description  string `json:"description,omitempty" db:"description"`
	Color        string `json:"color" db:"color"`
	Icon         string `json:"icon" db:"icon"`
	Category     string `json:"category,omitempty" db:"category"`
	SortOrder    int    `json:"sort_order" db:"sort_order"`
	TrackingType string `json:"tracking_type" db:"tracking_type"`
	TargetCount  int    `json:"target_count" db:"target_count"`
	Unit         string `json:"unit,omitempty" db:"unit"`

	CurrentStreak int `json:"current_streak" db:"current_streak"`
	LongestStreak int `json:"longest_streak" db:"longest_streak"`

	Version    int        `json:"version" db:"version"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty" db:"archived_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func validateHabit(name, desc, color, trackingType string, targetCount int) (string, int, error) {
	trimmedName := strings.TrimSpace(name)
	if trimmedName == "" {
		return "", 0, ErrHabitNameEmpty
	}
	if len(trimmedName) > MaxNameLen {
		return "", 0, ErrHabitNameTooLong
	}

	if len(strings.TrimSpace(desc)) > MaxDescLen {
		return "", 0, ErrHabitDescTooLong
	}

	switch trackingType {
	case TrackingCheckbox, TrackingCounter:
	default:
		return "", 0, ErrInvalidTracking
	}

	finalTarget := targetCount
	if trackingType == TrackingCheckbox {
		finalTarget = 1
	} else if targetCount < 0 {
		return "", 0, ErrInvalidTarget
	}

	if color != "" && !colorRegex.MatchString(color) {
		return "", 0, ErrInvalidColor
	}

	return trimmedName, finalTarget, nil
}

func NewHabit(userID, name, description, color, icon, category, trackingType, unit string, targetCount int) (*Habit, error) {
	if userID == "" {
		return nil, ErrHabitInvalidUserID
	}

	cleanDesc := strings.TrimSpace(description)

	cleanName, safeTarget, err := validateHabit(name, cleanDesc, color, trackingType, targetCount)
	if err != nil {
		return nil, err
	}

	if icon == "" {
		icon = DefaultIcon
	}

	now := time.Now().UTC()

	return &Habit{
		ID:           uuid.New().String(),
		UserID:       userID,
		Name:         cleanName,
		Description:  cleanDesc,
		Color:        color,
		Icon:         icon,
		Category:     category,
		TrackingType: trackingType,
		TargetCount:  safeTarget,
		Unit:         unit,
		SortOrder:    0,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (h *Habit) Update(name, description, color, icon, category, trackingType, unit string, targetCount int) error {
	if h.ArchivedAt != nil {
		return ErrHabitArchived
	}

	cleanDesc := strings.TrimSpace(description)

	cleanName, safeTarget, err := validateHabit(name, cleanDesc, color, trackingType, targetCount)
	if err != nil {
		return err
	}

	if icon == "" {
		icon = DefaultIcon
	}

	h.Name = cleanName
	h.Description = cleanDesc
	h.Color = color
	h.Icon = icon
	h.Category = category
	h.TrackingType = trackingType
	h.TargetCount = safeTarget
	h.Unit = unit
	h.UpdatedAt = time.Now().UTC()

	return nil
}

// IsCounter reports whether daily activity is a numeric quantity
// rather than a yes/no mark.
func (h *Habit) IsCounter() bool {
	return h.TrackingType == TrackingCounter
}

func (h *Habit) ChangePosition(newOrder int) error {
	if h.ArchivedAt != nil {
		return ErrHabitArchived
	}

	h.SortOrder = newOrder
	h.UpdatedAt = time.Now().UTC()
	return nil
}

// UpdateStreak refreshes the denormalized streak cache.
func (h *Habit) UpdateStreak(current, longest int) {
	h.CurrentStreak = current
	h.LongestStreak = longest
	h.UpdatedAt = time.Now().UTC()
}

func (h *Habit) Archive() {
	if h.ArchivedAt != nil {
		return
	}

	now := time.Now().UTC()
	h.ArchivedAt = &now
	h.UpdatedAt = now
}

func (h *Habit) Restore() {
	if h.ArchivedAt == nil {
		return
	}
	h.ArchivedAt = nil
	h.UpdatedAt = time.Now().UTC()
}
