package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbocchetta/habitflow-engine/internal/core/domain"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func checkboxHabit(createdAt string) *domain.Habit {
	return &domain.Habit{
		ID:           "habit-1",
		UserID:       "user-1",
		Name:         "Meditate",
		TrackingType: domain.TrackingCheckbox,
		TargetCount:  1,
		CreatedAt:    day(createdAt),
	}
}

func counterHabit(createdAt string) *domain.Habit {
	return &domain.Habit{
		ID:           "habit-1",
		UserID:       "user-1",
		Name:         "Pushups",
		TrackingType: domain.TrackingCounter,
		TargetCount:  30,
		CreatedAt:    day(createdAt),
	}
}

func done(dayKey string) *domain.Completion {
	return &domain.Completion{
		ID:        "c-" + dayKey,
		HabitID:   "habit-1",
		UserID:    "user-1",
		Day:       day(dayKey),
		Completed: true,
	}
}

func counted(dayKey string, count int) *domain.Completion {
	return &domain.Completion{
		ID:        "c-" + dayKey,
		HabitID:   "habit-1",
		UserID:    "user-1",
		Day:       day(dayKey),
		Completed: count > 0,
		Count:     count,
	}
}

func TestActiveDays(t *testing.T) {
	t.Run("Success: checkbox habits use the toggle flag", func(t *testing.T) {
		habit := checkboxHabit("2024-01-01")
		completions := []*domain.Completion{
			done("2024-01-01"),
			{ID: "c-x", HabitID: "habit-1", Day: day("2024-01-02"), Completed: false},
		}

		days := ActiveDays(habit, completions)

		assert.Contains(t, days, "2024-01-01")
		assert.NotContains(t, days, "2024-01-02")
	})

	t.Run("Success: counter habits use count > 0", func(t *testing.T) {
		habit := counterHabit("2024-01-01")
		completions := []*domain.Completion{
			counted("2024-01-01", 5),
			counted("2024-01-02", 0),
		}

		days := ActiveDays(habit, completions)

		assert.Contains(t, days, "2024-01-01")
		assert.NotContains(t, days, "2024-01-02")
	})

	t.Run("Edge Case: records for another habit are ignored", func(t *testing.T) {
		habit := checkboxHabit("2024-01-01")
		foreign := done("2024-01-01")
		foreign.HabitID = "habit-2"

		days := ActiveDays(habit, []*domain.Completion{foreign})

		assert.Empty(t, days)
	})

	t.Run("Edge Case: duplicate records collapse into one day", func(t *testing.T) {
		habit := checkboxHabit("2024-01-01")
		days := ActiveDays(habit, []*domain.Completion{
			done("2024-01-01"),
			done("2024-01-01"),
		})

		assert.Len(t, days, 1)
	})
}

func TestCurrentStreak(t *testing.T) {
	days := map[string]struct{}{
		"2024-01-05": {},
		"2024-01-06": {},
		"2024-01-07": {},
	}

	t.Run("Success: counts back from an active asOf day", func(t *testing.T) {
		assert.Equal(t, 3, CurrentStreak(days, day("2024-01-07")))
	})

	t.Run("Success: grace day keeps yesterday's streak alive", func(t *testing.T) {
		assert.Equal(t, 3, CurrentStreak(days, day("2024-01-08")))
	})

	t.Run("Edge Case: two missed days break the streak", func(t *testing.T) {
		assert.Equal(t, 0, CurrentStreak(days, day("2024-01-09")))
	})

	t.Run("Edge Case: empty set yields zero", func(t *testing.T) {
		assert.Equal(t, 0, CurrentStreak(map[string]struct{}{}, day("2024-01-07")))
	})
}

func TestLongestStreak(t *testing.T) {
	t.Run("Success: finds the longest run among gaps", func(t *testing.T) {
		days := map[string]struct{}{
			"2024-01-01": {},
			"2024-01-02": {},
			"2024-01-05": {},
			"2024-01-06": {},
			"2024-01-07": {},
		}
		assert.Equal(t, 3, LongestStreak(days))
	})

	t.Run("Edge Case: single day yields one", func(t *testing.T) {
		assert.Equal(t, 1, LongestStreak(map[string]struct{}{"2024-01-01": {}}))
	})

	t.Run("Edge Case: empty set yields zero", func(t *testing.T) {
		assert.Equal(t, 0, LongestStreak(map[string]struct{}{}))
	})

	t.Run("Success: runs spanning a month boundary", func(t *testing.T) {
		days := map[string]struct{}{
			"2024-01-31": {},
			"2024-02-01": {},
			"2024-02-02": {},
		}
		assert.Equal(t, 3, LongestStreak(days))
	})
}

func TestSummary(t *testing.T) {
	t.Run("Success: week with one gap day", func(t *testing.T) {
		habit := checkboxHabit("2024-01-01")
		completions := []*domain.Completion{
			done("2024-01-01"), done("2024-01-02"), done("2024-01-03"),
			done("2024-01-05"), done("2024-01-06"), done("2024-01-07"),
		}

		s := Summary(habit, completions, day("2024-01-07"))

		assert.Equal(t, 7, s.TotalDays)
		assert.Equal(t, 6, s.CompletedDays)
		assert.Equal(t, 3, s.CurrentStreak)
		assert.Equal(t, 3, s.LongestStreak)
		assert.InDelta(t, 85.7, s.CompletionRate, 0.1)
	})

	t.Run("Edge Case: evaluation date before creation clamps to one day", func(t *testing.T) {
		habit := checkboxHabit("2024-06-01")

		s := Summary(habit, nil, day("2024-05-20"))

		assert.Equal(t, 1, s.TotalDays)
		assert.Equal(t, 0, s.CompletedDays)
		assert.Equal(t, float64(0), s.CompletionRate)
	})

	t.Run("Edge Case: nil habit yields the zero summary", func(t *testing.T) {
		s := Summary(nil, []*domain.Completion{done("2024-01-01")}, day("2024-01-07"))
		assert.Equal(t, domain.HabitSummary{}, s)
	})

	t.Run("Edge Case: completions outside the range do not count", func(t *testing.T) {
		habit := checkboxHabit("2024-01-05")
		completions := []*domain.Completion{
			done("2024-01-01"),
			done("2024-01-05"),
			done("2024-01-20"),
		}

		s := Summary(habit, completions, day("2024-01-07"))

		assert.Equal(t, 3, s.TotalDays)
		assert.Equal(t, 1, s.CompletedDays)
	})

	t.Run("Success: completion rate never exceeds 100", func(t *testing.T) {
		habit := checkboxHabit("2024-01-07")
		completions := []*domain.Completion{done("2024-01-07")}

		s := Summary(habit, completions, day("2024-01-07"))

		assert.LessOrEqual(t, s.CompletionRate, float64(100))
	})

	t.Run("Success: deterministic for identical inputs", func(t *testing.T) {
		habit := checkboxHabit("2024-01-01")
		completions := []*domain.Completion{done("2024-01-02"), done("2024-01-04")}

		first := Summary(habit, completions, day("2024-01-07"))
		second := Summary(habit, completions, day("2024-01-07"))

		assert.Equal(t, first, second)
	})
}

func TestCheckbox(t *testing.T) {
	t.Run("Success: breakdown rates and best/worst weekdays", func(t *testing.T) {
		// 2024-01-01 is a Monday; two full weeks evaluated on the
		// second Sunday. Both Mondays done, one Tuesday done.
		habit := checkboxHabit("2024-01-01")
		completions := []*domain.Completion{
			done("2024-01-01"),
			done("2024-01-02"),
			done("2024-01-08"),
		}

		s := Checkbox(habit, completions, day("2024-01-14"))

		assert.Equal(t, float64(100), s.WeeklyBreakdown[1])
		assert.Equal(t, float64(50), s.WeeklyBreakdown[2])
		assert.Equal(t, float64(0), s.WeeklyBreakdown[0])
		assert.Equal(t, "Monday", s.BestDay.Day)
		assert.Equal(t, float64(100), s.BestDay.Rate)
		assert.Equal(t, float64(0), s.WorstDay.Rate)
	})

	t.Run("Success: monthly buckets in chronological order", func(t *testing.T) {
		habit := checkboxHabit("2024-01-30")
		completions := []*domain.Completion{
			done("2024-01-30"), done("2024-01-31"), done("2024-02-01"),
		}

		s := Checkbox(habit, completions, day("2024-02-02"))

		require.Len(t, s.MonthlyData, 2)
		assert.Equal(t, "2024-01", s.MonthlyData[0].Month)
		assert.Equal(t, float64(100), s.MonthlyData[0].Rate)
		assert.Equal(t, "2024-02", s.MonthlyData[1].Month)
		assert.Equal(t, float64(50), s.MonthlyData[1].Rate)
	})

	t.Run("Success: heatmap always spans thirty days ending today", func(t *testing.T) {
		habit := checkboxHabit("2024-03-10")
		completions := []*domain.Completion{done("2024-03-10")}

		s := Checkbox(habit, completions, day("2024-03-12"))

		require.Len(t, s.Last30Days, 30)
		assert.Equal(t, "2024-02-12", s.Last30Days[0].Date)
		assert.Equal(t, "2024-03-12", s.Last30Days[29].Date)
		assert.True(t, s.Last30Days[27].Completed)
		assert.False(t, s.Last30Days[29].Completed)
	})

	t.Run("Edge Case: nil habit yields zero stats", func(t *testing.T) {
		s := Checkbox(nil, nil, day("2024-01-07"))
		assert.Equal(t, domain.CheckboxStats{}, s)
	})

	t.Run("Edge Case: habit created today has exactly one weekday bucket", func(t *testing.T) {
		habit := checkboxHabit("2024-01-03")

		s := Checkbox(habit, nil, day("2024-01-03"))

		assert.Equal(t, 1, s.TotalDays)
		// 2024-01-03 is a Wednesday; it is both best and worst.
		assert.Equal(t, "Wednesday", s.BestDay.Day)
		assert.Equal(t, "Wednesday", s.WorstDay.Day)
	})
}

func TestCounter(t *testing.T) {
	t.Run("Success: seven-day counter totals and peak", func(t *testing.T) {
		habit := counterHabit("2024-01-01")
		counts := []int{2, 0, 5, 0, 0, 3, 1}
		var completions []*domain.Completion
		for i, c := range counts {
			completions = append(completions, counted(day("2024-01-01").AddDate(0, 0, i).Format("2006-01-02"), c))
		}

		s := Counter(habit, completions, day("2024-01-07"))

		assert.Equal(t, 11, s.TotalCount)
		assert.InDelta(t, 1.57, s.DailyAverage, 0.01)
		assert.Equal(t, "2024-01-03", s.PeakDay.Date)
		assert.Equal(t, 5, s.PeakDay.Count)
		assert.Equal(t, 2, s.CurrentStreak)
		assert.Equal(t, 2, s.LongestStreak)
		require.Len(t, s.DailyData, 7)
	})

	t.Run("Success: weekly growth of 50 percent reads as up", func(t *testing.T) {
		// Two full Monday-start weeks: 10 total, then 15 total.
		habit := counterHabit("2024-01-01")
		completions := []*domain.Completion{
			counted("2024-01-01", 10),
			counted("2024-01-08", 15),
		}

		s := Counter(habit, completions, day("2024-01-14"))

		require.Len(t, s.WeeklyData, 2)
		assert.Equal(t, domain.TrendUp, s.Trend)
		assert.InDelta(t, 50, s.TrendPercentage, 0.001)
		assert.Equal(t, "2024-01-08", s.PeakWeek.WeekStart)
		assert.Equal(t, 15, s.PeakWeek.Count)
	})

	t.Run("Success: weekly decline reads as down with absolute magnitude", func(t *testing.T) {
		habit := counterHabit("2024-01-01")
		completions := []*domain.Completion{
			counted("2024-01-01", 20),
			counted("2024-01-08", 10),
		}

		s := Counter(habit, completions, day("2024-01-14"))

		assert.Equal(t, domain.TrendDown, s.Trend)
		assert.InDelta(t, 50, s.TrendPercentage, 0.001)
	})

	t.Run("Edge Case: silent first half reads as stable", func(t *testing.T) {
		habit := counterHabit("2024-01-01")
		completions := []*domain.Completion{
			counted("2024-01-08", 10),
		}

		s := Counter(habit, completions, day("2024-01-14"))

		assert.Equal(t, domain.TrendStable, s.Trend)
		assert.Equal(t, float64(0), s.TrendPercentage)
	})

	t.Run("Edge Case: nil habit yields zero stats with a stable trend", func(t *testing.T) {
		s := Counter(nil, nil, day("2024-01-07"))

		assert.Equal(t, 0, s.TotalCount)
		assert.Equal(t, domain.TrendStable, s.Trend)
	})

	t.Run("Success: weekday breakdown averages per occurrence", func(t *testing.T) {
		// Two Mondays with 10 and 20, everything else zero.
		habit := counterHabit("2024-01-01")
		completions := []*domain.Completion{
			counted("2024-01-01", 10),
			counted("2024-01-08", 20),
		}

		s := Counter(habit, completions, day("2024-01-14"))

		assert.Equal(t, float64(15), s.WeeklyBreakdown[1])
		assert.Equal(t, float64(0), s.WeeklyBreakdown[0])
	})

	t.Run("Success: order of completion records does not matter", func(t *testing.T) {
		habit := counterHabit("2024-01-01")
		forward := []*domain.Completion{
			counted("2024-01-01", 3), counted("2024-01-02", 7), counted("2024-01-03", 1),
		}
		reversed := []*domain.Completion{
			counted("2024-01-03", 1), counted("2024-01-02", 7), counted("2024-01-01", 3),
		}

		assert.Equal(t,
			Counter(habit, forward, day("2024-01-05")),
			Counter(habit, reversed, day("2024-01-05")))
	})

	t.Run("Edge Case: peak ties resolve to the earliest day", func(t *testing.T) {
		habit := counterHabit("2024-01-01")
		completions := []*domain.Completion{
			counted("2024-01-02", 5),
			counted("2024-01-04", 5),
		}

		s := Counter(habit, completions, day("2024-01-05"))

		assert.Equal(t, "2024-01-02", s.PeakDay.Date)
	})

	t.Run("Success: only the last four weeks feed the trend", func(t *testing.T) {
		// Six Monday-start weeks: a huge early spike must not affect
		// the trend computed over the final four.
		habit := counterHabit("2024-01-01")
		completions := []*domain.Completion{
			counted("2024-01-01", 1000),
			counted("2024-01-15", 10),
			counted("2024-01-22", 10),
			counted("2024-01-29", 10),
			counted("2024-02-05", 10),
		}

		s := Counter(habit, completions, day("2024-02-11"))

		assert.Equal(t, domain.TrendStable, s.Trend)
	})
}
