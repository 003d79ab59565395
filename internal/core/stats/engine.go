// Package stats is the habit statistics engine. Every function is a
// pure computation over the habit snapshot, its completion log and an
// explicit evaluation date: no clock, no I/O, no retained state. Given
// the same inputs the output is always identical, and the functions
// are total: bad ranges clamp and unknown habits yield zero values
// instead of errors.
package stats

import (
	"sort"
	"time"

	"github.com/gbocchetta/habitflow-engine/internal/core/dates"
	"github.com/gbocchetta/habitflow-engine/internal/core/domain"
)

// trendThreshold is the percentage above which a counter habit is
// classified as trending up (or below the negation, down).
const trendThreshold = 5.0

// ActiveDays builds the set of YYYY-MM-DD day keys on which the habit
// saw activity: the toggle state for checkbox habits, count > 0 for
// counters. Duplicate records for a day collapse into one key.
func ActiveDays(habit *domain.Habit, completions []*domain.Completion) map[string]struct{} {
	days := make(map[string]struct{}, len(completions))
	counter := habit != nil && habit.IsCounter()

	for _, c := range completions {
		if c.HabitID != "" && habit != nil && c.HabitID != habit.ID {
			continue
		}
		active := c.Completed
		if counter {
			active = c.Count > 0
		}
		if active {
			days[c.DayKey()] = struct{}{}
		}
	}
	return days
}

// CurrentStreak counts consecutive active days ending at asOf. If asOf
// itself is not active the count starts from the day before, so a
// streak stays alive until a whole day passes without activity.
func CurrentStreak(days map[string]struct{}, asOf time.Time) int {
	day := dates.Truncate(asOf)
	if _, ok := days[dates.Format(day)]; !ok {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for {
		if _, ok := days[dates.Format(day)]; !ok {
			return streak
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}

// LongestStreak finds the longest run of consecutive calendar days in
// the set. An empty set yields 0; a single day yields 1.
func LongestStreak(days map[string]struct{}) int {
	if len(days) == 0 {
		return 0
	}

	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	longest := 1
	run := 1
	for i := 1; i < len(keys); i++ {
		prev, err1 := dates.Parse(keys[i-1])
		curr, err2 := dates.Parse(keys[i])
		if err1 != nil || err2 != nil {
			continue
		}
		if dates.SameDay(prev.AddDate(0, 0, 1), curr) {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	return longest
}

// eligibleDays clamps and counts the day range [createdAt, today]. A
// habit created today has exactly one eligible day, and a today that
// precedes creation (clock skew) clamps to 1 as well.
func eligibleDays(createdAt, today time.Time) int {
	n := dates.DaysBetweenInclusive(createdAt, today)
	if n < 1 {
		return 1
	}
	return n
}

// Summary computes the coarse statistics shared by both tracking
// types. A nil habit yields the zero-valued summary.
func Summary(habit *domain.Habit, completions []*domain.Completion, today time.Time) domain.HabitSummary {
	if habit == nil {
		return domain.HabitSummary{}
	}

	today = dates.Truncate(today)
	active := ActiveDays(habit, completions)
	totalDays := eligibleDays(habit.CreatedAt, today)

	completedDays := 0
	start := dates.Truncate(habit.CreatedAt)
	for key := range active {
		d, err := dates.Parse(key)
		if err != nil {
			continue
		}
		if !d.Before(start) && !d.After(today) {
			completedDays++
		}
	}

	rate := float64(completedDays) / float64(totalDays) * 100
	if rate > 100 {
		rate = 100
	}

	return domain.HabitSummary{
		TotalDays:      totalDays,
		CompletedDays:  completedDays,
		CurrentStreak:  CurrentStreak(active, today),
		LongestStreak:  LongestStreak(active),
		CompletionRate: rate,
	}
}

// Checkbox computes the full analytics snapshot for a checkbox habit.
func Checkbox(habit *domain.Habit, completions []*domain.Completion, today time.Time) domain.CheckboxStats {
	if habit == nil {
		return domain.CheckboxStats{}
	}

	today = dates.Truncate(today)
	active := ActiveDays(habit, completions)
	summary := Summary(habit, completions, today)

	out := domain.CheckboxStats{
		TotalDays:      summary.TotalDays,
		CompletedDays:  summary.CompletedDays,
		CurrentStreak:  summary.CurrentStreak,
		LongestStreak:  summary.LongestStreak,
		CompletionRate: summary.CompletionRate,
	}

	start := dates.Truncate(habit.CreatedAt)
	if start.After(today) {
		start = today
	}

	// Per-weekday eligible occurrences and completions over the range.
	var weekdayTotal, weekdayDone [7]int
	monthTotal := map[string]int{}
	monthDone := map[string]int{}
	var monthKeys []string

	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := dates.Format(d)
		wd := dates.DayOfWeek(d)
		month := key[:7]

		weekdayTotal[wd]++
		if _, ok := monthTotal[month]; !ok {
			monthKeys = append(monthKeys, month)
		}
		monthTotal[month]++

		if _, ok := active[key]; ok {
			weekdayDone[wd]++
			monthDone[month]++
		}
	}

	best := domain.WeekdayRate{Rate: -1}
	worst := domain.WeekdayRate{Rate: -1}
	for wd := 0; wd < 7; wd++ {
		if weekdayTotal[wd] == 0 {
			// Zero eligible occurrences contribute 0%, and the weekday
			// is excluded from best/worst selection.
			continue
		}
		rate := float64(weekdayDone[wd]) / float64(weekdayTotal[wd]) * 100
		out.WeeklyBreakdown[wd] = rate

		if best.Rate < 0 || rate > best.Rate {
			best = domain.WeekdayRate{Day: dates.DayNames[wd], Rate: rate}
		}
		if worst.Rate < 0 || rate < worst.Rate {
			worst = domain.WeekdayRate{Day: dates.DayNames[wd], Rate: rate}
		}
	}
	if best.Rate >= 0 {
		out.BestDay = best
		out.WorstDay = worst
	}

	for _, month := range monthKeys {
		rate := float64(monthDone[month]) / float64(monthTotal[month]) * 100
		out.MonthlyData = append(out.MonthlyData, domain.MonthRate{Month: month, Rate: rate})
	}

	// The heatmap window ignores CreatedAt on purpose: days before
	// creation simply read as not completed.
	out.Last30Days = make([]domain.DayStatus, 0, 30)
	for i := 29; i >= 0; i-- {
		d := today.AddDate(0, 0, -i)
		key := dates.Format(d)
		_, done := active[key]
		out.Last30Days = append(out.Last30Days, domain.DayStatus{Date: key, Completed: done})
	}

	return out
}

// Counter computes the full analytics snapshot for a counter habit.
func Counter(habit *domain.Habit, completions []*domain.Completion, today time.Time) domain.CounterStats {
	if habit == nil {
		return domain.CounterStats{Trend: domain.TrendStable}
	}

	today = dates.Truncate(today)
	counts := make(map[string]int, len(completions))
	for _, c := range completions {
		if c.HabitID != "" && c.HabitID != habit.ID {
			continue
		}
		counts[c.DayKey()] = c.Count
	}

	start := dates.Truncate(habit.CreatedAt)
	if start.After(today) {
		start = today
	}
	totalDays := eligibleDays(habit.CreatedAt, today)

	out := domain.CounterStats{Trend: domain.TrendStable}

	var weekdaySum, weekdayOccur [7]int
	weekSums := map[string]int{}
	var weekKeys []string
	monthsSeen := map[string]struct{}{}

	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := dates.Format(d)
		count := counts[key]
		wd := dates.DayOfWeek(d)

		out.DailyData = append(out.DailyData, domain.DayCount{Date: key, Count: count})
		out.TotalCount += count

		weekdaySum[wd] += count
		weekdayOccur[wd]++

		week := dates.Format(dates.WeekStart(d, dates.DefaultWeekStart))
		if _, ok := weekSums[week]; !ok {
			weekKeys = append(weekKeys, week)
		}
		weekSums[week] += count

		monthsSeen[key[:7]] = struct{}{}

		// Ties resolve to the earliest day, hence the strict compare.
		if count > out.PeakDay.Count {
			out.PeakDay = domain.DayCount{Date: key, Count: count}
		}
	}

	out.DailyAverage = float64(out.TotalCount) / float64(totalDays)
	if len(weekKeys) > 0 {
		out.WeeklyAverage = float64(out.TotalCount) / float64(len(weekKeys))
	}
	if len(monthsSeen) > 0 {
		out.MonthlyAverage = float64(out.TotalCount) / float64(len(monthsSeen))
	}

	for _, week := range weekKeys {
		sum := weekSums[week]
		out.WeeklyData = append(out.WeeklyData, domain.WeekCount{WeekStart: week, Count: sum})
		if sum > out.PeakWeek.Count {
			out.PeakWeek = domain.WeekCount{WeekStart: week, Count: sum}
		}
	}

	for wd := 0; wd < 7; wd++ {
		if weekdayOccur[wd] > 0 {
			out.WeeklyBreakdown[wd] = float64(weekdaySum[wd]) / float64(weekdayOccur[wd])
		}
	}

	// "Activity happened" is the completion signal for counters.
	active := ActiveDays(habit, completions)
	out.CurrentStreak = CurrentStreak(active, today)
	out.LongestStreak = LongestStreak(active)

	out.Trend, out.TrendPercentage = trend(out.WeeklyData)

	return out
}

// trend compares the earlier and later halves of the most recent four
// week buckets. A zero first-half mean reads as stable rather than a
// division blowup, and the reported magnitude is absolute.
func trend(weeks []domain.WeekCount) (string, float64) {
	if len(weeks) > 4 {
		weeks = weeks[len(weeks)-4:]
	}
	if len(weeks) < 2 {
		return domain.TrendStable, 0
	}

	half := len(weeks) / 2
	firstMean := weekMean(weeks[:half])
	secondMean := weekMean(weeks[half:])

	if firstMean == 0 {
		return domain.TrendStable, 0
	}

	pct := (secondMean - firstMean) / firstMean * 100

	switch {
	case pct > trendThreshold:
		return domain.TrendUp, abs(pct)
	case pct < -trendThreshold:
		return domain.TrendDown, abs(pct)
	default:
		return domain.TrendStable, abs(pct)
	}
}

func weekMean(weeks []domain.WeekCount) float64 {
	if len(weeks) == 0 {
		return 0
	}
	sum := 0
	for _, w := range weeks {
		sum += w.Count
	}
	return float64(sum) / float64(len(weeks))
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
