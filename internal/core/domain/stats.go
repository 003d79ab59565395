package domain

// Trend classification for counter habits.
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// HabitSummary is the coarse snapshot shared by both tracking types.
type HabitSummary struct {
	TotalDays      int     `json:"total_days"`
	CompletedDays  int     `json:"completed_days"`
	CurrentStreak  int     `json:"current_streak"`
	LongestStreak  int     `json:"longest_streak"`
	CompletionRate float64 `json:"completion_rate"`
}

// DayStatus tags one calendar day as completed or not.
type DayStatus struct {
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

// DayCount is one calendar day with its recorded quantity.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// WeekCount is one week bucket, keyed by its start-of-week day.
type WeekCount struct {
	WeekStart string `json:"week_start"`
	Count     int    `json:"count"`
}

// WeekdayRate is a weekday with its completion percentage.
type WeekdayRate struct {
	Day  string  `json:"day"`
	Rate float64 `json:"rate"`
}

// MonthRate is a YYYY-MM month with its completion percentage.
type MonthRate struct {
	Month string  `json:"month"`
	Rate  float64 `json:"rate"`
}

// CheckboxStats is the full analytics snapshot for a checkbox habit.
type CheckboxStats struct {
	TotalDays      int     `json:"total_days"`
	CompletedDays  int     `json:"completed_days"`
	CurrentStreak  int     `json:"current_streak"`
	LongestStreak  int     `json:"longest_streak"`
	CompletionRate float64 `json:"completion_rate"`

	// WeeklyBreakdown holds the completion percentage per weekday,
	// Sunday = 0.
	WeeklyBreakdown [7]float64  `json:"weekly_breakdown"`
	BestDay         WeekdayRate `json:"best_day"`
	WorstDay        WeekdayRate `json:"worst_day"`

	MonthlyData []MonthRate `json:"monthly_data"`
	Last30Days  []DayStatus `json:"last_30_days"`
}

// CounterStats is the full analytics snapshot for a counter habit.
type CounterStats struct {
	TotalCount     int     `json:"total_count"`
	DailyAverage   float64 `json:"daily_average"`
	WeeklyAverage  float64 `json:"weekly_average"`
	MonthlyAverage float64 `json:"monthly_average"`

	PeakDay  DayCount  `json:"peak_day"`
	PeakWeek WeekCount `json:"peak_week"`

	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`

	Trend           string  `json:"trend"`
	TrendPercentage float64 `json:"trend_percentage"`

	// WeeklyBreakdown holds the average count per weekday, Sunday = 0.
	// Unlike the checkbox variant this is not a percentage; counters
	// are not binary.
	WeeklyBreakdown [7]float64 `json:"weekly_breakdown"`

	DailyData  []DayCount  `json:"daily_data"`
	WeeklyData []WeekCount `json:"weekly_data"`
}
