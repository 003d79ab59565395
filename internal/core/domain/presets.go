package domain

// PresetHabit is a starter template offered at habit creation.
type PresetHabit struct {
	Name         string `json:"name"`
	Icon         string `json:"icon"`
	Color        string `json:"color"`
	TrackingType string `json:"tracking_type"`
	Description  string `json:"description"`
}

var presetHabits = []PresetHabit{
	{Name: "Morning Workout", Icon: "🏃", Color: "#EF4444", TrackingType: TrackingCheckbox, Description: "Exercise or workout session"},
	{Name: "Drink Water", Icon: "💧", Color: "#3B82F6", TrackingType: TrackingCounter, Description: "Track glasses of water"},
	{Name: "Read Books", Icon: "📚", Color: "#8B5CF6", TrackingType: TrackingCheckbox, Description: "Daily reading habit"},
	{Name: "Meditation", Icon: "🧘", Color: "#10B981", TrackingType: TrackingCheckbox, Description: "Mindfulness practice"},
	{Name: "Sleep 8 Hours", Icon: "💤", Color: "#6366F1", TrackingType: TrackingCheckbox, Description: "Get enough sleep"},
	{Name: "Healthy Meal", Icon: "🥗", Color: "#84CC16", TrackingType: TrackingCheckbox, Description: "Eat nutritious food"},
	{Name: "No Smoking", Icon: "🚭", Color: "#EF4444", TrackingType: TrackingCheckbox, Description: "Stay smoke-free"},
	{Name: "Cigarettes Smoked", Icon: "🚬", Color: "#F59E0B", TrackingType: TrackingCounter, Description: "Track to reduce"},
	{Name: "Journal Writing", Icon: "📝", Color: "#F59E0B", TrackingType: TrackingCheckbox, Description: "Daily journaling"},
	{Name: "Study Session", Icon: "🎯", Color: "#EC4899", TrackingType: TrackingCheckbox, Description: "Focused study time"},
}

// PresetHabits returns the built-in starter catalog. Callers get a
// copy; the catalog itself is immutable.
func PresetHabits() []PresetHabit {
	out := make([]PresetHabit, len(presetHabits))
	copy(out, presetHabits)
	return out
}
