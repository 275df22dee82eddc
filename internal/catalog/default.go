package catalog

import (
	"sync"

	"github.com/rcliao/pair-assessment/internal/model"
)

var defaultGroups = []Group{
	{Name: "Household", Attributes: []model.Attribute{
		{ID: "h1", Label: "Laundry Cycles"},
		{ID: "h2", Label: "Meal Planning"},
		{ID: "h3", Label: "Grocery Logistics"},
		{ID: "h4", Label: "Tidying/Clutter"},
		{ID: "h5", Label: "Home Maintenance"},
		{ID: "h6", Label: "Pet/Child Schedules"},
	}},
	{Name: "Financial & Admin", Attributes: []model.Attribute{
		{ID: "f1", Label: "Bill Payments"},
		{ID: "f2", Label: "Long-term Saving"},
		{ID: "f3", Label: "Impulse Spending"},
		{ID: "f4", Label: "Filing/Documents"},
		{ID: "f5", Label: "Appointment Booking"},
		{ID: "f6", Label: "Email Management"},
	}},
	{Name: "Emotional & Social", Attributes: []model.Attribute{
		{ID: "e1", Label: "Rejection Sensitivity"},
		{ID: "e2", Label: "Active Listening"},
		{ID: "e3", Label: "Social Battery Management"},
		{ID: "e4", Label: "Conflict Resolution"},
		{ID: "e5", Label: "Tone of Voice"},
		{ID: "e6", Label: "Sharing the Mic"},
	}},
	{Name: "Executive Function", Attributes: []model.Attribute{
		{ID: "x1", Label: "Time Blindness"},
		{ID: "x2", Label: "Task Initiation"},
		{ID: "x3", Label: "Working Memory"},
		{ID: "x4", Label: "Transitioning"},
		{ID: "x5", Label: "Hyperfocus Management"},
		{ID: "x6", Label: "Prioritization"},
	}},
	{Name: "Physical & Sensory", Attributes: []model.Attribute{
		{ID: "s1", Label: "Sensory Overload"},
		{ID: "s2", Label: "Sleep Hygiene"},
		{ID: "s3", Label: "Consistent Exercise"},
		{ID: "s4", Label: "Dopamine Seeking"},
		{ID: "s5", Label: "Personal Hygiene"},
		{ID: "s6", Label: "Morning Routines"},
	}},
}

var scale = []model.ScaleLevel{
	{Value: 1, Label: "No Struggle", Description: "Easy, automatic, or non-impactful."},
	{Value: 2, Label: "Mild", Description: "Occasionally requires effort/reminders."},
	{Value: 3, Label: "Moderate", Description: "Significant effort; causes regular friction."},
	{Value: 4, Label: "Severe", Description: "Highly impactful; causes frequent failure."},
	{Value: 5, Label: "Constant", Description: "Overwhelming; requires external support."},
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the compiled-in reference catalog: five categories of six
// attributes each. It is built once and shared.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := New(defaultGroups...)
		if err != nil {
			panic("catalog: invalid default catalog: " + err.Error())
		}
		defaultCat = c
	})
	return defaultCat
}

// Scale returns the five-level rating guide.
func Scale() []model.ScaleLevel {
	out := make([]model.ScaleLevel, len(scale))
	copy(out, scale)
	return out
}

// ScaleLabel returns the label for a score value, or "" when out of range.
func ScaleLabel(v int) string {
	if v < model.MinScore || v > model.MaxScore {
		return ""
	}
	return scale[v-1].Label
}
