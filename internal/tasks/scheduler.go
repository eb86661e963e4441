// Package tasks builds the maintenance task schedule for a home and the
// labels used to present it.
package tasks

import (
	"slices"
	"time"

	"github.com/tphummel/homekeep/internal/catalog"
	"github.com/tphummel/homekeep/internal/idgen"
	"github.com/tphummel/homekeep/internal/models"
)

// CategorySeasonal is the category of tasks that come from seasonal rules
// rather than from a piece of equipment.
const CategorySeasonal = "Seasonal"

// seasonalRule is a yearly task anchored to a month and day.
type seasonalRule struct {
	Title       string
	Description string
	Month       time.Month
	Day         int
	Priority    models.Priority
}

var seasonalRules = map[models.HomeType][]seasonalRule{
	models.SingleFamily: {
		{"Spring roof and exterior inspection", "Look for missing shingles, damaged siding and clogged downspouts.", time.March, 15, models.PriorityMedium},
		{"Test sump pump", "Pour water into the pit and confirm the pump starts and drains.", time.April, 1, models.PriorityMedium},
		{"Winterize outdoor faucets", "Disconnect hoses and shut off exterior water lines before the first freeze.", time.October, 15, models.PriorityHigh},
	},
	models.Condo: {
		{"Check balcony drainage", "Clear leaves and debris from the balcony drain.", time.April, 1, models.PriorityLow},
		{"Replace HVAC filter for heating season", "Install a fresh filter before the heat comes on.", time.October, 1, models.PriorityMedium},
	},
	models.Apartment: {
		{"Clean window AC before summer", "Wash the filter and wipe the coils before daily use.", time.May, 1, models.PriorityMedium},
		{"Check window seals for drafts", "Report failed seals to the landlord before winter.", time.October, 15, models.PriorityLow},
	},
	models.Townhouse: {
		{"Spring exterior inspection", "Check shared walls, siding and the roofline for damage.", time.March, 15, models.PriorityMedium},
		{"Winterize outdoor faucets", "Disconnect hoses and shut off exterior water lines before the first freeze.", time.October, 15, models.PriorityHigh},
	},
}

// Scheduler generates tasks for a home. The zero value uses the wall clock
// and local ids.
type Scheduler struct {
	Now   func() time.Time
	NewID idgen.Func
}

func (s Scheduler) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s Scheduler) newID(now time.Time) string {
	if s.NewID != nil {
		return s.NewID(now)
	}
	return idgen.Local(now)
}

// Generate returns one service task per equipment record, in equipment order,
// followed by the seasonal tasks for homeType. Unknown home types get the
// single_family seasonal rules.
func (s Scheduler) Generate(homeID string, homeType models.HomeType, equipment []models.Equipment) []models.Task {
	now := s.now()
	rules := seasonalRules[catalog.ResolveHomeType(homeType)]

	out := make([]models.Task, 0, len(equipment)+len(rules))
	for _, e := range equipment {
		eqID := e.ID
		out = append(out, models.Task{
			ID:          s.newID(now),
			HomeID:      homeID,
			EquipmentID: &eqID,
			Title:       "Service " + e.Name,
			Description: serviceDescription(e),
			Category:    e.Category,
			DueDate:     e.NextServiceDue,
			Priority:    PriorityForCategory(e.Category),
			CreatedAt:   now,
		})
	}
	for _, r := range rules {
		out = append(out, models.Task{
			ID:          s.newID(now),
			HomeID:      homeID,
			Title:       r.Title,
			Description: r.Description,
			Category:    CategorySeasonal,
			DueDate:     nextOccurrence(now, r.Month, r.Day),
			Priority:    r.Priority,
			CreatedAt:   now,
		})
	}
	return out
}

func serviceDescription(e models.Equipment) string {
	switch e.MaintenanceFrequencyMonths {
	case 1:
		return "Monthly maintenance for the " + e.Name + " in " + e.Room + "."
	case 12:
		return "Yearly maintenance for the " + e.Name + " in " + e.Room + "."
	default:
		return "Routine maintenance for the " + e.Name + " in " + e.Room + "."
	}
}

// PriorityForCategory maps an equipment category to a task priority.
func PriorityForCategory(category string) models.Priority {
	switch category {
	case "Safety":
		return models.PriorityHigh
	case "Climate Control", "Plumbing":
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}

// nextOccurrence returns the first month/day anchor strictly after now,
// at midnight in now's location.
func nextOccurrence(now time.Time, month time.Month, day int) time.Time {
	t := time.Date(now.Year(), month, day, 0, 0, 0, 0, now.Location())
	if !t.After(now) {
		t = t.AddDate(1, 0, 0)
	}
	return t
}

// Preview returns the first n tasks ordered by due date. Tasks with the same
// due date keep their input order. tasks is not modified.
func Preview(tasks []models.Task, n int) []models.Task {
	sorted := slices.Clone(tasks)
	slices.SortStableFunc(sorted, func(a, b models.Task) int {
		return a.DueDate.Compare(b.DueDate)
	})
	if n >= 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
