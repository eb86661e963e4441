// Package equipment generates the default equipment inventory for a new home.
package equipment

import (
	"time"

	"github.com/tphummel/homekeep/internal/catalog"
	"github.com/tphummel/homekeep/internal/idgen"
	"github.com/tphummel/homekeep/internal/models"
)

// Defaulter turns a home type's template catalog into equipment records.
// The zero value uses the wall clock and local ids.
type Defaulter struct {
	Now   func() time.Time
	NewID idgen.Func
}

func (d Defaulter) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now().UTC()
}

func (d Defaulter) newID(now time.Time) string {
	if d.NewID != nil {
		return d.NewID(now)
	}
	return idgen.Local(now)
}

// Generate builds one equipment record per template for homeType, in catalog
// order. Unknown home types use the single_family catalog. All records share
// one creation timestamp.
func (d Defaulter) Generate(homeID string, homeType models.HomeType) []models.Equipment {
	templates := catalog.Resolve(homeType)
	now := d.now()

	out := make([]models.Equipment, 0, len(templates))
	for _, tmpl := range templates {
		room := tmpl.Room
		out = append(out, models.Equipment{
			ID:                         d.newID(now),
			HomeID:                     homeID,
			Name:                       tmpl.Name,
			Type:                       tmpl.Type,
			Category:                   tmpl.Category,
			Room:                       tmpl.Room,
			MaintenanceFrequencyMonths: tmpl.MaintenanceFrequencyMonths,
			NextServiceDue:             NextServiceDue(now, tmpl.MaintenanceFrequencyMonths),
			Active:                     true,
			NeedsAttention:             false,
			Location:                   &room,
			CreatedAt:                  now,
			UpdatedAt:                  now,
		})
	}
	return out
}

// Preview returns the equipment names Generate would produce for homeType.
func (d Defaulter) Preview(homeType models.HomeType) []string {
	return catalog.Preview(homeType)
}

// NextServiceDue advances from by months calendar months. Day overflow
// normalizes forward, so Jan 31 plus one month is Mar 2 or Mar 3.
func NextServiceDue(from time.Time, months int) time.Time {
	return from.AddDate(0, months, 0)
}

// GenerateDefaultEquipment generates equipment using the wall clock.
func GenerateDefaultEquipment(homeID string, homeType models.HomeType) []models.Equipment {
	return Defaulter{}.Generate(homeID, homeType)
}

// PreviewForHomeType lists equipment names for homeType.
func PreviewForHomeType(homeType models.HomeType) []string {
	return catalog.Preview(homeType)
}
