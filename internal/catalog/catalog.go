// Package catalog holds the static equipment templates for each home type.
package catalog

import "github.com/tphummel/homekeep/internal/models"

// DefaultHomeType is used when a home type has no catalog of its own.
const DefaultHomeType = models.SingleFamily

var catalogs = map[models.HomeType][]models.EquipmentTemplate{
	models.SingleFamily: {
		{Name: "HVAC System", Type: "hvac_system", Category: "Climate Control", MaintenanceFrequencyMonths: 6, Room: "Utility Room"},
		{Name: "Water Heater", Type: "water_heater", Category: "Plumbing", MaintenanceFrequencyMonths: 12, Room: "Basement/Utility"},
		{Name: "Kitchen Refrigerator", Type: "refrigerator", Category: "Appliances", MaintenanceFrequencyMonths: 6, Room: "Kitchen"},
		{Name: "Washer", Type: "washer", Category: "Appliances", MaintenanceFrequencyMonths: 3, Room: "Laundry Room"},
		{Name: "Dryer", Type: "dryer", Category: "Appliances", MaintenanceFrequencyMonths: 3, Room: "Laundry Room"},
		{Name: "Garage Door Opener", Type: "garage_door_opener", Category: "Mechanical", MaintenanceFrequencyMonths: 12, Room: "Garage"},
		{Name: "Smoke Detectors", Type: "smoke_detector", Category: "Safety", MaintenanceFrequencyMonths: 6, Room: "Throughout House"},
		{Name: "Gutters", Type: "gutters", Category: "Exterior", MaintenanceFrequencyMonths: 6, Room: "Exterior"},
	},
	models.Condo: {
		{Name: "HVAC System", Type: "hvac_system", Category: "Climate Control", MaintenanceFrequencyMonths: 6, Room: "Utility Closet"},
		{Name: "Water Heater", Type: "water_heater", Category: "Plumbing", MaintenanceFrequencyMonths: 12, Room: "Utility Closet"},
		{Name: "Kitchen Refrigerator", Type: "refrigerator", Category: "Appliances", MaintenanceFrequencyMonths: 6, Room: "Kitchen"},
		{Name: "Washer/Dryer Combo", Type: "washer_dryer_combo", Category: "Appliances", MaintenanceFrequencyMonths: 3, Room: "Laundry Closet"},
		{Name: "Smoke Detectors", Type: "smoke_detector", Category: "Safety", MaintenanceFrequencyMonths: 6, Room: "Throughout Unit"},
		{Name: "Balcony/Patio", Type: "balcony_patio", Category: "Exterior", MaintenanceFrequencyMonths: 3, Room: "Balcony"},
	},
	models.Apartment: {
		{Name: "Kitchen Refrigerator", Type: "refrigerator", Category: "Appliances", MaintenanceFrequencyMonths: 6, Room: "Kitchen"},
		{Name: "Smoke Detectors", Type: "smoke_detector", Category: "Safety", MaintenanceFrequencyMonths: 6, Room: "Throughout Unit"},
		{Name: "Air Conditioner (Window/Portable)", Type: "air_conditioner", Category: "Climate Control", MaintenanceFrequencyMonths: 3, Room: "Living Room/Bedroom"},
	},
	models.Townhouse: {
		{Name: "HVAC System", Type: "hvac_system", Category: "Climate Control", MaintenanceFrequencyMonths: 6, Room: "Utility Room"},
		{Name: "Water Heater", Type: "water_heater", Category: "Plumbing", MaintenanceFrequencyMonths: 12, Room: "Utility Room"},
		{Name: "Kitchen Refrigerator", Type: "refrigerator", Category: "Appliances", MaintenanceFrequencyMonths: 6, Room: "Kitchen"},
		{Name: "Washer", Type: "washer", Category: "Appliances", MaintenanceFrequencyMonths: 3, Room: "Laundry Room"},
		{Name: "Dryer", Type: "dryer", Category: "Appliances", MaintenanceFrequencyMonths: 3, Room: "Laundry Room"},
		{Name: "Smoke Detectors", Type: "smoke_detector", Category: "Safety", MaintenanceFrequencyMonths: 6, Room: "Throughout House"},
	},
}

// Known reports whether homeType has its own catalog.
func Known(homeType models.HomeType) bool {
	_, ok := catalogs[homeType]
	return ok
}

// ResolveHomeType returns homeType if it is known, otherwise DefaultHomeType.
func ResolveHomeType(homeType models.HomeType) models.HomeType {
	if Known(homeType) {
		return homeType
	}
	return DefaultHomeType
}

// Resolve returns the ordered templates for homeType. Unknown home types
// get the single_family catalog. The returned slice is a copy.
func Resolve(homeType models.HomeType) []models.EquipmentTemplate {
	src := catalogs[ResolveHomeType(homeType)]
	out := make([]models.EquipmentTemplate, len(src))
	copy(out, src)
	return out
}

// Preview returns the template names for homeType in catalog order.
func Preview(homeType models.HomeType) []string {
	src := catalogs[ResolveHomeType(homeType)]
	names := make([]string, len(src))
	for i, tmpl := range src {
		names[i] = tmpl.Name
	}
	return names
}
