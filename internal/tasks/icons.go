package tasks

// DefaultIcon is used for categories without a dedicated icon.
const DefaultIcon = "construct"

var categoryIcons = map[string]string{
	"Climate Control": "thermometer",
	"Plumbing":        "water",
	"Appliances":      "cube",
	"Mechanical":      "cog",
	"Safety":          "shield-checkmark",
	"Exterior":        "home",
	CategorySeasonal:  "leaf",
}

// IconKey returns the icon key for a task category.
func IconKey(category string) string {
	if icon, ok := categoryIcons[category]; ok {
		return icon
	}
	return DefaultIcon
}
