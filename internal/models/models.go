package models

import "time"

// HomeType classifies a home and selects its equipment template catalog.
type HomeType string

const (
	SingleFamily HomeType = "single_family"
	Condo        HomeType = "condo"
	Apartment    HomeType = "apartment"
	Townhouse    HomeType = "townhouse"
)

// ValidHomeTypes is the set of known home type values.
var ValidHomeTypes = map[HomeType]bool{
	SingleFamily: true,
	Condo:        true,
	Apartment:    true,
	Townhouse:    true,
}

// HomeTypes lists the known home types in a stable order.
var HomeTypes = []HomeType{SingleFamily, Condo, Apartment, Townhouse}

// Priority ranks how urgently a task should be done.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Home is the owning record for generated equipment and tasks.
type Home struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	HomeType  HomeType  `json:"home_type"`
	CreatedAt time.Time `json:"created_at"`
}

// EquipmentTemplate is one static catalog entry used to seed equipment.
type EquipmentTemplate struct {
	Name                       string `json:"name"`
	Type                       string `json:"type"`
	Category                   string `json:"category"`
	MaintenanceFrequencyMonths int    `json:"maintenance_frequency_months"`
	Room                       string `json:"room"`
}

// Equipment is a piece of household equipment tracked for maintenance.
// Optional fields stay nil until a user fills them in.
type Equipment struct {
	ID                         string    `json:"id"`
	HomeID                     string    `json:"home_id"`
	Name                       string    `json:"name"`
	Type                       string    `json:"type"`
	Category                   string    `json:"category"`
	Room                       string    `json:"room"`
	MaintenanceFrequencyMonths int       `json:"maintenance_frequency_months"`
	NextServiceDue             time.Time `json:"next_service_due"`
	Active                     bool      `json:"active"`
	NeedsAttention             bool      `json:"needs_attention"`

	Brand           *string           `json:"brand"`
	Model           *string           `json:"model"`
	SerialNumber    *string           `json:"serial_number"`
	InstallDate     *time.Time        `json:"install_date"`
	PurchaseDate    *time.Time        `json:"purchase_date"`
	WarrantyExpires *time.Time        `json:"warranty_expires"`
	LastServiceDate *time.Time        `json:"last_service_date"`
	Location        *string           `json:"location"`
	ManualURL       *string           `json:"manual_url"`
	Notes           *string           `json:"notes"`
	PhotoURLs       []string          `json:"photo_urls"`
	Specifications  map[string]string `json:"specifications"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Task is a scheduled maintenance action for a home.
type Task struct {
	ID          string    `json:"id"`
	HomeID      string    `json:"home_id"`
	EquipmentID *string   `json:"equipment_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	DueDate     time.Time `json:"due_date"`
	Priority    Priority  `json:"priority"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}
