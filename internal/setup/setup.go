// Package setup seeds a home with its default equipment and maintenance tasks.
package setup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tphummel/homekeep/internal/equipment"
	"github.com/tphummel/homekeep/internal/metrics"
	"github.com/tphummel/homekeep/internal/models"
	"github.com/tphummel/homekeep/internal/tasks"
)

// Store is the persistence the service needs.
type Store interface {
	SeedHome(ctx context.Context, h *models.Home, equipment []models.Equipment, tasks []models.Task) error
	GetHome(ctx context.Context, id string) (*models.Home, error)
	ReplaceDefaults(ctx context.Context, homeID string, equipment []models.Equipment, tasks []models.Task) error
}

// Service generates and stores a home's defaults.
type Service struct {
	Store     Store
	Equipment equipment.Defaulter
	Tasks     tasks.Scheduler
	Logger    *slog.Logger

	// Now stamps the home and is shared with both generators so a seed
	// carries one instant. Falls back to Equipment.Now, then the wall clock.
	Now func() time.Time

	// PreviewTasks is the number of tasks returned in Result.Preview.
	PreviewTasks int
}

// Result is everything produced by seeding a home.
type Result struct {
	Home      *models.Home       `json:"home"`
	Equipment []models.Equipment `json:"equipment"`
	Tasks     []models.Task      `json:"tasks"`
	Preview   []models.Task      `json:"preview"`
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s *Service) previewN() int {
	if s.PreviewTasks > 0 {
		return s.PreviewTasks
	}
	return 3
}

func (s *Service) now() time.Time {
	switch {
	case s.Now != nil:
		return s.Now()
	case s.Equipment.Now != nil:
		return s.Equipment.Now()
	}
	return time.Now().UTC()
}

func (s *Service) generate(homeID string, homeType models.HomeType, now time.Time) ([]models.Equipment, []models.Task) {
	clock := func() time.Time { return now }
	defaulter, scheduler := s.Equipment, s.Tasks
	defaulter.Now, scheduler.Now = clock, clock

	eq := defaulter.Generate(homeID, homeType)
	ts := scheduler.Generate(homeID, homeType, eq)
	return eq, ts
}

// SetupHome creates a home and writes its generated equipment and tasks in
// one batch.
func (s *Service) SetupHome(ctx context.Context, name string, homeType models.HomeType) (*Result, error) {
	now := s.now()
	h := &models.Home{
		ID:        uuid.NewString(),
		Name:      name,
		HomeType:  homeType,
		CreatedAt: now,
	}
	eq, ts := s.generate(h.ID, homeType, now)

	if err := s.Store.SeedHome(ctx, h, eq, ts); err != nil {
		return nil, fmt.Errorf("seed home: %w", err)
	}
	s.record(ctx, "home seeded", h, eq, ts)

	return &Result{Home: h, Equipment: eq, Tasks: ts, Preview: tasks.Preview(ts, s.previewN())}, nil
}

// Reseed regenerates the defaults for an existing home, replacing whatever
// equipment and tasks it had. Errors wrap sql.ErrNoRows for unknown homes.
func (s *Service) Reseed(ctx context.Context, homeID string) (*Result, error) {
	h, err := s.Store.GetHome(ctx, homeID)
	if err != nil {
		return nil, fmt.Errorf("get home: %w", err)
	}
	eq, ts := s.generate(h.ID, h.HomeType, s.now())

	if err := s.Store.ReplaceDefaults(ctx, h.ID, eq, ts); err != nil {
		return nil, fmt.Errorf("replace defaults: %w", err)
	}
	s.record(ctx, "home reseeded", h, eq, ts)

	return &Result{Home: h, Equipment: eq, Tasks: ts, Preview: tasks.Preview(ts, s.previewN())}, nil
}

func (s *Service) record(ctx context.Context, msg string, h *models.Home, eq []models.Equipment, ts []models.Task) {
	metrics.RecordGenerated("equipment", string(h.HomeType), len(eq))
	metrics.RecordGenerated("task", string(h.HomeType), len(ts))
	s.logger().LogAttrs(ctx, slog.LevelInfo, msg,
		slog.String("home_id", h.ID),
		slog.String("home_type", string(h.HomeType)),
		slog.Int("equipment", len(eq)),
		slog.Int("tasks", len(ts)),
	)
}
