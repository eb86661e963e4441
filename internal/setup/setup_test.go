package setup_test

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphummel/homekeep/internal/db"
	"github.com/tphummel/homekeep/internal/equipment"
	"github.com/tphummel/homekeep/internal/models"
	"github.com/tphummel/homekeep/internal/setup"
	"github.com/tphummel/homekeep/internal/tasks"
)

var genTime = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func newService(t *testing.T, logs *bytes.Buffer) (*setup.Service, *db.DB) {
	t.Helper()
	d, err := db.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })

	clock := func() time.Time { return genTime }
	return &setup.Service{
		Store:     d,
		Equipment: equipment.Defaulter{Now: clock},
		Tasks:     tasks.Scheduler{Now: clock},
		Logger:    slog.New(slog.NewJSONHandler(logs, nil)),
	}, d
}

func TestSetupHome_PersistsEverything(t *testing.T) {
	var logs bytes.Buffer
	svc, d := newService(t, &logs)
	ctx := context.Background()

	res, err := svc.SetupHome(ctx, "Elm St", models.Condo)
	require.NoError(t, err)

	assert.NotEmpty(t, res.Home.ID)
	assert.Equal(t, models.Condo, res.Home.HomeType)
	assert.Len(t, res.Equipment, 6)
	assert.Len(t, res.Tasks, 6+2)
	require.Len(t, res.Preview, 3)
	for i := 1; i < len(res.Preview); i++ {
		assert.False(t, res.Preview[i].DueDate.Before(res.Preview[i-1].DueDate))
	}

	home, err := d.GetHome(ctx, res.Home.ID)
	require.NoError(t, err)
	assert.Equal(t, "Elm St", home.Name)

	eq, err := d.ListEquipment(ctx, res.Home.ID)
	require.NoError(t, err)
	assert.Len(t, eq, 6)

	ts, err := d.ListTasks(ctx, res.Home.ID)
	require.NoError(t, err)
	assert.Len(t, ts, 8)

	assert.Contains(t, logs.String(), `"msg":"home seeded"`)
	assert.Contains(t, logs.String(), `"equipment":6`)
}

func TestSetupHome_SharesOneClock(t *testing.T) {
	var logs bytes.Buffer
	svc, d := newService(t, &logs)
	ctx := context.Background()

	res, err := svc.SetupHome(ctx, "Elm St", models.Townhouse)
	require.NoError(t, err)
	assert.True(t, res.Home.CreatedAt.Equal(genTime), "home created_at %v", res.Home.CreatedAt)
	for _, e := range res.Equipment {
		assert.True(t, e.CreatedAt.Equal(res.Home.CreatedAt), "equipment %q created_at %v", e.Name, e.CreatedAt)
	}

	home, err := d.GetHome(ctx, res.Home.ID)
	require.NoError(t, err)
	assert.True(t, home.CreatedAt.Equal(genTime))
}

func TestSetupHome_ServiceClockOverridesGenerators(t *testing.T) {
	var logs bytes.Buffer
	svc, _ := newService(t, &logs)
	at := genTime.Add(36 * time.Hour)
	svc.Now = func() time.Time { return at }

	res, err := svc.SetupHome(context.Background(), "Elm St", models.Apartment)
	require.NoError(t, err)
	assert.True(t, res.Home.CreatedAt.Equal(at))
	for _, e := range res.Equipment {
		assert.True(t, e.CreatedAt.Equal(at), "equipment %q created_at %v", e.Name, e.CreatedAt)
	}
	for _, task := range res.Tasks {
		assert.True(t, task.CreatedAt.Equal(at), "task %q created_at %v", task.Title, task.CreatedAt)
	}
}

func TestSetupHome_PreviewSize(t *testing.T) {
	var logs bytes.Buffer
	svc, _ := newService(t, &logs)
	svc.PreviewTasks = 1

	res, err := svc.SetupHome(context.Background(), "x", models.Apartment)
	require.NoError(t, err)
	assert.Len(t, res.Preview, 1)
	assert.Equal(t, tasks.Preview(res.Tasks, 1), res.Preview)
}

func TestReseed_ReplacesDefaults(t *testing.T) {
	var logs bytes.Buffer
	svc, d := newService(t, &logs)
	ctx := context.Background()

	first, err := svc.SetupHome(ctx, "Oak", models.Townhouse)
	require.NoError(t, err)

	second, err := svc.Reseed(ctx, first.Home.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Home.ID, second.Home.ID)
	assert.NotEqual(t, first.Equipment[0].ID, second.Equipment[0].ID)

	eq, err := d.ListEquipment(ctx, first.Home.ID)
	require.NoError(t, err)
	require.Len(t, eq, 6)
	assert.Equal(t, second.Equipment[0].ID, eq[0].ID)
}

func TestReseed_UnknownHome(t *testing.T) {
	var logs bytes.Buffer
	svc, _ := newService(t, &logs)

	_, err := svc.Reseed(context.Background(), "missing")
	assert.True(t, errors.Is(err, sql.ErrNoRows), "got %v", err)
}

type failingStore struct{ setup.Store }

func (failingStore) SeedHome(context.Context, *models.Home, []models.Equipment, []models.Task) error {
	return errors.New("disk full")
}

func TestSetupHome_StoreError(t *testing.T) {
	svc := &setup.Service{Store: failingStore{}}
	_, err := svc.SetupHome(context.Background(), "x", models.Condo)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
