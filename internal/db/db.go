package db

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/tphummel/homekeep/internal/models"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite connection.
type DB struct {
	conn *sql.DB
}

// New opens the SQLite database at path, enables WAL mode, and runs migrations.
func New(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if path == ":memory:" {
		// Every connection to :memory: is a separate database.
		conn.SetMaxOpenConns(1)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := migrate(conn); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &DB{conn: conn}, nil
}

//go:embed migrations/*.sql
var embedMigrations embed.FS

// migrate applies pending goose migrations from the embedded SQL files.
func migrate(conn *sql.DB) error {
	fsys, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, conn, fsys)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(context.Background()); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.conn.Close()
}

// Ping verifies the database connection is alive.
func (d *DB) Ping() error {
	return d.conn.Ping()
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// CreateHome inserts a home record with no equipment or tasks.
func (d *DB) CreateHome(ctx context.Context, h *models.Home) error {
	return insertHome(ctx, d.conn, h)
}

// GetHome returns the home with the given ID, or sql.ErrNoRows if not found.
func (d *DB) GetHome(ctx context.Context, id string) (*models.Home, error) {
	row := d.conn.QueryRowContext(ctx, `SELECT id, name, home_type, created_at FROM homes WHERE id = ?`, id)
	return scanHome(row)
}

// ListHomes returns all homes, oldest first.
func (d *DB) ListHomes(ctx context.Context) ([]*models.Home, error) {
	rows, err := d.conn.QueryContext(ctx, `SELECT id, name, home_type, created_at FROM homes ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var homes []*models.Home
	for rows.Next() {
		h, err := scanHome(rows)
		if err != nil {
			return nil, err
		}
		homes = append(homes, h)
	}
	return homes, rows.Err()
}

// DeleteHome removes a home together with its equipment and tasks.
// Returns sql.ErrNoRows if no such home exists.
func (d *DB) DeleteHome(ctx context.Context, id string) error {
	return d.inTx(ctx, func(tx *sql.Tx) error {
		if err := clearHome(ctx, tx, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM homes WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return sql.ErrNoRows
		}
		return nil
	})
}

// SeedHome writes a new home and all of its generated equipment and tasks
// in a single transaction. Nothing is written if any insert fails.
func (d *DB) SeedHome(ctx context.Context, h *models.Home, equipment []models.Equipment, tasks []models.Task) error {
	return d.inTx(ctx, func(tx *sql.Tx) error {
		if err := insertHome(ctx, tx, h); err != nil {
			return fmt.Errorf("insert home: %w", err)
		}
		return insertAll(ctx, tx, equipment, tasks)
	})
}

// ReplaceDefaults swaps a home's equipment and tasks for a freshly generated
// set. Returns sql.ErrNoRows if the home does not exist.
func (d *DB) ReplaceDefaults(ctx context.Context, homeID string, equipment []models.Equipment, tasks []models.Task) error {
	return d.inTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM homes WHERE id = ?`, homeID).Scan(&exists)
		if err != nil {
			return err
		}
		if err := clearHome(ctx, tx, homeID); err != nil {
			return err
		}
		return insertAll(ctx, tx, equipment, tasks)
	})
}

// ListEquipment returns a home's equipment in generation order.
func (d *DB) ListEquipment(ctx context.Context, homeID string) ([]*models.Equipment, error) {
	rows, err := d.conn.QueryContext(ctx, `SELECT `+equipmentColumns+` FROM equipment WHERE home_id = ? ORDER BY position`, homeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Equipment
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetEquipment returns one equipment record, or sql.ErrNoRows if not found.
func (d *DB) GetEquipment(ctx context.Context, id string) (*models.Equipment, error) {
	row := d.conn.QueryRowContext(ctx, `SELECT `+equipmentColumns+` FROM equipment WHERE id = ?`, id)
	return scanEquipment(row)
}

// ListTasks returns a home's tasks ordered by due date.
func (d *DB) ListTasks(ctx context.Context, homeID string) ([]*models.Task, error) {
	rows, err := d.conn.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE home_id = ? ORDER BY due_date, position`, homeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CountEquipmentByCategory returns the number of active equipment records
// per category across all homes.
func (d *DB) CountEquipmentByCategory() (map[string]int, error) {
	rows, err := d.conn.Query(`SELECT category, COUNT(*) FROM equipment WHERE active = 1 GROUP BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var n int
		if err := rows.Scan(&category, &n); err != nil {
			return nil, err
		}
		counts[category] = n
	}
	return counts, rows.Err()
}

func (d *DB) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func clearHome(ctx context.Context, tx *sql.Tx, homeID string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE home_id = ?`, homeID); err != nil {
		return fmt.Errorf("delete tasks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM equipment WHERE home_id = ?`, homeID); err != nil {
		return fmt.Errorf("delete equipment: %w", err)
	}
	return nil
}

func insertAll(ctx context.Context, ex execer, equipment []models.Equipment, tasks []models.Task) error {
	for i := range equipment {
		if err := insertEquipment(ctx, ex, i, &equipment[i]); err != nil {
			return fmt.Errorf("insert equipment %q: %w", equipment[i].ID, err)
		}
	}
	for i := range tasks {
		if err := insertTask(ctx, ex, i, &tasks[i]); err != nil {
			return fmt.Errorf("insert task %q: %w", tasks[i].ID, err)
		}
	}
	return nil
}

func insertHome(ctx context.Context, ex execer, h *models.Home) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO homes (id, name, home_type, created_at)
		VALUES (?, ?, ?, ?)`,
		h.ID, h.Name, string(h.HomeType), formatTime(h.CreatedAt),
	)
	return err
}

const equipmentColumns = `id, home_id, name, type, category, room, maintenance_frequency_months,
	next_service_due, active, needs_attention,
	brand, model, serial_number, install_date, purchase_date, warranty_expires, last_service_date,
	location, manual_url, notes, photo_urls, specifications, created_at, updated_at`

func insertEquipment(ctx context.Context, ex execer, position int, e *models.Equipment) error {
	photos, err := marshalNullable(e.PhotoURLs)
	if err != nil {
		return err
	}
	specs, err := marshalNullable(e.Specifications)
	if err != nil {
		return err
	}
	_, err = ex.ExecContext(ctx, `
		INSERT INTO equipment (id, home_id, position, name, type, category, room, maintenance_frequency_months,
			next_service_due, active, needs_attention,
			brand, model, serial_number, install_date, purchase_date, warranty_expires, last_service_date,
			location, manual_url, notes, photo_urls, specifications, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.HomeID, position, e.Name, e.Type, e.Category, e.Room, e.MaintenanceFrequencyMonths,
		formatTime(e.NextServiceDue), e.Active, e.NeedsAttention,
		e.Brand, e.Model, e.SerialNumber,
		nullTime(e.InstallDate), nullTime(e.PurchaseDate), nullTime(e.WarrantyExpires), nullTime(e.LastServiceDate),
		e.Location, e.ManualURL, e.Notes, photos, specs,
		formatTime(e.CreatedAt), formatTime(e.UpdatedAt),
	)
	return err
}

func scanEquipment(s scanner) (*models.Equipment, error) {
	var (
		e                                    models.Equipment
		nextDue, createdAt, updatedAt        string
		brand, model, serial                 sql.NullString
		installed, purchased, warranty, last sql.NullString
		location, manual, notes              sql.NullString
		photos, specs                        sql.NullString
	)
	if err := s.Scan(
		&e.ID, &e.HomeID, &e.Name, &e.Type, &e.Category, &e.Room, &e.MaintenanceFrequencyMonths,
		&nextDue, &e.Active, &e.NeedsAttention,
		&brand, &model, &serial, &installed, &purchased, &warranty, &last,
		&location, &manual, &notes, &photos, &specs, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if e.NextServiceDue, err = parseTime("next_service_due", nextDue); err != nil {
		return nil, err
	}
	if e.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if e.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	for _, f := range []struct {
		name string
		src  sql.NullString
		dst  **time.Time
	}{
		{"install_date", installed, &e.InstallDate},
		{"purchase_date", purchased, &e.PurchaseDate},
		{"warranty_expires", warranty, &e.WarrantyExpires},
		{"last_service_date", last, &e.LastServiceDate},
	} {
		if !f.src.Valid {
			continue
		}
		t, err := parseTime(f.name, f.src.String)
		if err != nil {
			return nil, err
		}
		*f.dst = &t
	}

	e.Brand = stringPtr(brand)
	e.Model = stringPtr(model)
	e.SerialNumber = stringPtr(serial)
	e.Location = stringPtr(location)
	e.ManualURL = stringPtr(manual)
	e.Notes = stringPtr(notes)

	if photos.Valid {
		if err := json.Unmarshal([]byte(photos.String), &e.PhotoURLs); err != nil {
			return nil, fmt.Errorf("decode photo_urls: %w", err)
		}
	}
	if specs.Valid {
		if err := json.Unmarshal([]byte(specs.String), &e.Specifications); err != nil {
			return nil, fmt.Errorf("decode specifications: %w", err)
		}
	}
	return &e, nil
}

const taskColumns = `id, home_id, equipment_id, title, description, category, due_date, priority, completed, created_at`

func insertTask(ctx context.Context, ex execer, position int, t *models.Task) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO tasks (id, home_id, position, equipment_id, title, description, category, due_date, priority, completed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.HomeID, position, t.EquipmentID, t.Title, t.Description, t.Category,
		formatTime(t.DueDate), string(t.Priority), t.Completed, formatTime(t.CreatedAt),
	)
	return err
}

func scanTask(s scanner) (*models.Task, error) {
	var (
		t                  models.Task
		equipmentID        sql.NullString
		priority           string
		dueDate, createdAt string
	)
	if err := s.Scan(
		&t.ID, &t.HomeID, &equipmentID, &t.Title, &t.Description, &t.Category,
		&dueDate, &priority, &t.Completed, &createdAt,
	); err != nil {
		return nil, err
	}
	var err error
	if t.DueDate, err = parseTime("due_date", dueDate); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	t.EquipmentID = stringPtr(equipmentID)
	t.Priority = models.Priority(priority)
	return &t, nil
}

func scanHome(s scanner) (*models.Home, error) {
	var h models.Home
	var homeType, createdAt string
	if err := s.Scan(&h.ID, &h.Name, &homeType, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if h.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	h.HomeType = models.HomeType(homeType)
	return &h, nil
}

// timeLayout is RFC 3339 with a fixed nine-digit fraction. Stored in UTC,
// string order matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(column, s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s %q: %w", column, s, err)
	}
	return t, nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func marshalNullable[T any](v T) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(b) == "null" {
		return nil, nil
	}
	return string(b), nil
}
