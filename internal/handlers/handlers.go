package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/tphummel/homekeep/internal/catalog"
	"github.com/tphummel/homekeep/internal/db"
	"github.com/tphummel/homekeep/internal/models"
	"github.com/tphummel/homekeep/internal/setup"
	"github.com/tphummel/homekeep/internal/tasks"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	DB      *db.DB
	Setup   *setup.Service
	Version string
	Commit  string

	// Now is the reference time for task timing labels. Defaults to the wall clock.
	Now func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Health handles GET /healthz without auth.
// Returns 503 if the database is unreachable.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.DB.Ping(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.Version,
		"commit":  h.Commit,
	})
}

type homeTypeView struct {
	HomeType  models.HomeType `json:"home_type"`
	Equipment []string        `json:"equipment"`
}

// ListHomeTypes handles GET /api/v1/home-types.
func (h *Handler) ListHomeTypes(w http.ResponseWriter, r *http.Request) {
	out := make([]homeTypeView, 0, len(models.HomeTypes))
	for _, ht := range models.HomeTypes {
		out = append(out, homeTypeView{HomeType: ht, Equipment: catalog.Preview(ht)})
	}
	writeJSON(w, http.StatusOK, out)
}

// EquipmentPreview handles GET /api/v1/home-types/{type}/equipment-preview.
// Unknown types answer with the single_family names, like generation does.
func (h *Handler) EquipmentPreview(w http.ResponseWriter, r *http.Request) {
	requested := models.HomeType(r.PathValue("type"))
	writeJSON(w, http.StatusOK, map[string]any{
		"home_type":          requested,
		"resolved_home_type": catalog.ResolveHomeType(requested),
		"equipment":          h.Setup.Equipment.Preview(requested),
	})
}

type createHomeRequest struct {
	Name     string          `json:"name"`
	HomeType models.HomeType `json:"home_type"`
}

// CreateHome handles POST /api/v1/homes. It stores the home together with
// its generated equipment and tasks.
func (h *Handler) CreateHome(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64*1024)
	var req createHomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if req.Name == "" || req.HomeType == "" {
		writeError(w, http.StatusBadRequest, "name and home_type are required")
		return
	}
	if !models.ValidHomeTypes[req.HomeType] {
		writeError(w, http.StatusBadRequest, "invalid home_type")
		return
	}

	res, err := h.Setup.SetupHome(r.Context(), req.Name, req.HomeType)
	if err != nil {
		slog.ErrorContext(r.Context(), "setup home failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create home")
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// ListHomes handles GET /api/v1/homes.
func (h *Handler) ListHomes(w http.ResponseWriter, r *http.Request) {
	homes, err := h.DB.ListHomes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list homes")
		return
	}
	if homes == nil {
		homes = []*models.Home{}
	}
	writeJSON(w, http.StatusOK, homes)
}

// GetHome handles GET /api/v1/homes/{id}.
func (h *Handler) GetHome(w http.ResponseWriter, r *http.Request) {
	home, ok := h.loadHome(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, home)
}

// DeleteHome handles DELETE /api/v1/homes/{id}.
func (h *Handler) DeleteHome(w http.ResponseWriter, r *http.Request) {
	err := h.DB.DeleteHome(r.Context(), r.PathValue("id"))
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "home not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete home")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReseedHome handles POST /api/v1/homes/{id}/reseed.
func (h *Handler) ReseedHome(w http.ResponseWriter, r *http.Request) {
	res, err := h.Setup.Reseed(r.Context(), r.PathValue("id"))
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "home not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "reseed home failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to reseed home")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ListEquipment handles GET /api/v1/homes/{id}/equipment.
func (h *Handler) ListEquipment(w http.ResponseWriter, r *http.Request) {
	home, ok := h.loadHome(w, r)
	if !ok {
		return
	}
	eq, err := h.DB.ListEquipment(r.Context(), home.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list equipment")
		return
	}
	if eq == nil {
		eq = []*models.Equipment{}
	}
	writeJSON(w, http.StatusOK, eq)
}

// GetEquipment handles GET /api/v1/equipment/{id}.
func (h *Handler) GetEquipment(w http.ResponseWriter, r *http.Request) {
	e, err := h.DB.GetEquipment(r.Context(), r.PathValue("id"))
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "equipment not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get equipment")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// taskView is a task plus its presentation fields.
type taskView struct {
	*models.Task
	Timing string `json:"timing"`
	Icon   string `json:"icon"`
}

// ListTasks handles GET /api/v1/homes/{id}/tasks with an optional ?limit=
// that keeps only the first n tasks by due date.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	limit := -1
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	home, ok := h.loadHome(w, r)
	if !ok {
		return
	}
	ts, err := h.DB.ListTasks(r.Context(), home.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}
	if limit >= 0 && limit < len(ts) {
		ts = ts[:limit]
	}

	now := h.now()
	out := make([]taskView, 0, len(ts))
	for _, t := range ts {
		out = append(out, taskView{Task: t, Timing: tasks.Timing(t.DueDate, now), Icon: tasks.IconKey(t.Category)})
	}
	writeJSON(w, http.StatusOK, out)
}

// TaskTiming handles GET /api/v1/task-timing?due=<date>. Unparseable dates
// are rejected with 400.
func (h *Handler) TaskTiming(w http.ResponseWriter, r *http.Request) {
	due := r.URL.Query().Get("due")
	label, err := tasks.TimingFromString(due, h.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"due": due, "timing": label})
}

func (h *Handler) loadHome(w http.ResponseWriter, r *http.Request) (*models.Home, bool) {
	home, err := h.DB.GetHome(r.Context(), r.PathValue("id"))
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "home not found")
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get home")
		return nil, false
	}
	return home, true
}
