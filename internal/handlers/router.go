package handlers

import (
	"net/http"

	"github.com/tphummel/homekeep/internal/metrics"
	"github.com/tphummel/homekeep/internal/middleware"
)

// Routes registers every API route on mux. Routes under /api/v1 require the
// Bearer token; all of them record HTTP metrics under their pattern.
func (h *Handler) Routes(mux *http.ServeMux, token string) {
	public := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, metrics.Middleware(pattern, fn))
	}
	private := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, metrics.Middleware(pattern, middleware.Auth(token, fn)))
	}

	public("GET /healthz", h.Health)
	public("GET /openapi.yaml", OpenAPIDocument)
	public("GET /docs", Docs)

	private("GET /api/v1/home-types", h.ListHomeTypes)
	private("GET /api/v1/home-types/{type}/equipment-preview", h.EquipmentPreview)
	private("GET /api/v1/task-timing", h.TaskTiming)

	private("POST /api/v1/homes", h.CreateHome)
	private("GET /api/v1/homes", h.ListHomes)
	private("GET /api/v1/homes/{id}", h.GetHome)
	private("DELETE /api/v1/homes/{id}", h.DeleteHome)
	private("POST /api/v1/homes/{id}/reseed", h.ReseedHome)
	private("GET /api/v1/homes/{id}/equipment", h.ListEquipment)
	private("GET /api/v1/homes/{id}/tasks", h.ListTasks)
	private("GET /api/v1/equipment/{id}", h.GetEquipment)
}
