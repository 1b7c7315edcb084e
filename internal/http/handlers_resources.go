package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aimspurefied/healer-ui-api/internal/resource"
)

// ResourceHandlers serves every registered collection through one set of
// generic handlers. The query string carries the complete filter state
// for the request: reserved keys are "q" (free text), "tags"
// (comma-separated, all must match) and "refresh" (force a refetch);
// every other key is treated as a dimension filter.
type ResourceHandlers struct {
	Registry *resource.Registry
	Logger   *slog.Logger
}

func (h *ResourceHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *ResourceHandlers) lookup(w http.ResponseWriter, r *http.Request) (resource.Handle, bool) {
	name := r.PathValue("resource")
	ctl, ok := h.Registry.Lookup(name)
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "unknown_resource",
			Err:     errors.New("unknown resource: " + name),
		})
		return nil, false
	}
	return ctl, true
}

// filtersFromQuery parses the request's query parameters into a filter
// state value. Each request derives through its own value; the shared
// controller's selections never change, so concurrent requests with
// different filters cannot see each other's.
func filtersFromQuery(r *http.Request) resource.FilterState {
	var filters resource.FilterState
	for key, values := range r.URL.Query() {
		if len(values) == 0 {
			continue
		}
		switch key {
		case "q":
			filters.SetQuery(values[0])
		case "tags":
			tags := strings.Split(values[0], ",")
			out := tags[:0]
			for _, tag := range tags {
				if tag = strings.TrimSpace(tag); tag != "" {
					out = append(out, tag)
				}
			}
			filters.SetTags(out)
		case "refresh":
			// Handled by the caller.
		default:
			filters.SetDimension(key, values[0])
		}
	}
	return filters
}

func wantsRefresh(r *http.Request) bool {
	ok, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))
	return ok
}

// List serves the derived (filtered) view of a collection.
// GET /api/{resource}?status=PENDING&type=BOOKS&tags=a,b&q=text.
func (h *ResourceHandlers) List(w http.ResponseWriter, r *http.Request) {
	ctl, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var err error
	if wantsRefresh(r) {
		err = ctl.Fetch(r.Context())
	} else {
		err = ctl.EnsureFetched(r.Context())
	}
	if err != nil && !ctl.Fetched() {
		// Nothing ever loaded; there is no stale view to fall back on.
		WriteUpstreamError(w, err)
		return
	}

	payload := map[string]any{"data": ctl.DerivedWith(filtersFromQuery(r))}
	if err != nil {
		// Keep the previous snapshot visible and tell the client it is stale.
		payload["stale"] = true
		payload["error"] = err.Error()
	}
	WriteJSON(w, http.StatusOK, payload)
}

// Export streams the derived view as a spreadsheet attachment. The same
// query parameters as List select what gets exported.
// GET /api/{resource}/export.
func (h *ResourceHandlers) Export(w http.ResponseWriter, r *http.Request) {
	ctl, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if err := ctl.EnsureFetched(r.Context()); err != nil && !ctl.Fetched() {
		WriteUpstreamError(w, err)
		return
	}

	file, err := ctl.ExportWith(filtersFromQuery(r))
	if err != nil {
		h.logger().ErrorContext(r.Context(), "export failed", "resource", ctl.Name(), "error", err)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "export_failed", Err: err})
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+file.Name+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Content); err != nil {
		// Client went away mid-download; nothing to recover.
		return
	}
}

// Create posts a new entity to the backend and refetches the collection.
// POST /api/{resource}.
func (h *ResourceHandlers) Create(w http.ResponseWriter, r *http.Request) {
	ctl, ok := h.lookup(w, r)
	if !ok {
		return
	}

	body, ok := readRawBody(w, r)
	if !ok {
		return
	}

	if err := ctl.Create(r.Context(), body); err != nil {
		WriteUpstreamError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

// Update patches an entity and refetches the collection.
// PATCH /api/{resource}/{id}.
func (h *ResourceHandlers) Update(w http.ResponseWriter, r *http.Request) {
	ctl, ok := h.lookup(w, r)
	if !ok {
		return
	}

	body, ok := readRawBody(w, r)
	if !ok {
		return
	}

	if err := ctl.Update(r.Context(), r.PathValue("id"), body); err != nil {
		WriteUpstreamError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// Delete removes an entity and refetches the collection.
// DELETE /api/{resource}/{id}.
func (h *ResourceHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	ctl, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if err := ctl.Delete(r.Context(), r.PathValue("id")); err != nil {
		WriteUpstreamError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Focus applies the per-entity refocus policy: volatile collections
// refetch, catalog collections return immediately.
// POST /api/{resource}/focus.
func (h *ResourceHandlers) Focus(w http.ResponseWriter, r *http.Request) {
	ctl, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if err := ctl.OnFocus(r.Context()); err != nil && !ctl.Fetched() {
		WriteUpstreamError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"refetched": ctl.RefetchOnFocus(),
	})
}

// Names lists the registered collections.
// GET /api/resources.
func (h *ResourceHandlers) Names(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{"data": h.Registry.Names()})
}

// ShipmentRows serves shipments joined with their student, course, and
// book records. The request's query parameters filter the shipments;
// missing references come back as empty objects.
// GET /api/shipments/rows.
func (h *ResourceHandlers) ShipmentRows(w http.ResponseWriter, r *http.Request) {
	reg := h.Registry

	// The join reads four snapshots; make sure they all loaded once.
	for _, ctl := range []resource.Handle{reg.Shipments, reg.Students, reg.Courses, reg.Books} {
		if err := ctl.EnsureFetched(r.Context()); err != nil && !ctl.Fetched() {
			WriteUpstreamError(w, err)
			return
		}
	}

	WriteJSON(w, http.StatusOK, map[string]any{"data": reg.ShipmentRows(filtersFromQuery(r))})
}

func readRawBody(w http.ResponseWriter, r *http.Request) (json.RawMessage, bool) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_body", Err: err})
		return nil, false
	}
	if !json.Valid(raw) {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_json",
			Err:     errors.New("request body must be valid JSON"),
		})
		return nil, false
	}
	return raw, true
}
