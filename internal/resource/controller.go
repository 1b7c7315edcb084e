// Package resource implements the fetch-cache-filter-export pipeline
// shared by every entity list screen. One generic Controller replaces the
// near-identical per-entity fetch code that would otherwise be repeated
// across ~15 call sites; each screen instantiates it with configuration
// (endpoint path, filter dimensions, searchable fields, export columns,
// refetch policy).
package resource

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/aimspurefied/healer-ui-api/internal/export"
	"github.com/aimspurefied/healer-ui-api/internal/upstream"
)

// FilterAll is the sentinel meaning "no filtering on this dimension".
const FilterAll = "ALL"

// Client is the slice of the upstream client a controller needs.
// *upstream.Client satisfies it; tests inject fakes.
type Client interface {
	List(ctx context.Context, path string) (json.RawMessage, error)
	Create(ctx context.Context, path string, body any) (json.RawMessage, error)
	Update(ctx context.Context, path, id string, body any) (json.RawMessage, error)
	Delete(ctx context.Context, path, id string) error
}

// Config parameterizes a Controller for one entity collection.
type Config[T any] struct {
	// Name is the entity name (used for export filenames and logging).
	Name string
	// Path is the backend collection endpoint (e.g. "/students").
	Path string
	// Client issues the backend calls.
	Client Client

	// Dimension returns the item's value for a named filter dimension
	// (e.g. "status", "type"). Optional when the entity has none.
	Dimension func(item T, name string) string
	// DimensionOrder fixes the order dimensions are applied in.
	// Type/category-like dimensions come before status by convention.
	DimensionOrder []string
	// Tags returns the item's tag set for multi-select tag filtering.
	Tags func(item T) []string
	// SearchText returns the fields free-text search matches against.
	SearchText func(item T) []string

	// Columns is the fixed export column mapping for this entity.
	Columns []export.Column

	// RefetchOnFocus makes the collection refetch eagerly when the
	// owning view regains focus or connectivity. Catalog-like
	// collections leave this false and fetch once per session.
	RefetchOnFocus bool

	Logger *slog.Logger
}

// FilterState is one snapshot of filter selections. The derived list is
// a pure function of (items, FilterState). The zero value selects
// everything. Callers that share a controller build their own value and
// pass it to DerivedListWith; the controller's own selections belong to
// its single owning view.
type FilterState struct {
	dims  map[string]string
	tags  []string
	query string
}

// SetDimension sets one dimension selection. Empty value or the "ALL"
// sentinel clears the dimension.
func (f *FilterState) SetDimension(dimension, value string) {
	if value == "" || strings.EqualFold(value, FilterAll) {
		delete(f.dims, dimension)
		return
	}
	if f.dims == nil {
		f.dims = map[string]string{}
	}
	f.dims[dimension] = value
}

// SetTags replaces the multi-select tag filter. Items must carry ALL
// selected tags to pass.
func (f *FilterState) SetTags(tags []string) {
	f.tags = append([]string(nil), tags...)
}

// SetQuery replaces the free-text search query.
func (f *FilterState) SetQuery(query string) {
	f.query = strings.TrimSpace(query)
}

func (f FilterState) clone() FilterState {
	out := FilterState{
		dims:  make(map[string]string, len(f.dims)),
		tags:  append([]string(nil), f.tags...),
		query: f.query,
	}
	for k, v := range f.dims {
		out.dims[k] = v
	}
	return out
}

// Controller owns the most recent snapshot of one backend collection and
// the filter state layered over it. Items are replaced wholesale on each
// successful fetch; a failed fetch keeps the previous snapshot visible
// (stale-but-available). Fetch responses apply in completion order: a
// later-completing fetch wins regardless of issue order, which is
// acceptable because fetches are idempotent reads.
type Controller[T any] struct {
	cfg Config[T]

	mu       sync.Mutex
	items    []T
	inflight int
	fetched  bool
	lastErr  error
	filters  FilterState
}

// New validates the configuration and constructs a Controller with an
// empty snapshot and default ("ALL"/empty) filters.
func New[T any](cfg Config[T]) (*Controller[T], error) {
	if cfg.Name == "" {
		return nil, errors.New("resource: Name is required")
	}
	if cfg.Path == "" {
		return nil, errors.New("resource: Path is required")
	}
	if cfg.Client == nil {
		return nil, errors.New("resource: Client is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Controller[T]{
		cfg:   cfg,
		items: []T{},
	}, nil
}

// Name returns the entity name.
func (c *Controller[T]) Name() string { return c.cfg.Name }

// RefetchOnFocus reports the per-entity refocus policy.
func (c *Controller[T]) RefetchOnFocus() bool { return c.cfg.RefetchOnFocus }

// Fetch replaces the snapshot wholesale from the backend. On failure the
// previous items stay visible and only lastErr changes. No retries.
func (c *Controller[T]) Fetch(ctx context.Context) error {
	c.mu.Lock()
	c.inflight++
	c.mu.Unlock()

	raw, err := c.cfg.Client.List(ctx, c.cfg.Path)
	var items []T
	if err == nil {
		items, err = upstream.DecodeList[T](raw)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--

	if err != nil {
		c.lastErr = err
		c.cfg.Logger.WarnContext(ctx, "collection fetch failed",
			"entity", c.cfg.Name, "error", err)
		return err
	}

	c.items = items
	c.fetched = true
	c.lastErr = nil
	return nil
}

// EnsureFetched fetches the collection if it has never loaded in this
// session. Views call it on mount; catalog-like collections therefore
// fetch exactly once.
func (c *Controller[T]) EnsureFetched(ctx context.Context) error {
	c.mu.Lock()
	fetched := c.fetched
	c.mu.Unlock()
	if fetched {
		return nil
	}
	return c.Fetch(ctx)
}

// OnFocus implements the refocus/reconnect policy: eager collections
// refetch, catalog collections do nothing.
func (c *Controller[T]) OnFocus(ctx context.Context) error {
	if !c.cfg.RefetchOnFocus {
		return nil
	}
	return c.Fetch(ctx)
}

// Items returns a copy of the unfiltered snapshot in server order.
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.items...)
}

// Fetched reports whether the collection has loaded successfully at
// least once this session. When true, a later failed fetch still leaves
// a usable (stale) snapshot behind.
func (c *Controller[T]) Fetched() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetched
}

// Loading reports whether any fetch is in flight.
func (c *Controller[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight > 0
}

// LastError returns the most recent fetch failure, or nil after a
// successful fetch.
func (c *Controller[T]) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// SetFilter updates one dimension of the controller's own filter state.
// Empty value or the "ALL" sentinel clears the dimension. No network
// call happens.
func (c *Controller[T]) SetFilter(dimension, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.SetDimension(dimension, value)
}

// SetTags replaces the controller's multi-select tag filter.
func (c *Controller[T]) SetTags(tags []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.SetTags(tags)
}

// SetQuery replaces the controller's free-text search query.
func (c *Controller[T]) SetQuery(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.SetQuery(query)
}

// ResetFilters restores the default (unfiltered) state.
func (c *Controller[T]) ResetFilters() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters = FilterState{}
}

// DerivedList recomputes the visible subset. It is a pure function of
// the snapshot and the filter state: filters apply in a fixed order.
// Configured dimensions first (type/category before status by registry
// convention), then tags requiring all selected tags present, then
// free-text search last, matching case-insensitively across the entity's
// searchable fields. The snapshot itself is never mutated and relative
// order is preserved.
func (c *Controller[T]) DerivedList() []T {
	c.mu.Lock()
	items := c.items
	filters := c.filters.clone()
	c.mu.Unlock()

	return deriveList(items, filters, c.cfg)
}

// Derived returns the filtered view as an any-typed value for generic
// JSON rendering.
func (c *Controller[T]) Derived() any { return c.DerivedList() }

// DerivedListWith computes the filtered view for a caller-held filter
// state. The controller's own selections are neither read nor written,
// so concurrent callers with different filters cannot interleave.
func (c *Controller[T]) DerivedListWith(filters FilterState) []T {
	c.mu.Lock()
	items := c.items
	c.mu.Unlock()

	return deriveList(items, filters.clone(), c.cfg)
}

// DerivedWith is DerivedListWith as an any-typed value for generic JSON
// rendering.
func (c *Controller[T]) DerivedWith(filters FilterState) any {
	return c.DerivedListWith(filters)
}

func deriveList[T any](items []T, filters FilterState, cfg Config[T]) []T {
	out := make([]T, 0, len(items))
	out = append(out, items...)

	if cfg.Dimension != nil {
		for _, dim := range cfg.DimensionOrder {
			want, ok := filters.dims[dim]
			if !ok {
				continue
			}
			out = keep(out, func(item T) bool {
				return strings.EqualFold(cfg.Dimension(item, dim), want)
			})
		}
	}

	if cfg.Tags != nil && len(filters.tags) > 0 {
		out = keep(out, func(item T) bool {
			return containsAll(cfg.Tags(item), filters.tags)
		})
	}

	if cfg.SearchText != nil && filters.query != "" {
		needle := strings.ToLower(filters.query)
		out = keep(out, func(item T) bool {
			for _, field := range cfg.SearchText(item) {
				if strings.Contains(strings.ToLower(field), needle) {
					return true
				}
			}
			return false
		})
	}

	return out
}

func keep[T any](items []T, pred func(T) bool) []T {
	out := items[:0:0]
	for _, item := range items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}

func containsAll(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if strings.EqualFold(h, w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Export serializes the currently derived (filtered) view into a
// spreadsheet, never the full snapshot.
func (c *Controller[T]) Export() (*export.File, error) {
	if len(c.cfg.Columns) == 0 {
		return nil, errors.New("resource: no export columns configured for " + c.cfg.Name)
	}
	return export.Spreadsheet(c.cfg.Name, c.cfg.Columns, c.DerivedList())
}

// ExportWith serializes the view selected by a caller-held filter state.
func (c *Controller[T]) ExportWith(filters FilterState) (*export.File, error) {
	if len(c.cfg.Columns) == 0 {
		return nil, errors.New("resource: no export columns configured for " + c.cfg.Name)
	}
	return export.Spreadsheet(c.cfg.Name, c.cfg.Columns, c.DerivedListWith(filters))
}

// Create posts a new entity and refetches the collection on success.
// Mutations never patch the snapshot locally: the backend owns derived
// fields, so a full refetch is the only way to stay consistent.
func (c *Controller[T]) Create(ctx context.Context, body json.RawMessage) error {
	if _, err := c.cfg.Client.Create(ctx, c.cfg.Path, body); err != nil {
		return err
	}
	return c.Fetch(ctx)
}

// Update patches an entity and refetches on success. A NotFound outcome
// also triggers a refetch so a stale list reconciles with the server.
func (c *Controller[T]) Update(ctx context.Context, id string, body json.RawMessage) error {
	if _, err := c.cfg.Client.Update(ctx, c.cfg.Path, id, body); err != nil {
		c.refetchIfGone(ctx, err)
		return err
	}
	return c.Fetch(ctx)
}

// Delete removes an entity and refetches on success.
func (c *Controller[T]) Delete(ctx context.Context, id string) error {
	if err := c.cfg.Client.Delete(ctx, c.cfg.Path, id); err != nil {
		c.refetchIfGone(ctx, err)
		return err
	}
	return c.Fetch(ctx)
}

func (c *Controller[T]) refetchIfGone(ctx context.Context, err error) {
	if upstream.IsNotFound(err) {
		// The row vanished under us; resync quietly.
		_ = c.Fetch(ctx)
	}
}

// LookupByID resolves a foreign key against another controller's
// snapshot by linear scan. Absence yields the zero value, a usable empty
// placeholder, so downstream field access never panics.
func LookupByID[T any](ctl *Controller[T], id string, idOf func(T) string) T {
	var zero T
	if ctl == nil || id == "" {
		return zero
	}
	for _, item := range ctl.Items() {
		if idOf(item) == id {
			return item
		}
	}
	return zero
}
