package resource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aimspurefied/healer-ui-api/internal/domain/model"
	"github.com/aimspurefied/healer-ui-api/internal/export"
	"github.com/aimspurefied/healer-ui-api/internal/upstream"
)

// fakeClient implements Client with canned responses per call.
type fakeClient struct {
	listResponses []json.RawMessage
	listErrs      []error
	listCalls     int

	createErr error
	updateErr error
	deleteErr error

	createCalls int
	updateCalls int
	deleteCalls int
}

func (f *fakeClient) List(_ context.Context, _ string) (json.RawMessage, error) {
	i := f.listCalls
	f.listCalls++
	var err error
	if i < len(f.listErrs) {
		err = f.listErrs[i]
	}
	if err != nil {
		return nil, err
	}
	if i < len(f.listResponses) {
		return f.listResponses[i], nil
	}
	return json.RawMessage(`[]`), nil
}

func (f *fakeClient) Create(_ context.Context, _ string, _ any) (json.RawMessage, error) {
	f.createCalls++
	return nil, f.createErr
}

func (f *fakeClient) Update(_ context.Context, _, _ string, _ any) (json.RawMessage, error) {
	f.updateCalls++
	return nil, f.updateErr
}

func (f *fakeClient) Delete(_ context.Context, _, _ string) error {
	f.deleteCalls++
	return f.deleteErr
}

func shipmentConfig(client Client) Config[model.Shipment] {
	return Config[model.Shipment]{
		Name:           "shipments",
		Path:           "/shipments",
		Client:         client,
		DimensionOrder: []string{"type", "status"},
		Dimension: func(sh model.Shipment, dim string) string {
			switch dim {
			case "type":
				return sh.Type
			case "status":
				return sh.Status
			}
			return ""
		},
		Tags:       func(sh model.Shipment) []string { return sh.Tags },
		SearchText: func(sh model.Shipment) []string { return []string{sh.ID, sh.Address} },
		Columns: []export.Column{
			{Header: "Shipment", Expr: "_id"},
			{Header: "Status", Expr: "status"},
		},
	}
}

// tenShipments builds the canonical scenario: 10 shipments, exactly 3 of
// which are PENDING+BOOKS.
func tenShipments() []model.Shipment {
	out := make([]model.Shipment, 0, 10)
	for i := 1; i <= 10; i++ {
		sh := model.Shipment{
			ID:     fmt.Sprintf("d%02d", i),
			Type:   model.ShipmentTypeMerch,
			Status: model.ShipmentStatusShipped,
		}
		if i == 2 || i == 5 || i == 9 {
			sh.Type = model.ShipmentTypeBooks
			sh.Status = model.ShipmentStatusPending
		}
		out = append(out, sh)
	}
	return out
}

func marshalData(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func newShipmentController(t *testing.T, client Client) *Controller[model.Shipment] {
	t.Helper()
	ctl, err := New(shipmentConfig(client))
	require.NoError(t, err)
	return ctl
}

func TestNew_ValidatesConfig(t *testing.T) {
	_, err := New(Config[model.Shipment]{Path: "/x", Client: &fakeClient{}})
	require.Error(t, err)

	_, err = New(Config[model.Shipment]{Name: "x", Client: &fakeClient{}})
	require.Error(t, err)

	_, err = New(Config[model.Shipment]{Name: "x", Path: "/x"})
	require.Error(t, err)
}

func TestFetch_ReplacesItemsWholesale(t *testing.T) {
	client := &fakeClient{listResponses: []json.RawMessage{
		marshalData(t, tenShipments()),
		marshalData(t, tenShipments()[:4]),
	}}
	ctl := newShipmentController(t, client)
	ctx := context.Background()

	require.NoError(t, ctl.Fetch(ctx))
	assert.Len(t, ctl.Items(), 10)

	require.NoError(t, ctl.Fetch(ctx))
	assert.Len(t, ctl.Items(), 4)
}

func TestFetch_FailureKeepsStaleItemsAndSetsLastError(t *testing.T) {
	fetchErr := errors.New("boom")
	client := &fakeClient{
		listResponses: []json.RawMessage{marshalData(t, tenShipments()), nil, marshalData(t, tenShipments()[:2])},
		listErrs:      []error{nil, fetchErr, nil},
	}
	ctl := newShipmentController(t, client)
	ctx := context.Background()

	require.NoError(t, ctl.Fetch(ctx))
	require.Len(t, ctl.Items(), 10)

	// Failed fetch: previous snapshot stays visible, lastErr is set.
	require.Error(t, ctl.Fetch(ctx))
	assert.Len(t, ctl.Items(), 10)
	assert.Equal(t, fetchErr, ctl.LastError())

	// Next success clears the error and replaces wholesale.
	require.NoError(t, ctl.Fetch(ctx))
	assert.Len(t, ctl.Items(), 2)
	assert.NoError(t, ctl.LastError())
}

func TestDerivedList_StatusAndTypeFilterScenario(t *testing.T) {
	client := &fakeClient{listResponses: []json.RawMessage{marshalData(t, tenShipments())}}
	ctl := newShipmentController(t, client)
	require.NoError(t, ctl.Fetch(context.Background()))

	ctl.SetFilter("status", model.ShipmentStatusPending)
	ctl.SetFilter("type", model.ShipmentTypeBooks)

	derived := ctl.DerivedList()
	require.Len(t, derived, 3)
	// Original relative order is preserved.
	assert.Equal(t, "d02", derived[0].ID)
	assert.Equal(t, "d05", derived[1].ID)
	assert.Equal(t, "d09", derived[2].ID)
}

func TestDerivedList_IsPureAndIdempotent(t *testing.T) {
	client := &fakeClient{listResponses: []json.RawMessage{marshalData(t, tenShipments())}}
	ctl := newShipmentController(t, client)
	require.NoError(t, ctl.Fetch(context.Background()))

	ctl.SetFilter("status", model.ShipmentStatusPending)

	first := ctl.DerivedList()
	second := ctl.DerivedList()
	assert.Equal(t, first, second)

	// Deriving never mutates the snapshot.
	assert.Len(t, ctl.Items(), 10)
}

func TestDerivedList_RemovingFilterRestoresUnfilteredResult(t *testing.T) {
	client := &fakeClient{listResponses: []json.RawMessage{marshalData(t, tenShipments())}}
	ctl := newShipmentController(t, client)
	require.NoError(t, ctl.Fetch(context.Background()))

	baseline := ctl.DerivedList()

	ctl.SetFilter("status", model.ShipmentStatusPending)
	require.Len(t, ctl.DerivedList(), 3)

	// Both clearing forms restore the baseline.
	ctl.SetFilter("status", FilterAll)
	assert.Equal(t, baseline, ctl.DerivedList())

	ctl.SetFilter("status", model.ShipmentStatusPending)
	ctl.SetFilter("status", "")
	assert.Equal(t, baseline, ctl.DerivedList())

	// ResetFilters wipes everything at once.
	ctl.SetFilter("status", model.ShipmentStatusPending)
	ctl.SetQuery("d0")
	ctl.ResetFilters()
	assert.Equal(t, baseline, ctl.DerivedList())
}

func TestDerivedListWith_LeavesControllerSelectionsAlone(t *testing.T) {
	client := &fakeClient{listResponses: []json.RawMessage{marshalData(t, tenShipments())}}
	ctl := newShipmentController(t, client)
	require.NoError(t, ctl.Fetch(context.Background()))

	ctl.SetFilter("status", model.ShipmentStatusShipped)

	var filters FilterState
	filters.SetDimension("status", model.ShipmentStatusPending)
	filters.SetDimension("type", model.ShipmentTypeBooks)

	derived := ctl.DerivedListWith(filters)
	require.Len(t, derived, 3)
	assert.Equal(t, "d02", derived[0].ID)

	// The controller's own selections still say SHIPPED.
	assert.Len(t, ctl.DerivedList(), 7)
}

func TestDerivedListWith_ConcurrentCallersStayIsolated(t *testing.T) {
	client := &fakeClient{listResponses: []json.RawMessage{marshalData(t, tenShipments())}}
	ctl := newShipmentController(t, client)
	require.NoError(t, ctl.Fetch(context.Background()))

	var pending FilterState
	pending.SetDimension("status", model.ShipmentStatusPending)

	const iterations = 500
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			for _, sh := range ctl.DerivedListWith(pending) {
				if sh.Status != model.ShipmentStatusPending {
					t.Errorf("PENDING view contained %s row %s", sh.Status, sh.ID)
					return
				}
			}
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			if got := len(ctl.DerivedListWith(FilterState{})); got != 10 {
				t.Errorf("unfiltered view had %d rows, want 10", got)
				return
			}
		}
	}()

	wg.Wait()
}

func TestDerivedList_TagFilterRequiresAllTags(t *testing.T) {
	shipments := []model.Shipment{
		{ID: "d1", Tags: []string{"fragile", "priority"}},
		{ID: "d2", Tags: []string{"fragile"}},
		{ID: "d3", Tags: []string{"priority", "fragile", "gift"}},
	}
	client := &fakeClient{listResponses: []json.RawMessage{marshalData(t, shipments)}}
	ctl := newShipmentController(t, client)
	require.NoError(t, ctl.Fetch(context.Background()))

	ctl.SetTags([]string{"fragile", "priority"})

	derived := ctl.DerivedList()
	require.Len(t, derived, 2)
	assert.Equal(t, "d1", derived[0].ID)
	assert.Equal(t, "d3", derived[1].ID)
}

func TestDerivedList_FreeTextSearchIsCaseInsensitiveAndLast(t *testing.T) {
	shipments := []model.Shipment{
		{ID: "d1", Status: "PENDING", Address: "12 Mirpur Road, Dhaka"},
		{ID: "d2", Status: "PENDING", Address: "45 Station Road, Chittagong"},
		{ID: "d3", Status: "SHIPPED", Address: "9 Lake View, Dhaka"},
	}
	client := &fakeClient{listResponses: []json.RawMessage{marshalData(t, shipments)}}
	ctl := newShipmentController(t, client)
	require.NoError(t, ctl.Fetch(context.Background()))

	ctl.SetFilter("status", "PENDING")
	ctl.SetQuery("dhaka")

	derived := ctl.DerivedList()
	require.Len(t, derived, 1)
	assert.Equal(t, "d1", derived[0].ID)
}

func TestExport_RowCountMatchesDerivedListNotItems(t *testing.T) {
	client := &fakeClient{listResponses: []json.RawMessage{marshalData(t, tenShipments())}}
	ctl := newShipmentController(t, client)
	require.NoError(t, ctl.Fetch(context.Background()))

	ctl.SetFilter("status", model.ShipmentStatusPending)
	ctl.SetFilter("type", model.ShipmentTypeBooks)

	file, err := ctl.Export()
	require.NoError(t, err)
	assert.NotEmpty(t, file.Content)
	// 3 filtered rows, not the 10 cached ones. Verified precisely in the
	// export package tests; here we only check the derived length feed.
	assert.Len(t, ctl.DerivedList(), 3)
}

func TestMutate_SuccessTriggersRefetch(t *testing.T) {
	client := &fakeClient{listResponses: []json.RawMessage{
		marshalData(t, tenShipments()),
		marshalData(t, tenShipments()[:6]),
	}}
	ctl := newShipmentController(t, client)
	ctx := context.Background()
	require.NoError(t, ctl.Fetch(ctx))

	require.NoError(t, ctl.Create(ctx, json.RawMessage(`{"orderId":"o1"}`)))
	assert.Equal(t, 1, client.createCalls)
	assert.Equal(t, 2, client.listCalls) // initial fetch + post-mutation resync
	assert.Len(t, ctl.Items(), 6)
}

func TestMutate_FailureLeavesItemsUntouched(t *testing.T) {
	client := &fakeClient{
		listResponses: []json.RawMessage{marshalData(t, tenShipments())},
		updateErr:     &upstream.APIError{Kind: upstream.KindValidation, StatusCode: 400},
	}
	ctl := newShipmentController(t, client)
	ctx := context.Background()
	require.NoError(t, ctl.Fetch(ctx))

	err := ctl.Update(ctx, "d01", json.RawMessage(`{}`))
	require.Error(t, err)
	assert.Equal(t, upstream.KindValidation, upstream.KindOf(err))
	assert.Len(t, ctl.Items(), 10)
	assert.Equal(t, 1, client.listCalls) // no refetch on validation failure
}

func TestMutate_NotFoundTriggersReconcilingRefetch(t *testing.T) {
	client := &fakeClient{
		listResponses: []json.RawMessage{
			marshalData(t, tenShipments()),
			marshalData(t, tenShipments()[:9]),
		},
		deleteErr: &upstream.APIError{Kind: upstream.KindNotFound, StatusCode: 404},
	}
	ctl := newShipmentController(t, client)
	ctx := context.Background()
	require.NoError(t, ctl.Fetch(ctx))

	err := ctl.Delete(ctx, "d10")
	require.Error(t, err)
	assert.True(t, upstream.IsNotFound(err))
	// The stale row is reconciled away by the follow-up fetch.
	assert.Len(t, ctl.Items(), 9)
}

func TestEnsureFetched_FetchesOnlyOnce(t *testing.T) {
	client := &fakeClient{listResponses: []json.RawMessage{marshalData(t, tenShipments())}}
	ctl := newShipmentController(t, client)
	ctx := context.Background()

	require.NoError(t, ctl.EnsureFetched(ctx))
	require.NoError(t, ctl.EnsureFetched(ctx))
	assert.Equal(t, 1, client.listCalls)
}

func TestOnFocus_HonorsPerEntityPolicy(t *testing.T) {
	eager := &fakeClient{}
	cfg := shipmentConfig(eager)
	cfg.RefetchOnFocus = true
	ctl, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, ctl.OnFocus(context.Background()))
	assert.Equal(t, 1, eager.listCalls)

	catalog := &fakeClient{}
	ctl = newShipmentController(t, catalog)
	require.NoError(t, ctl.OnFocus(context.Background()))
	assert.Zero(t, catalog.listCalls)
}

func TestLookupByID_AbsenceYieldsZeroPlaceholder(t *testing.T) {
	client := &fakeClient{listResponses: []json.RawMessage{marshalData(t, []model.Student{
		{ID: "s1", Name: "Asha"},
	})}}
	ctl, err := New(Config[model.Student]{Name: "students", Path: "/students", Client: client})
	require.NoError(t, err)
	require.NoError(t, ctl.Fetch(context.Background()))

	found := LookupByID(ctl, "s1", func(s model.Student) string { return s.ID })
	assert.Equal(t, "Asha", found.Name)

	missing := LookupByID(ctl, "nope", func(s model.Student) string { return s.ID })
	assert.Empty(t, missing.Name) // zero value, field access is safe
}
