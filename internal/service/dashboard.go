package service

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/aimspurefied/healer-ui-api/internal/domain/model"
	"github.com/aimspurefied/healer-ui-api/internal/resource"
	"github.com/aimspurefied/healer-ui-api/internal/upstream"
)

// Stats is the dashboard summary computed over the current snapshots.
type Stats struct {
	Students         int     `json:"students"`
	ActiveStudents   int     `json:"activeStudents"`
	Orders           int     `json:"orders"`
	PendingOrders    int     `json:"pendingOrders"`
	Revenue          float64 `json:"revenue"`
	PendingShipments int     `json:"pendingShipments"`
}

// DashboardOptions groups dependencies for DashboardService.
type DashboardOptions struct {
	Registry *resource.Registry
	Balance  *upstream.BalanceClient
	Logger   *slog.Logger
}

// DashboardService aggregates numbers across the commerce collections
// for the landing screen. The SMS balance is a separate on-demand call,
// never polled and never folded into Stats.
type DashboardService struct {
	registry *resource.Registry
	balance  *upstream.BalanceClient
	logger   *slog.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(opts DashboardOptions) (*DashboardService, error) {
	if opts.Registry == nil {
		return nil, errors.New("dashboard: Registry is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		registry: opts.Registry,
		balance:  opts.Balance,
		logger:   logger,
	}, nil
}

// Stats loads the four commerce collections concurrently and reduces
// them to the summary counts. Any fetch failure fails the whole call;
// the collections keep their previous snapshots.
func (s *DashboardService) Stats(ctx context.Context) (Stats, error) {
	reg := s.registry

	g, gctx := errgroup.WithContext(ctx)
	for _, ctl := range []resource.Handle{reg.Students, reg.Orders, reg.Payments, reg.Shipments} {
		g.Go(func() error { return ctl.EnsureFetched(gctx) })
	}
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	var out Stats
	for _, st := range reg.Students.Items() {
		out.Students++
		if st.Status == model.StudentStatusActive {
			out.ActiveStudents++
		}
	}
	for _, o := range reg.Orders.Items() {
		out.Orders++
		if o.Status == model.OrderStatusPending {
			out.PendingOrders++
		}
	}
	for _, p := range reg.Payments.Items() {
		if p.Status == model.PaymentStatusComplete {
			out.Revenue += p.Amount
		}
	}
	for _, sh := range reg.Shipments.Items() {
		if sh.Status == model.ShipmentStatusPending {
			out.PendingShipments++
		}
	}
	return out, nil
}

// SMSBalance fetches the gateway balance. Callers invoke it only on an
// explicit user action.
func (s *DashboardService) SMSBalance(ctx context.Context) (float64, error) {
	if s.balance == nil {
		return 0, errors.New("dashboard: SMS balance endpoint is not configured")
	}
	return s.balance.Fetch(ctx)
}
