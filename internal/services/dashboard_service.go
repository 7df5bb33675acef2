package services

import (
	"context"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const recentOrdersLimit = 5

// DashboardStats is the admin overview.
type DashboardStats struct {
	TotalUsers      int64           `json:"totalUsers"`
	TotalProducts   int64           `json:"totalProducts"`
	TotalOrders     int64           `json:"totalOrders"`
	TotalCategories int64           `json:"totalCategories"`
	Revenue         decimal.Decimal `json:"revenue"`
	RecentOrders    []models.Order  `json:"recentOrders"`
}

// DashboardService aggregates store-wide figures.
type DashboardService struct {
	store repositories.Store
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(store repositories.Store) *DashboardService {
	return &DashboardService{store: store}
}

// Stats runs the dashboard queries concurrently. Revenue counts delivered
// orders only.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.TotalUsers, err = s.store.Users().Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalProducts, err = s.store.Products().Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalOrders, err = s.store.Orders().Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalCategories, err = s.store.Categories().Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Revenue, err = s.store.Orders().SumTotalByStatus(ctx, models.OrderStatusDelivered)
		return err
	})
	g.Go(func() (err error) {
		stats.RecentOrders, err = s.store.Orders().Recent(ctx, recentOrdersLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if stats.RecentOrders == nil {
		stats.RecentOrders = []models.Order{}
	}
	return stats, nil
}
