package services

import (
	"context"
	"log/slog"

	"github.com/sbfleet/fleet_account_manager/internal/core/domain"
	portsrepo "github.com/sbfleet/fleet_account_manager/internal/core/ports/repositories"
	portssvc "github.com/sbfleet/fleet_account_manager/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// reviewAlertLimit caps the dashboard alert list.
const reviewAlertLimit = 5

// dashboardServiceImpl implements DashboardSvcFacade.
type dashboardServiceImpl struct {
	BaseService
	accountRepo portsrepo.AccountReader
}

// NewDashboardServiceImpl creates a new dashboard service.
func NewDashboardServiceImpl(repo portsrepo.AccountReader) portssvc.DashboardSvcFacade {
	return &dashboardServiceImpl{accountRepo: repo}
}

var _ portssvc.DashboardSvcFacade = (*dashboardServiceImpl)(nil)

// AggregateStats folds the projection rows into the dashboard counters.
// Missing total_sales values arrive as zero from the repository.
func AggregateStats(rows []domain.AccountStatsRow) domain.DashboardSummary {
	summary := domain.DashboardSummary{TotalSales: decimal.Zero}
	for _, row := range rows {
		summary.Total++
		if row.IsActive {
			summary.Active++
		} else {
			summary.Inactive++
		}
		if row.NeedsReview {
			summary.NeedsReview++
		}
		summary.TotalSales = summary.TotalSales.Add(row.TotalSales)
	}
	return summary
}

// GetSummary fetches the stats projection and the review alerts concurrently.
// Either section failing degrades that section to zero/empty; the dashboard
// always renders. Failures are logged, never surfaced to the client.
func (s *dashboardServiceImpl) GetSummary(ctx context.Context) (domain.DashboardSummary, []domain.Account, error) {
	var (
		statsRows []domain.AccountStatsRow
		alerts    []domain.Account
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.accountRepo.ListForDashboard(gctx)
		if err != nil {
			s.LogWarn(ctx, "Dashboard stats fetch failed, degrading to zeros", slog.String("error", err.Error()))
			return nil
		}
		statsRows = rows
		return nil
	})
	g.Go(func() error {
		list, err := s.accountRepo.ListReviewAlerts(gctx, reviewAlertLimit)
		if err != nil {
			s.LogWarn(ctx, "Review alerts fetch failed, degrading to empty", slog.String("error", err.Error()))
			return nil
		}
		alerts = list
		return nil
	})
	// Errors are swallowed above; Wait only synchronizes.
	_ = g.Wait()

	if alerts == nil {
		alerts = []domain.Account{}
	}
	return AggregateStats(statsRows), alerts, nil
}
