package dto

import (
	"github.com/sbfleet/fleet_account_manager/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DashboardSummaryResponse carries the aggregate stats plus the top review
// alerts in a single payload so the dashboard renders off one request.
type DashboardSummaryResponse struct {
	Total       int               `json:"total"`
	Active      int               `json:"active"`
	Inactive    int               `json:"inactive"`
	NeedsReview int               `json:"needsReview"`
	TotalSales  decimal.Decimal   `json:"totalSales"`
	Alerts      []AccountResponse `json:"alerts"`
}

// ToDashboardSummaryResponse assembles the response from the aggregates and
// the alert list.
func ToDashboardSummaryResponse(summary domain.DashboardSummary, alerts []domain.Account) DashboardSummaryResponse {
	alertDTOs := make([]AccountResponse, len(alerts))
	for i := range alerts {
		alertDTOs[i] = ToAccountResponse(&alerts[i])
	}
	return DashboardSummaryResponse{
		Total:       summary.Total,
		Active:      summary.Active,
		Inactive:    summary.Inactive,
		NeedsReview: summary.NeedsReview,
		TotalSales:  summary.TotalSales,
		Alerts:      alertDTOs,
	}
}
