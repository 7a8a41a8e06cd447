package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/sbfleet/fleet_account_manager/internal/core/domain"
	portssvc "github.com/sbfleet/fleet_account_manager/internal/core/ports/services"
	"github.com/xuri/excelize/v2"
)

// exportServiceImpl renders the account list as an XLSX workbook for the
// back-office spreadsheet workflow.
type exportServiceImpl struct {
	BaseService
	accountService portssvc.AccountSvcFacade
}

// NewExportServiceImpl creates a new export service on top of the account
// service, so the export honors the same filter+search composition as the
// list screen.
func NewExportServiceImpl(accountService portssvc.AccountSvcFacade) portssvc.ExportSvcFacade {
	return &exportServiceImpl{accountService: accountService}
}

var _ portssvc.ExportSvcFacade = (*exportServiceImpl)(nil)

var exportHeaders = []string{
	"Business Account ID", "Company Name", "Contact Name", "Contact Phone",
	"Address", "City", "State", "ZIP", "Account Type", "Active",
	"Needs Review", "Review Notes", "Total Sales", "Last Invoice", "Source", "Updated At",
}

func (s *exportServiceImpl) ExportAccounts(ctx context.Context, filter domain.AccountFilter, search string) ([]byte, error) {
	accounts, err := s.accountService.ListAccounts(ctx, filter, search)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Accounts"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}
	endCell, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	if err := f.SetCellStyle(sheet, "A1", endCell, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i := range accounts {
		acc := &accounts[i]
		lastInvoice := ""
		if acc.LastInvoiceDate != nil {
			lastInvoice = acc.LastInvoiceDate.Format("2006-01-02")
		}
		values := []any{
			acc.BusinessAccountID,
			acc.CompanyName,
			acc.ContactName,
			acc.ContactPhone,
			acc.Address,
			acc.City,
			acc.State,
			acc.ZipCode,
			string(acc.AccountType),
			acc.IsActive,
			acc.NeedsReview,
			acc.ReviewNotes,
			// StringFixed keeps the full decimal value; a float64
			// round-trip would drift for large balances.
			acc.TotalSales.StringFixed(2),
			lastInvoice,
			acc.Source,
			acc.UpdatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	s.LogInfo(ctx, "Account export generated",
		slog.String("filter", string(filter)),
		slog.Int("rows", len(accounts)))
	return buf.Bytes(), nil
}
