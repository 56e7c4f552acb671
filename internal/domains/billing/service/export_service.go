package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"salonsuite-backend/internal/domains/billing/repository"
)

type exportService struct {
	repo repository.BillRepository
}

func NewExportService(repo repository.BillRepository) Exporter {
	return &exportService{repo: repo}
}

var exportHeaders = []string{
	"Invoice #", "Date", "Customer ID", "Status",
	"Sub Total", "Discount", "CGST", "SGST", "Grand Total", "Paid", "Dues",
	"Coupons", "Items",
}

// ExportBills renders the store's bills for [from, to) as an xlsx
// workbook. Returns the file bytes and a suggested filename.
func (s *exportService) ExportBills(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]byte, string, error) {
	bills, err := s.repo.ListForExport(ctx, storeID, from, to)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Bills"
	f.SetSheetName("Sheet1", sheet)

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, "", fmt.Errorf("write export header: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		lastCell, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
		_ = f.SetCellStyle(sheet, "A1", lastCell, headerStyle)
	}

	for i, bill := range bills {
		itemSummary := ""
		for j, item := range bill.Items {
			if j > 0 {
				itemSummary += "; "
			}
			itemSummary += fmt.Sprintf("%s x%d", item.Name, item.Quantity)
		}

		coupons := ""
		for j, code := range bill.CouponCodes {
			if j > 0 {
				coupons += ", "
			}
			coupons += code
		}

		row := []interface{}{
			bill.InvoiceNumber,
			bill.CreatedAt.Format("2006-01-02 15:04"),
			bill.CustomerID.String(),
			string(bill.Status),
			bill.SubTotal.InexactFloat64(),
			bill.DiscountAmount.InexactFloat64(),
			bill.CGSTAmount.InexactFloat64(),
			bill.SGSTAmount.InexactFloat64(),
			bill.GrandTotal.InexactFloat64(),
			bill.PaidAmount.InexactFloat64(),
			bill.Dues.InexactFloat64(),
			coupons,
			itemSummary,
		}

		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, "", fmt.Errorf("write export row: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("write export workbook: %w", err)
	}

	filename := fmt.Sprintf("bills_%s_%s.xlsx",
		from.Format("20060102"), to.Add(-24*time.Hour).Format("20060102"))

	return buf.Bytes(), filename, nil
}
