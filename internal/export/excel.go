// Package export renders the financial workbook: one sheet per ledger
// (events, expenses) plus the summary totals.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"venuecal/internal/finance"
	"venuecal/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const (
	sheetEvents   = "Events"
	sheetExpenses = "Expenses"
	sheetSummary  = "Summary"
)

// Reporter writes xlsx reports into the configured export directory.
type Reporter struct {
	exportPath string
	logger     *zerolog.Logger
}

func NewReporter(exportPath string, logger *zerolog.Logger) *Reporter {
	return &Reporter{
		exportPath: exportPath,
		logger:     logger,
	}
}

// FinancialReport writes the full admin workbook and returns its path.
func (r *Reporter) FinancialReport(events []*models.VenueEvent, expenses []*models.VenueExpense, summary finance.Summary) (string, error) {
	if err := os.MkdirAll(r.exportPath, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := r.writeEventsSheet(f, events); err != nil {
		return "", err
	}
	if err := r.writeExpensesSheet(f, expenses); err != nil {
		return "", err
	}
	if err := r.writeSummarySheet(f, summary); err != nil {
		return "", err
	}

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("financial_report_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(r.exportPath, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("save report: %w", err)
	}

	r.logger.Info().Str("file_path", filePath).Msg("financial report created")
	return filePath, nil
}

func (r *Reporter) writeEventsSheet(f *excelize.File, events []*models.VenueEvent) error {
	index, err := f.NewSheet(sheetEvents)
	if err != nil {
		return fmt.Errorf("create events sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{
		"Date", "Name", "Type", "Rental Fee", "Extras", "Costs",
		"Commission", "Payment Status", "Planner",
	}
	writeHeaderRow(f, sheetEvents, headers)

	for i, ev := range events {
		row := i + 2
		_ = f.SetCellValue(sheetEvents, fmt.Sprintf("A%d", row), ev.Date)
		_ = f.SetCellValue(sheetEvents, fmt.Sprintf("B%d", row), ev.Name)
		_ = f.SetCellValue(sheetEvents, fmt.Sprintf("C%d", row), ev.EventType)
		_ = f.SetCellValue(sheetEvents, fmt.Sprintf("D%d", row), ev.Financials.VenueRentalFee)
		_ = f.SetCellValue(sheetEvents, fmt.Sprintf("E%d", row), ev.Financials.IncomeFromExtras)
		_ = f.SetCellValue(sheetEvents, fmt.Sprintf("F%d", row), ev.Financials.Costs)
		_ = f.SetCellValue(sheetEvents, fmt.Sprintf("G%d", row), ev.Financials.PlannerCommission)
		_ = f.SetCellValue(sheetEvents, fmt.Sprintf("H%d", row), ev.Financials.Payment.Status)
		_ = f.SetCellValue(sheetEvents, fmt.Sprintf("I%d", row), ev.Financials.PlannerID)
	}

	_ = f.SetColWidth(sheetEvents, "A", "A", 12)
	_ = f.SetColWidth(sheetEvents, "B", "B", 30)
	_ = f.SetColWidth(sheetEvents, "C", "I", 15)
	return nil
}

func (r *Reporter) writeExpensesSheet(f *excelize.File, expenses []*models.VenueExpense) error {
	if _, err := f.NewSheet(sheetExpenses); err != nil {
		return fmt.Errorf("create expenses sheet: %w", err)
	}

	writeHeaderRow(f, sheetExpenses, []string{"Date", "Category", "Amount", "Description"})

	for i, e := range expenses {
		row := i + 2
		_ = f.SetCellValue(sheetExpenses, fmt.Sprintf("A%d", row), e.Date)
		_ = f.SetCellValue(sheetExpenses, fmt.Sprintf("B%d", row), e.Category)
		_ = f.SetCellValue(sheetExpenses, fmt.Sprintf("C%d", row), e.Amount)
		_ = f.SetCellValue(sheetExpenses, fmt.Sprintf("D%d", row), e.Description)
	}

	_ = f.SetColWidth(sheetExpenses, "A", "A", 12)
	_ = f.SetColWidth(sheetExpenses, "B", "C", 15)
	_ = f.SetColWidth(sheetExpenses, "D", "D", 40)
	return nil
}

func (r *Reporter) writeSummarySheet(f *excelize.File, summary finance.Summary) error {
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	rows := []struct {
		label string
		value float64
	}{
		{"Total Rental Income", summary.TotalRental},
		{"Income From Extras", summary.TotalExtras},
		{"Total Income", summary.TotalIncome},
		{"Received Income", summary.ReceivedIncome},
		{"Pending Income", summary.PendingIncome},
		{"Event Costs", summary.TotalEventCosts},
		{"Planner Commissions", summary.TotalCommissions},
		{"Total Costs", summary.TotalAllCosts},
		{"Net Profit", summary.NetProfit},
	}

	row := 1
	for _, item := range rows {
		_ = f.SetCellValue(sheetSummary, fmt.Sprintf("A%d", row), item.label)
		_ = f.SetCellValue(sheetSummary, fmt.Sprintf("B%d", row), item.value)
		row++
	}
	if summary.TotalExpenses != nil {
		_ = f.SetCellValue(sheetSummary, fmt.Sprintf("A%d", row), "Venue Expenses")
		_ = f.SetCellValue(sheetSummary, fmt.Sprintf("B%d", row), *summary.TotalExpenses)
		row++
	}
	_ = f.SetCellValue(sheetSummary, fmt.Sprintf("A%d", row), "Event Count")
	_ = f.SetCellValue(sheetSummary, fmt.Sprintf("B%d", row), summary.EventCount)

	_ = f.SetColWidth(sheetSummary, "A", "A", 25)
	_ = f.SetColWidth(sheetSummary, "B", "B", 15)
	return nil
}

func writeHeaderRow(f *excelize.File, sheet string, headers []string) {
	style, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, header)
		_ = f.SetCellStyle(sheet, cell, cell, style)
	}
}
