package report

import (
	"fmt"
	"time"

	"go-pipeline/internal/features/projection"
	"go-pipeline/internal/models"
	"go-pipeline/internal/state"

	"github.com/xuri/excelize/v2"
)

type ReportService interface {
	// ExportSnapshot renders the current snapshot into an xlsx workbook with
	// a Contacts sheet and a Follow-up Log sheet.
	ExportSnapshot() ([]byte, string, error)
}

type ReportServiceImpl struct {
	State *state.AppState
}

func NewReportService(appState *state.AppState) ReportService {
	return &ReportServiceImpl{
		State: appState,
	}
}

var contactColumns = []string{
	"Lead-no", "Company", "Country", "Sales Person", "Intern Name",
	"Key Person", "Designation", "Number", "Email",
	"Pipeline Stage", "Status", "Next Follow-up Date", "Verification",
}

var logColumns = []string{
	"Lead-no", "Company", "Key Person", "Sales Person",
	"Timestamp", "Action", "Details", "Remarks",
}

func (s *ReportServiceImpl) ExportSnapshot() ([]byte, string, error) {
	snapshot := s.State.Snapshot()
	stages := projection.StageByLead(snapshot.FollowUpLogs)

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	contactsSheet := "Contacts"
	index, err := f.NewSheet(contactsSheet)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	writeHeader(f, contactsSheet, contactColumns, headerStyle)
	for rowIdx, contact := range snapshot.Contacts {
		values := []any{
			contact.LeadNo, contact.Company, contact.Country, contact.SalesPerson, contact.InternName,
			contact.KeyPerson, contact.Designation, contact.Number, contact.Email,
			projection.Stage(stages, contact.LeadNo), contact.Status, contact.NextFollowUpDate, contact.Verification,
		}
		writeRow(f, contactsSheet, rowIdx+2, values)
	}
	sizeColumns(f, contactsSheet, len(contactColumns))

	logsSheet := "Follow-up Log"
	if _, err := f.NewSheet(logsSheet); err != nil {
		return nil, "", err
	}
	writeHeader(f, logsSheet, logColumns, headerStyle)
	for rowIdx, entry := range snapshot.FollowUpLogs {
		values := []any{
			entry.LeadNo, entry.Company, entry.KeyPerson, entry.SalesPerson,
			entry.Timestamp.Format("2006-01-02 15:04:05"), entry.Action, entry.Details,
			models.CleanRemarks(entry.Remarks),
		}
		writeRow(f, logsSheet, rowIdx+2, values)
	}
	sizeColumns(f, logsSheet, len(logColumns))

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("pipeline-%s.xlsx", time.Now().Format("2006-01-02"))
	return buffer.Bytes(), filename, nil
}

func writeHeader(f *excelize.File, sheet string, columns []string, style int) {
	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, col)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}

func writeRow(f *excelize.File, sheet string, row int, values []any) {
	for colIdx, val := range values {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, row)
		f.SetCellValue(sheet, cell, val)
	}
}

func sizeColumns(f *excelize.File, sheet string, count int) {
	for i := 0; i < count; i++ {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, 18)
	}
}
