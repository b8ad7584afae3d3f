package service

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/ddlog/ddlog/pkg/entity"
)

// ExportService renders a task collection into downloadable payloads. Pure
// formatting, no business rules.
type ExportService struct {
	now func() time.Time
}

func NewExportService() *ExportService {
	return &ExportService{
		now: time.Now,
	}
}

func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func (es *ExportService) CSV(tasks []*entity.Task) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	records := [][]string{
		{"Name", "Description", "Completed", "Category", "Reminder", "Created At", "Completed At"},
	}
	for _, t := range tasks {
		completedAt := ""
		if t.CompletedAt != nil {
			completedAt = formatTimestamp(*t.CompletedAt)
		}
		records = append(records, []string{
			t.Name,
			t.Description,
			yesNo(t.Completed),
			t.Category,
			t.ReminderTime,
			formatTimestamp(t.CreatedAt),
			completedAt,
		})
	}
	if err := w.WriteAll(records); err != nil {
		return nil, errors.New("writing csv error: " + err.Error())
	}
	return buf.Bytes(), nil
}

func (es *ExportService) PDF(tasks []*entity.Task, startDate, endDate string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("ddLOG Task Report", false)
	pdf.SetAutoPageBreak(true, 25)
	generatedAt := es.now()
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(154, 163, 175)
		pdf.CellFormat(0, 10,
			fmt.Sprintf("Generated at %s | ddLOG task tracker", formatTimestamp(generatedAt)),
			"", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 12, "Task Report - ddLOG", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Period: %s - %s", startDate, endDate), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	total := len(tasks)
	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}
	rate := 0.0
	if total > 0 {
		rate = float64(completed) / float64(total) * 100
	}
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 6, fmt.Sprintf("Total tasks: %d", total), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Completed tasks: %d", completed), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Pending tasks: %d", total-completed), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Completion rate: %.1f%%", rate), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	if total == 0 {
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(0, 8, "No tasks found in the selected period.", "", 1, "L", false, 0, "")
	} else {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 8, "Tasks", "", 1, "L", false, 0, "")
		pdf.Ln(2)
		for _, t := range tasks {
			status := "[ ]"
			if t.Completed {
				status = "[x]"
				pdf.SetTextColor(34, 197, 94)
			} else {
				pdf.SetTextColor(107, 114, 128)
			}
			pdf.SetFont("Helvetica", "B", 11)
			pdf.MultiCell(0, 6, fmt.Sprintf("%s %s", status, t.Name), "", "L", false)
			if t.Description != "" {
				pdf.SetFont("Helvetica", "", 10)
				pdf.SetTextColor(75, 85, 99)
				pdf.MultiCell(0, 5, "    "+t.Description, "", "L", false)
			}
			details := "    Created: " + t.CreatedAt.Format("2006-01-02")
			if t.Category != "" {
				details += " | Category: " + t.Category
			}
			if t.Completed && t.CompletedAt != nil {
				details += " | Completed: " + t.CompletedAt.Format("2006-01-02")
			}
			if t.ReminderTime != "" {
				details += " | Reminder: " + t.ReminderTime
			}
			pdf.SetFont("Helvetica", "", 9)
			pdf.SetTextColor(107, 114, 128)
			pdf.MultiCell(0, 5, details, "", "L", false)
			pdf.Ln(3)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.New("writing pdf error: " + err.Error())
	}
	return buf.Bytes(), nil
}
