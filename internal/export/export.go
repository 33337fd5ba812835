// Package export writes campaign performance workbooks for offline review.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/dillontadeo/ai-content-pipeline/internal/logger"
	"github.com/dillontadeo/ai-content-pipeline/internal/types"
)

const performanceSheet = "Campaign Performance"
const personaSheet = "Persona Summary"

var performanceHeaders = []string{
	"Campaign", "Send Date", "Persona", "Blog Title", "Sent",
	"Opens", "Clicks", "Bounces", "Unsubscribes",
	"Open Rate", "Click Rate", "Engagement Score",
}

// PerformanceWorkbook builds an xlsx workbook from campaign history.
// The first sheet lists every campaign row, the second aggregates by persona.
func PerformanceWorkbook(history []types.HistoryEntry) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), performanceSheet)

	for col, header := range performanceHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(performanceSheet, cell, header); err != nil {
			return nil, err
		}
	}

	for i, entry := range history {
		row := []any{
			entry.CampaignName,
			entry.SendDate.Format("2006-01-02"),
			entry.Persona,
			entry.BlogTitle,
			entry.ContactsSent,
			entry.Opens,
			entry.Clicks,
			entry.Bounces,
			entry.Unsubscribes,
			entry.OpenRate,
			entry.ClickRate,
			entry.EngagementScore,
		}
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("row cell: %w", err)
			}
			if err := f.SetCellValue(performanceSheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	if err := writePersonaSheet(f, history); err != nil {
		return nil, err
	}

	logger.Component("export").WithField("rows", len(history)).Info("performance workbook built")
	return f, nil
}

func writePersonaSheet(f *excelize.File, history []types.HistoryEntry) error {
	if _, err := f.NewSheet(personaSheet); err != nil {
		return err
	}

	headers := []string{"Persona", "Campaigns", "Avg Open Rate", "Avg Click Rate", "Avg Engagement Score"}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(personaSheet, cell, header); err != nil {
			return err
		}
	}

	row := 2
	for _, persona := range []string{"founders", "creatives", "operations"} {
		stats := personaStats(history, persona)
		if stats.campaigns == 0 {
			continue
		}
		values := []any{persona, stats.campaigns, stats.avgOpen, stats.avgClick, stats.avgScore}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(personaSheet, cell, value); err != nil {
				return err
			}
		}
		row++
	}
	return nil
}

type personaSummary struct {
	campaigns int
	avgOpen   float64
	avgClick  float64
	avgScore  float64
}

func personaStats(history []types.HistoryEntry, persona string) personaSummary {
	var s personaSummary
	for _, entry := range history {
		if entry.Persona != persona {
			continue
		}
		s.campaigns++
		s.avgOpen += entry.OpenRate
		s.avgClick += entry.ClickRate
		s.avgScore += entry.EngagementScore
	}
	if s.campaigns > 0 {
		n := float64(s.campaigns)
		s.avgOpen /= n
		s.avgClick /= n
		s.avgScore /= n
	}
	return s
}

// WritePerformanceReport streams the workbook to w.
func WritePerformanceReport(w io.Writer, history []types.HistoryEntry) error {
	f, err := PerformanceWorkbook(history)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
