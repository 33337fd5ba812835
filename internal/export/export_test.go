package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/dillontadeo/ai-content-pipeline/internal/types"
)

func entry(campaign, persona string, sent int, openRate, clickRate, score float64) types.HistoryEntry {
	e := types.HistoryEntry{
		CampaignName: campaign,
		SendDate:     time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
		BlogTitle:    "Scaling Creative Teams",
		Topic:        "scaling",
	}
	e.Persona = persona
	e.ContactsSent = sent
	e.Opens = int(float64(sent) * openRate)
	e.Clicks = int(float64(sent) * clickRate)
	e.OpenRate = openRate
	e.ClickRate = clickRate
	e.EngagementScore = score
	return e
}

func TestPerformanceWorkbookRows(t *testing.T) {
	history := []types.HistoryEntry{
		entry("Launch - founders", "founders", 100, 0.30, 0.12, 100),
		entry("Launch - creatives", "creatives", 80, 0.22, 0.06, 71),
	}

	f, err := PerformanceWorkbook(history)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(performanceSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per entry")

	assert.Equal(t, "Campaign", rows[0][0])
	assert.Equal(t, "Engagement Score", rows[0][11])

	assert.Equal(t, "Launch - founders", rows[1][0])
	assert.Equal(t, "2025-06-12", rows[1][1])
	assert.Equal(t, "founders", rows[1][2])
	assert.Equal(t, "100", rows[1][4])

	assert.Equal(t, "Launch - creatives", rows[2][0])
}

func TestPerformanceWorkbookPersonaSummary(t *testing.T) {
	history := []types.HistoryEntry{
		entry("A - founders", "founders", 100, 0.30, 0.12, 90),
		entry("B - founders", "founders", 100, 0.20, 0.08, 70),
		entry("A - creatives", "creatives", 50, 0.25, 0.10, 80),
	}

	f, err := PerformanceWorkbook(history)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(personaSheet)
	require.NoError(t, err)
	// Header, founders, creatives. Operations has no campaigns and is omitted.
	require.Len(t, rows, 3)

	assert.Equal(t, "founders", rows[1][0])
	assert.Equal(t, "2", rows[1][1])
	assert.Equal(t, "0.25", rows[1][2])

	assert.Equal(t, "creatives", rows[2][0])
	assert.Equal(t, "1", rows[2][1])
}

func TestPerformanceWorkbookEmptyHistory(t *testing.T) {
	f, err := PerformanceWorkbook(nil)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(performanceSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
}

func TestWritePerformanceReport(t *testing.T) {
	history := []types.HistoryEntry{
		entry("Launch - founders", "founders", 100, 0.30, 0.12, 100),
	}

	var buf bytes.Buffer
	require.NoError(t, WritePerformanceReport(&buf, history))
	require.NotZero(t, buf.Len())

	// The produced bytes must reopen as a valid workbook.
	reopened, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer reopened.Close()

	rows, err := reopened.GetRows(performanceSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
