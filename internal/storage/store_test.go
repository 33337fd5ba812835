package storage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dillontadeo/ai-content-pipeline/internal/types"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db), mock
}

func TestSaveContent(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO content`).
		WithArgs("automation", "Title", "Body", "Outline", 450).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	id, err := store.SaveContent(context.Background(), "automation", types.BlogPost{
		Title: "Title", Content: "Body", Outline: "Outline", WordCount: 450,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveCampaignPerformance(t *testing.T) {
	store, mock := newMockStore(t)

	rec := types.PersonaRecord{
		CampaignMetrics: types.CampaignMetrics{
			ContactsSent: 100, Opens: 30, Clicks: 12, Bounces: 2, Unsubscribes: 1,
			OpenRate: 0.30, ClickRate: 0.12, ClickToOpenRate: 0.40,
			BounceRate: 0.02, UnsubscribeRate: 0.01, EngagementScore: 100,
		},
		Persona: "founders",
	}

	mock.ExpectQuery(`INSERT INTO campaign_performance`).
		WithArgs(int64(3), "founders", 100, 30, 12, 2, 1, 0.30, 0.12, 0.40, 0.02, 0.01, 100.0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	id, err := store.SaveCampaignPerformance(context.Background(), 3, rec)
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveContact_Upsert(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO contacts .* ON CONFLICT \(email\) DO UPDATE`).
		WithArgs("jo@x.com", "Jo", "Smith", "founders", "Agency Co", "crm-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	id, err := store.SaveContact(context.Background(), types.Contact{
		Email: "jo@x.com", FirstName: "Jo", LastName: "Smith",
		Persona: "founders", Company: "Agency Co", CRMContactID: "crm-1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
}

func TestSaveInsight_EncodesRecommendations(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO performance_insights`).
		WithArgs(int64(9), "insight text", `["a","b"]`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))

	id, err := store.SaveInsight(context.Background(), 9, "insight text", []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)
}

func TestGetHistoricalPerformance(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"persona", "contacts_sent", "opens", "clicks", "bounces", "unsubscribes",
		"open_rate", "click_rate", "click_to_open_rate", "bounce_rate", "unsubscribe_rate", "engagement_score",
		"campaign_id", "campaign_name", "send_date", "blog_title", "topic",
	}).
		AddRow("founders", 100, 30, 12, 2, 1, 0.30, 0.12, 0.40, 0.02, 0.01, 100.0, 4, "Launch - founders", now, "Blog A", "automation").
		AddRow("creatives", 80, 28, 11, 1, 0, 0.35, 0.1375, 0.392, 0.0125, 0.0, 100.0, 3, "Launch - creatives", now.Add(-24*time.Hour), "Blog A", "automation")

	mock.ExpectQuery(`SELECT cp\.persona, .* ORDER BY c\.send_date DESC`).
		WithArgs(20).
		WillReturnRows(rows)

	history, err := store.GetHistoricalPerformance(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, history, 2)

	// most recent first, as the trend analyzer expects
	assert.Equal(t, "founders", history[0].Persona)
	assert.Equal(t, "4", history[0].CampaignID)
	assert.Equal(t, "Blog A", history[0].BlogTitle)
	assert.True(t, history[0].SendDate.After(history[1].SendDate))
}

func TestGetCampaignPerformance(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{
		"persona", "contacts_sent", "opens", "clicks", "bounces", "unsubscribes",
		"open_rate", "click_rate", "click_to_open_rate", "bounce_rate", "unsubscribe_rate", "engagement_score",
	}).AddRow("operations", 60, 12, 4, 1, 1, 0.20, 0.0667, 0.333, 0.0167, 0.0167, 100.0)

	mock.ExpectQuery(`SELECT persona, .* FROM campaign_performance WHERE campaign_id`).
		WithArgs(int64(8)).
		WillReturnRows(rows)

	recs, err := store.GetCampaignPerformance(context.Background(), 8)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "operations", recs[0].Persona)
	assert.Equal(t, "8", recs[0].CampaignID)
}

func TestGetAllCampaigns(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "content_id", "campaign_name", "send_date", "status", "crm_campaign_id", "blog_title", "topic"}).
		AddRow(2, 1, "Launch - founders", now, "sent", "camp_ab12", "Blog A", "automation")

	mock.ExpectQuery(`SELECT c\.id, .* FROM campaigns c`).WillReturnRows(rows)

	campaigns, err := store.GetAllCampaigns(context.Background())
	require.NoError(t, err)
	require.Len(t, campaigns, 1)
	assert.Equal(t, "Launch - founders", campaigns[0].CampaignName)
	assert.Equal(t, "camp_ab12", campaigns[0].CRMCampaignID)
}
