package crm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dillontadeo/ai-content-pipeline/internal/config"
	"github.com/dillontadeo/ai-content-pipeline/internal/types"
)

func mockClient() *Client {
	return NewClient(config.HubSpotConfig{BaseURL: "https://api.hubapi.com"})
}

func TestMockMode_WhenNoAPIKey(t *testing.T) {
	assert.True(t, mockClient().MockMode())
	assert.False(t, NewClient(config.HubSpotConfig{APIKey: "k", BaseURL: "x"}).MockMode())
}

func TestCreateOrUpdateContact_Mock(t *testing.T) {
	res, err := mockClient().CreateOrUpdateContact(context.Background(), types.Contact{
		Email: "jo@example.com", Persona: "founders",
	})
	require.NoError(t, err)
	assert.Equal(t, "created (mock)", res.Status)
	assert.Equal(t, "jo@example.com", res.Email)
	assert.NotEmpty(t, res.ContactID)
}

func TestSendEmailToContacts_Mock(t *testing.T) {
	contacts := []types.Contact{{Email: "a@x.com"}, {Email: "b@x.com"}}

	res, err := mockClient().SendEmailToContacts(context.Background(), contacts, "Subject", "Body", "Launch - founders")
	require.NoError(t, err)
	assert.Equal(t, 2, res.ContactsSent)
	assert.Equal(t, "sent (mock)", res.Status)
	assert.Equal(t, "Launch - founders", res.CampaignName)
	assert.NotEmpty(t, res.CampaignID)
}

func TestGetCampaignAnalytics_MockBounds(t *testing.T) {
	c := mockClient()
	for i := 0; i < 25; i++ {
		counts, err := c.GetCampaignAnalytics(context.Background(), "camp-1")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, counts.Sent, 50)
		assert.LessOrEqual(t, counts.Sent, 200)
		assert.LessOrEqual(t, counts.Opens, counts.Sent)
		assert.LessOrEqual(t, counts.Clicks, counts.Opens)
	}
}

func TestSegmentContactsByPersona(t *testing.T) {
	contacts := []types.Contact{
		{Email: "a@x.com", Persona: "founders"},
		{Email: "b@x.com", Persona: "Creatives"}, // case-insensitive
		{Email: "c@x.com", Persona: "operations"},
		{Email: "d@x.com", Persona: "interns"}, // unknown, dropped
		{Email: "e@x.com", Persona: "founders"},
	}

	segmented := SegmentContactsByPersona(contacts)

	assert.Len(t, segmented["founders"], 2)
	assert.Len(t, segmented["creatives"], 1)
	assert.Len(t, segmented["operations"], 1)
	assert.Len(t, segmented, 3)
}

func TestCreateOrUpdateContact_ConflictTriggersUpdate(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/crm/v3/objects/contacts":
			w.WriteHeader(http.StatusConflict)
		case r.URL.Path == "/crm/v3/objects/contacts/search":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"results": []map[string]string{{"id": "123"}},
			})
		case r.Method == http.MethodPatch && r.URL.Path == "/crm/v3/objects/contacts/123":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(config.HubSpotConfig{APIKey: "key", BaseURL: srv.URL})
	res, err := c.CreateOrUpdateContact(context.Background(), types.Contact{Email: "dup@example.com"})
	require.NoError(t, err)

	assert.Equal(t, "updated", res.Status)
	assert.Equal(t, "123", res.ContactID)
	require.Len(t, paths, 3)
}

func TestCreateOrUpdateContact_Created(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "999"})
	}))
	defer srv.Close()

	c := NewClient(config.HubSpotConfig{APIKey: "key", BaseURL: srv.URL})
	res, err := c.CreateOrUpdateContact(context.Background(), types.Contact{Email: "new@example.com"})
	require.NoError(t, err)

	assert.Equal(t, "created", res.Status)
	assert.Equal(t, "999", res.ContactID)
}
