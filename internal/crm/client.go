// Package crm integrates with a HubSpot-style CRM for contact management,
// segmentation and campaign sends. Without an API key the client runs in
// mock mode and simulates realistic responses, so the rest of the pipeline
// can run end to end offline.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dillontadeo/ai-content-pipeline/internal/config"
	"github.com/dillontadeo/ai-content-pipeline/internal/logger"
	"github.com/dillontadeo/ai-content-pipeline/internal/types"
)

var httpClient = &http.Client{Timeout: 12 * time.Second}

type Client struct {
	apiKey  string
	baseURL string
	mock    bool
	rng     *rand.Rand
}

func NewClient(cfg config.HubSpotConfig) *Client {
	c := &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		mock:    cfg.APIKey == "",
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if c.mock {
		logger.Component("crm").Warn("CRM API key not configured, running in mock mode")
	}
	return c
}

// MockMode reports whether the client simulates CRM calls.
func (c *Client) MockMode() bool { return c.mock }

// ContactResult reports the outcome of a contact upsert.
type ContactResult struct {
	ContactID string `json:"contact_id"`
	Status    string `json:"status"`
	Email     string `json:"email"`
}

// CreateOrUpdateContact upserts a contact. An existing contact (409 from the
// create call) is looked up by email and updated in place.
func (c *Client) CreateOrUpdateContact(ctx context.Context, contact types.Contact) (ContactResult, error) {
	if c.mock {
		return ContactResult{
			ContactID: uuid.New().String(),
			Status:    "created (mock)",
			Email:     contact.Email,
		}, nil
	}

	properties := map[string]string{
		"email":     contact.Email,
		"firstname": contact.FirstName,
		"lastname":  contact.LastName,
		"persona":   contact.Persona,
	}
	if contact.Company != "" {
		properties["company"] = contact.Company
	}

	status, body, err := c.do(ctx, http.MethodPost, "/crm/v3/objects/contacts", map[string]any{"properties": properties})
	if err != nil {
		return ContactResult{}, fmt.Errorf("create contact: %w", err)
	}

	if status == http.StatusConflict {
		// contact exists, find and update
		id, err := c.searchContactByEmail(ctx, contact.Email)
		if err != nil {
			return ContactResult{}, err
		}
		if _, _, err := c.do(ctx, http.MethodPatch, "/crm/v3/objects/contacts/"+id, map[string]any{"properties": properties}); err != nil {
			return ContactResult{}, fmt.Errorf("update contact: %w", err)
		}
		return ContactResult{ContactID: id, Status: "updated", Email: contact.Email}, nil
	}
	if status >= 400 {
		return ContactResult{}, fmt.Errorf("create contact: status %d: %s", status, body)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return ContactResult{}, fmt.Errorf("parse contact response: %w", err)
	}
	return ContactResult{ContactID: created.ID, Status: "created", Email: contact.Email}, nil
}

func (c *Client) searchContactByEmail(ctx context.Context, email string) (string, error) {
	payload := map[string]any{
		"filterGroups": []any{map[string]any{
			"filters": []any{map[string]string{
				"propertyName": "email",
				"operator":     "EQ",
				"value":        email,
			}},
		}},
	}
	status, body, err := c.do(ctx, http.MethodPost, "/crm/v3/objects/contacts/search", payload)
	if err != nil {
		return "", fmt.Errorf("search contact: %w", err)
	}
	if status >= 400 {
		return "", fmt.Errorf("search contact: status %d", status)
	}

	var parsed struct {
		Results []struct {
			ID string `json:"id"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse search response: %w", err)
	}
	if len(parsed.Results) == 0 {
		return "", fmt.Errorf("contact %s not found after conflict", email)
	}
	return parsed.Results[0].ID, nil
}

// SendEmailToContacts delivers one newsletter to a contact segment and
// returns the campaign send summary.
func (c *Client) SendEmailToContacts(ctx context.Context, contacts []types.Contact, subject, body, campaignName string) (types.SendResult, error) {
	log := logger.Component("crm").WithField("campaign", campaignName)

	if c.mock {
		log.WithField("recipients", len(contacts)).Info("mock campaign send")
		return types.SendResult{
			CampaignID:   "mock_camp_" + uuid.New().String()[:8],
			CampaignName: campaignName,
			ContactsSent: len(contacts),
			Status:       "sent (mock)",
		}, nil
	}

	campaignID := "camp_" + uuid.New().String()[:8]
	for _, contact := range contacts {
		payload := map[string]any{
			"message": map[string]any{
				"to":      contact.Email,
				"subject": subject,
				"body":    body,
			},
			"campaign": campaignName,
		}
		status, respBody, err := c.do(ctx, http.MethodPost, "/marketing/v3/transactional/single-email/send", payload)
		if err != nil {
			return types.SendResult{}, fmt.Errorf("send to %s: %w", contact.Email, err)
		}
		if status >= 400 {
			return types.SendResult{}, fmt.Errorf("send to %s: status %d: %s", contact.Email, status, respBody)
		}
	}

	log.WithField("recipients", len(contacts)).Info("campaign sent")
	return types.SendResult{
		CampaignID:   campaignID,
		CampaignName: campaignName,
		ContactsSent: len(contacts),
		Status:       "sent",
	}, nil
}

// SegmentContactsByPersona splits contacts into the three known segments.
// Contacts with an unrecognized persona are dropped.
func SegmentContactsByPersona(contacts []types.Contact) map[string][]types.Contact {
	segmented := map[string][]types.Contact{
		"founders":   nil,
		"creatives":  nil,
		"operations": nil,
	}
	for _, contact := range contacts {
		persona := strings.ToLower(contact.Persona)
		if _, ok := segmented[persona]; ok {
			segmented[persona] = append(segmented[persona], contact)
		}
	}
	return segmented
}

// GetCampaignAnalytics fetches raw engagement counters for a campaign. Mock
// mode fabricates plausible counters.
func (c *Client) GetCampaignAnalytics(ctx context.Context, campaignID string) (types.RawCounts, error) {
	if c.mock {
		sent := 50 + c.rng.Intn(151)
		opens := int(float64(sent) * (0.15 + c.rng.Float64()*0.20))
		clicks := int(float64(opens) * (0.20 + c.rng.Float64()*0.20))
		return types.RawCounts{
			Sent:         sent,
			Opens:        opens,
			Clicks:       clicks,
			Bounces:      int(float64(sent) * (0.01 + c.rng.Float64()*0.02)),
			Unsubscribes: int(float64(sent) * (0.001 + c.rng.Float64()*0.009)),
		}, nil
	}

	status, body, err := c.do(ctx, http.MethodGet, "/marketing/v3/campaigns/"+campaignID+"/analytics", nil)
	if err != nil {
		return types.RawCounts{}, fmt.Errorf("campaign analytics: %w", err)
	}
	if status >= 400 {
		return types.RawCounts{}, fmt.Errorf("campaign analytics: status %d", status)
	}

	var counts types.RawCounts
	if err := json.Unmarshal(body, &counts); err != nil {
		return types.RawCounts{}, fmt.Errorf("parse analytics response: %w", err)
	}
	return counts, nil
}

// GetContactEngagementHistory lists engagement events for one contact.
func (c *Client) GetContactEngagementHistory(ctx context.Context, contactID string) ([]types.EngagementEvent, error) {
	if c.mock {
		return []types.EngagementEvent{{
			Type:      "EMAIL_OPEN",
			Timestamp: time.Now(),
			Campaign:  "mock_campaign",
		}}, nil
	}

	status, body, err := c.do(ctx, http.MethodGet, "/crm/v3/objects/contacts/"+contactID+"/engagements", nil)
	if err != nil {
		return nil, fmt.Errorf("engagement history: %w", err)
	}
	if status >= 400 {
		return nil, fmt.Errorf("engagement history: status %d", status)
	}

	var events []types.EngagementEvent
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("parse engagement response: %w", err)
	}
	return events, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, body, nil
}
