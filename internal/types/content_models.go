// internal/types/content_models.go
package types

import (
	"encoding/json"
	"strings"
	"time"
)

// --------------------------------------------
// Generated content
// --------------------------------------------

type BlogPost struct {
	Title     string `json:"title"`
	Outline   string `json:"outline"`
	Content   string `json:"content"`
	WordCount int    `json:"word_count"`
}

type Newsletter struct {
	Persona     string `json:"persona"`
	SubjectLine string `json:"subject_line"`
	Body        string `json:"body"`
	WordCount   int    `json:"word_count"`
}

// ContentVariation is one A/B variation of a newsletter.
type ContentVariation struct {
	VariationNumber int    `json:"variation_number"`
	SubjectLine     string `json:"subject_line"`
	Body            string `json:"body"`
	Approach        string `json:"approach"`
	WordCount       int    `json:"word_count"`
}

// --------------------------------------------
// CRM
// --------------------------------------------

type Contact struct {
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Persona      string `json:"persona"`
	Company      string `json:"company,omitempty"`
	CRMContactID string `json:"crm_contact_id,omitempty"`
}

// SendResult summarizes one campaign send through the CRM.
type SendResult struct {
	CampaignID   string `json:"campaign_id"`
	CampaignName string `json:"campaign_name"`
	ContactsSent int    `json:"contacts_sent"`
	Status       string `json:"status"`
}

type EngagementEvent struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Campaign  string    `json:"campaign"`
}

// --------------------------------------------
// AI insight report
// --------------------------------------------

// FlexibleText decodes either a JSON string or a list of strings; models
// sometimes return key_insights as a bullet list.
type FlexibleText string

func (f *FlexibleText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexibleText(s)
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*f = FlexibleText(strings.Join(items, "\n"))
	return nil
}

// InsightReport is the structured narrative returned by the model, merged
// with locally computed metadata and per-persona optimization suggestions.
type InsightReport struct {
	KeyInsights        FlexibleText `json:"key_insights"`
	BestSegment        string       `json:"best_segment"`
	Opportunities      FlexibleText `json:"opportunities"`
	Recommendations    []string     `json:"recommendations"`
	ContentSuggestions []string     `json:"content_suggestions"`

	GeneratedAt      time.Time `json:"generated_at"`
	Campaign         string    `json:"campaign"`
	AnalyzedSegments int       `json:"analyzed_segments"`

	// Keyed by persona, filled by the pipeline after the model call.
	Suggestions map[string][]string `json:"suggestions,omitempty"`
}
