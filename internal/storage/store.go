// Package storage persists generated content, campaigns, contacts and
// engagement metrics in Postgres.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	_ "github.com/lib/pq"

	"github.com/dillontadeo/ai-content-pipeline/internal/logger"
	"github.com/dillontadeo/ai-content-pipeline/internal/types"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to Postgres and verifies the connection.
func Open(url string) (*Store, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return New(db), nil
}

func (s *Store) Close() error { return s.db.Close() }

var schema = []string{
	`CREATE TABLE IF NOT EXISTS content (
		id SERIAL PRIMARY KEY,
		topic TEXT NOT NULL,
		blog_title TEXT NOT NULL,
		blog_content TEXT NOT NULL,
		blog_outline TEXT,
		word_count INTEGER,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS newsletters (
		id SERIAL PRIMARY KEY,
		content_id INTEGER NOT NULL REFERENCES content (id),
		persona TEXT NOT NULL,
		subject_line TEXT NOT NULL,
		body TEXT NOT NULL,
		word_count INTEGER,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS campaigns (
		id SERIAL PRIMARY KEY,
		content_id INTEGER NOT NULL REFERENCES content (id),
		campaign_name TEXT NOT NULL,
		send_date TIMESTAMPTZ NOT NULL DEFAULT now(),
		status TEXT NOT NULL DEFAULT 'sent',
		crm_campaign_id TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS campaign_performance (
		id SERIAL PRIMARY KEY,
		campaign_id INTEGER NOT NULL REFERENCES campaigns (id),
		persona TEXT NOT NULL,
		contacts_sent INTEGER NOT NULL DEFAULT 0,
		opens INTEGER NOT NULL DEFAULT 0,
		clicks INTEGER NOT NULL DEFAULT 0,
		bounces INTEGER NOT NULL DEFAULT 0,
		unsubscribes INTEGER NOT NULL DEFAULT 0,
		open_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
		click_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
		click_to_open_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
		bounce_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
		unsubscribe_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
		engagement_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS contacts (
		id SERIAL PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		first_name TEXT,
		last_name TEXT,
		persona TEXT NOT NULL,
		company TEXT,
		crm_contact_id TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS performance_insights (
		id SERIAL PRIMARY KEY,
		campaign_id INTEGER NOT NULL REFERENCES campaigns (id),
		insight_text TEXT NOT NULL,
		recommendations TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// InitSchema creates the tables if they do not exist.
func (s *Store) InitSchema(ctx context.Context) error {
	log := logger.Component("storage")
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	log.Info("schema ready")
	return nil
}

// Content is one stored blog post.
type Content struct {
	ID        int64     `json:"id"`
	Topic     string    `json:"topic"`
	BlogTitle string    `json:"blog_title"`
	BlogBody  string    `json:"blog_content"`
	Outline   string    `json:"blog_outline"`
	WordCount int       `json:"word_count"`
	CreatedAt time.Time `json:"created_at"`
}

// NewsletterRow is one stored persona newsletter.
type NewsletterRow struct {
	ID        int64     `json:"id"`
	ContentID int64     `json:"content_id"`
	Persona   string    `json:"persona"`
	Subject   string    `json:"subject_line"`
	Body      string    `json:"body"`
	WordCount int       `json:"word_count"`
	CreatedAt time.Time `json:"created_at"`
}

// Campaign is one stored distribution campaign joined with its content.
type Campaign struct {
	ID            int64     `json:"id"`
	ContentID     int64     `json:"content_id"`
	CampaignName  string    `json:"campaign_name"`
	SendDate      time.Time `json:"send_date"`
	Status        string    `json:"status"`
	CRMCampaignID string    `json:"crm_campaign_id,omitempty"`
	BlogTitle     string    `json:"blog_title"`
	Topic         string    `json:"topic"`
}

func (s *Store) SaveContent(ctx context.Context, topic string, post types.BlogPost) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO content (topic, blog_title, blog_content, blog_outline, word_count)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		topic, post.Title, post.Content, post.Outline, post.WordCount,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("save content: %w", err)
	}
	return id, nil
}

func (s *Store) SaveNewsletter(ctx context.Context, contentID int64, n types.Newsletter) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO newsletters (content_id, persona, subject_line, body, word_count)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		contentID, n.Persona, n.SubjectLine, n.Body, n.WordCount,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("save newsletter: %w", err)
	}
	return id, nil
}

func (s *Store) CreateCampaign(ctx context.Context, contentID int64, name, crmCampaignID string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO campaigns (content_id, campaign_name, crm_campaign_id)
		 VALUES ($1, $2, $3) RETURNING id`,
		contentID, name, crmCampaignID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create campaign: %w", err)
	}
	return id, nil
}

func (s *Store) SaveCampaignPerformance(ctx context.Context, campaignID int64, rec types.PersonaRecord) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO campaign_performance
		 (campaign_id, persona, contacts_sent, opens, clicks, bounces, unsubscribes,
		  open_rate, click_rate, click_to_open_rate, bounce_rate, unsubscribe_rate, engagement_score)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`,
		campaignID, rec.Persona,
		rec.ContactsSent, rec.Opens, rec.Clicks, rec.Bounces, rec.Unsubscribes,
		rec.OpenRate, rec.ClickRate, rec.ClickToOpenRate, rec.BounceRate, rec.UnsubscribeRate, rec.EngagementScore,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("save campaign performance: %w", err)
	}
	return id, nil
}

// SaveContact upserts by email.
func (s *Store) SaveContact(ctx context.Context, c types.Contact) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO contacts (email, first_name, last_name, persona, company, crm_contact_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (email) DO UPDATE SET
		   first_name = EXCLUDED.first_name,
		   last_name = EXCLUDED.last_name,
		   persona = EXCLUDED.persona,
		   company = EXCLUDED.company,
		   crm_contact_id = EXCLUDED.crm_contact_id,
		   updated_at = now()
		 RETURNING id`,
		c.Email, c.FirstName, c.LastName, c.Persona, c.Company, c.CRMContactID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("save contact: %w", err)
	}
	return id, nil
}

func (s *Store) SaveInsight(ctx context.Context, campaignID int64, insightText string, recommendations []string) (int64, error) {
	recJSON, err := json.Marshal(recommendations)
	if err != nil {
		return 0, fmt.Errorf("encode recommendations: %w", err)
	}

	var id int64
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO performance_insights (campaign_id, insight_text, recommendations)
		 VALUES ($1, $2, $3) RETURNING id`,
		campaignID, insightText, string(recJSON),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("save insight: %w", err)
	}
	return id, nil
}

func (s *Store) GetContent(ctx context.Context, id int64) (Content, error) {
	var c Content
	err := s.db.QueryRowContext(ctx,
		`SELECT id, topic, blog_title, blog_content, COALESCE(blog_outline, ''), COALESCE(word_count, 0), created_at
		 FROM content WHERE id = $1`, id,
	).Scan(&c.ID, &c.Topic, &c.BlogTitle, &c.BlogBody, &c.Outline, &c.WordCount, &c.CreatedAt)
	if err != nil {
		return Content{}, fmt.Errorf("get content %d: %w", id, err)
	}
	return c, nil
}

func (s *Store) GetNewslettersForContent(ctx context.Context, contentID int64) ([]NewsletterRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content_id, persona, subject_line, body, COALESCE(word_count, 0), created_at
		 FROM newsletters WHERE content_id = $1`, contentID)
	if err != nil {
		return nil, fmt.Errorf("get newsletters: %w", err)
	}
	defer rows.Close()

	var out []NewsletterRow
	for rows.Next() {
		var n NewsletterRow
		if err := rows.Scan(&n.ID, &n.ContentID, &n.Persona, &n.Subject, &n.Body, &n.WordCount, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan newsletter: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) GetCampaignPerformance(ctx context.Context, campaignID int64) ([]types.PersonaRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT persona, contacts_sent, opens, clicks, bounces, unsubscribes,
		        open_rate, click_rate, click_to_open_rate, bounce_rate, unsubscribe_rate, engagement_score
		 FROM campaign_performance WHERE campaign_id = $1`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("get campaign performance: %w", err)
	}
	defer rows.Close()

	var out []types.PersonaRecord
	for rows.Next() {
		var r types.PersonaRecord
		if err := rows.Scan(&r.Persona, &r.ContactsSent, &r.Opens, &r.Clicks, &r.Bounces, &r.Unsubscribes,
			&r.OpenRate, &r.ClickRate, &r.ClickToOpenRate, &r.BounceRate, &r.UnsubscribeRate, &r.EngagementScore); err != nil {
			return nil, fmt.Errorf("scan performance: %w", err)
		}
		r.CampaignID = strconv.FormatInt(campaignID, 10)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) GetAllCampaigns(ctx context.Context) ([]Campaign, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.content_id, c.campaign_name, c.send_date, c.status, COALESCE(c.crm_campaign_id, ''),
		        co.blog_title, co.topic
		 FROM campaigns c
		 JOIN content co ON c.content_id = co.id
		 ORDER BY c.send_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("get campaigns: %w", err)
	}
	defer rows.Close()

	var out []Campaign
	for rows.Next() {
		var c Campaign
		if err := rows.Scan(&c.ID, &c.ContentID, &c.CampaignName, &c.SendDate, &c.Status, &c.CRMCampaignID,
			&c.BlogTitle, &c.Topic); err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) GetContactsByPersona(ctx context.Context, persona string) ([]types.Contact, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT email, COALESCE(first_name, ''), COALESCE(last_name, ''), persona, COALESCE(company, ''), COALESCE(crm_contact_id, '')
		 FROM contacts WHERE persona = $1`, persona)
	if err != nil {
		return nil, fmt.Errorf("get contacts: %w", err)
	}
	defer rows.Close()

	var out []types.Contact
	for rows.Next() {
		var c types.Contact
		if err := rows.Scan(&c.Email, &c.FirstName, &c.LastName, &c.Persona, &c.Company, &c.CRMContactID); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetHistoricalPerformance returns up to limit performance rows joined with
// their campaign and content, most recent campaigns first. Trend analysis
// depends on this ordering.
func (s *Store) GetHistoricalPerformance(ctx context.Context, limit int) ([]types.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT cp.persona, cp.contacts_sent, cp.opens, cp.clicks, cp.bounces, cp.unsubscribes,
		        cp.open_rate, cp.click_rate, cp.click_to_open_rate, cp.bounce_rate, cp.unsubscribe_rate, cp.engagement_score,
		        cp.campaign_id, c.campaign_name, c.send_date, co.blog_title, co.topic
		 FROM campaign_performance cp
		 JOIN campaigns c ON cp.campaign_id = c.id
		 JOIN content co ON c.content_id = co.id
		 ORDER BY c.send_date DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("get historical performance: %w", err)
	}
	defer rows.Close()

	var out []types.HistoryEntry
	for rows.Next() {
		var h types.HistoryEntry
		var campaignID int64
		if err := rows.Scan(&h.Persona, &h.ContactsSent, &h.Opens, &h.Clicks, &h.Bounces, &h.Unsubscribes,
			&h.OpenRate, &h.ClickRate, &h.ClickToOpenRate, &h.BounceRate, &h.UnsubscribeRate, &h.EngagementScore,
			&campaignID, &h.CampaignName, &h.SendDate, &h.BlogTitle, &h.Topic); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		h.CampaignID = strconv.FormatInt(campaignID, 10)
		out = append(out, h)
	}
	return out, rows.Err()
}
