// Package pipeline coordinates content generation, CRM distribution,
// performance collection and insight analysis into one run.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/dillontadeo/ai-content-pipeline/internal/analyzer"
	"github.com/dillontadeo/ai-content-pipeline/internal/config"
	"github.com/dillontadeo/ai-content-pipeline/internal/crm"
	"github.com/dillontadeo/ai-content-pipeline/internal/logger"
	"github.com/dillontadeo/ai-content-pipeline/internal/storage"
	"github.com/dillontadeo/ai-content-pipeline/internal/types"
)

type ContentGenerator interface {
	GenerateBlogPost(ctx context.Context, topic string) (types.BlogPost, error)
	GenerateNewsletterVariations(ctx context.Context, blogTitle, blogContent string) (map[string]types.Newsletter, error)
	SuggestNextTopics(ctx context.Context, history []types.HistoryEntry, numSuggestions int) ([]string, error)
}

type CRM interface {
	CreateOrUpdateContact(ctx context.Context, contact types.Contact) (crm.ContactResult, error)
	SendEmailToContacts(ctx context.Context, contacts []types.Contact, subject, body, campaignName string) (types.SendResult, error)
}

type Store interface {
	SaveContent(ctx context.Context, topic string, post types.BlogPost) (int64, error)
	SaveNewsletter(ctx context.Context, contentID int64, n types.Newsletter) (int64, error)
	CreateCampaign(ctx context.Context, contentID int64, name, crmCampaignID string) (int64, error)
	SaveCampaignPerformance(ctx context.Context, campaignID int64, rec types.PersonaRecord) (int64, error)
	SaveContact(ctx context.Context, c types.Contact) (int64, error)
	SaveInsight(ctx context.Context, campaignID int64, insightText string, recommendations []string) (int64, error)
	GetContactsByPersona(ctx context.Context, persona string) ([]types.Contact, error)
	GetAllCampaigns(ctx context.Context) ([]storage.Campaign, error)
	GetHistoricalPerformance(ctx context.Context, limit int) ([]types.HistoryEntry, error)
}

type InsightGenerator interface {
	GeneratePerformanceInsights(ctx context.Context, records []types.PersonaRecord, campaign types.CampaignContext) (types.InsightReport, error)
}

type Pipeline struct {
	personas map[string]config.Persona
	content  ContentGenerator
	crm      CRM
	store    Store
	insights InsightGenerator
	sim      *analyzer.Simulator
}

func New(personas map[string]config.Persona, content ContentGenerator, crmClient CRM, store Store, insights InsightGenerator, sim *analyzer.Simulator) *Pipeline {
	return &Pipeline{
		personas: personas,
		content:  content,
		crm:      crmClient,
		store:    store,
		insights: insights,
		sim:      sim,
	}
}

type ContentResult struct {
	ContentID     int64                       `json:"content_id"`
	Blog          types.BlogPost              `json:"blog"`
	Newsletters   map[string]types.Newsletter `json:"newsletters"`
	NewsletterIDs map[string]int64            `json:"newsletter_ids"`
}

type DistributionResult struct {
	CampaignName string                      `json:"campaign_name"`
	Sends        map[string]types.SendResult `json:"campaign_results"`
	CampaignIDs  map[string]int64            `json:"campaign_ids"`
}

type Result struct {
	Topic        string                         `json:"topic"`
	Status       string                         `json:"status"`
	StartedAt    time.Time                      `json:"started_at"`
	CompletedAt  time.Time                      `json:"completed_at,omitempty"`
	Content      ContentResult                  `json:"content"`
	Distribution DistributionResult             `json:"distribution"`
	Performance  map[string]types.PersonaRecord `json:"performance"`
	Insights     types.InsightReport            `json:"insights"`
	Report       string                         `json:"report"`
}

// RunFull executes generation, distribution, performance collection and
// insight analysis for one topic. In test mode a fixed contact set is seeded
// instead of reading real CRM contacts.
func (p *Pipeline) RunFull(ctx context.Context, topic string, testMode bool) (Result, error) {
	log := logger.Component("pipeline").WithField("topic", topic)
	log.Info("pipeline run started")

	result := Result{Topic: topic, Status: "in_progress", StartedAt: time.Now()}

	contentRes, err := p.generateContent(ctx, topic)
	if err != nil {
		return result, fmt.Errorf("content step: %w", err)
	}
	result.Content = contentRes

	distribution, err := p.distribute(ctx, contentRes, testMode)
	if err != nil {
		return result, fmt.Errorf("distribution step: %w", err)
	}
	result.Distribution = distribution

	performance, err := p.collectPerformance(ctx, distribution)
	if err != nil {
		return result, fmt.Errorf("performance step: %w", err)
	}
	result.Performance = performance

	insights, err := p.generateInsights(ctx, topic, contentRes, distribution, performance)
	if err != nil {
		return result, fmt.Errorf("insight step: %w", err)
	}
	result.Insights = insights

	records := make([]types.PersonaRecord, 0, len(performance))
	for _, rec := range performance {
		records = append(records, rec)
	}
	result.Report = analyzer.FormatPerformanceReport(
		types.CampaignContext{Title: contentRes.Blog.Title, Topic: topic, WordCount: contentRes.Blog.WordCount},
		result.StartedAt.Format("2006-01-02"),
		records, insights)

	result.Status = "completed"
	result.CompletedAt = time.Now()
	log.WithField("campaigns", len(distribution.Sends)).Info("pipeline run completed")
	return result, nil
}

// GenerateContentOnly runs the content step without distribution.
func (p *Pipeline) GenerateContentOnly(ctx context.Context, topic string) (ContentResult, error) {
	return p.generateContent(ctx, topic)
}

func (p *Pipeline) generateContent(ctx context.Context, topic string) (ContentResult, error) {
	log := logger.Component("pipeline")

	blog, err := p.content.GenerateBlogPost(ctx, topic)
	if err != nil {
		return ContentResult{}, err
	}
	log.WithField("title", blog.Title).WithField("word_count", blog.WordCount).Info("blog post generated")

	contentID, err := p.store.SaveContent(ctx, topic, blog)
	if err != nil {
		return ContentResult{}, err
	}

	newsletters, err := p.content.GenerateNewsletterVariations(ctx, blog.Title, blog.Content)
	if err != nil {
		return ContentResult{}, err
	}

	newsletterIDs := make(map[string]int64, len(newsletters))
	for persona, n := range newsletters {
		id, err := p.store.SaveNewsletter(ctx, contentID, n)
		if err != nil {
			return ContentResult{}, err
		}
		newsletterIDs[persona] = id
	}

	return ContentResult{
		ContentID:     contentID,
		Blog:          blog,
		Newsletters:   newsletters,
		NewsletterIDs: newsletterIDs,
	}, nil
}

func (p *Pipeline) distribute(ctx context.Context, contentRes ContentResult, testMode bool) (DistributionResult, error) {
	log := logger.Component("pipeline")

	var contacts []types.Contact
	var err error
	if testMode {
		contacts, err = p.seedTestContacts(ctx)
	} else {
		contacts, err = p.loadContacts(ctx)
	}
	if err != nil {
		return DistributionResult{}, err
	}

	campaignName := fmt.Sprintf("%s - %s", contentRes.Blog.Title, time.Now().Format("2006-01-02"))
	segmented := crm.SegmentContactsByPersona(contacts)

	dist := DistributionResult{
		CampaignName: campaignName,
		Sends:        map[string]types.SendResult{},
		CampaignIDs:  map[string]int64{},
	}

	for persona, personaContacts := range segmented {
		if len(personaContacts) == 0 {
			log.WithField("persona", persona).Info("no contacts for persona, skipping")
			continue
		}
		newsletter, ok := contentRes.Newsletters[persona]
		if !ok {
			continue
		}

		sendResult, err := p.crm.SendEmailToContacts(ctx, personaContacts,
			newsletter.SubjectLine, newsletter.Body, campaignName+" - "+persona)
		if err != nil {
			return DistributionResult{}, err
		}
		dist.Sends[persona] = sendResult

		campaignID, err := p.store.CreateCampaign(ctx, contentRes.ContentID,
			campaignName+" - "+persona, sendResult.CampaignID)
		if err != nil {
			return DistributionResult{}, err
		}
		dist.CampaignIDs[persona] = campaignID

		log.WithField("persona", persona).
			WithField("recipients", sendResult.ContactsSent).
			Info("campaign sent")
	}

	return dist, nil
}

func (p *Pipeline) collectPerformance(ctx context.Context, dist DistributionResult) (map[string]types.PersonaRecord, error) {
	performance := make(map[string]types.PersonaRecord, len(dist.Sends))

	for persona, send := range dist.Sends {
		rec := p.sim.SimulatePerformance(send.CampaignID, persona, send.ContactsSent)
		performance[persona] = rec

		if _, err := p.store.SaveCampaignPerformance(ctx, dist.CampaignIDs[persona], rec); err != nil {
			return nil, err
		}
	}

	return performance, nil
}

func (p *Pipeline) generateInsights(ctx context.Context, topic string, contentRes ContentResult, dist DistributionResult, performance map[string]types.PersonaRecord) (types.InsightReport, error) {
	records := make([]types.PersonaRecord, 0, len(performance))
	for _, rec := range performance {
		records = append(records, rec)
	}

	campaignCtx := types.CampaignContext{
		Title:     contentRes.Blog.Title,
		Topic:     topic,
		WordCount: contentRes.Blog.WordCount,
	}

	report, err := p.insights.GeneratePerformanceInsights(ctx, records, campaignCtx)
	if err != nil {
		return types.InsightReport{}, err
	}

	for _, campaignID := range dist.CampaignIDs {
		if _, err := p.store.SaveInsight(ctx, campaignID, string(report.KeyInsights), report.Recommendations); err != nil {
			return types.InsightReport{}, err
		}
	}

	report.Suggestions = make(map[string][]string, len(performance))
	for persona, rec := range performance {
		report.Suggestions[persona] = analyzer.SuggestOptimization(rec.CampaignMetrics, campaignCtx)
	}

	return report, nil
}

// CampaignHistory lists stored campaigns, most recent first.
func (p *Pipeline) CampaignHistory(ctx context.Context, limit int) ([]storage.Campaign, error) {
	campaigns, err := p.store.GetAllCampaigns(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(campaigns) > limit {
		campaigns = campaigns[:limit]
	}
	return campaigns, nil
}

// AnalyzeHistoricalTrends runs trend analysis over stored history.
func (p *Pipeline) AnalyzeHistoricalTrends(ctx context.Context, limit int) (types.TrendAnalysis, error) {
	history, err := p.store.GetHistoricalPerformance(ctx, limit)
	if err != nil {
		return types.TrendAnalysis{}, err
	}
	return analyzer.IdentifyTrends(history), nil
}

// SuggestNextTopics proposes follow-up topics from recent performance.
func (p *Pipeline) SuggestNextTopics(ctx context.Context, limit, numSuggestions int) ([]string, error) {
	history, err := p.store.GetHistoricalPerformance(ctx, limit)
	if err != nil {
		return nil, err
	}
	return p.content.SuggestNextTopics(ctx, history, numSuggestions)
}

var testContacts = []types.Contact{
	{Email: "john.founder@agency.com", FirstName: "John", LastName: "Smith", Persona: "founders", Company: "Creative Agency Co"},
	{Email: "sarah.ceo@studio.com", FirstName: "Sarah", LastName: "Johnson", Persona: "founders", Company: "Studio Labs"},
	{Email: "mike.owner@design.com", FirstName: "Mike", LastName: "Williams", Persona: "founders", Company: "Design House"},
	{Email: "emma.designer@agency.com", FirstName: "Emma", LastName: "Davis", Persona: "creatives", Company: "Creative Agency Co"},
	{Email: "alex.creative@studio.com", FirstName: "Alex", LastName: "Brown", Persona: "creatives", Company: "Studio Labs"},
	{Email: "chris.artist@design.com", FirstName: "Chris", LastName: "Martinez", Persona: "creatives", Company: "Design House"},
	{Email: "lisa.ops@agency.com", FirstName: "Lisa", LastName: "Wilson", Persona: "operations", Company: "Creative Agency Co"},
	{Email: "david.manager@studio.com", FirstName: "David", LastName: "Anderson", Persona: "operations", Company: "Studio Labs"},
	{Email: "jennifer.ops@design.com", FirstName: "Jennifer", LastName: "Taylor", Persona: "operations", Company: "Design House"},
}

// seedTestContacts registers the demo contact set in the CRM and database.
func (p *Pipeline) seedTestContacts(ctx context.Context) ([]types.Contact, error) {
	out := make([]types.Contact, 0, len(testContacts))
	for _, contact := range testContacts {
		crmResult, err := p.crm.CreateOrUpdateContact(ctx, contact)
		if err != nil {
			return nil, fmt.Errorf("seed contact %s: %w", contact.Email, err)
		}
		contact.CRMContactID = crmResult.ContactID

		if _, err := p.store.SaveContact(ctx, contact); err != nil {
			return nil, err
		}
		out = append(out, contact)
	}
	logger.Component("pipeline").WithField("count", len(out)).Info("test contacts seeded")
	return out, nil
}

func (p *Pipeline) loadContacts(ctx context.Context) ([]types.Contact, error) {
	var out []types.Contact
	for persona := range p.personas {
		contacts, err := p.store.GetContactsByPersona(ctx, persona)
		if err != nil {
			return nil, err
		}
		out = append(out, contacts...)
	}
	return out, nil
}
