// Package content generates marketing copy (blog posts, persona newsletters,
// A/B variations, topic and subject-line suggestions) through the LLM client.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dillontadeo/ai-content-pipeline/internal/config"
	"github.com/dillontadeo/ai-content-pipeline/internal/logger"
	"github.com/dillontadeo/ai-content-pipeline/internal/types"
)

type ChatClient interface {
	ChatJSON(ctx context.Context, system, user string, temperature float64) ([]byte, error)
}

type Generator struct {
	llm      ChatClient
	personas map[string]config.Persona
	limits   config.ContentConfig
}

func NewGenerator(llm ChatClient, personas map[string]config.Persona, limits config.ContentConfig) *Generator {
	return &Generator{llm: llm, personas: personas, limits: limits}
}

const blogSystemPrompt = `You are an expert content writer for NovaMind, an AI startup
that helps small creative agencies automate their daily workflows (think Notion + Zapier + ChatGPT combined).
Write engaging, informative content that demonstrates thought leadership in the AI automation space.`

// GenerateBlogPost produces a titled, outlined blog draft on the topic.
func (g *Generator) GenerateBlogPost(ctx context.Context, topic string) (types.BlogPost, error) {
	log := logger.Component("content").WithField("topic", topic)

	userPrompt := fmt.Sprintf(`Create a blog post about: %s

Requirements:
- Length: %d-%d words
- Target audience: Small creative agencies and tech-forward professionals
- Tone: Professional yet approachable, innovative, forward-thinking
- Include actionable insights and real-world applications

Please provide:
1. A compelling title
2. A structured outline (3-5 main sections)
3. The full blog post content

Format your response as JSON with keys: "title", "outline", "content"
`, topic, g.limits.BlogMinWords, g.limits.BlogMaxWords)

	raw, err := g.llm.ChatJSON(ctx, blogSystemPrompt, userPrompt, 0.7)
	if err != nil {
		return types.BlogPost{}, fmt.Errorf("generate blog post: %w", err)
	}

	var parsed struct {
		Title   string             `json:"title"`
		Outline types.FlexibleText `json:"outline"`
		Content string             `json:"content"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return types.BlogPost{}, fmt.Errorf("parse blog response: %w", err)
	}

	post := types.BlogPost{
		Title:     parsed.Title,
		Outline:   string(parsed.Outline),
		Content:   parsed.Content,
		WordCount: wordCount(parsed.Content),
	}
	log.WithField("word_count", post.WordCount).Info("blog post generated")
	return post, nil
}

// GenerateNewsletterVariations produces one personalized newsletter per
// configured persona.
func (g *Generator) GenerateNewsletterVariations(ctx context.Context, blogTitle, blogContent string) (map[string]types.Newsletter, error) {
	newsletters := make(map[string]types.Newsletter, len(g.personas))
	for key, persona := range g.personas {
		n, err := g.generateSingleNewsletter(ctx, blogTitle, blogContent, key, persona)
		if err != nil {
			return nil, fmt.Errorf("newsletter for %s: %w", key, err)
		}
		newsletters[key] = n
	}
	return newsletters, nil
}

func (g *Generator) generateSingleNewsletter(ctx context.Context, blogTitle, blogContent, personaKey string, persona config.Persona) (types.Newsletter, error) {
	systemPrompt := fmt.Sprintf(`You are crafting a personalized newsletter for NovaMind's audience.
This specific version targets: %s
Their key interests: %s
Desired tone: %s`, persona.Name, persona.Focus, persona.Tone)

	userPrompt := fmt.Sprintf(`Based on this blog post, create a personalized newsletter email:

Blog Title: %s

Blog Content (excerpt):
%s...

Requirements:
- Maximum length: %d words
- Compelling subject line (under 60 characters)
- Hook the reader immediately
- Highlight aspects most relevant to %s
- Include a clear call-to-action (Read the full blog)
- Personalized tone: %s
- Focus on: %s

Format your response as JSON with keys: "subject_line", "body"
`, blogTitle, excerpt(blogContent, 500), g.limits.NewsletterMaxWords, persona.Name, persona.Tone, persona.Focus)

	raw, err := g.llm.ChatJSON(ctx, systemPrompt, userPrompt, 0.8)
	if err != nil {
		return types.Newsletter{}, err
	}

	var parsed struct {
		SubjectLine string `json:"subject_line"`
		Body        string `json:"body"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return types.Newsletter{}, fmt.Errorf("parse newsletter response: %w", err)
	}

	return types.Newsletter{
		Persona:     personaKey,
		SubjectLine: parsed.SubjectLine,
		Body:        parsed.Body,
		WordCount:   wordCount(parsed.Body),
	}, nil
}

// GenerateContentVariations produces distinct newsletter variations for A/B
// testing.
func (g *Generator) GenerateContentVariations(ctx context.Context, blogTitle, blogContent string, numVariations int) ([]types.ContentVariation, error) {
	variations := make([]types.ContentVariation, 0, numVariations)

	for i := 1; i <= numVariations; i++ {
		systemPrompt := fmt.Sprintf(`You are creating variation #%d of a newsletter.
Make each variation distinctly different in approach, hook, and structure.`, i)

		userPrompt := fmt.Sprintf(`Create a unique newsletter variation about this blog post:

Title: %s
Content Preview: %s...

This is variation %d of %d. Make it distinctly different from typical approaches.

Variation focus:
- Variation 1: Data-driven and metric-focused
- Variation 2: Story-driven with case study angle
- Variation 3: Problem-solution framework

Maximum %d words.
Format as JSON with keys: "subject_line", "body", "approach"
`, blogTitle, excerpt(blogContent, 400), i, numVariations, g.limits.NewsletterMaxWords)

		raw, err := g.llm.ChatJSON(ctx, systemPrompt, userPrompt, 0.9)
		if err != nil {
			return nil, fmt.Errorf("variation %d: %w", i, err)
		}

		var v types.ContentVariation
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("parse variation %d: %w", i, err)
		}
		v.VariationNumber = i
		v.WordCount = wordCount(v.Body)
		variations = append(variations, v)
	}

	return variations, nil
}

// defaultTopics covers the cold-start case before any campaign has run.
var defaultTopics = []string{
	"AI-powered workflow automation for creative teams",
	"Integrating ChatGPT into your agency's daily operations",
	"Time-saving tools every creative professional should know",
	"How to measure ROI on automation investments",
	"Building custom automation workflows without code",
}

// SuggestNextTopics asks the model for blog topics informed by historical
// performance. With no history it returns the default suggestions.
func (g *Generator) SuggestNextTopics(ctx context.Context, history []types.HistoryEntry, numSuggestions int) ([]string, error) {
	if len(history) == 0 {
		out := defaultTopics
		if numSuggestions < len(out) {
			out = out[:numSuggestions]
		}
		return out, nil
	}

	systemPrompt := `You are a content strategist for NovaMind.
Analyze performance data to suggest high-performing blog topics.`

	userPrompt := fmt.Sprintf(`Based on this performance data, suggest %d blog topics:

Performance Summary:
%s

Context: NovaMind helps small creative agencies automate workflows using AI.

Suggest topics that:
1. Build on successful themes
2. Address audience interests (founders, creatives, operations managers)
3. Are timely and relevant to AI/automation trends
4. Drive engagement and conversions

Return as JSON with key "topics" containing a list of topic strings.
`, numSuggestions, summarizeHistory(history))

	raw, err := g.llm.ChatJSON(ctx, systemPrompt, userPrompt, 0.8)
	if err != nil {
		return nil, fmt.Errorf("suggest topics: %w", err)
	}

	var parsed struct {
		Topics []string `json:"topics"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse topic response: %w", err)
	}
	return parsed.Topics, nil
}

// OptimizeSubjectLine generates alternative subject lines for an
// underperforming campaign.
func (g *Generator) OptimizeSubjectLine(ctx context.Context, original, performanceNotes string) ([]string, error) {
	systemPrompt := `You are an email marketing expert specializing in subject line optimization.`

	feedback := ""
	if performanceNotes != "" {
		feedback = "Performance feedback: " + performanceNotes + "\n"
	}
	userPrompt := fmt.Sprintf(`Optimize this email subject line:

Original: "%s"

%s
Generate 5 alternative subject lines that:
- Are under 60 characters
- Create curiosity or urgency
- Are clear and benefit-focused
- Avoid spam trigger words
- Test different approaches (question, number, benefit, urgency, curiosity)

Return as JSON with key "subject_lines" containing a list of strings.
`, original, feedback)

	raw, err := g.llm.ChatJSON(ctx, systemPrompt, userPrompt, 0.9)
	if err != nil {
		return nil, fmt.Errorf("optimize subject line: %w", err)
	}

	var parsed struct {
		SubjectLines []string `json:"subject_lines"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse subject line response: %w", err)
	}
	return parsed.SubjectLines, nil
}

// summarizeHistory renders up to the 10 most recent rows for the model.
func summarizeHistory(history []types.HistoryEntry) string {
	if len(history) > 10 {
		history = history[:10]
	}
	lines := make([]string, 0, len(history))
	for _, h := range history {
		topic := h.Topic
		if topic == "" {
			topic = "Unknown"
		}
		persona := h.Persona
		if persona == "" {
			persona = "Unknown"
		}
		lines = append(lines, fmt.Sprintf("Topic: %s | Persona: %s | Open Rate: %.1f%% | Click Rate: %.1f%%",
			topic, persona, h.OpenRate*100, h.ClickRate*100))
	}
	return strings.Join(lines, "\n")
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

// excerpt truncates to at most max bytes without splitting a rune.
func excerpt(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
