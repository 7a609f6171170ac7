package blog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/publicvector/databreach-rss/app/breach"
)

const DefaultModel = "claude-sonnet-4-20250514"

const DefaultContactBoilerplate = `If you believe your information may have been affected by this data breach,
you may be entitled to compensation. Contact our experienced data breach attorneys for a free,
confidential consultation. We can help you understand your rights and options.`

const writerSystemPrompt = "You are a helpful legal writer. Always respond with valid JSON."

// Longer extracts get truncated before prompting to stay inside token limits.
const maxSupplementaryChars = 3000

// AnthropicMessager is the slice of the Anthropic SDK the writer needs,
// narrowed so tests can stub the API.
type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// AnthropicWriter turns a breach case into blog post sections via the Claude
// API. Its Generate method satisfies GenerateFunc.
type AnthropicWriter struct {
	messager           AnthropicMessager
	model              string
	contactBoilerplate string
}

// NewAnthropicWriter builds a writer for the given API key. The model and
// contact boilerplate fall back to package defaults when empty.
func NewAnthropicWriter(apiKey, model, contactBoilerplate string) (*AnthropicWriter, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("anthropic API key not configured")
	}
	if model == "" {
		model = DefaultModel
	}
	if contactBoilerplate == "" {
		contactBoilerplate = DefaultContactBoilerplate
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicWriter{
		messager:           &client.Messages,
		model:              model,
		contactBoilerplate: contactBoilerplate,
	}, nil
}

type generatedSections struct {
	WhatHappened  string `json:"what_happened"`
	WhoIsAffected string `json:"who_is_affected"`
}

// Generate asks the model for the two narrative sections and assembles the
// post. The caller (Generator) owns rate limiting, caching and the quality
// score.
func (w *AnthropicWriter) Generate(ctx context.Context, c *breach.Case, supplementary string) (*Post, error) {
	prompt := w.buildPrompt(c, supplementary)

	resp, err := w.messager.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(w.model),
		MaxTokens: 1500,
		System:    []anthropic.TextBlockParam{{Text: writerSystemPrompt}},
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic call failed: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	var sections generatedSections
	if err := json.Unmarshal([]byte(stripCodeFence(sb.String())), &sections); err != nil {
		return nil, fmt.Errorf("failed to parse model response: %w", err)
	}

	return &Post{
		ID:            c.ID,
		CompanyName:   c.Company,
		Title:         fmt.Sprintf("%s Data Breach: What You Need to Know", c.Company),
		WhatHappened:  sections.WhatHappened,
		WhoIsAffected: sections.WhoIsAffected,
		ContactUs:     w.contactBoilerplate,
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		SourceURL:     c.URL,
	}, nil
}

func (w *AnthropicWriter) buildPrompt(c *breach.Case, supplementary string) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("Company Name: %s", c.Company))
	if c.DateReported != "" {
		parts = append(parts, fmt.Sprintf("Date Reported: %s", c.DateReported))
	}
	if lower := strings.ToLower(c.RecordsAffected); c.RecordsAffected != "" && lower != "unknown" && lower != "n/a" {
		parts = append(parts, fmt.Sprintf("Records Affected: %s", c.RecordsAffected))
	}
	if c.Location != "" {
		parts = append(parts, fmt.Sprintf("Location: %s", c.Location))
	}
	if c.ThreatActor != "" {
		parts = append(parts, fmt.Sprintf("Threat Actor: %s", c.ThreatActor))
	}
	if c.BreachType != "" {
		parts = append(parts, fmt.Sprintf("Breach Type: %s", c.BreachType))
	}
	if c.Description != "" {
		parts = append(parts, fmt.Sprintf("Description: %s", c.Description))
	}
	if supplementary != "" {
		if len(supplementary) > maxSupplementaryChars {
			supplementary = supplementary[:maxSupplementaryChars]
		}
		parts = append(parts, fmt.Sprintf("Article Content: %s", supplementary))
	}

	return fmt.Sprintf(`You are a legal writer creating informative blog posts about data breaches for a law firm website.
Based on the following data breach information, generate two sections for a blog post.

BREACH INFORMATION:
%s

Generate ONLY the following two sections (do not include titles/headers, just the content):

1. WHAT_HAPPENED: Write 2-3 paragraphs describing what happened in this data breach. Be factual and informative.
Include details about how the breach occurred if known, when it was discovered, and what type of attack it was.
Do not speculate beyond what is provided.

2. WHO_IS_AFFECTED: Write 1-2 paragraphs about who may be affected by this breach. Include:
- The number of people affected (if known)
- The type of data that may have been exposed (personal information, financial data, health records, etc.)
- Who specifically might be affected (customers, employees, patients, etc.)
- The geographic scope if known

Respond in JSON format:
{"what_happened": "...", "who_is_affected": "..."}
`, strings.Join(parts, "\n"))
}

// stripCodeFence removes a surrounding markdown code fence from a model
// response, with or without a json language tag.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
