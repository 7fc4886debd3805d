package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// ExtractedTicket holds a single ticket extracted from markdown content.
type ExtractedTicket struct {
	Project     string `json:"project"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// EnrichedTicket holds the LLM-generated fields for an existing ticket.
type EnrichedTicket struct {
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// Client wraps the Anthropic API for ticket extraction and enrichment.
type Client struct {
	api   *anthropic.Client
	model anthropic.Model
}

// NewClient creates an LLM client with the given API key and model.
// Extra request options (base URL, retries) are passed through to the SDK.
func NewClient(apiKey, model string, opts ...option.RequestOption) *Client {
	if apiKey != "" {
		opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	}
	client := anthropic.NewClient(opts...)
	return &Client{
		api:   &client,
		model: anthropic.Model(model),
	}
}

// buildExtractPrompt constructs the system and user prompts for ticket extraction.
func buildExtractPrompt(content string, projects []string) (system string, user string) {
	system = `You extract support tickets from markdown content. Return ONLY a JSON array of objects with these fields:
- "project": the project name the ticket belongs to (infer from headings like "## Project <name>" or context)
- "title": concise ticket title
- "description": brief description (can be empty string if the title is self-explanatory)
- "priority": one of "low", "medium", "high", "urgent"

Rules:
- Each numbered/bulleted item is one ticket
- Default priority to "medium" unless context suggests otherwise
- Use "urgent" only for outages, data loss or security problems
- Match project names to the known projects list when possible
- If a project section contains no tickets, do NOT generate entries for it
- Return valid JSON only, no markdown fencing or explanation`

	var sb strings.Builder
	if len(projects) > 0 {
		sb.WriteString("Known projects: ")
		sb.WriteString(strings.Join(projects, ", "))
		sb.WriteString("\n\n")
	}
	sb.WriteString("Extract tickets from this markdown:\n\n")
	sb.WriteString(content)
	user = sb.String()
	return
}

// ExtractTickets sends markdown content to the LLM and returns structured tickets.
func (c *Client) ExtractTickets(ctx context.Context, content string, projects []string) ([]ExtractedTicket, error) {
	systemPrompt, userPrompt := buildExtractPrompt(content, projects)

	text, err := c.complete(ctx, systemPrompt, userPrompt, 4096)
	if err != nil {
		return nil, err
	}

	var tickets []ExtractedTicket
	if err := json.Unmarshal([]byte(text), &tickets); err != nil {
		return nil, fmt.Errorf("parse LLM response as JSON: %w\nraw response: %s", err, text)
	}
	return tickets, nil
}

// buildEnrichPrompt constructs the system and user prompts for ticket enrichment.
func buildEnrichPrompt(title, description, project string) (system string, user string) {
	system = `You triage tickets for a customer project portal. Given a ticket's title, optional description and project, return a JSON object with exactly two fields:

- "description": A clear 1-3 sentence description of the problem or request. If a description is already provided, improve it for clarity without inventing facts.
- "priority": one of "low", "medium", "high", "urgent".

Rules:
- Return valid JSON only, no markdown fencing or explanation
- "urgent" is reserved for outages, data loss and security problems
- If the description is empty, infer as much as possible from the title alone`

	var sb strings.Builder
	sb.WriteString("Ticket title: ")
	sb.WriteString(title)
	sb.WriteString("\n")
	if project != "" {
		sb.WriteString("Project: ")
		sb.WriteString(project)
		sb.WriteString("\n")
	}
	if description != "" {
		sb.WriteString("\nExisting description: ")
		sb.WriteString(description)
		sb.WriteString("\n")
	}
	user = sb.String()
	return
}

// EnrichTicket asks the LLM for an improved description and a suggested priority.
func (c *Client) EnrichTicket(ctx context.Context, title, description, project string) (*EnrichedTicket, error) {
	systemPrompt, userPrompt := buildEnrichPrompt(title, description, project)

	text, err := c.complete(ctx, systemPrompt, userPrompt, 1024)
	if err != nil {
		return nil, err
	}

	var enriched EnrichedTicket
	if err := json.Unmarshal([]byte(text), &enriched); err != nil {
		return nil, fmt.Errorf("parse LLM response as JSON: %w\nraw response: %s", err, text)
	}
	return &enriched, nil
}

// complete runs a single-turn message and returns the first text block, unfenced.
func (c *Client) complete(ctx context.Context, system, user string, maxTokens int64) (string, error) {
	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call: %w", err)
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return "", fmt.Errorf("no text content in API response")
	}
	return stripFences(text), nil
}

// stripFences removes a surrounding markdown code fence, if present.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.SplitN(text, "\n", 2)
	if len(lines) > 1 {
		text = lines[1]
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
