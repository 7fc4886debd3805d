package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildExtractPrompt(t *testing.T) {
	t.Run("with projects", func(t *testing.T) {
		system, user := buildExtractPrompt("# Tickets\n1. Fix login", []string{"Website Redesign", "Mobile App"})

		assert.Contains(t, system, "JSON array")
		assert.Contains(t, system, `"project"`)
		assert.Contains(t, system, `"title"`)
		assert.Contains(t, system, `"priority"`)

		assert.Contains(t, user, "Known projects: Website Redesign, Mobile App")
		assert.Contains(t, user, "Fix login")
	})

	t.Run("without projects", func(t *testing.T) {
		_, user := buildExtractPrompt("some content", nil)
		assert.NotContains(t, user, "Known projects")
		assert.Contains(t, user, "some content")
	})

	t.Run("system prompt lists every priority", func(t *testing.T) {
		system, _ := buildExtractPrompt("content", nil)
		for _, p := range []string{`"low"`, `"medium"`, `"high"`, `"urgent"`} {
			assert.Contains(t, system, p)
		}
	})
}

func TestBuildEnrichPrompt(t *testing.T) {
	t.Run("with all fields", func(t *testing.T) {
		system, user := buildEnrichPrompt("Checkout fails", "Card payments return 500", "Website Redesign")

		assert.Contains(t, system, "description")
		assert.Contains(t, system, "priority")
		assert.Contains(t, system, "JSON")

		assert.Contains(t, user, "Checkout fails")
		assert.Contains(t, user, "Project: Website Redesign")
		assert.Contains(t, user, "Existing description: Card payments return 500")
	})

	t.Run("with only title", func(t *testing.T) {
		_, user := buildEnrichPrompt("Add dark mode", "", "")
		assert.Contains(t, user, "Add dark mode")
		assert.NotContains(t, user, "Project:")
		assert.NotContains(t, user, "Existing description")
	})
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"  {\"a\":1}\n", `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n[1,2]\n```\n", `[1,2]`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripFences(tt.in))
	}
}

// fakeAnthropic answers every request with a single text block.
func fakeAnthropic(t *testing.T, text string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":            "msg_test",
			"type":          "message",
			"role":          "assistant",
			"model":         "claude-haiku-4-5-20251001",
			"stop_reason":   "end_turn",
			"stop_sequence": nil,
			"content": []map[string]any{
				{"type": "text", "text": text},
			},
			"usage": map[string]any{"input_tokens": 10, "output_tokens": 10},
		})
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestEnrichTicket(t *testing.T) {
	ts := fakeAnthropic(t, "```json\n{\"description\":\"Card checkout returns 500.\",\"priority\":\"urgent\"}\n```")
	c := NewClient("test-key", "claude-haiku-4-5-20251001", option.WithBaseURL(ts.URL), option.WithMaxRetries(0))

	got, err := c.EnrichTicket(context.Background(), "Checkout fails", "", "Website Redesign")
	require.NoError(t, err)
	assert.Equal(t, "Card checkout returns 500.", got.Description)
	assert.Equal(t, "urgent", got.Priority)
}

func TestExtractTickets(t *testing.T) {
	ts := fakeAnthropic(t, `[{"project":"Mobile App","title":"Push notifications","description":"","priority":"high"}]`)
	c := NewClient("test-key", "claude-haiku-4-5-20251001", option.WithBaseURL(ts.URL), option.WithMaxRetries(0))

	got, err := c.ExtractTickets(context.Background(), "## Project Mobile App\n1. Push notifications", []string{"Mobile App"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Mobile App", got[0].Project)
	assert.Equal(t, "high", got[0].Priority)
}

func TestEnrichTicket_BadJSON(t *testing.T) {
	ts := fakeAnthropic(t, "I think this is urgent")
	c := NewClient("test-key", "claude-haiku-4-5-20251001", option.WithBaseURL(ts.URL), option.WithMaxRetries(0))

	_, err := c.EnrichTicket(context.Background(), "x", "", "")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "parse LLM response"))
}
