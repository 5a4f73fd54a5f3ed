package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

func TestReviewSendsFixedPromptAndParameters(t *testing.T) {
	oldURL := apiURL
	t.Cleanup(func() { apiURL = oldURL })

	var bodyMu sync.Mutex
	var lastBody map[string]any
	var lastAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		bodyMu.Lock()
		lastBody = payload
		lastAuth = r.Header.Get("Authorization")
		bodyMu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Add measurable impact."}}],"usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}`))
	}))
	defer server.Close()
	apiURL = server.URL

	client, err := NewClient("test-key", "gpt-4")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	analysis, err := client.Review(context.Background(), "John Doe\nEngineer")
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if analysis != "Add measurable impact." {
		t.Fatalf("unexpected analysis %q", analysis)
	}

	bodyMu.Lock()
	defer bodyMu.Unlock()
	if lastAuth != "Bearer test-key" {
		t.Fatalf("unexpected auth header %q", lastAuth)
	}
	if lastBody["model"] != "gpt-4" {
		t.Fatalf("unexpected model %v", lastBody["model"])
	}
	if temp, ok := lastBody["temperature"].(float64); !ok || temp != 0.7 {
		t.Fatalf("expected temperature 0.7, got %v", lastBody["temperature"])
	}
	if maxTokens, ok := lastBody["max_tokens"].(float64); !ok || maxTokens != 2500 {
		t.Fatalf("expected max_tokens 2500, got %v", lastBody["max_tokens"])
	}

	messages, ok := lastBody["messages"].([]any)
	if !ok || len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %v", lastBody["messages"])
	}
	system := messages[0].(map[string]any)
	if system["role"] != "system" {
		t.Fatalf("expected system message first, got %v", system["role"])
	}
	user := messages[1].(map[string]any)
	content, _ := user["content"].(string)
	if !strings.Contains(content, "John Doe\nEngineer") {
		t.Fatalf("expected resume text in user message, got %q", content)
	}
}

func TestReviewPropagatesAPIError(t *testing.T) {
	oldURL := apiURL
	t.Cleanup(func() { apiURL = oldURL })

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"rate_limit_error"}}`))
	}))
	defer server.Close()
	apiURL = server.URL

	client, err := NewClient("test-key", "gpt-4")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.Review(context.Background(), "resume text")
	if err == nil {
		t.Fatalf("expected error from API failure")
	}
	if !strings.Contains(err.Error(), "Rate limit reached") {
		t.Fatalf("expected API message in error, got %v", err)
	}
}

func TestReviewRejectsMissingChoices(t *testing.T) {
	oldURL := apiURL
	t.Cleanup(func() { apiURL = oldURL })

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()
	apiURL = server.URL

	client, err := NewClient("test-key", "gpt-4")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if _, err := client.Review(context.Background(), "resume text"); err == nil {
		t.Fatalf("expected error for empty choices")
	}
}

func TestReviewRejectsEmptyText(t *testing.T) {
	client, err := NewClient("test-key", "gpt-4")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.Review(context.Background(), "   "); err == nil {
		t.Fatalf("expected error for empty resume text")
	}
}

func TestNewClientRequiresCredentials(t *testing.T) {
	if _, err := NewClient("", "gpt-4"); err == nil {
		t.Fatalf("expected error for missing api key")
	}
	if _, err := NewClient("test-key", ""); err == nil {
		t.Fatalf("expected error for missing model")
	}
}
