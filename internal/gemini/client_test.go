package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testClient(serverURL string) *Client {
	c := NewClient(Config{
		APIKey:     "test-key",
		Model:      "test-model",
		Generation: DefaultGenerationConfig(),
		Safety:     DefaultSafetySettings(),
	})
	c.SetTestTransport(serverURL)
	return c
}

func TestGenerate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "models/test-model:generateContent") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("expected key test-key, got %q", r.URL.Query().Get("key"))
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected Content-Type application/json, got %q", r.Header.Get("Content-Type"))
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if len(req.Contents) != 1 || len(req.Contents[0].Parts) != 1 || req.Contents[0].Parts[0].Text != "hello" {
			t.Errorf("unexpected contents: %+v", req.Contents)
		}
		if req.GenerationConfig.Temperature != 0.7 {
			t.Errorf("expected temperature 0.7, got %f", req.GenerationConfig.Temperature)
		}
		if req.GenerationConfig.MaxOutputTokens != 2048 {
			t.Errorf("expected max output tokens 2048, got %d", req.GenerationConfig.MaxOutputTokens)
		}
		if len(req.SafetySettings) != 4 {
			t.Errorf("expected 4 safety settings, got %d", len(req.SafetySettings))
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{
					"content":      map[string]any{"parts": []map[string]any{{"text": "world"}}},
					"finishReason": "STOP",
				},
			},
		})
	}))
	defer server.Close()

	c := testClient(server.URL)

	result, err := c.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "world" {
		t.Errorf("expected 'world', got %q", result)
	}
}

func TestGenerate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"code":    429,
				"status":  "RESOURCE_EXHAUSTED",
				"message": "quota exceeded",
			},
		})
	}))
	defer server.Close()

	c := testClient(server.URL)

	_, err := c.Generate(context.Background(), "hi")
	if err == nil {
		t.Fatal("expected error for API error response")
	}
	if !strings.Contains(err.Error(), "RESOURCE_EXHAUSTED") {
		t.Errorf("expected status in error, got %v", err)
	}
}

func TestGenerate_SafetyBlock(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"promptFeedback": map[string]any{"blockReason": "SAFETY"},
		})
	}))
	defer server.Close()

	c := testClient(server.URL)

	_, err := c.Generate(context.Background(), "hi")
	if err == nil {
		t.Fatal("expected error for blocked prompt")
	}
	if !strings.Contains(err.Error(), "SAFETY") {
		t.Errorf("expected block reason in error, got %v", err)
	}
}

func TestGenerate_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{},
		})
	}))
	defer server.Close()

	c := testClient(server.URL)

	_, err := c.Generate(context.Background(), "hi")
	if err == nil {
		t.Fatal("expected error for empty content response")
	}
}
