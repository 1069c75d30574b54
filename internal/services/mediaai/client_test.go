package mediaai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"videoai/internal/generation"
)

func TestClientGenerateScript(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/scripts" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		var req struct {
			Prompt   string `json:"prompt"`
			Duration int    `json:"duration"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Prompt != "city timelapse" || req.Duration != 45 {
			t.Fatalf("unexpected request: %+v", req)
		}
		if err := json.NewEncoder(w).Encode(map[string]string{"script": "Opening shot..."}); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, APIKey: "secret"})
	script, err := client.GenerateScript(context.Background(), "city timelapse", 45)
	if err != nil {
		t.Fatalf("GenerateScript returned error: %v", err)
	}
	if script != "Opening shot..." {
		t.Fatalf("unexpected script: %q", script)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
}

func TestClientGenerateScriptEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"script": "  "})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	if _, err := client.GenerateScript(context.Background(), "prompt", 30); err == nil {
		t.Fatal("expected error for blank script")
	}
}

func TestClientVoiceOverDefaultsConfiguredVoice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/voiceovers" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			Text  string `json:"text"`
			Voice string `json:"voice"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Voice != "narrator-en" {
			t.Fatalf("expected configured voice fallback, got %q", req.Voice)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"audioUrl": "https://cdn.test/a.mp3", "duration": 42.5})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Voice: "narrator-en"})
	vo, err := client.GenerateVoiceOver(context.Background(), "some script", "")
	if err != nil {
		t.Fatalf("GenerateVoiceOver returned error: %v", err)
	}
	if vo.AudioURL != "https://cdn.test/a.mp3" || vo.Duration != 42.5 {
		t.Fatalf("unexpected voiceover: %+v", vo)
	}
}

func TestClientRenderVideo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/renders" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"url":       "https://cdn.test/v.mp4",
			"thumbnail": "https://cdn.test/v.jpg",
		})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	req := generation.RenderRequest{
		Script:   "Opening shot...",
		AudioURL: "https://cdn.test/a.mp3",
		Captions: []generation.Caption{{Start: 0, End: 2, Text: "Opening shot"}},
	}
	video, err := client.RenderVideo(context.Background(), req)
	if err != nil {
		t.Fatalf("RenderVideo returned error: %v", err)
	}
	if video.URL != "https://cdn.test/v.mp4" || video.ThumbnailURL != "https://cdn.test/v.jpg" {
		t.Fatalf("unexpected video: %+v", video)
	}
}

func TestClientBackendErrorSurfacesStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	_, err := client.ExtractFrame(context.Background(), "/clips/demo.mp4", 4.5)
	if err == nil {
		t.Fatal("expected error")
	}
	var statusErr *httpStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected http status error, got %T", err)
	}
	if statusErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("unexpected status: %d", statusErr.StatusCode)
	}
	if !strings.Contains(err.Error(), "upstream unavailable") {
		t.Fatalf("expected body in message: %q", err.Error())
	}
}

func TestClientAnalyzeFrames(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/scene-analyses" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"segments": []map[string]any{
				{"start": 0.0, "end": 5.0, "description": "intro"},
				{"start": 5.0, "end": 12.0, "description": "main"},
			},
			"transcript": "two scenes",
		})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	plan, err := client.AnalyzeFrames(context.Background(), []string{"/f/0.jpg", "/f/1.jpg"}, 12)
	if err != nil {
		t.Fatalf("AnalyzeFrames returned error: %v", err)
	}
	if len(plan.Segments) != 2 || plan.Segments[1].Description != "main" {
		t.Fatalf("unexpected plan: %+v", plan)
	}
	if plan.Transcript != "two scenes" {
		t.Fatalf("unexpected transcript: %q", plan.Transcript)
	}
}

func TestClientRequiresBaseURL(t *testing.T) {
	client := NewClient(Config{})
	if _, err := client.GenerateScript(context.Background(), "prompt", 30); err == nil {
		t.Fatal("expected error without base url")
	}
}

func TestClientValidatesInputsLocally(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://media.test"})
	if _, err := client.GenerateScript(context.Background(), "  ", 30); err == nil {
		t.Fatal("expected error for blank prompt")
	}
	if _, err := client.GenerateVoiceOver(context.Background(), "", ""); err == nil {
		t.Fatal("expected error for blank text")
	}
	if _, err := client.AnalyzeFrames(context.Background(), nil, 10); err == nil {
		t.Fatal("expected error for missing frames")
	}
	if _, err := client.TranscribeSegment(context.Background(), "", 0, 5); err == nil {
		t.Fatal("expected error for missing media path")
	}
}
