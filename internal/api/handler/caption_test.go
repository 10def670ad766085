package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/timmy/snapcap/internal/domain"
	"github.com/timmy/snapcap/internal/repository"
	"github.com/timmy/snapcap/internal/service"
)

type stubCaptioner struct {
	result *service.CaptionResult
	err    error

	lastDescription string
	lastTone        domain.Tone
	lastModel       string
}

func (s *stubCaptioner) Generate(ctx context.Context, description string, tone domain.Tone, modelOverride string) (*service.CaptionResult, error) {
	s.lastDescription = description
	s.lastTone = tone
	s.lastModel = modelOverride
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newCaptionRouter(t *testing.T, captioner *stubCaptioner) (*gin.Engine, *repository.HistoryStore) {
	t.Helper()
	store := repository.NewHistoryStore(filepath.Join(t.TempDir(), "history.json"))
	router := gin.New()
	router.POST("/api/caption", NewCaptionHandler(captioner, store).GenerateCaption)
	return router, store
}

func captionPost(t *testing.T, router *gin.Engine, payload any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to encode request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/caption", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGenerateCaption_MissingDescription(t *testing.T) {
	router, _ := newCaptionRouter(t, &stubCaptioner{})

	rec := captionPost(t, router, map[string]string{"image_name": "dog.png"})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "Description is required." {
		t.Errorf("unexpected error message: %v", body["error"])
	}
}

func TestGenerateCaption_MissingToken(t *testing.T) {
	router, _ := newCaptionRouter(t, &stubCaptioner{err: service.ErrMissingToken})

	rec := captionPost(t, router, map[string]string{"description": "a beach"})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "HF_TOKEN not set in environment." {
		t.Errorf("unexpected error message: %v", body["error"])
	}
}

func TestGenerateCaption_Success(t *testing.T) {
	longShort := strings.Repeat("sunset vibes ", 20)
	captioner := &stubCaptioner{
		result: &service.CaptionResult{
			Captions: domain.CaptionSet{
				Short:      longShort,
				Story:      "a story",
				Philosophy: "a thought",
				Lifestyle:  "a vibe",
				Quote:      "a quote",
			},
			Think: "reasoning",
		},
	}
	router, store := newCaptionRouter(t, captioner)

	rec := captionPost(t, router, map[string]string{
		"description": "a beach at sunset",
		"image_name":  "sunset.jpg",
		"image_hash":  "hash-1",
		"tone":        "LinkedIn",
		"model_id":    "custom/model",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if captioner.lastDescription != "a beach at sunset" {
		t.Errorf("unexpected description: %q", captioner.lastDescription)
	}
	if captioner.lastTone != domain.ToneLinkedIn {
		t.Errorf("expected linkedin tone, got %q", captioner.lastTone)
	}
	if captioner.lastModel != "custom/model" {
		t.Errorf("unexpected model override: %q", captioner.lastModel)
	}

	body := decodeBody(t, rec)
	if body["think"] != "reasoning" {
		t.Errorf("unexpected think: %v", body["think"])
	}
	caption, ok := body["caption"].(map[string]any)
	if !ok {
		t.Fatalf("expected caption object, got %T", body["caption"])
	}
	// The response keeps the full caption; only history is truncated.
	if caption["short"] != longShort {
		t.Errorf("unexpected short caption: %v", caption["short"])
	}

	entries := store.List()
	if len(entries) != 1 {
		t.Fatalf("expected one history entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.ImageName != "sunset.jpg" || entry.ImageHash != "hash-1" || entry.Think != "reasoning" {
		t.Errorf("unexpected history entry: %+v", entry)
	}
	if entry.Caption != service.TruncateForHistory(longShort) {
		t.Errorf("expected stored caption to be truncated, got %q", entry.Caption)
	}
	if !strings.HasSuffix(entry.Caption, "...") {
		t.Errorf("expected truncation ellipsis, got %q", entry.Caption)
	}
}

func TestGenerateCaption_DefaultImageName(t *testing.T) {
	captioner := &stubCaptioner{
		result: &service.CaptionResult{
			Captions: domain.CaptionSet{Short: "short"},
		},
	}
	router, store := newCaptionRouter(t, captioner)

	rec := captionPost(t, router, map[string]string{"description": "a beach"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	entries := store.List()
	if len(entries) != 1 {
		t.Fatalf("expected one history entry, got %d", len(entries))
	}
	if entries[0].ImageName != "Unknown Image" {
		t.Errorf("expected default image name, got %q", entries[0].ImageName)
	}
}
