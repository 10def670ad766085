package handler

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/timmy/snapcap/internal/repository"
)

func newHistoryRouter(t *testing.T) (*gin.Engine, *repository.HistoryStore) {
	t.Helper()
	store := repository.NewHistoryStore(filepath.Join(t.TempDir(), "history.json"))
	h := NewHistoryHandler(store)

	router := gin.New()
	router.GET("/api/history", h.List)
	router.DELETE("/api/history", h.Clear)
	router.GET("/api/history/:id", h.Get)
	router.DELETE("/api/history/:id", h.Delete)
	return router, store
}

func TestHistoryList(t *testing.T) {
	router, store := newHistoryRouter(t)
	if _, err := store.Append("a.jpg", "desc", "cap", "", ""); err != nil {
		t.Fatalf("failed to seed history: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	entries, ok := body["history"].([]any)
	if !ok {
		t.Fatalf("expected history array, got %T", body["history"])
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(entries))
	}
}

func TestHistoryGet(t *testing.T) {
	router, store := newHistoryRouter(t)
	entry, err := store.Append("a.jpg", "desc", "cap", "", "")
	if err != nil {
		t.Fatalf("failed to seed history: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history/"+entry.ID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["id"] != entry.ID {
		t.Errorf("unexpected entry id: %v", body["id"])
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history/no-such-id", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "History entry not found" {
		t.Errorf("unexpected error message: %v", body["error"])
	}
}

func TestHistoryDelete(t *testing.T) {
	router, store := newHistoryRouter(t)
	entry, err := store.Append("a.jpg", "desc", "cap", "", "")
	if err != nil {
		t.Fatalf("failed to seed history: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/history/"+entry.ID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["message"] != "Entry deleted successfully" {
		t.Errorf("unexpected message: %v", body["message"])
	}
	if len(store.List()) != 0 {
		t.Error("expected entry removed from store")
	}

	// Unknown ids delete cleanly too.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/history/no-such-id", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHistoryClear(t *testing.T) {
	router, store := newHistoryRouter(t)
	for i := 0; i < 3; i++ {
		if _, err := store.Append("a.jpg", "desc", "cap", "", ""); err != nil {
			t.Fatalf("failed to seed history: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/history", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["message"] != "History cleared successfully" {
		t.Errorf("unexpected message: %v", body["message"])
	}
	if len(store.List()) != 0 {
		t.Error("expected history emptied")
	}
}
