package server

import (
  "encoding/json"
  "net/http"
  "net/http/httptest"
  "testing"

  "github.com/gin-gonic/gin"

  "github.com/chatloop-org/chatloop-backend/internal/handlers"
)

func TestHealthRoute(t *testing.T) {
  gin.SetMode(gin.TestMode)
  router := NewRouter(RouterConfig{ChatHandler: handlers.NewChatHandler(nil, nil, false)})

  w := httptest.NewRecorder()
  router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
  if w.Code != http.StatusOK {
    t.Fatalf("expected 200, got %d", w.Code)
  }
  var body map[string]string
  if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
    t.Fatalf("failed to decode body: %v", err)
  }
  if body["status"] != "ok" || body["timestamp"] == "" {
    t.Fatalf("unexpected health body: %v", body)
  }
}

func TestRootBannerReportsProviderState(t *testing.T) {
  gin.SetMode(gin.TestMode)
  for _, configured := range []bool{true, false} {
    router := NewRouter(RouterConfig{
      ChatHandler:        handlers.NewChatHandler(nil, nil, false),
      ProviderConfigured: configured,
    })
    w := httptest.NewRecorder()
    router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
    if w.Code != http.StatusOK {
      t.Fatalf("expected 200, got %d", w.Code)
    }
    var body map[string]string
    if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
      t.Fatalf("failed to decode body: %v", err)
    }
    if configured && body["status"] != "completion provider configured" {
      t.Fatalf("unexpected status for configured provider: %v", body)
    }
    if !configured && body["status"] == "completion provider configured" {
      t.Fatalf("unexpected status for unconfigured provider: %v", body)
    }
  }
}
