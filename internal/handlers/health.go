package handlers

import (
  "net/http"
  "time"

  "github.com/gin-gonic/gin"
)

func Healthz(c *gin.Context) {
  c.JSON(http.StatusOK, gin.H{
    "status":    "ok",
    "timestamp": time.Now().UTC().Format(time.RFC3339),
  })
}

// Root answers the status banner, reporting whether the completion
// provider credential was present at startup.
func Root(providerConfigured bool) gin.HandlerFunc {
  status := "completion provider is not configured (missing API key)"
  if providerConfigured {
    status = "completion provider configured"
  }
  return func(c *gin.Context) {
    c.JSON(http.StatusOK, gin.H{
      "message": "chatloop API running",
      "status":  status,
    })
  }
}
