package services

import (
  "bytes"
  "context"
  "encoding/json"
  "fmt"
  "io"
  "net/http"
  "strings"
  "time"

  "github.com/chatloop-org/chatloop-backend/internal/apperrors"
  "github.com/chatloop-org/chatloop-backend/internal/logger"
  "github.com/chatloop-org/chatloop-backend/internal/types"
  "github.com/chatloop-org/chatloop-backend/internal/utils"
)

// CompletionService turns a full ordered message log into a single
// assistant reply. One remote call per exchange, no retry.
type CompletionService interface {
  Configured() bool
  Complete(ctx context.Context, messages []types.Message) (string, error)
}

type openAIService struct {
  log        *logger.Logger
  client     *http.Client
  baseURL    string
  apiKey     string
  model      string
  configured bool
}

type openAIMessage struct {
  Role      string    `json:"role"`
  Content   string    `json:"content"`
}

type openAIChatRequest struct {
  Model     string            `json:"model"`
  Messages  []openAIMessage   `json:"messages"`
}

type openAIChatResponse struct {
  Choices []struct {
    Message openAIMessage `json:"message"`
  } `json:"choices"`
}

// NewOpenAIService never fails startup. Without an API key the service
// stays unconfigured and every Complete call reports a configuration
// error instead of touching the network.
func NewOpenAIService(log *logger.Logger) CompletionService {
  serviceLog := log.With("service", "OpenAIService")
  apiKey := utils.GetEnv("OPENAI_API_KEY", "", nil)
  if apiKey == "" {
    serviceLog.Warn("OPENAI_API_KEY not set; chat completion is disabled until it is provided")
  }
  baseURL := utils.GetEnv("OPENAI_BASE_URL", "https://api.openai.com/v1", serviceLog)
  model := utils.GetEnv("OPENAI_MODEL", "gpt-3.5-turbo", serviceLog)
  timeoutSeconds := utils.GetEnvAsInt("OPENAI_TIMEOUT_SECONDS", 30, serviceLog)
  httpClient := &http.Client{
    Timeout: time.Duration(timeoutSeconds) * time.Second,
  }
  return &openAIService{
    log:        serviceLog,
    client:     httpClient,
    baseURL:    strings.TrimRight(baseURL, "/"),
    apiKey:     apiKey,
    model:      model,
    configured: apiKey != "",
  }
}

func (oa *openAIService) Configured() bool {
  return oa.configured
}

func (oa *openAIService) Complete(ctx context.Context, messages []types.Message) (string, error) {
  if !oa.configured {
    return "", apperrors.Configuration("chat completion is not configured (missing API key)")
  }

  body := openAIChatRequest{Model: oa.model}
  body.Messages = make([]openAIMessage, 0, len(messages))
  for _, msg := range messages {
    body.Messages = append(body.Messages, openAIMessage{Role: msg.Role, Content: msg.Content})
  }
  payload, err := json.Marshal(body)
  if err != nil {
    return "", apperrors.Provider("failed to encode completion request", err)
  }

  reqURL := oa.baseURL + "/chat/completions"
  req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
  if err != nil {
    oa.log.Warn("failed to build new request", "error", err)
    return "", apperrors.Provider("failed to build completion request", err)
  }
  req.Header.Set("Content-Type", "application/json")
  req.Header.Set("Authorization", "Bearer "+oa.apiKey)

  resp, err := oa.client.Do(req)
  if err != nil {
    oa.log.Warn("failed to call completion provider", "error", err)
    return "", apperrors.Provider("completion provider call failed", err)
  }
  defer resp.Body.Close()

  if resp.StatusCode < 200 || resp.StatusCode > 299 {
    bodyBytes, _ := io.ReadAll(resp.Body)
    oa.log.Warn("completion provider responded with non-2xx", "statusCode", resp.StatusCode, "body", string(bodyBytes))
    return "", apperrors.Provider("completion provider call failed", fmt.Errorf("provider HTTP %d: %s", resp.StatusCode, string(bodyBytes)))
  }

  bodyBytes, err := io.ReadAll(resp.Body)
  if err != nil {
    oa.log.Warn("failed to read completion response body", "error", err)
    return "", apperrors.Provider("failed to read completion response", err)
  }
  var out openAIChatResponse
  if err := json.Unmarshal(bodyBytes, &out); err != nil {
    oa.log.Warn("failed to decode completion response", "error", err)
    return "", apperrors.Provider("malformed completion response", err)
  }
  if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
    oa.log.Warn("completion response contained no usable choice")
    return "", apperrors.Provider("completion provider returned an empty completion", nil)
  }
  oa.log.Info("Completion call success", "model", oa.model, "historyLen", len(messages))
  return out.Choices[0].Message.Content, nil
}
