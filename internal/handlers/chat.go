package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/chatloop-org/chatloop-backend/internal/apperrors"
  "github.com/chatloop-org/chatloop-backend/internal/services"
)

type ChatHandler struct {
  userService services.UserService
  chatService services.ChatService
  devMode     bool
}

func NewChatHandler(userService services.UserService, chatService services.ChatService, devMode bool) *ChatHandler {
  return &ChatHandler{userService: userService, chatService: chatService, devMode: devMode}
}

// respondError maps a service error onto the HTTP boundary. The wrapped
// cause only leaves the process in development mode.
func (ch *ChatHandler) respondError(c *gin.Context, err error) {
  body := gin.H{"error": apperrors.PublicMessage(err)}
  if ch.devMode {
    body["details"] = err.Error()
  }
  c.JSON(apperrors.HTTPStatus(err), body)
}

func (ch *ChatHandler) Register(c *gin.Context) {
  var req struct {
    Name        string        `json:"name"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  user, err := ch.userService.Register(c.Request.Context(), req.Name)
  if err != nil {
    ch.respondError(c, err)
    return
  }
  c.JSON(http.StatusCreated, gin.H{
    "message": "Registration successful!",
    "userId":  user.UserToken,
    "name":    user.Name,
  })
}

func (ch *ChatHandler) Login(c *gin.Context) {
  var req struct {
    Name        string        `json:"name"`
    UserID      string        `json:"userId"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  user, conversations, err := ch.userService.Login(c.Request.Context(), req.Name, req.UserID)
  if err != nil {
    ch.respondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{
    "user":          user,
    "conversations": conversations,
    "message":       "Conversation history retrieved successfully!",
  })
}

func (ch *ChatHandler) Chat(c *gin.Context) {
  var req struct {
    Message     string        `json:"message"`
    UserID      string        `json:"userId"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  reply, messages, err := ch.chatService.Exchange(c.Request.Context(), req.UserID, req.Message)
  if err != nil {
    ch.respondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{
    "response":     reply,
    "conversation": messages,
  })
}

func (ch *ChatHandler) GetConversationHistory(c *gin.Context) {
  userToken := c.Param("userId")
  messages, err := ch.chatService.GetHistory(c.Request.Context(), userToken)
  if err != nil {
    ch.respondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"conversation": messages})
}
