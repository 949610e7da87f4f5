package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/ragbridge/internal/model"
	"github.com/xxxsen/ragbridge/internal/pkg/errcode"
	"github.com/xxxsen/ragbridge/internal/pkg/response"
	"github.com/xxxsen/ragbridge/internal/service"
)

type ConversationHandler struct {
	conversations *service.ConversationService
	defaultAPIKey string
}

func NewConversationHandler(conversations *service.ConversationService, defaultAPIKey string) *ConversationHandler {
	return &ConversationHandler{conversations: conversations, defaultAPIKey: defaultAPIKey}
}

type talkRequest struct {
	Messages []model.Message `json:"messages"`
	AgentID  string          `json:"agent_id"`
	APIKey   string          `json:"api_key"`
}

func (h *ConversationHandler) Talk(c *gin.Context) {
	var req talkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	if req.AgentID == "" || len(req.Messages) == 0 {
		response.Error(c, errcode.ErrInvalid, "agent_id and messages are required")
		return
	}
	apiKey := req.APIKey
	if apiKey == "" {
		apiKey = h.defaultAPIKey
	}
	if apiKey == "" {
		response.Error(c, errcode.ErrInvalid, "api_key is required")
		return
	}
	data, err := h.conversations.Talk(c.Request.Context(), req.AgentID, apiKey, req.Messages)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, data)
}
