package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/ragbridge/internal/pkg/errcode"
	"github.com/xxxsen/ragbridge/internal/pkg/response"
	"github.com/xxxsen/ragbridge/internal/service"
)

type RAGHandler struct {
	rag           *service.RAGService
	history       *service.ActivationStore
	defaultAPIKey string
}

func NewRAGHandler(rag *service.RAGService, history *service.ActivationStore, defaultAPIKey string) *RAGHandler {
	return &RAGHandler{rag: rag, history: history, defaultAPIKey: defaultAPIKey}
}

type ragActivateRequest struct {
	DocumentID         string `json:"document_id"`
	AgentID            string `json:"agent_id"`
	APIKey             string `json:"api_key"`
	EmbeddingModel     string `json:"embedding_model"`
	MaxDocumentsLength int    `json:"max_documents_length"`
}

func (h *RAGHandler) Activate(c *gin.Context) {
	var req ragActivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	if req.DocumentID == "" || req.AgentID == "" {
		response.Error(c, errcode.ErrInvalid, "document_id and agent_id are required")
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
	err := h.rag.Activate(c.Request.Context(), service.IndexingRequest{
		DocumentID:         req.DocumentID,
		AgentID:            req.AgentID,
		APIKey:             apiKey,
		EmbeddingModel:     req.EmbeddingModel,
		MaxDocumentsLength: req.MaxDocumentsLength,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{
		"status":  "success",
		"message": "RAG configuration completed successfully",
	})
}

func (h *RAGHandler) Activations(c *gin.Context) {
	response.Success(c, gin.H{"items": h.history.List()})
}
