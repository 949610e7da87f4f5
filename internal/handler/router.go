package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/ragbridge/internal/middleware"
)

type RouterDeps struct {
	Conversations   *ConversationHandler
	RAG             *RAGHandler
	RateLimitWindow time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	group := api.Group("")
	if deps.RateLimitWindow > 0 {
		group.Use(middleware.RateLimit(deps.RateLimitWindow))
	}
	group.POST("/talk", deps.Conversations.Talk)
	group.POST("/rag/activate", deps.RAG.Activate)
	group.GET("/rag/activations", deps.RAG.Activations)
}
