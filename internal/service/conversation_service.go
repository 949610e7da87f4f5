package service

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/ragbridge/internal/elevenlabs"
	"github.com/xxxsen/ragbridge/internal/model"
	appErr "github.com/xxxsen/ragbridge/internal/pkg/errors"
)

const ragStatusProcessed = "processed"

var endCues = map[string]struct{}{
	"goodbye": {},
	"bye":     {},
	"end":     {},
}

// ConversationService relays messages to the upstream conversation endpoint
// and, when the conversation ends with a known cue and the response names a
// document, kicks off RAG activation for it. An expiring cache skips a
// re-run for a pair that already succeeded recently.
type ConversationService struct {
	client *elevenlabs.Client
	rag    *RAGService
	recent *expirable.LRU[string, struct{}]
}

func NewConversationService(client *elevenlabs.Client, rag *RAGService, dedupeTTL time.Duration) *ConversationService {
	var recent *expirable.LRU[string, struct{}]
	if dedupeTTL > 0 {
		recent = expirable.NewLRU[string, struct{}](1024, nil, dedupeTTL)
	}
	return &ConversationService{client: client, rag: rag, recent: recent}
}

func (s *ConversationService) Talk(ctx context.Context, agentID, apiKey string, messages []model.Message) (map[string]interface{}, error) {
	if len(messages) == 0 {
		return nil, appErr.ErrInvalid
	}
	data, err := s.client.Converse(ctx, apiKey, agentID, messages)
	if err != nil {
		return nil, stepError(err, "Failed to process conversation")
	}
	last := messages[len(messages)-1]
	if !isEndCue(last.Content) {
		return data, nil
	}
	documentID, _ := data["document_id"].(string)
	if documentID == "" {
		return data, nil
	}
	logger := logutil.GetLogger(ctx).With(
		zap.String("agent_id", agentID),
		zap.String("document_id", documentID),
	)
	key := agentID + "/" + documentID
	if s.recent != nil {
		if _, ok := s.recent.Get(key); ok {
			logger.Info("rag activation skipped, recently completed")
			data["rag_status"] = ragStatusProcessed
			return data, nil
		}
	}
	logger.Info("conversation ended, activating rag")
	if err := s.rag.Activate(ctx, IndexingRequest{
		DocumentID: documentID,
		AgentID:    agentID,
		APIKey:     apiKey,
	}); err != nil {
		return nil, err
	}
	if s.recent != nil {
		s.recent.Add(key, struct{}{})
	}
	data["rag_status"] = ragStatusProcessed
	return data, nil
}

func isEndCue(content string) bool {
	_, ok := endCues[strings.ToLower(strings.TrimSpace(content))]
	return ok
}
