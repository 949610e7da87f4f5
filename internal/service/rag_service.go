package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/ragbridge/internal/elevenlabs"
)

const (
	DefaultEmbeddingModel     = "e5_mistral_7b_instruct"
	DefaultMaxDocumentsLength = 10000
	DefaultPollInterval       = 5 * time.Second
	DefaultPollMaxAttempts    = 10
)

// WorkflowError is the single failure shape an activation can surface. Code
// carries the upstream HTTP status where one exists, otherwise 400/408/500
// per the failure kind.
type WorkflowError struct {
	Code    int
	Message string
}

func (e *WorkflowError) Error() string {
	return fmt.Sprintf("%s (code=%d)", e.Message, e.Code)
}

type IndexingRequest struct {
	DocumentID         string
	AgentID            string
	APIKey             string
	EmbeddingModel     string
	MaxDocumentsLength int
}

type RAGConfig struct {
	EmbeddingModel     string
	MaxDocumentsLength int
	PollInterval       time.Duration
	PollMaxAttempts    int
}

// RAGService drives the activation workflow for one document against one
// agent: submit indexing, poll until it settles, then read-modify-write the
// agent configuration to reference the document.
type RAGService struct {
	client  *elevenlabs.Client
	cfg     RAGConfig
	history *ActivationStore
}

func NewRAGService(client *elevenlabs.Client, cfg RAGConfig, history *ActivationStore) *RAGService {
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = DefaultEmbeddingModel
	}
	if cfg.MaxDocumentsLength <= 0 {
		cfg.MaxDocumentsLength = DefaultMaxDocumentsLength
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.PollMaxAttempts <= 0 {
		cfg.PollMaxAttempts = DefaultPollMaxAttempts
	}
	if history == nil {
		history = NewActivationStore(0)
	}
	return &RAGService{client: client, cfg: cfg, history: history}
}

// Activate runs the full workflow. Every failure comes back as a
// *WorkflowError; faults without an upstream status code map to 500.
// Concurrent activations for the same agent are not coordinated, the last
// write-back wins.
func (s *RAGService) Activate(ctx context.Context, req IndexingRequest) error {
	req = s.withDefaults(req)
	logger := logutil.GetLogger(ctx).With(
		zap.String("agent_id", req.AgentID),
		zap.String("document_id", req.DocumentID),
	)
	recordID := s.history.Begin(req.AgentID, req.DocumentID)
	start := time.Now()
	err := s.activate(ctx, req)
	if err != nil {
		werr := asWorkflowError(err)
		s.history.Finish(recordID, werr)
		logger.Error("rag activation failed",
			zap.Int("code", werr.Code),
			zap.String("message", werr.Message),
			zap.Duration("duration", time.Since(start)),
		)
		return werr
	}
	s.history.Finish(recordID, nil)
	logger.Info("rag activation completed", zap.Duration("duration", time.Since(start)))
	return nil
}

func (s *RAGService) withDefaults(req IndexingRequest) IndexingRequest {
	if req.EmbeddingModel == "" {
		req.EmbeddingModel = s.cfg.EmbeddingModel
	}
	if req.MaxDocumentsLength <= 0 {
		req.MaxDocumentsLength = s.cfg.MaxDocumentsLength
	}
	return req
}

func (s *RAGService) activate(ctx context.Context, req IndexingRequest) error {
	if err := s.client.CreateRAGIndex(ctx, req.APIKey, req.DocumentID, req.EmbeddingModel); err != nil {
		return stepError(err, "Failed to index document")
	}
	if err := s.pollIndexing(ctx, req); err != nil {
		return err
	}
	agentConfig, err := s.client.GetAgent(ctx, req.APIKey, req.AgentID)
	if err != nil {
		return stepError(err, "Failed to get agent configuration")
	}
	if err := enableRAG(agentConfig, req.DocumentID, req.EmbeddingModel, req.MaxDocumentsLength); err != nil {
		return err
	}
	if err := s.client.UpdateAgent(ctx, req.APIKey, req.AgentID, agentConfig); err != nil {
		return stepError(err, "Failed to update agent configuration")
	}
	return nil
}

func (s *RAGService) pollIndexing(ctx context.Context, req IndexingRequest) error {
	for attempt := 0; attempt < s.cfg.PollMaxAttempts; attempt++ {
		status, err := s.client.GetRAGIndex(ctx, req.APIKey, req.DocumentID)
		if err != nil {
			return stepError(err, "Failed to check indexing status")
		}
		switch status {
		case elevenlabs.IndexStatusSucceeded:
			return nil
		case elevenlabs.IndexStatusFailed:
			return &WorkflowError{Code: http.StatusBadRequest, Message: "Failed to index document"}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.cfg.PollInterval):
		}
	}
	return &WorkflowError{Code: http.StatusRequestTimeout, Message: "Timeout waiting for document indexing"}
}

// stepError maps an upstream rejection to the step's fixed message while
// keeping the original status code. Anything else passes through and gets
// the 500 catch-all at the Activate boundary.
func stepError(err error, message string) error {
	var se *elevenlabs.StatusError
	if errors.As(err, &se) {
		return &WorkflowError{Code: se.StatusCode, Message: message}
	}
	return err
}

func asWorkflowError(err error) *WorkflowError {
	var werr *WorkflowError
	if errors.As(err, &werr) {
		return werr
	}
	return &WorkflowError{Code: http.StatusInternalServerError, Message: err.Error()}
}
