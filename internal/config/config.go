package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port          int              `json:"port"`
	LogConfig     logger.LogConfig `json:"log_config"`
	Upstream      UpstreamConfig   `json:"upstream"`
	RAG           RAGConfig        `json:"rag"`
	History       HistoryConfig    `json:"history"`
	CORSAllowlist []string         `json:"cors_allowlist"`
	RateLimitMS   int              `json:"rate_limit_ms"`
}

type UpstreamConfig struct {
	BaseURL        string `json:"base_url"`
	APIKey         string `json:"api_key"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

type RAGConfig struct {
	EmbeddingModel      string `json:"embedding_model"`
	MaxDocumentsLength  int    `json:"max_documents_length"`
	PollIntervalSeconds int    `json:"poll_interval_seconds"`
	PollMaxAttempts     int    `json:"poll_max_attempts"`
	DedupeTTLMinutes    int    `json:"dedupe_ttl_minutes"`
}

type HistoryConfig struct {
	MaxRecords     int    `json:"max_records"`
	RetentionHours int    `json:"retention_hours"`
	SweepSpec      string `json:"sweep_spec"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.Upstream.TimeoutSeconds <= 0 {
		cfg.Upstream.TimeoutSeconds = 30
	}
	if cfg.RAG.EmbeddingModel == "" {
		cfg.RAG.EmbeddingModel = "e5_mistral_7b_instruct"
	}
	if cfg.RAG.MaxDocumentsLength <= 0 {
		cfg.RAG.MaxDocumentsLength = 10000
	}
	if cfg.RAG.PollIntervalSeconds <= 0 {
		cfg.RAG.PollIntervalSeconds = 5
	}
	if cfg.RAG.PollMaxAttempts <= 0 {
		cfg.RAG.PollMaxAttempts = 10
	}
	if cfg.RAG.DedupeTTLMinutes < 0 {
		cfg.RAG.DedupeTTLMinutes = 0
	}
	if cfg.History.MaxRecords <= 0 {
		cfg.History.MaxRecords = 256
	}
	if cfg.History.RetentionHours <= 0 {
		cfg.History.RetentionHours = 24
	}
	if cfg.History.SweepSpec == "" {
		cfg.History.SweepSpec = "0 * * * *"
	}
	return &cfg, nil
}
