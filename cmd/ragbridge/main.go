package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/xxxsen/ragbridge/internal/config"
	"github.com/xxxsen/ragbridge/internal/elevenlabs"
	"github.com/xxxsen/ragbridge/internal/handler"
	"github.com/xxxsen/ragbridge/internal/job"
	"github.com/xxxsen/ragbridge/internal/middleware"
	"github.com/xxxsen/ragbridge/internal/schedule"
	"github.com/xxxsen/ragbridge/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "ragbridge",
		Short: "ragbridge backend server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run ragbridge server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))
			return runServer(cfg)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("upstream", cfg.Upstream.BaseURL),
	)

	httpClient := &http.Client{Timeout: time.Duration(cfg.Upstream.TimeoutSeconds) * time.Second}
	client := elevenlabs.NewClient(cfg.Upstream.BaseURL, httpClient)

	history := service.NewActivationStore(cfg.History.MaxRecords)
	ragService := service.NewRAGService(client, service.RAGConfig{
		EmbeddingModel:     cfg.RAG.EmbeddingModel,
		MaxDocumentsLength: cfg.RAG.MaxDocumentsLength,
		PollInterval:       time.Duration(cfg.RAG.PollIntervalSeconds) * time.Second,
		PollMaxAttempts:    cfg.RAG.PollMaxAttempts,
	}, history)
	conversationService := service.NewConversationService(client, ragService,
		time.Duration(cfg.RAG.DedupeTTLMinutes)*time.Minute)

	deps := handler.RouterDeps{
		Conversations:   handler.NewConversationHandler(conversationService, cfg.Upstream.APIKey),
		RAG:             handler.NewRAGHandler(ragService, history, cfg.Upstream.APIKey),
		RateLimitWindow: time.Duration(cfg.RateLimitMS) * time.Millisecond,
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORSAllowlist),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	if err := scheduler.AddJob(job.NewActivationSweepJob(history, cfg.History.RetentionHours), cfg.History.SweepSpec); err != nil {
		return fmt.Errorf("schedule sweep job: %w", err)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
