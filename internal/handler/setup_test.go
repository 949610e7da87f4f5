package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/xxxsen/common/webapi"

	"github.com/xxxsen/ragbridge/internal/elevenlabs"
	"github.com/xxxsen/ragbridge/internal/handler"
	"github.com/xxxsen/ragbridge/internal/middleware"
	"github.com/xxxsen/ragbridge/internal/service"
)

// fakeUpstream answers the five upstream routes with canned payloads.
type fakeUpstream struct {
	indexCode    int
	status       string
	agentBody    string
	converseBody string
	indexCalls   int
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{
		indexCode:    http.StatusOK,
		status:       "SUCCEEDED",
		agentBody:    `{"agent":{"prompt":{"knowledge_base":[{"id":"doc-1","usage_mode":"prompt"}]}}}`,
		converseBody: `{"reply":"bye","document_id":"doc-1"}`,
	}
}

func (f *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/conversation"):
		_, _ = w.Write([]byte(f.converseBody))
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/rag-index"):
		f.indexCalls++
		w.WriteHeader(f.indexCode)
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/rag-index"):
		_, _ = w.Write([]byte(`{"status":"` + f.status + `"}`))
	case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/agents/"):
		_, _ = w.Write([]byte(f.agentBody))
	case r.Method == http.MethodPut && strings.Contains(r.URL.Path, "/agents/"):
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func setupRouter(t *testing.T, upstream *fakeUpstream, defaultAPIKey string) (http.Handler, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	server := httptest.NewServer(upstream)
	client := elevenlabs.NewClient(server.URL, server.Client())
	history := service.NewActivationStore(16)
	ragService := service.NewRAGService(client, service.RAGConfig{
		PollInterval:    time.Millisecond,
		PollMaxAttempts: 10,
	}, history)
	conversationService := service.NewConversationService(client, ragService, 0)

	deps := handler.RouterDeps{
		Conversations: handler.NewConversationHandler(conversationService, defaultAPIKey),
		RAG:           handler.NewRAGHandler(ragService, history, defaultAPIKey),
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		"",
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(nil),
		),
	)
	require.NoError(t, err)

	return engine, server.Close
}

type envelope struct {
	Code int                    `json:"code"`
	Msg  string                 `json:"message"`
	Data map[string]interface{} `json:"data"`
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) envelope {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	var out envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	return out
}
