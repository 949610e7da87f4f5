package elevenlabs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/ragbridge/internal/model"
)

func TestCreateRAGIndexRequestShape(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("xi-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"status":"PENDING"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	require.NoError(t, client.CreateRAGIndex(context.Background(), "key-1", "doc-1", "e5_mistral_7b_instruct"))
	require.Equal(t, "/v1/conversational-ai/knowledge-base/doc-1/rag-index", gotPath)
	require.Equal(t, "key-1", gotKey)
	require.Equal(t, map[string]interface{}{"model": "e5_mistral_7b_instruct"}, gotBody)
}

func TestGetRAGIndexStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{"status":"SUCCEEDED"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	status, err := client.GetRAGIndex(context.Background(), "key-1", "doc-1")
	require.NoError(t, err)
	require.Equal(t, IndexStatusSucceeded, status)
}

func TestStatusErrorCarriesCodeAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"bad model"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	err := client.CreateRAGIndex(context.Background(), "key-1", "doc-1", "nope")
	require.Error(t, err)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusUnprocessableEntity, se.StatusCode)
	require.Contains(t, se.Body, "bad model")
}

func TestUpdateAgentSendsFullConfig(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	config := map[string]interface{}{"agent_id": "agent-1", "extra": "kept"}
	require.NoError(t, client.UpdateAgent(context.Background(), "key-1", "agent-1", config))
	require.Equal(t, http.MethodPut, gotMethod)
	require.Equal(t, "/v1/conversational-ai/agents/agent-1", gotPath)
	require.Equal(t, config, gotBody)
}

func TestConverseRelaysMessages(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/conversational-ai/agents/agent-1/conversation", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"reply":"hello","document_id":"doc-1"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	data, err := client.Converse(context.Background(), "key-1", "agent-1", []model.Message{
		{Role: "user", Content: "hi"},
	})
	require.NoError(t, err)
	require.Equal(t, "hello", data["reply"])
	require.Equal(t, "doc-1", data["document_id"])
	messages := gotBody["messages"].([]interface{})
	require.Len(t, messages, 1)
	require.Equal(t, map[string]interface{}{"role": "user", "content": "hi"}, messages[0])
}

func TestMalformedResponseSurfacesError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	_, err := client.GetRAGIndex(context.Background(), "key-1", "doc-1")
	require.Error(t, err)
	var se *StatusError
	require.False(t, errors.As(err, &se))
}
