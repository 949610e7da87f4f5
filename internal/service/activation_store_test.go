package service

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/ragbridge/internal/model"
)

func TestActivationStoreLifecycle(t *testing.T) {
	store := NewActivationStore(8)
	id := store.Begin("agent-1", "doc-1")

	records := store.List()
	require.Len(t, records, 1)
	require.Equal(t, model.ActivationRunning, records[0].Status)

	store.Finish(id, &WorkflowError{Code: http.StatusRequestTimeout, Message: "Timeout waiting for document indexing"})
	records = store.List()
	require.Equal(t, model.ActivationFailed, records[0].Status)
	require.Equal(t, http.StatusRequestTimeout, records[0].Code)
	require.NotZero(t, records[0].Ftime)

	id = store.Begin("agent-1", "doc-2")
	store.Finish(id, nil)
	records = store.List()
	require.Len(t, records, 2)
	// newest first
	require.Equal(t, "doc-2", records[0].DocumentID)
	require.Equal(t, model.ActivationSuccess, records[0].Status)
}

func TestActivationStoreBounded(t *testing.T) {
	store := NewActivationStore(2)
	store.Begin("agent-1", "doc-1")
	store.Begin("agent-1", "doc-2")
	store.Begin("agent-1", "doc-3")

	records := store.List()
	require.Len(t, records, 2)
	require.Equal(t, "doc-3", records[0].DocumentID)
	require.Equal(t, "doc-2", records[1].DocumentID)
}

func TestActivationStoreSweep(t *testing.T) {
	store := NewActivationStore(8)
	finished := store.Begin("agent-1", "doc-1")
	store.Finish(finished, nil)
	store.Begin("agent-1", "doc-2") // still running

	removed := store.Sweep(-time.Second) // cutoff in the future, sweeps all finished
	require.Equal(t, 1, removed)

	records := store.List()
	require.Len(t, records, 1)
	require.Equal(t, "doc-2", records[0].DocumentID)
}
