package service

import (
	"sync"
	"time"

	"github.com/xxxsen/ragbridge/internal/model"
)

const defaultMaxActivationRecords = 256

// ActivationStore keeps recent activation outcomes in memory for the
// observability endpoint. Bounded; oldest records drop first.
type ActivationStore struct {
	mu      sync.Mutex
	max     int
	records []*model.ActivationRecord
	byID    map[string]*model.ActivationRecord
}

func NewActivationStore(max int) *ActivationStore {
	if max <= 0 {
		max = defaultMaxActivationRecords
	}
	return &ActivationStore{
		max:  max,
		byID: make(map[string]*model.ActivationRecord),
	}
}

func (s *ActivationStore) Begin(agentID, documentID string) string {
	record := &model.ActivationRecord{
		ID:         newID(),
		AgentID:    agentID,
		DocumentID: documentID,
		Status:     model.ActivationRunning,
		Ctime:      time.Now().UnixMilli(),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	s.byID[record.ID] = record
	if len(s.records) > s.max {
		evicted := s.records[0]
		s.records = s.records[1:]
		delete(s.byID, evicted.ID)
	}
	return record.ID
}

func (s *ActivationStore) Finish(id string, failure *WorkflowError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.byID[id]
	if !ok {
		return
	}
	record.Ftime = time.Now().UnixMilli()
	if failure == nil {
		record.Status = model.ActivationSuccess
		return
	}
	record.Status = model.ActivationFailed
	record.Code = failure.Code
	record.Message = failure.Message
}

// List returns recent records, newest first.
func (s *ActivationStore) List() []model.ActivationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ActivationRecord, 0, len(s.records))
	for i := len(s.records) - 1; i >= 0; i-- {
		out = append(out, *s.records[i])
	}
	return out
}

// Sweep drops finished records older than ttl and reports how many were
// removed. Running records are never swept.
func (s *ActivationStore) Sweep(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl).UnixMilli()
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.records[:0]
	removed := 0
	for _, record := range s.records {
		if record.Status != model.ActivationRunning && record.Ftime > 0 && record.Ftime < cutoff {
			delete(s.byID, record.ID)
			removed++
			continue
		}
		kept = append(kept, record)
	}
	s.records = kept
	return removed
}
