package model

const (
	ActivationRunning = "running"
	ActivationSuccess = "success"
	ActivationFailed  = "failed"
)

type ActivationRecord struct {
	ID         string `json:"id"`
	AgentID    string `json:"agent_id"`
	DocumentID string `json:"document_id"`
	Status     string `json:"status"`
	Code       int    `json:"code,omitempty"`
	Message    string `json:"message,omitempty"`
	Ctime      int64  `json:"ctime"`
	Ftime      int64  `json:"ftime,omitempty"`
}
