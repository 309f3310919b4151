package models

import "time"

type QueryStatus string

const (
	StatusIdle    QueryStatus = "idle"
	StatusLoading QueryStatus = "loading"
	StatusSuccess QueryStatus = "success"
	StatusFailure QueryStatus = "failure"
)

// ViewState 页面当前状态，每次状态迁移整体替换，不做原地修改
type ViewState struct {
	ID        string            `json:"id"`
	Status    QueryStatus       `json:"status"`
	Loading   bool              `json:"loading"`
	Query     string            `json:"query,omitempty"`
	Result    *NormalizedResult `json:"result,omitempty"`
	Error     string            `json:"error,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}
