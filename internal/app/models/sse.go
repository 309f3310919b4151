package models

// StateEvent 状态迁移事件
type StateEvent struct {
	State *ViewState `json:"state"`
}

// HeartbeatEvent 无字段，仅用于保持连接
type HeartbeatEvent struct{}
