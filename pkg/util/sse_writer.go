package util

import (
	"encoding/json"
	"fmt"
	"net/http"

	"stock-agent-web/internal/app/models"
)

const (
	EventState     = "state"
	EventHeartbeat = "heartbeat"
)

// WriteSSE 写出一条带事件名的 SSE 消息，data 统一带 type 字段
func WriteSSE(w http.ResponseWriter, eventType string, data interface{}) error {
	var event map[string]interface{}

	switch v := data.(type) {
	case models.StateEvent:
		event = map[string]interface{}{
			"type":  eventType,
			"state": v.State,
		}
	case models.HeartbeatEvent:
		event = map[string]interface{}{
			"type": eventType,
		}
	default:
		return fmt.Errorf("unsupported event data type: %T", data)
	}

	bytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if _, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, bytes); err != nil {
		return err
	}
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}

func WriteState(w http.ResponseWriter, state *models.ViewState) error {
	return WriteSSE(w, EventState, models.StateEvent{State: state})
}

func WriteHeartbeat(w http.ResponseWriter) error {
	return WriteSSE(w, EventHeartbeat, models.HeartbeatEvent{})
}
