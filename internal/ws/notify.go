package ws

import (
	"encoding/json"
	"strings"
	"time"
)

type InsightsUpdatedEvent struct {
	Type      string `json:"type"`
	Industry  string `json:"industry"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
}

// InsightsUpdated broadcasts a refresh event on the industry's topic.
func (h *Hub) InsightsUpdated(industryKey string, source string) {
	if h == nil {
		return
	}
	industryKey = normalizeTopic(industryKey)
	if industryKey == "" {
		return
	}

	b, err := json.Marshal(InsightsUpdatedEvent{
		Type:      "insights_updated",
		Industry:  industryKey,
		Source:    strings.TrimSpace(source),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	h.Publish(industryKey, b)
}
