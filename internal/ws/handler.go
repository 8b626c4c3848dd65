package ws

import (
	"encoding/json"
	"log"

	socketio "github.com/googollee/go-socket.io"

	"go_crm/internal/db"
	"go_crm/internal/model"
)

// maxReplayEvents caps how many missed events one reconnect may replay.
const maxReplayEvents = 500

// handleRequestDealEvents replays deal events a reconnecting client missed.
// The client sends the last event id it saw; events after it are re-emitted.
func handleRequestDealEvents(s socketio.Conn, data interface{}) {
	var lastEventID int64
	if dataMap, ok := data.(map[string]interface{}); ok {
		if v, ok := dataMap["lastEventId"].(float64); ok {
			lastEventID = int64(v)
		}
	}

	var events []model.WSEvent
	query := db.GetDB().
		Where("topic = ?", DealTopic).
		Order("id ASC").
		Limit(maxReplayEvents)
	if lastEventID > 0 {
		query = query.Where("id > ?", lastEventID)
	}
	if err := query.Find(&events).Error; err != nil {
		log.Printf("[WebSocket] Failed to query deal events: %v", err)
		s.Emit("deals:replay", map[string]interface{}{
			"events": []interface{}{},
			"error":  "failed to load events",
		})
		return
	}

	items := make([]map[string]interface{}, 0, len(events))
	for _, event := range events {
		var payload interface{}
		if err := json.Unmarshal([]byte(event.Payload), &payload); err != nil {
			log.Printf("[WebSocket] Skipping event %d with bad payload: %v", event.ID, err)
			continue
		}
		items = append(items, map[string]interface{}{
			"eventId": event.ID,
			"type":    event.EventType,
			"data":    payload,
		})
	}

	s.Emit("deals:replay", map[string]interface{}{
		"events": items,
	})
}
