package mqtt

import (
	"encoding/json"
	"time"
)

// Item lifecycle actions carried in event payloads.
const (
	EventCreated  = "created"
	EventReplaced = "replaced"
	EventMerged   = "merged"
	EventDeleted  = "deleted"
	EventPurged   = "purged"
)

// ItemEvent is the payload published to jsonvault/items/<id>/event.
type ItemEvent struct {
	ID        string `json:"id"`
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
}

// PublishItemEvent publishes a lifecycle event for one item.
//
// Events are fire-and-forget from the handlers' point of view: a failed
// publish is logged but never fails the HTTP request that triggered it.
func (c *Client) PublishItemEvent(id, action string) {
	event := ItemEvent{
		ID:        id,
		Action:    action,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		// Marshalling a flat struct cannot realistically fail; guard anyway.
		if logger := c.getLogger(); logger != nil {
			logger.Error("encoding item event", "id", id, "error", err)
		}
		return
	}

	if err := c.Publish(Topics{}.ItemEvent(id), payload, byte(c.cfg.QoS), false); err != nil {
		if logger := c.getLogger(); logger != nil {
			logger.Warn("publishing item event",
				"id", id,
				"action", action,
				"error", err,
			)
		}
	}
}
