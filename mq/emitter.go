package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"tripwatch/models"
	"tripwatch/rdx"
)

const syncChannel = "sync-events"

// Notify broadcasts an event name without queueing work.
func Notify(eventName string, content models.Index) error {
	fmt.Println(eventName, "Notified", content)
	return nil
}

// Emit publishes sync events to Redis for the background worker.
func Emit(ctx context.Context, eventName string, content models.Index) {
	data, err := json.Marshal(content)
	if err != nil {
		log.Printf("[Emit] Failed to marshal event content: %v", err)
		return
	}

	if err := rdx.Conn.Publish(ctx, syncChannel, data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish %s event to Redis: %v", eventName, err)
		return
	}
}
