package mq

import (
	"context"
	"encoding/json"
	"log"

	"tripwatch/db"
	"tripwatch/models"
	"tripwatch/rdx"

	"go.mongodb.org/mongo-driver/bson"
)

// StartSyncWorker listens for sync events and rebuilds the per-user offline
// mirror after every destination mutation. Keeping the mirror out of the
// request path means a slow Redis never delays an API response.
func StartSyncWorker() {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, syncChannel)
	ch := sub.Channel()

	log.Println("[SyncWorker] Listening for sync events...")

	for msg := range ch {
		var event models.Index
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("[SyncWorker] Failed to parse event: %v", err)
			continue
		}

		if event.EntityType != "destination" {
			continue
		}

		if err := refreshMirror(ctx, event.EntityId); err != nil {
			log.Printf("[SyncWorker] Mirror refresh failed for %s: %v", event.EntityId, err)
		}
	}
}

func refreshMirror(ctx context.Context, userID string) error {
	cursor, err := db.DestinationsCollection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var destinations []models.Destination
	if err := cursor.All(ctx, &destinations); err != nil {
		return err
	}

	rdx.MirrorDestinations(userID, destinations)
	return nil
}
