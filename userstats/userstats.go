package userstats

import (
	"context"
	"log"
	"net/http"
	"time"

	"tripwatch/db"
	"tripwatch/globals"
	"tripwatch/models"
	"tripwatch/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Best-effort statistics counters. Every function here logs failures and
// returns; a broken counter must never fail a destination or alert call.

func IncrementDestinations(userID string, delta int) {
	bump(userID, "destinations", delta)
}

func IncrementAlertsRead(userID string, delta int) {
	bump(userID, "alerts_read", delta)
}

func bump(userID, field string, delta int) {
	filter := bson.M{"userid": userID}
	update := bson.M{
		"$inc": bson.M{field: delta},
		"$set": bson.M{"updated_at": time.Now()},
	}
	opts := options.Update().SetUpsert(true)

	_, err := db.UserStatsCollection.UpdateOne(context.TODO(), filter, update, opts)
	if err != nil {
		log.Printf("Failed to update %s stat for %s: %v", field, userID, err)
	}
}

// GET /api/stats
func GetUserStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok {
		http.Error(w, "Invalid user", http.StatusUnauthorized)
		return
	}

	var stats models.UserStats
	err := db.UserStatsCollection.FindOne(context.TODO(), bson.M{"userid": userID}).Decode(&stats)
	if err != nil {
		// No stats yet is not an error state
		stats = models.UserStats{UserID: userID}
	}

	utils.RespondWithJSON(w, http.StatusOK, stats)
}
