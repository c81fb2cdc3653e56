package alerts

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tripwatch/alertstream"
	"tripwatch/db"
	"tripwatch/destinations"
	"tripwatch/feeds"
	"tripwatch/globals"
	"tripwatch/models"
	"tripwatch/settings"
	"tripwatch/userstats"
	"tripwatch/utils"
)

func requestUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}

// GET /api/alerts
// Returns the ranked alert list for the caller's active destination, with
// per-user read flags merged in. Optional ?tags=scam,weather narrows by
// category keywords. Settings gate everything: alerts off means an empty
// list, and minimum severity plus muted types are applied before ranking.
func GetAlerts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	active, err := destinations.ActiveForUser(ctx, userID)
	if err != nil {
		log.Printf("active destination lookup failed for %s: %v", userID, err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Failed to resolve active destination")
		return
	}

	prefs := settings.ForUser(ctx, userID)
	if !prefs.AlertsEnabled || (active != nil && !active.AlertsEnabled) {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{
			"alerts": []models.Alert{}, "unread": 0, "destination": active,
		})
		return
	}

	stored, err := fetchStored(ctx)
	if err != nil {
		log.Printf("alert fetch failed: %v", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Failed to fetch alerts")
		return
	}

	tags := utils.SplitTags(r.URL.Query().Get("tags"))
	visible := ForDestination(FilterByPreferences(stored, prefs.MinSeverity, prefs.MutedTypes), active, tags)
	visible = markRead(ctx, userID, visible)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"alerts":      visible,
		"unread":      UnreadCount(visible),
		"destination": active,
	})
}

// POST /api/alerts/read/:id
// Idempotent: marking an already-read alert changes nothing and the stats
// counter only moves on the first read.
func MarkAlertRead(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}
	alertID := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.AlertReadsCollection.UpdateOne(ctx,
		bson.M{"userid": userID, "alertid": alertID},
		bson.M{"$setOnInsert": bson.M{"userid": userID, "alertid": alertID, "read_at": time.Now()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		log.Printf("mark read failed for %s/%s: %v", userID, alertID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to mark alert read")
		return
	}
	if res.UpsertedCount > 0 {
		userstats.IncrementAlertsRead(userID, 1)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"id": alertID, "read": true})
}

// GET /api/alerts/unread/count
// Counts over the same settings-gated pipeline as GetAlerts so the badge
// never disagrees with the list.
func GetUnreadAlertCount(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	active, err := destinations.ActiveForUser(ctx, userID)
	if err != nil {
		log.Printf("active destination lookup failed for %s: %v", userID, err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Failed to resolve active destination")
		return
	}

	prefs := settings.ForUser(ctx, userID)
	if !prefs.AlertsEnabled || (active != nil && !active.AlertsEnabled) {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"count": 0})
		return
	}

	stored, err := fetchStored(ctx)
	if err != nil {
		log.Printf("alert fetch failed: %v", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Failed to fetch alerts")
		return
	}

	visible := ForDestination(FilterByPreferences(stored, prefs.MinSeverity, prefs.MutedTypes), active, nil)
	visible = markRead(ctx, userID, visible)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"count": UnreadCount(visible)})
}

// RefreshAlerts pulls the upstream feeds for the caller's active
// destination, upserts everything by alert id, and pushes unseen alerts to
// the destination's live stream room.
//
// POST /api/alerts/refresh
func RefreshAlerts(hub *alertstream.Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		userID, ok := requestUserID(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		active, err := destinations.ActiveForUser(ctx, userID)
		if err != nil {
			log.Printf("active destination lookup failed for %s: %v", userID, err)
			utils.RespondWithError(w, http.StatusServiceUnavailable, "Failed to resolve active destination")
			return
		}
		if active == nil {
			utils.RespondWithJSON(w, http.StatusOK, utils.M{"ingested": 0})
			return
		}

		fetched, err := feeds.FetchAll(ctx, active.DestinationName)
		if err != nil {
			log.Printf("feed refresh failed for %s: %v", active.DestinationName, err)
			utils.RespondWithError(w, http.StatusBadGateway, "All alert feeds unavailable")
			return
		}

		ingested := 0
		for _, alert := range fetched {
			res, err := db.AlertsCollection.UpdateOne(ctx,
				bson.M{"alertid": alert.AlertID},
				bson.M{"$set": alert},
				options.Update().SetUpsert(true),
			)
			if err != nil {
				log.Printf("alert upsert failed for %s: %v", alert.AlertID, err)
				continue
			}
			if res.UpsertedCount > 0 {
				ingested++
				hub.PushAlert(active.DestinationID, alert)
			}
		}

		utils.RespondWithJSON(w, http.StatusOK, utils.M{"ingested": ingested, "total": len(fetched)})
	}
}

func fetchStored(ctx context.Context) ([]models.Alert, error) {
	cursor, err := db.AlertsCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var alerts []models.Alert
	if err := cursor.All(ctx, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// markRead stamps each alert with the caller's read state. Lookup failures
// degrade to everything-unread rather than an error.
func markRead(ctx context.Context, userID string, alerts []models.Alert) []models.Alert {
	if len(alerts) == 0 {
		return alerts
	}

	cursor, err := db.AlertReadsCollection.Find(ctx, bson.M{"userid": userID})
	if err != nil {
		log.Printf("read state lookup failed for %s: %v", userID, err)
		return alerts
	}
	defer cursor.Close(ctx)

	var reads []models.AlertRead
	if err := cursor.All(ctx, &reads); err != nil {
		log.Printf("read state decode failed for %s: %v", userID, err)
		return alerts
	}

	seen := make(map[string]bool, len(reads))
	for _, read := range reads {
		seen[read.AlertID] = true
	}
	for i := range alerts {
		alerts[i].Read = seen[alerts[i].AlertID]
	}
	return alerts
}
