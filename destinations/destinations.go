package destinations

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"tripwatch/db"
	"tripwatch/globals"
	"tripwatch/models"
	"tripwatch/mq"
	"tripwatch/rdx"
	"tripwatch/userstats"
	"tripwatch/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

func requestUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}

// GET /api/destinations
// Auto-activates trips whose window now contains today, then returns the
// list plus the selected active destination. On a database failure the
// last mirrored copy is served with stale=true instead of an error.
func GetDestinations(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	today := Today()

	// Promote planned trips that have started before reading the list.
	_, err := db.DestinationsCollection.UpdateMany(ctx,
		autoActivateFilter(userID, today),
		bson.M{"$set": bson.M{"status": models.DestinationActive, "updated_at": time.Now()}},
	)
	if err != nil {
		log.Printf("Auto-activate failed for %s: %v", userID, err)
	}

	destinations, err := fetchAll(ctx, userID)
	if err != nil {
		cached, found := rdx.CachedDestinations(userID)
		list, cachedActive, ok := StaleFallback(cached, found, today)
		if !ok {
			utils.RespondWithError(w, http.StatusServiceUnavailable, "Destinations unavailable")
			return
		}
		log.Printf("Serving mirrored destinations for %s: %v", userID, err)
		utils.RespondWithJSON(w, http.StatusOK, utils.M{
			"destinations": list,
			"active":       cachedActive,
			"stale":        true,
		})
		return
	}

	active := SelectActive(destinations, today)
	if active != nil {
		rdx.SetActiveDestination(userID, active.DestinationID)
		rdx.SetLastKnownLocation(userID, active.DestinationName)
	} else {
		rdx.ClearActiveDestination(userID)
	}
	rdx.MirrorDestinations(userID, destinations)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"destinations": destinations,
		"active":       active,
		"stale":        false,
	})
}

// POST /api/destinations
func AddDestination(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	var destination models.Destination
	if err := json.NewDecoder(r.Body).Decode(&destination); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	// Reject before any persistence call.
	if err := ValidateNew(destination, Today()); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	destination.DestinationID = utils.GetUUID()
	destination.UserID = userID
	if destination.Status == "" {
		destination.Status = models.DestinationPlanned
	}
	destination.CreatedAt = time.Now()
	destination.UpdatedAt = destination.CreatedAt

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := db.DestinationsCollection.InsertOne(ctx, destination); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save destination")
		return
	}

	userstats.IncrementDestinations(userID, 1)
	mq.Emit(ctx, "destination-created", models.Index{
		EntityType: "destination", Method: "POST", EntityId: userID, ItemId: destination.DestinationID,
	})

	utils.RespondWithJSON(w, http.StatusCreated, destination)
}

// PATCH /api/destinations/:id
// Persist-then-apply: the database write happens first and the response
// carries the re-read record. On failure the client re-loads to resync.
func UpdateDestination(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}
	destinationID := ps.ByName("id")

	var patch Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := patch.Validate(); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{"destinationid": destinationID, "user_id": userID}
	result, err := db.DestinationsCollection.UpdateOne(ctx, filter, bson.M{"$set": patch.Fields()})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update destination")
		return
	}
	if result.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Destination not found")
		return
	}

	var updated models.Destination
	if err := db.DestinationsCollection.FindOne(ctx, filter).Decode(&updated); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to read destination")
		return
	}

	mq.Emit(ctx, "destination-updated", models.Index{
		EntityType: "destination", Method: "PATCH", EntityId: userID, ItemId: destinationID,
	})

	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// DELETE /api/destinations/:id
func DeleteDestination(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}
	destinationID := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := db.DestinationsCollection.DeleteOne(ctx,
		bson.M{"destinationid": destinationID, "user_id": userID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete destination")
		return
	}
	if result.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Destination not found")
		return
	}

	if rdx.ActiveDestination(userID) == destinationID {
		rdx.ClearActiveDestination(userID)
	}

	userstats.IncrementDestinations(userID, -1)
	mq.Emit(ctx, "destination-deleted", models.Index{
		EntityType: "destination", Method: "DELETE", EntityId: userID, ItemId: destinationID,
	})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

// POST /api/destinations/:id/activate
// Demote-then-promote runs server-side in one handler so clients never
// drive the multi-step loop themselves.
func ActivateDestination(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}
	destinationID := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	all, err := fetchAll(ctx, userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	target, demote := ActivationPlan(all, destinationID)
	if target == nil {
		utils.RespondWithError(w, http.StatusNotFound, "Destination not found")
		return
	}

	now := time.Now()
	if len(demote) > 0 {
		_, err = db.DestinationsCollection.UpdateMany(ctx,
			bson.M{"user_id": userID, "destinationid": bson.M{"$in": demote}},
			bson.M{"$set": bson.M{"status": models.DestinationPlanned, "updated_at": now}},
		)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to demote active destination")
			return
		}
	}

	_, err = db.DestinationsCollection.UpdateOne(ctx,
		bson.M{"destinationid": destinationID, "user_id": userID},
		bson.M{"$set": bson.M{"status": models.DestinationActive, "updated_at": now}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to activate destination")
		return
	}

	rdx.SetActiveDestination(userID, destinationID)
	rdx.SetLastKnownLocation(userID, target.DestinationName)
	mq.Emit(ctx, "destination-activated", models.Index{
		EntityType: "destination", Method: "PATCH", EntityId: userID, ItemId: destinationID,
	})

	target.Status = models.DestinationActive
	utils.RespondWithJSON(w, http.StatusOK, target)
}

// POST /api/destinations/:id/select
// Selection is a pointer only; no status field changes.
func SelectDestination(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}
	destinationID := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var target models.Destination
	err := db.DestinationsCollection.FindOne(ctx,
		bson.M{"destinationid": destinationID, "user_id": userID}).Decode(&target)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Destination not found")
		return
	}

	rdx.SetActiveDestination(userID, destinationID)
	rdx.SetLastKnownLocation(userID, target.DestinationName)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "active": target})
}

// GET /api/destinations/eligible
func GetAlertEligible(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	destinations, err := fetchAll(ctx, userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching destinations")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, AlertEligible(destinations, Today()))
}

// GET /api/destinations/upcoming
func GetUpcoming(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	destinations, err := fetchAll(ctx, userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching destinations")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, Upcoming(destinations, Today()))
}

// ActiveForUser returns the caller's active destination, preferring the
// stored selection pointer over the precedence rules.
func ActiveForUser(ctx context.Context, userID string) (*models.Destination, error) {
	if id := rdx.ActiveDestination(userID); id != "" {
		var d models.Destination
		err := db.DestinationsCollection.FindOne(ctx,
			bson.M{"destinationid": id, "user_id": userID}).Decode(&d)
		if err == nil {
			return &d, nil
		}
		// Pointer is stale; fall through to precedence selection.
	}

	destinations, err := fetchAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	return SelectActive(destinations, Today()), nil
}

func fetchAll(ctx context.Context, userID string) ([]models.Destination, error) {
	cursor, err := db.DestinationsCollection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	destinations := []models.Destination{}
	if err := cursor.All(ctx, &destinations); err != nil {
		return nil, err
	}
	return destinations, nil
}
