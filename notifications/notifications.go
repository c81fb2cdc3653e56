package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tripwatch/db"
	"tripwatch/globals"
	"tripwatch/models"
	"tripwatch/mq"
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

// GET /api/notifications
// Newest first.
func GetNotifications(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := db.NotificationsCollection.Find(ctx, bson.M{"userid": userID}, opts)
	if err != nil {
		log.Printf("notification fetch failed for %s: %v", userID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch notifications")
		return
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		log.Printf("notification decode failed for %s: %v", userID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode notifications")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, notifications)
}

// GET /api/notifications/unread/count
// Counts directly against storage so the badge stays right even when the
// list endpoint was never called.
func GetUnreadCount(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	count, err := db.NotificationsCollection.CountDocuments(ctx, bson.M{"userid": userID, "is_read": false})
	if err != nil {
		log.Printf("unread count failed for %s: %v", userID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to count notifications")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"count": count})
}

// POST /api/notifications/read/:id
func MarkNotificationRead(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}
	notificationID := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.NotificationsCollection.UpdateOne(ctx,
		bson.M{"notificationid": notificationID, "userid": userID},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		log.Printf("mark notification read failed for %s: %v", notificationID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update notification")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Notification not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"id": notificationID, "isRead": true})
}

// POST /api/notifications/read-all
func MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.NotificationsCollection.UpdateMany(ctx,
		bson.M{"userid": userID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		log.Printf("mark all read failed for %s: %v", userID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update notifications")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"updated": res.ModifiedCount, "unread": 0})
}

// DELETE /api/notifications/:id
// Returns whether the removed notification was still unread so the client
// can adjust its badge without refetching the whole list.
func DeleteNotification(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}
	notificationID := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var deleted models.Notification
	err := db.NotificationsCollection.FindOneAndDelete(ctx,
		bson.M{"notificationid": notificationID, "userid": userID},
	).Decode(&deleted)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Notification not found")
		return
	}
	if err != nil {
		log.Printf("delete notification failed for %s: %v", notificationID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete notification")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"id": notificationID, "wasUnread": !deleted.IsRead})
}

// POST /api/notifications
// Trusted internal entry point used by other services and the sync worker
// to record a social event against a user.
func AddNotification(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var notification models.Notification
	if err := json.NewDecoder(r.Body).Decode(&notification); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := validateNew(notification); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	notification.NotificationID = utils.GetUUID()
	notification.IsRead = false
	notification.CreatedAt = time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := db.NotificationsCollection.InsertOne(ctx, notification); err != nil {
		log.Printf("notification insert failed for %s: %v", notification.UserID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create notification")
		return
	}

	mq.Notify("notification-created", models.Index{
		EntityType: "notification", Method: "POST", EntityId: notification.UserID, ItemId: notification.NotificationID,
	})

	utils.RespondWithJSON(w, http.StatusCreated, notification)
}

var validTypes = map[string]bool{
	models.NotificationLike:       true,
	models.NotificationComment:    true,
	models.NotificationFollow:     true,
	models.NotificationStoryShare: true,
}

func validateNew(n models.Notification) error {
	if n.UserID == "" || n.Type == "" {
		return errors.New("userId and type are required")
	}
	if !validTypes[n.Type] {
		return errors.New("unknown notification type")
	}
	return nil
}
