package billing

import (
	"context"
	"encoding/json"
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

// CheckoutSession is a simulated checkout handoff. No real payment
// provider is contacted; the URL points at the local web frontend.
type CheckoutSession struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
}

func CreateCheckoutSession(userID, productID string) (CheckoutSession, error) {
	var s CheckoutSession
	s.URL = "http://localhost:5173/billing/" + productID
	s.SessionID = utils.GetUUID()
	s.UserID = userID
	s.ProductID = productID
	var err error
	return s, err
}

// Status is the derived premium state served to clients.
type Status struct {
	IsPremium   bool      `json:"isPremium"`
	PeriodType  string    `json:"periodType"`
	ProductID   string    `json:"productId,omitempty"`
	ExpiresDate time.Time `json:"expiresDate,omitempty"`
	WillRenew   bool      `json:"willRenew"`
}

// DeriveStatus computes premium state from the stored subscription. A nil
// or expired subscription reports period "none" and no premium access.
func DeriveStatus(sub *models.Subscription, now time.Time) Status {
	if sub == nil || sub.ExpiresDate.Before(now) {
		return Status{IsPremium: false, PeriodType: models.PeriodNone}
	}
	period := sub.PeriodType
	switch period {
	case models.PeriodTrial, models.PeriodIntro, models.PeriodNormal:
	default:
		period = models.PeriodNormal
	}
	return Status{
		IsPremium:   true,
		PeriodType:  period,
		ProductID:   sub.ProductID,
		ExpiresDate: sub.ExpiresDate,
		WillRenew:   sub.WillRenew,
	}
}

func requestUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}

// POST /api/billing/session
func CreateSession(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	var body struct {
		ProductID string `json:"productId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ProductID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "productId is required")
		return
	}

	session, err := CreateCheckoutSession(userID, body.ProductID)
	if err != nil {
		log.Printf("checkout session failed for %s: %v", userID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, session)
}

// POST /api/billing/confirm
// Rewrites the stored subscription wholesale from the confirmation payload.
func ConfirmSubscription(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	var sub models.Subscription
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if sub.ProductID == "" || sub.ExpiresDate.IsZero() {
		utils.RespondWithError(w, http.StatusBadRequest, "productId and expiresDate are required")
		return
	}
	sub.UserID = userID
	sub.UpdatedAt = time.Now()
	if sub.PeriodType == "" {
		sub.PeriodType = models.PeriodNormal
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	_, err := db.SubscriptionsCollection.ReplaceOne(ctx,
		bson.M{"userid": userID}, sub, options.Replace().SetUpsert(true))
	if err != nil {
		log.Printf("subscription upsert failed for %s: %v", userID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to store subscription")
		return
	}

	mq.Notify("subscription-updated", models.Index{
		EntityType: "subscription", Method: "PUT", EntityId: userID, ItemId: sub.ProductID,
	})

	utils.RespondWithJSON(w, http.StatusOK, DeriveStatus(&sub, time.Now()))
}

// GET /api/billing/status
func GetStatus(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var sub models.Subscription
	err := db.SubscriptionsCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&sub)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithJSON(w, http.StatusOK, DeriveStatus(nil, time.Now()))
		return
	}
	if err != nil {
		log.Printf("subscription fetch failed for %s: %v", userID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch subscription")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, DeriveStatus(&sub, time.Now()))
}
