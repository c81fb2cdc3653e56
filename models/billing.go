package models

import "time"

// Subscription period types
const (
	PeriodTrial  = "trial"
	PeriodIntro  = "intro"
	PeriodNormal = "normal"
	PeriodNone   = "none"
)

// Subscription mirrors the billing system's view of a user's premium access.
// Read-mostly; rewritten wholesale on every billing confirmation.
type Subscription struct {
	UserID      string    `json:"userid" bson:"userid"`
	ProductID   string    `json:"productId" bson:"productid"`
	ExpiresDate time.Time `json:"expiresDate" bson:"expires_date"`
	WillRenew   bool      `json:"willRenew" bson:"will_renew"`
	PeriodType  string    `json:"periodType" bson:"period_type"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}
