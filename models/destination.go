package models

import "time"

// Destination status values. At most one destination per user is active;
// the store enforces this on activation, not the schema.
const (
	DestinationPlanned   = "planned"
	DestinationActive    = "active"
	DestinationCompleted = "completed"
	DestinationCancelled = "cancelled"
)

// Destination represents a planned trip to a place with a date range.
// Dates are calendar dates in YYYY-MM-DD form.
type Destination struct {
	DestinationID   string    `json:"id" bson:"destinationid"`
	UserID          string    `json:"user_id" bson:"user_id"`
	DestinationName string    `json:"destinationName" bson:"destination_name"`
	StartDate       string    `json:"startDate" bson:"start_date"`
	EndDate         string    `json:"endDate" bson:"end_date"`
	Status          string    `json:"status" bson:"status"`
	AlertsEnabled   bool      `json:"alertsEnabled" bson:"alerts_enabled"`
	Banner          string    `json:"banner,omitempty" bson:"banner,omitempty"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at"`
}
