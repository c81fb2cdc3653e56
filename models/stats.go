package models

import "time"

// UserStats holds aggregate counters kept as a best-effort side effect of
// destination and alert mutations. Failures updating these never fail the
// primary operation.
type UserStats struct {
	UserID       string    `json:"userid" bson:"userid"`
	Destinations int       `json:"destinations" bson:"destinations"`
	AlertsRead   int       `json:"alerts_read" bson:"alerts_read"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}
