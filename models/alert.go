package models

import "time"

// Alert severities, strongest first. Feeds that only know three levels
// never emit critical; unknown values rank below low.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// Alert is the unified safety/news/event/scam notice shown to travelers,
// regardless of which feed produced it.
type Alert struct {
	AlertID     string    `json:"id" bson:"alertid"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Severity    string    `json:"severity" bson:"severity"`
	Location    string    `json:"location" bson:"location"`
	Timestamp   time.Time `json:"timestamp" bson:"timestamp"`
	Read        bool      `json:"read" bson:"-"`
	Type        string    `json:"type" bson:"type"`
	Source      string    `json:"source" bson:"source"`
	Tips        []string  `json:"tips,omitempty" bson:"tips,omitempty"`
}

// AlertRead marks an alert as read by one user.
type AlertRead struct {
	UserID  string    `json:"userid" bson:"userid"`
	AlertID string    `json:"alertid" bson:"alertid"`
	ReadAt  time.Time `json:"read_at" bson:"read_at"`
}
