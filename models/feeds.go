package models

import "time"

// Raw records returned by the external feed services, one shape per source.
// The alerts package normalizes all of these onto the unified Alert model.

// SafetyIncident comes from the government safety feed.
type SafetyIncident struct {
	IncidentID  string    `json:"incident_id"`
	Headline    string    `json:"headline"`
	Details     string    `json:"details"`
	Level       string    `json:"level"` // advisory | warning | danger | extreme
	Area        string    `json:"area"`
	Category    string    `json:"category"`
	Agency      string    `json:"agency"`
	IssuedAt    time.Time `json:"issued_at"`
	Precautions []string  `json:"precautions,omitempty"`
}

// NewsItem comes from the news feed.
type NewsItem struct {
	ArticleID   string    `json:"article_id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Place       string    `json:"place"`
	Topic       string    `json:"topic"`
	Outlet      string    `json:"outlet"`
	PublishedAt time.Time `json:"published_at"`
}

// EventNotice comes from the local-events feed.
type EventNotice struct {
	EventID   string    `json:"event_id"`
	Name      string    `json:"name"`
	Venue     string    `json:"venue"`
	City      string    `json:"city"`
	Kind      string    `json:"kind"`
	Organizer string    `json:"organizer"`
	Impact    string    `json:"impact"` // low | moderate | heavy
	StartsAt  time.Time `json:"starts_at"`
}

// Index represents a sync event published over Redis.
type Index struct {
	EntityType string `json:"entity_type"`
	Method     string `json:"method"`
	EntityId   string `json:"entity_id"`
	ItemId     string `json:"item_id"`
	ItemType   string `json:"item_type"`
}
