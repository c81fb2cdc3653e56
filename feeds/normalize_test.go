package feeds

import (
	"testing"
	"time"

	"tripwatch/models"
)

func TestNormalizeIncidentSeverityMapping(t *testing.T) {
	cases := map[string]string{
		"advisory": models.SeverityLow,
		"warning":  models.SeverityMedium,
		"danger":   models.SeverityHigh,
		"EXTREME":  models.SeverityCritical,
		"unknown":  models.SeverityMedium,
		"":         models.SeverityMedium,
	}

	for level, want := range cases {
		alert := NormalizeIncident(models.SafetyIncident{IncidentID: "1", Level: level})
		if alert.Severity != want {
			t.Errorf("level %q: expected %s, got %s", level, want, alert.Severity)
		}
	}
}

func TestNormalizeIncidentFields(t *testing.T) {
	issued := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)
	incident := models.SafetyIncident{
		IncidentID:  "42",
		Headline:    "Flash flood warning",
		Details:     "Avoid low-lying areas",
		Level:       "danger",
		Area:        "Bangkok",
		Category:    "Weather",
		Agency:      "TMD",
		IssuedAt:    issued,
		Precautions: []string{"Stay indoors"},
	}

	alert := NormalizeIncident(incident)
	if alert.AlertID != "safety-42" {
		t.Fatalf("unexpected id %s", alert.AlertID)
	}
	if alert.Type != "weather" {
		t.Fatalf("category should lowercase into type, got %s", alert.Type)
	}
	if alert.Source != "TMD" || alert.Location != "Bangkok" || !alert.Timestamp.Equal(issued) {
		t.Fatalf("fields not carried over: %+v", alert)
	}
	if len(alert.Tips) != 1 || alert.Tips[0] != "Stay indoors" {
		t.Fatalf("precautions should become tips, got %v", alert.Tips)
	}
}

func TestNormalizeNewsDefaults(t *testing.T) {
	alert := NormalizeNews(models.NewsItem{ArticleID: "7", Title: "Transit strike"})
	if alert.AlertID != "news-7" {
		t.Fatalf("unexpected id %s", alert.AlertID)
	}
	if alert.Severity != models.SeverityLow {
		t.Fatalf("news should default to low severity, got %s", alert.Severity)
	}
	if alert.Type != "news" {
		t.Fatalf("empty topic should default type to news, got %s", alert.Type)
	}
}

func TestNormalizeEventImpactAndLocation(t *testing.T) {
	notice := models.EventNotice{
		EventID: "9",
		Name:    "Street Festival",
		Venue:   "Old Town Square",
		City:    "Prague",
		Impact:  "heavy",
	}

	alert := NormalizeEvent(notice)
	if alert.AlertID != "event-9" {
		t.Fatalf("unexpected id %s", alert.AlertID)
	}
	if alert.Severity != models.SeverityHigh {
		t.Fatalf("heavy impact should map to high, got %s", alert.Severity)
	}
	if alert.Location != "Old Town Square, Prague" {
		t.Fatalf("unexpected location %s", alert.Location)
	}

	noVenue := NormalizeEvent(models.EventNotice{EventID: "10", City: "Prague", Impact: "nope"})
	if noVenue.Location != "Prague" {
		t.Fatalf("missing venue should fall back to city, got %s", noVenue.Location)
	}
	if noVenue.Severity != models.SeverityLow {
		t.Fatalf("unknown impact should default to low, got %s", noVenue.Severity)
	}
}
