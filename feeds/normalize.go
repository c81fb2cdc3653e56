package feeds

import (
	"strings"

	"tripwatch/models"
)

// Explicit per-source field mappings onto the unified Alert shape. All the
// shape knowledge about the feeds lives here and nowhere else.

// incidentSeverity maps government advisory levels to alert severities.
var incidentSeverity = map[string]string{
	"advisory": models.SeverityLow,
	"warning":  models.SeverityMedium,
	"danger":   models.SeverityHigh,
	"extreme":  models.SeverityCritical,
}

// eventSeverity maps event impact levels to alert severities.
var eventSeverity = map[string]string{
	"low":      models.SeverityLow,
	"moderate": models.SeverityMedium,
	"heavy":    models.SeverityHigh,
}

// NormalizeIncident converts a government safety incident into an Alert.
func NormalizeIncident(incident models.SafetyIncident) models.Alert {
	severity, ok := incidentSeverity[strings.ToLower(incident.Level)]
	if !ok {
		severity = models.SeverityMedium
	}

	alertType := strings.ToLower(incident.Category)
	if alertType == "" {
		alertType = "safety"
	}

	return models.Alert{
		AlertID:     "safety-" + incident.IncidentID,
		Title:       incident.Headline,
		Description: incident.Details,
		Severity:    severity,
		Location:    incident.Area,
		Timestamp:   incident.IssuedAt,
		Type:        alertType,
		Source:      incident.Agency,
		Tips:        incident.Precautions,
	}
}

// NormalizeNews converts a news item into an Alert. News carries no
// severity of its own and defaults to low.
func NormalizeNews(item models.NewsItem) models.Alert {
	alertType := strings.ToLower(item.Topic)
	if alertType == "" {
		alertType = "news"
	}

	return models.Alert{
		AlertID:     "news-" + item.ArticleID,
		Title:       item.Title,
		Description: item.Summary,
		Severity:    models.SeverityLow,
		Location:    item.Place,
		Timestamp:   item.PublishedAt,
		Type:        alertType,
		Source:      item.Outlet,
	}
}

// NormalizeEvent converts an event notice into an Alert. Large events read
// as transportation/crowding notices for travelers.
func NormalizeEvent(notice models.EventNotice) models.Alert {
	severity, ok := eventSeverity[strings.ToLower(notice.Impact)]
	if !ok {
		severity = models.SeverityLow
	}

	alertType := strings.ToLower(notice.Kind)
	if alertType == "" {
		alertType = "event"
	}

	location := notice.City
	if notice.Venue != "" {
		location = notice.Venue + ", " + notice.City
	}

	return models.Alert{
		AlertID:     "event-" + notice.EventID,
		Title:       notice.Name,
		Description: notice.Name + " at " + notice.Venue,
		Severity:    severity,
		Location:    location,
		Timestamp:   notice.StartsAt,
		Type:        alertType,
		Source:      notice.Organizer,
	}
}
