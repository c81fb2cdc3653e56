package alerts

import (
	"sort"
	"strings"

	"tripwatch/models"
	"tripwatch/utils"
)

// severityWeight orders alerts strongest-first. Unrecognized severities get
// weight 0 and sort after everything known.
var severityWeight = map[string]int{
	models.SeverityCritical: 4,
	models.SeverityHigh:     3,
	models.SeverityMedium:   2,
	models.SeverityLow:      1,
}

// SeverityWeight exposes the ranking weight for a severity string.
func SeverityWeight(severity string) int {
	return severityWeight[strings.ToLower(severity)]
}

// FilterByDestination keeps alerts whose location or description mentions
// any comma-separated component of the destination name. Substring matching
// is the contract here: feeds and trips share no identifier, so
// "Paris, France" matches both "Paris" and "Île-de-France, Paris region".
func FilterByDestination(alerts []models.Alert, destination *models.Destination) []models.Alert {
	if destination == nil {
		return []models.Alert{}
	}

	tokens := utils.SplitTags(destination.DestinationName)
	if len(tokens) == 0 {
		return []models.Alert{}
	}

	matched := []models.Alert{}
	for _, alert := range alerts {
		location := strings.ToLower(alert.Location)
		description := strings.ToLower(alert.Description)
		for _, token := range tokens {
			if strings.Contains(location, token) || strings.Contains(description, token) {
				matched = append(matched, alert)
				break
			}
		}
	}
	return matched
}

// FilterByTags keeps alerts where any active tag appears in the alert's
// type, title, or description. Each field is checked on its own so a
// multi-word tag cannot match across field boundaries.
func FilterByTags(alerts []models.Alert, tags []string) []models.Alert {
	if len(tags) == 0 {
		return alerts
	}

	lowered := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			lowered = append(lowered, tag)
		}
	}
	if len(lowered) == 0 {
		return alerts
	}

	matched := []models.Alert{}
	for _, alert := range alerts {
		alertType := strings.ToLower(alert.Type)
		title := strings.ToLower(alert.Title)
		description := strings.ToLower(alert.Description)
		for _, tag := range lowered {
			if strings.Contains(alertType, tag) || strings.Contains(title, tag) || strings.Contains(description, tag) {
				matched = append(matched, alert)
				break
			}
		}
	}
	return matched
}

// Rank sorts alerts by severity descending, most recent first within the
// same severity. The sort is stable and idempotent.
func Rank(alerts []models.Alert) []models.Alert {
	ranked := make([]models.Alert, len(alerts))
	copy(ranked, alerts)

	sort.SliceStable(ranked, func(i, j int) bool {
		wi, wj := SeverityWeight(ranked[i].Severity), SeverityWeight(ranked[j].Severity)
		if wi != wj {
			return wi > wj
		}
		return ranked[i].Timestamp.After(ranked[j].Timestamp)
	})
	return ranked
}

// FilterByPreferences drops alerts below the user's minimum severity and
// alerts whose type the user muted. An unrecognized minimum keeps everything.
func FilterByPreferences(alerts []models.Alert, minSeverity string, mutedTypes []string) []models.Alert {
	minWeight := SeverityWeight(minSeverity)
	muted := make(map[string]bool, len(mutedTypes))
	for _, t := range mutedTypes {
		muted[strings.ToLower(strings.TrimSpace(t))] = true
	}

	kept := []models.Alert{}
	for _, alert := range alerts {
		if SeverityWeight(alert.Severity) < minWeight {
			continue
		}
		if muted[strings.ToLower(alert.Type)] {
			continue
		}
		kept = append(kept, alert)
	}
	return kept
}

// UnreadCount counts alerts not yet read.
func UnreadCount(alerts []models.Alert) int {
	count := 0
	for _, alert := range alerts {
		if !alert.Read {
			count++
		}
	}
	return count
}

// ForDestination runs the full pipeline in its fixed order: destination
// filter, then tag filter, then ranking.
func ForDestination(alerts []models.Alert, destination *models.Destination, tags []string) []models.Alert {
	return Rank(FilterByTags(FilterByDestination(alerts, destination), tags))
}
