package feeds

import (
	"time"

	"tripwatch/models"
)

// Simulated feed data used when no feed URL is configured, mirroring the
// simulated checkout sessions in billing. Enough shape variety to exercise
// every normalization path during local development.

func sampleIncidents(location string) []models.SafetyIncident {
	now := time.Now()
	return []models.SafetyIncident{
		{
			IncidentID:  "sim-001",
			Headline:    "Pickpocketing reported near central station",
			Details:     "Multiple reports of pickpocketing targeting tourists in " + location,
			Level:       "warning",
			Area:        location,
			Category:    "scam",
			Agency:      "Local Police",
			IssuedAt:    now.Add(-2 * time.Hour),
			Precautions: []string{"Keep valuables out of sight", "Use front pockets or money belts"},
		},
		{
			IncidentID: "sim-002",
			Headline:   "Severe weather advisory",
			Details:    "Heavy rain and strong winds expected in " + location,
			Level:      "danger",
			Area:       location,
			Category:   "weather",
			Agency:     "National Weather Service",
			IssuedAt:   now.Add(-30 * time.Minute),
		},
	}
}

func sampleNews(location string) []models.NewsItem {
	return []models.NewsItem{
		{
			ArticleID:   "sim-101",
			Title:       "Transit workers announce strike",
			Summary:     "Public transport disruptions expected across " + location + " this week",
			Place:       location,
			Topic:       "transportation",
			Outlet:      "City Herald",
			PublishedAt: time.Now().Add(-6 * time.Hour),
		},
	}
}

func sampleEvents(location string) []models.EventNotice {
	return []models.EventNotice{
		{
			EventID:   "sim-201",
			Name:      "Street Festival",
			Venue:     "Old Town Square",
			City:      location,
			Kind:      "festival",
			Organizer: "City Council",
			Impact:    "moderate",
			StartsAt:  time.Now().Add(24 * time.Hour),
		},
	}
}
