package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"tripwatch/models"
)

// Each feed is an external black box reached over HTTPS. When no URL is
// configured the simulated source in sample.go answers instead, the same
// way the checkout flow is simulated in billing.

var feedClient = &http.Client{Timeout: 8 * time.Second}

func fetchJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := feedClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("feed returned %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// FetchSafety pulls government safety incidents for a location.
func FetchSafety(ctx context.Context, location string) ([]models.SafetyIncident, error) {
	base := os.Getenv("SAFETY_FEED_URL")
	if base == "" {
		return sampleIncidents(location), nil
	}

	var incidents []models.SafetyIncident
	err := fetchJSON(ctx, base+"?area="+url.QueryEscape(location), &incidents)
	return incidents, err
}

// FetchNews pulls recent news items for a location.
func FetchNews(ctx context.Context, location string) ([]models.NewsItem, error) {
	base := os.Getenv("NEWS_FEED_URL")
	if base == "" {
		return sampleNews(location), nil
	}

	var items []models.NewsItem
	err := fetchJSON(ctx, base+"?place="+url.QueryEscape(location), &items)
	return items, err
}

// FetchEvents pulls local event notices for a location.
func FetchEvents(ctx context.Context, location string) ([]models.EventNotice, error) {
	base := os.Getenv("EVENTS_FEED_URL")
	if base == "" {
		return sampleEvents(location), nil
	}

	var notices []models.EventNotice
	err := fetchJSON(ctx, base+"?city="+url.QueryEscape(location), &notices)
	return notices, err
}

// FetchAll gathers every source for a location and normalizes the results
// onto the unified Alert model. Individual source failures are logged and
// skipped; an error comes back only when every source failed.
func FetchAll(ctx context.Context, location string) ([]models.Alert, error) {
	alerts := []models.Alert{}
	failures := 0

	incidents, err := FetchSafety(ctx, location)
	if err != nil {
		log.Printf("Safety feed fetch failed for %q: %v", location, err)
		failures++
	}
	for _, incident := range incidents {
		alerts = append(alerts, NormalizeIncident(incident))
	}

	news, err := FetchNews(ctx, location)
	if err != nil {
		log.Printf("News feed fetch failed for %q: %v", location, err)
		failures++
	}
	for _, item := range news {
		alerts = append(alerts, NormalizeNews(item))
	}

	events, err := FetchEvents(ctx, location)
	if err != nil {
		log.Printf("Events feed fetch failed for %q: %v", location, err)
		failures++
	}
	for _, notice := range events {
		alerts = append(alerts, NormalizeEvent(notice))
	}

	if failures == 3 {
		return nil, fmt.Errorf("all alert feeds failed for %q", location)
	}
	return alerts, nil
}
