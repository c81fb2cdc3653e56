package alerts

import (
	"testing"
	"time"

	"tripwatch/models"
)

func ts(day int) time.Time {
	return time.Date(2026, 5, day, 12, 0, 0, 0, time.UTC)
}

func TestRankOrdersBySeverityThenRecency(t *testing.T) {
	alerts := []models.Alert{
		{AlertID: "a", Severity: models.SeverityMedium, Timestamp: ts(25)},
		{AlertID: "b", Severity: models.SeverityHigh, Timestamp: ts(18)},
		{AlertID: "c", Severity: models.SeverityHigh, Timestamp: ts(20)},
	}

	ranked := Rank(alerts)

	want := []string{"c", "b", "a"}
	for i, id := range want {
		if ranked[i].AlertID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, ranked[i].AlertID)
		}
	}
}

func TestRankIsIdempotent(t *testing.T) {
	alerts := []models.Alert{
		{AlertID: "a", Severity: models.SeverityLow, Timestamp: ts(1)},
		{AlertID: "b", Severity: models.SeverityCritical, Timestamp: ts(2)},
		{AlertID: "c", Severity: models.SeverityMedium, Timestamp: ts(3)},
	}

	once := Rank(alerts)
	twice := Rank(once)

	for i := range once {
		if once[i].AlertID != twice[i].AlertID {
			t.Fatalf("ranking changed on second pass at %d: %s vs %s", i, once[i].AlertID, twice[i].AlertID)
		}
	}
}

func TestRankPutsUnknownSeverityLast(t *testing.T) {
	alerts := []models.Alert{
		{AlertID: "weird", Severity: "apocalyptic", Timestamp: ts(10)},
		{AlertID: "low", Severity: models.SeverityLow, Timestamp: ts(1)},
	}

	ranked := Rank(alerts)
	if ranked[len(ranked)-1].AlertID != "weird" {
		t.Fatalf("unknown severity should sort last, got order %s, %s", ranked[0].AlertID, ranked[1].AlertID)
	}
}

func TestFilterByDestinationMatchesTokens(t *testing.T) {
	paris := &models.Destination{DestinationName: "Paris, France"}
	alerts := []models.Alert{
		{AlertID: "metro", Location: "Paris Metro Line 4"},
		{AlertID: "region", Description: "Flooding across the Île-de-France, Paris region"},
		{AlertID: "berlin", Location: "Berlin Hauptbahnhof", Description: "Rail disruption in Berlin"},
	}

	matched := FilterByDestination(alerts, paris)
	if len(matched) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matched))
	}
	for _, alert := range matched {
		if alert.AlertID == "berlin" {
			t.Fatal("Berlin alert should not match Paris destination")
		}
	}
}

func TestFilterByDestinationNilReturnsEmpty(t *testing.T) {
	alerts := []models.Alert{{AlertID: "a", Location: "Anywhere"}}
	if got := FilterByDestination(alerts, nil); len(got) != 0 {
		t.Fatalf("expected empty result without a destination, got %d", len(got))
	}
}

func TestFilterByTags(t *testing.T) {
	alerts := []models.Alert{
		{AlertID: "scam", Type: "scam", Title: "Taxi overcharging"},
		{AlertID: "weather", Type: "weather", Title: "Heavy storms"},
		{AlertID: "news", Type: "news", Description: "Pickpocket scam reported downtown"},
	}

	matched := FilterByTags(alerts, []string{"scam"})
	if len(matched) != 2 {
		t.Fatalf("expected 2 matches for scam tag, got %d", len(matched))
	}

	if got := FilterByTags(alerts, nil); len(got) != len(alerts) {
		t.Fatalf("no tags should pass everything through, got %d", len(got))
	}
}

func TestFilterByPreferences(t *testing.T) {
	alerts := []models.Alert{
		{AlertID: "low", Severity: models.SeverityLow, Type: "news"},
		{AlertID: "high", Severity: models.SeverityHigh, Type: "weather"},
		{AlertID: "crit", Severity: models.SeverityCritical, Type: "scam"},
	}

	kept := FilterByPreferences(alerts, models.SeverityHigh, []string{"scam"})
	if len(kept) != 1 || kept[0].AlertID != "high" {
		t.Fatalf("expected only the high weather alert, got %+v", kept)
	}

	if got := FilterByPreferences(alerts, "", nil); len(got) != len(alerts) {
		t.Fatalf("empty preferences should keep everything, got %d", len(got))
	}
}

func TestUnreadCount(t *testing.T) {
	alerts := []models.Alert{
		{AlertID: "a", Read: true},
		{AlertID: "b"},
		{AlertID: "c"},
	}
	if got := UnreadCount(alerts); got != 2 {
		t.Fatalf("expected 2 unread, got %d", got)
	}
	if got := UnreadCount(nil); got != 0 {
		t.Fatalf("expected 0 unread for empty list, got %d", got)
	}
}

func TestForDestinationFiltersBeforeRanking(t *testing.T) {
	paris := &models.Destination{DestinationName: "Paris"}
	alerts := []models.Alert{
		{AlertID: "berlin-crit", Severity: models.SeverityCritical, Location: "Berlin", Timestamp: ts(20)},
		{AlertID: "paris-low", Severity: models.SeverityLow, Location: "Paris", Type: "news", Timestamp: ts(18)},
		{AlertID: "paris-high", Severity: models.SeverityHigh, Location: "Paris", Type: "scam", Timestamp: ts(19)},
	}

	got := ForDestination(alerts, paris, nil)
	if len(got) != 2 {
		t.Fatalf("expected 2 Paris alerts, got %d", len(got))
	}
	if got[0].AlertID != "paris-high" || got[1].AlertID != "paris-low" {
		t.Fatalf("wrong order: %s, %s", got[0].AlertID, got[1].AlertID)
	}

	tagged := ForDestination(alerts, paris, []string{"scam"})
	if len(tagged) != 1 || tagged[0].AlertID != "paris-high" {
		t.Fatalf("tag filter should leave one alert, got %+v", tagged)
	}
}

func TestFilterByTagsChecksFieldsSeparately(t *testing.T) {
	alerts := []models.Alert{
		{AlertID: "storm", Type: "weather", Title: "Heavy storms"},
	}

	if got := FilterByTags(alerts, []string{"weather heavy"}); len(got) != 0 {
		t.Fatalf("tag spanning two fields must not match, got %+v", got)
	}
	if got := FilterByTags(alerts, []string{"heavy storms"}); len(got) != 1 {
		t.Fatalf("tag inside the title should match, got %d", len(got))
	}
}

func TestUnreadCountRespectsPreferences(t *testing.T) {
	paris := &models.Destination{DestinationName: "Paris"}
	alerts := []models.Alert{
		{AlertID: "muted", Type: "scam", Severity: models.SeverityHigh, Location: "Paris"},
		{AlertID: "kept", Type: "weather", Severity: models.SeverityHigh, Location: "Paris"},
	}

	visible := ForDestination(FilterByPreferences(alerts, models.SeverityLow, []string{"scam"}), paris, nil)
	if got := UnreadCount(visible); got != 1 {
		t.Fatalf("muted alerts must not count as unread, got %d", got)
	}

	unfiltered := ForDestination(alerts, paris, nil)
	if got := UnreadCount(unfiltered); got != 2 {
		t.Fatalf("sanity: both alerts are unread before filtering, got %d", got)
	}
}
