package destinations

import (
	"errors"
	"testing"

	"tripwatch/models"
)

const today = "2026-05-15"

func TestValidateNewRejectsEndBeforeStart(t *testing.T) {
	bad := models.Destination{
		DestinationName: "Bangkok",
		StartDate:       "2026-06-10",
		EndDate:         "2026-06-01",
	}

	err := ValidateNew(bad, today)
	if err == nil {
		t.Fatal("expected validation error for end before start")
	}
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
}

func TestValidateNewRejectsMissingAndMalformedFields(t *testing.T) {
	cases := []struct {
		name string
		d    models.Destination
	}{
		{"missing name", models.Destination{StartDate: "2026-06-01", EndDate: "2026-06-10"}},
		{"missing dates", models.Destination{DestinationName: "Lisbon"}},
		{"bad start format", models.Destination{DestinationName: "Lisbon", StartDate: "01/06/2026", EndDate: "2026-06-10"}},
		{"bad end format", models.Destination{DestinationName: "Lisbon", StartDate: "2026-06-01", EndDate: "June 10"}},
		{"start in past", models.Destination{DestinationName: "Lisbon", StartDate: "2026-05-01", EndDate: "2026-06-10"}},
		{"zero-length trip", models.Destination{DestinationName: "Lisbon", StartDate: "2026-06-01", EndDate: "2026-06-01"}},
	}

	for _, tc := range cases {
		if err := ValidateNew(tc.d, today); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestValidateNewAcceptsFutureTrip(t *testing.T) {
	good := models.Destination{
		DestinationName: "Lisbon, Portugal",
		StartDate:       "2026-06-01",
		EndDate:         "2026-06-10",
	}
	if err := ValidateNew(good, today); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSelectActivePrefersActiveStatus(t *testing.T) {
	list := []models.Destination{
		{DestinationID: "d1", Status: models.DestinationPlanned, StartDate: "2026-05-20"},
		{DestinationID: "d2", Status: models.DestinationActive, StartDate: "2026-05-10"},
	}

	got := SelectActive(list, today)
	if got == nil || got.DestinationID != "d2" {
		t.Fatalf("expected active destination d2, got %+v", got)
	}
}

func TestSelectActiveFallsBackToEarliestUpcoming(t *testing.T) {
	list := []models.Destination{
		{DestinationID: "later", Status: models.DestinationPlanned, StartDate: "2026-07-01"},
		{DestinationID: "sooner", Status: models.DestinationPlanned, StartDate: "2026-06-01"},
		{DestinationID: "past", Status: models.DestinationCompleted, StartDate: "2026-01-01"},
	}

	got := SelectActive(list, today)
	if got == nil || got.DestinationID != "sooner" {
		t.Fatalf("expected earliest upcoming, got %+v", got)
	}
}

func TestSelectActiveFallsBackToFirst(t *testing.T) {
	list := []models.Destination{
		{DestinationID: "done", Status: models.DestinationCompleted},
		{DestinationID: "cancelled", Status: models.DestinationCancelled},
	}

	got := SelectActive(list, today)
	if got == nil || got.DestinationID != "done" {
		t.Fatalf("expected first destination, got %+v", got)
	}

	if SelectActive(nil, today) != nil {
		t.Fatal("expected nil for empty list")
	}
}

func TestShouldAutoActivate(t *testing.T) {
	inWindow := models.Destination{Status: models.DestinationPlanned, StartDate: "2026-05-10", EndDate: "2026-05-20"}
	if !ShouldAutoActivate(inWindow, today) {
		t.Fatal("planned trip containing today should auto-activate")
	}

	future := models.Destination{Status: models.DestinationPlanned, StartDate: "2026-06-01", EndDate: "2026-06-10"}
	if ShouldAutoActivate(future, today) {
		t.Fatal("future trip should not auto-activate")
	}

	completed := models.Destination{Status: models.DestinationCompleted, StartDate: "2026-05-10", EndDate: "2026-05-20"}
	if ShouldAutoActivate(completed, today) {
		t.Fatal("completed trip should never auto-activate")
	}
}

func TestAlertEligible(t *testing.T) {
	list := []models.Destination{
		{DestinationID: "on", AlertsEnabled: true, Status: models.DestinationActive, StartDate: "2026-05-10", EndDate: "2026-05-20"},
		{DestinationID: "muted", AlertsEnabled: false, Status: models.DestinationActive, StartDate: "2026-05-10", EndDate: "2026-05-20"},
		{DestinationID: "planned", AlertsEnabled: true, Status: models.DestinationPlanned, StartDate: "2026-05-10", EndDate: "2026-05-20"},
		{DestinationID: "over", AlertsEnabled: true, Status: models.DestinationActive, StartDate: "2026-05-01", EndDate: "2026-05-10"},
	}

	eligible := AlertEligible(list, today)
	if len(eligible) != 1 || eligible[0].DestinationID != "on" {
		t.Fatalf("expected only the active in-window trip with alerts on, got %+v", eligible)
	}
}

func TestUpcoming(t *testing.T) {
	list := []models.Destination{
		{DestinationID: "future", Status: models.DestinationPlanned, StartDate: "2026-06-01"},
		{DestinationID: "today", Status: models.DestinationPlanned, StartDate: today},
		{DestinationID: "active", Status: models.DestinationActive, StartDate: "2026-06-01"},
	}

	upcoming := Upcoming(list, today)
	if len(upcoming) != 1 || upcoming[0].DestinationID != "future" {
		t.Fatalf("expected only the strictly-future planned trip, got %+v", upcoming)
	}
}

func strptr(s string) *string { return &s }

func TestPatchValidate(t *testing.T) {
	if err := (Patch{DestinationName: strptr("")}).Validate(); err == nil {
		t.Error("empty name should be rejected")
	}
	if err := (Patch{StartDate: strptr("not-a-date")}).Validate(); err == nil {
		t.Error("malformed start date should be rejected")
	}
	if err := (Patch{StartDate: strptr("2026-06-10"), EndDate: strptr("2026-06-01")}).Validate(); err == nil {
		t.Error("inverted dates should be rejected")
	}
	if err := (Patch{Status: strptr("paused")}).Validate(); err == nil {
		t.Error("unknown status should be rejected")
	}
	if err := (Patch{Status: strptr(models.DestinationCompleted)}).Validate(); err != nil {
		t.Errorf("valid status rejected: %v", err)
	}
	if err := (Patch{}).Validate(); err != nil {
		t.Errorf("empty patch rejected: %v", err)
	}
}

func TestPatchApply(t *testing.T) {
	d := models.Destination{
		DestinationName: "Lisbon",
		StartDate:       "2026-06-01",
		EndDate:         "2026-06-10",
		Status:          models.DestinationPlanned,
	}
	enabled := true
	p := Patch{DestinationName: strptr("Lisbon, Portugal"), AlertsEnabled: &enabled}

	p.Apply(&d)

	if d.DestinationName != "Lisbon, Portugal" {
		t.Fatalf("name not applied: %s", d.DestinationName)
	}
	if !d.AlertsEnabled {
		t.Fatal("alertsEnabled not applied")
	}
	if d.StartDate != "2026-06-01" || d.Status != models.DestinationPlanned {
		t.Fatal("untouched fields changed")
	}
}

func TestActivationPlanDemotesEveryOtherActive(t *testing.T) {
	list := []models.Destination{
		{DestinationID: "a", Status: models.DestinationActive},
		{DestinationID: "b", Status: models.DestinationActive},
		{DestinationID: "c", Status: models.DestinationPlanned},
	}

	target, demote := ActivationPlan(list, "c")
	if target == nil || target.DestinationID != "c" {
		t.Fatalf("expected target c, got %+v", target)
	}
	if len(demote) != 2 || demote[0] != "a" || demote[1] != "b" {
		t.Fatalf("expected to demote a and b, got %v", demote)
	}

	demoted := map[string]bool{}
	for _, id := range demote {
		demoted[id] = true
	}
	activeCount := 0
	for _, d := range list {
		status := d.Status
		if demoted[d.DestinationID] {
			status = models.DestinationPlanned
		}
		if d.DestinationID == target.DestinationID {
			status = models.DestinationActive
		}
		if status == models.DestinationActive {
			activeCount++
		}
	}
	if activeCount != 1 {
		t.Fatalf("applying the plan left %d active destinations, want 1", activeCount)
	}
}

func TestActivationPlanKeepsTargetOutOfDemoteList(t *testing.T) {
	list := []models.Destination{
		{DestinationID: "a", Status: models.DestinationActive},
		{DestinationID: "b", Status: models.DestinationPlanned},
	}

	target, demote := ActivationPlan(list, "a")
	if target == nil || target.DestinationID != "a" {
		t.Fatalf("expected target a, got %+v", target)
	}
	if len(demote) != 0 {
		t.Fatalf("re-activating the active destination should demote nothing, got %v", demote)
	}
}

func TestActivationPlanUnknownTarget(t *testing.T) {
	list := []models.Destination{
		{DestinationID: "a", Status: models.DestinationActive},
	}

	target, demote := ActivationPlan(list, "missing")
	if target != nil {
		t.Fatalf("expected nil target for unknown id, got %+v", target)
	}
	if len(demote) != 1 || demote[0] != "a" {
		t.Fatalf("demote list = %v, want [a]", demote)
	}
}

func TestStaleFallbackServesMirror(t *testing.T) {
	cached := []models.Destination{
		{DestinationID: "d1", Status: models.DestinationPlanned, StartDate: "2026-06-01"},
		{DestinationID: "d2", Status: models.DestinationActive, StartDate: "2026-05-10"},
	}

	list, active, ok := StaleFallback(cached, true, today)
	if !ok {
		t.Fatal("expected the mirror to be served")
	}
	if len(list) != 2 {
		t.Fatalf("expected the full mirrored list, got %d records", len(list))
	}
	if active == nil || active.DestinationID != "d2" {
		t.Fatalf("expected active d2 from the mirror, got %+v", active)
	}
}

func TestStaleFallbackWithoutMirror(t *testing.T) {
	list, active, ok := StaleFallback(nil, false, today)
	if ok || list != nil || active != nil {
		t.Fatal("no mirror means nothing to serve")
	}
}
