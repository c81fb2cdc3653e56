package billing

import (
	"testing"
	"time"

	"tripwatch/models"
)

func TestDeriveStatusNoSubscription(t *testing.T) {
	status := DeriveStatus(nil, time.Now())
	if status.IsPremium {
		t.Fatal("missing subscription should not be premium")
	}
	if status.PeriodType != models.PeriodNone {
		t.Fatalf("expected period none, got %s", status.PeriodType)
	}
}

func TestDeriveStatusExpired(t *testing.T) {
	now := time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC)
	sub := &models.Subscription{
		ProductID:   "premium_yearly",
		ExpiresDate: now.Add(-time.Hour),
		PeriodType:  models.PeriodNormal,
	}

	status := DeriveStatus(sub, now)
	if status.IsPremium {
		t.Fatal("expired subscription should not be premium")
	}
	if status.PeriodType != models.PeriodNone {
		t.Fatalf("expected period none, got %s", status.PeriodType)
	}
}

func TestDeriveStatusActive(t *testing.T) {
	now := time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC)
	sub := &models.Subscription{
		ProductID:   "premium_trial",
		ExpiresDate: now.Add(72 * time.Hour),
		PeriodType:  models.PeriodTrial,
		WillRenew:   true,
	}

	status := DeriveStatus(sub, now)
	if !status.IsPremium {
		t.Fatal("unexpired subscription should be premium")
	}
	if status.PeriodType != models.PeriodTrial || !status.WillRenew {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestDeriveStatusUnknownPeriodFallsBackToNormal(t *testing.T) {
	now := time.Now()
	sub := &models.Subscription{
		ProductID:   "premium_monthly",
		ExpiresDate: now.Add(time.Hour),
		PeriodType:  "grandfathered",
	}

	status := DeriveStatus(sub, now)
	if status.PeriodType != models.PeriodNormal {
		t.Fatalf("expected fallback to normal, got %s", status.PeriodType)
	}
}
