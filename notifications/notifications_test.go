package notifications

import (
	"testing"

	"tripwatch/models"
)

func TestValidateNew(t *testing.T) {
	good := models.Notification{UserID: "u1", Type: models.NotificationLike}
	if err := validateNew(good); err != nil {
		t.Fatalf("valid notification rejected: %v", err)
	}

	if err := validateNew(models.Notification{Type: models.NotificationLike}); err == nil {
		t.Error("missing userId should be rejected")
	}
	if err := validateNew(models.Notification{UserID: "u1"}); err == nil {
		t.Error("missing type should be rejected")
	}
	if err := validateNew(models.Notification{UserID: "u1", Type: "poke"}); err == nil {
		t.Error("unknown type should be rejected")
	}
}

func TestAllNotificationTypesAreValid(t *testing.T) {
	for _, typ := range []string{
		models.NotificationLike,
		models.NotificationComment,
		models.NotificationFollow,
		models.NotificationStoryShare,
	} {
		if err := validateNew(models.Notification{UserID: "u1", Type: typ}); err != nil {
			t.Errorf("type %s rejected: %v", typ, err)
		}
	}
}
