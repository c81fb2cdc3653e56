package settings

import (
	"context"
	"encoding/json"
	"net/http"

	"tripwatch/db"
	"tripwatch/globals"
	"tripwatch/models"
	"tripwatch/mq"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserSettings represents notification preferences
type UserSettings struct {
	UserID          string   `json:"userID,omitempty" bson:"userID"`
	AlertsEnabled   bool     `json:"alerts_enabled" bson:"alerts_enabled"`
	MinSeverity     string   `json:"min_severity" bson:"min_severity"`
	MutedTypes      []string `json:"muted_types" bson:"muted_types"`
	QuietHoursStart string   `json:"quiet_hours_start" bson:"quiet_hours_start"`
	QuietHoursEnd   string   `json:"quiet_hours_end" bson:"quiet_hours_end"`
	Language        string   `json:"language" bson:"language"`
	TimeZone        string   `json:"time_zone" bson:"time_zone"`
}

// Default settings if user settings don't exist
func getDefaultSettings(userID string) UserSettings {
	return UserSettings{
		UserID:          userID,
		AlertsEnabled:   true,
		MinSeverity:     models.SeverityLow,
		MutedTypes:      []string{},
		QuietHoursStart: "22:00",
		QuietHoursEnd:   "07:00",
		Language:        "english",
		TimeZone:        "UTC",
	}
}

// ForUser returns the stored settings, falling back to defaults.
func ForUser(ctx context.Context, userID string) UserSettings {
	var userSettings UserSettings
	err := db.SettingsCollection.FindOne(ctx, bson.M{"userID": userID}).Decode(&userSettings)
	if err != nil {
		return getDefaultSettings(userID)
	}
	return userSettings
}

// Fetch user settings as an array (frontend expects this format)
func GetUserSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := r.Context().Value(globals.UserIDKey).(string)

	var userSettings UserSettings
	err := db.SettingsCollection.FindOne(context.TODO(), bson.M{"userID": userID}).Decode(&userSettings)
	if err == mongo.ErrNoDocuments {
		// Initialize settings if missing
		userSettings = getDefaultSettings(userID)
		_, _ = db.SettingsCollection.InsertOne(context.TODO(), userSettings)
	} else if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	settingsArray := []map[string]any{
		{"type": "alerts_enabled", "value": userSettings.AlertsEnabled, "description": "Receive safety alerts"},
		{"type": "min_severity", "value": userSettings.MinSeverity, "description": "Minimum alert severity"},
		{"type": "muted_types", "value": userSettings.MutedTypes, "description": "Muted alert categories"},
		{"type": "quiet_hours_start", "value": userSettings.QuietHoursStart, "description": "Start of quiet hours"},
		{"type": "quiet_hours_end", "value": userSettings.QuietHoursEnd, "description": "End of quiet hours"},
		{"type": "language", "value": userSettings.Language, "description": "Select language"},
		{"type": "time_zone", "value": userSettings.TimeZone, "description": "Select time zone"},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(settingsArray)
}

var validSettings = map[string]bool{
	"alerts_enabled":    true,
	"min_severity":      true,
	"muted_types":       true,
	"quiet_hours_start": true,
	"quiet_hours_end":   true,
	"language":          true,
	"time_zone":         true,
}

// upsertDoc builds the per-setting update. A first-time writer gets the
// full default document seeded alongside the updated field, so later reads
// never decode a partial record with zero-value fields.
func upsertDoc(userID, settingType string, value any) bson.M {
	defaults := getDefaultSettings(userID)
	seed := bson.M{
		"alerts_enabled":    defaults.AlertsEnabled,
		"min_severity":      defaults.MinSeverity,
		"muted_types":       defaults.MutedTypes,
		"quiet_hours_start": defaults.QuietHoursStart,
		"quiet_hours_end":   defaults.QuietHoursEnd,
		"language":          defaults.Language,
		"time_zone":         defaults.TimeZone,
	}
	// Mongo rejects updates where $set and $setOnInsert share a path.
	delete(seed, settingType)
	return bson.M{
		"$set":         bson.M{settingType: value},
		"$setOnInsert": seed,
	}
}

// Update a specific user setting
func UpdateUserSetting(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := r.Context().Value(globals.UserIDKey).(string)
	settingType := ps.ByName("type")

	if !validSettings[settingType] {
		http.Error(w, "Invalid setting type", http.StatusBadRequest)
		return
	}

	var update struct {
		Value any `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	filter := bson.M{"userID": userID}
	updateDoc := upsertDoc(userID, settingType, update.Value)

	opts := options.Update().SetUpsert(true)
	_, err := db.SettingsCollection.UpdateOne(context.TODO(), filter, updateDoc, opts)
	if err != nil {
		http.Error(w, "Failed to update setting", http.StatusInternalServerError)
		return
	}

	mq.Notify("settings-updated", models.Index{EntityType: "settings", EntityId: userID})

	response := map[string]any{
		"status":  "success",
		"message": "Setting updated successfully",
		"type":    settingType,
		"value":   update.Value,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Initialize user settings if they don't exist
func InitUserSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := r.Context().Value(globals.UserIDKey).(string)

	var existingSettings UserSettings
	err := db.SettingsCollection.FindOne(context.TODO(), bson.M{"userID": userID}).Decode(&existingSettings)
	if err == mongo.ErrNoDocuments {
		newSettings := getDefaultSettings(userID)
		_, err := db.SettingsCollection.InsertOne(context.TODO(), newSettings)
		if err != nil {
			http.Error(w, "Failed to initialize settings", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(true)
		return
	} else if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(false)
}
