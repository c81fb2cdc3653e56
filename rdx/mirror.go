package rdx

import (
	"encoding/json"
	"log"

	"tripwatch/models"
)

// Offline mirror of a user's destination list. Written as a side effect
// whenever the primary store changes; read only when Mongo is unreachable.
// Never the source of truth while the database is up.

const (
	destMirrorPrefix = "destcache:"
	activeDestPrefix = "destactive:"
	lastLocationKey  = "lastloc:"
)

// MirrorDestinations replaces the cached copy of a user's destinations.
func MirrorDestinations(userID string, destinations []models.Destination) {
	data, err := json.Marshal(destinations)
	if err != nil {
		log.Printf("Failed to marshal destination mirror for %s: %v", userID, err)
		return
	}
	if err := RdxSet(destMirrorPrefix+userID, string(data)); err != nil {
		log.Printf("Failed to write destination mirror for %s: %v", userID, err)
	}
}

// CachedDestinations returns the last mirrored destination list, if any.
func CachedDestinations(userID string) ([]models.Destination, bool) {
	raw, err := RdxGet(destMirrorPrefix + userID)
	if err != nil || raw == "" {
		return nil, false
	}
	var destinations []models.Destination
	if err := json.Unmarshal([]byte(raw), &destinations); err != nil {
		log.Printf("Corrupt destination mirror for %s: %v", userID, err)
		return nil, false
	}
	return destinations, true
}

// SetActiveDestination stores the user's selection pointer. Selection is
// local state; it never touches a destination's status field.
func SetActiveDestination(userID, destinationID string) {
	if err := RdxSet(activeDestPrefix+userID, destinationID); err != nil {
		log.Printf("Failed to store active destination for %s: %v", userID, err)
	}
}

// ActiveDestination returns the stored selection pointer, or "".
func ActiveDestination(userID string) string {
	id, err := RdxGet(activeDestPrefix + userID)
	if err != nil {
		return ""
	}
	return id
}

// ClearActiveDestination drops the selection pointer.
func ClearActiveDestination(userID string) {
	if _, err := RdxDel(activeDestPrefix + userID); err != nil {
		log.Printf("Failed to clear active destination for %s: %v", userID, err)
	}
}

// SetLastKnownLocation caches the most recent location string for a user.
func SetLastKnownLocation(userID, location string) {
	if err := RdxSet(lastLocationKey+userID, location); err != nil {
		log.Printf("Failed to store last known location for %s: %v", userID, err)
	}
}

// LastKnownLocation returns the cached location string, or "".
func LastKnownLocation(userID string) string {
	loc, err := RdxGet(lastLocationKey + userID)
	if err != nil {
		return ""
	}
	return loc
}
