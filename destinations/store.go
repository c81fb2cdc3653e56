package destinations

import (
	"time"

	"tripwatch/models"

	"go.mongodb.org/mongo-driver/bson"
)

// DateLayout is the calendar-date form used across the API. Dates in this
// layout compare correctly as plain strings.
const DateLayout = "2006-01-02"

// ValidationError reports client-detected bad input. It never reaches the
// persistence layer; handlers map it to 400.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return e.Reason
}

// Today returns the current calendar date string.
func Today() string {
	return time.Now().Format(DateLayout)
}

// ValidateNew checks a destination payload before it is ever persisted.
func ValidateNew(d models.Destination, today string) error {
	if d.DestinationName == "" {
		return ValidationError{"destinationName is required"}
	}
	if d.StartDate == "" || d.EndDate == "" {
		return ValidationError{"startDate and endDate are required"}
	}
	if _, err := time.Parse(DateLayout, d.StartDate); err != nil {
		return ValidationError{"startDate must be a YYYY-MM-DD date"}
	}
	if _, err := time.Parse(DateLayout, d.EndDate); err != nil {
		return ValidationError{"endDate must be a YYYY-MM-DD date"}
	}
	if d.StartDate >= d.EndDate {
		return ValidationError{"endDate must be after startDate"}
	}
	if d.StartDate < today {
		return ValidationError{"startDate cannot be in the past"}
	}
	return nil
}

// SelectActive picks the destination the UI should treat as current:
// an already-active one, else the earliest upcoming planned one, else the
// first in list order. Returns nil for an empty list.
func SelectActive(destinations []models.Destination, today string) *models.Destination {
	if len(destinations) == 0 {
		return nil
	}

	for i := range destinations {
		if destinations[i].Status == models.DestinationActive {
			return &destinations[i]
		}
	}

	var candidate *models.Destination
	for i := range destinations {
		d := &destinations[i]
		if d.Status != models.DestinationPlanned || d.StartDate < today {
			continue
		}
		if candidate == nil || d.StartDate < candidate.StartDate {
			candidate = d
		}
	}
	if candidate != nil {
		return candidate
	}

	return &destinations[0]
}

// ActivationPlan computes the status changes that make the target the only
// active destination: every other currently-active record is demoted. A nil
// target means the id is not in the list.
func ActivationPlan(destinations []models.Destination, targetID string) (target *models.Destination, demote []string) {
	demote = []string{}
	for i := range destinations {
		d := &destinations[i]
		if d.DestinationID == targetID {
			target = d
			continue
		}
		if d.Status == models.DestinationActive {
			demote = append(demote, d.DestinationID)
		}
	}
	return target, demote
}

// StaleFallback pairs a mirrored destination list with its selected active
// record for serving while the primary store is unavailable. ok is false
// when no mirror exists, meaning there is nothing left to serve.
func StaleFallback(cached []models.Destination, found bool, today string) ([]models.Destination, *models.Destination, bool) {
	if !found {
		return nil, nil, false
	}
	return cached, SelectActive(cached, today), true
}

// ShouldAutoActivate reports whether a planned destination's date range
// contains today. Used on every load to promote trips that have started.
func ShouldAutoActivate(d models.Destination, today string) bool {
	return d.Status == models.DestinationPlanned && d.StartDate <= today && today <= d.EndDate
}

// autoActivateFilter matches every destination ShouldAutoActivate would.
func autoActivateFilter(userID, today string) bson.M {
	return bson.M{
		"user_id":    userID,
		"status":     models.DestinationPlanned,
		"start_date": bson.M{"$lte": today},
		"end_date":   bson.M{"$gte": today},
	}
}

// AlertEligible filters destinations that should surface alerts right now:
// alerts on, status active, today inside the trip window.
func AlertEligible(destinations []models.Destination, today string) []models.Destination {
	eligible := []models.Destination{}
	for _, d := range destinations {
		if d.AlertsEnabled && d.Status == models.DestinationActive &&
			d.StartDate <= today && today <= d.EndDate {
			eligible = append(eligible, d)
		}
	}
	return eligible
}

// Upcoming filters planned destinations that start after today.
func Upcoming(destinations []models.Destination, today string) []models.Destination {
	upcoming := []models.Destination{}
	for _, d := range destinations {
		if d.Status == models.DestinationPlanned && d.StartDate > today {
			upcoming = append(upcoming, d)
		}
	}
	return upcoming
}

// Patch is a partial destination update. Nil fields are left untouched.
type Patch struct {
	DestinationName *string `json:"destinationName"`
	StartDate       *string `json:"startDate"`
	EndDate         *string `json:"endDate"`
	Status          *string `json:"status"`
	AlertsEnabled   *bool   `json:"alertsEnabled"`
}

var validStatuses = map[string]bool{
	models.DestinationPlanned:   true,
	models.DestinationActive:    true,
	models.DestinationCompleted: true,
	models.DestinationCancelled: true,
}

// Validate rejects patches that would corrupt a record.
func (p Patch) Validate() error {
	if p.DestinationName != nil && *p.DestinationName == "" {
		return ValidationError{"destinationName cannot be empty"}
	}
	if p.StartDate != nil {
		if _, err := time.Parse(DateLayout, *p.StartDate); err != nil {
			return ValidationError{"startDate must be a YYYY-MM-DD date"}
		}
	}
	if p.EndDate != nil {
		if _, err := time.Parse(DateLayout, *p.EndDate); err != nil {
			return ValidationError{"endDate must be a YYYY-MM-DD date"}
		}
	}
	if p.StartDate != nil && p.EndDate != nil && *p.StartDate >= *p.EndDate {
		return ValidationError{"endDate must be after startDate"}
	}
	if p.Status != nil && !validStatuses[*p.Status] {
		return ValidationError{"unknown status"}
	}
	return nil
}

// Fields builds the $set document for the patch.
func (p Patch) Fields() bson.M {
	set := bson.M{"updated_at": time.Now()}
	if p.DestinationName != nil {
		set["destination_name"] = *p.DestinationName
	}
	if p.StartDate != nil {
		set["start_date"] = *p.StartDate
	}
	if p.EndDate != nil {
		set["end_date"] = *p.EndDate
	}
	if p.Status != nil {
		set["status"] = *p.Status
	}
	if p.AlertsEnabled != nil {
		set["alerts_enabled"] = *p.AlertsEnabled
	}
	return set
}

// Apply mirrors the patch onto an in-memory copy.
func (p Patch) Apply(d *models.Destination) {
	if p.DestinationName != nil {
		d.DestinationName = *p.DestinationName
	}
	if p.StartDate != nil {
		d.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		d.EndDate = *p.EndDate
	}
	if p.Status != nil {
		d.Status = *p.Status
	}
	if p.AlertsEnabled != nil {
		d.AlertsEnabled = *p.AlertsEnabled
	}
	d.UpdatedAt = time.Now()
}
