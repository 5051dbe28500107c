package company

import "context"

// Geofence is a circular boundary around the office. Punches with
// coordinates must land inside it.
type Geofence struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

// GeofenceProvider resolves a company's geofence. A nil geofence with a nil
// error means none is configured and location validation is skipped.
type GeofenceProvider interface {
	GetGeofence(ctx context.Context, companyID string) (*Geofence, error)
}
