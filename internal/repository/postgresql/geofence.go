package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/DurgarajC07/hrms-saas/internal/domain/company"
	"github.com/DurgarajC07/hrms-saas/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// geofenceProvider reads a company's office geofence, falling back to the
// deployment-wide default when the company has none configured. A nil
// fallback means location validation is optional.
type geofenceProvider struct {
	db       *database.DB
	fallback *company.Geofence
}

func NewGeofenceProvider(db *database.DB, fallback *company.Geofence) company.GeofenceProvider {
	return &geofenceProvider{db: db, fallback: fallback}
}

// GetGeofence implements company.GeofenceProvider.
func (g *geofenceProvider) GetGeofence(ctx context.Context, companyID string) (*company.Geofence, error) {
	q := GetQuerier(ctx, g.db)

	query := `
		SELECT office_latitude, office_longitude, punch_radius_meters
		FROM companies
		WHERE id = $1
	`

	var lat, lng, radius *float64
	err := q.QueryRow(ctx, query, companyID).Scan(&lat, &lng, &radius)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return g.fallback, nil
		}
		return nil, fmt.Errorf("failed to get company geofence: %w", err)
	}

	if lat == nil || lng == nil || radius == nil || *radius <= 0 {
		return g.fallback, nil
	}

	return &company.Geofence{
		Latitude:     *lat,
		Longitude:    *lng,
		RadiusMeters: *radius,
	}, nil
}
