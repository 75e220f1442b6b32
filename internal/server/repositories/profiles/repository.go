// Package profiles stores one farm profile per user, keyed by user id.
package profiles

import (
	"context"
	"time"

	"github.com/krishirakshak/krishirakshak/internal/server/models"
)

// Repository persists farm profiles. The two upserts touch disjoint columns,
// so saving the location never clears soil details and vice versa.
type Repository interface {
	Get(ctx context.Context, userID int64) (*models.FarmProfile, error)
	UpsertLocation(ctx context.Context, userID int64, loc models.Location, at time.Time) error
	UpsertSoilFarm(ctx context.Context, userID int64, d models.SoilFarmDetails, at time.Time) error
}

const profileColumns = `id, user_id, latitude, longitude, location_name, soil_type, ph,
		nitrogen, phosphorus, potassium, farm_size_acres, irrigation_type, season, last_updated`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanProfile reads profileColumns into a FarmProfile. lastUpdated receives
// the driver-specific representation of the timestamp column.
func scanProfile(row rowScanner, lastUpdated any) (*models.FarmProfile, error) {
	p := &models.FarmProfile{}
	err := row.Scan(
		&p.ID, &p.UserID, &p.Latitude, &p.Longitude, &p.LocationName,
		&p.SoilType, &p.PH, &p.Nitrogen, &p.Phosphorus, &p.Potassium,
		&p.FarmSizeAcres, &p.IrrigationType, &p.Season, lastUpdated,
	)
	return p, err
}
