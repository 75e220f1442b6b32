package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/krishirakshak/krishirakshak/internal/common"
	"github.com/krishirakshak/krishirakshak/internal/dbx"
	"github.com/krishirakshak/krishirakshak/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID int64) (*models.FarmProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM farm_profiles WHERE user_id = $1`

	var lastUpdated time.Time
	p, err := scanProfile(r.db.QueryRowContext(ctx, query, userID), &lastUpdated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	p.LastUpdated = lastUpdated

	return p, nil
}

func (r *PostgresRepository) UpsertLocation(ctx context.Context, userID int64, loc models.Location, at time.Time) error {
	query := `
		INSERT INTO farm_profiles (user_id, latitude, longitude, location_name, last_updated)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			location_name = EXCLUDED.location_name,
			last_updated = EXCLUDED.last_updated`

	_, err := r.db.ExecContext(ctx, query, userID, loc.Latitude, loc.Longitude, loc.LocationName, at)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpsertSoilFarm(ctx context.Context, userID int64, d models.SoilFarmDetails, at time.Time) error {
	query := `
		INSERT INTO farm_profiles (user_id, soil_type, ph, nitrogen, phosphorus, potassium,
			farm_size_acres, irrigation_type, season, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id) DO UPDATE SET
			soil_type = EXCLUDED.soil_type,
			ph = EXCLUDED.ph,
			nitrogen = EXCLUDED.nitrogen,
			phosphorus = EXCLUDED.phosphorus,
			potassium = EXCLUDED.potassium,
			farm_size_acres = EXCLUDED.farm_size_acres,
			irrigation_type = EXCLUDED.irrigation_type,
			season = EXCLUDED.season,
			last_updated = EXCLUDED.last_updated`

	_, err := r.db.ExecContext(ctx, query,
		userID, d.SoilType, d.PH, d.Nitrogen, d.Phosphorus, d.Potassium,
		d.FarmSizeAcres, d.IrrigationType, d.Season, at)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
