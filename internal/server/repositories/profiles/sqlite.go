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

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, userID int64) (*models.FarmProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM farm_profiles WHERE user_id = ?`

	var lastUpdated string
	p, err := scanProfile(r.db.QueryRowContext(ctx, query, userID), &lastUpdated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	p.LastUpdated, err = time.Parse(time.RFC3339Nano, lastUpdated)
	if err != nil {
		return nil, fmt.Errorf("db error: bad last_updated %q: %w", lastUpdated, err)
	}

	return p, nil
}

func (r *SQLiteRepository) UpsertLocation(ctx context.Context, userID int64, loc models.Location, at time.Time) error {
	query := `
		INSERT INTO farm_profiles (user_id, latitude, longitude, location_name, last_updated)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			location_name = excluded.location_name,
			last_updated = excluded.last_updated`

	_, err := r.db.ExecContext(ctx, query,
		userID, loc.Latitude, loc.Longitude, loc.LocationName, at.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpsertSoilFarm(ctx context.Context, userID int64, d models.SoilFarmDetails, at time.Time) error {
	query := `
		INSERT INTO farm_profiles (user_id, soil_type, ph, nitrogen, phosphorus, potassium,
			farm_size_acres, irrigation_type, season, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			soil_type = excluded.soil_type,
			ph = excluded.ph,
			nitrogen = excluded.nitrogen,
			phosphorus = excluded.phosphorus,
			potassium = excluded.potassium,
			farm_size_acres = excluded.farm_size_acres,
			irrigation_type = excluded.irrigation_type,
			season = excluded.season,
			last_updated = excluded.last_updated`

	_, err := r.db.ExecContext(ctx, query,
		userID, d.SoilType, d.PH, d.Nitrogen, d.Phosphorus, d.Potassium,
		d.FarmSizeAcres, d.IrrigationType, d.Season, at.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
