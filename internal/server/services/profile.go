package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/krishirakshak/krishirakshak/internal/common"
	"github.com/krishirakshak/krishirakshak/internal/logging"
	"github.com/krishirakshak/krishirakshak/internal/server/models"
	"github.com/krishirakshak/krishirakshak/internal/server/repositories/repomanager"
)

// Seasons accepted in a farm profile.
var Seasons = []string{"Kharif", "Rabi", "Zaid", "All"}

// ProfileService stores each user's farm profile.
type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	now         func() time.Time
}

func NewProfileService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *ProfileService {
	return &ProfileService{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "profile_service"),
		now:         time.Now,
	}
}

// SaveLocation creates or updates the location columns of the profile.
func (s *ProfileService) SaveLocation(ctx context.Context, userID int64, loc models.Location) error {
	if err := validateLocation(loc); err != nil {
		return err
	}
	if err := s.repomanager.Profiles(s.db).UpsertLocation(ctx, userID, loc, s.now().UTC()); err != nil {
		s.logger.Error(ctx, "save location", "user_id", userID, "error", err)
		return common.ErrorInternal
	}
	return nil
}

// SaveSoilFarm creates or updates the soil and farm columns of the profile.
// Omitted fields are stored as NULL.
func (s *ProfileService) SaveSoilFarm(ctx context.Context, userID int64, d models.SoilFarmDetails) error {
	if err := validateSoilFarm(d); err != nil {
		return err
	}
	if err := s.repomanager.Profiles(s.db).UpsertSoilFarm(ctx, userID, d, s.now().UTC()); err != nil {
		s.logger.Error(ctx, "save soil details", "user_id", userID, "error", err)
		return common.ErrorInternal
	}
	return nil
}

// Get returns the stored profile, or nil when the user has none yet.
func (s *ProfileService) Get(ctx context.Context, userID int64) (*models.FarmProfile, error) {
	p, err := s.repomanager.Profiles(s.db).Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		s.logger.Error(ctx, "load profile", "user_id", userID, "error", err)
		return nil, common.ErrorInternal
	}
	return p, nil
}

func validateLocation(loc models.Location) error {
	if !isFinite(loc.Latitude) || !isFinite(loc.Longitude) {
		return fmt.Errorf("%w: latitude and longitude must be numbers", common.ErrorValidation)
	}
	return nil
}

func validateSoilFarm(d models.SoilFarmDetails) error {
	if d.PH != nil && (!isFinite(*d.PH) || *d.PH < 0 || *d.PH > 14) {
		return fmt.Errorf("%w: ph must be between 0 and 14", common.ErrorValidation)
	}
	for _, f := range []struct {
		name string
		v    *float64
	}{
		{"nitrogen", d.Nitrogen},
		{"phosphorus", d.Phosphorus},
		{"potassium", d.Potassium},
		{"farm_size_acres", d.FarmSizeAcres},
	} {
		if f.v != nil && (!isFinite(*f.v) || *f.v < 0) {
			return fmt.Errorf("%w: %s must be >= 0", common.ErrorValidation, f.name)
		}
	}
	if d.Season != nil {
		ok := false
		for _, s := range Seasons {
			if *d.Season == s {
				ok = true
			}
		}
		if !ok {
			return fmt.Errorf("%w: season must be one of Kharif, Rabi, Zaid, All", common.ErrorValidation)
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
