package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krishirakshak/krishirakshak/internal/common"
	"github.com/krishirakshak/krishirakshak/internal/logging"
	"github.com/krishirakshak/krishirakshak/internal/server/models"
)

func TestProfileService_SaveAndGet(t *testing.T) {
	db, rm := newSQLiteDB(t)
	ctx := context.Background()

	res, err := newTestUserService(db, rm).Register(ctx, "a@b.in", "Ravi", "secret1")
	require.NoError(t, err)
	uid := res.User.UserID

	s := NewProfileService(db, rm, logging.Nop())

	p, err := s.Get(ctx, uid)
	require.NoError(t, err)
	assert.Nil(t, p)

	require.NoError(t, s.SaveLocation(ctx, uid, models.Location{Latitude: 28.6, Longitude: 77.2, LocationName: sp("Delhi")}))
	require.NoError(t, s.SaveSoilFarm(ctx, uid, models.SoilFarmDetails{PH: fp(6.8), Season: sp("Rabi")}))

	p, err = s.Get(ctx, uid)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 28.6, *p.Latitude)
	assert.Equal(t, "Delhi", *p.LocationName)
	assert.Equal(t, 6.8, *p.PH)
	assert.Equal(t, "Rabi", *p.Season)
	assert.Nil(t, p.Nitrogen)
}

func TestProfileService_Validation(t *testing.T) {
	tests := []struct {
		name string
		d    models.SoilFarmDetails
	}{
		{"ph below zero", models.SoilFarmDetails{PH: fp(-0.1)}},
		{"ph above 14", models.SoilFarmDetails{PH: fp(14.01)}},
		{"ph NaN", models.SoilFarmDetails{PH: fp(math.NaN())}},
		{"negative nitrogen", models.SoilFarmDetails{Nitrogen: fp(-1)}},
		{"negative size", models.SoilFarmDetails{FarmSizeAcres: fp(-3)}},
		{"unknown season", models.SoilFarmDetails{Season: sp("kharif")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewProfileService(nil, &fakeRepoManager{p: &fakeProfilesRepo{}}, logging.Nop())
			assert.ErrorIs(t, s.SaveSoilFarm(context.Background(), 1, tt.d), common.ErrorValidation)
		})
	}

	s := NewProfileService(nil, &fakeRepoManager{p: &fakeProfilesRepo{}}, logging.Nop())
	assert.NoError(t, s.SaveSoilFarm(context.Background(), 1, models.SoilFarmDetails{PH: fp(0), Nitrogen: fp(0), Season: sp("All")}))
	assert.NoError(t, s.SaveSoilFarm(context.Background(), 1, models.SoilFarmDetails{PH: fp(14)}))
	assert.ErrorIs(t, s.SaveLocation(context.Background(), 1, models.Location{Latitude: math.Inf(1)}), common.ErrorValidation)
}

func TestProfileService_RepoErrors(t *testing.T) {
	s := NewProfileService(nil, &fakeRepoManager{p: &fakeProfilesRepo{err: errors.New("locked")}}, logging.Nop())
	ctx := context.Background()

	assert.ErrorIs(t, s.SaveLocation(ctx, 1, models.Location{}), common.ErrorInternal)
	assert.ErrorIs(t, s.SaveSoilFarm(ctx, 1, models.SoilFarmDetails{}), common.ErrorInternal)
	_, err := s.Get(ctx, 1)
	assert.ErrorIs(t, err, common.ErrorInternal)
}
