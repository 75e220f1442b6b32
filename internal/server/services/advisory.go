package services

import (
	"context"

	"github.com/krishirakshak/krishirakshak/internal/common"
	"github.com/krishirakshak/krishirakshak/internal/server/models"
	"github.com/krishirakshak/krishirakshak/internal/server/scoring"
)

// Recommendation is the crop advice for one farm.
type Recommendation struct {
	Crops     []scoring.CropRecommendation `json:"recommended_crops"`
	Rationale string                       `json:"rationale"`
}

// AdvisoryService runs the scoring models over a user's stored profile.
type AdvisoryService struct {
	profiles *ProfileService
}

func NewAdvisoryService(profiles *ProfileService) *AdvisoryService {
	return &AdvisoryService{profiles: profiles}
}

// Recommendation returns ErrorProfileIncomplete until a profile exists.
func (s *AdvisoryService) Recommendation(ctx context.Context, userID int64) (*Recommendation, error) {
	p, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	rec, _ := s.Advise(p)
	return rec, nil
}

// Risk returns ErrorProfileIncomplete until a profile exists.
func (s *AdvisoryService) Risk(ctx context.Context, userID int64) (*scoring.RiskPrediction, error) {
	p, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	_, risk := s.Advise(p)
	return &risk, nil
}

// Advise runs both scoring models over a single profile snapshot.
func (s *AdvisoryService) Advise(p *models.FarmProfile) (*Recommendation, scoring.RiskPrediction) {
	fc := farmContext(p)
	crops, rationale := scoring.RecommendCrops(fc)
	return &Recommendation{Crops: crops, Rationale: rationale},
		scoring.PredictRisk(fc, p.Latitude, p.Longitude)
}

func (s *AdvisoryService) profile(ctx context.Context, userID int64) (*models.FarmProfile, error) {
	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, common.ErrorProfileIncomplete
	}
	return p, nil
}

func farmContext(p *models.FarmProfile) scoring.FarmContext {
	return scoring.FarmContext{
		SoilType:       p.SoilType,
		PH:             p.PH,
		N:              p.Nitrogen,
		P:              p.Phosphorus,
		K:              p.Potassium,
		Season:         p.Season,
		IrrigationType: p.IrrigationType,
	}
}
