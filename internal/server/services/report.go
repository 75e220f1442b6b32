package services

import (
	"context"
	"time"

	"github.com/krishirakshak/krishirakshak/internal/common"
	"github.com/krishirakshak/krishirakshak/internal/logging"
	"github.com/krishirakshak/krishirakshak/internal/server/auth"
	"github.com/krishirakshak/krishirakshak/internal/server/insights"
	"github.com/krishirakshak/krishirakshak/internal/server/report"
)

// ReportService assembles and renders the downloadable HTML report.
type ReportService struct {
	profiles *ProfileService
	advisory *AdvisoryService
	renderer *report.Renderer
	archiver report.Archiver
	logger   logging.Logger
	now      func() time.Time
}

func NewReportService(profiles *ProfileService, advisory *AdvisoryService, renderer *report.Renderer,
	archiver report.Archiver, logger logging.Logger) *ReportService {
	if archiver == nil {
		archiver = report.NopArchiver{}
	}
	return &ReportService{
		profiles: profiles,
		advisory: advisory,
		renderer: renderer,
		archiver: archiver,
		logger:   logger.With("module", "report_service"),
		now:      time.Now,
	}
}

// Build renders the report for id. It fails with ErrorProfileIncomplete when
// there is nothing to advise on. Archive failures are logged, not returned.
func (s *ReportService) Build(ctx context.Context, id auth.Identity) ([]byte, error) {
	profile, err := s.profiles.Get(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, common.ErrorProfileIncomplete
	}
	rec, risk := s.advisory.Advise(profile)

	now := s.now().UTC()
	body, err := s.renderer.Render(report.Data{
		GeneratedAt:     now,
		UserName:        id.DisplayName,
		Profile:         profile,
		Rationale:       rec.Rationale,
		Recommendations: rec.Crops,
		Risk:            risk,
		Market:          insights.MarketPrices(now),
	})
	if err != nil {
		return nil, err
	}

	key, err := s.archiver.Archive(ctx, id.UserID, now, body)
	if err != nil {
		s.logger.Warn(ctx, "archive report", "user_id", id.UserID, "error", err)
	} else if key != "" {
		s.logger.Debug(ctx, "report archived", "user_id", id.UserID, "key", key)
	}

	return body, nil
}
