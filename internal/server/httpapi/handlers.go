package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/krishirakshak/krishirakshak/internal/common"
	"github.com/krishirakshak/krishirakshak/internal/server/auth"
	"github.com/krishirakshak/krishirakshak/internal/server/insights"
	"github.com/krishirakshak/krishirakshak/internal/server/models"
	"github.com/krishirakshak/krishirakshak/internal/server/report"
)

const (
	detailInternal        = "Internal server error"
	detailBadBody         = "Invalid request body"
	detailEmailTaken      = "Email already registered (or invalid)."
	detailBadLogin        = "Invalid email or password"
	detailProfileRequired = "Please submit your location and soil/farm details first."
	detailReportProfile   = "Complete your profile first (location + soil/farm details)."
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"service": "krishirakshak",
		"time":    s.now().UTC().Format(time.RFC3339Nano),
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, detailBadBody)
		return
	}

	res, err := s.users.Register(r.Context(), req.Email, req.Name, req.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, toAuthResponse(res.AccessToken, res.User))
	case errors.Is(err, common.ErrorValidation):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		writeError(w, http.StatusBadRequest, detailEmailTaken)
	default:
		s.serverError(w, r, err)
	}
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, detailBadBody)
		return
	}

	res, err := s.users.Login(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, toAuthResponse(res.AccessToken, res.User))
	case errors.Is(err, common.ErrorUnauthorized):
		s.metrics.authFailure(reasonBadLogin)
		writeError(w, http.StatusUnauthorized, detailBadLogin)
	default:
		s.serverError(w, r, err)
	}
}

func (s *Server) me(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	writeJSON(w, http.StatusOK, map[string]any{"user": toUserResponse(id)})
}

func (s *Server) saveLocation(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	var req locationRequest
	if err := decodeJSON(w, r, &req); err != nil || req.Latitude == nil || req.Longitude == nil {
		writeError(w, http.StatusUnprocessableEntity, "latitude and longitude are required")
		return
	}

	loc := models.Location{Latitude: *req.Latitude, Longitude: *req.Longitude, LocationName: req.LocationName}
	s.writeSaveResult(w, r, s.profiles.SaveLocation(r.Context(), id.UserID, loc))
}

func (s *Server) saveSoilFarm(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	var req models.SoilFarmDetails
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, detailBadBody)
		return
	}
	s.writeSaveResult(w, r, s.profiles.SaveSoilFarm(r.Context(), id.UserID, req))
}

func (s *Server) writeSaveResult(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, okResponse{OK: true})
	case errors.Is(err, common.ErrorValidation):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.serverError(w, r, err)
	}
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	p, err := s.profiles.Get(r.Context(), id.UserID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"profile": p})
}

func (s *Server) recommendation(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	rec, err := s.advisory.Recommendation(r.Context(), id.UserID)
	if err != nil {
		s.advisoryError(w, r, err, detailProfileRequired)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) risk(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	risk, err := s.advisory.Risk(r.Context(), id.UserID)
	if err != nil {
		s.advisoryError(w, r, err, detailProfileRequired)
		return
	}
	writeJSON(w, http.StatusOK, risk)
}

func (s *Server) marketPrices(w http.ResponseWriter, r *http.Request, _ auth.Identity) {
	writeJSON(w, http.StatusOK, itemsResponse[insights.MarketPrice]{Items: insights.MarketPrices(s.now())})
}

func (s *Server) schemes(w http.ResponseWriter, r *http.Request, _ auth.Identity) {
	writeJSON(w, http.StatusOK, itemsResponse[insights.Scheme]{Items: insights.Schemes()})
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request, _ auth.Identity) {
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, detailBadBody)
		return
	}
	if n := utf8.RuneCountInString(req.Message); n < 1 || n > insights.MaxChatMessageLength {
		writeError(w, http.StatusUnprocessableEntity, "message must be 1 to 2000 characters")
		return
	}

	reply, intents := insights.ChatReply(req.Message)
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply, Intents: intents})
}

func (s *Server) downloadReport(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	body, err := s.reports.Build(r.Context(), id)
	if err != nil {
		s.advisoryError(w, r, err, detailReportProfile)
		return
	}

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.FileName+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) advisoryError(w http.ResponseWriter, r *http.Request, err error, incomplete string) {
	if errors.Is(err, common.ErrorProfileIncomplete) {
		writeError(w, http.StatusBadRequest, incomplete)
		return
	}
	s.serverError(w, r, err)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error(r.Context(), "request failed",
		"path", r.URL.Path, "request_id", RequestID(r.Context()), "error", err)
	writeError(w, http.StatusInternalServerError, detailInternal)
}

func toAuthResponse(token string, id auth.Identity) authResponse {
	return authResponse{
		AccessToken: token,
		TokenType:   strings.ToLower(common.BearerScheme),
		User:        toUserResponse(id),
	}
}
