package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/timebank/internal/domain/regime"
)

type regimeBody struct {
	Name      *string            `json:"name"`
	Icon      *string            `json:"icon"`
	IsHoliday *bool              `json:"is_holiday"`
	Intervals *[]regime.Interval `json:"intervals"`
}

type validateBody struct {
	Intervals []regime.Interval `json:"intervals"`
}

type validateResponse struct {
	regime.ValidationResult
	regime.Metrics
}

func (s *Server) listRegimes(w http.ResponseWriter, r *http.Request) {
	regimes, err := s.svc.Regimes.List(r.Context(), userID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, regimes)
}

func (s *Server) createRegime(w http.ResponseWriter, r *http.Request) {
	var body regimeBody
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	req := regime.CreateRequest{}
	if body.Name != nil {
		req.Name = *body.Name
	}
	if body.Icon != nil {
		req.Icon = *body.Icon
	}
	if body.IsHoliday != nil {
		req.IsHoliday = *body.IsHoliday
	}
	if body.Intervals != nil {
		req.Intervals = *body.Intervals
	}

	reg, err := s.svc.Regimes.Create(r.Context(), userID(r), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, reg)
}

func (s *Server) validateRegime(w http.ResponseWriter, r *http.Request) {
	var body validateBody
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	res, metrics, err := s.svc.Regimes.Preview(r.Context(), userID(r), body.Intervals)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, validateResponse{ValidationResult: res, Metrics: metrics})
}

func (s *Server) getRegime(w http.ResponseWriter, r *http.Request) {
	reg, err := s.svc.Regimes.Get(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reg)
}

func (s *Server) updateRegime(w http.ResponseWriter, r *http.Request) {
	var body regimeBody
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	reg, err := s.svc.Regimes.Update(r.Context(), userID(r), regime.UpdateRequest{
		ID:        chi.URLParam(r, "id"),
		Name:      body.Name,
		Icon:      body.Icon,
		IsHoliday: body.IsHoliday,
		Intervals: body.Intervals,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reg)
}

func (s *Server) deleteRegime(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Regimes.Delete(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
