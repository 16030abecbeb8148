package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/timebank/internal/domain/activity"
)

type activityBody struct {
	Name          *string  `json:"name"`
	Color         *string  `json:"color"`
	Icon          *string  `json:"icon"`
	PointsPerHour *float64 `json:"points_per_hour"`
	SecondsFree   *int64   `json:"seconds_free"`
}

func (s *Server) listActivities(w http.ResponseWriter, r *http.Request) {
	acts, err := s.svc.Activities.List(r.Context(), userID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, acts)
}

func (s *Server) createActivity(w http.ResponseWriter, r *http.Request) {
	var body activityBody
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	req := activity.CreateRequest{}
	if body.Name != nil {
		req.Name = *body.Name
	}
	if body.Color != nil {
		req.Color = *body.Color
	}
	if body.Icon != nil {
		req.Icon = *body.Icon
	}
	if body.PointsPerHour != nil {
		req.PointsPerHour = *body.PointsPerHour
	}
	if body.SecondsFree != nil {
		req.SecondsFree = *body.SecondsFree
	}

	act, err := s.svc.Activities.Create(r.Context(), userID(r), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, act)
}

func (s *Server) getActivity(w http.ResponseWriter, r *http.Request) {
	act, err := s.svc.Activities.Get(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, act)
}

func (s *Server) updateActivity(w http.ResponseWriter, r *http.Request) {
	var body activityBody
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	act, err := s.svc.Activities.Update(r.Context(), userID(r), activity.UpdateRequest{
		ID:            chi.URLParam(r, "id"),
		Name:          body.Name,
		Color:         body.Color,
		Icon:          body.Icon,
		PointsPerHour: body.PointsPerHour,
		SecondsFree:   body.SecondsFree,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, act)
}

func (s *Server) deleteActivity(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Activities.Delete(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
