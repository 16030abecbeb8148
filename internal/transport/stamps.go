package transport

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/timebank/internal/domain/interval"
	"github.com/rpggio/timebank/internal/domain/stamp"
)

type stampBody struct {
	Timestamp  *time.Time  `json:"timestamp"`
	Kind       *stamp.Kind `json:"type"`
	ActivityID *string     `json:"activity_id"`
}

type currentResponse struct {
	Current *interval.Interval `json:"current"`
}

func (s *Server) listStamps(w http.ResponseWriter, r *http.Request) {
	opts, err := stampListOptions(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	stamps, err := s.svc.Stamps.List(r.Context(), userID(r), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stamps)
}

func (s *Server) createStamp(w http.ResponseWriter, r *http.Request) {
	var body stampBody
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	req := stamp.CreateRequest{}
	if body.Timestamp != nil {
		req.Timestamp = *body.Timestamp
	}
	if body.Kind != nil {
		req.Kind = *body.Kind
	}
	if body.ActivityID != nil {
		req.ActivityID = *body.ActivityID
	}

	st, err := s.svc.Stamps.Create(r.Context(), userID(r), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

func (s *Server) currentStamp(w http.ResponseWriter, r *http.Request) {
	cur, err := s.svc.Intervals.Current(r.Context(), userID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, currentResponse{Current: cur})
}

func (s *Server) getStamp(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Stamps.Get(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) updateStamp(w http.ResponseWriter, r *http.Request) {
	var body stampBody
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	st, err := s.svc.Stamps.Update(r.Context(), userID(r), stamp.UpdateRequest{
		ID:         chi.URLParam(r, "id"),
		Timestamp:  body.Timestamp,
		Kind:       body.Kind,
		ActivityID: body.ActivityID,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) deleteStamp(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Stamps.Delete(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func stampListOptions(r *http.Request) (stamp.ListOptions, error) {
	q := r.URL.Query()
	var opts stamp.ListOptions
	var err error
	if v := q.Get("since"); v != "" {
		if opts.Since, err = time.Parse(time.RFC3339, v); err != nil {
			return opts, fmt.Errorf("%w: since: %v", errBadRequest, err)
		}
	}
	if v := q.Get("until"); v != "" {
		if opts.Until, err = time.Parse(time.RFC3339, v); err != nil {
			return opts, fmt.Errorf("%w: until: %v", errBadRequest, err)
		}
	}
	if opts.Limit, err = intParam(q.Get("limit")); err != nil {
		return opts, err
	}
	if opts.Offset, err = intParam(q.Get("offset")); err != nil {
		return opts, err
	}
	return opts, nil
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q is not a non-negative integer", errBadRequest, v)
	}
	return n, nil
}
