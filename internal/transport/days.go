package transport

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/timebank/internal/domain/day"
	"github.com/rpggio/timebank/internal/domain/journal"
)

func (s *Server) listIntervals(w http.ResponseWriter, r *http.Request) {
	intervals, err := s.svc.Intervals.List(r.Context(), userID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, intervals)
}

func (s *Server) listDays(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	fill, _ := strconv.ParseBool(q.Get("fill"))
	days, err := s.svc.Days.List(r.Context(), userID(r), day.ListOptions{
		From: q.Get("from"),
		To:   q.Get("to"),
		Fill: fill,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

func (s *Server) getDay(w http.ResponseWriter, r *http.Request) {
	d, err := s.svc.Days.Get(r.Context(), userID(r), chi.URLParam(r, "date"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) listJournal(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := journal.ListOptions{
		Entity:   q.Get("entity"),
		EntityID: q.Get("entity_id"),
	}
	var err error
	if opts.Limit, err = intParam(q.Get("limit")); err != nil {
		s.fail(w, r, err)
		return
	}
	if opts.Offset, err = intParam(q.Get("offset")); err != nil {
		s.fail(w, r, err)
		return
	}
	if k := q.Get("kind"); k != "" {
		kind := journal.Kind(k)
		opts.Kind = &kind
	}

	entries, err := s.svc.Journal.Recent(r.Context(), userID(r), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
