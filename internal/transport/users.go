package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/timebank/internal/domain/user"
)

// profileBody is the editable part of an account. Username and role are
// rejected as unknown fields.
type profileBody struct {
	Nickname *string `json:"nickname"`
	Timezone *string `json:"timezone"`
}

func (s *Server) getMe(w http.ResponseWriter, r *http.Request) {
	u, err := s.svc.Users.Get(r.Context(), userID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// updateMe edits the caller's profile. A new timezone re-cuts past days too.
func (s *Server) updateMe(w http.ResponseWriter, r *http.Request) {
	s.updateProfile(w, r, userID(r))
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request, id string) {
	var body profileBody
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	u, err := s.svc.Users.Update(r.Context(), user.UpdateRequest{
		ID:       id,
		Nickname: body.Nickname,
		Timezone: body.Timezone,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// requireAdmin lets through callers whose account has the admin role.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := s.svc.Users.Get(r.Context(), userID(r))
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if !caller.IsAdmin() {
			s.fail(w, r, errForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.svc.Users.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.svc.Users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	s.updateProfile(w, r, chi.URLParam(r, "id"))
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Users.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listUserActivities shows another account's activities. Unknown users have
// none rather than a 404.
func (s *Server) listUserActivities(w http.ResponseWriter, r *http.Request) {
	acts, err := s.svc.Activities.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, acts)
}
