package httpserver

import (
	"errors"
	"net/http"

	"github.com/and161185/studysync/internal/api"
	"github.com/and161185/studysync/internal/convert"
	"github.com/and161185/studysync/internal/errs"
)

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Profile.Load(r.Context(), owner(r))
	if errors.Is(err, errs.ErrNotFound) {
		id, cerr := s.svc.Auth.Current(r.Context(), owner(r))
		if cerr != nil {
			s.fail(w, r, cerr)
			return
		}
		p, err = id.Profile, nil
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, convert.ToAPIProfile(p))
}

func (s *Server) patchProfile(w http.ResponseWriter, r *http.Request) {
	var req api.ProfilePatch
	if !decode(w, r, &req) {
		return
	}
	patch, err := convert.FromAPIProfilePatch(req)
	if err != nil {
		s.fail(w, r, errs.Validation(err.Error()))
		return
	}
	p, err := s.svc.Profile.Save(r.Context(), owner(r), patch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, convert.ToAPIProfile(p))
}

func (s *Server) profileStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Profile.RecomputeStatistics(r.Context(), owner(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, convert.ToAPIStats(st))
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	sum, err := s.svc.Dashboard.Summary(r.Context(), owner(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, convert.ToAPISummary(sum, s.now()))
}
