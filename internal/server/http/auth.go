package httpserver

import (
	"net/http"

	"github.com/and161185/studysync/internal/api"
	"github.com/and161185/studysync/internal/convert"
	"github.com/and161185/studysync/internal/model"
)

func toSession(tok model.Tokens, id model.Identity) api.Session {
	return api.Session{AccessToken: tok.AccessToken, ExpiresAt: tok.ExpiresAt, Identity: convert.ToAPIIdentity(id)}
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req api.Credentials
	if !decode(w, r, &req) {
		return
	}
	tok, id, err := s.svc.Auth.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSession(tok, id))
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req api.Credentials
	if !decode(w, r, &req) {
		return
	}
	tok, id, err := s.svc.Auth.SignIn(r.Context(), req.Email, req.Password, clientIP(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSession(tok, id))
}

// logout always answers 204; an unknown or expired token has nothing to revoke.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		if _, sid, err := s.svc.Auth.Authenticate(r.Context(), token); err == nil {
			_ = s.svc.Auth.SignOut(r.Context(), sid)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) sendPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req api.PasswordResetRequest
	if !decode(w, r, &req) {
		return
	}
	if err := s.svc.Auth.SendPasswordReset(r.Context(), req.Email); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) confirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req api.PasswordResetConfirm
	if !decode(w, r, &req) {
		return
	}
	if err := s.svc.Auth.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	id, err := s.svc.Auth.Current(r.Context(), owner(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, convert.ToAPIIdentity(id))
}

func (s *Server) changeEmail(w http.ResponseWriter, r *http.Request) {
	var req api.EmailChange
	if !decode(w, r, &req) {
		return
	}
	if err := s.svc.Auth.ChangeEmail(r.Context(), owner(r), req.Email); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	var req api.PasswordChange
	if !decode(w, r, &req) {
		return
	}
	if err := s.svc.Auth.ChangePassword(r.Context(), owner(r), req.Password); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) changeDisplayName(w http.ResponseWriter, r *http.Request) {
	var req api.DisplayNameChange
	if !decode(w, r, &req) {
		return
	}
	id, err := s.svc.Auth.ChangeDisplayName(r.Context(), owner(r), req.Name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, convert.ToAPIIdentity(id))
}
