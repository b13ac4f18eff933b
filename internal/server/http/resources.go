package httpserver

import (
	"errors"
	"io"
	"net/http"

	"github.com/and161185/studysync/internal/convert"
	"github.com/and161185/studysync/internal/errs"
	"github.com/and161185/studysync/internal/model"
)

func (s *Server) listResources(w http.ResponseWriter, r *http.Request) {
	rs, err := s.svc.Resources.List(r.Context(), owner(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, convert.ToAPIResources(rs))
}

func (s *Server) uploadResource(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.opts.MaxUploadBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		s.fail(w, r, errs.Validation("please select a file"))
		return
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		s.fail(w, r, errs.Validation("please select a file"))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	mime := hdr.Header.Get("Content-Type")
	if mime == "" || mime == "application/octet-stream" {
		mime = http.DetectContentType(data)
	}

	res, err := s.svc.Resources.Upload(r.Context(), owner(r), model.Upload{Name: hdr.Filename, MimeType: mime, Data: data})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	uploadBytes.Add(float64(len(data)))
	writeJSON(w, http.StatusCreated, convert.ToAPIResource(res))
}

func (s *Server) deleteResource(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.svc.Resources.Delete(r.Context(), owner(r), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) recentActivity(w http.ResponseWriter, r *http.Request) {
	a, err := s.svc.Resources.RecentActivity(r.Context(), owner(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, convert.ToAPIActivity(a))
}
