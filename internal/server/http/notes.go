package httpserver

import (
	"net/http"

	"github.com/and161185/studysync/internal/api"
	"github.com/and161185/studysync/internal/convert"
	"github.com/and161185/studysync/internal/model"
)

func noteInput(in api.NoteInput) model.NoteInput {
	return model.NoteInput{Title: in.Title, Content: in.Content, Subject: in.Subject, Tags: in.Tags}
}

func (s *Server) listNotes(w http.ResponseWriter, r *http.Request) {
	f := model.NoteFilter{Search: r.URL.Query().Get("q"), Subject: r.URL.Query().Get("subject")}
	notes, err := s.svc.Notes.List(r.Context(), owner(r), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	// the subject dropdown is built from every note, not the filtered page
	all := notes
	if f != (model.NoteFilter{}) {
		if all, err = s.svc.Notes.List(r.Context(), owner(r), model.NoteFilter{}); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, api.NoteList{Notes: convert.ToAPINotes(notes), Subjects: model.Subjects(all)})
}

func (s *Server) createNote(w http.ResponseWriter, r *http.Request) {
	var req api.NoteInput
	if !decode(w, r, &req) {
		return
	}
	notes, err := s.svc.Notes.Create(r.Context(), owner(r), noteInput(req))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, api.NoteList{Notes: convert.ToAPINotes(notes), Subjects: model.Subjects(notes)})
}

func (s *Server) updateNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req api.NoteInput
	if !decode(w, r, &req) {
		return
	}
	n, err := s.svc.Notes.Update(r.Context(), owner(r), id, noteInput(req))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, convert.ToAPINote(n))
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.svc.Notes.Delete(r.Context(), owner(r), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
