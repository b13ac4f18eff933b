package httpserver

import (
	"net/http"

	"github.com/and161185/studysync/internal/api"
	"github.com/and161185/studysync/internal/convert"
	"github.com/and161185/studysync/internal/model"
)

func taskInput(in api.TaskInput) model.TaskInput {
	return model.TaskInput{
		Title:       in.Title,
		Description: in.Description,
		Subject:     in.Subject,
		DueDate:     in.DueDate,
		Priority:    in.Priority,
	}
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	f := model.TaskFilter{Status: r.URL.Query().Get("status"), Priority: r.URL.Query().Get("priority")}
	tasks, err := s.svc.Tasks.List(r.Context(), owner(r), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	today := s.now()
	writeJSON(w, http.StatusOK, api.TaskList{
		Tasks:   convert.ToAPITasks(tasks, today),
		Overdue: model.OverdueCount(tasks, today),
	})
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var req api.TaskInput
	if !decode(w, r, &req) {
		return
	}
	t, err := s.svc.Tasks.Create(r.Context(), owner(r), taskInput(req))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, convert.ToAPITask(t, s.now()))
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req api.TaskInput
	if !decode(w, r, &req) {
		return
	}
	t, err := s.svc.Tasks.Update(r.Context(), owner(r), id, taskInput(req))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, convert.ToAPITask(t, s.now()))
}

func (s *Server) toggleTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	res, err := s.svc.Tasks.ToggleCompletion(r.Context(), owner(r), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.Toggle{
		Task:      convert.ToAPITask(res.Task, s.now()),
		Celebrate: res.Celebrate,
		Message:   res.Message,
	})
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.svc.Tasks.Delete(r.Context(), owner(r), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
