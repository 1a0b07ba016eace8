package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/server/services"
	"github.com/gorilla/mux"
)

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
}

// updateTaskRequest uses pointers so that absent fields are left untouched.
type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
}

type attachmentResponse struct {
	Key string `json:"key,omitempty"`
	URL string `json:"url"`
}

func (s *HTTPServer) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.List(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, tasks)
}

func (s *HTTPServer) createTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, common.ErrorValidation)
		return
	}

	task, err := s.tasks.Create(r.Context(), userIDFromContext(r.Context()),
		req.Title, req.Description, req.Status, req.Priority)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, task)
}

func (s *HTTPServer) updateTask(w http.ResponseWriter, r *http.Request) {
	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, common.ErrorValidation)
		return
	}

	upd := services.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	}

	task, err := s.tasks.Update(r.Context(), userIDFromContext(r.Context()), mux.Vars(r)["id"], upd)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, task)
}

func (s *HTTPServer) deleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.Delete(r.Context(), userIDFromContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) attachmentPutURL(w http.ResponseWriter, r *http.Request) {
	key, url, err := s.tasks.AttachmentPutURL(r.Context(), userIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, attachmentResponse{Key: key, URL: url})
}

func (s *HTTPServer) attachmentGetURL(w http.ResponseWriter, r *http.Request) {
	url, err := s.tasks.AttachmentGetURL(r.Context(), userIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, attachmentResponse{URL: url})
}
