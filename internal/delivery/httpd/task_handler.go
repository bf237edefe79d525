package httpd

import (
	"net/http"

	"github.com/ProjectUnravel/StudentManagementAPI/internal/models"
)

func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	page, err := h.services.Tasks.ListTasks(r.Context(), paginationFromQuery(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writePage(w, "Tasks retrieved successfully", page)
}

func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	task, err := h.services.Tasks.GetTask(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Task retrieved successfully", task)
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTaskRequest
	if msg, ok := h.decodeBody(r, &req); !ok {
		writeBadRequest(w, msg)
		return
	}

	task, err := h.services.Tasks.CreateTask(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Task created successfully", task)
}

func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req models.UpdateTaskRequest
	if msg, ok := h.decodeBody(r, &req); !ok {
		writeBadRequest(w, msg)
		return
	}

	task, err := h.services.Tasks.UpdateTask(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Task updated successfully", task)
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.services.Tasks.DeleteTask(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Task deleted successfully", nil)
}
