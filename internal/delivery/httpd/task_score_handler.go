package httpd

import (
	"net/http"

	"github.com/ProjectUnravel/StudentManagementAPI/internal/models"
)

// ListTaskScores accepts optional taskId and studentId query filters.
func (h *Handler) ListTaskScores(w http.ResponseWriter, r *http.Request) {
	taskID, ok := optionalIDQuery(w, r, "taskId")
	if !ok {
		return
	}
	studentID, ok := optionalIDQuery(w, r, "studentId")
	if !ok {
		return
	}

	filter := models.TaskScoreFilter{TaskID: taskID, StudentID: studentID}
	page, err := h.services.TaskScores.ListScores(r.Context(), filter, paginationFromQuery(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writePage(w, "Task scores retrieved successfully", page)
}

func (h *Handler) GetTaskScore(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	score, err := h.services.TaskScores.GetScore(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Task score retrieved successfully", score)
}

func (h *Handler) CreateTaskScore(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTaskScoreRequest
	if msg, ok := h.decodeBody(r, &req); !ok {
		writeBadRequest(w, msg)
		return
	}

	score, err := h.services.TaskScores.RecordScore(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Task score recorded successfully", score)
}

func (h *Handler) UpdateTaskScore(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req models.UpdateTaskScoreRequest
	if msg, ok := h.decodeBody(r, &req); !ok {
		writeBadRequest(w, msg)
		return
	}

	score, err := h.services.TaskScores.UpdateScore(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Task score updated successfully", score)
}

func (h *Handler) DeleteTaskScore(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.services.TaskScores.DeleteScore(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Task score deleted successfully", nil)
}
