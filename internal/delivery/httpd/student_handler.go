package httpd

import (
	"net/http"

	"github.com/ProjectUnravel/StudentManagementAPI/internal/models"
)

func (h *Handler) ListStudents(w http.ResponseWriter, r *http.Request) {
	page, err := h.services.Students.ListStudents(r.Context(), paginationFromQuery(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writePage(w, "Students retrieved successfully", page)
}

func (h *Handler) GetStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	student, err := h.services.Students.GetStudent(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Student retrieved successfully", student)
}

func (h *Handler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var req models.CreateStudentRequest
	if msg, ok := h.decodeBody(r, &req); !ok {
		writeBadRequest(w, msg)
		return
	}

	student, err := h.services.Students.CreateStudent(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Student created successfully", student)
}

func (h *Handler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req models.UpdateStudentRequest
	if msg, ok := h.decodeBody(r, &req); !ok {
		writeBadRequest(w, msg)
		return
	}

	student, err := h.services.Students.UpdateStudent(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Student updated successfully", student)
}

func (h *Handler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.services.Students.DeleteStudent(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Student deleted successfully", nil)
}
