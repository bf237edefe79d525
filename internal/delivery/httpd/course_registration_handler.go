package httpd

import (
	"net/http"

	"github.com/ProjectUnravel/StudentManagementAPI/internal/models"
	"github.com/ProjectUnravel/StudentManagementAPI/internal/repository"
)

func (h *Handler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	h.listRegistrations(w, r, repository.RegistrationFilter{}, "Course registrations retrieved successfully")
}

func (h *Handler) ListStudentRegistrations(w http.ResponseWriter, r *http.Request) {
	studentID, ok := idParam(w, r, "studentId")
	if !ok {
		return
	}

	h.listRegistrations(w, r, repository.RegistrationFilter{StudentID: studentID}, "Student course registrations retrieved successfully")
}

func (h *Handler) ListCourseRegistrations(w http.ResponseWriter, r *http.Request) {
	courseID, ok := idParam(w, r, "courseId")
	if !ok {
		return
	}

	h.listRegistrations(w, r, repository.RegistrationFilter{CourseID: courseID}, "Course registrations retrieved successfully")
}

func (h *Handler) listRegistrations(w http.ResponseWriter, r *http.Request, filter repository.RegistrationFilter, message string) {
	page, err := h.services.Registrations.ListRegistrations(r.Context(), filter, paginationFromQuery(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writePage(w, message, page)
}

func (h *Handler) GetRegistration(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	registration, err := h.services.Registrations.GetRegistration(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Course registration retrieved successfully", registration)
}

func (h *Handler) CreateRegistration(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCourseRegistrationRequest
	if msg, ok := h.decodeBody(r, &req); !ok {
		writeBadRequest(w, msg)
		return
	}

	registration, err := h.services.Registrations.Register(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Course registration created successfully", registration)
}

func (h *Handler) DeleteRegistration(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.services.Registrations.DeleteRegistration(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Course registration deleted successfully", nil)
}
