package httpd

import (
	"net/http"

	"github.com/ProjectUnravel/StudentManagementAPI/internal/models"
)

func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	page, err := h.services.Courses.ListCourses(r.Context(), paginationFromQuery(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writePage(w, "Courses retrieved successfully", page)
}

func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	course, err := h.services.Courses.GetCourse(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Course retrieved successfully", course)
}

func (h *Handler) ListCourseStudents(w http.ResponseWriter, r *http.Request) {
	courseID, ok := idParam(w, r, "courseId")
	if !ok {
		return
	}

	students, err := h.services.Courses.ListCourseStudents(r.Context(), courseID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Students retrieved successfully", students)
}

func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCourseRequest
	if msg, ok := h.decodeBody(r, &req); !ok {
		writeBadRequest(w, msg)
		return
	}

	course, err := h.services.Courses.CreateCourse(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Course created successfully", course)
}

func (h *Handler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req models.UpdateCourseRequest
	if msg, ok := h.decodeBody(r, &req); !ok {
		writeBadRequest(w, msg)
		return
	}

	course, err := h.services.Courses.UpdateCourse(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Course updated successfully", course)
}

func (h *Handler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.services.Courses.DeleteCourse(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Course deleted successfully", nil)
}

func (h *Handler) ExportCourseAttendance(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	export, err := h.services.Exports.ExportCourseAttendance(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Attendance sheet exported successfully", export)
}
