package httpd

import (
	"net/http"

	"github.com/ProjectUnravel/StudentManagementAPI/internal/models"
)

func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	var req models.ClockInRequest
	if msg, ok := h.decodeBody(r, &req); !ok {
		writeBadRequest(w, msg)
		return
	}

	attendance, err := h.services.Attendance.ClockIn(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Student clocked in successfully", attendance)
}

func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	var req models.ClockOutRequest
	if msg, ok := h.decodeBody(r, &req); !ok {
		writeBadRequest(w, msg)
		return
	}

	attendance, err := h.services.Attendance.ClockOut(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Student clocked out successfully", attendance)
}

func (h *Handler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	page, err := h.services.Attendance.ListAttendance(r.Context(), paginationFromQuery(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writePage(w, "Attendance records retrieved successfully", page)
}

func (h *Handler) ListStudentAttendance(w http.ResponseWriter, r *http.Request) {
	studentID, ok := idParam(w, r, "studentId")
	if !ok {
		return
	}

	page, err := h.services.Attendance.ListStudentAttendance(r.Context(), studentID, paginationFromQuery(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writePage(w, "Student attendance records retrieved successfully", page)
}

func (h *Handler) GetAttendance(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	attendance, err := h.services.Attendance.GetAttendance(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Attendance record retrieved successfully", attendance)
}

func (h *Handler) CreateAttendance(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAttendanceRequest
	if msg, ok := h.decodeBody(r, &req); !ok {
		writeBadRequest(w, msg)
		return
	}

	attendance, err := h.services.Attendance.CreateAttendance(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Attendance record created successfully", attendance)
}

func (h *Handler) UpdateAttendance(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req models.UpdateAttendanceRequest
	if msg, ok := h.decodeBody(r, &req); !ok {
		writeBadRequest(w, msg)
		return
	}

	attendance, err := h.services.Attendance.UpdateAttendance(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Attendance record updated successfully", attendance)
}

func (h *Handler) DeleteAttendance(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.services.Attendance.DeleteAttendance(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Attendance record deleted successfully", nil)
}
