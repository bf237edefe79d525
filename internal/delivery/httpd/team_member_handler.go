package httpd

import (
	"net/http"

	"github.com/ProjectUnravel/StudentManagementAPI/internal/models"
)

func (h *Handler) ListTeamMembers(w http.ResponseWriter, r *http.Request) {
	teamID, ok := idParam(w, r, "teamId")
	if !ok {
		return
	}

	members, meta, err := h.services.TeamMembers.ListMembers(r.Context(), teamID, paginationFromQuery(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.Response{
		Results:    members,
		Status:     true,
		Message:    "Team members retrieved successfully",
		MetaData:   meta,
		StatusCode: http.StatusOK,
	})
}

func (h *Handler) AssignTeam(w http.ResponseWriter, r *http.Request) {
	var req models.AssignTeamRequest
	if msg, ok := h.decodeBody(r, &req); !ok {
		writeBadRequest(w, msg)
		return
	}

	member, err := h.services.TeamMembers.Assign(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Student assigned to team successfully", member)
}

func (h *Handler) UnassignTeam(w http.ResponseWriter, r *http.Request) {
	var req models.AssignTeamRequest
	if msg, ok := h.decodeBody(r, &req); !ok {
		writeBadRequest(w, msg)
		return
	}

	if err := h.services.TeamMembers.Unassign(r.Context(), &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Student removed from team successfully", nil)
}
