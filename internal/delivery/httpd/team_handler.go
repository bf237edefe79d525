package httpd

import (
	"fmt"
	"net/http"

	"github.com/ProjectUnravel/StudentManagementAPI/internal/models"
)

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	page, err := h.services.Teams.ListTeams(r.Context(), paginationFromQuery(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writePage(w, "Teams retrieved successfully", page)
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	team, err := h.services.Teams.GetTeam(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Team retrieved successfully", team)
}

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTeamRequest
	if msg, ok := h.decodeBody(r, &req); !ok {
		writeBadRequest(w, msg)
		return
	}

	team, err := h.services.Teams.CreateTeam(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, fmt.Sprintf("%s Team created successfully", team.Name), team)
}

func (h *Handler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req models.UpdateTeamRequest
	if msg, ok := h.decodeBody(r, &req); !ok {
		writeBadRequest(w, msg)
		return
	}

	team, err := h.services.Teams.UpdateTeam(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, fmt.Sprintf("%s Team updated successfully", team.Name), team)
}

func (h *Handler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	team, err := h.services.Teams.DeleteTeam(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, fmt.Sprintf("%s Team deleted successfully", team.Name), team)
}
