package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	groupsdomain "splitledger-go/internal/domain/groups"
	"splitledger-go/internal/transport/httpserver/middleware"
)

type createGroupRequest struct {
	Name string `json:"name"`
}

type joinGroupRequest struct {
	Code string `json:"code"`
}

type renameGroupRequest struct {
	Name string `json:"name"`
}

type groupResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

type groupMemberResponse struct {
	UserID   string    `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

func toGroupResponse(group *groupsdomain.Group) groupResponse {
	return groupResponse{
		ID:        group.ID,
		Name:      group.Name,
		Code:      group.Code,
		OwnerID:   group.OwnerID,
		CreatedAt: group.CreatedAt,
	}
}

func (h *Handlers) ListGroups(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	groups, err := h.Groups.ListForUser(r.Context(), user.ID)
	if err != nil {
		h.log.InternalError("groups.list failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]groupResponse, 0, len(groups))
	for i := range groups {
		response = append(response, toGroupResponse(&groups[i]))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	group, err := h.Groups.Create(r.Context(), user.ID, req.Name)
	if err != nil {
		if errors.Is(err, groupsdomain.ErrCodeGenerationFailed) {
			h.log.InternalError("groups.create: code generation failed", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, toGroupResponse(group))
}

func (h *Handlers) JoinGroup(w http.ResponseWriter, r *http.Request) {
	var req joinGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	group, err := h.Groups.Join(r.Context(), user.ID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, groupsdomain.ErrGroupCodeNotFound):
			writeError(w, http.StatusNotFound, "code_not_found", "group code not found")
		case errors.Is(err, groupsdomain.ErrAlreadyMember):
			writeError(w, http.StatusConflict, "already_member", "already a member of this group")
		default:
			h.log.InternalError("groups.join failed", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toGroupResponse(group))
}

func (h *Handlers) GetGroup(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	group, err := h.Groups.Get(r.Context(), user.ID, chi.URLParam(r, "group_id"))
	if err != nil {
		h.writeGroupError(w, err, user.ID)
		return
	}

	writeJSON(w, http.StatusOK, toGroupResponse(group))
}

func (h *Handlers) LeaveGroup(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	err := h.Groups.Leave(r.Context(), user.ID, chi.URLParam(r, "group_id"))
	if err != nil {
		switch {
		case errors.Is(err, groupsdomain.ErrMemberNotFound):
			writeError(w, http.StatusNotFound, "not_member", "not a member of this group")
		case errors.Is(err, groupsdomain.ErrOwnerMustTransfer):
			writeError(w, http.StatusConflict, "owner_must_transfer", "owner cannot leave while the group has members")
		default:
			h.log.InternalError("groups.leave failed", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) RenameGroup(w http.ResponseWriter, r *http.Request) {
	var req renameGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	group, err := h.Groups.Rename(r.Context(), user.ID, chi.URLParam(r, "group_id"), req.Name)
	if err != nil {
		if errors.Is(err, groupsdomain.ErrNotOwner) {
			writeError(w, http.StatusForbidden, "not_owner", "only the owner can rename the group")
			return
		}
		h.writeGroupError(w, err, user.ID)
		return
	}

	writeJSON(w, http.StatusOK, toGroupResponse(group))
}

func (h *Handlers) ListGroupMembers(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	members, err := h.Groups.ListMembers(r.Context(), user.ID, chi.URLParam(r, "group_id"))
	if err != nil {
		h.writeGroupError(w, err, user.ID)
		return
	}

	response := make([]groupMemberResponse, 0, len(members))
	for _, member := range members {
		response = append(response, groupMemberResponse{
			UserID:   member.UserID,
			Role:     member.Role,
			JoinedAt: member.JoinedAt,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) RemoveGroupMember(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	err := h.Groups.RemoveMember(r.Context(), user.ID, chi.URLParam(r, "group_id"), chi.URLParam(r, "user_id"))
	if err != nil {
		switch {
		case errors.Is(err, groupsdomain.ErrNotOwner):
			writeError(w, http.StatusForbidden, "not_owner", "only the owner can remove members")
		case errors.Is(err, groupsdomain.ErrCannotRemoveOwner):
			writeError(w, http.StatusConflict, "cannot_remove_owner", "cannot remove the group owner")
		case errors.Is(err, groupsdomain.ErrMemberNotFound):
			writeError(w, http.StatusNotFound, "member_not_found", "member not found")
		default:
			h.writeGroupError(w, err, user.ID)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) writeGroupError(w http.ResponseWriter, err error, userID string) {
	switch {
	case errors.Is(err, groupsdomain.ErrGroupNotFound):
		writeError(w, http.StatusNotFound, "group_not_found", "group not found")
	case errors.Is(err, groupsdomain.ErrNotMember):
		writeError(w, http.StatusForbidden, "not_member", "not a member of this group")
	default:
		h.log.InternalError("groups: request failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
