package handlers

import (
	"net/http"
	"strconv"

	"github.com/hugh/go-taskboard/internal/api/dto"
	"github.com/hugh/go-taskboard/internal/auth"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 100
)

type UserHandler struct {
	authService auth.Authenticator
}

func NewUserHandler(authService auth.Authenticator) *UserHandler {
	return &UserHandler{authService: authService}
}

// List pages through the user directory with ?skip= and ?limit= so owners
// can find the id of a user to invite.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, ok := queryInt(w, r, "skip", 0, 0, -1)
	if !ok {
		return
	}
	limit, ok := queryInt(w, r, "limit", defaultPageLimit, 1, maxPageLimit)
	if !ok {
		return
	}

	users, total, err := h.authService.ListUsers(r.Context(), skip, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse[dto.UserRef]{
		Data:  dto.NewUserRefs(users),
		Total: int(total),
	})
}

// queryInt reads an integer query parameter no smaller than lo. A negative hi
// means no upper bound.
func queryInt(w http.ResponseWriter, r *http.Request, name string, def, lo, hi int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || (hi >= 0 && n > hi) {
		msg := name + " must be at least " + strconv.Itoa(lo)
		if hi >= 0 {
			msg = name + " must be between " + strconv.Itoa(lo) + " and " + strconv.Itoa(hi)
		}
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid query parameter",
			Details: map[string]string{name: msg},
		})
		return 0, false
	}
	return n, true
}
