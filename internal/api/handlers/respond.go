package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hugh/go-taskboard/internal/access"
	"github.com/hugh/go-taskboard/internal/api/dto"
	"github.com/hugh/go-taskboard/internal/auth"
	"github.com/hugh/go-taskboard/internal/store"
)

const maxBodyBytes = 1 << 20

// request bodies validate themselves and may normalise first
type validator interface {
	Validate() map[string]string
}

type normalizer interface {
	Normalize()
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP status codes. Anything it does not
// recognise is logged and reported as a bare 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid credentials"})
	case errors.Is(err, auth.ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid or expired token"})
	case errors.Is(err, access.ErrForbidden):
		writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: errorMessage(err, access.ErrForbidden)})
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Not found"})
	case errors.Is(err, store.ErrConflict):
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: conflictMessage(err)})
	default:
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
	}
}

var knownConflicts = []error{
	store.ErrUsernameTaken,
	store.ErrEmailTaken,
	store.ErrBoardTitleTaken,
	store.ErrAlreadyMember,
	store.ErrLastOwner,
	access.ErrAssigneeNotMember,
}

// conflictMessage only ever echoes a known conflict; a raw unique violation
// from the database gets a generic message.
func conflictMessage(err error) string {
	for _, known := range knownConflicts {
		if errors.Is(err, known) {
			return errorMessage(known, store.ErrConflict)
		}
	}
	return "Resource already exists"
}

// errorMessage strips the "kind: " prefix a wrapped sentinel adds.
func errorMessage(err, kind error) string {
	msg := err.Error()
	if detail, ok := strings.CutPrefix(msg, kind.Error()+": "); ok {
		msg = detail
	}
	if msg == "" {
		return kind.Error()
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// decode reads a JSON body into v, then normalises and validates it. It
// writes the 400 response itself and reports whether the handler may go on.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return false
	}

	if n, ok := v.(normalizer); ok {
		n.Normalize()
	}
	if val, ok := v.(validator); ok {
		if errs := val.Validate(); len(errs) > 0 {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
			return false
		}
	}
	return true
}

// pathID parses a uuid route parameter, answering 400 when it is malformed.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid " + strings.ReplaceAll(name, "ID", " ID")})
		return uuid.Nil, false
	}
	return id, true
}
