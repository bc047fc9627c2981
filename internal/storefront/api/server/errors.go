package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/softcart/storefront_control/internal/pkg/apperrors"
)

type Error struct {
	Err     string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func (se Error) ToJSON() []byte {
	b, err := json.Marshal(se)
	if err != nil {
		se.Err = err.Error()
		se.Details = nil

		b, err := json.Marshal(se)
		if err != nil {
			return []byte(`{
				"error": "marshal error"
			  }`)
		}

		return b
	}

	return b
}

func handleError(w http.ResponseWriter, err error, code int) {
	w.WriteHeader(code)

	e := Error{Err: err.Error()} //nolint:exhaustruct

	w.Write(e.ToJSON()) //nolint:errcheck
}

// respondError maps the error taxonomy onto HTTP statuses. Anything
// unclassified is a server error; the caller only sees a generic
// message for those.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	var (
		validationErr *apperrors.ValidationError
		conflictErr   *apperrors.ConflictError
	)

	switch {
	case errors.As(err, &validationErr):
		w.WriteHeader(http.StatusBadRequest)
		w.Write(Error{Err: "validation failed", Details: validationErr.Messages}.ToJSON()) //nolint:errcheck
	case errors.As(err, &conflictErr):
		handleError(w, conflictErr, http.StatusConflict)
	case errors.Is(err, apperrors.ErrNotFound):
		handleError(w, apperrors.ErrNotFound, http.StatusNotFound)
	case errors.Is(err, apperrors.ErrUnauthorized):
		handleError(w, err, http.StatusUnauthorized)
	case errors.Is(err, apperrors.ErrForbidden):
		handleError(w, err, http.StatusForbidden)
	default:
		s.lg.Errorf("internal error: %s", err.Error())
		handleError(w, errors.New("internal error"), http.StatusInternalServerError) //nolint:goerr113
	}
}
