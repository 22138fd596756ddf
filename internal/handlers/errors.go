package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/diewo77/go-identity/httpx"
	"github.com/diewo77/go-identity/internal/services"
)

// writeError maps a service error onto the response. Operational causes are
// logged and replaced by a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var se *services.Error
	if !errors.As(err, &se) {
		se = &services.Error{Kind: services.KindOperational, Message: "Unexpected Error", Err: err}
	}
	switch se.Kind {
	case services.KindNotFound:
		httpx.JSONError(w, http.StatusNotFound, se.Message, se.Details)
	case services.KindValidation, services.KindConflict:
		httpx.JSONError(w, http.StatusBadRequest, se.Message, se.Details)
	default:
		log.Ctx(r.Context()).Error().Err(se.Err).Msg(se.Message)
		httpx.JSONError(w, http.StatusInternalServerError, "Unexpected Error", nil)
	}
}

func writeInvalidJSON(w http.ResponseWriter) {
	httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
}

// pathID reads a positive integer URL parameter.
func pathID(r *http.Request, name string) (uint, bool) {
	n, err := strconv.ParseUint(chi.URLParam(r, name), 10, 0)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
