// Package respond holds the JSON response and request decoding helpers
// shared by all HTTP handlers.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"orgtodo/internal/apperror"
)

var validate = validator.New()

type errorBody struct {
	Message string `json:"message"`
}

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Error maps err through the apperror taxonomy and writes {"message": ...}.
// Unexpected errors are logged with their cause; the body carries only the
// generic message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperror.From(err)
	if appErr.Kind == apperror.KindUnexpected {
		zerolog.Ctx(r.Context()).Error().Err(appErr.Err).Msg("request failed")
	}
	JSON(w, appErr.Status, errorBody{Message: appErr.Message})
}

// Decode reads the request body into dst and runs struct validation.
// Returns a BadRequest apperror describing the first failure.
func Decode(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperror.BadRequest("invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return apperror.BadRequest("invalid field " + strings.ToLower(f.Field()) + ": failed " + f.Tag() + " validation")
		}
		return apperror.BadRequest("invalid request body")
	}
	return nil
}
