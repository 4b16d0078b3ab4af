package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/isdelr/devconnector-be/internal/auth"
	"github.com/isdelr/devconnector-be/internal/common"
	"github.com/rs/zerolog/log"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// decodeAndValidate decodes the JSON body into dst and validates it. On failure
// it writes the response and returns false. Field errors use the "msg" tag of
// the failing field when present.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		common.RespondWithMessage(w, http.StatusBadRequest, "Invalid request body")
		return false
	}

	err := validate.Struct(dst)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		log.Error().Err(err).Msg("Request validation failed unexpectedly")
		common.RespondWithError(w, err)
		return false
	}

	t := reflect.TypeOf(dst)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	fieldErrs := make([]common.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg := fe.Field() + " is invalid"
		if f, ok := t.FieldByName(fe.StructField()); ok {
			if m := f.Tag.Get("msg"); m != "" {
				msg = m
			}
		}
		fieldErrs = append(fieldErrs, common.FieldError{Param: fe.Field(), Msg: msg})
	}
	common.RespondWithValidation(w, fieldErrs)
	return false
}

// identity returns the caller set by the auth middleware.
func identity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, common.ErrUnauthenticated)
	}
	return id, ok
}

// respondError logs server faults and writes the mapped error response.
func respondError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	if common.HTTPStatusFromError(err) >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg(msg)
	} else {
		log.Debug().Err(err).Str("path", r.URL.Path).Msg(msg)
	}
	common.RespondWithError(w, err)
}
