package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shoplane/support-chat/internal/api/response"
)

var validate = validator.New()

// checkStruct runs validator tags and writes a field-keyed 400 on failure.
// Returns true when the input is valid.
func checkStruct(w http.ResponseWriter, input any) bool {
	err := validate.Struct(input)
	if err == nil {
		return true
	}

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		errors := make(map[string]string)
		for _, e := range validationErrors {
			field := e.Field()
			tag := e.Tag()
			switch tag {
			case "required":
				errors[field] = "field is required"
			case "email":
				errors[field] = "invalid email format"
			case "min":
				errors[field] = "must be at least " + e.Param() + " characters"
			case "max":
				errors[field] = "must be at most " + e.Param() + " characters"
			case "oneof":
				errors[field] = "must be one of: " + e.Param()
			default:
				errors[field] = "validation failed on " + tag
			}
		}
		response.BadRequest(w, errors)
		return false
	}

	response.BadRequest(w, err.Error())
	return false
}

// int64Param parses a numeric chi URL parameter
func int64Param(r *http.Request, name string) (int64, bool) {
	v, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return v, err == nil
}

// queryInt returns a query parameter as int, or def when absent or invalid
func queryInt(r *http.Request, name string, def int) int {
	if s := r.URL.Query().Get(name); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			return v
		}
	}
	return def
}

// queryTime parses an RFC 3339 query parameter, nil when absent
func queryTime(r *http.Request, name string) (*time.Time, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
