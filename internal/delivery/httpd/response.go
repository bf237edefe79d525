package httpd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ProjectUnravel/StudentManagementAPI/internal/models"
	"github.com/ProjectUnravel/StudentManagementAPI/internal/service"
)

const maxBodyBytes = 1 << 20

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeSuccess(w http.ResponseWriter, status int, message string, results interface{}) {
	writeJSON(w, status, models.Response{
		Results:    results,
		Status:     true,
		Message:    message,
		StatusCode: status,
	})
}

func writePage[T any](w http.ResponseWriter, message string, page *models.Page[T]) {
	writeJSON(w, http.StatusOK, models.Response{
		Results:    page.Items,
		Status:     true,
		Message:    message,
		MetaData:   page.MetaData,
		StatusCode: http.StatusOK,
	})
}

func writeErrorMessage(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, models.NewErrorResponse(status, code, message))
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeErrorMessage(w, http.StatusBadRequest, models.ErrorCodeInvalidArgument, message)
}

// classifyError maps a service error onto a status, error code and a
// message that is safe to return.
func classifyError(err error) (int, string, string) {
	message := "An internal server error occurred"
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		message = svcErr.Message
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, models.ErrorCodeNotFound, message
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, models.ErrorCodeConflict, message
	case errors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest, models.ErrorCodeInvalidArgument, message
	case errors.Is(err, service.ErrUnavailable):
		return http.StatusServiceUnavailable, models.ErrorCodeUnavailable, message
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, models.ErrorCodeUnauthorized, "Unauthorized access"
	default:
		return http.StatusInternalServerError, models.ErrorCodeInternal, "An internal server error occurred"
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := classifyError(err)

	log := h.requestLogger(r)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Request failed")
	} else {
		log.Warn().
			Str("error_code", code).
			Str("path", r.URL.Path).
			Msg(message)
	}

	writeErrorMessage(w, status, code, message)
}

func (h *Handler) requestLogger(r *http.Request) *zerolog.Logger {
	if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &h.logger
}

// decodeBody reads a JSON body into dst and runs the struct's validate
// tags. The returned message is meant for the client.
func (h *Handler) decodeBody(r *http.Request, dst interface{}) (string, bool) {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return "Invalid request body", false
	}

	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return validationMessage(verrs), false
		}
		return "Invalid request body", false
	}

	return "", true
}

func validationMessage(verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		var msg string
		switch fe.Tag() {
		case "required":
			msg = fmt.Sprintf("%s is required", fe.Field())
		case "email":
			msg = fmt.Sprintf("%s must be a valid email address", fe.Field())
		case "uuid":
			msg = fmt.Sprintf("%s must be a valid id", fe.Field())
		case "max":
			msg = fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
		case "gt":
			msg = fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
		case "gte":
			msg = fmt.Sprintf("%s cannot be less than %s", fe.Field(), fe.Param())
		default:
			msg = fmt.Sprintf("%s is invalid", fe.Field())
		}
		parts = append(parts, msg)
	}
	return strings.Join(parts, "; ")
}

// idParam returns the named path parameter when it is a valid UUID.
func idParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	raw := chi.URLParam(r, name)
	if _, err := uuid.Parse(raw); err != nil {
		writeBadRequest(w, fmt.Sprintf("Invalid %s", name))
		return "", false
	}
	return raw, true
}

// optionalIDQuery reads an optional UUID query parameter.
func optionalIDQuery(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return "", true
	}
	if _, err := uuid.Parse(raw); err != nil {
		writeBadRequest(w, fmt.Sprintf("Invalid %s", name))
		return "", false
	}
	return raw, true
}

func getIntQueryParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

func paginationFromQuery(r *http.Request) models.PaginationRequest {
	q := r.URL.Query()

	desc, _ := strconv.ParseBool(q.Get("sortDescending"))

	return models.PaginationRequest{
		PageIndex:      getIntQueryParam(r, "pageIndex", 1),
		PageSize:       getIntQueryParam(r, "pageSize", models.DefaultPageSize),
		Search:         strings.TrimSpace(q.Get("search")),
		SortBy:         strings.TrimSpace(q.Get("sortBy")),
		SortDescending: desc,
	}.Normalize()
}
