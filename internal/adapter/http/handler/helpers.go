package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/iho/washledger/internal/adapter/http/dto"
	"github.com/iho/washledger/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError writes err with the status and kind it classifies as.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	status := mapDomainError(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Kind:    errorKind(err),
		Message: err.Error(),
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrMissingActor), errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInsufficientRole):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrEntryAlreadyExists):
		return http.StatusConflict
	}

	switch domain.KindOf(err) {
	case domain.KindValidation:
		return http.StatusUnprocessableEntity
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindStockViolation:
		return http.StatusConflict
	default:
		return http.StatusServiceUnavailable
	}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingActor), errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInsufficientRole):
		return "auth"
	}
	return string(domain.KindOf(err))
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseBoolQuery parses a boolean query parameter, false when absent or malformed.
func parseBoolQuery(r *http.Request, key string) bool {
	b, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && b
}

// parseTimeQuery parses an RFC 3339 query parameter. Absent yields the zero time.
func parseTimeQuery(r *http.Request, key string) (time.Time, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, val)
}

// currentUser returns the acting user, if any.
func currentUser(r *http.Request) (*domain.User, bool) {
	return domain.UserFromContext(r.Context())
}

func isAdmin(r *http.Request) bool {
	user, ok := currentUser(r)
	return ok && user.Role.IsAdmin()
}

// ownerScope returns the user a write must be limited to: empty for admins,
// the caller's ID for everyone else.
func ownerScope(r *http.Request) (string, error) {
	if isAdmin(r) {
		return "", nil
	}
	user, ok := currentUser(r)
	if !ok {
		return "", domain.ErrMissingActor
	}
	return user.ID, nil
}

// visibleTo reports whether a non-admin caller may see a row they did not
// necessarily create. Admins see everything.
func visibleTo(r *http.Request, createdBy string, deleted bool) bool {
	if isAdmin(r) {
		return true
	}
	user, ok := currentUser(r)
	return ok && !deleted && user.ID == createdBy
}
