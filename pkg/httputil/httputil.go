package httputil

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/capstonehub/backend/pkg/debug"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

// RespondWithError sends an error response with the given status code and message.
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Error: message, Code: CodeForStatus(code)})
}

// RespondWithErrorCode sends an error response with an explicit error code.
func RespondWithErrorCode(w http.ResponseWriter, status int, code, message string) {
	RespondWithJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// RespondWithJSON sends a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		debug.Error("Failed to encode JSON response: %v", err)
	}
}

// RespondWithData wraps payload in the {"data": ...} envelope.
func RespondWithData(w http.ResponseWriter, code int, payload interface{}) {
	RespondWithJSON(w, code, map[string]interface{}{"data": payload})
}

// RespondWithList wraps a page of results with its paging metadata.
func RespondWithList(w http.ResponseWriter, items interface{}, total int, page Page) {
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"data":  items,
		"total": total,
		"page":  page.Page,
		"limit": page.Limit,
	})
}

// ParseJSONBody decodes the request body into v, rejecting unknown fields.
func ParseJSONBody(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// GetQueryParam gets a query parameter from the request.
func GetQueryParam(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// GetQueryParamWithDefault gets a query parameter with a default value.
func GetQueryParamWithDefault(r *http.Request, key, defaultValue string) string {
	value := GetQueryParam(r, key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetBoolQueryParam gets a boolean query parameter from the request.
func GetBoolQueryParam(r *http.Request, key string) bool {
	value := strings.ToLower(r.URL.Query().Get(key))
	return value == "true" || value == "1" || value == "yes"
}

// GetIntQueryParam gets an integer query parameter from the request.
func GetIntQueryParam(r *http.Request, key string, defaultValue int) int {
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

// Paging defaults for list endpoints.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage keeps Offset well inside int range.
	MaxPage = 100000
)

// Page is a 1-based page request.
type Page struct {
	Page  int
	Limit int
}

// Offset returns the row offset of the page.
func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ParsePage reads page and limit query parameters, clamping them to sane
// bounds.
func ParsePage(r *http.Request) Page {
	page := GetIntQueryParam(r, "page", 1)
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	limit := GetIntQueryParam(r, "limit", DefaultPageSize)
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return Page{Page: page, Limit: limit}
}
