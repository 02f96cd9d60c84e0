// Package handlers holds the request helpers shared by the HTTP handler
// packages.
package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/capstonehub/backend/internal/middleware"
	"github.com/capstonehub/backend/internal/models"
	"github.com/capstonehub/backend/pkg/httputil"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// MaxBodyBytes caps JSON request bodies.
const MaxBodyBytes = 1 << 20

var errEmptyBody = fmt.Errorf("request body is empty: %w", models.ErrInvalidInput)

// Actor returns the authenticated caller, or nil.
func Actor(r *http.Request) *models.Actor {
	return middleware.ActorFromContext(r.Context())
}

// PathUUID parses the named mux path variable as a UUID.
func PathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %w", name, models.ErrInvalidInput)
	}
	return id, nil
}

// DecodeJSON reads a JSON body into v. Malformed bodies and unknown fields
// are reported as invalid input.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := httputil.ParseJSONBody(r, v); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return fmt.Errorf("invalid request body: %s: %w", strings.TrimPrefix(err.Error(), "json: "), models.ErrInvalidInput)
	}
	return nil
}

// DecodeOptionalJSON is DecodeJSON but accepts an empty body.
func DecodeOptionalJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := DecodeJSON(w, r, v); err != nil && !errors.Is(err, errEmptyBody) {
		return err
	}
	return nil
}

// StatusUpdate is the body of the account activation endpoints.
type StatusUpdate struct {
	IsActive *bool `json:"is_active"`
}

// ParseStatusUpdate decodes a StatusUpdate and requires is_active.
func ParseStatusUpdate(w http.ResponseWriter, r *http.Request) (bool, error) {
	var body StatusUpdate
	if err := DecodeJSON(w, r, &body); err != nil {
		return false, err
	}
	if body.IsActive == nil {
		return false, fmt.Errorf("is_active is required: %w", models.ErrInvalidInput)
	}
	return *body.IsActive, nil
}
