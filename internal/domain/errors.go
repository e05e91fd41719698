package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist, or exists but belongs to a different owner.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing title, title longer than 60 characters).
// Handlers should map this to HTTP 400 Bad Request.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned by repo functions when a write violates a
// uniqueness constraint: a duplicate email on users, or a duplicate
// (owner_id, slug) pair on recipes.
var ErrConflict = errors.New("conflict")

// ErrUnauthorized is returned when credentials or a bearer token cannot be
// accepted. Handlers should map this to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")
