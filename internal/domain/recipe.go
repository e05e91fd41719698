// Package domain contains the core data types for the Recipe Box application.
// This package has zero external dependencies and is imported by every other
// internal package (repo, service, handler).
package domain

import "time"

// MaxTitleLength is the longest title a recipe may carry, in characters.
const MaxTitleLength = 60

// Recipe is a single recipe owned by exactly one user.
//
// ID is the storage-assigned identifier (24 lowercase hex characters) and is
// kept forever so links created before slugs existed keep resolving.
// Slug is derived from Title and is unique per owner, not globally.
// OwnerName is populated on reads only.
type Recipe struct {
	ID           string
	OwnerID      string
	OwnerName    string
	Title        string
	Slug         string
	Category     string
	Ingredients  []string
	Instructions string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RecipeInput carries the client-editable fields of a recipe for create and
// update. Owner, slug, and timestamps are never taken from the client.
type RecipeInput struct {
	Title        string
	Category     string
	Ingredients  []string
	Instructions string
}
