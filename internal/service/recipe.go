// Package service contains the business logic for the Recipe Box API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pkordes/recipe-box/backend/internal/domain"
	"github.com/pkordes/recipe-box/backend/internal/repo"
	"github.com/pkordes/recipe-box/backend/internal/slug"
)

// RecipeService implements business logic for Recipe operations.
// Every operation is scoped to an owner ID taken from a verified token.
type RecipeService struct {
	recipes repo.RecipeRepo
}

// NewRecipeService constructs a RecipeService backed by the provided RecipeRepo.
func NewRecipeService(r repo.RecipeRepo) *RecipeService {
	return &RecipeService{recipes: r}
}

// Create validates the input, assigns a slug unique among the owner's
// recipes, and persists the recipe.
// Returns domain.ErrValidation for invalid input and domain.ErrConflict if a
// concurrent create claimed the same slug first.
func (s *RecipeService) Create(ctx context.Context, ownerID string, in domain.RecipeInput) (domain.Recipe, error) {
	in = normalizeRecipe(in)
	if err := validateRecipe(in); err != nil {
		return domain.Recipe{}, err
	}

	sl, err := slug.Assign(ctx, s.recipes, in.Title, ownerID, "")
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("service.RecipeService.Create: %w", err)
	}

	created, err := s.recipes.Create(ctx, domain.Recipe{
		OwnerID:      ownerID,
		Title:        in.Title,
		Slug:         sl,
		Category:     in.Category,
		Ingredients:  in.Ingredients,
		Instructions: in.Instructions,
	})
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("service.RecipeService.Create: %w", err)
	}
	return created, nil
}

// List returns the owner's recipes, newest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *RecipeService) List(ctx context.Context, ownerID string) ([]domain.Recipe, error) {
	recipes, err := s.recipes.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service.RecipeService.List: %w", err)
	}
	if recipes == nil {
		return []domain.Recipe{}, nil
	}
	return recipes, nil
}

// Get returns the owner's recipe addressed by ref, which is either a slug or
// a legacy 24-hex identifier.
// Returns domain.ErrNotFound if the owner has no such recipe.
func (s *RecipeService) Get(ctx context.Context, ownerID, ref string) (domain.Recipe, error) {
	result, err := s.recipes.Get(ctx, slug.BuildLookup(ref, ownerID))
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("service.RecipeService.Get: %w", err)
	}
	return result, nil
}

// Update replaces the editable fields of the owner's recipe addressed by ref.
// The slug is reassigned only when the title's base slug changes; an edit
// that derives to the same base keeps the current slug and suffix.
func (s *RecipeService) Update(ctx context.Context, ownerID, ref string, in domain.RecipeInput) (domain.Recipe, error) {
	in = normalizeRecipe(in)
	if err := validateRecipe(in); err != nil {
		return domain.Recipe{}, err
	}

	current, err := s.recipes.Get(ctx, slug.BuildLookup(ref, ownerID))
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("service.RecipeService.Update: %w", err)
	}

	next := current
	next.Title = in.Title
	next.Category = in.Category
	next.Ingredients = in.Ingredients
	next.Instructions = in.Instructions

	if slug.Derive(in.Title) != slug.Derive(current.Title) {
		next.Slug, err = slug.Assign(ctx, s.recipes, in.Title, ownerID, current.ID)
		if err != nil {
			return domain.Recipe{}, fmt.Errorf("service.RecipeService.Update: %w", err)
		}
	}

	// Address the write by ID: the slug in ref may be the one being replaced.
	updated, err := s.recipes.Update(ctx, slug.Lookup{OwnerID: ownerID, ID: current.ID}, next)
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("service.RecipeService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes the owner's recipe addressed by ref and returns it.
// Returns domain.ErrNotFound if the owner has no such recipe.
func (s *RecipeService) Delete(ctx context.Context, ownerID, ref string) (domain.Recipe, error) {
	deleted, err := s.recipes.Delete(ctx, slug.BuildLookup(ref, ownerID))
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("service.RecipeService.Delete: %w", err)
	}
	return deleted, nil
}

// BackfillSlugs assigns a slug to every recipe stored without one, in
// creation order, and returns how many were updated. Each recipe is left out
// of its own uniqueness count. Titles without a letter or digit are skipped.
// It stops at the first failure; recipes already updated stay updated.
func (s *RecipeService) BackfillSlugs(ctx context.Context) (int, error) {
	pending, err := s.recipes.ListMissingSlugs(ctx)
	if err != nil {
		return 0, fmt.Errorf("service.RecipeService.BackfillSlugs: %w", err)
	}

	updated := 0
	for _, r := range pending {
		if strings.Trim(slug.Derive(r.Title), "-") == "" {
			// No usable slug; the recipe stays reachable by ID.
			continue
		}
		sl, err := slug.Assign(ctx, s.recipes, r.Title, r.OwnerID, r.ID)
		if err != nil {
			return updated, fmt.Errorf("service.RecipeService.BackfillSlugs: recipe %s: %w", r.ID, err)
		}
		if err := s.recipes.SetSlug(ctx, r.ID, sl); err != nil {
			return updated, fmt.Errorf("service.RecipeService.BackfillSlugs: recipe %s: %w", r.ID, err)
		}
		updated++
	}
	return updated, nil
}

// normalizeRecipe trims surrounding whitespace and drops blank ingredients.
// The title is stored as given; its slug is derived from it verbatim.
func normalizeRecipe(in domain.RecipeInput) domain.RecipeInput {
	in.Category = strings.TrimSpace(in.Category)
	in.Instructions = strings.TrimSpace(in.Instructions)

	ingredients := make([]string, 0, len(in.Ingredients))
	for _, ing := range in.Ingredients {
		if t := strings.TrimSpace(ing); t != "" {
			ingredients = append(ingredients, t)
		}
	}
	in.Ingredients = ingredients
	return in
}

// validateRecipe enforces business rules common to Create and Update.
//   - Title is required and at most domain.MaxTitleLength characters.
//   - Title must contain at least one letter, digit, or underscore so it
//     derives a non-empty slug.
//   - Category and instructions are required.
//   - At least one ingredient is required.
func validateRecipe(in domain.RecipeInput) error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	case utf8.RuneCountInString(in.Title) > domain.MaxTitleLength:
		return fmt.Errorf("%w: title cannot be more than %d characters", domain.ErrValidation, domain.MaxTitleLength)
	case strings.Trim(slug.Derive(in.Title), "-") == "":
		return fmt.Errorf("%w: title must contain at least one letter or digit", domain.ErrValidation)
	case in.Category == "":
		return fmt.Errorf("%w: category is required", domain.ErrValidation)
	case len(in.Ingredients) == 0:
		return fmt.Errorf("%w: at least one ingredient is required", domain.ErrValidation)
	case in.Instructions == "":
		return fmt.Errorf("%w: instructions are required", domain.ErrValidation)
	}
	return nil
}
