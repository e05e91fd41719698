package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/recipe-box/backend/internal/domain"
	"github.com/pkordes/recipe-box/backend/internal/slug"
)

// RecipeRepo defines the persistence operations for Recipes.
// Every read and write that addresses a single recipe takes a slug.Lookup,
// so the owner filter is applied in SQL and never forgotten by a caller.
type RecipeRepo interface {
	// Create inserts a new recipe and returns the persisted record with the
	// DB-generated ID and timestamps. Returns domain.ErrConflict if the owner
	// already has a recipe with the same slug.
	Create(ctx context.Context, recipe domain.Recipe) (domain.Recipe, error)

	// Get returns the single recipe matching the lookup.
	// Returns domain.ErrNotFound if no recipe of that owner matches.
	Get(ctx context.Context, l slug.Lookup) (domain.Recipe, error)

	// ListByOwner returns the owner's recipes, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Recipe, error)

	// Update overwrites the mutable fields (title, slug, category, ingredients,
	// instructions) of the recipe matching the lookup and returns the updated
	// record. Returns domain.ErrNotFound or domain.ErrConflict.
	Update(ctx context.Context, l slug.Lookup, recipe domain.Recipe) (domain.Recipe, error)

	// Delete removes the recipe matching the lookup and returns it.
	// Returns domain.ErrNotFound if no recipe of that owner matches.
	Delete(ctx context.Context, l slug.Lookup) (domain.Recipe, error)

	// CountSlugMatches counts the owner's recipes whose slug matches the
	// regular expression pattern, leaving out excludeID when it is non-empty.
	CountSlugMatches(ctx context.Context, ownerID, pattern, excludeID string) (int64, error)

	// ListMissingSlugs returns every recipe, across all owners, whose slug is
	// empty, oldest first.
	ListMissingSlugs(ctx context.Context) ([]domain.Recipe, error)

	// SetSlug sets the slug of the recipe with the given ID.
	SetSlug(ctx context.Context, id, s string) error
}

// compile-time check: the slug assigner can count against the repo directly.
var _ slug.Counter = (RecipeRepo)(nil)

type pgRecipeRepo struct {
	db db
}

// NewRecipeRepo constructs a RecipeRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewRecipeRepo(db db) RecipeRepo {
	return &pgRecipeRepo{db: db}
}

// recipeColumns is the select list shared by every query that returns a
// recipe; r is recipes and u is the owning user.
const recipeColumns = `r.id, r.owner_id, u.name, r.title, r.slug, r.category,
	r.ingredients, r.instructions, r.created_at, r.updated_at`

// lookupClause returns the WHERE fragment and arguments for l.
// The owner predicate is always present.
func lookupClause(l slug.Lookup) (string, pgx.NamedArgs) {
	args := pgx.NamedArgs{"owner_id": l.OwnerID}
	if l.ByID() {
		args["ref"] = l.ID
		return "r.owner_id = @owner_id AND r.id = @ref", args
	}
	args["ref"] = l.Slug
	return "r.owner_id = @owner_id AND r.slug = @ref", args
}

func (r *pgRecipeRepo) Create(ctx context.Context, recipe domain.Recipe) (domain.Recipe, error) {
	const q = `
		WITH r AS (
			INSERT INTO recipes (owner_id, title, slug, category, ingredients, instructions)
			VALUES (@owner_id, @title, @slug, @category, @ingredients, @instructions)
			RETURNING *
		)
		SELECT ` + recipeColumns + `
		FROM r
		JOIN users u ON u.id = r.owner_id`

	args := pgx.NamedArgs{
		"owner_id":     recipe.OwnerID,
		"title":        recipe.Title,
		"slug":         recipe.Slug,
		"category":     recipe.Category,
		"ingredients":  nonNil(recipe.Ingredients),
		"instructions": recipe.Instructions,
	}
	result, err := scanRecipe(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("repo.RecipeRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgRecipeRepo) Get(ctx context.Context, l slug.Lookup) (domain.Recipe, error) {
	where, args := lookupClause(l)
	q := `
		SELECT ` + recipeColumns + `
		FROM recipes r
		JOIN users u ON u.id = r.owner_id
		WHERE ` + where

	result, err := scanRecipe(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("repo.RecipeRepo.Get(%s): %w", l, err)
	}
	return result, nil
}

func (r *pgRecipeRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Recipe, error) {
	const q = `
		SELECT ` + recipeColumns + `
		FROM recipes r
		JOIN users u ON u.id = r.owner_id
		WHERE r.owner_id = @owner_id
		ORDER BY r.created_at DESC, r.id DESC`

	recipes, err := r.queryRecipes(ctx, q, pgx.NamedArgs{"owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("repo.RecipeRepo.ListByOwner: %w", err)
	}
	return recipes, nil
}

func (r *pgRecipeRepo) Update(ctx context.Context, l slug.Lookup, recipe domain.Recipe) (domain.Recipe, error) {
	where, args := lookupClause(l)
	q := `
		UPDATE recipes r
		SET title        = @title,
		    slug         = @slug,
		    category     = @category,
		    ingredients  = @ingredients,
		    instructions = @instructions,
		    updated_at   = now()
		FROM users u
		WHERE u.id = r.owner_id AND ` + where + `
		RETURNING ` + recipeColumns

	args["title"] = recipe.Title
	args["slug"] = recipe.Slug
	args["category"] = recipe.Category
	args["ingredients"] = nonNil(recipe.Ingredients)
	args["instructions"] = recipe.Instructions

	result, err := scanRecipe(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("repo.RecipeRepo.Update(%s): %w", l, err)
	}
	return result, nil
}

func (r *pgRecipeRepo) Delete(ctx context.Context, l slug.Lookup) (domain.Recipe, error) {
	where, args := lookupClause(l)
	q := `
		DELETE FROM recipes r
		USING users u
		WHERE u.id = r.owner_id AND ` + where + `
		RETURNING ` + recipeColumns

	result, err := scanRecipe(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("repo.RecipeRepo.Delete(%s): %w", l, err)
	}
	return result, nil
}

func (r *pgRecipeRepo) CountSlugMatches(ctx context.Context, ownerID, pattern, excludeID string) (int64, error) {
	const q = `
		SELECT count(*)
		FROM recipes
		WHERE owner_id = @owner_id
		  AND slug ~ @pattern
		  AND (@exclude_id::text = '' OR id <> @exclude_id::text)`

	args := pgx.NamedArgs{
		"owner_id":   ownerID,
		"pattern":    pattern,
		"exclude_id": excludeID,
	}
	var n int64
	if err := r.db.QueryRow(ctx, q, args).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.RecipeRepo.CountSlugMatches: %w", err)
	}
	return n, nil
}

func (r *pgRecipeRepo) ListMissingSlugs(ctx context.Context) ([]domain.Recipe, error) {
	const q = `
		SELECT ` + recipeColumns + `
		FROM recipes r
		JOIN users u ON u.id = r.owner_id
		WHERE r.slug = ''
		ORDER BY r.created_at, r.id`

	recipes, err := r.queryRecipes(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.RecipeRepo.ListMissingSlugs: %w", err)
	}
	return recipes, nil
}

func (r *pgRecipeRepo) SetSlug(ctx context.Context, id, s string) error {
	const q = `UPDATE recipes SET slug = @slug, updated_at = now() WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "slug": s})
	if err != nil {
		return fmt.Errorf("repo.RecipeRepo.SetSlug: %w", mapErr(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.RecipeRepo.SetSlug: %w", domain.ErrNotFound)
	}
	return nil
}

// queryRecipes runs q and scans every row. The result is never nil.
func (r *pgRecipeRepo) queryRecipes(ctx context.Context, q string, args ...any) ([]domain.Recipe, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := []domain.Recipe{}
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		recipes = append(recipes, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return recipes, nil
}

// scanRecipe maps a single row selected with recipeColumns into a domain.Recipe.
func scanRecipe(s scanner) (domain.Recipe, error) {
	var rec domain.Recipe
	err := s.Scan(
		&rec.ID, &rec.OwnerID, &rec.OwnerName, &rec.Title, &rec.Slug, &rec.Category,
		&rec.Ingredients, &rec.Instructions, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return domain.Recipe{}, mapErr(err)
	}
	return rec, nil
}

// nonNil keeps a nil slice from being written as SQL NULL into a NOT NULL array.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
