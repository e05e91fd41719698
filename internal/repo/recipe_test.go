package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/recipe-box/backend/internal/domain"
	"github.com/pkordes/recipe-box/backend/internal/repo"
	"github.com/pkordes/recipe-box/backend/internal/slug"
	"github.com/pkordes/recipe-box/backend/testutil"
)

type recipeEnv struct {
	recipes repo.RecipeRepo
	users   repo.UserRepo
}

func newRecipeEnv(t *testing.T) recipeEnv {
	t.Helper()
	tx := testutil.NewTx(t)
	return recipeEnv{recipes: repo.NewRecipeRepo(tx), users: repo.NewUserRepo(tx)}
}

// owner creates a user inside the test transaction and returns its ID.
func (e recipeEnv) owner(t *testing.T) string {
	t.Helper()
	u, err := e.users.Create(context.Background(), userFixture())
	require.NoError(t, err)
	return u.ID
}

func recipeFixture(ownerID, s string) domain.Recipe {
	return domain.Recipe{
		OwnerID:      ownerID,
		Title:        "Pancakes",
		Slug:         s,
		Category:     "Breakfast",
		Ingredients:  []string{"flour", "milk", "egg"},
		Instructions: "Mix and fry.",
	}
}

func TestRecipeRepo_Create(t *testing.T) {
	env := newRecipeEnv(t)
	owner := env.owner(t)
	input := recipeFixture(owner, "pancakes")

	got, err := env.recipes.Create(context.Background(), input)

	require.NoError(t, err)
	assert.Regexp(t, `^[0-9a-f]{24}$`, got.ID)
	assert.Equal(t, owner, got.OwnerID)
	assert.Equal(t, "Alice", got.OwnerName)
	assert.Equal(t, "pancakes", got.Slug)
	assert.Equal(t, input.Ingredients, got.Ingredients)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestRecipeRepo_Create_DuplicateSlugSameOwner(t *testing.T) {
	env := newRecipeEnv(t)
	ctx := context.Background()
	owner := env.owner(t)

	_, err := env.recipes.Create(ctx, recipeFixture(owner, "pancakes"))
	require.NoError(t, err)

	_, err = env.recipes.Create(ctx, recipeFixture(owner, "pancakes"))
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRecipeRepo_Create_SameSlugDifferentOwners(t *testing.T) {
	env := newRecipeEnv(t)
	ctx := context.Background()

	_, err := env.recipes.Create(ctx, recipeFixture(env.owner(t), "pancakes"))
	require.NoError(t, err)
	_, err = env.recipes.Create(ctx, recipeFixture(env.owner(t), "pancakes"))
	assert.NoError(t, err)
}

func TestRecipeRepo_Create_EmptySlugsDoNotCollide(t *testing.T) {
	env := newRecipeEnv(t)
	ctx := context.Background()
	owner := env.owner(t)

	_, err := env.recipes.Create(ctx, recipeFixture(owner, ""))
	require.NoError(t, err)
	_, err = env.recipes.Create(ctx, recipeFixture(owner, ""))
	assert.NoError(t, err)
}

func TestRecipeRepo_Get_BySlugAndByID(t *testing.T) {
	env := newRecipeEnv(t)
	ctx := context.Background()
	owner := env.owner(t)
	created, err := env.recipes.Create(ctx, recipeFixture(owner, "pancakes"))
	require.NoError(t, err)

	bySlug, err := env.recipes.Get(ctx, slug.BuildLookup("pancakes", owner))
	require.NoError(t, err)
	assert.Equal(t, created.ID, bySlug.ID)

	byID, err := env.recipes.Get(ctx, slug.BuildLookup(created.ID, owner))
	require.NoError(t, err)
	assert.Equal(t, created.ID, byID.ID)
}

func TestRecipeRepo_Get_OtherOwnerNotFound(t *testing.T) {
	env := newRecipeEnv(t)
	ctx := context.Background()
	created, err := env.recipes.Create(ctx, recipeFixture(env.owner(t), "pancakes"))
	require.NoError(t, err)
	stranger := env.owner(t)

	_, err = env.recipes.Get(ctx, slug.BuildLookup("pancakes", stranger))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.recipes.Get(ctx, slug.BuildLookup(created.ID, stranger))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecipeRepo_ListByOwner(t *testing.T) {
	env := newRecipeEnv(t)
	ctx := context.Background()
	owner := env.owner(t)
	other := env.owner(t)

	for _, s := range []string{"a", "b"} {
		_, err := env.recipes.Create(ctx, recipeFixture(owner, s))
		require.NoError(t, err)
	}
	_, err := env.recipes.Create(ctx, recipeFixture(other, "c"))
	require.NoError(t, err)

	got, err := env.recipes.ListByOwner(ctx, owner)

	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, r := range got {
		assert.Equal(t, owner, r.OwnerID)
	}
}

func TestRecipeRepo_ListByOwner_Empty(t *testing.T) {
	env := newRecipeEnv(t)

	got, err := env.recipes.ListByOwner(context.Background(), env.owner(t))

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRecipeRepo_Update(t *testing.T) {
	env := newRecipeEnv(t)
	ctx := context.Background()
	owner := env.owner(t)
	created, err := env.recipes.Create(ctx, recipeFixture(owner, "pancakes"))
	require.NoError(t, err)

	change := created
	change.Title = "Waffles"
	change.Slug = "waffles"
	change.Ingredients = []string{"batter"}

	got, err := env.recipes.Update(ctx, slug.BuildLookup("pancakes", owner), change)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Waffles", got.Title)
	assert.Equal(t, "waffles", got.Slug)
	assert.Equal(t, []string{"batter"}, got.Ingredients)
	assert.Equal(t, "Alice", got.OwnerName)
}

func TestRecipeRepo_Update_NotFound(t *testing.T) {
	env := newRecipeEnv(t)

	_, err := env.recipes.Update(context.Background(), slug.BuildLookup("missing", env.owner(t)), recipeFixture("", "x"))

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecipeRepo_Delete(t *testing.T) {
	env := newRecipeEnv(t)
	ctx := context.Background()
	owner := env.owner(t)
	created, err := env.recipes.Create(ctx, recipeFixture(owner, "pancakes"))
	require.NoError(t, err)

	deleted, err := env.recipes.Delete(ctx, slug.BuildLookup(created.ID, owner))
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = env.recipes.Get(ctx, slug.BuildLookup(created.ID, owner))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.recipes.Delete(ctx, slug.BuildLookup(created.ID, owner))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecipeRepo_CountSlugMatches(t *testing.T) {
	env := newRecipeEnv(t)
	ctx := context.Background()
	owner := env.owner(t)
	other := env.owner(t)

	var firstID string
	for i, s := range []string{"pancakes", "pancakes-1", "pancakes-2", "blueberry-pancakes", "pancakes-x"} {
		r, err := env.recipes.Create(ctx, recipeFixture(owner, s))
		require.NoError(t, err)
		if i == 0 {
			firstID = r.ID
		}
	}
	_, err := env.recipes.Create(ctx, recipeFixture(other, "pancakes"))
	require.NoError(t, err)

	pattern := slug.SuffixPattern("pancakes")

	n, err := env.recipes.CountSlugMatches(ctx, owner, pattern, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = env.recipes.CountSlugMatches(ctx, owner, pattern, firstID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestRecipeRepo_ListMissingSlugsAndSetSlug(t *testing.T) {
	env := newRecipeEnv(t)
	ctx := context.Background()
	owner := env.owner(t)
	legacy, err := env.recipes.Create(ctx, recipeFixture(owner, ""))
	require.NoError(t, err)

	missing, err := env.recipes.ListMissingSlugs(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(missing))
	for _, r := range missing {
		ids = append(ids, r.ID)
	}
	assert.Contains(t, ids, legacy.ID)

	require.NoError(t, env.recipes.SetSlug(ctx, legacy.ID, "pancakes"))

	got, err := env.recipes.Get(ctx, slug.BuildLookup("pancakes", owner))
	require.NoError(t, err)
	assert.Equal(t, legacy.ID, got.ID)

	assert.ErrorIs(t, env.recipes.SetSlug(ctx, "000000000000000000000000", "x"), domain.ErrNotFound)
}
