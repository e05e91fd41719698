package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/recipe-box/backend/internal/domain"
	"github.com/pkordes/recipe-box/backend/internal/middleware"
)

// RecipeRequest is the body of POST /recipes and PUT /recipes/{ref}.
type RecipeRequest struct {
	Title        string   `json:"title" validate:"required,max=60"`
	Category     string   `json:"category" validate:"required"`
	Ingredients  []string `json:"ingredients" validate:"required,min=1"`
	Instructions string   `json:"instructions" validate:"required"`
}

// OwnerResponse identifies the user who owns a recipe.
type OwnerResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RecipeResponse is the JSON representation of a recipe.
type RecipeResponse struct {
	ID           string        `json:"id"`
	Slug         string        `json:"slug"`
	Title        string        `json:"title"`
	Category     string        `json:"category"`
	Ingredients  []string      `json:"ingredients"`
	Instructions string        `json:"instructions"`
	Owner        OwnerResponse `json:"owner"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// DeleteResponse confirms a deletion and names the removed recipe.
type DeleteResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
	Slug    string `json:"slug"`
}

const recipeNotFound = "recipe not found"

// CreateRecipe handles POST /recipes.
func (s *Server) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	var req RecipeRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	created, err := s.recipes.Create(r.Context(), middleware.OwnerFromContext(r.Context()), req.toInput())
	if err != nil {
		s.writeServiceError(w, r, err, recipeNotFound)
		return
	}

	w.Header().Set("Location", "/recipes/"+created.Slug)
	writeJSON(w, http.StatusCreated, recipeToResponse(created))
}

// ListRecipes handles GET /recipes. Only the caller's recipes are returned,
// newest first.
func (s *Server) ListRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := s.recipes.List(r.Context(), middleware.OwnerFromContext(r.Context()))
	if err != nil {
		s.writeServiceError(w, r, err, recipeNotFound)
		return
	}

	data := make([]RecipeResponse, len(recipes))
	for i, rec := range recipes {
		data[i] = recipeToResponse(rec)
	}
	writeJSON(w, http.StatusOK, data)
}

// GetRecipe handles GET /recipes/{ref}, where ref is a slug or a legacy id.
func (s *Server) GetRecipe(w http.ResponseWriter, r *http.Request) {
	rec, err := s.recipes.Get(r.Context(), middleware.OwnerFromContext(r.Context()), chi.URLParam(r, "ref"))
	if err != nil {
		s.writeServiceError(w, r, err, recipeNotFound)
		return
	}
	writeJSON(w, http.StatusOK, recipeToResponse(rec))
}

// UpdateRecipe handles PUT /recipes/{ref}.
func (s *Server) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	var req RecipeRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	updated, err := s.recipes.Update(r.Context(), middleware.OwnerFromContext(r.Context()), chi.URLParam(r, "ref"), req.toInput())
	if err != nil {
		s.writeServiceError(w, r, err, recipeNotFound)
		return
	}
	writeJSON(w, http.StatusOK, recipeToResponse(updated))
}

// DeleteRecipe handles DELETE /recipes/{ref}.
func (s *Server) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.recipes.Delete(r.Context(), middleware.OwnerFromContext(r.Context()), chi.URLParam(r, "ref"))
	if err != nil {
		s.writeServiceError(w, r, err, recipeNotFound)
		return
	}
	writeJSON(w, http.StatusOK, DeleteResponse{
		Message: "Recipe deleted",
		ID:      deleted.ID,
		Slug:    deleted.Slug,
	})
}

// --- mapping helpers --------------------------------------------------------

func (req RecipeRequest) toInput() domain.RecipeInput {
	return domain.RecipeInput{
		Title:        req.Title,
		Category:     req.Category,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
	}
}

func recipeToResponse(r domain.Recipe) RecipeResponse {
	ingredients := r.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	return RecipeResponse{
		ID:           r.ID,
		Slug:         r.Slug,
		Title:        r.Title,
		Category:     r.Category,
		Ingredients:  ingredients,
		Instructions: r.Instructions,
		Owner:        OwnerResponse{ID: r.OwnerID, Name: r.OwnerName},
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
