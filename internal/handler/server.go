// Package handler implements the HTTP handlers for the Recipe Box API.
// All handlers are methods on Server. Methods are split into resource files
// (health.go, auth.go, recipe.go) but share the same Server struct so they
// can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/pkordes/recipe-box/backend/internal/domain"
	"github.com/pkordes/recipe-box/backend/internal/middleware"
)

// RecipeServicer defines the business operations the recipe handlers depend on.
// ref is the raw {ref} path segment: a slug or a legacy 24-hex identifier.
type RecipeServicer interface {
	Create(ctx context.Context, ownerID string, in domain.RecipeInput) (domain.Recipe, error)
	List(ctx context.Context, ownerID string) ([]domain.Recipe, error)
	Get(ctx context.Context, ownerID, ref string) (domain.Recipe, error)
	Update(ctx context.Context, ownerID, ref string, in domain.RecipeInput) (domain.Recipe, error)
	Delete(ctx context.Context, ownerID, ref string) (domain.Recipe, error)
}

// AuthServicer defines the account operations the auth handlers depend on.
type AuthServicer interface {
	Register(ctx context.Context, name, email, password string) (domain.User, error)
	Login(ctx context.Context, email, password string) (string, domain.User, error)
}

// Server holds the dependencies shared by every handler.
type Server struct {
	recipes  RecipeServicer
	accounts AuthServicer
	validate *validator.Validate
	log      *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// A nil logger falls back to slog.Default().
func NewServer(recipes RecipeServicer, accounts AuthServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names in validation messages.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &Server{recipes: recipes, accounts: accounts, validate: v, log: log}
}

// RouteDeps carries the middleware the API routes are wired with.
type RouteDeps struct {
	// Authenticator guards every /recipes route. Required.
	Authenticator *middleware.Authenticator
	// AuthLimiter rate-limits /auth routes. Nil disables limiting.
	AuthLimiter *middleware.RateLimiter
	// Metrics counts recipe lookups by token kind. Nil disables counting.
	Metrics *middleware.Metrics
}

// Routes returns the API router. Cross-cutting middleware (request ID,
// logging, recovery, CORS, body limits) is applied by the caller.
// It panics if deps.Authenticator is nil.
func (s *Server) Routes(deps RouteDeps) chi.Router {
	if deps.Authenticator == nil {
		panic("handler: RouteDeps.Authenticator is required")
	}

	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/auth", func(r chi.Router) {
		if deps.AuthLimiter != nil {
			r.Use(deps.AuthLimiter.Handler)
		}
		r.Post("/register", s.Register)
		r.Post("/login", s.Login)
	})

	r.Route("/recipes", func(r chi.Router) {
		r.Use(deps.Authenticator.Handler)
		r.Get("/", s.ListRecipes)
		r.Post("/", s.CreateRecipe)

		r.Group(func(r chi.Router) {
			if deps.Metrics != nil {
				r.Use(deps.Metrics.CountLookups("ref"))
			}
			r.Get("/{ref}", s.GetRecipe)
			r.Put("/{ref}", s.UpdateRecipe)
			r.Delete("/{ref}", s.DeleteRecipe)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	return r
}
