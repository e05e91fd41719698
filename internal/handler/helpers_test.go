package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/recipe-box/backend/internal/domain"
	"github.com/pkordes/recipe-box/backend/internal/handler"
	"github.com/pkordes/recipe-box/backend/internal/middleware"
)

const testOwner = "aaaaaaaaaaaaaaaaaaaaaaaa"

// --- mocks ------------------------------------------------------------------

type mockRecipeServicer struct {
	createFn func(ctx context.Context, ownerID string, in domain.RecipeInput) (domain.Recipe, error)
	listFn   func(ctx context.Context, ownerID string) ([]domain.Recipe, error)
	getFn    func(ctx context.Context, ownerID, ref string) (domain.Recipe, error)
	updateFn func(ctx context.Context, ownerID, ref string, in domain.RecipeInput) (domain.Recipe, error)
	deleteFn func(ctx context.Context, ownerID, ref string) (domain.Recipe, error)
}

var _ handler.RecipeServicer = (*mockRecipeServicer)(nil)

func (m *mockRecipeServicer) Create(ctx context.Context, ownerID string, in domain.RecipeInput) (domain.Recipe, error) {
	return m.createFn(ctx, ownerID, in)
}

func (m *mockRecipeServicer) List(ctx context.Context, ownerID string) ([]domain.Recipe, error) {
	return m.listFn(ctx, ownerID)
}

func (m *mockRecipeServicer) Get(ctx context.Context, ownerID, ref string) (domain.Recipe, error) {
	return m.getFn(ctx, ownerID, ref)
}

func (m *mockRecipeServicer) Update(ctx context.Context, ownerID, ref string, in domain.RecipeInput) (domain.Recipe, error) {
	return m.updateFn(ctx, ownerID, ref, in)
}

func (m *mockRecipeServicer) Delete(ctx context.Context, ownerID, ref string) (domain.Recipe, error) {
	return m.deleteFn(ctx, ownerID, ref)
}

type mockAuthServicer struct {
	registerFn func(ctx context.Context, name, email, password string) (domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, domain.User, error)
}

var _ handler.AuthServicer = (*mockAuthServicer)(nil)

func (m *mockAuthServicer) Register(ctx context.Context, name, email, password string) (domain.User, error) {
	return m.registerFn(ctx, name, email, password)
}

func (m *mockAuthServicer) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	return m.loginFn(ctx, email, password)
}

// tokenVerifier accepts the token "valid" as testOwner.
type tokenVerifier struct{}

func (tokenVerifier) Verify(token string) (string, error) {
	if token != "valid" {
		return "", errors.New("invalid token")
	}
	return testOwner, nil
}

// --- helpers ----------------------------------------------------------------

func newRouter(recipes handler.RecipeServicer, accounts handler.AuthServicer) http.Handler {
	if recipes == nil {
		recipes = &mockRecipeServicer{}
	}
	if accounts == nil {
		accounts = &mockAuthServicer{}
	}
	srv := handler.NewServer(recipes, accounts, nil)
	return srv.Routes(handler.RouteDeps{
		Authenticator: middleware.NewAuthenticator(tokenVerifier{}),
	})
}

// do sends a request with an optional JSON body. Requests to /recipes carry
// a valid bearer token.
func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer valid")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	var body handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}
