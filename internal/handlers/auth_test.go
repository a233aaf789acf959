package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/restu-lomboe/grip-principle/internal/auth"
	"github.com/restu-lomboe/grip-principle/internal/handlers"
	"github.com/restu-lomboe/grip-principle/internal/services"
	"github.com/restu-lomboe/grip-principle/internal/store"
	"github.com/restu-lomboe/grip-principle/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

type mockUserRepo struct {
	getByUsernameFn  func(ctx context.Context, username string) (types.User, error)
	createFn         func(ctx context.Context, user types.User) (types.User, error)
	updatePasswordFn func(ctx context.Context, username, passwordHash string) error
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (types.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return types.User{}, store.ErrNotFound
}

func (m *mockUserRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	user.ID = 1
	return user, nil
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	if m.updatePasswordFn != nil {
		return m.updatePasswordFn(ctx, username, passwordHash)
	}
	return nil
}

type mockBookRepo struct {
	listFn   func(ctx context.Context) ([]types.Book, error)
	createFn func(ctx context.Context, book types.Book) (types.Book, error)
	updateFn func(ctx context.Context, id int, book string) error
	deleteFn func(ctx context.Context, id int) error
}

func (m *mockBookRepo) List(ctx context.Context) ([]types.Book, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []types.Book{}, nil
}

func (m *mockBookRepo) Create(ctx context.Context, book types.Book) (types.Book, error) {
	if m.createFn != nil {
		return m.createFn(ctx, book)
	}
	book.ID = 1
	return book, nil
}

func (m *mockBookRepo) Update(ctx context.Context, id int, book string) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, book)
	}
	return nil
}

func (m *mockBookRepo) Delete(ctx context.Context, id int) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func newTestRouter(userRepo services.UserRepository, bookRepo services.BookRepository) (*chi.Mux, *auth.TokenService) {
	tokens := auth.NewTokenService([]byte(testSecret), time.Hour)
	userService := services.NewUserService(userRepo, nil, "")
	bookService := services.NewBookService(bookRepo, nil, "")
	requireAuth := handlers.RequireAuth(tokens)

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		handlers.AuthRouter(r, userService, tokens, requireAuth)
		handlers.BookRouter(r, bookService, requireAuth)
	})
	return router, tokens
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestRegisterSuccess(t *testing.T) {
	var created types.User
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user types.User) (types.User, error) {
			user.ID = 7
			created = user
			return user, nil
		},
	}
	router, _ := newTestRouter(repo, &mockBookRepo{})

	rec := doJSON(t, router, http.MethodPost, "/api/register", "", map[string]string{
		"username": "alice",
		"password": "hunter2",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"User registered successfully"}`, rec.Body.String())

	assert.Equal(t, "alice", created.Username)
	assert.NotEqual(t, "hunter2", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("hunter2")))
}

func TestRegisterDuplicate(t *testing.T) {
	repo := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (types.User, error) {
			return types.User{ID: 1, Username: username}, nil
		},
	}
	router, _ := newTestRouter(repo, &mockBookRepo{})

	rec := doJSON(t, router, http.MethodPost, "/api/register", "", map[string]string{
		"username": "alice",
		"password": "hunter2",
	})

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"message":"User already exists"}`, rec.Body.String())
}

func TestRegisterConstraintViolationWinsRace(t *testing.T) {
	// The pre-insert lookup misses, but a concurrent insert trips the
	// unique constraint. That still surfaces as a conflict.
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user types.User) (types.User, error) {
			return types.User{}, store.ErrDuplicate
		},
	}
	router, _ := newTestRouter(repo, &mockBookRepo{})

	rec := doJSON(t, router, http.MethodPost, "/api/register", "", map[string]string{
		"username": "alice",
		"password": "hunter2",
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegisterMissingFields(t *testing.T) {
	router, _ := newTestRouter(&mockUserRepo{}, &mockBookRepo{})

	rec := doJSON(t, router, http.MethodPost, "/api/register", "", map[string]string{
		"username": "alice",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	repo := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (types.User, error) {
			return types.User{ID: 42, Username: username, PasswordHash: hashPassword(t, "hunter2")}, nil
		},
	}
	router, tokens := newTestRouter(repo, &mockBookRepo{})

	rec := doJSON(t, router, http.MethodPost, "/api/login", "", map[string]string{
		"username": "alice",
		"password": "hunter2",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handlers.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	claims, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "alice", claims.Username)

	// Gateway accepts it.
	logout := doJSON(t, router, http.MethodPost, "/api/logout", resp.Token, nil)
	assert.Equal(t, http.StatusOK, logout.Code)
	assert.JSONEq(t, `{"message":"Logout successfully"}`, logout.Body.String())
}

func TestLoginFailureShapeIsUniform(t *testing.T) {
	repo := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (types.User, error) {
			if username == "alice" {
				return types.User{ID: 1, Username: username, PasswordHash: hashPassword(t, "hunter2")}, nil
			}
			return types.User{}, store.ErrNotFound
		},
	}
	router, _ := newTestRouter(repo, &mockBookRepo{})

	wrongPassword := doJSON(t, router, http.MethodPost, "/api/login", "", map[string]string{
		"username": "alice",
		"password": "wrong",
	})
	unknownUser := doJSON(t, router, http.MethodPost, "/api/login", "", map[string]string{
		"username": "nobody",
		"password": "hunter2",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownUser.Body.String())
}

func TestGatewayMissingToken(t *testing.T) {
	router, _ := newTestRouter(&mockUserRepo{}, &mockBookRepo{})

	rec := doJSON(t, router, http.MethodPost, "/api/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestGatewayRejectsTamperedAndExpired(t *testing.T) {
	router, tokens := newTestRouter(&mockUserRepo{}, &mockBookRepo{})

	token, err := tokens.Issue(1, "alice")
	require.NoError(t, err)

	tampered := doJSON(t, router, http.MethodPost, "/api/logout", token[:len(token)-2]+"xx", nil)
	assert.Equal(t, http.StatusForbidden, tampered.Code)
	assert.Empty(t, tampered.Body.String())

	expiredTokens := auth.NewTokenService([]byte(testSecret), -time.Minute)
	expiredToken, err := expiredTokens.Issue(1, "alice")
	require.NoError(t, err)

	expired := doJSON(t, router, http.MethodPost, "/api/logout", expiredToken, nil)
	assert.Equal(t, http.StatusForbidden, expired.Code)
	assert.Empty(t, expired.Body.String())
}

func TestChangePasswordSamePasswordRejected(t *testing.T) {
	repo := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (types.User, error) {
			return types.User{ID: 1, Username: username, PasswordHash: hashPassword(t, "a")}, nil
		},
	}
	router, tokens := newTestRouter(repo, &mockBookRepo{})

	token, err := tokens.Issue(1, "alice")
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodPost, "/api/change-password", token, map[string]string{
		"passwordOld": "a",
		"passwordNew": "a",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Old password and new password cannot be same"}`, rec.Body.String())
}

func TestChangePasswordWrongOldPassword(t *testing.T) {
	repo := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (types.User, error) {
			return types.User{ID: 1, Username: username, PasswordHash: hashPassword(t, "hunter2")}, nil
		},
	}
	router, tokens := newTestRouter(repo, &mockBookRepo{})

	token, err := tokens.Issue(1, "alice")
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodPost, "/api/change-password", token, map[string]string{
		"passwordOld": "wrong",
		"passwordNew": "newpass",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Old password does not match"}`, rec.Body.String())
}

func TestChangePasswordPersistsNewHash(t *testing.T) {
	var savedHash string
	repo := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (types.User, error) {
			return types.User{ID: 1, Username: username, PasswordHash: hashPassword(t, "hunter2")}, nil
		},
		updatePasswordFn: func(ctx context.Context, username, passwordHash string) error {
			savedHash = passwordHash
			return nil
		},
	}
	router, tokens := newTestRouter(repo, &mockBookRepo{})

	token, err := tokens.Issue(1, "alice")
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodPost, "/api/change-password", token, map[string]string{
		"passwordOld": "hunter2",
		"passwordNew": "newpass",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"change password successfully"}`, rec.Body.String())

	require.NotEmpty(t, savedHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(savedHash), []byte("newpass")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(savedHash), []byte("hunter2")))
}
