package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/restu-lomboe/grip-principle/internal/auth"
	"github.com/restu-lomboe/grip-principle/internal/services"
)

// AuthHandler provides registration, login, password change and logout.
type AuthHandler struct {
	userService *services.UserService
	tokens      *auth.TokenService
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(userService *services.UserService, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		tokens:      tokens,
	}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, userService *services.UserService, tokens *auth.TokenService, requireAuth func(http.Handler) http.Handler) {
	handler := NewAuthHandler(userService, tokens)

	r.Post("/register", handler.Register)
	r.Post("/login", handler.Login)
	r.With(requireAuth).Post("/change-password", handler.ChangePassword)
	r.With(requireAuth).Post("/logout", handler.Logout)
}

// RequireAuth builds the bearer-token gateway middleware. A missing token
// short-circuits with 401, a present but invalid or expired one with 403;
// neither carries a body. On success the claims land in the request context.
func RequireAuth(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := bearerToken(r)
			if err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Verify(tokenString)
			if err != nil {
				w.WriteHeader(http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), contextClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Register creates a new user account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "missing required fields")
		return
	}

	if _, err := h.userService.Register(r.Context(), req.Username, req.Password); err != nil {
		if errors.Is(err, services.ErrUsernameTaken) {
			writeMessage(w, http.StatusConflict, "User already exists")
			return
		}
		log.Printf("register %q: %v", req.Username, err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeMessage(w, http.StatusOK, "User registered successfully")
}

// Login verifies credentials and returns a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "missing credentials")
		return
	}

	user, err := h.userService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeMessage(w, http.StatusUnauthorized, "Authentication failed")
			return
		}
		log.Printf("login %q: %v", req.Username, err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Username)
	if err != nil {
		log.Printf("issue token for %q: %v", user.Username, err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{Token: token})
}

// ChangePassword replaces the authenticated user's password. The user is
// resolved from the token's username, not the request body.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFromContext(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}

	err = h.userService.ChangePassword(r.Context(), claims.Username, req.PasswordOld, req.PasswordNew)
	switch {
	case err == nil:
		writeMessage(w, http.StatusOK, "change password successfully")
	case errors.Is(err, services.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "Old password does not match")
	case errors.Is(err, services.ErrSamePassword):
		writeMessage(w, http.StatusBadRequest, "Old password and new password cannot be same")
	default:
		log.Printf("change password for %q: %v", claims.Username, err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

// Logout acknowledges the client discarding its token. Tokens are not
// revoked server-side; verification stays stateless.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, "Logout successfully")
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	PasswordOld string `json:"passwordOld"`
	PasswordNew string `json:"passwordNew"`
}

func bearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", errors.New("missing authorization")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("invalid authorization")
	}
	return token, nil
}
