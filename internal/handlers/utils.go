package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/restu-lomboe/grip-principle/internal/auth"
)

type contextKey string

const contextClaimsKey contextKey = "claims"

// MessageResponse is the standard {message} payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

func claimsFromContext(ctx context.Context) (auth.Claims, error) {
	claims, ok := ctx.Value(contextClaimsKey).(auth.Claims)
	if !ok {
		return auth.Claims{}, errors.New("missing claims")
	}
	return claims, nil
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, MessageResponse{Message: message})
}
