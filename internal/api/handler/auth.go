package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shoplane/support-chat/internal/api/response"
	"github.com/shoplane/support-chat/internal/domain"
	"github.com/shoplane/support-chat/internal/service"
)

// AuthHandler handles staff authentication endpoints
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles agent registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input domain.AgentCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if !checkStruct(w, input) {
		return
	}

	agent, err := h.authService.Register(r.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			response.Error(w, http.StatusConflict, "email already registered")
			return
		}
		response.DomainError(w, err)
		return
	}

	response.Created(w, map[string]any{
		"id":    agent.ID,
		"email": agent.Email,
		"name":  agent.Name,
	})
}

// Login handles agent login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input domain.AgentLogin
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if !checkStruct(w, input) {
		return
	}

	tokens, err := h.authService.Login(r.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(w, "invalid credentials")
			return
		}
		response.DomainError(w, err)
		return
	}

	response.OK(w, tokens)
}

// Refresh exchanges a refresh token for a new token pair
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if !checkStruct(w, req) {
		return
	}

	tokens, err := h.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		response.Unauthorized(w, "invalid refresh token")
		return
	}

	response.OK(w, tokens)
}
