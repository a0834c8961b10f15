package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shoplane/support-chat/internal/domain"
	"github.com/shoplane/support-chat/internal/security"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any login failure without revealing
// which part was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService handles staff agent authentication
type AuthService struct {
	agentRepo  domain.AgentRepository
	jwtManager *security.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(agentRepo domain.AgentRepository, jwtManager *security.JWTManager) *AuthService {
	return &AuthService{
		agentRepo:  agentRepo,
		jwtManager: jwtManager,
	}
}

// Register creates a new agent account
func (s *AuthService) Register(ctx context.Context, input domain.AgentCreate) (*domain.SupportAgent, error) {
	exists, err := s.agentRepo.EmailExists(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	agent := &domain.SupportAgent{
		ID:           uuid.New(),
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.agentRepo.Create(ctx, agent); err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	return agent, nil
}

// Login authenticates an agent and returns tokens
func (s *AuthService) Login(ctx context.Context, input domain.AgentLogin) (*domain.TokenPair, error) {
	agent, err := s.agentRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get agent: %w", err)
	}
	if agent == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(agent.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, refreshToken, expiresIn, err := s.jwtManager.GenerateTokenPair(agent.ID, agent.Email, agent.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}

// Refresh refreshes the access token using a refresh token
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	agentID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}

	agent, err := s.agentRepo.GetByID(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get agent: %w", err)
	}
	if agent == nil {
		return nil, fmt.Errorf("agent: %w", domain.ErrNotFound)
	}

	accessToken, newRefreshToken, expiresIn, err := s.jwtManager.GenerateTokenPair(agent.ID, agent.Email, agent.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}
