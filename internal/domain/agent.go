package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SupportAgent represents a staff account with access to the admin surface
type SupportAgent struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AgentCreate represents agent registration data
type AgentCreate struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Name     string `json:"name" validate:"required,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// AgentLogin represents login credentials
type AgentLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenPair represents JWT token pair
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// AgentRepository defines the interface for agent storage
type AgentRepository interface {
	Create(ctx context.Context, agent *SupportAgent) error
	GetByID(ctx context.Context, id uuid.UUID) (*SupportAgent, error)
	GetByEmail(ctx context.Context, email string) (*SupportAgent, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}
