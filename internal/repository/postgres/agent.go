package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shoplane/support-chat/internal/domain"
)

// AgentRepository implements domain.AgentRepository
type AgentRepository struct {
	pool *pgxpool.Pool
}

// NewAgentRepository creates a new agent repository
func NewAgentRepository(pool *pgxpool.Pool) *AgentRepository {
	return &AgentRepository{pool: pool}
}

const agentColumns = `id, email, name, password_hash, created_at, updated_at`

func (r *AgentRepository) Create(ctx context.Context, agent *domain.SupportAgent) error {
	query := `
		INSERT INTO support_agents (id, email, name, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		agent.ID,
		agent.Email,
		agent.Name,
		agent.PasswordHash,
		agent.CreatedAt,
		agent.UpdatedAt,
	)
	if err != nil {
		return wrapErr("create agent", err)
	}
	return nil
}

func (r *AgentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SupportAgent, error) {
	query := `SELECT ` + agentColumns + ` FROM support_agents WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

func (r *AgentRepository) GetByEmail(ctx context.Context, email string) (*domain.SupportAgent, error) {
	query := `SELECT ` + agentColumns + ` FROM support_agents WHERE email = $1`
	return r.scanOne(ctx, query, email)
}

func (r *AgentRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM support_agents WHERE email = $1)`, email,
	).Scan(&exists)
	if err != nil {
		return false, wrapErr("check agent email", err)
	}
	return exists, nil
}

func (r *AgentRepository) scanOne(ctx context.Context, query string, arg any) (*domain.SupportAgent, error) {
	var a domain.SupportAgent
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&a.ID,
		&a.Email,
		&a.Name,
		&a.PasswordHash,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(wrapErr("get agent", err), domain.ErrNotFound) {
			return nil, nil
		}
		return nil, wrapErr("get agent", err)
	}
	return &a, nil
}
