package auth

import (
	"context"

	"tourstay/internal/domain"
)

type AdminRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
}

type TokenIssuer interface {
	GenerateToken(adminID int64, role string) (string, error)
}
