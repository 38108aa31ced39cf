package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"tourstay/internal/repository"
)

type Service struct {
	admins AdminRepository
	tokens TokenIssuer
}

func NewService(admins AdminRepository, tokens TokenIssuer) *Service {
	return &Service{admins: admins, tokens: tokens}
}

// Login verifies the password and issues a signed token. Lookup misses
// and bad passwords return the same error so the endpoint does not leak
// which emails exist.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	admin, err := s.admins.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(admin.ID, string(admin.Role))
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token: token,
		Admin: AdminView{
			ID:    admin.ID,
			Email: admin.Email,
			Name:  admin.Name,
			Role:  string(admin.Role),
		},
	}, nil
}
