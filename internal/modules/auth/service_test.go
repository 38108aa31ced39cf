package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"tourstay/internal/domain"
	"tourstay/internal/repository"
)

type mockAdminRepo struct {
	mock.Mock
}

func (m *mockAdminRepo) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Admin), args.Error(1)
}

type mockTokenIssuer struct {
	mock.Mock
}

func (m *mockTokenIssuer) GenerateToken(adminID int64, role string) (string, error) {
	args := m.Called(adminID, role)
	return args.String(0), args.Error(1)
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestLogin_Success(t *testing.T) {
	repo := new(mockAdminRepo)
	tokens := new(mockTokenIssuer)
	svc := NewService(repo, tokens)

	admin := &domain.Admin{
		ID:           7,
		Email:        "ops@example.com",
		Name:         "Ops",
		Role:         domain.RoleAdmin,
		PasswordHash: hashFor(t, "correct-horse"),
	}
	repo.On("GetByEmail", mock.Anything, "ops@example.com").Return(admin, nil)
	tokens.On("GenerateToken", int64(7), "admin").Return("signed-token", nil)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ops@example.com",
		Password: "correct-horse",
	})

	require.NoError(t, err)
	assert.Equal(t, "signed-token", resp.Token)
	assert.Equal(t, int64(7), resp.Admin.ID)
	assert.Equal(t, "admin", resp.Admin.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := new(mockAdminRepo)
	tokens := new(mockTokenIssuer)
	svc := NewService(repo, tokens)

	admin := &domain.Admin{
		ID:           7,
		Email:        "ops@example.com",
		Role:         domain.RoleAdmin,
		PasswordHash: hashFor(t, "correct-horse"),
	}
	repo.On("GetByEmail", mock.Anything, "ops@example.com").Return(admin, nil)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ops@example.com",
		Password: "wrong",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	tokens.AssertNotCalled(t, "GenerateToken", mock.Anything, mock.Anything)
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := new(mockAdminRepo)
	tokens := new(mockTokenIssuer)
	svc := NewService(repo, tokens)

	repo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrNotFound)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ghost@example.com",
		Password: "anything",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
