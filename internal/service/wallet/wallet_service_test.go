package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) GetOrCreate(ctx context.Context, userID string, defaultBalance int64) (*domain.Wallet, error) {
	args := m.Called(ctx, userID, defaultBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockWalletRepository) Debit(ctx context.Context, userID string, amount int64) (int64, error) {
	args := m.Called(ctx, userID, amount)
	return args.Get(0).(int64), args.Error(1)
}

func TestWalletService_Balance_NewUserGetsDefault(t *testing.T) {
	store := memory.NewStore()
	service := NewWalletService(store, 50000)

	balance, err := service.Balance(context.Background(), "user_001")

	require.NoError(t, err)
	assert.Equal(t, int64(50000), balance)
}

func TestWalletService_Balance_ReflectsDebits(t *testing.T) {
	store := memory.NewStore()
	service := NewWalletService(store, 50000)
	ctx := context.Background()

	_, err := service.Balance(ctx, "user_001")
	require.NoError(t, err)
	_, err = store.Debit(ctx, "user_001", 5000)
	require.NoError(t, err)

	balance, err := service.Balance(ctx, "user_001")

	require.NoError(t, err)
	assert.Equal(t, int64(45000), balance)
}

func TestWalletService_Balance_EmptyUser(t *testing.T) {
	service := NewWalletService(&MockWalletRepository{}, 50000)

	_, err := service.Balance(context.Background(), "")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestWalletService_Balance_StoreError(t *testing.T) {
	repo := &MockWalletRepository{}
	ctx := context.Background()
	repo.On("GetOrCreate", ctx, "user_001", int64(50000)).Return(nil, errors.New("connection reset"))

	service := NewWalletService(repo, 50000)
	_, err := service.Balance(ctx, "user_001")

	assert.ErrorIs(t, err, domain.ErrPersistence)
	repo.AssertExpectations(t)
}
