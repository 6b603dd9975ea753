package wallet

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
)

type WalletUseCase interface {
	Balance(ctx context.Context, userID string) (int64, error)
}

type WalletService struct {
	repo           repository.WalletRepository
	defaultBalance int64
}

// NewWalletService returns a service that opens missing wallets with defaultBalance.
func NewWalletService(repo repository.WalletRepository, defaultBalance int64) *WalletService {
	return &WalletService{repo: repo, defaultBalance: defaultBalance}
}

func (s *WalletService) Balance(ctx context.Context, userID string) (int64, error) {
	const op = "wallet.Balance"

	if userID == "" {
		return 0, fmt.Errorf("%s: %w: user id is required", op, domain.ErrInvalidInput)
	}

	w, err := s.repo.GetOrCreate(ctx, userID, s.defaultBalance)
	if err != nil {
		return 0, domain.WrapStore(op, err)
	}
	return w.Balance, nil
}

var _ WalletUseCase = (*WalletService)(nil)
