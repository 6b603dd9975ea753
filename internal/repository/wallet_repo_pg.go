package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WalletRepository interface {
	GetOrCreate(ctx context.Context, userID string, defaultBalance int64) (*domain.Wallet, error)
	// Debit subtracts amount and returns the new balance. It fails with
	// domain.ErrInsufficientFunds when the balance at write time is too low.
	Debit(ctx context.Context, userID string, amount int64) (int64, error)
}

type PGWalletRepository struct {
	db *pgxpool.Pool
}

func NewWalletRepository(db *pgxpool.Pool) WalletRepository {
	return &PGWalletRepository{db: db}
}

func (r *PGWalletRepository) GetOrCreate(ctx context.Context, userID string, defaultBalance int64) (*domain.Wallet, error) {
	var w domain.Wallet
	err := conn(ctx, r.db).QueryRow(ctx, `INSERT INTO wallets (user_id, balance) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING user_id, balance`, userID, defaultBalance).Scan(&w.UserID, &w.Balance)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *PGWalletRepository) Debit(ctx context.Context, userID string, amount int64) (int64, error) {
	var balance int64
	err := conn(ctx, r.db).QueryRow(ctx, `UPDATE wallets SET balance = balance - $2
		WHERE user_id=$1 AND balance >= $2
		RETURNING balance`, userID, amount).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrInsufficientFunds
	}
	if err != nil {
		return 0, err
	}
	return balance, nil
}

var _ WalletRepository = (*PGWalletRepository)(nil)
