package repository

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewBookingRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewBookingRepository(pool)
	assert.NotNil(t, repo)
}

func TestNewWalletRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewWalletRepository(pool)
	assert.NotNil(t, repo)
}

func TestSchemaIsEmbedded(t *testing.T) {
	assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS flights")
	assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS bookings")
	assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS wallets")
}
