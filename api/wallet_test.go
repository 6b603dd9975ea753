package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/lib/logger/slogdiscard"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestWalletHandler_balance(t *testing.T) {
	mockService := &MockWalletUseCase{}
	handler := NewWalletHandler(mockService, slogdiscard.NewDiscardLogger())

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/user/wallet", nil)
	c.Set(ctxUserID, "user_001")

	mockService.On("Balance", c.Request.Context(), "user_001").Return(int64(45000), nil)

	handler.balance(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"balance":45000}`, w.Body.String())
	mockService.AssertExpectations(t)
}

func TestWalletHandler_balance_StoreFailure(t *testing.T) {
	mockService := &MockWalletUseCase{}
	handler := NewWalletHandler(mockService, slogdiscard.NewDiscardLogger())

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/user/wallet", nil)
	c.Set(ctxUserID, "user_001")

	mockService.On("Balance", c.Request.Context(), "user_001").
		Return(int64(0), fmt.Errorf("wallet.Balance: %w", domain.ErrPersistence))

	handler.balance(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
