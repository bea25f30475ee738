package withdrawal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/camilova/invercop/internal/appconfig"
	"github.com/camilova/invercop/internal/user"
	"github.com/camilova/invercop/internal/wallet"
	"github.com/camilova/invercop/pkg/config"
	"github.com/camilova/invercop/pkg/utils"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type stubRepo struct {
	created        *Request
	createErr      error
	decided        *Request
	decideErr      error
	requestsToday  int64
	lastDailyLimit int
}

func (s *stubRepo) CreateRequest(req *Request, dailyLimit int) error {
	s.lastDailyLimit = dailyLimit
	if s.createErr != nil {
		return s.createErr
	}
	req.ID = uuid.New()
	s.created = req
	return nil
}

func (s *stubRepo) GetRequest(id string) (*Request, error) { return s.created, nil }

func (s *stubRepo) ListRequests(status string, limit, offset int) ([]Request, error) {
	return nil, nil
}

func (s *stubRepo) ListByUser(userID string, limit, offset int) ([]Request, error) {
	return nil, nil
}

func (s *stubRepo) CountForDay(userID string, day string) (int64, error) {
	return s.requestsToday, nil
}

func (s *stubRepo) Decide(requestID string, decision RequestStatus, adminID uuid.UUID) (*Request, error) {
	if s.decideErr != nil {
		return nil, s.decideErr
	}
	s.decided.Status = decision
	return s.decided, nil
}

type stubWalletRepo struct {
	wallet *wallet.Wallet
	err    error
}

func (s *stubWalletRepo) Provision(usr *user.User, walletName string, registrationBonus float64) (*wallet.Wallet, error) {
	return s.wallet, s.err
}
func (s *stubWalletRepo) GetWalletByID(walletID string) (*wallet.Wallet, error) {
	return s.wallet, s.err
}
func (s *stubWalletRepo) GetPrimaryWallet(userID string) (*wallet.Wallet, error) {
	return s.wallet, s.err
}
func (s *stubWalletRepo) GetTransactionByID(txID string) (*wallet.Transaction, error) {
	return nil, nil
}
func (s *stubWalletRepo) GetTransactions(walletID string, limit, offset int) ([]wallet.Transaction, error) {
	return nil, nil
}
func (s *stubWalletRepo) CountTransactions(walletID string) (int64, error) { return 0, nil }
func (s *stubWalletRepo) SumTransactionsByType(walletID string, transactionType wallet.TransactionType) (float64, error) {
	return 0, nil
}

type stubConfigRepo struct {
	withdrawalCfg appconfig.WithdrawalConfig
}

func (s *stubConfigRepo) GetAppConfig() (appconfig.AppConfig, error) {
	return appconfig.AppConfig{}, nil
}
func (s *stubConfigRepo) GetWithdrawalConfig() (appconfig.WithdrawalConfig, error) {
	return s.withdrawalCfg, nil
}
func (s *stubConfigRepo) GetDepositBonusConfig() (appconfig.DepositBonusConfig, error) {
	return appconfig.DepositBonusConfig{}, nil
}
func (s *stubConfigRepo) SaveAppConfig(cfg *appconfig.AppConfig) error               { return nil }
func (s *stubConfigRepo) SaveWithdrawalConfig(cfg *appconfig.WithdrawalConfig) error { return nil }
func (s *stubConfigRepo) SaveDepositBonusConfig(cfg *appconfig.DepositBonusConfig) error {
	return nil
}
func (s *stubConfigRepo) Seed() error { return nil }

func alwaysOpenConfig() appconfig.WithdrawalConfig {
	return appconfig.WithdrawalConfig{
		MinWithdrawal: 10000,
		FeePercentage: 0.05,
		AllowedDays:   pq.StringArray{"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado"},
		StartTime:     "00:00",
		EndTime:       "23:59",
		DailyLimit:    1,
	}
}

func testUser() user.User {
	return user.User{
		ID:              uuid.New(),
		Email:           "ana@example.com",
		Balance:         100000,
		WithdrawalNequi: "3001234567",
		NequiOwnerName:  "Ana",
	}
}

func newTestHandler(repo *stubRepo, wcfg appconfig.WithdrawalConfig, balance float64) *Handler {
	return NewHandler(
		config.Config{},
		repo,
		&stubWalletRepo{wallet: &wallet.Wallet{ID: uuid.New(), Balance: balance}},
		&stubConfigRepo{withdrawalCfg: wcfg},
		nil,
	)
}

func doCreate(h *Handler, usr user.User, amount float64) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]float64{"amount": amount})
	req := httptest.NewRequest("POST", "/api/withdrawals", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(context.WithValue(req.Context(), utils.UserKey, usr))

	rr := httptest.NewRecorder()
	h.CreateRequest(rr, req)
	return rr
}

func TestCreateRequestSuccess(t *testing.T) {
	repo := &stubRepo{}
	h := newTestHandler(repo, alwaysOpenConfig(), 100000)

	rr := doCreate(h, testUser(), 50000)

	assert.Equal(t, http.StatusCreated, rr.Code)
	if assert.NotNil(t, repo.created) {
		assert.Equal(t, 50000.0, repo.created.TotalAmount)
		assert.Equal(t, 2500.0, repo.created.FeeAmount)
		assert.Equal(t, 47500.0, repo.created.NetAmount)
		assert.Equal(t, "3001234567", repo.created.WalletAddress)
	}
}

func TestCreateRequestWindowClosed(t *testing.T) {
	cfg := alwaysOpenConfig()
	cfg.AllowedDays = pq.StringArray{}
	h := newTestHandler(&stubRepo{}, cfg, 100000)

	rr := doCreate(h, testUser(), 50000)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestCreateRequestDailyLimit(t *testing.T) {
	repo := &stubRepo{requestsToday: 1}
	h := newTestHandler(repo, alwaysOpenConfig(), 100000)

	rr := doCreate(h, testUser(), 50000)

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Nil(t, repo.created)
}

func TestCreateRequestBelowMinimum(t *testing.T) {
	h := newTestHandler(&stubRepo{}, alwaysOpenConfig(), 100000)

	rr := doCreate(h, testUser(), 5000)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateRequestInsufficientBalance(t *testing.T) {
	h := newTestHandler(&stubRepo{}, alwaysOpenConfig(), 20000)

	rr := doCreate(h, testUser(), 50000)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateRequestNoAddress(t *testing.T) {
	h := newTestHandler(&stubRepo{}, alwaysOpenConfig(), 100000)

	usr := testUser()
	usr.WithdrawalNequi = ""
	rr := doCreate(h, usr, 50000)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateRequestLostRaceOnBalance(t *testing.T) {
	// validation passed on a stale balance; the guarded debit refuses
	repo := &stubRepo{createErr: wallet.ErrInsufficientFunds}
	h := newTestHandler(repo, alwaysOpenConfig(), 100000)

	rr := doCreate(h, testUser(), 50000)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateRequestLostRaceOnDailyLimit(t *testing.T) {
	// the pre-check saw zero requests but the in-batch count refused
	repo := &stubRepo{createErr: ErrDailyLimitReached}
	h := newTestHandler(repo, alwaysOpenConfig(), 100000)

	rr := doCreate(h, testUser(), 50000)

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, 1, repo.lastDailyLimit)
}

func doDecide(h *Handler, requestID, decision string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]string{"decision": decision})
	req := httptest.NewRequest("POST", "/api/admin/withdrawals/"+requestID+"/decide", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(context.WithValue(req.Context(), utils.UserKey, testUser()))

	rr := httptest.NewRecorder()
	r := mux.NewRouter()
	r.HandleFunc("/api/admin/withdrawals/{id}/decide", h.Decide).Methods("POST")
	r.ServeHTTP(rr, req)
	return rr
}

func TestDecideApproves(t *testing.T) {
	repo := &stubRepo{decided: &Request{ID: uuid.New(), Status: StatusPending}}
	h := newTestHandler(repo, alwaysOpenConfig(), 0)

	rr := doDecide(h, repo.decided.ID.String(), "approved")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, StatusApproved, repo.decided.Status)
}

func TestDecideAlreadyProcessed(t *testing.T) {
	repo := &stubRepo{decideErr: ErrAlreadyProcessed}
	h := newTestHandler(repo, alwaysOpenConfig(), 0)

	rr := doDecide(h, uuid.NewString(), "rejected")

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestDecideNotFound(t *testing.T) {
	repo := &stubRepo{decideErr: gorm.ErrRecordNotFound}
	h := newTestHandler(repo, alwaysOpenConfig(), 0)

	rr := doDecide(h, uuid.NewString(), "approved")

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDecideRejectsInvalidDecision(t *testing.T) {
	h := newTestHandler(&stubRepo{}, alwaysOpenConfig(), 0)

	rr := doDecide(h, uuid.NewString(), "maybe")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
