package deposit

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
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type stubRepo struct {
	created   *Request
	createErr error
	decided   *Request
	decideErr error
	bonusCfg  appconfig.DepositBonusConfig
}

func (s *stubRepo) CreateRequest(req *Request) error {
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

func (s *stubRepo) Decide(requestID string, decision RequestStatus, adminID uuid.UUID, bonusCfg appconfig.DepositBonusConfig) (*Request, error) {
	if s.decideErr != nil {
		return nil, s.decideErr
	}
	s.bonusCfg = bonusCfg
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
	bonusCfg appconfig.DepositBonusConfig
}

func (s *stubConfigRepo) GetAppConfig() (appconfig.AppConfig, error) {
	return appconfig.AppConfig{}, nil
}
func (s *stubConfigRepo) GetWithdrawalConfig() (appconfig.WithdrawalConfig, error) {
	return appconfig.WithdrawalConfig{}, nil
}
func (s *stubConfigRepo) GetDepositBonusConfig() (appconfig.DepositBonusConfig, error) {
	return s.bonusCfg, nil
}
func (s *stubConfigRepo) SaveAppConfig(cfg *appconfig.AppConfig) error               { return nil }
func (s *stubConfigRepo) SaveWithdrawalConfig(cfg *appconfig.WithdrawalConfig) error { return nil }
func (s *stubConfigRepo) SaveDepositBonusConfig(cfg *appconfig.DepositBonusConfig) error {
	return nil
}
func (s *stubConfigRepo) Seed() error { return nil }

func testUser() user.User {
	return user.User{ID: uuid.New(), Email: "ana@example.com"}
}

func newTestHandler(repo *stubRepo) *Handler {
	return NewHandler(
		config.Config{MinDepositAmount: 20000},
		repo,
		&stubWalletRepo{wallet: &wallet.Wallet{ID: uuid.New()}},
		&stubConfigRepo{bonusCfg: appconfig.DepositBonusConfig{IsActive: true, Percentage: 10}},
		nil,
	)
}

func doCreate(h *Handler, body map[string]interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", "/api/deposits", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(context.WithValue(req.Context(), utils.UserKey, testUser()))

	rr := httptest.NewRecorder()
	h.CreateRequest(rr, req)
	return rr
}

func TestCreateRequestSuccess(t *testing.T) {
	repo := &stubRepo{}
	h := newTestHandler(repo)

	rr := doCreate(h, map[string]interface{}{
		"amount":          50000,
		"networkName":     "Nequi",
		"referenceNumber": "REF-123",
	})

	assert.Equal(t, http.StatusCreated, rr.Code)
	if assert.NotNil(t, repo.created) {
		assert.Equal(t, 50000.0, repo.created.Amount)
		assert.Equal(t, "REF-123", repo.created.ReferenceNumber)
	}
}

func TestCreateRequestBelowMinimum(t *testing.T) {
	h := newTestHandler(&stubRepo{})

	rr := doCreate(h, map[string]interface{}{
		"amount":          5000,
		"networkName":     "Nequi",
		"referenceNumber": "REF-123",
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateRequestMissingReference(t *testing.T) {
	h := newTestHandler(&stubRepo{})

	rr := doCreate(h, map[string]interface{}{
		"amount":      50000,
		"networkName": "Nequi",
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func doDecide(h *Handler, requestID, decision string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]string{"decision": decision})
	req := httptest.NewRequest("POST", "/api/admin/deposits/"+requestID+"/decide", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(context.WithValue(req.Context(), utils.UserKey, testUser()))

	rr := httptest.NewRecorder()
	r := mux.NewRouter()
	r.HandleFunc("/api/admin/deposits/{id}/decide", h.Decide).Methods("POST")
	r.ServeHTTP(rr, req)
	return rr
}

func TestDecideApprovesWithBonusConfig(t *testing.T) {
	repo := &stubRepo{decided: &Request{ID: uuid.New(), Status: StatusPending}}
	h := newTestHandler(repo)

	rr := doDecide(h, repo.decided.ID.String(), "approved")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, StatusApproved, repo.decided.Status)
	assert.True(t, repo.bonusCfg.IsActive)
}

func TestDecideAlreadyProcessed(t *testing.T) {
	repo := &stubRepo{decideErr: ErrAlreadyProcessed}
	h := newTestHandler(repo)

	rr := doDecide(h, uuid.NewString(), "approved")

	assert.Equal(t, http.StatusConflict, rr.Code)

	var resp utils.APIResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestDecideNotFound(t *testing.T) {
	repo := &stubRepo{decideErr: gorm.ErrRecordNotFound}
	h := newTestHandler(repo)

	rr := doDecide(h, uuid.NewString(), "rejected")

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
