package referral

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/camilova/invercop/internal/user"
	"github.com/camilova/invercop/internal/wallet"
	"github.com/camilova/invercop/pkg/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type stubUserRepo struct {
	referred []user.User
	listErr  error
	lastCode string
}

func (s *stubUserRepo) FindByID(id string) (*user.User, error)             { return nil, nil }
func (s *stubUserRepo) FindByEmail(email string) (*user.User, error)       { return nil, nil }
func (s *stubUserRepo) FindByReferralCode(code string) (*user.User, error) { return nil, nil }
func (s *stubUserRepo) ListByReferredBy(code string) ([]user.User, error) {
	s.lastCode = code
	return s.referred, s.listErr
}
func (s *stubUserRepo) UpdateWithdrawalAddress(id string, nequi string, ownerName string) error {
	return nil
}
func (s *stubUserRepo) ListUsers(limit, offset int) ([]user.User, error) { return nil, nil }
func (s *stubUserRepo) CountUsers() (int64, error)                       { return 0, nil }

type stubWalletRepo struct {
	total      float64
	lastType   wallet.TransactionType
	lastWallet string
}

func (s *stubWalletRepo) Provision(usr *user.User, walletName string, registrationBonus float64) (*wallet.Wallet, error) {
	return nil, nil
}
func (s *stubWalletRepo) GetWalletByID(walletID string) (*wallet.Wallet, error)  { return nil, nil }
func (s *stubWalletRepo) GetPrimaryWallet(userID string) (*wallet.Wallet, error) { return nil, nil }
func (s *stubWalletRepo) GetTransactionByID(txID string) (*wallet.Transaction, error) {
	return nil, nil
}
func (s *stubWalletRepo) GetTransactions(walletID string, limit, offset int) ([]wallet.Transaction, error) {
	return nil, nil
}
func (s *stubWalletRepo) CountTransactions(walletID string) (int64, error) { return 0, nil }
func (s *stubWalletRepo) SumTransactionsByType(walletID string, transactionType wallet.TransactionType) (float64, error) {
	s.lastWallet = walletID
	s.lastType = transactionType
	return s.total, nil
}

func doGetTeam(h *Handler, usr user.User) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/api/referrals", nil)
	req = req.WithContext(context.WithValue(req.Context(), utils.UserKey, usr))

	rr := httptest.NewRecorder()
	h.GetTeam(rr, req)
	return rr
}

func TestGetTeam(t *testing.T) {
	walletID := uuid.New()
	joined := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	userRepo := &stubUserRepo{referred: []user.User{
		{Email: "primo@example.com", HasInvested: true, CreatedAt: joined},
		{Email: "vecina@example.com", HasInvested: false, CreatedAt: joined},
	}}
	walletRepo := &stubWalletRepo{total: 15000}
	h := NewHandler(userRepo, walletRepo)

	usr := user.User{ID: uuid.New(), ReferralCode: "RABC1234", PrimaryWalletID: &walletID}
	rr := doGetTeam(h, usr)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "RABC1234", userRepo.lastCode)
	assert.Equal(t, walletID.String(), walletRepo.lastWallet)
	assert.Equal(t, wallet.TypeReferralCommission, walletRepo.lastType)

	var resp utils.APIResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(2), data["count"])
	assert.Equal(t, 15000.0, data["totalCommission"])

	members := data["members"].([]interface{})
	first := members[0].(map[string]interface{})
	assert.Equal(t, "primo@example.com", first["email"])
	assert.Equal(t, true, first["hasInvested"])
}

func TestGetTeamWithoutWallet(t *testing.T) {
	h := NewHandler(&stubUserRepo{}, &stubWalletRepo{total: 99999})

	usr := user.User{ID: uuid.New(), ReferralCode: "RABC1234"}
	rr := doGetTeam(h, usr)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp utils.APIResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, 0.0, data["totalCommission"])
}

func TestGetTeamUnauthorized(t *testing.T) {
	h := NewHandler(&stubUserRepo{}, &stubWalletRepo{})

	req := httptest.NewRequest("GET", "/api/referrals", nil)
	rr := httptest.NewRecorder()
	h.GetTeam(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
