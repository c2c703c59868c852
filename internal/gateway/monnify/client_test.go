package monnify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"savingsadmin/internal/domain"
	"savingsadmin/internal/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.SetOutput(io.Discard, "disabled")
}

type fakeMonnify struct {
	logins    int32
	expiresIn int32
	mux       *http.ServeMux
}

func writeEnvelope(w http.ResponseWriter, status int, ok bool, code, msg string, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"requestSuccessful": ok,
		"responseMessage":   msg,
		"responseCode":      code,
		"responseBody":      body,
	})
}

func newFakeMonnify(t *testing.T) (*fakeMonnify, *Client) {
	f := &fakeMonnify{expiresIn: 3600, mux: http.NewServeMux()}
	f.mux.HandleFunc(loginPath, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "api-key" || pass != "secret" {
			writeEnvelope(w, http.StatusUnauthorized, false, "99", "invalid credentials", nil)
			return
		}
		atomic.AddInt32(&f.logins, 1)
		writeEnvelope(w, http.StatusOK, true, "0", "success", map[string]any{"accessToken": "tok-1", "expiresIn": atomic.LoadInt32(&f.expiresIn)})
	})

	srv := httptest.NewServer(f.mux)
	t.Cleanup(srv.Close)

	c := NewClient(Config{
		BaseURL:             srv.URL + "/",
		APIKey:              "api-key",
		SecretKey:           "secret",
		WalletAccountNumber: "9990001112",
		TokenTTL:            time.Minute,
	})
	return f, c
}

func requireBearer(t *testing.T, r *http.Request) {
	t.Helper()
	assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
}

func TestClient_TokenIsCachedUntilExpiry(t *testing.T) {
	f, c := newFakeMonnify(t)
	f.mux.HandleFunc(walletBalancePath, func(w http.ResponseWriter, r *http.Request) {
		requireBearer(t, r)
		assert.Equal(t, "9990001112", r.URL.Query().Get("accountNumber"))
		writeEnvelope(w, http.StatusOK, true, "0", "success", map[string]any{"availableBalance": 250000.55, "ledgerBalance": 260000})
	})

	now := time.Now()
	c.now = func() time.Time { return now }

	bal, err := c.GetWalletBalance(context.Background())
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("250000.55").Equal(bal.Available))
	assert.True(t, decimal.NewFromInt(260000).Equal(bal.Ledger))

	_, err = c.GetWalletBalance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&f.logins))

	now = now.Add(2 * time.Minute)
	_, err = c.GetWalletBalance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&f.logins))
}

func TestClient_TokenExpiryFollowsStatedValidity(t *testing.T) {
	f, c := newFakeMonnify(t)
	atomic.StoreInt32(&f.expiresIn, 120)
	c.cfg.TokenTTL = time.Hour
	f.mux.HandleFunc(walletBalancePath, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, true, "0", "success", map[string]any{"availableBalance": 1, "ledgerBalance": 1})
	})

	now := time.Now()
	c.now = func() time.Time { return now }

	_, err := c.GetWalletBalance(context.Background())
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = c.GetWalletBalance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&f.logins))

	// 120s stated validity less the margin is already over
	now = now.Add(40 * time.Second)
	_, err = c.GetWalletBalance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&f.logins))
}

func TestClient_VeryShortTokenIsNotReused(t *testing.T) {
	f, c := newFakeMonnify(t)
	atomic.StoreInt32(&f.expiresIn, 1)
	f.mux.HandleFunc(walletBalancePath, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, true, "0", "success", map[string]any{"availableBalance": 1, "ledgerBalance": 1})
	})

	now := time.Now()
	c.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		_, err := c.GetWalletBalance(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&f.logins))
}

func TestClient_BadCredentials(t *testing.T) {
	_, c := newFakeMonnify(t)
	c.cfg.SecretKey = "wrong"

	_, err := c.GetWalletBalance(context.Background())
	assert.ErrorIs(t, err, domain.ErrGatewayAuth)
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestClient_InitiateTransfer(t *testing.T) {
	f, c := newFakeMonnify(t)
	f.mux.HandleFunc(transferPath, func(w http.ResponseWriter, r *http.Request) {
		requireBearer(t, r)
		assert.Equal(t, http.MethodPost, r.Method)

		var raw map[string]json.RawMessage
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Equal(t, "8199.996", string(raw["amount"]))
		assert.Equal(t, `"RQTXN-1"`, string(raw["reference"]))
		assert.Equal(t, `"9990001112"`, string(raw["sourceAccountNumber"]))
		assert.Equal(t, `"NGN"`, string(raw["currency"]))

		writeEnvelope(w, http.StatusOK, true, "0", "success", map[string]any{
			"reference": "RQTXN-1", "status": "PENDING_AUTHORIZATION", "transactionReference": "MFDS-1",
		})
	})

	res, err := c.InitiateTransfer(context.Background(), domain.TransferRequest{
		Amount:                   decimal.RequireFromString("8199.996"),
		Reference:                "RQTXN-1",
		Narration:                "Withdrawal Request",
		DestinationBankCode:      "058",
		DestinationAccountNumber: "0011223344",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TransferPendingAuthorization, res.Status)
	assert.Equal(t, "MFDS-1", res.TransactionReference)
}

func TestClient_TransferRefusedKeepsProviderMessage(t *testing.T) {
	f, c := newFakeMonnify(t)
	f.mux.HandleFunc(transferPath, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusBadRequest, false, "D02", "Insufficient balance in wallet", nil)
	})

	_, err := c.InitiateTransfer(context.Background(), domain.TransferRequest{Amount: decimal.NewFromInt(10), Reference: "RQTXN-2"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "D02", apiErr.Code)
	assert.Equal(t, "Insufficient balance in wallet", apiErr.Message)
}

func TestClient_ExpiredTokenIsDropped(t *testing.T) {
	f, c := newFakeMonnify(t)
	var calls int32
	f.mux.HandleFunc(summaryPath, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			writeEnvelope(w, http.StatusUnauthorized, false, "", "token expired", nil)
			return
		}
		assert.Equal(t, "RQTXN-3", r.URL.Query().Get("reference"))
		writeEnvelope(w, http.StatusOK, true, "0", "success", map[string]any{"status": "success"})
	})

	_, err := c.GetTransferStatus(context.Background(), "RQTXN-3")
	assert.ErrorIs(t, err, domain.ErrGatewayAuth)

	res, err := c.GetTransferStatus(context.Background(), "RQTXN-3")
	require.NoError(t, err)
	assert.Equal(t, domain.TransferSuccess, res.Status)
	assert.Equal(t, "RQTXN-3", res.Reference)
	assert.Equal(t, int32(2), atomic.LoadInt32(&f.logins))
}

func TestClient_AuthorizeTransfer(t *testing.T) {
	f, c := newFakeMonnify(t)
	f.mux.HandleFunc(validateOTPPath, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["authorizationCode"] != "123456" {
			writeEnvelope(w, http.StatusBadRequest, false, "D03", "Invalid OTP", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, true, "0", "success", map[string]any{"reference": body["reference"], "status": "SUCCESS"})
	})

	_, err := c.AuthorizeTransfer(context.Background(), "RQTXN-4", "000000")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid OTP", apiErr.Message)

	res, err := c.AuthorizeTransfer(context.Background(), "RQTXN-4", "123456")
	require.NoError(t, err)
	assert.True(t, res.Status.IsSuccessful())
}

func TestClient_ResendAuthorizationCode(t *testing.T) {
	f, c := newFakeMonnify(t)
	f.mux.HandleFunc(resendOTPPath, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["reference"] == "RQTXN-bad" {
			writeEnvelope(w, http.StatusOK, false, resendFailedCode, "OTP limit reached", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, true, "0", "OTP sent to registered email", nil)
	})

	ok, err := c.ResendAuthorizationCode(context.Background(), "RQTXN-5")
	require.NoError(t, err)
	assert.True(t, ok.Success)
	assert.Equal(t, "OTP sent to registered email", ok.Message)

	refused, err := c.ResendAuthorizationCode(context.Background(), "RQTXN-bad")
	require.NoError(t, err)
	assert.False(t, refused.Success)
	assert.Equal(t, "OTP limit reached", refused.Message)
}

func TestClient_ListBanks(t *testing.T) {
	f, c := newFakeMonnify(t)
	f.mux.HandleFunc(banksPath, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, true, "0", "success", []map[string]string{
			{"name": "Access Bank", "code": "044"},
			{"name": "GTBank", "code": "058"},
		})
	})

	banks, err := c.ListBanks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Bank{{Name: "Access Bank", Code: "044"}, {Name: "GTBank", Code: "058"}}, banks)
}

func TestClient_WalletAccountRequired(t *testing.T) {
	_, c := newFakeMonnify(t)
	c.cfg.WalletAccountNumber = ""

	_, err := c.GetWalletBalance(context.Background())
	assert.Error(t, err)
}
