package monnify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"savingsadmin/internal/domain"
	"savingsadmin/internal/logger"
	"savingsadmin/internal/port"

	"github.com/shopspring/decimal"
)

const (
	loginPath         = "/api/v1/auth/login"
	banksPath         = "/api/v1/banks"
	walletBalancePath = "/api/v2/disbursements/wallet-balance"
	transferPath      = "/api/v2/disbursements/single"
	validateOTPPath   = "/api/v2/disbursements/single/validate-otp"
	resendOTPPath     = "/api/v2/disbursements/single/resend-otp"
	summaryPath       = "/api/v2/disbursements/single/summary"

	resendFailedCode = "D01"

	tokenExpiryMargin = 30 * time.Second
)

type Config struct {
	BaseURL             string
	APIKey              string
	SecretKey           string
	WalletAccountNumber string
	Currency            string
	Timeout             time.Duration
	TokenTTL            time.Duration
}

// APIError is returned when the provider answers but refuses the request.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("monnify: %s (code %s, http %d)", e.Message, e.Code, e.StatusCode)
	}
	return fmt.Sprintf("monnify: %s (http %d)", e.Message, e.StatusCode)
}

type envelope struct {
	RequestSuccessful bool            `json:"requestSuccessful"`
	ResponseMessage   string          `json:"responseMessage"`
	ResponseCode      string          `json:"responseCode"`
	ResponseBody      json.RawMessage `json:"responseBody"`
}

var (
	_ port.DisbursementGateway = (*Client)(nil)
	_ port.BankDirectory       = (*Client)(nil)
)

type Client struct {
	cfg  Config
	http *http.Client
	now  func() time.Time

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewClient(cfg Config) *Client {
	if cfg.Currency == "" {
		cfg.Currency = "NGN"
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 55 * time.Minute
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		now:  time.Now,
	}
}

// accessToken returns the cached bearer token, logging in again once it has
// expired.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+loginPath, nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.cfg.APIKey, c.cfg.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	var body struct {
		AccessToken string `json:"accessToken"`
		ExpiresIn   int    `json:"expiresIn"`
	}
	if _, err := c.send(req, &body); err != nil {
		return "", domain.NewError(domain.ErrGatewayAuth, "could not authenticate with the disbursement gateway", err)
	}
	if body.AccessToken == "" {
		return "", domain.NewError(domain.ErrGatewayAuth, "gateway returned an empty access token", nil)
	}

	c.token = body.AccessToken
	c.tokenExpiry = c.now().Add(c.tokenLifetime(body.ExpiresIn))
	logger.Debug().Time("expires_at", c.tokenExpiry).Msg("monnify access token refreshed")

	return c.token, nil
}

// tokenLifetime is the provider's stated validity (seconds) less a margin,
// capped at the configured TokenTTL. A non-positive result forces a fresh
// login on the next call.
func (c *Client) tokenLifetime(expiresIn int) time.Duration {
	ttl := c.cfg.TokenTTL
	if expiresIn > 0 {
		if stated := time.Duration(expiresIn)*time.Second - tokenExpiryMargin; stated < ttl {
			ttl = stated
		}
	}
	return ttl
}

func (c *Client) invalidateToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// send performs req, decodes the envelope body into out and returns the
// provider message. A refused request comes back as *APIError.
func (c *Client) send(req *http.Request, out any) (string, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		msg := strings.TrimSpace(string(raw))
		if msg == "" {
			msg = resp.Status
		}
		return "", &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if resp.StatusCode >= http.StatusBadRequest || !env.RequestSuccessful {
		msg := env.ResponseMessage
		if msg == "" {
			msg = resp.Status
		}
		return "", &APIError{StatusCode: resp.StatusCode, Code: env.ResponseCode, Message: msg}
	}

	if out == nil || len(env.ResponseBody) == 0 || string(env.ResponseBody) == "null" {
		return env.ResponseMessage, nil
	}
	return env.ResponseMessage, json.Unmarshal(env.ResponseBody, out)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) (string, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return "", err
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return "", err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	msg, err := c.send(req, out)

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		c.invalidateToken()
		return "", domain.NewError(domain.ErrGatewayAuth, "gateway rejected the access token", err)
	}
	return msg, err
}

func (c *Client) GetWalletBalance(ctx context.Context) (*domain.WalletBalance, error) {
	if c.cfg.WalletAccountNumber == "" {
		return nil, errors.New("monnify: wallet account number is not configured")
	}

	var body struct {
		AvailableBalance decimal.Decimal `json:"availableBalance"`
		LedgerBalance    decimal.Decimal `json:"ledgerBalance"`
	}
	path := walletBalancePath + "?accountNumber=" + url.QueryEscape(c.cfg.WalletAccountNumber)
	if _, err := c.do(ctx, http.MethodGet, path, nil, &body); err != nil {
		return nil, err
	}

	return &domain.WalletBalance{Available: body.AvailableBalance, Ledger: body.LedgerBalance}, nil
}

type transferBody struct {
	Reference            string `json:"reference"`
	Status               string `json:"status"`
	TransactionReference string `json:"transactionReference"`
}

func (b transferBody) result(message string) *domain.TransferResult {
	return &domain.TransferResult{
		Status:               domain.TransferStatus(strings.ToUpper(b.Status)),
		Reference:            b.Reference,
		TransactionReference: b.TransactionReference,
		Message:              message,
	}
}

func (c *Client) InitiateTransfer(ctx context.Context, tr domain.TransferRequest) (*domain.TransferResult, error) {
	source := tr.SourceAccountNumber
	if source == "" {
		source = c.cfg.WalletAccountNumber
	}

	// the amount goes out as a JSON number with every digit preserved
	payload := struct {
		Amount                   json.Number `json:"amount"`
		Reference                string      `json:"reference"`
		Narration                string      `json:"narration"`
		DestinationBankCode      string      `json:"destinationBankCode"`
		DestinationAccountNumber string      `json:"destinationAccountNumber"`
		Currency                 string      `json:"currency"`
		SourceAccountNumber      string      `json:"sourceAccountNumber"`
	}{
		Amount:                   json.Number(tr.Amount.String()),
		Reference:                tr.Reference,
		Narration:                tr.Narration,
		DestinationBankCode:      tr.DestinationBankCode,
		DestinationAccountNumber: tr.DestinationAccountNumber,
		Currency:                 c.cfg.Currency,
		SourceAccountNumber:      source,
	}

	var body transferBody
	msg, err := c.do(ctx, http.MethodPost, transferPath, payload, &body)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("reference", tr.Reference).
		Str("status", body.Status).
		Msg("monnify transfer initiated")

	return body.result(msg), nil
}

func (c *Client) AuthorizeTransfer(ctx context.Context, reference, code string) (*domain.TransferResult, error) {
	payload := map[string]string{"reference": reference, "authorizationCode": code}

	var body transferBody
	msg, err := c.do(ctx, http.MethodPost, validateOTPPath, payload, &body)
	if err != nil {
		return nil, err
	}
	if body.Reference == "" {
		body.Reference = reference
	}
	return body.result(msg), nil
}

func (c *Client) ResendAuthorizationCode(ctx context.Context, reference string) (*domain.OTPResendResult, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	b, err := json.Marshal(map[string]string{"reference": reference})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+resendOTPPath, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	// a refused resend is an answer, not a transport failure
	msg, err := c.send(req, nil)

	var apiErr *APIError
	switch {
	case err == nil:
		if msg == "" {
			msg = "authorization code resent"
		}
		return &domain.OTPResendResult{Success: true, Message: msg}, nil
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized:
		c.invalidateToken()
		return nil, domain.NewError(domain.ErrGatewayAuth, "gateway rejected the access token", err)
	case errors.As(err, &apiErr):
		if apiErr.Code == resendFailedCode {
			logger.Warn().Str("reference", reference).Str("message", apiErr.Message).Msg("monnify refused to resend otp")
		}
		return &domain.OTPResendResult{Success: false, Message: apiErr.Message}, nil
	default:
		return nil, err
	}
}

func (c *Client) GetTransferStatus(ctx context.Context, reference string) (*domain.TransferResult, error) {
	var body transferBody
	path := summaryPath + "?reference=" + url.QueryEscape(reference)
	msg, err := c.do(ctx, http.MethodGet, path, nil, &body)
	if err != nil {
		return nil, err
	}
	if body.Reference == "" {
		body.Reference = reference
	}
	return body.result(msg), nil
}

func (c *Client) ListBanks(ctx context.Context) ([]domain.Bank, error) {
	var body []struct {
		Name string `json:"name"`
		Code string `json:"code"`
	}
	if _, err := c.do(ctx, http.MethodGet, banksPath, nil, &body); err != nil {
		return nil, err
	}

	banks := make([]domain.Bank, 0, len(body))
	for _, b := range body {
		banks = append(banks, domain.Bank{Name: b.Name, Code: b.Code})
	}
	return banks, nil
}
