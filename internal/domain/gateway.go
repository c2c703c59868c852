package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

type TransferStatus string

const (
	TransferSuccess              TransferStatus = "SUCCESS"
	TransferPendingAuthorization TransferStatus = "PENDING_AUTHORIZATION"
	TransferPending              TransferStatus = "PENDING"
	TransferFailed               TransferStatus = "FAILED"
	TransferReversed             TransferStatus = "REVERSED"
	TransferExpired              TransferStatus = "EXPIRED"
	TransferOTPDispatchFailed    TransferStatus = "OTP_EMAIL_DISPATCH_FAILED"
)

func (s TransferStatus) normalized() TransferStatus {
	return TransferStatus(strings.ToUpper(string(s)))
}

// FinalTransferStatuses lists every status IsFinal accepts.
func FinalTransferStatuses() []string {
	return []string{
		string(TransferSuccess),
		string(TransferFailed),
		string(TransferReversed),
		string(TransferExpired),
		string(TransferOTPDispatchFailed),
	}
}

// IsFinal reports whether the gateway will not move the transfer any further.
func (s TransferStatus) IsFinal() bool {
	return s.IsSuccessful() || s.IsRejected()
}

func (s TransferStatus) IsSuccessful() bool {
	return s.normalized() == TransferSuccess
}

func (s TransferStatus) IsPendingAuthorization() bool {
	return s.normalized() == TransferPendingAuthorization
}

// IsRejected reports a transfer that will never pay out.
func (s TransferStatus) IsRejected() bool {
	switch s.normalized() {
	case TransferFailed, TransferReversed, TransferExpired, TransferOTPDispatchFailed:
		return true
	}
	return false
}

type WalletBalance struct {
	Available decimal.Decimal
	Ledger    decimal.Decimal
}

type TransferRequest struct {
	Amount                   decimal.Decimal
	Reference                string
	Narration                string
	DestinationBankCode      string
	DestinationAccountNumber string
	SourceAccountNumber      string
}

type TransferResult struct {
	Status               TransferStatus
	Reference            string
	TransactionReference string
	Message              string
}

type OTPResendResult struct {
	Success bool
	Message string
}

// EstimatedGatewayCharge is the disbursement charge the gateway is expected to
// take on top of amount.
func EstimatedGatewayCharge(amount decimal.Decimal) decimal.Decimal {
	switch {
	case amount.LessThan(decimal.NewFromInt(10000)):
		return decimal.NewFromInt(10)
	case amount.LessThan(decimal.NewFromInt(50000)):
		return decimal.NewFromInt(20)
	default:
		return decimal.NewFromInt(40)
	}
}

type Bank struct {
	Name string
	Code string
}
