package port

import (
	"context"
	"savingsadmin/internal/domain"
)

// DisbursementGateway moves money from the platform wallet to user bank accounts.
//
//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks -source=gateway.go
type DisbursementGateway interface {
	GetWalletBalance(ctx context.Context) (*domain.WalletBalance, error)
	InitiateTransfer(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error)
	AuthorizeTransfer(ctx context.Context, reference, code string) (*domain.TransferResult, error)
	ResendAuthorizationCode(ctx context.Context, reference string) (*domain.OTPResendResult, error)
	GetTransferStatus(ctx context.Context, reference string) (*domain.TransferResult, error)
}

type BankDirectory interface {
	ListBanks(ctx context.Context) ([]domain.Bank, error)
}
