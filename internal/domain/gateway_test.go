package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransferStatus(t *testing.T) {
	tests := []struct {
		status     TransferStatus
		successful bool
		rejected   bool
		final      bool
	}{
		{"SUCCESS", true, false, true},
		{"success", true, false, true},
		{"PENDING_AUTHORIZATION", false, false, false},
		{"PENDING", false, false, false},
		{"FAILED", false, true, true},
		{"REVERSED", false, true, true},
		{"EXPIRED", false, true, true},
		{"OTP_EMAIL_DISPATCH_FAILED", false, true, true},
		{"", false, false, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.successful, tt.status.IsSuccessful(), "%q successful", tt.status)
		assert.Equal(t, tt.rejected, tt.status.IsRejected(), "%q rejected", tt.status)
		assert.Equal(t, tt.final, tt.status.IsFinal(), "%q final", tt.status)
	}

	for _, s := range FinalTransferStatuses() {
		assert.True(t, TransferStatus(s).IsFinal(), s)
	}
}

func TestWithdrawalRequest_TransferState(t *testing.T) {
	w := &WithdrawalRequest{Status: StatusPending}
	assert.False(t, w.TransferStarted())
	assert.False(t, w.TransferInFlight())

	w.IsInitialized = true
	w.GatewayStatus = "PENDING_AUTHORIZATION"
	assert.True(t, w.TransferStarted())
	assert.False(t, w.TransferInFlight())

	w.IsInitialized = false
	w.GatewayStatus = "PENDING"
	assert.True(t, w.TransferInFlight())

	w.GatewayStatus = "EXPIRED"
	assert.True(t, w.TransferStarted())
	assert.False(t, w.TransferInFlight())

	w.Status = StatusApproved
	w.GatewayStatus = "PENDING"
	assert.False(t, w.TransferInFlight())
}
