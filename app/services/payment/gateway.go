// Package payment defines the narrow gateway contract the checkout workflow
// consumes. Implementations are injected at process wiring time.
package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

type CardDetails struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	CVC    string `json:"cvc"`
}

type ChargeRequest struct {
	Amount decimal.Decimal
	Card   CardDetails
	// IdempotencyKey is generated per placement attempt so a client retry
	// cannot double-charge through a real gateway.
	IdempotencyKey string
	OrderReference string
}

type ChargeResult struct {
	Success       bool
	TransactionID string
	FailureReason string
}

type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
	Refund(ctx context.Context, transactionID string, amount decimal.Decimal) (*RefundResult, error)
}

type RefundResult struct {
	Success  bool
	RefundID string
}
