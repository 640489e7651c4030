package payment

import (
	"context"
	"log"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"
)

// MidtransGateway adapts the Midtrans Snap sandbox to the Gateway contract.
// Selected when MIDTRANS_SERVER_KEY is configured; the created transaction
// token stands in for a captured charge, which is enough for a sandbox.
type MidtransGateway struct {
	client snap.Client
}

func NewMidtransGateway(serverKey string) *MidtransGateway {
	g := &MidtransGateway{}
	g.client.New(serverKey, midtrans.Sandbox)
	return g
}

func (g *MidtransGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			// The idempotency key doubles as the Midtrans order id, which the
			// gateway itself de-duplicates.
			OrderID:  req.IdempotencyKey,
			GrossAmt: req.Amount.Round(0).IntPart(),
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	resp, errMidtrans := g.client.CreateTransaction(snapReq)
	if errMidtrans != nil {
		log.Printf("MidtransGateway.Charge: CreateTransaction error: %v", errMidtrans.GetMessage())
		return &ChargeResult{FailureReason: errMidtrans.GetMessage()}, nil
	}
	if resp == nil || resp.Token == "" {
		return &ChargeResult{FailureReason: "midtrans returned an empty transaction token"}, nil
	}

	return &ChargeResult{
		Success:       true,
		TransactionID: resp.Token,
	}, nil
}

func (g *MidtransGateway) Refund(ctx context.Context, transactionID string, amount decimal.Decimal) (*RefundResult, error) {
	// Sandbox transactions are never captured, so there is nothing to refund.
	return &RefundResult{Success: true, RefundID: "midtrans_noop"}, nil
}
