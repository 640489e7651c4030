package payment

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// maxSeenKeys bounds the replay cache; once full it resets, so a key is
// only guaranteed idempotent across retries closer together than the cap.
const maxSeenKeys = 1024

// MockGateway approves charges without contacting anything. Latency and
// FailRate simulate a slow, fallible processor for load and failure testing.
type MockGateway struct {
	Latency  time.Duration
	FailRate float64 // 0.0 never fails, 1.0 always fails

	mu       sync.Mutex
	seenKeys map[string]*ChargeResult
}

func NewMockGateway(latency time.Duration, failRate float64) *MockGateway {
	return &MockGateway{
		Latency:  latency,
		FailRate: failRate,
		seenKeys: make(map[string]*ChargeResult),
	}
}

func (g *MockGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if g.Latency > 0 {
		select {
		case <-time.After(g.Latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	// Same idempotency key, same answer.
	if req.IdempotencyKey != "" {
		if prior, ok := g.seenKeys[req.IdempotencyKey]; ok {
			return prior, nil
		}
	}

	result := &ChargeResult{}
	if g.FailRate > 0 && rand.Float64() < g.FailRate {
		result.FailureReason = "card declined"
		log.Printf("MockGateway.Charge: declined charge of %s", req.Amount.StringFixed(2))
	} else {
		result.Success = true
		result.TransactionID = "mock_" + uuid.New().String()
	}

	if req.IdempotencyKey != "" {
		if len(g.seenKeys) >= maxSeenKeys {
			g.seenKeys = make(map[string]*ChargeResult)
		}
		g.seenKeys[req.IdempotencyKey] = result
	}
	return result, nil
}

func (g *MockGateway) Refund(ctx context.Context, transactionID string, amount decimal.Decimal) (*RefundResult, error) {
	return &RefundResult{
		Success:  true,
		RefundID: "refund_" + uuid.New().String(),
	}, nil
}
