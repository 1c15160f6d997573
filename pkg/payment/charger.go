// Package payment wraps the external payment processor behind the two
// operations the billing core needs: charge a saved token and verify a
// transaction reference.
package payment

import (
	"context"

	"github.com/google/uuid"
)

type ChargeRequest struct {
	AccountId   uuid.UUID
	Token       string
	Amount      float64
	OrderId     string
	Description string
}

type ChargeResult struct {
	TransactionId     string
	ProviderReference string
}

type Charger interface {
	// ChargeSavedMethod performs a blocking charge against a stored token.
	// The call is bounded by ctx; a timeout is a failure, never a success.
	ChargeSavedMethod(ctx context.Context, req ChargeRequest) (*ChargeResult, error)

	// VerifyTransaction confirms a gateway transaction reference resolves to
	// a settled payment. Used as the payment proof on explicit upgrades.
	VerifyTransaction(ctx context.Context, transactionId string) (*ChargeResult, error)
}
