package payment

import (
	"context"
	"math"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"

	"github.com/emiflair/wazhop/internal/apperrors"
)

// MidtransCharger implements Charger on the Midtrans Core API.
type MidtransCharger struct {
	client coreapi.Client
}

func NewMidtransCharger(serverKey string, production bool) *MidtransCharger {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	var c coreapi.Client
	c.New(serverKey, env)
	return &MidtransCharger{client: c}
}

type chargeOutcome struct {
	res *coreapi.ChargeResponse
	err *midtrans.Error
}

func (m *MidtransCharger) ChargeSavedMethod(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	chargeReq := &coreapi.ChargeReq{
		PaymentType: coreapi.PaymentTypeCreditCard,
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.OrderId,
			GrossAmt: int64(math.Round(req.Amount)),
		},
		CreditCard: &coreapi.CreditCardDetails{
			TokenID: req.Token,
		},
	}

	// The midtrans client has no context support; run the blocking call on
	// the side and honor the deadline ourselves. A timed-out charge counts
	// as a failure for this cycle even if the gateway later settles it.
	done := make(chan chargeOutcome, 1)
	go func() {
		res, err := m.client.ChargeTransaction(chargeReq)
		done <- chargeOutcome{res: res, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, apperrors.Payment(ctx.Err(), "charge timed out for order %s", req.OrderId)
	case out := <-done:
		if out.err != nil {
			return nil, apperrors.Payment(out.err, "charge declined for order %s", req.OrderId)
		}
		switch out.res.TransactionStatus {
		case "capture", "settlement":
			return &ChargeResult{
				TransactionId:     out.res.TransactionID,
				ProviderReference: out.res.OrderID,
			}, nil
		default:
			return nil, apperrors.Payment(nil, "charge not settled (status=%s) for order %s",
				out.res.TransactionStatus, req.OrderId)
		}
	}
}

func (m *MidtransCharger) VerifyTransaction(ctx context.Context, transactionId string) (*ChargeResult, error) {
	type checkOutcome struct {
		res *coreapi.TransactionStatusResponse
		err *midtrans.Error
	}
	done := make(chan checkOutcome, 1)
	go func() {
		res, err := m.client.CheckTransaction(transactionId)
		done <- checkOutcome{res: res, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, apperrors.Payment(ctx.Err(), "verification timed out for transaction %s", transactionId)
	case out := <-done:
		if out.err != nil {
			return nil, apperrors.Payment(out.err, "verification failed for transaction %s", transactionId)
		}
		switch out.res.TransactionStatus {
		case "capture", "settlement":
			return &ChargeResult{
				TransactionId:     out.res.TransactionID,
				ProviderReference: out.res.OrderID,
			}, nil
		default:
			return nil, apperrors.Payment(nil, "transaction %s not settled (status=%s)",
				transactionId, out.res.TransactionStatus)
		}
	}
}
