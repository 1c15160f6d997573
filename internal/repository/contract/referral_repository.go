package contract

import (
	"context"

	"github.com/emiflair/wazhop/internal/entity"
	"github.com/emiflair/wazhop/internal/repository/specification"
)

type ReferralRepository interface {
	// Referral records
	CreateRecord(ctx context.Context, record *entity.ReferralRecord) error
	UpdateRecord(ctx context.Context, record *entity.ReferralRecord) error
	FindOneRecord(ctx context.Context, specs ...specification.Specification) (*entity.ReferralRecord, error)
	FindAllRecords(ctx context.Context, specs ...specification.Specification) ([]*entity.ReferralRecord, error)

	// Payout requests
	CreatePayout(ctx context.Context, payout *entity.PayoutRequest) error
	FindOnePayout(ctx context.Context, specs ...specification.Specification) (*entity.PayoutRequest, error)
	FindAllPayouts(ctx context.Context, specs ...specification.Specification) ([]*entity.PayoutRequest, error)
}
