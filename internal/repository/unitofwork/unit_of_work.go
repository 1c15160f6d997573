package unitofwork

import (
	"context"

	"github.com/emiflair/wazhop/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	AccountRepository() contract.AccountRepository
	ReferralRepository() contract.ReferralRepository
	ShopRepository() contract.ShopRepository
}
